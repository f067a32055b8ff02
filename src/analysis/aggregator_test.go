package analysis

import (
	"testing"
	"time"

	"sma-observer/src/models"
	"sma-observer/src/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 2025-04-04 is a Friday, 2025-04-07 a Monday.

func testCalendar() *utils.TradingCalendar {
	return utils.NewTradingCalendar(utils.DefaultSessionHours(), time.UTC)
}

func utcTs(day, hour, min, sec int) float64 {
	return float64(time.Date(2025, 4, day, hour, min, sec, 0, time.UTC).Unix())
}

// -----------------------------------------------------------------------------

func TestComputeSingleSampleAtWindowEdge(t *testing.T) {
	// One sample a minute after the open, window reaching exactly back to the
	// open. Every earlier instant predates the data horizon, so only the
	// sample itself contributes and the SMA equals its price.
	agg := NewWindowAggregator(testCalendar(), 60, 100)
	samples := []models.MSample{{Timestamp: utcTs(4, 9, 31, 0), Price: 100}}

	sma, _ := agg.Compute(utcTs(4, 9, 31, 0), samples, false)
	assert.InDelta(t, 100.0, sma, 1e-9)
}

// -----------------------------------------------------------------------------

func TestComputeForwardFillWithinSession(t *testing.T) {
	// Two samples five seconds apart, window of ten seconds: five seconds at
	// 100 and one at 101 land inside the session.
	agg := NewWindowAggregator(testCalendar(), 10, 100)
	samples := []models.MSample{
		{Timestamp: utcTs(4, 9, 30, 0), Price: 100},
		{Timestamp: utcTs(4, 9, 30, 5), Price: 101},
	}

	sma, _ := agg.Compute(utcTs(4, 9, 30, 5), samples, false)
	assert.InDelta(t, 601.0/6.0, sma, 1e-9)
}

// -----------------------------------------------------------------------------

func TestComputeAfternoonContinuation(t *testing.T) {
	// Query 30s after the afternoon open with a 120s window. The primary walk
	// collects only the 31 afternoon instants before hitting the window
	// start, then the continuation resumes at the morning close for the
	// remaining 89 points, all forward-filled from the 11:00 sample.
	agg := NewWindowAggregator(testCalendar(), 120, 100)
	samples := []models.MSample{
		{Timestamp: utcTs(4, 11, 0, 0), Price: 100},
		{Timestamp: utcTs(4, 13, 0, 30), Price: 102},
	}

	sma, rows := agg.Compute(utcTs(4, 13, 0, 30), samples, true)
	assert.InDelta(t, 12002.0/120.0, sma, 1e-9)
	assert.Len(t, rows, 120)
}

// -----------------------------------------------------------------------------

func TestComputeSkipsWeekend(t *testing.T) {
	// Window spans from Monday morning back into Friday afternoon. Saturday
	// and Sunday contribute nothing; instants before the Friday sample
	// resolve to the horizon sentinel and are excluded from the average.
	agg := NewWindowAggregator(testCalendar(), 240000, 100)
	samples := []models.MSample{
		{Timestamp: utcTs(4, 14, 59, 0), Price: 100},
		{Timestamp: utcTs(7, 9, 30, 10), Price: 102},
	}

	sma, _ := agg.Compute(utcTs(7, 9, 30, 10), samples, false)

	// 11 Monday points (1 at 102, 10 filled at 100) plus 61 Friday points
	// from the close back to the sample.
	assert.InDelta(t, 7202.0/72.0, sma, 1e-9)
}

// -----------------------------------------------------------------------------

func TestComputeEmptySeriesUsesFallback(t *testing.T) {
	// No samples at all: every trading instant resolves to the fallback.
	agg := NewWindowAggregator(testCalendar(), 30, 42)

	sma, _ := agg.Compute(utcTs(4, 10, 0, 0), nil, false)
	assert.InDelta(t, 42.0, sma, 1e-9)
}

// -----------------------------------------------------------------------------

func TestComputeRowSequence(t *testing.T) {
	agg := NewWindowAggregator(testCalendar(), 10, 100)
	samples := []models.MSample{
		{Timestamp: utcTs(4, 9, 30, 0), Price: 100},
		{Timestamp: utcTs(4, 9, 30, 5), Price: 101},
	}
	now := utcTs(4, 9, 30, 5)

	sma, rows := agg.Compute(now, samples, true)
	require.NotEmpty(t, rows)

	for i, r := range rows {
		assert.Equal(t, i+1, r.Index)
		assert.True(t, r.IsTrading)
		assert.Equal(t, models.SessionMorning, r.Session)
		assert.Equal(t, models.CrossNone, r.CrossTag)
		assert.InDelta(t, now-r.Timestamp, r.GapSeconds, 1e-9)
	}

	// The first row is the query instant itself, an original sample.
	assert.Equal(t, now, rows[0].Timestamp)
	assert.Equal(t, models.PointOriginal, rows[0].PointType)
	assert.InDelta(t, sma, rows[0].SMA, 1e-9)

	// Interior seconds between the two samples are forward-filled.
	assert.Equal(t, models.PointFilled, rows[1].PointType)
	assert.Equal(t, 100.0, rows[1].Price)
}

// -----------------------------------------------------------------------------

func TestComputeRowCrossTags(t *testing.T) {
	// The afternoon continuation pulls in morning instants, so every row is
	// tagged as crossing a session but the day never changes.
	agg := NewWindowAggregator(testCalendar(), 120, 100)
	samples := []models.MSample{
		{Timestamp: utcTs(4, 11, 0, 0), Price: 100},
		{Timestamp: utcTs(4, 13, 0, 30), Price: 102},
	}

	_, rows := agg.Compute(utcTs(4, 13, 0, 30), samples, true)
	require.NotEmpty(t, rows)

	for _, r := range rows {
		assert.Equal(t, models.CrossSession, r.CrossTag)
	}
}

// -----------------------------------------------------------------------------

func TestComputeRowsBeforeHorizonCarryNoSMA(t *testing.T) {
	// A window reaching before the earliest sample yields sentinel rows with
	// price 0 and no SMA attribution.
	agg := NewWindowAggregator(testCalendar(), 60, 100)
	samples := []models.MSample{{Timestamp: utcTs(4, 10, 0, 30), Price: 100}}

	_, rows := agg.Compute(utcTs(4, 10, 0, 30), samples, true)
	require.Len(t, rows, 61)

	last := rows[len(rows)-1]
	assert.Equal(t, 0.0, last.Price)
	assert.Equal(t, 0.0, last.SMA)
}

// -----------------------------------------------------------------------------

func TestBackwardScannerYieldsOnlyTradingInstants(t *testing.T) {
	cal := testCalendar()

	// Start in the midday break: the first yield is the morning close.
	scan := newBackwardScanner(cal, utcTs(4, 12, 30, 0))

	ts, ok := scan.Next()
	require.True(t, ok)
	assert.Equal(t, utcTs(4, 11, 30, 0), ts)

	ts, ok = scan.Next()
	require.True(t, ok)
	assert.Equal(t, utcTs(4, 11, 29, 59), ts)
}

// -----------------------------------------------------------------------------

func TestBackwardScannerJumpsSessionAndDay(t *testing.T) {
	cal := testCalendar()

	// From the afternoon open the next yield crosses the midday break to the
	// morning close of the same day.
	scan := newBackwardScanner(cal, utcTs(4, 13, 0, 0))

	ts, ok := scan.Next()
	require.True(t, ok)
	assert.Equal(t, utcTs(4, 13, 0, 0), ts)

	ts, ok = scan.Next()
	require.True(t, ok)
	assert.Equal(t, utcTs(4, 11, 30, 0), ts)

	// From Monday's open the next yield crosses the weekend to Friday's
	// afternoon close.
	scan = newBackwardScanner(cal, utcTs(7, 9, 30, 0))

	ts, ok = scan.Next()
	require.True(t, ok)
	assert.Equal(t, utcTs(7, 9, 30, 0), ts)

	ts, ok = scan.Next()
	require.True(t, ok)
	assert.Equal(t, utcTs(4, 15, 0, 0), ts)
}
