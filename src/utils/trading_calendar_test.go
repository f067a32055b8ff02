package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 2025-04-04 is a Friday, 2025-04-07 a Monday.

func testCalendar() *TradingCalendar {
	return NewTradingCalendar(DefaultSessionHours(), time.UTC)
}

func utcTs(day, hour, min, sec int) float64 {
	return float64(time.Date(2025, 4, day, hour, min, sec, 0, time.UTC).Unix())
}

// -----------------------------------------------------------------------------

func TestParseClock(t *testing.T) {
	sec, err := ParseClock("09:30:00")
	require.NoError(t, err)
	assert.Equal(t, 9*3600+30*60, sec)

	sec, err = ParseClock("15:00:00")
	require.NoError(t, err)
	assert.Equal(t, 15*3600, sec)

	_, err = ParseClock("9h30")
	assert.Error(t, err)
}

// -----------------------------------------------------------------------------

func TestIsTradingInstantSessions(t *testing.T) {
	cal := testCalendar()

	// Session bounds are inclusive on both ends.
	assert.True(t, cal.IsTradingInstant(utcTs(4, 9, 30, 0)))
	assert.True(t, cal.IsTradingInstant(utcTs(4, 11, 30, 0)))
	assert.True(t, cal.IsTradingInstant(utcTs(4, 13, 0, 0)))
	assert.True(t, cal.IsTradingInstant(utcTs(4, 15, 0, 0)))
	assert.True(t, cal.IsTradingInstant(utcTs(4, 10, 15, 33)))

	// Outside the sessions.
	assert.False(t, cal.IsTradingInstant(utcTs(4, 9, 29, 59)))
	assert.False(t, cal.IsTradingInstant(utcTs(4, 11, 30, 1)))
	assert.False(t, cal.IsTradingInstant(utcTs(4, 12, 0, 0)))
	assert.False(t, cal.IsTradingInstant(utcTs(4, 12, 59, 59)))
	assert.False(t, cal.IsTradingInstant(utcTs(4, 15, 0, 1)))
	assert.False(t, cal.IsTradingInstant(utcTs(4, 3, 0, 0)))

	// A fractional second past the close is already outside.
	assert.False(t, cal.IsTradingInstant(utcTs(4, 15, 0, 0)+0.5))
}

// -----------------------------------------------------------------------------

func TestIsTradingInstantWeekend(t *testing.T) {
	cal := testCalendar()

	// Saturday and Sunday, even during session hours.
	assert.False(t, cal.IsTradingInstant(utcTs(5, 10, 0, 0)))
	assert.False(t, cal.IsTradingInstant(utcTs(6, 14, 0, 0)))
	// Monday is trading again.
	assert.True(t, cal.IsTradingInstant(utcTs(7, 10, 0, 0)))
}

// -----------------------------------------------------------------------------

func TestPreviousSessionCloseMiddayBreak(t *testing.T) {
	cal := testCalendar()

	jump, ok := cal.PreviousSessionClose(utcTs(4, 12, 15, 0))
	require.True(t, ok)
	assert.Equal(t, utcTs(4, 11, 30, 0), jump)

	// The 11 o'clock hour past the morning close also jumps to it.
	jump, ok = cal.PreviousSessionClose(utcTs(4, 11, 45, 0))
	require.True(t, ok)
	assert.Equal(t, utcTs(4, 11, 30, 0), jump)
}

// -----------------------------------------------------------------------------

func TestPreviousSessionCloseOvernight(t *testing.T) {
	cal := testCalendar()

	// Early Friday morning jumps to Thursday's afternoon close.
	jump, ok := cal.PreviousSessionClose(utcTs(4, 5, 0, 0))
	require.True(t, ok)
	assert.Equal(t, utcTs(3, 15, 0, 0), jump)

	// After the close the region walks back one calendar day, landing on
	// Thursday's afternoon close.
	jump, ok = cal.PreviousSessionClose(utcTs(4, 18, 0, 0))
	require.True(t, ok)
	assert.Equal(t, utcTs(3, 15, 0, 0), jump)
}

// -----------------------------------------------------------------------------

func TestPreviousSessionCloseSkipsWeekend(t *testing.T) {
	cal := testCalendar()

	// Monday pre-open jumps over Saturday and Sunday to Friday's close.
	jump, ok := cal.PreviousSessionClose(utcTs(7, 8, 0, 0))
	require.True(t, ok)
	assert.Equal(t, utcTs(4, 15, 0, 0), jump)
}

// -----------------------------------------------------------------------------

func TestPreviousSessionCloseInsideSession(t *testing.T) {
	cal := testCalendar()

	// In-session instants are outside both jump regions.
	_, ok := cal.PreviousSessionClose(utcTs(4, 10, 0, 0))
	assert.False(t, ok)
	_, ok = cal.PreviousSessionClose(utcTs(4, 14, 0, 0))
	assert.False(t, ok)
}

// -----------------------------------------------------------------------------

func TestNextTradingInstant(t *testing.T) {
	cal := testCalendar()

	// Already trading stays put.
	assert.Equal(t, utcTs(4, 10, 0, 0), cal.NextTradingInstant(utcTs(4, 10, 0, 0)))

	// Pre-open aligns to the morning open.
	assert.Equal(t, utcTs(4, 9, 30, 0), cal.NextTradingInstant(utcTs(4, 8, 0, 0)))

	// Midday break aligns to the afternoon open.
	assert.Equal(t, utcTs(4, 13, 0, 0), cal.NextTradingInstant(utcTs(4, 12, 0, 0)))

	// Friday evening aligns to Monday's morning open.
	assert.Equal(t, utcTs(7, 9, 30, 0), cal.NextTradingInstant(utcTs(4, 16, 0, 0)))

	// Saturday aligns to Monday's morning open.
	assert.Equal(t, utcTs(7, 9, 30, 0), cal.NextTradingInstant(utcTs(5, 10, 0, 0)))
}

// -----------------------------------------------------------------------------

func TestSessionLabel(t *testing.T) {
	cal := testCalendar()

	assert.Equal(t, "morning", cal.SessionLabel(utcTs(4, 9, 30, 0)))
	assert.Equal(t, "morning", cal.SessionLabel(utcTs(4, 11, 30, 0)))
	assert.Equal(t, "afternoon", cal.SessionLabel(utcTs(4, 13, 0, 0)))
	assert.Equal(t, "afternoon", cal.SessionLabel(utcTs(4, 15, 0, 0)))
}

// -----------------------------------------------------------------------------

func TestSessionBoundariesOn(t *testing.T) {
	cal := testCalendar()

	assert.Equal(t, utcTs(4, 11, 30, 0), cal.MorningCloseOn(utcTs(4, 14, 23, 45)))
	assert.Equal(t, utcTs(4, 13, 0, 0), cal.AfternoonOpenOn(utcTs(4, 9, 31, 0)))
}

// -----------------------------------------------------------------------------

func TestFormat(t *testing.T) {
	cal := testCalendar()
	assert.Equal(t, "2025-04-04 09:31:00", cal.Format(utcTs(4, 9, 31, 0)))
}
