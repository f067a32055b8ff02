package analysis

import (
	"strings"

	"sma-observer/src/models"
	"sma-observer/src/series"
	"sma-observer/src/utils"
)

// -----------------------------------------------------------------------------
// WindowAggregator computes the SMA over a trailing window of trading
// seconds, walking backward from the most recent update and skipping the
// midday break, overnight gaps and weekends.
// -----------------------------------------------------------------------------

type WindowAggregator struct {
	Calendar *utils.TradingCalendar
	Window   float64 // trailing window, seconds
	Fallback float64 // assumed starting price for an empty series
}

// -----------------------------------------------------------------------------

func NewWindowAggregator(cal *utils.TradingCalendar, window, fallback float64) *WindowAggregator {
	if fallback <= 0 {
		fallback = utils.DefaultFallbackPrice
	}
	return &WindowAggregator{Calendar: cal, Window: window, Fallback: fallback}
}

// -----------------------------------------------------------------------------

// Compute returns the SMA of resolved prices across all valid trading
// seconds in [now-window, now]. When collectRows is set it also returns the
// ordered audit rows for this call.
//
// A resolved price of zero marks an instant before the data horizon and is
// excluded from the accumulation; it must never be read as a traded price.
func (a *WindowAggregator) Compute(now float64, samples []models.MSample, collectRows bool) (float64, []models.MLogRow) {
	lookup := series.NewPriceLookup(samples)

	lastKnown := a.Fallback
	if len(samples) > 0 {
		lastKnown = samples[len(samples)-1].Price
	}

	sum := 0.0
	count := 0
	var visited []float64

	// Primary walk: backward from now until the window start.
	windowStart := now - a.Window
	scan := newBackwardScanner(a.Calendar, now)
	for {
		ts, ok := scan.Next()
		if !ok || ts < windowStart {
			break
		}
		if price := lookup.ResolvePrice(ts, lastKnown); price > 0 {
			sum += price
			count++
		}
		if collectRows {
			visited = append(visited, ts)
		}
	}

	// Afternoon continuation: a query shortly after the afternoon open may
	// terminate the primary walk with the window barely filled, so resume
	// from that day's morning close and keep collecting until the remaining
	// point budget is spent or time runs out. The trigger compares the point
	// count against the window length in seconds; one trading second yields
	// at most one point, so the budget never overshoots the window.
	if a.Calendar.SessionLabel(now) == models.SessionAfternoon && float64(count) < a.Window {
		remaining := a.Window - float64(count)
		scan = newBackwardScanner(a.Calendar, a.Calendar.MorningCloseOn(now))
		for remaining > 0 {
			ts, ok := scan.Next()
			if !ok {
				break
			}
			if price := lookup.ResolvePrice(ts, lastKnown); price > 0 {
				sum += price
				count++
			}
			if collectRows {
				visited = append(visited, ts)
			}
			remaining--
		}
	}

	sma := 0.0
	if count > 0 {
		sma = sum / float64(count)
	}

	if !collectRows || len(visited) == 0 {
		return sma, nil
	}
	return sma, a.buildRows(visited, lookup, lastKnown, now, sma)
}

// -----------------------------------------------------------------------------

// buildRows derives the audit row sequence for one Compute call: one row per
// visited trading instant, in scan order, classified as an original sample
// or a forward-filled point and tagged when the window crossed a session or
// day boundary.
func (a *WindowAggregator) buildRows(visited []float64, lookup *series.PriceLookup, lastKnown, now, sma float64) []models.MLogRow {
	cal := a.Calendar
	nowDate := cal.At(now).Format("2006-01-02")

	// Boundary detection over the whole window.
	dates := make(map[string]struct{})
	morningPoints := 0
	afternoonPoints := 0
	for _, ts := range visited {
		dates[cal.At(ts).Format("2006-01-02")] = struct{}{}
		if cal.SessionLabel(ts) == models.SessionMorning {
			morningPoints++
		} else {
			afternoonPoints++
		}
	}
	crossDay := len(dates) > 1
	crossSession := morningPoints > 0 && afternoonPoints > 0

	rows := make([]models.MLogRow, 0, len(visited))
	for i, ts := range visited {
		price := lookup.ResolvePrice(ts, lastKnown)
		session := cal.SessionLabel(ts)

		pointType := models.PointFilled
		if gap, ok := lookup.MinGapToSample(ts); ok && gap < utils.ExactMatchTolerance {
			pointType = models.PointOriginal
		}

		var tags []string
		if crossDay && cal.At(ts).Format("2006-01-02") != nowDate {
			tags = append(tags, models.CrossDay)
		}
		if crossSession &&
			((session == models.SessionMorning && afternoonPoints > 0) ||
				(session == models.SessionAfternoon && morningPoints > 0)) {
			tags = append(tags, models.CrossSession)
		}
		crossTag := models.CrossNone
		if len(tags) > 0 {
			crossTag = strings.Join(tags, "+")
		}

		// Zero price marks a point before the data horizon; it carries no SMA.
		rowSMA := sma
		if price <= 0 {
			rowSMA = 0
		}

		rows = append(rows, models.MLogRow{
			Index:      i + 1,
			Timestamp:  ts,
			Datetime:   cal.Format(ts),
			GapSeconds: now - ts,
			Session:    session,
			IsTrading:  cal.IsTradingInstant(ts),
			Price:      price,
			SMA:        rowSMA,
			PointType:  pointType,
			CrossTag:   crossTag,
		})
	}

	return rows
}
