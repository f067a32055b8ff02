package analysis

import (
	"sma-observer/src/utils"
)

// -----------------------------------------------------------------------------
// backwardScanner walks backward in one-second steps from a start instant and
// yields only trading instants. Whenever the cursor lands in dead time it
// jumps to the previous session close instead of scanning thousands of idle
// seconds; the jump is applied only when it moves the cursor strictly
// earlier, which guards against loops at session boundaries.
//
// Both aggregation passes (the primary window walk and the afternoon
// continuation) consume this one scanner with different stop conditions.
// -----------------------------------------------------------------------------

type backwardScanner struct {
	cal     *utils.TradingCalendar
	cursor  float64
	started bool
}

// -----------------------------------------------------------------------------

func newBackwardScanner(cal *utils.TradingCalendar, start float64) *backwardScanner {
	return &backwardScanner{cal: cal, cursor: start}
}

// -----------------------------------------------------------------------------

// Next returns the next trading instant at or before the cursor, moving the
// cursor past it. ok is false once the cursor runs below the epoch.
func (s *backwardScanner) Next() (float64, bool) {
	for {
		if s.started {
			s.advance()
		}
		s.started = true

		if s.cursor < 0 {
			return 0, false
		}
		if s.cal.IsTradingInstant(s.cursor) {
			return s.cursor, true
		}
	}
}

// -----------------------------------------------------------------------------

// advance steps the cursor back one second, then skips ahead over the midday
// break, overnight gaps and weekends when the new position is dead time.
func (s *backwardScanner) advance() {
	s.cursor -= 1

	if s.cursor > 0 && !s.cal.IsTradingInstant(s.cursor) {
		if jump, ok := s.cal.PreviousSessionClose(s.cursor); ok && jump < s.cursor {
			s.cursor = jump
		}
	}
}
