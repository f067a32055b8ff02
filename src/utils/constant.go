package utils

// -----------------------------------------------------------------------------

// Default two-session schedule, expressed in seconds of day.
// Morning 09:30:00-11:30:00, afternoon 13:00:00-15:00:00, both ends inclusive.
const (
	DefaultMorningOpen    = 9*3600 + 30*60
	DefaultMorningClose   = 11*3600 + 30*60
	DefaultAfternoonOpen  = 13 * 3600
	DefaultAfternoonClose = 15 * 3600
)

// TradingSecondsPerDay is the number of tradable seconds in one full day
// under the default schedule (two 2-hour sessions).
const TradingSecondsPerDay = 4 * 3600

const (
	// DefaultFallbackPrice is the assumed starting price when no sample exists.
	DefaultFallbackPrice = 100.0

	// ExactMatchTolerance is the timestamp slack for treating a lookup as an
	// exact hit on a stored sample.
	ExactMatchTolerance = 0.1
)

// DatetimeLayout is the local datetime format used in audit rows.
const DatetimeLayout = "2006-01-02 15:04:05"
