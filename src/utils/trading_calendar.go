package utils

import (
	"fmt"
	"time"

	"sma-observer/src/models"

	"github.com/scmhub/calendar"
)

// -----------------------------------------------------------------------------
// SessionHours
// -----------------------------------------------------------------------------

// SessionHours is the immutable two-session schedule, in seconds of day.
// Both session ends are inclusive.
type SessionHours struct {
	MorningOpen    int
	MorningClose   int
	AfternoonOpen  int
	AfternoonClose int
}

// DefaultSessionHours returns the standard 09:30-11:30 / 13:00-15:00 schedule.
func DefaultSessionHours() SessionHours {
	return SessionHours{
		MorningOpen:    DefaultMorningOpen,
		MorningClose:   DefaultMorningClose,
		AfternoonOpen:  DefaultAfternoonOpen,
		AfternoonClose: DefaultAfternoonClose,
	}
}

// -----------------------------------------------------------------------------

// ParseClock converts "HH:MM:SS" into seconds of day.
func ParseClock(s string) (int, error) {
	t, err := time.Parse("15:04:05", s)
	if err != nil {
		return 0, fmt.Errorf("invalid clock value '%s': %w", s, err)
	}
	return t.Hour()*3600 + t.Minute()*60 + t.Second(), nil
}

// -----------------------------------------------------------------------------
// TradingCalendar
// -----------------------------------------------------------------------------

// TradingCalendar answers trading-instant questions for a weekday-only
// two-session schedule. An optional scmhub/calendar overlay additionally
// excludes exchange holidays; it is nil by default so the plain weekday
// schedule is the reference behavior.
type TradingCalendar struct {
	Hours    SessionHours
	Timezone *time.Location
	Holidays *calendar.Calendar
}

// -----------------------------------------------------------------------------

// NewTradingCalendar creates a calendar with the given schedule and timezone.
func NewTradingCalendar(hours SessionHours, loc *time.Location) *TradingCalendar {
	if loc == nil {
		loc = time.Local
	}
	return &TradingCalendar{Hours: hours, Timezone: loc}
}

// -----------------------------------------------------------------------------

// NewTradingCalendarFromConfig builds a calendar from the YAML config block.
// Empty clock values fall back to the default schedule.
func NewTradingCalendarFromConfig(cfg models.MCalendarConfig) (*TradingCalendar, error) {
	loc := time.Local
	if cfg.Timezone != "" {
		var err error
		loc, err = time.LoadLocation(cfg.Timezone)
		if err != nil {
			return nil, fmt.Errorf("failed to load timezone '%s': %w", cfg.Timezone, err)
		}
	}

	hours := DefaultSessionHours()
	clocks := []struct {
		value  string
		target *int
	}{
		{cfg.MorningOpen, &hours.MorningOpen},
		{cfg.MorningClose, &hours.MorningClose},
		{cfg.AfternoonOpen, &hours.AfternoonOpen},
		{cfg.AfternoonClose, &hours.AfternoonClose},
	}
	for _, c := range clocks {
		if c.value == "" {
			continue
		}
		sec, err := ParseClock(c.value)
		if err != nil {
			return nil, err
		}
		*c.target = sec
	}

	tc := NewTradingCalendar(hours, loc)

	// Optional exchange-holiday overlay (see scmhub/calendar for MIC codes)
	if cfg.HolidayMIC != "" {
		cal := calendar.GetCalendar(cfg.HolidayMIC)
		if cal == nil {
			return nil, fmt.Errorf("unknown calendar MIC '%s'", cfg.HolidayMIC)
		}
		tc.Holidays = cal
	}

	return tc, nil
}

// -----------------------------------------------------------------------------

// At converts an epoch timestamp to wall time in the calendar's timezone.
func (tc *TradingCalendar) At(ts float64) time.Time {
	sec := int64(ts)
	nsec := int64((ts - float64(sec)) * 1e9)
	return time.Unix(sec, nsec).In(tc.Timezone)
}

// -----------------------------------------------------------------------------

// IsTradingDay reports whether the date of t is a weekday (and, with the
// holiday overlay enabled, a business day).
func (tc *TradingCalendar) IsTradingDay(t time.Time) bool {
	wd := t.Weekday()
	if wd == time.Saturday || wd == time.Sunday {
		return false
	}
	if tc.Holidays != nil && !tc.Holidays.IsBusinessDay(t) {
		return false
	}
	return true
}

// -----------------------------------------------------------------------------

// IsTradingInstant reports whether ts lies inside one of the two sessions.
func (tc *TradingCalendar) IsTradingInstant(ts float64) bool {
	t := tc.At(ts)
	if !tc.IsTradingDay(t) {
		return false
	}

	tod := float64(t.Hour()*3600+t.Minute()*60+t.Second()) + float64(t.Nanosecond())/1e9
	h := tc.Hours
	return (tod >= float64(h.MorningOpen) && tod <= float64(h.MorningClose)) ||
		(tod >= float64(h.AfternoonOpen) && tod <= float64(h.AfternoonClose))
}

// -----------------------------------------------------------------------------

// PreviousSessionClose returns the nearest earlier session-close boundary for
// a non-trading instant, so callers can skip dead time instead of scanning
// second by second. The second return value is false when ts is outside the
// two jump regions; callers must also verify the target is strictly earlier
// than their cursor before jumping.
func (tc *TradingCalendar) PreviousSessionClose(ts float64) (float64, bool) {
	t := tc.At(ts)
	hour := t.Hour()
	h := tc.Hours

	// Midday break region: jump back to the same day's morning close.
	if hour >= h.MorningClose/3600 && hour < h.AfternoonOpen/3600 {
		return tc.timestampAt(t, h.MorningClose), true
	}

	// Overnight / pre-open region: jump to the previous trading day's close.
	if hour < h.MorningOpen/3600 || hour >= h.AfternoonClose/3600 {
		day := t.AddDate(0, 0, -1)
		for !tc.IsTradingDay(day) {
			day = day.AddDate(0, 0, -1)
		}
		return tc.timestampAt(day, h.AfternoonClose), true
	}

	return 0, false
}

// -----------------------------------------------------------------------------

// NextTradingInstant aligns ts forward onto the nearest trading instant.
// Used by the synthetic generator to keep timestamps inside sessions.
func (tc *TradingCalendar) NextTradingInstant(ts float64) float64 {
	if tc.IsTradingInstant(ts) {
		return ts
	}

	t := tc.At(ts)
	h := tc.Hours

	if tc.IsTradingDay(t) {
		tod := t.Hour()*3600 + t.Minute()*60 + t.Second()
		if tod < h.MorningOpen {
			return tc.timestampAt(t, h.MorningOpen)
		}
		if tod > h.MorningClose && tod < h.AfternoonOpen {
			return tc.timestampAt(t, h.AfternoonOpen)
		}
	}

	day := t.AddDate(0, 0, 1)
	for !tc.IsTradingDay(day) {
		day = day.AddDate(0, 0, 1)
	}
	return tc.timestampAt(day, h.MorningOpen)
}

// -----------------------------------------------------------------------------

// SessionLabel classifies ts as morning or afternoon by wall-clock hour.
func (tc *TradingCalendar) SessionLabel(ts float64) string {
	if tc.At(ts).Hour() < 12 {
		return models.SessionMorning
	}
	return models.SessionAfternoon
}

// -----------------------------------------------------------------------------

// MorningCloseOn returns that day's morning close instant.
func (tc *TradingCalendar) MorningCloseOn(ts float64) float64 {
	return tc.timestampAt(tc.At(ts), tc.Hours.MorningClose)
}

// AfternoonOpenOn returns that day's afternoon open instant.
func (tc *TradingCalendar) AfternoonOpenOn(ts float64) float64 {
	return tc.timestampAt(tc.At(ts), tc.Hours.AfternoonOpen)
}

// -----------------------------------------------------------------------------

// Format renders ts as a local datetime string for audit rows.
func (tc *TradingCalendar) Format(ts float64) string {
	return tc.At(ts).Format(DatetimeLayout)
}

// -----------------------------------------------------------------------------

// timestampAt returns the epoch timestamp of secOfDay on the date of t.
func (tc *TradingCalendar) timestampAt(t time.Time, secOfDay int) float64 {
	d := time.Date(t.Year(), t.Month(), t.Day(),
		secOfDay/3600, (secOfDay%3600)/60, secOfDay%60, 0, tc.Timezone)
	return float64(d.Unix())
}
