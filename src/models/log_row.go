package models

// Session labels
const (
	SessionMorning   = "morning"
	SessionAfternoon = "afternoon"
)

// Point classification
const (
	PointOriginal = "original"
	PointFilled   = "filled"
)

// Cross-boundary tags
const (
	CrossNone    = "same-day-same-session"
	CrossSession = "cross-session"
	CrossDay     = "cross-day"
)

// -----------------------------------------------------------------------------

// MLogRow is one audit row derived per Get() call.
// Rows are ephemeral: they are handed to the audit sink and not retained.
type MLogRow struct {
	Index      int     `json:"index"`
	Timestamp  float64 `json:"timestamp"`
	Datetime   string  `json:"datetime"`
	GapSeconds float64 `json:"gap_seconds"`
	Session    string  `json:"session"`
	IsTrading  bool    `json:"is_trading"`
	Price      float64 `json:"price"`
	SMA        float64 `json:"sma"`
	PointType  string  `json:"point_type"`
	CrossTag   string  `json:"cross_tag"`
}
