package models

// -----------------------------------------------------------------------------
// Server State Structure
// -----------------------------------------------------------------------------

type MLatestData struct {
	Type        string  `json:"type"` // "INITIAL" or "UPDATE"
	Timestamp   float64 `json:"timestamp"`
	Datetime    string  `json:"datetime"`
	Price       float64 `json:"price"`
	SMA         float64 `json:"sma"`
	Session     string  `json:"session"`
	IsTrading   bool    `json:"is_trading"`
	SampleCount int     `json:"sample_count"`
}
