package models

// MSample represents one observed price point.
// Timestamp is real seconds since epoch; fractional seconds are allowed.
type MSample struct {
	Timestamp float64 `json:"timestamp"`
	Price     float64 `json:"price"`
}
