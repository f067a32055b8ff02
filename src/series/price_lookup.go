package series

import (
	"math"
	"sort"

	"sma-observer/src/models"
	"sma-observer/src/utils"
)

// -----------------------------------------------------------------------------
// PriceLookup resolves a price at an arbitrary instant with forward-fill
// semantics: the price between two samples equals the price of the earlier
// one. It is built from a snapshot so a whole window walk pays the sort cost
// once and each resolution is a binary search.
// -----------------------------------------------------------------------------

type PriceLookup struct {
	sorted []models.MSample
}

// -----------------------------------------------------------------------------

// NewPriceLookup builds a lookup over a snapshot of samples.
func NewPriceLookup(samples []models.MSample) *PriceLookup {
	sorted := make([]models.MSample, len(samples))
	copy(sorted, samples)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Timestamp < sorted[j].Timestamp
	})
	return &PriceLookup{sorted: sorted}
}

// -----------------------------------------------------------------------------

// ResolvePrice returns the price at ts.
//   - An exact hit (within the match tolerance) returns that sample's price.
//   - Otherwise the greatest sample timestamp <= ts forward-fills.
//   - An instant before the earliest retained sample resolves to 0. The zero
//     is a "before data horizon" sentinel, never a traded price, and callers
//     must exclude it from aggregation.
//   - An empty lookup returns fallback, the assumed starting price.
func (l *PriceLookup) ResolvePrice(ts, fallback float64) float64 {
	if len(l.sorted) == 0 {
		return fallback
	}

	// First index strictly after ts.
	idx := sort.Search(len(l.sorted), func(i int) bool {
		return l.sorted[i].Timestamp > ts
	})

	// Exact hit: only the floor neighbor and the one after it can be within
	// tolerance of ts.
	if idx > 0 && math.Abs(l.sorted[idx-1].Timestamp-ts) < utils.ExactMatchTolerance {
		return l.sorted[idx-1].Price
	}
	if idx < len(l.sorted) && math.Abs(l.sorted[idx].Timestamp-ts) < utils.ExactMatchTolerance {
		return l.sorted[idx].Price
	}

	if idx == 0 {
		// ts predates all known data
		return 0
	}
	return l.sorted[idx-1].Price
}

// -----------------------------------------------------------------------------

// MinGapToSample returns the distance from ts to the nearest sample
// timestamp, or false when the lookup is empty. Used to classify audit rows
// as original points versus forward-filled ones.
func (l *PriceLookup) MinGapToSample(ts float64) (float64, bool) {
	if len(l.sorted) == 0 {
		return 0, false
	}

	idx := sort.Search(len(l.sorted), func(i int) bool {
		return l.sorted[i].Timestamp > ts
	})

	best := math.Inf(1)
	if idx > 0 {
		best = math.Abs(l.sorted[idx-1].Timestamp - ts)
	}
	if idx < len(l.sorted) {
		if d := math.Abs(l.sorted[idx].Timestamp - ts); d < best {
			best = d
		}
	}
	return best, true
}
