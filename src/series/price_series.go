package series

import (
	"sort"

	"sma-observer/src/models"
)

// -----------------------------------------------------------------------------
// PriceSeries is a bounded ordered store of observed samples.
// When capacity is exceeded it reshapes itself with tiered downsampling:
// old history is kept sparse, recent history dense, so memory stays bounded
// regardless of arrival rate.
// -----------------------------------------------------------------------------

type PriceSeries struct {
	data     []models.MSample
	capacity int
}

// -----------------------------------------------------------------------------

// NewPriceSeries creates an empty series with the given capacity.
func NewPriceSeries(capacity int) *PriceSeries {
	if capacity < 1 {
		capacity = 1
	}
	return &PriceSeries{
		data:     make([]models.MSample, 0, capacity+1),
		capacity: capacity,
	}
}

// -----------------------------------------------------------------------------

// Update appends a new sample and reshapes the series if it grew past
// capacity. Duplicate timestamps are permitted.
func (p *PriceSeries) Update(timestamp, price float64) {
	p.data = append(p.data, models.MSample{Timestamp: timestamp, Price: price})
	if len(p.data) > p.capacity {
		p.downsample()
	}
}

// -----------------------------------------------------------------------------

// downsample reduces the series back to capacity.
// Samples are split by timestamp into early (first 20%), middle (next 30%)
// and recent (remaining 50%) partitions; keep counts derive from capacity
// (10% / 30% / remainder), so the recent tier stays dense. The globally
// newest sample always survives: if selection dropped it, it overwrites the
// last retained slot.
func (p *PriceSeries) downsample() {
	n := len(p.data)

	sorted := make([]models.MSample, n)
	copy(sorted, p.data)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Timestamp < sorted[j].Timestamp
	})

	earlyEnd := n / 5
	midEnd := n / 2

	earlyKeep := p.capacity / 10
	if earlyKeep < 1 {
		earlyKeep = 1
	}
	midKeep := p.capacity * 3 / 10
	if midKeep < 1 {
		midKeep = 1
	}
	recentKeep := p.capacity - earlyKeep - midKeep

	result := make([]models.MSample, 0, p.capacity)
	result = append(result, sampleEvenly(sorted[:earlyEnd], earlyKeep)...)
	result = append(result, sampleEvenly(sorted[earlyEnd:midEnd], midKeep)...)
	result = append(result, sampleEvenly(sorted[midEnd:], recentKeep)...)

	latest := sorted[n-1]
	if !containsSample(result, latest) {
		result[len(result)-1] = latest
	}

	p.data = result
}

// -----------------------------------------------------------------------------

// sampleEvenly selects keep elements from part at evenly spaced indices
// i*len(part)/keep. An empty partition yields an empty selection; a keep
// count larger than the partition repeats elements, matching the retention
// policy's index mapping exactly.
func sampleEvenly(part []models.MSample, keep int) []models.MSample {
	if len(part) == 0 || keep <= 0 {
		return nil
	}

	out := make([]models.MSample, 0, keep)
	for i := 0; i < keep; i++ {
		out = append(out, part[i*len(part)/keep])
	}
	return out
}

// -----------------------------------------------------------------------------

func containsSample(list []models.MSample, s models.MSample) bool {
	for _, c := range list {
		if c.Timestamp == s.Timestamp && c.Price == s.Price {
			return true
		}
	}
	return false
}

// -----------------------------------------------------------------------------

// Samples returns a copy of the stored samples in storage order.
func (p *PriceSeries) Samples() []models.MSample {
	out := make([]models.MSample, len(p.data))
	copy(out, p.data)
	return out
}

// -----------------------------------------------------------------------------

// Last returns the most recently stored sample.
func (p *PriceSeries) Last() (models.MSample, bool) {
	if len(p.data) == 0 {
		return models.MSample{}, false
	}
	return p.data[len(p.data)-1], true
}

// -----------------------------------------------------------------------------

// Size returns the current number of stored samples.
func (p *PriceSeries) Size() int {
	return len(p.data)
}

// -----------------------------------------------------------------------------

// Capacity returns the configured bound.
func (p *PriceSeries) Capacity() int {
	return p.capacity
}
