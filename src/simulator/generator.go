package simulator

import (
	"math/rand"
	"sort"

	"sma-observer/src/models"
	"sma-observer/src/utils"
)

// -----------------------------------------------------------------------------
// Generator produces a synthetic (timestamp, price) stream constrained to
// trading instants: random steps of 30s-10min realigned onto sessions, a
// +-1% random walk on price with a floor near 90. A fixed seed makes runs
// reproducible.
// -----------------------------------------------------------------------------

type Generator struct {
	Calendar *utils.TradingCalendar
	Config   models.MSimulatorConfig

	rng *rand.Rand
}

// -----------------------------------------------------------------------------

func NewGenerator(cfg models.MSimulatorConfig, cal *utils.TradingCalendar) *Generator {
	return &Generator{
		Calendar: cal,
		Config:   cfg,
		rng:      rand.New(rand.NewSource(cfg.Seed)),
	}
}

// -----------------------------------------------------------------------------

// Generate returns Config.Points samples starting at (or forward-aligned
// from) startTs, ordered by timestamp.
func (g *Generator) Generate(startTs float64) []models.MSample {
	cfg := g.Config

	ts := g.Calendar.NextTradingInstant(startTs)
	price := cfg.StartPrice
	if price <= 0 {
		price = utils.DefaultFallbackPrice
	}

	data := make([]models.MSample, 0, cfg.Points)

	// First point is fixed at the aligned start, the rest walk randomly.
	data = append(data, models.MSample{Timestamp: ts, Price: price})

	for i := 1; i < cfg.Points; i++ {
		step := cfg.MinStepSeconds + g.rng.Intn(cfg.MaxStepSeconds-cfg.MinStepSeconds+1)
		ts += float64(step)
		ts = g.Calendar.NextTradingInstant(ts)

		// Price change in [-1%, +1%]
		changePercent := g.rng.Float64()*2 - 1
		price = price * (1 + changePercent/100)

		// Keep the walk from drifting too low
		if price < 90 {
			price = 90 + g.rng.Float64()*10
		}

		data = append(data, models.MSample{Timestamp: ts, Price: price})
	}

	sort.SliceStable(data, func(i, j int) bool {
		return data[i].Timestamp < data[j].Timestamp
	})
	return data
}
