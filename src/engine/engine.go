package engine

import (
	"fmt"

	"sma-observer/src/analysis"
	"sma-observer/src/interfaces"
	"sma-observer/src/logger"
	"sma-observer/src/models"
	"sma-observer/src/series"
	"sma-observer/src/utils"
)

// -----------------------------------------------------------------------------
// Engine composes the price series, trading calendar and window aggregator
// behind Update/Get. A single logical caller owns an engine; Update and Get
// must be externally serialized.
// -----------------------------------------------------------------------------

type Engine struct {
	Calendar *utils.TradingCalendar
	Logger   *logger.Logger

	series     *series.PriceSeries
	aggregator *analysis.WindowAggregator
	sink       interfaces.IAuditSink

	current float64
	hasData bool
}

// -----------------------------------------------------------------------------

// NewEngine builds an engine. capacity must be >= 1 and window > 0; the
// caller validates its inputs before construction, these checks only reject
// programming errors.
func NewEngine(cfg models.MEngineConfig, cal *utils.TradingCalendar, log *logger.Logger) (*Engine, error) {
	if cfg.Capacity < 1 {
		return nil, fmt.Errorf("engine capacity must be at least 1, got %d", cfg.Capacity)
	}
	if cfg.WindowSeconds <= 0 {
		return nil, fmt.Errorf("engine window must be positive, got %v", cfg.WindowSeconds)
	}

	return &Engine{
		Calendar:   cal,
		Logger:     log,
		series:     series.NewPriceSeries(cfg.Capacity),
		aggregator: analysis.NewWindowAggregator(cal, cfg.WindowSeconds, cfg.FallbackPrice),
	}, nil
}

// -----------------------------------------------------------------------------

// SetAuditSink attaches an audit sink; Get() emits its row sequence there.
// Pass nil to disable auditing.
func (e *Engine) SetAuditSink(sink interfaces.IAuditSink) {
	e.sink = sink
}

// -----------------------------------------------------------------------------

// Update records a new observed sample and advances "now" to its timestamp.
func (e *Engine) Update(timestamp, price float64) {
	e.current = timestamp
	e.hasData = true
	e.series.Update(timestamp, price)
}

// -----------------------------------------------------------------------------

// Get computes the SMA over the trailing window ending at the most recent
// update. It returns 0 when no update has occurred or no valid trading
// second falls inside the window; that is a "no data" result, not a fault.
func (e *Engine) Get() float64 {
	if !e.hasData {
		return 0
	}

	collect := e.sink != nil
	sma, rows := e.aggregator.Compute(e.current, e.series.Samples(), collect)

	// Audit emission is fire-and-forget: a sink failure is logged, never
	// propagated into the result.
	if collect && len(rows) > 0 {
		if err := e.sink.WriteRows(rows); err != nil {
			e.Logger.Error("audit sink write failed: %v", err)
		}
	}

	return sma
}

// -----------------------------------------------------------------------------

// IsTradingInstant reports whether ts falls inside a trading session.
func (e *Engine) IsTradingInstant(ts float64) bool {
	return e.Calendar.IsTradingInstant(ts)
}

// -----------------------------------------------------------------------------

// Samples returns a snapshot of the retained series.
func (e *Engine) Samples() []models.MSample {
	return e.series.Samples()
}

// -----------------------------------------------------------------------------

// SampleCount returns the number of retained samples.
func (e *Engine) SampleCount() int {
	return e.series.Size()
}

// -----------------------------------------------------------------------------

// CurrentTimestamp returns the timestamp of the most recent update; ok is
// false before the first update.
func (e *Engine) CurrentTimestamp() (float64, bool) {
	return e.current, e.hasData
}
