package models

// MConfig Structure
type MConfig struct {
	Name      string           `yaml:"name"`
	Host      string           `yaml:"host"`
	Port      int              `yaml:"port"`
	LogLevel  string           `yaml:"log_level"`
	Engine    MEngineConfig    `yaml:"engine"`
	Calendar  MCalendarConfig  `yaml:"calendar"`
	Audit     MAuditConfig     `yaml:"audit"`
	Simulator MSimulatorConfig `yaml:"simulator"`
}

type MEngineConfig struct {
	Capacity      int     `yaml:"capacity"`
	WindowSeconds float64 `yaml:"window_seconds"`
	FallbackPrice float64 `yaml:"fallback_price"`
}

type MCalendarConfig struct {
	Timezone       string `yaml:"timezone"`
	MorningOpen    string `yaml:"morning_open"`
	MorningClose   string `yaml:"morning_close"`
	AfternoonOpen  string `yaml:"afternoon_open"`
	AfternoonClose string `yaml:"afternoon_close"`
	HolidayMIC     string `yaml:"holiday_mic"` // Optional, empty disables the holiday overlay
}

type MAuditConfig struct {
	Enabled          bool   `yaml:"enabled"`
	Sink             string `yaml:"sink"` // "csv", "sqlite" or "postgres"
	Path             string `yaml:"path"`
	ConnectionString string `yaml:"connection_string"`
}

type MSimulatorConfig struct {
	Seed           int64   `yaml:"seed"`
	Points         int     `yaml:"points"`
	StartDate      string  `yaml:"start_date"` // YYYY-MM-DD
	StartTime      string  `yaml:"start_time"` // HH:MM:SS
	StartPrice     float64 `yaml:"start_price"`
	MinStepSeconds int     `yaml:"min_step_seconds"`
	MaxStepSeconds int     `yaml:"max_step_seconds"`
}
