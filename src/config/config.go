package config

import (
	"fmt"
	"os"
	"time"

	"sma-observer/src/models"
	"sma-observer/src/utils"

	"gopkg.in/yaml.v3"
)

// -----------------------------------------------------------------------------

// Config wraps models.MConfig and provides business logic methods
type Config struct {
	*models.MConfig
}

// -----------------------------------------------------------------------------

// NewConfig creates a new MConfig instance from YAML file
func NewConfig(configPath string) (*Config, error) {
	// 1. Read the YAML file content
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file '%s': %w", configPath, err)
	}

	// 2. Unmarshal data into the models struct
	var modelConfig models.MConfig
	if err := yaml.Unmarshal(data, &modelConfig); err != nil {
		return nil, fmt.Errorf("failed to parse config from YAML: %w", err)
	}

	config := &Config{MConfig: &modelConfig}
	config.applyDefaults()

	// 3. Validate the loaded configuration
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return config, nil
}

// -----------------------------------------------------------------------------

// applyDefaults fills unset optional values.
func (c *Config) applyDefaults() {
	if c.Engine.FallbackPrice == 0 {
		c.Engine.FallbackPrice = utils.DefaultFallbackPrice
	}
	if c.Audit.Sink == "" {
		c.Audit.Sink = "csv"
	}
	if c.Simulator.Points == 0 {
		c.Simulator.Points = 20
	}
	if c.Simulator.StartPrice == 0 {
		c.Simulator.StartPrice = utils.DefaultFallbackPrice
	}
	if c.Simulator.MinStepSeconds == 0 {
		c.Simulator.MinStepSeconds = 30
	}
	if c.Simulator.MaxStepSeconds == 0 {
		c.Simulator.MaxStepSeconds = 600
	}
}

// -----------------------------------------------------------------------------

// Validate performs basic configuration validation
func (c *Config) Validate() error {
	if c.Name == "" {
		return fmt.Errorf("application name cannot be empty")
	}

	// Server configuration: port 0 disables the observation server
	if c.Port != 0 && (c.Port <= 1024 || c.Port > 65535) {
		return fmt.Errorf("invalid server port number: %d (must be between 1025 and 65535)", c.Port)
	}
	if c.Port != 0 && c.Host == "" {
		return fmt.Errorf("server host cannot be empty when a port is set")
	}

	// Engine preconditions
	if c.Engine.Capacity < 1 {
		return fmt.Errorf("engine capacity must be at least 1, got %d", c.Engine.Capacity)
	}
	if c.Engine.WindowSeconds <= 0 {
		return fmt.Errorf("engine window must be greater than 0 seconds, got %v", c.Engine.WindowSeconds)
	}
	if c.Engine.FallbackPrice <= 0 {
		return fmt.Errorf("fallback price must be positive, got %v", c.Engine.FallbackPrice)
	}

	// Calendar configuration
	if err := c.validateCalendar(); err != nil {
		return err
	}

	// Audit configuration
	if c.Audit.Enabled {
		switch c.Audit.Sink {
		case "csv", "sqlite":
			if c.Audit.Path == "" {
				return fmt.Errorf("audit path cannot be empty for %s sink", c.Audit.Sink)
			}
		case "postgres":
			if c.Audit.ConnectionString == "" {
				return fmt.Errorf("audit connection string cannot be empty for postgres sink")
			}
		default:
			return fmt.Errorf("unsupported audit sink: %s", c.Audit.Sink)
		}
	}

	// Simulator configuration
	if c.Simulator.Points < 1 {
		return fmt.Errorf("simulator points must be at least 1, got %d", c.Simulator.Points)
	}
	if c.Simulator.MinStepSeconds < 1 || c.Simulator.MaxStepSeconds < c.Simulator.MinStepSeconds {
		return fmt.Errorf("simulator step range [%d,%d] is invalid",
			c.Simulator.MinStepSeconds, c.Simulator.MaxStepSeconds)
	}
	if c.Simulator.StartDate != "" {
		d, err := time.Parse("2006-01-02", c.Simulator.StartDate)
		if err != nil {
			return fmt.Errorf("invalid simulator start date '%s': %w", c.Simulator.StartDate, err)
		}
		if wd := d.Weekday(); wd == time.Saturday || wd == time.Sunday {
			return fmt.Errorf("simulator start date %s falls on a weekend", c.Simulator.StartDate)
		}
	}
	if c.Simulator.StartTime != "" {
		if _, err := utils.ParseClock(c.Simulator.StartTime); err != nil {
			return fmt.Errorf("invalid simulator start time: %w", err)
		}
	}

	return nil
}

// -----------------------------------------------------------------------------

func (c *Config) validateCalendar() error {
	hours := utils.DefaultSessionHours()
	clocks := []struct {
		name   string
		value  string
		target *int
	}{
		{"morning_open", c.Calendar.MorningOpen, &hours.MorningOpen},
		{"morning_close", c.Calendar.MorningClose, &hours.MorningClose},
		{"afternoon_open", c.Calendar.AfternoonOpen, &hours.AfternoonOpen},
		{"afternoon_close", c.Calendar.AfternoonClose, &hours.AfternoonClose},
	}
	for _, clk := range clocks {
		if clk.value == "" {
			continue
		}
		sec, err := utils.ParseClock(clk.value)
		if err != nil {
			return fmt.Errorf("calendar %s: %w", clk.name, err)
		}
		*clk.target = sec
	}

	if !(hours.MorningOpen < hours.MorningClose &&
		hours.MorningClose < hours.AfternoonOpen &&
		hours.AfternoonOpen < hours.AfternoonClose) {
		return fmt.Errorf("calendar sessions must be ordered: morning open < morning close < afternoon open < afternoon close")
	}

	if c.Calendar.Timezone != "" {
		if _, err := time.LoadLocation(c.Calendar.Timezone); err != nil {
			return fmt.Errorf("invalid calendar timezone '%s': %w", c.Calendar.Timezone, err)
		}
	}

	return nil
}

// -----------------------------------------------------------------------------

// Save persists the current configuration to the specified YAML file path
func (c *Config) Save(configPath string) error {
	// 1. Marshal the struct to YAML
	data, err := yaml.Marshal(c.MConfig)
	if err != nil {
		return fmt.Errorf("failed to marshal config to YAML: %w", err)
	}

	// 2. Write to file (0644 permissions)
	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config to file '%s': %w", configPath, err)
	}

	return nil
}
