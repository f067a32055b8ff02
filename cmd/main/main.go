package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"sma-observer/src/config"
	"sma-observer/src/engine"
	"sma-observer/src/helpers"
	"sma-observer/src/interfaces"
	"sma-observer/src/logger"
	"sma-observer/src/models"
	"sma-observer/src/server"
	"sma-observer/src/simulator"
	"sma-observer/src/storage"
	"sma-observer/src/utils"
)

// -----------------------------------------------------------------------------

func main() {

	// Parse command line flags
	configPath := flag.String("config", "config/default.yaml", "path to config file")
	interactive := flag.Bool("interactive", false, "prompt for parameters and step through points")
	flag.Parse()

	// Load config from YAML file
	cfg, err := config.NewConfig(*configPath)
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		os.Exit(1)
	}

	// Setup logger
	appLogger := logger.NewLogger(cfg.LogLevel, cfg.Name)

	// Interactive parameter collection overrides the config values
	if *interactive {
		if err := promptParameters(cfg); err != nil {
			appLogger.Critical("Parameter collection failed: %v", err)
		}
	}

	// 2. Setup Components
	cal, err := utils.NewTradingCalendarFromConfig(cfg.Calendar)
	if err != nil {
		appLogger.Critical("Failed to build trading calendar: %v", err)
	}

	eng, err := engine.NewEngine(cfg.Engine, cal, appLogger)
	if err != nil {
		appLogger.Critical("Failed to build engine: %v", err)
	}

	// 3. Audit sink
	if cfg.Audit.Enabled {
		var sink interfaces.IAuditSink

		switch cfg.Audit.Sink {
		case "sqlite":
			sink = storage.NewSQLiteAuditSink(cfg.Audit.Path, appLogger)
		case "postgres":
			sink, err = storage.NewPostgresAuditSink(cfg.Audit.ConnectionString, appLogger)
			if err != nil {
				appLogger.Critical("Failed to init postgres sink: %v", err)
			}
		default:
			sink = storage.NewCSVAuditSink(cfg.Audit.Path, appLogger)
		}

		if err := helpers.RetryWithBackoff("audit sink init", 3, time.Second, sink.Initialize); err != nil {
			appLogger.Critical("Failed to initialize audit sink: %v", err)
		}
		defer sink.Close()
		eng.SetAuditSink(sink)
	}

	// 4. Optional observation server (port 0 disables it)
	var srv interfaces.IDataExchanger
	if cfg.Port != 0 {
		srv = server.NewObserverServer(cfg.MConfig, appLogger, eng)
		go func() {
			if err := srv.Start(); err != nil {
				appLogger.Error("Server failed: %v", err)
			}
		}()
	}

	// 5. Resolve the simulation start instant
	startTs, err := resolveStart(cfg, cal)
	if err != nil {
		appLogger.Critical("Invalid start instant: %v", err)
	}
	if !cal.IsTradingInstant(startTs) {
		aligned := cal.NextTradingInstant(startTs)
		appLogger.Warning("Start %s is outside trading hours, aligned to %s",
			cal.Format(startTs), cal.Format(aligned))
		startTs = aligned
	}

	if cfg.Engine.WindowSeconds > float64(utils.TradingSecondsPerDay) {
		appLogger.Warning("Window of %.0fs spans more than one trading day; Get() latency grows with the window",
			cfg.Engine.WindowSeconds)
	}

	// 6. Generate the synthetic stream
	gen := simulator.NewGenerator(cfg.Simulator, cal)
	data := gen.Generate(startTs)
	appLogger.Info("Generated %d data points", len(data))

	// 7. Feed the engine point by point
	reader := bufio.NewReader(os.Stdin)
	fmt.Printf("%-20s %10s %10s\n", "datetime", "price", "sma")

	for i, pt := range data {
		eng.Update(pt.Timestamp, pt.Price)
		sma := eng.Get()

		fmt.Printf("%-20s %10.2f %10.2f\n", cal.Format(pt.Timestamp), pt.Price, sma)

		if srv != nil {
			srv.Publish(&models.MLatestData{
				Timestamp:   pt.Timestamp,
				Datetime:    cal.Format(pt.Timestamp),
				Price:       pt.Price,
				SMA:         sma,
				Session:     cal.SessionLabel(pt.Timestamp),
				IsTrading:   cal.IsTradingInstant(pt.Timestamp),
				SampleCount: eng.SampleCount(),
			})
		}

		if *interactive && i < len(data)-1 {
			fmt.Print("Press enter for the next point...")
			reader.ReadString('\n')
		}
	}

	appLogger.Info("Processed %d points", len(data))
	if cfg.Audit.Enabled && cfg.Audit.Sink == "csv" {
		appLogger.Info("Audit rows written to %s", cfg.Audit.Path)
	}
}

// -----------------------------------------------------------------------------
// Interactive parameter collection
// -----------------------------------------------------------------------------

func promptParameters(cfg *config.Config) error {
	reader := bufio.NewReader(os.Stdin)

	fmt.Println("===== windowed SMA test run =====")

	cfg.Engine.Capacity = promptInt(reader, "Sample capacity", cfg.Engine.Capacity, func(v int) bool { return v >= 1 })
	cfg.Engine.WindowSeconds = float64(promptInt(reader, "Window size (seconds)", int(cfg.Engine.WindowSeconds), func(v int) bool { return v > 0 }))

	for {
		date := promptString(reader, "Start date (YYYY-MM-DD)", cfg.Simulator.StartDate)
		d, err := time.Parse("2006-01-02", date)
		if err != nil {
			fmt.Println("Invalid date format, expected YYYY-MM-DD")
			continue
		}
		if wd := d.Weekday(); wd == time.Saturday || wd == time.Sunday {
			fmt.Printf("%s is a weekend, pick a weekday\n", date)
			continue
		}
		cfg.Simulator.StartDate = date
		break
	}

	for {
		clock := promptString(reader, "Start time (HH:MM:SS)", cfg.Simulator.StartTime)
		if _, err := utils.ParseClock(clock); err != nil {
			fmt.Println("Invalid time format, expected HH:MM:SS")
			continue
		}
		cfg.Simulator.StartTime = clock
		break
	}

	cfg.Simulator.Points = promptInt(reader, "Number of data points", cfg.Simulator.Points, func(v int) bool { return v >= 1 })
	cfg.Audit.Path = promptString(reader, "Output file path", cfg.Audit.Path)
	cfg.Audit.Enabled = cfg.Audit.Path != ""

	return cfg.Validate()
}

// -----------------------------------------------------------------------------

func promptInt(reader *bufio.Reader, label string, def int, valid func(int) bool) int {
	for {
		fmt.Printf("%s (default %d): ", label, def)
		line, _ := reader.ReadString('\n')
		line = strings.TrimSpace(line)
		if line == "" {
			return def
		}
		v, err := strconv.Atoi(line)
		if err != nil || !valid(v) {
			fmt.Println("Please enter a valid number")
			continue
		}
		return v
	}
}

// -----------------------------------------------------------------------------

func promptString(reader *bufio.Reader, label, def string) string {
	fmt.Printf("%s (default %s): ", label, def)
	line, _ := reader.ReadString('\n')
	line = strings.TrimSpace(line)
	if line == "" {
		return def
	}
	return line
}

// -----------------------------------------------------------------------------

func resolveStart(cfg *config.Config, cal *utils.TradingCalendar) (float64, error) {
	date := cfg.Simulator.StartDate
	if date == "" {
		date = "2025-04-04"
	}
	clock := cfg.Simulator.StartTime
	if clock == "" {
		clock = "09:30:00"
	}

	t, err := time.ParseInLocation(utils.DatetimeLayout, date+" "+clock, cal.Timezone)
	if err != nil {
		return 0, err
	}
	return float64(t.Unix()), nil
}
