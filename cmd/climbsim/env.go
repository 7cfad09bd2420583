package main

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// hostConfig is read from CLIMBSIM_* environment variables.
type hostConfig struct {
	TuningPath   string `env:"TUNING"   envDefault:"example/tuning.yaml"`
	LevelPath    string `env:"LEVEL"    envDefault:"example/level.yaml"`
	ScenarioPath string `env:"SCENARIO" envDefault:"example/scenario.yaml"`
	WatchTuning  bool   `env:"WATCH_TUNING"`

	TickRate int           `env:"TICK_RATE" envDefault:"60"`
	Duration time.Duration `env:"DURATION"  envDefault:"10s"`
	Realtime bool          `env:"REALTIME"`
	Workers  int           `env:"WORKERS"`

	LogLevel  string `env:"LOG_LEVEL"  envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"text"`
	// DebugProbes logs every probe issued by characters at debug level.
	DebugProbes bool `env:"DEBUG_PROBES"`

	RecordPath string `env:"RECORD"`
	SentryDSN  string `env:"SENTRY_DSN"`
	PprofAddr  string `env:"PPROF_ADDR" envDefault:"localhost:8080"`
}

func parseHostConfig() (hostConfig, error) {
	var cfg hostConfig
	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: "CLIMBSIM_"}); err != nil {
		return hostConfig{}, fmt.Errorf("parse env: %w", err)
	}
	if cfg.TickRate <= 0 {
		return hostConfig{}, fmt.Errorf("tick rate must be positive, got %d", cfg.TickRate)
	}
	return cfg, nil
}

// steps returns the number of fixed steps covering the configured duration.
func (c hostConfig) steps() int64 {
	return int64(c.Duration.Seconds() * float64(c.TickRate))
}

func (c hostConfig) dt() float64 {
	return 1 / float64(c.TickRate)
}

func (c hostConfig) logger(w io.Writer) (*slog.Logger, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}
	if c.DebugProbes {
		level = min(level, slog.LevelDebug)
	}
	opts := &slog.HandlerOptions{Level: level}
	switch strings.ToLower(c.LogFormat) {
	case "json":
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	case "text", "":
		return slog.New(slog.NewTextHandler(w, opts)), nil
	}
	return nil, fmt.Errorf("unknown log format %q", c.LogFormat)
}
