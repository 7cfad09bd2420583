package main

import (
	"bytes"
	"strings"
	"testing"
	"time"
)

func TestParseHostConfigDefaults(t *testing.T) {
	cfg, err := parseHostConfig()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.TickRate != 60 || cfg.Duration != 10*time.Second {
		t.Fatalf("unexpected defaults %+v", cfg)
	}
	if cfg.steps() != 600 {
		t.Fatalf("expected 600 steps, got %d", cfg.steps())
	}
}

func TestParseHostConfigFromEnv(t *testing.T) {
	t.Setenv("CLIMBSIM_TICK_RATE", "30")
	t.Setenv("CLIMBSIM_DURATION", "2s")
	t.Setenv("CLIMBSIM_LOG_FORMAT", "json")
	t.Setenv("CLIMBSIM_LOG_LEVEL", "warn")

	cfg, err := parseHostConfig()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.steps() != 60 {
		t.Fatalf("expected 60 steps, got %d", cfg.steps())
	}

	buf := &bytes.Buffer{}
	log, err := cfg.logger(buf)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	log.Info("hidden")
	log.Warn("shown")
	if out := buf.String(); strings.Contains(out, "hidden") || !strings.Contains(out, `"msg":"shown"`) {
		t.Fatalf("unexpected log output %q", out)
	}
}

func TestParseHostConfigRejectsBadValues(t *testing.T) {
	t.Setenv("CLIMBSIM_TICK_RATE", "0")
	if _, err := parseHostConfig(); err == nil {
		t.Fatalf("expected zero tick rate to be rejected")
	}

	cfg := hostConfig{LogLevel: "info", LogFormat: "xml"}
	if _, err := cfg.logger(&bytes.Buffer{}); err == nil {
		t.Fatalf("expected unknown log format to be rejected")
	}
}
