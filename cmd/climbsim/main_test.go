package main

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/oomph-ac/climber/config"
	"github.com/oomph-ac/climber/event"
	"github.com/oomph-ac/climber/simulation"
	"github.com/oomph-ac/climber/world"
)

func TestRunExampleScenario(t *testing.T) {
	record := filepath.Join(t.TempDir(), "run.rec")
	cfg := hostConfig{
		TuningPath:   "../../example/tuning.yaml",
		LevelPath:    "../../example/level.yaml",
		ScenarioPath: "../../example/scenario.yaml",
		TickRate:     60,
		Duration:     2 * time.Second,
		Workers:      2,
		RecordPath:   record,
	}
	if err := run(context.Background(), cfg, slog.New(slog.DiscardHandler)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	dat, err := os.ReadFile(record)
	if err != nil {
		t.Fatalf("unable to read recording file: %v", err)
	}
	events, err := event.ReadRecording(dat)
	if err != nil {
		t.Fatalf("unable to read recording: %v", err)
	}
	// Three characters tick 120 times each and a fourth joins at tick 60, on top of mode changes and clip
	// events.
	if len(events) <= 360 {
		t.Fatalf("expected more than 360 events, got %d", len(events))
	}
}

func TestRunMissingLevel(t *testing.T) {
	cfg := hostConfig{
		TuningPath:   "../../example/tuning.yaml",
		LevelPath:    "does-not-exist.yaml",
		ScenarioPath: "../../example/scenario.yaml",
		TickRate:     60,
		Duration:     time.Second,
	}
	if err := run(context.Background(), cfg, slog.New(slog.DiscardHandler)); err == nil {
		t.Fatalf("expected an error for a missing level")
	}
}

func TestSpawnerUsesTuningCurrentAtSpawn(t *testing.T) {
	current := &atomic.Pointer[config.Tuning]{}
	first := config.Default()
	current.Store(&first)
	spawn := spawner(4, current, world.New(nil), nil, hostConfig{}, slog.New(slog.DiscardHandler))

	reloaded := config.Default()
	reloaded.Climb.MaxSpeed = 250
	current.Store(&reloaded)

	c, err := spawn(simulation.Actor{Name: "late", Spawn: [3]float64{1, 2, 3}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := c.Movement().Tuning().Climb.MaxSpeed; got != 250 {
		t.Fatalf("expected the reloaded climb speed, got %v", got)
	}
	if c.ID() != 4 || c.Movement().Position() != [3]float64{1, 2, 3} {
		t.Fatalf("unexpected character %d at %v", c.ID(), c.Movement().Position())
	}
}
