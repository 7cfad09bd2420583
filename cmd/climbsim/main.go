package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync/atomic"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/go-echarts/statsview"
	"github.com/go-echarts/statsview/viewer"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/oomph-ac/climber/character"
	"github.com/oomph-ac/climber/config"
	"github.com/oomph-ac/climber/event"
	"github.com/oomph-ac/climber/oerror"
	"github.com/oomph-ac/climber/simulation"
	"github.com/oomph-ac/climber/worker"
	"github.com/oomph-ac/climber/world"
)

// The following program runs a scripted climbing scenario against a level loaded from disk.
func main() {
	cfg, err := parseHostConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	log, err := cfg.logger(os.Stderr)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{Dsn: cfg.SentryDSN}); err != nil {
			log.Error("unable to initialize sentry", "err", err)
		}
		defer sentry.Flush(time.Second * 5)
	}

	if os.Getenv("PPROF_ENABLED") != "" {
		// set configurations before calling `statsview.New()` method
		viewer.SetConfiguration(viewer.WithTheme(viewer.ThemeWesteros), viewer.WithAddr(cfg.PprofAddr))

		mgr := statsview.New()
		go mgr.Start()
		defer mgr.Stop()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("simulation failed", "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg hostConfig, log *slog.Logger) (err error) {
	defer func() {
		if v := recover(); v != nil {
			hub := sentry.CurrentHub().Clone()
			hub.ConfigureScope(func(scope *sentry.Scope) {
				scope.SetTag("scenario", cfg.ScenarioPath)
				scope.SetTag("level", cfg.LevelPath)
			})
			hub.Recover(oerror.New("%v", v))
			hub.Flush(time.Second * 5)
			err = oerror.New("simulation panic: %v", v)
		}
	}()

	tuning, err := config.Load(cfg.TuningPath)
	if err != nil {
		return err
	}
	level, err := world.LoadLevel(cfg.LevelPath, log.With("component", "level"))
	if err != nil {
		return err
	}
	scenario, err := simulation.LoadScenario(cfg.ScenarioPath)
	if err != nil {
		return err
	}

	// Reloaded tuning is picked up by characters spawned after the reload.
	current := &atomic.Pointer[config.Tuning]{}
	current.Store(&tuning)
	if cfg.WatchTuning {
		w, err := config.Watch(cfg.TuningPath, log.With("component", "tuning"), func(t config.Tuning) {
			current.Store(&t)
		})
		if err != nil {
			return err
		}
		defer w.Close()
	}

	var rec *event.Recorder
	if cfg.RecordPath != "" {
		rec = event.NewRecorder()
	}

	pool := worker.NewPool(cfg.Workers, log.With("component", "worker"))
	defer pool.Close()
	sched := simulation.NewScheduler(cfg.dt(), pool, log.With("component", "scheduler"))

	for i, actor := range scenario.Characters {
		sched.Schedule(actor, spawner(uint32(i+1), current, level, rec, cfg, log))
	}
	log.Info("running scenario", "characters", len(scenario.Characters), "steps", cfg.steps(), "tick_rate", cfg.TickRate)

	var interval time.Duration
	if cfg.Realtime {
		interval = time.Second / time.Duration(cfg.TickRate)
	}
	runErr := sched.Run(ctx, cfg.steps(), interval)
	if n := sched.Pending(); n > 0 {
		log.Warn("scenario ended before every character spawned", "pending", n)
	}

	for _, c := range sched.Characters() {
		m := c.Movement()
		log.Info("character finished",
			"character", c.Name(),
			"mode", m.Mode(),
			"pos", m.Position(),
			"transitions", len(c.Transitions()),
			"warp_targets", c.WarpTargets().String(),
		)
	}
	if rec != nil {
		if err := writeRecording(cfg.RecordPath, rec); err != nil {
			return err
		}
		log.Info("wrote recording", "path", cfg.RecordPath, "events", rec.Len())
	}
	return runErr
}

// spawner returns a spawn function that creates the character with the tuning current at spawn time.
func spawner(id uint32, current *atomic.Pointer[config.Tuning], level *world.Level, rec *event.Recorder, cfg hostConfig, log *slog.Logger) simulation.SpawnFunc {
	return func(actor simulation.Actor) (*character.Character, error) {
		return spawn(id, actor, *current.Load(), level, rec, cfg, log)
	}
}

func spawn(id uint32, actor simulation.Actor, tuning config.Tuning, level *world.Level, rec *event.Recorder, cfg hostConfig, log *slog.Logger) (*character.Character, error) {
	c := character.Config{
		ID:     id,
		Name:   actor.Name,
		Tuning: tuning,
		World:  level,
		Log:    log,
	}
	if rec != nil {
		c.Sink = rec
	}
	if cfg.DebugProbes {
		c.Tuning.Probe.Debug = true
		probeLog := log.With("character", actor.Name)
		c.Debugf = func(format string, args ...any) {
			probeLog.Debug(fmt.Sprintf(format, args...))
		}
	}
	ch, err := character.New(c)
	if err != nil {
		return nil, err
	}
	ch.Teleport(mgl64.Vec3(actor.Spawn), actor.Yaw)
	return ch, nil
}

func writeRecording(path string, rec *event.Recorder) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create recording: %w", err)
	}
	if _, err := rec.WriteTo(f); err != nil {
		f.Close()
		return fmt.Errorf("write recording: %w", err)
	}
	return f.Close()
}
