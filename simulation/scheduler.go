package simulation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/oomph-ac/climber/character"
	"github.com/oomph-ac/climber/worker"
)

type actor struct {
	c       *character.Character
	actions []Action
}

// SpawnFunc creates the character for an actor once its spawn tick is reached.
type SpawnFunc func(a Actor) (*character.Character, error)

type pendingSpawn struct {
	actor Actor
	spawn SpawnFunc
}

// Scheduler steps every spawned character with a fixed timestep. Characters are independent of each
// other so each step ticks them in parallel on the worker pool.
type Scheduler struct {
	dt   float64
	pool *worker.Pool
	log  *slog.Logger

	actors  []actor
	pending []pendingSpawn
	tick    int64
}

func NewScheduler(dt float64, pool *worker.Pool, log *slog.Logger) *Scheduler {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Scheduler{dt: dt, pool: pool, log: log}
}

// Spawn adds a character that is fed the given actions.
func (s *Scheduler) Spawn(c *character.Character, actions []Action) {
	s.actors = append(s.actors, actor{c: c, actions: actions})
}

// Schedule queues an actor to be created by spawn at the start of tick a.At. The character is created
// when that tick is reached, so spawn sees whatever state it reads at that time.
func (s *Scheduler) Schedule(a Actor, spawn SpawnFunc) {
	s.pending = append(s.pending, pendingSpawn{actor: a, spawn: spawn})
}

// Pending returns the number of actors still waiting for their spawn tick.
func (s *Scheduler) Pending() int {
	return len(s.pending)
}

// spawnDue creates every queued actor whose spawn tick has been reached. Actors that fail to spawn are
// dropped and their errors joined.
func (s *Scheduler) spawnDue() error {
	var errs []error
	kept := s.pending[:0]
	for _, p := range s.pending {
		if p.actor.At > s.tick {
			kept = append(kept, p)
			continue
		}
		c, err := p.spawn(p.actor)
		if err != nil {
			errs = append(errs, fmt.Errorf("spawn %s: %w", p.actor.Name, err))
			continue
		}
		s.log.Info("character spawned", "character", p.actor.Name, "tick", s.tick)
		s.Spawn(c, p.actor.Actions)
	}
	clear(s.pending[len(kept):])
	s.pending = kept
	return errors.Join(errs...)
}

// Characters returns every spawned character in spawn order.
func (s *Scheduler) Characters() []*character.Character {
	out := make([]*character.Character, len(s.actors))
	for i, a := range s.actors {
		out[i] = a.c
	}
	return out
}

// Tick returns the number of completed steps.
func (s *Scheduler) Tick() int64 {
	return s.tick
}

// Step spawns the actors due on the current tick, applies the inputs scheduled for it and advances every
// character by one step. A failed spawn does not stop the step.
func (s *Scheduler) Step() error {
	spawnErr := s.spawnDue()
	tick := s.tick
	tasks := make([]func(), len(s.actors))
	for i, a := range s.actors {
		tasks[i] = func() { s.stepActor(a, tick) }
	}
	err := s.pool.Run(tasks...)
	s.tick++
	return errors.Join(spawnErr, err)
}

func (s *Scheduler) stepActor(a actor, tick int64) {
	for _, act := range a.actions {
		if !act.Active(tick) {
			continue
		}
		if res := act.Apply(a.c); res != "" {
			s.log.Debug("hop requested", "character", a.c.Name(), "tick", tick, "result", res)
		}
	}
	a.c.Tick(s.dt)
}

// Run steps the simulation until steps steps have completed or ctx is done. A positive interval paces
// the steps in real time, otherwise they run back to back.
func (s *Scheduler) Run(ctx context.Context, steps int64, interval time.Duration) error {
	var ticker *time.Ticker
	if interval > 0 {
		ticker = time.NewTicker(interval)
		defer ticker.Stop()
	}
	for s.tick < steps {
		if ticker != nil {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-ticker.C:
			}
		} else if err := ctx.Err(); err != nil {
			return err
		}
		if err := s.Step(); err != nil {
			s.log.Error("simulation step failed", "tick", s.tick-1, "err", err)
		}
	}
	return nil
}
