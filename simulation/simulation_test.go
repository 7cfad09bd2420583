package simulation

import (
	"context"
	"errors"
	"testing"

	df_cube "github.com/df-mc/dragonfly/server/block/cube"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/oomph-ac/climber/character"
	"github.com/oomph-ac/climber/config"
	"github.com/oomph-ac/climber/worker"
	"github.com/oomph-ac/climber/world"
)

const climbScenario = `
characters:
  - name: climber
    spawn: [50, 0, 96]
    actions:
      - {at: 0, do: toggle}
      - {at: 90, until: 150, do: move, input: [0, 1]}
  - name: walker
    spawn: [-300, 0, 96]
    yaw: 180
    actions:
      - {at: 0, until: 60, do: move, input: [0, 1]}
`

func spawnScenario(t *testing.T, s Scenario, pool *worker.Pool) *Scheduler {
	t.Helper()
	l := world.New(nil)
	l.AddObject("floor", world.ObjectWorldStatic, df_cube.Box(-1000, -1000, -50, 1000, 1000, 0))
	l.AddObject("wall", world.ObjectWorldStatic, df_cube.Box(100, -500, 0, 400, 500, 1000))

	sched := NewScheduler(1.0/60.0, pool, nil)
	for i, a := range s.Characters {
		c, err := character.New(character.Config{
			ID:     uint32(i + 1),
			Name:   a.Name,
			Tuning: config.Default(),
			World:  l,
		})
		if err != nil {
			t.Fatalf("unable to spawn %s: %v", a.Name, err)
		}
		c.Teleport(mgl64.Vec3(a.Spawn), a.Yaw)
		sched.Spawn(c, a.Actions)
	}
	return sched
}

func TestSchedulerRunsScenario(t *testing.T) {
	s, err := ParseScenario([]byte(climbScenario))
	if err != nil {
		t.Fatalf("unable to parse scenario: %v", err)
	}
	pool := worker.NewPool(2, nil)
	defer pool.Close()

	sched := spawnScenario(t, s, pool)
	if err := sched.Run(context.Background(), 151, 0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sched.Tick() != 151 {
		t.Fatalf("expected 151 ticks, got %d", sched.Tick())
	}

	chars := sched.Characters()
	climber, walker := chars[0], chars[1]
	if !climber.IsClimbing() {
		t.Fatalf("expected climber to be climbing")
	}
	if z := climber.Movement().Position().Z(); z <= 96 {
		t.Fatalf("expected climber to have climbed, z is %v", z)
	}
	if walker.IsClimbing() {
		t.Fatalf("walker should never climb")
	}
	if x := walker.Movement().Position().X(); x >= -300 {
		t.Fatalf("expected walker to walk towards -X, x is %v", x)
	}
}

func TestScheduledActorSpawnsOnItsTick(t *testing.T) {
	pool := worker.NewPool(1, nil)
	defer pool.Close()
	sched := NewScheduler(1.0/60.0, pool, nil)

	tuning := config.Default()
	var spawnedAt int64 = -1
	sched.Schedule(Actor{Name: "late", At: 3, Spawn: [3]float64{0, 0, 96}}, func(a Actor) (*character.Character, error) {
		spawnedAt = sched.Tick()
		c, err := character.New(character.Config{Name: a.Name, Tuning: tuning, World: world.New(nil)})
		if err != nil {
			return nil, err
		}
		c.Teleport(mgl64.Vec3(a.Spawn), a.Yaw)
		return c, nil
	})
	sched.Schedule(Actor{Name: "broken", At: 1}, func(Actor) (*character.Character, error) {
		return nil, errors.New("no level")
	})

	if err := sched.Step(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := sched.Step(); err == nil {
		t.Fatalf("expected the failed spawn to be reported")
	}
	if len(sched.Characters()) != 0 || sched.Pending() != 1 {
		t.Fatalf("expected only the late actor to wait, got %d spawned and %d pending", len(sched.Characters()), sched.Pending())
	}

	// A reload before the spawn tick reaches the new character.
	tuning.Climb.MaxSpeed = 250
	if err := sched.Run(context.Background(), 5, 0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	chars := sched.Characters()
	if len(chars) != 1 || spawnedAt != 3 || sched.Pending() != 0 {
		t.Fatalf("expected the late actor to spawn on tick 3, spawned %d on tick %d", len(chars), spawnedAt)
	}
	if got := chars[0].Movement().Tuning().Climb.MaxSpeed; got != 250 {
		t.Fatalf("expected the tuning current at spawn, got climb speed %v", got)
	}
}

func TestSchedulerStopsOnCancel(t *testing.T) {
	pool := worker.NewPool(1, nil)
	defer pool.Close()

	sched := spawnScenario(t, Scenario{}, pool)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := sched.Run(ctx, 10, 0); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if sched.Tick() != 0 {
		t.Fatalf("expected no steps after cancel, got %d", sched.Tick())
	}
}

func TestParseScenarioRejectsBadActions(t *testing.T) {
	for name, data := range map[string]string{
		"unknown action": "characters: [{name: a, actions: [{at: 0, do: jump}]}]",
		"backwards":      "characters: [{name: a, actions: [{at: 10, until: 5, do: move}]}]",
		"no name":        "characters: [{spawn: [0, 0, 0]}]",
		"negative spawn": "characters: [{name: a, at: -1}]",
	} {
		if _, err := ParseScenario([]byte(data)); err == nil {
			t.Fatalf("%s: expected an error", name)
		}
	}
}

func TestActionWindow(t *testing.T) {
	once := Action{At: 5, Do: ActionToggle}
	if once.Active(4) || !once.Active(5) || once.Active(6) {
		t.Fatalf("single tick action active on the wrong ticks")
	}
	span := Action{At: 5, Until: 7, Do: ActionMove}
	if span.Active(4) || !span.Active(5) || !span.Active(7) || span.Active(8) {
		t.Fatalf("ranged action active on the wrong ticks")
	}
}
