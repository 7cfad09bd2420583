package character

import (
	"log/slog"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/oomph-ac/climber/anim"
	"github.com/oomph-ac/climber/config"
	"github.com/oomph-ac/climber/event"
	"github.com/oomph-ac/climber/game"
	"github.com/oomph-ac/climber/movement"
	"github.com/oomph-ac/climber/utils"
	"github.com/oomph-ac/climber/warp"
	"github.com/oomph-ac/climber/world"
)

// transitionHistory is the number of climb enter/exit transitions a character remembers.
const transitionHistory = 16

// Config holds everything needed to spawn a character.
type Config struct {
	ID     uint32
	Name   string
	Tuning config.Tuning
	World  world.Querier

	Sink event.Sink
	Log  *slog.Logger
	// Debugf receives probe debug lines when probe debugging is enabled in the tuning.
	Debugf func(format string, args ...any)
}

// Transition is a climb state change remembered by a character.
type Transition struct {
	Tick     int64
	Entered  bool
	Position mgl64.Vec3
	Normal   mgl64.Vec3
}

// Character is the entry point for the input layer: it turns move vectors and button presses into calls
// on the movement component and drives the animation instance alongside it.
type Character struct {
	id   uint32
	name string

	movement *movement.Component
	anim     *anim.Instance
	warps    *warp.Table

	controlYaw float64
	ticks      int64

	transitions *utils.Ring[Transition]
	log         *slog.Logger
}

// New spawns a walking character at the origin.
func New(cfg Config) (*Character, error) {
	log := cfg.Log
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	log = log.With("character", cfg.Name, "id", cfg.ID)

	clips, err := cfg.Tuning.AnimClips()
	if err != nil {
		return nil, err
	}
	inst := anim.NewInstance(clips, log)
	table := warp.NewTable()

	comp, err := movement.New(movement.Options{
		Tuning: cfg.Tuning,
		World:  cfg.World,
		Anim:   inst,
		Warp:   warp.NewBridge(table),
		ID:     cfg.ID,
		Sink:   cfg.Sink,
		Log:    log,
		Debugf: cfg.Debugf,
	})
	if err != nil {
		return nil, err
	}
	inst.Root = comp
	inst.Basis = comp.Basis
	inst.Targets = table

	c := &Character{
		id:          cfg.ID,
		name:        cfg.Name,
		movement:    comp,
		anim:        inst,
		warps:       table,
		transitions: utils.NewRing[Transition](transitionHistory),
		log:         log,
	}
	comp.OnEnterClimbState(func() { c.onClimbTransition(true) })
	comp.OnExitClimbState(func() { c.onClimbTransition(false) })
	return c, nil
}

func (c *Character) ID() uint32 {
	return c.id
}

func (c *Character) Name() string {
	return c.name
}

// Movement returns the character's movement component.
func (c *Character) Movement() *movement.Component {
	return c.movement
}

// Anim returns the animation instance that plays the character's transition clips.
func (c *Character) Anim() *anim.Instance {
	return c.anim
}

// WarpTargets returns the warp target table the character writes anchors into.
func (c *Character) WarpTargets() *warp.Table {
	return c.warps
}

// Teleport places the character at pos facing yaw degrees, with the camera looking the same way.
func (c *Character) Teleport(pos mgl64.Vec3, yaw float64) {
	c.movement.SetPosition(pos)
	c.movement.SetRotation(game.YawRotation(yaw))
	c.movement.StopMovementImmediately()
	c.controlYaw = yaw
}

// ControlYaw returns the camera yaw in degrees.
func (c *Character) ControlYaw() float64 {
	return c.controlYaw
}

// Look turns the camera by delta degrees.
func (c *Character) Look(delta float64) {
	c.controlYaw = math.Remainder(c.controlYaw+delta, 360)
}

// Move adds movement input for the next tick. input.X() moves right and input.Y() moves forward. While
// climbing the axes follow the surface, otherwise they follow the camera yaw.
func (c *Character) Move(input mgl64.Vec2) {
	if input.LenSqr() == 0 {
		return
	}
	forward, right := c.moveAxes()
	c.movement.AddInputVector(forward.Mul(input.Y()).Add(right.Mul(input.X())))
}

// moveAxes returns the directions forward and right input move the character in.
func (c *Character) moveAxes() (forward, right mgl64.Vec3) {
	if c.movement.IsClimbing() {
		into := c.movement.SurfaceNormal().Mul(-1)
		return into.Cross(c.movement.Right()), into.Cross(c.movement.Up().Mul(-1))
	}
	rot := game.YawRotation(c.controlYaw)
	return game.Forward(rot), game.Right(rot)
}

// ToggleClimb starts climbing (directly, down a ledge or by vaulting, whichever is possible first) or
// drops off the surface when already climbing.
func (c *Character) ToggleClimb() {
	c.movement.ToggleClimbing(!c.movement.IsClimbing())
}

// Hop requests a hop in the direction of the latest climb input.
func (c *Character) Hop() movement.Hop {
	if !c.movement.IsClimbing() {
		return movement.HopNone
	}
	return c.movement.RequestHopping()
}

// IsClimbing returns true while the character is attached to a surface.
func (c *Character) IsClimbing() bool {
	return c.movement.IsClimbing()
}

// SurfaceNormal returns the normal of the surface being climbed. It is zero when no surface was found.
func (c *Character) SurfaceNormal() mgl64.Vec3 {
	return c.movement.SurfaceNormal()
}

// Tick advances the movement component and then the animation instance by dt seconds.
func (c *Character) Tick(dt float64) {
	if dt < c.movement.Tuning().Locomotion.MinTickTime {
		return
	}
	c.ticks++
	c.movement.Tick(dt)
	c.anim.Tick(dt)
}

// Transitions returns the latest climb transitions, oldest first.
func (c *Character) Transitions() []Transition {
	out := make([]Transition, 0, c.transitions.Len())
	for t := range c.transitions.All() {
		out = append(out, t)
	}
	return out
}

func (c *Character) onClimbTransition(entered bool) {
	t := Transition{
		Tick:     c.ticks,
		Entered:  entered,
		Position: c.movement.Position(),
		Normal:   c.movement.SurfaceNormal(),
	}
	_ = c.transitions.Push(t)

	fields := utils.NewFields().
		Set("tick", t.Tick).
		Set("pos", game.RoundVec64(t.Position, 2)).
		Set("normal", game.RoundVec64(t.Normal, 3))
	if entered {
		c.log.Info("started climbing", fields.Args()...)
		return
	}
	fields.Set("mode", c.movement.Mode()).Set("clip", c.anim.Active())
	c.log.Info("stopped climbing", fields.Args()...)
}
