package movement

import (
	"log/slog"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/oomph-ac/climber/anim"
	"github.com/oomph-ac/climber/config"
	"github.com/oomph-ac/climber/event"
	"github.com/oomph-ac/climber/game"
	"github.com/oomph-ac/climber/probe"
	"github.com/oomph-ac/climber/surface"
	"github.com/oomph-ac/climber/warp"
	"github.com/oomph-ac/climber/world"
)

// collisionFilter is the set of object types the character's own collider is blocked by.
const collisionFilter = world.ObjectWorldStatic | world.ObjectWorldDynamic

// Options configure a Component. World is required, everything else may be left unset.
type Options struct {
	Tuning config.Tuning
	World  world.Querier

	// Anim plays transition clips. Without it every clip request is dropped.
	Anim anim.Player
	// Warp receives warp targets. Without it targets are discarded.
	Warp *warp.Bridge

	// ID identifies the character in recorded events.
	ID   uint32
	Sink event.Sink
	Log  *slog.Logger

	// Debugf receives a line for every probe issued with debugging enabled in the tuning.
	Debugf func(format string, args ...any)
}

// Component is the movement simulation of a single character with the climb controller layered on top.
// It is not safe for concurrent use: a character is always ticked by one goroutine at a time.
type Component struct {
	tuning config.Tuning
	world  world.Querier
	prober *probe.Prober
	debug  probe.DebugMode

	pos, lastPos mgl64.Vec3
	vel, lastVel mgl64.Vec3
	rot          mgl64.Quat
	halfHeight   float64

	orientRotationToMovement bool

	mode       Mode
	customMode CustomMode
	state      State

	pendingInput mgl64.Vec3
	lastInput    mgl64.Vec3
	acceleration mgl64.Vec3

	rootMotion       mgl64.Vec3
	rootYawRate      float64
	rootMotionActive bool

	climbableHits []probe.Hit
	surface       surface.Contact

	anim anim.Player
	warp *warp.Bridge

	enterClimbFns []func()
	exitClimbFns  []func()

	id      uint32
	sink    event.Sink
	log     *slog.Logger
	ticks   int64
	simTime float64
}

// New creates a walking component at the origin facing +X.
func New(opts Options) (*Component, error) {
	if err := opts.Tuning.Validate(); err != nil {
		return nil, err
	}
	filter, err := opts.Tuning.ClimbableFilter()
	if err != nil {
		return nil, err
	}
	log := opts.Log
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}

	c := &Component{
		tuning: opts.Tuning,
		world:  opts.World,
		prober: &probe.Prober{
			World:      opts.World,
			Filter:     filter,
			Radius:     opts.Tuning.Probe.CapsuleRadius,
			HalfHeight: opts.Tuning.Probe.CapsuleHalfHeight,
			Debugf:     opts.Debugf,
		},
		rot:                      mgl64.QuatIdent(),
		halfHeight:               opts.Tuning.Capsule.HalfHeight,
		orientRotationToMovement: true,
		mode:                     ModeWalking,
		state:                    StateGrounded,
		anim:                     opts.Anim,
		warp:                     opts.Warp,
		id:                       opts.ID,
		sink:                     opts.Sink,
		log:                      log,
	}
	if opts.Tuning.Probe.Debug {
		c.debug = probe.DebugOneFrame
	}
	if c.anim != nil {
		c.anim.OnMontageEnded(c.onMontageEnded)
		c.anim.OnMontageBlendingOut(c.onMontageBlendingOut)
	}
	if c.warp != nil {
		c.warp.OnSet = c.onWarpTargetSet
	}
	return c, nil
}

// Tuning returns the tuning the component was created with.
func (c *Component) Tuning() config.Tuning {
	return c.tuning
}

// Position returns the centre of the character's collider.
func (c *Component) Position() mgl64.Vec3 {
	return c.pos
}

// LastPosition returns the position at the start of the latest tick.
func (c *Component) LastPosition() mgl64.Vec3 {
	return c.lastPos
}

// SetPosition teleports the character without sweeping.
func (c *Component) SetPosition(pos mgl64.Vec3) {
	c.pos = pos
}

func (c *Component) Velocity() mgl64.Vec3 {
	return c.vel
}

// LastVelocity returns the velocity at the start of the latest tick.
func (c *Component) LastVelocity() mgl64.Vec3 {
	return c.lastVel
}

func (c *Component) SetVelocity(vel mgl64.Vec3) {
	c.vel = vel
}

// Rotation returns the rotation of the character's collider.
func (c *Component) Rotation() mgl64.Quat {
	return c.rot
}

func (c *Component) SetRotation(q mgl64.Quat) {
	c.rot = q.Normalize()
}

// Forward, Right and Up return the axes of the component's rotation.
func (c *Component) Forward() mgl64.Vec3 { return game.Forward(c.rot) }
func (c *Component) Right() mgl64.Vec3   { return game.Right(c.rot) }
func (c *Component) Up() mgl64.Vec3      { return game.Up(c.rot) }

// Basis returns the forward, right and up axes of the component.
func (c *Component) Basis() (forward, right, up mgl64.Vec3) {
	return c.Forward(), c.Right(), c.Up()
}

// HalfHeight returns the current half height of the character's collider.
func (c *Component) HalfHeight() float64 {
	return c.halfHeight
}

// HalfExtents returns the half extents of the box the character collides with.
func (c *Component) HalfExtents() mgl64.Vec3 {
	r := c.tuning.Capsule.Radius
	return mgl64.Vec3{r, r, c.halfHeight}
}

// OrientRotationToMovement returns true if the character turns towards the direction it accelerates in.
func (c *Component) OrientRotationToMovement() bool {
	return c.orientRotationToMovement
}

// SurfaceContact returns the climbable surface found during the latest climb step.
func (c *Component) SurfaceContact() surface.Contact {
	return c.surface
}

// SurfaceNormal returns the normal of the climbable surface found during the latest climb step.
func (c *Component) SurfaceNormal() mgl64.Vec3 {
	return c.surface.Normal
}

// AddInputVector adds to the movement input consumed by the next tick. The summed input is clamped to a
// length of one when it is consumed.
func (c *Component) AddInputVector(v mgl64.Vec3) {
	c.pendingInput = c.pendingInput.Add(v)
}

// LastInputVector returns the input consumed by the latest tick.
func (c *Component) LastInputVector() mgl64.Vec3 {
	return c.lastInput
}

// SetRootMotion lets the animation side drive the character. While active, the velocity solvers are
// skipped and the given world space velocity and yaw rate are used instead.
func (c *Component) SetRootMotion(velocity mgl64.Vec3, yawRate float64, active bool) {
	if !active {
		velocity, yawRate = mgl64.Vec3{}, 0
	}
	c.rootMotion, c.rootYawRate, c.rootMotionActive = velocity, yawRate, active
}

// RootLocation returns the bottom of the collider, the point clips warp towards their targets.
func (c *Component) RootLocation() mgl64.Vec3 {
	return c.pos.Sub(c.Up().Mul(c.halfHeight))
}

// HasRootMotion returns true while a clip drives the character.
func (c *Component) HasRootMotion() bool {
	return c.rootMotionActive
}

// UnrotatedVelocity returns the velocity in the component's local space: X forward, Y right and Z up.
func (c *Component) UnrotatedVelocity() mgl64.Vec3 {
	return game.UnrotateVector(c.rot, c.vel)
}

// StopMovementImmediately zeroes the velocity.
func (c *Component) StopMovementImmediately() {
	c.SetVelocity(mgl64.Vec3{})
}

// Tick advances the simulation by dt seconds. Steps shorter than the minimum tick time are skipped
// entirely and leave the component untouched.
func (c *Component) Tick(dt float64) {
	if dt < c.tuning.Locomotion.MinTickTime {
		return
	}
	c.ticks++
	c.simTime += dt
	c.lastPos, c.lastVel = c.pos, c.vel

	c.lastInput = clampToMaxSize(c.pendingInput, 1)
	c.pendingInput = mgl64.Vec3{}

	strategy := c.Strategy()
	c.acceleration = c.lastInput.Mul(strategy.MaxAcceleration(c))
	if c.rootMotionActive && c.rootYawRate != 0 {
		c.rot = game.YawRotation(c.rootYawRate * dt).Mul(c.rot).Normalize()
	}
	strategy.Phys(c, dt)
	c.physicsRotation(dt)

	c.publish(event.TickEvent{
		NopEvent: c.eventBase(),
		Tick:     c.ticks,
		Mode:     byte(c.mode),
		Position: game.Vec64To32(c.pos),
		Velocity: game.Vec64To32(c.vel),
	})
}

// physicsRotation turns the character towards its acceleration when orienting to movement.
func (c *Component) physicsRotation(dt float64) {
	if !c.orientRotationToMovement || c.rootMotionActive {
		return
	}
	dir := mgl64.Vec3{c.acceleration[0], c.acceleration[1], 0}
	if dir.LenSqr() < game.SmallNumber {
		return
	}
	fwd := c.Forward()
	current := math.Atan2(fwd[1], fwd[0])
	target := math.Atan2(dir[1], dir[0])
	delta := math.Remainder(target-current, 2*math.Pi)

	maxStep := mgl64.DegToRad(c.tuning.Locomotion.RotationRate) * dt
	delta = game.ClampFloat(delta, -maxStep, maxStep)
	c.rot = game.YawRotation(mgl64.RadToDeg(current + delta))
}

func (c *Component) eventBase() event.NopEvent {
	return event.NopEvent{EvTime: int64(c.simTime * 1e6), CharacterID: c.id}
}

func (c *Component) publish(ev event.Event) {
	if c.sink != nil {
		c.sink.Publish(ev)
	}
}

func (c *Component) onWarpTargetSet(a warp.Anchor, pos mgl64.Vec3) {
	c.log.Debug("warp target set", "anchor", a, "pos", pos)
	c.publish(event.WarpTargetEvent{
		NopEvent: c.eventBase(),
		Anchor:   byte(a),
		Position: game.Vec64To32(pos),
	})
}

func clampToMaxSize(v mgl64.Vec3, max float64) mgl64.Vec3 {
	if l := v.Len(); l > max {
		return v.Mul(max / l)
	}
	return v
}
