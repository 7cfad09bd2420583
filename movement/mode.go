package movement

import (
	"github.com/oomph-ac/climber/assert"
	"github.com/oomph-ac/climber/event"
	"github.com/oomph-ac/climber/game"
)

// State is the locomotion state the climb controller reasons about.
type State uint8

const (
	StateGrounded State = iota
	StateFalling
	StateClimbing
)

func (s State) String() string {
	switch s {
	case StateGrounded:
		return "grounded"
	case StateFalling:
		return "falling"
	case StateClimbing:
		return "climbing"
	}
	return "unknown"
}

// Mode is the generic movement mode of the underlying character simulation.
type Mode uint8

const (
	ModeWalking Mode = iota + 1
	ModeFalling
	ModeCustom
)

func (m Mode) String() string {
	switch m {
	case ModeWalking:
		return "walking"
	case ModeFalling:
		return "falling"
	case ModeCustom:
		return "custom"
	}
	return "none"
}

// CustomMode selects the behaviour of ModeCustom.
type CustomMode uint8

const (
	CustomModeNone CustomMode = iota
	CustomModeClimb
)

func (m CustomMode) String() string {
	if m == CustomModeClimb {
		return "climb"
	}
	return "none"
}

// stateFor maps a movement mode onto the climb controller's state.
func stateFor(mode Mode, custom CustomMode) State {
	switch mode {
	case ModeWalking:
		return StateGrounded
	case ModeCustom:
		assert.IsTrue(custom == CustomModeClimb, "custom movement mode %v has no state", custom)
		return StateClimbing
	}
	return StateFalling
}

// Mode returns the current movement mode.
func (c *Component) Mode() Mode {
	return c.mode
}

// CustomMode returns the current custom movement mode. It is CustomModeNone unless Mode returns ModeCustom.
func (c *Component) CustomMode() CustomMode {
	return c.customMode
}

// State returns the current locomotion state.
func (c *Component) State() State {
	return c.state
}

// IsClimbing returns true if the component is in the custom climb mode.
func (c *Component) IsClimbing() bool {
	return c.mode == ModeCustom && c.customMode == CustomModeClimb
}

// IsFalling returns true if the component is falling.
func (c *Component) IsFalling() bool {
	return c.mode == ModeFalling
}

// SetMode changes the movement mode. The custom mode is ignored unless mode is ModeCustom. Setting the
// current mode again does nothing.
func (c *Component) SetMode(mode Mode, custom CustomMode) {
	if mode != ModeCustom {
		custom = CustomModeNone
	}
	if mode == c.mode && custom == c.customMode {
		return
	}
	prevMode, prevCustom := c.mode, c.customMode
	c.mode, c.customMode = mode, custom
	c.state = stateFor(mode, custom)
	assert.IsTrue((c.state == StateClimbing) == c.IsClimbing(), "state %v disagrees with mode %v/%v", c.state, mode, custom)

	c.onModeChanged(prevMode, prevCustom)
}

// OnEnterClimbState registers a function called every time the component starts climbing.
func (c *Component) OnEnterClimbState(f func()) {
	c.enterClimbFns = append(c.enterClimbFns, f)
}

// OnExitClimbState registers a function called every time the component stops climbing.
func (c *Component) OnExitClimbState(f func()) {
	c.exitClimbFns = append(c.exitClimbFns, f)
}

func (c *Component) onModeChanged(prevMode Mode, prevCustom CustomMode) {
	c.log.Debug("movement mode changed", "from", prevMode, "to", c.mode, "custom", c.customMode)
	c.publish(event.ModeChangedEvent{
		NopEvent:       c.eventBase(),
		PrevMode:       byte(prevMode),
		PrevCustomMode: byte(prevCustom),
		Mode:           byte(c.mode),
		CustomMode:     byte(c.customMode),
	})

	if c.IsClimbing() {
		c.orientRotationToMovement = false
		c.halfHeight = c.tuning.Capsule.ClimbHalfHeight
		for _, f := range c.enterClimbFns {
			f()
		}
		return
	}
	if prevMode == ModeCustom && prevCustom == CustomModeClimb {
		c.orientRotationToMovement = true
		c.halfHeight = c.tuning.Capsule.HalfHeight
		c.resolvePenetration()
		c.rot = game.UprightRotation(c.rot)
		c.StopMovementImmediately()
		for _, f := range c.exitClimbFns {
			f()
		}
	}
}

// ModeStrategy implements the physics of a single movement mode.
type ModeStrategy interface {
	MaxSpeed(c *Component) float64
	MaxAcceleration(c *Component) float64
	BrakingDeceleration(c *Component) float64
	Phys(c *Component, dt float64)
}

var (
	walkingStrategy  ModeStrategy = walking{}
	fallingStrategy  ModeStrategy = falling{}
	climbingStrategy ModeStrategy = climbing{}
)

// Strategy returns the physics of the current movement mode.
func (c *Component) Strategy() ModeStrategy {
	switch {
	case c.IsClimbing():
		return climbingStrategy
	case c.mode == ModeWalking:
		return walkingStrategy
	}
	return fallingStrategy
}
