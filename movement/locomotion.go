package movement

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/oomph-ac/climber/game"
)

type walking struct{}

func (walking) MaxSpeed(c *Component) float64 {
	return c.tuning.Locomotion.MaxWalkSpeed
}

func (walking) MaxAcceleration(c *Component) float64 {
	return c.tuning.Locomotion.MaxAcceleration
}

func (walking) BrakingDeceleration(c *Component) float64 {
	return c.tuning.Locomotion.WalkingBrakingDeceleration
}

// Phys moves the character along flat ground and starts falling once there is no floor below it.
func (s walking) Phys(c *Component, dt float64) {
	c.acceleration[2] = 0
	if c.rootMotionActive {
		c.SetVelocity(c.rootMotion)
	} else {
		c.vel[2] = 0
		c.CalcVelocity(dt, c.tuning.Locomotion.GroundFriction, false, s.BrakingDeceleration(c))
	}

	oldPos := c.pos
	c.SafeMoveWithSlide(c.vel.Mul(dt), c.rot)
	if !c.rootMotionActive {
		moved := c.pos.Sub(oldPos).Mul(1 / dt)
		c.SetVelocity(mgl64.Vec3{moved[0], moved[1], 0})
	}

	floor, ok := c.findFloor()
	if !ok {
		c.SetMode(ModeFalling, CustomModeNone)
		return
	}
	if !floor.StartPenetrating && floor.Time > 0 {
		c.pos = floor.Location
	}
}

type falling struct{}

func (falling) MaxSpeed(c *Component) float64 {
	return c.tuning.Locomotion.MaxWalkSpeed
}

func (falling) MaxAcceleration(c *Component) float64 {
	return c.tuning.Locomotion.MaxAcceleration
}

func (falling) BrakingDeceleration(c *Component) float64 {
	return c.tuning.Locomotion.FallingBrakingDeceleration
}

// Phys applies gravity and limited air control, landing on the first walkable surface hit.
func (s falling) Phys(c *Component, dt float64) {
	if c.rootMotionActive {
		c.SetVelocity(c.rootMotion)
	} else {
		c.acceleration = mgl64.Vec3{c.acceleration[0], c.acceleration[1], 0}.Mul(c.tuning.Locomotion.AirControl)
		vz := c.vel[2]
		c.vel[2] = 0
		c.CalcVelocity(dt, 0, false, s.BrakingDeceleration(c))
		c.vel[2] = vz - c.tuning.Locomotion.Gravity*dt
	}

	hit, blocked := c.SafeMoveWithSlide(c.vel.Mul(dt), c.rot)
	if blocked && hit.Normal.Dot(game.WorldUp) >= c.tuning.Locomotion.WalkableFloorZ {
		c.vel[2] = 0
		c.SetMode(ModeWalking, CustomModeNone)
		return
	}
	if blocked && !c.rootMotionActive {
		// Lose the velocity going into whatever was hit.
		if into := c.vel.Dot(hit.Normal); into < 0 {
			c.vel = c.vel.Sub(hit.Normal.Mul(into))
		}
	}
}
