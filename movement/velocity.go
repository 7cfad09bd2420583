package movement

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/oomph-ac/climber/game"
)

const (
	// maxBrakingSubstep is the longest step the braking integration takes at once when friction applies.
	maxBrakingSubstep = 1.0 / 33.0
	// brakingFrictionFactor scales the friction passed to the braking integration.
	brakingFrictionFactor = 2
	// brakeToStopVelocity is the speed under which braking stops the character completely.
	brakeToStopVelocity = 10
)

// CalcVelocity updates the velocity from the current acceleration for a step of dt seconds. Friction
// turns the velocity towards the acceleration, fluid applies friction as drag as well, and
// brakingDeceleration slows the character down when there is no acceleration or it is over the maximum
// speed of the current mode. Root motion skips the solver entirely.
func (c *Component) CalcVelocity(dt, friction float64, fluid bool, brakingDeceleration float64) {
	if c.rootMotionActive || dt < c.tuning.Locomotion.MinTickTime {
		return
	}
	friction = math.Max(0, friction)
	maxSpeed := c.Strategy().MaxSpeed(c)
	accel := c.acceleration
	vel := c.vel

	zeroAccel := accel.LenSqr() < game.SmallNumber
	overMax := vel.LenSqr() > maxSpeed*maxSpeed

	if zeroAccel || overMax {
		old := vel
		vel = applyVelocityBraking(vel, dt, friction, brakingDeceleration, c.tuning.Locomotion.MinTickTime)

		// Braking must not take the character below its max speed while it still accelerates forwards.
		if overMax && vel.LenSqr() < maxSpeed*maxSpeed && accel.Dot(old) > 0 {
			vel = game.SafeNormal(old).Mul(maxSpeed)
		}
	} else {
		dir := game.SafeNormal(accel)
		speed := vel.Len()
		vel = vel.Sub(vel.Sub(dir.Mul(speed)).Mul(math.Min(dt*friction, 1)))
	}

	if fluid {
		vel = vel.Mul(1 - math.Min(friction*dt, 1))
	}

	if !zeroAccel {
		limit := maxSpeed
		if overMax {
			limit = vel.Len()
		}
		vel = clampToMaxSize(vel.Add(accel.Mul(dt)), limit)
	}
	c.SetVelocity(vel)
}

// applyVelocityBraking slows vel down with friction and a constant deceleration. Friction is integrated in
// substeps so large steps cannot reverse the velocity.
func applyVelocityBraking(vel mgl64.Vec3, dt, friction, deceleration, minTickTime float64) mgl64.Vec3 {
	if vel == (mgl64.Vec3{}) || dt < minTickTime {
		return vel
	}
	friction *= brakingFrictionFactor
	deceleration = math.Max(0, deceleration)
	zeroFriction, zeroBraking := friction == 0, deceleration == 0
	if zeroFriction && zeroBraking {
		return vel
	}

	old := vel
	reverse := mgl64.Vec3{}
	if !zeroBraking {
		reverse = game.SafeNormal(vel).Mul(-deceleration)
	}
	for remaining := dt; remaining >= minTickTime; {
		step := remaining
		if remaining > maxBrakingSubstep && !zeroFriction {
			step = math.Min(maxBrakingSubstep, remaining*0.5)
		}
		remaining -= step

		vel = vel.Add(vel.Mul(-friction).Add(reverse).Mul(step))
		// Never reverse direction.
		if vel.Dot(old) <= 0 {
			return mgl64.Vec3{}
		}
	}

	if vel.LenSqr() < game.SmallNumber || (!zeroBraking && vel.LenSqr() <= brakeToStopVelocity*brakeToStopVelocity) {
		return mgl64.Vec3{}
	}
	return vel
}
