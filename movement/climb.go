package movement

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/oomph-ac/climber/anim"
	"github.com/oomph-ac/climber/game"
	"github.com/oomph-ac/climber/surface"
)

// stopAngleTolerance absorbs rounding in the angle between the surface normal and world up, so surfaces
// sitting exactly on the stop angle always stop the climb.
const stopAngleTolerance = 1e-6

type climbing struct{}

func (climbing) MaxSpeed(c *Component) float64 {
	return c.tuning.Climb.MaxSpeed
}

func (climbing) MaxAcceleration(c *Component) float64 {
	return c.tuning.Climb.MaxAcceleration
}

func (climbing) BrakingDeceleration(c *Component) float64 {
	return c.tuning.Climb.MaxBrakingDeceleration
}

// Phys runs one climbing step: probe, aggregate, exit checks, integrate, snap and ledge check. While a
// clip drives the root the character only follows the clip, and the clip's end decides the next mode.
func (s climbing) Phys(c *Component, dt float64) {
	if dt < c.tuning.Locomotion.MinTickTime {
		return
	}

	c.traceClimbableSurfaces()
	c.surface = surface.Aggregate(c.climbableHits)

	if c.clipDrivesRoot() {
		c.SetVelocity(c.rootMotion)
		c.SafeMoveWithSlide(c.vel.Mul(dt), c.rot)
		return
	}

	if c.checkShouldStopClimbing() || c.checkHasReachedFloor() {
		c.StopClimbing()
		return
	}

	if c.rootMotionActive {
		c.SetVelocity(c.rootMotion)
	} else {
		c.CalcVelocity(dt, 0, true, s.BrakingDeceleration(c))
	}
	oldPos := c.pos
	c.SafeMoveWithSlide(c.vel.Mul(dt), c.climbRotation(dt))
	if !c.rootMotionActive {
		c.SetVelocity(c.pos.Sub(oldPos).Mul(1 / dt))
	}

	c.snapToClimbableSurface(dt)

	if c.checkHasReachedLedge() {
		c.PlayMontage(anim.MontageClimbToTop)
	}
}

// clipDrivesRoot returns true while a playing clip supplies the character's root motion.
func (c *Component) clipDrivesRoot() bool {
	return c.rootMotionActive && c.anim != nil && c.anim.IsAnyMontagePlaying()
}

// checkShouldStopClimbing returns true if there is nothing left to climb or the surface is flat enough to
// stand on or too overhanging to hold on to.
func (c *Component) checkShouldStopClimbing() bool {
	if len(c.climbableHits) == 0 || !c.surface.Valid() {
		return true
	}
	return game.AngleDeg(c.surface.Normal, game.WorldUp) <= c.tuning.Climb.StopAngle+stopAngleTolerance
}

// checkHasReachedFloor returns true if the character is climbing down onto a floor.
func (c *Component) checkHasReachedFloor() bool {
	down := c.Up().Mul(-1)
	start := c.pos.Add(down.Mul(c.tuning.Climb.FloorTraceOffset))
	end := start.Add(down)

	hits := c.prober.Shape(start, end, c.debug)
	if len(hits) == 0 {
		return false
	}
	for _, h := range hits {
		floor := game.Parallel(h.ImpactNormal.Mul(-1), game.WorldUp, c.tuning.Climb.FloorNormalThreshold)
		if floor && c.UnrotatedVelocity().Z() < -c.tuning.Climb.FloorVelocityThreshold {
			return true
		}
	}
	return false
}

// checkHasReachedLedge returns true if the character is climbing up and the surface ends just above its
// eyes with a surface to stand on behind it.
func (c *Component) checkHasReachedLedge() bool {
	ledge := c.traceFromEyeHeight(c.tuning.Probe.EyeTraceDistance, c.tuning.Climb.LedgeTraceOffset, c.persistentDebug())
	if ledge.Blocking {
		return false
	}
	walkable := c.rayDown(ledge.TraceEnd, c.tuning.Climb.LedgeTraceDepth)
	return walkable.Blocking && c.UnrotatedVelocity().Z() > c.tuning.Climb.LedgeVelocityThreshold
}

// climbRotation turns the character to face into the climbable surface. Root motion owns the rotation
// while it is active.
func (c *Component) climbRotation(dt float64) mgl64.Quat {
	if c.rootMotionActive || !c.surface.Valid() {
		return c.rot
	}
	target := game.RotationFromX(c.surface.Normal.Mul(-1))
	return game.QuatInterpTo(c.rot, target, dt, c.tuning.Climb.RotationInterpSpeed)
}

// snapToClimbableSurface pulls the character towards the surface, proportionally to how far away from it
// the character is along its forward axis.
func (c *Component) snapToClimbableSurface(dt float64) {
	if !c.surface.Valid() {
		return
	}
	proj := game.ProjectOnTo(c.surface.Location.Sub(c.pos), c.Forward())
	snap := c.surface.Normal.Mul(-proj.Len())
	c.SafeMove(snap.Mul(dt*c.tuning.Climb.MaxSpeed), c.rot)
}
