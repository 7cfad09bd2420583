package movement

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/oomph-ac/climber/game"
	"github.com/oomph-ac/climber/world"
)

const (
	// maxSlideIterations is the number of times a blocked move may be redirected along the blocking surface.
	maxSlideIterations = 2
	// floorProbeDistance is how far below the collider a floor may be and still count as supporting it.
	floorProbeDistance = 2.4
	// maxDepenetrationIterations bounds how many overlapping colliders are pushed out of in one go.
	maxDepenetrationIterations = 4
	// penetrationPullback is the extra distance added when pushing the collider out of an overlap.
	penetrationPullback = 0.01
)

// SafeMove sweeps the character's collider by delta, moving it up to the first blocking surface, and sets
// its rotation. It returns the blocking hit, if any.
func (c *Component) SafeMove(delta mgl64.Vec3, rot mgl64.Quat) (world.Hit, bool) {
	c.rot = rot.Normalize()
	if delta.LenSqr() < game.SmallNumber {
		return world.Hit{}, false
	}
	hit, ok := c.firstBlockingHit(delta)
	if !ok {
		c.pos = c.pos.Add(delta)
		return world.Hit{}, false
	}
	c.pos = hit.Location
	return hit, true
}

// SafeMoveWithSlide is SafeMove, but when blocked the rest of the move is redirected along the blocking
// surface. The first blocking hit is returned.
func (c *Component) SafeMoveWithSlide(delta mgl64.Vec3, rot mgl64.Quat) (world.Hit, bool) {
	first, blocked := c.SafeMove(delta, rot)
	if !blocked {
		return first, false
	}

	hit, remaining := first, delta.Mul(1-first.Time)
	for range maxSlideIterations {
		slide := remaining.Sub(hit.Normal.Mul(remaining.Dot(hit.Normal)))
		if slide.LenSqr() < game.SmallNumber {
			break
		}
		next, ok := c.SafeMove(slide, c.rot)
		if !ok {
			break
		}
		hit, remaining = next, slide.Mul(1-next.Time)
	}
	return first, true
}

// firstBlockingHit returns the earliest hit that stops the collider from moving by delta. Colliders the
// character already overlaps only block movement that goes further into them.
func (c *Component) firstBlockingHit(delta mgl64.Vec3) (world.Hit, bool) {
	if c.world == nil {
		return world.Hit{}, false
	}
	for _, h := range c.world.SweepBox(c.pos, c.pos.Add(delta), c.HalfExtents(), collisionFilter) {
		if h.StartPenetrating && delta.Dot(h.Normal) >= 0 {
			continue
		}
		return h, true
	}
	return world.Hit{}, false
}

// findFloor looks for a walkable surface directly below the collider.
func (c *Component) findFloor() (world.Hit, bool) {
	if c.world == nil {
		return world.Hit{}, false
	}
	down := game.WorldUp.Mul(-floorProbeDistance)
	for _, h := range c.world.SweepBox(c.pos, c.pos.Add(down), c.HalfExtents(), collisionFilter) {
		if h.Normal.Dot(game.WorldUp) >= c.tuning.Locomotion.WalkableFloorZ {
			return h, true
		}
	}
	return world.Hit{}, false
}

// landOnFloor puts the collider onto the first walkable surface within the landing distance below it.
// It returns false if there is none.
func (c *Component) landOnFloor() bool {
	if c.world == nil {
		return false
	}
	down := game.WorldUp.Mul(-c.tuning.Locomotion.LandingDistance)
	for _, h := range c.world.SweepBox(c.pos, c.pos.Add(down), c.HalfExtents(), collisionFilter) {
		if h.StartPenetrating || h.Normal.Dot(game.WorldUp) < c.tuning.Locomotion.WalkableFloorZ {
			continue
		}
		c.pos = h.Location
		c.vel[2] = 0
		return true
	}
	return false
}

// resolvePenetration pushes the collider out of everything it overlaps, always along the shortest way out.
func (c *Component) resolvePenetration() {
	if c.world == nil {
		return
	}
	for range maxDepenetrationIterations {
		moved := false
		for _, h := range c.world.SweepBox(c.pos, c.pos, c.HalfExtents(), collisionFilter) {
			if !h.StartPenetrating {
				continue
			}
			c.pos = c.pos.Add(h.Normal.Mul(h.Depth + penetrationPullback))
			moved = true
			break
		}
		if !moved {
			return
		}
	}
}
