package movement

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/oomph-ac/climber/probe"
)

// traceClimbableSurfaces sweeps the probe capsule a unit forward from just in front of the character and
// stores every climbable hit. It returns true if anything was hit.
func (c *Component) traceClimbableSurfaces() bool {
	start := c.pos.Add(c.Forward().Mul(c.tuning.Probe.ForwardOffset))
	end := start.Add(c.Forward())
	c.climbableHits = c.prober.Shape(start, end, c.debug)
	return len(c.climbableHits) > 0
}

// traceFromEyeHeight traces forward from eye height raised by offset.
func (c *Component) traceFromEyeHeight(distance, offset float64, debug probe.DebugMode) probe.Hit {
	start := c.pos.Add(c.Up().Mul(c.tuning.Probe.EyeHeight + offset))
	end := start.Add(c.Forward().Mul(distance))
	return c.prober.Ray(start, end, debug)
}

// rayDown traces straight down from start.
func (c *Component) rayDown(start mgl64.Vec3, depth float64) probe.Hit {
	return c.prober.Ray(start, start.Add(c.Up().Mul(-depth)), c.debug)
}

func (c *Component) persistentDebug() probe.DebugMode {
	if c.debug == probe.DebugNone {
		return probe.DebugNone
	}
	return probe.DebugPersistent
}
