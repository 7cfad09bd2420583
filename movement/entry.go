package movement

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/oomph-ac/climber/anim"
	"github.com/oomph-ac/climber/game"
	"github.com/oomph-ac/climber/warp"
)

// Hop is the outcome of a hop request.
type Hop uint8

const (
	HopNone Hop = iota
	HopUp
	HopDown
)

func (h Hop) String() string {
	switch h {
	case HopUp:
		return "up"
	case HopDown:
		return "down"
	}
	return "none"
}

// ToggleClimbing starts or stops climbing. Starting tries, in order, to climb the surface in front of the
// character, to climb down a ledge it stands in front of and to vault over an obstacle. Stopping always
// succeeds and drops the character into falling. A transition clip that is still playing is interrupted
// so its completion cannot put the character back onto the surface.
func (c *Component) ToggleClimbing(enable bool) {
	if !enable {
		if c.anim != nil && c.anim.IsAnyMontagePlaying() {
			c.anim.Stop()
		}
		c.StopClimbing()
		return
	}
	switch {
	case c.CanStartClimbing():
		c.PlayMontage(anim.MontageIdleToClimb)
	case c.CanClimbDownLedge():
		c.PlayMontage(anim.MontageClimbDownLedge)
	default:
		c.TryStartVaulting()
	}
}

// StartClimbing switches to the custom climb mode.
func (c *Component) StartClimbing() {
	c.SetMode(ModeCustom, CustomModeClimb)
}

// StopClimbing drops the character into falling.
func (c *Component) StopClimbing() {
	c.SetMode(ModeFalling, CustomModeNone)
}

// CanStartClimbing returns true if the character stands in front of a climbable surface that reaches its
// eyes. It only probes the world and may be called any number of times.
func (c *Component) CanStartClimbing() bool {
	if c.IsFalling() {
		return false
	}
	if !c.traceClimbableSurfaces() {
		return false
	}
	return c.traceFromEyeHeight(c.tuning.Probe.EyeTraceDistance, 0, c.debug).Blocking
}

// CanClimbDownLedge returns true if the character stands on walkable ground that ends right in front of it.
func (c *Component) CanClimbDownLedge() bool {
	if c.IsFalling() {
		return false
	}
	e := c.tuning.Entry
	fwd := c.Forward()

	walkableStart := c.pos.Add(fwd.Mul(e.ClimbDownWalkableOffset))
	walkable := c.rayDown(walkableStart, e.WalkableTraceDepth)

	ledgeStart := walkableStart.Add(fwd.Mul(e.ClimbDownLedgeOffset))
	ledge := c.rayDown(ledgeStart, e.LedgeTraceDepth)

	return walkable.Blocking && !ledge.Blocking
}

// CanStartVaulting samples the ground ahead of the character and returns the point to vault from and the
// point to land on.
func (c *Component) CanStartVaulting() (start, land mgl64.Vec3, ok bool) {
	if c.IsFalling() {
		return mgl64.Vec3{}, mgl64.Vec3{}, false
	}
	e := c.tuning.Entry
	fwd, up := c.Forward(), c.Up()
	for i := range e.VaultSamples {
		reach := e.VaultStep * float64(i+1)
		from := c.pos.Add(up.Mul(e.VaultStep)).Add(fwd.Mul(reach))
		hit := c.prober.Ray(from, from.Add(up.Mul(-reach)), c.debug)

		if i == e.VaultStartIndex && hit.Blocking {
			start = hit.ImpactPoint
		}
		if i == e.VaultLandIndex && hit.Blocking {
			land = hit.ImpactPoint
		}
	}
	ok = start != (mgl64.Vec3{}) && land != (mgl64.Vec3{})
	return start, land, ok
}

// TryStartVaulting vaults over the obstacle in front of the character if there is one. It commits to
// nothing while another clip is playing, since the vault clip would be dropped.
func (c *Component) TryStartVaulting() bool {
	start, land, ok := c.CanStartVaulting()
	if !ok {
		return false
	}
	if c.anim == nil || c.anim.IsAnyMontagePlaying() {
		return false
	}
	c.warp.SetTarget(warp.AnchorVaultStart, start)
	c.warp.SetTarget(warp.AnchorVaultEnd, land)

	c.StartClimbing()
	c.PlayMontage(anim.MontageVault)
	return true
}

// RequestHopping hops along the climbable surface in the direction of the latest input. Only hopping up
// moves the character; hopping down is recognised but has no motion.
func (c *Component) RequestHopping() Hop {
	if !c.IsClimbing() {
		return HopNone
	}
	input := game.SafeNormal(game.UnrotateVector(c.rot, c.lastInput))
	dot := input.Dot(game.WorldUp)

	switch {
	case dot >= c.tuning.Hop.DotThreshold:
		if c.anim == nil || c.anim.IsAnyMontagePlaying() {
			return HopNone
		}
		target, ok := c.checkCanHopUp()
		if !ok {
			return HopNone
		}
		c.warp.SetTarget(warp.AnchorHopUp, target)
		c.PlayMontage(anim.MontageHopUp)
		return HopUp
	case dot <= -c.tuning.Hop.DotThreshold:
		// TODO: probe for a surface below and play the hop down clip once one exists.
		return HopDown
	}
	c.log.Debug("invalid hop direction", "dot", dot)
	return HopNone
}

// checkCanHopUp returns the point to hop to if the surface continues above the character.
func (c *Component) checkCanHopUp() (mgl64.Vec3, bool) {
	hop := c.traceFromEyeHeight(c.tuning.Probe.EyeTraceDistance, c.tuning.Hop.UpEyeOffset, c.debug)
	safety := c.traceFromEyeHeight(c.tuning.Probe.EyeTraceDistance, c.tuning.Hop.SafetyEyeOffset, c.debug)
	if hop.Blocking && safety.Blocking {
		return hop.ImpactPoint, true
	}
	return mgl64.Vec3{}, false
}
