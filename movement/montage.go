package movement

import (
	"github.com/oomph-ac/climber/anim"
	"github.com/oomph-ac/climber/event"
)

// PlayMontage plays a transition clip. The request is dropped if there is no animation player or a clip
// is already playing.
func (c *Component) PlayMontage(m anim.Montage) bool {
	if c.anim == nil || c.anim.IsAnyMontagePlaying() {
		return false
	}
	if !c.anim.Play(m) {
		return false
	}
	c.publish(event.MontageEvent{NopEvent: c.eventBase(), Montage: byte(m), Phase: event.MontageStarted})
	return true
}

func (c *Component) onMontageBlendingOut(m anim.Montage, interrupted bool) {
	c.publish(event.MontageEvent{NopEvent: c.eventBase(), Montage: byte(m), Phase: event.MontageBlendingOut, Interrupted: interrupted})
	c.applyMontageTransition(m, interrupted)
}

func (c *Component) onMontageEnded(m anim.Montage, interrupted bool) {
	c.publish(event.MontageEvent{NopEvent: c.eventBase(), Montage: byte(m), Phase: event.MontageEnded, Interrupted: interrupted})
	c.applyMontageTransition(m, interrupted)
}

// applyMontageTransition applies the mode transition a clip leads to once it blends out or ends.
// Interrupted clips never transition, and hop clips keep the character climbing. Clips that end on top of
// something put the character down on it.
func (c *Component) applyMontageTransition(m anim.Montage, interrupted bool) {
	if interrupted {
		return
	}
	switch m {
	case anim.MontageIdleToClimb, anim.MontageClimbDownLedge:
		c.StartClimbing()
		c.StopMovementImmediately()
	case anim.MontageClimbToTop, anim.MontageVault:
		if c.mode == ModeWalking {
			return
		}
		c.SetMode(ModeWalking, CustomModeNone)
		c.landOnFloor()
	}
}
