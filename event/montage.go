package event

import (
	"bytes"
	"slices"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/oomph-ac/climber/internal"
)

type MontagePhase byte

const (
	MontageStarted MontagePhase = iota
	MontageBlendingOut
	MontageEnded
)

func (p MontagePhase) String() string {
	switch p {
	case MontageStarted:
		return "started"
	case MontageBlendingOut:
		return "blending_out"
	case MontageEnded:
		return "ended"
	}
	return "unknown"
}

// MontageEvent is recorded when a transition clip starts, blends out or ends.
type MontageEvent struct {
	NopEvent

	Montage     byte
	Phase       MontagePhase
	Interrupted bool
}

func (MontageEvent) ID() byte {
	return EventIDMontage
}

func (ev MontageEvent) Encode() []byte {
	buf := internal.BufferPool.Get().(*bytes.Buffer)
	buf.Reset()
	defer internal.BufferPool.Put(buf)

	WriteEventHeader(ev, buf)
	buf.WriteByte(ev.Montage)
	buf.WriteByte(byte(ev.Phase))
	writeBool(buf, ev.Interrupted)

	return slices.Clone(buf.Bytes())
}

// WarpTargetEvent is recorded when the climb controller publishes a warp target.
type WarpTargetEvent struct {
	NopEvent

	Anchor   byte
	Position mgl32.Vec3
}

func (WarpTargetEvent) ID() byte {
	return EventIDWarpTarget
}

func (ev WarpTargetEvent) Encode() []byte {
	buf := internal.BufferPool.Get().(*bytes.Buffer)
	buf.Reset()
	defer internal.BufferPool.Put(buf)

	WriteEventHeader(ev, buf)
	buf.WriteByte(ev.Anchor)
	writeVec3(buf, ev.Position)

	return slices.Clone(buf.Bytes())
}
