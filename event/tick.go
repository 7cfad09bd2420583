package event

import (
	"bytes"
	"encoding/binary"
	"slices"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/oomph-ac/climber/internal"
)

// TickEvent is a snapshot of a character after a simulation step.
type TickEvent struct {
	NopEvent

	Tick     int64
	Mode     byte
	Position mgl32.Vec3
	Velocity mgl32.Vec3
}

func (TickEvent) ID() byte {
	return EventIDTick
}

func (ev TickEvent) Encode() []byte {
	buf := internal.BufferPool.Get().(*bytes.Buffer)
	buf.Reset()
	defer internal.BufferPool.Put(buf)

	WriteEventHeader(ev, buf)
	_ = binary.Write(buf, binary.LittleEndian, ev.Tick)
	buf.WriteByte(ev.Mode)
	writeVec3(buf, ev.Position)
	writeVec3(buf, ev.Velocity)

	return slices.Clone(buf.Bytes())
}
