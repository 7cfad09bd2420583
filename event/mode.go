package event

import (
	"bytes"
	"slices"

	"github.com/oomph-ac/climber/internal"
)

// ModeChangedEvent is recorded whenever a character's movement mode changes.
type ModeChangedEvent struct {
	NopEvent

	PrevMode, PrevCustomMode byte
	Mode, CustomMode         byte
}

func (ModeChangedEvent) ID() byte {
	return EventIDModeChanged
}

func (ev ModeChangedEvent) Encode() []byte {
	buf := internal.BufferPool.Get().(*bytes.Buffer)
	buf.Reset()
	defer internal.BufferPool.Put(buf)

	WriteEventHeader(ev, buf)
	buf.Write([]byte{ev.PrevMode, ev.PrevCustomMode, ev.Mode, ev.CustomMode})

	return slices.Clone(buf.Bytes())
}
