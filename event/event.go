package event

import (
	"bytes"
	"encoding/binary"
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/oomph-ac/climber/oerror"
)

const EventsVersion = "1"

// Event is a single recorded occurrence in a character's simulation. Time is the simulation time of the
// event in microseconds.
type Event interface {
	ID() byte
	Encode() []byte

	Time() int64
	Character() uint32
}

// Sink receives events as they happen. Implementations must be safe for concurrent use when characters
// are ticked in parallel.
type Sink interface {
	Publish(ev Event)
}

type NopEvent struct {
	EvTime      int64
	CharacterID uint32
}

func (n NopEvent) Time() int64 {
	return n.EvTime
}

func (n NopEvent) Character() uint32 {
	return n.CharacterID
}

const headerSize = 1 + 8 + 4

func WriteEventHeader(ev Event, buf *bytes.Buffer) {
	buf.WriteByte(ev.ID())
	_ = binary.Write(buf, binary.LittleEndian, ev.Time())
	_ = binary.Write(buf, binary.LittleEndian, ev.Character())
}

// DecodeEvents decodes a stream of encoded events without a checksum trailer.
func DecodeEvents(dat []byte) ([]Event, error) {
	buf := bytes.NewBuffer(dat)
	events := []Event{}
	for buf.Len() > 0 {
		ev, err := DecodeEvent(buf)
		if err != nil {
			return events, oerror.New("error decoding event %d: %v", len(events), err)
		}
		events = append(events, ev)
	}
	return events, nil
}

// DecodeEvent decodes the next event in the buffer.
func DecodeEvent(buf *bytes.Buffer) (Event, error) {
	if buf.Len() < headerSize {
		return nil, oerror.New("truncated event header")
	}
	id, _ := buf.ReadByte()
	base := NopEvent{
		EvTime:      int64(binary.LittleEndian.Uint64(buf.Next(8))),
		CharacterID: binary.LittleEndian.Uint32(buf.Next(4)),
	}

	r := reader{buf: buf}
	var ev Event
	switch id {
	case EventIDTick:
		ev = TickEvent{
			NopEvent: base,
			Tick:     r.readInt64(),
			Mode:     r.readByte(),
			Position: r.readVec3(),
			Velocity: r.readVec3(),
		}
	case EventIDModeChanged:
		ev = ModeChangedEvent{
			NopEvent:       base,
			PrevMode:       r.readByte(),
			PrevCustomMode: r.readByte(),
			Mode:           r.readByte(),
			CustomMode:     r.readByte(),
		}
	case EventIDMontage:
		ev = MontageEvent{
			NopEvent:    base,
			Montage:     r.readByte(),
			Phase:       MontagePhase(r.readByte()),
			Interrupted: r.readByte() == 1,
		}
	case EventIDWarpTarget:
		ev = WarpTargetEvent{
			NopEvent: base,
			Anchor:   r.readByte(),
			Position: r.readVec3(),
		}
	default:
		return nil, oerror.New("unknown event: %d", id)
	}
	if r.short {
		return nil, oerror.New("truncated event %d", id)
	}
	return ev, nil
}

const (
	_ = iota
	EventIDTick
	EventIDModeChanged
	EventIDMontage
	EventIDWarpTarget
)

// reader reads little endian values from a buffer and remembers whether it ran out of data.
type reader struct {
	buf   *bytes.Buffer
	short bool
}

func (r *reader) next(n int) []byte {
	if r.buf.Len() < n {
		r.short = true
		r.buf.Next(r.buf.Len())
		return make([]byte, n)
	}
	return r.buf.Next(n)
}

func (r *reader) readByte() byte {
	return r.next(1)[0]
}

func (r *reader) readInt64() int64 {
	return int64(binary.LittleEndian.Uint64(r.next(8)))
}

func (r *reader) readVec3() mgl32.Vec3 {
	var v mgl32.Vec3
	for i := range 3 {
		v[i] = math.Float32frombits(binary.LittleEndian.Uint32(r.next(4)))
	}
	return v
}

func writeVec3(buf *bytes.Buffer, v mgl32.Vec3) {
	for i := range 3 {
		_ = binary.Write(buf, binary.LittleEndian, math.Float32bits(v[i]))
	}
}

func writeBool(buf *bytes.Buffer, b bool) {
	if b {
		buf.WriteByte(1)
		return
	}
	buf.WriteByte(0)
}
