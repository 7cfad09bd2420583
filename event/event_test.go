package event

import (
	"bytes"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func testEvents() []Event {
	return []Event{
		TickEvent{NopEvent: NopEvent{EvTime: 16_666, CharacterID: 1}, Tick: 1, Mode: 2, Position: mgl32.Vec3{50, 0, 96}, Velocity: mgl32.Vec3{0, 0, -9.8}},
		ModeChangedEvent{NopEvent: NopEvent{EvTime: 33_333, CharacterID: 1}, PrevMode: 1, Mode: 3, CustomMode: 1},
		MontageEvent{NopEvent: NopEvent{EvTime: 50_000, CharacterID: 2}, Montage: 4, Phase: MontageEnded, Interrupted: true},
		WarpTargetEvent{NopEvent: NopEvent{EvTime: 66_666, CharacterID: 2}, Anchor: 1, Position: mgl32.Vec3{440, 0, 0}},
	}
}

func TestRecordingRoundTrip(t *testing.T) {
	rec := NewRecorder()
	for _, ev := range testEvents() {
		rec.Publish(ev)
	}
	if rec.Len() != 4 {
		t.Fatalf("expected 4 events, got %d", rec.Len())
	}

	var out bytes.Buffer
	if _, err := rec.WriteTo(&out); err != nil {
		t.Fatalf("unable to write recording: %v", err)
	}
	events, err := ReadRecording(out.Bytes())
	if err != nil {
		t.Fatalf("unable to read recording: %v", err)
	}
	want := testEvents()
	if len(events) != len(want) {
		t.Fatalf("expected %d events, got %d", len(want), len(events))
	}
	for i := range want {
		if events[i] != want[i] {
			t.Fatalf("event %d: expected %+v, got %+v", i, want[i], events[i])
		}
	}
}

func TestRecordingChecksum(t *testing.T) {
	rec := NewRecorder()
	rec.Publish(testEvents()[0])

	var out bytes.Buffer
	_, _ = rec.WriteTo(&out)
	dat := out.Bytes()
	dat[len(recordingMagic)+2] ^= 0xff

	if _, err := ReadRecording(dat); err == nil {
		t.Fatalf("expected checksum mismatch")
	}
	if _, err := ReadRecording([]byte("nope")); err == nil {
		t.Fatalf("expected invalid recording error")
	}
}

func TestDecodeTruncated(t *testing.T) {
	enc := testEvents()[0].Encode()
	if _, err := DecodeEvents(enc[:len(enc)-3]); err == nil {
		t.Fatalf("expected truncated event error")
	}
	if _, err := DecodeEvents([]byte{0xee, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0}); err == nil {
		t.Fatalf("expected unknown event error")
	}
}

func TestEncodeDoesNotAliasPool(t *testing.T) {
	a := testEvents()[0].Encode()
	snapshot := bytes.Clone(a)
	_ = testEvents()[1].Encode()
	if !bytes.Equal(a, snapshot) {
		t.Fatalf("encoded event was modified by a later encode")
	}
}
