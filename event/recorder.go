package event

import (
	"bytes"
	"encoding/binary"
	"io"

	"github.com/oomph-ac/climber/oerror"
	"github.com/sasha-s/go-deadlock"
	"github.com/zeebo/xxh3"
)

const (
	recordingMagic = "CLMBREC" + EventsVersion
	checksumSize   = 8
)

// Recorder collects encoded events in memory so they can be written out as a single recording.
type Recorder struct {
	buf   bytes.Buffer
	count int

	mu deadlock.Mutex
}

var _ Sink = (*Recorder)(nil)

func NewRecorder() *Recorder {
	return &Recorder{}
}

// Publish ...
func (r *Recorder) Publish(ev Event) {
	enc := ev.Encode()

	r.mu.Lock()
	r.buf.Write(enc)
	r.count++
	r.mu.Unlock()
}

// Len returns the number of events recorded.
func (r *Recorder) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.count
}

// WriteTo writes the recording: a magic header, the events and an xxh3 checksum of the events.
func (r *Recorder) WriteTo(w io.Writer) (int64, error) {
	r.mu.Lock()
	body := bytes.Clone(r.buf.Bytes())
	r.mu.Unlock()

	var trailer [checksumSize]byte
	binary.LittleEndian.PutUint64(trailer[:], xxh3.Hash(body))

	var written int64
	for _, part := range [][]byte{[]byte(recordingMagic), body, trailer[:]} {
		n, err := w.Write(part)
		written += int64(n)
		if err != nil {
			return written, err
		}
	}
	return written, nil
}

// ReadRecording verifies a recording written by Recorder.WriteTo and decodes its events.
func ReadRecording(dat []byte) ([]Event, error) {
	if len(dat) < len(recordingMagic)+checksumSize || string(dat[:len(recordingMagic)]) != recordingMagic {
		return nil, oerror.New("not a recording (version %s)", EventsVersion)
	}
	body := dat[len(recordingMagic) : len(dat)-checksumSize]
	want := binary.LittleEndian.Uint64(dat[len(dat)-checksumSize:])
	if got := xxh3.Hash(body); got != want {
		return nil, oerror.New("recording checksum mismatch: %x != %x", got, want)
	}
	return DecodeEvents(body)
}
