package surface

import (
	"errors"
	"io"
	"log/slog"
	"testing"

	"mystrix-remote/session"
)

var errSend = errors.New("port write failed")

type sent struct {
	Note     uint8
	Velocity uint8
}

// recorder is a NoteSender that keeps every message. With limit set it
// fails once limit messages have been accepted; with fail set it always does.
type recorder struct {
	msgs  []sent
	limit int
	fail  bool
}

func (r *recorder) SendNote(note, velocity uint8) error {
	if r.fail || (r.limit > 0 && len(r.msgs) >= r.limit) {
		return errSend
	}
	r.msgs = append(r.msgs, sent{note, velocity})
	return nil
}

func (r *recorder) reset() {
	r.msgs = nil
}

func (r *recorder) forNote(note uint8) []uint8 {
	var out []uint8
	for _, m := range r.msgs {
		if m.Note == note {
			out = append(out, m.Velocity)
		}
	}
	return out
}

func (r *recorder) last() map[uint8]uint8 {
	out := make(map[uint8]uint8)
	for _, m := range r.msgs {
		out[m.Note] = m.Velocity
	}
	return out
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestSurface(t *testing.T, song session.Song, opts Options) (*Surface, *recorder) {
	t.Helper()
	rec := &recorder{}
	s, err := New(song, rec, opts, quietLogger())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return s, rec
}

// brokenSong returns a track whose every accessor panics at index bad, and
// a transport that panics.
type brokenSong struct {
	*session.Memory
	bad int
}

func (b brokenSong) Track(i int) (session.Track, error) {
	if i == b.bad {
		return panicTrack{}, nil
	}
	return b.Memory.Track(i)
}

func (b brokenSong) Transport() (session.Transport, error) {
	panic("transport is gone")
}

type panicTrack struct{}

func (panicTrack) ClipSlotCount() int                     { return 8 }
func (panicTrack) ClipSlot(int) (session.ClipSlot, error) { return panicSlot{}, nil }
func (panicTrack) Muted() (bool, error)                   { panic("stale track") }
func (panicTrack) SetMute(bool) error                     { panic("stale track") }
func (panicTrack) StopAllClips() error                    { panic("stale track") }

type panicSlot struct{}

func (panicSlot) HasClip() (bool, error)     { panic("stale slot") }
func (panicSlot) IsPlaying() (bool, error)   { panic("stale slot") }
func (panicSlot) IsTriggered() (bool, error) { panic("stale slot") }
func (panicSlot) ClipColor() (int, error)    { panic("stale slot") }
func (panicSlot) Fire() error                { panic("stale slot") }
