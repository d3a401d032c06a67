// Package cue is the boundary to the audio/TTS collaborator. The service
// fires events and never waits: playback, synthesis, and failures all live
// on the display side.
package cue

import "pokerclock/internal/syncx"

// Events emitted by the engines on timer transitions.
const (
	EventLevelUp    = "level_up"
	EventBreakStart = "break_start"
	EventFinished   = "tournament_end"
	EventPreLevelUp = "prelevel_end"
)

type Player interface {
	Play(event string, volume float64, preset string)
}

// Broadcast delivers cues as CUE sync messages over every live transport,
// bypassing the snapshot throttle: a cue is an instant, not state.
type Broadcast struct {
	out syncx.Sink
}

func NewBroadcast(out syncx.Sink) *Broadcast {
	return &Broadcast{out: out}
}

func (b *Broadcast) Play(event string, volume float64, preset string) {
	if volume < 0 {
		volume = 0
	}
	if volume > 1 {
		volume = 1
	}
	b.out.Publish(syncx.NewCue(syncx.CuePayload{
		Event:  event,
		Volume: volume,
		Preset: preset,
	}))
}

// Muted is the degraded mode player used when no transport is configured.
type Muted struct{}

func (Muted) Play(string, float64, string) {}
