// Package syncx carries full-state snapshots from the authoritative process
// to every subscribed view. Receivers replace their local slices wholesale;
// there is no field-level merge. The same envelope travels over both the
// local hub and the redis relay, so a remote viewer and a local tab consume
// an identical payload shape.
package syncx

import (
	"encoding/json"
	"time"

	"pokerclock/internal/model"
	"pokerclock/pkg/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Kind string

const (
	KindFullSync Kind = "FULL_SYNC"
	KindCue      Kind = "CUE"
)

type Message struct {
	ID        string          `json:"id"`
	Origin    string          `json:"origin"`
	Kind      Kind            `json:"kind"`
	Payload   json.RawMessage `json:"payload"`
	Timestamp int64           `json:"timestamp"`
}

// originID identifies this process so a relay mirror can drop its own
// messages instead of looping them back into the hub.
var originID = uuid.NewString()

// Snapshot is the full synchronized state slice. Every broadcast sends all
// of it, so a receiver never has to merge.
type Snapshot struct {
	Tournaments []model.Tournament        `json:"tournaments"`
	CashGames   []model.CashGame          `json:"cashGames"`
	Displays    []model.DisplayAssignment `json:"displays"`
	Settings    json.RawMessage           `json:"settings"`
}

// CuePayload is the fire-and-forget audio/speech cue event. The service
// never waits on playback and never hears about failures.
type CuePayload struct {
	Event  string  `json:"event"`
	Volume float64 `json:"volume"`
	Preset string  `json:"preset,omitempty"`
}

func NewFullSync(s Snapshot) Message {
	return newMessage(KindFullSync, s)
}

func NewCue(p CuePayload) Message {
	return newMessage(KindCue, p)
}

func newMessage(kind Kind, payload interface{}) Message {
	raw, err := json.Marshal(payload)
	if err != nil {
		logger.Log.Warn("failed to encode sync payload", zap.String("kind", string(kind)), zap.Error(err))
		raw = json.RawMessage("{}")
	}
	return Message{
		ID:        uuid.NewString(),
		Origin:    originID,
		Kind:      kind,
		Payload:   raw,
		Timestamp: time.Now().UnixMilli(),
	}
}
