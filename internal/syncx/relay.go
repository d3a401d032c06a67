package syncx

import (
	"context"
	"encoding/json"
	"fmt"

	"pokerclock/pkg/logger"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Relay mirrors the local broadcast over redis pub/sub so a viewer with no
// shared local context can subscribe with a room code. It is a drop-in
// alternate sink for the same message shape, not a different protocol.
type Relay struct {
	rdb      *redis.Client
	roomCode string
}

func NewRelay(rdb *redis.Client, roomCode string) *Relay {
	return &Relay{rdb: rdb, roomCode: roomCode}
}

func (r *Relay) RoomCode() string {
	return r.roomCode
}

func (r *Relay) channel() string {
	return fmt.Sprintf("pokerclock:room:%s", r.roomCode)
}

// Publish is fire-and-forget: relay failures degrade remote viewers but
// must never disturb local operation.
func (r *Relay) Publish(msg Message) {
	raw, err := json.Marshal(msg)
	if err != nil {
		logger.Log.Warn("failed to encode relay message", zap.Error(err))
		return
	}
	if err := r.rdb.Publish(context.Background(), r.channel(), raw).Err(); err != nil {
		logger.Log.Warn("relay publish failed", zap.String("room", r.roomCode), zap.Error(err))
	}
}

// Mirror subscribes to the room channel and republishes remote messages
// into the local hub. Used by a viewer-only instance joining someone else's
// room; messages originating from this process are dropped to avoid loops.
func (r *Relay) Mirror(ctx context.Context, hub *Hub) {
	sub := r.rdb.Subscribe(ctx, r.channel())
	defer sub.Close()

	logger.Log.Info("relay mirror subscribed", zap.String("room", r.roomCode))
	for {
		select {
		case <-ctx.Done():
			return
		case raw, ok := <-sub.Channel():
			if !ok {
				return
			}
			var msg Message
			if err := json.Unmarshal([]byte(raw.Payload), &msg); err != nil {
				logger.Log.Warn("malformed relay message", zap.Error(err))
				continue
			}
			if msg.Origin == originID {
				continue
			}
			hub.Publish(msg)
		}
	}
}
