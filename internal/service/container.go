package service

import (
	"context"

	"pokerclock/internal/config"
	"pokerclock/internal/cue"
	"pokerclock/internal/service/cashgame"
	"pokerclock/internal/service/display"
	"pokerclock/internal/service/settings"
	"pokerclock/internal/service/tournament"
	"pokerclock/internal/syncx"
	"pokerclock/pkg/logger"
	"pokerclock/pkg/utils/random"

	"github.com/jonboulle/clockwork"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Container wires the entity services to the synchronization transports.
// Services call the broadcast hook after every mutation; the hook funnels
// through the throttle, which fans the resulting FULL_SYNC out to the local
// hub and, when configured, the redis relay.
type Container struct {
	Tournament *tournament.Service
	Cash       *cashgame.Service
	Display    *display.Service
	Settings   *settings.Service

	Hub   *syncx.Hub
	Relay *syncx.Relay // nil when redis is absent
	Cues  cue.Player

	throttle *syncx.Throttle
}

func NewContainer(db *gorm.DB, rdb *redis.Client, clock clockwork.Clock) *Container {
	c := &Container{
		Tournament: tournament.NewService(db, clock),
		Cash:       cashgame.NewService(db, clock),
		Display:    display.NewService(db),
		Settings:   settings.NewService(db),
		Hub:        syncx.NewHub(),
	}

	sinks := []syncx.Sink{c.Hub}
	if rdb != nil {
		roomCode := config.GlobalConfig.Sync.RoomCode
		if roomCode == "" {
			roomCode = random.Code(6)
		}
		c.Relay = syncx.NewRelay(rdb, roomCode)
		sinks = append(sinks, c.Relay)
		logger.Log.Info("remote relay enabled", zap.String("roomCode", roomCode))
	}
	fanout := syncx.NewFanout(sinks...)

	c.throttle = syncx.NewThrottle(
		clock,
		config.GlobalConfig.Sync.ThrottleInterval(),
		c.snapshotMessage,
		fanout,
	)
	c.Cues = cue.NewBroadcast(fanout)

	c.Tournament.SetAnnounce(c.throttle.Request)
	c.Tournament.SetCuePlayer(c.Cues)
	c.Cash.SetAnnounce(c.throttle.Request)
	c.Display.SetAnnounce(c.throttle.Request)
	c.Settings.SetAnnounce(c.throttle.Request)

	return c
}

func (c *Container) Start(ctx context.Context) error {
	if err := c.Settings.Load(ctx); err != nil {
		return err
	}
	// Seed every already-connected or soon-connecting viewer.
	c.throttle.Request()
	return nil
}

// Snapshot assembles the full synchronized state slice. Used both for the
// FULL_SYNC broadcast and for a viewer's initial REST hydration.
func (c *Container) Snapshot(ctx context.Context) (syncx.Snapshot, error) {
	tournaments, err := c.Tournament.All(ctx)
	if err != nil {
		return syncx.Snapshot{}, err
	}
	cashGames, err := c.Cash.All(ctx)
	if err != nil {
		return syncx.Snapshot{}, err
	}
	displays, err := c.Display.All(ctx)
	if err != nil {
		return syncx.Snapshot{}, err
	}
	return syncx.Snapshot{
		Tournaments: tournaments,
		CashGames:   cashGames,
		Displays:    displays,
		Settings:    c.Settings.Get(ctx),
	}, nil
}

func (c *Container) snapshotMessage() (syncx.Message, bool) {
	snap, err := c.Snapshot(context.Background())
	if err != nil {
		logger.Log.Warn("failed to build sync snapshot", zap.Error(err))
		return syncx.Message{}, false
	}
	return syncx.NewFullSync(snap), true
}
