package cashgame

import (
	"context"
	"errors"
	"sync"

	"pokerclock/internal/model"
	"pokerclock/internal/timer"
	appErr "pokerclock/pkg/errors"
	"pokerclock/pkg/logger"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Service owns the cash game collection. A cash clock is a single segment
// with two selectable semantics (count-up elapsed or count-down against a
// budget) behind an optional pre-session gate; the anchor/snapshot duality
// matches the tournament engine, applied to whichever counter is active.
type Service struct {
	db    *gorm.DB
	clock clockwork.Clock

	mu       sync.Mutex
	announce func()
}

func NewService(db *gorm.DB, clock clockwork.Clock) *Service {
	return &Service{db: db, clock: clock}
}

func (s *Service) SetAnnounce(fn func()) {
	s.announce = fn
}

type CreateParams struct {
	SmallBlind       int64
	BigBlind         int64
	Ante             int64
	Memo             string
	CountdownMode    bool
	CountdownTotalMs int64
	PreLevelSeconds  int
}

func (s *Service) Create(ctx context.Context, params CreateParams) (*model.CashGame, error) {
	total := clampCountdownTotal(params.CountdownTotalMs, params.CountdownMode)
	if params.PreLevelSeconds < 0 {
		params.PreLevelSeconds = 0
	}

	g := model.CashGame{
		SmallBlind:           clampMoney(params.SmallBlind),
		BigBlind:             clampMoney(params.BigBlind),
		Ante:                 clampMoney(params.Ante),
		Memo:                 params.Memo,
		Status:               string(timer.StatusIdle),
		CountdownMode:        params.CountdownMode,
		CountdownTotalMs:     total,
		CountdownRemainingMs: total,
		PreLevelSeconds:      params.PreLevelSeconds,
		PreLevelRemainingMs:  int64(params.PreLevelSeconds) * 1000,
	}
	if err := s.db.WithContext(ctx).Create(&g).Error; err != nil {
		return nil, err
	}
	s.announceChange()
	return &g, nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	res := s.db.WithContext(ctx).Delete(&model.CashGame{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		logger.Log.Warn("delete of unknown cash game", zap.Int64("cashGameID", id))
		return nil
	}
	s.announceChange()
	return nil
}

func (s *Service) mutate(ctx context.Context, id int64, fn func(g *model.CashGame) bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var g model.CashGame
	if err := s.db.WithContext(ctx).First(&g, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Log.Warn("cash game mutation on unknown id", zap.Int64("cashGameID", id))
			return nil
		}
		return err
	}
	if !fn(&g) {
		return nil
	}
	if err := s.db.WithContext(ctx).Save(&g).Error; err != nil {
		return err
	}
	s.announceChange()
	return nil
}

func (s *Service) announceChange() {
	if s.announce != nil {
		s.announce()
	}
}

func (s *Service) Start(ctx context.Context, id int64) error {
	return s.mutate(ctx, id, func(g *model.CashGame) bool {
		if timer.Status(g.Status) != timer.StatusIdle {
			return false
		}
		g.ElapsedMs = 0
		g.CountdownRemainingMs = g.CountdownTotalMs
		g.PreLevelRemainingMs = int64(g.PreLevelSeconds) * 1000
		now := s.clock.Now()
		g.TimerStartedAt = &now
		g.Status = string(timer.StatusRunning)
		return true
	})
}

// Pause folds the live value of the active counter into its snapshot and
// clears the anchor.
func (s *Service) Pause(ctx context.Context, id int64) error {
	return s.mutate(ctx, id, func(g *model.CashGame) bool {
		if timer.Status(g.Status) != timer.StatusRunning {
			return false
		}
		now := s.clock.Now()
		status := timer.Status(g.Status)
		switch {
		case g.PreLevelRemainingMs > 0:
			g.PreLevelRemainingMs = timer.LiveRemaining(status, g.TimerStartedAt, g.PreLevelRemainingMs, now)
		case g.CountdownMode:
			g.CountdownRemainingMs = timer.LiveRemaining(status, g.TimerStartedAt, g.CountdownRemainingMs, now)
		default:
			g.ElapsedMs = timer.LiveElapsed(status, g.TimerStartedAt, g.ElapsedMs, now)
		}
		g.TimerStartedAt = nil
		g.Status = string(timer.StatusPaused)
		return true
	})
}

func (s *Service) Resume(ctx context.Context, id int64) error {
	return s.mutate(ctx, id, func(g *model.CashGame) bool {
		if timer.Status(g.Status) != timer.StatusPaused {
			return false
		}
		now := s.clock.Now()
		g.TimerStartedAt = &now
		g.Status = string(timer.StatusRunning)
		return true
	})
}

func (s *Service) Reset(ctx context.Context, id int64) error {
	return s.mutate(ctx, id, func(g *model.CashGame) bool {
		g.Status = string(timer.StatusIdle)
		g.TimerStartedAt = nil
		g.ElapsedMs = 0
		g.CountdownRemainingMs = g.CountdownTotalMs
		g.PreLevelRemainingMs = int64(g.PreLevelSeconds) * 1000
		return true
	})
}

// EndPreLevel opens the gate once the pre-session countdown has truly
// expired: the main clock re-anchors fresh (zero elapsed for count-up, the
// full budget for count-down). Any viewer's poll may call this; a second
// call finds the gate already open and no-ops.
func (s *Service) EndPreLevel(ctx context.Context, id int64) error {
	return s.mutate(ctx, id, func(g *model.CashGame) bool {
		if timer.Status(g.Status) != timer.StatusRunning || g.TimerStartedAt == nil {
			return false
		}
		if g.PreLevelRemainingMs <= 0 {
			return false
		}
		if timer.LiveRemaining(timer.Status(g.Status), g.TimerStartedAt, g.PreLevelRemainingMs, s.clock.Now()) > 0 {
			return false
		}
		g.PreLevelRemainingMs = 0
		g.ElapsedMs = 0
		g.CountdownRemainingMs = g.CountdownTotalMs
		now := s.clock.Now()
		g.TimerStartedAt = &now
		return true
	})
}

// Tick is the viewer poll hook; for cash games the only expiry-driven
// transition is the pre-session gate. A countdown reaching zero just
// displays zero until the operator acts.
func (s *Service) Tick(ctx context.Context, id int64) error {
	return s.EndPreLevel(ctx, id)
}

// SetCountdown switches the main clock's semantics. Changing the budget
// reloads the remaining value unless the main clock is mid-flight.
func (s *Service) SetCountdown(ctx context.Context, id int64, mode bool, totalMs int64) error {
	return s.mutate(ctx, id, func(g *model.CashGame) bool {
		total := clampCountdownTotal(totalMs, mode)
		g.CountdownMode = mode
		g.CountdownTotalMs = total
		if timer.Status(g.Status) == timer.StatusIdle || g.PreLevelRemainingMs > 0 {
			g.CountdownRemainingMs = total
		} else if g.CountdownRemainingMs > total {
			g.CountdownRemainingMs = total
		}
		return true
	})
}

type UpdateParams struct {
	SmallBlind      *int64
	BigBlind        *int64
	Ante            *int64
	Memo            *string
	PreLevelSeconds *int
}

func (s *Service) Update(ctx context.Context, id int64, params UpdateParams) error {
	return s.mutate(ctx, id, func(g *model.CashGame) bool {
		if params.SmallBlind != nil {
			g.SmallBlind = clampMoney(*params.SmallBlind)
		}
		if params.BigBlind != nil {
			g.BigBlind = clampMoney(*params.BigBlind)
		}
		if params.Ante != nil {
			g.Ante = clampMoney(*params.Ante)
		}
		if params.Memo != nil {
			g.Memo = *params.Memo
		}
		if params.PreLevelSeconds != nil {
			sec := *params.PreLevelSeconds
			if sec < 0 {
				sec = 0
			}
			g.PreLevelSeconds = sec
			if timer.Status(g.Status) == timer.StatusIdle {
				g.PreLevelRemainingMs = int64(sec) * 1000
			}
		}
		return true
	})
}

func clampMoney(v int64) int64 {
	if v < 0 {
		return 0
	}
	return v
}

// A countdown budget divides display math downstream, so in countdown mode
// it is clamped to at least one second.
func clampCountdownTotal(totalMs int64, mode bool) int64 {
	if totalMs < 0 {
		totalMs = 0
	}
	if mode && totalMs < 1000 {
		totalMs = 1000
	}
	return totalMs
}

// Phase names reported in the view.
const (
	PhasePreLevel  = "prelevel"
	PhaseCountUp   = "countup"
	PhaseCountdown = "countdown"
)

// View is the render-ready read model: the entity plus which phase is
// visible and its live display value.
type View struct {
	CashGame model.CashGame `json:"cashGame"`
	Phase    string         `json:"phase"`
	LiveMs   int64          `json:"liveMs"`
	Clock    string         `json:"clock"`
}

func (s *Service) Get(ctx context.Context, id int64) (*View, error) {
	var g model.CashGame
	if err := s.db.WithContext(ctx).First(&g, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, appErr.ErrCashGameNotFound
		}
		return nil, err
	}
	v := s.buildView(g)
	return &v, nil
}

func (s *Service) List(ctx context.Context) ([]View, error) {
	var rows []model.CashGame
	if err := s.db.WithContext(ctx).Order("id").Find(&rows).Error; err != nil {
		return nil, err
	}
	views := make([]View, 0, len(rows))
	for _, g := range rows {
		views = append(views, s.buildView(g))
	}
	return views, nil
}

// All returns the raw entity slice for the FULL_SYNC snapshot.
func (s *Service) All(ctx context.Context) ([]model.CashGame, error) {
	var rows []model.CashGame
	if err := s.db.WithContext(ctx).Order("id").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *Service) buildView(g model.CashGame) View {
	now := s.clock.Now()
	status := timer.Status(g.Status)

	v := View{CashGame: g}
	switch {
	case g.PreLevelRemainingMs > 0:
		v.Phase = PhasePreLevel
		v.LiveMs = timer.LiveRemaining(status, g.TimerStartedAt, g.PreLevelRemainingMs, now)
		v.Clock = timer.FormatCountdown(v.LiveMs)
	case g.CountdownMode:
		v.Phase = PhaseCountdown
		v.LiveMs = timer.LiveRemaining(status, g.TimerStartedAt, g.CountdownRemainingMs, now)
		v.Clock = timer.FormatSession(v.LiveMs)
	default:
		v.Phase = PhaseCountUp
		v.LiveMs = timer.LiveElapsed(status, g.TimerStartedAt, g.ElapsedMs, now)
		v.Clock = timer.FormatElapsed(v.LiveMs)
	}
	return v
}
