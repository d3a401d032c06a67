package tournament

import (
	"context"
	"errors"
	"sync"

	"pokerclock/internal/cue"
	"pokerclock/internal/model"
	"pokerclock/internal/timer"
	appErr "pokerclock/pkg/errors"
	"pokerclock/pkg/logger"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Service owns the tournament collection. Every mutation loads the entity,
// applies the transition atomically under the service mutex, writes it
// back, then requests a broadcast. A guard that fails leaves the entity
// untouched and sends nothing, which is what makes redundant viewer ticks
// safe: once a transition has run, its precondition no longer holds.
type Service struct {
	db    *gorm.DB
	clock clockwork.Clock
	cues  cue.Player

	mu       sync.Mutex
	announce func()
}

func NewService(db *gorm.DB, clock clockwork.Clock) *Service {
	return &Service{db: db, clock: clock, cues: cue.Muted{}}
}

// SetAnnounce wires the broadcast hook; called once by the container.
func (s *Service) SetAnnounce(fn func()) {
	s.announce = fn
}

func (s *Service) SetCuePlayer(p cue.Player) {
	if p != nil {
		s.cues = p
	}
}

type CreateParams struct {
	Name            string
	Levels          []model.BlindLevel
	PreLevelSeconds int
	StartingStack   int64
	RegCloseLevel   int
	PrizesJSON      datatypes.JSON
	OverridesJSON   datatypes.JSON
}

func (s *Service) Create(ctx context.Context, params CreateParams) (*model.Tournament, error) {
	levels := sanitizeLevels(params.Levels)
	if len(levels) == 0 {
		return nil, appErr.ErrInvalidLevelList
	}
	if params.PreLevelSeconds < 0 {
		params.PreLevelSeconds = 0
	}
	if params.StartingStack < 0 {
		params.StartingStack = 0
	}
	if params.RegCloseLevel < 0 {
		params.RegCloseLevel = 0
	}

	t := model.Tournament{
		Name:            params.Name,
		LevelsJSON:      marshalLevels(levels),
		CurrentLevel:    0,
		Status:          string(timer.StatusIdle),
		RemainingMs:     durationMs(levels[0]),
		PreLevelSeconds: params.PreLevelSeconds,
		StartingStack:   params.StartingStack,
		RegCloseLevel:   params.RegCloseLevel,
		PrizesJSON:      params.PrizesJSON,
		OverridesJSON:   params.OverridesJSON,
	}
	if err := s.db.WithContext(ctx).Create(&t).Error; err != nil {
		return nil, err
	}
	s.announceChange()
	return &t, nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	res := s.db.WithContext(ctx).Delete(&model.Tournament{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		logger.Log.Warn("delete of unknown tournament", zap.Int64("tournamentID", id))
		return nil
	}
	s.announceChange()
	return nil
}

// mutate runs one atomic transition. fn returns false to signal "guard not
// met": nothing is saved and nothing is broadcast. Unknown ids are no-ops
// per the failure policy; the UI must not surface them as errors.
func (s *Service) mutate(ctx context.Context, id int64, fn func(t *model.Tournament, levels []model.BlindLevel) bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var t model.Tournament
	if err := s.db.WithContext(ctx).First(&t, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Log.Warn("tournament mutation on unknown id", zap.Int64("tournamentID", id))
			return nil
		}
		return err
	}

	levels := parseLevels(t.LevelsJSON)
	if !fn(&t, levels) {
		return nil
	}
	if err := s.db.WithContext(ctx).Save(&t).Error; err != nil {
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

// Start arms the clock from idle. With a pre-level duration configured the
// tournament enters the pre-level countdown first; otherwise the current
// level's full duration is loaded.
func (s *Service) Start(ctx context.Context, id int64) error {
	return s.mutate(ctx, id, func(t *model.Tournament, levels []model.BlindLevel) bool {
		if timer.Status(t.Status) != timer.StatusIdle || len(levels) == 0 {
			return false
		}
		if t.PreLevelSeconds > 0 {
			t.CurrentLevel = model.PreLevelIndex
			t.RemainingMs = int64(t.PreLevelSeconds) * 1000
		} else {
			t.CurrentLevel = clampIndex(levels, t.CurrentLevel)
			t.RemainingMs = durationMs(levels[t.CurrentLevel])
		}
		now := s.clock.Now()
		t.TimerStartedAt = &now
		t.Status = string(timer.StatusRunning)
		return true
	})
}

// Pause freezes the live remaining value into the snapshot and clears the
// anchor, so the frozen value is exact regardless of when resume happens.
func (s *Service) Pause(ctx context.Context, id int64) error {
	return s.mutate(ctx, id, func(t *model.Tournament, _ []model.BlindLevel) bool {
		if timer.Status(t.Status) != timer.StatusRunning {
			return false
		}
		t.RemainingMs = timer.LiveRemaining(timer.Status(t.Status), t.TimerStartedAt, t.RemainingMs, s.clock.Now())
		t.TimerStartedAt = nil
		t.Status = string(timer.StatusPaused)
		return true
	})
}

func (s *Service) Resume(ctx context.Context, id int64) error {
	return s.mutate(ctx, id, func(t *model.Tournament, _ []model.BlindLevel) bool {
		if timer.Status(t.Status) != timer.StatusPaused {
			return false
		}
		now := s.clock.Now()
		t.TimerStartedAt = &now
		t.Status = string(timer.StatusRunning)
		return true
	})
}

func (s *Service) Reset(ctx context.Context, id int64) error {
	return s.mutate(ctx, id, func(t *model.Tournament, levels []model.BlindLevel) bool {
		t.Status = string(timer.StatusIdle)
		t.CurrentLevel = 0
		t.TimerStartedAt = nil
		if len(levels) > 0 {
			t.RemainingMs = durationMs(levels[0])
		} else {
			t.RemainingMs = 0
		}
		return true
	})
}

// AdvanceLevel moves to the next level, or to finished when the last level
// expires. While running the new level is re-anchored to now so it starts
// with its full duration; otherwise the anchor stays cleared and the fresh
// duration waits for the next start/resume.
func (s *Service) AdvanceLevel(ctx context.Context, id int64) error {
	return s.mutate(ctx, id, func(t *model.Tournament, levels []model.BlindLevel) bool {
		if len(levels) == 0 {
			return false
		}
		s.advanceLocked(t, levels)
		return true
	})
}

func (s *Service) advanceLocked(t *model.Tournament, levels []model.BlindLevel) {
	fromPreLevel := t.CurrentLevel == model.PreLevelIndex
	if !fromPreLevel && t.CurrentLevel >= len(levels)-1 {
		t.Status = string(timer.StatusFinished)
		t.TimerStartedAt = nil
		t.RemainingMs = 0
		s.cues.Play(cue.EventFinished, 1, "")
		return
	}

	t.CurrentLevel++
	t.RemainingMs = durationMs(levels[t.CurrentLevel])
	if timer.Status(t.Status) == timer.StatusRunning {
		now := s.clock.Now()
		t.TimerStartedAt = &now
	} else {
		t.TimerStartedAt = nil
	}

	switch {
	case fromPreLevel:
		s.cues.Play(cue.EventPreLevelUp, 1, "")
	case levels[t.CurrentLevel].Kind == model.LevelKindBreak:
		s.cues.Play(cue.EventBreakStart, 1, "")
	default:
		s.cues.Play(cue.EventLevelUp, 1, "")
	}
}

func (s *Service) PrevLevel(ctx context.Context, id int64) error {
	return s.jump(ctx, id, func(t *model.Tournament) int { return t.CurrentLevel - 1 })
}

func (s *Service) JumpLevel(ctx context.Context, id int64, level int) error {
	return s.jump(ctx, id, func(*model.Tournament) int { return level })
}

func (s *Service) jump(ctx context.Context, id int64, target func(*model.Tournament) int) error {
	return s.mutate(ctx, id, func(t *model.Tournament, levels []model.BlindLevel) bool {
		if len(levels) == 0 {
			return false
		}
		t.CurrentLevel = clampIndex(levels, target(t))
		t.RemainingMs = durationMs(levels[t.CurrentLevel])
		if timer.Status(t.Status) == timer.StatusFinished {
			t.Status = string(timer.StatusPaused)
		}
		if timer.Status(t.Status) == timer.StatusRunning {
			now := s.clock.Now()
			t.TimerStartedAt = &now
		} else {
			t.TimerStartedAt = nil
		}
		return true
	})
}

// Adjust nudges the clock by deltaMs. While running the live value is
// captured first and the anchor reset, so the delta applies exactly once.
func (s *Service) Adjust(ctx context.Context, id int64, deltaMs int64) error {
	return s.mutate(ctx, id, func(t *model.Tournament, _ []model.BlindLevel) bool {
		now := s.clock.Now()
		status := timer.Status(t.Status)
		value := timer.LiveRemaining(status, t.TimerStartedAt, t.RemainingMs, now) + deltaMs
		if value < 0 {
			value = 0
		}
		t.RemainingMs = value
		if status == timer.StatusRunning && t.TimerStartedAt != nil {
			t.TimerStartedAt = &now
		}
		return true
	})
}

// Seek positions the clock at an absolute elapsed offset into the current
// segment. positionMs is clamped to the segment's duration.
func (s *Service) Seek(ctx context.Context, id int64, positionMs int64) error {
	return s.mutate(ctx, id, func(t *model.Tournament, levels []model.BlindLevel) bool {
		var dur int64
		if t.CurrentLevel == model.PreLevelIndex {
			dur = int64(t.PreLevelSeconds) * 1000
		} else {
			if len(levels) == 0 {
				return false
			}
			dur = durationMs(levels[clampIndex(levels, t.CurrentLevel)])
		}
		if positionMs < 0 {
			positionMs = 0
		}
		if positionMs > dur {
			positionMs = dur
		}
		now := s.clock.Now()
		t.RemainingMs = dur - positionMs
		if timer.Status(t.Status) == timer.StatusRunning && t.TimerStartedAt != nil {
			t.TimerStartedAt = &now
		}
		return true
	})
}

// Tick is called opportunistically by every polling viewer. It advances the
// level only when the live remaining value has reached zero; because the
// advance re-anchors with the new level's full duration, a second tick in
// the same instant finds remaining > 0 and no-ops.
func (s *Service) Tick(ctx context.Context, id int64) error {
	return s.mutate(ctx, id, func(t *model.Tournament, levels []model.BlindLevel) bool {
		if timer.Status(t.Status) != timer.StatusRunning || t.TimerStartedAt == nil || len(levels) == 0 {
			return false
		}
		if timer.LiveRemaining(timer.Status(t.Status), t.TimerStartedAt, t.RemainingMs, s.clock.Now()) > 0 {
			return false
		}
		s.advanceLocked(t, levels)
		return true
	})
}

// AddCounters applies deltas to the entry/rebuy/addon tallies, clamped at
// zero. Bad keystrokes must never take a counter negative.
func (s *Service) AddCounters(ctx context.Context, id int64, entries, rebuys, addons int) error {
	return s.mutate(ctx, id, func(t *model.Tournament, _ []model.BlindLevel) bool {
		t.Entries = clampCount(t.Entries + entries)
		t.Rebuys = clampCount(t.Rebuys + rebuys)
		t.Addons = clampCount(t.Addons + addons)
		return true
	})
}

func clampCount(v int) int {
	if v < 0 {
		return 0
	}
	return v
}

// UpdateLevels replaces the blind structure. Play numbering is derived, so
// no renumbering bookkeeping is needed; the current index is clamped into
// the new list and an idle clock picks up the new current duration.
func (s *Service) UpdateLevels(ctx context.Context, id int64, levels []model.BlindLevel) error {
	levels = sanitizeLevels(levels)
	if len(levels) == 0 {
		return appErr.ErrInvalidLevelList
	}
	return s.mutate(ctx, id, func(t *model.Tournament, _ []model.BlindLevel) bool {
		t.LevelsJSON = marshalLevels(levels)
		if t.CurrentLevel != model.PreLevelIndex {
			t.CurrentLevel = clampIndex(levels, t.CurrentLevel)
		}
		if timer.Status(t.Status) == timer.StatusIdle {
			t.RemainingMs = durationMs(levels[clampIndex(levels, t.CurrentLevel)])
		}
		return true
	})
}

type UpdateParams struct {
	Name            *string
	PreLevelSeconds *int
	StartingStack   *int64
	RegCloseLevel   *int
	PrizesJSON      datatypes.JSON
	OverridesJSON   datatypes.JSON
}

func (s *Service) Update(ctx context.Context, id int64, params UpdateParams) error {
	return s.mutate(ctx, id, func(t *model.Tournament, _ []model.BlindLevel) bool {
		if params.Name != nil {
			t.Name = *params.Name
		}
		if params.PreLevelSeconds != nil {
			t.PreLevelSeconds = clampCount(*params.PreLevelSeconds)
		}
		if params.StartingStack != nil {
			v := *params.StartingStack
			if v < 0 {
				v = 0
			}
			t.StartingStack = v
		}
		if params.RegCloseLevel != nil {
			t.RegCloseLevel = clampCount(*params.RegCloseLevel)
		}
		if params.PrizesJSON != nil {
			t.PrizesJSON = params.PrizesJSON
		}
		if params.OverridesJSON != nil {
			t.OverridesJSON = params.OverridesJSON
		}
		return true
	})
}
