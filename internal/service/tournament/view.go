package tournament

import (
	"context"
	"errors"

	"pokerclock/internal/model"
	"pokerclock/internal/timer"
	appErr "pokerclock/pkg/errors"

	"gorm.io/gorm"
)

// View is the read model a renderer consumes: the persisted entity plus
// every derived value computed against the current wall-clock instant.
type View struct {
	Tournament  model.Tournament   `json:"tournament"`
	Levels      []model.BlindLevel `json:"levels"`
	PlayNumbers []int              `json:"playNumbers"`
	InPreLevel  bool               `json:"inPreLevel"`

	LiveRemainingMs  int64  `json:"liveRemainingMs"`
	Clock            string `json:"clock"`
	NextBreakInMs    *int64 `json:"nextBreakInMs"`
	RemainingToEndMs int64  `json:"remainingToEndMs"`
	RegCloseInMs     *int64 `json:"regCloseInMs"`
	AverageStack     int64  `json:"averageStack"`
}

func (s *Service) Get(ctx context.Context, id int64) (*View, error) {
	var t model.Tournament
	if err := s.db.WithContext(ctx).First(&t, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, appErr.ErrTournamentNotFound
		}
		return nil, err
	}
	v := s.buildView(t)
	return &v, nil
}

func (s *Service) List(ctx context.Context) ([]View, error) {
	var rows []model.Tournament
	if err := s.db.WithContext(ctx).Order("id").Find(&rows).Error; err != nil {
		return nil, err
	}
	views := make([]View, 0, len(rows))
	for _, t := range rows {
		views = append(views, s.buildView(t))
	}
	return views, nil
}

// All returns the raw entity slice for the FULL_SYNC snapshot. Derived
// values are deliberately excluded: receivers recompute them locally from
// the anchor/snapshot triple, which is what keeps independent views from
// diverging.
func (s *Service) All(ctx context.Context) ([]model.Tournament, error) {
	var rows []model.Tournament
	if err := s.db.WithContext(ctx).Order("id").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *Service) buildView(t model.Tournament) View {
	levels := parseLevels(t.LevelsJSON)
	now := s.clock.Now()
	live := timer.LiveRemaining(timer.Status(t.Status), t.TimerStartedAt, t.RemainingMs, now)

	idx := t.CurrentLevel
	if idx != model.PreLevelIndex {
		idx = clampIndex(levels, idx)
	}

	v := View{
		Tournament:       t,
		Levels:           levels,
		PlayNumbers:      playNumbers(levels),
		InPreLevel:       t.CurrentLevel == model.PreLevelIndex,
		LiveRemainingMs:  live,
		Clock:            timer.FormatCountdown(live),
		NextBreakInMs:    nextBreakIn(levels, idx, live),
		RemainingToEndMs: remainingToEnd(levels, idx, live),
		RegCloseInMs:     regCloseIn(levels, idx, live, t.RegCloseLevel),
		AverageStack:     averageStack(t),
	}
	return v
}

// averageStack divides total chips in play by entries. The divisor is
// clamped to one so a tournament with no entries yet reports the starting
// stack rather than dividing by zero.
func averageStack(t model.Tournament) int64 {
	units := int64(t.Entries + t.Rebuys + t.Addons)
	players := int64(t.Entries)
	if players < 1 {
		players = 1
	}
	if units < 1 {
		units = 1
	}
	return t.StartingStack * units / players
}
