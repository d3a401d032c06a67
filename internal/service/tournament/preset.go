package tournament

import (
	"context"
	"errors"

	"pokerclock/internal/model"
	appErr "pokerclock/pkg/errors"

	"gorm.io/gorm"
)

// SavePreset writes a tournament's blind structure back to a named preset,
// creating or replacing it.
func (s *Service) SavePreset(ctx context.Context, tournamentID int64, name string) (*model.TournamentPreset, error) {
	var t model.Tournament
	if err := s.db.WithContext(ctx).First(&t, tournamentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, appErr.ErrTournamentNotFound
		}
		return nil, err
	}

	var preset model.TournamentPreset
	err := s.db.WithContext(ctx).Where("name = ?", name).First(&preset).Error
	switch {
	case err == nil:
	case errors.Is(err, gorm.ErrRecordNotFound):
		preset = model.TournamentPreset{Name: name}
	default:
		return nil, err
	}

	preset.LevelsJSON = t.LevelsJSON
	preset.PreLevelSeconds = t.PreLevelSeconds
	preset.RegCloseLevel = t.RegCloseLevel
	preset.StartingStack = t.StartingStack

	if err := s.db.WithContext(ctx).Save(&preset).Error; err != nil {
		return nil, err
	}
	return &preset, nil
}

// CreateFromPreset spins up a fresh idle tournament from a saved structure.
func (s *Service) CreateFromPreset(ctx context.Context, presetID int64, name string) (*model.Tournament, error) {
	var preset model.TournamentPreset
	if err := s.db.WithContext(ctx).First(&preset, presetID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, appErr.ErrPresetNotFound
		}
		return nil, err
	}

	t, err := s.Create(ctx, CreateParams{
		Name:            name,
		Levels:          parseLevels(preset.LevelsJSON),
		PreLevelSeconds: preset.PreLevelSeconds,
		StartingStack:   preset.StartingStack,
		RegCloseLevel:   preset.RegCloseLevel,
	})
	if err != nil {
		return nil, err
	}

	t.PresetID = &preset.ID
	if err := s.db.WithContext(ctx).Save(t).Error; err != nil {
		return nil, err
	}
	return t, nil
}

func (s *Service) ListPresets(ctx context.Context) ([]model.TournamentPreset, error) {
	var rows []model.TournamentPreset
	if err := s.db.WithContext(ctx).Order("name").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *Service) DeletePreset(ctx context.Context, presetID int64) error {
	res := s.db.WithContext(ctx).Delete(&model.TournamentPreset{}, presetID)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return appErr.ErrPresetNotFound
	}
	return nil
}
