package settings

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"pokerclock/internal/model"
	"pokerclock/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// snapshotRowID: shared config is a single versioned row.
const snapshotRowID = 1

// Service owns the shared configuration slice: theme, sound, layout and
// feature toggles used by every display unless a tournament carries its own
// override. Stored as one versioned JSON snapshot; older snapshots are
// migrated forward through the chain at load time.
type Service struct {
	db *gorm.DB

	mu       sync.Mutex
	announce func()
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

func (s *Service) SetAnnounce(fn func()) {
	s.announce = fn
}

func defaultSettings() map[string]interface{} {
	return map[string]interface{}{
		"theme":            "dark",
		"soundEnabled":     true,
		"soundVolume":      1.0,
		"speechEnabled":    false,
		"layout":           "standard",
		"showNextBreak":    true,
		"showAverageStack": true,
	}
}

// Load hydrates the snapshot row, creating it with defaults when absent and
// migrating an older-shaped snapshot forward. Called once at startup.
func (s *Service) Load(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var row model.SettingsSnapshot
	err := s.db.WithContext(ctx).First(&row, snapshotRowID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		raw, _ := json.Marshal(defaultSettings())
		row = model.SettingsSnapshot{
			ID:       snapshotRowID,
			Version:  currentVersion,
			DataJSON: datatypes.JSON(raw),
		}
		return s.db.WithContext(ctx).Create(&row).Error
	}
	if err != nil {
		return err
	}

	if row.Version >= currentVersion {
		return nil
	}

	migrated, version := migrate(row.DataJSON, row.Version)
	row.DataJSON = migrated
	row.Version = version
	logger.Log.Info("migrated settings snapshot", zap.Int("toVersion", version))
	return s.db.WithContext(ctx).Save(&row).Error
}

// Get returns the shared config blob. A missing or unreadable row falls
// back to defaults; settings must never take a display down.
func (s *Service) Get(ctx context.Context) json.RawMessage {
	var row model.SettingsSnapshot
	if err := s.db.WithContext(ctx).First(&row, snapshotRowID).Error; err != nil {
		raw, _ := json.Marshal(defaultSettings())
		return raw
	}
	return json.RawMessage(row.DataJSON)
}

// Update replaces the shared config wholesale, mirroring the transport's
// full-slice replacement semantics: no field-level merges at this layer.
func (s *Service) Update(ctx context.Context, raw json.RawMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var probe map[string]interface{}
	if err := json.Unmarshal(raw, &probe); err != nil {
		logger.Log.Warn("rejecting malformed settings payload", zap.Error(err))
		return nil
	}

	row := model.SettingsSnapshot{
		ID:       snapshotRowID,
		Version:  currentVersion,
		DataJSON: datatypes.JSON(raw),
	}
	if err := s.db.WithContext(ctx).Save(&row).Error; err != nil {
		return err
	}
	if s.announce != nil {
		s.announce()
	}
	return nil
}

// Resolve computes the effective config for one entity: override keys win,
// everything else falls back to the shared defaults. The global blob is
// never mutated; resolution happens on a copy at every read site.
func Resolve(global json.RawMessage, override datatypes.JSON) json.RawMessage {
	base := map[string]interface{}{}
	if err := json.Unmarshal(global, &base); err != nil {
		base = defaultSettings()
	}

	if len(override) > 0 {
		var over map[string]interface{}
		if err := json.Unmarshal(override, &over); err == nil {
			for k, v := range over {
				base[k] = v
			}
		}
	}

	raw, err := json.Marshal(base)
	if err != nil {
		return global
	}
	return raw
}
