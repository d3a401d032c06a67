package display

import (
	"context"
	"errors"
	"sync"

	"pokerclock/internal/model"
	appErr "pokerclock/pkg/errors"
	"pokerclock/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Service owns display assignments: the routing records binding a named
// display endpoint to the tournament or cash game it should render.
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

type MutationParams struct {
	Name       string
	TargetKind string
	TargetID   int64
	RouteMode  string
	Theme      string
}

func (s *Service) Create(ctx context.Context, params MutationParams) (*model.DisplayAssignment, error) {
	if err := s.validateTarget(ctx, params); err != nil {
		return nil, err
	}

	d := model.DisplayAssignment{
		Name:       params.Name,
		TargetKind: params.TargetKind,
		TargetID:   params.TargetID,
		RouteMode:  params.RouteMode,
		Theme:      params.Theme,
	}
	if err := s.db.WithContext(ctx).Create(&d).Error; err != nil {
		return nil, err
	}
	s.announceChange()
	return &d, nil
}

func (s *Service) Update(ctx context.Context, id int64, params MutationParams) (*model.DisplayAssignment, error) {
	if err := s.validateTarget(ctx, params); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var d model.DisplayAssignment
	if err := s.db.WithContext(ctx).First(&d, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, appErr.ErrDisplayNotFound
		}
		return nil, err
	}

	d.Name = params.Name
	d.TargetKind = params.TargetKind
	d.TargetID = params.TargetID
	d.RouteMode = params.RouteMode
	d.Theme = params.Theme
	if err := s.db.WithContext(ctx).Save(&d).Error; err != nil {
		return nil, err
	}
	s.announceChange()
	return &d, nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	res := s.db.WithContext(ctx).Delete(&model.DisplayAssignment{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		logger.Log.Warn("delete of unknown display", zap.Int64("displayID", id))
		return nil
	}
	s.announceChange()
	return nil
}

func (s *Service) Get(ctx context.Context, id int64) (*model.DisplayAssignment, error) {
	var d model.DisplayAssignment
	if err := s.db.WithContext(ctx).First(&d, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, appErr.ErrDisplayNotFound
		}
		return nil, err
	}
	return &d, nil
}

func (s *Service) List(ctx context.Context) ([]model.DisplayAssignment, error) {
	var rows []model.DisplayAssignment
	if err := s.db.WithContext(ctx).Order("name").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// All aliases List for the snapshot builder.
func (s *Service) All(ctx context.Context) ([]model.DisplayAssignment, error) {
	return s.List(ctx)
}

func (s *Service) validateTarget(ctx context.Context, params MutationParams) error {
	switch params.TargetKind {
	case "tournament":
		var n int64
		if err := s.db.WithContext(ctx).Model(&model.Tournament{}).Where("id = ?", params.TargetID).Count(&n).Error; err != nil {
			return err
		}
		if n == 0 {
			return appErr.ErrInvalidTarget
		}
	case "cashgame":
		var n int64
		if err := s.db.WithContext(ctx).Model(&model.CashGame{}).Where("id = ?", params.TargetID).Count(&n).Error; err != nil {
			return err
		}
		if n == 0 {
			return appErr.ErrInvalidTarget
		}
	default:
		return appErr.ErrInvalidTarget
	}
	return nil
}

func (s *Service) announceChange() {
	if s.announce != nil {
		s.announce()
	}
}
