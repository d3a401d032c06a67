package display_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"pokerclock/internal/model"
	"pokerclock/internal/repo"
	"pokerclock/internal/service/display"
	appErr "pokerclock/pkg/errors"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newService(t *testing.T) (*gorm.DB, *display.Service) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	if err := repo.Migrate(db); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return db, display.NewService(db)
}

func TestCreateValidatesTarget(t *testing.T) {
	ctx := context.Background()
	db, svc := newService(t)

	_, err := svc.Create(ctx, display.MutationParams{
		Name:       "main-screen",
		TargetKind: "tournament",
		TargetID:   1,
	})
	if !errors.Is(err, appErr.ErrInvalidTarget) {
		t.Fatalf("expected ErrInvalidTarget for missing tournament, got %v", err)
	}

	tour := model.Tournament{Name: "Nightly", Status: "idle"}
	if err := db.Create(&tour).Error; err != nil {
		t.Fatalf("seed failed: %v", err)
	}

	created, err := svc.Create(ctx, display.MutationParams{
		Name:       "main-screen",
		TargetKind: "tournament",
		TargetID:   tour.ID,
		Theme:      "dark",
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if created.ID == 0 || created.TargetID != tour.ID {
		t.Fatalf("unexpected display record: %+v", created)
	}
}

func TestUnknownTargetKindRejected(t *testing.T) {
	ctx := context.Background()
	_, svc := newService(t)

	_, err := svc.Create(ctx, display.MutationParams{Name: "x", TargetKind: "scoreboard", TargetID: 1})
	if !errors.Is(err, appErr.ErrInvalidTarget) {
		t.Fatalf("expected ErrInvalidTarget, got %v", err)
	}
}

func TestUpdateNotFound(t *testing.T) {
	ctx := context.Background()
	db, svc := newService(t)

	game := model.CashGame{Status: "idle"}
	if err := db.Create(&game).Error; err != nil {
		t.Fatalf("seed failed: %v", err)
	}

	_, err := svc.Update(ctx, 99, display.MutationParams{Name: "y", TargetKind: "cashgame", TargetID: game.ID})
	if !errors.Is(err, appErr.ErrDisplayNotFound) {
		t.Fatalf("expected ErrDisplayNotFound, got %v", err)
	}
}
