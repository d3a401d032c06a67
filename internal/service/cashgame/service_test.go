package cashgame_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"pokerclock/internal/model"
	"pokerclock/internal/repo"
	"pokerclock/internal/service/cashgame"
	"pokerclock/internal/timer"

	"github.com/jonboulle/clockwork"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newService(t *testing.T) (*gorm.DB, *cashgame.Service, *clockwork.FakeClock) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	if err := repo.Migrate(db); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	clock := clockwork.NewFakeClock()
	return db, cashgame.NewService(db, clock), clock
}

func createGame(t *testing.T, svc *cashgame.Service, params cashgame.CreateParams) int64 {
	t.Helper()
	g, err := svc.Create(context.Background(), params)
	if err != nil {
		t.Fatalf("create cash game failed: %v", err)
	}
	return g.ID
}

func getView(t *testing.T, svc *cashgame.Service, id int64) *cashgame.View {
	t.Helper()
	v, err := svc.Get(context.Background(), id)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	return v
}

func TestCountUpSession(t *testing.T) {
	ctx := context.Background()
	_, svc, clock := newService(t)
	id := createGame(t, svc, cashgame.CreateParams{SmallBlind: 5, BigBlind: 10})

	if err := svc.Start(ctx, id); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	clock.Advance(45 * time.Minute)

	v := getView(t, svc, id)
	if v.Phase != cashgame.PhaseCountUp {
		t.Fatalf("expected countup phase, got %s", v.Phase)
	}
	if v.LiveMs != 45*60*1000 {
		t.Fatalf("expected 45min elapsed, got %d", v.LiveMs)
	}
	if v.Clock != "0:45:00" {
		t.Fatalf("clock = %q", v.Clock)
	}
}

func TestCountdownFloorsAtZero(t *testing.T) {
	ctx := context.Background()
	_, svc, clock := newService(t)
	id := createGame(t, svc, cashgame.CreateParams{CountdownMode: true, CountdownTotalMs: 60000})

	if err := svc.Start(ctx, id); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	clock.Advance(90 * time.Second)

	v := getView(t, svc, id)
	if v.Phase != cashgame.PhaseCountdown {
		t.Fatalf("expected countdown phase, got %s", v.Phase)
	}
	if v.LiveMs != 0 {
		t.Fatalf("countdown must floor at 0, got %d", v.LiveMs)
	}

	// Reaching zero is not a state transition: the game stays running
	// and displays zero until the operator acts.
	if timer.Status(v.CashGame.Status) != timer.StatusRunning {
		t.Fatalf("countdown expiry must not change status, got %s", v.CashGame.Status)
	}
	if err := svc.Tick(ctx, id); err != nil {
		t.Fatalf("tick failed: %v", err)
	}
	v = getView(t, svc, id)
	if timer.Status(v.CashGame.Status) != timer.StatusRunning {
		t.Fatalf("tick must not end a countdown session, got %s", v.CashGame.Status)
	}
}

func TestPauseFoldsElapsed(t *testing.T) {
	ctx := context.Background()
	db, svc, clock := newService(t)
	id := createGame(t, svc, cashgame.CreateParams{})

	if err := svc.Start(ctx, id); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	clock.Advance(10 * time.Minute)
	if err := svc.Pause(ctx, id); err != nil {
		t.Fatalf("pause failed: %v", err)
	}

	var g model.CashGame
	if err := db.First(&g, id).Error; err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if g.ElapsedMs != 10*60*1000 || g.TimerStartedAt != nil {
		t.Fatalf("pause must fold elapsed into the snapshot: %+v", g)
	}

	// Paused time does not accumulate.
	clock.Advance(30 * time.Minute)
	if v := getView(t, svc, id); v.LiveMs != 10*60*1000 {
		t.Fatalf("paused clock advanced: %d", v.LiveMs)
	}

	if err := svc.Resume(ctx, id); err != nil {
		t.Fatalf("resume failed: %v", err)
	}
	clock.Advance(5 * time.Minute)
	if v := getView(t, svc, id); v.LiveMs != 15*60*1000 {
		t.Fatalf("expected 15min after resume, got %d", v.LiveMs)
	}
}

func TestPreLevelGate(t *testing.T) {
	ctx := context.Background()
	db, svc, clock := newService(t)
	id := createGame(t, svc, cashgame.CreateParams{PreLevelSeconds: 300})

	if err := svc.Start(ctx, id); err != nil {
		t.Fatalf("start failed: %v", err)
	}

	// While the gate holds, only the pre-level countdown is displayed.
	clock.Advance(100 * time.Second)
	v := getView(t, svc, id)
	if v.Phase != cashgame.PhasePreLevel {
		t.Fatalf("expected prelevel phase, got %s", v.Phase)
	}
	if v.LiveMs != 200000 {
		t.Fatalf("expected 200s of pre-level left, got %d", v.LiveMs)
	}

	// Gate not yet expired: EndPreLevel is a no-op.
	if err := svc.EndPreLevel(ctx, id); err != nil {
		t.Fatalf("endPreLevel failed: %v", err)
	}
	if v := getView(t, svc, id); v.Phase != cashgame.PhasePreLevel {
		t.Fatal("gate must hold until the countdown truly expires")
	}

	clock.Advance(200 * time.Second)
	// Several viewers observe expiry; only the first call transitions.
	for i := 0; i < 3; i++ {
		if err := svc.EndPreLevel(ctx, id); err != nil {
			t.Fatalf("endPreLevel %d failed: %v", i, err)
		}
	}

	var g model.CashGame
	if err := db.First(&g, id).Error; err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if g.PreLevelRemainingMs != 0 {
		t.Fatalf("gate should be open, got %d", g.PreLevelRemainingMs)
	}
	if g.TimerStartedAt == nil || !g.TimerStartedAt.Equal(clock.Now()) {
		t.Fatal("main clock must re-anchor fresh when the gate opens")
	}
	if v := getView(t, svc, id); v.Phase != cashgame.PhaseCountUp || v.LiveMs != 0 {
		t.Fatalf("main clock should start from zero, got %s/%d", v.Phase, v.LiveMs)
	}
}

func TestPreLevelGateCountdownMode(t *testing.T) {
	ctx := context.Background()
	_, svc, clock := newService(t)
	id := createGame(t, svc, cashgame.CreateParams{
		PreLevelSeconds:  60,
		CountdownMode:    true,
		CountdownTotalMs: 120000,
	})

	if err := svc.Start(ctx, id); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	clock.Advance(60 * time.Second)
	if err := svc.Tick(ctx, id); err != nil {
		t.Fatalf("tick failed: %v", err)
	}

	v := getView(t, svc, id)
	if v.Phase != cashgame.PhaseCountdown || v.LiveMs != 120000 {
		t.Fatalf("gate must reload the full countdown budget, got %s/%d", v.Phase, v.LiveMs)
	}
}

func TestResetRestoresBudgets(t *testing.T) {
	ctx := context.Background()
	_, svc, clock := newService(t)
	id := createGame(t, svc, cashgame.CreateParams{
		PreLevelSeconds:  30,
		CountdownMode:    true,
		CountdownTotalMs: 60000,
	})

	if err := svc.Start(ctx, id); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	clock.Advance(5 * time.Minute)
	if err := svc.Reset(ctx, id); err != nil {
		t.Fatalf("reset failed: %v", err)
	}

	v := getView(t, svc, id)
	if timer.Status(v.CashGame.Status) != timer.StatusIdle {
		t.Fatalf("expected idle after reset, got %s", v.CashGame.Status)
	}
	if v.CashGame.PreLevelRemainingMs != 30000 || v.CashGame.CountdownRemainingMs != 60000 {
		t.Fatalf("reset must restore both budgets: %+v", v.CashGame)
	}
}

func TestSetCountdownClampsBudget(t *testing.T) {
	ctx := context.Background()
	_, svc, _ := newService(t)
	id := createGame(t, svc, cashgame.CreateParams{})

	if err := svc.SetCountdown(ctx, id, true, -500); err != nil {
		t.Fatalf("setCountdown failed: %v", err)
	}
	v := getView(t, svc, id)
	if v.CashGame.CountdownTotalMs != 1000 {
		t.Fatalf("countdown budget must clamp to >=1s, got %d", v.CashGame.CountdownTotalMs)
	}
}

func TestMutationOnUnknownIDIsNoop(t *testing.T) {
	ctx := context.Background()
	_, svc, _ := newService(t)

	if err := svc.Start(ctx, 777); err != nil {
		t.Fatalf("mutation on unknown id must be a silent no-op, got %v", err)
	}
}
