package tournament_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"pokerclock/internal/model"
	"pokerclock/internal/repo"
	"pokerclock/internal/service/tournament"
	"pokerclock/internal/timer"

	"github.com/jonboulle/clockwork"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newService(t *testing.T) (*gorm.DB, *tournament.Service, *clockwork.FakeClock) {
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
	return db, tournament.NewService(db, clock), clock
}

func playLevel(sb, bb int64, durSec int) model.BlindLevel {
	return model.BlindLevel{Kind: model.LevelKindPlay, SmallBlind: sb, BigBlind: bb, DurationSec: durSec}
}

func breakLevel(durSec int) model.BlindLevel {
	return model.BlindLevel{Kind: model.LevelKindBreak, DurationSec: durSec}
}

func createTournament(t *testing.T, svc *tournament.Service, params tournament.CreateParams) int64 {
	t.Helper()
	created, err := svc.Create(context.Background(), params)
	if err != nil {
		t.Fatalf("create tournament failed: %v", err)
	}
	return created.ID
}

func load(t *testing.T, db *gorm.DB, id int64) model.Tournament {
	t.Helper()
	var row model.Tournament
	if err := db.First(&row, id).Error; err != nil {
		t.Fatalf("load tournament failed: %v", err)
	}
	return row
}

func twoLevels() tournament.CreateParams {
	return tournament.CreateParams{
		Name:   "Nightly",
		Levels: []model.BlindLevel{playLevel(25, 50, 900), playLevel(50, 100, 900)},
	}
}

func TestCreateStartsIdleAtLevelZero(t *testing.T) {
	db, svc, _ := newService(t)
	id := createTournament(t, svc, twoLevels())

	row := load(t, db, id)
	if timer.Status(row.Status) != timer.StatusIdle || row.CurrentLevel != 0 {
		t.Fatalf("unexpected initial state: %+v", row)
	}
	if row.RemainingMs != 900000 {
		t.Fatalf("expected first level duration loaded, got %d", row.RemainingMs)
	}
	if row.TimerStartedAt != nil {
		t.Fatal("idle tournament must have no anchor")
	}
}

func TestStartAnchorsClock(t *testing.T) {
	ctx := context.Background()
	db, svc, clock := newService(t)
	id := createTournament(t, svc, twoLevels())

	if err := svc.Start(ctx, id); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	row := load(t, db, id)
	if timer.Status(row.Status) != timer.StatusRunning {
		t.Fatalf("expected running, got %s", row.Status)
	}
	if row.TimerStartedAt == nil || !row.TimerStartedAt.Equal(clock.Now()) {
		t.Fatalf("anchor not set to now: %v", row.TimerStartedAt)
	}

	// Start is only legal from idle.
	clock.Advance(10 * time.Second)
	if err := svc.Start(ctx, id); err != nil {
		t.Fatalf("redundant start errored: %v", err)
	}
	again := load(t, db, id)
	if !again.TimerStartedAt.Equal(*row.TimerStartedAt) {
		t.Fatal("start while running must not re-anchor")
	}
}

func TestStandardLevelAdvance(t *testing.T) {
	ctx := context.Background()
	db, svc, clock := newService(t)
	id := createTournament(t, svc, twoLevels())

	if err := svc.Start(ctx, id); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	clock.Advance(900 * time.Second)

	if err := svc.Tick(ctx, id); err != nil {
		t.Fatalf("tick failed: %v", err)
	}
	row := load(t, db, id)
	if row.CurrentLevel != 1 {
		t.Fatalf("expected level index 1, got %d", row.CurrentLevel)
	}
	if row.RemainingMs != 900000 {
		t.Fatalf("new level must carry its full duration, got %d", row.RemainingMs)
	}
	if row.TimerStartedAt == nil || !row.TimerStartedAt.Equal(clock.Now()) {
		t.Fatal("advance while running must re-anchor to now")
	}
}

func TestTickIsIdempotent(t *testing.T) {
	ctx := context.Background()
	db, svc, clock := newService(t)
	id := createTournament(t, svc, twoLevels())

	if err := svc.Start(ctx, id); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	clock.Advance(900 * time.Second)

	// Several viewers observe expiry in the same poll window.
	for i := 0; i < 3; i++ {
		if err := svc.Tick(ctx, id); err != nil {
			t.Fatalf("tick %d failed: %v", i, err)
		}
	}
	row := load(t, db, id)
	if row.CurrentLevel != 1 {
		t.Fatalf("redundant ticks advanced more than once: level %d", row.CurrentLevel)
	}
}

func TestFinishOnLastLevel(t *testing.T) {
	ctx := context.Background()
	db, svc, clock := newService(t)
	id := createTournament(t, svc, twoLevels())

	if err := svc.Start(ctx, id); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	clock.Advance(900 * time.Second)
	if err := svc.Tick(ctx, id); err != nil {
		t.Fatalf("tick failed: %v", err)
	}
	clock.Advance(900 * time.Second)
	if err := svc.Tick(ctx, id); err != nil {
		t.Fatalf("tick at last level failed: %v", err)
	}

	row := load(t, db, id)
	if timer.Status(row.Status) != timer.StatusFinished {
		t.Fatalf("expected finished, got %s", row.Status)
	}
	if row.TimerStartedAt != nil {
		t.Fatal("finished tournament must have no anchor")
	}
	if row.CurrentLevel != 1 {
		t.Fatalf("finish must not index past the last level, got %d", row.CurrentLevel)
	}
}

func TestPauseResumeRoundTrip(t *testing.T) {
	ctx := context.Background()
	db, svc, clock := newService(t)
	id := createTournament(t, svc, twoLevels())

	if err := svc.Start(ctx, id); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	clock.Advance(300 * time.Second)

	if err := svc.Pause(ctx, id); err != nil {
		t.Fatalf("pause failed: %v", err)
	}
	paused := load(t, db, id)
	if paused.RemainingMs != 600000 {
		t.Fatalf("pause must freeze live remaining, got %d", paused.RemainingMs)
	}
	if paused.TimerStartedAt != nil {
		t.Fatal("paused tournament must have no anchor")
	}

	if err := svc.Resume(ctx, id); err != nil {
		t.Fatalf("resume failed: %v", err)
	}
	resumed := load(t, db, id)
	live := timer.LiveRemaining(timer.Status(resumed.Status), resumed.TimerStartedAt, resumed.RemainingMs, clock.Now())
	if live != 600000 {
		t.Fatalf("pause/resume at the same instant drifted: %d", live)
	}
}

func TestAdjustWhileRunning(t *testing.T) {
	ctx := context.Background()
	db, svc, clock := newService(t)
	id := createTournament(t, svc, twoLevels())

	if err := svc.Start(ctx, id); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	clock.Advance(780 * time.Second) // 120s remaining

	if err := svc.Adjust(ctx, id, 30000); err != nil {
		t.Fatalf("adjust failed: %v", err)
	}
	row := load(t, db, id)
	live := timer.LiveRemaining(timer.Status(row.Status), row.TimerStartedAt, row.RemainingMs, clock.Now())
	if live != 150000 {
		t.Fatalf("expected 150000ms after +30s adjust, got %d", live)
	}
}

func TestAdjustClampsAtZero(t *testing.T) {
	ctx := context.Background()
	db, svc, _ := newService(t)
	id := createTournament(t, svc, twoLevels())

	if err := svc.Adjust(ctx, id, -5000000); err != nil {
		t.Fatalf("adjust failed: %v", err)
	}
	if row := load(t, db, id); row.RemainingMs != 0 {
		t.Fatalf("adjust must clamp at zero, got %d", row.RemainingMs)
	}
}

func TestSeekIntoCurrentLevel(t *testing.T) {
	ctx := context.Background()
	db, svc, _ := newService(t)
	id := createTournament(t, svc, twoLevels())

	if err := svc.Seek(ctx, id, 200000); err != nil {
		t.Fatalf("seek failed: %v", err)
	}
	if row := load(t, db, id); row.RemainingMs != 700000 {
		t.Fatalf("seek 200s into a 900s level should leave 700s, got %d", row.RemainingMs)
	}

	// Past the end clamps to the duration.
	if err := svc.Seek(ctx, id, 99999999); err != nil {
		t.Fatalf("seek failed: %v", err)
	}
	if row := load(t, db, id); row.RemainingMs != 0 {
		t.Fatalf("seek past the end should leave 0, got %d", row.RemainingMs)
	}
}

func TestJumpClampsToRange(t *testing.T) {
	ctx := context.Background()
	db, svc, _ := newService(t)
	id := createTournament(t, svc, twoLevels())

	if err := svc.JumpLevel(ctx, id, 99); err != nil {
		t.Fatalf("jump failed: %v", err)
	}
	if row := load(t, db, id); row.CurrentLevel != 1 {
		t.Fatalf("jump beyond the list must clamp to the last level, got %d", row.CurrentLevel)
	}

	if err := svc.PrevLevel(ctx, id); err != nil {
		t.Fatalf("prev failed: %v", err)
	}
	if err := svc.PrevLevel(ctx, id); err != nil {
		t.Fatalf("prev failed: %v", err)
	}
	if row := load(t, db, id); row.CurrentLevel != 0 {
		t.Fatalf("prev below zero must clamp, got %d", row.CurrentLevel)
	}
}

func TestMutationOnUnknownIDIsNoop(t *testing.T) {
	ctx := context.Background()
	_, svc, _ := newService(t)

	if err := svc.Start(ctx, 4242); err != nil {
		t.Fatalf("mutation on unknown id must be a silent no-op, got %v", err)
	}
	if err := svc.Tick(ctx, 4242); err != nil {
		t.Fatalf("tick on unknown id must be a silent no-op, got %v", err)
	}
}

func TestPreLevelGate(t *testing.T) {
	ctx := context.Background()
	db, svc, clock := newService(t)
	params := twoLevels()
	params.PreLevelSeconds = 300
	id := createTournament(t, svc, params)

	if err := svc.Start(ctx, id); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	row := load(t, db, id)
	if row.CurrentLevel != model.PreLevelIndex {
		t.Fatalf("start with pre-level must enter the sentinel index, got %d", row.CurrentLevel)
	}
	if row.RemainingMs != 300000 {
		t.Fatalf("pre-level countdown should be 300000ms, got %d", row.RemainingMs)
	}

	clock.Advance(300 * time.Second)
	if err := svc.Tick(ctx, id); err != nil {
		t.Fatalf("tick failed: %v", err)
	}
	row = load(t, db, id)
	if row.CurrentLevel != 0 {
		t.Fatalf("pre-level expiry must enter level 0, got %d", row.CurrentLevel)
	}
	if row.RemainingMs != 900000 {
		t.Fatalf("level 0 should start with its full duration, got %d", row.RemainingMs)
	}
	if row.TimerStartedAt == nil || !row.TimerStartedAt.Equal(clock.Now()) {
		t.Fatal("main clock must re-anchor when the pre-level gate opens")
	}
}

func TestResetReturnsToLevelZero(t *testing.T) {
	ctx := context.Background()
	db, svc, clock := newService(t)
	id := createTournament(t, svc, twoLevels())

	if err := svc.Start(ctx, id); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	clock.Advance(950 * time.Second)
	if err := svc.Tick(ctx, id); err != nil {
		t.Fatalf("tick failed: %v", err)
	}
	if err := svc.Reset(ctx, id); err != nil {
		t.Fatalf("reset failed: %v", err)
	}

	row := load(t, db, id)
	if timer.Status(row.Status) != timer.StatusIdle || row.CurrentLevel != 0 || row.RemainingMs != 900000 || row.TimerStartedAt != nil {
		t.Fatalf("reset did not restore the initial state: %+v", row)
	}
}

func TestCountersClampAtZero(t *testing.T) {
	ctx := context.Background()
	db, svc, _ := newService(t)
	id := createTournament(t, svc, twoLevels())

	if err := svc.AddCounters(ctx, id, 3, 1, 0); err != nil {
		t.Fatalf("counters failed: %v", err)
	}
	if err := svc.AddCounters(ctx, id, -5, 0, -2); err != nil {
		t.Fatalf("counters failed: %v", err)
	}
	row := load(t, db, id)
	if row.Entries != 0 || row.Rebuys != 1 || row.Addons != 0 {
		t.Fatalf("counters must clamp at zero: %+v", row)
	}
}
