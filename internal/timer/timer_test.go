package timer_test

import (
	"testing"
	"time"

	"pokerclock/internal/timer"
)

func TestLiveRemainingFrozen(t *testing.T) {
	now := time.Now()
	if got := timer.LiveRemaining(timer.StatusPaused, nil, 90000, now); got != 90000 {
		t.Fatalf("frozen clock should return snapshot, got %d", got)
	}
	if got := timer.LiveRemaining(timer.StatusIdle, nil, 0, now); got != 0 {
		t.Fatalf("idle zero snapshot should stay 0, got %d", got)
	}
}

func TestLiveRemainingRunningDecays(t *testing.T) {
	anchor := time.Now()
	now := anchor.Add(30 * time.Second)
	if got := timer.LiveRemaining(timer.StatusRunning, &anchor, 90000, now); got != 60000 {
		t.Fatalf("expected 60000ms remaining, got %d", got)
	}
}

func TestLiveRemainingNeverNegative(t *testing.T) {
	anchor := time.Now()
	now := anchor.Add(90 * time.Second)
	if got := timer.LiveRemaining(timer.StatusRunning, &anchor, 60000, now); got != 0 {
		t.Fatalf("overdue countdown must floor at 0, got %d", got)
	}
}

func TestLiveElapsedAccumulates(t *testing.T) {
	anchor := time.Now()
	now := anchor.Add(45 * time.Second)
	if got := timer.LiveElapsed(timer.StatusRunning, &anchor, 15000, now); got != 60000 {
		t.Fatalf("expected 60000ms elapsed, got %d", got)
	}
	if got := timer.LiveElapsed(timer.StatusPaused, nil, 15000, now); got != 15000 {
		t.Fatalf("paused elapsed should return snapshot, got %d", got)
	}
}

func TestFormatCountdownCeils(t *testing.T) {
	cases := []struct {
		ms   int64
		want string
	}{
		{0, "0:00"},
		{1, "0:01"}, // sub-second remainder still shows one second
		{999, "0:01"},
		{1000, "0:01"},
		{1001, "0:02"},
		{59999, "1:00"},
		{900000, "15:00"},
		{3600000, "1:00:00"},
		{3661000, "1:01:01"},
	}
	for _, c := range cases {
		if got := timer.FormatCountdown(c.ms); got != c.want {
			t.Errorf("FormatCountdown(%d) = %q, want %q", c.ms, got, c.want)
		}
	}
}

func TestFormatElapsedFloors(t *testing.T) {
	cases := []struct {
		ms   int64
		want string
	}{
		{0, "0:00:00"},
		{999, "0:00:00"}, // elapsed never over-reports
		{1000, "0:00:01"},
		{3599999, "0:59:59"},
		{3600000, "1:00:00"},
	}
	for _, c := range cases {
		if got := timer.FormatElapsed(c.ms); got != c.want {
			t.Errorf("FormatElapsed(%d) = %q, want %q", c.ms, got, c.want)
		}
	}
}

func TestFormatSessionAlwaysLong(t *testing.T) {
	if got := timer.FormatSession(90000); got != "0:01:30" {
		t.Fatalf("FormatSession(90000) = %q, want 0:01:30", got)
	}
}
