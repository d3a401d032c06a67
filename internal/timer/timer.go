// Package timer holds the pure time model: live display values are derived
// from a frozen snapshot plus a wall-clock anchor, never from a decremented
// counter. Any viewer can recompute the same value at any instant, which is
// what keeps redundant polls and suspended views from drifting apart.
package timer

import (
	"fmt"
	"time"
)

type Status string

const (
	StatusIdle     Status = "idle"
	StatusRunning  Status = "running"
	StatusPaused   Status = "paused"
	StatusFinished Status = "finished"
)

// LiveRemaining derives the current countdown value from the persisted
// triple. When running with an anchor set the result decays with wall-clock
// time; otherwise the frozen snapshot is the truth. Never negative.
func LiveRemaining(status Status, startedAt *time.Time, snapshotMs int64, now time.Time) int64 {
	if status == StatusRunning && startedAt != nil {
		snapshotMs -= now.Sub(*startedAt).Milliseconds()
	}
	if snapshotMs < 0 {
		return 0
	}
	return snapshotMs
}

// LiveElapsed is the count-up counterpart: the frozen elapsed value plus
// time since the anchor while running. Never negative.
func LiveElapsed(status Status, startedAt *time.Time, elapsedMs int64, now time.Time) int64 {
	if status == StatusRunning && startedAt != nil {
		elapsedMs += now.Sub(*startedAt).Milliseconds()
	}
	if elapsedMs < 0 {
		return 0
	}
	return elapsedMs
}

// FormatCountdown renders mm:ss (hh:mm:ss at an hour and above) using
// ceiling seconds, so the display shows "0:01" until the underlying value
// truly reaches zero.
func FormatCountdown(ms int64) string {
	return formatSeconds(ceilSeconds(ms))
}

// FormatElapsed renders hh:mm:ss using floor seconds so an elapsed clock
// never over-reports.
func FormatElapsed(ms int64) string {
	return formatLong(floorSeconds(ms))
}

// FormatSession always uses the hh:mm:ss form regardless of magnitude, for
// cash-session and corner displays.
func FormatSession(ms int64) string {
	return formatLong(ceilSeconds(ms))
}

func ceilSeconds(ms int64) int64 {
	if ms <= 0 {
		return 0
	}
	return (ms + 999) / 1000
}

func floorSeconds(ms int64) int64 {
	if ms <= 0 {
		return 0
	}
	return ms / 1000
}

func formatSeconds(total int64) string {
	if total >= 3600 {
		return formatLong(total)
	}
	return fmt.Sprintf("%d:%02d", total/60, total%60)
}

func formatLong(total int64) string {
	return fmt.Sprintf("%d:%02d:%02d", total/3600, (total%3600)/60, total%60)
}
