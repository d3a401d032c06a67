package model

import (
	"time"

	"gorm.io/datatypes"
)

// Level sentinel: CurrentLevel == PreLevelIndex means the tournament clock
// is still in its pre-level countdown, before level 0.
const PreLevelIndex = -1

// BlindLevel is one segment of a tournament schedule. Stored as part of the
// tournament's LevelsJSON column, never as its own row. Play levels carry a
// derived 1-based display number among play-kind siblings; break levels are
// unnumbered.
type BlindLevel struct {
	Kind        string `json:"kind"` // play/break
	SmallBlind  int64  `json:"smallBlind"`
	BigBlind    int64  `json:"bigBlind"`
	Ante        int64  `json:"ante"`
	DurationSec int    `json:"durationSec"`
	Note        string `json:"note,omitempty"`
}

const (
	LevelKindPlay  = "play"
	LevelKindBreak = "break"
)

// Tournament is an aggregate root. The clock is the
// (Status, TimerStartedAt, RemainingMs) triple: when TimerStartedAt is nil
// the clock is frozen and RemainingMs is the true remaining time; when it is
// set the status must be running and true remaining time is
// RemainingMs - (now - TimerStartedAt).
type Tournament struct {
	ID              int64  `gorm:"primaryKey;autoIncrement"`
	Name            string `gorm:"not null"`
	LevelsJSON      datatypes.JSON
	CurrentLevel    int    `gorm:"default:0"`             // PreLevelIndex before level 0
	Status          string `gorm:"default:idle;not null"` // idle/running/paused/finished
	TimerStartedAt  *time.Time
	RemainingMs     int64
	PreLevelSeconds int

	Entries int `gorm:"default:0"`
	Rebuys  int `gorm:"default:0"`
	Addons  int `gorm:"default:0"`

	StartingStack int64
	RegCloseLevel int // play-number after which registration closes; 0 = none
	PrizesJSON    datatypes.JSON
	OverridesJSON datatypes.JSON // per-tournament display/sound/layout overrides

	PresetID *int64

	CreatedAt time.Time
	UpdatedAt time.Time
}

// CashGame mirrors the tournament's anchor/snapshot duality for two
// independent counters: ElapsedMs counts up, CountdownRemainingMs counts
// down against CountdownTotalMs when CountdownMode is set. While
// PreLevelRemainingMs is positive and the game is running, the pre-level
// countdown gates the main clock.
type CashGame struct {
	ID         int64 `gorm:"primaryKey;autoIncrement"`
	SmallBlind int64
	BigBlind   int64
	Ante       int64
	Memo       string

	Status         string `gorm:"default:idle;not null"` // idle/running/paused
	TimerStartedAt *time.Time

	ElapsedMs            int64
	CountdownMode        bool
	CountdownTotalMs     int64
	CountdownRemainingMs int64

	PreLevelSeconds     int
	PreLevelRemainingMs int64

	CreatedAt time.Time
	UpdatedAt time.Time
}

// DisplayAssignment binds a named display endpoint to a timer target. Pure
// routing/config; carries no clock state of its own.
type DisplayAssignment struct {
	ID         int64  `gorm:"primaryKey;autoIncrement"`
	Name       string `gorm:"unique;not null"`
	TargetKind string // tournament/cashgame
	TargetID   int64
	RouteMode  string
	Theme      string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// TournamentPreset is a saved blind structure a tournament can be created
// from or written back to.
type TournamentPreset struct {
	ID              int64  `gorm:"primaryKey;autoIncrement"`
	Name            string `gorm:"unique;not null"`
	LevelsJSON      datatypes.JSON
	PreLevelSeconds int
	RegCloseLevel   int
	StartingStack   int64
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// SettingsSnapshot holds the shared config slice (theme, sounds, layout,
// toggles) as a single versioned row. Older snapshots are migrated forward
// through the settings service's migration chain at load time.
type SettingsSnapshot struct {
	ID        int64 `gorm:"primaryKey"`
	Version   int
	DataJSON  datatypes.JSON
	UpdatedAt time.Time
}
