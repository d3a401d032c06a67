package tournament

import (
	"encoding/json"

	"pokerclock/internal/model"
	"pokerclock/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/datatypes"
)

// parseLevels decodes the stored level list, tolerating missing or
// malformed columns: a broken snapshot yields an empty list rather than an
// error, and the mutation guards treat that as "nothing to do".
func parseLevels(raw datatypes.JSON) []model.BlindLevel {
	if len(raw) == 0 {
		return nil
	}
	var levels []model.BlindLevel
	if err := json.Unmarshal(raw, &levels); err != nil {
		logger.Log.Warn("malformed level list in snapshot", zap.Error(err))
		return nil
	}
	return sanitizeLevels(levels)
}

func marshalLevels(levels []model.BlindLevel) datatypes.JSON {
	raw, err := json.Marshal(levels)
	if err != nil {
		return datatypes.JSON("[]")
	}
	return datatypes.JSON(raw)
}

// sanitizeLevels clamps operator input to safe values: unknown kinds become
// play levels, durations are at least one second (durations divide later
// arithmetic and must never be zero).
func sanitizeLevels(levels []model.BlindLevel) []model.BlindLevel {
	out := make([]model.BlindLevel, 0, len(levels))
	for _, l := range levels {
		if l.Kind != model.LevelKindBreak {
			l.Kind = model.LevelKindPlay
		}
		if l.DurationSec < 1 {
			l.DurationSec = 1
		}
		if l.SmallBlind < 0 {
			l.SmallBlind = 0
		}
		if l.BigBlind < 0 {
			l.BigBlind = 0
		}
		if l.Ante < 0 {
			l.Ante = 0
		}
		out = append(out, l)
	}
	return out
}

func durationMs(l model.BlindLevel) int64 {
	return int64(l.DurationSec) * 1000
}

func clampIndex(levels []model.BlindLevel, idx int) int {
	if idx < 0 {
		return 0
	}
	if idx > len(levels)-1 {
		return len(levels) - 1
	}
	return idx
}

// playNumbers assigns the 1-based display number to play levels only; break
// levels get 0 and do not consume a number. Recomputed on every read so
// inserting or removing levels can never leave stale numbering behind.
func playNumbers(levels []model.BlindLevel) []int {
	out := make([]int, len(levels))
	n := 0
	for i, l := range levels {
		if l.Kind == model.LevelKindPlay {
			n++
			out[i] = n
		}
	}
	return out
}

// nextBreakIn sums from the current segment's live remaining through the
// nominal durations of following levels until the next break level; nil when
// no break remains. Only the current segment uses live time.
func nextBreakIn(levels []model.BlindLevel, idx int, liveRemainingMs int64) *int64 {
	acc := liveRemainingMs
	for j := idx + 1; j < len(levels); j++ {
		if levels[j].Kind == model.LevelKindBreak {
			return &acc
		}
		acc += durationMs(levels[j])
	}
	return nil
}

// remainingToEnd is the live remaining of the current segment plus the
// nominal durations of everything after it.
func remainingToEnd(levels []model.BlindLevel, idx int, liveRemainingMs int64) int64 {
	acc := liveRemainingMs
	for j := idx + 1; j < len(levels); j++ {
		acc += durationMs(levels[j])
	}
	return acc
}

// regCloseIn counts down to the end of the play level whose display number
// equals target (registration stays open through that level). Nil when no
// target is configured, the target does not exist, or it has already passed.
func regCloseIn(levels []model.BlindLevel, idx int, liveRemainingMs int64, target int) *int64 {
	if target <= 0 {
		return nil
	}
	targetIdx := -1
	numbers := playNumbers(levels)
	for i, n := range numbers {
		if n == target {
			targetIdx = i
			break
		}
	}
	if targetIdx < 0 || idx > targetIdx {
		return nil
	}
	acc := liveRemainingMs
	for j := idx + 1; j <= targetIdx; j++ {
		acc += durationMs(levels[j])
	}
	return &acc
}
