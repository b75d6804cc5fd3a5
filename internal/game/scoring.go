package game

import (
	"math"

	"github.com/solentmarks/markquiz/internal/markquiz"
)

const (
	BasePoints       = 100
	QuestionsPerGame = 10

	maxStreakBonus = 100
)

// TimeLimit returns the default answer window in seconds for a tier.
func TimeLimit(tier markquiz.Difficulty) int {
	switch tier {
	case markquiz.Intermediate:
		return 20
	case markquiz.Advanced:
		return 10
	default:
		return 30
	}
}

// EffectiveTimeLimit is the configured limit, or the tier default when unset.
func EffectiveTimeLimit(cfg markquiz.Config) int {
	if cfg.TimeLimitSeconds > 0 {
		return cfg.TimeLimitSeconds
	}
	return TimeLimit(cfg.Difficulty)
}

func maxTimeBonus(tier markquiz.Difficulty) int {
	switch tier {
	case markquiz.Intermediate:
		return 50
	case markquiz.Advanced:
		return 70
	default:
		return 30
	}
}

// multiplier is expressed in halves so the floor stays in integer math.
func multiplierHalves(tier markquiz.Difficulty) int {
	switch tier {
	case markquiz.Intermediate:
		return 3
	case markquiz.Advanced:
		return 4
	default:
		return 2
	}
}

// Evaluate scores one answer. A nil selected mark is a timeout.
func Evaluate(target markquiz.Mark, selected *markquiz.Mark, elapsedSeconds float64, cfg markquiz.Config) markquiz.GuessResult {
	res := markquiz.GuessResult{
		Target:   target,
		Selected: selected,
		TimedOut: selected == nil,
	}
	if selected == nil || selected.ID != target.ID {
		return res
	}

	res.IsCorrect = true
	points := BasePoints
	if limit := cfg.TimeLimitSeconds; limit > 0 {
		left := math.Max(0, float64(limit)-elapsedSeconds)
		res.TimeBonus = int(math.Floor(float64(maxTimeBonus(cfg.Difficulty)) * left / float64(limit)))
		points += res.TimeBonus
	}
	res.Points = points * multiplierHalves(cfg.Difficulty) / 2
	return res
}

// StreakBonus is awarded on top of a correct answer; streak counts that answer.
func StreakBonus(streak int) int {
	if streak < 3 {
		return 0
	}
	return min(streak*10, maxStreakBonus)
}
