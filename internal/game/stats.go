package game

import (
	"math"

	"github.com/solentmarks/markquiz/internal/markquiz"
)

// GenerateStats summarises a finished game. Zero questions or zero elapsed
// time yield zeros rather than NaN.
func GenerateStats(total, correct, totalPoints int, elapsedSeconds float64) markquiz.Stats {
	var accuracy, average, perMinute float64
	if total > 0 {
		accuracy = float64(100*correct) / float64(total)
		average = elapsedSeconds / float64(total)
	}
	if elapsedSeconds > 0 {
		perMinute = float64(totalPoints) / elapsedSeconds * 60
	}

	return markquiz.Stats{
		Accuracy:        int(math.Round(accuracy)),
		AverageSeconds:  int(math.Round(average)),
		PointsPerMinute: int(math.Round(perMinute)),
		Grade:           gradeFor(accuracy),
	}
}

func gradeFor(accuracy float64) markquiz.Grade {
	switch {
	case accuracy >= 90:
		return markquiz.GradeA
	case accuracy >= 80:
		return markquiz.GradeB
	case accuracy >= 70:
		return markquiz.GradeC
	case accuracy >= 60:
		return markquiz.GradeD
	default:
		return markquiz.GradeF
	}
}
