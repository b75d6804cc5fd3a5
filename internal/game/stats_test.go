package game

import (
	"testing"

	"github.com/solentmarks/markquiz/internal/markquiz"
)

func TestGenerateStats(t *testing.T) {
	tests := []struct {
		name                   string
		total, correct, points int
		elapsed                float64
		want                   markquiz.Stats
	}{
		{"typical game", 10, 8, 500, 300, markquiz.Stats{Accuracy: 80, AverageSeconds: 30, PointsPerMinute: 100, Grade: markquiz.GradeB}},
		{"excellent", 10, 9, 500, 300, markquiz.Stats{Accuracy: 90, AverageSeconds: 30, PointsPerMinute: 100, Grade: markquiz.GradeA}},
		{"poor", 10, 4, 200, 300, markquiz.Stats{Accuracy: 40, AverageSeconds: 30, PointsPerMinute: 40, Grade: markquiz.GradeF}},
		{"seventy", 10, 7, 0, 100, markquiz.Stats{Accuracy: 70, AverageSeconds: 10, Grade: markquiz.GradeC}},
		{"sixty", 10, 6, 0, 100, markquiz.Stats{Accuracy: 60, AverageSeconds: 10, Grade: markquiz.GradeD}},
		{"rounding", 3, 2, 100, 7, markquiz.Stats{Accuracy: 67, AverageSeconds: 2, PointsPerMinute: 857, Grade: markquiz.GradeD}},
		{"nothing played", 0, 0, 0, 0, markquiz.Stats{Grade: markquiz.GradeF}},
		{"no elapsed time", 2, 2, 200, 0, markquiz.Stats{Accuracy: 100, Grade: markquiz.GradeA}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := GenerateStats(tt.total, tt.correct, tt.points, tt.elapsed)
			if got != tt.want {
				t.Errorf("GenerateStats(%d, %d, %d, %v) = %+v, want %+v",
					tt.total, tt.correct, tt.points, tt.elapsed, got, tt.want)
			}
		})
	}
}
