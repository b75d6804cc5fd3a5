package game

import (
	"testing"

	"github.com/solentmarks/markquiz/internal/markquiz"
)

func TestEvaluateCorrect(t *testing.T) {
	target := testMarks[0]

	res := Evaluate(target, &target, 10, testConfig)

	if !res.IsCorrect {
		t.Fatal("IsCorrect = false, want true")
	}
	if res.Points <= 0 {
		t.Errorf("Points = %d, want > 0", res.Points)
	}
	if res.Target.ID != target.ID || res.Selected == nil || res.Selected.ID != target.ID {
		t.Errorf("result marks = %+v / %+v, want both %q", res.Target, res.Selected, target.ID)
	}
	if res.TimedOut {
		t.Error("TimedOut = true, want false")
	}
}

func TestEvaluateWrong(t *testing.T) {
	target, wrong := testMarks[0], testMarks[1]

	res := Evaluate(target, &wrong, 10, testConfig)

	if res.IsCorrect || res.Points != 0 || res.TimeBonus != 0 {
		t.Errorf("got %+v, want zero score", res)
	}
}

func TestEvaluateTimeout(t *testing.T) {
	res := Evaluate(testMarks[0], nil, 45, testConfig)

	if !res.TimedOut || res.IsCorrect || res.Points != 0 || res.TimeBonus != 0 {
		t.Errorf("got %+v, want timed-out zero score", res)
	}
}

func TestEvaluateTimeBonus(t *testing.T) {
	target := testMarks[0]

	quick := Evaluate(target, &target, 5, testConfig)
	slow := Evaluate(target, &target, 40, testConfig)

	if quick.TimeBonus <= slow.TimeBonus {
		t.Errorf("quick bonus %d should exceed slow bonus %d", quick.TimeBonus, slow.TimeBonus)
	}
}

func TestEvaluatePoints(t *testing.T) {
	target := testMarks[0]

	tests := []struct {
		name      string
		cfg       markquiz.Config
		elapsed   float64
		wantBonus int
		wantTotal int
	}{
		// floor(30*25/30) = 25; (100+25)*1
		{"beginner", markquiz.Config{Difficulty: markquiz.Beginner, TimeLimitSeconds: 30}, 5, 25, 125},
		// floor(50*15/20) = 37; floor((100+37)*1.5) = 205
		{"intermediate", markquiz.Config{Difficulty: markquiz.Intermediate, TimeLimitSeconds: 20}, 5, 37, 205},
		// floor(70*5/10) = 35; (100+35)*2
		{"advanced", markquiz.Config{Difficulty: markquiz.Advanced, TimeLimitSeconds: 10}, 5, 35, 270},
		{"over the limit", markquiz.Config{Difficulty: markquiz.Advanced, TimeLimitSeconds: 10}, 12, 0, 200},
		{"no time limit", markquiz.Config{Difficulty: markquiz.Intermediate}, 5, 0, 150},
		{"unknown tier", markquiz.Config{TimeLimitSeconds: 10}, 0, 30, 130},
		{"instant answer", markquiz.Config{Difficulty: markquiz.Beginner, TimeLimitSeconds: 30}, 0, 30, 130},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Evaluate(target, &target, tt.elapsed, tt.cfg)
			if res.TimeBonus != tt.wantBonus {
				t.Errorf("TimeBonus = %d, want %d", res.TimeBonus, tt.wantBonus)
			}
			if res.Points != tt.wantTotal {
				t.Errorf("Points = %d, want %d", res.Points, tt.wantTotal)
			}
		})
	}
}

func TestEvaluateDifficultyMultiplier(t *testing.T) {
	target := testMarks[0]

	beginner := Evaluate(target, &target, 10, markquiz.Config{Difficulty: markquiz.Beginner})
	advanced := Evaluate(target, &target, 10, markquiz.Config{Difficulty: markquiz.Advanced})

	if advanced.Points <= beginner.Points {
		t.Errorf("advanced %d should exceed beginner %d", advanced.Points, beginner.Points)
	}
}

func TestStreakBonus(t *testing.T) {
	for streak := 0; streak < 3; streak++ {
		if got := StreakBonus(streak); got != 0 {
			t.Errorf("StreakBonus(%d) = %d, want 0", streak, got)
		}
	}
	if StreakBonus(3) <= 0 {
		t.Errorf("StreakBonus(3) = %d, want > 0", StreakBonus(3))
	}
	if StreakBonus(5) <= StreakBonus(3) {
		t.Errorf("StreakBonus(5) = %d, want > StreakBonus(3) = %d", StreakBonus(5), StreakBonus(3))
	}
	if got := StreakBonus(50); got != 100 {
		t.Errorf("StreakBonus(50) = %d, want 100", got)
	}
}

func TestTimeLimit(t *testing.T) {
	tests := []struct {
		tier markquiz.Difficulty
		want int
	}{
		{markquiz.Beginner, 30},
		{markquiz.Intermediate, 20},
		{markquiz.Advanced, 10},
		{"", 30},
	}
	for _, tt := range tests {
		if got := TimeLimit(tt.tier); got != tt.want {
			t.Errorf("TimeLimit(%q) = %d, want %d", tt.tier, got, tt.want)
		}
	}
}

func TestEffectiveTimeLimit(t *testing.T) {
	if got := EffectiveTimeLimit(markquiz.Config{Difficulty: markquiz.Advanced}); got != 10 {
		t.Errorf("EffectiveTimeLimit(advanced) = %d, want 10", got)
	}
	if got := EffectiveTimeLimit(markquiz.Config{Difficulty: markquiz.Advanced, TimeLimitSeconds: 45}); got != 45 {
		t.Errorf("EffectiveTimeLimit(override) = %d, want 45", got)
	}
}
