// Package game implements the question and scoring engine: difficulty
// classification, question generation, guess evaluation, streak bonuses,
// end-of-game statistics and hints. Everything here is synchronous and free
// of I/O; randomness comes in through the Rand interface.
package game

import (
	"strings"

	"github.com/solentmarks/markquiz/internal/markquiz"
)

// Description keywords approximate how well known a mark is. There is no
// curated difficulty field in the chart data.
var (
	beginnerKeywords     = []string{"Tower", "Fort", "Lighthouse", "Bank", "Ledge"}
	intermediateKeywords = []string{"Buoy", "Elbow", "Head"}
)

// Classify returns the marks playable at the given tier, in input order.
func Classify(marks []markquiz.Mark, tier markquiz.Difficulty) []markquiz.Mark {
	var keep func(markquiz.Mark) bool
	switch tier {
	case markquiz.Beginner:
		keep = func(m markquiz.Mark) bool {
			return !m.HasSponsor() && containsAny(m.Description, beginnerKeywords)
		}
	case markquiz.Intermediate:
		keep = func(m markquiz.Mark) bool {
			return m.HasSponsor() || containsAny(m.Description, intermediateKeywords)
		}
	default:
		return marks
	}

	var out []markquiz.Mark
	for _, m := range marks {
		if keep(m) {
			out = append(out, m)
		}
	}
	return out
}

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}
