package game

import (
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/solentmarks/markquiz/internal/geo"
	"github.com/solentmarks/markquiz/internal/markquiz"
)

const (
	// ContextRadius bounds the neighbouring marks shown around the target.
	ContextRadius = 2000.0

	// Distractors in this band are plausible without sitting on top of the target.
	preferredMinDistance = 500.0
	preferredMaxDistance = 10000.0
)

var ErrInsufficientMarkers = errors.New("not enough marks")

// InsufficientMarkersError reports that a pool cannot fill a question.
type InsufficientMarkersError struct {
	Tier markquiz.Difficulty
	Need int
	Have int
}

func (e *InsufficientMarkersError) Error() string {
	return fmt.Sprintf("not enough marks available for %s: need %d, have %d", e.Tier, e.Need, e.Have)
}

func (e *InsufficientMarkersError) Is(target error) bool {
	return target == ErrInsufficientMarkers
}

// Rand is the subset of *rand.Rand the generator draws from. Tests pass a
// seeded source to make questions reproducible.
type Rand interface {
	IntN(n int) int
}

type globalRand struct{}

func (globalRand) IntN(n int) int { return rand.IntN(n) }

// Shuffle permutes s in place (Fisher-Yates).
func Shuffle[T any](rng Rand, s []T) {
	for i := len(s) - 1; i > 0; i-- {
		j := rng.IntN(i + 1)
		s[i], s[j] = s[j], s[i]
	}
}

type Generator struct {
	rng Rand
}

// NewGenerator returns a generator drawing from rng, or from the
// process-wide source when rng is nil. The global source is safe for
// concurrent use; a caller-supplied one is not guarded.
func NewGenerator(rng Rand) *Generator {
	if rng == nil {
		rng = globalRand{}
	}
	return &Generator{rng: rng}
}

// Generate builds one question from the pool. The target is drawn from the
// marks playable at cfg.Difficulty; distractors and context come from the
// whole pool.
func (g *Generator) Generate(marks []markquiz.Mark, cfg markquiz.Config) (markquiz.Question, error) {
	if err := cfg.Validate(); err != nil {
		return markquiz.Question{}, fmt.Errorf("invalid question config: %w", err)
	}

	available := Classify(marks, cfg.Difficulty)
	if len(available) < cfg.OptionCount {
		return markquiz.Question{}, &InsufficientMarkersError{
			Tier: cfg.Difficulty,
			Need: cfg.OptionCount,
			Have: len(available),
		}
	}

	target := available[g.rng.IntN(len(available))]

	others := make([]markquiz.Mark, 0, len(marks))
	for _, m := range marks {
		if m.ID != target.ID {
			others = append(others, m)
		}
	}
	if len(others) < cfg.OptionCount-1 {
		return markquiz.Question{}, &InsufficientMarkersError{
			Tier: cfg.Difficulty,
			Need: cfg.OptionCount - 1,
			Have: len(others),
		}
	}

	distractors := g.pickDistractors(target, others, cfg.OptionCount-1)

	options := make([]markquiz.Mark, 0, cfg.OptionCount)
	options = append(options, target)
	options = append(options, distractors...)
	if len(options) < cfg.OptionCount {
		return markquiz.Question{}, &InsufficientMarkersError{
			Tier: cfg.Difficulty,
			Need: cfg.OptionCount,
			Have: len(options),
		}
	}
	Shuffle(g.rng, options)

	return markquiz.Question{
		Target:  target,
		Options: options,
		Context: geo.Within(target, marks, ContextRadius),
	}, nil
}

// pickDistractors returns up to n marks from others. The nearest mark with
// the target's symbol always comes first; remaining slots favour marks in
// the preferred distance band, whatever their symbol.
func (g *Generator) pickDistractors(target markquiz.Mark, others []markquiz.Mark, n int) []markquiz.Mark {
	if n <= 0 {
		return nil
	}

	used := map[string]bool{target.ID: true}
	picked := make([]markquiz.Mark, 0, n)

	sameSymbol := nearestSameSymbol(target, others)
	if len(sameSymbol) > 0 {
		decoy := sameSymbol[g.rng.IntN(len(sameSymbol))]
		picked = append(picked, decoy)
		used[decoy.ID] = true
	}

	var preferred, fallback []markquiz.Mark
	for _, m := range others {
		if used[m.ID] {
			continue
		}
		d := geo.Between(target, m)
		if d > preferredMinDistance && d < preferredMaxDistance {
			preferred = append(preferred, m)
		} else {
			fallback = append(fallback, m)
		}
	}
	Shuffle(g.rng, preferred)
	Shuffle(g.rng, fallback)

	for _, pool := range [][]markquiz.Mark{preferred, fallback} {
		for _, m := range pool {
			if len(picked) >= n {
				return picked
			}
			if used[m.ID] {
				continue
			}
			picked = append(picked, m)
			used[m.ID] = true
		}
	}
	return picked
}

// nearestSameSymbol returns every mark sharing target's symbol at the
// minimum distance from it. Usually that is a single mark.
func nearestSameSymbol(target markquiz.Mark, others []markquiz.Mark) []markquiz.Mark {
	var (
		nearest []markquiz.Mark
		best    float64
	)
	for _, m := range others {
		if m.Symbol != target.Symbol {
			continue
		}
		d := geo.Between(target, m)
		switch {
		case len(nearest) == 0 || d < best:
			nearest = []markquiz.Mark{m}
			best = d
		case d == best:
			nearest = append(nearest, m)
		}
	}
	return nearest
}
