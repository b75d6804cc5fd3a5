// Package markquiz defines the core domain types shared by the game engine,
// the session orchestrator and the HTTP API.
// It has no dependencies outside the standard library.
package markquiz

import (
	"fmt"
	"time"
)

type Symbol string

const (
	SymbolRed             Symbol = "R"
	SymbolGreen           Symbol = "G"
	SymbolYellow          Symbol = "Y"
	SymbolBlack           Symbol = "B"
	SymbolRedWhite        Symbol = "RW"
	SymbolYellowBlackYel  Symbol = "YBY"
	SymbolBlackYellowBlk  Symbol = "BYB"
	SymbolBlackOverYellow Symbol = "BY"
	SymbolYellowOverBlack Symbol = "YB"
)

var symbolColours = map[Symbol]string{
	SymbolRed:             "red",
	SymbolGreen:           "green",
	SymbolYellow:          "yellow",
	SymbolBlack:           "black",
	SymbolRedWhite:        "red and white",
	SymbolYellowBlackYel:  "yellow-black-yellow",
	SymbolBlackYellowBlk:  "black-yellow-black",
	SymbolBlackOverYellow: "black over yellow",
	SymbolYellowOverBlack: "yellow over black",
}

// ParseSymbol accepts only the fixed set of chart symbol codes.
func ParseSymbol(s string) (Symbol, error) {
	sym := Symbol(s)
	if _, ok := symbolColours[sym]; !ok {
		return "", fmt.Errorf("unknown mark symbol %q", s)
	}
	return sym, nil
}

// Colour describes how the mark looks on the water.
func (s Symbol) Colour() string {
	if c, ok := symbolColours[s]; ok {
		return c
	}
	return string(s)
}

type Mark struct {
	ID                    string  `json:"id"`
	Name                  string  `json:"name"`
	Lat                   float64 `json:"lat"`
	Lon                   float64 `json:"lon"`
	Symbol                Symbol  `json:"symbol"`
	Description           string  `json:"description"`
	Sponsor               string  `json:"sponsor,omitempty"`
	SponsorHintSuppressed bool    `json:"sponsorHintSuppressed,omitempty"`
}

func (m Mark) HasSponsor() bool { return m.Sponsor != "" }

type Difficulty string

const (
	Beginner     Difficulty = "beginner"
	Intermediate Difficulty = "intermediate"
	Advanced     Difficulty = "advanced"
)

func (d Difficulty) Valid() bool {
	switch d {
	case Beginner, Intermediate, Advanced:
		return true
	}
	return false
}

// UnmarshalText lets env and JSON decoding reject unknown tiers.
func (d *Difficulty) UnmarshalText(text []byte) error {
	v := Difficulty(text)
	if !v.Valid() {
		return fmt.Errorf("unknown difficulty %q", string(text))
	}
	*d = v
	return nil
}

type Config struct {
	Difficulty       Difficulty
	OptionCount      int
	TimeLimitSeconds int // 0 means unset
	HintsEnabled     bool
	AuxLayerEnabled  bool
}

func (c Config) Validate() error {
	if !c.Difficulty.Valid() {
		return fmt.Errorf("unknown difficulty %q", c.Difficulty)
	}
	if c.OptionCount < 2 {
		return fmt.Errorf("option count must be at least 2, got %d", c.OptionCount)
	}
	if c.TimeLimitSeconds < 0 {
		return fmt.Errorf("time limit must not be negative, got %d", c.TimeLimitSeconds)
	}
	return nil
}

type Question struct {
	Target  Mark
	Options []Mark
	Context []Mark
}

type GuessResult struct {
	IsCorrect bool
	Points    int
	TimeBonus int
	Target    Mark
	Selected  *Mark
	TimedOut  bool
}

type SessionState struct {
	Score          int
	Streak         int
	BestStreak     int
	QuestionsAsked int
	CorrectCount   int
	StartedAt      time.Time
}

type Grade string

const (
	GradeA Grade = "A"
	GradeB Grade = "B"
	GradeC Grade = "C"
	GradeD Grade = "D"
	GradeF Grade = "F"
)

type Stats struct {
	Accuracy        int   `json:"accuracy"`
	AverageSeconds  int   `json:"averageTime"`
	PointsPerMinute int   `json:"pointsPerMinute"`
	Grade           Grade `json:"grade"`
}
