package game

import (
	"math/rand/v2"

	"github.com/solentmarks/markquiz/internal/markquiz"
)

var testMarks = []markquiz.Mark{
	{ID: "mark-1", Name: "Cowes Royal Yacht Squadron", Lat: 50.7595, Lon: -1.2944, Symbol: markquiz.SymbolYellow, Description: "Famous yacht club with historic Tower"},
	{ID: "mark-2", Name: "Bramble Bank", Lat: 50.7234, Lon: -1.3123, Symbol: markquiz.SymbolGreen, Description: "Shallow sandbank in central Solent"},
	{ID: "mark-3", Name: "Sponsored Racing Buoy", Lat: 50.78, Lon: -1.25, Symbol: markquiz.SymbolRed, Description: "Racing Buoy near Portsmouth", Sponsor: "Test Sponsor"},
	{ID: "mark-4", Name: "Navigation Elbow", Lat: 50.76, Lon: -1.28, Symbol: markquiz.SymbolBlack, Description: "Navigation Elbow marker"},
	{ID: "mark-5", Name: "Port Head Mark", Lat: 50.74, Lon: -1.27, Symbol: markquiz.SymbolGreen, Description: "Port Head navigation marker"},
	{ID: "mark-6", Name: "Sponsored Racing Mark 2", Lat: 50.73, Lon: -1.26, Symbol: markquiz.SymbolRed, Description: "Another racing Buoy", Sponsor: "Sponsor 2"},
}

var testConfig = markquiz.Config{
	Difficulty:       markquiz.Advanced,
	OptionCount:      4,
	TimeLimitSeconds: 45,
	HintsEnabled:     true,
}

func seeded(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

func ids(marks []markquiz.Mark) []string {
	out := make([]string, len(marks))
	for i, m := range marks {
		out[i] = m.ID
	}
	return out
}
