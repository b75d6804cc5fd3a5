package game

import (
	"fmt"
	"strings"

	"github.com/solentmarks/markquiz/internal/markquiz"
)

// MaxHintLevel is the most revealing hint.
const MaxHintLevel = 4

// Hint returns a clue about m. Higher levels give more away; level is
// clamped to [0, MaxHintLevel].
func Hint(m markquiz.Mark, level int) string {
	level = max(0, min(level, MaxHintLevel))

	switch level {
	case 0:
		return fmt.Sprintf("This mark is in the %s area of the Solent.", Region(m.Lat, m.Lon))
	case 1:
		return fmt.Sprintf("Look for a %s mark.", m.Symbol.Colour())
	case 2:
		return fmt.Sprintf("The mark is named \"%s\".", strings.TrimSpace(m.Name))
	case 3:
		return "Description: " + m.Description
	default:
		if m.HasSponsor() {
			return "Sponsored by: " + m.Sponsor
		}
		return "This is a navigation mark."
	}
}

// Region names the rough part of the Solent a position falls in.
func Region(lat, lon float64) string {
	switch {
	case lon < -1.6:
		return "western"
	case lon > -1.1:
		return "eastern"
	case lat > 50.8:
		return "northern"
	case lat < 50.7:
		return "southern"
	default:
		return "central"
	}
}
