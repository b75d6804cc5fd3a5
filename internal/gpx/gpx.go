// Package gpx reads racing marks from GPX waypoint files.
package gpx

import (
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"github.com/solentmarks/markquiz/internal/markquiz"
)

type document struct {
	Waypoints []waypoint `xml:"wpt"`
}

type waypoint struct {
	Lat  float64 `xml:"lat,attr"`
	Lon  float64 `xml:"lon,attr"`
	Name *string `xml:"name"`
	Sym  *string `xml:"sym"`
	Desc *string `xml:"desc"`
}

// Parse decodes every usable waypoint in r. Waypoints without a name, symbol
// or description element, or with an unknown symbol code, are skipped. Mark
// ids are derived from the waypoint position in the file.
func Parse(r io.Reader) ([]markquiz.Mark, error) {
	var doc document
	if err := xml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decoding gpx: %w", err)
	}

	marks := make([]markquiz.Mark, 0, len(doc.Waypoints))
	for i, w := range doc.Waypoints {
		if w.Name == nil || w.Sym == nil || w.Desc == nil {
			continue
		}

		code := strings.TrimSpace(*w.Sym)
		if code == "" {
			code = string(markquiz.SymbolYellow)
		}
		sym, err := markquiz.ParseSymbol(code)
		if err != nil {
			continue
		}

		desc := strings.TrimSpace(*w.Desc)
		marks = append(marks, markquiz.Mark{
			ID:          fmt.Sprintf("mark-%d", i),
			Name:        strings.TrimSpace(*w.Name),
			Lat:         w.Lat,
			Lon:         w.Lon,
			Symbol:      sym,
			Description: desc,
			Sponsor:     Sponsor(desc),
		})
	}
	return marks, nil
}

// Sponsor extracts the sponsor name a description carries before a '*' or
// '@' delimiter. It returns "" when there is none.
func Sponsor(desc string) string {
	i := strings.IndexAny(desc, "*@")
	if i < 0 {
		return ""
	}
	return strings.TrimSpace(desc[:i])
}
