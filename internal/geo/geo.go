// Package geo holds the small amount of spherical geometry the game needs.
package geo

import (
	"math"

	"github.com/solentmarks/markquiz/internal/markquiz"
)

// EarthRadius is the mean Earth radius in meters.
const EarthRadius = 6371000.0

// Distance returns the haversine great-circle distance in meters between two
// WGS84 points given in degrees.
func Distance(lat1, lon1, lat2, lon2 float64) float64 {
	φ1 := lat1 * math.Pi / 180.0
	φ2 := lat2 * math.Pi / 180.0
	dφ := (lat2 - lat1) * math.Pi / 180.0
	dλ := (lon2 - lon1) * math.Pi / 180.0

	sinDφ := math.Sin(dφ / 2)
	sinDλ := math.Sin(dλ / 2)

	a := sinDφ*sinDφ + math.Cos(φ1)*math.Cos(φ2)*sinDλ*sinDλ
	// Rounding can push a a hair outside [0, 1] near the poles and for
	// antipodal points, which would make Sqrt return NaN.
	a = math.Min(1, math.Max(0, a))
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return EarthRadius * c
}

// Between returns the distance in meters between two marks.
func Between(a, b markquiz.Mark) float64 {
	return Distance(a.Lat, a.Lon, b.Lat, b.Lon)
}

// Within returns the marks no further than radius meters from target,
// excluding target itself. Input order is kept.
func Within(target markquiz.Mark, marks []markquiz.Mark, radius float64) []markquiz.Mark {
	var out []markquiz.Mark
	for _, m := range marks {
		if m.ID == target.ID {
			continue
		}
		if Between(target, m) <= radius {
			out = append(out, m)
		}
	}
	return out
}
