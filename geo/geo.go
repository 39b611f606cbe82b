// Package geo provides great-circle distance computation between
// coordinates. It has no dependencies on the rest of the module.
package geo

import (
	"fmt"
	"math"
)

const (
	earthRadiusMiles = 3959
	feetPerMile      = 5280
)

// Point is a latitude/longitude pair.
type Point struct {
	Lat float64
	Lng float64
}

// Distance returns the great-circle distance in miles between two points,
// using the haversine formula.
func Distance(a, b Point) float64 {
	dLat := radians(b.Lat - a.Lat)
	dLng := radians(b.Lng - a.Lng)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(radians(a.Lat))*math.Cos(radians(b.Lat))*
			math.Sin(dLng/2)*math.Sin(dLng/2)

	return earthRadiusMiles * 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}

// FormatDistance renders a distance for display. Distances under a tenth of
// a mile read better in feet.
func FormatDistance(miles float64) string {
	if miles < 0.1 {
		return fmt.Sprintf("%.0fft", miles*feetPerMile)
	}

	return fmt.Sprintf("%.1fmi", miles)
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}
