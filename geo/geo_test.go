package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDistance(t *testing.T) {
	t.Run("NewYorkToLosAngeles", func(t *testing.T) {
		nyc := Point{Lat: 40.7128, Lng: -74.0060}
		la := Point{Lat: 34.0522, Lng: -118.2437}

		d := Distance(nyc, la)
		assert.InDelta(t, 2445, d, 15)
	})

	t.Run("SamePoint", func(t *testing.T) {
		p := Point{Lat: 51.5074, Lng: -0.1278}
		assert.Zero(t, Distance(p, p))
	})

	t.Run("Symmetric", func(t *testing.T) {
		a := Point{Lat: 48.8566, Lng: 2.3522}
		b := Point{Lat: 52.5200, Lng: 13.4050}
		assert.InDelta(t, Distance(a, b), Distance(b, a), 1e-9)
	})
}

func TestFormatDistance(t *testing.T) {
	assert.Equal(t, "264ft", FormatDistance(0.05))
	assert.Equal(t, "0.5mi", FormatDistance(0.5))
	assert.Equal(t, "12.3mi", FormatDistance(12.34))
}
