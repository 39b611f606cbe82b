// Package view keeps the on-map and on-list representations of the visible
// collection consistent with each other. The actual rendering engines (an
// interactive map, a card list) sit behind the MapSurface and ListSurface
// interfaces; this package only decides what exists and how it is encoded.
package view

import (
	"github.com/foodmapper/foodmapper/geo"
	"github.com/foodmapper/foodmapper/models"
)

// Color is the visual encoding applied to a map marker.
type Color string

const (
	ColorBlue   Color = "blue"
	ColorViolet Color = "violet"
	ColorGold   Color = "gold"
	ColorGreen  Color = "green"
)

// MarkerColor is the deterministic encoding of (status, selected). The
// selected entity overrides its status color with green and gets it back on
// deselect.
func MarkerColor(status models.Status, selected bool) Color {
	if selected {
		return ColorGreen
	}

	switch status {
	case models.StatusFavorite:
		return ColorGold
	case models.StatusVisited:
		return ColorViolet
	default:
		return ColorBlue
	}
}

// Marker is one pin owned by the map surface.
type Marker interface {
	SetColor(Color)
	SetBouncing(bool)
	OpenPopup()
	ClosePopup()
	Remove()
}

// Card is one entry owned by the list surface.
type Card interface {
	SetHighlighted(bool)
	ScrollIntoView()
	Remove()
}

// MapSurface is the marker provider (e.g. an interactive map widget).
type MapSurface interface {
	AddMarker(r models.Restaurant, c Color) Marker
	// FitBounds frames all given coordinates with a padding margin in
	// surface units.
	FitBounds(points []geo.Point, padding int)
	FlyTo(p geo.Point)
	// Invalidate re-validates the rendering surface after it becomes
	// visible; a surface sized while hidden computes a degenerate layout.
	Invalidate()
}

// ListSurface is the card provider.
type ListSurface interface {
	// AddCard appends a card. distance is a display-only annotation and is
	// empty when the user location is unknown.
	AddCard(r models.Restaurant, distance string) Card
	Clear()
	// Notice replaces the list content with an empty or error state.
	Notice(msg string)
}
