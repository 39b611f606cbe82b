package view

import (
	"github.com/foodmapper/foodmapper/geo"
)

// Selection tracks at most one selected restaurant and drives the visual
// transitions on the registry. Selection and visibility are decoupled:
// selecting an id with no visual handle records the selection but skips the
// side effects, so a facet change cannot silently corrupt the selection.
type Selection struct {
	registry   *Registry
	mapSurface MapSurface
	current    int64 // 0 means no selection
}

func NewSelection(registry *Registry, mapSurface MapSurface) *Selection {
	return &Selection{
		registry:   registry,
		mapSurface: mapSurface,
	}
}

// Current returns the selected id, if any.
func (s *Selection) Current() (int64, bool) {
	return s.current, s.current != 0
}

// Select makes id the selected restaurant. The previous selection's visual
// state is always restored first, so no two entities ever carry the
// selected encoding at once. recenter controls whether the viewport flies
// to the marker.
func (s *Selection) Select(id int64, recenter bool) {
	s.release()

	if id == 0 {
		s.current = 0

		return
	}

	s.current = id

	h, ok := s.registry.Handle(id)
	if !ok {
		return
	}

	h.Marker.SetBouncing(false)
	h.Marker.SetColor(ColorGreen)
	h.Marker.OpenPopup()

	if recenter {
		s.mapSurface.FlyTo(geo.Point{Lat: h.Restaurant.Latitude, Lng: h.Restaurant.Longitude})
	}

	h.Card.ScrollIntoView()
	h.Card.SetHighlighted(true)
}

// Clear transitions to no selection, restoring the previous entity.
func (s *Selection) Clear() {
	s.Select(0, false)
}

// PopupClosed handles the map surface reporting a closed popup. Only the
// active entity's popup clears the selection.
func (s *Selection) PopupClosed(id int64) {
	if s.current == id {
		s.Clear()
	}
}

// Reconcile re-aligns the selection with a freshly rebuilt registry. If the
// selected id no longer exists in the collection, the selection clears;
// if it survived and is visible, the highlight is re-applied to the newly
// created handle (without stealing the viewport).
func (s *Selection) Reconcile(exists func(int64) bool) {
	if s.current == 0 {
		return
	}

	if !exists(s.current) {
		s.current = 0

		return
	}

	h, ok := s.registry.Handle(s.current)
	if !ok {
		return
	}

	h.Marker.SetColor(ColorGreen)
	h.Card.SetHighlighted(true)
}

// release restores the previously selected entity's encoding to its status
// color and clears its card highlight. Nothing happens when the entity has
// no handle (it was filtered out or removed).
func (s *Selection) release() {
	if s.current == 0 {
		return
	}

	h, ok := s.registry.Handle(s.current)
	if !ok {
		return
	}

	h.Marker.SetColor(MarkerColor(h.Restaurant.Status, false))
	h.Marker.ClosePopup()
	h.Card.SetHighlighted(false)
}
