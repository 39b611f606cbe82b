package view

import (
	"github.com/foodmapper/foodmapper/geo"
	"github.com/foodmapper/foodmapper/models"
)

// fitPadding is the margin applied when framing all visible markers.
const fitPadding = 50

// Handle pairs the marker and card of one visible restaurant, together with
// the entity snapshot they were built from. The snapshot is what lets a
// deselect restore the correct status color without reaching back into the
// store.
type Handle struct {
	Restaurant models.Restaurant
	Marker     Marker
	Card       Card
}

// Registry maintains the one-to-one mapping between visible restaurant ids
// and their visual handles. Handles are destroyed and recreated wholesale on
// every rebuild rather than patched in place; the collection is always fully
// replaced upstream, so diffing would buy nothing.
type Registry struct {
	mapSurface  MapSurface
	listSurface ListSurface
	handles     map[int64]Handle
}

// Annotate produces the display-only distance annotation for one
// restaurant. A nil Annotate or an empty result means no annotation.
type Annotate func(r *models.Restaurant) string

func NewRegistry(m MapSurface, l ListSurface) *Registry {
	return &Registry{
		mapSurface:  m,
		listSurface: l,
		handles:     make(map[int64]Handle),
	}
}

// Rebuild releases every existing handle and creates one per visible
// restaurant with the default (unselected) encoding. After population the
// viewport is adjusted to frame all visible coordinates, unless nothing is
// visible.
func (g *Registry) Rebuild(visible []models.Restaurant, annotate Annotate) {
	for id, h := range g.handles {
		h.Marker.Remove()
		h.Card.Remove()
		delete(g.handles, id)
	}

	g.listSurface.Clear()

	if len(visible) == 0 {
		g.listSurface.Notice("No restaurants found.")

		return
	}

	points := make([]geo.Point, 0, len(visible))

	for i := range visible {
		r := visible[i]

		distance := ""
		if annotate != nil {
			distance = annotate(&r)
		}

		marker := g.mapSurface.AddMarker(r, MarkerColor(r.Status, false))
		card := g.listSurface.AddCard(r, distance)

		g.handles[r.ID] = Handle{Restaurant: r, Marker: marker, Card: card}
		points = append(points, geo.Point{Lat: r.Latitude, Lng: r.Longitude})
	}

	g.mapSurface.FitBounds(points, fitPadding)
}

// Handle returns the visual handle for an id, if the id is visible.
func (g *Registry) Handle(id int64) (Handle, bool) {
	h, ok := g.handles[id]

	return h, ok
}

// IDs returns the ids currently holding a handle.
func (g *Registry) IDs() []int64 {
	out := make([]int64, 0, len(g.handles))
	for id := range g.handles {
		out = append(out, id)
	}

	return out
}

func (g *Registry) Len() int {
	return len(g.handles)
}

// Hover toggles the marker bounce hint for a card hover. The selected
// entity does not bounce.
func (g *Registry) Hover(id int64, on bool, selected int64) {
	if on && id == selected {
		return
	}

	if h, ok := g.handles[id]; ok {
		h.Marker.SetBouncing(on)
	}
}
