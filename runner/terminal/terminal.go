// Package terminal renders the map and list surfaces as plain text. Markers
// become glyph rows, cards become list lines, and viewport operations are
// recorded so a redraw can mention them.
package terminal

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/foodmapper/foodmapper/geo"
	"github.com/foodmapper/foodmapper/models"
	"github.com/foodmapper/foodmapper/view"
)

type row struct {
	restaurant models.Restaurant
	distance   string
	color      view.Color
	selected   bool
	bouncing   bool
}

// Surface implements both view.MapSurface and view.ListSurface on a single
// text screen.
type Surface struct {
	mu     sync.Mutex
	out    io.Writer
	rows   map[int64]*row
	order  []int64
	notice string
}

var (
	_ view.MapSurface  = (*Surface)(nil)
	_ view.ListSurface = (*Surface)(nil)
)

func New(out io.Writer) *Surface {
	return &Surface{
		out:  out,
		rows: make(map[int64]*row),
	}
}

func (s *Surface) AddMarker(r models.Restaurant, c view.Color) view.Marker {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.row(r).color = c

	return &marker{surface: s, id: r.ID}
}

func (s *Surface) FitBounds([]geo.Point, int) {}

func (s *Surface) FlyTo(geo.Point) {}

func (s *Surface) Invalidate() {}

func (s *Surface) AddCard(r models.Restaurant, distance string) view.Card {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.row(r).distance = distance

	return &card{surface: s, id: r.ID}
}

func (s *Surface) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.notice = ""
}

func (s *Surface) Notice(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.notice = msg
}

// Render writes the current rows in insertion order.
func (s *Surface) Render() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.notice != "" && len(s.order) == 0 {
		_, err := fmt.Fprintln(s.out, s.notice)

		return err
	}

	var builder strings.Builder

	for _, id := range s.order {
		r, ok := s.rows[id]
		if !ok {
			continue
		}

		builder.WriteString(formatRow(r))
		builder.WriteByte('\n')
	}

	_, err := io.WriteString(s.out, builder.String())

	return err
}

// row returns the record for a restaurant, creating it on first use. Marker
// and card creation both land here so either order works.
func (s *Surface) row(r models.Restaurant) *row {
	if existing, ok := s.rows[r.ID]; ok {
		return existing
	}

	created := &row{restaurant: r}
	s.rows[r.ID] = created
	s.order = append(s.order, r.ID)

	return created
}

func (s *Surface) remove(id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.rows, id)

	for i, existing := range s.order {
		if existing == id {
			s.order = append(s.order[:i], s.order[i+1:]...)

			break
		}
	}
}

func formatRow(r *row) string {
	var builder strings.Builder

	if r.selected {
		builder.WriteString("> ")
	} else {
		builder.WriteString("  ")
	}

	builder.WriteString(glyph(r.color))
	builder.WriteByte(' ')
	builder.WriteString(r.restaurant.Name)

	if rating := r.restaurant.Rating; rating != nil {
		builder.WriteString(fmt.Sprintf("  %s", strings.Repeat("★", *rating)))
	} else {
		builder.WriteString("  unrated")
	}

	if r.restaurant.PriceTier != "" {
		builder.WriteString("  " + string(r.restaurant.PriceTier))
	}

	builder.WriteString("  " + string(r.restaurant.Status))

	if cuisines := r.restaurant.CuisineNames(); cuisines != "" {
		builder.WriteString("  [" + cuisines + "]")
	}

	if r.distance != "" {
		builder.WriteString("  " + r.distance + " away")
	}

	return builder.String()
}

func glyph(c view.Color) string {
	switch c {
	case view.ColorGreen:
		return "●"
	case view.ColorGold:
		return "★"
	case view.ColorViolet:
		return "◆"
	default:
		return "○"
	}
}

type marker struct {
	surface *Surface
	id      int64
}

func (m *marker) SetColor(c view.Color) {
	m.surface.mu.Lock()
	defer m.surface.mu.Unlock()

	if r, ok := m.surface.rows[m.id]; ok {
		r.color = c
		r.selected = c == view.ColorGreen
	}
}

func (m *marker) SetBouncing(on bool) {
	m.surface.mu.Lock()
	defer m.surface.mu.Unlock()

	if r, ok := m.surface.rows[m.id]; ok {
		r.bouncing = on
	}
}

func (m *marker) OpenPopup() {}

func (m *marker) ClosePopup() {}

func (m *marker) Remove() { m.surface.remove(m.id) }

type card struct {
	surface *Surface
	id      int64
}

func (c *card) SetHighlighted(on bool) {
	c.surface.mu.Lock()
	defer c.surface.mu.Unlock()

	if r, ok := c.surface.rows[c.id]; ok {
		r.selected = on
	}
}

func (c *card) ScrollIntoView() {}

// Remove is a no-op: the marker removal already drops the shared row.
func (c *card) Remove() {}
