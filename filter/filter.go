// Package filter implements the two-stage filter pipeline. The remote stage
// (search text and sort key) is executed by the collaborator; this package
// carries its parameters and performs the local facet stage on the returned
// collection.
package filter

import (
	"github.com/foodmapper/foodmapper/models"
)

// Sort is the collaborator-side ordering key.
type Sort string

const (
	SortDefault Sort = ""
	SortName    Sort = "name"
	SortRating  Sort = "rating"
)

// Query holds the remote-stage parameters. Changing either field requires a
// new collaborator request; facet changes never do.
type Query struct {
	Search string
	Sort   Sort
}

// Facets is the local narrowing stage. The zero value of each field means
// "no constraint from this facet"; active facets combine with logical AND.
type Facets struct {
	CuisineID int64
	MinRating int
	PriceTier models.PriceTier
	Status    models.Status
	GroupID   int64
}

// Active reports whether any facet constrains the collection.
func (f Facets) Active() bool {
	return f != Facets{}
}

// Match reports whether a restaurant passes every active facet.
// An unrated restaurant fails any rating threshold.
func (f Facets) Match(r *models.Restaurant) bool {
	if f.CuisineID != 0 && !r.HasCuisine(f.CuisineID) {
		return false
	}

	if f.MinRating > 0 {
		if !r.Rated() || *r.Rating < f.MinRating {
			return false
		}
	}

	if f.PriceTier != "" && r.PriceTier != f.PriceTier {
		return false
	}

	if f.Status != "" && r.Status != f.Status {
		return false
	}

	if f.GroupID != 0 && !r.InGroup(f.GroupID) {
		return false
	}

	return true
}

// Apply narrows the remote-stage result, preserving its order.
func (f Facets) Apply(in []models.Restaurant) []models.Restaurant {
	if !f.Active() {
		return in
	}

	out := make([]models.Restaurant, 0, len(in))

	for i := range in {
		if f.Match(&in[i]) {
			out = append(out, in[i])
		}
	}

	return out
}
