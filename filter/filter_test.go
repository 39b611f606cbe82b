package filter_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/foodmapper/foodmapper/filter"
	"github.com/foodmapper/foodmapper/models"
)

func rated(n int) *int { return &n }

func fixture() []models.Restaurant {
	return []models.Restaurant{
		{
			ID:        1,
			Name:      "Esme",
			Rating:    rated(4),
			PriceTier: models.PriceModerate,
			Status:    models.StatusVisited,
			Cuisines:  []models.Cuisine{{ID: 1, Name: "French"}, {ID: 2, Name: "Bistro"}},
			Groups:    []models.Group{{ID: 10, Name: "Date night"}},
		},
		{
			ID:        2,
			Name:      "Taqueria Ramirez",
			Rating:    nil,
			PriceTier: models.PriceCheap,
			Status:    models.StatusWantToGo,
			Cuisines:  []models.Cuisine{{ID: 3, Name: "Mexican"}},
		},
		{
			ID:        3,
			Name:      "Bernie's",
			Rating:    rated(5),
			PriceTier: models.PriceModerate,
			Status:    models.StatusFavorite,
			Cuisines:  []models.Cuisine{{ID: 2, Name: "Bistro"}},
			Groups:    []models.Group{{ID: 10, Name: "Date night"}, {ID: 11, Name: "Group dinners"}},
		},
	}
}

func ids(in []models.Restaurant) []int64 {
	out := make([]int64, 0, len(in))
	for _, r := range in {
		out = append(out, r.ID)
	}

	return out
}

func TestFacetsMatch(t *testing.T) {
	all := fixture()
	esme := &all[0]

	t.Run("facets combine with AND", func(t *testing.T) {
		f := filter.Facets{CuisineID: 1, MinRating: 3}
		assert.True(t, f.Match(esme))

		f = filter.Facets{CuisineID: 1, MinRating: 5}
		assert.False(t, f.Match(esme))
	})

	t.Run("non matching cuisine fails", func(t *testing.T) {
		f := filter.Facets{CuisineID: 99}
		assert.False(t, f.Match(esme))
	})

	t.Run("any cuisine matches", func(t *testing.T) {
		f := filter.Facets{CuisineID: 2}
		assert.True(t, f.Match(esme))
	})

	t.Run("absent rating fails any threshold", func(t *testing.T) {
		unrated := &all[1]
		assert.False(t, filter.Facets{MinRating: 1}.Match(unrated))
		assert.True(t, filter.Facets{}.Match(unrated))
	})

	t.Run("group membership is any match", func(t *testing.T) {
		assert.True(t, filter.Facets{GroupID: 11}.Match(&all[2]))
		assert.False(t, filter.Facets{GroupID: 11}.Match(esme))
	})
}

func TestFacetsApply(t *testing.T) {
	all := fixture()

	t.Run("no facets returns input unchanged", func(t *testing.T) {
		got := filter.Facets{}.Apply(all)
		assert.Equal(t, []int64{1, 2, 3}, ids(got))
	})

	t.Run("preserves remote order", func(t *testing.T) {
		got := filter.Facets{PriceTier: models.PriceModerate}.Apply(all)
		assert.Equal(t, []int64{1, 3}, ids(got))
	})

	t.Run("status and rating together", func(t *testing.T) {
		got := filter.Facets{Status: models.StatusFavorite, MinRating: 4}.Apply(all)
		assert.Equal(t, []int64{3}, ids(got))
	})

	t.Run("empty result is not an error", func(t *testing.T) {
		got := filter.Facets{PriceTier: models.PriceLuxury}.Apply(all)
		assert.Empty(t, got)
	})
}
