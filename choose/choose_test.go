package choose_test

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foodmapper/foodmapper/choose"
	"github.com/foodmapper/foodmapper/models"
)

func rated(n int) *int { return &n }

// collection returns 10 italian places matching the base constraints plus a
// few that fail one constraint each.
func collection() []models.Restaurant {
	out := make([]models.Restaurant, 0, 13)

	for i := 1; i <= 10; i++ {
		out = append(out, models.Restaurant{
			ID:        int64(i),
			Name:      fmt.Sprintf("Italian %d", i),
			Rating:    rated(4),
			PriceTier: models.PriceModerate,
			Status:    models.StatusWantToGo,
			Cuisines:  []models.Cuisine{{ID: 1, Name: "Italian"}},
		})
	}

	out = append(out,
		models.Restaurant{ID: 11, Name: "Sushi place", Rating: rated(5), PriceTier: models.PriceModerate, Status: models.StatusWantToGo, Cuisines: []models.Cuisine{{ID: 2, Name: "Japanese"}}},
		models.Restaurant{ID: 12, Name: "Visited italian", Rating: rated(4), PriceTier: models.PriceModerate, Status: models.StatusVisited, Cuisines: []models.Cuisine{{ID: 1, Name: "Italian"}}},
		models.Restaurant{ID: 13, Name: "Unrated italian", PriceTier: models.PriceModerate, Status: models.StatusWantToGo, Cuisines: []models.Cuisine{{ID: 1, Name: "Italian"}}},
	)

	return out
}

func baseConstraints() choose.Constraints {
	return choose.Constraints{
		CuisineIDs: []int64{1},
		Statuses:   []models.Status{models.StatusWantToGo},
		PriceTier:  models.PriceModerate,
		MinRating:  3,
	}
}

func TestPickRequiresCuisine(t *testing.T) {
	s := choose.NewWithSource(rand.NewSource(1))

	_, err := s.Pick(collection(), choose.Constraints{})
	assert.ErrorIs(t, err, choose.ErrNoCuisines)
}

func TestPickDrawsFromMatchingSetOnly(t *testing.T) {
	s := choose.NewWithSource(rand.NewSource(42))
	all := collection()

	for i := 0; i < 50; i++ {
		picks, err := s.Pick(all, baseConstraints())
		require.NoError(t, err)
		require.Len(t, picks, choose.MaxPicks)

		seen := make(map[int64]bool, len(picks))

		for _, p := range picks {
			// Only ids 1..10 satisfy every constraint.
			assert.GreaterOrEqual(t, p.ID, int64(1))
			assert.LessOrEqual(t, p.ID, int64(10))
			assert.False(t, seen[p.ID], "no repeats within one draw")
			seen[p.ID] = true
		}
	}
}

func TestPickSmallerMatchingSet(t *testing.T) {
	s := choose.NewWithSource(rand.NewSource(7))

	c := baseConstraints()
	c.MinRating = 5

	all := append(collection(), models.Restaurant{
		ID: 20, Name: "Five star", Rating: rated(5), PriceTier: models.PriceModerate,
		Status: models.StatusWantToGo, Cuisines: []models.Cuisine{{ID: 1}},
	})

	picks, err := s.Pick(all, c)
	require.NoError(t, err)
	require.Len(t, picks, 1)
	assert.Equal(t, int64(20), picks[0].ID)
}

func TestPickZeroMatchesIsEmptyNotError(t *testing.T) {
	s := choose.NewWithSource(rand.NewSource(3))

	c := baseConstraints()
	c.PriceTier = models.PriceLuxury

	picks, err := s.Pick(collection(), c)
	require.NoError(t, err)
	assert.Empty(t, picks)
}

func TestPickInputUnchanged(t *testing.T) {
	s := choose.NewWithSource(rand.NewSource(9))
	all := collection()

	_, err := s.Pick(all, baseConstraints())
	require.NoError(t, err)

	for i, r := range all {
		assert.Equal(t, int64(i+1), r.ID, "shuffle must not reorder the caller's slice")
	}
}

func TestPickIsRoughlyUniform(t *testing.T) {
	s := choose.NewWithSource(rand.NewSource(1234))
	all := collection()

	const draws = 2000

	counts := make(map[int64]int, 10)

	for i := 0; i < draws; i++ {
		picks, err := s.Pick(all, baseConstraints())
		require.NoError(t, err)

		for _, p := range picks {
			counts[p.ID]++
		}
	}

	// Each of the 10 matching restaurants should appear in roughly half of
	// the draws (5 picks out of 10 candidates). Statistical, not exact.
	expected := float64(draws) * float64(choose.MaxPicks) / 10

	for id := int64(1); id <= 10; id++ {
		assert.InDelta(t, expected, float64(counts[id]), expected*0.1,
			"restaurant %d drawn disproportionately", id)
	}
}
