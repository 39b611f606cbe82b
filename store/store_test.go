package store_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foodmapper/foodmapper/models"
	"github.com/foodmapper/foodmapper/store"
)

func TestLoadReplacesWholeCollection(t *testing.T) {
	s := store.New()

	s.LoadRestaurants([]models.Restaurant{{ID: 1, Name: "A"}, {ID: 2, Name: "B"}})
	require.Len(t, s.Restaurants(), 2)

	// A reload is a replacement, never a merge.
	s.LoadRestaurants([]models.Restaurant{{ID: 3, Name: "C"}})

	got := s.Restaurants()
	require.Len(t, got, 1)
	assert.Equal(t, int64(3), got[0].ID)
	assert.False(t, s.Has(1))
}

func TestSnapshotIsolation(t *testing.T) {
	s := store.New()
	s.LoadCuisines([]models.Cuisine{{ID: 1, Name: "Thai"}})

	snap := s.Cuisines()
	snap[0].Name = "mutated"

	assert.Equal(t, "Thai", s.Cuisines()[0].Name)
}

func TestRestaurantLookup(t *testing.T) {
	s := store.New()
	s.LoadRestaurants([]models.Restaurant{{ID: 7, Name: "Via Carota"}})

	r, ok := s.Restaurant(7)
	require.True(t, ok)
	assert.Equal(t, "Via Carota", r.Name)

	_, ok = s.Restaurant(8)
	assert.False(t, ok)
}

func TestSetGroupPublished(t *testing.T) {
	s := store.New()
	s.LoadGroups([]models.Group{{ID: 1, Name: "Date night"}})

	require.True(t, s.SetGroupPublished(1, true))
	assert.True(t, s.Groups()[0].Published)

	// Revert path.
	require.True(t, s.SetGroupPublished(1, false))
	assert.False(t, s.Groups()[0].Published)

	assert.False(t, s.SetGroupPublished(99, true))
}
