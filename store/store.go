// Package store holds the authoritative in-memory snapshot of
// collaborator-provided data. Every load replaces a whole collection;
// nothing is merged or mutated in place from local actions, so displayed
// state can never diverge from persisted state.
package store

import (
	"sync"

	"github.com/foodmapper/foodmapper/models"
)

type Store struct {
	mu          *sync.RWMutex
	restaurants []models.Restaurant
	cuisines    []models.Cuisine
	groups      []models.Group
}

func New() *Store {
	return &Store{
		mu: &sync.RWMutex{},
	}
}

// LoadRestaurants atomically replaces the restaurant collection.
func (s *Store) LoadRestaurants(in []models.Restaurant) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.restaurants = copySlice(in)
}

// LoadCuisines atomically replaces the cuisine taxonomy.
func (s *Store) LoadCuisines(in []models.Cuisine) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cuisines = copySlice(in)
}

// LoadGroups atomically replaces the group taxonomy.
func (s *Store) LoadGroups(in []models.Group) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.groups = copySlice(in)
}

// Restaurants returns a snapshot of the current collection. The caller owns
// the returned slice.
func (s *Store) Restaurants() []models.Restaurant {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return copySlice(s.restaurants)
}

func (s *Store) Cuisines() []models.Cuisine {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return copySlice(s.cuisines)
}

func (s *Store) Groups() []models.Group {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return copySlice(s.groups)
}

// Restaurant looks up one restaurant by id in the current snapshot.
func (s *Store) Restaurant(id int64) (models.Restaurant, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for i := range s.restaurants {
		if s.restaurants[i].ID == id {
			return s.restaurants[i], true
		}
	}

	return models.Restaurant{}, false
}

// Has reports whether the id exists in the current snapshot.
func (s *Store) Has(id int64) bool {
	_, ok := s.Restaurant(id)

	return ok
}

// SetGroupPublished flips the publication flag of a local group entry. It is
// the single optimistic local mutation in the module: the publish toggle
// applies immediately and the caller reverts it if the collaborator rejects
// the write.
func (s *Store) SetGroupPublished(id int64, published bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.groups {
		if s.groups[i].ID == id {
			s.groups[i].Published = published

			return true
		}
	}

	return false
}

func copySlice[T any](in []T) []T {
	if in == nil {
		return nil
	}

	out := make([]T, len(in))
	copy(out, in)

	return out
}
