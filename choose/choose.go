// Package choose implements the "help me choose" recommendation sampler:
// hard constraint filtering over the full collection followed by an unbiased
// random draw.
package choose

import (
	"errors"
	"math/rand"
	"time"

	"github.com/foodmapper/foodmapper/models"
)

// MaxPicks is the number of recommendations returned per draw.
const MaxPicks = 5

// ErrNoCuisines is returned when a draw is requested without any cuisine
// constraint; at least one cuisine is mandatory.
var ErrNoCuisines = errors.New("choose: at least one cuisine is required")

// Constraints are the hard filters applied before sampling. CuisineIDs is
// ANY-match and must be non-empty; the remaining constraints are combined
// with AND. Zero values mean unconstrained.
type Constraints struct {
	CuisineIDs []int64
	Statuses   []models.Status
	PriceTier  models.PriceTier
	MinRating  int
}

func (c *Constraints) match(r *models.Restaurant) bool {
	if !r.HasAnyCuisine(c.CuisineIDs) {
		return false
	}

	if len(c.Statuses) > 0 {
		ok := false

		for _, st := range c.Statuses {
			if r.Status == st {
				ok = true

				break
			}
		}

		if !ok {
			return false
		}
	}

	if c.PriceTier != "" && r.PriceTier != c.PriceTier {
		return false
	}

	if c.MinRating > 0 {
		if !r.Rated() || *r.Rating < c.MinRating {
			return false
		}
	}

	return true
}

type Sampler struct {
	rnd *rand.Rand
}

func New() *Sampler {
	return NewWithSource(rand.NewSource(time.Now().UnixNano()))
}

// NewWithSource builds a sampler with a caller-controlled random source,
// mainly for deterministic tests.
func NewWithSource(src rand.Source) *Sampler {
	return &Sampler{rnd: rand.New(src)}
}

// Pick filters the full collection by the constraints, applies a uniform
// random permutation (Fisher–Yates), and returns the first MaxPicks
// matches. An empty result is a valid outcome, not an error: the caller
// loosens the constraints and retries.
func (s *Sampler) Pick(all []models.Restaurant, c Constraints) ([]models.Restaurant, error) {
	if len(c.CuisineIDs) == 0 {
		return nil, ErrNoCuisines
	}

	matched := make([]models.Restaurant, 0, len(all))

	for i := range all {
		if c.match(&all[i]) {
			matched = append(matched, all[i])
		}
	}

	s.rnd.Shuffle(len(matched), func(i, j int) {
		matched[i], matched[j] = matched[j], matched[i]
	})

	if len(matched) > MaxPicks {
		matched = matched[:MaxPicks]
	}

	return matched, nil
}
