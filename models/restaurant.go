package models

import (
	"strings"
)

// Status is the visit status of a restaurant. The wire values match the
// collaborator's storage format, so they contain spaces.
type Status string

const (
	StatusWantToGo Status = "Want to go"
	StatusVisited  Status = "Visited"
	StatusFavorite Status = "Favorite"
)

func (s Status) Valid() bool {
	switch s {
	case StatusWantToGo, StatusVisited, StatusFavorite:
		return true
	default:
		return false
	}
}

// Statuses returns all valid statuses in display order.
func Statuses() []Status {
	return []Status{StatusWantToGo, StatusVisited, StatusFavorite}
}

// ParseStatus resolves user input such as "visited" to a Status.
func ParseStatus(s string) (Status, bool) {
	for _, st := range Statuses() {
		if strings.EqualFold(string(st), s) {
			return st, true
		}
	}

	return "", false
}

// PriceTier is one of the ordered price symbols.
type PriceTier string

const (
	PriceCheap     PriceTier = "$"
	PriceModerate  PriceTier = "$$"
	PriceExpensive PriceTier = "$$$"
	PriceLuxury    PriceTier = "$$$$"
)

func (p PriceTier) Valid() bool {
	switch p {
	case PriceCheap, PriceModerate, PriceExpensive, PriceLuxury:
		return true
	default:
		return false
	}
}

// Rank returns the position of the tier in the price order, starting at 1.
// Unknown tiers rank 0.
func (p PriceTier) Rank() int {
	switch p {
	case PriceCheap:
		return 1
	case PriceModerate:
		return 2
	case PriceExpensive:
		return 3
	case PriceLuxury:
		return 4
	default:
		return 0
	}
}

// Restaurant is one tracked place as returned by the collaborator.
// Rating is nil when the place is unrated; nil is a first-class value and
// must never be collapsed to zero.
type Restaurant struct {
	ID            int64     `json:"id"`
	Name          string    `json:"name"`
	Address       string    `json:"address"`
	Latitude      float64   `json:"latitude"`
	Longitude     float64   `json:"longitude"`
	Rating        *int      `json:"rating"`
	PriceTier     PriceTier `json:"price_range"`
	PersonalNotes string    `json:"personal_notes,omitempty"`
	Status        Status    `json:"status"`
	Cuisines      []Cuisine `json:"cuisines"`
	Groups        []Group   `json:"groups"`
}

// Rated reports whether the restaurant has a rating.
func (r *Restaurant) Rated() bool {
	return r.Rating != nil
}

// HasCuisine reports whether any of the restaurant's cuisines has the given id.
func (r *Restaurant) HasCuisine(id int64) bool {
	for _, c := range r.Cuisines {
		if c.ID == id {
			return true
		}
	}

	return false
}

// HasAnyCuisine reports whether any of the restaurant's cuisines is in ids.
func (r *Restaurant) HasAnyCuisine(ids []int64) bool {
	for _, id := range ids {
		if r.HasCuisine(id) {
			return true
		}
	}

	return false
}

// InGroup reports whether the restaurant belongs to the given group.
func (r *Restaurant) InGroup(id int64) bool {
	for _, g := range r.Groups {
		if g.ID == id {
			return true
		}
	}

	return false
}

// CuisineNames joins the cuisine names for display.
func (r *Restaurant) CuisineNames() string {
	names := make([]string, 0, len(r.Cuisines))
	for _, c := range r.Cuisines {
		names = append(names, c.Name)
	}

	return strings.Join(names, ", ")
}
