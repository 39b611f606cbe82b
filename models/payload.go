package models

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

var (
	ErrNoCuisines         = errors.New("at least one cuisine is required")
	ErrMissingCoordinates = errors.New("missing coordinates")
)

// RestaurantPayload is the full mutable state of a restaurant, sent on both
// create and update. The collaborator performs a full replace, never a
// partial one.
type RestaurantPayload struct {
	Name          string    `json:"name" validate:"required"`
	Address       string    `json:"address" validate:"required"`
	Latitude      float64   `json:"latitude" validate:"latitude"`
	Longitude     float64   `json:"longitude" validate:"longitude"`
	Rating        *int      `json:"rating" validate:"omitempty,min=1,max=5"`
	PriceTier     PriceTier `json:"price_range"`
	CuisineIDs    []int64   `json:"cuisine_ids"`
	GroupIDs      []int64   `json:"group_ids"`
	PersonalNotes string    `json:"personal_notes"`
	Status        Status    `json:"status"`
}

// Validate blocks invalid payloads before they reach the collaborator.
// A zeroed coordinate pair means the address lookup never filled the form.
func (p *RestaurantPayload) Validate() error {
	if err := validate.Struct(p); err != nil {
		return err
	}

	if p.Latitude == 0 && p.Longitude == 0 {
		return ErrMissingCoordinates
	}

	if len(p.CuisineIDs) == 0 {
		return ErrNoCuisines
	}

	if !p.PriceTier.Valid() {
		return fmt.Errorf("invalid price tier %q", p.PriceTier)
	}

	if !p.Status.Valid() {
		return fmt.Errorf("invalid status %q", p.Status)
	}

	return nil
}

// CuisinePayload names a new cuisine.
type CuisinePayload struct {
	Name string `json:"name" validate:"required"`
}

func (p *CuisinePayload) Validate() error {
	return validate.Struct(p)
}

// GroupPayload names a new group.
type GroupPayload struct {
	Name string `json:"name" validate:"required"`
}

func (p *GroupPayload) Validate() error {
	return validate.Struct(p)
}
