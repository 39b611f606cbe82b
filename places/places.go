// Package places provides address and coordinate lookup for the add/edit
// form. The concrete client talks to the Google Places text-search HTTP API;
// consumers depend on the Lookup interface so the provider can be swapped or
// faked.
package places

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/foodmapper/foodmapper/models"
)

// Place is one lookup candidate: enough to prefill the add/edit form.
type Place struct {
	Name      string
	Address   string
	Latitude  float64
	Longitude float64
}

// Payload prefills a restaurant payload from a candidate. The caller still
// fills status, price, and cuisines before it validates.
func (p Place) Payload() *models.RestaurantPayload {
	return &models.RestaurantPayload{
		Name:      p.Name,
		Address:   p.Address,
		Latitude:  p.Latitude,
		Longitude: p.Longitude,
	}
}

type Lookup interface {
	Lookup(ctx context.Context, query string) ([]Place, error)
}

var ErrMissingAPIKey = errors.New("places: missing api key")

const (
	defaultEndpoint = "https://maps.googleapis.com/maps/api/place/textsearch/json"
	defaultTimeout  = 10 * time.Second
	maxCandidates   = 5
)

type GoogleClient struct {
	key      string
	endpoint string
	http     *http.Client
}

var _ Lookup = (*GoogleClient)(nil)

type GoogleOption func(*GoogleClient)

// WithEndpoint overrides the API endpoint (used in tests).
func WithEndpoint(endpoint string) GoogleOption {
	return func(c *GoogleClient) { c.endpoint = endpoint }
}

func WithHTTPClient(h *http.Client) GoogleOption {
	return func(c *GoogleClient) { c.http = h }
}

func NewGoogleClient(key string, opts ...GoogleOption) (*GoogleClient, error) {
	if key == "" {
		return nil, ErrMissingAPIKey
	}

	c := GoogleClient{
		key:      key,
		endpoint: defaultEndpoint,
		http:     &http.Client{Timeout: defaultTimeout},
	}

	for _, opt := range opts {
		opt(&c)
	}

	return &c, nil
}

func (c *GoogleClient) Lookup(ctx context.Context, query string) ([]Place, error) {
	q := url.Values{}
	q.Set("query", query)
	q.Set("key", c.key)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+"?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}

	res, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("places lookup: %w", err)
	}
	defer res.Body.Close()

	var payload struct {
		Status  string `json:"status"`
		Results []struct {
			Name             string `json:"name"`
			FormattedAddress string `json:"formatted_address"`
			Geometry         struct {
				Location struct {
					Lat float64 `json:"lat"`
					Lng float64 `json:"lng"`
				} `json:"location"`
			} `json:"geometry"`
		} `json:"results"`
	}

	if err := json.NewDecoder(res.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("places lookup: decode: %w", err)
	}

	switch payload.Status {
	case "OK":
	case "ZERO_RESULTS":
		return nil, nil
	default:
		return nil, fmt.Errorf("places lookup: status %s", payload.Status)
	}

	out := make([]Place, 0, maxCandidates)

	for _, r := range payload.Results {
		out = append(out, Place{
			Name:      r.Name,
			Address:   r.FormattedAddress,
			Latitude:  r.Geometry.Location.Lat,
			Longitude: r.Geometry.Location.Lng,
		})

		if len(out) == maxCandidates {
			break
		}
	}

	return out, nil
}
