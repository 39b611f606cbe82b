package places_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foodmapper/foodmapper/places"
)

const textSearchResponse = `{
	"status": "OK",
	"results": [
		{
			"name": "Joe's Pizza",
			"formatted_address": "7 Carmine St, New York, NY 10014",
			"geometry": {"location": {"lat": 40.7305, "lng": -74.0021}}
		}
	]
}`

func TestGoogleLookup(t *testing.T) {
	var gotQuery, gotKey string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("query")
		gotKey = r.URL.Query().Get("key")
		_, _ = w.Write([]byte(textSearchResponse))
	}))
	defer srv.Close()

	c, err := places.NewGoogleClient("test-key", places.WithEndpoint(srv.URL))
	require.NoError(t, err)

	out, err := c.Lookup(context.Background(), "joe's pizza")
	require.NoError(t, err)
	require.Len(t, out, 1)

	assert.Equal(t, "joe's pizza", gotQuery)
	assert.Equal(t, "test-key", gotKey)
	assert.Equal(t, "Joe's Pizza", out[0].Name)
	assert.Equal(t, "7 Carmine St, New York, NY 10014", out[0].Address)
	assert.InDelta(t, 40.7305, out[0].Latitude, 1e-6)
	assert.InDelta(t, -74.0021, out[0].Longitude, 1e-6)
}

func TestGoogleLookupZeroResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"status":"ZERO_RESULTS","results":[]}`))
	}))
	defer srv.Close()

	c, err := places.NewGoogleClient("test-key", places.WithEndpoint(srv.URL))
	require.NoError(t, err)

	out, err := c.Lookup(context.Background(), "nowhere at all")
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestNewGoogleClientRequiresKey(t *testing.T) {
	_, err := places.NewGoogleClient("")
	assert.ErrorIs(t, err, places.ErrMissingAPIKey)
}

func TestPayloadPrefill(t *testing.T) {
	p := places.Place{
		Name:      "Joe's Pizza",
		Address:   "7 Carmine St, New York, NY 10014",
		Latitude:  40.7305,
		Longitude: -74.0021,
	}

	payload := p.Payload()

	assert.Equal(t, p.Name, payload.Name)
	assert.Equal(t, p.Address, payload.Address)
	assert.InDelta(t, p.Latitude, payload.Latitude, 1e-9)
	assert.InDelta(t, p.Longitude, payload.Longitude, 1e-9)
	assert.Error(t, payload.Validate(), "prefill alone is not a complete payload")
}
