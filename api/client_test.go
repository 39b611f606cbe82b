package api_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foodmapper/foodmapper/api"
	"github.com/foodmapper/foodmapper/models"
)

func newClient(t *testing.T, handler http.Handler, opts ...api.Option) *api.Client {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c, err := api.New(srv.URL, opts...)
	require.NoError(t, err)

	return c
}

func TestListRestaurantsPassesSearchAndSort(t *testing.T) {
	var gotSearch, gotSort, gotAuth string

	c := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotSearch = r.URL.Query().Get("search")
		gotSort = r.URL.Query().Get("sort")
		gotAuth = r.Header.Get("Authorization")
		_ = json.NewEncoder(w).Encode([]models.Restaurant{{ID: 1, Name: "Esme"}})
	}), api.WithToken("tok-123"))

	out, err := c.ListRestaurants(context.Background(), api.ListParams{Search: "pizza", Sort: "rating"})
	require.NoError(t, err)
	require.Len(t, out, 1)

	assert.Equal(t, "pizza", gotSearch)
	assert.Equal(t, "rating", gotSort)
	assert.Equal(t, "Bearer tok-123", gotAuth)
}

func TestErrorTaxonomy(t *testing.T) {
	tests := []struct {
		name   string
		status int
		detail string
		want   error
	}{
		{"expired session", http.StatusUnauthorized, "Could not validate credentials", api.ErrUnauthorized},
		{"missing resource", http.StatusNotFound, "Restaurant not found", api.ErrNotFound},
		{"referenced cuisine", http.StatusBadRequest, "Cannot delete cuisine that is being used by restaurants.", api.ErrConflict},
		{"conflicting group", http.StatusConflict, "Group already exists", api.ErrConflict},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				_ = json.NewEncoder(w).Encode(map[string]string{"detail": tc.detail})
			}))

			err := c.DeleteCuisine(context.Background(), 1)
			require.Error(t, err)
			assert.ErrorIs(t, err, tc.want)

			var apiErr *api.Error
			require.ErrorAs(t, err, &apiErr)
			// The collaborator's reason is surfaced verbatim.
			assert.Equal(t, tc.detail, apiErr.Detail)
		})
	}
}

func TestReadOnlyClientRejectsWritesLocally(t *testing.T) {
	requests := 0

	c := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		_ = json.NewEncoder(w).Encode([]models.Restaurant{})
	}), api.ReadOnly())

	err := c.DeleteRestaurant(context.Background(), 1)
	assert.ErrorIs(t, err, api.ErrReadOnly)

	_, err = c.CreateGroup(context.Background(), "x")
	assert.ErrorIs(t, err, api.ErrReadOnly)

	// No request ever left the client.
	assert.Zero(t, requests)

	// Reads still work.
	_, err = c.ListRestaurants(context.Background(), api.ListParams{})
	assert.NoError(t, err)
	assert.Equal(t, 1, requests)
}

func TestSharedRestaurantsValidatesToken(t *testing.T) {
	requests := 0

	c := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		_ = json.NewEncoder(w).Encode([]models.Restaurant{{ID: 9}})
	}))

	_, err := c.SharedRestaurants(context.Background(), "not-a-token")
	assert.ErrorIs(t, err, api.ErrInvalidShareToken)
	assert.Zero(t, requests)

	out, err := c.SharedRestaurants(context.Background(), uuid.NewString())
	require.NoError(t, err)
	assert.Len(t, out, 1)
}

func TestSetGroupPublished(t *testing.T) {
	var gotBody map[string]any

	c := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPut, r.Method)
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		_ = json.NewEncoder(w).Encode(models.Group{ID: 4, Name: "BBQ tour", Published: true})
	}))

	g, err := c.SetGroupPublished(context.Background(), 4, true)
	require.NoError(t, err)
	assert.True(t, g.Published)
	assert.Equal(t, true, gotBody["is_published"])
}

func TestNewRejectsInvalidBaseURL(t *testing.T) {
	_, err := api.New("not a url")
	assert.Error(t, err)

	_, err = api.New("/relative/only")
	assert.Error(t, err)
}
