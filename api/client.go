// Package api is the HTTP client for the restaurant-tracking collaborator.
// It owns request construction, bearer-token injection, and the mapping of
// collaborator failures onto the module's error taxonomy. Each call is a
// single request/response; retries are the caller's decision.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/foodmapper/foodmapper/models"
)

const defaultTimeout = 15 * time.Second

type Client struct {
	base     *url.URL
	http     *http.Client
	token    string
	readOnly bool
	logger   *zap.Logger
}

type Option func(*Client)

// WithToken sets the bearer token for authenticated requests.
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

func WithLogger(l *zap.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// ReadOnly puts the client in view-only mode: mutating calls fail locally
// with ErrReadOnly before any request is issued. Used for shared and
// anonymous browsing.
func ReadOnly() Option {
	return func(c *Client) { c.readOnly = true }
}

func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}

	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid base url %q", baseURL)
	}

	c := Client{
		base:   u,
		http:   &http.Client{Timeout: defaultTimeout},
		logger: zap.NewNop(),
	}

	for _, opt := range opts {
		opt(&c)
	}

	return &c, nil
}

// ListParams carries the remote-stage filter parameters. The collaborator
// returns an already search-matched, already-ordered collection.
type ListParams struct {
	Search string
	Sort   string
}

func (c *Client) ListRestaurants(ctx context.Context, params ListParams) ([]models.Restaurant, error) {
	q := url.Values{}
	if params.Search != "" {
		q.Set("search", params.Search)
	}

	if params.Sort != "" {
		q.Set("sort", params.Sort)
	}

	var out []models.Restaurant
	if err := c.do(ctx, http.MethodGet, "/api/restaurants", q, nil, &out); err != nil {
		return nil, err
	}

	return out, nil
}

func (c *Client) CreateRestaurant(ctx context.Context, p *models.RestaurantPayload) (models.Restaurant, error) {
	var out models.Restaurant
	err := c.do(ctx, http.MethodPost, "/api/restaurants", nil, p, &out)

	return out, err
}

func (c *Client) UpdateRestaurant(ctx context.Context, id int64, p *models.RestaurantPayload) (models.Restaurant, error) {
	var out models.Restaurant
	err := c.do(ctx, http.MethodPut, fmt.Sprintf("/api/restaurants/%d", id), nil, p, &out)

	return out, err
}

func (c *Client) DeleteRestaurant(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/restaurants/%d", id), nil, nil, nil)
}

func (c *Client) ListCuisines(ctx context.Context) ([]models.Cuisine, error) {
	var out []models.Cuisine
	if err := c.do(ctx, http.MethodGet, "/api/cuisines", nil, nil, &out); err != nil {
		return nil, err
	}

	return out, nil
}

// CreateCuisine returns the existing record when the name is already taken;
// the collaborator treats cuisine creation as idempotent by name.
func (c *Client) CreateCuisine(ctx context.Context, name string) (models.Cuisine, error) {
	var out models.Cuisine
	err := c.do(ctx, http.MethodPost, "/api/cuisines", nil, models.CuisinePayload{Name: name}, &out)

	return out, err
}

func (c *Client) DeleteCuisine(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/cuisines/%d", id), nil, nil, nil)
}

func (c *Client) ListGroups(ctx context.Context) ([]models.Group, error) {
	var out []models.Group
	if err := c.do(ctx, http.MethodGet, "/api/groups", nil, nil, &out); err != nil {
		return nil, err
	}

	return out, nil
}

func (c *Client) CreateGroup(ctx context.Context, name string) (models.Group, error) {
	var out models.Group
	err := c.do(ctx, http.MethodPost, "/api/groups", nil, models.GroupPayload{Name: name}, &out)

	return out, err
}

func (c *Client) DeleteGroup(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/groups/%d", id), nil, nil, nil)
}

// SetGroupPublished toggles the publication flag of a group.
func (c *Client) SetGroupPublished(ctx context.Context, id int64, published bool) (models.Group, error) {
	body := struct {
		Published bool `json:"is_published"`
	}{Published: published}

	var out models.Group
	err := c.do(ctx, http.MethodPut, fmt.Sprintf("/api/groups/%d", id), nil, body, &out)

	return out, err
}

// ShareGroup requests a share token for a group. The collaborator reuses an
// existing token when one was already minted.
func (c *Client) ShareGroup(ctx context.Context, id int64) (string, error) {
	var out struct {
		ShareToken string `json:"share_token"`
	}

	if err := c.do(ctx, http.MethodPost, fmt.Sprintf("/api/groups/%d/share", id), nil, nil, &out); err != nil {
		return "", err
	}

	return out.ShareToken, nil
}

// SharedRestaurants lists the restaurants of a shared group. The token is
// checked for shape locally so an obviously mangled link fails without a
// round trip.
func (c *Client) SharedRestaurants(ctx context.Context, token string) ([]models.Restaurant, error) {
	if _, err := uuid.Parse(token); err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidShareToken, token)
	}

	var out []models.Restaurant
	if err := c.do(ctx, http.MethodGet, "/api/share/"+url.PathEscape(token), nil, nil, &out); err != nil {
		return nil, err
	}

	return out, nil
}

// PublishedGroups lists groups flagged visible to anonymous visitors.
func (c *Client) PublishedGroups(ctx context.Context) ([]models.Group, error) {
	var out []models.Group
	if err := c.do(ctx, http.MethodGet, "/api/public/groups", nil, nil, &out); err != nil {
		return nil, err
	}

	return out, nil
}

func (c *Client) PublishedGroupRestaurants(ctx context.Context, id int64) ([]models.Restaurant, error) {
	var out []models.Restaurant
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/public/groups/%d/restaurants", id), nil, nil, &out); err != nil {
		return nil, err
	}

	return out, nil
}

// Me returns the authenticated user, or ErrUnauthorized when the session is
// missing or expired.
func (c *Client) Me(ctx context.Context) (models.User, error) {
	var out models.User
	err := c.do(ctx, http.MethodGet, "/api/me", nil, nil, &out)

	return out, err
}

// Config fetches collaborator-provided runtime settings, e.g. the places
// lookup API key.
func (c *Client) Config(ctx context.Context) (models.RuntimeConfig, error) {
	var out models.RuntimeConfig
	err := c.do(ctx, http.MethodGet, "/api/config", nil, nil, &out)

	return out, err
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	if c.readOnly && method != http.MethodGet {
		return ErrReadOnly
	}

	u := *c.base
	u.Path = strings.TrimRight(u.Path, "/") + path
	u.RawQuery = query.Encode()

	var reader io.Reader

	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}

		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), reader)
	if err != nil {
		return err
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	res, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request %s %s: %w", method, path, err)
	}
	defer res.Body.Close()

	if res.StatusCode >= 400 {
		return c.decodeError(res)
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, res.Body)

		return nil
	}

	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}

	return nil
}

func (c *Client) decodeError(res *http.Response) error {
	apiErr := Error{StatusCode: res.StatusCode}

	var payload struct {
		Detail string `json:"detail"`
	}

	if err := json.NewDecoder(res.Body).Decode(&payload); err == nil {
		apiErr.Detail = payload.Detail
	}

	c.logger.Debug("api error",
		zap.Int("status", res.StatusCode),
		zap.String("detail", apiErr.Detail),
	)

	return &apiErr
}
