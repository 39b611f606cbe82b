// Package engine is the sync orchestrator: the one component allowed to
// trigger a full reload sequence. It owns the entity store, the filter
// pipeline state, the visual registry, and the selection machine, and keeps
// them consistent across loads, facet changes, searches, and writes.
package engine

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/foodmapper/foodmapper/api"
	"github.com/foodmapper/foodmapper/choose"
	"github.com/foodmapper/foodmapper/filter"
	"github.com/foodmapper/foodmapper/geo"
	"github.com/foodmapper/foodmapper/models"
	"github.com/foodmapper/foodmapper/store"
	"github.com/foodmapper/foodmapper/view"
)

// searchDebounce is the quiet interval before a search edit reaches the
// collaborator.
const searchDebounce = 300 * time.Millisecond

// Mode selects the read path for the restaurant collection.
type Mode int

const (
	// ModeOwner browses the authenticated owner's own collection.
	ModeOwner Mode = iota
	// ModeShared browses a read-only list through a share token.
	ModeShared
	// ModePublic browses a published group anonymously.
	ModePublic
)

var ErrReadOnlyMode = errors.New("engine: operation requires owner mode")

// API is what the engine needs from the collaborator client.
type API interface {
	ListRestaurants(ctx context.Context, params api.ListParams) ([]models.Restaurant, error)
	CreateRestaurant(ctx context.Context, p *models.RestaurantPayload) (models.Restaurant, error)
	UpdateRestaurant(ctx context.Context, id int64, p *models.RestaurantPayload) (models.Restaurant, error)
	DeleteRestaurant(ctx context.Context, id int64) error
	ListCuisines(ctx context.Context) ([]models.Cuisine, error)
	CreateCuisine(ctx context.Context, name string) (models.Cuisine, error)
	DeleteCuisine(ctx context.Context, id int64) error
	ListGroups(ctx context.Context) ([]models.Group, error)
	CreateGroup(ctx context.Context, name string) (models.Group, error)
	DeleteGroup(ctx context.Context, id int64) error
	SetGroupPublished(ctx context.Context, id int64, published bool) (models.Group, error)
	ShareGroup(ctx context.Context, id int64) (string, error)
	SharedRestaurants(ctx context.Context, token string) ([]models.Restaurant, error)
	PublishedGroups(ctx context.Context) ([]models.Group, error)
	PublishedGroupRestaurants(ctx context.Context, id int64) ([]models.Restaurant, error)
	Me(ctx context.Context) (models.User, error)
}

// Locator resolves the user's current position, best effort. It is queried
// at most once per engine lifetime.
type Locator interface {
	Locate(ctx context.Context) (geo.Point, error)
}

type Engine struct {
	// mu serializes every state transition. The source system ran on a
	// single event-loop thread; the lock is the Go rendering of that:
	// completion order decides, never start order, and a rebuild always
	// sees the store state installed by the load that preceded it.
	mu sync.Mutex

	api       API
	store     *store.Store
	registry  *view.Registry
	selection *view.Selection
	mapView   view.MapSurface
	listView  view.ListSurface
	sampler   *choose.Sampler

	query  filter.Query
	facets filter.Facets

	mode       Mode
	shareToken string
	groupID    int64

	search     *debouncer
	locator    Locator
	locateOnce sync.Once
	location   *geo.Point

	logger *zap.Logger
}

type Option func(*Engine)

func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

func WithLocator(l Locator) Option {
	return func(e *Engine) { e.locator = l }
}

// WithLocation fixes the user position up front, skipping the background
// locator entirely.
func WithLocation(p geo.Point) Option {
	return func(e *Engine) { e.location = &p }
}

// WithSearchDebounce overrides the search quiet interval (tests).
func WithSearchDebounce(d time.Duration) Option {
	return func(e *Engine) { e.search = newDebouncer(d) }
}

// WithQuery installs the remote-stage query before the first load, so Init
// already carries it.
func WithQuery(q filter.Query) Option {
	return func(e *Engine) { e.query = q }
}

// WithFacets installs the local filter stage before the first render.
func WithFacets(f filter.Facets) Option {
	return func(e *Engine) { e.facets = f }
}

// SharedMode puts the engine in read-only browsing of a shared list.
func SharedMode(token string) Option {
	return func(e *Engine) {
		e.mode = ModeShared
		e.shareToken = token
	}
}

// PublicMode puts the engine in anonymous browsing of a published group.
func PublicMode(groupID int64) Option {
	return func(e *Engine) {
		e.mode = ModePublic
		e.groupID = groupID
	}
}

func New(apiClient API, mapView view.MapSurface, listView view.ListSurface, opts ...Option) *Engine {
	registry := view.NewRegistry(mapView, listView)

	e := Engine{
		api:       apiClient,
		store:     store.New(),
		registry:  registry,
		selection: view.NewSelection(registry, mapView),
		mapView:   mapView,
		listView:  listView,
		sampler:   choose.New(),
		search:    newDebouncer(searchDebounce),
		logger:    zap.NewNop(),
	}

	for _, opt := range opts {
		opt(&e)
	}

	return &e
}

// Init performs the initial load: the restaurant collection plus, in owner
// mode, both taxonomies, fanned out concurrently. Geolocation starts in the
// background and never delays the first render.
func (e *Engine) Init(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		restaurants, err := e.fetch(gctx)
		if err != nil {
			return err
		}

		e.store.LoadRestaurants(restaurants)

		return nil
	})

	if e.mode == ModeOwner {
		g.Go(func() error {
			cuisines, err := e.api.ListCuisines(gctx)
			if err != nil {
				return err
			}

			e.store.LoadCuisines(cuisines)

			return nil
		})

		g.Go(func() error {
			groups, err := e.api.ListGroups(gctx)
			if err != nil {
				return err
			}

			e.store.LoadGroups(groups)

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return e.renderLoadFailure(err)
	}

	e.mu.Lock()
	e.render()
	e.mu.Unlock()

	e.locate(ctx)

	return nil
}

// Close cancels any pending debounced search.
func (e *Engine) Close() {
	e.search.stop()
}

// Reload re-fetches the restaurant collection with the active query and
// re-renders. It is triggered by the orchestrator itself after writes, by
// sort changes, and by the debounced search.
func (e *Engine) Reload(ctx context.Context) error {
	restaurants, err := e.fetch(ctx)
	if err != nil {
		return e.renderLoadFailure(err)
	}

	e.store.LoadRestaurants(restaurants)

	e.mu.Lock()
	e.render()
	e.mu.Unlock()

	return nil
}

// SetFacets installs a new facet set and re-renders from the in-memory
// snapshot. Facet changes never re-issue the collaborator request.
func (e *Engine) SetFacets(f filter.Facets) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.facets = f
	e.render()
}

func (e *Engine) Facets() filter.Facets {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.facets
}

// Search schedules a debounced reload with new search text. Rapid edits
// supersede each other; only the last one reaches the collaborator.
func (e *Engine) Search(ctx context.Context, text string) {
	e.search.trigger(func() {
		e.mu.Lock()
		e.query.Search = text
		e.mu.Unlock()

		if err := e.Reload(ctx); err != nil {
			e.logger.Warn("search reload failed", zap.String("search", text), zap.Error(err))
		}
	})
}

// SetSort changes the collaborator-side ordering and reloads immediately.
func (e *Engine) SetSort(ctx context.Context, s filter.Sort) error {
	e.mu.Lock()
	e.query.Sort = s
	e.mu.Unlock()

	return e.Reload(ctx)
}

func (e *Engine) Query() filter.Query {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.query
}

// Select makes id the selected restaurant. recenter flies the viewport to
// its marker.
func (e *Engine) Select(id int64, recenter bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.selection.Select(id, recenter)
}

func (e *Engine) ClearSelection() {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.selection.Clear()
}

func (e *Engine) Selected() (int64, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.selection.Current()
}

// PopupClosed is the map surface callback for a user-closed popup.
func (e *Engine) PopupClosed(id int64) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.selection.PopupClosed(id)
}

// Hover toggles the marker bounce hint for a hovered card.
func (e *Engine) Hover(id int64, on bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	selected, _ := e.selection.Current()
	e.registry.Hover(id, on, selected)
}

// SurfaceShown re-validates the map surface after it becomes visible, e.g.
// when switching from the list tab to the map tab.
func (e *Engine) SurfaceShown() {
	e.mapView.Invalidate()
}

// Restaurants returns the current store snapshot (pre-facet).
func (e *Engine) Restaurants() []models.Restaurant {
	return e.store.Restaurants()
}

// Visible returns the post-facet collection in display order.
func (e *Engine) Visible() []models.Restaurant {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.facets.Apply(e.store.Restaurants())
}

func (e *Engine) Cuisines() []models.Cuisine {
	return e.store.Cuisines()
}

func (e *Engine) Groups() []models.Group {
	return e.store.Groups()
}

// CreateRestaurant validates the payload locally, sends it, and reloads the
// collection from the authoritative response path. A validation failure
// never reaches the collaborator; a collaborator failure never mutates the
// store.
func (e *Engine) CreateRestaurant(ctx context.Context, p *models.RestaurantPayload) error {
	if err := e.requireOwner(); err != nil {
		return err
	}

	if err := p.Validate(); err != nil {
		return err
	}

	if _, err := e.api.CreateRestaurant(ctx, p); err != nil {
		return err
	}

	return e.Reload(ctx)
}

func (e *Engine) UpdateRestaurant(ctx context.Context, id int64, p *models.RestaurantPayload) error {
	if err := e.requireOwner(); err != nil {
		return err
	}

	if err := p.Validate(); err != nil {
		return err
	}

	if _, err := e.api.UpdateRestaurant(ctx, id, p); err != nil {
		return err
	}

	return e.Reload(ctx)
}

// DeleteRestaurant deletes and reloads. If the deleted entity was selected,
// the post-reload reconciliation clears the selection.
func (e *Engine) DeleteRestaurant(ctx context.Context, id int64) error {
	if err := e.requireOwner(); err != nil {
		return err
	}

	if err := e.api.DeleteRestaurant(ctx, id); err != nil {
		return err
	}

	return e.Reload(ctx)
}

func (e *Engine) CreateCuisine(ctx context.Context, name string) (models.Cuisine, error) {
	if err := e.requireOwner(); err != nil {
		return models.Cuisine{}, err
	}

	c, err := e.api.CreateCuisine(ctx, name)
	if err != nil {
		return models.Cuisine{}, err
	}

	return c, e.reloadCuisines(ctx)
}

// DeleteCuisine surfaces a collaborator conflict (cuisine still in use)
// without touching local state.
func (e *Engine) DeleteCuisine(ctx context.Context, id int64) error {
	if err := e.requireOwner(); err != nil {
		return err
	}

	if err := e.api.DeleteCuisine(ctx, id); err != nil {
		return err
	}

	return multierr.Append(e.reloadCuisines(ctx), e.Reload(ctx))
}

func (e *Engine) CreateGroup(ctx context.Context, name string) (models.Group, error) {
	if err := e.requireOwner(); err != nil {
		return models.Group{}, err
	}

	g, err := e.api.CreateGroup(ctx, name)
	if err != nil {
		return models.Group{}, err
	}

	return g, e.reloadGroups(ctx)
}

func (e *Engine) DeleteGroup(ctx context.Context, id int64) error {
	if err := e.requireOwner(); err != nil {
		return err
	}

	if err := e.api.DeleteGroup(ctx, id); err != nil {
		return err
	}

	return multierr.Append(e.reloadGroups(ctx), e.Reload(ctx))
}

// TogglePublished flips a group's publication flag optimistically: the
// local flag changes immediately and reverts if the collaborator rejects
// the write. This is the only optimistic write in the module; entity data
// is never applied before the collaborator confirms.
func (e *Engine) TogglePublished(ctx context.Context, id int64) error {
	if err := e.requireOwner(); err != nil {
		return err
	}

	var current, found bool

	for _, g := range e.store.Groups() {
		if g.ID == id {
			current, found = g.Published, true

			break
		}
	}

	if !found {
		return fmt.Errorf("engine: unknown group %d", id)
	}

	e.store.SetGroupPublished(id, !current)

	if _, err := e.api.SetGroupPublished(ctx, id, !current); err != nil {
		e.store.SetGroupPublished(id, current)

		return err
	}

	return nil
}

// ShareGroup requests (or re-uses) the share token for a group.
func (e *Engine) ShareGroup(ctx context.Context, id int64) (string, error) {
	if err := e.requireOwner(); err != nil {
		return "", err
	}

	return e.api.ShareGroup(ctx, id)
}

// PublishedGroups lists groups available for anonymous browsing.
func (e *Engine) PublishedGroups(ctx context.Context) ([]models.Group, error) {
	return e.api.PublishedGroups(ctx)
}

// Identity returns the authenticated user. api.ErrUnauthorized means admin
// affordances stay hidden; in shared or public mode the caller ignores it.
func (e *Engine) Identity(ctx context.Context) (models.User, error) {
	return e.api.Me(ctx)
}

// Choose draws up to five random recommendations from the full collection,
// ignoring the view's query and facets: the chooser has its own constraint
// set and must see everything.
func (e *Engine) Choose(ctx context.Context, c choose.Constraints) ([]models.Restaurant, error) {
	if err := e.requireOwner(); err != nil {
		return nil, err
	}

	all, err := e.api.ListRestaurants(ctx, api.ListParams{})
	if err != nil {
		return nil, err
	}

	return e.sampler.Pick(all, c)
}

// Location returns the user position once geolocation has resolved.
func (e *Engine) Location() (geo.Point, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.location == nil {
		return geo.Point{}, false
	}

	return *e.location, true
}

func (e *Engine) fetch(ctx context.Context) ([]models.Restaurant, error) {
	e.mu.Lock()
	query := e.query
	e.mu.Unlock()

	switch e.mode {
	case ModeShared:
		return e.api.SharedRestaurants(ctx, e.shareToken)
	case ModePublic:
		return e.api.PublishedGroupRestaurants(ctx, e.groupID)
	default:
		return e.api.ListRestaurants(ctx, api.ListParams{
			Search: query.Search,
			Sort:   string(query.Sort),
		})
	}
}

// render recomputes the visible set from the current store snapshot,
// rebuilds the registry, and reconciles the selection. Callers hold mu; the
// snapshot is read here, at rebuild time, so a slow in-flight request can
// never push stale data over a newer load.
func (e *Engine) render() {
	visible := e.facets.Apply(e.store.Restaurants())
	e.registry.Rebuild(visible, e.annotate)
	e.selection.Reconcile(e.store.Has)
}

// annotate produces the display-only distance annotation. Location absence
// never affects filtering or correctness, only this string.
func (e *Engine) annotate(r *models.Restaurant) string {
	if e.location == nil {
		return ""
	}

	d := geo.Distance(*e.location, geo.Point{Lat: r.Latitude, Lng: r.Longitude})

	return geo.FormatDistance(d)
}

// renderLoadFailure maps a failed collection load onto the list surface:
// a missing shared resource reads differently from a transport failure.
// The already-rendered collection, if any, is intentionally left alone.
func (e *Engine) renderLoadFailure(err error) error {
	switch {
	case errors.Is(err, api.ErrNotFound) && e.mode == ModeShared:
		e.listView.Notice("Shared list not found.")
	case errors.Is(err, api.ErrNotFound) && e.mode == ModePublic:
		e.listView.Notice("This list is no longer published.")
	case errors.Is(err, api.ErrUnauthorized) && e.mode == ModeOwner:
		e.listView.Notice("Your session has expired. Please sign in again.")
	default:
		e.listView.Notice("Error loading data.")
	}

	e.logger.Warn("load failed", zap.Error(err))

	return err
}

func (e *Engine) reloadCuisines(ctx context.Context) error {
	cuisines, err := e.api.ListCuisines(ctx)
	if err != nil {
		return err
	}

	e.store.LoadCuisines(cuisines)

	return nil
}

func (e *Engine) reloadGroups(ctx context.Context) error {
	groups, err := e.api.ListGroups(ctx)
	if err != nil {
		return err
	}

	e.store.LoadGroups(groups)

	return nil
}

func (e *Engine) requireOwner() error {
	if e.mode != ModeOwner {
		return ErrReadOnlyMode
	}

	return nil
}

// locate resolves the user position at most once, in the background. On
// success the view re-renders so cards pick up distance annotations.
func (e *Engine) locate(ctx context.Context) {
	if e.locator == nil {
		return
	}

	e.locateOnce.Do(func() {
		go func() {
			p, err := e.locator.Locate(ctx)
			if err != nil {
				e.logger.Debug("geolocation unavailable", zap.Error(err))

				return
			}

			e.mu.Lock()
			e.location = &p
			e.render()
			e.mu.Unlock()
		}()
	})
}
