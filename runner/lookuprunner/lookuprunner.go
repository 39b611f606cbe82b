// Package lookuprunner resolves free text to address candidates, the first
// step of adding a restaurant. The provider key comes from the tracking
// server's runtime config.
package lookuprunner

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/foodmapper/foodmapper/api"
	"github.com/foodmapper/foodmapper/places"
	"github.com/foodmapper/foodmapper/runner"
)

type lookupRunner struct {
	cfg    *runner.Config
	client *api.Client
	logger *zap.Logger
}

func New(cfg *runner.Config) (runner.Runner, error) {
	if cfg.RunMode != runner.RunModeLookup {
		return nil, fmt.Errorf("%w: %d", runner.ErrInvalidRunMode, cfg.RunMode)
	}

	client, err := api.New(cfg.ServerURL, api.WithToken(cfg.Token))
	if err != nil {
		return nil, err
	}

	return &lookupRunner{
		cfg:    cfg,
		client: client,
		logger: runner.Logger(cfg.Debug),
	}, nil
}

func (r *lookupRunner) Run(ctx context.Context) error {
	rc, err := r.client.Config(ctx)
	if err != nil {
		return err
	}

	lookup, err := places.NewGoogleClient(rc.GoogleMapsAPIKey)
	if err != nil {
		return err
	}

	candidates, err := lookup.Lookup(ctx, r.cfg.LookupQuery)
	if err != nil {
		return err
	}

	if len(candidates) == 0 {
		fmt.Println("No places found.")

		return nil
	}

	for i, c := range candidates {
		fmt.Printf("%d. %s\n   %s (%.6f, %.6f)\n", i+1, c.Name, c.Address, c.Latitude, c.Longitude)
	}

	return nil
}

func (r *lookupRunner) Close(context.Context) error {
	return r.logger.Sync()
}
