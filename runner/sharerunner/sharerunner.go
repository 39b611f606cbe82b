// Package sharerunner drives the two read-only browsing modes: a shared
// list reached through its token and a published group browsed anonymously.
package sharerunner

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/foodmapper/foodmapper/api"
	"github.com/foodmapper/foodmapper/engine"
	"github.com/foodmapper/foodmapper/runner"
	"github.com/foodmapper/foodmapper/runner/terminal"
)

type shareRunner struct {
	cfg     *runner.Config
	surface *terminal.Surface
	engine  *engine.Engine
	logger  *zap.Logger
}

func New(cfg *runner.Config) (runner.Runner, error) {
	if cfg.RunMode != runner.RunModeShared && cfg.RunMode != runner.RunModePublic {
		return nil, fmt.Errorf("%w: %d", runner.ErrInvalidRunMode, cfg.RunMode)
	}

	client, err := api.New(cfg.ServerURL, api.ReadOnly())
	if err != nil {
		return nil, err
	}

	logger := runner.Logger(cfg.Debug)
	surface := terminal.New(os.Stdout)

	opts := []engine.Option{
		engine.WithLogger(logger),
		engine.WithFacets(cfg.Facets()),
	}

	if cfg.RunMode == runner.RunModeShared {
		opts = append(opts, engine.SharedMode(cfg.ShareToken))
	} else {
		opts = append(opts, engine.PublicMode(cfg.PublicGroupID))
	}

	return &shareRunner{
		cfg:     cfg,
		surface: surface,
		engine:  engine.New(client, surface, surface, opts...),
		logger:  logger,
	}, nil
}

func (r *shareRunner) Run(ctx context.Context) error {
	err := r.engine.Init(ctx)

	// The failure notice is part of the rendered output, so render either
	// way before deciding the exit status.
	if renderErr := r.surface.Render(); renderErr != nil {
		r.logger.Warn("render failed", zap.Error(renderErr))
	}

	return err
}

func (r *shareRunner) Close(context.Context) error {
	r.engine.Close()

	return r.logger.Sync()
}
