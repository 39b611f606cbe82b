package listrunner

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/foodmapper/foodmapper/api"
	"github.com/foodmapper/foodmapper/engine"
	"github.com/foodmapper/foodmapper/filter"
	"github.com/foodmapper/foodmapper/runner"
	"github.com/foodmapper/foodmapper/runner/terminal"
)

type listRunner struct {
	cfg     *runner.Config
	surface *terminal.Surface
	engine  *engine.Engine
	logger  *zap.Logger
}

func New(cfg *runner.Config) (runner.Runner, error) {
	if cfg.RunMode != runner.RunModeList {
		return nil, fmt.Errorf("%w: %d", runner.ErrInvalidRunMode, cfg.RunMode)
	}

	client, err := api.New(cfg.ServerURL, api.WithToken(cfg.Token))
	if err != nil {
		return nil, err
	}

	logger := runner.Logger(cfg.Debug)
	surface := terminal.New(os.Stdout)

	opts := []engine.Option{
		engine.WithLogger(logger),
		engine.WithQuery(filter.Query{Search: cfg.Search, Sort: filter.Sort(cfg.Sort)}),
		engine.WithFacets(cfg.Facets()),
	}

	if cfg.Location != "" {
		point, err := runner.ParseLocation(cfg.Location)
		if err != nil {
			return nil, err
		}

		opts = append(opts, engine.WithLocation(point))
	}

	return &listRunner{
		cfg:     cfg,
		surface: surface,
		engine:  engine.New(client, surface, surface, opts...),
		logger:  logger,
	}, nil
}

func (r *listRunner) Run(ctx context.Context) error {
	if err := r.engine.Init(ctx); err != nil {
		if renderErr := r.surface.Render(); renderErr != nil {
			r.logger.Warn("render failed", zap.Error(renderErr))
		}

		return err
	}

	return r.surface.Render()
}

func (r *listRunner) Close(context.Context) error {
	r.engine.Close()

	return r.logger.Sync()
}
