package chooserunner

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/foodmapper/foodmapper/api"
	"github.com/foodmapper/foodmapper/choose"
	"github.com/foodmapper/foodmapper/engine"
	"github.com/foodmapper/foodmapper/models"
	"github.com/foodmapper/foodmapper/runner"
	"github.com/foodmapper/foodmapper/runner/terminal"
)

type chooseRunner struct {
	cfg    *runner.Config
	engine *engine.Engine
	logger *zap.Logger
}

func New(cfg *runner.Config) (runner.Runner, error) {
	if cfg.RunMode != runner.RunModeChoose {
		return nil, fmt.Errorf("%w: %d", runner.ErrInvalidRunMode, cfg.RunMode)
	}

	client, err := api.New(cfg.ServerURL, api.WithToken(cfg.Token))
	if err != nil {
		return nil, err
	}

	logger := runner.Logger(cfg.Debug)
	surface := terminal.New(os.Stdout)

	return &chooseRunner{
		cfg:    cfg,
		engine: engine.New(client, surface, surface, engine.WithLogger(logger)),
		logger: logger,
	}, nil
}

func (r *chooseRunner) Run(ctx context.Context) error {
	picks, err := r.engine.Choose(ctx, choose.Constraints{
		CuisineIDs: r.cfg.ChooseCuisines,
		Statuses:   r.cfg.ChooseStatuses,
		PriceTier:  models.PriceTier(r.cfg.ChoosePrice),
		MinRating:  r.cfg.ChooseMinRating,
	})
	if err != nil {
		return err
	}

	if len(picks) == 0 {
		fmt.Println("No restaurants match your criteria.")

		return nil
	}

	for i, p := range picks {
		line := fmt.Sprintf("%d. %s", i+1, p.Name)

		if p.Rating != nil {
			line += fmt.Sprintf(" (%d/5)", *p.Rating)
		}

		if p.PriceTier != "" {
			line += " " + string(p.PriceTier)
		}

		if cuisines := p.CuisineNames(); cuisines != "" {
			line += " [" + cuisines + "]"
		}

		fmt.Println(line)
	}

	return nil
}

func (r *chooseRunner) Close(context.Context) error {
	r.engine.Close()

	return r.logger.Sync()
}
