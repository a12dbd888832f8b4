package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/multiyield-labs/multiyield-engine/internal/config"
	"github.com/multiyield-labs/multiyield-engine/internal/db"
	"github.com/multiyield-labs/multiyield-engine/internal/ledger"
	"github.com/multiyield-labs/multiyield-engine/internal/oracle"
	"github.com/multiyield-labs/multiyield-engine/internal/queue"
	"github.com/multiyield-labs/multiyield-engine/internal/services"
	"github.com/multiyield-labs/multiyield-engine/internal/types"
)

// app wires the service for a single command invocation
type app struct {
	cfg       *config.Config
	store     db.DbInterface
	memory    *db.Memory
	mongo     *db.Database
	ledger    *ledger.Memory
	publisher queue.EventPublisher
	service   *services.Service
}

func newApp(ctx context.Context) (*app, error) {
	cfg, err := config.New(GetConfigPath())
	if err != nil {
		return nil, fmt.Errorf("error while loading config file %s: %w", GetConfigPath(), err)
	}

	a := &app{cfg: cfg}

	switch cfg.Db.Backend {
	case config.BackendMemory:
		if cfg.Db.StateFile == "" {
			a.memory = db.NewMemory()
		} else if a.memory, err = db.LoadMemory(cfg.Db.StateFile); err != nil {
			return nil, err
		}
		a.store = a.memory
	default:
		if a.mongo, err = db.New(ctx, cfg.Db); err != nil {
			return nil, fmt.Errorf("error while creating db client: %w", err)
		}
		a.store = a.mongo
	}

	if a.ledger, err = ledger.LoadMemory(cfg.Ledger.StateFile); err != nil {
		return nil, err
	}

	if a.publisher, err = queue.New(cfg.Queue); err != nil {
		return nil, fmt.Errorf("error while creating queue manager: %w", err)
	}

	a.service, err = services.NewService(
		cfg,
		db.NewDbWithMetrics(a.store),
		oracle.New(&cfg.Oracle),
		ledger.NewWithMetrics(a.ledger),
		a.publisher,
	)
	if err != nil {
		return nil, fmt.Errorf("error while creating service: %w", err)
	}

	return a, nil
}

// close persists local state and releases connections
func (a *app) close(ctx context.Context) error {
	var errs []error

	a.publisher.Shutdown()

	if err := a.ledger.Save(a.cfg.Ledger.StateFile); err != nil {
		errs = append(errs, err)
	}

	if a.memory != nil && a.cfg.Db.StateFile != "" {
		if err := a.memory.Save(a.cfg.Db.StateFile); err != nil {
			errs = append(errs, err)
		}
	}

	if a.mongo != nil {
		if err := a.mongo.Disconnect(ctx); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

// runWithApp builds the app, runs f and always persists state afterwards
func runWithApp(f func(ctx context.Context, a *app, cmd *cobra.Command) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		a, err := newApp(ctx)
		if err != nil {
			return err
		}

		runErr := f(ctx, a, cmd)
		if closeErr := a.close(ctx); closeErr != nil {
			log.Ctx(ctx).Error().Err(closeErr).Msg("failed to persist state")
			if runErr == nil {
				runErr = closeErr
			}
		}
		return runErr
	}
}

// check converts a typed service error into a plain error without the typed nil trap
func check(err *types.Error) error {
	if err == nil {
		return nil
	}
	return err
}

func addressFlag(cmd *cobra.Command, name string) (types.Address, error) {
	value, err := cmd.Flags().GetString(name)
	if err != nil {
		return types.ZeroAddress, err
	}
	addr, err := types.ParseAddress(value)
	if err != nil {
		return types.ZeroAddress, fmt.Errorf("--%s: %w", name, err)
	}
	return addr, nil
}

func printResult(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
