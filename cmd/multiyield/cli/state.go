package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/davecgh/go-spew/spew"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/multiyield-labs/multiyield-engine/internal/observability/metrics"
	"github.com/multiyield-labs/multiyield-engine/internal/types"
)

// DumpStateCmd prints every record the engine keeps, optionally for a single principal.
func DumpStateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dump-state",
		Short: "Print protocol records",
		RunE: runWithApp(func(ctx context.Context, a *app, cmd *cobra.Command) error {
			gs, err := a.service.GetGlobalState(ctx)
			if err != nil {
				return err
			}
			gov, err := a.service.GetGovernance(ctx)
			if err != nil {
				return err
			}
			spew.Dump(gs, gov)

			principal, _ := cmd.Flags().GetString("principal")
			if principal == "" {
				return nil
			}
			owner, parseErr := types.ParseAddress(principal)
			if parseErr != nil {
				return parseErr
			}

			volume, err := a.service.GetTraderVolume(ctx, owner)
			if err != nil {
				return err
			}
			position, err := a.service.GetStakePosition(ctx, owner)
			if err != nil {
				return err
			}
			nft, err := a.service.GetNFTStake(ctx, owner)
			if err != nil {
				return err
			}
			lp, err := a.service.GetLPStake(ctx, owner)
			if err != nil {
				return err
			}
			spew.Dump(volume, position, nft, lp)
			return nil
		}),
	}
	cmd.Flags().String("principal", "", "also print the records owned by this principal")
	return cmd
}

// ServeMetricsCmd exposes the prometheus endpoint until interrupted.
func ServeMetricsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve-metrics",
		Short: "Serve prometheus metrics and export protocol state periodically",
		RunE: runWithApp(func(ctx context.Context, a *app, _ *cobra.Command) error {
			if err := a.service.Ping(ctx); err != nil {
				return err
			}

			metrics.Init(a.cfg.Metrics.GetMetricsPort())

			ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
			defer stop()

			statsPoller := a.service.StartStatsPoller(ctx)
			defer statsPoller.Stop()

			<-ctx.Done()
			log.Info().Msg("metrics server stopping")
			return nil
		}),
	}
}
