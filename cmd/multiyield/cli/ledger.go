package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/multiyield-labs/multiyield-engine/internal/config"
	"github.com/multiyield-labs/multiyield-engine/internal/ledger"
)

// LedgerCmd manages the local token ledger file. It does not touch the record store.
func LedgerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ledger",
		Short: "Manage mints and accounts of the local token ledger",
	}
	cmd.AddCommand(registerMintCmd(), openAccountCmd(), mintCmd(), balanceCmd())
	return cmd
}

func withLedger(f func(ctx context.Context, l *ledger.Memory, cmd *cobra.Command) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		cfg, err := config.New(GetConfigPath())
		if err != nil {
			return fmt.Errorf("error while loading config file %s: %w", GetConfigPath(), err)
		}

		l, err := ledger.LoadMemory(cfg.Ledger.StateFile)
		if err != nil {
			return err
		}
		if err := f(cmd.Context(), l, cmd); err != nil {
			return err
		}
		return l.Save(cfg.Ledger.StateFile)
	}
}

func authorityFlags(cmd *cobra.Command) {
	cmd.Flags().String("seed", ledger.MintAuthoritySeed, "derivation seed of the mint authority")
	cmd.Flags().Uint8("bump", 0, "derivation bump of the mint authority")
}

func authorityFromFlags(cmd *cobra.Command) ledger.Authority {
	seed, _ := cmd.Flags().GetString("seed")
	bump, _ := cmd.Flags().GetUint8("bump")
	return ledger.Authority{Seed: seed, Bump: bump}
}

func registerMintCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "register-mint",
		Short: "Create a mint controlled by a derived authority",
		RunE: withLedger(func(_ context.Context, l *ledger.Memory, cmd *cobra.Command) error {
			mint, err := addressFlag(cmd, "mint")
			if err != nil {
				return err
			}
			authority := authorityFromFlags(cmd)
			if err := l.RegisterMint(mint, authority.Address()); err != nil {
				return err
			}
			return printResult(map[string]string{
				"mint":      mint.String(),
				"authority": authority.Address().String(),
			})
		}),
	}
	cmd.Flags().String("mint", "", "mint address")
	authorityFlags(cmd)
	return cmd
}

func openAccountCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "open-account",
		Short: "Open an empty token account",
		RunE: withLedger(func(_ context.Context, l *ledger.Memory, cmd *cobra.Command) error {
			address, err := addressFlag(cmd, "address")
			if err != nil {
				return err
			}
			mint, err := addressFlag(cmd, "mint")
			if err != nil {
				return err
			}
			owner, err := addressFlag(cmd, "owner")
			if err != nil {
				return err
			}
			return l.OpenAccount(address, mint, owner)
		}),
	}
	cmd.Flags().String("address", "", "account address")
	cmd.Flags().String("mint", "", "mint of the account")
	cmd.Flags().String("owner", "", "owner principal")
	return cmd
}

func mintCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mint",
		Short: "Mint tokens into an account",
		RunE: withLedger(func(ctx context.Context, l *ledger.Memory, cmd *cobra.Command) error {
			mint, err := addressFlag(cmd, "mint")
			if err != nil {
				return err
			}
			to, err := addressFlag(cmd, "to")
			if err != nil {
				return err
			}
			amount, _ := cmd.Flags().GetUint64("amount")
			return l.Mint(ctx, mint, to, amount, authorityFromFlags(cmd))
		}),
	}
	cmd.Flags().String("mint", "", "mint address")
	cmd.Flags().String("to", "", "destination account")
	cmd.Flags().Uint64("amount", 0, "amount to mint")
	authorityFlags(cmd)
	return cmd
}

func balanceCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "balance",
		Short: "Show a token account",
		RunE: withLedger(func(_ context.Context, l *ledger.Memory, cmd *cobra.Command) error {
			address, err := addressFlag(cmd, "address")
			if err != nil {
				return err
			}
			acc, err := l.Account(address)
			if err != nil {
				return err
			}
			return printResult(acc)
		}),
	}
	cmd.Flags().String("address", "", "account address")
	return cmd
}
