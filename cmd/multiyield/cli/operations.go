package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/multiyield-labs/multiyield-engine/internal/config"
	"github.com/multiyield-labs/multiyield-engine/internal/db/model"
	"github.com/multiyield-labs/multiyield-engine/internal/services"
)

func InitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create the collections, global state and governance records",
		RunE: runWithApp(func(ctx context.Context, a *app, cmd *cobra.Command) error {
			mint, err := addressFlag(cmd, "mint")
			if err != nil {
				return err
			}
			authority, err := addressFlag(cmd, "governance-authority")
			if err != nil {
				return err
			}
			bump, _ := cmd.Flags().GetUint8("bump")

			if a.cfg.Db.Backend == config.BackendMongo {
				if err := model.Setup(ctx, &a.cfg.Db); err != nil {
					return fmt.Errorf("error while setting up collections: %w", err)
				}
			}

			gs, svcErr := a.service.Initialize(ctx, services.InitializeRequest{
				Mint:                mint,
				Bump:                bump,
				GovernanceAuthority: authority,
			})
			if err := check(svcErr); err != nil {
				return err
			}
			return printResult(gs)
		}),
	}
	cmd.Flags().String("mint", "", "reward token mint")
	cmd.Flags().Uint8("bump", 0, "bump of the protocol mint authority")
	cmd.Flags().String("governance-authority", "", "principal allowed to toggle governance approval")
	return cmd
}

func RewardTradeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reward-trade",
		Short: "Validate a trade and mint its volume reward",
		RunE: runWithApp(func(ctx context.Context, a *app, cmd *cobra.Command) error {
			trader, err := addressFlag(cmd, "trader")
			if err != nil {
				return err
			}
			account, err := addressFlag(cmd, "account")
			if err != nil {
				return err
			}
			amount, _ := cmd.Flags().GetUint64("amount")
			price, _ := cmd.Flags().GetUint64("price")
			uniqueTraders, _ := cmd.Flags().GetUint64("unique-traders")

			reward, svcErr := a.service.RewardTrade(ctx, services.RewardTradeRequest{
				Trader:            trader,
				TraderAccount:     account,
				TradeAmount:       amount,
				TradePrice:        price,
				UniqueTraderCount: uniqueTraders,
			})
			if err := check(svcErr); err != nil {
				return err
			}
			return printResult(reward)
		}),
	}
	cmd.Flags().String("trader", "", "trader principal")
	cmd.Flags().String("account", "", "trader token account receiving the reward")
	cmd.Flags().Uint64("amount", 0, "trade amount in base units")
	cmd.Flags().Uint64("price", 0, "trade price in oracle units")
	cmd.Flags().Uint64("unique-traders", 0, "unique trader count reported for the pool")
	return cmd
}

func StakeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stake",
		Short: "Stake reward tokens into the staking pool",
		RunE: runWithApp(func(ctx context.Context, a *app, cmd *cobra.Command) error {
			staker, err := addressFlag(cmd, "staker")
			if err != nil {
				return err
			}
			account, err := addressFlag(cmd, "account")
			if err != nil {
				return err
			}
			amount, _ := cmd.Flags().GetUint64("amount")
			autoCompound, _ := cmd.Flags().GetBool("auto-compound")

			pos, svcErr := a.service.StakeTokens(ctx, services.StakeTokensRequest{
				Staker:        staker,
				StakerAccount: account,
				Amount:        amount,
				AutoCompound:  autoCompound,
			})
			if err := check(svcErr); err != nil {
				return err
			}
			return printResult(pos)
		}),
	}
	cmd.Flags().String("staker", "", "staker principal")
	cmd.Flags().String("account", "", "staker token account the stake is taken from")
	cmd.Flags().Uint64("amount", 0, "amount to stake")
	cmd.Flags().Bool("auto-compound", false, "add future rewards to the stake")
	return cmd
}

func ClaimCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "claim",
		Short: "Claim staking rewards",
		RunE: runWithApp(func(ctx context.Context, a *app, cmd *cobra.Command) error {
			staker, err := addressFlag(cmd, "staker")
			if err != nil {
				return err
			}
			account, err := addressFlag(cmd, "account")
			if err != nil {
				return err
			}

			res, svcErr := a.service.ClaimStakeRewards(ctx, services.ClaimStakeRewardsRequest{
				Staker:        staker,
				RewardAccount: account,
			})
			if err := check(svcErr); err != nil {
				return err
			}
			return printResult(res)
		}),
	}
	cmd.Flags().String("staker", "", "staker principal")
	cmd.Flags().String("account", "", "token account receiving the reward")
	return cmd
}

func StakeNFTCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stake-nft",
		Short: "Register an NFT boost for a staker",
		RunE: runWithApp(func(ctx context.Context, a *app, cmd *cobra.Command) error {
			owner, err := addressFlag(cmd, "owner")
			if err != nil {
				return err
			}
			nft, err := addressFlag(cmd, "nft")
			if err != nil {
				return err
			}

			rec, svcErr := a.service.StakeNFT(ctx, services.StakeNFTRequest{
				Owner:   owner,
				NFTMint: nft,
			})
			if err := check(svcErr); err != nil {
				return err
			}
			return printResult(rec)
		}),
	}
	cmd.Flags().String("owner", "", "staker principal")
	cmd.Flags().String("nft", "", "mint of the staked NFT")
	return cmd
}

func StakeLPCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stake-lp",
		Short: "Stake LP tokens into the LP staking pool",
		RunE: runWithApp(func(ctx context.Context, a *app, cmd *cobra.Command) error {
			staker, err := addressFlag(cmd, "staker")
			if err != nil {
				return err
			}
			account, err := addressFlag(cmd, "account")
			if err != nil {
				return err
			}
			amount, _ := cmd.Flags().GetUint64("amount")

			rec, svcErr := a.service.StakeLPTokens(ctx, services.StakeLPTokensRequest{
				Staker:    staker,
				LPAccount: account,
				Amount:    amount,
			})
			if err := check(svcErr); err != nil {
				return err
			}
			return printResult(rec)
		}),
	}
	cmd.Flags().String("staker", "", "staker principal")
	cmd.Flags().String("account", "", "LP token account the stake is taken from")
	cmd.Flags().Uint64("amount", 0, "amount of LP tokens to stake")
	return cmd
}

func ClaimLPCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "claim-lp",
		Short: "Claim LP staking rewards",
		RunE: runWithApp(func(ctx context.Context, a *app, cmd *cobra.Command) error {
			staker, err := addressFlag(cmd, "staker")
			if err != nil {
				return err
			}
			account, err := addressFlag(cmd, "account")
			if err != nil {
				return err
			}

			reward, svcErr := a.service.ClaimLPRewards(ctx, services.ClaimLPRewardsRequest{
				Staker:        staker,
				RewardAccount: account,
			})
			if err := check(svcErr); err != nil {
				return err
			}
			return printResult(map[string]uint64{"reward": reward})
		}),
	}
	cmd.Flags().String("staker", "", "staker principal")
	cmd.Flags().String("account", "", "token account receiving the reward")
	return cmd
}

func UpdateParamsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update-params",
		Short: "Update the governed reward parameters",
		RunE: runWithApp(func(ctx context.Context, a *app, cmd *cobra.Command) error {
			caller, err := addressFlag(cmd, "caller")
			if err != nil {
				return err
			}
			base, _ := cmd.Flags().GetUint8("base-reward-pct")
			lp, _ := cmd.Flags().GetUint8("lp-boost-pct")

			gov, svcErr := a.service.UpdateRewardParameters(ctx, services.UpdateRewardParametersRequest{
				Caller:        caller,
				BaseRewardPct: base,
				LPBoostPct:    lp,
			})
			if err := check(svcErr); err != nil {
				return err
			}
			return printResult(gov)
		}),
	}
	cmd.Flags().String("caller", "", "principal submitting the update")
	cmd.Flags().Uint8("base-reward-pct", 0, "new base reward percentage")
	cmd.Flags().Uint8("lp-boost-pct", 0, "new LP boost percentage")
	return cmd
}

func ApproveGovernanceCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "approve-governance",
		Short: "Set the governance approval flag",
		RunE: runWithApp(func(ctx context.Context, a *app, cmd *cobra.Command) error {
			caller, err := addressFlag(cmd, "caller")
			if err != nil {
				return err
			}
			approved, _ := cmd.Flags().GetBool("approved")
			votes, _ := cmd.Flags().GetUint64("votes")

			gov, svcErr := a.service.SetGovernanceApproval(ctx, services.SetGovernanceApprovalRequest{
				Caller:     caller,
				Approved:   approved,
				TotalVotes: votes,
			})
			if err := check(svcErr); err != nil {
				return err
			}
			return printResult(gov)
		}),
	}
	cmd.Flags().String("caller", "", "governance authority")
	cmd.Flags().Bool("approved", true, "approval flag value")
	cmd.Flags().Uint64("votes", 0, "vote tally backing the decision")
	return cmd
}

func ContributeInsuranceCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "contribute-insurance",
		Short: "Transfer tokens into the insurance pool",
		RunE: runWithApp(func(ctx context.Context, a *app, cmd *cobra.Command) error {
			contributor, err := addressFlag(cmd, "contributor")
			if err != nil {
				return err
			}
			account, err := addressFlag(cmd, "account")
			if err != nil {
				return err
			}
			amount, _ := cmd.Flags().GetUint64("amount")

			return check(a.service.ContributeInsurance(ctx, services.ContributeInsuranceRequest{
				Contributor:        contributor,
				ContributorAccount: account,
				Amount:             amount,
			}))
		}),
	}
	cmd.Flags().String("contributor", "", "contributing principal")
	cmd.Flags().String("account", "", "token account the contribution is taken from")
	cmd.Flags().Uint64("amount", 0, "amount to contribute")
	return cmd
}
