package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

const (
	defaultConfigFileName = "config.yml"
)

var (
	cfgPath string
	rootCmd = &cobra.Command{
		Use:           "multiyield",
		Short:         "Reward and staking engine of the multiYIELD token",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
)

func Setup(ctx context.Context) error {
	homePath, err := os.UserHomeDir()
	if err != nil {
		return err
	}

	defaultConfigPath := getDefaultConfigFile(homePath, defaultConfigFileName)

	rootCmd.AddCommand(InitCmd())
	rootCmd.AddCommand(RewardTradeCmd())
	rootCmd.AddCommand(StakeCmd())
	rootCmd.AddCommand(ClaimCmd())
	rootCmd.AddCommand(StakeNFTCmd())
	rootCmd.AddCommand(StakeLPCmd())
	rootCmd.AddCommand(ClaimLPCmd())
	rootCmd.AddCommand(UpdateParamsCmd())
	rootCmd.AddCommand(ApproveGovernanceCmd())
	rootCmd.AddCommand(ContributeInsuranceCmd())
	rootCmd.AddCommand(LedgerCmd())
	rootCmd.AddCommand(DumpStateCmd())
	rootCmd.AddCommand(ServeMetricsCmd())
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", defaultConfigPath, fmt.Sprintf("config file (default %s)", defaultConfigPath))

	return rootCmd.ExecuteContext(ctx)
}

func getDefaultConfigFile(homePath, filename string) string {
	return filepath.Join(homePath, filename)
}

func GetConfigPath() string {
	return cfgPath
}
