package root

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/prk7048/LOA-AGENT/internal/ui"
)

const Version = "0.1.0"

var (
	envFile  string
	logLevel string
)

var rootCmd = &cobra.Command{
	Use:           "loa",
	Short:         "LOA agent: Lost Ark homework tracker",
	Long:          "Tracks daily, weekly and expedition homework for a Lost Ark roster, recommends raids from live character stats and resets boxes on the game's schedule.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	rootCmd.Version = Version
	rootCmd.SetVersionTemplate("{{.Name}} v{{.Version}}\n")

	rootCmd.PersistentFlags().StringVar(&envFile, "env", ".env", "Dotenv file to load before the environment")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (debug|info|warn|error), overrides LOA_LOG_LEVEL")

	rootCmd.AddCommand(
		newDBCmd(),
		newSyncCmd(),
		newResetCmd(),
		newListCmd(),
		newDoCmd(),
		newProgressCmd(),
		newRecommendCmd(),
		newExpeditionCmd(),
		newCharCmd(),
		newSettingCmd(),
		newStatusCmd(),
		newBoardCmd(),
		newServeCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, ui.Bad.Render(ui.IconError+" "+err.Error()))
		os.Exit(1)
	}
}
