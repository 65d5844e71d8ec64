package fitcooker

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	dbPath   string
	envFile  string
	logLevel string
)

var rootCmd = &cobra.Command{
	Use:           "fitcooker",
	Short:         "fitcooker builds and publishes recipes with live macro totals",
	Long:          "fitcooker is a local-first recipe editor: draft recipes as YAML, check them against the publishing checklist, and publish them with computed calories and macros.",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return loadEnv(envFile)
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "Path to SQLite database (default: $FITCOOKER_DB or the user config dir)")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", "", "Load environment variables from this file (default: .env when present)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error (default: $FITCOOKER_LOG_LEVEL or warn)")
}
