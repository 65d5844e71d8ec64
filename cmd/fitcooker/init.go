package fitcooker

import (
	"database/sql"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/computaria2025/FitCooker-v2-sub000/internal/db"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize the local fitcooker database",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(sqldb *sql.DB) error {
			path, err := resolveDBPath()
			if err != nil {
				return err
			}
			version, err := db.SchemaVersion(sqldb)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Initialized fitcooker database at %s (schema v%d)\n", path, version)
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
