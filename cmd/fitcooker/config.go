package fitcooker

import (
	"database/sql"
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/computaria2025/FitCooker-v2-sub000/internal/service"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage fitcooker local configuration",
}

var (
	cfgSearchLimit     string
	cfgMainImagePolicy string
	cfgMaintainerEmail string
)

var configSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Set configuration values",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(sqldb *sql.DB) error {
			updates := 0
			for _, u := range []struct {
				flag, key string
				value     *string
			}{
				{"search-limit", service.ConfigSearchLimit, &cfgSearchLimit},
				{"main-image-policy", service.ConfigMainImagePolicy, &cfgMainImagePolicy},
				{"maintainer-email", service.ConfigMaintainerEmail, &cfgMaintainerEmail},
			} {
				if !cmd.Flags().Changed(u.flag) {
					continue
				}
				if err := service.SetConfig(sqldb, u.key, *u.value); err != nil {
					return err
				}
				updates++
			}
			if updates == 0 {
				return fmt.Errorf("set at least one flag")
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated %d config value(s)\n", updates)
			return nil
		})
	},
}

var configGetCmd = &cobra.Command{
	Use:   "get",
	Short: "Show current configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(sqldb *sql.DB) error {
			cfg, err := service.ListConfig(sqldb)
			if err != nil {
				return err
			}
			keys := make([]string, 0, len(cfg))
			for k := range cfg {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			fmt.Fprintln(cmd.OutOrStdout(), "KEY\tVALUE")
			for _, k := range keys {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", k, cfg[k])
			}
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configSetCmd, configGetCmd)
	configSetCmd.Flags().StringVar(&cfgSearchLimit, "search-limit", "", "Default ingredient search result count (1-100)")
	configSetCmd.Flags().StringVar(&cfgMainImagePolicy, "main-image-policy", "", "manual or promote-first")
	configSetCmd.Flags().StringVar(&cfgMaintainerEmail, "maintainer-email", "", "Where category suggestions are emailed")
}
