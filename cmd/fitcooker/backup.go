package fitcooker

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/computaria2025/FitCooker-v2-sub000/internal/service"
)

var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Back up or restore the recipe database",
}

var (
	backupOut    string
	restoreFile  string
	restoreForce bool
)

var backupCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Copy the database with a checksum file",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := resolveDBPath()
		if err != nil {
			return err
		}
		out := backupOut
		if out == "" {
			out = filepath.Join(filepath.Dir(db), "backups", fmt.Sprintf("fitcooker-%s.db", time.Now().Format("20060102-150405")))
		}
		info, err := service.CreateBackup(db, out)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Created backup: %s\n", info.Path)
		fmt.Fprintf(cmd.OutOrStdout(), "Checksum: %s\n", info.Checksum)
		return nil
	},
}

var backupRestoreCmd = &cobra.Command{
	Use:   "restore",
	Short: "Restore the database from a backup",
	RunE: func(cmd *cobra.Command, args []string) error {
		if restoreFile == "" {
			return fmt.Errorf("--file is required")
		}
		db, err := resolveDBPath()
		if err != nil {
			return err
		}
		if err := service.RestoreBackup(restoreFile, db, restoreForce); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Restored backup from %s\n", restoreFile)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(backupCmd)
	backupCmd.AddCommand(backupCreateCmd, backupRestoreCmd)
	backupCreateCmd.Flags().StringVar(&backupOut, "out", "", "Backup file (default: backups/ next to the database)")
	backupRestoreCmd.Flags().StringVar(&restoreFile, "file", "", "Backup .db file path")
	backupRestoreCmd.Flags().BoolVar(&restoreForce, "force", false, "Overwrite the existing database")
}
