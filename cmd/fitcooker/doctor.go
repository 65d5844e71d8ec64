package fitcooker

import (
	"database/sql"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/computaria2025/FitCooker-v2-sub000/internal/service"
)

var doctorFix bool

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Run data integrity checks on published recipes",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(sqldb *sql.DB) error {
			report, err := service.RunDoctor(sqldb, doctorFix)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Recipes with step gaps: %d\n", report.StepGaps)
			fmt.Fprintf(out, "Recipes with several main media: %d\n", report.MultipleMainMedia)
			fmt.Fprintf(out, "Recipes with stale totals: %d\n", report.TotalsMismatch)
			fmt.Fprintf(out, "Recipes without category: %d\n", report.Uncategorized)
			if doctorFix {
				fmt.Fprintf(out, "Fixed step numbering: %d\n", report.FixedSteps)
				fmt.Fprintf(out, "Fixed totals: %d\n", report.FixedTotals)
				// Re-check after fixes so exit status reflects final state.
				report, err = service.RunDoctor(sqldb, false)
				if err != nil {
					return err
				}
			}
			if !report.Healthy() {
				return fmt.Errorf("doctor found integrity issues")
			}
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(doctorCmd)
	doctorCmd.Flags().BoolVar(&doctorFix, "fix", false, "Renumber steps and recompute totals")
}
