package fitcooker

import (
	"database/sql"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/computaria2025/FitCooker-v2-sub000/internal/notify"
	"github.com/computaria2025/FitCooker-v2-sub000/internal/publish"
	"github.com/computaria2025/FitCooker-v2-sub000/internal/service"
)

var categoryCmd = &cobra.Command{
	Use:   "category",
	Short: "Manage recipe categories",
}

var categoryAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Add a custom category",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(sqldb *sql.DB) error {
			if err := service.AddCategory(sqldb, args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added category %q\n", args[0])
			return nil
		})
	},
}

var categoryListCmd = &cobra.Command{
	Use:   "list",
	Short: "List categories",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(sqldb *sql.DB) error {
			categories, err := service.ListCategories(sqldb)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "ID\tNAME\tDEFAULT")
			for _, c := range categories {
				fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s\t%t\n", c.ID, c.Name, c.IsDefault)
			}
			return nil
		})
	},
}

var categoryDeleteCmd = &cobra.Command{
	Use:   "delete <name>",
	Short: "Delete an unused custom category",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(sqldb *sql.DB) error {
			if err := service.DeleteCategory(sqldb, args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted category %q\n", args[0])
			return nil
		})
	},
}

var suggestToken string

var categorySuggestCmd = &cobra.Command{
	Use:   "suggest <name>",
	Short: "Suggest a new category to the maintainers",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		identity, err := resolveIdentity(suggestToken)
		if err != nil {
			return err
		}
		return withDB(func(sqldb *sql.DB) error {
			suggesters, err := categorySuggesters(sqldb)
			if err != nil {
				return err
			}
			s := &publish.Session{
				Auth:      identity,
				Notify:    publish.WriterSink{Out: cmd.OutOrStdout(), Err: cmd.ErrOrStderr()},
				Suggester: suggesters,
				Logger:    newLogger(cmd.ErrOrStderr()),
			}
			s.SuggestCategory(cmd.Context(), args[0])
			return nil
		})
	},
}

var categorySuggestionsCmd = &cobra.Command{
	Use:   "suggestions",
	Short: "List pending category suggestions",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(sqldb *sql.DB) error {
			items, err := service.ListSuggestions(sqldb)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "ID\tNAME\tSUGGESTED_BY\tCREATED")
			for _, it := range items {
				fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s\t%s\t%s\n", it.ID, it.Name, it.SuggestedBy, it.CreatedAt.Format("2006-01-02"))
			}
			return nil
		})
	},
}

var categoryApproveCmd = &cobra.Command{
	Use:   "approve <suggestion-id>",
	Short: "Turn a suggestion into a category",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseInt64Arg("suggestion id", args[0])
		if err != nil {
			return err
		}
		return withDB(func(sqldb *sql.DB) error {
			name, err := service.ApproveSuggestion(sqldb, id)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Approved category %q\n", name)
			return nil
		})
	},
}

// categorySuggesters always records suggestions locally and also emails the
// maintainer when SMTP and maintainer_email are configured.
func categorySuggesters(sqldb *sql.DB) (publish.Suggesters, error) {
	out := publish.Suggesters{service.SuggestionStore{DB: sqldb}}
	cfg, ok, err := notify.LoadMailConfig()
	if err != nil {
		return nil, err
	}
	if !ok {
		return out, nil
	}
	to, found, err := service.GetConfig(sqldb, service.ConfigMaintainerEmail)
	if err != nil {
		return nil, err
	}
	if found && to != "" {
		out = append(out, notify.NewMailer(cfg, to))
	}
	return out, nil
}

func init() {
	rootCmd.AddCommand(categoryCmd)
	categoryCmd.AddCommand(categoryAddCmd, categoryListCmd, categoryDeleteCmd, categorySuggestCmd, categorySuggestionsCmd, categoryApproveCmd)
	categorySuggestCmd.Flags().StringVar(&suggestToken, "token", "", "Author token (default: $FITCOOKER_TOKEN)")
}
