package fitcooker

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/computaria2025/FitCooker-v2-sub000/internal/auth"
	"github.com/computaria2025/FitCooker-v2-sub000/internal/draftfile"
	"github.com/computaria2025/FitCooker-v2-sub000/internal/publish"
	"github.com/computaria2025/FitCooker-v2-sub000/internal/service"
)

var recipeCmd = &cobra.Command{
	Use:   "recipe",
	Short: "Publish and browse recipes",
}

var (
	publishToken    string
	publishKeepFile bool
)

var recipePublishCmd = &cobra.Command{
	Use:   "publish <file>",
	Short: "Publish a draft file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		return withDB(func(sqldb *sql.DB) error {
			log := newLogger(cmd.ErrOrStderr())
			d, notes, err := loadDraft(sqldb, path, log)
			if err != nil {
				return err
			}
			printNotes(cmd, notes)
			// A bad token counts as signed out so the session still reports
			// an incomplete draft before asking for sign in.
			identity, tokenErr := resolveIdentity(publishToken)
			if tokenErr != nil {
				log.Warn("author token rejected", "err", tokenErr)
				identity = auth.Identity{}
			}
			s := &publish.Session{
				Draft:  d,
				Auth:   identity,
				Notify: publish.WriterSink{Out: cmd.OutOrStdout(), Err: cmd.ErrOrStderr()},
				Store:  service.RecipeStore{DB: sqldb},
				Logger: log,
			}
			res := s.Submit(cmd.Context())
			switch res.Outcome {
			case publish.Submitted:
				fmt.Fprintf(cmd.OutOrStdout(), "Recipe id: %s\n", res.RecipeID)
				if publishKeepFile {
					return nil
				}
				// The session reset the draft; mirror that in the file.
				return draftfile.Save(path, draftfile.FromSnapshot(d.Snapshot()))
			case publish.Blocked:
				return fmt.Errorf("missing: %s", strings.Join(res.Missing, ", "))
			case publish.AuthRequired:
				if tokenErr != nil {
					return fmt.Errorf("sign in required: %w", tokenErr)
				}
				return errors.New("sign in required: set --token or FITCOOKER_TOKEN")
			case publish.SubmitFailed:
				return res.Err
			default:
				return fmt.Errorf("publish %s", res.Outcome)
			}
		})
	},
}

var (
	recipeAuthor string
	recipeJSON   bool
)

var recipeListCmd = &cobra.Command{
	Use:   "list",
	Short: "List published recipes",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(sqldb *sql.DB) error {
			items, err := service.ListRecipes(sqldb, recipeAuthor)
			if err != nil {
				return err
			}
			if recipeJSON {
				return writeJSON(cmd, items)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "ID\tTITLE\tAUTHOR\tSERVINGS\tMINUTES\tKCAL\tPROTEIN\tCARBS\tFAT")
			for _, r := range items {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\t%d\t%d\t%.1f\t%.1f\t%.1f\t%.1f\n",
					r.ID, r.Title, r.AuthorID, r.Servings, r.PreparationTimeMinutes, r.Calories, r.Protein, r.Carbs, r.Fat)
			}
			return nil
		})
	},
}

var recipeShowCmd = &cobra.Command{
	Use:   "show <id|title>",
	Short: "Show a published recipe",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(sqldb *sql.DB) error {
			detail, err := service.GetRecipeDetail(sqldb, args[0])
			if err != nil {
				return err
			}
			if recipeJSON {
				return writeJSON(cmd, detail)
			}
			out := cmd.OutOrStdout()
			r := detail.Recipe
			fmt.Fprintf(out, "%s (%s)\n", r.Title, r.ID)
			if r.Description != "" {
				fmt.Fprintln(out, r.Description)
			}
			fmt.Fprintf(out, "Autor: %s | Preparo: %d min | Porções: %d | Dificuldade: %s\n", r.AuthorID, r.PreparationTimeMinutes, r.Servings, r.Difficulty)
			fmt.Fprintf(out, "Categorias: %s\n", strings.Join(detail.Categories, ", "))
			fmt.Fprintf(out, "Total: %.1f kcal | P %.1f g | C %.1f g | G %.1f g\n", r.Calories, r.Protein, r.Carbs, r.Fat)
			fmt.Fprintln(out, "Ingredientes:")
			for _, it := range detail.Ingredients {
				fmt.Fprintf(out, "  - %g %s %s\n", it.Quantity, it.Unit, it.Name)
			}
			fmt.Fprintln(out, "Modo de preparo:")
			for _, st := range detail.Steps {
				fmt.Fprintf(out, "  %d. %s\n", st.StepOrder, st.Description)
			}
			for _, m := range detail.Media {
				main := ""
				if m.IsMain {
					main = " (principal)"
				}
				fmt.Fprintf(out, "Mídia: %s %s%s\n", m.Kind, m.Source, main)
			}
			return nil
		})
	},
}

var recipeDeleteCmd = &cobra.Command{
	Use:   "delete <id|title>",
	Short: "Delete a published recipe",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(sqldb *sql.DB) error {
			if err := service.DeleteRecipe(sqldb, args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted recipe %s\n", args[0])
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(recipeCmd)
	recipeCmd.AddCommand(recipePublishCmd, recipeListCmd, recipeShowCmd, recipeDeleteCmd)

	recipePublishCmd.Flags().StringVar(&publishToken, "token", "", "Author token (default: $FITCOOKER_TOKEN)")
	recipePublishCmd.Flags().BoolVar(&publishKeepFile, "keep-file", false, "Leave the draft file untouched after publishing")
	recipeListCmd.Flags().StringVar(&recipeAuthor, "author", "", "Only recipes by this author")
	recipeListCmd.Flags().BoolVar(&recipeJSON, "json", false, "Output JSON")
	recipeShowCmd.Flags().BoolVar(&recipeJSON, "json", false, "Output JSON")
}
