package fitcooker

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/computaria2025/FitCooker-v2-sub000/internal/model"
	"github.com/computaria2025/FitCooker-v2-sub000/internal/nutrition"
	"github.com/computaria2025/FitCooker-v2-sub000/internal/provider/usda"
	"github.com/computaria2025/FitCooker-v2-sub000/internal/service"
)

var ingredientCmd = &cobra.Command{
	Use:   "ingredient",
	Short: "Manage the ingredient catalog",
}

var (
	ingName        string
	ingUnit        string
	ingCalories    float64
	ingProtein     float64
	ingCarbs       float64
	ingFat         float64
	ingServingSize float64
	ingSearchLimit int
	ingJSON        bool
)

var ingredientAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add an ingredient; macros are per 100 units unless --serving-size is set",
	RunE: func(cmd *cobra.Command, args []string) error {
		per100 := model.Macros{Calories: ingCalories, Protein: ingProtein, Carbs: ingCarbs, Fat: ingFat}
		unit := ingUnit
		if cmd.Flags().Changed("serving-size") {
			var err error
			per100, unit, err = nutrition.Per100FromServing(ingServingSize, ingUnit, per100)
			if err != nil {
				return err
			}
		}
		return withDB(func(sqldb *sql.DB) error {
			id, err := service.AddIngredient(sqldb, service.IngredientInput{
				Name:     ingName,
				BaseUnit: unit,
				Calories: per100.Calories,
				ProteinG: per100.Protein,
				CarbsG:   per100.Carbs,
				FatG:     per100.Fat,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added ingredient %d (%s per 100 %s: %.1f kcal, P %.1f, C %.1f, F %.1f)\n",
				id, strings.TrimSpace(ingName), unit, per100.Calories, per100.Protein, per100.Carbs, per100.Fat)
			return nil
		})
	},
}

var ingredientSearchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search the catalog by name",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		query := ""
		if len(args) == 1 {
			query = args[0]
		}
		return withDB(func(sqldb *sql.DB) error {
			limit := ingSearchLimit
			if limit <= 0 {
				var err error
				if limit, err = service.SearchLimit(sqldb); err != nil {
					return err
				}
			}
			refs, err := service.SearchIngredients(sqldb, query, limit)
			if err != nil {
				newLogger(cmd.ErrOrStderr()).Warn("ingredient search failed", "query", query, "err", err)
				refs = []model.IngredientReference{}
			}
			return printReferences(cmd, refs)
		})
	},
}

var ingredientListCmd = &cobra.Command{
	Use:   "list",
	Short: "List every catalog ingredient",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(sqldb *sql.DB) error {
			items, err := service.ListIngredients(sqldb)
			if err != nil {
				return err
			}
			if ingJSON {
				return writeJSON(cmd, items)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "ID\tNAME\tUNIT\tKCAL\tPROTEIN\tCARBS\tFAT\tSOURCE")
			for _, it := range items {
				fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s\t%s\t%.1f\t%.1f\t%.1f\t%.1f\t%s\n",
					it.ID, it.Name, it.BaseUnit, it.Calories, it.ProteinG, it.CarbsG, it.FatG, it.Source)
			}
			return nil
		})
	},
}

var (
	importAPIKey string
	importLimit  int
	importDryRun bool
)

var ingredientImportCmd = &cobra.Command{
	Use:   "import <query>...",
	Short: "Import ingredients from USDA FoodData Central",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		apiKey := envOr(importAPIKey, "FITCOOKER_USDA_API_KEY")
		if apiKey == "" {
			return fmt.Errorf("USDA API key required: set --api-key or FITCOOKER_USDA_API_KEY")
		}
		client := &usda.Client{APIKey: apiKey, BaseURL: strings.TrimSpace(envOr("", "FITCOOKER_USDA_BASE_URL")), Limiter: usda.DefaultLimiter()}
		log := newLogger(cmd.ErrOrStderr())

		return withDB(func(sqldb *sql.DB) error {
			created, updated := 0, 0
			for _, query := range args {
				foods, err := client.SearchFoods(cmd.Context(), query, importLimit)
				if err != nil {
					return fmt.Errorf("import %q: %w", query, err)
				}
				log.Debug("usda search", "query", query, "results", len(foods))
				for _, f := range foods {
					if importDryRun {
						fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s\t%s\t%.1f kcal\n", f.FDCID, f.Description, f.BaseUnit, f.Per100.Calories)
						continue
					}
					isNew, err := service.UpsertIngredient(sqldb, service.IngredientInput{
						Name:      f.Description,
						BaseUnit:  f.BaseUnit,
						Calories:  f.Per100.Calories,
						ProteinG:  f.Per100.Protein,
						CarbsG:    f.Per100.Carbs,
						FatG:      f.Per100.Fat,
						Source:    service.SourceUSDA,
						SourceRef: fmt.Sprintf("%d", f.FDCID),
					})
					if err != nil {
						log.Warn("skip usda food", "fdc_id", f.FDCID, "err", err)
						continue
					}
					if isNew {
						created++
					} else {
						updated++
					}
				}
			}
			if !importDryRun {
				fmt.Fprintf(cmd.OutOrStdout(), "Imported %d new and %d updated ingredient(s)\n", created, updated)
			}
			return nil
		})
	},
}

func printReferences(cmd *cobra.Command, refs []model.IngredientReference) error {
	if ingJSON {
		return writeJSON(cmd, refs)
	}
	fmt.Fprintln(cmd.OutOrStdout(), "NAME\tUNIT\tKCAL\tPROTEIN\tCARBS\tFAT")
	for _, r := range refs {
		fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%.1f\t%.1f\t%.1f\t%.1f\n",
			r.Name, r.BaseUnit, r.Per100.Calories, r.Per100.Protein, r.Per100.Carbs, r.Per100.Fat)
	}
	return nil
}

func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func init() {
	rootCmd.AddCommand(ingredientCmd)
	ingredientCmd.AddCommand(ingredientAddCmd, ingredientSearchCmd, ingredientListCmd, ingredientImportCmd)

	ingredientAddCmd.Flags().StringVar(&ingName, "name", "", "Ingredient name")
	ingredientAddCmd.Flags().StringVar(&ingUnit, "unit", "g", "Base unit (g or ml family)")
	ingredientAddCmd.Flags().Float64Var(&ingCalories, "calories", 0, "Calories")
	ingredientAddCmd.Flags().Float64Var(&ingProtein, "protein", 0, "Protein grams")
	ingredientAddCmd.Flags().Float64Var(&ingCarbs, "carbs", 0, "Carbs grams")
	ingredientAddCmd.Flags().Float64Var(&ingFat, "fat", 0, "Fat grams")
	ingredientAddCmd.Flags().Float64Var(&ingServingSize, "serving-size", 0, "Treat macros as per serving of this size in --unit")
	_ = ingredientAddCmd.MarkFlagRequired("name")

	ingredientSearchCmd.Flags().IntVar(&ingSearchLimit, "limit", 0, "Maximum results (default: search_limit config)")
	ingredientSearchCmd.Flags().BoolVar(&ingJSON, "json", false, "Output JSON")
	ingredientListCmd.Flags().BoolVar(&ingJSON, "json", false, "Output JSON")

	ingredientImportCmd.Flags().StringVar(&importAPIKey, "api-key", "", "USDA API key (default: $FITCOOKER_USDA_API_KEY)")
	ingredientImportCmd.Flags().IntVar(&importLimit, "limit", 5, "Foods to import per query")
	ingredientImportCmd.Flags().BoolVar(&importDryRun, "dry-run", false, "Print matches without saving")
}
