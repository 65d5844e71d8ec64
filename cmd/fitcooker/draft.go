package fitcooker

import (
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/computaria2025/FitCooker-v2-sub000/internal/draft"
	"github.com/computaria2025/FitCooker-v2-sub000/internal/draftfile"
	"github.com/computaria2025/FitCooker-v2-sub000/internal/gate"
	"github.com/computaria2025/FitCooker-v2-sub000/internal/model"
	"github.com/computaria2025/FitCooker-v2-sub000/internal/nutrition"
	"github.com/computaria2025/FitCooker-v2-sub000/internal/service"
)

var draftCmd = &cobra.Command{
	Use:   "draft",
	Short: "Create and check recipe drafts stored as YAML files",
}

var draftForce bool

var draftNewCmd = &cobra.Command{
	Use:   "new <file>",
	Short: "Write an empty draft template",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		if !draftForce {
			if _, err := os.Stat(path); err == nil {
				return fmt.Errorf("%s already exists; use --force to overwrite", path)
			}
		}
		if err := draftfile.Save(path, draftfile.Template()); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote draft template to %s\n", path)
		return nil
	},
}

var draftCheckCmd = &cobra.Command{
	Use:   "check <file>",
	Short: "Show the publishing checklist for a draft",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(sqldb *sql.DB) error {
			d, notes, err := loadDraft(sqldb, args[0], newLogger(cmd.ErrOrStderr()))
			if err != nil {
				return err
			}
			printNotes(cmd, notes)
			res := gate.EvaluateDraft(d)
			printChecklist(cmd, res)
			if !res.IsValid {
				return fmt.Errorf("draft is not ready to publish: missing %s", strings.Join(res.Missing(), ", "))
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Ready to publish")
			return nil
		})
	},
}

var draftTotalsJSON bool

type totalsReport struct {
	Lines      []lineReport  `json:"lines"`
	Totals     model.Macros  `json:"totals"`
	Servings   string        `json:"servings"`
	PerServing *model.Macros `json:"per_serving,omitempty"`
}

type lineReport struct {
	Name         string       `json:"name"`
	Quantity     float64      `json:"quantity"`
	Unit         string       `json:"unit"`
	Counted      bool         `json:"counted"`
	Contribution model.Macros `json:"contribution"`
}

var draftTotalsCmd = &cobra.Command{
	Use:   "totals <file>",
	Short: "Show live macro totals for a draft",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(sqldb *sql.DB) error {
			d, notes, err := loadDraft(sqldb, args[0], newLogger(cmd.ErrOrStderr()))
			if err != nil {
				return err
			}
			printNotes(cmd, notes)
			snap := d.Snapshot()
			report := totalsReport{Totals: d.Totals(), Servings: snap.Servings}
			for _, line := range snap.Ingredients {
				report.Lines = append(report.Lines, lineReport{
					Name:         line.Name,
					Quantity:     line.Quantity,
					Unit:         line.Unit,
					Counted:      nutrition.Counts(line),
					Contribution: nutrition.LineContribution(line),
				})
			}
			if per, ok := d.PerServing(); ok {
				report.PerServing = &per
			}
			if draftTotalsJSON {
				return writeJSON(cmd, report)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "INGREDIENT\tQTY\tKCAL\tPROTEIN\tCARBS\tFAT")
			for _, l := range report.Lines {
				if !l.Counted {
					continue
				}
				c := nutrition.Round(l.Contribution)
				fmt.Fprintf(out, "%s\t%g %s\t%.0f\t%.0f\t%.0f\t%.0f\n", l.Name, l.Quantity, l.Unit, c.Calories, c.Protein, c.Carbs, c.Fat)
			}
			t := nutrition.Round(report.Totals)
			fmt.Fprintf(out, "TOTAL\t\t%.0f\t%.0f\t%.0f\t%.0f\n", t.Calories, t.Protein, t.Carbs, t.Fat)
			if report.PerServing != nil {
				p := nutrition.Round(*report.PerServing)
				fmt.Fprintf(out, "PER SERVING (%s)\t\t%.0f\t%.0f\t%.0f\t%.0f\n", report.Servings, p.Calories, p.Protein, p.Carbs, p.Fat)
			}
			return nil
		})
	},
}

// loadDraft builds a draft from a YAML file against the stored catalog and
// configured main image policy. Unknown categories are reported as notes. A
// catalog that cannot be read degrades to an empty one.
func loadDraft(sqldb *sql.DB, path string, log *slog.Logger) (*draft.Draft, []string, error) {
	doc, err := draftfile.Load(path)
	if err != nil {
		return nil, nil, err
	}
	cat, err := service.LoadCatalog(sqldb)
	if err != nil {
		log.Warn("ingredient catalog unavailable", "err", err)
		cat = nil
	}
	policy, err := service.MainImagePolicy(sqldb)
	if err != nil {
		return nil, nil, err
	}
	d, notes := draftfile.Build(doc, cat, draft.WithMainImagePolicy(policy))

	names, err := service.CategoryNames(sqldb)
	if err != nil {
		return nil, nil, err
	}
	known := make(map[string]bool, len(names))
	for _, n := range names {
		known[strings.ToLower(n)] = true
	}
	for _, c := range d.Categories() {
		if !known[strings.ToLower(c)] {
			notes = append(notes, fmt.Sprintf("category %q does not exist; see \"fitcooker category suggest\"", c))
		}
	}
	return d, notes, nil
}

func printNotes(cmd *cobra.Command, notes []string) {
	for _, n := range notes {
		fmt.Fprintf(cmd.ErrOrStderr(), "note: %s\n", n)
	}
}

func printChecklist(cmd *cobra.Command, res gate.Result) {
	for _, it := range res.Checklist {
		mark := " "
		if it.Satisfied {
			mark = "x"
		}
		suffix := ""
		if !it.Required {
			suffix = " (opcional)"
		}
		fmt.Fprintf(cmd.OutOrStdout(), "[%s] %s%s\n", mark, it.Label, suffix)
	}
}

func init() {
	rootCmd.AddCommand(draftCmd)
	draftCmd.AddCommand(draftNewCmd, draftCheckCmd, draftTotalsCmd)
	draftNewCmd.Flags().BoolVar(&draftForce, "force", false, "Overwrite an existing file")
	draftTotalsCmd.Flags().BoolVar(&draftTotalsJSON, "json", false, "Output JSON")
}
