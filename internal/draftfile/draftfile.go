// Package draftfile reads and writes recipe drafts as YAML documents so a
// draft can be edited outside the CLI and then checked or published.
package draftfile

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v2"

	"github.com/computaria2025/FitCooker-v2-sub000/internal/catalog"
	"github.com/computaria2025/FitCooker-v2-sub000/internal/draft"
	"github.com/computaria2025/FitCooker-v2-sub000/internal/model"
	"github.com/computaria2025/FitCooker-v2-sub000/internal/nutrition"
)

type Document struct {
	Title           string       `yaml:"title"`
	Description     string       `yaml:"description,omitempty"`
	PreparationTime string       `yaml:"preparation_time"`
	Servings        string       `yaml:"servings"`
	Difficulty      string       `yaml:"difficulty"`
	Categories      []string     `yaml:"categories"`
	Ingredients     []Ingredient `yaml:"ingredients"`
	Steps           []string     `yaml:"steps"`
	Media           []Media      `yaml:"media,omitempty"`
}

// Ingredient is one line. Per100 overrides catalog macros; a name that is
// neither in the catalog nor carries Per100 becomes a custom ingredient.
type Ingredient struct {
	Name     string        `yaml:"name"`
	Quantity float64       `yaml:"quantity"`
	Unit     string        `yaml:"unit,omitempty"`
	Per100   *model.Macros `yaml:"per100,omitempty"`
}

type Media struct {
	Kind   string `yaml:"kind"`
	Source string `yaml:"source"`
	Main   bool   `yaml:"main,omitempty"`
}

func Parse(data []byte) (*Document, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse draft yaml: %w", err)
	}
	return &doc, nil
}

func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read draft file: %w", err)
	}
	return Parse(data)
}

func Marshal(doc *Document) ([]byte, error) {
	out, err := yaml.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encode draft yaml: %w", err)
	}
	return out, nil
}

func Save(path string, doc *Document) error {
	out, err := Marshal(doc)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, out, 0o644); err != nil {
		return fmt.Errorf("write draft file: %w", err)
	}
	return nil
}

// Template is the starter document written by "draft new".
func Template() *Document {
	return &Document{
		Servings:    draft.ServingsOptions[0],
		Difficulty:  draft.DifficultyEasy,
		Categories:  []string{},
		Ingredients: []Ingredient{{Unit: "g"}},
		Steps:       []string{""},
	}
}

// Build replays the document onto a fresh draft through the normal editing
// operations, so the same clamping rules apply as in interactive editing.
// Notes lists values that were ignored or fell back to a default.
func Build(doc *Document, cat *catalog.Catalog, opts ...draft.Option) (*draft.Draft, []string) {
	d := draft.New(opts...)
	var notes []string

	d.SetTitle(doc.Title)
	d.SetDescription(doc.Description)
	d.SetPreparationTime(doc.PreparationTime)
	if doc.Servings != "" {
		d.SetServings(strings.TrimSpace(doc.Servings))
		if d.Snapshot().Servings != strings.TrimSpace(doc.Servings) {
			notes = append(notes, fmt.Sprintf("servings %q is not an option; kept %q", doc.Servings, d.Snapshot().Servings))
		}
	}
	if difficulty := strings.TrimSpace(doc.Difficulty); difficulty != "" {
		d.SetDifficulty(difficulty)
		if d.Snapshot().Difficulty != difficulty {
			notes = append(notes, fmt.Sprintf("difficulty %q is not one of %s", doc.Difficulty, strings.Join(draft.Difficulties, ", ")))
		}
	}
	for _, c := range doc.Categories {
		if !d.HasCategory(c) {
			d.ToggleCategory(c)
		}
	}

	for i, in := range doc.Ingredients {
		id := d.IngredientLines()[0].ID
		if i > 0 {
			id = d.AddIngredientLine()
		}
		name := strings.TrimSpace(in.Name)
		switch {
		case name == "":
		case in.Per100 != nil:
			d.ResolveIngredient(id, model.IngredientReference{Name: name, BaseUnit: in.Unit, Per100: *in.Per100})
		default:
			if ref, ok := lookup(cat, name); ok {
				d.ResolveIngredient(id, ref)
			} else {
				d.ResolveCustomIngredient(id, name)
				notes = append(notes, fmt.Sprintf("ingredient %q is not in the catalog; added as custom with zero macros", name))
			}
		}
		d.UpdateQuantity(id, in.Quantity)
		if in.Quantity < 0 {
			notes = append(notes, fmt.Sprintf("ingredient %q has a negative quantity; ignored", name))
		}
		if unit := strings.TrimSpace(in.Unit); unit != "" {
			d.SetUnit(id, unit)
			if _, ok := nutrition.NormalizeUnit(unit); !ok {
				line, _ := d.Line(id)
				notes = append(notes, fmt.Sprintf("unit %q for %q is not supported; kept %q", unit, name, line.Unit))
			}
		}
	}

	for i, text := range doc.Steps {
		id := d.Steps()[0].ID
		if i > 0 {
			id = d.AddStep()
		}
		d.UpdateStep(id, text)
	}

	for _, m := range doc.Media {
		id := d.AddMedia(model.MediaKind(strings.ToLower(strings.TrimSpace(m.Kind))), m.Source)
		if id == "" {
			notes = append(notes, fmt.Sprintf("media %q ignored: kind must be image or video", m.Source))
			continue
		}
		if m.Main {
			if model.MediaKind(strings.ToLower(strings.TrimSpace(m.Kind))) != model.MediaImage {
				notes = append(notes, fmt.Sprintf("media %q cannot be the main image: only images can", m.Source))
				continue
			}
			d.SetMainImage(id)
		}
	}
	return d, notes
}

// FromSnapshot converts a draft back into a document.
func FromSnapshot(s draft.Snapshot) *Document {
	doc := &Document{
		Title:           s.Title,
		Description:     s.Description,
		PreparationTime: s.PreparationTime,
		Servings:        s.Servings,
		Difficulty:      s.Difficulty,
		Categories:      append([]string{}, s.Categories...),
	}
	for _, line := range s.Ingredients {
		it := Ingredient{Name: line.Name, Quantity: line.Quantity, Unit: line.Unit}
		if !line.Custom && !line.MacrosPer100.IsZero() {
			m := line.MacrosPer100
			it.Per100 = &m
		}
		doc.Ingredients = append(doc.Ingredients, it)
	}
	for _, step := range s.Steps {
		doc.Steps = append(doc.Steps, step.Description)
	}
	for _, m := range s.Media {
		doc.Media = append(doc.Media, Media{Kind: string(m.Kind), Source: m.Source, Main: m.IsMain})
	}
	return doc
}

func lookup(cat *catalog.Catalog, name string) (model.IngredientReference, bool) {
	if cat == nil {
		return model.IngredientReference{}, false
	}
	return cat.Lookup(name)
}
