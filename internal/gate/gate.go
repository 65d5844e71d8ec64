// Package gate decides whether a recipe draft can be published.
//
// The checklist shown to the user and the publish decision come from the
// same ordered rule list; only rules marked Required take part in IsValid.
package gate

import (
	"strconv"
	"strings"

	"github.com/computaria2025/FitCooker-v2-sub000/internal/draft"
)

const (
	KeyTitlePresent        = "titlePresent"
	KeyHasCategory         = "hasCategory"
	KeyPreparationTimeSet  = "preparationTimeSet"
	KeyIngredientsComplete = "ingredientsComplete"
	KeyStepsComplete       = "stepsComplete"
	KeyDescriptionPresent  = "descriptionPresent"
	KeyHasMainImage        = "hasMainImage"
)

type Rule struct {
	Key      string
	Label    string
	Required bool
	Check    func(draft.Snapshot) bool
}

// Rules is the checklist in display order.
var Rules = []Rule{
	{Key: KeyTitlePresent, Label: "Título da receita", Required: true, Check: titlePresent},
	{Key: KeyDescriptionPresent, Label: "Descrição", Required: false, Check: descriptionPresent},
	{Key: KeyHasCategory, Label: "Pelo menos uma categoria", Required: true, Check: hasCategory},
	{Key: KeyPreparationTimeSet, Label: "Tempo de preparo", Required: true, Check: preparationTimeSet},
	{Key: KeyIngredientsComplete, Label: "Ingredientes completos", Required: true, Check: ingredientsComplete},
	{Key: KeyStepsComplete, Label: "Modo de preparo completo", Required: true, Check: stepsComplete},
	{Key: KeyHasMainImage, Label: "Imagem principal", Required: false, Check: hasMainImage},
}

type Item struct {
	Key       string
	Label     string
	Required  bool
	Satisfied bool
}

type Result struct {
	IsValid   bool
	Checklist []Item
}

// Evaluate runs every rule against the snapshot.
func Evaluate(s draft.Snapshot) Result {
	res := Result{IsValid: true, Checklist: make([]Item, 0, len(Rules))}
	for _, rule := range Rules {
		ok := rule.Check(s)
		res.Checklist = append(res.Checklist, Item{Key: rule.Key, Label: rule.Label, Required: rule.Required, Satisfied: ok})
		if rule.Required && !ok {
			res.IsValid = false
		}
	}
	return res
}

// EvaluateDraft is Evaluate over the draft's current state.
func EvaluateDraft(d *draft.Draft) Result {
	return Evaluate(d.Snapshot())
}

// Missing lists the labels of unsatisfied required items.
func (r Result) Missing() []string {
	out := make([]string, 0)
	for _, it := range r.Checklist {
		if it.Required && !it.Satisfied {
			out = append(out, it.Label)
		}
	}
	return out
}

func (r Result) Item(key string) (Item, bool) {
	for _, it := range r.Checklist {
		if it.Key == key {
			return it, true
		}
	}
	return Item{}, false
}

func titlePresent(s draft.Snapshot) bool {
	return strings.TrimSpace(s.Title) != ""
}

func descriptionPresent(s draft.Snapshot) bool {
	return strings.TrimSpace(s.Description) != ""
}

func hasCategory(s draft.Snapshot) bool {
	return len(s.Categories) > 0
}

func preparationTimeSet(s draft.Snapshot) bool {
	minutes, err := strconv.Atoi(strings.TrimSpace(s.PreparationTime))
	return err == nil && minutes >= 1
}

func ingredientsComplete(s draft.Snapshot) bool {
	if len(s.Ingredients) == 0 {
		return false
	}
	for _, line := range s.Ingredients {
		if strings.TrimSpace(line.Name) == "" || line.Quantity <= 0 {
			return false
		}
	}
	return true
}

func stepsComplete(s draft.Snapshot) bool {
	if len(s.Steps) == 0 {
		return false
	}
	for _, step := range s.Steps {
		if strings.TrimSpace(step.Description) == "" {
			return false
		}
	}
	return true
}

func hasMainImage(s draft.Snapshot) bool {
	for _, m := range s.Media {
		if m.IsMain {
			return true
		}
	}
	return false
}
