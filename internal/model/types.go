package model

import "time"

// Macros holds the four tracked nutritional fields.
type Macros struct {
	Calories float64 `json:"calories" yaml:"calories"`
	Protein  float64 `json:"protein" yaml:"protein"`
	Carbs    float64 `json:"carbs" yaml:"carbs"`
	Fat      float64 `json:"fat" yaml:"fat"`
}

func (m Macros) Add(o Macros) Macros {
	return Macros{
		Calories: m.Calories + o.Calories,
		Protein:  m.Protein + o.Protein,
		Carbs:    m.Carbs + o.Carbs,
		Fat:      m.Fat + o.Fat,
	}
}

func (m Macros) Scale(factor float64) Macros {
	return Macros{
		Calories: m.Calories * factor,
		Protein:  m.Protein * factor,
		Carbs:    m.Carbs * factor,
		Fat:      m.Fat * factor,
	}
}

func (m Macros) IsZero() bool {
	return m == Macros{}
}

// IngredientReference is a read-only catalog entry. Per100 is expressed per
// 100 base units.
type IngredientReference struct {
	Name     string `json:"name"`
	BaseUnit string `json:"base_unit"`
	Per100   Macros `json:"per100"`
}

type IngredientLine struct {
	ID           string
	Name         string
	Quantity     float64
	Unit         string
	MacrosPer100 Macros
	Custom       bool
}

type StepLine struct {
	ID          string
	Order       int
	Description string
}

type MediaKind string

const (
	MediaImage MediaKind = "image"
	MediaVideo MediaKind = "video"
)

type MediaItem struct {
	ID     string
	Kind   MediaKind
	Source string
	IsMain bool
}

// Recipe is a published recipe row.
type Recipe struct {
	ID                     string
	AuthorID               string
	Title                  string
	Description            string
	PreparationTimeMinutes int
	Servings               int
	Difficulty             string
	Calories               float64
	Protein                float64
	Carbs                  float64
	Fat                    float64
	CreatedAt              time.Time
}

type RecipeIngredient struct {
	ID           int64
	RecipeID     string
	Position     int
	Name         string
	Quantity     float64
	Unit         string
	MacrosPer100 Macros
}

type RecipeStep struct {
	ID          int64
	RecipeID    string
	StepOrder   int
	Description string
}

type RecipeMedia struct {
	ID       int64
	RecipeID string
	Kind     MediaKind
	Source   string
	IsMain   bool
}

type Category struct {
	ID        int64
	Name      string
	IsDefault bool
	CreatedAt time.Time
}

type CategorySuggestion struct {
	ID          int64
	Name        string
	SuggestedBy string
	CreatedAt   time.Time
}

// Ingredient is a catalog row in the reference backend.
type Ingredient struct {
	ID        int64
	Name      string
	BaseUnit  string
	Calories  float64
	ProteinG  float64
	CarbsG    float64
	FatG      float64
	Source    string
	SourceRef string
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (i Ingredient) Reference() IngredientReference {
	return IngredientReference{
		Name:     i.Name,
		BaseUnit: i.BaseUnit,
		Per100: Macros{
			Calories: i.Calories,
			Protein:  i.ProteinG,
			Carbs:    i.CarbsG,
			Fat:      i.FatG,
		},
	}
}
