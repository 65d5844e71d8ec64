// Package draft holds the in-progress recipe a user is editing.
//
// Every mutation is total: bad input is clamped or ignored, never returned as
// an error, so editing is never blocked. Whether the draft is ready to publish
// is decided elsewhere (package gate) from a Snapshot.
//
// While a submission is in flight (BeginSubmit .. EndSubmit) all mutations are
// ignored.
package draft

import (
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/computaria2025/FitCooker-v2-sub000/internal/model"
	"github.com/computaria2025/FitCooker-v2-sub000/internal/nutrition"
)

const (
	DifficultyEasy   = "Fácil"
	DifficultyMedium = "Médio"
	DifficultyHard   = "Difícil"
)

// Difficulties is the fixed difficulty vocabulary in display order.
var Difficulties = []string{DifficultyEasy, DifficultyMedium, DifficultyHard}

// ServingsOptions is the servings option set offered by the form.
var ServingsOptions = []string{"1", "2", "3", "4", "5", "6", "7", "8", "9", "10", "11", "12"}

const defaultServings = "1"

// MainImagePolicy decides what happens to the cover image when the media
// item flagged as main is removed.
type MainImagePolicy int

const (
	// MainImageManual leaves no main image; the user must pick one again.
	MainImageManual MainImagePolicy = iota
	// MainImagePromoteFirst flags the first remaining image as main.
	MainImagePromoteFirst
)

func ParseMainImagePolicy(value string) (MainImagePolicy, bool) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "manual":
		return MainImageManual, true
	case "promote-first", "promote_first":
		return MainImagePromoteFirst, true
	default:
		return MainImageManual, false
	}
}

func (p MainImagePolicy) String() string {
	if p == MainImagePromoteFirst {
		return "promote-first"
	}
	return "manual"
}

type Option func(*Draft)

func WithMainImagePolicy(p MainImagePolicy) Option {
	return func(d *Draft) { d.policy = p }
}

// WithIDGenerator replaces the uuid generator, mostly for tests.
func WithIDGenerator(gen func() string) Option {
	return func(d *Draft) { d.newID = gen }
}

type Draft struct {
	mu         sync.Mutex
	submitting bool
	policy     MainImagePolicy
	newID      func() string

	title           string
	description     string
	preparationTime string
	servings        string
	difficulty      string
	categories      map[string]struct{}

	lineOrder []string
	lines     map[string]*model.IngredientLine

	stepOrder []string
	steps     map[string]*model.StepLine

	media []model.MediaItem
}

// New returns an empty draft with one blank ingredient line and one blank
// step.
func New(opts ...Option) *Draft {
	d := &Draft{newID: uuid.NewString}
	for _, opt := range opts {
		opt(d)
	}
	d.reset()
	return d
}

// Reset returns the draft to its freshly created state. It is the only
// operation allowed while a submission is in flight, since it runs once the
// submission succeeded.
func (d *Draft) Reset() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.reset()
}

func (d *Draft) reset() {
	d.title = ""
	d.description = ""
	d.preparationTime = ""
	d.servings = defaultServings
	d.difficulty = DifficultyEasy
	d.categories = map[string]struct{}{}
	d.lineOrder = nil
	d.lines = map[string]*model.IngredientLine{}
	d.stepOrder = nil
	d.steps = map[string]*model.StepLine{}
	d.media = nil
	d.addIngredientLine()
	d.addStep()
}

func (d *Draft) MainImagePolicy() MainImagePolicy {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.policy
}

// BeginSubmit takes the per-draft submission lock. It reports false when a
// submission already holds it.
func (d *Draft) BeginSubmit() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.submitting {
		return false
	}
	d.submitting = true
	return true
}

func (d *Draft) EndSubmit() {
	d.mu.Lock()
	d.submitting = false
	d.mu.Unlock()
}

func (d *Draft) Submitting() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.submitting
}

// edit runs fn under the draft mutex unless a submission is in flight.
func (d *Draft) edit(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.submitting {
		return
	}
	fn()
}

func (d *Draft) SetTitle(title string) {
	d.edit(func() { d.title = title })
}

func (d *Draft) SetDescription(description string) {
	d.edit(func() { d.description = description })
}

// SetPreparationTime stores the minutes as typed; parsing happens at the gate.
func (d *Draft) SetPreparationTime(minutes string) {
	d.edit(func() { d.preparationTime = minutes })
}

// SetServings accepts only values from ServingsOptions.
func (d *Draft) SetServings(servings string) {
	servings = strings.TrimSpace(servings)
	if !contains(ServingsOptions, servings) {
		return
	}
	d.edit(func() { d.servings = servings })
}

// SetDifficulty accepts only values from Difficulties.
func (d *Draft) SetDifficulty(difficulty string) {
	difficulty = strings.TrimSpace(difficulty)
	if !contains(Difficulties, difficulty) {
		return
	}
	d.edit(func() { d.difficulty = difficulty })
}

// ToggleCategory adds the category when absent and removes it when present.
func (d *Draft) ToggleCategory(category string) {
	category = strings.TrimSpace(category)
	if category == "" {
		return
	}
	d.edit(func() {
		if _, ok := d.categories[category]; ok {
			delete(d.categories, category)
			return
		}
		d.categories[category] = struct{}{}
	})
}

func (d *Draft) HasCategory(category string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	_, ok := d.categories[strings.TrimSpace(category)]
	return ok
}

func (d *Draft) Categories() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.sortedCategories()
}

func (d *Draft) sortedCategories() []string {
	out := make([]string, 0, len(d.categories))
	for c := range d.categories {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

// Totals recomputes the recipe macros from the current lines.
func (d *Draft) Totals() model.Macros {
	return nutrition.ComputeTotals(d.IngredientLines())
}

// PerServing divides Totals by the selected servings. ok is false when the
// servings value cannot be used.
func (d *Draft) PerServing() (model.Macros, bool) {
	s := d.Snapshot()
	servings, ok := nutrition.ParseServings(s.Servings)
	if !ok {
		return model.Macros{}, false
	}
	return nutrition.ComputePerServing(nutrition.ComputeTotals(s.Ingredients), servings)
}

// Snapshot is a read-only copy of the draft at one point in time.
type Snapshot struct {
	Title           string
	Description     string
	PreparationTime string
	Servings        string
	Difficulty      string
	Categories      []string
	Ingredients     []model.IngredientLine
	Steps           []model.StepLine
	Media           []model.MediaItem
}

func (d *Draft) Snapshot() Snapshot {
	d.mu.Lock()
	defer d.mu.Unlock()
	return Snapshot{
		Title:           d.title,
		Description:     d.description,
		PreparationTime: d.preparationTime,
		Servings:        d.servings,
		Difficulty:      d.difficulty,
		Categories:      d.sortedCategories(),
		Ingredients:     d.ingredientLines(),
		Steps:           d.stepLines(),
		Media:           d.mediaItems(),
	}
}

func contains(values []string, v string) bool {
	for _, candidate := range values {
		if candidate == v {
			return true
		}
	}
	return false
}
