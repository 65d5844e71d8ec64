// Package catalog is the read-only ingredient reference data used while
// editing a draft. A Catalog is an immutable snapshot and is safe to share.
package catalog

import (
	"sort"
	"strings"

	"github.com/computaria2025/FitCooker-v2-sub000/internal/model"
)

// DefaultSearchLimit bounds search results when the caller passes no limit.
const DefaultSearchLimit = 20

type Catalog struct {
	refs   []model.IngredientReference
	byName map[string]int
}

// New builds a snapshot. Later duplicates of a name (case-insensitive) are
// dropped, as are references with blank names.
func New(refs []model.IngredientReference) *Catalog {
	c := &Catalog{byName: make(map[string]int, len(refs))}
	seen := make(map[string]bool, len(refs))
	for _, ref := range refs {
		ref.Name = strings.TrimSpace(ref.Name)
		key := strings.ToLower(ref.Name)
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		c.refs = append(c.refs, ref)
	}
	sort.SliceStable(c.refs, func(i, j int) bool {
		return strings.ToLower(c.refs[i].Name) < strings.ToLower(c.refs[j].Name)
	})
	for i, ref := range c.refs {
		c.byName[strings.ToLower(ref.Name)] = i
	}
	return c
}

func (c *Catalog) Len() int {
	return len(c.refs)
}

// Lookup finds an ingredient by exact name, ignoring case.
func (c *Catalog) Lookup(name string) (model.IngredientReference, bool) {
	idx, ok := c.byName[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return model.IngredientReference{}, false
	}
	return c.refs[idx], true
}

// Search returns up to limit references whose name contains query, ignoring
// case, ordered by name. An empty query matches everything.
func (c *Catalog) Search(query string, limit int) []model.IngredientReference {
	if limit <= 0 {
		limit = DefaultSearchLimit
	}
	q := strings.ToLower(strings.TrimSpace(query))
	out := make([]model.IngredientReference, 0)
	for _, ref := range c.refs {
		if len(out) >= limit {
			break
		}
		if strings.Contains(strings.ToLower(ref.Name), q) {
			out = append(out, ref)
		}
	}
	return out
}

// RegisterCustomIngredient returns a zero-macro reference for a name that is
// not in the catalog. Nothing is stored.
func RegisterCustomIngredient(name string) model.IngredientReference {
	return model.IngredientReference{Name: strings.TrimSpace(name), BaseUnit: "g"}
}
