package model

import (
	"iter"
	"strings"
)

// Recipe is a parsed RecipeMD document.
type Recipe struct {
	Title            string            `json:"title"`
	Description      *string           `json:"description"`
	Tags             []string          `json:"tags"`
	Yields           []Amount          `json:"yields"`
	IngredientGroups []IngredientGroup `json:"ingredient_groups"`
	Instructions     *string           `json:"instructions"`
}

// IngredientGroup is a named or anonymous bucket of ingredients. Title is nil
// for ingredients listed before any group heading.
type IngredientGroup struct {
	Title       *string      `json:"title"`
	Ingredients []Ingredient `json:"ingredients"`
}

// Ingredient is one entry of an ingredient list.
type Ingredient struct {
	Amount *Amount `json:"amount"`
	Name   string  `json:"name"`
	// Link is the escaped link destination, when the name was a link.
	Link *string `json:"link"`
}

// Amount is a quantity with an optional unit. Factor is nil only when the
// text carried no recognisable number, in which case Unit holds all of it.
type Amount struct {
	Factor *Factor `json:"factor"`
	Unit   *string `json:"unit"`
}

// Ingredients yields every ingredient across all groups, in document order.
func (r *Recipe) Ingredients() iter.Seq[Ingredient] {
	return func(yield func(Ingredient) bool) {
		if r == nil {
			return
		}
		for _, group := range r.IngredientGroups {
			for _, ingredient := range group.Ingredients {
				if !yield(ingredient) {
					return
				}
			}
		}
	}
}

// IngredientCount returns the number of ingredients across all groups.
func (r *Recipe) IngredientCount() int {
	if r == nil {
		return 0
	}
	total := 0
	for _, group := range r.IngredientGroups {
		total += len(group.Ingredients)
	}
	return total
}

// HasTag reports whether the recipe carries tag, ignoring case.
func (r *Recipe) HasTag(tag string) bool {
	if r == nil {
		return false
	}
	for _, candidate := range r.Tags {
		if strings.EqualFold(candidate, tag) {
			return true
		}
	}
	return false
}

// String renders the amount the way it would be written in a document.
func (a Amount) String() string {
	var parts []string
	if a.Factor != nil {
		parts = append(parts, a.Factor.Display())
	}
	if a.Unit != nil && *a.Unit != "" {
		parts = append(parts, *a.Unit)
	}
	return strings.Join(parts, " ")
}

// Equal compares amounts, using Factor.Equal for the numeric part.
func (a Amount) Equal(other Amount) bool {
	switch {
	case (a.Factor == nil) != (other.Factor == nil):
		return false
	case a.Factor != nil && !a.Factor.Equal(*other.Factor):
		return false
	}
	return equalStringPtr(a.Unit, other.Unit)
}

// Equal compares ingredients field by field.
func (i Ingredient) Equal(other Ingredient) bool {
	if i.Name != other.Name || !equalStringPtr(i.Link, other.Link) {
		return false
	}
	if (i.Amount == nil) != (other.Amount == nil) {
		return false
	}
	return i.Amount == nil || i.Amount.Equal(*other.Amount)
}

// Equal compares recipes structurally.
func (r *Recipe) Equal(other *Recipe) bool {
	if r == nil || other == nil {
		return r == other
	}
	if r.Title != other.Title ||
		!equalStringPtr(r.Description, other.Description) ||
		!equalStringPtr(r.Instructions, other.Instructions) {
		return false
	}
	if len(r.Tags) != len(other.Tags) || len(r.Yields) != len(other.Yields) ||
		len(r.IngredientGroups) != len(other.IngredientGroups) {
		return false
	}
	for i := range r.Tags {
		if r.Tags[i] != other.Tags[i] {
			return false
		}
	}
	for i := range r.Yields {
		if !r.Yields[i].Equal(other.Yields[i]) {
			return false
		}
	}
	for i := range r.IngredientGroups {
		a, b := r.IngredientGroups[i], other.IngredientGroups[i]
		if !equalStringPtr(a.Title, b.Title) || len(a.Ingredients) != len(b.Ingredients) {
			return false
		}
		for j := range a.Ingredients {
			if !a.Ingredients[j].Equal(b.Ingredients[j]) {
				return false
			}
		}
	}
	return true
}

func equalStringPtr(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// StringPtr returns a pointer to a copy of s.
func StringPtr(s string) *string {
	return &s
}
