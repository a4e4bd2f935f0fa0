// Package model defines the core domain types used throughout the application.
package model

import "fmt"

// Category represents one budget category from the ledger.
type Category struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// CategoryMap resolves category ids to display names. It is one of the two
// artifacts the trainer persists alongside the fitted model.
type CategoryMap map[string]string

// NewCategoryMap builds a CategoryMap from a category list.
func NewCategoryMap(categories []Category) CategoryMap {
	m := make(CategoryMap, len(categories))
	for _, cat := range categories {
		m[cat.ID] = cat.Name
	}
	return m
}

// Lookup returns the display name for id and whether it is present.
func (m CategoryMap) Lookup(id string) (string, bool) {
	name, ok := m[id]
	return name, ok
}

// Resolve returns the display name for id, or a formatted placeholder when the
// id has no entry. Unmapped ids are an expected data-quality condition in
// ledger exports, not a programming error.
func (m CategoryMap) Resolve(id string) string {
	if name, ok := m[id]; ok {
		return name
	}
	short := id
	if len(short) > 8 {
		short = short[:8]
	}
	return fmt.Sprintf("[Unknown: %s...]", short)
}
