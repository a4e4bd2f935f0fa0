package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCategoryMap_Resolve(t *testing.T) {
	m := NewCategoryMap([]Category{
		{ID: "cat-groceries", Name: "Groceries"},
		{ID: "x", Name: "Short"},
	})

	tests := []struct {
		name string
		id   string
		want string
	}{
		{
			name: "mapped id",
			id:   "cat-groceries",
			want: "Groceries",
		},
		{
			name: "unmapped id is truncated to 8 chars",
			id:   "ghost-id-1234567890",
			want: "[Unknown: ghost-id...]",
		},
		{
			name: "unmapped short id",
			id:   "gh",
			want: "[Unknown: gh...]",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, m.Resolve(tt.id))
		})
	}
}

func TestCategoryMap_Lookup(t *testing.T) {
	m := NewCategoryMap([]Category{{ID: "a", Name: "Auto"}})

	name, ok := m.Lookup("a")
	assert.True(t, ok)
	assert.Equal(t, "Auto", name)

	_, ok = m.Lookup("missing")
	assert.False(t, ok)
}
