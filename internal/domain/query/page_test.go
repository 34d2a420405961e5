package query

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPage_Pagination(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		page     int
		limit    int
		items    int
		total    int64
		wantNext *PageRef
		wantPrev *PageRef
	}{
		{name: "single page", page: 1, limit: 16, items: 3, total: 3},
		{name: "first of many", page: 1, limit: 2, items: 2, total: 5, wantNext: &PageRef{Page: 2, Limit: 2}},
		{name: "middle", page: 2, limit: 2, items: 2, total: 5, wantNext: &PageRef{Page: 3, Limit: 2}, wantPrev: &PageRef{Page: 1, Limit: 2}},
		{name: "last partial", page: 3, limit: 2, items: 1, total: 5, wantPrev: &PageRef{Page: 2, Limit: 2}},
		{name: "exact boundary", page: 2, limit: 2, items: 2, total: 4, wantPrev: &PageRef{Page: 1, Limit: 2}},
		{name: "past the end", page: 9, limit: 2, items: 0, total: 4, wantPrev: &PageRef{Page: 8, Limit: 2}},
		{name: "empty listing", page: 1, limit: 16, items: 0, total: 0},
		{name: "huge page", page: math.MaxInt, limit: 100, items: 0, total: 4, wantPrev: &PageRef{Page: math.MaxInt - 1, Limit: 100}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			plan := &Plan{Page: tt.page, Limit: tt.limit}
			p := NewPage(make([]int, tt.items), tt.total, plan)

			assert.Equal(t, tt.items, p.Count())
			assert.LessOrEqual(t, p.Count(), tt.limit)
			assert.Equal(t, tt.wantNext, p.Next())
			assert.Equal(t, tt.wantPrev, p.Prev())
		})
	}
}

func TestNewPage_NilItems(t *testing.T) {
	t.Parallel()

	p := NewPage[string](nil, 0, &Plan{Page: 1, Limit: 16})
	assert.NotNil(t, p.Items)
	assert.Equal(t, 0, p.Count())
}

func TestMapPage(t *testing.T) {
	t.Parallel()

	p := NewPage([]int{1, 2}, 10, &Plan{Page: 2, Limit: 2})
	mapped := MapPage(p, func(i int) string { return string(rune('a' + i)) })

	assert.Equal(t, []string{"b", "c"}, mapped.Items)
	assert.Equal(t, int64(10), mapped.Total)
	assert.Equal(t, 2, mapped.Page)
}

type projected struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
	Note  string  `json:"note"`
}

func TestProject(t *testing.T) {
	t.Parallel()

	items := []projected{{ID: "1", Name: "a", Price: 2, Note: "x"}}

	out, err := Project(items, []string{"name", "id"})
	require.NoError(t, err)
	assert.Equal(t, []map[string]any{{"id": "1", "name": "a"}}, out)

	unchanged, err := Project(items, nil)
	require.NoError(t, err)
	assert.Equal(t, items, unchanged)
}
