package query

import (
	"encoding/json"

	"storefront/internal/errors"
)

// PageRef points at another page of the same listing.
type PageRef struct {
	Page  int
	Limit int
}

// Page is one window of a filtered listing. Total counts every row matching
// the filters, not the whole collection.
type Page[T any] struct {
	Items []T
	Total int64
	Page  int
	Limit int
}

// NewPage wraps repository output for a plan.
func NewPage[T any](items []T, total int64, plan *Plan) *Page[T] {
	if items == nil {
		items = []T{}
	}

	return &Page[T]{Items: items, Total: total, Page: plan.Page, Limit: plan.Limit}
}

// Count is the number of items in this page.
func (p *Page[T]) Count() int {
	return len(p.Items)
}

// Next is set iff rows remain after this page.
func (p *Page[T]) Next() *PageRef {
	if p.Limit <= 0 || p.Total <= 0 {
		return nil
	}
	// page*limit < total, rearranged so it cannot overflow.
	if int64(p.Page) > (p.Total-1)/int64(p.Limit) {
		return nil
	}

	return &PageRef{Page: p.Page + 1, Limit: p.Limit}
}

// Prev is set iff this page does not start at the first row.
func (p *Page[T]) Prev() *PageRef {
	if p.Page <= 1 || p.Limit <= 0 {
		return nil
	}

	return &PageRef{Page: p.Page - 1, Limit: p.Limit}
}

// MapPage converts page items, keeping the paging state.
func MapPage[T, U any](p *Page[T], fn func(T) U) *Page[U] {
	out := make([]U, len(p.Items))
	for i, item := range p.Items {
		out[i] = fn(item)
	}

	return &Page[U]{Items: out, Total: p.Total, Page: p.Page, Limit: p.Limit}
}

// Project restricts each item to the selected top-level keys. An empty
// selection returns the items unchanged.
func Project[T any](items []T, fields []string) (any, error) {
	if len(fields) == 0 {
		return items, nil
	}

	out := make([]map[string]any, 0, len(items))
	for _, item := range items {
		raw, err := json.Marshal(item)
		if err != nil {
			return nil, errors.Wrap(err, "marshal item for projection")
		}

		var full map[string]any
		if err := json.Unmarshal(raw, &full); err != nil {
			return nil, errors.Wrap(err, "unmarshal item for projection")
		}

		projected := make(map[string]any, len(fields))
		for _, f := range fields {
			if v, ok := full[f]; ok {
				projected[f] = v
			}
		}
		out = append(out, projected)
	}

	return out, nil
}
