package query

import (
	"math"
	"net/url"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"time"

	domainerrors "storefront/internal/domain/errors"

	"github.com/google/uuid"
)

// Reserved control keys. They are never treated as filters.
const (
	KeySelect = "select"
	KeySort   = "sort"
	KeyPage   = "page"
	KeyLimit  = "limit"
)

// Operator is a filter comparison.
type Operator string

const (
	OpEq  Operator = "eq"
	OpGt  Operator = "gt"
	OpGte Operator = "gte"
	OpLt  Operator = "lt"
	OpLte Operator = "lte"
	OpIn  Operator = "in"
)

// SQL returns the comparison symbol for the operator.
func (op Operator) SQL() string {
	switch op {
	case OpGt:
		return ">"
	case OpGte:
		return ">="
	case OpLt:
		return "<"
	case OpLte:
		return "<="
	case OpIn:
		return "IN"
	default:
		return "="
	}
}

func parseOperator(s string) (Operator, bool) {
	switch op := Operator(strings.ToLower(s)); op {
	case OpGt, OpGte, OpLt, OpLte, OpIn, OpEq:
		return op, true
	default:
		return "", false
	}
}

var (
	// price[gte]=10
	bracketKey = regexp.MustCompile(`^([A-Za-z0-9_.]+)\[([A-Za-z]+)\]$`)
	// price=gte:10 ; the operator must be a whole word followed by a colon.
	operatorValue = regexp.MustCompile(`^\s*\b(gte|gt|lte|lt|in)\b:(.*)$`)
)

// Filter is one condition. Value holds a single converted operand; Values is set for OpIn.
type Filter struct {
	Field  Field
	Op     Operator
	Value  any
	Values []any
}

// Sort is one ordering key.
type Sort struct {
	Field Field
	Desc  bool
}

// Plan is the parsed form of a list request.
type Plan struct {
	Filters []Filter
	Sort    []Sort
	Select  []string
	Page    int
	Limit   int
}

// Offset is the number of matching rows skipped before the page starts.
func (p *Plan) Offset() int {
	return (p.Page - 1) * p.Limit
}

// Where adds an equality filter, used by endpoints that scope a list (a store's inventory).
func (p *Plan) Where(f Field, value any) *Plan {
	p.Filters = append(p.Filters, Filter{Field: f, Op: OpEq, Value: value})

	return p
}

// Options bound paging and name extra query keys an endpoint consumes itself.
type Options struct {
	DefaultLimit int
	MaxLimit     int
	Ignore       []string
}

// Parse builds a plan from query-string values. Unknown fields, unsupported
// operators and values that do not convert to the field's kind are reported
// as invalid query errors naming the parameter.
func Parse(values url.Values, schema *Schema, opts Options) (*Plan, error) {
	plan := &Plan{
		Page:  positiveInt(values.Get(KeyPage), 1),
		Limit: positiveInt(values.Get(KeyLimit), opts.DefaultLimit),
	}
	if plan.Limit <= 0 {
		plan.Limit = 1
	}
	if opts.MaxLimit > 0 && plan.Limit > opts.MaxLimit {
		plan.Limit = opts.MaxLimit
	}
	// page*limit must fit in an int so Offset and the next-page check cannot wrap.
	if plan.Page > math.MaxInt/plan.Limit {
		return nil, domainerrors.ErrInvalidQuery.WithDetailsf("page %d is out of range for limit %d", plan.Page, plan.Limit)
	}

	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	for _, key := range keys {
		switch key {
		case KeySelect, KeySort, KeyPage, KeyLimit:
			continue
		}
		if slices.Contains(opts.Ignore, key) {
			continue
		}
		for _, raw := range values[key] {
			f, err := parseFilter(schema, key, raw)
			if err != nil {
				return nil, err
			}
			plan.Filters = append(plan.Filters, f)
		}
	}

	var err error
	if plan.Select, err = parseSelect(schema, values.Get(KeySelect)); err != nil {
		return nil, err
	}
	if plan.Sort, err = parseSort(schema, values.Get(KeySort)); err != nil {
		return nil, err
	}

	return plan, nil
}

func positiveInt(raw string, fallback int) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n <= 0 {
		return fallback
	}

	return n
}

func parseFilter(schema *Schema, key, raw string) (Filter, error) {
	name, op, operand := key, OpEq, raw
	explicit := false

	if m := bracketKey.FindStringSubmatch(key); m != nil {
		parsed, ok := parseOperator(m[2])
		if !ok {
			return Filter{}, domainerrors.ErrInvalidQuery.WithDetailsf("unsupported operator %q in %q", m[2], key)
		}
		name, op, explicit = m[1], parsed, true
	} else if m := operatorValue.FindStringSubmatch(raw); m != nil {
		op, _ = parseOperator(m[1])
		operand, explicit = m[2], true
	}

	field, ok := schema.Field(name)
	if !ok || !field.Filterable {
		return Filter{}, domainerrors.ErrInvalidQuery.WithDetailsf("unknown filter field %q", name)
	}

	operand = strings.TrimSpace(operand)
	if explicit && operand == "" {
		return Filter{}, domainerrors.ErrInvalidQuery.WithDetailsf("missing value for %q", key)
	}

	if op != OpEq && op != OpIn && (field.Kind == KindBool || field.Kind == KindUUID) {
		return Filter{}, domainerrors.ErrInvalidQuery.WithDetailsf("operator %q is not supported on %q", op, name)
	}

	filter := Filter{Field: field, Op: op}
	if op == OpIn {
		for _, part := range strings.Split(operand, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			v, err := convert(field, part)
			if err != nil {
				return Filter{}, domainerrors.ErrInvalidQuery.WithDetailsf("%q: %v", key, err)
			}
			filter.Values = append(filter.Values, v)
		}
		if len(filter.Values) == 0 {
			return Filter{}, domainerrors.ErrInvalidQuery.WithDetailsf("missing value for %q", key)
		}

		return filter, nil
	}

	v, err := convert(field, operand)
	if err != nil {
		return Filter{}, domainerrors.ErrInvalidQuery.WithDetailsf("%q: %v", key, err)
	}
	filter.Value = v

	return filter, nil
}

type conversionError struct {
	value string
	kind  Kind
}

func (e *conversionError) Error() string {
	return strconv.Quote(e.value) + " is not a valid " + e.kind.String()
}

func convert(field Field, raw string) (any, error) {
	switch field.Kind {
	case KindNumber:
		n, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, &conversionError{value: raw, kind: field.Kind}
		}

		return n, nil
	case KindBool:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, &conversionError{value: raw, kind: field.Kind}
		}

		return b, nil
	case KindTime:
		for _, layout := range []string{time.RFC3339, time.DateOnly} {
			if t, err := time.Parse(layout, raw); err == nil {
				return t, nil
			}
		}

		return nil, &conversionError{value: raw, kind: field.Kind}
	case KindUUID:
		id, err := uuid.Parse(raw)
		if err != nil {
			return nil, &conversionError{value: raw, kind: field.Kind}
		}

		return id, nil
	default:
		return raw, nil
	}
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}

	return out
}

func parseSelect(schema *Schema, raw string) ([]string, error) {
	names := splitList(raw)
	if len(names) == 0 {
		return nil, nil
	}

	selected := make([]string, 0, len(names)+1)
	for _, name := range names {
		if !schema.CanProject(name) {
			return nil, domainerrors.ErrInvalidQuery.WithDetailsf("unknown select field %q", name)
		}
		if !slices.Contains(selected, name) {
			selected = append(selected, name)
		}
	}
	if !slices.Contains(selected, "id") {
		selected = append(selected, "id")
	}

	return selected, nil
}

func parseSort(schema *Schema, raw string) ([]Sort, error) {
	names := splitList(raw)
	if len(names) == 0 {
		return schema.DefaultSort(), nil
	}

	sorts := make([]Sort, 0, len(names))
	for _, name := range names {
		desc := strings.HasPrefix(name, "-")
		name = strings.TrimLeft(name, "-+")

		field, ok := schema.Field(name)
		if !ok || !field.Sortable {
			return nil, domainerrors.ErrInvalidQuery.WithDetailsf("unknown sort field %q", name)
		}
		sorts = append(sorts, Sort{Field: field, Desc: desc})
	}

	return sorts, nil
}
