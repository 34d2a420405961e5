// Package query turns raw list query strings into a storage-neutral plan of
// filters, sort keys, projection and paging, and shapes the resulting page.
package query

// Kind is the value type of a filterable field.
type Kind int

const (
	KindString Kind = iota
	KindNumber
	KindBool
	KindTime
	KindUUID
)

func (k Kind) String() string {
	switch k {
	case KindNumber:
		return "number"
	case KindBool:
		return "boolean"
	case KindTime:
		return "time"
	case KindUUID:
		return "id"
	default:
		return "string"
	}
}

// Through routes a filter through a link table:
// <Column> IN (SELECT <Key> FROM <Table> WHERE <Value> op ?).
type Through struct {
	Table string
	Key   string
	Value string
}

// Field is a public field name bound to a storage column.
type Field struct {
	Name       string
	Column     string
	Kind       Kind
	Filterable bool
	Sortable   bool
	Through    *Through
}

// Schema declares which fields of a resource can be filtered, sorted and projected.
type Schema struct {
	Resource    string
	fields      map[string]Field
	projectable map[string]struct{}
	defaultSort []Sort
}

// NewSchema builds a schema. Default sort is newest first.
func NewSchema(resource string, fields ...Field) *Schema {
	s := &Schema{
		Resource:    resource,
		fields:      make(map[string]Field, len(fields)),
		projectable: map[string]struct{}{"id": {}},
	}
	for _, f := range fields {
		s.fields[f.Name] = f
	}
	if f, ok := s.fields["created_at"]; ok {
		s.defaultSort = []Sort{{Field: f, Desc: true}}
	}

	return s
}

// WithProjection registers the top-level response keys allowed in select.
func (s *Schema) WithProjection(keys ...string) *Schema {
	for _, k := range keys {
		s.projectable[k] = struct{}{}
	}

	return s
}

// Field looks up a field by public name.
func (s *Schema) Field(name string) (Field, bool) {
	f, ok := s.fields[name]

	return f, ok
}

// CanProject reports whether key may appear in select.
func (s *Schema) CanProject(key string) bool {
	_, ok := s.projectable[key]

	return ok
}

// DefaultSort returns the sort applied when none is requested.
func (s *Schema) DefaultSort() []Sort {
	return append([]Sort(nil), s.defaultSort...)
}

func text(name, column string) Field {
	return Field{Name: name, Column: column, Kind: KindString, Filterable: true, Sortable: true}
}

func number(name, column string) Field {
	return Field{Name: name, Column: column, Kind: KindNumber, Filterable: true, Sortable: true}
}

func boolean(name, column string) Field {
	return Field{Name: name, Column: column, Kind: KindBool, Filterable: true, Sortable: true}
}

func timestamp(name, column string) Field {
	return Field{Name: name, Column: column, Kind: KindTime, Filterable: true, Sortable: true}
}

func ref(name, column string) Field {
	return Field{Name: name, Column: column, Kind: KindUUID, Filterable: true}
}
