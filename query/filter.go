// Package query holds storage-independent filter, sort and page descriptions.
// Each repository backend translates them into its own query language.
package query

// Op is a predicate operator.
type Op int

const (
	OpEq Op = iota + 1
	OpIsNull
	OpNotNull
	OpContains
	OpContainsAny
	OpIn
)

// Predicate is one typed condition on a storage field. Field names are the
// storage names (gorm column == bson key).
type Predicate struct {
	Op     Op
	Field  string
	Fields []string // OpContainsAny only
	Value  interface{}
}

// Filter is a conjunction of predicates. The zero value matches everything.
// Builder methods return a new Filter so a base scope can be shared.
type Filter struct {
	preds []Predicate
}

func Where() Filter { return Filter{} }

func (f Filter) with(p Predicate) Filter {
	preds := make([]Predicate, len(f.preds), len(f.preds)+1)
	copy(preds, f.preds)
	return Filter{preds: append(preds, p)}
}

func (f Filter) Eq(field string, value interface{}) Filter {
	return f.with(Predicate{Op: OpEq, Field: field, Value: value})
}

func (f Filter) IsNull(field string) Filter {
	return f.with(Predicate{Op: OpIsNull, Field: field})
}

func (f Filter) NotNull(field string) Filter {
	return f.with(Predicate{Op: OpNotNull, Field: field})
}

// Contains is a case-insensitive substring match. Empty needles are ignored.
func (f Filter) Contains(field, needle string) Filter {
	if needle == "" {
		return f
	}
	return f.with(Predicate{Op: OpContains, Field: field, Value: needle})
}

// ContainsAny matches when any of fields contains needle (case-insensitive).
func (f Filter) ContainsAny(fields []string, needle string) Filter {
	if needle == "" || len(fields) == 0 {
		return f
	}
	return f.with(Predicate{Op: OpContainsAny, Fields: fields, Value: needle})
}

// In matches when field equals one of values.
func (f Filter) In(field string, values []string) Filter {
	return f.with(Predicate{Op: OpIn, Field: field, Value: values})
}

// And appends all predicates of other.
func (f Filter) And(other Filter) Filter {
	out := f
	for _, p := range other.preds {
		out = out.with(p)
	}
	return out
}

func (f Filter) Predicates() []Predicate { return f.preds }

func (f Filter) Empty() bool { return len(f.preds) == 0 }

// Query is a filter plus ordering and a window. Limit 0 means unbounded.
type Query struct {
	Filter Filter
	Sort   []SortKey
	Offset int
	Limit  int
}
