package zone

import "golang.org/x/exp/slices"

type Operator int

const (
	// Equals matches a string field holding exactly the value.
	Equals Operator = iota
	// Contains matches a list field holding the value as one of its items.
	Contains
)

type Predicate struct {
	Field    string
	Operator Operator
	Value    string
}

func FieldEquals(field, value string) Predicate {
	return Predicate{Field: field, Operator: Equals, Value: value}
}

func FieldContains(field, value string) Predicate {
	return Predicate{Field: field, Operator: Contains, Value: value}
}

func (p Predicate) Matches(record Record) bool {
	switch p.Operator {
	case Equals:
		v, ok := record.String(p.Field)
		return ok && v == p.Value
	case Contains:
		v, ok := record.Strings(p.Field)
		return ok && slices.Contains(v, p.Value)
	default:
		return false
	}
}

// Query selects records of one type. All predicates must match.
type Query struct {
	RecordType RecordType
	Predicates []Predicate
}

func NewQuery(recordType RecordType, predicates ...Predicate) Query {
	return Query{RecordType: recordType, Predicates: predicates}
}

func (q Query) Matches(record Record) bool {
	if record.Type != q.RecordType {
		return false
	}
	for _, p := range q.Predicates {
		if !p.Matches(record) {
			return false
		}
	}
	return true
}

// Change describes a successful write against a zone.
type Change struct {
	ExternalID string
	RecordType RecordType
	Deleted    bool
}
