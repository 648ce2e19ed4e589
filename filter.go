package snapdb

import (
	"fmt"
)

// Filter selects documents. A nil Filter matches everything.
type Filter interface {
	Match(doc Value) bool
}

// Eq matches documents whose field deeply equals value.
func Eq(field string, value any) Filter {
	return eqFilter{field, ValueOf(value)}
}

// And matches documents satisfying every filter. And() matches everything.
func And(filters ...Filter) Filter {
	return andFilter(filters)
}

// Where wraps an arbitrary predicate over the document.
func Where(fn func(doc Value) bool) Filter {
	return funcFilter(fn)
}

type eqFilter struct {
	field string
	value Value
}

func (f eqFilter) Match(doc Value) bool {
	return doc.Get(f.field).Equal(f.value)
}

func (f eqFilter) String() string {
	return fmt.Sprintf("%s == %v", f.field, f.value)
}

type andFilter []Filter

func (f andFilter) Match(doc Value) bool {
	for _, sub := range f {
		if sub != nil && !sub.Match(doc) {
			return false
		}
	}
	return true
}

type funcFilter func(doc Value) bool

func (f funcFilter) Match(doc Value) bool {
	return f(doc)
}

// singleEq detects filters that constrain exactly one field by equality,
// unwrapping single-element conjunctions. These are the filters eligible
// for index-backed lookup instead of a full scan.
func singleEq(f Filter) (field string, value Value, ok bool) {
	for {
		switch ff := f.(type) {
		case eqFilter:
			return ff.field, ff.value, true
		case andFilter:
			if len(ff) != 1 {
				return "", Value{}, false
			}
			f = ff[0]
		default:
			return "", Value{}, false
		}
	}
}
