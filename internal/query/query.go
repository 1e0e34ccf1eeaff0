// Package query provides the stateless list primitives every screen
// shares: substring search across chosen fields, stable tri-state
// sorting, pagination slicing and page-count arithmetic. Functions never
// mutate their input.
package query

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Direction is the tri-state sort direction cycled by repeated selection
// of the same column: none -> asc -> desc -> none.
type Direction int

const (
	DirectionNone Direction = iota
	DirectionAsc
	DirectionDesc
)

func (d Direction) Next() Direction {
	switch d {
	case DirectionNone:
		return DirectionAsc
	case DirectionAsc:
		return DirectionDesc
	default:
		return DirectionNone
	}
}

func (d Direction) String() string {
	switch d {
	case DirectionAsc:
		return "asc"
	case DirectionDesc:
		return "desc"
	default:
		return "none"
	}
}

// ParseDirection maps the wire form back to a Direction; anything
// unrecognized is none.
func ParseDirection(s string) Direction {
	switch s {
	case "asc":
		return DirectionAsc
	case "desc":
		return DirectionDesc
	default:
		return DirectionNone
	}
}

// SortState tracks which column a list is sorted by and in which
// direction.
type SortState struct {
	Field string
	Dir   Direction
}

// Toggle advances the state for a column selection: re-selecting the
// current column cycles its direction, selecting a new column starts
// ascending.
func (st SortState) Toggle(field string) SortState {
	if st.Field == field {
		next := st.Dir.Next()
		if next == DirectionNone {
			return SortState{}
		}
		return SortState{Field: field, Dir: next}
	}
	return SortState{Field: field, Dir: DirectionAsc}
}

// Field extracts a sortable/searchable value from a record. Return nil
// for absent values; nil never matches a search term and sorts first
// ascending, last descending.
type Field[T any] func(T) any

// Filter keeps the records whose stringified value of any listed field
// contains term, case-insensitively. A blank or whitespace-only term
// returns the input unchanged.
func Filter[T any](items []T, term string, fields ...Field[T]) []T {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return items
	}
	var out []T
	for _, item := range items {
		for _, field := range fields {
			s, ok := stringify(field(item))
			if ok && strings.Contains(strings.ToLower(s), term) {
				out = append(out, item)
				break
			}
		}
	}
	return out
}

// Sort returns a stably sorted copy: strings compare with locale-aware
// collation, numbers and times relationally, and equal values keep
// their relative order. DirectionNone returns the input unchanged.
func Sort[T any](items []T, field Field[T], dir Direction) []T {
	if dir == DirectionNone || field == nil {
		return items
	}
	out := make([]T, len(items))
	copy(out, items)
	coll := collate.New(language.English)
	sort.SliceStable(out, func(i, j int) bool {
		c := compare(coll, field(out[i]), field(out[j]))
		if dir == DirectionDesc {
			return c > 0
		}
		return c < 0
	})
	return out
}

// Paginate returns the 1-based page of the given size; out-of-range
// pages yield an empty slice.
func Paginate[T any](items []T, page, pageSize int) []T {
	if page < 1 || pageSize < 1 {
		return nil
	}
	start := (page - 1) * pageSize
	if start >= len(items) {
		return nil
	}
	end := start + pageSize
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}

// TotalPages is ceil(count/pageSize); zero items means zero pages.
func TotalPages(count, pageSize int) int {
	if count <= 0 || pageSize <= 0 {
		return 0
	}
	return (count + pageSize - 1) / pageSize
}

// compare orders two field values: nil before everything, strings by
// collation, numbers and times by magnitude, anything else by its
// printed form.
func compare(coll *collate.Collator, a, b any) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	}
	if as, ok := a.(string); ok {
		if bs, ok := b.(string); ok {
			return coll.CompareString(as, bs)
		}
	}
	if at, ok := a.(time.Time); ok {
		if bt, ok := b.(time.Time); ok {
			switch {
			case at.Before(bt):
				return -1
			case at.After(bt):
				return 1
			}
			return 0
		}
	}
	af, aok := toFloat(a)
	bf, bok := toFloat(b)
	if aok && bok {
		switch {
		case af < bf:
			return -1
		case af > bf:
			return 1
		}
		return 0
	}
	return strings.Compare(fmt.Sprint(a), fmt.Sprint(b))
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	case bool:
		if n {
			return 1, true
		}
		return 0, true
	}
	return 0, false
}

func stringify(v any) (string, bool) {
	if v == nil {
		return "", false
	}
	if s, ok := v.(string); ok {
		return s, true
	}
	if t, ok := v.(time.Time); ok {
		return t.Format("02 Jan 2006"), true
	}
	return fmt.Sprint(v), true
}
