// Package query implements the filter -> sort -> paginate pipeline shared by
// every list endpoint. All functions are pure: the result depends only on the
// input collection, the filter, the sort state and the page number.
package query

import (
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// PageSize is fixed for all list views.
const PageSize = 10

type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// Sort is a single-key sort state. An empty key means insertion order.
type Sort struct {
	Key string
	Dir Direction
}

// Toggle returns the state after selecting key: selecting the current key
// flips the direction, selecting a new key starts ascending. It codifies the
// column-header cycle the list views follow; handlers only consume the
// resulting key and direction from the request, so nothing calls it
// server-side.
func (s Sort) Toggle(key string) Sort {
	if s.Key == key && s.Dir == Asc {
		return Sort{Key: key, Dir: Desc}
	}

	return Sort{Key: key, Dir: Asc}
}

var collator = collate.New(language.Spanish, collate.Loose)

// CompareStrings orders strings with Spanish collation, ignoring case and
// accents.
func CompareStrings(a, b string) int {
	return collator.CompareString(a, b)
}

func CompareNumbers(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}

	return 0
}

type Predicate[T any] func(T) bool

// Substring matches q case-insensitively against any of the given textual
// fields. An empty q passes everything.
func Substring[T any](q string, fields func(T) []string) Predicate[T] {
	q = strings.ToLower(strings.TrimSpace(q))

	return func(item T) bool {
		if q == "" {
			return true
		}

		for _, field := range fields(item) {
			if strings.Contains(strings.ToLower(field), q) {
				return true
			}
		}

		return false
	}
}

// Exact matches a categorical field exactly. An empty want passes everything.
func Exact[T any](want string, field func(T) string) Predicate[T] {
	return func(item T) bool {
		return want == "" || field(item) == want
	}
}

// Filter keeps the items satisfying every predicate, preserving order.
func Filter[T any](items []T, preds ...Predicate[T]) []T {
	result := make([]T, 0, len(items))

	for _, item := range items {
		keep := true

		for _, pred := range preds {
			if !pred(item) {
				keep = false

				break
			}
		}

		if keep {
			result = append(result, item)
		}
	}

	return result
}

// SortBy returns a sorted copy of items. The sort is stable, so equal keys
// keep their relative order and repeated runs yield identical output.
func SortBy[T any](items []T, cmp func(a, b T) int, dir Direction) []T {
	result := make([]T, len(items))
	copy(result, items)

	sort.SliceStable(result, func(i, j int) bool {
		if dir == Desc {
			return cmp(result[i], result[j]) > 0
		}

		return cmp(result[i], result[j]) < 0
	})

	return result
}

// Page is one page of a filtered collection. TotalItems counts the filtered
// collection, not the page.
type Page[T any] struct {
	Items      []T
	Number     int
	TotalPages int
	TotalItems int
}

// Paginate slices items into the requested page, clamping the page number to
// [1, totalPages].
func Paginate[T any](items []T, page int) Page[T] {
	totalPages := (len(items) + PageSize - 1) / PageSize

	if page < 1 {
		page = 1
	}

	if totalPages > 0 && page > totalPages {
		page = totalPages
	}

	start := (page - 1) * PageSize
	end := start + PageSize

	if start > len(items) {
		start = len(items)
	}

	if end > len(items) {
		end = len(items)
	}

	return Page[T]{
		Items:      items[start:end],
		Number:     page,
		TotalPages: totalPages,
		TotalItems: len(items),
	}
}
