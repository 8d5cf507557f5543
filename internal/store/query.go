package store

import (
	"fmt"
	"strings"
)

// PageSize is the fixed number of tasks returned per page.
const PageSize = 10

// SortDirection orders a listing.
type SortDirection string

const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

// DefaultSort is applied when a listing request carries no sort parameter.
var DefaultSort = Sort{Field: "id", Direction: SortAsc}

// Sort names the field a listing is ordered by and its direction.
// Field is validated by the store implementation against the columns it can order by.
type Sort struct {
	Field     string
	Direction SortDirection
}

// ParseSort parses a "field,direction" specification. The direction must be
// exactly "asc" or "desc"; an empty specification yields DefaultSort.
func ParseSort(spec string) (Sort, error) {
	if strings.TrimSpace(spec) == "" {
		return DefaultSort, nil
	}

	parts := strings.Split(spec, ",")
	if len(parts) != 2 {
		return Sort{}, fmt.Errorf("%w: expected \"field,direction\", got %q", ErrInvalidSort, spec)
	}

	field := strings.TrimSpace(parts[0])
	if field == "" {
		return Sort{}, fmt.Errorf("%w: empty sort field", ErrInvalidSort)
	}

	dir := SortDirection(strings.TrimSpace(parts[1]))
	if dir != SortAsc && dir != SortDesc {
		return Sort{}, fmt.Errorf("%w: invalid sort direction %q", ErrInvalidSort, parts[1])
	}

	return Sort{Field: field, Direction: dir}, nil
}

// String renders the sort back into its "field,direction" form.
func (s Sort) String() string {
	return s.Field + "," + string(s.Direction)
}

// Page selects a window of a listing. Number is 1-based.
type Page struct {
	Number int
	Size   int
}

// NewPage returns the 1-based page n with the fixed PageSize.
func NewPage(n int) (Page, error) {
	if n < 1 {
		return Page{}, fmt.Errorf("%w: page must be >= 1, got %d", ErrInvalidPage, n)
	}
	return Page{Number: n, Size: PageSize}, nil
}

// Offset returns the number of rows to skip.
func (p Page) Offset() int {
	return (p.Number - 1) * p.Size
}

// TaskFilter holds the optional predicates of a task listing. Nil ids and
// empty strings are ignored; everything that is set is combined with AND.
type TaskFilter struct {
	AuthorID         *int64
	AssigneeID       *int64
	StatusContains   string
	PriorityContains string
}

// IsEmpty reports whether no predicate is set.
func (f TaskFilter) IsEmpty() bool {
	return f.AuthorID == nil && f.AssigneeID == nil &&
		strings.TrimSpace(f.StatusContains) == "" &&
		strings.TrimSpace(f.PriorityContains) == ""
}
