package postgres

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/phrazzld/taskboard-api/internal/store"
)

const taskSelect = `
	SELECT t.id, t.title, t.description,
		t.status_id, s.name, t.priority_id, p.name,
		t.author_id, t.assignee_id, t.created_at, t.updated_at
	FROM tasks t
	JOIN task_statuses s ON s.id = t.status_id
	JOIN task_priorities p ON p.id = t.priority_id`

const taskCountSelect = `
	SELECT COUNT(*)
	FROM tasks t
	JOIN task_statuses s ON s.id = t.status_id
	JOIN task_priorities p ON p.id = t.priority_id`

// taskSortColumns maps accepted sort fields to columns. Both the wire names
// and their camelCase forms are accepted.
var taskSortColumns = map[string]string{
	"id":          "t.id",
	"title":       "t.title",
	"description": "t.description",
	"status":      "s.name",
	"priority":    "p.name",
	"author_id":   "t.author_id",
	"authorId":    "t.author_id",
	"assignee_id": "t.assignee_id",
	"assigneeId":  "t.assignee_id",
	"created_at":  "t.created_at",
	"createdAt":   "t.created_at",
	"updated_at":  "t.updated_at",
	"updatedAt":   "t.updated_at",
}

// taskPredicates accumulates WHERE clauses and their positional arguments.
type taskPredicates struct {
	clauses []string
	args    []any
}

func (p *taskPredicates) add(format string, arg any) {
	p.args = append(p.args, arg)
	p.clauses = append(p.clauses, fmt.Sprintf(format, "$"+strconv.Itoa(len(p.args))))
}

func (p *taskPredicates) where() string {
	if len(p.clauses) == 0 {
		return ""
	}
	return "\n\tWHERE " + strings.Join(p.clauses, "\n\t\tAND ")
}

// buildTaskPredicates turns the set fields of filter into AND-ed predicates.
// Status and priority match case-insensitively on a substring of the name.
func buildTaskPredicates(filter store.TaskFilter) *taskPredicates {
	p := &taskPredicates{}
	if filter.AuthorID != nil {
		p.add("t.author_id = %s", *filter.AuthorID)
	}
	if filter.AssigneeID != nil {
		p.add("t.assignee_id = %s", *filter.AssigneeID)
	}
	if v := strings.TrimSpace(filter.StatusContains); v != "" {
		p.add("LOWER(s.name) LIKE '%%' || LOWER(%s) || '%%'", v)
	}
	if v := strings.TrimSpace(filter.PriorityContains); v != "" {
		p.add("LOWER(p.name) LIKE '%%' || LOWER(%s) || '%%'", v)
	}
	return p
}

// buildTaskOrder resolves sort against the whitelist. Rows with equal sort
// values are ordered by id so that pages are stable.
func buildTaskOrder(sort store.Sort) (string, error) {
	column, ok := taskSortColumns[sort.Field]
	if !ok {
		return "", fmt.Errorf("%w: unknown sort field %q", store.ErrInvalidSort, sort.Field)
	}

	var dir string
	switch sort.Direction {
	case store.SortAsc:
		dir = "ASC"
	case store.SortDesc:
		dir = "DESC"
	default:
		return "", fmt.Errorf("%w: invalid sort direction %q", store.ErrInvalidSort, sort.Direction)
	}

	order := "\n\tORDER BY " + column + " " + dir
	if column != "t.id" {
		order += ", t.id ASC"
	}
	return order, nil
}

// buildTaskListQuery composes the query for one page of a filtered, sorted task listing.
func buildTaskListQuery(filter store.TaskFilter, sort store.Sort, page store.Page) (string, []any, error) {
	if page.Number < 1 {
		return "", nil, fmt.Errorf("%w: page must be >= 1, got %d", store.ErrInvalidPage, page.Number)
	}
	size := page.Size
	if size <= 0 {
		size = store.PageSize
	}

	order, err := buildTaskOrder(sort)
	if err != nil {
		return "", nil, err
	}

	p := buildTaskPredicates(filter)
	args := append(p.args, size, (page.Number-1)*size)
	query := taskSelect + p.where() + order +
		fmt.Sprintf("\n\tLIMIT $%d OFFSET $%d", len(args)-1, len(args))
	return query, args, nil
}

// buildTaskCountQuery composes the query counting all tasks matching filter.
func buildTaskCountQuery(filter store.TaskFilter) (string, []any) {
	p := buildTaskPredicates(filter)
	return taskCountSelect + p.where(), p.args
}
