package postgres

import (
	"fmt"
	"strings"

	"github.com/taskdeck/taskdeck-api/internal/store"
)

// buildTaskFilter renders the WHERE clause for the params' filters along
// with the matching positional arguments. Filters combine conjunctively.
// An empty filter set yields an empty clause so the query remains valid
// without one.
func buildTaskFilter(params store.TaskListParams) (string, []any) {
	var conditions []string
	var args []any

	if params.Status != nil {
		args = append(args, string(*params.Status))
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)))
	}

	if params.SessionID != nil {
		args = append(args, *params.SessionID)
		conditions = append(conditions, fmt.Sprintf("session_id = $%d", len(args)))
	}

	if len(conditions) == 0 {
		return "", nil
	}

	return " WHERE " + strings.Join(conditions, " AND "), args
}

// buildBatchFilter renders the WHERE clause for batch listing. Only the
// session filter applies to batches.
func buildBatchFilter(params store.BatchListParams) (string, []any) {
	if params.SessionID == nil {
		return "", nil
	}
	return " WHERE session_id = $1", []any{*params.SessionID}
}

// buildTaskOrderBy renders the ORDER BY clause for the given sort field and
// direction.
//
// Priority and status sort by explicit per-direction ordinals rather than
// by the stored strings: the business ordering (high outranks medium
// outranks low, pending precedes in_progress precedes completed) is not
// the lexical order, and rows without a priority always sort after rows
// with one regardless of direction. The remaining fields sort by column
// value with NULLs last.
func buildTaskOrderBy(sortBy store.TaskSortField, order store.SortOrder) (string, error) {
	if !sortBy.IsValid() {
		return "", fmt.Errorf("unknown sort field: %q", sortBy)
	}
	if !order.IsValid() {
		return "", fmt.Errorf("unknown sort order: %q", order)
	}

	switch sortBy {
	case store.TaskSortPriority:
		if order == store.SortAsc {
			return " ORDER BY CASE priority WHEN 'low' THEN 1 WHEN 'medium' THEN 2 WHEN 'high' THEN 3 ELSE 4 END", nil
		}
		return " ORDER BY CASE priority WHEN 'high' THEN 1 WHEN 'medium' THEN 2 WHEN 'low' THEN 3 ELSE 4 END", nil

	case store.TaskSortStatus:
		if order == store.SortAsc {
			return " ORDER BY CASE status WHEN 'pending' THEN 1 WHEN 'in_progress' THEN 2 WHEN 'completed' THEN 3 ELSE 4 END", nil
		}
		return " ORDER BY CASE status WHEN 'completed' THEN 1 WHEN 'in_progress' THEN 2 WHEN 'pending' THEN 3 ELSE 4 END", nil

	default:
		direction := "ASC"
		if order == store.SortDesc {
			direction = "DESC"
		}
		return fmt.Sprintf(" ORDER BY %s %s NULLS LAST", sortBy, direction), nil
	}
}
