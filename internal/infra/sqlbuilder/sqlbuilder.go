// Package sqlbuilder renders listing filters and orderings as SQL fragments
// shared by the relational job stores.
package sqlbuilder

import (
	"fmt"
	"strconv"
	"strings"

	"job-board/internal/domain"
)

// Placeholder renders the n-th (1-based) bind parameter of a statement.
type Placeholder func(n int) string

// Dollar renders PostgreSQL style parameters ($1, $2, ...).
func Dollar(n int) string { return "$" + strconv.Itoa(n) }

// Question renders SQLite style parameters.
func Question(int) string { return "?" }

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// EscapeLike escapes LIKE wildcards so s only ever matches literally.
func EscapeLike(s string) string {
	return likeEscaper.Replace(s)
}

// Fold is the case folding applied to the title_folded and location_folded
// columns at write time and to filter text at query time. SQL LOWER is not
// used: SQLite only folds ASCII.
func Fold(s string) string {
	return strings.ToLower(s)
}

// Where renders f as a WHERE clause with its arguments, numbering parameters
// from 1. It returns an empty clause when f constrains nothing.
//
// Title and location match as case-insensitive substrings of the folded
// columns. Salary bounds are evaluated against the salary_min / salary_max columns
// derived from salary_range at write time. A NULL side never satisfies a bound.
func Where(f domain.JobFilter, ph Placeholder) (string, []any) {
	var (
		conds []string
		args  []any
	)
	add := func(format string, arg any) {
		args = append(args, arg)
		conds = append(conds, fmt.Sprintf(format, ph(len(args))))
	}

	if f.Title != "" {
		add(`title_folded LIKE %s ESCAPE '\'`, "%"+EscapeLike(Fold(f.Title))+"%")
	}
	if f.Location != "" {
		add(`location_folded LIKE %s ESCAPE '\'`, "%"+EscapeLike(Fold(f.Location))+"%")
	}
	if f.JobType != "" {
		add("job_type = %s", string(f.JobType))
	}
	if f.SalaryMin != nil {
		add("salary_min IS NOT NULL AND salary_min >= %s", *f.SalaryMin)
	}
	if f.SalaryMax != nil {
		add("salary_max IS NOT NULL AND salary_max <= %s", *f.SalaryMax)
	}

	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

// OrderBy renders s as an ORDER BY clause. Only whitelisted columns are ever
// emitted; an unknown field falls back to created_at. A missing salary range
// sorts last ascending and first descending, matching in-process ordering.
// No secondary key is added, so rows with equal keys come back in whatever
// order the database produces.
func OrderBy(s domain.Sort) string {
	col := s.Field.Column()
	if col == "" {
		col = domain.SortByCreatedAt.Column()
	}
	dir := "DESC"
	if s.Order == domain.SortAsc {
		dir = "ASC"
	}
	clause := " ORDER BY " + col + " " + dir
	if s.Field == domain.SortBySalaryRange {
		if dir == "ASC" {
			clause += " NULLS LAST"
		} else {
			clause += " NULLS FIRST"
		}
	}
	return clause
}

// LimitOffset renders a LIMIT/OFFSET clause using parameters starting at n.
func LimitOffset(ph Placeholder, n int) string {
	return fmt.Sprintf(" LIMIT %s OFFSET %s", ph(n), ph(n+1))
}
