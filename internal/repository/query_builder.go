package repository

import (
	"fmt"
	"strings"

	"github.com/ITCS333/course-project-itcs333-group-10-project-sec-2/internal/models"
	"github.com/ITCS333/course-project-itcs333-group-10-project-sec-2/internal/validation"
)

const (
	OrderAsc  = "ASC"
	OrderDesc = "DESC"
)

// ListSpec describes how one resource may be listed. Every identifier in it
// is a constant; only values from ListParams are bound as parameters.
type ListSpec struct {
	Table         string
	Columns       []string
	KeyColumn     string
	SearchColumns []string
	SortColumns   []string
	DefaultSort   string
	DefaultOrder  string
	FilterColumn  string
}

type ListParams struct {
	Search string
	Sort   string
	Order  string
	// Filter is bound against FilterColumn when non-nil.
	Filter interface{}
}

func paramsFromOptions(opts models.ListOptions) ListParams {
	return ListParams{Search: opts.Search, Sort: opts.Sort, Order: opts.Order}
}

// Build returns the SELECT statement and its bound values.
func (s ListSpec) Build(p ListParams) (string, []interface{}) {
	var (
		b     strings.Builder
		where []string
		args  []interface{}
	)

	b.WriteString("SELECT ")
	b.WriteString(strings.Join(s.Columns, ", "))
	b.WriteString(" FROM ")
	b.WriteString(s.Table)

	if s.FilterColumn != "" && p.Filter != nil {
		args = append(args, p.Filter)
		where = append(where, fmt.Sprintf("%s = $%d", s.FilterColumn, len(args)))
	}

	if term := strings.TrimSpace(p.Search); term != "" && len(s.SearchColumns) > 0 {
		args = append(args, "%"+escapeLike(term)+"%")
		conds := make([]string, len(s.SearchColumns))
		for i, col := range s.SearchColumns {
			conds[i] = fmt.Sprintf("%s ILIKE $%d", col, len(args))
		}
		where = append(where, "("+strings.Join(conds, " OR ")+")")
	}

	if len(where) > 0 {
		b.WriteString(" WHERE ")
		b.WriteString(strings.Join(where, " AND "))
	}

	sortColumn, order := s.resolveSort(p.Sort, p.Order)
	fmt.Fprintf(&b, " ORDER BY %s %s", sortColumn, order)
	if s.KeyColumn != "" && s.KeyColumn != sortColumn {
		fmt.Fprintf(&b, ", %s %s", s.KeyColumn, OrderAsc)
	}

	return b.String(), args
}

func (s ListSpec) resolveSort(sort, order string) (string, string) {
	column := validation.OneOf(strings.ToLower(strings.TrimSpace(sort)), s.SortColumns, s.DefaultSort)
	direction := validation.OneOf(strings.ToUpper(strings.TrimSpace(order)), []string{OrderAsc, OrderDesc}, s.DefaultOrder)
	return column, direction
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike makes LIKE wildcards in a search term match literally.
func escapeLike(term string) string {
	return likeEscaper.Replace(term)
}

var (
	studentListSpec = ListSpec{
		Table:         "students",
		Columns:       []string{"student_id", "name", "email", "created_at", "updated_at"},
		KeyColumn:     "student_id",
		SearchColumns: []string{"name", "student_id", "email"},
		SortColumns:   []string{"name", "student_id", "email"},
		DefaultSort:   "name",
		DefaultOrder:  OrderAsc,
	}

	assignmentListSpec = ListSpec{
		Table:         "assignments",
		Columns:       []string{"id", "title", "description", "to_char(due_date, 'YYYY-MM-DD') AS due_date", "files", "created_at", "updated_at"},
		KeyColumn:     "id",
		SearchColumns: []string{"title", "description"},
		SortColumns:   []string{"title", "due_date", "created_at"},
		DefaultSort:   "due_date",
		DefaultOrder:  OrderAsc,
	}

	assignmentCommentListSpec = ListSpec{
		Table:        "assignment_comments",
		Columns:      []string{"id", "assignment_id", "author", "text", "created_at"},
		KeyColumn:    "id",
		SortColumns:  []string{"created_at"},
		DefaultSort:  "created_at",
		DefaultOrder: OrderDesc,
		FilterColumn: "assignment_id",
	}

	topicListSpec = ListSpec{
		Table:         "topics",
		Columns:       []string{"topic_id", "subject", "message", "author", "created_at", "updated_at"},
		KeyColumn:     "topic_id",
		SearchColumns: []string{"subject", "message", "author"},
		SortColumns:   []string{"subject", "author", "created_at"},
		DefaultSort:   "created_at",
		DefaultOrder:  OrderDesc,
	}

	replyListSpec = ListSpec{
		Table:        "replies",
		Columns:      []string{"reply_id", "topic_id", "text", "author", "created_at"},
		KeyColumn:    "reply_id",
		SortColumns:  []string{"created_at"},
		DefaultSort:  "created_at",
		DefaultOrder: OrderAsc,
		FilterColumn: "topic_id",
	}

	weekListSpec = ListSpec{
		Table:         "weeks",
		Columns:       []string{"week_id", "title", "to_char(start_date, 'YYYY-MM-DD') AS start_date", "description", "links", "created_at", "updated_at"},
		KeyColumn:     "week_id",
		SearchColumns: []string{"title", "description"},
		SortColumns:   []string{"title", "start_date", "created_at"},
		DefaultSort:   "start_date",
		DefaultOrder:  OrderAsc,
	}

	weekCommentListSpec = ListSpec{
		Table:        "week_comments",
		Columns:      []string{"id", "week_id", "author", "text", "created_at"},
		KeyColumn:    "id",
		SortColumns:  []string{"created_at"},
		DefaultSort:  "created_at",
		DefaultOrder: OrderAsc,
		FilterColumn: "week_id",
	}
)

// updateBuilder collects the SET clause of a partial update.
type updateBuilder struct {
	clauses []string
	args    []interface{}
}

func (u *updateBuilder) set(column string, value interface{}) {
	u.args = append(u.args, value)
	u.clauses = append(u.clauses, fmt.Sprintf("%s = $%d", column, len(u.args)))
}

// Build always bumps updated_at so an update of identical values still
// matches the row.
func (u *updateBuilder) Build(spec ListSpec, key interface{}) (string, []interface{}) {
	clauses := append(append([]string{}, u.clauses...), "updated_at = NOW()")
	args := append(append([]interface{}{}, u.args...), key)

	query := fmt.Sprintf(
		"UPDATE %s SET %s WHERE %s = $%d RETURNING %s",
		spec.Table, strings.Join(clauses, ", "), spec.KeyColumn, len(args), strings.Join(spec.Columns, ", "),
	)
	return query, args
}

func selectByKey(spec ListSpec) string {
	return fmt.Sprintf("SELECT %s FROM %s WHERE %s = $1", strings.Join(spec.Columns, ", "), spec.Table, spec.KeyColumn)
}
