package postgres

import (
	"context"
	"fmt"
	"strings"

	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/domain/query"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// scope narrows or decorates a statement.
type scope func(*gorm.DB) *gorm.DB

// listScopes splits scopes that filter rows from scopes that only shape the
// fetched page, such as preloads, which must stay out of the count.
type listScopes struct {
	where []scope
	find  []scope
}

// listModels runs a plan against the table of M. The total is counted on the
// same filtered statement, before ordering and paging are added. Column names
// only ever come from a query.Schema, never from the request.
func listModels[M any](ctx context.Context, db *gorm.DB, plan *query.Plan, scopes listScopes) ([]*M, int64, error) {
	base := db.WithContext(ctx).Model(new(M))
	for _, s := range scopes.where {
		base = s(base)
	}
	base = applyFilters(base, plan.Filters)

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, domainerrors.NewDatabaseExecuteError(err, "failed to count rows")
	}

	var rows []*M
	stmt := base.Session(&gorm.Session{})
	for _, s := range scopes.find {
		stmt = s(stmt)
	}
	stmt = applySort(stmt, plan.Sort).
		Offset(plan.Offset()).
		Limit(plan.Limit)
	if err := stmt.Find(&rows).Error; err != nil {
		return nil, 0, domainerrors.NewDatabaseExecuteError(err, "failed to list rows")
	}

	return rows, total, nil
}

func applyFilters(db *gorm.DB, filters []query.Filter) *gorm.DB {
	for _, f := range filters {
		db = applyFilter(db, f)
	}

	return db
}

func applyFilter(db *gorm.DB, f query.Filter) *gorm.DB {
	column := f.Field.Column
	if f.Field.Through != nil {
		t := f.Field.Through
		sub := fmt.Sprintf("SELECT %s FROM %s WHERE %s", t.Key, t.Table, condition(t.Value, f.Op))

		return db.Where(fmt.Sprintf("%s IN (%s)", column, sub), operand(f))
	}

	return db.Where(condition(column, f.Op), operand(f))
}

func condition(column string, op query.Operator) string {
	if op == query.OpIn {
		return column + " IN ?"
	}

	return column + " " + op.SQL() + " ?"
}

func operand(f query.Filter) any {
	if f.Op == query.OpIn {
		return f.Values
	}

	return f.Value
}

func applySort(db *gorm.DB, sorts []query.Sort) *gorm.DB {
	for _, s := range sorts {
		db = db.Order(clause.OrderByColumn{Column: clause.Column{Name: s.Field.Column}, Desc: s.Desc})
	}

	// Stable paging when sort keys tie.
	return db.Order(clause.OrderByColumn{Column: clause.Column{Name: "id"}})
}

// containsScope matches term as a case-insensitive substring of any column.
func containsScope(term string, columns ...string) scope {
	return func(db *gorm.DB) *gorm.DB {
		term = strings.TrimSpace(term)
		if term == "" || len(columns) == 0 {
			return db
		}

		pattern := "%" + escapeLike(strings.ToLower(term)) + "%"
		parts := make([]string, len(columns))
		args := make([]any, len(columns))
		for i, c := range columns {
			parts[i] = "LOWER(" + c + ") LIKE ? ESCAPE '\\'"
			args[i] = pattern
		}

		return db.Where("("+strings.Join(parts, " OR ")+")", args...)
	}
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
