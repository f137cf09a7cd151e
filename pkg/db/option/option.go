// Package option provides composable query modifiers for the generic
// repository layer.
package option

import (
	"fmt"

	"gorm.io/gorm"
)

// QueryOption mutates a gorm statement before execution.
type QueryOption interface {
	Apply(*gorm.DB) *gorm.DB
}

// Operator is a SQL comparison operator for range conditions.
type Operator string

const (
	EQ  Operator = "="
	GTE Operator = ">="
	LTE Operator = "<="
)

// Condition is a single field comparison.
type Condition struct {
	Field    string
	Operator Operator
	Value    any
}

type operatorOption struct {
	cond Condition
}

func (o operatorOption) Apply(db *gorm.DB) *gorm.DB {
	return db.Where(fmt.Sprintf("%s %s ?", o.cond.Field, o.cond.Operator), o.cond.Value)
}

// ApplyOperator builds a QueryOption from a comparison condition.
func ApplyOperator(cond Condition) QueryOption {
	return operatorOption{cond: cond}
}

// QuerySortBy orders results by an allow-listed column. Columns outside
// Allow are ignored, falling back to the Default expression.
type QuerySortBy struct {
	SortBy  string
	OrderBy string
	Allow   map[string]bool
	Default string
}

// WithQuerySortBy bundles user-supplied sort parameters with the
// allow-list in one value.
func WithQuerySortBy(sortBy, orderBy string, allow map[string]bool) QuerySortBy {
	return QuerySortBy{SortBy: sortBy, OrderBy: orderBy, Allow: allow}
}

type sortOption struct {
	sort QuerySortBy
}

func (o sortOption) Apply(db *gorm.DB) *gorm.DB {
	if o.sort.SortBy != "" && o.sort.Allow[o.sort.SortBy] {
		direction := "asc"
		if o.sort.OrderBy == "desc" {
			direction = "desc"
		}
		return db.Order(fmt.Sprintf("%s %s", o.sort.SortBy, direction))
	}
	if o.sort.Default != "" {
		return db.Order(o.sort.Default)
	}
	return db
}

// WithSortBy wraps a QuerySortBy as a QueryOption.
func WithSortBy(sort QuerySortBy) QueryOption {
	return sortOption{sort: sort}
}

type orderOption struct {
	expr string
}

func (o orderOption) Apply(db *gorm.DB) *gorm.DB {
	return db.Order(o.expr)
}

// WithOrder applies a fixed order expression.
func WithOrder(expr string) QueryOption {
	return orderOption{expr: expr}
}
