package types

import (
	"fmt"

	"github.com/samber/lo"
	"gorm.io/gorm/clause"
)

type CommonFilterOperator string

const (
	CommonFilterOperatorEq    CommonFilterOperator = "eq"
	CommonFilterOperatorNotEq CommonFilterOperator = "not_eq"
	CommonFilterOperatorLt    CommonFilterOperator = "lt"
	CommonFilterOperatorLte   CommonFilterOperator = "lte"
	CommonFilterOperatorGt    CommonFilterOperator = "gt"
	CommonFilterOperatorGte   CommonFilterOperator = "gte"
	CommonFilterOperatorRange CommonFilterOperator = "range"
	CommonFilterOperatorIn    CommonFilterOperator = "in"
	CommonFilterOperatorNull  CommonFilterOperator = "is_null"
	// CommonFilterOperatorOr matches when any nested filter matches.
	CommonFilterOperatorOr CommonFilterOperator = "or"
)

type CommonFilter struct {
	Field    string               `json:"field"`
	Operator CommonFilterOperator `json:"operator"`
	Values   []any                `json:"values"`
	Filters  []CommonFilter       `json:"filters"`
}

// Validate rejects filters on columns outside allowed, including nested ones.
// Field names end up in SQL, so every caller must validate before Build.
func (f *CommonFilter) Validate(allowed []string) error {
	if f.Operator == CommonFilterOperatorOr {
		if len(f.Filters) == 0 {
			return fmt.Errorf("or filter needs nested filters")
		}
		for i := range f.Filters {
			if err := f.Filters[i].Validate(allowed); err != nil {
				return err
			}
		}
		return nil
	}
	if !lo.Contains(allowed, f.Field) {
		return fmt.Errorf("filter on field %q is not allowed", f.Field)
	}
	if f.Operator != CommonFilterOperatorNull && len(f.Values) == 0 {
		return fmt.Errorf("filter on field %q has no values", f.Field)
	}
	if f.Operator == CommonFilterOperatorRange && len(f.Values) < 2 {
		return fmt.Errorf("range filter on field %q needs a lower and an upper bound", f.Field)
	}
	return nil
}

// Build constructs a GORM expression.
func (f *CommonFilter) Build(builder clause.Builder) {
	if expr := f.expression(); expr != nil {
		expr.Build(builder)
	}
}

func (f *CommonFilter) expression() clause.Expression {
	switch f.Operator {
	case CommonFilterOperatorOr:
		exprs := make([]clause.Expression, 0, len(f.Filters))
		for i := range f.Filters {
			if e := f.Filters[i].expression(); e != nil {
				exprs = append(exprs, e)
			}
		}
		if len(exprs) == 0 {
			return nil
		}
		return clause.Or(exprs...)
	case CommonFilterOperatorNull:
		return clause.Expr{SQL: "? IS NULL", Vars: []interface{}{clause.Column{Name: f.Field}}}
	}

	if len(f.Values) == 0 {
		return nil
	}
	value := f.Values[0]
	col := clause.Column{Name: f.Field}

	switch f.Operator {
	case CommonFilterOperatorEq:
		return clause.Eq{Column: col, Value: value}
	case CommonFilterOperatorNotEq:
		return clause.Neq{Column: col, Value: value}
	case CommonFilterOperatorLt:
		return clause.Lt{Column: col, Value: value}
	case CommonFilterOperatorLte:
		return clause.Lte{Column: col, Value: value}
	case CommonFilterOperatorGt:
		return clause.Gt{Column: col, Value: value}
	case CommonFilterOperatorGte:
		return clause.Gte{Column: col, Value: value}
	case CommonFilterOperatorRange:
		if len(f.Values) < 2 {
			return nil
		}
		return clause.And(clause.Gte{Column: col, Value: f.Values[0]}, clause.Lte{Column: col, Value: f.Values[1]})
	case CommonFilterOperatorIn:
		return clause.IN{Column: col, Values: f.Values}
	default:
		return nil
	}
}

// FiltersAnd combines filters into one clause.Expression; an empty list matches everything.
type FiltersAnd []*CommonFilter

func (w FiltersAnd) Build(builder clause.Builder) {
	exprs := make([]clause.Expression, 0, len(w))
	for _, f := range w {
		if e := f.expression(); e != nil {
			exprs = append(exprs, e)
		}
	}
	if len(exprs) == 0 {
		builder.WriteString("1=1")
		return
	}
	clause.And(exprs...).Build(builder)
}
