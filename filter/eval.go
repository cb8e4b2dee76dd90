package filter

import (
	"strconv"
	"strings"
)

// Result is the outcome of statically evaluating an expression.
type Result int

const (
	// ResultUnknown means the expression depends on non-constant data and
	// must be evaluated at runtime.
	ResultUnknown Result = iota
	// ResultTrue means the expression holds for every row of the file.
	ResultTrue
	// ResultFalse means the expression cannot hold for any row of the file.
	ResultFalse
)

func (r Result) String() string {
	switch r {
	case ResultTrue:
		return "true"
	case ResultFalse:
		return "false"
	default:
		return "unknown"
	}
}

// ConstantColumns describes the columns of one file whose value is fixed for
// the whole file: hive partition values and the synthetic filename column.
// Values is keyed by position in the scan's requested column list, matching
// ColumnBinding.ColumnIndex.
type ConstantColumns struct {
	TableIndex int
	Values     map[int]string
}

// Evaluate folds expr against the file's constant columns. It returns
// ResultFalse only when the expression provably cannot be satisfied; any
// doubt yields ResultUnknown so that the file is kept and the filter runs at
// execution time.
func Evaluate(expr Expression, cols ConstantColumns) Result {
	switch ex := expr.(type) {
	case *ConjunctionExpression:
		return evalConjunction(ex, cols)
	case *ComparisonExpression:
		return evalComparison(ex, cols)
	case *OperatorExpression:
		return evalOperator(ex, cols)
	case *ConstantExpression:
		if ex.Value.IsNull {
			return ResultFalse
		}
		if b, ok := ex.Value.Data.(bool); ok {
			if b {
				return ResultTrue
			}
			return ResultFalse
		}
		return ResultUnknown
	default:
		return ResultUnknown
	}
}

// evalConjunction applies three-valued AND/OR logic.
func evalConjunction(c *ConjunctionExpression, cols ConstantColumns) Result {
	and := c.Type() == TypeConjunctionAnd
	sawUnknown := false
	for _, child := range c.Children {
		switch Evaluate(child, cols) {
		case ResultFalse:
			if and {
				return ResultFalse
			}
		case ResultTrue:
			if !and {
				return ResultTrue
			}
		default:
			sawUnknown = true
		}
	}
	if sawUnknown {
		return ResultUnknown
	}
	if and {
		return ResultTrue
	}
	return ResultFalse
}

func evalOperator(o *OperatorExpression, cols ConstantColumns) Result {
	if len(o.Children) != 1 {
		return ResultUnknown
	}
	child := o.Children[0]
	switch o.Type() {
	case TypeOperatorNot:
		switch Evaluate(child, cols) {
		case ResultTrue:
			return ResultFalse
		case ResultFalse:
			return ResultTrue
		}
		return ResultUnknown
	case TypeOperatorIsNull, TypeOperatorIsNotNull:
		// partition and filename metadata is never NULL
		if _, ok := resolveConstantColumn(child, cols); !ok {
			return ResultUnknown
		}
		if o.Type() == TypeOperatorIsNull {
			return ResultFalse
		}
		return ResultTrue
	}
	return ResultUnknown
}

func evalComparison(c *ComparisonExpression, cols ConstantColumns) Result {
	switch c.Type() {
	case TypeCompareIn, TypeCompareNotIn:
		return evalIn(c, cols)
	}

	meta, value, ok := resolveOperands(c.Left, c.Right, cols)
	if !ok {
		return ResultUnknown
	}
	op := c.Type()
	if _, isColumn := resolveConstantColumn(c.Right, cols); isColumn {
		op = flipComparison(op)
	}
	return compareMeta(meta, op, value)
}

// evalIn handles column IN (list) / NOT IN (list) where the right side is a
// list_value function over constants.
func evalIn(c *ComparisonExpression, cols ConstantColumns) Result {
	meta, ok := resolveConstantColumn(c.Left, cols)
	if !ok {
		return ResultUnknown
	}
	fn, ok := c.Right.(*FunctionExpression)
	if !ok {
		return ResultUnknown
	}

	found := ResultFalse
	for _, child := range fn.Children {
		cons, ok := child.(*ConstantExpression)
		if !ok {
			return ResultUnknown
		}
		switch compareMeta(meta, TypeCompareEqual, cons.Value) {
		case ResultTrue:
			found = ResultTrue
		case ResultUnknown:
			if found != ResultTrue {
				found = ResultUnknown
			}
		}
	}

	if c.Type() == TypeCompareNotIn {
		switch found {
		case ResultTrue:
			return ResultFalse
		case ResultFalse:
			return ResultTrue
		}
		return ResultUnknown
	}
	return found
}

// resolveOperands identifies the (constant column, literal) pair of a
// comparison in either order.
func resolveOperands(left, right Expression, cols ConstantColumns) (meta string, value Value, ok bool) {
	if meta, ok := resolveConstantColumn(left, cols); ok {
		if cons, ok := constantOperand(right); ok {
			return meta, cons, true
		}
		return "", Value{}, false
	}
	if meta, ok := resolveConstantColumn(right, cols); ok {
		if cons, ok := constantOperand(left); ok {
			return meta, cons, true
		}
	}
	return "", Value{}, false
}

// resolveConstantColumn unwraps casts and resolves a column reference to the
// file's constant metadata value, if the referenced column has one.
func resolveConstantColumn(expr Expression, cols ConstantColumns) (string, bool) {
	switch ex := expr.(type) {
	case *CastExpression:
		return resolveConstantColumn(ex.Child, cols)
	case *ColumnRefExpression:
		if ex.Binding.TableIndex != cols.TableIndex {
			return "", false
		}
		v, ok := cols.Values[ex.Binding.ColumnIndex]
		return v, ok
	}
	return "", false
}

func constantOperand(expr Expression) (Value, bool) {
	switch ex := expr.(type) {
	case *CastExpression:
		return constantOperand(ex.Child)
	case *ConstantExpression:
		return ex.Value, true
	}
	return Value{}, false
}

func flipComparison(t ExpressionType) ExpressionType {
	switch t {
	case TypeCompareLessThan:
		return TypeCompareGreaterThan
	case TypeCompareGreaterThan:
		return TypeCompareLessThan
	case TypeCompareLessThanOrEqual:
		return TypeCompareGreaterThanOrEqual
	case TypeCompareGreaterThanOrEqual:
		return TypeCompareLessThanOrEqual
	}
	return t
}

// compareMeta compares the file's metadata string against a literal.
// Numeric literals compare numerically when the metadata parses as a number;
// otherwise the comparison is textual. A NULL literal satisfies nothing.
func compareMeta(meta string, op ExpressionType, value Value) Result {
	if value.IsNull {
		return ResultFalse
	}

	var cmp int
	switch v := value.Data.(type) {
	case string:
		cmp = strings.Compare(meta, v)
	case bool:
		mb, err := strconv.ParseBool(strings.ToLower(meta))
		if err != nil {
			return ResultUnknown
		}
		switch {
		case mb == v:
			cmp = 0
		case mb:
			cmp = 1
		default:
			cmp = -1
		}
	case int64:
		return compareInt(meta, op, v)
	case uint64:
		return compareUint(meta, op, v)
	case float64:
		return compareFloat(meta, op, v)
	case int:
		return compareInt(meta, op, int64(v))
	default:
		return ResultUnknown
	}
	return applyComparison(cmp, op)
}

// Integer literals are compared through integer parsing, never through
// float64: values above 2^53 would collapse to the same double and a file
// could be dropped on a predicate it actually satisfies.

func compareInt(meta string, op ExpressionType, v int64) Result {
	m, err := strconv.ParseInt(meta, 10, 64)
	if err != nil {
		// metadata value is not an integer; the runtime cast decides
		return ResultUnknown
	}
	return applyOrdered(m, v, op)
}

func compareUint(meta string, op ExpressionType, v uint64) Result {
	m, err := strconv.ParseUint(meta, 10, 64)
	if err != nil {
		return ResultUnknown
	}
	return applyOrdered(m, v, op)
}

func compareFloat(meta string, op ExpressionType, v float64) Result {
	m, err := strconv.ParseFloat(meta, 64)
	if err != nil {
		// metadata value is not numeric; the runtime cast decides
		return ResultUnknown
	}
	return applyOrdered(m, v, op)
}

func applyOrdered[T int64 | uint64 | float64](m, v T, op ExpressionType) Result {
	switch {
	case m == v:
		return applyComparison(0, op)
	case m > v:
		return applyComparison(1, op)
	default:
		return applyComparison(-1, op)
	}
}

func applyComparison(cmp int, op ExpressionType) Result {
	var holds bool
	switch op {
	case TypeCompareEqual:
		holds = cmp == 0
	case TypeCompareNotEqual:
		holds = cmp != 0
	case TypeCompareLessThan:
		holds = cmp < 0
	case TypeCompareGreaterThan:
		holds = cmp > 0
	case TypeCompareLessThanOrEqual:
		holds = cmp <= 0
	case TypeCompareGreaterThanOrEqual:
		holds = cmp >= 0
	default:
		return ResultUnknown
	}
	if holds {
		return ResultTrue
	}
	return ResultFalse
}
