package filter

// ExpressionClass identifies the category of expression.
type ExpressionClass string

const (
	ClassComparison  ExpressionClass = "BOUND_COMPARISON"
	ClassConjunction ExpressionClass = "BOUND_CONJUNCTION"
	ClassConstant    ExpressionClass = "BOUND_CONSTANT"
	ClassColumnRef   ExpressionClass = "BOUND_COLUMN_REF"
	ClassOperator    ExpressionClass = "BOUND_OPERATOR"
	ClassFunction    ExpressionClass = "BOUND_FUNCTION"
	ClassCast        ExpressionClass = "BOUND_CAST"
	ClassUnsupported ExpressionClass = "UNSUPPORTED"
)

// ExpressionType identifies the specific operation type.
type ExpressionType string

const (
	// Comparison operators
	TypeCompareEqual              ExpressionType = "COMPARE_EQUAL"
	TypeCompareNotEqual           ExpressionType = "COMPARE_NOTEQUAL"
	TypeCompareLessThan           ExpressionType = "COMPARE_LESSTHAN"
	TypeCompareGreaterThan        ExpressionType = "COMPARE_GREATERTHAN"
	TypeCompareLessThanOrEqual    ExpressionType = "COMPARE_LESSTHANOREQUALTO"
	TypeCompareGreaterThanOrEqual ExpressionType = "COMPARE_GREATERTHANOREQUALTO"
	TypeCompareIn                 ExpressionType = "COMPARE_IN"
	TypeCompareNotIn              ExpressionType = "COMPARE_NOT_IN"

	// Conjunction operators
	TypeConjunctionAnd ExpressionType = "CONJUNCTION_AND"
	TypeConjunctionOr  ExpressionType = "CONJUNCTION_OR"

	// Unary operators
	TypeOperatorNot       ExpressionType = "OPERATOR_NOT"
	TypeOperatorIsNull    ExpressionType = "OPERATOR_IS_NULL"
	TypeOperatorIsNotNull ExpressionType = "OPERATOR_IS_NOT_NULL"

	// Value and structural types
	TypeValueConstant ExpressionType = "VALUE_CONSTANT"
	TypeColumnRef     ExpressionType = "BOUND_COLUMN_REF"
	TypeFunction      ExpressionType = "BOUND_FUNCTION"
	TypeCast          ExpressionType = "CAST"
	TypeUnsupported   ExpressionType = "UNSUPPORTED"
)

// Expression is the interface implemented by all filter expression types.
// Use type assertions or type switches to access specific expression data.
type Expression interface {
	// Class returns the expression class (e.g., BOUND_COMPARISON).
	Class() ExpressionClass

	// Type returns the specific expression type (e.g., COMPARE_EQUAL).
	Type() ExpressionType

	// expressionMarker prevents external implementation.
	expressionMarker()
}

// BaseExpression contains common fields for all expression types.
type BaseExpression struct {
	ExprClass ExpressionClass `json:"expression_class"`
	ExprType  ExpressionType  `json:"type"`
}

// Class returns the expression class.
func (b *BaseExpression) Class() ExpressionClass { return b.ExprClass }

// Type returns the expression type.
func (b *BaseExpression) Type() ExpressionType { return b.ExprType }

func (b *BaseExpression) expressionMarker() {}

// ColumnBinding identifies a column by table index and position in the
// scan's requested column list.
type ColumnBinding struct {
	TableIndex  int `json:"table_index"`
	ColumnIndex int `json:"column_index"`
}

// Value is a constant operand. Data holds one of: nil (when IsNull), bool,
// int64, uint64, float64 or string.
type Value struct {
	IsNull bool `json:"is_null"`
	Data   any  `json:"value"`
}

// ComparisonExpression represents binary comparisons (=, <>, <, >, <=, >=)
// and IN/NOT IN, where the right side is a list-building FunctionExpression.
type ComparisonExpression struct {
	BaseExpression
	Left  Expression
	Right Expression
}

// ConjunctionExpression represents AND/OR with multiple children.
type ConjunctionExpression struct {
	BaseExpression
	Children []Expression
}

// ConstantExpression represents a literal value.
type ConstantExpression struct {
	BaseExpression
	Value Value
}

// ColumnRefExpression represents a reference to a requested scan column.
type ColumnRefExpression struct {
	BaseExpression
	Binding ColumnBinding
}

// FunctionExpression represents a function call; for pruning only the
// list_value constructor used by IN lists is interpreted.
type FunctionExpression struct {
	BaseExpression
	Name     string
	Children []Expression
}

// CastExpression represents a type cast around another expression.
type CastExpression struct {
	BaseExpression
	Child   Expression
	TryCast bool
}

// OperatorExpression represents unary operators (NOT, IS NULL, IS NOT NULL).
type OperatorExpression struct {
	BaseExpression
	Children []Expression
}

// UnsupportedExpression marks an expression the pruner cannot interpret.
// It always evaluates to ResultUnknown.
type UnsupportedExpression struct {
	BaseExpression
}

// Constructors for building bound expressions programmatically.

// NewComparison builds a comparison expression of the given type.
func NewComparison(t ExpressionType, left, right Expression) *ComparisonExpression {
	return &ComparisonExpression{
		BaseExpression: BaseExpression{ExprClass: ClassComparison, ExprType: t},
		Left:           left,
		Right:          right,
	}
}

// NewConjunction builds an AND/OR conjunction over children.
func NewConjunction(t ExpressionType, children ...Expression) *ConjunctionExpression {
	return &ConjunctionExpression{
		BaseExpression: BaseExpression{ExprClass: ClassConjunction, ExprType: t},
		Children:       children,
	}
}

// NewConstant builds a constant expression from a plain Go value.
func NewConstant(data any) *ConstantExpression {
	return &ConstantExpression{
		BaseExpression: BaseExpression{ExprClass: ClassConstant, ExprType: TypeValueConstant},
		Value:          Value{Data: data},
	}
}

// NewNullConstant builds a NULL constant expression.
func NewNullConstant() *ConstantExpression {
	return &ConstantExpression{
		BaseExpression: BaseExpression{ExprClass: ClassConstant, ExprType: TypeValueConstant},
		Value:          Value{IsNull: true},
	}
}

// NewColumnRef builds a column reference for the given binding.
func NewColumnRef(tableIndex, columnIndex int) *ColumnRefExpression {
	return &ColumnRefExpression{
		BaseExpression: BaseExpression{ExprClass: ClassColumnRef, ExprType: TypeColumnRef},
		Binding:        ColumnBinding{TableIndex: tableIndex, ColumnIndex: columnIndex},
	}
}

// NewInList builds left IN (values...).
func NewInList(left Expression, values ...any) *ComparisonExpression {
	children := make([]Expression, len(values))
	for i, v := range values {
		children[i] = NewConstant(v)
	}
	return NewComparison(TypeCompareIn, left, &FunctionExpression{
		BaseExpression: BaseExpression{ExprClass: ClassFunction, ExprType: TypeFunction},
		Name:           "list_value",
		Children:       children,
	})
}

// NewOperator builds a unary operator expression.
func NewOperator(t ExpressionType, children ...Expression) *OperatorExpression {
	return &OperatorExpression{
		BaseExpression: BaseExpression{ExprClass: ClassOperator, ExprType: t},
		Children:       children,
	}
}
