// Package filter models the bound predicate expressions a query planner
// pushes into a multi-file scan, and evaluates them statically against
// per-file constant metadata.
//
// The expression tree mirrors the planner's bound representation: columns
// are referenced by (table index, column index) bindings, constants carry a
// plain tagged value, and comparisons, conjunctions and unary operators
// compose them. Expression types that cannot influence pruning parse into
// UnsupportedExpression and evaluate to ResultUnknown.
//
// Evaluation is three-valued. For a file whose partition keys or synthetic
// filename column give some columns a fixed value, Evaluate substitutes
// those constants and folds the tree:
//
//	cols := filter.ConstantColumns{
//	    TableIndex: 0,
//	    Values:     map[int]string{1: "2024"}, // column 1 is year=2024 for this file
//	}
//	if filter.Evaluate(expr, cols) == filter.ResultFalse {
//	    // the file cannot contain matching rows and may be dropped
//	}
//
// ResultUnknown means the expression depends on data that is not constant
// per file; such filters are left entirely to runtime evaluation. Pruning
// never consumes a filter: the same expression must still be applied to the
// rows that are read.
package filter
