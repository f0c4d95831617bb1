package sql

import "gopkg.in/src-d/go-errors.v1"

var (
	// ErrTableNotFound is returned when the table is not available from the
	// current scope.
	ErrTableNotFound = errors.NewKind("table not found: %s")

	// ErrDuplicateCorrelationName is returned when the same correlation name
	// is introduced twice in a single query block.
	ErrDuplicateCorrelationName = errors.NewKind("duplicate correlation name: %s")

	// ErrColumnNotFound is returned when the column does not exist in any
	// table in scope.
	ErrColumnNotFound = errors.NewKind("column %q could not be found in any table in scope")

	// ErrTableColumnNotFound is returned when a qualified column does not
	// exist in the table it is qualified with.
	ErrTableColumnNotFound = errors.NewKind("table %q does not have column %q")

	// ErrAmbiguousColumn is returned when there is a column reference that
	// is present in more than one table.
	ErrAmbiguousColumn = errors.NewKind("ambiguous column name %q, it's present in all these tables: %v")

	// ErrAmbiguousTable is returned when a table name matches more than one
	// table in scope.
	ErrAmbiguousTable = errors.NewKind("ambiguous table name %q")

	// ErrNonBooleanOperand is returned when an operand of a logical operator
	// is not boolean.
	ErrNonBooleanOperand = errors.NewKind("operand of %s must be boolean, got %s")

	// ErrNonBooleanClause is returned when a WHERE, HAVING or ON clause is
	// not boolean.
	ErrNonBooleanClause = errors.NewKind("%s clause must be boolean, got %s")

	// ErrTypesNotComparable is returned when the operands of a comparison
	// cannot be compared.
	ErrTypesNotComparable = errors.NewKind("types %s and %s are not comparable with %s")

	// ErrUnsupportedArithmetic is returned when no arithmetic result rule
	// applies to the operands.
	ErrUnsupportedArithmetic = errors.NewKind("arithmetic %s is not supported between %s and %s")

	// ErrIncompatibleTypes is returned when no dominant type covers all the
	// alternatives of a CASE or COALESCE.
	ErrIncompatibleTypes = errors.NewKind("types %s and %s are not compatible")

	// ErrInvalidLiteralConversion is returned when a literal can never be
	// converted to the type it is implicitly cast to.
	ErrInvalidLiteralConversion = errors.NewKind("literal %q cannot be converted to %s")

	// ErrUnboundNode is returned when a node that must have been bound
	// carries no binding. This error is indicative of a bug.
	ErrUnboundNode = errors.NewKind("node is not bound: %s")

	// ErrInvalidChildType is returned when a walk replaces a child with a
	// node of the wrong kind. This error is indicative of a bug.
	ErrInvalidChildType = errors.NewKind("%T: invalid child type, got %T, expected %s")

	// ErrUnknownNode is returned when a walk meets a node kind it does not
	// know about. This error is indicative of a bug.
	ErrUnknownNode = errors.NewKind("unknown node of type %T")
)
