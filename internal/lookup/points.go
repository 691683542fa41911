package lookup

import (
	"github.com/KirkDiggler/xwing-api/internal/errors"
)

// Operator is a points comparison operator
type Operator string

// Supported points comparisons. A single "=" is accepted as equality.
const (
	OpEqual        Operator = "=="
	OpNotEqual     Operator = "!="
	OpLess         Operator = "<"
	OpLessEqual    Operator = "<="
	OpGreater      Operator = ">"
	OpGreaterEqual Operator = ">="
)

// ParseOperator maps the operator as typed in a query onto an Operator
func ParseOperator(s string) (Operator, error) {
	switch s {
	case "=", "==":
		return OpEqual, nil
	case "!=":
		return OpNotEqual, nil
	case "<":
		return OpLess, nil
	case "<=":
		return OpLessEqual, nil
	case ">":
		return OpGreater, nil
	case ">=":
		return OpGreaterEqual, nil
	}
	return "", errors.InvalidArgumentf("invalid points filter: unknown operator %q", s)
}

// Compare applies op to value and operand. Unknown operators never match.
func Compare(value float64, op Operator, operand float64) bool {
	switch op {
	case OpEqual:
		return value == operand
	case OpNotEqual:
		return value != operand
	case OpLess:
		return value < operand
	case OpLessEqual:
		return value <= operand
	case OpGreater:
		return value > operand
	case OpGreaterEqual:
		return value >= operand
	}
	return false
}

// PointsFilter keeps cards whose points compare true against Operand
type PointsFilter struct {
	Op      Operator
	Operand float64
}

// Accepts reports whether a card's points pass the filter. Cards without
// numeric points (variable cost, "?") never pass.
func (f PointsFilter) Accepts(card *Card) bool {
	points, err := card.Points.Float()
	if err != nil {
		return false
	}
	return Compare(points, f.Op, f.Operand)
}
