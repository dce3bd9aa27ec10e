package decode

import (
	"reflect"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/syssam/veloxdoc/dialect/partiql"
	"github.com/syssam/veloxdoc/schema"
)

// A Path is the chain of member names leading to one decoded position.
// Decode errors carry it in dotted form, e.g. "address.city".
type Path []string

func (p Path) String() string { return strings.Join(p, ".") }

// child returns the path extended by one member. The receiver's backing
// array is never shared with the result.
func (p Path) child(name string) Path {
	c := make(Path, len(p)+1)
	copy(c, p)
	c[len(p)] = name
	return c
}

// A Column is one fetched attribute of the result record.
type Column struct {
	// Key is the attribute name the store returns the value under.
	Key string
	// Pos is the column's index in the statement's projection list for
	// position-keyed plans, and -1 for member-keyed plans.
	Pos int
	// Mapping describes the attribute's wire shape and Go binding.
	Mapping schema.Mapping
	// Optional columns resolve absence and null to the zero value
	// instead of failing.
	Optional bool
	// Nillable columns bind to a pointer that stays nil on absence and
	// null.
	Nillable bool
	// Path locates the column in the output value for error messages.
	Path Path
}

// A Member binds one output struct member to its source: either a
// fetched column or a client-evaluated expression over fetched columns.
type Member struct {
	// Index is the member's index chain for reflect.FieldByIndex.
	Index []int
	// Column is the member's source attribute. Nil when Expr is set.
	Column *Column
	// Expr computes the member from other columns after they decode.
	Expr *Eval
}

// An Eval is a client-evaluated arithmetic expression over decoded
// columns, used for projection members the store grammar cannot
// compute. Evaluation is exact: operands and intermediates are
// arbitrary-precision decimals.
//
// A node is one of three forms: a column operand (Col set), a literal
// (only Lit set), or a combination (X and Y set, combined with Op).
type Eval struct {
	Op   partiql.Op
	X, Y *Eval
	Col  *Column
	Lit  decimal.Decimal
}

// A Shape describes how result records materialize into values of one
// Go type: the target type and the binding of each of its members.
type Shape struct {
	Type    reflect.Type
	Members []Member
}
