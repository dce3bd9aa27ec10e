// Package partiql holds the intermediate representation between the
// query language and the PartiQL-like statements a document store
// executes: a closed set of immutable expression nodes, the query plan
// built from them, and the renderer that turns a plan into statement
// text with positional parameters.
//
// The node set is deliberately small. Property references an attribute
// by its stored name, Constant carries a pre-encoded wire value,
// Parameter stands for a value bound at execution time, and Binary
// combines two nodes with one of the store's operators. Everything the
// store grammar cannot express is rejected before nodes are built; see
// the translate package.
//
// Plans are compiled once and never mutated. Binding parameters
// produces a fresh plan with Parameter nodes replaced by Constants
// (see Statement.Inline), so one compiled plan can be executed
// concurrently with different values.
package partiql

import (
	"fmt"

	"github.com/syssam/veloxdoc/wire"
)

// An Op is a statement operator of the store grammar.
type Op uint8

// Store operators. Multiplication and division are valid in value
// expressions only; the store grammar rejects them inside search
// conditions.
const (
	OpEQ Op = iota
	OpNEQ
	OpLT
	OpLTE
	OpGT
	OpGTE
	OpAnd
	OpOr
	OpAdd
	OpSub
	OpMul
	OpDiv
)

var opText = [...]string{
	OpEQ:  "=",
	OpNEQ: "<>",
	OpLT:  "<",
	OpLTE: "<=",
	OpGT:  ">",
	OpGTE: ">=",
	OpAnd: "AND",
	OpOr:  "OR",
	OpAdd: "+",
	OpSub: "-",
	OpMul: "*",
	OpDiv: "/",
}

func (o Op) String() string {
	if int(o) < len(opText) {
		return opText[o]
	}
	return fmt.Sprintf("Op(%d)", uint8(o))
}

// Comparison reports whether the operator compares two values.
func (o Op) Comparison() bool { return o <= OpGTE }

// Logical reports whether the operator combines two conditions.
func (o Op) Logical() bool { return o == OpAnd || o == OpOr }

// Arithmetic reports whether the operator computes a number.
func (o Op) Arithmetic() bool { return o >= OpAdd }

// precedence returns the binding strength of the operator. Operands
// parenthesize against it during rendering.
func (o Op) precedence() int {
	switch {
	case o == OpMul || o == OpDiv:
		return 4
	case o == OpAdd || o == OpSub:
		return 3
	case o.Comparison():
		return 2
	case o == OpAnd:
		return 1
	default:
		return 0
	}
}

// associative reports whether equal-precedence chains of the operator
// can render without parentheses.
func (o Op) associative() bool {
	return o == OpAnd || o == OpOr || o == OpAdd || o == OpMul
}

// A Node is one immutable expression of the representation. The set of
// implementations is closed: Property, Constant, Parameter and Binary.
type Node interface {
	fmt.Stringer
	// Kind is the wire kind the node evaluates to. A Parameter of
	// undeclared kind reports wire.KindInvalid and matches any operand.
	Kind() wire.Kind
	node()
}

// A Property references a stored attribute by its wire name.
type Property struct {
	name string
	kind wire.Kind
}

// Prop returns a property node for the attribute name.
func Prop(name string, kind wire.Kind) *Property {
	return &Property{name: name, kind: kind}
}

// Name returns the stored attribute name.
func (p *Property) Name() string { return p.name }

// Kind implements Node.
func (p *Property) Kind() wire.Kind { return p.kind }

func (p *Property) String() string { return p.name }

func (p *Property) node() {}

// A Constant carries a pre-encoded wire value.
type Constant struct {
	value wire.Value
}

// Const returns a constant node holding v. A nil value is the null
// marker.
func Const(v wire.Value) *Constant {
	if v == nil {
		v = wire.Null{}
	}
	return &Constant{value: v}
}

// Value returns the wire value.
func (c *Constant) Value() wire.Value { return c.value }

// Kind implements Node.
func (c *Constant) Kind() wire.Kind { return c.value.Kind() }

func (c *Constant) String() string { return wire.Format(c.value) }

func (c *Constant) node() {}

// A Parameter stands for a named value supplied at execution time.
type Parameter struct {
	name string
	kind wire.Kind
}

// Param returns a parameter node. The kind may be wire.KindInvalid when
// the expected kind cannot be inferred at translation time.
func Param(name string, kind wire.Kind) *Parameter {
	return &Parameter{name: name, kind: kind}
}

// Name returns the parameter name.
func (p *Parameter) Name() string { return p.name }

// Kind implements Node.
func (p *Parameter) Kind() wire.Kind { return p.kind }

func (p *Parameter) String() string { return ":" + p.name }

func (p *Parameter) node() {}

// A Binary combines two nodes with a store operator.
type Binary struct {
	op   Op
	x, y Node
	kind wire.Kind
}

// Bin returns a binary node after checking operand kinds against the
// operator: logical operators take conditions, comparisons take
// operands of one kind, arithmetic takes numbers. Parameters of
// undeclared kind and null constants match any operand.
func Bin(op Op, x, y Node) (*Binary, error) {
	xk, yk := x.Kind(), y.Kind()
	switch {
	case op.Logical():
		if !condition(xk) || !condition(yk) {
			return nil, fmt.Errorf("partiql: %s requires conditions, got %s and %s", op, xk, yk)
		}
	case op.Comparison():
		if !sameKind(xk, yk) {
			return nil, fmt.Errorf("partiql: cannot compare %s with %s", xk, yk)
		}
	default:
		if !numeric(xk) || !numeric(yk) {
			return nil, fmt.Errorf("partiql: %s requires numbers, got %s and %s", op, xk, yk)
		}
	}
	kind := wire.KindBool
	if op.Arithmetic() {
		kind = wire.KindNumber
	}
	return &Binary{op: op, x: x, y: y, kind: kind}, nil
}

// MustBin is like Bin but panics on error. Intended for plans built
// from already-validated input.
func MustBin(op Op, x, y Node) *Binary {
	b, err := Bin(op, x, y)
	if err != nil {
		panic(err)
	}
	return b
}

func condition(k wire.Kind) bool {
	return k == wire.KindBool || k == wire.KindInvalid
}

func sameKind(x, y wire.Kind) bool {
	if x == wire.KindInvalid || y == wire.KindInvalid {
		return true
	}
	if x == wire.KindNull || y == wire.KindNull {
		return true
	}
	return x == y
}

func numeric(k wire.Kind) bool {
	return k == wire.KindNumber || k == wire.KindInvalid
}

// Op returns the operator.
func (b *Binary) Op() Op { return b.op }

// Left returns the left operand.
func (b *Binary) Left() Node { return b.x }

// Right returns the right operand.
func (b *Binary) Right() Node { return b.y }

// Kind implements Node.
func (b *Binary) Kind() wire.Kind { return b.kind }

func (b *Binary) String() string {
	return fmt.Sprintf("(%s %s %s)", b.x, b.op, b.y)
}

func (b *Binary) node() {}
