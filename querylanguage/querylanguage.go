// Package querylanguage provides a store-neutral expression language
// for building document predicates and value expressions.
//
// Expressions are built from fields, literal values and bound
// parameters, composed with comparison, logical and arithmetic
// operators:
//
//	querylanguage.And(
//	    querylanguage.FieldGTE("age", 26),
//	    querylanguage.FieldNEQ("name", "a8m"),
//	)
//
//	querylanguage.GT(
//	    querylanguage.F("age"),
//	    querylanguage.Bind("min_age"),
//	)
//
// The String method renders an expression in a compact debug notation.
// It is meant for logs and tests; translation to store statements is
// the job of the translate package, which rejects the parts of the
// language the target store cannot evaluate.
package querylanguage

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// An Op is a binary operator of the language.
type Op uint8

// Language operators.
const (
	OpEQ Op = iota
	OpNEQ
	OpGT
	OpGTE
	OpLT
	OpLTE
	OpAnd
	OpOr
	OpAdd
	OpSub
	OpMul
	OpDiv
	OpIn
	OpNotIn
)

var ops = [...]string{
	OpEQ:    "==",
	OpNEQ:   "!=",
	OpGT:    ">",
	OpGTE:   ">=",
	OpLT:    "<",
	OpLTE:   "<=",
	OpAnd:   "&&",
	OpOr:    "||",
	OpAdd:   "+",
	OpSub:   "-",
	OpMul:   "*",
	OpDiv:   "/",
	OpIn:    "in",
	OpNotIn: "not in",
}

func (o Op) String() string {
	if int(o) < len(ops) {
		return ops[o]
	}
	return fmt.Sprintf("Op(%d)", uint8(o))
}

// A Func is a named function of the language. Functions are part of
// the language surface but have no store translation.
type Func string

// Language functions.
const (
	FuncContains     Func = "contains"
	FuncContainsFold Func = "contains_fold"
	FuncEqualFold    Func = "equal_fold"
	FuncHasPrefix    Func = "has_prefix"
	FuncHasSuffix    Func = "has_suffix"
)

type (
	// An Expr is a value expression of the language.
	Expr interface {
		fmt.Stringer
		expr()
	}

	// A P is a predicate expression.
	P interface {
		Expr
		// Negate returns the negation of the predicate.
		Negate() P
	}

	// A Field references a document field by its declared name.
	Field struct {
		Name string
	}

	// A Value is a literal.
	Value struct {
		V any
	}

	// A Param references a parameter bound at execution time.
	Param struct {
		Name string
	}

	// A BinaryExpr is a binary comparison or membership predicate.
	BinaryExpr struct {
		Op   Op
		X, Y Expr
	}

	// A NaryExpr is a conjunction or disjunction of predicates.
	NaryExpr struct {
		Op Op
		Ps []P
	}

	// A UnaryExpr is a negated predicate.
	UnaryExpr struct {
		X P
	}

	// A CallExpr is a function application predicate.
	CallExpr struct {
		Func Func
		Args []Expr
	}

	// An ArithExpr is a binary arithmetic expression.
	ArithExpr struct {
		Op   Op
		X, Y Expr
	}
)

func (*Field) expr()      {}
func (*Value) expr()      {}
func (*Param) expr()      {}
func (*BinaryExpr) expr() {}
func (*NaryExpr) expr()   {}
func (*UnaryExpr) expr()  {}
func (*CallExpr) expr()   {}
func (*ArithExpr) expr()  {}

// F returns a field reference.
func F(name string) *Field {
	return &Field{Name: name}
}

// V returns a literal value.
func V(v any) *Value {
	return &Value{V: v}
}

// Bind returns a reference to a named parameter whose value is supplied
// at execution time.
func Bind(name string) *Param {
	return &Param{Name: name}
}

// EQ returns the predicate x == y.
func EQ(x, y Expr) *BinaryExpr { return &BinaryExpr{Op: OpEQ, X: x, Y: y} }

// NEQ returns the predicate x != y.
func NEQ(x, y Expr) *BinaryExpr { return &BinaryExpr{Op: OpNEQ, X: x, Y: y} }

// GT returns the predicate x > y.
func GT(x, y Expr) *BinaryExpr { return &BinaryExpr{Op: OpGT, X: x, Y: y} }

// GTE returns the predicate x >= y.
func GTE(x, y Expr) *BinaryExpr { return &BinaryExpr{Op: OpGTE, X: x, Y: y} }

// LT returns the predicate x < y.
func LT(x, y Expr) *BinaryExpr { return &BinaryExpr{Op: OpLT, X: x, Y: y} }

// LTE returns the predicate x <= y.
func LTE(x, y Expr) *BinaryExpr { return &BinaryExpr{Op: OpLTE, X: x, Y: y} }

// And returns the conjunction of the given predicates.
func And(x, y P, z ...P) *NaryExpr {
	return &NaryExpr{Op: OpAnd, Ps: append([]P{x, y}, z...)}
}

// Or returns the disjunction of the given predicates.
func Or(x, y P, z ...P) *NaryExpr {
	return &NaryExpr{Op: OpOr, Ps: append([]P{x, y}, z...)}
}

// Not returns the negation of the given predicate.
func Not(x P) *UnaryExpr {
	return &UnaryExpr{X: x}
}

// Add returns the expression x + y.
func Add(x, y Expr) *ArithExpr { return &ArithExpr{Op: OpAdd, X: x, Y: y} }

// Sub returns the expression x - y.
func Sub(x, y Expr) *ArithExpr { return &ArithExpr{Op: OpSub, X: x, Y: y} }

// Mul returns the expression x * y.
func Mul(x, y Expr) *ArithExpr { return &ArithExpr{Op: OpMul, X: x, Y: y} }

// Div returns the expression x / y.
func Div(x, y Expr) *ArithExpr { return &ArithExpr{Op: OpDiv, X: x, Y: y} }

// FieldEQ returns the predicate name == v.
func FieldEQ(name string, v any) *BinaryExpr { return EQ(F(name), V(v)) }

// FieldNEQ returns the predicate name != v.
func FieldNEQ(name string, v any) *BinaryExpr { return NEQ(F(name), V(v)) }

// FieldGT returns the predicate name > v.
func FieldGT(name string, v any) *BinaryExpr { return GT(F(name), V(v)) }

// FieldGTE returns the predicate name >= v.
func FieldGTE(name string, v any) *BinaryExpr { return GTE(F(name), V(v)) }

// FieldLT returns the predicate name < v.
func FieldLT(name string, v any) *BinaryExpr { return LT(F(name), V(v)) }

// FieldLTE returns the predicate name <= v.
func FieldLTE(name string, v any) *BinaryExpr { return LTE(F(name), V(v)) }

// FieldNil returns the predicate name == nil.
func FieldNil(name string) *BinaryExpr { return EQ(F(name), V(nil)) }

// FieldNotNil returns the predicate name != nil.
func FieldNotNil(name string) *BinaryExpr { return NEQ(F(name), V(nil)) }

// FieldIn returns the predicate name in vs.
func FieldIn(name string, vs ...any) *BinaryExpr {
	return &BinaryExpr{Op: OpIn, X: F(name), Y: V(vs)}
}

// FieldNotIn returns the predicate name not in vs.
func FieldNotIn(name string, vs ...any) *BinaryExpr {
	return &BinaryExpr{Op: OpNotIn, X: F(name), Y: V(vs)}
}

// FieldContains returns a predicate asserting that name contains substr.
func FieldContains(name, substr string) *CallExpr {
	return &CallExpr{Func: FuncContains, Args: []Expr{F(name), V(substr)}}
}

// FieldContainsFold is like FieldContains but case-insensitive.
func FieldContainsFold(name, substr string) *CallExpr {
	return &CallExpr{Func: FuncContainsFold, Args: []Expr{F(name), V(substr)}}
}

// FieldEqualFold returns a predicate asserting that name equals v
// case-insensitively.
func FieldEqualFold(name, v string) *CallExpr {
	return &CallExpr{Func: FuncEqualFold, Args: []Expr{F(name), V(v)}}
}

// FieldHasPrefix returns a predicate asserting that name starts with
// prefix.
func FieldHasPrefix(name, prefix string) *CallExpr {
	return &CallExpr{Func: FuncHasPrefix, Args: []Expr{F(name), V(prefix)}}
}

// FieldHasSuffix returns a predicate asserting that name ends with
// suffix.
func FieldHasSuffix(name, suffix string) *CallExpr {
	return &CallExpr{Func: FuncHasSuffix, Args: []Expr{F(name), V(suffix)}}
}

func (f *Field) String() string {
	return f.Name
}

// Negate negates the field used as a boolean predicate. A bare boolean
// field is a valid condition; stores without boolean conditions compare
// it against true during translation.
func (f *Field) Negate() P { return Not(f) }

func (p *Param) String() string {
	return "$" + p.Name
}

// Negate negates the parameter used as a boolean predicate.
func (p *Param) Negate() P { return Not(p) }

func (v *Value) String() string {
	switch x := v.V.(type) {
	case nil:
		return "nil"
	case decimal.Decimal:
		return x.String()
	}
	buf, err := json.Marshal(v.V)
	if err != nil {
		return fmt.Sprintf("%v", v.V)
	}
	return string(buf)
}

func (e *BinaryExpr) String() string {
	return fmt.Sprintf("%s %s %s", e.X, e.Op, e.Y)
}

// Negate returns the negation of the predicate.
func (e *BinaryExpr) Negate() P { return Not(e) }

func (e *NaryExpr) String() string {
	var b strings.Builder
	if len(e.Ps) > 2 {
		b.WriteByte('(')
	}
	for i, p := range e.Ps {
		if i > 0 {
			b.WriteByte(' ')
			b.WriteString(e.Op.String())
			b.WriteByte(' ')
		}
		b.WriteString(p.String())
	}
	if len(e.Ps) > 2 {
		b.WriteByte(')')
	}
	return b.String()
}

// Negate returns the negation of the predicate.
func (e *NaryExpr) Negate() P { return Not(e) }

func (e *UnaryExpr) String() string {
	return "!(" + e.X.String() + ")"
}

// Negate returns the negation of the predicate.
func (e *UnaryExpr) Negate() P { return Not(e) }

func (e *CallExpr) String() string {
	var b strings.Builder
	b.WriteString(string(e.Func))
	b.WriteByte('(')
	for i, a := range e.Args {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(a.String())
	}
	b.WriteByte(')')
	return b.String()
}

// Negate returns the negation of the predicate.
func (e *CallExpr) Negate() P { return Not(e) }

func (e *ArithExpr) String() string {
	return fmt.Sprintf("%s %s %s", arithOperand(e.X), e.Op, arithOperand(e.Y))
}

// arithOperand parenthesizes nested arithmetic so the debug form reads
// unambiguously.
func arithOperand(x Expr) string {
	if a, ok := x.(*ArithExpr); ok {
		return "(" + a.String() + ")"
	}
	return x.String()
}
