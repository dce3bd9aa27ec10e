// Package translate turns store-neutral query language expressions into
// statement fragments over a model's stored attributes: predicates
// become condition nodes, field references resolve to wire names,
// literals become typed wire constants and Bind references become
// statement parameters.
//
// Translation is all or nothing. Every part of the language the store
// grammar cannot evaluate, like negation, membership tests, string
// functions or multiplication inside a search condition, fails the
// whole query with an *Error instead of degrading to a partial plan.
//
// The package also owns projection binding: Entity, Members and Struct
// build the Selection a compiled query fetches, together with the shape
// the decode package materializes records through.
package translate

import (
	"errors"
	"fmt"
	"reflect"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/syssam/veloxdoc/dialect/partiql"
	ql "github.com/syssam/veloxdoc/querylanguage"
	"github.com/syssam/veloxdoc/schema"
	"github.com/syssam/veloxdoc/schema/field"
	"github.com/syssam/veloxdoc/wire"
)

// An Error reports an expression the store grammar cannot evaluate.
type Error struct {
	// Expr is the debug rendering of the offending expression.
	Expr string
	// Err is the reason the expression has no translation.
	Err error
}

func (e *Error) Error() string {
	return fmt.Sprintf("veloxdoc: untranslatable expression %s: %s", e.Expr, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Is makes every *Error match ErrUntranslatable.
func (e *Error) Is(target error) bool { return target == ErrUntranslatable }

// ErrUntranslatable matches any translation failure with errors.Is.
var ErrUntranslatable = errors.New("veloxdoc: untranslatable expression")

// A ConfigError reports a query misconfiguration detectable before any
// store request: an unknown field, an ambiguous member binding, an
// empty projection, a non-positive page size.
type ConfigError struct {
	Reason string
}

func (e *ConfigError) Error() string { return "veloxdoc: " + e.Reason }

// Configf returns a formatted ConfigError.
func Configf(format string, args ...any) *ConfigError {
	return &ConfigError{Reason: fmt.Sprintf(format, args...)}
}

func untransf(e ql.Expr, format string, args ...any) *Error {
	return &Error{Expr: e.String(), Err: fmt.Errorf(format, args...)}
}

var cmpOps = map[ql.Op]partiql.Op{
	ql.OpEQ:  partiql.OpEQ,
	ql.OpNEQ: partiql.OpNEQ,
	ql.OpGT:  partiql.OpGT,
	ql.OpGTE: partiql.OpGTE,
	ql.OpLT:  partiql.OpLT,
	ql.OpLTE: partiql.OpLTE,
}

var arithOps = map[ql.Op]partiql.Op{
	ql.OpAdd: partiql.OpAdd,
	ql.OpSub: partiql.OpSub,
	ql.OpMul: partiql.OpMul,
	ql.OpDiv: partiql.OpDiv,
}

// Predicate translates predicates into one search condition over the
// model's attributes. Multiple predicates combine with AND. No
// predicates translate to a nil node, meaning no condition.
func Predicate(m *schema.Model, ps ...ql.P) (partiql.Node, error) {
	t := translator{model: m}
	var root partiql.Node
	for _, p := range ps {
		n, err := t.condition(p)
		if err != nil {
			return nil, err
		}
		if root == nil {
			root = n
			continue
		}
		root = partiql.MustBin(partiql.OpAnd, root, n)
	}
	return root, nil
}

// Limit translates a result-limit or page-size expression: integer
// literals, bound parameters and arithmetic over them. Fields cannot
// size a result.
func Limit(e ql.Expr) (partiql.Node, error) {
	switch e := e.(type) {
	case *ql.Value:
		w, err := intWire(e.V)
		if err != nil {
			return nil, &Error{Expr: e.String(), Err: err}
		}
		return partiql.Const(w), nil
	case *ql.Param:
		return partiql.Param(e.Name, wire.KindNumber), nil
	case *ql.ArithExpr:
		op, ok := arithOps[e.Op]
		if !ok {
			return nil, untransf(e, "operator %s is not arithmetic", e.Op)
		}
		x, err := Limit(e.X)
		if err != nil {
			return nil, err
		}
		y, err := Limit(e.Y)
		if err != nil {
			return nil, err
		}
		return partiql.Bin(op, x, y)
	default:
		return nil, untransf(e, "not a constant size expression")
	}
}

type translator struct {
	model *schema.Model
}

// condition translates an expression in predicate position. A bare
// boolean field or parameter is rewritten to a comparison against true,
// since the store grammar has no boolean-valued conditions.
func (t translator) condition(e ql.Expr) (partiql.Node, error) {
	switch e := e.(type) {
	case *ql.BinaryExpr:
		if _, ok := cmpOps[e.Op]; ok {
			return t.compare(e)
		}
		if e.Op == ql.OpIn || e.Op == ql.OpNotIn {
			return nil, untransf(e, "the store grammar has no membership operator")
		}
		return nil, untransf(e, "operator %s is not a comparison", e.Op)
	case *ql.NaryExpr:
		var op partiql.Op
		switch e.Op {
		case ql.OpAnd:
			op = partiql.OpAnd
		case ql.OpOr:
			op = partiql.OpOr
		default:
			return nil, untransf(e, "operator %s does not combine predicates", e.Op)
		}
		if len(e.Ps) == 0 {
			return nil, untransf(e, "empty predicate list")
		}
		var root partiql.Node
		for _, p := range e.Ps {
			n, err := t.condition(p)
			if err != nil {
				return nil, err
			}
			if root == nil {
				root = n
				continue
			}
			root = partiql.MustBin(op, root, n)
		}
		return root, nil
	case *ql.UnaryExpr:
		return nil, untransf(e, "negation has no store translation")
	case *ql.CallExpr:
		return nil, untransf(e, "function %s has no store translation", e.Func)
	case *ql.Field:
		def, err := t.field(e)
		if err != nil {
			return nil, err
		}
		if def.Mapping.Kind != wire.KindBool {
			return nil, untransf(e, "field %s is not a boolean condition", e.Name)
		}
		return partiql.Bin(partiql.OpEQ, t.property(def), partiql.Const(wire.Bool(true)))
	case *ql.Param:
		return partiql.Bin(partiql.OpEQ, partiql.Param(e.Name, wire.KindBool), partiql.Const(wire.Bool(true)))
	default:
		return nil, untransf(e, "not a condition")
	}
}

func (t translator) compare(e *ql.BinaryExpr) (partiql.Node, error) {
	defX, err := t.peer(e.X)
	if err != nil {
		return nil, err
	}
	defY, err := t.peer(e.Y)
	if err != nil {
		return nil, err
	}
	x, err := t.value(e.X, defY)
	if err != nil {
		return nil, err
	}
	y, err := t.value(e.Y, defX)
	if err != nil {
		return nil, err
	}
	n, err := partiql.Bin(cmpOps[e.Op], x, y)
	if err != nil {
		return nil, &Error{Expr: e.String(), Err: err}
	}
	return n, nil
}

// value translates an expression in operand position. The peer is the
// field on the other side of the enclosing comparison, when there is
// one; it types constants and parameters.
func (t translator) value(e ql.Expr, peer *schema.FieldDef) (partiql.Node, error) {
	switch e := e.(type) {
	case *ql.Field:
		def, err := t.field(e)
		if err != nil {
			return nil, err
		}
		return t.property(def), nil
	case *ql.Value:
		w, err := t.constant(e.V, peer)
		if err != nil {
			return nil, &Error{Expr: e.String(), Err: err}
		}
		return partiql.Const(w), nil
	case *ql.Param:
		kind := wire.KindInvalid
		if peer != nil {
			kind = peer.Mapping.Kind
		}
		return partiql.Param(e.Name, kind), nil
	case *ql.ArithExpr:
		if e.Op == ql.OpMul || e.Op == ql.OpDiv {
			return nil, untransf(e, "the store grammar does not allow %s inside search conditions", e.Op)
		}
		op, ok := arithOps[e.Op]
		if !ok {
			return nil, untransf(e, "operator %s is not arithmetic", e.Op)
		}
		x, err := t.value(e.X, peer)
		if err != nil {
			return nil, err
		}
		y, err := t.value(e.Y, peer)
		if err != nil {
			return nil, err
		}
		n, err := partiql.Bin(op, x, y)
		if err != nil {
			return nil, &Error{Expr: e.String(), Err: err}
		}
		return n, nil
	default:
		return nil, untransf(e, "not a value expression")
	}
}

// peer returns the field definition when the expression is a direct
// field reference and nil otherwise.
func (t translator) peer(e ql.Expr) (*schema.FieldDef, error) {
	f, ok := e.(*ql.Field)
	if !ok {
		return nil, nil
	}
	return t.field(f)
}

func (t translator) field(f *ql.Field) (*schema.FieldDef, error) {
	def, ok := t.model.Field(f.Name)
	if !ok {
		return nil, Configf("unknown field %q on model %s", f.Name, t.model.Name())
	}
	return def, nil
}

func (t translator) property(def *schema.FieldDef) *partiql.Property {
	return partiql.Prop(def.WireName, def.Mapping.Kind)
}

// constant encodes a literal for comparison against the peer field. The
// peer's converter applies when it has one, so converted fields compare
// against their stored representation.
func (t translator) constant(v any, peer *schema.FieldDef) (wire.Value, error) {
	if v == nil {
		return wire.Null{}, nil
	}
	if peer != nil && peer.Mapping.Converter != nil {
		return peer.Mapping.Converter.ToWire(v)
	}
	return WireValue(v)
}

// WireValue encodes a Go value with the default wire mapping: strings,
// booleans and byte slices map to their variants, every numeric type to
// Number, time to RFC 3339 text and UUIDs to canonical text. A value
// that is already a wire.Value passes through.
func WireValue(v any) (wire.Value, error) {
	switch v := v.(type) {
	case nil:
		return wire.Null{}, nil
	case wire.Value:
		return v, nil
	case string:
		return wire.String(v), nil
	case bool:
		return wire.Bool(v), nil
	case int:
		return wire.Int(int64(v)), nil
	case int64:
		return wire.Int(v), nil
	case float64:
		return wire.Float(v), nil
	case []byte:
		return wire.Binary(v), nil
	case decimal.Decimal:
		return wire.Decimal(v), nil
	case time.Time:
		return field.TimeConverter{}.ToWire(v)
	case uuid.UUID:
		return field.UUIDConverter{}.ToWire(v)
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.String:
		return wire.String(rv.String()), nil
	case reflect.Bool:
		return wire.Bool(rv.Bool()), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return wire.Int(rv.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return wire.Uint(rv.Uint()), nil
	case reflect.Float32, reflect.Float64:
		return wire.Float(rv.Float()), nil
	}
	return nil, fmt.Errorf("no wire form for constant of type %T", v)
}

// intWire encodes an integer literal, rejecting every other type.
func intWire(v any) (wire.Value, error) {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return wire.Int(rv.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return wire.Uint(rv.Uint()), nil
	}
	return nil, fmt.Errorf("size expressions take integers, got %T", v)
}
