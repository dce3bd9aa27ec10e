// Package decode materializes wire records into Go values.
//
// A query shape compiles once into a Decoder holding one closure per
// output member. Scalar members decode their attribute directly, owned
// navigations recurse into sub-maps, free-form members round-trip
// through a canonical document tree, and computed members evaluate a
// decimal expression over fetched attributes. Compiled decoders are
// immutable and safe for concurrent use.
package decode

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/shopspring/decimal"

	"github.com/syssam/veloxdoc/dialect/partiql"
	"github.com/syssam/veloxdoc/schema"
	"github.com/syssam/veloxdoc/wire"
)

// An Error reports a record that cannot materialize into the requested
// shape. It locates the failure by the dotted member path and the store
// attribute the value decoded from.
type Error struct {
	// Path is the dotted member path of the failed position.
	Path string
	// Attr is the attribute name the store returned the value under.
	Attr string
	// Reason describes the failure.
	Reason string
	// Err is the underlying cause, if any.
	Err error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("veloxdoc: decode %s: attribute %q: %s: %v", e.Path, e.Attr, e.Reason, e.Err)
	}
	return fmt.Sprintf("veloxdoc: decode %s: attribute %q: %s", e.Path, e.Attr, e.Reason)
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error { return e.Err }

func failf(path Path, attr, format string, args ...any) *Error {
	return &Error{Path: path.String(), Attr: attr, Reason: fmt.Sprintf(format, args...)}
}

func wrap(path Path, attr, reason string, err error) *Error {
	return &Error{Path: path.String(), Attr: attr, Reason: reason, Err: err}
}

// positionFunc decodes one attribute position, resolving absence and
// the null marker before delegating to the value decoder.
type positionFunc func(path Path, attr string, v wire.Value, present bool, dst reflect.Value) error

// decodeFunc decodes a present, non-null wire value into dst.
type decodeFunc func(path Path, attr string, v wire.Value, dst reflect.Value) error

// modelFunc decodes the attributes of an owned document from its
// sub-map.
type modelFunc func(path Path, wm wire.Map, dst reflect.Value) error

// evalFunc computes a client-evaluated projection member.
type evalFunc func(rec wire.Record) (decimal.Decimal, error)

// setFunc binds a computed decimal result to a member.
type setFunc func(dst reflect.Value, d decimal.Decimal) error

// A Decoder is the compiled materializer for one query shape.
type Decoder struct {
	typ     reflect.Type
	members []boundMember
}

type boundMember struct {
	index []int
	key   string
	path  Path
	pos   positionFunc
	eval  evalFunc
	set   setFunc
}

// Compile builds the decoder for one query shape. The result is
// read-only; callers cache and share it across executions.
func Compile(shape *Shape) (*Decoder, error) {
	if shape == nil || shape.Type == nil || shape.Type.Kind() != reflect.Struct {
		return nil, errors.New("decode: shape type must be a struct")
	}
	c := &compiler{active: make(map[*schema.Model]bool)}
	d := &Decoder{typ: shape.Type}
	for _, m := range shape.Members {
		switch {
		case m.Expr != nil:
			ev, err := c.eval(m.Expr)
			if err != nil {
				return nil, err
			}
			set, err := assignNumeric(shape.Type.FieldByIndex(m.Index).Type)
			if err != nil {
				return nil, err
			}
			d.members = append(d.members, boundMember{index: m.Index, eval: ev, set: set})
		case m.Column != nil:
			pos, err := c.position(&m.Column.Mapping, m.Column.Optional, m.Column.Nillable)
			if err != nil {
				return nil, err
			}
			d.members = append(d.members, boundMember{
				index: m.Index,
				key:   m.Column.Key,
				path:  m.Column.Path,
				pos:   pos,
			})
		default:
			return nil, fmt.Errorf("decode: member %v has neither a column nor an expression", m.Index)
		}
	}
	return d, nil
}

// Type returns the materialized Go type.
func (d *Decoder) Type() reflect.Type { return d.typ }

// Decode materializes one record into dst, an addressable zero value of
// the decoder's type. Decoding stops at the first failing member;
// optional members whose attribute is absent or null are left at their
// zero values.
func (d *Decoder) Decode(rec wire.Record, dst reflect.Value) error {
	if dst.Type() != d.typ {
		panic(fmt.Sprintf("decode: decoding into %s, want %s", dst.Type(), d.typ))
	}
	for i := range d.members {
		m := &d.members[i]
		f := dst.FieldByIndex(m.index)
		if m.eval != nil {
			v, err := m.eval(rec)
			if err != nil {
				return err
			}
			if err := m.set(f, v); err != nil {
				return err
			}
			continue
		}
		v, ok := rec[m.key]
		if err := m.pos(m.path, m.key, v, ok, f); err != nil {
			return err
		}
	}
	return nil
}

// compiler builds the closure tree. The active set catches models that
// own themselves, directly or through another navigation.
type compiler struct {
	active map[*schema.Model]bool
}

func (c *compiler) position(m *schema.Mapping, optional, nillable bool) (positionFunc, error) {
	leaf, err := c.value(m)
	if err != nil {
		return nil, err
	}
	nav := m.Owned != nil || (m.Elem != nil && m.Elem.Owned != nil)
	return func(path Path, attr string, v wire.Value, present bool, dst reflect.Value) error {
		if !present || wire.IsNull(v) {
			switch {
			case optional || nillable:
				return nil
			case nav:
				return failf(path, attr, "required owned navigation missing or NULL")
			case !present:
				return failf(path, attr, "missing property")
			default:
				return failf(path, attr, "was NULL")
			}
		}
		if nillable {
			p := reflect.New(dst.Type().Elem())
			if err := leaf(path, attr, v, p.Elem()); err != nil {
				return err
			}
			dst.Set(p)
			return nil
		}
		return leaf(path, attr, v, dst)
	}, nil
}

// model compiles the positions of an owned document. Sub-attributes
// decode from the navigation's map under the owner's path prefix.
func (c *compiler) model(m *schema.Model) (modelFunc, error) {
	if c.active[m] {
		return nil, fmt.Errorf("decode: model %s is owned recursively", m.Name())
	}
	c.active[m] = true
	defer delete(c.active, m)
	type sub struct {
		index []int
		key   string
		name  string
		pos   positionFunc
	}
	subs := make([]sub, 0, len(m.Fields()))
	for _, f := range m.Fields() {
		pos, err := c.position(&f.Mapping, f.Optional, f.Nillable)
		if err != nil {
			return nil, err
		}
		subs = append(subs, sub{index: f.Index, key: f.WireName, name: f.Name, pos: pos})
	}
	return func(path Path, wm wire.Map, dst reflect.Value) error {
		for i := range subs {
			s := &subs[i]
			v, ok := wm[s.key]
			if err := s.pos(path.child(s.name), s.key, v, ok, dst.FieldByIndex(s.index)); err != nil {
				return err
			}
		}
		return nil
	}, nil
}

func (c *compiler) eval(e *Eval) (evalFunc, error) {
	switch {
	case e == nil:
		return nil, errors.New("decode: computed member has no expression")
	case e.Col != nil:
		col := e.Col
		optional := col.Optional || col.Nillable
		return func(rec wire.Record) (decimal.Decimal, error) {
			v, ok := rec[col.Key]
			if !ok || wire.IsNull(v) {
				if optional {
					return decimal.Decimal{}, nil
				}
				if !ok {
					return decimal.Decimal{}, failf(col.Path, col.Key, "missing property")
				}
				return decimal.Decimal{}, failf(col.Path, col.Key, "was NULL")
			}
			n, ok := v.(wire.Number)
			if !ok {
				return decimal.Decimal{}, failf(col.Path, col.Key, "wire member number missing, value holds %s", v.Kind())
			}
			d, err := n.Decimal()
			if err != nil {
				return decimal.Decimal{}, wrap(col.Path, col.Key, "unparsable number", err)
			}
			return d, nil
		}, nil
	case e.X != nil:
		op := e.Op
		if !op.Arithmetic() {
			return nil, fmt.Errorf("decode: operator %s in a computed projection", op)
		}
		x, err := c.eval(e.X)
		if err != nil {
			return nil, err
		}
		y, err := c.eval(e.Y)
		if err != nil {
			return nil, err
		}
		return func(rec wire.Record) (decimal.Decimal, error) {
			a, err := x(rec)
			if err != nil {
				return decimal.Decimal{}, err
			}
			b, err := y(rec)
			if err != nil {
				return decimal.Decimal{}, err
			}
			switch op {
			case partiql.OpAdd:
				return a.Add(b), nil
			case partiql.OpSub:
				return a.Sub(b), nil
			case partiql.OpMul:
				return a.Mul(b), nil
			default:
				if b.IsZero() {
					return decimal.Decimal{}, errors.New("veloxdoc: division by zero in computed projection")
				}
				return a.Div(b), nil
			}
		}, nil
	default:
		lit := e.Lit
		return func(wire.Record) (decimal.Decimal, error) { return lit, nil }, nil
	}
}

// assignNumeric binds a computed decimal result to the member's numeric
// type. Integer members reject fractional results.
func assignNumeric(t reflect.Type) (setFunc, error) {
	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return func(dst reflect.Value, d decimal.Decimal) error {
			if !d.IsInteger() {
				return fmt.Errorf("veloxdoc: computed value %s is fractional, member is %s", d, dst.Type())
			}
			i := d.IntPart()
			if dst.OverflowInt(i) {
				return fmt.Errorf("veloxdoc: computed value %s overflows %s", d, dst.Type())
			}
			dst.SetInt(i)
			return nil
		}, nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return func(dst reflect.Value, d decimal.Decimal) error {
			if !d.IsInteger() {
				return fmt.Errorf("veloxdoc: computed value %s is fractional, member is %s", d, dst.Type())
			}
			i := d.IntPart()
			if i < 0 || dst.OverflowUint(uint64(i)) {
				return fmt.Errorf("veloxdoc: computed value %s overflows %s", d, dst.Type())
			}
			dst.SetUint(uint64(i))
			return nil
		}, nil
	case reflect.Float32, reflect.Float64:
		return func(dst reflect.Value, d decimal.Decimal) error {
			f, _ := d.Float64()
			if dst.OverflowFloat(f) {
				return fmt.Errorf("veloxdoc: computed value %s overflows %s", d, dst.Type())
			}
			dst.SetFloat(f)
			return nil
		}, nil
	}
	if t == decimalType {
		return func(dst reflect.Value, d decimal.Decimal) error {
			dst.Set(reflect.ValueOf(d))
			return nil
		}, nil
	}
	return nil, fmt.Errorf("decode: computed member type %s is not numeric", t)
}
