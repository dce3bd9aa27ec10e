package decode

import (
	"bytes"
	"fmt"
	"reflect"
	"strconv"

	"github.com/shopspring/decimal"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/syssam/veloxdoc/schema"
	"github.com/syssam/veloxdoc/wire"
)

var (
	decimalType      = reflect.TypeOf(decimal.Decimal{})
	emptyStructValue = reflect.ValueOf(struct{}{})
)

// value compiles the decoder for a present, non-null wire value against
// its mapping. Converters and structural fields bypass the kind-driven
// path entirely.
func (c *compiler) value(m *schema.Mapping) (decodeFunc, error) {
	if m.Converter != nil {
		return converterFunc(m), nil
	}
	if m.Structural {
		return structuralFunc(m), nil
	}
	switch m.Kind {
	case wire.KindString:
		return decodeString, nil
	case wire.KindBool:
		return decodeBool, nil
	case wire.KindBinary:
		return decodeBinary, nil
	case wire.KindNumber:
		return numberFunc(m.Type)
	case wire.KindList:
		elem, err := c.elem(m)
		if err != nil {
			return nil, err
		}
		return listFunc(elem), nil
	case wire.KindMap:
		if m.Owned != nil {
			mf, err := c.model(m.Owned)
			if err != nil {
				return nil, err
			}
			return ownedFunc(mf), nil
		}
		if m.Elem == nil {
			return nil, fmt.Errorf("decode: map mapping has no element mapping")
		}
		elem, err := c.value(m.Elem)
		if err != nil {
			return nil, err
		}
		return mapFunc(elem), nil
	case wire.KindStringSet, wire.KindNumberSet, wire.KindBinarySet:
		return c.set(m)
	}
	return nil, fmt.Errorf("decode: no decoder for wire kind %s", m.Kind)
}

// elem compiles the element decoder of a list mapping. Owned elements
// decode whole documents from their sub-maps, keyed by their ordinal in
// the list.
func (c *compiler) elem(m *schema.Mapping) (decodeFunc, error) {
	if m.Elem == nil {
		return nil, fmt.Errorf("decode: list mapping has no element mapping")
	}
	if m.Elem.Owned != nil {
		mf, err := c.model(m.Elem.Owned)
		if err != nil {
			return nil, err
		}
		return ownedFunc(mf), nil
	}
	return c.value(m.Elem)
}

// ownedFunc asserts the sub-map of an owned document before recursing
// into its attributes.
func ownedFunc(mf modelFunc) decodeFunc {
	return func(path Path, attr string, v wire.Value, dst reflect.Value) error {
		wm, ok := v.(wire.Map)
		if !ok {
			return failf(path, attr, "wire member map missing, value holds %s", v.Kind())
		}
		return mf(path, wm, dst)
	}
}

func decodeString(path Path, attr string, v wire.Value, dst reflect.Value) error {
	s, ok := v.(wire.String)
	if !ok {
		return failf(path, attr, "wire member string missing, value holds %s", v.Kind())
	}
	dst.SetString(string(s))
	return nil
}

func decodeBool(path Path, attr string, v wire.Value, dst reflect.Value) error {
	b, ok := v.(wire.Bool)
	if !ok {
		return failf(path, attr, "wire member bool missing, value holds %s", v.Kind())
	}
	dst.SetBool(bool(b))
	return nil
}

func decodeBinary(path Path, attr string, v wire.Value, dst reflect.Value) error {
	b, ok := v.(wire.Binary)
	if !ok {
		return failf(path, attr, "wire member binary missing, value holds %s", v.Kind())
	}
	dst.SetBytes(bytes.Clone([]byte(b)))
	return nil
}

// numberFunc compiles the numeric decoder for the mapping's Go type.
// Parsing is invariant: integers parse in integer mode and reject
// fractional text, floats parse as binary floating point, and decimal
// members parse losslessly.
func numberFunc(t reflect.Type) (decodeFunc, error) {
	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return func(path Path, attr string, v wire.Value, dst reflect.Value) error {
			n, ok := v.(wire.Number)
			if !ok {
				return failf(path, attr, "wire member number missing, value holds %s", v.Kind())
			}
			i, err := n.Int64()
			if err != nil {
				return wrap(path, attr, "unparsable number", err)
			}
			if dst.OverflowInt(i) {
				return failf(path, attr, "number %s overflows %s", n, dst.Type())
			}
			dst.SetInt(i)
			return nil
		}, nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return func(path Path, attr string, v wire.Value, dst reflect.Value) error {
			n, ok := v.(wire.Number)
			if !ok {
				return failf(path, attr, "wire member number missing, value holds %s", v.Kind())
			}
			u, err := n.Uint64()
			if err != nil {
				return wrap(path, attr, "unparsable number", err)
			}
			if dst.OverflowUint(u) {
				return failf(path, attr, "number %s overflows %s", n, dst.Type())
			}
			dst.SetUint(u)
			return nil
		}, nil
	case reflect.Float32, reflect.Float64:
		return func(path Path, attr string, v wire.Value, dst reflect.Value) error {
			n, ok := v.(wire.Number)
			if !ok {
				return failf(path, attr, "wire member number missing, value holds %s", v.Kind())
			}
			f, err := n.Float64()
			if err != nil {
				return wrap(path, attr, "unparsable number", err)
			}
			if dst.OverflowFloat(f) {
				return failf(path, attr, "number %s overflows %s", n, dst.Type())
			}
			dst.SetFloat(f)
			return nil
		}, nil
	}
	if t == decimalType {
		return func(path Path, attr string, v wire.Value, dst reflect.Value) error {
			n, ok := v.(wire.Number)
			if !ok {
				return failf(path, attr, "wire member number missing, value holds %s", v.Kind())
			}
			d, err := n.Decimal()
			if err != nil {
				return wrap(path, attr, "unparsable number", err)
			}
			dst.Set(reflect.ValueOf(d))
			return nil
		}, nil
	}
	return nil, fmt.Errorf("decode: go type %s cannot hold a number", t)
}

func listFunc(elem decodeFunc) decodeFunc {
	return func(path Path, attr string, v wire.Value, dst reflect.Value) error {
		list, ok := v.(wire.List)
		if !ok {
			return failf(path, attr, "wire member list missing, value holds %s", v.Kind())
		}
		out := reflect.MakeSlice(dst.Type(), len(list), len(list))
		for i, ev := range list {
			child := path.child(strconv.Itoa(i))
			if wire.IsNull(ev) {
				return failf(child, attr, "was NULL")
			}
			if err := elem(child, attr, ev, out.Index(i)); err != nil {
				return err
			}
		}
		dst.Set(out)
		return nil
	}
}

func mapFunc(elem decodeFunc) decodeFunc {
	return func(path Path, attr string, v wire.Value, dst reflect.Value) error {
		wm, ok := v.(wire.Map)
		if !ok {
			return failf(path, attr, "wire member map missing, value holds %s", v.Kind())
		}
		out := reflect.MakeMapWithSize(dst.Type(), len(wm))
		et := dst.Type().Elem()
		kt := dst.Type().Key()
		for k, ev := range wm {
			child := path.child(k)
			if wire.IsNull(ev) {
				return failf(child, attr, "was NULL")
			}
			slot := reflect.New(et).Elem()
			if err := elem(child, attr, ev, slot); err != nil {
				return err
			}
			out.SetMapIndex(reflect.ValueOf(k).Convert(kt), slot)
		}
		dst.Set(out)
		return nil
	}
}

// set compiles a set decoder. The Go binding is either a slice or a
// map to struct{}; members deduplicate by their wire text either way.
func (c *compiler) set(m *schema.Mapping) (decodeFunc, error) {
	if m.Elem == nil {
		return nil, fmt.Errorf("decode: %s mapping has no element mapping", m.Kind)
	}
	elem, err := c.value(m.Elem)
	if err != nil {
		return nil, err
	}
	kind := m.Kind
	return func(path Path, attr string, v wire.Value, dst reflect.Value) error {
		if v.Kind() != kind {
			return failf(path, attr, "wire member %s missing, value holds %s", kind, v.Kind())
		}
		var members []wire.Value
		switch v := v.(type) {
		case wire.StringSet:
			members = make([]wire.Value, len(v))
			for i, s := range v {
				members[i] = wire.String(s)
			}
		case wire.NumberSet:
			members = make([]wire.Value, len(v))
			for i, s := range v {
				members[i] = wire.Number(s)
			}
		case wire.BinarySet:
			members = make([]wire.Value, len(v))
			for i, b := range v {
				members[i] = wire.Binary(b)
			}
		}
		seen := make(map[string]bool, len(members))
		if dst.Kind() == reflect.Map {
			out := reflect.MakeMapWithSize(dst.Type(), len(members))
			kt := dst.Type().Key()
			for i, ev := range members {
				key := memberKey(ev)
				if seen[key] {
					continue
				}
				seen[key] = true
				slot := reflect.New(kt).Elem()
				if err := elem(path.child(strconv.Itoa(i)), attr, ev, slot); err != nil {
					return err
				}
				out.SetMapIndex(slot, emptyStructValue)
			}
			dst.Set(out)
			return nil
		}
		out := reflect.MakeSlice(dst.Type(), 0, len(members))
		et := dst.Type().Elem()
		for i, ev := range members {
			key := memberKey(ev)
			if seen[key] {
				continue
			}
			seen[key] = true
			slot := reflect.New(et).Elem()
			if err := elem(path.child(strconv.Itoa(i)), attr, ev, slot); err != nil {
				return err
			}
			out = reflect.Append(out, slot)
		}
		dst.Set(out)
		return nil
	}, nil
}

func memberKey(v wire.Value) string {
	switch v := v.(type) {
	case wire.String:
		return string(v)
	case wire.Number:
		return string(v)
	case wire.Binary:
		return string(v)
	}
	return ""
}

// converterFunc decodes through the field's value converter. The wire
// member is asserted against the declared kind first; the converter
// receives the typed member and owns the Go side.
func converterFunc(m *schema.Mapping) decodeFunc {
	conv := m.Converter
	want := m.Kind
	return func(path Path, attr string, v wire.Value, dst reflect.Value) error {
		if v.Kind() != want {
			return failf(path, attr, "wire member %s missing, value holds %s", want, v.Kind())
		}
		got, err := conv.FromWire(v)
		if err != nil {
			return wrap(path, attr, "unconvertible value", err)
		}
		rv := reflect.ValueOf(got)
		if !rv.IsValid() || !rv.Type().AssignableTo(dst.Type()) {
			return failf(path, attr, "converter produced %T, want %s", got, dst.Type())
		}
		dst.Set(rv)
		return nil
	}
}

// structuralFunc decodes free-form document fields: the wire value
// lowers to a canonical Go tree, round-trips through msgpack and lands
// in the member's declared shape.
func structuralFunc(m *schema.Mapping) decodeFunc {
	want := m.Kind
	return func(path Path, attr string, v wire.Value, dst reflect.Value) error {
		if v.Kind() != want {
			return failf(path, attr, "wire member %s missing, value holds %s", want, v.Kind())
		}
		tree, err := canonical(v)
		if err != nil {
			return wrap(path, attr, "unparsable number", err)
		}
		raw, err := msgpack.Marshal(tree)
		if err != nil {
			return wrap(path, attr, "unencodable document", err)
		}
		p := reflect.New(dst.Type())
		if err := msgpack.Unmarshal(raw, p.Interface()); err != nil {
			return wrap(path, attr, "document does not fit", err)
		}
		dst.Set(p.Elem())
		return nil
	}
}

// canonical lowers a wire value to the plain Go tree the structural
// round-trip encodes: map[string]any, []any and primitives. Numbers
// become int64 when the text is integral and float64 otherwise.
func canonical(v wire.Value) (any, error) {
	switch v := v.(type) {
	case wire.String:
		return string(v), nil
	case wire.Number:
		if i, err := v.Int64(); err == nil {
			return i, nil
		}
		f, err := v.Float64()
		if err != nil {
			return nil, err
		}
		return f, nil
	case wire.Bool:
		return bool(v), nil
	case wire.Null:
		return nil, nil
	case wire.Binary:
		return []byte(v), nil
	case wire.List:
		out := make([]any, len(v))
		for i, e := range v {
			c, err := canonical(e)
			if err != nil {
				return nil, err
			}
			out[i] = c
		}
		return out, nil
	case wire.Map:
		out := make(map[string]any, len(v))
		for k, e := range v {
			c, err := canonical(e)
			if err != nil {
				return nil, err
			}
			out[k] = c
		}
		return out, nil
	case wire.StringSet:
		return []string(v), nil
	case wire.NumberSet:
		out := make([]any, len(v))
		for i, s := range v {
			c, err := canonical(wire.Number(s))
			if err != nil {
				return nil, err
			}
			out[i] = c
		}
		return out, nil
	case wire.BinarySet:
		return [][]byte(v), nil
	}
	return nil, fmt.Errorf("no canonical form for %s", v.Kind())
}
