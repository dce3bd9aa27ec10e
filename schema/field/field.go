package field

import (
	"fmt"
	"reflect"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/syssam/veloxdoc/wire"
)

// A Descriptor holds the declared properties of a field. Builders in this
// package construct descriptors; the schema package compiles them into
// resolved field definitions.
type Descriptor struct {
	Name       string         // declared field name
	StorageKey string         // stored attribute name; defaults to Name
	Kind       wire.Kind      // wire variant the field maps to
	Type       reflect.Type   // declared Go type
	ElemKind   wire.Kind      // element variant for list/set/map kinds
	ElemType   reflect.Type   // element Go type for list/set/map kinds
	ElemConv   ValueConverter // element converter for list/set/map kinds
	Optional   bool           // absence and null resolve to the zero value
	Nillable   bool           // Go type is a pointer; absence and null stay nil
	Values     []string       // allowed values for enum fields
	Converter  ValueConverter // model <-> wire primitive converter
	Structural bool           // decoded through the structural document path
	Comment    string
	Err        error // first builder misuse; surfaced when the model compiles
}

// A Builder constructs a field Descriptor. All modifier methods return the
// builder for chaining; Descriptor finalizes it.
type Builder struct {
	desc *Descriptor
}

func newBuilder(name string, kind wire.Kind, typ reflect.Type) *Builder {
	return &Builder{desc: &Descriptor{Name: name, Kind: kind, Type: typ}}
}

// String returns a new string field.
func String(name string) *Builder {
	return newBuilder(name, wire.KindString, reflect.TypeOf(""))
}

// Bool returns a new boolean field.
func Bool(name string) *Builder {
	return newBuilder(name, wire.KindBool, reflect.TypeOf(false))
}

// Bytes returns a new binary field.
func Bytes(name string) *Builder {
	return newBuilder(name, wire.KindBinary, reflect.TypeOf([]byte(nil)))
}

// Int returns a new int field stored as a wire number.
func Int(name string) *Builder {
	return newBuilder(name, wire.KindNumber, reflect.TypeOf(int(0)))
}

// Int64 returns a new int64 field stored as a wire number.
func Int64(name string) *Builder {
	return newBuilder(name, wire.KindNumber, reflect.TypeOf(int64(0)))
}

// Uint64 returns a new uint64 field stored as a wire number.
func Uint64(name string) *Builder {
	return newBuilder(name, wire.KindNumber, reflect.TypeOf(uint64(0)))
}

// Float returns a new float64 field stored as a wire number.
func Float(name string) *Builder {
	return newBuilder(name, wire.KindNumber, reflect.TypeOf(float64(0)))
}

// Decimal returns a new arbitrary-precision decimal field. The wire
// number text is preserved losslessly in both directions.
func Decimal(name string) *Builder {
	return newBuilder(name, wire.KindNumber, reflect.TypeOf(decimal.Decimal{}))
}

// Time returns a new time field stored as RFC 3339 text.
func Time(name string) *Builder {
	b := newBuilder(name, wire.KindString, reflect.TypeOf(time.Time{}))
	b.desc.Converter = TimeConverter{}
	return b
}

// UUID returns a new UUID field stored as its canonical string form.
func UUID(name string) *Builder {
	b := newBuilder(name, wire.KindString, reflect.TypeOf(uuid.UUID{}))
	b.desc.Converter = UUIDConverter{}
	return b
}

// Enum returns a new string field restricted to a declared value set.
// Use Values to declare the set.
func Enum(name string) *Builder {
	b := String(name)
	b.desc.Values = []string{}
	return b
}

// Strings returns a new field holding an ordered list of strings.
func Strings(name string) *Builder {
	b := newBuilder(name, wire.KindList, reflect.TypeOf([]string(nil)))
	b.desc.ElemKind = wire.KindString
	b.desc.ElemType = reflect.TypeOf("")
	return b
}

// Ints returns a new field holding an ordered list of int64 numbers.
func Ints(name string) *Builder {
	b := newBuilder(name, wire.KindList, reflect.TypeOf([]int64(nil)))
	b.desc.ElemKind = wire.KindNumber
	b.desc.ElemType = reflect.TypeOf(int64(0))
	return b
}

// Floats returns a new field holding an ordered list of float64 numbers.
func Floats(name string) *Builder {
	b := newBuilder(name, wire.KindList, reflect.TypeOf([]float64(nil)))
	b.desc.ElemKind = wire.KindNumber
	b.desc.ElemType = reflect.TypeOf(float64(0))
	return b
}

// StringSet returns a new field holding an unordered set of unique
// strings. The default Go shape is a slice with duplicates dropped; a
// map[string]struct{} GoType is also supported.
func StringSet(name string) *Builder {
	b := newBuilder(name, wire.KindStringSet, reflect.TypeOf([]string(nil)))
	b.desc.ElemKind = wire.KindString
	b.desc.ElemType = reflect.TypeOf("")
	return b
}

// IntSet returns a new field holding an unordered set of unique int64
// numbers.
func IntSet(name string) *Builder {
	b := newBuilder(name, wire.KindNumberSet, reflect.TypeOf([]int64(nil)))
	b.desc.ElemKind = wire.KindNumber
	b.desc.ElemType = reflect.TypeOf(int64(0))
	return b
}

// BytesSet returns a new field holding an unordered set of unique byte
// blobs.
func BytesSet(name string) *Builder {
	b := newBuilder(name, wire.KindBinarySet, reflect.TypeOf([][]byte(nil)))
	b.desc.ElemKind = wire.KindBinary
	b.desc.ElemType = reflect.TypeOf([]byte(nil))
	return b
}

// StringMap returns a new field holding a map of string to string.
func StringMap(name string) *Builder {
	b := newBuilder(name, wire.KindMap, reflect.TypeOf(map[string]string(nil)))
	b.desc.ElemKind = wire.KindString
	b.desc.ElemType = reflect.TypeOf("")
	return b
}

// JSON returns a new free-form document field decoded through the
// structural path into the prototype's type. The prototype may be a
// struct, map, or slice shape:
//
//	field.JSON("metadata", map[string]any{})
//	field.JSON("config", Config{})
func JSON(name string, prototype any) *Builder {
	t := reflect.TypeOf(prototype)
	b := newBuilder(name, wire.KindMap, t)
	if t != nil && (t.Kind() == reflect.Slice || t.Kind() == reflect.Array) {
		b.desc.Kind = wire.KindList
	}
	b.desc.Structural = true
	if t == nil {
		b.desc.Err = fmt.Errorf("field %s: JSON prototype must not be an untyped nil", name)
	}
	return b
}

// Other returns a new field with a custom Go type. The wire kind defaults
// to string; use Wire to override it and Convert to install the
// model <-> wire conversion:
//
//	field.Other("ip", net.IP{}).
//	    Wire(wire.KindString).
//	    Convert(ipConverter{})
func Other(name string, prototype any) *Builder {
	t := reflect.TypeOf(prototype)
	b := newBuilder(name, wire.KindString, t)
	if t == nil {
		b.desc.Err = fmt.Errorf("field %s: Other prototype must not be an untyped nil", name)
	}
	return b
}

// Optional marks the field optional: a missing attribute or the null
// marker resolves to the zero value instead of failing materialization.
func (b *Builder) Optional() *Builder {
	b.desc.Optional = true
	return b
}

// Nillable marks the field nillable: the bound Go member must be a
// pointer, which stays nil when the attribute is missing or null.
func (b *Builder) Nillable() *Builder {
	b.desc.Nillable = true
	return b
}

// StorageKey overrides the stored attribute name.
func (b *Builder) StorageKey(key string) *Builder {
	b.desc.StorageKey = key
	return b
}

// Comment sets a descriptive comment on the field.
func (b *Builder) Comment(c string) *Builder {
	b.desc.Comment = c
	return b
}

// Values declares the allowed values of an enum field.
func (b *Builder) Values(vs ...string) *Builder {
	if b.desc.Kind != wire.KindString {
		b.err(fmt.Errorf("field %s: Values applies to enum fields only", b.desc.Name))
		return b
	}
	b.desc.Values = append(b.desc.Values, vs...)
	return b
}

// GoType overrides the declared Go type with the prototype's type. The
// override must remain compatible with the field's wire kind.
func (b *Builder) GoType(prototype any) *Builder {
	t := reflect.TypeOf(prototype)
	if t == nil {
		b.err(fmt.Errorf("field %s: GoType prototype must not be an untyped nil", b.desc.Name))
		return b
	}
	b.desc.Type = t
	return b
}

// Wire overrides the wire kind. Only meaningful for Other fields.
func (b *Builder) Wire(k wire.Kind) *Builder {
	b.desc.Kind = k
	return b
}

// Convert installs a model <-> wire primitive converter. The converter is
// applied last on the decode path: the raw wire member is extracted
// first, then handed to the converter to produce the model value.
func (b *Builder) Convert(c ValueConverter) *Builder {
	b.desc.Converter = c
	return b
}

// ConvertElem installs a converter for the elements of a list, set or
// map field.
func (b *Builder) ConvertElem(c ValueConverter) *Builder {
	switch b.desc.Kind {
	case wire.KindList, wire.KindMap, wire.KindStringSet, wire.KindNumberSet, wire.KindBinarySet:
		b.desc.ElemConv = c
	default:
		b.err(fmt.Errorf("field %s: ConvertElem applies to list, set and map fields only", b.desc.Name))
	}
	return b
}

// Descriptor returns the built descriptor.
func (b *Builder) Descriptor() *Descriptor {
	return b.desc
}

func (b *Builder) err(err error) {
	if b.desc.Err == nil {
		b.desc.Err = err
	}
}
