// Package wire defines the tagged-union value model that schemaless
// document stores speak natively.
//
// A store record is a flat map of attribute name to Value. A Value holds
// exactly one variant: a string, a number (carried as decimal text), a
// boolean, an explicit null marker, a binary blob, a list, a nested map,
// or one of the three set variants (string, number, binary). The variant
// set is closed: every Value is one of the types declared in this package,
// and consumers dispatch on Kind or with a type switch.
package wire

import (
	"fmt"
	"sort"
	"strings"
)

// Kind identifies the populated variant of a Value.
type Kind uint8

// The closed set of wire variants.
const (
	KindInvalid Kind = iota
	KindString
	KindNumber
	KindBool
	KindNull
	KindBinary
	KindList
	KindMap
	KindStringSet
	KindNumberSet
	KindBinarySet
)

var kindNames = [...]string{
	KindInvalid:   "invalid",
	KindString:    "string",
	KindNumber:    "number",
	KindBool:      "bool",
	KindNull:      "null",
	KindBinary:    "binary",
	KindList:      "list",
	KindMap:       "map",
	KindStringSet: "string-set",
	KindNumberSet: "number-set",
	KindBinarySet: "binary-set",
}

// String returns the lowercase name of the kind.
func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// Scalar reports whether the kind is one of the single-member primitives
// (string, number, bool or binary).
func (k Kind) Scalar() bool {
	switch k {
	case KindString, KindNumber, KindBool, KindBinary:
		return true
	}
	return false
}

// Value is a single wire-format value. Exactly one variant is populated.
//
// The interface is sealed; the concrete types are String, Number, Bool,
// Null, Binary, List, Map, StringSet, NumberSet and BinarySet.
type Value interface {
	// Kind returns the populated variant.
	Kind() Kind

	// sealed prevents implementations outside this package, keeping the
	// variant set closed for exhaustive dispatch.
	sealed()
}

// Record is one row returned by the store: attribute name to value.
type Record map[string]Value

// Clone returns a shallow copy of the record.
func (r Record) Clone() Record {
	if r == nil {
		return nil
	}
	c := make(Record, len(r))
	for k, v := range r {
		c[k] = v
	}
	return c
}

type (
	// String is a UTF-8 string value.
	String string

	// Number is a numeric value carried as invariant decimal text,
	// e.g. "18", "-3.25", "2.5E+10". Stores keep numbers textual to
	// preserve arbitrary precision.
	Number string

	// Bool is a boolean value.
	Bool bool

	// Null is the explicit null marker. It is distinct from an absent
	// attribute: a present-but-null attribute decodes differently from a
	// missing one.
	Null struct{}

	// Binary is an opaque byte blob.
	Binary []byte

	// List is an ordered, heterogenous sequence of values.
	List []Value

	// Map is a nested attribute map, used for embedded objects and
	// free-form documents.
	Map map[string]Value

	// StringSet is an unordered set of unique strings.
	StringSet []string

	// NumberSet is an unordered set of unique numbers in decimal text form.
	NumberSet []string

	// BinarySet is an unordered set of unique byte blobs.
	BinarySet [][]byte
)

// Kind implementations for every variant.

func (String) Kind() Kind    { return KindString }
func (Number) Kind() Kind    { return KindNumber }
func (Bool) Kind() Kind      { return KindBool }
func (Null) Kind() Kind      { return KindNull }
func (Binary) Kind() Kind    { return KindBinary }
func (List) Kind() Kind      { return KindList }
func (Map) Kind() Kind       { return KindMap }
func (StringSet) Kind() Kind { return KindStringSet }
func (NumberSet) Kind() Kind { return KindNumberSet }
func (BinarySet) Kind() Kind { return KindBinarySet }

func (String) sealed()    {}
func (Number) sealed()    {}
func (Bool) sealed()      {}
func (Null) sealed()      {}
func (Binary) sealed()    {}
func (List) sealed()      {}
func (Map) sealed()       {}
func (StringSet) sealed() {}
func (NumberSet) sealed() {}
func (BinarySet) sealed() {}

// IsNull reports whether v is the null marker. A nil Value is not null;
// it represents an absent attribute.
func IsNull(v Value) bool {
	_, ok := v.(Null)
	return ok
}

// Format renders v in a compact, human-readable form for error messages
// and debug logs. It is not a serialization format.
func Format(v Value) string {
	var b strings.Builder
	format(&b, v)
	return b.String()
}

func format(b *strings.Builder, v Value) {
	switch v := v.(type) {
	case nil:
		b.WriteString("<absent>")
	case String:
		fmt.Fprintf(b, "%q", string(v))
	case Number:
		b.WriteString(string(v))
	case Bool:
		fmt.Fprintf(b, "%t", bool(v))
	case Null:
		b.WriteString("null")
	case Binary:
		fmt.Fprintf(b, "0x%x", []byte(v))
	case List:
		b.WriteByte('[')
		for i, e := range v {
			if i > 0 {
				b.WriteString(", ")
			}
			format(b, e)
		}
		b.WriteByte(']')
	case Map:
		b.WriteByte('{')
		for i, k := range sortedKeys(v) {
			if i > 0 {
				b.WriteString(", ")
			}
			fmt.Fprintf(b, "%s: ", k)
			format(b, v[k])
		}
		b.WriteByte('}')
	case StringSet:
		fmt.Fprintf(b, "strings%q", []string(v))
	case NumberSet:
		fmt.Fprintf(b, "numbers(%s)", strings.Join(v, ", "))
	case BinarySet:
		fmt.Fprintf(b, "binaries(n=%d)", len(v))
	}
}

func sortedKeys(m Map) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
