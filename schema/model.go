package schema

import (
	"fmt"
	"reflect"

	"github.com/syssam/veloxdoc/schema/field"
	"github.com/syssam/veloxdoc/wire"
)

// A Mapping describes how one value position moves between its Go type
// and its wire variant. Composite positions nest: list, set and map
// mappings carry an element mapping, owned navigations carry the target
// model.
type Mapping struct {
	// Type is the Go type of the position, without the Nillable pointer.
	Type reflect.Type
	// Kind is the wire variant the position is stored as.
	Kind wire.Kind
	// Converter bridges Type and the wire primitive, if the position
	// needs one. It is applied last on the decode path.
	Converter field.ValueConverter
	// Elem is the element mapping of a list, set or map position.
	Elem *Mapping
	// Owned is the target model of an owned navigation position.
	Owned *Model
	// Structural marks positions decoded through the document path
	// instead of a compiled field plan.
	Structural bool
	// Values restricts a string position to an enum value set.
	Values []string
}

// A FieldDef is a compiled field of a model: the declared descriptor
// resolved against the bound struct.
type FieldDef struct {
	// Name is the declared snake_case field name.
	Name string
	// WireName is the stored attribute name.
	WireName string
	// Mapping describes the field's value shape.
	Mapping Mapping
	// Optional fields resolve absence and null to the zero value.
	Optional bool
	// Nillable fields bind to a pointer member that stays nil on
	// absence and null.
	Nillable bool
	// Index is the struct member index chain for reflect.FieldByIndex.
	Index []int
	// Comment is the declared field comment.
	Comment string
}

// IsNavigation reports whether the field is an owned navigation, either
// a single embedded document or a collection of them.
func (f *FieldDef) IsNavigation() bool {
	return f.Mapping.Owned != nil || (f.Mapping.Elem != nil && f.Mapping.Elem.Owned != nil)
}

// Target returns the owned model of a navigation field and nil for
// ordinary fields.
func (f *FieldDef) Target() *Model {
	if f.Mapping.Owned != nil {
		return f.Mapping.Owned
	}
	if f.Mapping.Elem != nil {
		return f.Mapping.Elem.Owned
	}
	return nil
}

// IsCollection reports whether the field is an owned collection
// navigation.
func (f *FieldDef) IsCollection() bool {
	return f.Mapping.Elem != nil && f.Mapping.Elem.Owned != nil
}

// A Model is the compiled metadata of one document type: its name, its
// table, its bound Go struct and its fields in declaration order.
// Models are immutable once compiled and safe for concurrent use.
type Model struct {
	name   string
	table  string
	typ    reflect.Type
	fields []*FieldDef
	byName map[string]*FieldDef
	byWire map[string]*FieldDef
}

// Name returns the declared model name.
func (m *Model) Name() string { return m.name }

// Table returns the table the model's documents live in.
func (m *Model) Table() string { return m.table }

// GoType returns the struct type the model binds to.
func (m *Model) GoType() reflect.Type { return m.typ }

// Fields returns the model's fields in declaration order, navigations
// included. The returned slice is a copy.
func (m *Model) Fields() []*FieldDef {
	fs := make([]*FieldDef, len(m.fields))
	copy(fs, m.fields)
	return fs
}

// Field returns the field with the declared name.
func (m *Model) Field(name string) (*FieldDef, bool) {
	f, ok := m.byName[name]
	return f, ok
}

// FieldByWire returns the field stored under the attribute name.
func (m *Model) FieldByWire(attr string) (*FieldDef, bool) {
	f, ok := m.byWire[attr]
	return f, ok
}

// Navigation returns the owned navigation with the declared name. It
// fails when the name is unknown or names an ordinary field.
func (m *Model) Navigation(name string) (*FieldDef, error) {
	f, ok := m.byName[name]
	if !ok {
		return nil, fmt.Errorf("schema: model %s has no field %s", m.name, name)
	}
	if !f.IsNavigation() {
		return nil, fmt.Errorf("schema: field %s.%s is not an owned navigation", m.name, name)
	}
	return f, nil
}

// Navigations returns the model's owned navigations in declaration
// order.
func (m *Model) Navigations() []*FieldDef {
	var navs []*FieldDef
	for _, f := range m.fields {
		if f.IsNavigation() {
			navs = append(navs, f)
		}
	}
	return navs
}

func (m *Model) String() string {
	return fmt.Sprintf("Model(%s -> %s)", m.name, m.table)
}
