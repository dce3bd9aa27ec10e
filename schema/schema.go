package schema

import (
	"fmt"
	"reflect"

	"github.com/go-openapi/inflect"
	"github.com/shopspring/decimal"

	"github.com/syssam/veloxdoc/schema/field"
	"github.com/syssam/veloxdoc/wire"
)

// A Builder declares a model before it is compiled. Builders are not
// safe for concurrent use; compiled Models are.
type Builder struct {
	name   string
	table  string
	fields []*field.Builder
	navs   []*Navigation
}

// New returns a model builder with the given name and fields. The name
// is declared in snake_case and drives the default table and attribute
// naming.
func New(name string, fields ...*field.Builder) *Builder {
	return &Builder{name: name, fields: fields}
}

// Table overrides the table name. The default is the camelized plural
// of the model name.
func (b *Builder) Table(name string) *Builder {
	b.table = name
	return b
}

// Owns declares the model's owned navigations. See One and Many.
func (b *Builder) Owns(navs ...*Navigation) *Builder {
	b.navs = append(b.navs, navs...)
	return b
}

// A Mixin contributes a reusable set of fields to a model declaration.
// The schema/mixin package ships common ones.
type Mixin interface {
	Fields() []*field.Builder
}

// Use appends the fields contributed by the given mixins, in order.
// Mixed-in fields resolve against the prototype like declared ones.
func (b *Builder) Use(mixins ...Mixin) *Builder {
	for _, m := range mixins {
		b.fields = append(b.fields, m.Fields()...)
	}
	return b
}

// A Navigation declares an owned navigation: a target model embedded in
// the owner's document, either as a single map attribute or as a list
// of maps.
type Navigation struct {
	name       string
	target     *Model
	collection bool
	optional   bool
	nillable   bool
	storageKey string
	comment    string
}

// One declares a single owned document stored as a map attribute. It is
// required by default.
func One(name string, target *Model) *Navigation {
	return &Navigation{name: name, target: target}
}

// Many declares an owned collection stored as a list of map attributes.
// It is optional by default; absence resolves to an empty slice.
func Many(name string, target *Model) *Navigation {
	return &Navigation{name: name, target: target, collection: true, optional: true}
}

// Optional marks the navigation optional: absence and null resolve to
// the zero value.
func (n *Navigation) Optional() *Navigation {
	n.optional = true
	return n
}

// Required marks the navigation required: absence and null fail
// materialization.
func (n *Navigation) Required() *Navigation {
	n.optional = false
	return n
}

// Nillable binds a single navigation to a pointer member that stays nil
// on absence and null. Collections cannot be nillable.
func (n *Navigation) Nillable() *Navigation {
	n.nillable = true
	return n
}

// StorageKey overrides the stored attribute name.
func (n *Navigation) StorageKey(key string) *Navigation {
	n.storageKey = key
	return n
}

// Comment sets a descriptive comment on the navigation.
func (n *Navigation) Comment(c string) *Navigation {
	n.comment = c
	return n
}

// Compile resolves the declared fields and navigations against the
// prototype's struct type and returns the immutable model. The
// prototype may be a struct value or a pointer to one.
func (b *Builder) Compile(prototype any) (*Model, error) {
	typ := reflect.TypeOf(prototype)
	if typ != nil && typ.Kind() == reflect.Pointer {
		typ = typ.Elem()
	}
	if typ == nil || typ.Kind() != reflect.Struct {
		return nil, fmt.Errorf("schema: model %s: prototype must be a struct, got %T", b.name, prototype)
	}
	if b.name == "" {
		return nil, fmt.Errorf("schema: model name must not be empty")
	}
	m := &Model{
		name:   b.name,
		table:  b.table,
		typ:    typ,
		byName: make(map[string]*FieldDef),
		byWire: make(map[string]*FieldDef),
	}
	if m.table == "" {
		m.table = inflect.Camelize(inflect.Pluralize(b.name))
	}
	bound := make(map[string]string) // struct member -> field name
	for _, fb := range b.fields {
		fd, err := b.compileField(typ, fb.Descriptor())
		if err != nil {
			return nil, err
		}
		if err := m.add(fd, bound, typ); err != nil {
			return nil, err
		}
	}
	for _, nav := range b.navs {
		fd, err := b.compileNavigation(typ, nav)
		if err != nil {
			return nil, err
		}
		if err := m.add(fd, bound, typ); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// MustCompile is like Compile but panics on error. It simplifies model
// declaration at package scope.
func (b *Builder) MustCompile(prototype any) *Model {
	m, err := b.Compile(prototype)
	if err != nil {
		panic(err)
	}
	return m
}

func (m *Model) add(fd *FieldDef, bound map[string]string, typ reflect.Type) error {
	if _, ok := m.byName[fd.Name]; ok {
		return fmt.Errorf("schema: model %s: duplicate field %s", m.name, fd.Name)
	}
	if prev, ok := m.byWire[fd.WireName]; ok {
		return fmt.Errorf("schema: model %s: fields %s and %s share attribute %s", m.name, prev.Name, fd.Name, fd.WireName)
	}
	member := typ.FieldByIndex(fd.Index).Name
	if prev, ok := bound[member]; ok {
		return fmt.Errorf("schema: model %s: fields %s and %s bind to the same member %s", m.name, prev, fd.Name, member)
	}
	bound[member] = fd.Name
	m.fields = append(m.fields, fd)
	m.byName[fd.Name] = fd
	m.byWire[fd.WireName] = fd
	return nil
}

func (b *Builder) compileField(typ reflect.Type, desc *field.Descriptor) (*FieldDef, error) {
	if desc.Err != nil {
		return nil, fmt.Errorf("schema: model %s: %w", b.name, desc.Err)
	}
	mapping := Mapping{
		Type:       desc.Type,
		Kind:       desc.Kind,
		Converter:  desc.Converter,
		Structural: desc.Structural,
		Values:     desc.Values,
	}
	if desc.ElemKind != wire.KindInvalid {
		mapping.Elem = &Mapping{
			Type:      desc.ElemType,
			Kind:      desc.ElemKind,
			Converter: desc.ElemConv,
		}
	}
	if err := checkMapping(&mapping); err != nil {
		return nil, fmt.Errorf("schema: model %s: field %s: %w", b.name, desc.Name, err)
	}
	fd := &FieldDef{
		Name:     desc.Name,
		WireName: desc.StorageKey,
		Mapping:  mapping,
		Optional: desc.Optional,
		Nillable: desc.Nillable,
		Comment:  desc.Comment,
	}
	if fd.WireName == "" {
		fd.WireName = inflect.Camelize(desc.Name)
	}
	if err := b.bind(typ, fd); err != nil {
		return nil, err
	}
	return fd, nil
}

func (b *Builder) compileNavigation(typ reflect.Type, nav *Navigation) (*FieldDef, error) {
	if nav.target == nil {
		return nil, fmt.Errorf("schema: model %s: navigation %s: target model must be compiled first", b.name, nav.name)
	}
	if nav.collection && nav.nillable {
		return nil, fmt.Errorf("schema: model %s: navigation %s: collections cannot be nillable", b.name, nav.name)
	}
	mapping := Mapping{
		Type:  nav.target.GoType(),
		Kind:  wire.KindMap,
		Owned: nav.target,
	}
	if nav.collection {
		elem := mapping
		mapping = Mapping{
			Type: reflect.SliceOf(nav.target.GoType()),
			Kind: wire.KindList,
			Elem: &elem,
		}
	}
	fd := &FieldDef{
		Name:     nav.name,
		WireName: nav.storageKey,
		Mapping:  mapping,
		Optional: nav.optional,
		Nillable: nav.nillable,
		Comment:  nav.comment,
	}
	if fd.WireName == "" {
		fd.WireName = inflect.Camelize(nav.name)
	}
	if err := b.bind(typ, fd); err != nil {
		return nil, err
	}
	return fd, nil
}

// bind resolves the field's struct member and validates its Go type
// against the declared mapping.
func (b *Builder) bind(typ reflect.Type, fd *FieldDef) error {
	sf, err := resolveMember(typ, fd.Name)
	if err != nil {
		return fmt.Errorf("schema: model %s: field %s: %w", b.name, fd.Name, err)
	}
	want := fd.Mapping.Type
	if fd.Nillable {
		want = reflect.PointerTo(want)
	}
	if sf.Type != want {
		return fmt.Errorf("schema: model %s: field %s: member %s is %s, want %s", b.name, fd.Name, sf.Name, sf.Type, want)
	}
	fd.Index = sf.Index
	return nil
}

var decimalType = reflect.TypeOf(decimal.Decimal{})

// checkMapping validates that the declared Go type can carry the wire
// kind. Converters own their Go side and structural fields are decoded
// by shape, so both skip the check.
func checkMapping(m *Mapping) error {
	if m.Converter != nil || m.Structural {
		if m.Type == nil {
			return fmt.Errorf("missing Go type")
		}
		return nil
	}
	t := m.Type
	if t == nil {
		return fmt.Errorf("missing Go type")
	}
	switch m.Kind {
	case wire.KindString:
		if t.Kind() != reflect.String {
			return fmt.Errorf("go type %s cannot hold a %s", t, m.Kind)
		}
	case wire.KindBool:
		if t.Kind() != reflect.Bool {
			return fmt.Errorf("go type %s cannot hold a %s", t, m.Kind)
		}
	case wire.KindNumber:
		switch t.Kind() {
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
			reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
			reflect.Float32, reflect.Float64:
		default:
			if t != decimalType {
				return fmt.Errorf("go type %s cannot hold a %s", t, m.Kind)
			}
		}
	case wire.KindBinary:
		if t.Kind() != reflect.Slice || t.Elem().Kind() != reflect.Uint8 {
			return fmt.Errorf("go type %s cannot hold a %s", t, m.Kind)
		}
	case wire.KindList:
		if t.Kind() != reflect.Slice {
			return fmt.Errorf("go type %s cannot hold a %s", t, m.Kind)
		}
		return checkElem(m, t.Elem())
	case wire.KindStringSet, wire.KindNumberSet, wire.KindBinarySet:
		switch t.Kind() {
		case reflect.Slice:
			return checkElem(m, t.Elem())
		case reflect.Map:
			if t.Elem() != reflect.TypeOf(struct{}{}) {
				return fmt.Errorf("set go type %s must be a slice or a map to struct{}", t)
			}
			return checkElem(m, t.Key())
		default:
			return fmt.Errorf("go type %s cannot hold a %s", t, m.Kind)
		}
	case wire.KindMap:
		if t.Kind() != reflect.Map || t.Key().Kind() != reflect.String {
			return fmt.Errorf("go type %s cannot hold a %s", t, m.Kind)
		}
		return checkElem(m, t.Elem())
	default:
		return fmt.Errorf("unsupported wire kind %s", m.Kind)
	}
	return nil
}

func checkElem(m *Mapping, have reflect.Type) error {
	if m.Elem == nil {
		return fmt.Errorf("missing element mapping for %s", m.Kind)
	}
	if m.Elem.Type != have {
		return fmt.Errorf("element go type %s, want %s", have, m.Elem.Type)
	}
	return checkMapping(m.Elem)
}
