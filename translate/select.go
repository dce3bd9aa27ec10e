package translate

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-openapi/inflect"
	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"

	"github.com/syssam/veloxdoc/decode"
	"github.com/syssam/veloxdoc/dialect/partiql"
	ql "github.com/syssam/veloxdoc/querylanguage"
	"github.com/syssam/veloxdoc/schema"
	"github.com/syssam/veloxdoc/wire"
)

var decimalType = reflect.TypeOf(decimal.Decimal{})

// A Selection is one compiled projection strategy: the statement's
// column list plus the shape binding fetched attributes to the output
// type. Two strategies exist behind this interface. Member-keyed
// selections resolve every output member by name and stay refinable;
// position-keyed selections carry a flat column index list and are the
// fallback for client-evaluated member expressions.
type Selection interface {
	// Projections returns the statement's column list.
	Projections() []partiql.Projection
	// Shape returns the record-decoding shape for the output type.
	Shape() *decode.Shape
	// Chainable reports whether members are still resolvable by name,
	// allowing further Select and OrderBy refinement.
	Chainable() bool
}

// memberSelection keys every column by the member it populates.
type memberSelection struct {
	typ     reflect.Type
	cols    []*decode.Column
	members []decode.Member
}

func (s *memberSelection) Projections() []partiql.Projection { return projections(s.cols) }

func (s *memberSelection) Shape() *decode.Shape {
	return &decode.Shape{Type: s.typ, Members: s.members}
}

func (s *memberSelection) Chainable() bool { return true }

// positionSelection keys columns by their index in the projection list.
// Members reference column positions, and computed members combine
// several of them, so the selection cannot be refined member-wise.
type positionSelection struct {
	typ     reflect.Type
	cols    []*decode.Column
	members []decode.Member
}

func (s *positionSelection) Projections() []partiql.Projection { return projections(s.cols) }

func (s *positionSelection) Shape() *decode.Shape {
	return &decode.Shape{Type: s.typ, Members: s.members}
}

func (s *positionSelection) Chainable() bool { return false }

func projections(cols []*decode.Column) []partiql.Projection {
	ps := make([]partiql.Projection, len(cols))
	for i, c := range cols {
		ps[i] = partiql.Projection{Expr: partiql.Prop(c.Key, c.Mapping.Kind), Name: c.Key}
	}
	return ps
}

func fieldColumn(f *schema.FieldDef) *decode.Column {
	return &decode.Column{
		Key:      f.WireName,
		Pos:      -1,
		Mapping:  f.Mapping,
		Optional: f.Optional,
		Nillable: f.Nillable,
		Path:     decode.Path{f.Name},
	}
}

// Entity returns the whole-entity selection: every field of the model
// in declaration order, owned containers included. Members of embedded
// types are never projected individually; the container attribute is
// fetched whole and expanded during decoding.
func Entity(m *schema.Model) (Selection, error) {
	fields := m.Fields()
	if len(fields) == 0 {
		return nil, Configf("model %s has no fields to project", m.Name())
	}
	s := &memberSelection{typ: m.GoType()}
	for _, f := range fields {
		col := fieldColumn(f)
		s.cols = append(s.cols, col)
		s.members = append(s.members, decode.Member{Index: f.Index, Column: col})
	}
	return s, nil
}

// Members returns a selection restricted to the named fields of the
// model. Unselected members of the materialized value stay at their
// zero values. Duplicate names collapse; an unknown name is a
// configuration error.
func Members(m *schema.Model, names ...string) (Selection, error) {
	if len(names) == 0 {
		return nil, Configf("model %s: empty field selection", m.Name())
	}
	s := &memberSelection{typ: m.GoType()}
	seen := make(map[string]bool, len(names))
	for _, name := range names {
		if seen[name] {
			continue
		}
		seen[name] = true
		f, ok := m.Field(name)
		if !ok {
			return nil, Configf("unknown field %q on model %s", name, m.Name())
		}
		col := fieldColumn(f)
		s.cols = append(s.cols, col)
		s.members = append(s.members, decode.Member{Index: f.Index, Column: col})
	}
	return s, nil
}

// A Binding overrides how one member of a projected struct type is
// populated. See Bound and Computed.
type Binding struct {
	member string
	field  string
	expr   ql.Expr
}

// Bound binds the named struct member to a model field, overriding
// name-based matching. Use it when names diverge, or when two owned
// navigations share a target type and a type-based match would be
// ambiguous.
func Bound(member, field string) Binding {
	return Binding{member: member, field: field}
}

// Computed binds the named struct member to an arithmetic expression
// over numeric model fields. The operand attributes are fetched and the
// expression is evaluated client-side after materialization. A
// selection with computed members is position-keyed and cannot be
// refined further.
func Computed(member string, e ql.Expr) Binding {
	return Binding{member: member, expr: e}
}

var foldCaser = cases.Fold()

// Struct binds an output struct type against the model. Each exported
// member resolves to a model field through, in order: an explicit
// Binding, the member's veloxdoc tag, the field naming rules, and, for
// owned navigations only, a unique target-type match. Every member must
// resolve; members tagged `veloxdoc:"-"` are skipped. Member types must
// match the bound field's Go binding exactly.
func Struct(m *schema.Model, typ reflect.Type, bindings ...Binding) (Selection, error) {
	if typ != nil && typ.Kind() == reflect.Pointer {
		typ = typ.Elem()
	}
	if typ == nil || typ.Kind() != reflect.Struct {
		return nil, Configf("projection type must be a struct, got %v", typ)
	}
	byMember := make(map[string]Binding, len(bindings))
	for _, b := range bindings {
		if _, ok := byMember[b.member]; ok {
			return nil, Configf("member %s bound twice", b.member)
		}
		byMember[b.member] = b
	}
	var (
		set      = newColumnSet()
		members  []decode.Member
		consumed = make(map[string]bool)
		computed bool
	)
	for _, sf := range reflect.VisibleFields(typ) {
		if sf.PkgPath != "" || sf.Anonymous {
			continue
		}
		b, explicit := byMember[sf.Name]
		tag := memberTag(sf)
		if !explicit && tag == "-" {
			continue
		}
		switch {
		case explicit && b.expr != nil:
			consumed[sf.Name] = true
			if err := checkNumericMember(typ, sf); err != nil {
				return nil, err
			}
			ev, err := buildEval(m, b.expr, set)
			if err != nil {
				return nil, err
			}
			members = append(members, decode.Member{Index: sf.Index, Expr: ev})
			computed = true
		case explicit:
			consumed[sf.Name] = true
			f, ok := m.Field(b.field)
			if !ok {
				return nil, Configf("unknown field %q on model %s", b.field, m.Name())
			}
			if err := checkMemberType(typ, sf, f); err != nil {
				return nil, err
			}
			members = append(members, decode.Member{Index: sf.Index, Column: set.add(fieldColumn(f))})
		default:
			var (
				f   *schema.FieldDef
				err error
			)
			if tag != "" {
				if f, _ = m.Field(tag); f == nil {
					return nil, Configf("unknown field %q on model %s", tag, m.Name())
				}
			} else if f, err = matchField(m, typ, sf); err != nil {
				return nil, err
			}
			if err := checkMemberType(typ, sf, f); err != nil {
				return nil, err
			}
			members = append(members, decode.Member{Index: sf.Index, Column: set.add(fieldColumn(f))})
		}
	}
	for member := range byMember {
		if !consumed[member] {
			return nil, Configf("type %s has no member %s", typ, member)
		}
	}
	if len(members) == 0 {
		return nil, Configf("type %s has no bindable members", typ)
	}
	if computed {
		set.position()
		return &positionSelection{typ: typ, cols: set.cols, members: members}, nil
	}
	return &memberSelection{typ: typ, cols: set.cols, members: members}, nil
}

// matchField finds the model field a struct member binds to by name:
// first a field whose camelized name matches exactly, then a
// case-folded match with underscores ignored, then a navigation whose
// target type matches uniquely. Two navigations with the same target
// must be bound explicitly.
func matchField(m *schema.Model, typ reflect.Type, sf reflect.StructField) (*schema.FieldDef, error) {
	var exact []*schema.FieldDef
	for _, f := range m.Fields() {
		if inflect.Camelize(f.Name) == sf.Name {
			exact = append(exact, f)
		}
	}
	if len(exact) == 1 {
		return exact[0], nil
	}
	if len(exact) > 1 {
		return nil, Configf("fields %s of model %s all bind member %s.%s",
			fieldNames(exact), m.Name(), typ, sf.Name)
	}
	folded := foldCaser.String(sf.Name)
	var loose []*schema.FieldDef
	for _, f := range m.Fields() {
		if foldCaser.String(strings.ReplaceAll(f.Name, "_", "")) == folded {
			loose = append(loose, f)
		}
	}
	if len(loose) == 1 {
		return loose[0], nil
	}
	if len(loose) > 1 {
		return nil, Configf("fields %s of model %s all bind member %s.%s",
			fieldNames(loose), m.Name(), typ, sf.Name)
	}
	want := sf.Type
	if want.Kind() == reflect.Pointer {
		want = want.Elem()
	}
	var navs []*schema.FieldDef
	for _, f := range m.Navigations() {
		if f.Mapping.Type == want {
			navs = append(navs, f)
		}
	}
	switch len(navs) {
	case 1:
		return navs[0], nil
	case 0:
		return nil, Configf("model %s has no field for member %s.%s", m.Name(), typ, sf.Name)
	default:
		return nil, Configf("navigations %s of model %s all target %s; bind member %s with Bound",
			fieldNames(navs), m.Name(), sf.Type, sf.Name)
	}
}

func fieldNames(fs []*schema.FieldDef) string {
	names := make([]string, len(fs))
	for i, f := range fs {
		names[i] = f.Name
	}
	return strings.Join(names, " and ")
}

func checkMemberType(typ reflect.Type, sf reflect.StructField, f *schema.FieldDef) error {
	want := f.Mapping.Type
	if f.Nillable {
		want = reflect.PointerTo(want)
	}
	if sf.Type != want {
		return Configf("member %s.%s is %s, want %s", typ, sf.Name, sf.Type, want)
	}
	return nil
}

func checkNumericMember(typ reflect.Type, sf reflect.StructField) error {
	switch sf.Type.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return nil
	}
	if sf.Type == decimalType {
		return nil
	}
	return Configf("computed member %s.%s is %s, want a numeric type", typ, sf.Name, sf.Type)
}

// buildEval compiles a client-evaluated arithmetic expression. Operand
// fields must be numeric scalars; their columns are appended to the
// selection so the store fetches them.
func buildEval(m *schema.Model, e ql.Expr, set *columnSet) (*decode.Eval, error) {
	switch e := e.(type) {
	case *ql.Field:
		f, ok := m.Field(e.Name)
		if !ok {
			return nil, Configf("unknown field %q on model %s", e.Name, m.Name())
		}
		if f.Mapping.Kind != wire.KindNumber {
			return nil, untransf(e, "field %s is not numeric", e.Name)
		}
		return &decode.Eval{Col: set.add(fieldColumn(f))}, nil
	case *ql.Value:
		d, err := decimalOf(e.V)
		if err != nil {
			return nil, &Error{Expr: e.String(), Err: err}
		}
		return &decode.Eval{Lit: d}, nil
	case *ql.Param:
		return nil, untransf(e, "parameters cannot appear in computed projections")
	case *ql.ArithExpr:
		op, ok := arithOps[e.Op]
		if !ok {
			return nil, untransf(e, "operator %s is not arithmetic", e.Op)
		}
		x, err := buildEval(m, e.X, set)
		if err != nil {
			return nil, err
		}
		y, err := buildEval(m, e.Y, set)
		if err != nil {
			return nil, err
		}
		return &decode.Eval{Op: op, X: x, Y: y}, nil
	default:
		return nil, untransf(e, "no client-side evaluation")
	}
}

// decimalOf widens a numeric literal to an exact decimal for
// client-side evaluation.
func decimalOf(v any) (decimal.Decimal, error) {
	if d, ok := v.(decimal.Decimal); ok {
		return d, nil
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return decimal.NewFromInt(rv.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return decimal.NewFromUint64(rv.Uint()), nil
	case reflect.Float32, reflect.Float64:
		return decimal.NewFromFloat(rv.Float()), nil
	}
	return decimal.Decimal{}, fmt.Errorf("not a numeric literal: %T", v)
}

// memberTag returns the name part of the member's veloxdoc tag.
func memberTag(sf reflect.StructField) string {
	tag, ok := sf.Tag.Lookup(schema.TagName)
	if !ok {
		return ""
	}
	if i := strings.IndexByte(tag, ','); i >= 0 {
		return tag[:i]
	}
	return tag
}

// columnSet accumulates projection columns, collapsing repeated
// attributes onto one column.
type columnSet struct {
	cols  []*decode.Column
	byKey map[string]*decode.Column
}

func newColumnSet() *columnSet {
	return &columnSet{byKey: make(map[string]*decode.Column)}
}

func (s *columnSet) add(c *decode.Column) *decode.Column {
	if prev, ok := s.byKey[c.Key]; ok {
		return prev
	}
	s.byKey[c.Key] = c
	s.cols = append(s.cols, c)
	return c
}

func (s *columnSet) position() {
	for i, c := range s.cols {
		c.Pos = i
	}
}
