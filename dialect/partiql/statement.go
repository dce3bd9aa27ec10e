package partiql

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/syssam/veloxdoc/wire"
)

// A Projection is one entry of the statement's column list. Name is the
// output name the decoder binds the fetched attribute to; it is not part
// of the rendered text.
type Projection struct {
	Expr Node
	Name string
}

// An Ordering sorts the result by a projected property.
type Ordering struct {
	Expr *Property
	Desc bool
}

// A Statement is a compiled query plan: what to fetch, from where, under
// which condition, in which order, and how much. Limit caps the total
// result count and Size caps one page; both are expressions so bound
// parameters can size them at execution time, and both stay out of the
// rendered text.
//
// A Statement is built once and never mutated afterwards. Inline
// produces bound copies.
type Statement struct {
	Table       string
	Projections []Projection
	Predicate   Node
	OrderBy     []Ordering
	Limit       Node
	Size        Node
}

// Validate checks the structural invariants of the plan: a table, a
// non-empty projection list, a boolean predicate, orderings that
// reference projected properties only, and numeric limit expressions.
func (s *Statement) Validate() error {
	if s.Table == "" {
		return errors.New("partiql: statement has no table")
	}
	if len(s.Projections) == 0 {
		return errors.New("partiql: statement has an empty projection list")
	}
	props := make(map[string]bool)
	for i, p := range s.Projections {
		if p.Expr == nil {
			return fmt.Errorf("partiql: projection %d has no expression", i)
		}
		if p.Name == "" {
			return fmt.Errorf("partiql: projection %d has no output name", i)
		}
		collectProps(p.Expr, props)
	}
	if s.Predicate != nil && !condition(s.Predicate.Kind()) {
		return fmt.Errorf("partiql: predicate evaluates to %s, want a condition", s.Predicate.Kind())
	}
	for _, o := range s.OrderBy {
		if o.Expr == nil {
			return errors.New("partiql: ordering has no property")
		}
		if !props[o.Expr.Name()] {
			return fmt.Errorf("partiql: ordering on %s, which is not projected", o.Expr.Name())
		}
	}
	if s.Limit != nil && !numeric(s.Limit.Kind()) {
		return fmt.Errorf("partiql: limit expression evaluates to %s, want number", s.Limit.Kind())
	}
	if s.Size != nil && !numeric(s.Size.Kind()) {
		return fmt.Errorf("partiql: page size expression evaluates to %s, want number", s.Size.Kind())
	}
	return nil
}

func collectProps(n Node, props map[string]bool) {
	switch n := n.(type) {
	case *Property:
		props[n.name] = true
	case *Binary:
		collectProps(n.x, props)
		collectProps(n.y, props)
	}
}

// ParamNames returns the names of all parameters the statement
// references, in order of first appearance.
func (s *Statement) ParamNames() []string {
	var names []string
	seen := make(map[string]bool)
	var walk func(Node)
	walk = func(n Node) {
		switch n := n.(type) {
		case *Parameter:
			if !seen[n.name] {
				seen[n.name] = true
				names = append(names, n.name)
			}
		case *Binary:
			walk(n.x)
			walk(n.y)
		}
	}
	for _, p := range s.Projections {
		walk(p.Expr)
	}
	if s.Predicate != nil {
		walk(s.Predicate)
	}
	if s.Limit != nil {
		walk(s.Limit)
	}
	if s.Size != nil {
		walk(s.Size)
	}
	return names
}

// Inline returns a copy of the statement with every Parameter replaced
// by a Constant holding its bound value. The receiver is left untouched;
// unchanged subtrees are shared, which is safe because nodes are
// immutable.
//
// Binding is strict in both directions: a referenced parameter without a
// value and a supplied value without a referencing parameter are both
// errors, as is a value whose wire kind contradicts the parameter's
// declared kind. Null values bind to parameters of any kind.
func (s *Statement) Inline(params map[string]wire.Value) (*Statement, error) {
	in := &inliner{
		params:  params,
		used:    make(map[string]bool),
		missing: make(map[string]bool),
	}
	out := &Statement{Table: s.Table}
	if len(s.Projections) > 0 {
		out.Projections = make([]Projection, len(s.Projections))
		for i, p := range s.Projections {
			out.Projections[i] = Projection{Expr: in.node(p.Expr), Name: p.Name}
		}
	}
	if s.Predicate != nil {
		out.Predicate = in.node(s.Predicate)
	}
	out.OrderBy = append([]Ordering(nil), s.OrderBy...)
	if s.Limit != nil {
		out.Limit = in.node(s.Limit)
	}
	if s.Size != nil {
		out.Size = in.node(s.Size)
	}
	if in.err != nil {
		return nil, in.err
	}
	if len(in.missing) > 0 {
		return nil, fmt.Errorf("partiql: missing values for parameters: %s", joinNames(in.missing))
	}
	if len(in.used) < len(params) {
		unused := make(map[string]bool)
		for name := range params {
			if !in.used[name] {
				unused[name] = true
			}
		}
		return nil, fmt.Errorf("partiql: unused parameters: %s", joinNames(unused))
	}
	return out, nil
}

type inliner struct {
	params  map[string]wire.Value
	used    map[string]bool
	missing map[string]bool
	err     error
}

func (in *inliner) node(n Node) Node {
	if in.err != nil {
		return n
	}
	switch n := n.(type) {
	case *Parameter:
		v, ok := in.params[n.name]
		if !ok {
			in.missing[n.name] = true
			return n
		}
		if v == nil {
			v = wire.Null{}
		}
		if n.kind != wire.KindInvalid && v.Kind() != n.kind && v.Kind() != wire.KindNull {
			in.err = fmt.Errorf("partiql: parameter %s expects %s, got %s", n.name, n.kind, v.Kind())
			return n
		}
		in.used[n.name] = true
		return Const(v)
	case *Binary:
		x, y := in.node(n.x), in.node(n.y)
		if x == n.x && y == n.y {
			return n
		}
		return &Binary{op: n.op, x: x, y: y, kind: n.kind}
	default:
		return n
	}
}

func joinNames(set map[string]bool) string {
	names := make([]string, 0, len(set))
	for name := range set {
		names = append(names, name)
	}
	sort.Strings(names)
	return strings.Join(names, ", ")
}

// EvalInt evaluates a constant arithmetic expression to an integer.
// Limit and page-size expressions are evaluated with it after inlining.
// Properties, parameters and non-integer constants are errors, as is
// division by zero.
func EvalInt(n Node) (int64, error) {
	switch n := n.(type) {
	case nil:
		return 0, errors.New("partiql: evaluating nil expression")
	case *Constant:
		num, ok := n.value.(wire.Number)
		if !ok {
			return 0, fmt.Errorf("partiql: %s is not a number", wire.Format(n.value))
		}
		return num.Int64()
	case *Parameter:
		return 0, fmt.Errorf("partiql: parameter %s not inlined", n.name)
	case *Property:
		return 0, fmt.Errorf("partiql: property %s in a constant expression", n.name)
	case *Binary:
		if !n.op.Arithmetic() {
			return 0, fmt.Errorf("partiql: operator %s in a constant expression", n.op)
		}
		x, err := EvalInt(n.x)
		if err != nil {
			return 0, err
		}
		y, err := EvalInt(n.y)
		if err != nil {
			return 0, err
		}
		switch n.op {
		case OpAdd:
			return x + y, nil
		case OpSub:
			return x - y, nil
		case OpMul:
			return x * y, nil
		default:
			if y == 0 {
				return 0, errors.New("partiql: division by zero")
			}
			return x / y, nil
		}
	default:
		return 0, fmt.Errorf("partiql: unexpected node %T", n)
	}
}
