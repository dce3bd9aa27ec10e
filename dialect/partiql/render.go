package partiql

import (
	"fmt"
	"strings"

	"github.com/syssam/veloxdoc/wire"
)

// Render turns a statement into executable text plus the positional
// parameter values, in the order their placeholders appear. Every
// Constant renders as ? and contributes its value; limit and page-size
// expressions are not part of the text.
//
// Render expects a fully inlined statement. Reaching a Parameter node
// means a plan was executed without binding, which is a bug in the
// caller, and Render panics rather than producing a broken statement.
func Render(s *Statement) (string, []wire.Value, error) {
	if err := s.Validate(); err != nil {
		return "", nil, err
	}
	r := &renderer{}
	r.b.WriteString("SELECT ")
	for i, p := range s.Projections {
		if i > 0 {
			r.b.WriteString(", ")
		}
		r.node(p.Expr, nil)
	}
	r.b.WriteString(" FROM ")
	r.ident(s.Table)
	if s.Predicate != nil {
		r.b.WriteString(" WHERE ")
		r.node(s.Predicate, nil)
	}
	if len(s.OrderBy) > 0 {
		r.b.WriteString(" ORDER BY ")
		for i, o := range s.OrderBy {
			if i > 0 {
				r.b.WriteString(", ")
			}
			r.ident(o.Expr.Name())
			if o.Desc {
				r.b.WriteString(" DESC")
			} else {
				r.b.WriteString(" ASC")
			}
		}
	}
	return r.b.String(), r.params, nil
}

type renderer struct {
	b      strings.Builder
	params []wire.Value
}

func (r *renderer) node(n Node, parent *Binary) {
	switch n := n.(type) {
	case *Property:
		r.ident(n.name)
	case *Constant:
		r.b.WriteByte('?')
		r.params = append(r.params, n.value)
	case *Parameter:
		panic(fmt.Sprintf("partiql: parameter %s survived inlining", n.name))
	case *Binary:
		if needsParens(n, parent) {
			r.b.WriteByte('(')
			r.binary(n)
			r.b.WriteByte(')')
		} else {
			r.binary(n)
		}
	}
}

func (r *renderer) binary(n *Binary) {
	r.node(n.x, n)
	r.b.WriteByte(' ')
	r.b.WriteString(n.op.String())
	r.b.WriteByte(' ')
	r.node(n.y, n)
}

// needsParens decides whether a binary operand must parenthesize
// against its parent. An operand renders bare only when it binds
// strictly tighter than the parent, or equally tight under the same
// associative operator. Everything else, notably OR directly under
// AND, gets parentheses.
func needsParens(n, parent *Binary) bool {
	if parent == nil {
		return false
	}
	np, pp := n.op.precedence(), parent.op.precedence()
	if np > pp {
		return false
	}
	if np == pp && n.op == parent.op && n.op.associative() {
		return false
	}
	return true
}

// ident writes an identifier, quoting it when it collides with a
// grammar keyword or is not a plain name. Embedded quotes double.
func (r *renderer) ident(name string) {
	if !needsQuoting(name) {
		r.b.WriteString(name)
		return
	}
	r.b.WriteByte('"')
	r.b.WriteString(strings.ReplaceAll(name, `"`, `""`))
	r.b.WriteByte('"')
}

func needsQuoting(name string) bool {
	if name == "" || reserved[strings.ToUpper(name)] {
		return true
	}
	for i, c := range name {
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c == '_':
		case c >= '0' && c <= '9':
			if i == 0 {
				return true
			}
		default:
			return true
		}
	}
	return false
}
