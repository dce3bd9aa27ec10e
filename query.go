package veloxdoc

import (
	"context"
	"reflect"

	"github.com/syssam/veloxdoc/decode"
	"github.com/syssam/veloxdoc/dialect/partiql"
	"github.com/syssam/veloxdoc/privacy"
	ql "github.com/syssam/veloxdoc/querylanguage"
	"github.com/syssam/veloxdoc/schema"
	"github.com/syssam/veloxdoc/translate"
	"github.com/syssam/veloxdoc/wire"
)

// A Binding overrides how one member of a projected struct is
// populated.
type Binding = translate.Binding

// Bound binds a struct member to the named model field when their
// names diverge.
func Bound(member, field string) Binding { return translate.Bound(member, field) }

// Computed binds a struct member to an arithmetic expression over
// model fields, evaluated on the fetched record.
func Computed(member string, e ql.Expr) Binding { return translate.Computed(member, e) }

// An Order sorts results by projected fields.
type Order struct {
	fields []string
	desc   bool
}

// Asc orders by the given fields in ascending order.
func Asc(fields ...string) Order { return Order{fields: fields} }

// Desc orders by the given fields in descending order.
func Desc(fields ...string) Order { return Order{fields: fields, desc: true} }

// Query is a typed query builder over one model. The zero projection
// fetches the whole entity; Select narrows it to named fields and
// Project maps it onto a separate struct type.
type Query[T any] struct {
	client *Client
	model  *schema.Model
	preds  []ql.P
	orders []Order
	fields []string
	limit  ql.Expr
	size   ql.Expr
}

// NewQuery returns a query over m materializing into T. For entity and
// field selections T must be the model's Go type; struct projections
// go through Project instead.
func NewQuery[T any](c *Client, m *schema.Model) *Query[T] {
	return &Query[T]{client: c, model: m}
}

// Where adds predicates to the query, conjoined with any previous
// ones.
func (q *Query[T]) Where(ps ...ql.P) *Query[T] {
	q.preds = append(q.preds, ps...)
	return q
}

// Select narrows the projection to the named fields. Members of T
// outside the selection stay at their zero values.
func (q *Query[T]) Select(fields ...string) *Query[T] {
	q.fields = append(q.fields, fields...)
	return q
}

// Order appends result orderings. Ordered fields must be part of the
// projection.
func (q *Query[T]) Order(orders ...Order) *Query[T] {
	q.orders = append(q.orders, orders...)
	return q
}

// Limit caps the total number of results across all pages.
func (q *Query[T]) Limit(n int) *Query[T] { return q.LimitExpr(ql.V(n)) }

// LimitExpr caps the total number of results with an expression
// evaluated at execution time, after parameters are bound.
func (q *Query[T]) LimitExpr(e ql.Expr) *Query[T] {
	q.limit = e
	return q
}

// PageSize caps the number of items requested per store round trip. It
// shapes requests only and never changes the total result count.
func (q *Query[T]) PageSize(n int) *Query[T] { return q.PageSizeExpr(ql.V(n)) }

// PageSizeExpr caps the per-request item count with an expression
// evaluated at execution time.
func (q *Query[T]) PageSizeExpr(e ql.Expr) *Query[T] {
	q.size = e
	return q
}

// Compile translates the query into an immutable execution plan.
// Translation is all-or-nothing: any expression outside the store
// grammar fails compilation with a TranslateError and nothing is
// executed.
func (q *Query[T]) Compile() (*Compiled[T], error) {
	if t := reflect.TypeOf((*T)(nil)).Elem(); t != q.model.GoType() {
		return nil, translate.Configf("query type %s does not match model %s (%s); use Project for struct projections",
			t, q.model.Name(), q.model.GoType())
	}
	var (
		sel translate.Selection
		err error
	)
	if len(q.fields) > 0 {
		sel, err = translate.Members(q.model, q.fields...)
	} else {
		sel, err = translate.Entity(q.model)
	}
	if err != nil {
		return nil, err
	}
	return compile[T](q, sel)
}

// Project compiles the query with a struct projection: every exported
// member of D binds to a model field by binding, tag, name, or unique
// navigation target type. D needs no relation to the model's Go type.
func Project[D, T any](q *Query[T], bindings ...Binding) (*Compiled[D], error) {
	sel, err := translate.Struct(q.model, reflect.TypeOf((*D)(nil)).Elem(), bindings...)
	if err != nil {
		return nil, err
	}
	return compile[D](q, sel)
}

func compile[D, T any](q *Query[T], sel translate.Selection) (*Compiled[D], error) {
	pred, err := translate.Predicate(q.model, q.preds...)
	if err != nil {
		return nil, err
	}
	var ords []partiql.Ordering
	for _, o := range q.orders {
		for _, name := range o.fields {
			f, ok := q.model.Field(name)
			if !ok {
				return nil, translate.Configf("model %s has no field %s to order by", q.model.Name(), name)
			}
			ords = append(ords, partiql.Ordering{
				Expr: partiql.Prop(f.WireName, f.Mapping.Kind),
				Desc: o.desc,
			})
		}
	}
	stmt := &partiql.Statement{
		Table:       q.model.Table(),
		Projections: sel.Projections(),
		Predicate:   pred,
		OrderBy:     ords,
	}
	if q.limit != nil {
		if stmt.Limit, err = translate.Limit(q.limit); err != nil {
			return nil, err
		}
	}
	if q.size != nil {
		if stmt.Size, err = translate.Limit(q.size); err != nil {
			return nil, err
		}
	}
	if err := stmt.Validate(); err != nil {
		return nil, err
	}
	dec, err := q.client.plans.decoder(q.model.Name(), sel.Shape())
	if err != nil {
		return nil, err
	}
	return &Compiled[D]{client: q.client, model: q.model, stmt: stmt, dec: dec}, nil
}

// A Compiled query is an immutable execution plan: the statement tree,
// its parameter names and a decoder for the projected shape. It is
// safe for concurrent executions; each execution binds its own
// parameter values.
type Compiled[T any] struct {
	client *Client
	model  *schema.Model
	stmt   *partiql.Statement
	dec    *decode.Decoder
}

// ParamNames returns the names of the parameters the plan references,
// in order of first appearance.
func (c *Compiled[T]) ParamNames() []string { return c.stmt.ParamNames() }

// Params carries parameter values for one execution, keyed by the
// names given to ql.Bind. Values may be wire values or plain Go values
// with an obvious wire form.
type Params map[string]any

// plan is one execution's rendered statement and paging settings.
type plan struct {
	text  string
	args  []wire.Value
	limit int64 // total result cap, -1 when unlimited
	size  int   // per-request cap, 0 leaves it to the store
}

// bind inlines the parameter values, renders the statement text and
// evaluates the paging expressions. All validation happens here,
// before any store request.
func (c *Compiled[T]) bind(params Params) (*plan, error) {
	values := make(map[string]wire.Value, len(params))
	for name, v := range params {
		w, err := translate.WireValue(v)
		if err != nil {
			return nil, translate.Configf("parameter %s: %v", name, err)
		}
		values[name] = w
	}
	bound, err := c.stmt.Inline(values)
	if err != nil {
		return nil, err
	}
	text, args, err := partiql.Render(bound)
	if err != nil {
		return nil, err
	}
	p := &plan{text: text, args: args, limit: -1, size: c.client.pageSize}
	if bound.Limit != nil {
		n, err := partiql.EvalInt(bound.Limit)
		if err != nil {
			return nil, err
		}
		if n < 0 {
			return nil, translate.Configf("negative result limit %d", n)
		}
		p.limit = n
	}
	if bound.Size != nil {
		n, err := partiql.EvalInt(bound.Size)
		if err != nil {
			return nil, err
		}
		if n <= 0 {
			return nil, translate.Configf("page size must be positive, got %d", n)
		}
		p.size = int(n)
	}
	return p, nil
}

// Describe renders the plan for the given parameters without executing
// it. It returns the statement text with positional placeholders and
// the parameter values in placeholder order. Nothing reaches the
// store, so the client's query policy is not consulted.
func (c *Compiled[T]) Describe(params Params) (string, []wire.Value, error) {
	p, err := c.bind(params)
	if err != nil {
		return "", nil, err
	}
	return p.text, p.args, nil
}

// queryView is the read-only view of a plan that policy rules receive.
type queryView struct {
	model    string
	table    string
	filtered bool
}

func (v queryView) Model() string  { return v.model }
func (v queryView) Table() string  { return v.table }
func (v queryView) Filtered() bool { return v.filtered }

// authorize evaluates the client's query policy against the plan. It
// runs before parameters are bound; a rejected caller learns nothing
// about the binding.
func (c *Compiled[T]) authorize(ctx context.Context) error {
	if len(c.client.policy) == 0 {
		return nil
	}
	return c.client.policy.EvalQuery(ctx, queryView{
		model:    c.model.Name(),
		table:    c.model.Table(),
		filtered: c.stmt.Predicate != nil,
	})
}

var _ privacy.Query = queryView{}
