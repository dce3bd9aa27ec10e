package partiql_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/require"

	"github.com/syssam/veloxdoc/dialect/partiql"
	"github.com/syssam/veloxdoc/wire"
)

func numProp(name string) *partiql.Property { return partiql.Prop(name, wire.KindNumber) }

func strProp(name string) *partiql.Property { return partiql.Prop(name, wire.KindString) }

func boolProp(name string) *partiql.Property { return partiql.Prop(name, wire.KindBool) }

func numConst(v int64) *partiql.Constant { return partiql.Const(wire.Int(v)) }

func strConst(v string) *partiql.Constant { return partiql.Const(wire.String(v)) }

func project(props ...*partiql.Property) []partiql.Projection {
	ps := make([]partiql.Projection, len(props))
	for i, p := range props {
		ps[i] = partiql.Projection{Expr: p, Name: p.Name()}
	}
	return ps
}

// renderBlob renders the statement into the golden-file layout: the
// statement text first, then one line per positional parameter.
func renderBlob(t *testing.T, s *partiql.Statement) []byte {
	t.Helper()
	text, params, err := partiql.Render(s)
	require.NoError(t, err)
	var b strings.Builder
	fmt.Fprintf(&b, "stmt: %s\n", text)
	for i, p := range params {
		fmt.Fprintf(&b, "arg%d: %s\n", i, wire.Format(p))
	}
	return []byte(b.String())
}

func TestRenderGolden(t *testing.T) {
	t.Parallel()
	age, name, active := numProp("Age"), strProp("Name"), boolProp("Active")
	tests := []struct {
		name string
		stmt *partiql.Statement
	}{
		{
			name: "select_where",
			stmt: &partiql.Statement{
				Table:       "Users",
				Projections: project(age, name),
				Predicate: partiql.MustBin(partiql.OpAnd,
					partiql.MustBin(partiql.OpGTE, age, numConst(18)),
					partiql.MustBin(partiql.OpNEQ, name, strConst("bot")),
				),
			},
		},
		{
			name: "or_under_and",
			stmt: &partiql.Statement{
				Table:       "Users",
				Projections: project(age, active),
				Predicate: partiql.MustBin(partiql.OpAnd,
					partiql.MustBin(partiql.OpOr,
						partiql.MustBin(partiql.OpEQ, age, numConst(1)),
						partiql.MustBin(partiql.OpEQ, age, numConst(2)),
					),
					partiql.MustBin(partiql.OpEQ, active, partiql.Const(wire.Bool(true))),
				),
			},
		},
		{
			name: "and_under_or",
			stmt: &partiql.Statement{
				Table:       "Users",
				Projections: project(age, active),
				Predicate: partiql.MustBin(partiql.OpOr,
					partiql.MustBin(partiql.OpEQ, age, numConst(1)),
					partiql.MustBin(partiql.OpAnd,
						partiql.MustBin(partiql.OpEQ, age, numConst(2)),
						partiql.MustBin(partiql.OpEQ, active, partiql.Const(wire.Bool(true))),
					),
				),
			},
		},
		{
			name: "arithmetic",
			stmt: &partiql.Statement{
				Table:       "Salaries",
				Projections: project(numProp("Base"), numProp("Bonus")),
				Predicate: partiql.MustBin(partiql.OpGTE,
					partiql.MustBin(partiql.OpMul,
						partiql.MustBin(partiql.OpAdd, numProp("Base"), numProp("Bonus")),
						numConst(2),
					),
					numConst(100),
				),
			},
		},
		{
			name: "order_by",
			stmt: &partiql.Statement{
				Table:       "Events",
				Projections: project(name, strProp("CreatedAt")),
				Predicate:   partiql.MustBin(partiql.OpEQ, name, strConst("deploy")),
				OrderBy: []partiql.Ordering{
					{Expr: strProp("CreatedAt"), Desc: true},
					{Expr: name},
				},
			},
		},
		{
			name: "quoted_identifiers",
			stmt: &partiql.Statement{
				Table:       "Order Log",
				Projections: project(strProp("Select"), strProp("Status")),
				Predicate:   partiql.MustBin(partiql.OpEQ, strProp("Status"), strConst("open")),
			},
		},
		{
			name: "bare_select",
			stmt: &partiql.Statement{
				Table:       "Items",
				Projections: project(strProp("Id")),
			},
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			g := goldie.New(t,
				goldie.WithFixtureDir("testdata/golden"),
				goldie.WithNameSuffix(".golden"),
			)
			g.Assert(t, tt.name, renderBlob(t, tt.stmt))
		})
	}
}

func TestRenderPrecedence(t *testing.T) {
	t.Parallel()
	a, b, c := numProp("A"), numProp("B"), numProp("C")
	eq := func(p *partiql.Property) partiql.Node {
		return partiql.MustBin(partiql.OpEQ, p, numConst(1))
	}
	tests := []struct {
		name string
		pred partiql.Node
		want string
	}{
		{
			name: "and_chain_flat",
			pred: partiql.MustBin(partiql.OpAnd,
				partiql.MustBin(partiql.OpAnd, eq(a), eq(b)), eq(c)),
			want: "A = ? AND B = ? AND C = ?",
		},
		{
			name: "or_chain_flat",
			pred: partiql.MustBin(partiql.OpOr,
				eq(a), partiql.MustBin(partiql.OpOr, eq(b), eq(c))),
			want: "A = ? OR B = ? OR C = ?",
		},
		{
			name: "or_right_of_and",
			pred: partiql.MustBin(partiql.OpAnd,
				eq(a), partiql.MustBin(partiql.OpOr, eq(b), eq(c))),
			want: "A = ? AND (B = ? OR C = ?)",
		},
		{
			name: "add_chain_flat",
			pred: partiql.MustBin(partiql.OpLT,
				partiql.MustBin(partiql.OpAdd, partiql.MustBin(partiql.OpAdd, a, b), c),
				numConst(10)),
			want: "A + B + C < ?",
		},
		{
			name: "sub_right_nests",
			pred: partiql.MustBin(partiql.OpLT,
				partiql.MustBin(partiql.OpSub, a, partiql.MustBin(partiql.OpSub, b, c)),
				numConst(10)),
			want: "A - (B - C) < ?",
		},
		{
			name: "div_left_nests",
			pred: partiql.MustBin(partiql.OpLT,
				partiql.MustBin(partiql.OpDiv, partiql.MustBin(partiql.OpDiv, a, b), c),
				numConst(10)),
			want: "(A / B) / C < ?",
		},
		{
			name: "mul_binds_over_add",
			pred: partiql.MustBin(partiql.OpLT,
				partiql.MustBin(partiql.OpAdd, a, partiql.MustBin(partiql.OpMul, b, c)),
				numConst(10)),
			want: "A + B * C < ?",
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			stmt := &partiql.Statement{
				Table:       "T",
				Projections: project(a, b, c),
				Predicate:   tt.pred,
			}
			text, _, err := partiql.Render(stmt)
			require.NoError(t, err)
			require.Equal(t, "SELECT A, B, C FROM T WHERE "+tt.want, text)
		})
	}
}

func TestRenderParamOrder(t *testing.T) {
	t.Parallel()
	stmt := &partiql.Statement{
		Table:       "Users",
		Projections: project(numProp("Age"), strProp("Name")),
		Predicate: partiql.MustBin(partiql.OpAnd,
			partiql.MustBin(partiql.OpEQ, strProp("Name"), strConst("ana")),
			partiql.MustBin(partiql.OpOr,
				partiql.MustBin(partiql.OpLT, numProp("Age"), numConst(18)),
				partiql.MustBin(partiql.OpGT, numProp("Age"), numConst(65)),
			),
		),
	}
	text, params, err := partiql.Render(stmt)
	require.NoError(t, err)
	require.Equal(t, "SELECT Age, Name FROM Users WHERE Name = ? AND (Age < ? OR Age > ?)", text)
	require.Equal(t, []wire.Value{wire.String("ana"), wire.Int(18), wire.Int(65)}, params)
}

func TestRenderErrors(t *testing.T) {
	t.Parallel()
	age := numProp("Age")
	tests := []struct {
		name string
		stmt *partiql.Statement
		want string
	}{
		{
			name: "no_table",
			stmt: &partiql.Statement{Projections: project(age)},
			want: "no table",
		},
		{
			name: "empty_projections",
			stmt: &partiql.Statement{Table: "Users"},
			want: "empty projection list",
		},
		{
			name: "unnamed_projection",
			stmt: &partiql.Statement{
				Table:       "Users",
				Projections: []partiql.Projection{{Expr: age}},
			},
			want: "no output name",
		},
		{
			name: "predicate_not_condition",
			stmt: &partiql.Statement{
				Table:       "Users",
				Projections: project(age),
				Predicate:   age,
			},
			want: "want a condition",
		},
		{
			name: "ordering_not_projected",
			stmt: &partiql.Statement{
				Table:       "Users",
				Projections: project(age),
				OrderBy:     []partiql.Ordering{{Expr: strProp("Name")}},
			},
			want: "not projected",
		},
		{
			name: "limit_not_number",
			stmt: &partiql.Statement{
				Table:       "Users",
				Projections: project(age),
				Limit:       strConst("ten"),
			},
			want: "want number",
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, _, err := partiql.Render(tt.stmt)
			require.ErrorContains(t, err, tt.want)
		})
	}
}

func TestRenderPanicsOnParameter(t *testing.T) {
	t.Parallel()
	stmt := &partiql.Statement{
		Table:       "Users",
		Projections: project(numProp("Age")),
		Predicate: partiql.MustBin(partiql.OpGTE,
			numProp("Age"), partiql.Param("min_age", wire.KindNumber)),
	}
	require.PanicsWithValue(t, "partiql: parameter min_age survived inlining", func() {
		_, _, _ = partiql.Render(stmt)
	})
}
