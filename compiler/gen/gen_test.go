package gen_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dave/jennifer/jen"
	"github.com/stretchr/testify/require"

	"github.com/syssam/veloxdoc/compiler/gen"
	"github.com/syssam/veloxdoc/compiler/load"
)

const manifest = `
package: github.com/acme/shop/models
models:
  - name: customer
    fields:
      - name: name
        type: string
        comment: Display name shown on invoices.
      - name: age
        type: int
        optional: true
      - name: balance
        type: decimal
      - name: joined
        type: time
      - name: tags
        type: string_set
        optional: true
      - name: meta
        type: json
        optional: true
      - name: referrer
        type: string
        nillable: true
    owns:
      - nav: home
        model: address
        optional: true
        nillable: true
      - nav: orders
        model: order
        many: true
        required: true
  - name: address
    fields:
      - name: street
        type: string
      - name: city
        type: string
        storage_key: Town
  - name: order
    table: OrderBook
    fields:
      - name: code
        type: uuid
      - name: qty
        type: int64
      - name: status
        type: enum
        values: [open, shipped]
`

func mustManifest(t *testing.T, src string) *load.Manifest {
	t.Helper()
	m, err := load.Parse(strings.NewReader(src))
	require.NoError(t, err)
	return m
}

func render(t *testing.T, f *jen.File) string {
	t.Helper()
	require.NotNil(t, f)
	var buf bytes.Buffer
	require.NoError(t, f.Render(&buf))
	return buf.String()
}

func TestFiles(t *testing.T) {
	m := mustManifest(t, manifest)
	files := gen.Files(m)
	require.Len(t, files, 7)

	t.Run("CustomerModel", func(t *testing.T) {
		src := render(t, files["customer/customer.go"])
		require.Contains(t, src, "// Code generated by veloxdoc gen. DO NOT EDIT.")
		require.Contains(t, src, "package customer")
		require.Contains(t, src, "type Customer struct {")
		require.Contains(t, src, "// Display name shown on invoices.")
		require.Regexp(t, `Name\s+string`, src)
		require.Regexp(t, `Balance\s+decimal\.Decimal`, src)
		require.Regexp(t, `Joined\s+time\.Time`, src)
		require.Regexp(t, `Tags\s+\[\]string`, src)
		require.Regexp(t, `Meta\s+map\[string\]any`, src)
		require.Regexp(t, `Referrer\s+\*string`, src)
		require.Regexp(t, `Home\s+\*address\.Address`, src)
		require.Regexp(t, `Orders\s+\[\]order\.Order`, src)
		require.Contains(t, src, `"github.com/acme/shop/models/address"`)

		require.Contains(t, src, `const Table = "Customers"`)
		require.Regexp(t, `FieldName\s+= "name"`, src)
		require.Regexp(t, `FieldReferrer\s+= "referrer"`, src)
		require.Regexp(t, `NavHome\s+= "home"`, src)
		require.Regexp(t, `NavOrders\s+= "orders"`, src)

		require.Contains(t, src, `var Model = schema.New("customer"`)
		require.Contains(t, src, `field.String("name").Comment("Display name shown on invoices.")`)
		require.Contains(t, src, `field.Int("age").Optional()`)
		require.Contains(t, src, `field.StringSet("tags").Optional()`)
		require.Contains(t, src, `field.JSON("meta", map[string]any{}).Optional()`)
		require.Contains(t, src, `field.String("referrer").Nillable()`)
		require.Contains(t, src, `.Owns(schema.One("home", address.Model).Optional().Nillable(), schema.Many("orders", order.Model).Required())`)
		require.Contains(t, src, ".MustCompile(Customer{})")
	})

	t.Run("CustomerWhere", func(t *testing.T) {
		src := render(t, files["customer/where.go"])
		require.Contains(t, src, `ql "github.com/syssam/veloxdoc/querylanguage"`)
		require.Contains(t, src, "func Name(p ql.StringP) ql.P {")
		require.Contains(t, src, "return p.Field(FieldName)")
		require.Contains(t, src, "func Balance(p ql.DecimalP) ql.P {")
		require.Contains(t, src, "func Joined(p ql.TimeP) ql.P {")
		require.Contains(t, src, "func Referrer(p ql.StringP) ql.P {")
		require.NotContains(t, src, "func Tags")
		require.NotContains(t, src, "func Meta")
	})

	t.Run("AddressModel", func(t *testing.T) {
		src := render(t, files["address/address.go"])
		require.Contains(t, src, "package address")
		require.Contains(t, src, `const Table = "Addresses"`)
		require.Contains(t, src, `field.String("city").StorageKey("Town")`)
	})

	t.Run("OrderModel", func(t *testing.T) {
		src := render(t, files["order/order.go"])
		require.Contains(t, src, `const Table = "OrderBook"`)
		require.Contains(t, src, `.Table("OrderBook")`)
		require.Contains(t, src, "type Status string")
		require.Regexp(t, `StatusOpen\s+Status = "open"`, src)
		require.Contains(t, src, `StatusShipped Status = "shipped"`)
		require.Contains(t, src, `field.Enum("status").Values("open", "shipped").GoType(Status(""))`)
		require.Regexp(t, `Status\s+Status\n`, src)
	})

	t.Run("OrderWhere", func(t *testing.T) {
		src := render(t, files["order/where.go"])
		require.Contains(t, src, "func Code(p ql.ValueP) ql.P {")
		require.Contains(t, src, "func Qty(p ql.Int64P) ql.P {")
		require.Contains(t, src, "func StatusPred(p ql.ValueP) ql.P {")
		require.Contains(t, src, "return p.Field(FieldStatus)")
	})

	t.Run("Registry", func(t *testing.T) {
		src := render(t, files["models.go"])
		require.Contains(t, src, "package models")
		require.Contains(t, src, "var Registry = newRegistry()")
		require.Contains(t, src, "func newRegistry() *schema.Registry {")
		require.Contains(t, src, "r.Add(customer.Model, address.Model, order.Model)")
		require.Contains(t, src, `"github.com/acme/shop/models/customer"`)
	})
}

func TestFilesEnumCollision(t *testing.T) {
	m := mustManifest(t, `
package: github.com/acme/shop/models
models:
  - name: status
    fields:
      - name: status
        type: enum
        values: [active, retired]
`)
	files := gen.Files(m)
	src := render(t, files["status/status.go"])
	require.Contains(t, src, "type Status struct {")
	require.Contains(t, src, "type StatusEnum string")
	require.Regexp(t, `StatusEnumActive\s+StatusEnum = "active"`, src)
	require.Contains(t, src, `.GoType(StatusEnum(""))`)

	where := render(t, files["status/where.go"])
	require.Contains(t, where, "func StatusPred(p ql.ValueP) ql.P {")
}

func TestFilesNoBinders(t *testing.T) {
	m := mustManifest(t, `
package: github.com/acme/shop/models
models:
  - name: bag
    fields:
      - name: items
        type: strings
      - name: meta
        type: json
`)
	files := gen.Files(m)
	require.Len(t, files, 2)
	require.Contains(t, files, "bag/bag.go")
	require.Contains(t, files, "models.go")
}

func TestGenerate(t *testing.T) {
	m := mustManifest(t, manifest)
	dir := t.TempDir()
	err := gen.Generate(context.Background(), &gen.Config{Manifest: m, Target: dir})
	require.NoError(t, err)

	src, err := os.ReadFile(filepath.Join(dir, "customer", "customer.go"))
	require.NoError(t, err)
	require.Contains(t, string(src), "package customer")

	for _, name := range []string{
		"customer/where.go",
		"address/address.go",
		"address/where.go",
		"order/order.go",
		"order/where.go",
		"models.go",
	} {
		_, err := os.Stat(filepath.Join(dir, filepath.FromSlash(name)))
		require.NoError(t, err)
	}
}

func TestGenerateErrors(t *testing.T) {
	m := mustManifest(t, manifest)

	t.Run("NoManifest", func(t *testing.T) {
		err := gen.Generate(context.Background(), &gen.Config{Target: t.TempDir()})
		require.EqualError(t, err, "gen: no manifest loaded")
	})

	t.Run("NoTarget", func(t *testing.T) {
		err := gen.Generate(context.Background(), &gen.Config{Manifest: m})
		require.EqualError(t, err, "gen: no target directory configured")
	})

	t.Run("Canceled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		dir := t.TempDir()
		err := gen.Generate(ctx, &gen.Config{Manifest: m, Target: dir})
		require.ErrorIs(t, err, context.Canceled)
		entries, err := os.ReadDir(dir)
		require.NoError(t, err)
		require.Empty(t, entries)
	})
}
