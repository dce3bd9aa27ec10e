package schema_test

import (
	"reflect"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/veloxdoc/schema"
	"github.com/syssam/veloxdoc/schema/field"
	"github.com/syssam/veloxdoc/wire"
)

type Address struct {
	Street string
	City   string
}

type Order struct {
	Number int64
	Total  float64
}

type User struct {
	Name      string
	Age       int
	UserID    string
	Nickname  *string
	Tags      []string
	CreatedAt time.Time
	Address   Address
	Orders    []Order
}

func compileAddress(t *testing.T) *schema.Model {
	t.Helper()
	m, err := schema.New("address",
		field.String("street"),
		field.String("city"),
	).Compile(Address{})
	require.NoError(t, err)
	return m
}

func compileOrder(t *testing.T) *schema.Model {
	t.Helper()
	m, err := schema.New("order",
		field.Int64("number"),
		field.Float("total"),
	).Compile(Order{})
	require.NoError(t, err)
	return m
}

func TestCompile(t *testing.T) {
	t.Parallel()
	address := compileAddress(t)
	order := compileOrder(t)
	m, err := schema.New("user",
		field.String("name"),
		field.Int("age"),
		field.String("user_id"),
		field.String("nickname").Optional().Nillable(),
		field.StringSet("tags").Optional(),
		field.Time("created_at"),
	).Owns(
		schema.One("address", address),
		schema.Many("orders", order),
	).Compile(User{})
	require.NoError(t, err)

	assert.Equal(t, "user", m.Name())
	assert.Equal(t, "Users", m.Table())
	assert.Equal(t, reflect.TypeOf(User{}), m.GoType())

	names := make([]string, 0, len(m.Fields()))
	for _, fd := range m.Fields() {
		names = append(names, fd.Name)
	}
	assert.Equal(t, []string{"name", "age", "user_id", "nickname", "tags", "created_at", "address", "orders"}, names)

	age, ok := m.Field("age")
	require.True(t, ok)
	assert.Equal(t, "Age", age.WireName)
	assert.Equal(t, wire.KindNumber, age.Mapping.Kind)
	assert.False(t, age.Optional)
	assert.False(t, age.IsNavigation())

	id, ok := m.Field("user_id")
	require.True(t, ok)
	assert.Equal(t, "UserId", id.WireName)
	assert.Equal(t, []int{2}, id.Index) // resolved to UserID by folding

	nick, ok := m.Field("nickname")
	require.True(t, ok)
	assert.True(t, nick.Optional)
	assert.True(t, nick.Nillable)

	created, ok := m.FieldByWire("CreatedAt")
	require.True(t, ok)
	assert.Equal(t, "created_at", created.Name)
	assert.NotNil(t, created.Mapping.Converter)

	addr, err := m.Navigation("address")
	require.NoError(t, err)
	assert.False(t, addr.Optional)
	assert.False(t, addr.IsCollection())
	assert.Same(t, address, addr.Target())

	orders, err := m.Navigation("orders")
	require.NoError(t, err)
	assert.True(t, orders.Optional)
	assert.True(t, orders.IsCollection())
	assert.Same(t, order, orders.Target())
	assert.Equal(t, wire.KindList, orders.Mapping.Kind)
	assert.Equal(t, wire.KindMap, orders.Mapping.Elem.Kind)

	assert.Len(t, m.Navigations(), 2)

	_, err = m.Navigation("age")
	assert.ErrorContains(t, err, "not an owned navigation")
	_, err = m.Navigation("ghost")
	assert.ErrorContains(t, err, "no field")
}

func TestCompileNaming(t *testing.T) {
	t.Parallel()
	type Doc struct {
		Body string
	}
	m, err := schema.New("doc", field.String("body").StorageKey("RawBody")).
		Table("Archive").
		Compile(Doc{})
	require.NoError(t, err)
	assert.Equal(t, "Archive", m.Table())
	fd, ok := m.FieldByWire("RawBody")
	require.True(t, ok)
	assert.Equal(t, "body", fd.Name)
}

func TestCompileTagResolution(t *testing.T) {
	t.Parallel()
	type Row struct {
		Legacy string `veloxdoc:"name"`
		Name   string
	}
	m, err := schema.New("row", field.String("name")).Compile(Row{})
	require.NoError(t, err)
	fd, _ := m.Field("name")
	assert.Equal(t, []int{0}, fd.Index) // tag beats the exact-name member
}

func TestCompileErrors(t *testing.T) {
	t.Parallel()
	t.Run("not_a_struct", func(t *testing.T) {
		t.Parallel()
		_, err := schema.New("user", field.String("name")).Compile(42)
		assert.ErrorContains(t, err, "must be a struct")
	})
	t.Run("missing_member", func(t *testing.T) {
		t.Parallel()
		type Row struct{ Name string }
		_, err := schema.New("row", field.String("email")).Compile(Row{})
		assert.ErrorContains(t, err, "no member")
	})
	t.Run("member_type_mismatch", func(t *testing.T) {
		t.Parallel()
		type Row struct{ Age string }
		_, err := schema.New("row", field.Int("age")).Compile(Row{})
		assert.ErrorContains(t, err, "want int")
	})
	t.Run("nillable_needs_pointer", func(t *testing.T) {
		t.Parallel()
		type Row struct{ Name string }
		_, err := schema.New("row", field.String("name").Nillable()).Compile(Row{})
		assert.ErrorContains(t, err, "want *string")
	})
	t.Run("ambiguous_members", func(t *testing.T) {
		t.Parallel()
		type Row struct {
			UserID string
			UserId string
		}
		_, err := schema.New("row", field.String("user_id")).Compile(Row{})
		assert.ErrorContains(t, err, "all match user_id")
	})
	t.Run("duplicate_field", func(t *testing.T) {
		t.Parallel()
		type Row struct{ Name string }
		_, err := schema.New("row", field.String("name"), field.String("name")).Compile(Row{})
		assert.ErrorContains(t, err, "duplicate field")
	})
	t.Run("shared_attribute", func(t *testing.T) {
		t.Parallel()
		type Row struct {
			Name  string
			Alias string
		}
		_, err := schema.New("row",
			field.String("name"),
			field.String("alias").StorageKey("Name"),
		).Compile(Row{})
		assert.ErrorContains(t, err, "share attribute Name")
	})
	t.Run("builder_misuse_surfaces", func(t *testing.T) {
		t.Parallel()
		type Row struct{ Age int }
		_, err := schema.New("row", field.Int("age").Values("x")).Compile(Row{})
		assert.ErrorContains(t, err, "Values applies to enum fields")
	})
	t.Run("nil_navigation_target", func(t *testing.T) {
		t.Parallel()
		type Row struct {
			Name string
			Home Address
		}
		_, err := schema.New("row", field.String("name")).
			Owns(schema.One("home", nil)).
			Compile(Row{})
		assert.ErrorContains(t, err, "compiled first")
	})
	t.Run("nillable_collection", func(t *testing.T) {
		t.Parallel()
		address := compileAddress(t)
		type Row struct {
			Name  string
			Homes []Address
		}
		_, err := schema.New("row", field.String("name")).
			Owns(schema.Many("homes", address).Nillable()).
			Compile(Row{})
		assert.ErrorContains(t, err, "cannot be nillable")
	})
}

func TestRegistry(t *testing.T) {
	t.Parallel()
	address := compileAddress(t)
	order := compileOrder(t)
	user, err := schema.New("user",
		field.String("name"), field.Int("age"), field.String("user_id"),
		field.String("nickname").Optional().Nillable(),
		field.StringSet("tags").Optional(), field.Time("created_at"),
	).Owns(
		schema.One("address", address),
		schema.Many("orders", order),
	).Compile(User{})
	require.NoError(t, err)

	reg := schema.NewRegistry()
	require.NoError(t, reg.Add(address, order, user))

	m, ok := reg.Model("user")
	require.True(t, ok)
	assert.Same(t, user, m)

	m, ok = reg.ModelFor(reflect.TypeOf(&User{}))
	require.True(t, ok)
	assert.Same(t, user, m)

	names := make([]string, 0, 3)
	for _, m := range reg.Models() {
		names = append(names, m.Name())
	}
	assert.Equal(t, []string{"address", "order", "user"}, names)

	t.Run("duplicate_name", func(t *testing.T) {
		type Other struct{ Street, City string }
		dup, err := schema.New("address", field.String("street"), field.String("city")).Compile(Other{})
		require.NoError(t, err)
		assert.ErrorContains(t, reg.Add(dup), "duplicate model name")
	})

	t.Run("owner_lookup", func(t *testing.T) {
		owner, fd, err := reg.Owner("address", address)
		require.NoError(t, err)
		assert.Same(t, user, owner)
		assert.Equal(t, "address", fd.Name)

		_, _, err = reg.Owner("ghost", address)
		assert.ErrorContains(t, err, "no model owns")
	})

	t.Run("owner_ambiguous", func(t *testing.T) {
		type Company struct {
			Title   string
			Address Address
		}
		company, err := schema.New("company", field.String("title")).
			Owns(schema.One("address", address)).
			Compile(Company{})
		require.NoError(t, err)
		reg2 := schema.NewRegistry()
		require.NoError(t, reg2.Add(address, order, user, company))
		_, _, err = reg2.Owner("address", address)
		assert.ErrorContains(t, err, "ambiguous")
	})
}
