package field_test

import (
	"net/netip"
	"reflect"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/veloxdoc/schema/field"
	"github.com/syssam/veloxdoc/wire"
)

func TestString(t *testing.T) {
	t.Parallel()
	fd := field.String("name").Descriptor()
	assert.Equal(t, "name", fd.Name)
	assert.Empty(t, fd.StorageKey)
	assert.Equal(t, wire.KindString, fd.Kind)
	assert.Equal(t, reflect.TypeOf(""), fd.Type)
	assert.False(t, fd.Optional)
	assert.False(t, fd.Nillable)
	assert.NoError(t, fd.Err)

	fd = field.String("nickname").Optional().Nillable().StorageKey("Nick").Descriptor()
	assert.True(t, fd.Optional)
	assert.True(t, fd.Nillable)
	assert.Equal(t, "Nick", fd.StorageKey)
}

func TestNumeric(t *testing.T) {
	t.Parallel()
	fd := field.Int("age").Descriptor()
	assert.Equal(t, wire.KindNumber, fd.Kind)
	assert.Equal(t, reflect.TypeOf(0), fd.Type)

	fd = field.Int64("views").Descriptor()
	assert.Equal(t, reflect.TypeOf(int64(0)), fd.Type)

	fd = field.Uint64("flags").Descriptor()
	assert.Equal(t, reflect.TypeOf(uint64(0)), fd.Type)

	fd = field.Float("ratio").Descriptor()
	assert.Equal(t, reflect.TypeOf(float64(0)), fd.Type)

	fd = field.Decimal("price").Descriptor()
	assert.Equal(t, wire.KindNumber, fd.Kind)
	assert.Equal(t, reflect.TypeOf(decimal.Decimal{}), fd.Type)

	type Age int
	fd = field.Int("age").GoType(Age(0)).Descriptor()
	assert.Equal(t, reflect.TypeOf(Age(0)), fd.Type)
	assert.NoError(t, fd.Err)
}

func TestTime(t *testing.T) {
	t.Parallel()
	fd := field.Time("created_at").Descriptor()
	assert.Equal(t, wire.KindString, fd.Kind)
	assert.Equal(t, reflect.TypeOf(time.Time{}), fd.Type)
	require.NotNil(t, fd.Converter)

	at := time.Date(2009, time.November, 10, 23, 0, 0, 0, time.UTC)
	w, err := fd.Converter.ToWire(at)
	require.NoError(t, err)
	assert.Equal(t, wire.String("2009-11-10T23:00:00Z"), w)

	v, err := fd.Converter.FromWire(w)
	require.NoError(t, err)
	assert.True(t, at.Equal(v.(time.Time)))

	_, err = fd.Converter.FromWire(wire.String("yesterday"))
	assert.Error(t, err)
	_, err = fd.Converter.FromWire(wire.Bool(true))
	assert.Error(t, err)
}

func TestUUID(t *testing.T) {
	t.Parallel()
	fd := field.UUID("id").Descriptor()
	assert.Equal(t, wire.KindString, fd.Kind)
	require.NotNil(t, fd.Converter)

	id := uuid.MustParse("aa0b1a6c-810d-4b12-b215-b8a92f9afda2")
	w, err := fd.Converter.ToWire(id)
	require.NoError(t, err)
	assert.Equal(t, wire.String("aa0b1a6c-810d-4b12-b215-b8a92f9afda2"), w)

	v, err := fd.Converter.FromWire(w)
	require.NoError(t, err)
	assert.Equal(t, id, v)

	_, err = fd.Converter.FromWire(wire.String("not-a-uuid"))
	assert.Error(t, err)
}

func TestEnum(t *testing.T) {
	t.Parallel()
	fd := field.Enum("status").Values("pending", "active", "done").Descriptor()
	assert.Equal(t, wire.KindString, fd.Kind)
	assert.Equal(t, []string{"pending", "active", "done"}, fd.Values)
	assert.NoError(t, fd.Err)

	fd = field.Int("age").Values("one").Descriptor()
	assert.Error(t, fd.Err)
}

func TestCollections(t *testing.T) {
	t.Parallel()
	fd := field.Strings("aliases").Descriptor()
	assert.Equal(t, wire.KindList, fd.Kind)
	assert.Equal(t, wire.KindString, fd.ElemKind)
	assert.Equal(t, reflect.TypeOf([]string(nil)), fd.Type)

	fd = field.Ints("scores").Descriptor()
	assert.Equal(t, wire.KindList, fd.Kind)
	assert.Equal(t, wire.KindNumber, fd.ElemKind)

	fd = field.StringSet("tags").Descriptor()
	assert.Equal(t, wire.KindStringSet, fd.Kind)

	fd = field.IntSet("codes").Descriptor()
	assert.Equal(t, wire.KindNumberSet, fd.Kind)
	assert.Equal(t, reflect.TypeOf(int64(0)), fd.ElemType)

	fd = field.BytesSet("digests").Descriptor()
	assert.Equal(t, wire.KindBinarySet, fd.Kind)

	fd = field.StringMap("labels").Descriptor()
	assert.Equal(t, wire.KindMap, fd.Kind)
	assert.Equal(t, reflect.TypeOf(map[string]string(nil)), fd.Type)
}

func TestJSON(t *testing.T) {
	t.Parallel()
	type Meta struct {
		Source string
		Weight float64
	}
	fd := field.JSON("metadata", Meta{}).Descriptor()
	assert.Equal(t, wire.KindMap, fd.Kind)
	assert.Equal(t, reflect.TypeOf(Meta{}), fd.Type)
	assert.True(t, fd.Structural)
	assert.NoError(t, fd.Err)

	fd = field.JSON("points", []int{}).Descriptor()
	assert.Equal(t, wire.KindList, fd.Kind)

	fd = field.JSON("broken", nil).Descriptor()
	assert.Error(t, fd.Err)
}

type addrConverter struct{}

func (addrConverter) ToWire(v any) (wire.Value, error) {
	return wire.String(v.(netip.Addr).String()), nil
}

func (addrConverter) FromWire(w wire.Value) (any, error) {
	return netip.ParseAddr(string(w.(wire.String)))
}

func TestOther(t *testing.T) {
	t.Parallel()
	fd := field.Other("ip", netip.Addr{}).
		Wire(wire.KindString).
		Convert(addrConverter{}).
		Comment("last seen address").
		Descriptor()
	assert.Equal(t, wire.KindString, fd.Kind)
	assert.Equal(t, reflect.TypeOf(netip.Addr{}), fd.Type)
	assert.Equal(t, "last seen address", fd.Comment)
	require.NotNil(t, fd.Converter)
	assert.NoError(t, fd.Err)

	v, err := fd.Converter.FromWire(wire.String("10.0.0.7"))
	require.NoError(t, err)
	assert.Equal(t, netip.MustParseAddr("10.0.0.7"), v)

	fd = field.Other("broken", nil).Descriptor()
	assert.Error(t, fd.Err)
}

func TestConvertElemMisuse(t *testing.T) {
	t.Parallel()
	fd := field.String("name").ConvertElem(addrConverter{}).Descriptor()
	assert.Error(t, fd.Err)

	fd = field.Strings("ips").ConvertElem(addrConverter{}).Descriptor()
	assert.NoError(t, fd.Err)
	assert.NotNil(t, fd.ElemConv)
}
