package mixin_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/veloxdoc/schema"
	"github.com/syssam/veloxdoc/schema/field"
	"github.com/syssam/veloxdoc/schema/mixin"
)

func fieldNames(m *schema.Model) []string {
	fs := m.Fields()
	names := make([]string, len(fs))
	for i, f := range fs {
		names[i] = f.Name
	}
	return names
}

func TestTime(t *testing.T) {
	type Article struct {
		Title     string
		CreatedAt time.Time
		UpdatedAt time.Time
	}
	m, err := schema.New("article",
		field.String("title"),
	).Use(mixin.Time{}).Compile(Article{})
	require.NoError(t, err)

	assert.Equal(t, []string{"title", "created_at", "updated_at"}, fieldNames(m))

	created, ok := m.Field("created_at")
	require.True(t, ok)
	assert.Equal(t, "CreatedAt", created.WireName)
	assert.False(t, created.Optional)
	assert.Contains(t, created.Comment, "created")

	updated, ok := m.Field("updated_at")
	require.True(t, ok)
	assert.Equal(t, "UpdatedAt", updated.WireName)
}

func TestSoftDelete(t *testing.T) {
	type Note struct {
		Body      string
		DeletedAt *time.Time
	}
	m, err := schema.New("note",
		field.String("body"),
	).Use(mixin.SoftDelete{}).Compile(Note{})
	require.NoError(t, err)

	deleted, ok := m.Field("deleted_at")
	require.True(t, ok)
	assert.True(t, deleted.Optional)
	assert.True(t, deleted.Nillable)
}

func TestTimeSoftDelete(t *testing.T) {
	type Ticket struct {
		Subject   string
		CreatedAt time.Time
		UpdatedAt time.Time
		DeletedAt *time.Time
	}
	m, err := schema.New("ticket",
		field.String("subject"),
	).Use(mixin.TimeSoftDelete{}).Compile(Ticket{})
	require.NoError(t, err)

	assert.Equal(t, []string{"subject", "created_at", "updated_at", "deleted_at"}, fieldNames(m))
}

func TestTenant(t *testing.T) {
	type Invoice struct {
		Number   string
		TenantID string
	}
	m, err := schema.New("invoice",
		field.String("number"),
	).Use(mixin.Tenant{}).Compile(Invoice{})
	require.NoError(t, err)

	tenant, ok := m.Field("tenant_id")
	require.True(t, ok)
	assert.Equal(t, "TenantId", tenant.WireName)
	assert.False(t, tenant.Optional)
}

// auditMixin exercises the embed-and-override pattern.
type auditMixin struct {
	mixin.Schema
}

func (auditMixin) Fields() []*field.Builder {
	return []*field.Builder{
		field.String("created_by"),
		field.String("updated_by").Optional(),
	}
}

func TestCustomMixin(t *testing.T) {
	type Doc struct {
		Name      string
		CreatedBy string
		UpdatedBy string
	}
	m, err := schema.New("doc",
		field.String("name"),
	).Use(auditMixin{}).Compile(Doc{})
	require.NoError(t, err)

	assert.Equal(t, []string{"name", "created_by", "updated_by"}, fieldNames(m))
	updated, ok := m.Field("updated_by")
	require.True(t, ok)
	assert.True(t, updated.Optional)
}

// A prototype missing a member for a mixed-in field fails compilation
// like it would for a declared one.
func TestMissingMember(t *testing.T) {
	type Bare struct {
		Title string
	}
	_, err := schema.New("bare",
		field.String("title"),
	).Use(mixin.Time{}).Compile(Bare{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "created_at")
}

func TestSchemaBase(t *testing.T) {
	assert.Nil(t, mixin.Schema{}.Fields())
}
