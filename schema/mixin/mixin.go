package mixin

import (
	"github.com/syssam/veloxdoc/schema"
	"github.com/syssam/veloxdoc/schema/field"
)

// Schema is the default implementation for the schema.Mixin interface.
// Embed it in custom mixins and override Fields:
//
//	type AuditMixin struct {
//	    mixin.Schema
//	}
//
//	func (AuditMixin) Fields() []*field.Builder {
//	    return []*field.Builder{
//	        field.String("created_by"),
//	        field.String("updated_by").Optional(),
//	    }
//	}
type Schema struct{}

// Fields returns no fields.
func (Schema) Fields() []*field.Builder { return nil }

// schema mixin must implement the Mixin interface.
var _ schema.Mixin = (*Schema)(nil)

// Time adds created_at and updated_at timestamp fields to a model.
// The struct bound to the model needs CreatedAt and UpdatedAt members
// of type time.Time.
//
// Example:
//
//	var Model = schema.New("user",
//	    field.String("name"),
//	).Use(mixin.Time{}).MustCompile(User{})
type Time struct {
	Schema
}

// Fields returns the time tracking fields.
func (Time) Fields() []*field.Builder {
	return []*field.Builder{
		field.Time("created_at").
			Comment("Timestamp when the document was created"),
		field.Time("updated_at").
			Comment("Timestamp when the document was last updated"),
	}
}

// CreateTime adds only the created_at timestamp field to a model.
// Useful when you only need creation tracking without update tracking.
type CreateTime struct {
	Schema
}

// Fields returns the created_at field.
func (CreateTime) Fields() []*field.Builder {
	return []*field.Builder{
		field.Time("created_at").
			Comment("Timestamp when the document was created"),
	}
}

// UpdateTime adds only the updated_at timestamp field to a model.
// Useful when you only need update tracking without creation tracking.
type UpdateTime struct {
	Schema
}

// Fields returns the updated_at field.
func (UpdateTime) Fields() []*field.Builder {
	return []*field.Builder{
		field.Time("updated_at").
			Comment("Timestamp when the document was last updated"),
	}
}

// SoftDelete adds a deleted_at field for soft deletion support. The
// bound member is a *time.Time that stays nil while the document is
// live.
//
// Example:
//
//	var Model = schema.New("user",
//	    field.String("name"),
//	).Use(mixin.SoftDelete{}).MustCompile(User{})
type SoftDelete struct {
	Schema
}

// Fields returns the soft delete field.
func (SoftDelete) Fields() []*field.Builder {
	return []*field.Builder{
		field.Time("deleted_at").
			Optional().
			Nillable().
			Comment("Timestamp when the document was soft deleted (nil means not deleted)"),
	}
}

// TimeSoftDelete combines the Time and SoftDelete mixins.
// Adds created_at, updated_at, and deleted_at fields.
type TimeSoftDelete struct {
	Schema
}

// Fields returns all timestamp and soft delete fields.
func (TimeSoftDelete) Fields() []*field.Builder {
	return append(Time{}.Fields(), SoftDelete{}.Fields()...)
}

// Tenant adds a tenant_id field for multi-tenant isolation. Pair it
// with a tenant predicate on every query, and see the privacy package
// for guards that enforce a tenant is present.
type Tenant struct {
	Schema
}

// Fields returns the tenant field.
func (Tenant) Fields() []*field.Builder {
	return []*field.Builder{
		field.String("tenant_id").
			Comment("Identifier of the tenant owning the document"),
	}
}
