// Package mixin provides reusable field sets for model declarations.
//
// Mixins share common fields across multiple models, keeping naming
// and typing consistent.
//
// # Built-in Mixins
//
// The package provides several ready-to-use mixins:
//
//	// Time mixin: adds created_at and updated_at timestamps
//	mixin.Time{}
//
//	// SoftDelete mixin: adds a nillable deleted_at marker
//	mixin.SoftDelete{}
//
//	// TimeSoftDelete: combines Time and SoftDelete
//	mixin.TimeSoftDelete{}
//
//	// Tenant mixin: adds tenant_id for multi-tenancy
//	mixin.Tenant{}
//
// # Using Mixins
//
// Mixins are applied to a model builder via Use:
//
//	type User struct {
//	    Name      string
//	    CreatedAt time.Time
//	    UpdatedAt time.Time
//	}
//
//	var Model = schema.New("user",
//	    field.String("name"),
//	).Use(mixin.Time{}).MustCompile(User{})
//
// Mixed-in fields resolve against the prototype struct exactly like
// declared ones, so the struct must carry members for them.
//
// # Creating Custom Mixins
//
// Custom mixins embed Schema and override Fields:
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
package mixin
