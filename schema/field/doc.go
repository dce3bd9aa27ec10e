// Package field provides fluent builders for declaring document-store
// fields on a model.
//
// Field names follow snake_case conventions, while Go struct members are
// resolved to PascalCase automatically (or explicitly via the `veloxdoc`
// struct tag):
//
//	field.String("email")     // attribute: email, Go: Email
//	field.Int("user_id")      // attribute: user_id, Go: UserID
//
// # Field Types
//
// The package supports the scalar, collection and document shapes of the
// wire format:
//
//	// Scalar fields
//	field.String("name")
//	field.Bool("is_active")
//	field.Bytes("payload")
//
//	// Numeric fields, stored as number text
//	field.Int("count")
//	field.Int64("big_number")
//	field.Uint64("flags")
//	field.Float("ratio")
//	field.Decimal("price")
//
//	// Encoded scalar fields
//	field.Time("created_at")  // RFC 3339 text
//	field.UUID("id")          // canonical hyphenated text
//
//	// Enum fields
//	field.Enum("status").Values("pending", "active")
//
//	// Ordered collections
//	field.Strings("aliases")
//	field.Ints("scores")
//	field.Floats("weights")
//
//	// Unordered unique sets
//	field.StringSet("tags")
//	field.IntSet("codes")
//	field.BytesSet("digests")
//
//	// Document shapes
//	field.StringMap("labels")
//	field.JSON("metadata", Meta{})
//
//	// Custom Go types
//	field.Other("ip", net.IP{}).Wire(wire.KindString).Convert(ipConverter{})
//
// # Nullability
//
// Fields are required by default: a record missing the attribute, or
// holding the null marker for it, fails materialization with an error
// naming the attribute. Optional and Nillable relax that:
//
//	// Optional: absence and null resolve to the zero value
//	field.String("role").Optional()
//
//	// Nillable: Go member is a pointer, stays nil on absence and null
//	field.String("nickname").Nillable()
//
// # Attribute Names
//
// The stored attribute name defaults to the field name and can be
// overridden, e.g. when the store schema predates the Go model:
//
//	field.Int("age").StorageKey("Age")
//
// # Converters
//
// A ValueConverter bridges a Go type and its wire primitive. Converters
// run last on the decode path, after the wire member has been extracted:
//
//	field.Other("amount", Money{}).
//	    Wire(wire.KindNumber).
//	    Convert(moneyConverter{})
package field
