// Package schema compiles declarative model definitions into the
// metadata that query translation and record materialization run on.
//
// A model is declared with the field builders and compiled against the
// Go struct it binds to:
//
//	type User struct {
//	    Name    string
//	    Age     int
//	    Address Address
//	    Orders  []Order
//	}
//
//	userModel, err := schema.New("user",
//	    field.String("name"),
//	    field.Int("age"),
//	).Owns(
//	    schema.One("address", addressModel),
//	    schema.Many("orders", orderModel),
//	).Compile(User{})
//
// Compile resolves every declared field to a struct member, derives the
// stored attribute names and the table name, and validates the Go types
// against the declared wire kinds. The resulting Model is immutable and
// safe for concurrent use.
//
// # Naming
//
// Fields are declared in snake_case. On the wire they default to the
// camelized form (age becomes Age, user_id becomes UserId), matching
// document-store conventions; StorageKey overrides the derivation.
// Tables default to the camelized plural of the model name (user
// becomes Users); Table overrides it.
//
// Struct members resolve in three steps: a `veloxdoc:"name"` tag wins,
// then a member named exactly like the camelized field name, then a
// case-folded match with underscores ignored (so user_id binds to
// UserID). Two members folding to the same field name is an error.
//
// # Owned Navigations
//
// Owned navigations embed one model inside another. One declares a
// single embedded document stored as a map attribute; Many declares an
// ordered collection stored as a list of maps. The target model must be
// compiled first; cycles are therefore impossible to declare.
//
// Single navigations are required by default: a record missing the
// attribute, or holding null for it, fails materialization. Collections
// are optional by default and resolve absence to an empty slice.
//
// # Registry
//
// A Registry collects compiled models and answers lookups by name, by
// Go type, and by owned-navigation target. The owner lookup reports an
// error when two models declare a same-named navigation to the same
// target, since the declaring model cannot be inferred in that case.
package schema
