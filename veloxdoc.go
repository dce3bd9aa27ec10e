// Package veloxdoc compiles typed queries against schemaless document
// stores and materializes their results into Go structs.
//
// A query combines a compiled schema.Model, predicates from the
// querylanguage package and a projection. Compile translates it
// all-or-nothing into a statement tree, renders the tree to
// parameterized text, and builds a decoder for the projected shape:
//
//	client := veloxdoc.NewClient(driver)
//	users, err := veloxdoc.NewQuery[User](client, userModel).
//		Where(ql.GTE(ql.F("age"), ql.Bind("min_age")), ql.FieldNEQ("name", "bot")).
//		Select("age", "name").
//		Compile()
//	if err != nil {
//		...
//	}
//	rows, err := users.Rows(ctx, veloxdoc.Params{"min_age": 18})
//	if err != nil {
//		...
//	}
//	defer rows.Close()
//	for rows.Next() {
//		u := rows.Value()
//		...
//	}
//	if err := rows.Err(); err != nil {
//		...
//	}
//
// A compiled query is immutable and safe for concurrent executions.
// Each Rows call binds its own parameters and walks its own
// continuation sequence; nothing carries over between enumerations.
package veloxdoc

import (
	"github.com/syssam/veloxdoc/dialect"
	"github.com/syssam/veloxdoc/privacy"
)

// Client executes compiled queries against one document store and
// caches decoders across them.
type Client struct {
	driver   dialect.Driver
	pageSize int
	policy   privacy.QueryPolicy
	plans    planCache
}

// An Option configures a Client.
type Option func(*Client)

// WithDefaultPageSize sets the per-request item cap used by queries
// that declare no page size of their own. Non-positive values leave
// the cap to the store.
func WithDefaultPageSize(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.pageSize = n
		}
	}
}

// WithPolicy appends query rules evaluated before any statement
// reaches the store. The first rule returning Allow or Deny settles
// the decision; a policy whose rules all abstain permits the query.
func WithPolicy(rules ...privacy.QueryRule) Option {
	return func(c *Client) {
		c.policy = append(c.policy, rules...)
	}
}

// NewClient returns a client executing against drv.
func NewClient(drv dialect.Driver, opts ...Option) *Client {
	c := &Client{driver: drv}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Driver returns the underlying store driver.
func (c *Client) Driver() dialect.Driver { return c.driver }

// Close closes the underlying store driver.
func (c *Client) Close() error { return c.driver.Close() }
