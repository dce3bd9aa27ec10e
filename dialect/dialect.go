package dialect

import (
	"context"

	"github.com/syssam/veloxdoc/wire"
)

// A Cursor is an opaque continuation token handed out by the store.
// The empty cursor reads from the start of the result set; an empty
// cursor on a returned Page means the set is exhausted. Cursors must be
// passed back unchanged.
type Cursor string

// A Request is one statement execution against the store.
type Request struct {
	// Statement is the rendered statement text.
	Statement string
	// Params holds the parameter values in placeholder order.
	Params []wire.Value
	// Limit caps the number of items the store may return for this
	// request. Zero leaves the cap to the store.
	Limit int
	// Cursor selects the page to read.
	Cursor Cursor
}

// A Page is the store's answer to one Request.
type Page struct {
	// Items holds the returned records.
	Items []wire.Record
	// Next is the cursor of the following page, empty when the result
	// set is exhausted.
	Next Cursor
}

// Driver is the connection to a document store backend.
type Driver interface {
	// Execute runs one statement request and returns one page.
	Execute(ctx context.Context, req *Request) (*Page, error)
	// Close releases the underlying resources.
	Close() error
}

// ExecuteFunc adapts a function to the Driver interface. Close is a
// no-op.
type ExecuteFunc func(ctx context.Context, req *Request) (*Page, error)

// Execute implements Driver.
func (f ExecuteFunc) Execute(ctx context.Context, req *Request) (*Page, error) {
	return f(ctx, req)
}

// Close implements Driver.
func (ExecuteFunc) Close() error { return nil }
