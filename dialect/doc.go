// Package dialect defines the execution contract between veloxdoc and
// a document store backend.
//
// A backend implements Driver: one call executes a rendered statement
// with its positional parameters and returns a single page of records
// together with the continuation cursor for the next one. The executor
// in the root package drives the paging loop; drivers only answer
// individual requests.
//
// # Driver Interface
//
//	type Driver interface {
//	    Execute(ctx context.Context, req *Request) (*Page, error)
//	    Close() error
//	}
//
// A Request carries the statement text, the parameter values in
// placeholder order, the per-request item cap, and the cursor of the
// page to read. An empty cursor reads from the start; an empty cursor
// in the returned Page means the result set is exhausted.
//
// # Wrappers
//
// The package ships two Driver wrappers:
//
//   - DebugDriver logs every request and the returned page summary.
//   - StatsDriver collects request statistics and detects slow
//     requests.
//
// Both wrap any Driver and implement Driver themselves, so they stack:
//
//	drv := dialect.NewStatsDriver(
//	    dialect.NewDebugDriver(backend),
//	    dialect.WithSlowThreshold(200*time.Millisecond),
//	    dialect.WithSlowRequestLog(),
//	)
package dialect
