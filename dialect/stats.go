package dialect

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/syssam/veloxdoc/wire"
)

// ExecStats holds request execution statistics.
type ExecStats struct {
	// TotalRequests is the total number of requests executed.
	TotalRequests atomic.Int64
	// TotalItems is the total number of items returned.
	TotalItems atomic.Int64
	// TotalDuration is the total time spent executing requests.
	TotalDuration atomic.Int64 // nanoseconds
	// SlowRequests is the count of requests exceeding the slow threshold.
	SlowRequests atomic.Int64
	// Errors is the count of request errors.
	Errors atomic.Int64
}

// Stats returns a snapshot of the current statistics.
func (s *ExecStats) Stats() StatsSnapshot {
	return StatsSnapshot{
		TotalRequests: s.TotalRequests.Load(),
		TotalItems:    s.TotalItems.Load(),
		TotalDuration: time.Duration(s.TotalDuration.Load()),
		SlowRequests:  s.SlowRequests.Load(),
		Errors:        s.Errors.Load(),
	}
}

// Reset resets all statistics to zero.
func (s *ExecStats) Reset() {
	s.TotalRequests.Store(0)
	s.TotalItems.Store(0)
	s.TotalDuration.Store(0)
	s.SlowRequests.Store(0)
	s.Errors.Store(0)
}

// StatsSnapshot is a point-in-time snapshot of request statistics.
type StatsSnapshot struct {
	TotalRequests int64
	TotalItems    int64
	TotalDuration time.Duration
	SlowRequests  int64
	Errors        int64
}

// AvgRequestDuration returns the average request duration.
func (s StatsSnapshot) AvgRequestDuration() time.Duration {
	if s.TotalRequests == 0 {
		return 0
	}
	return s.TotalDuration / time.Duration(s.TotalRequests)
}

// String returns a human-readable summary of the statistics.
func (s StatsSnapshot) String() string {
	return fmt.Sprintf(
		"requests=%d items=%d duration=%s avg=%s slow=%d errors=%d",
		s.TotalRequests, s.TotalItems, s.TotalDuration, s.AvgRequestDuration(),
		s.SlowRequests, s.Errors,
	)
}

// SlowRequestHook is a function called when a slow request is detected.
type SlowRequestHook func(ctx context.Context, stmt string, params []wire.Value, duration time.Duration)

// StatsDriver wraps a Driver with request statistics collection.
type StatsDriver struct {
	Driver
	stats         *ExecStats
	slowThreshold time.Duration
	slowHook      SlowRequestHook
	mu            sync.RWMutex
}

// StatsOption configures the StatsDriver.
type StatsOption func(*StatsDriver)

// WithSlowThreshold sets the threshold for slow request detection.
// Requests taking longer than this duration will be counted as slow.
// Default is 100ms.
func WithSlowThreshold(d time.Duration) StatsOption {
	return func(s *StatsDriver) {
		s.slowThreshold = d
	}
}

// WithSlowRequestHook sets a callback function for slow requests.
// The hook is called whenever a request exceeds the slow threshold.
func WithSlowRequestHook(hook SlowRequestHook) StatsOption {
	return func(s *StatsDriver) {
		s.slowHook = hook
	}
}

// WithSlowRequestLog logs slow requests to the default logger.
// This is a convenience wrapper around WithSlowRequestHook.
func WithSlowRequestLog() StatsOption {
	return WithSlowRequestHook(func(_ context.Context, stmt string, params []wire.Value, duration time.Duration) {
		slog.Warn("slow request detected", "duration", duration, "statement", stmt, "params", len(params))
	})
}

// NewStatsDriver wraps a Driver with statistics collection.
//
// Example:
//
//	drv := dialect.NewStatsDriver(backend,
//	    dialect.WithSlowThreshold(200*time.Millisecond),
//	    dialect.WithSlowRequestLog(),
//	)
//	client := veloxdoc.NewClient(drv)
//
//	// Later, check statistics:
//	stats := drv.ExecStats().Stats()
//	fmt.Println(stats)
func NewStatsDriver(drv Driver, opts ...StatsOption) *StatsDriver {
	s := &StatsDriver{
		Driver:        drv,
		stats:         &ExecStats{},
		slowThreshold: 100 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ExecStats returns the underlying ExecStats for reading statistics.
func (d *StatsDriver) ExecStats() *ExecStats {
	return d.stats
}

// SlowThreshold returns the current slow request threshold.
func (d *StatsDriver) SlowThreshold() time.Duration {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.slowThreshold
}

// SetSlowThreshold updates the slow request threshold.
func (d *StatsDriver) SetSlowThreshold(threshold time.Duration) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.slowThreshold = threshold
}

// Execute runs the request and records statistics.
func (d *StatsDriver) Execute(ctx context.Context, req *Request) (*Page, error) {
	start := time.Now()
	page, err := d.Driver.Execute(ctx, req)
	d.record(ctx, req, page, start, err)
	return page, err
}

func (d *StatsDriver) record(ctx context.Context, req *Request, page *Page, start time.Time, err error) {
	duration := time.Since(start)
	d.stats.TotalRequests.Add(1)
	d.stats.TotalDuration.Add(int64(duration))
	if page != nil {
		d.stats.TotalItems.Add(int64(len(page.Items)))
	}
	if err != nil {
		d.stats.Errors.Add(1)
	}

	d.mu.RLock()
	threshold := d.slowThreshold
	hook := d.slowHook
	d.mu.RUnlock()

	if duration > threshold {
		d.stats.SlowRequests.Add(1)
		if hook != nil {
			hook(ctx, req.Statement, req.Params, duration)
		}
	}
}

// DebugDriver wraps a Driver with debug logging.
type DebugDriver struct {
	Driver
	log func(context.Context, ...any)
}

// DebugOption configures the DebugDriver.
type DebugOption func(*DebugDriver)

// DebugWithLog sets a custom log function.
func DebugWithLog(logFunc func(context.Context, ...any)) DebugOption {
	return func(d *DebugDriver) {
		d.log = logFunc
	}
}

// NewDebugDriver wraps a Driver with debug logging.
//
// Example:
//
//	debugDriver := dialect.NewDebugDriver(backend, dialect.DebugWithLog(func(ctx context.Context, v ...any) {
//	    log.Println(v...)
//	}))
//	client := veloxdoc.NewClient(debugDriver)
func NewDebugDriver(drv Driver, opts ...DebugOption) *DebugDriver {
	d := &DebugDriver{
		Driver: drv,
		log: func(_ context.Context, v ...any) {
			slog.Info(fmt.Sprint(v...))
		},
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Execute runs the request and logs it together with the page summary.
func (d *DebugDriver) Execute(ctx context.Context, req *Request) (*Page, error) {
	d.log(ctx, fmt.Sprintf("execute: %s params: %s limit: %d cursor: %q",
		req.Statement, formatParams(req.Params), req.Limit, req.Cursor))
	page, err := d.Driver.Execute(ctx, req)
	switch {
	case err != nil:
		d.log(ctx, fmt.Sprintf("execute failed: %v", err))
	case page.Next != "":
		d.log(ctx, fmt.Sprintf("page: %d items, more", len(page.Items)))
	default:
		d.log(ctx, fmt.Sprintf("page: %d items, exhausted", len(page.Items)))
	}
	return page, err
}

func formatParams(params []wire.Value) string {
	if len(params) == 0 {
		return "[]"
	}
	s := "["
	for i, p := range params {
		if i > 0 {
			s += ", "
		}
		s += wire.Format(p)
	}
	return s + "]"
}

// Ensure interfaces are implemented.
var (
	_ Driver = (*StatsDriver)(nil)
	_ Driver = (*DebugDriver)(nil)
	_ Driver = (ExecuteFunc)(nil)
)
