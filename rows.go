package veloxdoc

import (
	"context"
	"errors"
	"reflect"
	"sync/atomic"

	"github.com/syssam/veloxdoc/decode"
	"github.com/syssam/veloxdoc/dialect"
	"github.com/syssam/veloxdoc/wire"
)

// errConcurrentRows reports a Rows driven from two goroutines, or
// reentered from inside a driver call.
var errConcurrentRows = errors.New("veloxdoc: concurrent use of Rows")

// Rows enumerates a query's results across store pages. Pages are
// fetched lazily: the next request goes out only when the buffered
// page is drained and the result limit is not yet reached.
//
// A Rows is for a single goroutine. Concurrent use is detected, stops
// the enumeration and is reported through Err.
type Rows[T any] struct {
	ctx    context.Context
	driver dialect.Driver
	dec    *decode.Decoder
	plan   *plan

	busy    atomic.Bool
	reused  atomic.Bool
	started bool
	done    bool
	buf     []wire.Record
	cursor  dialect.Cursor
	seen    int64
	cur     T
	err     error
}

// Rows starts a new enumeration of the plan's results. The client's
// query policy is evaluated and parameters are bound here, before any
// store request; every call walks its own continuation sequence from
// the start.
func (c *Compiled[T]) Rows(ctx context.Context, params Params) (*Rows[T], error) {
	if err := c.authorize(ctx); err != nil {
		return nil, err
	}
	p, err := c.bind(params)
	if err != nil {
		return nil, err
	}
	return &Rows[T]{ctx: ctx, driver: c.client.driver, dec: c.dec, plan: p}, nil
}

// Next advances to the next result and reports whether one is
// available. When it returns false, Err separates exhaustion from
// failure.
func (r *Rows[T]) Next() bool {
	if !r.busy.CompareAndSwap(false, true) {
		r.reused.Store(true)
		return false
	}
	defer r.busy.Store(false)
	if r.done || r.reused.Load() {
		return false
	}
	for {
		if r.plan.limit >= 0 && r.seen >= r.plan.limit {
			r.done = true
			return false
		}
		if len(r.buf) > 0 {
			rec := r.buf[0]
			r.buf = r.buf[1:]
			var v T
			if err := r.dec.Decode(rec, reflect.ValueOf(&v).Elem()); err != nil {
				r.fail(err)
				return false
			}
			r.cur = v
			r.seen++
			return true
		}
		if r.started && r.cursor == "" {
			r.done = true
			return false
		}
		if err := r.ctx.Err(); err != nil {
			r.fail(err)
			return false
		}
		page, err := r.driver.Execute(r.ctx, &dialect.Request{
			Statement: r.plan.text,
			Params:    r.plan.args,
			Limit:     r.plan.size,
			Cursor:    r.cursor,
		})
		if err != nil {
			r.fail(err)
			return false
		}
		r.started = true
		r.buf = page.Items
		r.cursor = page.Next
		if r.reused.Load() {
			r.done = true
			return false
		}
	}
}

func (r *Rows[T]) fail(err error) {
	r.done = true
	r.err = err
}

// Value returns the current result. It is valid after a true Next and
// until the following Next call.
func (r *Rows[T]) Value() T { return r.cur }

// Err returns the error that stopped the enumeration, if any. Store
// errors pass through unchanged.
func (r *Rows[T]) Err() error {
	if r.reused.Load() {
		return errConcurrentRows
	}
	return r.err
}

// Close stops the enumeration. Further Next calls return false.
func (r *Rows[T]) Close() error {
	r.done = true
	return nil
}

// All runs the plan and collects every result.
func (c *Compiled[T]) All(ctx context.Context, params Params) ([]T, error) {
	rows, err := c.Rows(ctx, params)
	if err != nil {
		return nil, err
	}
	var out []T
	for rows.Next() {
		out = append(out, rows.Value())
	}
	return out, rows.Err()
}

// First returns the first result and stops. It returns a NotFoundError
// when nothing matches.
func (c *Compiled[T]) First(ctx context.Context, params Params) (T, error) {
	var zero T
	rows, err := c.Rows(ctx, params)
	if err != nil {
		return zero, err
	}
	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return zero, err
		}
		return zero, NewNotFoundError(c.model.Name())
	}
	return rows.Value(), nil
}

// Only returns the single matching result. It returns a NotFoundError
// when nothing matches and a NotSingularError when more than one
// result does.
func (c *Compiled[T]) Only(ctx context.Context, params Params) (T, error) {
	var zero T
	rows, err := c.Rows(ctx, params)
	if err != nil {
		return zero, err
	}
	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return zero, err
		}
		return zero, NewNotFoundError(c.model.Name())
	}
	v := rows.Value()
	if rows.Next() {
		return zero, NewNotSingularError(c.model.Name())
	}
	if err := rows.Err(); err != nil {
		return zero, err
	}
	return v, nil
}

// Count returns the number of results the plan would enumerate. Pages
// are drained without materializing records; the plan's result limit
// caps the count the way it caps enumeration.
func (c *Compiled[T]) Count(ctx context.Context, params Params) (int, error) {
	if err := c.authorize(ctx); err != nil {
		return 0, err
	}
	p, err := c.bind(params)
	if err != nil {
		return 0, err
	}
	if p.limit == 0 {
		return 0, nil
	}
	var (
		total  int64
		cursor dialect.Cursor
	)
	for {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		page, err := c.client.driver.Execute(ctx, &dialect.Request{
			Statement: p.text,
			Params:    p.args,
			Limit:     p.size,
			Cursor:    cursor,
		})
		if err != nil {
			return 0, err
		}
		total += int64(len(page.Items))
		if p.limit >= 0 && total >= p.limit {
			return int(p.limit), nil
		}
		if page.Next == "" {
			return int(total), nil
		}
		cursor = page.Next
	}
}

// Exist reports whether the plan matches anything. Requests carry the
// smallest page hint the plan allows and stop at the first item.
func (c *Compiled[T]) Exist(ctx context.Context, params Params) (bool, error) {
	if err := c.authorize(ctx); err != nil {
		return false, err
	}
	p, err := c.bind(params)
	if err != nil {
		return false, err
	}
	if p.limit == 0 {
		return false, nil
	}
	size := p.size
	if size == 0 {
		size = 1
	}
	var cursor dialect.Cursor
	for {
		if err := ctx.Err(); err != nil {
			return false, err
		}
		page, err := c.client.driver.Execute(ctx, &dialect.Request{
			Statement: p.text,
			Params:    p.args,
			Limit:     size,
			Cursor:    cursor,
		})
		if err != nil {
			return false, err
		}
		if len(page.Items) > 0 {
			return true, nil
		}
		if page.Next == "" {
			return false, nil
		}
		cursor = page.Next
	}
}
