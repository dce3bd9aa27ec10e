package dialect_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/veloxdoc/dialect"
	"github.com/syssam/veloxdoc/wire"
)

// scripted answers requests from a fixed page sequence keyed by cursor.
func scripted(pages map[dialect.Cursor]*dialect.Page) dialect.ExecuteFunc {
	return func(_ context.Context, req *dialect.Request) (*dialect.Page, error) {
		page, ok := pages[req.Cursor]
		if !ok {
			return nil, errors.New("unknown cursor")
		}
		return page, nil
	}
}

func TestExecuteFunc(t *testing.T) {
	t.Parallel()
	drv := scripted(map[dialect.Cursor]*dialect.Page{
		"": {
			Items: []wire.Record{{"Name": wire.String("a8m")}},
			Next:  "p2",
		},
	})
	page, err := drv.Execute(context.Background(), &dialect.Request{Statement: "SELECT Name FROM Users"})
	require.NoError(t, err)
	assert.Len(t, page.Items, 1)
	assert.Equal(t, dialect.Cursor("p2"), page.Next)
	assert.NoError(t, drv.Close())

	_, err = drv.Execute(context.Background(), &dialect.Request{Cursor: "ghost"})
	assert.Error(t, err)
}

func TestStatsDriver(t *testing.T) {
	t.Parallel()
	backend := dialect.ExecuteFunc(func(_ context.Context, req *dialect.Request) (*dialect.Page, error) {
		time.Sleep(time.Millisecond)
		if req.Cursor == "boom" {
			return nil, errors.New("store unavailable")
		}
		return &dialect.Page{Items: make([]wire.Record, 3)}, nil
	})

	var (
		mu    sync.Mutex
		slow  int
		stmts []string
	)
	drv := dialect.NewStatsDriver(backend,
		dialect.WithSlowThreshold(0),
		dialect.WithSlowRequestHook(func(_ context.Context, stmt string, _ []wire.Value, _ time.Duration) {
			mu.Lock()
			defer mu.Unlock()
			slow++
			stmts = append(stmts, stmt)
		}),
	)

	_, err := drv.Execute(context.Background(), &dialect.Request{Statement: "SELECT"})
	require.NoError(t, err)
	_, err = drv.Execute(context.Background(), &dialect.Request{Statement: "SELECT", Cursor: "boom"})
	require.Error(t, err)

	s := drv.ExecStats().Stats()
	assert.Equal(t, int64(2), s.TotalRequests)
	assert.Equal(t, int64(3), s.TotalItems)
	assert.Equal(t, int64(1), s.Errors)
	assert.Equal(t, int64(2), s.SlowRequests)
	assert.Greater(t, s.TotalDuration, time.Duration(0))
	assert.Greater(t, s.AvgRequestDuration(), time.Duration(0))
	assert.Contains(t, s.String(), "requests=2")

	mu.Lock()
	assert.Equal(t, 2, slow)
	assert.Equal(t, []string{"SELECT", "SELECT"}, stmts)
	mu.Unlock()

	drv.ExecStats().Reset()
	assert.Equal(t, int64(0), drv.ExecStats().Stats().TotalRequests)

	drv.SetSlowThreshold(time.Minute)
	assert.Equal(t, time.Minute, drv.SlowThreshold())
	_, err = drv.Execute(context.Background(), &dialect.Request{Statement: "SELECT"})
	require.NoError(t, err)
	assert.Equal(t, int64(0), drv.ExecStats().Stats().SlowRequests)
}

func TestDebugDriver(t *testing.T) {
	t.Parallel()
	backend := scripted(map[dialect.Cursor]*dialect.Page{
		"":   {Items: make([]wire.Record, 2), Next: "p2"},
		"p2": {Items: make([]wire.Record, 1)},
	})

	var (
		mu    sync.Mutex
		lines []string
	)
	drv := dialect.NewDebugDriver(backend, dialect.DebugWithLog(func(_ context.Context, v ...any) {
		mu.Lock()
		defer mu.Unlock()
		for _, x := range v {
			lines = append(lines, x.(string))
		}
	}))

	_, err := drv.Execute(context.Background(), &dialect.Request{
		Statement: "SELECT Age, Name FROM Users WHERE Age >= ?",
		Params:    []wire.Value{wire.Int(26)},
		Limit:     5,
	})
	require.NoError(t, err)
	_, err = drv.Execute(context.Background(), &dialect.Request{Statement: "SELECT", Cursor: "p2"})
	require.NoError(t, err)
	_, err = drv.Execute(context.Background(), &dialect.Request{Statement: "SELECT", Cursor: "ghost"})
	require.Error(t, err)

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, lines, 6)
	assert.Contains(t, lines[0], "SELECT Age, Name FROM Users WHERE Age >= ?")
	assert.Contains(t, lines[0], "limit: 5")
	assert.Contains(t, lines[1], "2 items, more")
	assert.Contains(t, lines[3], "1 items, exhausted")
	assert.Contains(t, lines[5], "execute failed")
}
