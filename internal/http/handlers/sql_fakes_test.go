package handlers

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog"

	"fundflow/internal/infra"
	"fundflow/internal/mpesa"
)

func newTestApp(sql infra.SQLExecutor, gateway Gateway) *App {
	cfg := &infra.Config{
		AppEnv:         "test",
		SessionSecret:  "test-secret",
		StorageBaseURL: "http://localhost:8080/static",
	}
	return NewApp(sql, gateway, nil, zerolog.Nop(), cfg)
}

type fakeGateway struct {
	resp *mpesa.STKPushResponse
	err  error

	calls      int
	lastPhone  string
	lastAmount int64
	lastRef    string
	lastDesc   string
}

func (g *fakeGateway) RequestPayment(_ context.Context, phone string, amount int64, accountRef, description string) (*mpesa.STKPushResponse, error) {
	g.calls++
	g.lastPhone = phone
	g.lastAmount = amount
	g.lastRef = accountRef
	g.lastDesc = description
	if g.err != nil {
		return nil, g.err
	}
	return g.resp, nil
}

type sqlCall struct {
	query string
	args  []any
}

// fakeSQL scripts the three SQLExecutor methods and records every call.
// Unscripted Exec calls succeed with one affected row; unscripted QueryRow
// calls scan as no-rows.
type fakeSQL struct {
	mu        sync.Mutex
	execs     []sqlCall
	queryRows []sqlCall
	queries   []sqlCall

	onExec     func(query string, args []any) (pgconn.CommandTag, error)
	onQueryRow func(query string, args []any) pgx.Row
	onQuery    func(query string, args []any) (pgx.Rows, error)
}

func (f *fakeSQL) Exec(_ context.Context, query string, args ...any) (pgconn.CommandTag, error) {
	f.mu.Lock()
	f.execs = append(f.execs, sqlCall{query: query, args: args})
	fn := f.onExec
	f.mu.Unlock()
	if fn == nil {
		return pgconn.NewCommandTag("UPDATE 1"), nil
	}
	return fn(query, args)
}

func (f *fakeSQL) QueryRow(_ context.Context, query string, args ...any) pgx.Row {
	f.mu.Lock()
	f.queryRows = append(f.queryRows, sqlCall{query: query, args: args})
	fn := f.onQueryRow
	f.mu.Unlock()
	if fn == nil {
		return simpleRow{}
	}
	return fn(query, args)
}

func (f *fakeSQL) Query(_ context.Context, query string, args ...any) (pgx.Rows, error) {
	f.mu.Lock()
	f.queries = append(f.queries, sqlCall{query: query, args: args})
	fn := f.onQuery
	f.mu.Unlock()
	if fn == nil {
		return &testRows{}, nil
	}
	return fn(query, args)
}

func (f *fakeSQL) execCalls(query string) []sqlCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []sqlCall
	for _, c := range f.execs {
		if c.query == query {
			out = append(out, c)
		}
	}
	return out
}

func (f *fakeSQL) writeCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.execs) + len(f.queryRows)
}

var _ infra.SQLExecutor = (*fakeSQL)(nil)

// simpleRow adapts a scan closure to pgx.Row; the zero value scans as
// pgx.ErrNoRows.
type simpleRow struct {
	scan func(dest ...any) error
}

func (r simpleRow) Scan(dest ...any) error {
	if r.scan == nil {
		return pgx.ErrNoRows
	}
	return r.scan(dest...)
}

func scanValues(values ...any) func(dest ...any) error {
	return func(dest ...any) error {
		if len(dest) != len(values) {
			return fmt.Errorf("scan arity mismatch: got %d, want %d", len(dest), len(values))
		}
		for i, v := range values {
			if err := assign(dest[i], v); err != nil {
				return err
			}
		}
		return nil
	}
}

func assign(dest, value any) error {
	switch d := dest.(type) {
	case *string:
		v, ok := value.(string)
		if !ok {
			return fmt.Errorf("cannot scan %T into *string", value)
		}
		*d = v
	case *int64:
		switch v := value.(type) {
		case int64:
			*d = v
		case int:
			*d = int64(v)
		default:
			return fmt.Errorf("cannot scan %T into *int64", value)
		}
	case *time.Time:
		v, ok := value.(time.Time)
		if !ok {
			return fmt.Errorf("cannot scan %T into *time.Time", value)
		}
		*d = v
	default:
		return fmt.Errorf("unsupported scan destination %T", dest)
	}
	return nil
}

// testRowsBase satisfies the non-iteration part of pgx.Rows.
type testRowsBase struct{}

func (testRowsBase) CommandTag() pgconn.CommandTag { return pgconn.CommandTag{} }

func (testRowsBase) Conn() *pgx.Conn { return nil }

func (testRowsBase) FieldDescriptions() []pgconn.FieldDescription { return nil }

func (testRowsBase) Values() ([]any, error) {
	return nil, fmt.Errorf("values not supported in test rows")
}

func (testRowsBase) RawValues() [][]byte { return nil }

// testRows iterates over scripted row values.
type testRows struct {
	testRowsBase
	rows [][]any
	idx  int
}

func (r *testRows) Next() bool {
	if r.idx >= len(r.rows) {
		return false
	}
	r.idx++
	return true
}

func (r *testRows) Scan(dest ...any) error {
	if r.idx == 0 || r.idx > len(r.rows) {
		return pgx.ErrNoRows
	}
	return scanValues(r.rows[r.idx-1]...)(dest...)
}

func (r *testRows) Err() error { return nil }

func (r *testRows) Close() {}

var _ pgx.Rows = (*testRows)(nil)
