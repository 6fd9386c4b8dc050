package postgres

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"sync/atomic"
)

var stubSeq atomic.Int64

// stubConn is a tiny database/sql driver that understands the three
// statements the slot store issues.
type stubConn struct {
	mu       sync.Mutex
	execs    []string
	rows     map[string][]byte
	failPing bool
	failExec bool
}

func newStubDB() (*sql.DB, *stubConn) {
	conn := &stubConn{rows: make(map[string][]byte)}
	name := fmt.Sprintf("stubpg%d", stubSeq.Add(1))
	sql.Register(name, &stubDriver{conn: conn})
	db, err := sql.Open(name, "stub")
	if err != nil {
		panic(err)
	}
	return db, conn
}

type stubDriver struct{ conn *stubConn }

func (d *stubDriver) Open(string) (driver.Conn, error) { return d.conn, nil }

func (c *stubConn) Prepare(string) (driver.Stmt, error) { return nil, errors.New("not implemented") }
func (c *stubConn) Close() error                        { return nil }
func (c *stubConn) Begin() (driver.Tx, error)           { return nil, errors.New("not implemented") }

func (c *stubConn) Ping(context.Context) error {
	if c.failPing {
		return errors.New("ping fail")
	}
	return nil
}

func (c *stubConn) ExecContext(_ context.Context, query string, args []driver.NamedValue) (driver.Result, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.failExec {
		return nil, errors.New("exec fail")
	}
	c.execs = append(c.execs, query)
	if strings.HasPrefix(strings.TrimSpace(query), "INSERT") {
		key, _ := args[0].Value.(string)
		payload, _ := args[1].Value.([]byte)
		c.rows[key] = append([]byte(nil), payload...)
	}
	return driver.RowsAffected(1), nil
}

func (c *stubConn) QueryContext(_ context.Context, _ string, args []driver.NamedValue) (driver.Rows, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	key, _ := args[0].Value.(string)
	payload, ok := c.rows[key]
	if !ok {
		return &stubRows{}, nil
	}
	return &stubRows{values: [][]byte{append([]byte(nil), payload...)}}, nil
}

type stubRows struct {
	values [][]byte
	pos    int
}

func (r *stubRows) Columns() []string { return []string{"payload"} }
func (r *stubRows) Close() error      { return nil }

func (r *stubRows) Next(dest []driver.Value) error {
	if r.pos >= len(r.values) {
		return io.EOF
	}
	dest[0] = r.values[r.pos]
	r.pos++
	return nil
}
