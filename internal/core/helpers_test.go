package core

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"roadmapcore/internal/codec"
	"roadmapcore/internal/infra/persistence/memory"
)

var fixedNow = time.Date(2026, time.March, 2, 10, 0, 0, 0, time.UTC)

type stepClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *stepClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(time.Second)
	return c.now
}

type logEntry struct {
	level string
	msg   string
	args  []any
}

type captureLogger struct {
	mu      sync.Mutex
	entries []logEntry
}

func (l *captureLogger) add(level, msg string, args []any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, logEntry{level: level, msg: msg, args: args})
}

func (l *captureLogger) Debug(msg string, args ...any) { l.add("debug", msg, args) }
func (l *captureLogger) Info(msg string, args ...any)  { l.add("info", msg, args) }
func (l *captureLogger) Warn(msg string, args ...any)  { l.add("warn", msg, args) }
func (l *captureLogger) Error(msg string, args ...any) { l.add("error", msg, args) }

func (l *captureLogger) has(level, msg string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, e := range l.entries {
		if e.level == level && e.msg == msg {
			return true
		}
	}
	return false
}

type metricsCall struct {
	op      string
	success bool
}

type captureMetricsRecorder struct {
	calls []metricsCall
}

func (c *captureMetricsRecorder) Observe(_ context.Context, op string, success bool, _ time.Duration) {
	c.calls = append(c.calls, metricsCall{op: op, success: success})
}

func (c *captureMetricsRecorder) has(op string, success bool) bool {
	for _, call := range c.calls {
		if call.op == op && call.success == success {
			return true
		}
	}
	return false
}

type spanRecord struct {
	op  string
	err error
}

type captureTracer struct {
	started []string
	ended   []spanRecord
}

func (c *captureTracer) Start(ctx context.Context, op string) (context.Context, TraceSpan) {
	c.started = append(c.started, op)
	return ctx, &captureSpan{tracer: c, op: op}
}

type captureSpan struct {
	tracer *captureTracer
	op     string
}

func (s *captureSpan) End(err error) {
	s.tracer.ended = append(s.tracer.ended, spanRecord{op: s.op, err: err})
}

// sequentialIDs mints id-1, id-2, ...
func sequentialIDs() func() string {
	var n int
	return func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
}

// flakySlot wraps a memory slot and fails on demand.
type flakySlot struct {
	*memory.Store
	loadErr error
	saveErr error
	saves   int
}

func (f *flakySlot) Load(ctx context.Context, key string) ([]byte, error) {
	if f.loadErr != nil {
		return nil, f.loadErr
	}
	return f.Store.Load(ctx, key)
}

func (f *flakySlot) Save(ctx context.Context, key string, payload []byte) error {
	f.saves++
	if f.saveErr != nil {
		return f.saveErr
	}
	return f.Store.Save(ctx, key, payload)
}

func (f *flakySlot) Driver() string { return "flaky" }

var errBackendDown = errors.New("backend down")

func newTestStore(t *testing.T, opts ...Option) (*Store, *memory.Store) {
	t.Helper()
	slot := memory.NewStore()
	base := []Option{
		WithClock(&stepClock{now: fixedNow}),
		WithIDGenerator(sequentialIDs()),
	}
	s, err := Open(context.Background(), slot, append(base, opts...)...)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	return s, slot
}

func storedDocument(t *testing.T, slot SlotStore, key string) Document {
	t.Helper()
	payload, err := slot.Load(context.Background(), key)
	if err != nil {
		t.Fatalf("load slot: %v", err)
	}
	doc, err := codec.Deserialize(payload)
	if err != nil {
		t.Fatalf("decode slot: %v", err)
	}
	return doc
}
