package core

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"roadmapcore/internal/codec"
	"roadmapcore/internal/infra/persistence/memory"
	"roadmapcore/internal/sample"
)

// Event is delivered to subscribers after every committed mutation.
type Event struct {
	Operation string
	Document  Document
	Result    Result
	At        time.Time
}

// Store owns the single authoritative roadmap document. Every mutation runs
// against a deep copy, is checked by the rules engine, committed, written to
// the slot store and then announced to subscribers.
type Store struct {
	mu     sync.RWMutex
	doc    Document
	slot   SlotStore
	key    string
	engine *RulesEngine

	clock   Clock
	logger  Logger
	metrics MetricsRecorder
	tracer  Tracer
	newID   func() string

	subMu   sync.Mutex
	subs    map[int]func(Event)
	nextSub int
}

// Open loads the document from slot. An empty slot or an unreadable payload
// yields the built-in sample document; a failing backend is returned as an
// error. A nil slot keeps the document in memory only.
func Open(ctx context.Context, slot SlotStore, opts ...Option) (*Store, error) {
	if slot == nil {
		slot = memory.NewStore()
	}
	s := &Store{
		slot:    slot,
		key:     DefaultStorageKey,
		engine:  NewDefaultRulesEngine(),
		clock:   ClockFunc(func() time.Time { return time.Now().UTC() }),
		logger:  noopLogger{},
		metrics: noopMetricsRecorder{},
		tracer:  noopTracer{},
		newID:   uuid.NewString,
		subs:    make(map[int]func(Event)),
	}
	for _, opt := range opts {
		opt(s)
	}

	payload, err := slot.Load(ctx, s.key)
	switch {
	case errors.Is(err, ErrSlotEmpty):
		s.logger.Info("no stored roadmap, starting from sample", "driver", slot.Driver(), "key", s.key)
		s.doc = sample.Document()
	case err != nil:
		return nil, fmt.Errorf("load roadmap from %s: %w", slot.Driver(), err)
	default:
		doc, decodeErr := codec.Deserialize(payload)
		if decodeErr != nil {
			s.logger.Warn("stored roadmap unreadable, starting from sample", "driver", slot.Driver(), "key", s.key, "error", decodeErr)
			s.doc = sample.Document()
			break
		}
		s.doc = doc
	}
	return s, nil
}

// Document returns a deep copy of the current document.
func (s *Store) Document() Document {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.doc.Clone()
}

// Export serializes the current document.
func (s *Store) Export() ([]byte, error) {
	return codec.Serialize(s.Document())
}

// StorageKey returns the slot key the store persists under.
func (s *Store) StorageKey() string { return s.key }

// Driver reports the slot backend in use.
func (s *Store) Driver() string { return s.slot.Driver() }

// Subscribe registers fn for change events. The returned function removes
// the subscription.
func (s *Store) Subscribe(fn func(Event)) (cancel func()) {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	return func() {
		s.subMu.Lock()
		delete(s.subs, id)
		s.subMu.Unlock()
	}
}

func (s *Store) notify(ev Event) {
	s.subMu.Lock()
	fns := make([]func(Event), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.subMu.Unlock()
	for _, fn := range fns {
		cp := ev
		cp.Document = ev.Document.Clone()
		fn(cp)
	}
}

// transaction is the working copy a single mutation edits.
type transaction struct {
	doc     Document
	changes []Change
	now     time.Time
	newID   func() string
}

func (tx *transaction) record(change Change) {
	tx.changes = append(tx.changes, change)
}

// run executes fn against a copy of the document. Mutations that record no
// change are no-ops: nothing is committed, persisted or announced.
func (s *Store) run(ctx context.Context, op string, fn func(tx *transaction) error) (res Result, err error) {
	started := s.clock.Now()
	ctx, span := s.tracer.Start(ctx, op)
	defer func() {
		span.End(err)
		s.metrics.Observe(ctx, op, err == nil, s.clock.Now().Sub(started))
		if err != nil {
			s.logger.Debug("roadmap mutation failed", "operation", op, "error", err)
		}
	}()

	s.mu.Lock()
	tx := &transaction{doc: s.doc.Clone(), now: s.clock.Now(), newID: s.newID}
	if err = fn(tx); err != nil {
		s.mu.Unlock()
		return Result{}, err
	}
	if len(tx.changes) == 0 {
		s.mu.Unlock()
		return Result{}, nil
	}
	tx.doc.Meta.UpdatedAt = tx.now

	res, err = s.engine.Evaluate(ctx, tx.doc, tx.changes)
	if err != nil {
		s.mu.Unlock()
		return Result{}, err
	}
	if res.HasBlocking() {
		s.mu.Unlock()
		return res, RuleViolationError{Result: res}
	}

	s.doc = tx.doc
	committed := s.doc.Clone()
	if perr := s.persist(ctx, committed); perr != nil {
		s.logger.Warn("roadmap not saved", "operation", op, "driver", s.slot.Driver(), "error", perr)
		res.Violations = append(res.Violations, Violation{
			Rule:     "persistence",
			Severity: SeverityWarn,
			Message:  fmt.Sprintf("changes kept in memory only: %v", perr),
			Entity:   EntityDocument,
		})
	}
	s.mu.Unlock()

	s.logger.Debug("roadmap mutation committed", "operation", op, "changes", len(tx.changes), "warnings", len(res.Warnings()))
	s.notify(Event{Operation: op, Document: committed, Result: res, At: tx.now})
	return res, nil
}

func (s *Store) persist(ctx context.Context, doc Document) error {
	payload, err := codec.Serialize(doc)
	if err != nil {
		return err
	}
	return s.slot.Save(ctx, s.key, payload)
}
