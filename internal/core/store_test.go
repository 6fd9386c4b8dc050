package core

import (
	"context"
	"errors"
	"testing"

	"roadmapcore/internal/codec"
	"roadmapcore/internal/infra/persistence/memory"
	"roadmapcore/internal/sample"
	"roadmapcore/pkg/domain"
)

func TestOpenEmptySlotStartsFromSample(t *testing.T) {
	logger := &captureLogger{}
	s, _ := newTestStore(t, WithLogger(logger))
	doc := s.Document()
	if len(doc.Initiatives) != len(sample.Document().Initiatives) {
		t.Fatalf("expected sample initiatives, got %d", len(doc.Initiatives))
	}
	if !logger.has("info", "no stored roadmap, starting from sample") {
		t.Fatalf("expected sample fallback log, got %+v", logger.entries)
	}
	if s.StorageKey() != DefaultStorageKey || s.Driver() != "memory" {
		t.Fatalf("unexpected key/driver %s/%s", s.StorageKey(), s.Driver())
	}
}

func TestOpenNilSlotUsesMemory(t *testing.T) {
	s, err := Open(context.Background(), nil)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if s.Driver() != "memory" {
		t.Fatalf("expected memory driver, got %s", s.Driver())
	}
}

func TestOpenLoadsStoredDocument(t *testing.T) {
	ctx := context.Background()
	slot := memory.NewStore()
	doc := sample.Document()
	doc.Meta.ProductName = "Stored"
	payload, err := codec.Serialize(doc)
	if err != nil {
		t.Fatalf("serialize: %v", err)
	}
	if err := slot.Save(ctx, "custom", payload); err != nil {
		t.Fatalf("seed: %v", err)
	}
	s, err := Open(ctx, slot, WithStorageKey("custom"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if got := s.Document().Meta.ProductName; got != "Stored" {
		t.Fatalf("expected stored product, got %s", got)
	}
}

func TestOpenUnreadablePayloadFallsBack(t *testing.T) {
	ctx := context.Background()
	slot := memory.NewStore()
	if err := slot.Save(ctx, DefaultStorageKey, []byte("{not json")); err != nil {
		t.Fatalf("seed: %v", err)
	}
	logger := &captureLogger{}
	s, err := Open(ctx, slot, WithLogger(logger))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if s.Document().Meta.ProductName != sample.Document().Meta.ProductName {
		t.Fatalf("expected sample document")
	}
	if !logger.has("warn", "stored roadmap unreadable, starting from sample") {
		t.Fatalf("expected warning, got %+v", logger.entries)
	}
}

func TestOpenReturnsBackendError(t *testing.T) {
	slot := &flakySlot{Store: memory.NewStore(), loadErr: errBackendDown}
	if _, err := Open(context.Background(), slot); !errors.Is(err, errBackendDown) {
		t.Fatalf("expected backend error, got %v", err)
	}
}

func TestMutationPersistsAndStampsUpdatedAt(t *testing.T) {
	s, slot := newTestStore(t)
	before := s.Document().Meta.UpdatedAt
	name := "Renamed"
	if _, err := s.UpdateState(context.Background(), domain.DocumentPatch{Meta: &domain.MetaPatch{ProductName: &name}}); err != nil {
		t.Fatalf("update: %v", err)
	}
	doc := s.Document()
	if doc.Meta.ProductName != "Renamed" {
		t.Fatalf("expected rename, got %s", doc.Meta.ProductName)
	}
	if !doc.Meta.UpdatedAt.After(before) {
		t.Fatalf("expected updatedAt refreshed, got %v", doc.Meta.UpdatedAt)
	}
	stored := storedDocument(t, slot, DefaultStorageKey)
	if stored.Meta.ProductName != "Renamed" || !stored.Meta.UpdatedAt.Equal(doc.Meta.UpdatedAt) {
		t.Fatalf("slot not updated: %+v", stored.Meta)
	}
}

func TestDocumentReturnsIndependentCopy(t *testing.T) {
	s, _ := newTestStore(t)
	doc := s.Document()
	doc.Initiatives[0].Title = "mutated"
	doc.Initiatives[0].Tags[0] = "mutated"
	doc.Pillars = nil
	again := s.Document()
	if again.Initiatives[0].Title == "mutated" || again.Initiatives[0].Tags[0] == "mutated" || len(again.Pillars) == 0 {
		t.Fatalf("store document aliased by caller")
	}
}

func TestNoOpMutationSkipsCommit(t *testing.T) {
	slot := &flakySlot{Store: memory.NewStore()}
	s, err := Open(context.Background(), slot)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	events := 0
	cancel := s.Subscribe(func(Event) { events++ })
	defer cancel()
	before := s.Document()

	res, err := s.RemoveInitiative(context.Background(), "missing")
	if err != nil || len(res.Violations) != 0 {
		t.Fatalf("expected silent no-op, got %+v %v", res, err)
	}
	if slot.saves != 0 || events != 0 {
		t.Fatalf("no-op must not persist or notify (saves=%d events=%d)", slot.saves, events)
	}
	if !s.Document().Meta.UpdatedAt.Equal(before.Meta.UpdatedAt) {
		t.Fatalf("no-op must not touch updatedAt")
	}
}

func TestBlockedMutationLeavesDocumentUntouched(t *testing.T) {
	s, slot := newTestStore(t)
	ctx := context.Background()
	empty := []Pillar{}
	events := 0
	s.Subscribe(func(Event) { events++ })

	_, err := s.UpdateState(ctx, domain.DocumentPatch{Pillars: &empty})
	var rve RuleViolationError
	if !errors.As(err, &rve) {
		t.Fatalf("expected rule violation, got %v", err)
	}
	if len(rve.Result.ByRule("pillar_minimum")) != 1 {
		t.Fatalf("expected pillar_minimum violation, got %+v", rve.Result)
	}
	if len(s.Document().Pillars) == 0 {
		t.Fatalf("blocked mutation was committed")
	}
	if _, err := slot.Load(ctx, DefaultStorageKey); !errors.Is(err, ErrSlotEmpty) {
		t.Fatalf("blocked mutation must not persist, got %v", err)
	}
	if events != 0 {
		t.Fatalf("blocked mutation must not notify")
	}
}

func TestPersistenceFailureKeepsChangeAndWarns(t *testing.T) {
	slot := &flakySlot{Store: memory.NewStore()}
	logger := &captureLogger{}
	s, err := Open(context.Background(), slot, WithLogger(logger))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	slot.saveErr = errBackendDown
	res, err := s.RemoveInitiative(context.Background(), "init-onboarding")
	if err != nil {
		t.Fatalf("persistence failure must not fail the mutation: %v", err)
	}
	if _, ok := s.Document().FindInitiative("init-onboarding"); ok {
		t.Fatalf("change must stay in memory")
	}
	if len(res.ByRule("persistence")) != 1 || res.HasBlocking() {
		t.Fatalf("expected persistence warning, got %+v", res.Violations)
	}
	if !logger.has("warn", "roadmap not saved") {
		t.Fatalf("expected warn log")
	}
}

func TestSubscribeDeliversCopiesAndCancels(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()
	var got []Event
	cancel := s.Subscribe(func(ev Event) {
		ev.Document.Meta.ProductName = "subscriber edit"
		got = append(got, ev)
	})
	if _, err := s.RemoveMetric(ctx, "kpi-latency"); err != nil {
		t.Fatalf("remove metric: %v", err)
	}
	if len(got) != 1 || got[0].Operation != "remove_metric" {
		t.Fatalf("unexpected events %+v", got)
	}
	if len(got[0].Document.Metrics) != 2 {
		t.Fatalf("event should carry committed document")
	}
	if s.Document().Meta.ProductName == "subscriber edit" {
		t.Fatalf("subscriber mutated store state")
	}
	cancel()
	if _, err := s.RemoveMetric(ctx, "kpi-retention"); err != nil {
		t.Fatalf("remove metric: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("cancelled subscriber still notified")
	}
}

func TestOptionsObserveOperations(t *testing.T) {
	metrics := &captureMetricsRecorder{}
	tracer := &captureTracer{}
	logger := &captureLogger{}
	s, _ := newTestStore(t, WithMetricsRecorder(metrics), WithTracer(tracer), WithLogger(logger))
	ctx := context.Background()

	if _, _, err := s.AddPillar(ctx); err != nil {
		t.Fatalf("add pillar: %v", err)
	}
	if _, _, err := s.AddInitiative(ctx, "Q9"); err == nil {
		t.Fatalf("expected invalid quarter")
	}
	if _, err := s.UpdateInitiative(ctx, "init-onboarding", func(in *Initiative) error { return errBackendDown }); !errors.Is(err, errBackendDown) {
		t.Fatalf("expected mutator error, got %v", err)
	}
	if !metrics.has("add_pillar", true) || !metrics.has("update_initiative", false) {
		t.Fatalf("unexpected metrics %+v", metrics.calls)
	}
	if len(tracer.started) != 2 || len(tracer.ended) != 2 || tracer.ended[1].err == nil {
		t.Fatalf("unexpected spans %+v / %+v", tracer.started, tracer.ended)
	}
	if !logger.has("debug", "roadmap mutation committed") || !logger.has("debug", "roadmap mutation failed") {
		t.Fatalf("expected debug logs, got %+v", logger.entries)
	}
}

func TestNilOptionsKeepDefaults(t *testing.T) {
	s, err := Open(context.Background(), nil,
		WithClock(nil), WithLogger(nil), WithMetricsRecorder(nil), WithTracer(nil),
		WithIDGenerator(nil), WithRulesEngine(nil), WithStorageKey(""))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if s.StorageKey() != DefaultStorageKey || s.clock == nil || s.newID == nil || s.engine == nil {
		t.Fatalf("nil options must keep defaults")
	}
	p, _, err := s.AddPillar(context.Background())
	if err != nil || p.ID == "" {
		t.Fatalf("expected uuid id, got %q err=%v", p.ID, err)
	}
}

func TestCustomRulesEngine(t *testing.T) {
	s, _ := newTestStore(t, WithRulesEngine(NewRulesEngine()))
	empty := []Pillar{}
	if _, err := s.UpdateState(context.Background(), domain.DocumentPatch{Pillars: &empty}); err != nil {
		t.Fatalf("empty engine should not block: %v", err)
	}
	if len(s.Document().Pillars) != 0 {
		t.Fatalf("expected pillars cleared")
	}
}
