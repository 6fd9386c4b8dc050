package core

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"expvar"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestPrometheusMetricsRecorder(t *testing.T) {
	reg := prometheus.NewRegistry()
	rec, err := NewPrometheusMetricsRecorder(reg, "roadmap")
	if err != nil {
		t.Fatalf("new recorder: %v", err)
	}
	s, _ := newTestStore(t, WithMetricsRecorder(rec))
	ctx := context.Background()
	if _, _, err := s.AddMetric(ctx); err != nil {
		t.Fatalf("add metric: %v", err)
	}
	if _, err := s.RemovePillar(ctx, "growth", RemoveMove, "nowhere"); err == nil {
		t.Fatalf("expected move failure")
	}
	if got := testutil.ToFloat64(rec.operations.WithLabelValues("add_metric", "success")); got != 1 {
		t.Fatalf("expected 1 add_metric success, got %v", got)
	}
	if got := testutil.ToFloat64(rec.operations.WithLabelValues("remove_pillar", "error")); got != 1 {
		t.Fatalf("expected 1 remove_pillar error, got %v", got)
	}
	if n := testutil.CollectAndCount(rec.latency); n != 2 {
		t.Fatalf("expected 2 latency series, got %d", n)
	}
	if _, err := NewPrometheusMetricsRecorder(reg, "roadmap"); err == nil {
		t.Fatalf("duplicate registration should fail")
	}
	rec.Observe(ctx, "", true, time.Second)
	if n := testutil.CollectAndCount(rec.operations); n != 2 {
		t.Fatalf("empty operation must be ignored, got %d series", n)
	}
}

func TestExpvarMetricsRecorder(t *testing.T) {
	rec := NewExpvarMetricsRecorder("")
	if !strings.HasPrefix(rec.Name(), "roadmap_store_metrics_") {
		t.Fatalf("unexpected name %s", rec.Name())
	}
	ctx := context.Background()
	rec.Observe(ctx, "reset", true, 2*time.Millisecond)
	rec.Observe(ctx, "reset", false, time.Millisecond)
	rec.Observe(ctx, "", true, time.Millisecond)
	snap := rec.Snapshot()
	if snap.Results["reset"]["success"] != 1 || snap.Results["reset"]["error"] != 1 {
		t.Fatalf("unexpected results %+v", snap.Results)
	}
	if snap.DurationsMS["reset"] != 3 {
		t.Fatalf("unexpected durations %+v", snap.DurationsMS)
	}
	if len(snap.Results) != 1 {
		t.Fatalf("empty operation must be ignored")
	}
	published := expvar.Get(rec.Name())
	if published == nil || !strings.Contains(published.String(), "results_total") {
		t.Fatalf("expected published snapshot, got %v", published)
	}
}

func TestJSONTracer(t *testing.T) {
	var buf bytes.Buffer
	tracer := NewJSONTracer(&buf)
	_, span := tracer.Start(context.Background(), "import")
	span.End(errors.New("bad file"))
	_, span = tracer.Start(context.Background(), "reset")
	span.End(nil)

	entries := tracer.Entries()
	if len(entries) != 2 || entries[0].Status != "error" || entries[0].Error != "bad file" || entries[1].Status != "success" {
		t.Fatalf("unexpected entries %+v", entries)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 json lines, got %q", buf.String())
	}
	var decoded JSONTraceEntry
	if err := json.Unmarshal([]byte(lines[1]), &decoded); err != nil || decoded.Operation != "reset" {
		t.Fatalf("unexpected line %q err=%v", lines[1], err)
	}
	if NewJSONTracer(nil).Entries() != nil {
		t.Fatalf("fresh tracer should have no entries")
	}
}

func TestJSONTracerWithStore(t *testing.T) {
	tracer := NewJSONTracer(nil)
	s, _ := newTestStore(t, WithTracer(tracer))
	if _, err := s.Reset(context.Background()); err != nil {
		t.Fatalf("reset: %v", err)
	}
	entries := tracer.Entries()
	if len(entries) != 1 || entries[0].Operation != "reset" || entries[0].Status != "success" {
		t.Fatalf("unexpected trace %+v", entries)
	}
}
