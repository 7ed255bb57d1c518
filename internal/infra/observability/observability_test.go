package observability

import (
	"context"
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

// ─── Metrics ────────────────────────────────────────────────────────────────

func TestMetrics_Counters(t *testing.T) {
	m := NewMetrics()

	m.EntriesRecorded.WithLabelValues("car").Inc()
	m.EntriesRecorded.WithLabelValues("car").Inc()
	m.EntriesRecorded.WithLabelValues("bike").Inc()
	m.PointsAwarded.WithLabelValues(SourceReport).Add(30)
	m.ActionsCompleted.Inc()
	m.ActiveSessions.Set(2)

	if got := testutil.ToFloat64(m.EntriesRecorded.WithLabelValues("car")); got != 2 {
		t.Errorf("entries{car} = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.PointsAwarded.WithLabelValues(SourceReport)); got != 30 {
		t.Errorf("points{report} = %v, want 30", got)
	}
	if got := testutil.ToFloat64(m.ActionsCompleted); got != 1 {
		t.Errorf("actions completed = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.ActiveSessions); got != 2 {
		t.Errorf("active sessions = %v, want 2", got)
	}
}

func TestMetrics_PrivateRegistries(t *testing.T) {
	// Two instances must not panic on duplicate registration.
	a := NewMetrics()
	b := NewMetrics()
	a.LocationsReported.Inc()

	if got := testutil.ToFloat64(b.LocationsReported); got != 0 {
		t.Errorf("second registry saw %v reports, want 0", got)
	}
}

func TestMetrics_Handler(t *testing.T) {
	m := NewMetrics()
	m.EntriesRecorded.WithLabelValues("bus").Inc()

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, _ := io.ReadAll(rec.Body)
	if !strings.Contains(string(body), `ecotrack_carbon_entries_total{mode="bus"} 1`) {
		t.Errorf("exposition missing entries counter:\n%s", body)
	}
}

// ─── Tracer ─────────────────────────────────────────────────────────────────

func TestTracer_StartEnd_RecordsSpan(t *testing.T) {
	tr := NewTracer(DefaultTracerConfig())
	ctx := context.Background()

	span := tr.StartSpan(ctx, "GET /api/dashboard", map[string]string{"key": "val"})
	tr.EndSpan(span, nil)

	if tr.SpanCount() != 1 {
		t.Fatalf("SpanCount() = %d, want 1", tr.SpanCount())
	}

	spans := tr.Spans(1)
	if spans[0].Operation != "GET /api/dashboard" {
		t.Errorf("Operation = %q", spans[0].Operation)
	}
	if spans[0].Status != SpanOK {
		t.Errorf("Status = %d, want SpanOK", spans[0].Status)
	}
	if spans[0].EndTime.Before(spans[0].StartTime) {
		t.Error("EndTime should not be before StartTime")
	}
	if spans[0].Attrs["key"] != "val" {
		t.Errorf("Attrs[key] = %q, want %q", spans[0].Attrs["key"], "val")
	}
}

func TestTracer_EndSpan_RecordsError(t *testing.T) {
	tr := NewTracer(DefaultTracerConfig())

	span := tr.StartSpan(context.Background(), "err-op", nil)
	tr.EndSpan(span, errors.New("boom"))

	spans := tr.Spans(1)
	if spans[0].Status != SpanError {
		t.Errorf("Status = %d, want SpanError", spans[0].Status)
	}
	if spans[0].Attrs["error"] != "boom" {
		t.Errorf("error attr = %q, want %q", spans[0].Attrs["error"], "boom")
	}
}

func TestTracer_Disabled(t *testing.T) {
	tr := NewTracer(TracerConfig{Enabled: false, MaxSpans: 100})
	span := tr.StartSpan(context.Background(), "noop", nil)
	tr.EndSpan(span, nil)

	if tr.SpanCount() != 0 {
		t.Errorf("disabled tracer SpanCount() = %d, want 0", tr.SpanCount())
	}
}

func TestTracer_RingBuffer_Overflow(t *testing.T) {
	tr := NewTracer(TracerConfig{Enabled: true, MaxSpans: 3})
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		span := tr.StartSpan(ctx, "op", nil)
		tr.EndSpan(span, nil)
	}

	if tr.SpanCount() != 3 {
		t.Errorf("SpanCount() = %d, want 3 (ring buffer overflow)", tr.SpanCount())
	}
}

func TestTracer_Spans_Limit(t *testing.T) {
	tr := NewTracer(DefaultTracerConfig())
	ctx := context.Background()
	for i := 0; i < 10; i++ {
		span := tr.StartSpan(ctx, "op", nil)
		tr.EndSpan(span, nil)
	}

	if got := len(tr.Spans(3)); got != 3 {
		t.Errorf("Spans(3) returned %d, want 3", got)
	}
	if got := len(tr.Spans(0)); got != 10 {
		t.Errorf("Spans(0) returned %d, want all 10", got)
	}
}

func TestTracer_TraceIDFromContext(t *testing.T) {
	tr := NewTracer(DefaultTracerConfig())

	withID := tr.StartSpan(WithTraceID(context.Background(), "req-abc"), "op", nil)
	if withID.TraceID != "req-abc" {
		t.Errorf("TraceID = %q, want %q", withID.TraceID, "req-abc")
	}

	generated := tr.StartSpan(context.Background(), "op", nil)
	if generated.TraceID == "" {
		t.Error("TraceID should be auto-generated, got empty")
	}
	if generated.SpanID == withID.SpanID {
		t.Errorf("SpanIDs should be unique, both = %q", generated.SpanID)
	}
}
