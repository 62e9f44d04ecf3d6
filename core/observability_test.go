package core

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

type capturedCounter struct {
	name  string
	value int64
	tags  map[string]string
}

type captureMetricsRecorder struct {
	mu         sync.Mutex
	counters   []capturedCounter
	histograms []string
}

func (m *captureMetricsRecorder) IncCounter(_ context.Context, name string, value int64, tags map[string]string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counters = append(m.counters, capturedCounter{name: name, value: value, tags: cloneTags(tags)})
}

func (m *captureMetricsRecorder) ObserveHistogram(_ context.Context, name string, _ float64, _ map[string]string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.histograms = append(m.histograms, name)
}

type capturedLog struct {
	level  string
	msg    string
	fields map[string]any
}

type captureLogger struct {
	mu       *sync.Mutex
	records  *[]capturedLog
	defaults map[string]any
}

func newCaptureLogger() *captureLogger {
	records := []capturedLog{}
	return &captureLogger{mu: &sync.Mutex{}, records: &records, defaults: map[string]any{}}
}

func (l *captureLogger) WithFields(fields map[string]any) Logger {
	merged := cloneFields(l.defaults)
	for key, value := range fields {
		merged[key] = value
	}
	return &captureLogger{mu: l.mu, records: l.records, defaults: merged}
}

func (l *captureLogger) Trace(msg string, args ...any) { l.record("trace", msg, args...) }
func (l *captureLogger) Debug(msg string, args ...any) { l.record("debug", msg, args...) }
func (l *captureLogger) Info(msg string, args ...any)  { l.record("info", msg, args...) }
func (l *captureLogger) Warn(msg string, args ...any)  { l.record("warn", msg, args...) }
func (l *captureLogger) Error(msg string, args ...any) { l.record("error", msg, args...) }
func (l *captureLogger) Fatal(msg string, args ...any) { l.record("fatal", msg, args...) }

func (l *captureLogger) WithContext(context.Context) Logger {
	return &captureLogger{mu: l.mu, records: l.records, defaults: cloneFields(l.defaults)}
}

func (l *captureLogger) record(level string, msg string, args ...any) {
	fields := cloneFields(l.defaults)
	for index := 0; index+1 < len(args); index += 2 {
		key, ok := args[index].(string)
		if !ok {
			continue
		}
		fields[key] = args[index+1]
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	*l.records = append(*l.records, capturedLog{level: level, msg: msg, fields: fields})
}

func (l *captureLogger) snapshot() []capturedLog {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]capturedLog, len(*l.records))
	copy(out, *l.records)
	return out
}

func TestObserveOperation_Success(t *testing.T) {
	logger := newCaptureLogger()
	metrics := &captureMetricsRecorder{}

	ObserveOperation(context.Background(), logger, metrics, time.Now(), "Grant Dispatch", nil, map[string]any{
		"grant_type": "client_credentials",
		"client_id":  "svc",
	})

	records := logger.snapshot()
	if len(records) != 1 {
		t.Fatalf("expected one log record, got %d", len(records))
	}
	if records[0].level != "info" || records[0].msg != "grant_dispatch succeeded" {
		t.Fatalf("unexpected record %+v", records[0])
	}
	if records[0].fields["status"] != "success" || records[0].fields["event_type"] != "grant_dispatch" {
		t.Fatalf("unexpected fields %+v", records[0].fields)
	}
	if len(metrics.counters) != 1 || metrics.counters[0].name != "oauthstore.grant_dispatch.total" {
		t.Fatalf("unexpected counters %+v", metrics.counters)
	}
	tags := metrics.counters[0].tags
	if tags["grant_type"] != "client_credentials" || tags["client_id"] != "svc" || tags["status"] != "success" {
		t.Fatalf("unexpected tags %+v", tags)
	}
	if len(metrics.histograms) != 1 || metrics.histograms[0] != "oauthstore.grant_dispatch.duration_ms" {
		t.Fatalf("unexpected histograms %+v", metrics.histograms)
	}
}

func TestObserveOperation_FailureLogsError(t *testing.T) {
	logger := newCaptureLogger()
	metrics := &captureMetricsRecorder{}

	ObserveOperation(context.Background(), logger, metrics, time.Now(), "", errors.New("boom"), nil)

	records := logger.snapshot()
	if len(records) != 1 || records[0].level != "error" || records[0].msg != "unknown failed" {
		t.Fatalf("unexpected records %+v", records)
	}
	if records[0].fields["error"] != "boom" {
		t.Fatalf("expected error field, got %+v", records[0].fields)
	}
	if metrics.counters[0].tags["status"] != "failure" {
		t.Fatalf("expected failure status tag, got %+v", metrics.counters[0].tags)
	}
}

func TestObserveOperation_NilMetricsRecorder(t *testing.T) {
	logger := newCaptureLogger()
	ObserveOperation(context.Background(), logger, nil, time.Now(), "seed", nil, nil)
	if len(logger.snapshot()) != 1 {
		t.Fatalf("expected the operation to be logged without a metrics recorder")
	}
}

func TestPruner_ObservesEachEntity(t *testing.T) {
	now := time.Date(2026, 5, 10, 12, 0, 0, 0, time.UTC)
	tokens, authorizations := pruneFixture(t, now)
	metrics := &captureMetricsRecorder{}
	pruner := NewPruner(tokens, authorizations, PruningConfig{BatchSize: 10}, newCaptureLogger(), metrics)

	if _, err := pruner.PruneTokens(context.Background(), now.Add(-24*time.Hour)); err != nil {
		t.Fatalf("prune tokens: %v", err)
	}
	if len(metrics.counters) != 1 || metrics.counters[0].tags["entity"] != "token" {
		t.Fatalf("expected token prune counter, got %+v", metrics.counters)
	}
}
