package transport

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/searchsync/internal/domain"
	"github.com/kailas-cloud/searchsync/internal/domain/document"
	"github.com/kailas-cloud/searchsync/internal/domain/engine"
	"github.com/kailas-cloud/searchsync/internal/domain/search/query"
	"github.com/kailas-cloud/searchsync/internal/domain/settings"
)

// Recorder receives per-call transport measurements.
type Recorder interface {
	ObserveTransport(op string, d time.Duration, err error)
	Indexed(n int)
}

// Instrumented wraps a Transport with metrics, logging and TransportError tagging.
type Instrumented struct {
	inner   engine.Transport
	name    string
	metrics Recorder
	logger  *zap.Logger
}

// NewInstrumented wraps inner. name identifies the engine in logs.
// metrics and logger can be nil.
func NewInstrumented(inner engine.Transport, name string, metrics Recorder, logger *zap.Logger) *Instrumented {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Instrumented{inner: inner, name: name, metrics: metrics, logger: logger}
}

// SaveDocuments delegates and counts the indexed documents.
func (t *Instrumented) SaveDocuments(ctx context.Context, index string, docs []document.Document) error {
	start := time.Now()
	err := t.inner.SaveDocuments(ctx, index, docs)
	if err = t.observe(engine.OpSave, index, start, err, zap.Int("documents", len(docs))); err != nil {
		return err
	}
	if t.metrics != nil {
		t.metrics.Indexed(len(docs))
	}
	return nil
}

// DeleteDocument delegates.
func (t *Instrumented) DeleteDocument(ctx context.Context, index, objectID string) error {
	start := time.Now()
	err := t.inner.DeleteDocument(ctx, index, objectID)
	return t.observe(engine.OpDelete, index, start, err, zap.String("object_id", objectID))
}

// SetSettings delegates.
func (t *Instrumented) SetSettings(ctx context.Context, index string, s settings.Settings) error {
	start := time.Now()
	err := t.inner.SetSettings(ctx, index, s)
	return t.observe(engine.OpSettings, index, start, err)
}

// Search delegates.
func (t *Instrumented) Search(ctx context.Context, index, q string, p query.Params) (*query.Response, error) {
	start := time.Now()
	resp, err := t.inner.Search(ctx, index, q, p)
	var n int
	if resp != nil {
		n = len(resp.Hits)
	}
	if err = t.observe(engine.OpSearch, index, start, err, zap.Int("hits", n)); err != nil {
		return nil, err
	}
	return resp, nil
}

func (t *Instrumented) observe(op, index string, start time.Time, err error, extra ...zap.Field) error {
	d := time.Since(start)
	if t.metrics != nil {
		t.metrics.ObserveTransport(op, d, err)
	}

	fields := append([]zap.Field{
		zap.String("engine", t.name),
		zap.String("op", op),
		zap.String("index", index),
		zap.Duration("duration", d),
	}, extra...)

	if err != nil {
		t.logger.Error("Search transport request failed", append(fields, zap.Error(err))...)
		return domain.NewTransportError(op, err)
	}
	t.logger.Debug("Search transport request completed", fields...)
	return nil
}
