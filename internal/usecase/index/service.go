package index

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/kailas-cloud/searchsync/internal/domain/document"
	"github.com/kailas-cloud/searchsync/internal/domain/schema"
)

// Service writes instances to one search index.
type Service struct {
	writer Writer
	index  string
	logger *zap.Logger
}

// New creates an index service. logger can be nil.
func New(writer Writer, index string, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{writer: writer, index: index, logger: logger}
}

// Name returns the index name.
func (s *Service) Name() string { return s.index }

// Add indexes a single instance.
func (s *Service) Add(ctx context.Context, inst schema.Instance) error {
	if _, err := s.AddBulk(ctx, inst.SearchType(), []schema.Instance{inst}); err != nil {
		return err
	}
	return nil
}

// AddBulk indexes a batch in a single write and returns the number of
// documents sent. The hierarchy root sentinel is skipped.
func (s *Service) AddBulk(ctx context.Context, typ *schema.Type, insts []schema.Instance) (int, error) {
	kept := make([]schema.Instance, 0, len(insts))
	for _, inst := range insts {
		if !isRoot(inst) {
			kept = append(kept, inst)
		}
	}
	if len(kept) == 0 {
		return 0, nil
	}
	docs := document.BuildAll(kept)

	if err := s.writer.SaveDocuments(ctx, s.index, docs); err != nil {
		return 0, fmt.Errorf("save documents: %w", err)
	}

	s.logger.Debug("Documents indexed",
		zap.String("index", s.index),
		zap.Stringer("type", typ),
		zap.Int("count", len(docs)),
	)
	return len(docs), nil
}

// Delete removes an instance's document.
func (s *Service) Delete(ctx context.Context, inst schema.Instance) error {
	if err := s.writer.DeleteDocument(ctx, s.index, document.ObjectID(inst)); err != nil {
		return fmt.Errorf("delete document: %w", err)
	}
	return nil
}

func isRoot(inst schema.Instance) bool {
	r, ok := inst.(schema.Rooted)
	return ok && r.IsRoot()
}
