package settings

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/kailas-cloud/searchsync/internal/domain/schema"
	domset "github.com/kailas-cloud/searchsync/internal/domain/settings"
)

// Service keeps the index settings in sync with the registered types.
type Service struct {
	writer   Writer
	index    string
	base     map[string]any
	registry *schema.Registry
	logger   *zap.Logger
}

// New creates a settings service. base is never mutated.
func New(writer Writer, index string, base map[string]any, registry *schema.Registry, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{writer: writer, index: index, base: base, registry: registry, logger: logger}
}

// Compute returns the settings that Sync would push.
func (s *Service) Compute() domset.Settings {
	return domset.Compute(s.base, s.registry.Types())
}

// Sync pushes the computed settings to the index.
func (s *Service) Sync(ctx context.Context) error {
	settings := s.Compute()
	if err := s.writer.SetSettings(ctx, s.index, settings); err != nil {
		return fmt.Errorf("set settings: %w", err)
	}
	s.logger.Info("Index settings updated",
		zap.String("index", s.index),
		zap.Int("facet_attributes", len(settings.Faceting())),
	)
	return nil
}
