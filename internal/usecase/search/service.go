package search

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/kailas-cloud/searchsync/internal/domain"
	"github.com/kailas-cloud/searchsync/internal/domain/document"
	"github.com/kailas-cloud/searchsync/internal/domain/schema"
	"github.com/kailas-cloud/searchsync/internal/domain/search/query"
)

// Reasons a hit is dropped during reconciliation.
const (
	SkipMalformed  = "malformed_id"
	SkipUnresolved = "unknown_type"
	SkipOtherType  = "type_mismatch"
	SkipDuplicate  = "duplicate"
)

// Service creates search result sets over one index.
type Service struct {
	searcher Searcher
	store    ObjectStore
	types    Resolver
	index    string
	skips    SkipRecorder
	logger   *zap.Logger
}

// New creates a search service. skips and logger can be nil.
func New(
	searcher Searcher, store ObjectStore, types Resolver,
	index string, skips SkipRecorder, logger *zap.Logger,
) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		searcher: searcher,
		store:    store,
		types:    types,
		index:    index,
		skips:    skips,
		logger:   logger,
	}
}

// Search returns a lazy result set. No request is made until it is read.
func (s *Service) Search(q string, c schema.Collection) *Results {
	return &Results{svc: s, query: q, collection: c}
}

// reconcile keeps the ids of hits whose type is within want, in hit order.
func (s *Service) reconcile(hits []query.Hit, want *schema.Type) (ids []string, pos map[string]int) {
	pos = make(map[string]int, len(hits))
	for _, hit := range hits {
		id, reason, err := s.admit(hit, want)
		if reason == "" {
			if _, dup := pos[id]; dup {
				reason = SkipDuplicate
			}
		}
		if reason != "" {
			s.skip(hit, reason, err)
			continue
		}
		pos[id] = len(ids)
		ids = append(ids, id)
	}
	return ids, pos
}

func (s *Service) admit(hit query.Hit, want *schema.Type) (id, reason string, err error) {
	objectID, ok := hit.ObjectID()
	if !ok {
		return "", SkipMalformed, &domain.MalformedIdentifierError{ObjectID: fmt.Sprint(hit[document.KeyObjectID])}
	}
	typeName, id, err := document.ParseObjectID(objectID)
	if err != nil {
		return "", SkipMalformed, err
	}
	t, err := s.types.Resolve(typeName)
	if err != nil {
		return "", SkipUnresolved, err
	}
	if !t.IsSubtypeOf(want) {
		return "", SkipOtherType, nil
	}
	return id, "", nil
}

func (s *Service) skip(hit query.Hit, reason string, err error) {
	if s.skips != nil {
		s.skips.SkipHit(reason)
	}
	fields := []zap.Field{
		zap.Any("object_id", hit[document.KeyObjectID]),
		zap.String("reason", reason),
	}
	if err != nil {
		fields = append(fields, zap.Error(err))
	}
	s.logger.Debug("Search hit skipped", fields...)
}
