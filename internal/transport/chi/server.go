package chi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/kailas-cloud/searchsync/internal/domain"
	"github.com/kailas-cloud/searchsync/internal/domain/document"
	"github.com/kailas-cloud/searchsync/internal/domain/schema"
	logpkg "github.com/kailas-cloud/searchsync/internal/logger"
	healthuc "github.com/kailas-cloud/searchsync/internal/usecase/health"
	searchuc "github.com/kailas-cloud/searchsync/internal/usecase/search"
)

// Error codes returned in ErrorResponse.
const (
	CodeBadRequest        = "bad_request"
	CodeValidationFailed  = "validation_failed"
	CodeUnauthorized      = "unauthorized"
	CodeForbidden         = "forbidden"
	CodeUnknownType       = "unknown_type"
	CodeInvalidFacet      = "invalid_facet"
	CodeSearchUnavailable = "search_unavailable"
	CodeInternalError     = "internal_error"
)

// Searcher creates lazy result sets.
type Searcher interface {
	Search(q string, c schema.Collection) *searchuc.Results
}

// Resolver maps a qualified type name to a registered type.
type Resolver interface {
	Resolve(name string) (*schema.Type, error)
}

// Reindexer rebuilds the whole index and returns the number of documents sent.
type Reindexer interface {
	Reindex(ctx context.Context) (int, error)
}

// ErrorResponse is the JSON body of every non-2xx response.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// SearchResponse is the body of GET /v1/search.
type SearchResponse struct {
	Query  string                  `json:"query"`
	Type   string                  `json:"type"`
	Total  int                     `json:"total"`
	Count  int                     `json:"count"`
	Items  []SearchItem            `json:"items"`
	Facets map[string][]FacetValue `json:"facets,omitempty"`
}

// SearchItem is one reconciled object, rendered as its index document.
type SearchItem struct {
	ObjectID string            `json:"object_id"`
	Type     string            `json:"type"`
	ID       string            `json:"id"`
	Document document.Document `json:"document"`
}

// FacetValue is one facet bucket.
type FacetValue struct {
	Value any `json:"value"`
	Count int `json:"count"`
}

// RebuildResponse is the body of POST /v1/rebuild.
type RebuildResponse struct {
	Documents int `json:"documents"`
}

// HealthResponse is the body of GET /healthz.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error) bool

// Server serves the search HTTP API.
type Server struct {
	search        Searcher
	types         Resolver
	reindex       Reindexer
	health        *healthuc.Service
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server. reindex can be nil to disable POST /v1/rebuild.
func NewServer(
	search Searcher,
	types Resolver,
	reindex Reindexer,
	health *healthuc.Service,
	logger *zap.Logger,
) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		search:  search,
		types:   types,
		reindex: reindex,
		health:  health,
		logger:  logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrResolution, http.StatusBadRequest, CodeUnknownType, true),
		sentinelHandler(domain.ErrFilterField, http.StatusBadRequest, CodeInvalidFacet, true),
		sentinelHandler(domain.ErrTransport, http.StatusBadGateway, CodeSearchUnavailable, false),
	}
	return s
}

// Search handles GET /v1/search?q=&type=&facet=.
func (s *Server) Search(w http.ResponseWriter, r *http.Request) {
	params := r.URL.Query()
	typeName := params.Get("type")
	if typeName == "" {
		writeError(w, http.StatusBadRequest, CodeValidationFailed, "type is required")
		return
	}

	t, err := s.types.Resolve(typeName)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	ctx := r.Context()
	res := s.search.Search(params.Get("q"), schema.All(t))

	// Validate facets before the first search request.
	facetFields := params["facet"]
	for _, f := range facetFields {
		if _, ok := t.FilterField(f); !ok {
			s.handleDomainError(w, r, &domain.FilterFieldError{Field: f, Type: t.QualifiedName()})
			return
		}
	}

	insts, err := res.Results(ctx)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	total, err := res.Total(ctx)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	resp := SearchResponse{
		Query: res.Query(),
		Type:  t.QualifiedName(),
		Total: total,
		Count: len(insts),
		Items: make([]SearchItem, len(insts)),
	}
	for i, inst := range insts {
		resp.Items[i] = SearchItem{
			ObjectID: document.ObjectID(inst),
			Type:     inst.SearchType().QualifiedName(),
			ID:       inst.SearchID(),
			Document: document.Build(inst),
		}
	}

	if len(facetFields) > 0 {
		resp.Facets = make(map[string][]FacetValue, len(facetFields))
		for _, f := range facetFields {
			counts, err := res.Facet(ctx, f)
			if err != nil {
				s.handleDomainError(w, r, err)
				return
			}
			values := make([]FacetValue, len(counts))
			for i, c := range counts {
				values[i] = FacetValue{Value: c.Value, Count: c.Count}
			}
			resp.Facets[f] = values
		}
	}

	writeJSON(w, http.StatusOK, resp)
}

// Rebuild handles POST /v1/rebuild.
func (s *Server) Rebuild(w http.ResponseWriter, r *http.Request) {
	if s.reindex == nil {
		writeError(w, http.StatusNotFound, CodeBadRequest, "rebuild is not enabled")
		return
	}
	n, err := s.reindex.Reindex(r.Context())
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, RebuildResponse{Documents: n})
}

// HealthCheck handles GET /healthz.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status == healthuc.Unhealthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, HealthResponse{
		Status: string(report.Status),
		Checks: checks,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, ErrorResponse{
		Code:    code,
		Message: message,
	})
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
// detailed errors carry caller input only and are returned verbatim.
func sentinelHandler(sentinel error, status int, code string, detailed bool) errorHandler {
	return func(w http.ResponseWriter, err error) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		msg := sentinel.Error()
		if detailed {
			msg = detail(err, sentinel)
		}
		writeError(w, status, code, msg)
		return true
	}
}

// detail returns the message of the typed error wrapping sentinel.
func detail(err, sentinel error) string {
	var (
		re *domain.ResolutionError
		fe *domain.FilterFieldError
	)
	switch {
	case errors.As(err, &re):
		return re.Error()
	case errors.As(err, &fe):
		return fe.Error()
	default:
		return sentinel.Error()
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, r *http.Request, err error) {
	logger := logpkg.FromContext(r.Context(), s.logger)
	logger.Warn("domain error", zap.Error(err))
	for _, h := range s.errorHandlers {
		if h(w, err) {
			return
		}
	}
	logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, CodeInternalError, "internal error")
}
