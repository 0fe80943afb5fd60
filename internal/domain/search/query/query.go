package query

import "github.com/kailas-cloud/searchsync/internal/domain/document"

// ManagedFilter restricts results to documents written by this adapter.
const ManagedFilter = document.KeyManaged + ":true"

// Params are the fixed request parameters sent with every query.
type Params struct {
	Filters               string   `json:"filters"`
	AttributesToRetrieve  []string `json:"attributesToRetrieve"`
	AttributesToHighlight []string `json:"attributesToHighlight"`
}

// Compile turns a user query into the text and parameters sent to the service.
// Only identifiers are retrieved; highlighting is disabled.
func Compile(q string) (string, Params) {
	return q, Params{
		Filters:               ManagedFilter,
		AttributesToRetrieve:  []string{document.KeyObjectID},
		AttributesToHighlight: []string{},
	}
}

// Hit is one raw result record.
type Hit map[string]any

// ObjectID returns the hit's objectID when it is a string.
func (h Hit) ObjectID() (string, bool) {
	id, ok := h[document.KeyObjectID].(string)
	return id, ok
}

// Response is the search service's answer to a query.
type Response struct {
	Hits        []Hit                     `json:"hits"`
	NbHits      int                       `json:"nbHits"`
	Page        int                       `json:"page"`
	NbPages     int                       `json:"nbPages"`
	HitsPerPage int                       `json:"hitsPerPage"`
	Facets      map[string]map[string]int `json:"facets,omitempty"`
}
