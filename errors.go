package searchsync

import "github.com/kailas-cloud/searchsync/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrResolution          = domain.ErrResolution
	ErrMalformedIdentifier = domain.ErrMalformedIdentifier
	ErrFilterField         = domain.ErrFilterField
	ErrTransport           = domain.ErrTransport
	ErrInvalidSchema       = domain.ErrInvalidSchema
	ErrInvalidConfig       = domain.ErrInvalidConfig
)

// Typed errors. Use errors.As() to inspect.
type (
	ResolutionError          = domain.ResolutionError
	MalformedIdentifierError = domain.MalformedIdentifierError
	FilterFieldError         = domain.FilterFieldError
	TransportError           = domain.TransportError
)
