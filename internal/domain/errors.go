package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrResolution signals a type name that is not in the registry.
	ErrResolution = errors.New("type resolution failed")
	// ErrMalformedIdentifier signals an objectID that is not "<type>:<id>".
	ErrMalformedIdentifier = errors.New("malformed object identifier")
	// ErrFilterField signals a facet over a field that is not a filter field.
	ErrFilterField = errors.New("field is not a filter field")
	// ErrTransport signals a failure reported by the search service client.
	ErrTransport = errors.New("search transport failure")
	// ErrInvalidSchema signals an invalid type or field declaration.
	ErrInvalidSchema = errors.New("invalid schema")
	// ErrInvalidConfig signals an invalid backend configuration.
	ErrInvalidConfig = errors.New("invalid configuration")
)

// ResolutionError wraps ErrResolution with the unresolved name.
type ResolutionError struct {
	Name string
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("%s: unknown type %q", ErrResolution.Error(), e.Name)
}

func (e *ResolutionError) Unwrap() error { return ErrResolution }

// MalformedIdentifierError wraps ErrMalformedIdentifier with the offending objectID.
type MalformedIdentifierError struct {
	ObjectID string
}

func (e *MalformedIdentifierError) Error() string {
	return fmt.Sprintf("%s: %q", ErrMalformedIdentifier.Error(), e.ObjectID)
}

func (e *MalformedIdentifierError) Unwrap() error { return ErrMalformedIdentifier }

// FilterFieldError is returned when faceting on a field that is not declared
// as a filter field on the searched type or its ancestors.
type FilterFieldError struct {
	Field string
	Type  string
}

func (e *FilterFieldError) Error() string {
	return fmt.Sprintf("cannot facet search results with field %q: declare a filter field %q on %s",
		e.Field, e.Field, e.Type)
}

func (e *FilterFieldError) Unwrap() error { return ErrFilterField }

// TransportError tags a search service failure with the operation that caused it.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return "transport " + e.Op + ": " + e.Err.Error()
}

// Unwrap exposes both ErrTransport and the underlying cause to errors.Is/As.
func (e *TransportError) Unwrap() []error { return []error{ErrTransport, e.Err} }

// NewTransportError wraps err; nil stays nil.
func NewTransportError(op string, err error) error {
	if err == nil {
		return nil
	}
	var te *TransportError
	if errors.As(err, &te) {
		return err
	}
	return &TransportError{Op: op, Err: err}
}
