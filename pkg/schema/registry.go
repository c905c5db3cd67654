package schema

import (
	"errors"
	"fmt"
	"sort"
)

// ErrUnknownDocumentType is returned when a document type is not registered.
var ErrUnknownDocumentType = errors.New("unknown document type")

// Registry holds the registered document schemas. It is read-only after
// construction and safe for concurrent use; callers receive it by explicit
// injection, never through package globals.
type Registry struct {
	schemas map[string]*DocumentSchema
}

// NewRegistry builds the registry with the built-in document types.
func NewRegistry() *Registry {
	r := &Registry{schemas: make(map[string]*DocumentSchema)}
	for _, s := range builtinSchemas() {
		r.schemas[s.Type] = s
	}
	return r
}

// Get resolves a document type to its schema.
func (r *Registry) Get(documentType string) (*DocumentSchema, error) {
	s, ok := r.schemas[documentType]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownDocumentType, documentType)
	}
	return s, nil
}

// Types lists the registered document types, sorted for stable output.
func (r *Registry) Types() []string {
	types := make([]string, 0, len(r.schemas))
	for t := range r.schemas {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}
