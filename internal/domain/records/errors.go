package records

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrMalformedBody      = errors.New("malformed json body")
	ErrStorageUnavailable = errors.New("storage unavailable")
)

// ValidationError lista los campos rechazados (campo -> motivo).
// errors.Is(err, ErrInvalidInput) es true.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, e.Fields[k]))
	}
	return "invalid input: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Unwrap() error { return ErrInvalidInput }

func (e *ValidationError) add(field, reason string) {
	if e.Fields == nil {
		e.Fields = map[string]string{}
	}
	if _, exists := e.Fields[field]; !exists {
		e.Fields[field] = reason
	}
}

func (e *ValidationError) orNil() error {
	if e == nil || len(e.Fields) == 0 {
		return nil
	}
	return e
}
