package services

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	// ErrItemNotFound is returned when a replacement targets an id the catalog does not hold.
	ErrItemNotFound = errors.New("menu item not found")
	// ErrSessionClosed is returned by Dispatch after Close.
	ErrSessionClosed = errors.New("session closed")
	// ErrUnknownIntent is returned for intent types the engine does not handle.
	ErrUnknownIntent = errors.New("unknown intent")
)

// ValidationError lists rejected draft fields with a human readable reason per field.
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
	return "invalid menu item: " + strings.Join(parts, "; ")
}

func (e *ValidationError) add(field, reason string) {
	if e.Fields == nil {
		e.Fields = make(map[string]string)
	}
	if _, ok := e.Fields[field]; !ok {
		e.Fields[field] = reason
	}
}

func isNotFound(err error) bool { return errors.Is(err, ErrItemNotFound) }
