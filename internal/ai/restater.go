package ai

import (
	"context"
	"errors"
	"strings"
)

// ErrNotAccepted is returned when a rewritten expression still does not parse
var ErrNotAccepted = errors.New("restated expression does not parse")

// Restater rewrites free-text date expressions into a shape the historic
// parser accepts
type Restater interface {
	// Restate rewrites a single expression
	Restate(ctx context.Context, expression string) (string, error)

	// RestateBatch rewrites many expressions in a single request
	// Returns a map of original expression -> rewritten expression holding
	// only the rewrites that parse
	RestateBatch(ctx context.Context, expressions []string) (map[string]string, error)
}

// NoopRestater provides a fallback implementation that returns expressions unchanged
type NoopRestater struct{}

// NewNoopRestater creates a new no-op restater
func NewNoopRestater() *NoopRestater {
	return &NoopRestater{}
}

// Restate returns the trimmed expression
func (n *NoopRestater) Restate(_ context.Context, expression string) (string, error) {
	return strings.TrimSpace(expression), nil
}

// RestateBatch returns an empty map since nothing was rewritten
func (n *NoopRestater) RestateBatch(_ context.Context, _ []string) (map[string]string, error) {
	return map[string]string{}, nil
}
