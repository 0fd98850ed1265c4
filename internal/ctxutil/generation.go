// Package ctxutil provides context utilities that can be safely imported anywhere.
// This package has no internal dependencies to avoid import cycles.
package ctxutil

import "context"

// GenerationKey is the context key for the generation ID of one
// create or regenerate run.
type GenerationKey struct{}

// WithGenerationID returns a context with the generation ID embedded.
func WithGenerationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, GenerationKey{}, id)
}

// GenerationIDFromContext returns the generation ID from context, or empty
// string if not set.
func GenerationIDFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(GenerationKey{}).(string); ok {
		return v
	}
	return ""
}
