package ctxutil

import (
	"context"
	"testing"
)

func TestGenerationID(t *testing.T) {
	ctx := context.Background()
	if got := GenerationIDFromContext(ctx); got != "" {
		t.Errorf("expected empty generation id, got %q", got)
	}

	ctx = WithGenerationID(ctx, "0b6e1c1e")
	if got := GenerationIDFromContext(ctx); got != "0b6e1c1e" {
		t.Errorf("GenerationIDFromContext() = %q, want %q", got, "0b6e1c1e")
	}
}
