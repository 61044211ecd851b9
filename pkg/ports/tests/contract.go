package tests

import (
	"context"
	"errors"
	"testing"

	"github.com/aretw0/luckydraw/pkg/ports"
)

// RetrieverContractTest is a reusable test suite that verifies if an adapter complies with ports.Retriever.
// setupData must already be reachable through the retriever under the same identifiers.
func RetrieverContractTest(t *testing.T, r ports.Retriever, setupData map[string]string) {
	t.Helper()
	ctx := context.Background()

	t.Run("Retrieve_Success", func(t *testing.T) {
		for id, expected := range setupData {
			content, err := r.Retrieve(ctx, id)
			if err != nil {
				t.Fatalf("unexpected error retrieving %s: %v", id, err)
			}
			if content != expected {
				t.Errorf("content mismatch for %s. got %q, want %q", id, content, expected)
			}
		}
	})

	t.Run("Retrieve_NotFound", func(t *testing.T) {
		_, err := r.Retrieve(ctx, "non-existent/resource.txt")
		if err == nil {
			t.Fatal("expected error for non-existent resource, got nil")
		}
		if !errors.Is(err, ports.ErrResourceNotFound) {
			t.Errorf("expected ErrResourceNotFound, got %v", err)
		}
	})

	t.Run("Retrieve_Idempotent", func(t *testing.T) {
		for id := range setupData {
			first, err1 := r.Retrieve(ctx, id)
			second, err2 := r.Retrieve(ctx, id)
			if err1 != nil || err2 != nil {
				t.Fatalf("unexpected errors: %v / %v", err1, err2)
			}
			if first != second {
				t.Errorf("repeated retrieve of %s differs: %q vs %q", id, first, second)
			}
		}
	})
}
