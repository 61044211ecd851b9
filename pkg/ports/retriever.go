package ports

import (
	"context"
	"errors"
	"fmt"
)

// ErrResourceNotFound is returned (wrapped) by retrievers when an identifier does not exist.
var ErrResourceNotFound = errors.New("resource not found")

// Retriever defines how the engine fetches the candidate text for a step.
// This allows the storage layer (filesystem, HTTP, Redis, memory) to be decoupled.
type Retriever interface {
	// Retrieve returns the text contents of the resource identified by id.
	// Any failure is treated by the engine as terminal for the current step.
	Retrieve(ctx context.Context, id string) (string, error)
}

// RetrieverFunc adapts a plain function to the Retriever interface.
type RetrieverFunc func(ctx context.Context, id string) (string, error)

// Retrieve calls f(ctx, id).
func (f RetrieverFunc) Retrieve(ctx context.Context, id string) (string, error) {
	return f(ctx, id)
}

// StatusError reports a non-success status from a remote retriever.
type StatusError struct {
	ID     string
	Status int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("resource %q: unexpected status %d", e.ID, e.Status)
}

// StatusCode returns the reported status.
func (e *StatusError) StatusCode() int {
	return e.Status
}

// Is lets errors.Is(err, ErrResourceNotFound) match a 404.
func (e *StatusError) Is(target error) bool {
	return target == ErrResourceNotFound && e.Status == 404
}
