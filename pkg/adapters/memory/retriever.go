package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/aretw0/luckydraw/pkg/ports"
)

// Retriever implements ports.Retriever using an in-memory map.
// Safe for concurrent use.
type Retriever struct {
	mu        sync.RWMutex
	resources map[string]string
}

// NewRetriever creates a new in-memory Retriever with the provided resources.
func NewRetriever(resources map[string]string) *Retriever {
	data := make(map[string]string, len(resources))
	for k, v := range resources {
		data[k] = v
	}
	return &Retriever{resources: data}
}

// Retrieve returns the text stored under id.
func (r *Retriever) Retrieve(ctx context.Context, id string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	text, ok := r.resources[id]
	if !ok {
		return "", fmt.Errorf("%w: %s", ports.ErrResourceNotFound, id)
	}
	return text, nil
}

// Put stores or replaces a resource.
func (r *Retriever) Put(id, text string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.resources[id] = text
}

// IDs returns all stored identifiers in deterministic order.
func (r *Retriever) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]string, 0, len(r.resources))
	for id := range r.resources {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
