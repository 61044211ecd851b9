package redis

import (
	"context"
	"errors"
	"fmt"

	"github.com/aretw0/luckydraw/pkg/ports"
	backend "github.com/redis/go-redis/v9"
)

// DefaultPrefix namespaces resource keys.
const DefaultPrefix = "luckydraw:resource:"

// Retriever implements ports.Retriever by reading resource texts stored as Redis strings.
type Retriever struct {
	client *backend.Client
	prefix string
}

type Option func(*Retriever)

// WithPrefix sets the key prefix for resources.
func WithPrefix(prefix string) Option {
	return func(r *Retriever) {
		r.prefix = prefix
	}
}

// New creates a new Redis retriever with options.
func New(address, password string, db int, opts ...Option) *Retriever {
	rdb := backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})
	return NewFromClient(rdb, opts...)
}

// NewFromClient creates a new Redis retriever from an existing client.
func NewFromClient(client *backend.Client, opts ...Option) *Retriever {
	r := &Retriever{
		client: client,
		prefix: DefaultPrefix,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Retriever) key(id string) string {
	return r.prefix + id
}

// Retrieve returns the text stored under prefix+id.
func (r *Retriever) Retrieve(ctx context.Context, id string) (string, error) {
	val, err := r.client.Get(ctx, r.key(id)).Result()
	if err != nil {
		if errors.Is(err, backend.Nil) {
			return "", fmt.Errorf("%w: %s", ports.ErrResourceNotFound, id)
		}
		return "", fmt.Errorf("failed to get from redis: %w", err)
	}
	return val, nil
}

// Publish stores a resource text, so a data set can be seeded into Redis.
func (r *Retriever) Publish(ctx context.Context, id, text string) error {
	if err := r.client.Set(ctx, r.key(id), text, 0).Err(); err != nil {
		return fmt.Errorf("failed to publish %s: %w", id, err)
	}
	return nil
}

// Close closes the redis client.
func (r *Retriever) Close() error {
	return r.client.Close()
}
