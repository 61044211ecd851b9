package http

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/aretw0/luckydraw/pkg/ports"
)

// DefaultRetrieverTimeout bounds a single resource fetch.
const DefaultRetrieverTimeout = 10 * time.Second

// maxResourceSize caps the body read from a remote resource (1 MiB).
const maxResourceSize = 1 << 20

// ErrResourceTooLarge is returned (wrapped) when a body exceeds 1 MiB.
var ErrResourceTooLarge = errors.New("resource too large")

// Retriever implements ports.Retriever by fetching resources over HTTP,
// relative to a base URL (e.g. the static site that hosts the text files).
type Retriever struct {
	base   *url.URL
	client *http.Client
}

// RetrieverOption configures the Retriever.
type RetrieverOption func(*Retriever)

// WithHTTPClient replaces the default client.
func WithHTTPClient(c *http.Client) RetrieverOption {
	return func(r *Retriever) {
		r.client = c
	}
}

// NewRetriever creates a Retriever for the given base URL.
func NewRetriever(baseURL string, opts ...RetrieverOption) (*Retriever, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid base url %q: scheme must be http or https", baseURL)
	}
	if !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}

	r := &Retriever{
		base:   u,
		client: &http.Client{Timeout: DefaultRetrieverTimeout},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Retrieve GETs baseURL/id. Any non-2xx status is reported as *ports.StatusError.
func (r *Retriever) Retrieve(ctx context.Context, id string) (string, error) {
	ref, err := url.Parse(strings.TrimPrefix(id, "/"))
	if err != nil {
		return "", fmt.Errorf("invalid resource identifier %q: %w", id, err)
	}
	target := r.base.ResolveReference(ref)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target.String(), nil)
	if err != nil {
		return "", fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "text/plain")

	resp, err := r.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch %s: %w", id, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxResourceSize))
		return "", &ports.StatusError{ID: id, Status: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResourceSize+1))
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", id, err)
	}
	if len(body) > maxResourceSize {
		return "", fmt.Errorf("failed to read %s: %w", id, ErrResourceTooLarge)
	}
	return string(body), nil
}
