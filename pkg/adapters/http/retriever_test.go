package http_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	adapter "github.com/aretw0/luckydraw/pkg/adapters/http"
	"github.com/aretw0/luckydraw/pkg/ports"
	contract "github.com/aretw0/luckydraw/pkg/ports/tests"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newResourceServer(t *testing.T, data map[string]string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		text, ok := data[strings.TrimPrefix(r.URL.Path, "/data/")]
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte(text))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestHTTPRetriever_Contract(t *testing.T) {
	data := map[string]string{
		"brands.txt":             "Asus\nMi\n",
		"brands/series_asus.txt": "ROG Phone\nZenfone\n",
	}
	srv := newResourceServer(t, data)

	r, err := adapter.NewRetriever(srv.URL + "/data")
	require.NoError(t, err)

	contract.RetrieverContractTest(t, r, data)
}

func TestHTTPRetriever_StatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	r, err := adapter.NewRetriever(srv.URL)
	require.NoError(t, err)

	_, err = r.Retrieve(context.Background(), "cpu.txt")
	require.Error(t, err)

	var statusErr *ports.StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusServiceUnavailable, statusErr.StatusCode())
	assert.False(t, errors.Is(err, ports.ErrResourceNotFound))
}

func TestHTTPRetriever_InvalidBaseURL(t *testing.T) {
	_, err := adapter.NewRetriever("ftp://example.com")
	assert.Error(t, err)
}

func TestHTTPRetriever_SizeLimit(t *testing.T) {
	const limit = 1 << 20
	line := "option-0000001\n"
	full := strings.Repeat("x", limit-len(line)) + line
	srv := newResourceServer(t, map[string]string{
		"fits.txt":     full,
		"oversize.txt": full + "option-0000002\n",
	})

	r, err := adapter.NewRetriever(srv.URL + "/data")
	require.NoError(t, err)

	text, err := r.Retrieve(context.Background(), "fits.txt")
	require.NoError(t, err)
	assert.Len(t, text, limit)

	_, err = r.Retrieve(context.Background(), "oversize.txt")
	require.ErrorIs(t, err, adapter.ErrResourceTooLarge)
	assert.False(t, errors.Is(err, ports.ErrResourceNotFound))
}
