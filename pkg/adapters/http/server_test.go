package http_test

import (
	"bufio"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/aretw0/luckydraw/internal/presentation/report"
	"github.com/aretw0/luckydraw/internal/runtime"
	adapter "github.com/aretw0/luckydraw/pkg/adapters/http"
	"github.com/aretw0/luckydraw/pkg/adapters/memory"
	"github.com/aretw0/luckydraw/pkg/domain"
	"github.com/aretw0/luckydraw/pkg/ports"
	"github.com/aretw0/luckydraw/pkg/session"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testFlow() domain.Flow {
	return domain.Flow{
		Name: "phone",
		Steps: []domain.StepDefinition{
			domain.Static("Brand", "brands.txt"),
			domain.Dynamic("Series", "Brand", "brand_codes", domain.PathTemplate{Prefix: "series_"}),
		},
		Tables: map[string]domain.LookupTable{"brand_codes": {"Asus": "asus", "Mi": "mi"}},
	}
}

func newTestHandler(t *testing.T, data map[string]string, opts ...adapter.ServerOption) (http.Handler, *session.Manager) {
	t.Helper()
	flow := testFlow()
	retriever := memory.NewRetriever(data)
	first := ports.RandomizerFunc(func(int) int { return 0 })

	manager := session.NewManager(func() (session.Flow, error) {
		return runtime.NewEngine(flow, retriever, runtime.WithRandomizer(first))
	})
	opts = append([]adapter.ServerOption{adapter.WithSteps(flow.Steps), adapter.WithVersion("test")}, opts...)
	return adapter.NewHandler(manager, opts...), manager
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(w.Body).Decode(&v), w.Body.String())
	return v
}

func createSession(t *testing.T, h http.Handler) string {
	t.Helper()
	w := do(t, h, http.MethodPost, "/sessions", "")
	require.Equal(t, http.StatusCreated, w.Code)
	state := decode[adapter.StateResponse](t, w)
	require.NotEmpty(t, state.ID)
	assert.Equal(t, "/sessions/"+state.ID, w.Header().Get("Location"))
	return state.ID
}

func TestServer_FullFlow(t *testing.T) {
	h, _ := newTestHandler(t, map[string]string{
		"brands.txt":      "Asus\nMi\n",
		"series_asus.txt": "ROG Phone\nZenfone\n",
	})
	id := createSession(t, h)
	base := "/sessions/" + id

	w := do(t, h, http.MethodPost, base+"/load", "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	state := decode[adapter.StateResponse](t, w)
	assert.Equal(t, domain.PhaseReady, state.Phase)
	assert.Equal(t, "Brand", state.CurrentStep)
	assert.Equal(t, domain.OptionList{"Asus", "Mi"}, state.CurrentOptions)

	w = do(t, h, http.MethodPost, base+"/draw", "")
	require.Equal(t, http.StatusOK, w.Code)
	pick := decode[domain.PickResult](t, w)
	assert.Equal(t, "Asus", pick.Value)

	// A second trigger while the draw is in flight is ignored.
	w = do(t, h, http.MethodPost, base+"/draw", "")
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = do(t, h, http.MethodPost, base+"/commit", `{"value":"Asus"}`)
	require.Equal(t, http.StatusOK, w.Code)
	state = decode[adapter.StateResponse](t, w)
	assert.Equal(t, 1, state.Position)
	assert.Equal(t, "Series", state.CurrentStep)

	w = do(t, h, http.MethodPost, base+"/spin", "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	spin := decode[adapter.SpinResponse](t, w)
	assert.Equal(t, "ROG Phone", spin.Pick.Value)
	assert.True(t, spin.State.Complete)

	w = do(t, h, http.MethodGet, base+"/report", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Brand         : Asus\nSeries        : ROG Phone\n", w.Body.String())

	w = do(t, h, http.MethodGet, base+"/report?format=json", "")
	entries := decode[[]domain.Entry](t, w)
	assert.Len(t, entries, 2)

	w = do(t, h, http.MethodGet, base+"/report?format=markdown", "")
	assert.Contains(t, w.Body.String(), "- **Series:** ROG Phone")

	w = do(t, h, http.MethodPost, base+"/draw", "")
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestServer_HaltReportsStepAndResource(t *testing.T) {
	h, _ := newTestHandler(t, map[string]string{"brands.txt": "Asus\n"})
	id := createSession(t, h)
	base := "/sessions/" + id

	require.Equal(t, http.StatusOK, do(t, h, http.MethodPost, base+"/spin", "").Code)

	w := do(t, h, http.MethodPost, base+"/load", "")
	assert.Equal(t, http.StatusBadGateway, w.Code)
	body := decode[adapter.ErrorResponse](t, w)
	assert.Equal(t, "Series", body.Step)
	assert.Equal(t, "series_asus.txt", body.Resource)

	w = do(t, h, http.MethodGet, base, "")
	state := decode[adapter.StateResponse](t, w)
	assert.Equal(t, domain.PhaseHalted, state.Phase)
	require.NotNil(t, state.Halt)
	assert.Equal(t, "series_asus.txt", state.Halt.Resource)

	w = do(t, h, http.MethodPost, base+"/draw", "")
	assert.Equal(t, http.StatusConflict, w.Code)

	w = do(t, h, http.MethodGet, base+"/report", "")
	assert.Equal(t, "Brand         : Asus\nSeries        : unset\n", w.Body.String())

	w = do(t, h, http.MethodPost, base+"/reset", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, domain.PhaseIdle, decode[adapter.StateResponse](t, w).Phase)
}

func TestServer_LoadOutlivesClient(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	retriever := ports.RetrieverFunc(func(ctx context.Context, id string) (string, error) {
		close(started)
		<-release
		if err := ctx.Err(); err != nil {
			return "", err
		}
		return "Asus\nMi\n", nil
	})
	flow := domain.Flow{Steps: []domain.StepDefinition{domain.Static("Brand", "brands.txt")}}
	manager := session.NewManager(func() (session.Flow, error) {
		return runtime.NewEngine(flow, retriever)
	})
	h := adapter.NewHandler(manager, adapter.WithSteps(flow.Steps))
	id := createSession(t, h)

	ctx, cancel := context.WithCancel(context.Background())
	req := httptest.NewRequest(http.MethodPost, "/sessions/"+id+"/load", nil).WithContext(ctx)
	w := httptest.NewRecorder()
	done := make(chan struct{})
	go func() {
		defer close(done)
		h.ServeHTTP(w, req)
	}()

	<-started
	cancel()
	close(release)
	<-done

	state := decode[adapter.StateResponse](t, do(t, h, http.MethodGet, "/sessions/"+id, ""))
	assert.Equal(t, domain.PhaseReady, state.Phase)
	assert.Nil(t, state.Halt)
	assert.Equal(t, domain.OptionList{"Asus", "Mi"}, state.CurrentOptions)
}

func TestServer_Errors(t *testing.T) {
	h, _ := newTestHandler(t, map[string]string{"brands.txt": "Asus\n"})

	assert.Equal(t, http.StatusNotFound, do(t, h, http.MethodGet, "/sessions/nope", "").Code)
	assert.Equal(t, http.StatusNotFound, do(t, h, http.MethodPost, "/sessions/nope/draw", "").Code)
	assert.Equal(t, http.StatusNotFound, do(t, h, http.MethodDelete, "/sessions/nope", "").Code)

	id := createSession(t, h)
	base := "/sessions/" + id

	assert.Equal(t, http.StatusConflict, do(t, h, http.MethodPost, base+"/draw", "").Code)
	assert.Equal(t, http.StatusConflict, do(t, h, http.MethodPost, base+"/commit", `{"value":"Asus"}`).Code)
	assert.Equal(t, http.StatusBadRequest, do(t, h, http.MethodPost, base+"/commit", `{`).Code)

	require.Equal(t, http.StatusOK, do(t, h, http.MethodPost, base+"/load", "").Code)
	require.Equal(t, http.StatusOK, do(t, h, http.MethodPost, base+"/draw", "").Code)
	w := do(t, h, http.MethodPost, base+"/commit", `{"value":"Mi"}`)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, decode[adapter.ErrorResponse](t, w).Error, "Mi")

	assert.Equal(t, http.StatusNoContent, do(t, h, http.MethodDelete, base, "").Code)
	assert.Equal(t, http.StatusNotFound, do(t, h, http.MethodGet, base, "").Code)
}

func TestServer_Introspection(t *testing.T) {
	reg := prometheus.NewRegistry()
	counter := prometheus.NewCounter(prometheus.CounterOpts{Name: "luckydraw_test_total", Help: "test"})
	reg.MustRegister(counter)
	counter.Inc()

	h, _ := newTestHandler(t, nil,
		adapter.WithMetricsHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})),
		adapter.WithReportOptions(report.WithWidth(4)),
	)

	w := do(t, h, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())

	w = do(t, h, http.MethodGet, "/info", "")
	info := decode[map[string]any](t, w)
	assert.Equal(t, "test", info["version"])
	assert.Equal(t, float64(2), info["steps"])

	w = do(t, h, http.MethodGet, "/flow", "")
	steps := decode[[]domain.StepDefinition](t, w)
	assert.Equal(t, testFlow().Steps, steps)

	w = do(t, h, http.MethodGet, "/graph", "")
	assert.Contains(t, w.Body.String(), "graph TD")

	w = do(t, h, http.MethodGet, "/metrics", "")
	assert.Contains(t, w.Body.String(), "luckydraw_test_total 1")

	w = do(t, h, http.MethodOptions, "/sessions", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestServer_ListSessions(t *testing.T) {
	h, manager := newTestHandler(t, nil)
	createSession(t, h)
	createSession(t, h)

	w := do(t, h, http.MethodGet, "/sessions", "")
	list := decode[[]session.Info](t, w)
	assert.Len(t, list, 2)
	assert.Equal(t, 2, manager.Len())
}

func TestServer_SessionEvents(t *testing.T) {
	h, _ := newTestHandler(t, map[string]string{"brands.txt": "Asus\n"})
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	id := createSession(t, h)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/sessions/"+id+"/events", nil)
	require.NoError(t, err)
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	lines := bufio.NewScanner(resp.Body)
	require.True(t, lines.Scan())
	assert.Equal(t, "event: ping", lines.Text())

	loadResp, err := srv.Client().Post(srv.URL+"/sessions/"+id+"/load", "application/json", nil)
	require.NoError(t, err)
	loadResp.Body.Close()

	for lines.Scan() {
		line := lines.Text()
		if !strings.HasPrefix(line, "data: {") {
			continue
		}
		var ev adapter.Event
		require.NoError(t, json.Unmarshal([]byte(strings.TrimPrefix(line, "data: ")), &ev))
		assert.Equal(t, "load", ev.Type)
		assert.Equal(t, domain.PhaseReady, ev.State.Phase)
		return
	}
	t.Fatal("no event received")
}

func TestStreamManager(t *testing.T) {
	sm := adapter.NewStreamManager()

	ch, unsubscribe := sm.Subscribe("s1")
	assert.Equal(t, 1, sm.Subscribers("s1"))

	sm.Broadcast("s1", "hello")
	sm.Broadcast("s2", "ignored")
	assert.Equal(t, "hello", <-ch)

	sm.Close("s1")
	_, ok := <-ch
	assert.False(t, ok)
	assert.Equal(t, 0, sm.Subscribers("s1"))

	assert.NotPanics(t, unsubscribe)
}
