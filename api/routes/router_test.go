package routes

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/storefront/api/controllers"
	"github.com/angelmondragon/storefront/internal/app"
	"github.com/angelmondragon/storefront/pkg/config"
	"github.com/angelmondragon/storefront/pkg/metrics"
	"github.com/angelmondragon/storefront/pkg/session"
	"github.com/angelmondragon/storefront/pkg/supabase"
)

type stubPinger struct{ err error }

func (p stubPinger) Ping(context.Context) error { return p.err }

// fakeBackend serves the handful of tables the router tests touch.
func fakeBackend(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/rest/v1/categories":
			_, _ = w.Write([]byte(`[{"id":"1","title":"Ramen"}]`))
		case "/rest/v1/products":
			_, _ = w.Write([]byte(`[{"id":"10","title":"Shoyu","cost":100,"category_id":"1"}]`))
		case "/cart":
			if r.URL.Query().Get("user_id") != "eq.user-1" || r.Header.Get("Authorization") != "Bearer access-1" {
				w.WriteHeader(http.StatusUnauthorized)
				_, _ = w.Write([]byte(`{"message":"JWT expired"}`))
				return
			}
			_, _ = w.Write([]byte(`[{"id":5,"user_id":"user-1","product_id":"10","count":2}]`))
		default:
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"message":"no route"}`))
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func testConfig(backendURL string) *config.Config {
	return &config.Config{
		App:     config.AppConfig{Env: "test", CORSOrigins: []string{"http://localhost:3000"}},
		Backend: config.BackendConfig{URL: backendURL, APIKey: "anon-key", Timeout: 5 * time.Second},
		Session: config.SessionConfig{Store: config.SessionStoreMemory, TTL: time.Hour},
		Shop: config.ShopConfig{
			DeliveryFee:       "60.20",
			ResetCooldown:     time.Minute,
			RecentWindow:      time.Hour,
			MinPasswordLength: 6,
		},
		RateLimit: config.RateLimitConfig{Window: time.Minute, IPLimit: 20, EmailLimit: 5},
	}
}

func newTestRouter(t *testing.T, checks map[string]controllers.Pinger) (http.Handler, *session.MemoryStore) {
	t.Helper()
	srv := fakeBackend(t)
	cfg := testConfig(srv.URL)

	registry := prometheus.NewRegistry()
	backend, err := supabase.NewClient(cfg.Backend.URL, cfg.Backend.APIKey, supabase.WithMetrics(metrics.NewBackendMetrics(registry)))
	require.NoError(t, err)

	store := session.NewMemoryStore(cfg.Session.TTL)
	services, err := app.NewServices(app.Params{Config: cfg, Backend: backend, Sessions: store})
	require.NoError(t, err)

	infra := Infra{Sessions: store, Gatherer: registry, Checks: checks}
	return NewRouter(cfg, nil, infra, services), store
}

func TestHealthLive(t *testing.T) {
	router, _ := newTestRouter(t, nil)

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/health/live", nil))

	require.Equal(t, http.StatusOK, resp.Code)
	require.Equal(t, "test", resp.Header().Get("X-Storefront-Env"))
}

func TestHealthReadyReportsFailedDependency(t *testing.T) {
	router, _ := newTestRouter(t, map[string]controllers.Pinger{
		"backend": stubPinger{},
		"redis":   stubPinger{err: context.DeadlineExceeded},
	})

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/health/ready", nil))

	require.Equal(t, http.StatusServiceUnavailable, resp.Code)
	require.Contains(t, resp.Body.String(), "redis")
}

func TestMetricsExposeBackendCalls(t *testing.T) {
	router, _ := newTestRouter(t, nil)

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/v1/catalog/categories", nil))
	require.Equal(t, http.StatusOK, resp.Code)

	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, resp.Code)
	require.Contains(t, resp.Body.String(), "backend_requests_total")
}

func TestCatalogIsPublic(t *testing.T) {
	router, _ := newTestRouter(t, nil)

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/v1/catalog/categories", nil))

	require.Equal(t, http.StatusOK, resp.Code)
	require.Contains(t, resp.Body.String(), "Ramen")
}

func TestCartRequiresSession(t *testing.T) {
	router, _ := newTestRouter(t, nil)

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil))

	require.Equal(t, http.StatusUnauthorized, resp.Code)
}

func TestCartWithSession(t *testing.T) {
	router, store := newTestRouter(t, nil)
	sess := session.New("user-1", "shopper@example.com", "access-1", time.Now().Add(time.Hour))
	require.NoError(t, store.Save(context.Background(), sess))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	req.Header.Set("Authorization", "Bearer "+sess.ID)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	require.Equal(t, http.StatusOK, resp.Code)

	var envelope struct {
		Data struct {
			Lines   []json.RawMessage `json:"lines"`
			Summary struct {
				Items    int    `json:"items"`
				Subtotal string `json:"subtotal"`
				Total    string `json:"total"`
			} `json:"summary"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	require.Len(t, envelope.Data.Lines, 1)
	require.Equal(t, "200", envelope.Data.Summary.Subtotal)
	require.Equal(t, "260.2", envelope.Data.Summary.Total)
}

func TestCORSPreflight(t *testing.T) {
	router, _ := newTestRouter(t, nil)

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/cart", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	require.Equal(t, "http://localhost:3000", resp.Header().Get("Access-Control-Allow-Origin"))
	require.True(t, strings.Contains(resp.Header().Get("Access-Control-Allow-Methods"), http.MethodGet))
}
