package router

import (
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/clinical-data-api/internal/config"
	"github.com/yukikurage/clinical-data-api/internal/contract"
	"github.com/yukikurage/clinical-data-api/internal/storage"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

func testConfig() *config.Config {
	return &config.Config{
		GinMode:       gin.TestMode,
		StorageDriver: config.DriverMemory,
		SessionSecret: "test-secret",
		FileBaseURL:   "https://files.example.com",
	}
}

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()

	cfg := testConfig()
	sessionStore, err := NewSessionStore(cfg)
	require.NoError(t, err)

	r, err := New(cfg, storage.NewMemStorage(), sessionStore)
	require.NoError(t, err)
	return r
}

func TestNew_RegistersEveryContractRoute(t *testing.T) {
	r := newTestRouter(t)

	registered := map[string]bool{}
	for _, info := range r.Routes() {
		registered[info.Method+" "+info.Path] = true
	}
	for _, route := range contract.Routes() {
		assert.True(t, registered[route.Method+" "+route.Path], "missing %s %s", route.Method, route.Path)
	}
}

func TestHealth(t *testing.T) {
	r := newTestRouter(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok","message":"Clinical Data API is running"}`, w.Body.String())
}

func TestMetricsEndpoint(t *testing.T) {
	r := newTestRouter(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/models", nil))
	require.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.Contains(w.Body.String(), `clinical_http_requests_total{method="GET",path="/api/models",status="200"}`))
}

func TestUnknownRoute(t *testing.T) {
	r := newTestRouter(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/nothing", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestMeRequiresSession(t *testing.T) {
	r := newTestRouter(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/auth/me", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestNewSessionStore_Cookie(t *testing.T) {
	store, err := NewSessionStore(testConfig())
	require.NoError(t, err)
	assert.NotNil(t, store)
}
