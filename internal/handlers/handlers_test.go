package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/clinical-data-api/internal/auth"
	"github.com/yukikurage/clinical-data-api/internal/constants"
	"github.com/yukikurage/clinical-data-api/internal/contract"
	"github.com/yukikurage/clinical-data-api/internal/middleware"
	"github.com/yukikurage/clinical-data-api/internal/models"
	"github.com/yukikurage/clinical-data-api/internal/services"
	"github.com/yukikurage/clinical-data-api/internal/storage"
	"golang.org/x/crypto/bcrypt"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	auth.Cost = bcrypt.MinCost
	os.Exit(m.Run())
}

type handlerTestEnv struct {
	ctx   context.Context
	store *storage.MemStorage
	audit *services.AuditService
	r     *gin.Engine
}

func setupHandlerTestEnv(t *testing.T) handlerTestEnv {
	t.Helper()
	return setupHandlerTestEnvWithSessions(t, cookie.NewStore([]byte("secret")))
}

func setupHandlerTestEnvWithSessions(t *testing.T, sessionStore sessions.Store) handlerTestEnv {
	t.Helper()

	ctx := context.Background()
	store := storage.NewMemStorage()
	require.NoError(t, storage.Seed(ctx, store))

	audit := services.NewAuditService(store)
	h := New(
		services.NewAuthService(store, audit),
		services.NewUserService(store, audit),
		services.NewDatasetService(store, audit, "https://files.example.com"),
		services.NewModelService(store, audit),
		audit,
	)

	r := gin.New()
	r.Use(sessions.Sessions(constants.SessionCookieName, sessionStore))
	r.Use(middleware.LoadSession())

	bindings := h.Bindings()
	for _, route := range contract.Routes() {
		handler, ok := bindings[route.Name]
		require.True(t, ok, "no handler for %s", route.Name)
		if route.Name == contract.AuthMe.Name {
			r.Handle(route.Method, route.Path, middleware.RequireAuth(), handler)
			continue
		}
		r.Handle(route.Method, route.Path, handler)
	}

	return handlerTestEnv{ctx: ctx, store: store, audit: audit, r: r}
}

func (env handlerTestEnv) do(t *testing.T, method, path string, body any, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}

	w := httptest.NewRecorder()
	env.r.ServeHTTP(w, req)
	return w
}

// login signs in with the seeded password and returns the session cookies.
func (env handlerTestEnv) login(t *testing.T, username string) []*http.Cookie {
	t.Helper()

	w := env.do(t, http.MethodPost, "/api/auth/login", map[string]string{
		"username": username,
		"password": "password123",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	return w.Result().Cookies()
}

func (env handlerTestEnv) auditLogs(t *testing.T) []models.AuditLog {
	t.Helper()
	logs, err := env.audit.List(env.ctx)
	require.NoError(t, err)
	return logs
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func TestBindings_CoverEveryRoute(t *testing.T) {
	bindings := Handlers{}.Bindings()
	require.Len(t, bindings, len(contract.Routes()))
	for _, route := range contract.Routes() {
		require.Contains(t, bindings, route.Name)
	}
}
