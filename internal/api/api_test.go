package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"consciousbet/internal/auth"
	"consciousbet/internal/domain"
	"consciousbet/internal/service"
	"consciousbet/internal/testutil"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type harness struct {
	t      *testing.T
	router *gin.Engine
	store  *testutil.MemoryStore
	pub    *testutil.RecordingPublisher
	token  string // Regular user
	admin  string // Admin
	user   domain.User
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	store := testutil.NewMemoryStore()
	memCache := testutil.NewMemoryCache()
	pub := &testutil.RecordingPublisher{}
	tokens := auth.NewTokens("test-secret", time.Hour)
	authSvc := service.NewAuthService(store, tokens)

	h := &harness{
		t:     t,
		store: store,
		pub:   pub,
		router: NewRouter(Deps{
			Auth:        authSvc,
			Users:       service.NewUserService(store, memCache),
			Bets:        service.NewBetService(store, memCache, pub),
			Risk:        service.NewRiskService(store, memCache),
			Tokens:      tokens,
			Credentials: store.Credentials(),
		}),
	}

	ctx := context.Background()
	_, err := authSvc.EnsureAdmin(ctx, "admin@email.com", "123456")
	require.NoError(t, err)
	user, err := authSvc.Register(ctx, service.Register{Name: "Ana", Email: "ana@example.com", Age: 30, Password: "s3cret!"})
	require.NoError(t, err)
	h.user = *user

	h.token = h.login("ana@example.com", "s3cret!")
	h.admin = h.login("admin@email.com", "123456")
	return h
}

func (h *harness) login(email, password string) string {
	w := h.do(http.MethodPost, "/auth/login", gin.H{"email": email, "password": password}, "")
	require.Equal(h.t, http.StatusOK, w.Code, w.Body.String())
	var resp AuthResponse
	require.NoError(h.t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.Token
}

func (h *harness) do(method, path string, body any, token string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		require.NoError(h.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	h.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func TestStatusOf(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{domain.ErrNotFound, http.StatusNotFound},
		{domain.ErrValidation, http.StatusBadRequest},
		{domain.ErrInvalidState, http.StatusBadRequest},
		{domain.ErrConflict, http.StatusConflict},
		{domain.ErrUnauthorized, http.StatusUnauthorized},
		{errors.New("db down"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, StatusOf(tt.err), tt.err.Error())
	}
}

func TestHealthAndMetrics(t *testing.T) {
	h := newHarness(t)

	w := h.do(http.MethodGet, "/healthz", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = h.do(http.MethodGet, "/metrics", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestHealth_Unhealthy(t *testing.T) {
	r := gin.New()
	r.GET("/healthz", healthHandler(func(context.Context) error { return errors.New("redis down") }))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestProtectedRoutesNeedToken(t *testing.T) {
	h := newHarness(t)

	w := h.do(http.MethodGet, "/api/bets", nil, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
