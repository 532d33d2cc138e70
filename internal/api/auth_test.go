package api

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterHandler(t *testing.T) {
	h := newHarness(t)

	w := h.do(http.MethodPost, "/auth/register", gin.H{"name": "Bia", "email": "Bia@Example.com", "age": 25, "password": "secret1"}, "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	user := decode[UserResponse](t, w)
	assert.Equal(t, "bia@example.com", user.Email)

	w = h.do(http.MethodPost, "/auth/register", gin.H{"name": "Bia", "email": "bia@example.com", "age": 25, "password": "secret1"}, "")
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestRegisterHandler_Validation(t *testing.T) {
	h := newHarness(t)

	w := h.do(http.MethodPost, "/auth/register", gin.H{"name": "B", "email": "not-an-email", "age": 17, "password": "123"}, "")
	require.Equal(t, http.StatusBadRequest, w.Code)
	body := decode[struct {
		Fields map[string]string `json:"fields"`
	}](t, w)
	assert.Contains(t, body.Fields, "name")
	assert.Contains(t, body.Fields, "email")
	assert.Contains(t, body.Fields, "age")
	assert.Contains(t, body.Fields, "password")
}

func TestLoginHandler_BadCredentials(t *testing.T) {
	h := newHarness(t)

	w := h.do(http.MethodPost, "/auth/login", gin.H{"email": "ana@example.com", "password": "wrong"}, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestValidateTokenHandler(t *testing.T) {
	h := newHarness(t)

	w := h.do(http.MethodGet, "/auth/validate", nil, h.token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"valid":true,"email":"ana@example.com","message":"Token is valid"}`, w.Body.String())

	w = h.do(http.MethodGet, "/auth/validate", nil, "junk")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"valid":false,"message":"Invalid or expired token"}`, w.Body.String())
}

func TestRefreshTokenHandler(t *testing.T) {
	h := newHarness(t)

	w := h.do(http.MethodPost, "/auth/refresh", nil, h.token)
	require.Equal(t, http.StatusOK, w.Code)
	resp := decode[AuthResponse](t, w)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, "Bearer", resp.TokenType)

	w = h.do(http.MethodPost, "/auth/refresh", nil, "junk")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = h.do(http.MethodPost, "/auth/refresh", nil, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
