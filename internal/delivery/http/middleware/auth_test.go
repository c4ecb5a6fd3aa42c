package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gdugdh24/matrimony-backend/internal/domain"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubVerifier struct {
	actor *domain.Actor
	err   error
}

func (s stubVerifier) VerifyToken(context.Context, string) (*domain.Actor, error) {
	return s.actor, s.err
}

func newEngine(v TokenVerifier) *gin.Engine {
	gin.SetMode(gin.TestMode)
	m := NewAuthMiddleware(v)

	r := gin.New()
	r.GET("/me", m.RequireAuth(), func(c *gin.Context) {
		a, _ := ActorFrom(c)
		c.JSON(http.StatusOK, gin.H{"user_id": a.UserID, "token": TokenFrom(c)})
	})
	r.GET("/admin", m.RequireAuth(), m.RequireAdmin(), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	return r
}

func call(t *testing.T, r *gin.Engine, path, token string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var body map[string]any
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	}
	return w, body
}

func TestRequireAuth_ErrorBodies(t *testing.T) {
	tests := []struct {
		name     string
		verifier stubVerifier
		token    string
		status   int
		kind     domain.ErrorKind
	}{
		{"missing token", stubVerifier{}, "", http.StatusUnauthorized, domain.KindUnauthorized},
		{"rejected token", stubVerifier{err: domain.ErrInvalidToken}, "abc", http.StatusUnauthorized, domain.KindUnauthorized},
		{"store down", stubVerifier{err: domain.WrapError(errors.New("dial tcp"), domain.KindTransient, "service temporarily unavailable")}, "abc", http.StatusServiceUnavailable, domain.KindTransient},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, body := call(t, newEngine(tt.verifier), "/me", tt.token)
			assert.Equal(t, tt.status, w.Code)
			assert.Equal(t, string(tt.kind), body["kind"])
			assert.NotEmpty(t, body["error"])
		})
	}
}

func TestRequireAuth_SetsActorAndToken(t *testing.T) {
	r := newEngine(stubVerifier{actor: &domain.Actor{UserID: "u-1", Role: domain.RoleUser}})

	w, body := call(t, r, "/me", "abc")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "u-1", body["user_id"])
	assert.Equal(t, "abc", body["token"])
}

func TestRequireAdmin(t *testing.T) {
	w, body := call(t, newEngine(stubVerifier{actor: &domain.Actor{UserID: "u-1", Role: domain.RoleUser}}), "/admin", "abc")
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, string(domain.KindForbidden), body["kind"])

	w, _ = call(t, newEngine(stubVerifier{actor: &domain.Actor{UserID: "u-2", Role: domain.RoleAdmin}}), "/admin", "abc")
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestQueryTokenOnlyForWebSocket(t *testing.T) {
	r := newEngine(stubVerifier{actor: &domain.Actor{UserID: "u-1"}})

	req := httptest.NewRequest(http.MethodGet, "/me?token=abc", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	req = httptest.NewRequest(http.MethodGet, "/me?token=abc", nil)
	req.Header.Set("Upgrade", "websocket")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}
