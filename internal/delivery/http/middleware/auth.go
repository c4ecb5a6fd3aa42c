package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gdugdh24/matrimony-backend/internal/domain"
	"github.com/gdugdh24/matrimony-backend/internal/logger"
	"github.com/gin-gonic/gin"
)

const (
	actorKey = "actor"
	tokenKey = "token"
)

// TokenVerifier resolves a bearer token into the caller.
type TokenVerifier interface {
	VerifyToken(ctx context.Context, token string) (*domain.Actor, error)
}

type AuthMiddleware struct {
	verifier TokenVerifier
}

func NewAuthMiddleware(verifier TokenVerifier) *AuthMiddleware {
	return &AuthMiddleware{verifier: verifier}
}

// RequireAuth rejects requests without a valid session. The token comes from
// the Authorization header, or the token query parameter for WebSocket
// upgrades where browsers cannot set headers.
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			abort(c, http.StatusUnauthorized, domain.KindUnauthorized, "missing bearer token")
			return
		}

		a, err := m.verifier.VerifyToken(c.Request.Context(), token)
		if err != nil {
			if domain.KindOf(err) == domain.KindTransient {
				abort(c, http.StatusServiceUnavailable, domain.KindTransient, domain.MessageOf(err))
				return
			}
			abort(c, http.StatusUnauthorized, domain.KindUnauthorized, "invalid or expired token")
			return
		}

		c.Set(actorKey, *a)
		c.Set(tokenKey, token)
		c.Request = c.Request.WithContext(logger.WithUserID(c.Request.Context(), a.UserID))
		c.Next()
	}
}

// RequireAdmin must run after RequireAuth.
func (m *AuthMiddleware) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		a, ok := ActorFrom(c)
		if !ok || !a.IsAdmin() {
			abort(c, http.StatusForbidden, domain.KindForbidden, domain.ErrAdminOnly.Message)
			return
		}
		c.Next()
	}
}

func ActorFrom(c *gin.Context) (domain.Actor, bool) {
	v, ok := c.Get(actorKey)
	if !ok {
		return domain.Actor{}, false
	}
	a, ok := v.(domain.Actor)
	return a, ok
}

func TokenFrom(c *gin.Context) string {
	return c.GetString(tokenKey)
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if header != "" {
		scheme, token, ok := strings.Cut(header, " ")
		if !ok || !strings.EqualFold(scheme, "Bearer") {
			return ""
		}
		return strings.TrimSpace(token)
	}
	if websocketUpgrade(c.Request) {
		return c.Query("token")
	}
	return ""
}

func websocketUpgrade(r *http.Request) bool {
	return strings.EqualFold(r.Header.Get("Upgrade"), "websocket")
}

// abort writes the same {"error", "kind"} body as the handlers.
func abort(c *gin.Context, status int, kind domain.ErrorKind, message string) {
	c.AbortWithStatusJSON(status, gin.H{"error": message, "kind": kind})
}
