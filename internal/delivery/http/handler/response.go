package handler

import (
	"errors"
	"net/http"

	"github.com/gdugdh24/matrimony-backend/internal/delivery/http/middleware"
	"github.com/gdugdh24/matrimony-backend/internal/domain"
	"github.com/gdugdh24/matrimony-backend/internal/logger"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// ErrorResponse is the body of every failed request. Refresh tells the client
// its local state is stale and should be reloaded.
type ErrorResponse struct {
	Error   string            `json:"error"`
	Kind    domain.ErrorKind  `json:"kind,omitempty"`
	Refresh bool              `json:"refresh,omitempty"`
	Fields  map[string]string `json:"fields,omitempty"`
}

// MessageResponse is returned by endpoints without a record to show.
type MessageResponse struct {
	Message string `json:"message"`
}

func statusFor(kind domain.ErrorKind) int {
	switch kind {
	case domain.KindInvalidInput:
		return http.StatusBadRequest
	case domain.KindUnauthorized:
		return http.StatusUnauthorized
	case domain.KindForbidden:
		return http.StatusForbidden
	case domain.KindNotFound:
		return http.StatusNotFound
	case domain.KindConflict, domain.KindInvalidState:
		return http.StatusConflict
	case domain.KindLimitExceeded:
		return http.StatusUnprocessableEntity
	case domain.KindTransient:
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

func respondError(c *gin.Context, err error) {
	kind := domain.KindOf(err)
	writeError(c, err, kind == domain.KindInvalidState)
}

// respondTransitionError is respondError for routes acting on an interest the
// client already shows. A record that has vanished was withdrawn by the other
// side, so the client is told to reload as for a stale state.
func respondTransitionError(c *gin.Context, err error) {
	kind := domain.KindOf(err)
	writeError(c, err, kind == domain.KindInvalidState || kind == domain.KindNotFound)
}

func writeError(c *gin.Context, err error, refresh bool) {
	kind := domain.KindOf(err)
	status := statusFor(kind)

	if status >= http.StatusInternalServerError {
		logger.CtxError(c.Request.Context(), "request failed", err, "path", c.FullPath())
	}

	message := domain.MessageOf(err)
	if kind == domain.KindInternal {
		message = "internal server error"
	}

	c.AbortWithStatusJSON(status, ErrorResponse{
		Error:   message,
		Kind:    kind,
		Refresh: refresh,
	})
}

// respondBindError reports request decoding and validation failures.
func respondBindError(c *gin.Context, err error) {
	resp := ErrorResponse{Error: domain.ErrInvalidInput.Message, Kind: domain.ErrInvalidInput.Kind}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		resp.Fields = make(map[string]string, len(verrs))
		for _, fe := range verrs {
			resp.Fields[fe.Field()] = fe.Tag()
		}
	}

	c.AbortWithStatusJSON(http.StatusBadRequest, resp)
}

// actor returns the authenticated caller set by the auth middleware.
func actor(c *gin.Context) (domain.Actor, bool) {
	a, ok := middleware.ActorFrom(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{
			Error: "unauthorized",
			Kind:  domain.KindUnauthorized,
		})
	}
	return a, ok
}
