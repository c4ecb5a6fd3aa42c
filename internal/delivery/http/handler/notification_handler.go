package handler

import (
	"net/http"

	"github.com/gdugdh24/matrimony-backend/internal/logger"
	"github.com/gdugdh24/matrimony-backend/internal/usecase/notification"
	"github.com/gin-gonic/gin"
)

// StreamServer upgrades a request into a live notification stream.
type StreamServer interface {
	ServeWS(w http.ResponseWriter, r *http.Request, userID string) error
}

type NotificationHandler struct {
	notificationUseCase *notification.NotificationUseCase
	stream              StreamServer
}

func NewNotificationHandler(notificationUseCase *notification.NotificationUseCase, stream StreamServer) *NotificationHandler {
	return &NotificationHandler{
		notificationUseCase: notificationUseCase,
		stream:              stream,
	}
}

type listQuery struct {
	UnreadOnly bool `form:"unread_only"`
}

// List handles GET /notifications
// @Summary List notifications
// @Description Newest first, with the caller's unread count
// @Tags notifications
// @Security BearerAuth
// @Produce json
// @Param unread_only query bool false "Only unread notifications"
// @Success 200 {object} notification.ListResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Router /notifications [get]
func (h *NotificationHandler) List(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}

	var q listQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		respondBindError(c, err)
		return
	}

	result, err := h.notificationUseCase.List(c.Request.Context(), a, q.UnreadOnly)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// MarkRead handles PUT /notifications/:id/read
// @Summary Mark notification read
// @Tags notifications
// @Security BearerAuth
// @Produce json
// @Param id path string true "Notification ID"
// @Success 200 {object} domain.Notification
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /notifications/{id}/read [put]
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}

	n, err := h.notificationUseCase.MarkRead(c.Request.Context(), a, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, n)
}

// MarkAllRead handles PUT /notifications/read-all
// @Summary Mark all notifications read
// @Tags notifications
// @Security BearerAuth
// @Produce json
// @Success 200 {object} notification.MarkAllReadResponse
// @Router /notifications/read-all [put]
func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}

	result, err := h.notificationUseCase.MarkAllRead(c.Request.Context(), a)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// Delete handles DELETE /notifications/:id
// @Summary Delete notification
// @Tags notifications
// @Security BearerAuth
// @Produce json
// @Param id path string true "Notification ID"
// @Success 200 {object} MessageResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /notifications/{id} [delete]
func (h *NotificationHandler) Delete(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}

	if err := h.notificationUseCase.Delete(c.Request.Context(), a, c.Param("id")); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, MessageResponse{
		Message: "notification deleted",
	})
}

// Stream handles GET /notifications/stream
// @Summary Live notifications
// @Description WebSocket stream of new notifications. Pass the token as a query parameter.
// @Tags notifications
// @Param token query string true "Access token"
// @Success 101
// @Failure 401 {object} ErrorResponse
// @Router /notifications/stream [get]
func (h *NotificationHandler) Stream(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}

	// the upgrader has already written the failure response
	if err := h.stream.ServeWS(c.Writer, c.Request, a.UserID); err != nil {
		logger.CtxWarn(c.Request.Context(), "websocket upgrade failed", "error", err)
	}
}

// PublishSystem handles POST /admin/notifications/system
// @Summary Send system notification
// @Tags admin
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body notification.SystemNotificationRequest true "Recipient and message"
// @Success 201 {object} domain.Notification
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /admin/notifications/system [post]
func (h *NotificationHandler) PublishSystem(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}

	var req notification.SystemNotificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	n, err := h.notificationUseCase.PublishSystem(c.Request.Context(), a, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, n)
}
