package handler

import (
	"context"
	"net/http"

	"github.com/gdugdh24/matrimony-backend/internal/domain"
	"github.com/gdugdh24/matrimony-backend/internal/usecase/interest"
	"github.com/gin-gonic/gin"
)

type InterestHandler struct {
	interestUseCase *interest.InterestUseCase
}

func NewInterestHandler(interestUseCase *interest.InterestUseCase) *InterestHandler {
	return &InterestHandler{
		interestUseCase: interestUseCase,
	}
}

type statusQuery struct {
	Status *domain.InterestStatus `form:"status" binding:"omitempty,interest_status"`
}

// Send handles POST /interests
// @Summary Send interest
// @Tags interests
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body interest.SendRequest true "Recipient and optional message"
// @Success 201 {object} domain.Interest
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse
// @Router /interests [post]
func (h *InterestHandler) Send(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}

	var req interest.SendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	result, err := h.interestUseCase.Send(c.Request.Context(), a, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, result)
}

// ListSent handles GET /interests/sent
// @Summary Sent interests
// @Tags interests
// @Security BearerAuth
// @Produce json
// @Param status query string false "pending, accepted or rejected"
// @Success 200 {array} interest.InterestView
// @Failure 400 {object} ErrorResponse
// @Router /interests/sent [get]
func (h *InterestHandler) ListSent(c *gin.Context) {
	h.list(c, h.interestUseCase.ListSent)
}

// ListReceived handles GET /interests/received
// @Summary Received interests
// @Tags interests
// @Security BearerAuth
// @Produce json
// @Param status query string false "pending, accepted or rejected"
// @Success 200 {array} interest.InterestView
// @Failure 400 {object} ErrorResponse
// @Router /interests/received [get]
func (h *InterestHandler) ListReceived(c *gin.Context) {
	h.list(c, h.interestUseCase.ListReceived)
}

type listFunc func(ctx context.Context, a domain.Actor, status *domain.InterestStatus) ([]*interest.InterestView, error)

func (h *InterestHandler) list(c *gin.Context, fn listFunc) {
	a, ok := actor(c)
	if !ok {
		return
	}

	var q statusQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		respondBindError(c, err)
		return
	}

	views, err := fn(c.Request.Context(), a, q.Status)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, views)
}

// ListMatches handles GET /interests/matches
// @Summary Accepted interests
// @Tags interests
// @Security BearerAuth
// @Produce json
// @Success 200 {array} interest.InterestView
// @Router /interests/matches [get]
func (h *InterestHandler) ListMatches(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}

	views, err := h.interestUseCase.ListMatches(c.Request.Context(), a)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, views)
}

// Accept handles PUT /interests/:id/accept
// @Summary Accept interest
// @Tags interests
// @Security BearerAuth
// @Produce json
// @Param id path string true "Interest ID"
// @Success 200 {object} domain.Interest
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse
// @Router /interests/{id}/accept [put]
func (h *InterestHandler) Accept(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}

	result, err := h.interestUseCase.Accept(c.Request.Context(), a, c.Param("id"))
	if err != nil {
		respondTransitionError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// Reject handles PUT /interests/:id/reject
// @Summary Reject interest
// @Tags interests
// @Security BearerAuth
// @Produce json
// @Param id path string true "Interest ID"
// @Success 200 {object} domain.Interest
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /interests/{id}/reject [put]
func (h *InterestHandler) Reject(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}

	result, err := h.interestUseCase.Reject(c.Request.Context(), a, c.Param("id"))
	if err != nil {
		respondTransitionError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// Cancel handles DELETE /interests/:id
// @Summary Withdraw pending interest
// @Tags interests
// @Security BearerAuth
// @Produce json
// @Param id path string true "Interest ID"
// @Success 200 {object} MessageResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /interests/{id} [delete]
func (h *InterestHandler) Cancel(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}

	if err := h.interestUseCase.Cancel(c.Request.Context(), a, c.Param("id")); err != nil {
		respondTransitionError(c, err)
		return
	}

	c.JSON(http.StatusOK, MessageResponse{
		Message: "interest withdrawn",
	})
}

// Icebreakers handles GET /interests/:id/icebreakers
// @Summary Conversation starters for a match
// @Tags interests
// @Security BearerAuth
// @Produce json
// @Param id path string true "Interest ID"
// @Success 200 {object} interest.IcebreakersResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /interests/{id}/icebreakers [get]
func (h *InterestHandler) Icebreakers(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}

	result, err := h.interestUseCase.Icebreakers(c.Request.Context(), a, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
