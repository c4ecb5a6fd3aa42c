package handler

import (
	"net/http"

	"github.com/gdugdh24/matrimony-backend/internal/usecase/directory"
	"github.com/gin-gonic/gin"
)

type DirectoryHandler struct {
	directoryUseCase *directory.DirectoryUseCase
}

func NewDirectoryHandler(directoryUseCase *directory.DirectoryUseCase) *DirectoryHandler {
	return &DirectoryHandler{
		directoryUseCase: directoryUseCase,
	}
}

// Browse handles GET /users
// @Summary Browse users
// @Description List other users with the interest status between them and the caller
// @Tags users
// @Security BearerAuth
// @Produce json
// @Param gender query string false "male or female"
// @Param religion query string false "Religion"
// @Param min_age query int false "Minimum age"
// @Param max_age query int false "Maximum age"
// @Param limit query int false "Page size (default 50, max 100)"
// @Param offset query int false "Offset"
// @Success 200 {array} domain.UserSummary
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Router /users [get]
func (h *DirectoryHandler) Browse(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}

	var req directory.BrowseRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		respondBindError(c, err)
		return
	}

	users, err := h.directoryUseCase.Browse(c.Request.Context(), a, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, users)
}
