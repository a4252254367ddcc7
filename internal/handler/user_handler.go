package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/audlex/audlex-api/internal/models"
	"github.com/audlex/audlex-api/pkg/response"
)

type userLister interface {
	List(ctx context.Context) ([]models.UserInfo, error)
}

// UserHandler exposes the user directory.
type UserHandler struct {
	service userLister
}

// NewUserHandler creates a new user handler.
func NewUserHandler(svc userLister) *UserHandler {
	return &UserHandler{service: svc}
}

// List godoc
// @Summary List users
// @Description Users available for hearing assignment, ordered by name
// @Tags Users
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /users [get]
func (h *UserHandler) List(c *gin.Context) {
	users, err := h.service.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, users, map[string]interface{}{"total": len(users)})
}
