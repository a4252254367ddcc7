package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/audlex/audlex-api/internal/dto"
	"github.com/audlex/audlex-api/internal/models"
	appErrors "github.com/audlex/audlex-api/pkg/errors"
	"github.com/audlex/audlex-api/pkg/response"
)

type witnessService interface {
	ListByHearing(ctx context.Context, session *models.SessionClaims, hearingID int64) ([]models.Witness, error)
	Create(ctx context.Context, session *models.SessionClaims, input dto.WitnessInput) (*models.Witness, error)
	Update(ctx context.Context, session *models.SessionClaims, id int64, input dto.WitnessInput) (*models.Witness, error)
	Delete(ctx context.Context, session *models.SessionClaims, id int64) error
}

// WitnessHandler exposes witness CRUD.
type WitnessHandler struct {
	service witnessService
}

// NewWitnessHandler constructs a witness handler.
func NewWitnessHandler(svc witnessService) *WitnessHandler {
	return &WitnessHandler{service: svc}
}

// Create godoc
// @Summary Create witness
// @Description A witness without hearingId stays unassigned
// @Tags Witnesses
// @Accept json
// @Produce json
// @Param payload body dto.WitnessInput true "Witness payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /witnesses [post]
func (h *WitnessHandler) Create(c *gin.Context) {
	var input dto.WitnessInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid witness payload"))
		return
	}

	witness, err := h.service.Create(c.Request.Context(), claimsFromContext(c), input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, witness)
}

// Update godoc
// @Summary Update witness
// @Tags Witnesses
// @Accept json
// @Produce json
// @Param id path int true "Witness ID"
// @Param payload body dto.WitnessInput true "Witness payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /witnesses/{id} [put]
func (h *WitnessHandler) Update(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	var input dto.WitnessInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid witness payload"))
		return
	}

	witness, err := h.service.Update(c.Request.Context(), claimsFromContext(c), id, input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, witness, nil)
}

// Delete godoc
// @Summary Delete witness
// @Tags Witnesses
// @Param id path int true "Witness ID"
// @Success 204
// @Failure 404 {object} response.Envelope
// @Router /witnesses/{id} [delete]
func (h *WitnessHandler) Delete(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	if err := h.service.Delete(c.Request.Context(), claimsFromContext(c), id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
