package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/audlex/audlex-api/internal/dto"
	"github.com/audlex/audlex-api/internal/models"
	"github.com/audlex/audlex-api/internal/service"
	appErrors "github.com/audlex/audlex-api/pkg/errors"
	"github.com/audlex/audlex-api/pkg/response"
)

type hearingService interface {
	List(ctx context.Context, session *models.SessionClaims, filter models.HearingFilter) ([]dto.HearingView, error)
	Get(ctx context.Context, session *models.SessionClaims, id int64) (*dto.HearingView, error)
	Create(ctx context.Context, session *models.SessionClaims, req dto.HearingRequest) (*dto.HearingView, error)
	Update(ctx context.Context, session *models.SessionClaims, id int64, req dto.HearingRequest) (*dto.HearingView, error)
	Delete(ctx context.Context, session *models.SessionClaims, id int64) error
}

type hearingExporter interface {
	Export(ctx context.Context, session *models.SessionClaims, filter models.HearingFilter, format models.ReportFormat) (*service.ExportResult, error)
}

// HearingHandler exposes hearing search, CRUD and export endpoints.
type HearingHandler struct {
	hearings  hearingService
	witnesses witnessService
	exporter  hearingExporter
}

// NewHearingHandler constructs a hearing handler.
func NewHearingHandler(hearings hearingService, witnesses witnessService, exporter hearingExporter) *HearingHandler {
	return &HearingHandler{hearings: hearings, witnesses: witnesses, exporter: exporter}
}

// List godoc
// @Summary Search hearings
// @Description Hearings ordered by date and time. Level 1 users only see hearings assigned to them.
// @Tags Hearings
// @Produce json
// @Param dateFrom query string false "First day (YYYY-MM-DD)"
// @Param dateTo query string false "Last day (YYYY-MM-DD)"
// @Param user query string false "Assigned user name"
// @Param witness query string false "Witness name fragment"
// @Param modality query string false "virtual, semipresencial or presencial"
// @Param status query string false "vigente, terminado or reprogramado"
// @Param opposingParty query string false "Opposing party fragment"
// @Param caption query string false "Caption fragment"
// @Param court query int false "Court number"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /hearings [get]
func (h *HearingHandler) List(c *gin.Context) {
	filter, err := hearingFilterFromQuery(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	views, err := h.hearings.List(c.Request.Context(), claimsFromContext(c), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, views, map[string]interface{}{"total": len(views)})
}

// Get godoc
// @Summary Get hearing
// @Tags Hearings
// @Produce json
// @Param id path int true "Hearing ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /hearings/{id} [get]
func (h *HearingHandler) Get(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	view, err := h.hearings.Get(c.Request.Context(), claimsFromContext(c), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, view, nil)
}

// Create godoc
// @Summary Create hearing
// @Description Creates a hearing together with its inline witnesses
// @Tags Hearings
// @Accept json
// @Produce json
// @Param payload body dto.HearingRequest true "Hearing payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /hearings [post]
func (h *HearingHandler) Create(c *gin.Context) {
	var req dto.HearingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid hearing payload"))
		return
	}

	view, err := h.hearings.Create(c.Request.Context(), claimsFromContext(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, view)
}

// Update godoc
// @Summary Update hearing
// @Description Replaces the hearing fields; witnesses are written only when witnessesModified is set
// @Tags Hearings
// @Accept json
// @Produce json
// @Param id path int true "Hearing ID"
// @Param payload body dto.HearingRequest true "Hearing payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /hearings/{id} [put]
func (h *HearingHandler) Update(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	var req dto.HearingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid hearing payload"))
		return
	}

	view, err := h.hearings.Update(c.Request.Context(), claimsFromContext(c), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, view, nil)
}

// Delete godoc
// @Summary Delete hearing
// @Description Deletes the hearing and detaches its witnesses
// @Tags Hearings
// @Param id path int true "Hearing ID"
// @Success 204
// @Failure 403 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /hearings/{id} [delete]
func (h *HearingHandler) Delete(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	if err := h.hearings.Delete(c.Request.Context(), claimsFromContext(c), id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Witnesses godoc
// @Summary List hearing witnesses
// @Tags Hearings
// @Produce json
// @Param id path int true "Hearing ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /hearings/{id}/witnesses [get]
func (h *HearingHandler) Witnesses(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	witnesses, err := h.witnesses.ListByHearing(c.Request.Context(), claimsFromContext(c), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, witnesses, nil)
}

// Export godoc
// @Summary Export hearings
// @Description Downloads the hearings matching the search filters as a text, CSV or PDF report
// @Tags Hearings
// @Produce plain
// @Produce text/csv
// @Produce application/pdf
// @Param format query string false "txt (default), csv or pdf"
// @Param dateFrom query string false "First day (YYYY-MM-DD)"
// @Param dateTo query string false "Last day (YYYY-MM-DD)"
// @Param user query string false "Assigned user name"
// @Param witness query string false "Witness name fragment"
// @Param court query int false "Court number"
// @Success 200 {file} file
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /hearings/export [get]
func (h *HearingHandler) Export(c *gin.Context) {
	filter, err := hearingFilterFromQuery(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	format := models.ReportFormat(strings.ToLower(strings.TrimSpace(c.Query("format"))))

	result, err := h.exporter.Export(c.Request.Context(), claimsFromContext(c), filter, format)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, result.Filename, result.ContentType, result.Payload)
}
