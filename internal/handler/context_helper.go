package handler

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/audlex/audlex-api/internal/middleware"
	"github.com/audlex/audlex-api/internal/models"
	"github.com/audlex/audlex-api/pkg/datetime"
	appErrors "github.com/audlex/audlex-api/pkg/errors"
)

func claimsFromContext(c *gin.Context) *models.SessionClaims {
	claims, ok := middleware.SessionFromContext(c)
	if !ok {
		return nil
	}
	return claims
}

func pathID(c *gin.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, appErrors.Clone(appErrors.ErrValidation, "invalid "+name)
	}
	return id, nil
}

// hearingFilterFromQuery reads the search parameters shared by the list and
// export endpoints. Blank parameters are ignored.
func hearingFilterFromQuery(c *gin.Context) (models.HearingFilter, error) {
	var filter models.HearingFilter

	if raw := strings.TrimSpace(c.Query("dateFrom")); raw != "" {
		day, err := datetime.ParseDate(raw)
		if err != nil {
			return filter, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid dateFrom")
		}
		filter.DateFrom = &day
	}
	if raw := strings.TrimSpace(c.Query("dateTo")); raw != "" {
		day, err := datetime.ParseDate(raw)
		if err != nil {
			return filter, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid dateTo")
		}
		filter.DateTo = &day
	}
	if raw := strings.TrimSpace(c.Query("modality")); raw != "" {
		modality := models.Modality(raw)
		if !modality.Valid() {
			return filter, appErrors.Clone(appErrors.ErrValidation, "invalid modality")
		}
		filter.Modality = &modality
	}
	if raw := strings.TrimSpace(c.Query("status")); raw != "" {
		status := models.HearingStatus(raw)
		if !status.Valid() {
			return filter, appErrors.Clone(appErrors.ErrValidation, "invalid status")
		}
		filter.Status = &status
	}
	if raw := strings.TrimSpace(c.Query("court")); raw != "" {
		court, err := strconv.Atoi(raw)
		if err != nil {
			return filter, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid court")
		}
		filter.CourtNumber = &court
	}

	filter.AssignedUserName = strings.TrimSpace(c.Query("user"))
	filter.WitnessName = strings.TrimSpace(c.Query("witness"))
	filter.OpposingParty = c.Query("opposingParty")
	filter.Caption = c.Query("caption")
	return filter, nil
}
