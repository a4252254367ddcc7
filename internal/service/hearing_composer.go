package service

import (
	"strings"

	"github.com/audlex/audlex-api/internal/dto"
	"github.com/audlex/audlex-api/internal/models"
	"github.com/audlex/audlex-api/pkg/datetime"
)

// ComposeHearings merges each row with its witnesses into a display record,
// preserving row order. A non-blank witnessName keeps only hearings with at
// least one witness whose first name, last name or full name contains it,
// ignoring case.
func ComposeHearings(rows []models.HearingRow, witnesses map[int64][]models.Witness, witnessName string) []dto.HearingView {
	needle := strings.ToLower(strings.TrimSpace(witnessName))
	views := make([]dto.HearingView, 0, len(rows))
	for _, row := range rows {
		list := witnesses[row.ID]
		if list == nil {
			list = []models.Witness{}
		}
		if needle != "" && !anyWitnessMatches(list, needle) {
			continue
		}
		views = append(views, composeHearing(row, list))
	}
	return views
}

func composeHearing(row models.HearingRow, witnesses []models.Witness) dto.HearingView {
	userName := row.AssignedUserName
	if strings.TrimSpace(userName) == "" {
		userName = models.UnassignedUserName
	}
	return dto.HearingView{
		ID:               row.ID,
		Caption:          row.Caption,
		OpposingParty:    row.OpposingParty,
		Date:             datetime.FormatDate(row.Date),
		Time:             datetime.FormatTime(row.Time),
		Modality:         row.Modality,
		Status:           row.Status,
		CourtNumber:      row.CourtNumber,
		AssignedUserID:   row.AssignedUserID,
		AssignedUserName: userName,
		Details:          row.Details,
		Info:             row.Info,
		Witnesses:        witnesses,
	}
}

func anyWitnessMatches(witnesses []models.Witness, needle string) bool {
	for _, w := range witnesses {
		if strings.Contains(strings.ToLower(w.FirstName), needle) ||
			strings.Contains(strings.ToLower(w.LastName), needle) ||
			strings.Contains(strings.ToLower(w.FullName()), needle) {
			return true
		}
	}
	return false
}
