package repository

import (
	"fmt"
	"strings"

	"github.com/audlex/audlex-api/internal/models"
)

// buildHearingPredicate turns a filter into an AND-joined WHERE fragment over
// the hearings alias h. Unset fields add nothing; an empty filter yields "1=1".
// Witness name matching is applied after the fetch and never appears here.
func buildHearingPredicate(filter models.HearingFilter) (string, []interface{}) {
	conditions := []string{"1=1"}
	var args []interface{}

	add := func(clause string, value interface{}) {
		args = append(args, value)
		conditions = append(conditions, fmt.Sprintf(clause, len(args)))
	}

	if filter.DateFrom != nil {
		add("h.hearing_date >= $%d", filter.DateFrom.UTC().Format("2006-01-02"))
	}
	if filter.DateTo != nil {
		add("h.hearing_date <= $%d", filter.DateTo.UTC().Format("2006-01-02"))
	}
	if filter.AssignedUserID != nil {
		add("h.assigned_user_id = $%d", *filter.AssignedUserID)
	}
	if filter.ScopeUserID != nil {
		add("h.assigned_user_id = $%d", *filter.ScopeUserID)
	}
	if filter.Modality != nil {
		add("h.modality = $%d", string(*filter.Modality))
	}
	if filter.Status != nil {
		add("h.status = $%d", string(*filter.Status))
	}
	if filter.CourtNumber != nil {
		add("h.court_number = $%d", *filter.CourtNumber)
	}
	if v := strings.TrimSpace(filter.OpposingParty); v != "" {
		add(`LOWER(h.opposing_party) LIKE $%d ESCAPE '\'`, containsPattern(v))
	}
	if v := strings.TrimSpace(filter.Caption); v != "" {
		add(`LOWER(h.caption) LIKE $%d ESCAPE '\'`, containsPattern(v))
	}

	return strings.Join(conditions, " AND "), args
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)

// containsPattern builds a case-insensitive substring pattern in which the
// user's own wildcard characters match literally.
func containsPattern(v string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(v)) + "%"
}
