package models

import "time"

// Modality is the delivery mode of a hearing.
type Modality string

const (
	ModalityVirtual        Modality = "virtual"
	ModalitySemipresencial Modality = "semipresencial"
	ModalityPresencial     Modality = "presencial"
)

// Valid reports whether m is one of the known modalities.
func (m Modality) Valid() bool {
	switch m {
	case ModalityVirtual, ModalitySemipresencial, ModalityPresencial:
		return true
	}
	return false
}

// HearingStatus is the lifecycle state of a hearing.
type HearingStatus string

const (
	HearingStatusVigente      HearingStatus = "vigente"
	HearingStatusTerminado    HearingStatus = "terminado"
	HearingStatusReprogramado HearingStatus = "reprogramado"
)

// Valid reports whether s is one of the known statuses.
func (s HearingStatus) Valid() bool {
	switch s {
	case HearingStatusVigente, HearingStatusTerminado, HearingStatusReprogramado:
		return true
	}
	return false
}

// UnassignedUserName is displayed when a hearing has no resolvable assigned user.
const UnassignedUserName = "SIN ASIGNAR"

// Hearing is a scheduled court proceeding. Time only carries hour and minute;
// it is stored on the 1970-01-01 UTC reference day.
type Hearing struct {
	ID             int64         `db:"id" json:"id"`
	Caption        string        `db:"caption" json:"caption"`
	OpposingParty  string        `db:"opposing_party" json:"opposingParty"`
	Date           time.Time     `db:"hearing_date" json:"date"`
	Time           time.Time     `db:"hearing_time" json:"time"`
	Modality       Modality      `db:"modality" json:"modality"`
	Status         HearingStatus `db:"status" json:"status"`
	CourtNumber    int           `db:"court_number" json:"courtNumber"`
	AssignedUserID int64         `db:"assigned_user_id" json:"assignedUserId"`
	Details        *string       `db:"details" json:"details"`
	Info           *string       `db:"info" json:"info"`
}

// HearingRow is a hearing joined with the assigned user's display name.
type HearingRow struct {
	Hearing
	AssignedUserName string `db:"assigned_user_name" json:"assignedUserName"`
}

// HearingFilter holds the optional search criteria for hearings. Nil or empty
// fields impose no constraint.
type HearingFilter struct {
	DateFrom         *time.Time
	DateTo           *time.Time
	AssignedUserName string
	WitnessName      string
	Modality         *Modality
	Status           *HearingStatus
	OpposingParty    string
	Caption          string
	CourtNumber      *int

	// AssignedUserID is resolved from AssignedUserName before querying.
	AssignedUserID *int64
	// ScopeUserID restricts results to one user's hearings (level 1 sessions).
	ScopeUserID *int64
}
