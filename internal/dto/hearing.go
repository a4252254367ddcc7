package dto

import "github.com/audlex/audlex-api/internal/models"

// HearingView is a hearing merged with its witnesses and display-ready
// date and time strings.
type HearingView struct {
	ID               int64                `json:"id"`
	Caption          string               `json:"caption"`
	OpposingParty    string               `json:"opposingParty"`
	Date             string               `json:"date"`
	Time             string               `json:"time"`
	Modality         models.Modality      `json:"modality"`
	Status           models.HearingStatus `json:"status"`
	CourtNumber      int                  `json:"courtNumber"`
	AssignedUserID   int64                `json:"assignedUserId"`
	AssignedUserName string               `json:"assignedUserName"`
	Details          *string              `json:"details"`
	Info             *string              `json:"info"`
	Witnesses        []models.Witness     `json:"witnesses"`
}

// WitnessInput is a witness payload, with or without identity.
type WitnessInput struct {
	ID        int64  `json:"id,omitempty" validate:"omitempty,min=1"`
	FirstName string `json:"firstName" validate:"required,max=120"`
	LastName  string `json:"lastName" validate:"required,max=120"`
	Email     string `json:"email" validate:"omitempty,email"`
	Flagged   bool   `json:"flagged"`
	Phone     string `json:"phone" validate:"max=40"`
	HearingID *int64 `json:"hearingId,omitempty" validate:"omitempty,min=0"`
	Difficult bool   `json:"difficult"`
}

// HearingRequest is the full payload for creating or replacing a hearing.
// Date is YYYY-MM-DD and Time is HH:MM.
type HearingRequest struct {
	Caption        string               `json:"caption" validate:"required,max=500"`
	OpposingParty  string               `json:"opposingParty" validate:"max=300"`
	Date           string               `json:"date" validate:"required"`
	Time           string               `json:"time" validate:"required"`
	Modality       models.Modality      `json:"modality" validate:"required,oneof=virtual semipresencial presencial"`
	Status         models.HearingStatus `json:"status" validate:"required,oneof=vigente terminado reprogramado"`
	CourtNumber    int                  `json:"courtNumber" validate:"required,min=1"`
	AssignedUserID int64                `json:"assignedUserId" validate:"min=0"`
	Details        *string              `json:"details"`
	Info           *string              `json:"info"`

	Witnesses []WitnessInput `json:"witnesses" validate:"dive"`
	// WitnessesModified makes an update also persist Witnesses.
	WitnessesModified bool `json:"witnessesModified"`
}
