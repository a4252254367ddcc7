package models

// UnassignedHearingID marks a witness that is not attached to any hearing.
const UnassignedHearingID int64 = 0

// Witness is a person called to testify at a hearing.
type Witness struct {
	ID        int64  `db:"id" json:"id"`
	FirstName string `db:"first_name" json:"firstName"`
	LastName  string `db:"last_name" json:"lastName"`
	Email     string `db:"email" json:"email"`
	Flagged   bool   `db:"flagged" json:"flagged"`
	Phone     string `db:"phone" json:"phone"`
	HearingID int64  `db:"hearing_id" json:"hearingId"`
	Difficult bool   `db:"difficult" json:"difficult"`
}

// FullName joins first and last name.
func (w Witness) FullName() string {
	if w.LastName == "" {
		return w.FirstName
	}
	if w.FirstName == "" {
		return w.LastName
	}
	return w.FirstName + " " + w.LastName
}
