package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/audlex/audlex-api/internal/models"
)

const witnessColumns = `id, first_name, last_name, email, flagged, phone, hearing_id, difficult`

// WitnessRepository persists witnesses.
type WitnessRepository struct {
	db *sqlx.DB
}

// NewWitnessRepository constructs a witness repository.
func NewWitnessRepository(db *sqlx.DB) *WitnessRepository {
	return &WitnessRepository{db: db}
}

func (r *WitnessRepository) exec(exec sqlx.ExtContext) sqlx.ExtContext {
	if exec != nil {
		return exec
	}
	return r.db
}

// ListByHearing returns the witnesses attached to a hearing ordered by id.
func (r *WitnessRepository) ListByHearing(ctx context.Context, hearingID int64) ([]models.Witness, error) {
	query := `SELECT ` + witnessColumns + ` FROM witnesses WHERE hearing_id = $1 ORDER BY id ASC`
	witnesses := make([]models.Witness, 0)
	if err := r.db.SelectContext(ctx, &witnesses, query, hearingID); err != nil {
		return nil, fmt.Errorf("list witnesses by hearing: %w", err)
	}
	return witnesses, nil
}

// FindByID returns a witness, or sql.ErrNoRows.
func (r *WitnessRepository) FindByID(ctx context.Context, id int64) (*models.Witness, error) {
	query := `SELECT ` + witnessColumns + ` FROM witnesses WHERE id = $1`
	var witness models.Witness
	if err := r.db.GetContext(ctx, &witness, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find witness by id: %w", err)
	}
	return &witness, nil
}

// Create inserts a witness. A negative hearing reference is stored as unassigned.
func (r *WitnessRepository) Create(ctx context.Context, exec sqlx.ExtContext, witness *models.Witness) error {
	if witness == nil {
		return fmt.Errorf("witness payload is nil")
	}
	if witness.HearingID < 0 {
		witness.HearingID = models.UnassignedHearingID
	}

	const query = `INSERT INTO witnesses (first_name, last_name, email, flagged, phone, hearing_id, difficult)
VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`
	if err := sqlx.GetContext(ctx, r.exec(exec), &witness.ID, query,
		witness.FirstName, witness.LastName, witness.Email, witness.Flagged, witness.Phone, witness.HearingID, witness.Difficult,
	); err != nil {
		return fmt.Errorf("create witness: %w", err)
	}
	return nil
}

// Update replaces a witness. It reports false when no row matched.
func (r *WitnessRepository) Update(ctx context.Context, exec sqlx.ExtContext, witness *models.Witness) (bool, error) {
	if witness == nil {
		return false, fmt.Errorf("witness payload is nil")
	}
	if witness.HearingID < 0 {
		witness.HearingID = models.UnassignedHearingID
	}

	const query = `UPDATE witnesses SET first_name = $2, last_name = $3, email = $4, flagged = $5, phone = $6, hearing_id = $7, difficult = $8 WHERE id = $1`
	res, err := r.exec(exec).ExecContext(ctx, query,
		witness.ID, witness.FirstName, witness.LastName, witness.Email, witness.Flagged, witness.Phone, witness.HearingID, witness.Difficult,
	)
	if err != nil {
		return false, fmt.Errorf("update witness: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("update witness rows affected: %w", err)
	}
	return affected > 0, nil
}

// Delete removes a witness. It returns sql.ErrNoRows when nothing matched.
func (r *WitnessRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM witnesses WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete witness: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete witness rows affected: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// DetachFromHearing marks every witness of hearingID as unassigned.
func (r *WitnessRepository) DetachFromHearing(ctx context.Context, exec sqlx.ExtContext, hearingID int64) error {
	if hearingID == models.UnassignedHearingID {
		return nil
	}
	if _, err := r.exec(exec).ExecContext(ctx, `UPDATE witnesses SET hearing_id = $2 WHERE hearing_id = $1`, hearingID, models.UnassignedHearingID); err != nil {
		return fmt.Errorf("detach witnesses from hearing: %w", err)
	}
	return nil
}
