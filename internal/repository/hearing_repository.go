package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/audlex/audlex-api/internal/models"
	"github.com/audlex/audlex-api/pkg/datetime"
)

const hearingProjection = `SELECT h.id, h.caption, h.opposing_party, h.hearing_date, h.hearing_time, h.modality, h.status,
h.court_number, h.assigned_user_id, h.details, h.info, COALESCE(u.name, 'SIN ASIGNAR') AS assigned_user_name
FROM hearings h LEFT JOIN users u ON u.id = h.assigned_user_id`

// HearingRepository persists hearings.
type HearingRepository struct {
	db *sqlx.DB
}

// NewHearingRepository constructs a hearing repository.
func NewHearingRepository(db *sqlx.DB) *HearingRepository {
	return &HearingRepository{db: db}
}

func (r *HearingRepository) exec(exec sqlx.ExtContext) sqlx.ExtContext {
	if exec != nil {
		return exec
	}
	return r.db
}

// List returns hearings matching filter, joined with the assigned user name,
// ordered by date then time ascending.
func (r *HearingRepository) List(ctx context.Context, filter models.HearingFilter) ([]models.HearingRow, error) {
	where, args := buildHearingPredicate(filter)
	query := hearingProjection + " WHERE " + where + " ORDER BY h.hearing_date ASC, h.hearing_time ASC, h.id ASC"

	rows := make([]models.HearingRow, 0)
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list hearings: %w", err)
	}
	return rows, nil
}

// FindByID returns a single hearing, or sql.ErrNoRows.
func (r *HearingRepository) FindByID(ctx context.Context, id int64) (*models.HearingRow, error) {
	query := hearingProjection + " WHERE h.id = $1"
	var row models.HearingRow
	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find hearing by id: %w", err)
	}
	return &row, nil
}

// Create inserts a hearing and assigns its generated id.
func (r *HearingRepository) Create(ctx context.Context, exec sqlx.ExtContext, hearing *models.Hearing) error {
	if hearing == nil {
		return fmt.Errorf("hearing payload is nil")
	}
	normalizeHearing(hearing)

	const query = `INSERT INTO hearings (caption, opposing_party, hearing_date, hearing_time, modality, status, court_number, assigned_user_id, details, info)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10) RETURNING id`
	if err := sqlx.GetContext(ctx, r.exec(exec), &hearing.ID, query,
		hearing.Caption, hearing.OpposingParty, hearing.Date, hearing.Time, string(hearing.Modality), string(hearing.Status),
		hearing.CourtNumber, hearing.AssignedUserID, hearing.Details, hearing.Info,
	); err != nil {
		return fmt.Errorf("create hearing: %w", err)
	}
	return nil
}

// Update replaces every field of the hearing identified by hearing.ID. It
// reports false when no row matched.
func (r *HearingRepository) Update(ctx context.Context, exec sqlx.ExtContext, hearing *models.Hearing) (bool, error) {
	if hearing == nil {
		return false, fmt.Errorf("hearing payload is nil")
	}
	normalizeHearing(hearing)

	const query = `UPDATE hearings SET caption = $2, opposing_party = $3, hearing_date = $4, hearing_time = $5, modality = $6,
status = $7, court_number = $8, assigned_user_id = $9, details = $10, info = $11 WHERE id = $1`
	res, err := r.exec(exec).ExecContext(ctx, query,
		hearing.ID, hearing.Caption, hearing.OpposingParty, hearing.Date, hearing.Time, string(hearing.Modality), string(hearing.Status),
		hearing.CourtNumber, hearing.AssignedUserID, hearing.Details, hearing.Info,
	)
	if err != nil {
		return false, fmt.Errorf("update hearing: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("update hearing rows affected: %w", err)
	}
	return affected > 0, nil
}

// Delete removes a hearing. It returns sql.ErrNoRows when nothing matched.
func (r *HearingRepository) Delete(ctx context.Context, exec sqlx.ExtContext, id int64) error {
	res, err := r.exec(exec).ExecContext(ctx, `DELETE FROM hearings WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete hearing: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete hearing rows affected: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func normalizeHearing(h *models.Hearing) {
	h.Date = datetime.NormalizeDate(h.Date)
	h.Time = datetime.NormalizeClock(h.Time)
	if h.AssignedUserID < 0 {
		h.AssignedUserID = 0
	}
}
