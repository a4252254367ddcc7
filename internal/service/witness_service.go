package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/audlex/audlex-api/internal/dto"
	"github.com/audlex/audlex-api/internal/models"
	appErrors "github.com/audlex/audlex-api/pkg/errors"
)

type witnessRepository interface {
	ListByHearing(ctx context.Context, hearingID int64) ([]models.Witness, error)
	FindByID(ctx context.Context, id int64) (*models.Witness, error)
	Create(ctx context.Context, exec sqlx.ExtContext, witness *models.Witness) error
	Update(ctx context.Context, exec sqlx.ExtContext, witness *models.Witness) (bool, error)
	Delete(ctx context.Context, id int64) error
}

type hearingLookup interface {
	FindByID(ctx context.Context, id int64) (*models.HearingRow, error)
}

// WitnessService handles witness use-cases.
type WitnessService struct {
	repo         witnessRepository
	hearings     hearingLookup
	cache        *CacheService
	metrics      *MetricsService
	validator    *validator.Validate
	logger       *zap.Logger
	queryTimeout time.Duration
}

// NewWitnessService constructs the witness service.
func NewWitnessService(repo witnessRepository, hearings hearingLookup, cache *CacheService, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger, queryTimeout time.Duration) *WitnessService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WitnessService{repo: repo, hearings: hearings, cache: cache, metrics: metrics, validator: validate, logger: logger, queryTimeout: queryTimeout}
}

// ListByHearing returns the witnesses of a hearing visible to the session.
// Hearing id 0 lists unassigned witnesses.
func (s *WitnessService) ListByHearing(ctx context.Context, session *models.SessionClaims, hearingID int64) ([]models.Witness, error) {
	if err := s.authorize(ctx, session, hearingID); err != nil {
		return nil, err
	}
	var witnesses []models.Witness
	err := storageCall(ctx, s.queryTimeout, s.metrics, "witnesses.list_by_hearing", func(ctx context.Context) error {
		var err error
		witnesses, err = s.repo.ListByHearing(ctx, hearingID)
		return err
	})
	if err != nil {
		s.logger.Error("failed to fetch witnesses", zap.Int64("hearing_id", hearingID), zap.Error(err))
		return nil, appErrors.Internal(err, "failed to fetch witnesses")
	}
	return witnesses, nil
}

// Create registers a witness. A missing hearing reference stores it unassigned.
func (s *WitnessService) Create(ctx context.Context, session *models.SessionClaims, input dto.WitnessInput) (*models.Witness, error) {
	if err := s.validator.Struct(input); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid witness payload")
	}
	witness := witnessFromInput(input, models.UnassignedHearingID)
	witness.ID = 0
	if err := s.authorize(ctx, session, witness.HearingID); err != nil {
		return nil, err
	}

	err := storageCall(ctx, s.queryTimeout, s.metrics, "witnesses.create", func(ctx context.Context) error {
		return s.repo.Create(ctx, nil, &witness)
	})
	if err != nil {
		s.logger.Error("failed to create witness", zap.Error(err))
		return nil, appErrors.Internal(err, "failed to create witness")
	}
	s.cache.Invalidate(ctx, hearingCacheAll)
	return &witness, nil
}

// Update replaces a witness. The session must be allowed to act on both the
// current and the new hearing.
func (s *WitnessService) Update(ctx context.Context, session *models.SessionClaims, id int64, input dto.WitnessInput) (*models.Witness, error) {
	if err := s.validator.Struct(input); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid witness payload")
	}
	existing, err := s.load(ctx, session, id)
	if err != nil {
		return nil, err
	}

	witness := witnessFromInput(input, existing.HearingID)
	witness.ID = id
	if witness.HearingID != existing.HearingID {
		if err := s.authorize(ctx, session, witness.HearingID); err != nil {
			return nil, err
		}
	}

	var found bool
	err = storageCall(ctx, s.queryTimeout, s.metrics, "witnesses.update", func(ctx context.Context) error {
		var err error
		found, err = s.repo.Update(ctx, nil, &witness)
		return err
	})
	if err != nil {
		s.logger.Error("failed to update witness", zap.Int64("witness_id", id), zap.Error(err))
		return nil, appErrors.Internal(err, "failed to update witness")
	}
	if !found {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "witness not found")
	}
	s.cache.Invalidate(ctx, hearingCacheAll)
	return &witness, nil
}

// Delete removes a witness. The hearing it belonged to is left untouched.
func (s *WitnessService) Delete(ctx context.Context, session *models.SessionClaims, id int64) error {
	if _, err := s.load(ctx, session, id); err != nil {
		return err
	}
	err := storageCall(ctx, s.queryTimeout, s.metrics, "witnesses.delete", func(ctx context.Context) error {
		return s.repo.Delete(ctx, id)
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "witness not found")
		}
		s.logger.Error("failed to delete witness", zap.Int64("witness_id", id), zap.Error(err))
		return appErrors.Internal(err, "failed to delete witness")
	}
	s.cache.Invalidate(ctx, hearingCacheAll)
	return nil
}

func (s *WitnessService) load(ctx context.Context, session *models.SessionClaims, id int64) (*models.Witness, error) {
	var witness *models.Witness
	err := storageCall(ctx, s.queryTimeout, s.metrics, "witnesses.find_by_id", func(ctx context.Context) error {
		var err error
		witness, err = s.repo.FindByID(ctx, id)
		return err
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "witness not found")
		}
		s.logger.Error("failed to fetch witness", zap.Int64("witness_id", id), zap.Error(err))
		return nil, appErrors.Internal(err, "failed to fetch witness")
	}
	if err := s.authorize(ctx, session, witness.HearingID); err != nil {
		return nil, err
	}
	return witness, nil
}

// authorize checks that hearingID exists and that the session may act on it.
// Unassigned witnesses are open to every session.
func (s *WitnessService) authorize(ctx context.Context, session *models.SessionClaims, hearingID int64) error {
	if session == nil {
		return appErrors.Clone(appErrors.ErrUnauthorized, "")
	}
	if hearingID == models.UnassignedHearingID {
		return nil
	}
	var hearing *models.HearingRow
	err := storageCall(ctx, s.queryTimeout, s.metrics, "hearings.find_by_id", func(ctx context.Context) error {
		var err error
		hearing, err = s.hearings.FindByID(ctx, hearingID)
		return err
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "hearing not found")
		}
		s.logger.Error("failed to fetch hearing", zap.Int64("hearing_id", hearingID), zap.Error(err))
		return appErrors.Internal(err, "failed to fetch hearing")
	}
	if !session.CanActOn(hearing.AssignedUserID) {
		return appErrors.Clone(appErrors.ErrForbidden, "hearing is assigned to another user")
	}
	return nil
}
