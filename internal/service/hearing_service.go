package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/audlex/audlex-api/internal/dto"
	"github.com/audlex/audlex-api/internal/models"
	"github.com/audlex/audlex-api/pkg/datetime"
	appErrors "github.com/audlex/audlex-api/pkg/errors"
)

type hearingRepository interface {
	List(ctx context.Context, filter models.HearingFilter) ([]models.HearingRow, error)
	FindByID(ctx context.Context, id int64) (*models.HearingRow, error)
	Create(ctx context.Context, exec sqlx.ExtContext, hearing *models.Hearing) error
	Update(ctx context.Context, exec sqlx.ExtContext, hearing *models.Hearing) (bool, error)
	Delete(ctx context.Context, exec sqlx.ExtContext, id int64) error
}

type hearingWitnessRepository interface {
	ListByHearing(ctx context.Context, hearingID int64) ([]models.Witness, error)
	FindByID(ctx context.Context, id int64) (*models.Witness, error)
	Create(ctx context.Context, exec sqlx.ExtContext, witness *models.Witness) error
	Update(ctx context.Context, exec sqlx.ExtContext, witness *models.Witness) (bool, error)
	DetachFromHearing(ctx context.Context, exec sqlx.ExtContext, hearingID int64) error
}

type userLookup interface {
	FindByName(ctx context.Context, name string) (*models.User, error)
}

// HearingServiceConfig tunes storage access for hearing operations.
type HearingServiceConfig struct {
	QueryTimeout            time.Duration
	WitnessFetchConcurrency int
	CacheTTL                time.Duration
}

// HearingService implements hearing search and the hearing write paths.
type HearingService struct {
	hearings  hearingRepository
	witnesses hearingWitnessRepository
	users     userLookup
	tx        txProvider
	cache     *CacheService
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
	config    HearingServiceConfig
}

// NewHearingService constructs the hearing service. cache and metrics may be nil.
func NewHearingService(
	hearings hearingRepository,
	witnesses hearingWitnessRepository,
	users userLookup,
	tx txProvider,
	cache *CacheService,
	metrics *MetricsService,
	validate *validator.Validate,
	logger *zap.Logger,
	config HearingServiceConfig,
) *HearingService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if config.QueryTimeout <= 0 {
		config.QueryTimeout = defaultQueryTimeout
	}
	if config.WitnessFetchConcurrency <= 0 {
		config.WitnessFetchConcurrency = 4
	}
	return &HearingService{
		hearings:  hearings,
		witnesses: witnesses,
		users:     users,
		tx:        tx,
		cache:     cache,
		metrics:   metrics,
		validator: validate,
		logger:    logger,
		config:    config,
	}
}

// List runs a hearing search. Level 1 sessions only see hearings assigned to
// them. An assigned-user name that matches nobody yields an empty result.
func (s *HearingService) List(ctx context.Context, session *models.SessionClaims, filter models.HearingFilter) ([]dto.HearingView, error) {
	if session == nil {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "")
	}

	filter.AssignedUserID = nil
	filter.ScopeUserID = nil
	if !session.Privileged() {
		scope := session.UserID
		filter.ScopeUserID = &scope
	}

	if name := strings.TrimSpace(filter.AssignedUserName); name != "" {
		var user *models.User
		err := storageCall(ctx, s.config.QueryTimeout, s.metrics, "users.find_by_name", func(ctx context.Context) error {
			var err error
			user, err = s.users.FindByName(ctx, name)
			return err
		})
		if errors.Is(err, sql.ErrNoRows) {
			return []dto.HearingView{}, nil
		}
		if err != nil {
			s.logger.Error("failed to resolve assigned user", zap.String("name", name), zap.Error(err))
			return nil, appErrors.Internal(err, "failed to fetch hearings")
		}
		filter.AssignedUserID = &user.ID
	}

	key := cacheKey(hearingCachePrefix, filter)
	if key != "" {
		var cached []dto.HearingView
		if s.cache.Get(ctx, key, &cached) {
			return cached, nil
		}
	}

	var rows []models.HearingRow
	err := storageCall(ctx, s.config.QueryTimeout, s.metrics, "hearings.list", func(ctx context.Context) error {
		var err error
		rows, err = s.hearings.List(ctx, filter)
		return err
	})
	if err != nil {
		s.logger.Error("failed to fetch hearings", zap.Error(err))
		return nil, appErrors.Internal(err, "failed to fetch hearings")
	}

	witnesses, err := s.fetchWitnesses(ctx, rows)
	if err != nil {
		s.logger.Error("failed to fetch witnesses", zap.Int("hearings", len(rows)), zap.Error(err))
		return nil, appErrors.Internal(err, "failed to fetch witnesses")
	}

	views := ComposeHearings(rows, witnesses, filter.WitnessName)
	if key != "" {
		s.cache.Set(ctx, key, views, s.config.CacheTTL)
	}
	return views, nil
}

// Get returns one composed hearing.
func (s *HearingService) Get(ctx context.Context, session *models.SessionClaims, id int64) (*dto.HearingView, error) {
	row, err := s.loadVisible(ctx, session, id)
	if err != nil {
		return nil, err
	}

	witnesses, err := s.fetchWitnesses(ctx, []models.HearingRow{*row})
	if err != nil {
		s.logger.Error("failed to fetch witnesses", zap.Int64("hearing_id", id), zap.Error(err))
		return nil, appErrors.Internal(err, "failed to fetch witnesses")
	}
	view := composeHearing(*row, witnesses[row.ID])
	return &view, nil
}

// Create stores a hearing with its inline witnesses in one transaction.
// Only privileged sessions may create.
func (s *HearingService) Create(ctx context.Context, session *models.SessionClaims, req dto.HearingRequest) (*dto.HearingView, error) {
	if session == nil {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "")
	}
	if !session.Privileged() {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "insufficient privilege level")
	}
	hearing, err := s.hearingFromRequest(req)
	if err != nil {
		return nil, err
	}

	err = s.inTx(ctx, func(ctx context.Context, tx *sqlx.Tx) error {
		if err := s.hearings.Create(ctx, tx, hearing); err != nil {
			return appErrors.Internal(err, "failed to create hearing")
		}
		for _, input := range req.Witnesses {
			witness := witnessFromInput(input, hearing.ID)
			witness.ID = 0
			witness.HearingID = hearing.ID
			if err := s.witnesses.Create(ctx, tx, &witness); err != nil {
				return appErrors.Internal(err, "failed to create witness")
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.cache.Invalidate(ctx, hearingCacheAll)
	s.logger.Info("hearing created", zap.Int64("hearing_id", hearing.ID), zap.Int64("user_id", session.UserID), zap.Int("witnesses", len(req.Witnesses)))
	return s.Get(ctx, session, hearing.ID)
}

// Update replaces a hearing. When WitnessesModified is set the witnesses in
// the payload are written in the same transaction and attached to this
// hearing: entries with an id are updated, the rest are created. Only
// privileged sessions may reassign a hearing or take over a witness from
// another hearing.
func (s *HearingService) Update(ctx context.Context, session *models.SessionClaims, id int64, req dto.HearingRequest) (*dto.HearingView, error) {
	current, err := s.loadVisible(ctx, session, id)
	if err != nil {
		return nil, err
	}

	hearing, err := s.hearingFromRequest(req)
	if err != nil {
		return nil, err
	}
	hearing.ID = id
	if hearing.AssignedUserID != current.AssignedUserID && !session.Privileged() {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "only privileged users may reassign hearings")
	}

	err = s.inTx(ctx, func(ctx context.Context, tx *sqlx.Tx) error {
		found, err := s.hearings.Update(ctx, tx, hearing)
		if err != nil {
			return appErrors.Internal(err, "failed to update hearing")
		}
		if !found {
			return appErrors.Clone(appErrors.ErrNotFound, "hearing not found")
		}
		if !req.WitnessesModified {
			return nil
		}
		for _, input := range req.Witnesses {
			witness := witnessFromInput(input, id)
			witness.HearingID = id
			if witness.ID == 0 {
				if err := s.witnesses.Create(ctx, tx, &witness); err != nil {
					return appErrors.Internal(err, "failed to create witness")
				}
				continue
			}
			if err := s.checkWitnessOwner(ctx, session, witness.ID, id); err != nil {
				return err
			}
			found, err := s.witnesses.Update(ctx, tx, &witness)
			if err != nil {
				return appErrors.Internal(err, "failed to update witness")
			}
			if !found {
				return appErrors.Clone(appErrors.ErrNotFound, "witness not found")
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.cache.Invalidate(ctx, hearingCacheAll)
	s.logger.Info("hearing updated", zap.Int64("hearing_id", id), zap.Int64("user_id", session.UserID), zap.Bool("witnesses_modified", req.WitnessesModified))
	return s.Get(ctx, session, id)
}

// Delete removes a hearing and detaches its witnesses in one transaction.
// Only privileged sessions may delete.
func (s *HearingService) Delete(ctx context.Context, session *models.SessionClaims, id int64) error {
	if session == nil {
		return appErrors.Clone(appErrors.ErrUnauthorized, "")
	}
	if !session.Privileged() {
		return appErrors.Clone(appErrors.ErrForbidden, "insufficient privilege level")
	}

	err := s.inTx(ctx, func(ctx context.Context, tx *sqlx.Tx) error {
		if err := s.witnesses.DetachFromHearing(ctx, tx, id); err != nil {
			return appErrors.Internal(err, "failed to detach witnesses")
		}
		if err := s.hearings.Delete(ctx, tx, id); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return appErrors.Clone(appErrors.ErrNotFound, "hearing not found")
			}
			return appErrors.Internal(err, "failed to delete hearing")
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.cache.Invalidate(ctx, hearingCacheAll)
	s.logger.Info("hearing deleted", zap.Int64("hearing_id", id), zap.Int64("user_id", session.UserID))
	return nil
}

// checkWitnessOwner allows writing witnessID through hearingID when the
// witness already belongs to that hearing, is unassigned, or the session is
// privileged.
func (s *HearingService) checkWitnessOwner(ctx context.Context, session *models.SessionClaims, witnessID, hearingID int64) error {
	existing, err := s.witnesses.FindByID(ctx, witnessID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "witness not found")
		}
		return appErrors.Internal(err, "failed to fetch witness")
	}
	if existing.HearingID == hearingID || existing.HearingID == models.UnassignedHearingID || session.Privileged() {
		return nil
	}
	return appErrors.Clone(appErrors.ErrForbidden, "witness belongs to another hearing")
}

// loadVisible fetches a hearing the session is allowed to see. Hearings of
// other users look absent to level 1 sessions.
func (s *HearingService) loadVisible(ctx context.Context, session *models.SessionClaims, id int64) (*models.HearingRow, error) {
	if session == nil {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "")
	}
	var row *models.HearingRow
	err := storageCall(ctx, s.config.QueryTimeout, s.metrics, "hearings.find_by_id", func(ctx context.Context) error {
		var err error
		row, err = s.hearings.FindByID(ctx, id)
		return err
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "hearing not found")
		}
		s.logger.Error("failed to fetch hearing", zap.Int64("hearing_id", id), zap.Error(err))
		return nil, appErrors.Internal(err, "failed to fetch hearing")
	}
	if !session.CanActOn(row.AssignedUserID) {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "hearing not found")
	}
	return row, nil
}

// fetchWitnesses loads the witnesses of every row concurrently, bounded by
// the configured limit. The first failure cancels the remaining lookups.
func (s *HearingService) fetchWitnesses(ctx context.Context, rows []models.HearingRow) (map[int64][]models.Witness, error) {
	lists := make([][]models.Witness, len(rows))
	err := storageCall(ctx, s.config.QueryTimeout, s.metrics, "witnesses.list_by_hearing", func(ctx context.Context) error {
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(s.config.WitnessFetchConcurrency)
		for i := range rows {
			g.Go(func() error {
				list, err := s.witnesses.ListByHearing(gctx, rows[i].ID)
				if err != nil {
					return err
				}
				lists[i] = list
				return nil
			})
		}
		return g.Wait()
	})
	if err != nil {
		return nil, err
	}

	byHearing := make(map[int64][]models.Witness, len(rows))
	for i, row := range rows {
		byHearing[row.ID] = lists[i]
	}
	return byHearing, nil
}

// inTx runs fn in a transaction bounded by the storage timeout. Any error
// rolls back every write made by fn. Errors returned by fn are passed through;
// other failures become internal errors.
func (s *HearingService) inTx(ctx context.Context, fn func(ctx context.Context, tx *sqlx.Tx) error) error {
	if s.tx == nil {
		return appErrors.Clone(appErrors.ErrInternal, "transaction provider missing")
	}
	return storageCall(ctx, s.config.QueryTimeout, s.metrics, "hearings.tx", func(ctx context.Context) error {
		tx, err := s.tx.BeginTxx(ctx, nil)
		if err != nil {
			s.logger.Error("failed to begin transaction", zap.Error(err))
			return appErrors.Internal(err, "failed to begin transaction")
		}
		defer func() {
			if err != nil {
				if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
					s.logger.Warn("rollback failed", zap.Error(rbErr))
				}
			}
		}()

		if err = fn(ctx, tx); err != nil {
			if appErr := appErrors.FromError(err); appErr.Status >= 500 {
				s.logger.Error(appErr.Message, zap.Error(appErr.Err))
			}
			return err
		}
		if err = tx.Commit(); err != nil {
			s.logger.Error("failed to commit transaction", zap.Error(err))
			return appErrors.Internal(err, "failed to commit transaction")
		}
		return nil
	})
}

func (s *HearingService) hearingFromRequest(req dto.HearingRequest) (*models.Hearing, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid hearing payload")
	}
	date, err := datetime.ParseDate(req.Date)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "date must be YYYY-MM-DD")
	}
	clock, err := datetime.ParseClock(req.Time)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "time must be HH:MM")
	}
	return &models.Hearing{
		Caption:        strings.TrimSpace(req.Caption),
		OpposingParty:  strings.TrimSpace(req.OpposingParty),
		Date:           date,
		Time:           clock,
		Modality:       req.Modality,
		Status:         req.Status,
		CourtNumber:    req.CourtNumber,
		AssignedUserID: req.AssignedUserID,
		Details:        blankToNil(req.Details),
		Info:           blankToNil(req.Info),
	}, nil
}

// witnessFromInput maps a payload onto a witness. An explicit hearingId in
// the payload wins over defaultHearing.
func witnessFromInput(input dto.WitnessInput, defaultHearing int64) models.Witness {
	hearingID := defaultHearing
	if input.HearingID != nil {
		hearingID = *input.HearingID
	}
	return models.Witness{
		ID:        input.ID,
		FirstName: strings.TrimSpace(input.FirstName),
		LastName:  strings.TrimSpace(input.LastName),
		Email:     strings.TrimSpace(input.Email),
		Flagged:   input.Flagged,
		Phone:     strings.TrimSpace(input.Phone),
		HearingID: hearingID,
		Difficult: input.Difficult,
	}
}

func blankToNil(v *string) *string {
	if v == nil || strings.TrimSpace(*v) == "" {
		return nil
	}
	return v
}
