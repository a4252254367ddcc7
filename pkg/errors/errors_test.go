package errors

import (
	"database/sql"
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromErrorWrapsUnknown(t *testing.T) {
	appErr := FromError(sql.ErrConnDone)
	assert.Equal(t, ErrInternal.Code, appErr.Code)
	assert.Equal(t, http.StatusInternalServerError, appErr.Status)
	assert.Equal(t, ErrInternal.Message, appErr.Message)
	assert.ErrorIs(t, appErr, sql.ErrConnDone)
}

func TestFromErrorKeepsTyped(t *testing.T) {
	original := Clone(ErrNotFound, "hearing not found")
	wrapped := fmt.Errorf("handler: %w", original)
	assert.Same(t, original, FromError(wrapped))
}

func TestClonedSentinelMatchesByCode(t *testing.T) {
	err := Clone(ErrNotFound, "witness not found")
	assert.True(t, stderrors.Is(err, ErrNotFound))
	assert.False(t, stderrors.Is(err, ErrForbidden))
}

func TestInternalHidesCauseFromMessage(t *testing.T) {
	err := Internal(stderrors.New("pq: relation does not exist"), "failed to fetch hearings")
	assert.Equal(t, "failed to fetch hearings", err.Message)
	assert.Equal(t, ErrInternal.Code, err.Code)
	assert.Contains(t, err.Error(), "pq: relation")
}
