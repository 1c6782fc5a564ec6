package repositories

import (
	"errors"
	"testing"

	"github.com/avatarctic/content-board/internal/core/ports"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/stretchr/testify/require"
)

func TestTranslateError_RetryableCodesBecomeConflicts(t *testing.T) {
	for _, code := range []pq.ErrorCode{"40001", "40P01", "23505"} {
		err := translateError(&pq.Error{Code: code}, "commit")
		require.True(t, ports.IsConflict(err), "code %s", code)

		var pqErr *pq.Error
		require.ErrorAs(t, err, &pqErr)
	}
}

func TestTranslateError_KeepsBoardErrorsAndWrapsOthers(t *testing.T) {
	forbidden := ports.NewBoardError(ports.BoardCodeForbidden, "nope")
	require.Same(t, forbidden, translateError(forbidden, "tx"))

	cause := errors.New("connection reset")
	err := translateError(cause, "failed to commit card transaction")
	require.ErrorIs(t, err, cause)
	require.Equal(t, ports.BoardCodeUnknown, ports.BoardErrorCode(err))
	require.Contains(t, err.Error(), "failed to commit card transaction")

	err = translateError(&pq.Error{Code: "23503"}, "insert")
	require.False(t, ports.IsConflict(err))
}

func TestStageLockKey(t *testing.T) {
	team, a, b := uuid.New(), uuid.New(), uuid.New()
	require.Equal(t, StageLockKey(team, a), StageLockKey(team, a))
	require.NotEqual(t, StageLockKey(team, a), StageLockKey(team, b))
	require.NotEqual(t, StageLockKey(team, a), StageLockKey(uuid.New(), a))
}
