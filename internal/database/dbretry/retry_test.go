package dbretry_test

import (
	"context"
	"errors"
	"testing"

	"github.com/gongguhub/gonggu/internal/database/dbretry"
	"github.com/gongguhub/gonggu/internal/database/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsRetryableError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		err       error
		retryable bool
	}{
		{"nil error", nil, false},
		{"business rule violation", types.ErrAlreadyDecided, false},
		{"wrapped business rule violation", errors.New("decision already made: bid 5"), false},
		{"context deadline", context.DeadlineExceeded, true},
		{"context cancelled", context.Canceled, true},
		{"connection reset", errors.New("read tcp: connection reset by peer"), true},
		{"broken pipe", errors.New("write tcp: broken pipe"), true},
		{"connection refused", errors.New("dial tcp: connection refused"), true},
		{"io timeout", errors.New("read tcp: i/o timeout"), true},
		{"unexpected EOF", errors.New("unexpected EOF"), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.retryable, dbretry.IsRetryableError(tt.err))
		})
	}
}

func TestOperationDoesNotRetryBusinessErrors(t *testing.T) {
	t.Parallel()

	calls := 0

	_, err := dbretry.Operation(context.Background(), func(context.Context) (int, error) {
		calls++
		return 0, types.ErrInvalidTransition
	})

	require.ErrorIs(t, err, types.ErrInvalidTransition)
	assert.Equal(t, 1, calls)
}

func TestOperationRetriesTransientErrors(t *testing.T) {
	t.Parallel()

	calls := 0

	result, err := dbretry.Operation(context.Background(), func(context.Context) (int, error) {
		calls++
		if calls < 3 {
			return 0, errors.New("read tcp: connection reset by peer")
		}

		return 42, nil
	})

	require.NoError(t, err)
	assert.Equal(t, 42, result)
	assert.Equal(t, 3, calls)
}

func TestNoResultPreservesSentinels(t *testing.T) {
	t.Parallel()

	err := dbretry.NoResult(context.Background(), func(context.Context) error {
		return types.ErrGroupBuyNotFound
	})

	require.ErrorIs(t, err, types.ErrGroupBuyNotFound)
}
