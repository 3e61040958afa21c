package types_test

import (
	"testing"
	"time"

	"github.com/gongguhub/gonggu/internal/database/types"
	"github.com/stretchr/testify/assert"
)

func TestClampConsentHours(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		hours int
		want  int
	}{
		{"zero uses the default", 0, types.ConsentDefaultHours},
		{"below minimum clamps up", -5, types.ConsentMinHours},
		{"above maximum clamps down", 500, types.ConsentMaxHours},
		{"minimum passes through", 1, 1},
		{"maximum passes through", 168, 168},
		{"in range passes through", 48, 48},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, types.ClampConsentHours(tt.hours))
		})
	}
}

func TestConsentProcessExpired(t *testing.T) {
	t.Parallel()

	deadline := time.Date(2025, 8, 1, 12, 0, 0, 0, time.UTC)
	process := &types.ConsentProcess{Deadline: deadline}

	assert.False(t, process.Expired(deadline.Add(-time.Second)))
	assert.True(t, process.Expired(deadline))
	assert.True(t, process.Expired(deadline.Add(time.Hour)))
}
