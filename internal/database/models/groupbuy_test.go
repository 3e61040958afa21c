package models_test

import (
	"testing"

	"github.com/gongguhub/gonggu/internal/database/models"
	"github.com/stretchr/testify/assert"
)

func TestParticipantCountFull(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		count models.ParticipantCount
		full  bool
	}{
		{
			name:  "below the cap",
			count: models.ParticipantCount{Current: 8, Max: 10},
			full:  false,
		},
		{
			name:  "second-to-last slot",
			count: models.ParticipantCount{Current: 9, Max: 10},
			full:  false,
		},
		{
			name:  "last slot",
			count: models.ParticipantCount{Current: 10, Max: 10},
			full:  true,
		},
		{
			name:  "single-slot group-buy",
			count: models.ParticipantCount{Current: 1, Max: 1},
			full:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.full, tt.count.Full())
		})
	}

	// Two joins racing for the last two slots each get their own post-claim
	// count, so exactly one of them observes the cap.
	t.Run("racing joins observe distinct counts", func(t *testing.T) {
		t.Parallel()

		first := models.ParticipantCount{Current: 9, Max: 10}
		second := models.ParticipantCount{Current: 10, Max: 10}

		assert.False(t, first.Full())
		assert.True(t, second.Full())
	})
}
