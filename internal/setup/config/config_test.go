package config_test

import (
	"testing"

	"github.com/gongguhub/gonggu/internal/setup/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPolicyValidate(t *testing.T) {
	t.Parallel()

	t.Run("known values pass", func(t *testing.T) {
		t.Parallel()

		policy := &config.Policy{
			ConsentFailure: config.ConsentFailureCancel,
			PenaltyOverlap: config.PenaltyOverlapSupersede,
		}
		require.NoError(t, policy.Validate())

		policy.ConsentFailure = config.ConsentFailureReopen
		policy.PenaltyOverlap = config.PenaltyOverlapStack
		require.NoError(t, policy.Validate())
	})

	t.Run("unknown consent failure policy is rejected", func(t *testing.T) {
		t.Parallel()

		policy := &config.Policy{
			ConsentFailure: "retry",
			PenaltyOverlap: config.PenaltyOverlapSupersede,
		}
		require.ErrorIs(t, policy.Validate(), config.ErrInvalidPolicy)
	})

	t.Run("unknown penalty overlap policy is rejected", func(t *testing.T) {
		t.Parallel()

		policy := &config.Policy{
			ConsentFailure: config.ConsentFailureCancel,
			PenaltyOverlap: "merge",
		}
		require.ErrorIs(t, policy.Validate(), config.ErrInvalidPolicy)
	})
}

func TestPolicyHelpers(t *testing.T) {
	t.Parallel()

	policy := &config.Policy{
		ConsentFailure: config.ConsentFailureReopen,
		PenaltyOverlap: config.PenaltyOverlapStack,
	}
	assert.True(t, policy.ReopenOnConsentFailure())
	assert.True(t, policy.StackPenalties())

	policy.ConsentFailure = config.ConsentFailureCancel
	policy.PenaltyOverlap = config.PenaltyOverlapSupersede
	assert.False(t, policy.ReopenOnConsentFailure())
	assert.False(t, policy.StackPenalties())
}
