package enum_test

import (
	"testing"

	"github.com/gongguhub/gonggu/internal/database/types/enum"
	"github.com/stretchr/testify/assert"
)

func TestReportStatusCanTransitionTo(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		from    enum.ReportStatus
		to      enum.ReportStatus
		allowed bool
	}{
		{"pending to processing", enum.ReportStatusPending, enum.ReportStatusProcessing, true},
		{"pending skips to resolved", enum.ReportStatusPending, enum.ReportStatusResolved, false},
		{"processing to resolved", enum.ReportStatusProcessing, enum.ReportStatusResolved, true},
		{"processing to rejected", enum.ReportStatusProcessing, enum.ReportStatusRejected, true},
		{"processing to on hold", enum.ReportStatusProcessing, enum.ReportStatusOnHold, true},
		{"on hold back to processing", enum.ReportStatusOnHold, enum.ReportStatusProcessing, true},
		{"on hold cannot resolve directly", enum.ReportStatusOnHold, enum.ReportStatusResolved, false},
		{"resolved is final", enum.ReportStatusResolved, enum.ReportStatusProcessing, false},
		{"rejected is final", enum.ReportStatusRejected, enum.ReportStatusProcessing, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.allowed, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestReportStatusIsFinal(t *testing.T) {
	t.Parallel()

	assert.True(t, enum.ReportStatusResolved.IsFinal())
	assert.True(t, enum.ReportStatusRejected.IsFinal())
	assert.False(t, enum.ReportStatusPending.IsFinal())
	assert.False(t, enum.ReportStatusOnHold.IsFinal())
}
