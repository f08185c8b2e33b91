package usecase

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	domain "github.com/jhjdev/bartender-order-service-sub000/internal/entity"
)

func TestValidateStatusTransition(t *testing.T) {
	tests := []struct {
		name    string
		from    domain.OrderStatus
		to      domain.OrderStatus
		allowed bool
	}{
		{"pending to in_progress", domain.StatusPending, domain.StatusInProgress, true},
		{"pending to cancelled", domain.StatusPending, domain.StatusCancelled, true},
		{"pending straight to completed", domain.StatusPending, domain.StatusCompleted, false},
		{"in_progress to completed", domain.StatusInProgress, domain.StatusCompleted, true},
		{"in_progress to cancelled", domain.StatusInProgress, domain.StatusCancelled, true},
		{"in_progress back to pending", domain.StatusInProgress, domain.StatusPending, false},
		{"completed reopened", domain.StatusCompleted, domain.StatusPending, false},
		{"completed to in_progress", domain.StatusCompleted, domain.StatusInProgress, false},
		{"completed to cancelled", domain.StatusCompleted, domain.StatusCancelled, false},
		{"cancelled revived", domain.StatusCancelled, domain.StatusInProgress, false},
		{"pending no-op", domain.StatusPending, domain.StatusPending, true},
		{"in_progress no-op", domain.StatusInProgress, domain.StatusInProgress, true},
		{"completed no-op", domain.StatusCompleted, domain.StatusCompleted, true},
		{"cancelled no-op", domain.StatusCancelled, domain.StatusCancelled, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateStatusTransition(tt.from, tt.to)
			if tt.allowed {
				assert.NoError(t, err)
				return
			}
			var ite *InvalidTransitionError
			assert.ErrorAs(t, err, &ite)
			assert.Equal(t, tt.from, ite.From)
			assert.Equal(t, tt.to, ite.To)
		})
	}
}

func TestCompletionTimestamp(t *testing.T) {
	now := time.Date(2025, 3, 14, 21, 30, 0, 0, time.UTC)

	t.Run("first entry into completed stamps now", func(t *testing.T) {
		got := CompletionTimestamp(nil, domain.StatusCompleted, now)
		if assert.NotNil(t, got) {
			assert.Equal(t, now, *got)
		}
	})

	t.Run("existing marker is kept", func(t *testing.T) {
		earlier := now.Add(-time.Hour)
		assert.Nil(t, CompletionTimestamp(&earlier, domain.StatusCompleted, now))
	})

	t.Run("other transitions leave it unset", func(t *testing.T) {
		assert.Nil(t, CompletionTimestamp(nil, domain.StatusInProgress, now))
		assert.Nil(t, CompletionTimestamp(nil, domain.StatusCancelled, now))
	})
}
