package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOrderStatusTransitions(t *testing.T) {
	tests := []struct {
		status      OrderStatusType
		canAccept   bool
		canProgress bool
		canConfirm  bool
		canCancel   bool
		terminal    bool
	}{
		{OrderStatusPending, true, false, false, true, false},
		{OrderStatusAccepted, false, true, false, false, false},
		{OrderStatusInProgress, false, true, false, false, false},
		{OrderStatusPaused, false, false, false, false, false},
		{OrderStatusConfirming, false, false, true, false, false},
		{OrderStatusCompleted, false, false, false, false, true},
		{OrderStatusCancelled, false, false, false, false, true},
		{OrderStatusDisputed, false, false, false, false, true},
		{OrderStatusRefunded, false, false, false, false, true},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			assert.Equal(t, tt.canAccept, tt.status.CanAccept())
			assert.Equal(t, tt.canProgress, tt.status.CanProgress())
			assert.Equal(t, tt.canConfirm, tt.status.CanConfirm())
			assert.Equal(t, tt.canCancel, tt.status.CanCancel())
			assert.Equal(t, tt.terminal, tt.status.IsTerminal())
		})
	}
}

func TestOpenOrderStatusesExcludeTerminal(t *testing.T) {
	for _, status := range OpenOrderStatuses() {
		assert.False(t, status.IsTerminal(), "status %s", status)
	}
}
