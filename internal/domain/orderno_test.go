package domain

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateOrderNo(t *testing.T) {
	now := time.Date(2026, 1, 2, 15, 30, 45, 0, time.UTC)
	orderNo := GenerateOrderNo(now)

	require.Len(t, orderNo, 20)
	assert.True(t, strings.HasPrefix(orderNo, "DL20260102153045"))

	suffix := orderNo[16:]
	for _, r := range suffix {
		assert.True(t, r >= '0' && r <= '9', "suffix must be digits, got %q", suffix)
	}
}
