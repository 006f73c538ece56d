package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestCalculateCommission(t *testing.T) {
	tests := []struct {
		name  string
		price int64
		rate  string
		want  int64
	}{
		{"exact", 5000, "0.10", 500},
		{"rounds half up", 25, "0.10", 3},
		{"rounds down", 24, "0.10", 2},
		{"small price", 99, "0.15", 15},
		{"zero rate", 5000, "0", 0},
		{"full rate", 5000, "1", 5000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rate := decimal.RequireFromString(tt.rate)
			assert.Equal(t, tt.want, CalculateCommission(tt.price, rate))
		})
	}
}
