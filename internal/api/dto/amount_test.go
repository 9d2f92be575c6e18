package dto

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUIAmount(t *testing.T) {
	tests := []struct {
		amount   uint64
		decimals uint8
		want     string
	}{
		{100, 0, "100"},
		{100, 9, "0.000000100"},
		{10000 * 1_000_000_000, 9, "10000.000000000"},
		{math.MaxUint64, 18, "18.446744073709551615"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, UIAmount(tt.amount, tt.decimals))
	}
}
