package dto

import (
	"math/big"

	"github.com/shopspring/decimal"
)

// UIAmount renders base units as a decimal string scaled by the mint's decimals.
func UIAmount(amount uint64, decimals uint8) string {
	return decimal.NewFromBigInt(new(big.Int).SetUint64(amount), -int32(decimals)).StringFixed(int32(decimals))
}
