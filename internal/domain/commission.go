package domain

import "github.com/shopspring/decimal"

// CalculateCommission считает комиссию платформы от цены заказа в минорных
// единицах. Округление — арифметическое, половина от нуля: 50.5 -> 51.
func CalculateCommission(price int64, rate decimal.Decimal) int64 {
	return decimal.NewFromInt(price).Mul(rate).Round(0).IntPart()
}
