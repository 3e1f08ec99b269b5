package networth

import (
	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// FormatMoney formats a value of commodity. ISO currencies use their usual
// symbol and separators, other commodities read "QUANTITY CODE".
func FormatMoney(value decimal.Decimal, commodity string) string {
	cur := money.GetCurrency(commodity)
	if cur == nil {
		return Amount{Quantity: value, Commodity: commodity}.String()
	}
	minor := value.Shift(int32(cur.Fraction)).Round(0)
	return cur.Formatter().Format(minor.IntPart())
}
