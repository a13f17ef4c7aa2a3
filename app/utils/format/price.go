package format

import (
	"github.com/leekchan/accounting"
	"github.com/shopspring/decimal"
)

var inr = accounting.Accounting{Symbol: "₹", Precision: 0, Thousand: ","}

// Price renders a catalog price for display, e.g. "₹12,500".
func Price(amount decimal.Decimal) string {
	return inr.FormatMoneyDecimal(amount)
}
