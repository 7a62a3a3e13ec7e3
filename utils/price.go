package utils

import (
	"github.com/leekchan/accounting"
	"github.com/shopspring/decimal"
)

var priceFormatter = accounting.Accounting{Symbol: "$", Precision: 2}

// FormatPrice renders a menu price with two decimals, e.g. 4.5 -> "$4.50".
func FormatPrice(amount decimal.Decimal) string {
	return priceFormatter.FormatMoney(amount.Round(2).InexactFloat64())
}
