package services

import (
	"smartpay/internal/core"
)

// SpendByMonth groups transaction amounts by category over one calendar
// month. It is a pure function of its inputs so callers can recompute it
// whenever the window or the transaction set changes. Categories with no
// transactions in the window simply have no entry.
func SpendByMonth(txns []core.Transaction, window core.MonthWindow) core.SpendByCategory {
	spend := make(core.SpendByCategory)
	for _, txn := range txns {
		if !window.Contains(txn.Date) {
			continue
		}
		sum := spend[txn.Category]
		sum.Cents += txn.Amount.Cents
		spend[txn.Category] = sum
	}
	return spend
}

// TotalSpend sums an aggregate across all categories.
func TotalSpend(spend core.SpendByCategory) core.Money {
	var total core.Money
	for _, amount := range spend {
		total.Cents += amount.Cents
	}
	return total
}
