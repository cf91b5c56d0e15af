package services

import (
	"testing"
	"time"

	"smartpay/internal/core"
)

func txn(cents int64, merchant string, cat core.Category, y, m, d int) core.Transaction {
	return core.Transaction{
		Amount:   core.Money{Cents: cents},
		Merchant: merchant,
		Category: cat,
		Date:     core.NewDate(y, m, d),
	}
}

func TestSpendByMonth(t *testing.T) {
	txns := []core.Transaction{
		txn(125000, "Bank Debit", core.CategoryOther, 2024, 1, 5),
		txn(35000, "Swiggy Order", core.CategoryFood, 2024, 1, 7),
		txn(49900, "Netflix Subscription", core.CategoryEntertainment, 2024, 1, 10),
		txn(20000, "Zomato", core.CategoryFood, 2024, 1, 20),
		txn(99900, "Swiggy Order", core.CategoryFood, 2024, 2, 1),  // outside window
		txn(11100, "Bank Debit", core.CategoryOther, 2023, 1, 15), // same month, other year
	}
	window := core.MonthWindow{Year: 2024, Month: time.January}

	spend := SpendByMonth(txns, window)

	if got := spend[core.CategoryFood].Cents; got != 55000 {
		t.Errorf("Food = %d, want 55000", got)
	}
	if got := spend[core.CategoryOther].Cents; got != 125000 {
		t.Errorf("Other = %d, want 125000", got)
	}
	if got := spend[core.CategoryEntertainment].Cents; got != 49900 {
		t.Errorf("Entertainment = %d, want 49900", got)
	}
	// Categories absent from the window yield zero, not an error
	if got := spend[core.CategoryTravel].Cents; got != 0 {
		t.Errorf("Travel = %d, want 0", got)
	}

	if got := TotalSpend(spend).Cents; got != 229900 {
		t.Errorf("total = %d, want 229900", got)
	}
}

func TestSpendByMonthRepeatable(t *testing.T) {
	txns := []core.Transaction{
		txn(1000, "a", core.CategoryFood, 2024, 3, 1),
		txn(2000, "b", core.CategoryFood, 2024, 3, 2),
	}
	window := core.MonthWindow{Year: 2024, Month: time.March}

	first := SpendByMonth(txns, window)
	second := SpendByMonth(txns, window)
	if first[core.CategoryFood] != second[core.CategoryFood] {
		t.Fatalf("aggregation not repeatable: %v vs %v", first, second)
	}
}

func TestSpendByMonthEmpty(t *testing.T) {
	spend := SpendByMonth(nil, core.MonthWindow{Year: 2024, Month: time.January})
	if len(spend) != 0 {
		t.Fatalf("expected empty aggregate, got %v", spend)
	}
}
