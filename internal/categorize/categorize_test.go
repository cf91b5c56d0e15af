package categorize

import (
	"testing"

	"smartpay/internal/core"
)

func TestMerchant(t *testing.T) {
	tests := []struct {
		label string
		want  core.Category
	}{
		{"Netflix Subscription", core.CategoryEntertainment},
		{"NETFLIX", core.CategoryEntertainment},
		{"Amazon Prime Video", core.CategoryEntertainment}, // prime outranks amazon: first group wins
		{"Swiggy Order", core.CategoryFood},
		{"zomato", core.CategoryFood},
		{"Amazon Shopping", core.CategoryShopping},
		{"Flipkart Sale", core.CategoryShopping},
		{"DMart Super Market", core.CategoryGroceries},
		{"EMI Payment", core.CategoryBills},
		{"Home Loan Installment", core.CategoryBills},
		{"Credit Card Bill", core.CategoryBills},
		{"HP Petrol Pump", core.CategoryTravel},
		{"Indian Oil", core.CategoryTravel},
		{"PMPL Bus Pass", core.CategoryTravel},
		{"Bank Debit", core.CategoryOther},
		{"Unknown Store", core.CategoryOther},
		{"", core.CategoryOther},
	}
	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			if got := Merchant(tt.label); got != tt.want {
				t.Errorf("Merchant(%q) = %s, want %s", tt.label, got, tt.want)
			}
		})
	}
}

func TestMerchantOrderIsSignificant(t *testing.T) {
	// "Amazon Prime" holds keywords from two groups; the entertainment
	// group is scanned first so it must win every time.
	for i := 0; i < 10; i++ {
		if got := Merchant("Amazon Prime"); got != core.CategoryEntertainment {
			t.Fatalf("Merchant(Amazon Prime) = %s, want Entertainment", got)
		}
	}
}
