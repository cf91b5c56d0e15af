package core

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	CategoryGroceries     Category = "Groceries"
	CategoryFood          Category = "Food"
	CategoryBills         Category = "Bills"
	CategoryTravel        Category = "Travel"
	CategoryShopping      Category = "Shopping"
	CategoryEntertainment Category = "Entertainment"
	CategoryOther         Category = "Other"
)

const (
	KindSubscriptionDue ReminderKind = "Subscription Due"
	KindBudgetAlert     ReminderKind = "Budget Alert"
)

const (
	PriorityLow    Priority = "Low"
	PriorityMedium Priority = "Medium"
	PriorityHigh   Priority = "High"
)

type (
	Category     string
	ReminderKind string
	Priority     string

	Date struct {
		time.Time
	}

	Money struct {
		Cents int64
	}

	// Transaction is one parsed notification event. The triple
	// (amount, merchant, date) is the natural key; two transactions
	// sharing all three are the same event.
	Transaction struct {
		Amount   Money
		Merchant string
		Category Category
		Date     Date
	}

	// BudgetAllocation maps each category to its spending ceiling for
	// one evaluation period. Supplied per call, never persisted.
	BudgetAllocation map[Category]Money

	// SpendByCategory is the derived per-category spend for a window.
	// Rebuilt on demand, never mutated in place.
	SpendByCategory map[Category]Money

	// Reminder is produced fresh on every evaluation and never stored.
	Reminder struct {
		Kind     ReminderKind
		Message  string
		DueDate  Date
		Priority Priority
	}

	// MonthWindow selects one calendar month.
	MonthWindow struct {
		Year  int
		Month time.Month
	}
)

var (
	ErrInvalidAmount   = errors.New("invalid amount")
	ErrEmptyMerchant   = errors.New("empty merchant")
	ErrInvalidCategory = errors.New("invalid category")
	ErrZeroDate        = errors.New("date cannot be zero")
)

// categories in declaration order; Other is the fallback and stays last.
var categories = []Category{
	CategoryGroceries,
	CategoryFood,
	CategoryBills,
	CategoryTravel,
	CategoryShopping,
	CategoryEntertainment,
	CategoryOther,
}

// budgetShares is the fixed percentage split of a single monthly total.
var budgetShares = map[Category]int64{
	CategoryGroceries:     20,
	CategoryFood:          15,
	CategoryBills:         20,
	CategoryTravel:        10,
	CategoryShopping:      20,
	CategoryEntertainment: 5,
	CategoryOther:         10,
}

// Categories returns the fixed category enumeration.
func Categories() []Category {
	out := make([]Category, len(categories))
	copy(out, categories)
	return out
}

func (c Category) Valid() bool {
	for _, known := range categories {
		if c == known {
			return true
		}
	}
	return false
}

// NewDate creates a Date at midnight UTC.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// ISO formats the date as yyyy-mm-dd.
func (d Date) ISO() string {
	return d.Format("2006-01-02")
}

// AddDays returns the date shifted by n calendar days.
func (d Date) AddDays(n int) Date {
	return Date{Time: d.Time.AddDate(0, 0, n)}
}

// DaysUntil returns the number of whole days from d to other.
// Both dates are at midnight UTC so the division is exact.
func (d Date) DaysUntil(other Date) int {
	return int(other.Sub(d.Time) / (24 * time.Hour))
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrZeroDate
	}
	return nil
}

func (w MonthWindow) Contains(d Date) bool {
	return d.Year() == w.Year && d.Month() == w.Month
}

func (t Transaction) Validate() error {
	if err := t.Amount.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(t.Merchant) == "" {
		return ErrEmptyMerchant
	}
	if !t.Category.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidCategory, t.Category)
	}
	return t.Date.Validate()
}

// Key returns the canonical natural-key string used for deduplication.
func (t Transaction) Key() string {
	return fmt.Sprintf("%d|%s|%s", t.Amount.Cents, t.Merchant, t.Date.ISO())
}

// SplitMonthlyBudget derives a per-category allocation from a single
// monthly total using the fixed percentage split.
func SplitMonthlyBudget(total Money) BudgetAllocation {
	alloc := make(BudgetAllocation, len(budgetShares))
	for cat, pct := range budgetShares {
		alloc[cat] = Money{Cents: total.Cents * pct / 100}
	}
	return alloc
}
