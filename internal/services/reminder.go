// Package services orchestrates the extraction, aggregation and alerting
// pipeline on top of the parser, categorizer and storage layers.
//
// This file implements the reminder engine: two independent rules
// evaluated over a single traversal of the transaction batch.
package services

import (
	"fmt"
	"strings"

	"smartpay/internal/core"
)

// subscriptionKeywords flag transactions assumed to recur. Matching is
// case-insensitive against the merchant/description text.
var subscriptionKeywords = []string{"netflix", "spotify", "prime", "emi", "subscription"}

// ReminderPolicy carries the tunable reminder thresholds. Callers can
// vary them per evaluation; nothing here is module-global state.
type ReminderPolicy struct {
	// RecurrenceDays is the assumed repeat interval for subscription-like
	// transactions, counted from the transaction date.
	RecurrenceDays int

	// DueWindowDays is the inclusive lookahead from "today" within which
	// an upcoming due date triggers a reminder.
	DueWindowDays int

	// WarnThresholdPct is the budget-usage percentage at or above which a
	// budget alert is emitted.
	WarnThresholdPct int
}

// DefaultReminderPolicy returns the stock policy: 30-day recurrence,
// 5-day due window, alerts from 90% budget usage.
func DefaultReminderPolicy() ReminderPolicy {
	return ReminderPolicy{
		RecurrenceDays:   30,
		DueWindowDays:    5,
		WarnThresholdPct: 90,
	}
}

// GenerateReminders evaluates the subscription-due and budget-overage
// rules over one pass of the transaction batch.
//
// Output order: subscription reminders in traversal order, then budget
// alerts. Iteration order across categories is not fixed.
func GenerateReminders(txns []core.Transaction, budget core.BudgetAllocation, today core.Date, policy ReminderPolicy) []core.Reminder {
	var reminders []core.Reminder
	spending := make(core.SpendByCategory)

	for _, txn := range txns {
		sum := spending[txn.Category]
		sum.Cents += txn.Amount.Cents
		spending[txn.Category] = sum

		if !isSubscription(txn.Merchant) {
			continue
		}
		// A transaction without a usable date is skipped for this rule
		// only; the traversal carries on.
		if txn.Date.IsZero() {
			continue
		}
		nextDue := txn.Date.AddDays(policy.RecurrenceDays)
		days := today.DaysUntil(nextDue)
		if days < 0 || days > policy.DueWindowDays {
			continue
		}
		reminders = append(reminders, core.Reminder{
			Kind:     core.KindSubscriptionDue,
			Message:  fmt.Sprintf("Your %s payment is due on %s", txn.Merchant, nextDue.Format("02 Jan 2006")),
			DueDate:  nextDue,
			Priority: core.PriorityHigh,
		})
	}

	for category, used := range spending {
		ceiling, ok := budget[category]
		if !ok || ceiling.Cents <= 0 {
			continue
		}
		if used.Cents*100 < ceiling.Cents*int64(policy.WarnThresholdPct) {
			continue
		}
		priority := core.PriorityMedium
		if used.Cents >= ceiling.Cents {
			priority = core.PriorityHigh
		}
		reminders = append(reminders, core.Reminder{
			Kind:     core.KindBudgetAlert,
			Message:  fmt.Sprintf("You've used ₹%s of your ₹%s budget for %s.", used, ceiling, category),
			DueDate:  today,
			Priority: priority,
		})
	}

	return reminders
}

func isSubscription(description string) bool {
	description = strings.ToLower(description)
	for _, kw := range subscriptionKeywords {
		if strings.Contains(description, kw) {
			return true
		}
	}
	return false
}
