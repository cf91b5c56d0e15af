package memory

import (
	"context"
	"testing"

	"smartpay/internal/core"
)

func TestAppend(t *testing.T) {
	s := New()
	txn := core.Transaction{
		Amount:   core.Money{Cents: 49900},
		Merchant: "Netflix Subscription",
		Category: core.CategoryEntertainment,
		Date:     core.NewDate(2024, 1, 10),
	}

	ref, err := s.Append(context.Background(), txn)
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	if ref != "mem:1" {
		t.Errorf("ref = %q, want mem:1", ref)
	}
	if items := s.Items(); len(items) != 1 || items[0].Merchant != "Netflix Subscription" {
		t.Fatalf("items = %+v, want the appended transaction", items)
	}
}

func TestAppendRejectsInvalid(t *testing.T) {
	s := New()
	if _, err := s.Append(context.Background(), core.Transaction{}); err == nil {
		t.Fatalf("expected validation error")
	}
	if len(s.Items()) != 0 {
		t.Fatalf("invalid transaction must not be stored")
	}
}
