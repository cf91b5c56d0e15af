package services

import (
	"context"
	"errors"
	"testing"

	"smartpay/internal/core"
	"smartpay/internal/parser"
)

// fakeStore implements TransactionStore with natural-key dedup, the same
// contract the sqlite repository provides via INSERT OR IGNORE.
type fakeStore struct {
	rows   map[string]int64
	nextID int64
	fail   bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{rows: make(map[string]int64)}
}

func (s *fakeStore) InsertTransaction(_ context.Context, txn core.Transaction) (int64, bool, error) {
	if s.fail {
		return 0, false, errors.New("store unavailable")
	}
	key := txn.Key()
	if _, ok := s.rows[key]; ok {
		return 0, false, nil
	}
	s.nextID++
	s.rows[key] = s.nextID
	return s.nextID, true, nil
}

type fakePublisher struct {
	published []int64
	err       error
}

func (p *fakePublisher) PublishTransactionSync(_ context.Context, id int64) error {
	if p.err != nil {
		return p.err
	}
	p.published = append(p.published, id)
	return nil
}

const sampleText = "Your account has been debited with Rs.1,250.00 on 05-Jan-2024\n" +
	"Your card was charged Rs.499.00 for Netflix Subscription. Txn date: 10-Jan-2024\n" +
	"Some unrelated notification\n" +
	"Your account has been debited with Rs.1,250.00 on 05-Jan-2024"

func TestIngest(t *testing.T) {
	store := newFakeStore()
	pub := &fakePublisher{}
	svc := NewIngestService(store, pub)

	stats, err := svc.Ingest(context.Background(), sampleText)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if stats.Extracted != 3 {
		t.Errorf("extracted = %d, want 3", stats.Extracted)
	}
	if stats.Inserted != 2 {
		t.Errorf("inserted = %d, want 2 (repeated debit deduplicated)", stats.Inserted)
	}
	if stats.Duplicates != 1 {
		t.Errorf("duplicates = %d, want 1", stats.Duplicates)
	}
	if stats.NoMatch != 1 {
		t.Errorf("no_match = %d, want 1", stats.NoMatch)
	}
	if len(pub.published) != 2 {
		t.Errorf("published = %d messages, want 2", len(pub.published))
	}
}

func TestIngestIdempotent(t *testing.T) {
	store := newFakeStore()
	svc := NewIngestService(store, nil)

	first, err := svc.Ingest(context.Background(), sampleText)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := svc.Ingest(context.Background(), sampleText)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if first.Inserted != 2 {
		t.Fatalf("first run inserted = %d, want 2", first.Inserted)
	}
	if second.Inserted != 0 {
		t.Fatalf("second run inserted = %d, want 0", second.Inserted)
	}
	if len(store.rows) != 2 {
		t.Fatalf("store holds %d rows after re-run, want 2", len(store.rows))
	}
}

func TestIngestStoreErrorAborts(t *testing.T) {
	store := newFakeStore()
	store.fail = true
	svc := NewIngestService(store, nil)

	if _, err := svc.Ingest(context.Background(), sampleText); err == nil {
		t.Fatalf("expected store error to propagate")
	}
}

func TestIngestPublishFailureIsNonFatal(t *testing.T) {
	store := newFakeStore()
	pub := &fakePublisher{err: errors.New("broker down")}
	svc := NewIngestService(store, pub)

	stats, err := svc.Ingest(context.Background(), sampleText)
	if err != nil {
		t.Fatalf("publish failure must not fail the batch: %v", err)
	}
	if stats.Inserted != 2 {
		t.Fatalf("inserted = %d, want 2", stats.Inserted)
	}
}

func TestBatchBuilderCategorizes(t *testing.T) {
	b := NewBatchBuilder()
	fields := parser.Fields{
		Amount:   core.Money{Cents: 49900},
		Merchant: "Netflix Subscription",
		Date:     core.NewDate(2024, 1, 10),
	}
	built, fresh := b.Add(fields)
	if !fresh {
		t.Fatalf("expected fresh transaction")
	}
	if built.Category != core.CategoryEntertainment {
		t.Errorf("category = %s, want Entertainment", built.Category)
	}

	if _, fresh := b.Add(fields); fresh {
		t.Fatalf("expected duplicate suppression on second add")
	}
	if got := len(b.Transactions()); got != 1 {
		t.Fatalf("batch holds %d transactions, want 1", got)
	}
}
