package worker

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"smartpay/internal/amqp"
	"smartpay/internal/core"
	"smartpay/internal/sheets/memory"
	"smartpay/internal/storage"
)

func testSetup(t *testing.T) (*storage.SQLiteRepository, *memory.Store, *SyncWorker) {
	t.Helper()
	repo, err := storage.NewSQLiteRepository(filepath.Join(t.TempDir(), "smartpay.db"))
	if err != nil {
		t.Fatalf("open repository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	sink := memory.New()
	return repo, sink, NewSyncWorker(repo, sink, 10)
}

func seedTransaction(t *testing.T, repo *storage.SQLiteRepository) int64 {
	t.Helper()
	id, inserted, err := repo.InsertTransaction(context.Background(), core.Transaction{
		Amount:   core.Money{Cents: 49900},
		Merchant: "Netflix Subscription",
		Category: core.CategoryEntertainment,
		Date:     core.NewDate(2024, 1, 10),
	})
	if err != nil || !inserted {
		t.Fatalf("seed insert failed: inserted=%v err=%v", inserted, err)
	}
	return id
}

func TestHandleSyncMessage(t *testing.T) {
	repo, sink, w := testSetup(t)
	ctx := context.Background()
	id := seedTransaction(t, repo)

	if err := w.HandleSyncMessage(ctx, amqp.NewTransactionSyncMessage(id)); err != nil {
		t.Fatalf("handle sync message: %v", err)
	}

	if items := sink.Items(); len(items) != 1 || items[0].Merchant != "Netflix Subscription" {
		t.Fatalf("sink = %+v, want the exported transaction", items)
	}
	stored, err := repo.GetTransaction(ctx, id)
	if err != nil {
		t.Fatalf("get transaction: %v", err)
	}
	if stored.SyncStatus != storage.SyncDone {
		t.Fatalf("sync status = %q, want %q", stored.SyncStatus, storage.SyncDone)
	}
}

func TestHandleSyncMessageAlreadySynced(t *testing.T) {
	repo, sink, w := testSetup(t)
	ctx := context.Background()
	id := seedTransaction(t, repo)

	msg := amqp.NewTransactionSyncMessage(id)
	if err := w.HandleSyncMessage(ctx, msg); err != nil {
		t.Fatalf("first handle: %v", err)
	}
	// A redelivered message must not export the row twice
	if err := w.HandleSyncMessage(ctx, msg); err != nil {
		t.Fatalf("second handle: %v", err)
	}
	if items := sink.Items(); len(items) != 1 {
		t.Fatalf("sink holds %d rows after redelivery, want 1", len(items))
	}
}

func TestHandleSyncMessageUnknownID(t *testing.T) {
	_, _, w := testSetup(t)
	if err := w.HandleSyncMessage(context.Background(), amqp.NewTransactionSyncMessage(9999)); err == nil {
		t.Fatalf("expected error for unknown transaction id")
	}
}

func TestProcessPendingSync(t *testing.T) {
	repo, sink, w := testSetup(t)
	ctx := context.Background()
	seedTransaction(t, repo)

	if err := w.ProcessPendingSync(ctx); err != nil {
		t.Fatalf("process pending: %v", err)
	}
	if items := sink.Items(); len(items) != 1 {
		t.Fatalf("sink holds %d rows, want 1", len(items))
	}

	// Nothing left pending: a second scan is a no-op
	if err := w.ProcessPendingSync(ctx); err != nil {
		t.Fatalf("second scan: %v", err)
	}
	if items := sink.Items(); len(items) != 1 {
		t.Fatalf("sink holds %d rows after second scan, want 1", len(items))
	}
}

type failingSink struct{}

func (failingSink) Append(context.Context, core.Transaction) (string, error) {
	return "", errors.New("sheet unavailable")
}

func TestProcessPendingSyncMarksErrors(t *testing.T) {
	repo, err := storage.NewSQLiteRepository(filepath.Join(t.TempDir(), "smartpay.db"))
	if err != nil {
		t.Fatalf("open repository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	w := NewSyncWorker(repo, failingSink{}, 10)
	ctx := context.Background()
	id := seedTransaction(t, repo)

	if err := w.ProcessPendingSync(ctx); err == nil {
		t.Fatalf("expected aggregate error when exports fail")
	}
	stored, err := repo.GetTransaction(ctx, id)
	if err != nil {
		t.Fatalf("get transaction: %v", err)
	}
	if stored.SyncStatus != storage.SyncError {
		t.Fatalf("sync status = %q, want %q", stored.SyncStatus, storage.SyncError)
	}
}
