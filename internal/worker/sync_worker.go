// Package worker exports stored transactions to the report sink.
package worker

import (
	"context"
	"fmt"
	"log/slog"

	"smartpay/internal/amqp"
	"smartpay/internal/sheets"
	"smartpay/internal/storage"
)

// SyncWorker copies stored transactions to the spreadsheet report sink,
// driven by AMQP sync messages with a periodic scan as backstop.
type SyncWorker struct {
	storage   *storage.SQLiteRepository
	sink      sheets.TransactionWriter
	batchSize int
}

func NewSyncWorker(storage *storage.SQLiteRepository, sink sheets.TransactionWriter, batchSize int) *SyncWorker {
	return &SyncWorker{
		storage:   storage,
		sink:      sink,
		batchSize: batchSize,
	}
}

// HandleSyncMessage processes a single transaction sync message.
func (w *SyncWorker) HandleSyncMessage(ctx context.Context, msg *amqp.TransactionSyncMessage) error {
	slog.InfoContext(ctx, "Processing sync message", "id", msg.ID)

	stored, err := w.storage.GetTransaction(ctx, msg.ID)
	if err != nil {
		return fmt.Errorf("get transaction from storage: %w", err)
	}
	if stored.SyncStatus == storage.SyncDone {
		slog.InfoContext(ctx, "Transaction already synced, skipping", "id", msg.ID)
		return nil
	}

	return w.export(ctx, stored)
}

// ProcessPendingSync exports any rows the message path missed. Failures
// on one row don't stop the batch.
func (w *SyncWorker) ProcessPendingSync(ctx context.Context) error {
	pending, err := w.storage.GetPendingSync(ctx, w.batchSize)
	if err != nil {
		return fmt.Errorf("get pending transactions: %w", err)
	}
	if len(pending) == 0 {
		return nil
	}

	slog.InfoContext(ctx, "Processing pending transactions", "count", len(pending))

	var failed int
	for _, stored := range pending {
		if err := w.export(ctx, stored); err != nil {
			slog.ErrorContext(ctx, "Failed to export pending transaction",
				"id", stored.ID, "error", err)
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("export failed for %d of %d pending transactions", failed, len(pending))
	}
	return nil
}

func (w *SyncWorker) export(ctx context.Context, stored storage.StoredTransaction) error {
	txn, err := stored.ToDomain()
	if err != nil {
		return fmt.Errorf("convert stored transaction: %w", err)
	}

	rowRef, err := w.sink.Append(ctx, txn)
	if err != nil {
		if markErr := w.storage.MarkSyncError(ctx, stored.ID); markErr != nil {
			slog.ErrorContext(ctx, "Failed to mark sync error", "id", stored.ID, "error", markErr)
		}
		return fmt.Errorf("append to report sink: %w", err)
	}

	if err := w.storage.MarkSynced(ctx, stored.ID); err != nil {
		return fmt.Errorf("mark synced: %w", err)
	}

	slog.InfoContext(ctx, "Transaction exported",
		"id", stored.ID,
		"row_ref", rowRef,
		"merchant", stored.Merchant)
	return nil
}
