package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"smartpay/internal/core"
	"smartpay/internal/parser"
)

// TransactionStore is the persistence seam for ingestion. Insert must be
// insert-if-absent on the natural key so concurrent runs can lean on the
// store's own atomicity.
type TransactionStore interface {
	InsertTransaction(ctx context.Context, txn core.Transaction) (id int64, inserted bool, err error)
}

// TransactionLister reads back transactions for one calendar month.
type TransactionLister interface {
	ListTransactionsByMonth(ctx context.Context, year int, month time.Month) ([]core.Transaction, error)
}

// SyncPublisher announces newly stored transactions to the export worker.
type SyncPublisher interface {
	PublishTransactionSync(ctx context.Context, id int64) error
}

// IngestStats summarizes one ingestion batch. Discards and duplicates are
// normal outcomes, counted for reporting only.
type IngestStats struct {
	Lines      int
	Extracted  int
	Inserted   int
	Duplicates int
	NoMatch    int
	BadAmount  int
	BadDate    int
}

// IngestService turns raw notification text into stored transactions.
type IngestService struct {
	store     TransactionStore
	publisher SyncPublisher
}

// NewIngestService creates an ingest service. publisher may be nil, in
// which case stored transactions are not announced for export.
func NewIngestService(store TransactionStore, publisher SyncPublisher) *IngestService {
	return &IngestService{store: store, publisher: publisher}
}

// Ingest extracts, categorizes, deduplicates and stores every
// recognizable message in the text blob. Per-record failures are isolated
// and counted; only store I/O errors abort the batch. Re-running over the
// same text does not grow the transaction set.
func (s *IngestService) Ingest(ctx context.Context, text string) (IngestStats, error) {
	batch := parser.ParseText(text)

	stats := IngestStats{
		Lines:     batch.Lines,
		Extracted: len(batch.Fields),
		NoMatch:   batch.NoMatch,
		BadAmount: batch.BadAmount,
		BadDate:   batch.BadDate,
	}

	builder := NewBatchBuilder()
	for _, fields := range batch.Fields {
		txn, fresh := builder.Add(fields)
		if !fresh {
			stats.Duplicates++
			continue
		}

		id, inserted, err := s.store.InsertTransaction(ctx, txn)
		if err != nil {
			return stats, fmt.Errorf("insert transaction: %w", err)
		}
		if !inserted {
			stats.Duplicates++
			continue
		}
		stats.Inserted++

		if s.publisher == nil {
			continue
		}
		// Sync is best-effort: the transaction is already stored and the
		// periodic worker scan will pick up anything missed here.
		if err := s.publisher.PublishTransactionSync(ctx, id); err != nil {
			slog.ErrorContext(ctx, "Failed to publish sync message", "id", id, "error", err)
		}
	}

	slog.InfoContext(ctx, "Ingest batch complete",
		"lines", stats.Lines,
		"extracted", stats.Extracted,
		"inserted", stats.Inserted,
		"duplicates", stats.Duplicates,
		"no_match", stats.NoMatch,
		"bad_amount", stats.BadAmount,
		"bad_date", stats.BadDate)

	return stats, nil
}

// ReminderService evaluates reminders over a stored month of transactions.
type ReminderService struct {
	store TransactionLister
}

func NewReminderService(store TransactionLister) *ReminderService {
	return &ReminderService{store: store}
}

// Evaluate loads the window's transactions and runs the reminder engine
// against the supplied budget allocation and reference date.
func (s *ReminderService) Evaluate(ctx context.Context, window core.MonthWindow, budget core.BudgetAllocation, today core.Date, policy ReminderPolicy) ([]core.Reminder, error) {
	txns, err := s.store.ListTransactionsByMonth(ctx, window.Year, window.Month)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	return GenerateReminders(txns, budget, today, policy), nil
}

// Overview returns the aggregated spend for a stored month.
func (s *ReminderService) Overview(ctx context.Context, window core.MonthWindow) (core.SpendByCategory, error) {
	txns, err := s.store.ListTransactionsByMonth(ctx, window.Year, window.Month)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	return SpendByMonth(txns, window), nil
}
