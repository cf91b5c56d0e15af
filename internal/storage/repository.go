package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"smartpay/internal/core"

	_ "modernc.org/sqlite"
)

// Sync status values for the export queue.
const (
	SyncPending = "pending"
	SyncDone    = "synced"
	SyncError   = "error"
)

const dateLayout = "2006-01-02"

// StoredTransaction is a transaction row as persisted, including export
// bookkeeping the domain type does not carry.
type StoredTransaction struct {
	ID          int64
	AmountCents int64
	Merchant    string
	Category    string
	Date        string // yyyy-mm-dd
	SyncStatus  string
}

// SQLiteRepository persists transactions in a local sqlite database.
// Uniqueness on (amount_cents, merchant, date) is enforced by the schema,
// so deduplication of concurrent inserts rides on sqlite's atomicity.
type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// InsertTransaction writes a transaction if its natural key is absent.
// The second return is false when the row already existed; a conflicting
// insert is silently ignored, never an error.
func (r *SQLiteRepository) InsertTransaction(ctx context.Context, txn core.Transaction) (int64, bool, error) {
	if err := txn.Validate(); err != nil {
		return 0, false, fmt.Errorf("validate transaction: %w", err)
	}

	res, err := r.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO transactions (amount_cents, merchant, category, date)
		 VALUES (?, ?, ?, ?)`,
		txn.Amount.Cents, txn.Merchant, string(txn.Category), txn.Date.ISO())
	if err != nil {
		return 0, false, fmt.Errorf("insert transaction: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return 0, false, fmt.Errorf("rows affected: %w", err)
	}
	if rows == 0 {
		return 0, false, nil
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, false, fmt.Errorf("last insert id: %w", err)
	}

	slog.InfoContext(ctx, "Transaction saved to SQLite",
		"id", id,
		"merchant", txn.Merchant,
		"category", txn.Category,
		"amount_cents", txn.Amount.Cents,
		"date", txn.Date.ISO())

	return id, true, nil
}

// GetTransaction fetches one stored row by id.
func (r *SQLiteRepository) GetTransaction(ctx context.Context, id int64) (StoredTransaction, error) {
	var st StoredTransaction
	err := r.db.QueryRowContext(ctx,
		`SELECT id, amount_cents, merchant, category, date, sync_status
		 FROM transactions WHERE id = ?`, id).
		Scan(&st.ID, &st.AmountCents, &st.Merchant, &st.Category, &st.Date, &st.SyncStatus)
	if err != nil {
		return StoredTransaction{}, fmt.Errorf("get transaction %d: %w", id, err)
	}
	return st, nil
}

// ListTransactionsByMonth returns the domain transactions for one
// calendar month, ordered by date then id.
func (r *SQLiteRepository) ListTransactionsByMonth(ctx context.Context, year int, month time.Month) ([]core.Transaction, error) {
	start := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0)

	rows, err := r.db.QueryContext(ctx,
		`SELECT amount_cents, merchant, category, date
		 FROM transactions WHERE date >= ? AND date < ?
		 ORDER BY date, id`,
		start.Format(dateLayout), end.Format(dateLayout))
	if err != nil {
		return nil, fmt.Errorf("list transactions by month: %w", err)
	}
	defer rows.Close()

	var txns []core.Transaction
	for rows.Next() {
		var (
			cents    int64
			merchant string
			category string
			date     string
		)
		if err := rows.Scan(&cents, &merchant, &category, &date); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		txn, err := toDomain(cents, merchant, category, date)
		if err != nil {
			return nil, err
		}
		txns = append(txns, txn)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transactions: %w", err)
	}
	return txns, nil
}

// ReadMonthSpend aggregates stored spend per category for one month.
func (r *SQLiteRepository) ReadMonthSpend(ctx context.Context, year int, month time.Month) (core.SpendByCategory, error) {
	start := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0)

	rows, err := r.db.QueryContext(ctx,
		`SELECT category, SUM(amount_cents)
		 FROM transactions WHERE date >= ? AND date < ?
		 GROUP BY category`,
		start.Format(dateLayout), end.Format(dateLayout))
	if err != nil {
		return nil, fmt.Errorf("read month spend: %w", err)
	}
	defer rows.Close()

	spend := make(core.SpendByCategory)
	for rows.Next() {
		var (
			category string
			cents    int64
		)
		if err := rows.Scan(&category, &cents); err != nil {
			return nil, fmt.Errorf("scan category sum: %w", err)
		}
		spend[core.Category(category)] = core.Money{Cents: cents}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate category sums: %w", err)
	}
	return spend, nil
}

// GetPendingSync returns the oldest rows still waiting for export.
func (r *SQLiteRepository) GetPendingSync(ctx context.Context, limit int) ([]StoredTransaction, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, amount_cents, merchant, category, date, sync_status
		 FROM transactions WHERE sync_status = ?
		 ORDER BY id LIMIT ?`, SyncPending, limit)
	if err != nil {
		return nil, fmt.Errorf("get pending sync: %w", err)
	}
	defer rows.Close()

	var pending []StoredTransaction
	for rows.Next() {
		var st StoredTransaction
		if err := rows.Scan(&st.ID, &st.AmountCents, &st.Merchant, &st.Category, &st.Date, &st.SyncStatus); err != nil {
			return nil, fmt.Errorf("scan pending transaction: %w", err)
		}
		pending = append(pending, st)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate pending transactions: %w", err)
	}
	return pending, nil
}

// MarkSynced marks a row as successfully exported.
func (r *SQLiteRepository) MarkSynced(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx,
		`UPDATE transactions SET sync_status = ? WHERE id = ?`, SyncDone, id); err != nil {
		return fmt.Errorf("mark transaction synced: %w", err)
	}
	slog.InfoContext(ctx, "Transaction marked as synced", "id", id)
	return nil
}

// MarkSyncError marks a row as having failed export so the periodic scan
// leaves it for manual inspection.
func (r *SQLiteRepository) MarkSyncError(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx,
		`UPDATE transactions SET sync_status = ? WHERE id = ?`, SyncError, id); err != nil {
		return fmt.Errorf("mark transaction sync error: %w", err)
	}
	slog.WarnContext(ctx, "Transaction marked as sync error", "id", id)
	return nil
}

// ToDomain converts a stored row back into the domain type.
func (st StoredTransaction) ToDomain() (core.Transaction, error) {
	return toDomain(st.AmountCents, st.Merchant, st.Category, st.Date)
}

func toDomain(cents int64, merchant, category, date string) (core.Transaction, error) {
	t, err := time.Parse(dateLayout, date)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("parse stored date %q: %w", date, err)
	}
	return core.Transaction{
		Amount:   core.Money{Cents: cents},
		Merchant: merchant,
		Category: core.Category(category),
		Date:     core.NewDate(t.Year(), int(t.Month()), t.Day()),
	}, nil
}
