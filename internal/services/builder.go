package services

import (
	"smartpay/internal/categorize"
	"smartpay/internal/core"
	"smartpay/internal/parser"
)

// BatchBuilder composes extracted fields into canonical Transactions and
// deduplicates them by natural key within one batch. Store-level
// deduplication for incremental runs happens in the repository insert.
type BatchBuilder struct {
	seen map[string]struct{}
	txns []core.Transaction
}

func NewBatchBuilder() *BatchBuilder {
	return &BatchBuilder{seen: make(map[string]struct{})}
}

// Add builds a Transaction from one matched line. The second return is
// false when the natural key was already seen in this batch; duplicates
// are suppressed, never reported as errors.
func (b *BatchBuilder) Add(f parser.Fields) (core.Transaction, bool) {
	txn := core.Transaction{
		Amount:   f.Amount,
		Merchant: f.Merchant,
		Category: categorize.Merchant(f.Merchant),
		Date:     f.Date,
	}
	key := txn.Key()
	if _, dup := b.seen[key]; dup {
		return txn, false
	}
	b.seen[key] = struct{}{}
	b.txns = append(b.txns, txn)
	return txn, true
}

// Transactions returns the deduplicated batch in insertion order.
func (b *BatchBuilder) Transactions() []core.Transaction {
	out := make([]core.Transaction, len(b.txns))
	copy(out, b.txns)
	return out
}

// BuildTransactions is the one-shot form of BatchBuilder.
func BuildTransactions(fields []parser.Fields) []core.Transaction {
	b := NewBatchBuilder()
	for _, f := range fields {
		b.Add(f)
	}
	return b.Transactions()
}
