package sheets

import (
	"context"

	"smartpay/internal/core"
)

// Ports for outbound report adapters. The report target only ever
// receives already-computed rows; all formatting stays on its side.
type (
	TransactionWriter interface {
		Append(ctx context.Context, t core.Transaction) (rowRef string, err error)
	}
)
