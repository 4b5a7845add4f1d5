package repositories

import (
	"context"
)

// SnapshotRunner runs read-only work against a consistent view of the ledger.
// Implementations must give fn a snapshot no concurrent posting can tear.
type SnapshotRunner interface {
	ReadSnapshot(ctx context.Context, fn func(LedgerReader) error) error
}
