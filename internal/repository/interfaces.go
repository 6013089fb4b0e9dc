package repository

import (
	"context"

	"github.com/bencao/herbquiz/internal/models"
)

// LedgerRepository persists the mistake ledger, deduplicated by herb id.
type LedgerRepository interface {
	// Record appends an entry unless one with the same herb id already
	// exists. The dedup check and the insert are one atomic step. Returns
	// false when the entry was suppressed as a duplicate.
	Record(ctx context.Context, entry models.MistakeEntry) (bool, error)
	// List returns the ledger in insertion order.
	List(ctx context.Context) ([]models.MistakeEntry, error)
	// RemoveAt deletes the entry at the given list position. Out-of-range
	// positions fail with sql.ErrNoRows and leave the ledger untouched.
	RemoveAt(ctx context.Context, index int) error
	Count(ctx context.Context) (int, error)
}

// ResultRepository persists finished-session summaries.
type ResultRepository interface {
	Insert(ctx context.Context, result models.SessionResult) (int64, error)
	List(ctx context.Context, filter models.ResultFilter) ([]models.SessionResult, error)
}
