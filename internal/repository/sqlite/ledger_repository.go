package sqlite

import (
	"context"
	"database/sql"

	"github.com/bencao/herbquiz/internal/logger"
	"github.com/bencao/herbquiz/internal/models"
	"github.com/bencao/herbquiz/internal/repository"
)

type ledgerRepository struct {
	db *sql.DB
}

// NewLedgerRepository creates a new LedgerRepository implementation
func NewLedgerRepository(db *sql.DB) repository.LedgerRepository {
	return &ledgerRepository{db: db}
}

func (r *ledgerRepository) Record(ctx context.Context, e models.MistakeEntry) (bool, error) {
	log := logger.FromContext(ctx).WithPrefix("ledger_repo")
	log.Debug("recording mistake: herb_id=%d", e.HerbID)

	// ON CONFLICT DO NOTHING keeps the first recorded pair for a herb and
	// makes the dedup check and the append a single atomic step.
	res, err := r.db.ExecContext(ctx, `
INSERT INTO mistakes (herb_id, name, wrong, correct)
VALUES (?, ?, ?, ?)
ON CONFLICT(herb_id) DO NOTHING
`, e.HerbID, e.Name, e.Wrong, e.Correct)
	if err != nil {
		log.Error("failed to record mistake: %v", err)
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		log.Error("failed to read rows affected: %v", err)
		return false, err
	}
	if n == 0 {
		log.Debug("mistake already recorded for herb_id=%d, keeping first entry", e.HerbID)
		return false, nil
	}
	log.Debug("mistake recorded: herb_id=%d", e.HerbID)
	return true, nil
}

func (r *ledgerRepository) List(ctx context.Context) ([]models.MistakeEntry, error) {
	log := logger.FromContext(ctx).WithPrefix("ledger_repo")
	log.Debug("listing mistakes")

	rows, err := r.db.QueryContext(ctx, `
SELECT herb_id, name, wrong, correct, recorded_at
FROM mistakes
ORDER BY position ASC
`)
	if err != nil {
		log.Error("failed to query mistakes: %v", err)
		return nil, err
	}
	defer rows.Close()

	var entries []models.MistakeEntry
	for rows.Next() {
		var e models.MistakeEntry
		if err := rows.Scan(&e.HerbID, &e.Name, &e.Wrong, &e.Correct, &e.RecordedAt); err != nil {
			log.Error("failed to scan mistake row: %v", err)
			return nil, err
		}
		entries = append(entries, e)
	}
	log.Debug("found %d mistakes", len(entries))
	return entries, rows.Err()
}

func (r *ledgerRepository) RemoveAt(ctx context.Context, index int) error {
	log := logger.FromContext(ctx).WithPrefix("ledger_repo")
	log.Debug("removing mistake at index %d", index)

	if index < 0 {
		return sql.ErrNoRows
	}

	return tx(ctx, r.db, func(t *sql.Tx) error {
		var position int64
		err := t.QueryRowContext(ctx, `
SELECT position FROM mistakes ORDER BY position ASC LIMIT 1 OFFSET ?
`, index).Scan(&position)
		if err != nil {
			if err == sql.ErrNoRows {
				log.Debug("no mistake at index %d", index)
			} else {
				log.Error("failed to resolve index %d: %v", index, err)
			}
			return err
		}
		if _, err := t.ExecContext(ctx, `DELETE FROM mistakes WHERE position = ?`, position); err != nil {
			log.Error("failed to delete mistake: %v", err)
			return err
		}
		return nil
	})
}

func (r *ledgerRepository) Count(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM mistakes`).Scan(&n)
	return n, err
}
