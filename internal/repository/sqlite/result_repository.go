package sqlite

import (
	"context"
	"database/sql"

	"github.com/Masterminds/squirrel"

	"github.com/bencao/herbquiz/internal/logger"
	"github.com/bencao/herbquiz/internal/models"
	"github.com/bencao/herbquiz/internal/repository"
)

var sqlBuilder = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question)

const defaultResultLimit = 50

type resultRepository struct {
	db *sql.DB
}

// NewResultRepository creates a new ResultRepository implementation
func NewResultRepository(db *sql.DB) repository.ResultRepository {
	return &resultRepository{db: db}
}

func (r *resultRepository) Insert(ctx context.Context, res models.SessionResult) (int64, error) {
	log := logger.FromContext(ctx).WithPrefix("result_repo")
	log.Debug("inserting result: pool_size=%d, correct=%d, percent=%d", res.PoolSize, res.Correct, res.Percent)

	out, err := r.db.ExecContext(ctx, `
INSERT INTO quiz_results (pool_size, correct, percent, modes, grades)
VALUES (?, ?, ?, ?, ?)
`, res.PoolSize, res.Correct, res.Percent, res.Modes, res.Grades)
	if err != nil {
		log.Error("failed to insert result: %v", err)
		return 0, err
	}
	id, err := out.LastInsertId()
	if err != nil {
		log.Error("failed to get result id: %v", err)
		return 0, err
	}
	log.Debug("result inserted: id=%d", id)
	return id, nil
}

func (r *resultRepository) List(ctx context.Context, filter models.ResultFilter) ([]models.SessionResult, error) {
	log := logger.FromContext(ctx).WithPrefix("result_repo")
	log.Debug("listing results: min_percent=%d, grade=%s, limit=%d", filter.MinPercent, filter.Grade, filter.Limit)

	query := sqlBuilder.Select("id", "taken_at", "pool_size", "correct", "percent", "modes", "grades").
		From("quiz_results").
		OrderBy("taken_at DESC")

	if filter.Since != nil {
		query = query.Where(squirrel.GtOrEq{"taken_at": *filter.Since})
	}
	if filter.MinPercent > 0 {
		query = query.Where(squirrel.GtOrEq{"percent": filter.MinPercent})
	}
	if filter.Grade != "" {
		query = query.Where(squirrel.Like{"grades": "%" + filter.Grade + "%"})
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = defaultResultLimit
	}
	query = query.Limit(uint64(limit))

	sqlStr, args, err := query.ToSql()
	if err != nil {
		log.Error("failed to build results query: %v", err)
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		log.Error("failed to query results: %v", err)
		return nil, err
	}
	defer rows.Close()

	var results []models.SessionResult
	for rows.Next() {
		var res models.SessionResult
		if err := rows.Scan(&res.ID, &res.TakenAt, &res.PoolSize, &res.Correct, &res.Percent, &res.Modes, &res.Grades); err != nil {
			log.Error("failed to scan result row: %v", err)
			return nil, err
		}
		results = append(results, res)
	}
	log.Debug("found %d results", len(results))
	return results, rows.Err()
}
