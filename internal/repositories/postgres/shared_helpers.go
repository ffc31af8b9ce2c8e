package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/winmanuel/eduhub/internal/repositories"
)

const (
	pgUniqueViolation  = "23505"
	pgCheckViolation   = "23514"
	pgNotNullViolation = "23502"

	defaultBatchSize = 100
)

// classifyError maps driver errors onto the repository error kinds while
// keeping the original error in the chain.
func classifyError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: %w", repositories.ErrNotFound, err)
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return fmt.Errorf("%w: %w", repositories.ErrDuplicateKey, err)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return fmt.Errorf("%w on %s: %w", repositories.ErrDuplicateKey, pgErr.ConstraintName, err)
		case pgCheckViolation, pgNotNullViolation:
			return fmt.Errorf("%w on %s: %w", repositories.ErrConstraintViolation, pgErr.ConstraintName, err)
		}
	}

	return err
}

// insertMany inserts records in batches, skipping rows that collide with an
// existing unique key. A failure other than a key collision rolls back every
// batch, so the result then reports nothing inserted.
func insertMany[T any](ctx context.Context, db *gorm.DB, records []*T, batchSize int) (repositories.BatchResult, error) {
	result := repositories.BatchResult{Attempted: len(records)}
	if len(records) == 0 {
		return result, nil
	}
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}

	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Clauses(clause.OnConflict{DoNothing: true}).CreateInBatches(records, batchSize)
		if res.Error != nil {
			return res.Error
		}
		result.Inserted = int(res.RowsAffected)
		return nil
	})
	if err != nil {
		return repositories.BatchResult{Attempted: len(records)}, classifyError(err)
	}

	result.Duplicates = result.Attempted - result.Inserted
	return result, nil
}

// requireAffected turns an update or delete that matched nothing into
// ErrNotFound.
func requireAffected(res *gorm.DB, entity, id string) error {
	if res.Error != nil {
		return classifyError(res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%s %q: %w", entity, id, repositories.ErrNotFound)
	}
	return nil
}

// likePattern wraps term for a substring ILIKE match with wildcards escaped.
func likePattern(term string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(term) + "%"
}

// applyPagination applies limit and offset when positive.
func applyPagination(query *gorm.DB, limit, offset int) *gorm.DB {
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}
	return query
}
