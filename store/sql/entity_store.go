package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/goliatone/go-oauth-store/core"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect"
)

// entityStore holds the plumbing shared by the four OAuth stores: keyed
// reads through go-repository-bun, cursor-backed sequences, and writes
// inside a unit of work.
type entityStore[R any, T any] struct {
	db       *bun.DB
	repo     repository.Repository[*R]
	uow      *UnitOfWorkManager
	entity   string
	toDomain func(*R) (T, error)
	now      func() time.Time
	// columns flattens a record for the no-op update check; nil disables it.
	columns func(*R) core.Properties
}

func newEntityStore[R any, T any](
	db *bun.DB,
	handlers repository.ModelHandlers[*R],
	entity string,
	toDomain func(*R) (T, error),
) (entityStore[R, T], error) {
	if db == nil {
		return entityStore[R, T]{}, fmt.Errorf("sqlstore: bun db is required")
	}
	repo := repository.NewRepository[*R](db, handlers)
	if validator, ok := repo.(repository.Validator); ok {
		if err := validator.Validate(); err != nil {
			return entityStore[R, T]{}, fmt.Errorf("sqlstore: invalid %s repository wiring: %w", entity, err)
		}
	}
	return entityStore[R, T]{
		db:       db,
		repo:     repo,
		uow:      NewUnitOfWorkManager(db),
		entity:   entity,
		toDomain: toDomain,
		now:      func() time.Time { return time.Now().UTC() },
	}, nil
}

// SelectQuery returns a fresh select over the store's table.
func (s *entityStore[R, T]) SelectQuery() *bun.SelectQuery {
	return s.db.NewSelect().Model((*R)(nil))
}

func (s *entityStore[R, T]) DB() *bun.DB {
	return s.db
}

func (s *entityStore[R, T]) Count(ctx context.Context) (int64, error) {
	count, err := s.SelectQuery().Count(ctx)
	return int64(count), err
}

func (s *entityStore[R, T]) CountWhere(ctx context.Context, where core.QueryFunc) (int64, error) {
	if where == nil {
		return 0, core.InvalidArgument("query", core.ConstraintRequired, "")
	}
	count, err := where(s.SelectQuery()).Count(ctx)
	return int64(count), err
}

func (s *entityStore[R, T]) FindByID(ctx context.Context, id string) (T, error) {
	var zero T
	trimmed, err := requireKey("id", id)
	if err != nil {
		return zero, err
	}
	return s.findOne(ctx, repository.SelectBy("id", "=", trimmed))
}

func (s *entityStore[R, T]) findOne(ctx context.Context, criteria ...repository.SelectCriteria) (T, error) {
	var zero T
	criteria = append(criteria, repository.SelectPaginate(1, 0))
	records, _, err := s.repo.List(ctx, criteria...)
	if err != nil {
		return zero, err
	}
	if len(records) == 0 {
		return zero, nil
	}
	return s.toDomain(records[0])
}

func (s *entityStore[R, T]) List(ctx context.Context, count *int, offset *int) (core.Sequence[T], error) {
	if count != nil && *count < 0 {
		return nil, core.InvalidArgument("count", core.ConstraintFormat, "count must not be negative")
	}
	if offset != nil && *offset < 0 {
		return nil, core.InvalidArgument("offset", core.ConstraintFormat, "offset must not be negative")
	}
	if count != nil && *count == 0 {
		return core.SliceSequence[T](nil), nil
	}
	q := s.SelectQuery().OrderExpr("id ASC")
	if offset != nil && *offset > 0 {
		q = q.Offset(*offset)
		if count == nil && s.db.Dialect().Name() == dialect.SQLite {
			q = q.Limit(-1)
		}
	}
	if count != nil {
		q = q.Limit(*count)
	}
	return s.sequence(ctx, q), nil
}

func (s *entityStore[R, T]) sequence(ctx context.Context, q *bun.SelectQuery) core.Sequence[T] {
	return cursorSequence(ctx, s.db, q, s.toDomain)
}

// write runs fn inside its own unit of work. The unit of work commits only
// when fn succeeds and ctx is still live.
func (s *entityStore[R, T]) write(ctx context.Context, fn func(ctx context.Context, tx bun.Tx) error) error {
	uow, err := s.uow.begin(ctx)
	if err != nil {
		return err
	}
	defer uow.Dispose()
	if err := fn(ctx, uow.Tx()); err != nil {
		return err
	}
	return uow.Complete(ctx)
}

func (s *entityStore[R, T]) insert(ctx context.Context, record *R, naturalKey string, naturalValue string) error {
	return s.write(ctx, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewInsert().Model(record).Exec(ctx); err != nil {
			return classifyWriteError(err, s.entity, naturalKey, naturalValue)
		}
		return nil
	})
}

func (s *entityStore[R, T]) update(ctx context.Context, record *R, id string, naturalKey string, naturalValue string) error {
	return s.write(ctx, func(ctx context.Context, tx bun.Tx) error {
		same, err := s.unchanged(ctx, tx, record, id)
		if err != nil || same {
			return err
		}
		res, err := tx.NewUpdate().
			Model(record).
			ExcludeColumn("created_at").
			WherePK().
			Exec(ctx)
		if err != nil {
			return classifyWriteError(err, s.entity, naturalKey, naturalValue)
		}
		return requireAffected(res, s.entity, id)
	})
}

// unchanged reports whether the stored row already holds record's columns,
// in which case the update is skipped and updated_at keeps its value.
func (s *entityStore[R, T]) unchanged(ctx context.Context, tx bun.Tx, record *R, id string) (bool, error) {
	if s.columns == nil {
		return false, nil
	}
	current := new(R)
	if err := tx.NewSelect().Model(current).Where("id = ?", id).Limit(1).Scan(ctx); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, core.NotFound(s.entity+" not found", map[string]any{"entity": s.entity, "id": id})
		}
		return false, err
	}
	stored, next := s.columns(current), s.columns(record)
	return propertyCodec.Hash(stored) == propertyCodec.Hash(next) && propertyCodec.Equal(stored, next), nil
}

func (s *entityStore[R, T]) deleteByID(ctx context.Context, tx bun.Tx, id string) error {
	res, err := tx.NewDelete().
		Model((*R)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return err
	}
	return requireAffected(res, s.entity, id)
}

func (s *entityStore[R, T]) deleteBatch(ctx context.Context, ids []string, before func(ctx context.Context, tx bun.Tx, ids []string) error) (int64, error) {
	cleaned := make([]string, 0, len(ids))
	for _, id := range ids {
		if trimmed := strings.TrimSpace(id); trimmed != "" {
			cleaned = append(cleaned, trimmed)
		}
	}
	if len(cleaned) == 0 {
		return 0, nil
	}
	var deleted int64
	err := s.write(ctx, func(ctx context.Context, tx bun.Tx) error {
		if before != nil {
			if err := before(ctx, tx, cleaned); err != nil {
				return err
			}
		}
		res, err := tx.NewDelete().
			Model((*R)(nil)).
			Where("id IN (?)", bun.In(cleaned)).
			Exec(ctx)
		if err != nil {
			return err
		}
		deleted, err = res.RowsAffected()
		return err
	})
	if err != nil {
		return 0, err
	}
	return deleted, nil
}

func requireKey(field string, value string) (string, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return "", core.InvalidArgument(field, core.ConstraintNotBlank, "")
	}
	return trimmed, nil
}

func pruneLimit(maxResults int) int {
	if maxResults <= 0 {
		return core.DefaultPruneBatchSize
	}
	return maxResults
}
