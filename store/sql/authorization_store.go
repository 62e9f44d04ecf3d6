package sqlstore

import (
	"context"
	"time"

	"github.com/goliatone/go-oauth-store/core"
	"github.com/uptrace/bun"
)

type AuthorizationStore struct {
	entityStore[authorizationRecord, *core.Authorization]
}

func NewAuthorizationStore(db *bun.DB) (*AuthorizationStore, error) {
	base, err := newEntityStore(db, authorizationHandlers(), "authorization", (*authorizationRecord).toDomain)
	if err != nil {
		return nil, err
	}
	return &AuthorizationStore{entityStore: base}, nil
}

func (s *AuthorizationStore) Create(ctx context.Context, authorization *core.Authorization) error {
	if authorization == nil {
		return core.InvalidArgument("authorization", core.ConstraintRequired, "")
	}
	record, err := newAuthorizationRecord(authorization, s.now())
	if err != nil {
		return err
	}
	return s.insert(ctx, record, "", "")
}

func (s *AuthorizationStore) Update(ctx context.Context, authorization *core.Authorization) error {
	if authorization == nil {
		return core.InvalidArgument("authorization", core.ConstraintRequired, "")
	}
	record, err := newAuthorizationRecord(authorization, s.now())
	if err != nil {
		return err
	}
	return s.update(ctx, record, record.ID, "", "")
}

// Delete removes the authorization together with the tokens issued under it.
func (s *AuthorizationStore) Delete(ctx context.Context, authorization *core.Authorization) error {
	if authorization == nil {
		return core.InvalidArgument("authorization", core.ConstraintRequired, "")
	}
	id := authorization.ID()
	return s.write(ctx, func(ctx context.Context, tx bun.Tx) error {
		if err := deleteTokensByAuthorization(ctx, tx, []string{id}); err != nil {
			return err
		}
		return s.deleteByID(ctx, tx, id)
	})
}

func (s *AuthorizationStore) FindBySubject(ctx context.Context, subject string) (core.Sequence[*core.Authorization], error) {
	trimmed, err := requireKey("subject", subject)
	if err != nil {
		return nil, err
	}
	q := s.SelectQuery().Where("subject = ?", trimmed).OrderExpr("id ASC")
	return s.sequence(ctx, q), nil
}

func (s *AuthorizationStore) FindByApplicationID(ctx context.Context, applicationID string) (core.Sequence[*core.Authorization], error) {
	trimmed, err := requireKey("application_id", applicationID)
	if err != nil {
		return nil, err
	}
	q := s.SelectQuery().Where("application_id = ?", trimmed).OrderExpr("id ASC")
	return s.sequence(ctx, q), nil
}

func (s *AuthorizationStore) Find(ctx context.Context, filter core.AuthorizationFilter) (core.Sequence[*core.Authorization], error) {
	subject, err := requireKey("subject", filter.Subject)
	if err != nil {
		return nil, err
	}
	applicationID, err := requireKey("application_id", filter.ApplicationID)
	if err != nil {
		return nil, err
	}
	q := s.SelectQuery().
		Where("subject = ?", subject).
		Where("application_id = ?", applicationID)
	q = whereOptional(q, "status", filter.Status)
	q = whereOptional(q, "type", filter.Type)
	return s.sequence(ctx, q.OrderExpr("id ASC")), nil
}

// GetPruneList selects authorizations created before olderThan that are no
// longer valid, or ad-hoc ones without any token left.
func (s *AuthorizationStore) GetPruneList(ctx context.Context, olderThan time.Time, maxResults int) ([]*core.Authorization, error) {
	orphaned := s.db.NewSelect().
		TableExpr("oauth_tokens AS t").
		ColumnExpr("1").
		Where("t.authorization_id = oz.id")

	q := s.SelectQuery().
		Where("oz.creation_date < ?", olderThan.UTC()).
		WhereGroup(" AND ", func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.
				Where("oz.status <> ?", core.AuthorizationStatusValid).
				WhereOr("(oz.type = ? AND NOT EXISTS (?))", core.AuthorizationTypeAdHoc, orphaned)
		}).
		OrderExpr("oz.id ASC").
		Limit(pruneLimit(maxResults))

	return s.sequence(ctx, q).Collect()
}

// DeleteBatch removes the authorizations and their tokens in one unit of
// work and reports how many authorizations were deleted.
func (s *AuthorizationStore) DeleteBatch(ctx context.Context, ids []string) (int64, error) {
	return s.deleteBatch(ctx, ids, deleteTokensByAuthorization)
}

func deleteTokensByAuthorization(ctx context.Context, tx bun.Tx, ids []string) error {
	_, err := tx.NewDelete().
		Model((*tokenRecord)(nil)).
		Where("authorization_id IN (?)", bun.In(ids)).
		Exec(ctx)
	return err
}

func whereOptional(q *bun.SelectQuery, column string, value string) *bun.SelectQuery {
	if value == "" {
		return q
	}
	return q.Where("? = ?", bun.Ident(column), value)
}
