package sqlstore

import (
	"context"
	"time"

	"github.com/goliatone/go-oauth-store/core"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/uptrace/bun"
)

type TokenStore struct {
	entityStore[tokenRecord, *core.Token]
}

func NewTokenStore(db *bun.DB) (*TokenStore, error) {
	base, err := newEntityStore(db, tokenHandlers(), "token", (*tokenRecord).toDomain)
	if err != nil {
		return nil, err
	}
	return &TokenStore{entityStore: base}, nil
}

func (s *TokenStore) Create(ctx context.Context, token *core.Token) error {
	if token == nil {
		return core.InvalidArgument("token", core.ConstraintRequired, "")
	}
	record, err := newTokenRecord(token, s.now())
	if err != nil {
		return err
	}
	return s.insert(ctx, record, "reference_id", derefString(record.ReferenceID))
}

func (s *TokenStore) Update(ctx context.Context, token *core.Token) error {
	if token == nil {
		return core.InvalidArgument("token", core.ConstraintRequired, "")
	}
	record, err := newTokenRecord(token, s.now())
	if err != nil {
		return err
	}
	return s.update(ctx, record, record.ID, "reference_id", derefString(record.ReferenceID))
}

func (s *TokenStore) Delete(ctx context.Context, token *core.Token) error {
	if token == nil {
		return core.InvalidArgument("token", core.ConstraintRequired, "")
	}
	return s.write(ctx, func(ctx context.Context, tx bun.Tx) error {
		return s.deleteByID(ctx, tx, token.ID())
	})
}

func (s *TokenStore) FindByReferenceID(ctx context.Context, referenceID string) (*core.Token, error) {
	trimmed, err := requireKey("reference_id", referenceID)
	if err != nil {
		return nil, err
	}
	return s.findOne(ctx, repository.SelectBy("reference_id", "=", trimmed))
}

func (s *TokenStore) FindBySubject(ctx context.Context, subject string) (core.Sequence[*core.Token], error) {
	return s.findByColumn(ctx, "subject", subject)
}

func (s *TokenStore) FindByApplicationID(ctx context.Context, applicationID string) (core.Sequence[*core.Token], error) {
	return s.findByColumn(ctx, "application_id", applicationID)
}

func (s *TokenStore) FindByAuthorizationID(ctx context.Context, authorizationID string) (core.Sequence[*core.Token], error) {
	return s.findByColumn(ctx, "authorization_id", authorizationID)
}

func (s *TokenStore) findByColumn(ctx context.Context, column string, value string) (core.Sequence[*core.Token], error) {
	trimmed, err := requireKey(column, value)
	if err != nil {
		return nil, err
	}
	q := s.SelectQuery().
		Where("? = ?", bun.Ident(column), trimmed).
		OrderExpr("id ASC")
	return s.sequence(ctx, q), nil
}

func (s *TokenStore) Find(ctx context.Context, filter core.TokenFilter) (core.Sequence[*core.Token], error) {
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

// RevokeByAuthorizationID marks every token of the authorization revoked
// with a single UPDATE and returns how many rows changed.
func (s *TokenStore) RevokeByAuthorizationID(ctx context.Context, authorizationID string) (int64, error) {
	trimmed, err := requireKey("authorization_id", authorizationID)
	if err != nil {
		return 0, err
	}
	var revoked int64
	err = s.write(ctx, func(ctx context.Context, tx bun.Tx) error {
		res, err := tx.NewUpdate().
			Model((*tokenRecord)(nil)).
			Set("status = ?", core.TokenStatusRevoked).
			Set("updated_at = ?", s.now()).
			Where("authorization_id = ?", trimmed).
			Where("status <> ?", core.TokenStatusRevoked).
			Exec(ctx)
		if err != nil {
			return err
		}
		revoked, err = res.RowsAffected()
		return err
	})
	if err != nil {
		return 0, err
	}
	return revoked, nil
}

// GetPruneList selects tokens created before olderThan that are no longer
// usable: a terminal status, expired, or issued under an authorization that
// is no longer valid. One statement, ordered by id.
func (s *TokenStore) GetPruneList(ctx context.Context, olderThan time.Time, maxResults int) ([]*core.Token, error) {
	revokedAuthorization := s.db.NewSelect().
		TableExpr("oauth_authorizations AS a").
		ColumnExpr("1").
		Where("a.id = ot.authorization_id").
		Where("a.status <> ?", core.AuthorizationStatusValid)

	q := s.SelectQuery().
		Where("ot.creation_date < ?", olderThan.UTC()).
		WhereGroup(" AND ", func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.
				Where("ot.status NOT IN (?)", bun.In([]string{core.TokenStatusInactive, core.TokenStatusValid})).
				WhereOr("ot.expiration_date < ?", s.now()).
				WhereOr("EXISTS (?)", revokedAuthorization)
		}).
		OrderExpr("ot.id ASC").
		Limit(pruneLimit(maxResults))

	return s.sequence(ctx, q).Collect()
}

func (s *TokenStore) DeleteBatch(ctx context.Context, ids []string) (int64, error) {
	return s.deleteBatch(ctx, ids, nil)
}

func derefString(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}
