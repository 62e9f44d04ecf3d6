package sqlstore

import (
	"context"
	"fmt"

	"github.com/goliatone/go-oauth-store/core"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/uptrace/bun"
)

type ApplicationStore struct {
	entityStore[applicationRecord, *core.Application]
}

func NewApplicationStore(db *bun.DB) (*ApplicationStore, error) {
	base, err := newEntityStore(db, applicationHandlers(), "application", (*applicationRecord).toDomain)
	if err != nil {
		return nil, err
	}
	base.columns = (*applicationRecord).columns
	return &ApplicationStore{entityStore: base}, nil
}

func (s *ApplicationStore) Create(ctx context.Context, app *core.Application) error {
	if app == nil {
		return core.InvalidArgument("application", core.ConstraintRequired, "")
	}
	record, err := newApplicationRecord(app, s.now())
	if err != nil {
		return err
	}
	return s.insert(ctx, record, "client_id", record.ClientID)
}

func (s *ApplicationStore) Update(ctx context.Context, app *core.Application) error {
	if app == nil {
		return core.InvalidArgument("application", core.ConstraintRequired, "")
	}
	record, err := newApplicationRecord(app, s.now())
	if err != nil {
		return err
	}
	return s.update(ctx, record, record.ID, "client_id", record.ClientID)
}

func (s *ApplicationStore) Delete(ctx context.Context, app *core.Application) error {
	if app == nil {
		return core.InvalidArgument("application", core.ConstraintRequired, "")
	}
	return s.write(ctx, func(ctx context.Context, tx bun.Tx) error {
		return s.deleteByID(ctx, tx, app.ID())
	})
}

func (s *ApplicationStore) FindByClientID(ctx context.Context, clientID string) (*core.Application, error) {
	trimmed, err := requireKey("client_id", clientID)
	if err != nil {
		return nil, err
	}
	return s.findOne(ctx, repository.SelectBy("client_id", "=", trimmed))
}

// FindByRedirectURI matches the raw JSON column first and then keeps only
// applications whose redirect set holds uri exactly.
func (s *ApplicationStore) FindByRedirectURI(ctx context.Context, uri string) (core.Sequence[*core.Application], error) {
	trimmed, err := requireKey("redirect_uri", uri)
	if err != nil {
		return nil, err
	}
	q := s.SelectQuery().
		Where("redirect_uris LIKE ?", containsPattern(trimmed)).
		OrderExpr("id ASC")
	return filterSequence(s.sequence(ctx, q), func(app *core.Application) bool {
		return app.HasRedirectURI(trimmed)
	}), nil
}

func (s *ApplicationStore) FindByPostLogoutRedirectURI(ctx context.Context, uri string) (core.Sequence[*core.Application], error) {
	trimmed, err := requireKey("post_logout_redirect_uri", uri)
	if err != nil {
		return nil, err
	}
	q := s.SelectQuery().
		Where("post_logout_redirect_uris LIKE ?", containsPattern(trimmed)).
		OrderExpr("id ASC")
	return filterSequence(s.sequence(ctx, q), func(app *core.Application) bool {
		return app.HasPostLogoutRedirectURI(trimmed)
	}), nil
}

func containsPattern(value string) string {
	return fmt.Sprintf("%%%s%%", value)
}
