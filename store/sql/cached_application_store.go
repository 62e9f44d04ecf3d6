package sqlstore

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/goliatone/go-oauth-store/core"
	repositorycache "github.com/goliatone/go-repository-cache/cache"
)

const applicationCacheKeyPrefix = "go-oauth-store::application::v1"

var errApplicationMissing = errors.New("sqlstore: application missing")

// CachedApplicationStore serves FindByClientID from a cache and drops the
// cached entry whenever the application is written.
type CachedApplicationStore struct {
	core.ApplicationStore
	cache repositorycache.CacheService
}

func NewCachedApplicationStore(
	base core.ApplicationStore,
	cacheService repositorycache.CacheService,
) (*CachedApplicationStore, error) {
	if base == nil {
		return nil, fmt.Errorf("sqlstore: base application store is required")
	}
	if cacheService == nil {
		return nil, fmt.Errorf("sqlstore: application cache service is required")
	}
	return &CachedApplicationStore{ApplicationStore: base, cache: cacheService}, nil
}

// ApplicationCacheKey returns go-oauth-store::application::v1::<client_id>
// with the client id URL-path escaped.
func ApplicationCacheKey(clientID string) string {
	return applicationCacheKeyPrefix + "::" + url.PathEscape(strings.TrimSpace(clientID))
}

func (s *CachedApplicationStore) FindByClientID(ctx context.Context, clientID string) (*core.Application, error) {
	trimmed, err := requireKey("client_id", clientID)
	if err != nil {
		return nil, err
	}
	snapshot, err := repositorycache.GetOrFetch(ctx, s.cache, ApplicationCacheKey(trimmed), func(ctx context.Context) (core.ApplicationSnapshot, error) {
		app, fetchErr := s.ApplicationStore.FindByClientID(ctx, trimmed)
		if fetchErr != nil {
			return core.ApplicationSnapshot{}, fetchErr
		}
		if app == nil {
			return core.ApplicationSnapshot{}, errApplicationMissing
		}
		return app.Snapshot(), nil
	})
	if errors.Is(err, errApplicationMissing) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return core.RestoreApplication(snapshot)
}

func (s *CachedApplicationStore) Create(ctx context.Context, app *core.Application) error {
	if app == nil {
		return core.InvalidArgument("application", core.ConstraintRequired, "")
	}
	if err := s.ApplicationStore.Create(ctx, app); err != nil {
		return err
	}
	return s.invalidate(ctx, app.ClientID())
}

func (s *CachedApplicationStore) Update(ctx context.Context, app *core.Application) error {
	if app == nil {
		return core.InvalidArgument("application", core.ConstraintRequired, "")
	}
	previous, err := s.ApplicationStore.FindByID(ctx, app.ID())
	if err != nil {
		return err
	}
	if err := s.ApplicationStore.Update(ctx, app); err != nil {
		return err
	}
	if previous != nil && previous.ClientID() != app.ClientID() {
		if err := s.invalidate(ctx, previous.ClientID()); err != nil {
			return err
		}
	}
	return s.invalidate(ctx, app.ClientID())
}

func (s *CachedApplicationStore) Delete(ctx context.Context, app *core.Application) error {
	if app == nil {
		return core.InvalidArgument("application", core.ConstraintRequired, "")
	}
	if err := s.ApplicationStore.Delete(ctx, app); err != nil {
		return err
	}
	return s.invalidate(ctx, app.ClientID())
}

func (s *CachedApplicationStore) invalidate(ctx context.Context, clientID string) error {
	return s.cache.Delete(ctx, ApplicationCacheKey(clientID))
}
