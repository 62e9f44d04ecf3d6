package sqlstore

import "github.com/goliatone/go-oauth-store/core"

var (
	_ core.ApplicationStore       = (*ApplicationStore)(nil)
	_ core.ApplicationStore       = (*CachedApplicationStore)(nil)
	_ core.AuthorizationStore     = (*AuthorizationStore)(nil)
	_ core.ScopeStore             = (*ScopeStore)(nil)
	_ core.TokenStore             = (*TokenStore)(nil)
	_ core.StoreProvider          = (*RepositoryFactory)(nil)
	_ core.RepositoryStoreFactory = (*RepositoryFactory)(nil)
	_ core.UnitOfWorkManager      = (*UnitOfWorkManager)(nil)
	_ core.UnitOfWork             = (*UnitOfWork)(nil)
	_ Queryable                   = (*ApplicationStore)(nil)
	_ Queryable                   = (*TokenStore)(nil)
)
