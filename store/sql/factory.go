package sqlstore

import (
	"fmt"

	"github.com/goliatone/go-oauth-store/core"
	persistence "github.com/goliatone/go-persistence-bun"
	"github.com/uptrace/bun"
)

type RepositoryFactory struct {
	db *bun.DB

	applicationStore   *ApplicationStore
	authorizationStore *AuthorizationStore
	scopeStore         *ScopeStore
	tokenStore         *TokenStore
	unitOfWork         *UnitOfWorkManager
}

func NewRepositoryFactory() *RepositoryFactory {
	return &RepositoryFactory{}
}

func NewRepositoryFactoryFromPersistence(client *persistence.Client) (*RepositoryFactory, error) {
	factory := NewRepositoryFactory()
	if _, err := factory.BuildStores(client); err != nil {
		return nil, err
	}
	return factory, nil
}

func NewRepositoryFactoryFromDB(db *bun.DB) (*RepositoryFactory, error) {
	factory := NewRepositoryFactory()
	if _, err := factory.BuildStores(db); err != nil {
		return nil, err
	}
	return factory, nil
}

func (f *RepositoryFactory) BuildStores(persistenceClient any) (core.StoreProvider, error) {
	if f == nil {
		return nil, fmt.Errorf("sqlstore: repository factory is nil")
	}
	if f.db == nil {
		db, err := resolveBunDB(persistenceClient)
		if err != nil {
			return nil, err
		}
		f.db = db
	}
	if f.applicationStore != nil && f.tokenStore != nil {
		return f, nil
	}
	if err := f.initStores(); err != nil {
		return nil, err
	}
	return f, nil
}

func (f *RepositoryFactory) ApplicationStore() core.ApplicationStore {
	if f == nil || f.applicationStore == nil {
		return nil
	}
	return f.applicationStore
}

func (f *RepositoryFactory) AuthorizationStore() core.AuthorizationStore {
	if f == nil || f.authorizationStore == nil {
		return nil
	}
	return f.authorizationStore
}

func (f *RepositoryFactory) ScopeStore() core.ScopeStore {
	if f == nil || f.scopeStore == nil {
		return nil
	}
	return f.scopeStore
}

func (f *RepositoryFactory) TokenStore() core.TokenStore {
	if f == nil || f.tokenStore == nil {
		return nil
	}
	return f.tokenStore
}

func (f *RepositoryFactory) UnitOfWorkManager() *UnitOfWorkManager {
	if f == nil {
		return nil
	}
	return f.unitOfWork
}

func (f *RepositoryFactory) DB() *bun.DB {
	if f == nil {
		return nil
	}
	return f.db
}

func (f *RepositoryFactory) initStores() error {
	applicationStore, err := NewApplicationStore(f.db)
	if err != nil {
		return err
	}
	authorizationStore, err := NewAuthorizationStore(f.db)
	if err != nil {
		return err
	}
	scopeStore, err := NewScopeStore(f.db)
	if err != nil {
		return err
	}
	tokenStore, err := NewTokenStore(f.db)
	if err != nil {
		return err
	}
	f.applicationStore = applicationStore
	f.authorizationStore = authorizationStore
	f.scopeStore = scopeStore
	f.tokenStore = tokenStore
	f.unitOfWork = NewUnitOfWorkManager(f.db)
	return nil
}

func resolveBunDB(candidate any) (*bun.DB, error) {
	switch typed := candidate.(type) {
	case nil:
		return nil, fmt.Errorf("sqlstore: persistence client is required")
	case *bun.DB:
		return typed, nil
	case interface{ DB() *bun.DB }:
		db := typed.DB()
		if db == nil {
			return nil, fmt.Errorf("sqlstore: persistence client returned nil bun db")
		}
		return db, nil
	default:
		return nil, fmt.Errorf("sqlstore: unsupported persistence client type %T", candidate)
	}
}
