package core

import (
	"context"
	"time"

	glog "github.com/goliatone/go-logger/glog"
	"github.com/uptrace/bun"
)

// QueryFunc narrows a store's select query. It must stay read-only.
type QueryFunc func(*bun.SelectQuery) *bun.SelectQuery

// EntityStore is the surface shared by every entity store.
type EntityStore[T any] interface {
	Count(ctx context.Context) (int64, error)
	CountWhere(ctx context.Context, where QueryFunc) (int64, error)
	Create(ctx context.Context, entity T) error
	Update(ctx context.Context, entity T) error
	Delete(ctx context.Context, entity T) error
	FindByID(ctx context.Context, id string) (T, error)
	List(ctx context.Context, count *int, offset *int) (Sequence[T], error)
}

type ApplicationLookup interface {
	FindByClientID(ctx context.Context, clientID string) (*Application, error)
}

type ApplicationStore interface {
	EntityStore[*Application]
	ApplicationLookup
	FindByRedirectURI(ctx context.Context, uri string) (Sequence[*Application], error)
	FindByPostLogoutRedirectURI(ctx context.Context, uri string) (Sequence[*Application], error)
}

// AuthorizationFilter selects authorizations for a subject and client, with
// optional status and type narrowing.
type AuthorizationFilter struct {
	Subject       string
	ApplicationID string
	Status        string
	Type          string
}

type AuthorizationStore interface {
	EntityStore[*Authorization]
	FindBySubject(ctx context.Context, subject string) (Sequence[*Authorization], error)
	FindByApplicationID(ctx context.Context, applicationID string) (Sequence[*Authorization], error)
	Find(ctx context.Context, filter AuthorizationFilter) (Sequence[*Authorization], error)
	GetPruneList(ctx context.Context, olderThan time.Time, maxResults int) ([]*Authorization, error)
	DeleteBatch(ctx context.Context, ids []string) (int64, error)
}

type ScopeStore interface {
	EntityStore[*Scope]
	FindByName(ctx context.Context, name string) (*Scope, error)
	FindByNames(ctx context.Context, names []string) (Sequence[*Scope], error)
	FindByResource(ctx context.Context, resource string) (Sequence[*Scope], error)
}

type TokenFilter struct {
	Subject       string
	ApplicationID string
	Status        string
	Type          string
}

type TokenStore interface {
	EntityStore[*Token]
	FindByReferenceID(ctx context.Context, referenceID string) (*Token, error)
	FindBySubject(ctx context.Context, subject string) (Sequence[*Token], error)
	FindByApplicationID(ctx context.Context, applicationID string) (Sequence[*Token], error)
	FindByAuthorizationID(ctx context.Context, authorizationID string) (Sequence[*Token], error)
	Find(ctx context.Context, filter TokenFilter) (Sequence[*Token], error)
	RevokeByAuthorizationID(ctx context.Context, authorizationID string) (int64, error)
	GetPruneList(ctx context.Context, olderThan time.Time, maxResults int) ([]*Token, error)
	DeleteBatch(ctx context.Context, ids []string) (int64, error)
}

type StoreProvider interface {
	ApplicationStore() ApplicationStore
	AuthorizationStore() AuthorizationStore
	ScopeStore() ScopeStore
	TokenStore() TokenStore
}

type RepositoryStoreFactory interface {
	BuildStores(persistenceClient any) (StoreProvider, error)
}

// UnitOfWork is a transactional scope. Dispose without Complete rolls back;
// Dispose after Complete is a no-op.
type UnitOfWork interface {
	Complete(ctx context.Context) error
	Dispose() error
}

type UnitOfWorkManager interface {
	Begin(ctx context.Context) (UnitOfWork, error)
}

type IDGenerator interface {
	NewID() string
}

type MetricsRecorder interface {
	IncCounter(ctx context.Context, name string, value int64, tags map[string]string)
	ObserveHistogram(ctx context.Context, name string, value float64, tags map[string]string)
}

type Logger = glog.Logger

type LoggerProvider = glog.LoggerProvider

type FieldsLogger = glog.FieldsLogger
