package oauthstore

import "github.com/goliatone/go-oauth-store/core"

type Config = core.Config

type PruningConfig = core.PruningConfig

type ServerConfig = core.ServerConfig

type Option = core.Option

type Service = core.Service

type ServiceDependencies = core.ServiceDependencies

type Application = core.Application
type Authorization = core.Authorization
type Scope = core.Scope
type Token = core.Token
type Properties = core.Properties
type Value = core.Value

type ApplicationStore = core.ApplicationStore
type AuthorizationStore = core.AuthorizationStore
type ScopeStore = core.ScopeStore
type TokenStore = core.TokenStore
type UnitOfWork = core.UnitOfWork
type UnitOfWorkManager = core.UnitOfWorkManager

type ApplicationDescriptor = core.ApplicationDescriptor
type ScopeDescriptor = core.ScopeDescriptor

type PermissionValueProvider = core.PermissionValueProvider
type PermissionContext = core.PermissionContext

type PruneReport = core.PruneReport

var (
	WithLogger              = core.WithLogger
	WithLoggerProvider      = core.WithLoggerProvider
	WithMetricsRecorder     = core.WithMetricsRecorder
	WithErrorMapper         = core.WithErrorMapper
	WithPersistenceClient   = core.WithPersistenceClient
	WithRepositoryFactory   = core.WithRepositoryFactory
	WithConfigProvider      = core.WithConfigProvider
	WithOptionsResolver     = core.WithOptionsResolver
	WithApplicationStore    = core.WithApplicationStore
	WithAuthorizationStore  = core.WithAuthorizationStore
	WithScopeStore          = core.WithScopeStore
	WithTokenStore          = core.WithTokenStore
	WithApplicationLookup   = core.WithApplicationLookup
	WithPermissionProviders = core.WithPermissionProviders
	WithIDGenerator         = core.WithIDGenerator
	WithSecretHasher        = core.WithSecretHasher
	WithSeedApplications    = core.WithSeedApplications
	WithSeedScopes          = core.WithSeedScopes
)

func DefaultConfig() Config {
	return core.DefaultConfig()
}

func NewService(cfg Config, opts ...Option) (*Service, error) {
	return core.NewService(cfg, opts...)
}

func Setup(cfg Config, opts ...Option) (*Service, error) {
	return core.Setup(cfg, opts...)
}
