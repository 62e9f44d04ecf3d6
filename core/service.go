package core

import (
	"context"
	"strings"
	"time"

	glog "github.com/goliatone/go-logger/glog"
)

// Service ties the stores to pruning, seeding and permission checks.
type Service struct {
	config             Config
	logger             Logger
	loggerProvider     LoggerProvider
	metricsRecorder    MetricsRecorder
	errorMapper        ErrorMapper
	persistenceClient  any
	repositoryFactory  any
	configProvider     ConfigProvider
	optionsResolver    OptionsResolver
	applicationStore   ApplicationStore
	authorizationStore AuthorizationStore
	scopeStore         ScopeStore
	tokenStore         TokenStore
	applicationLookup  ApplicationLookup
	permissions        *PermissionChecker
	idGenerator        IDGenerator
	secretHasher       SecretHasher
	pruner             *Pruner
	seeder             *DataSeeder
	seedApplications   []ApplicationDescriptor
	seedScopes         []ScopeDescriptor
	observer           observer
}

type ServiceDependencies struct {
	Logger             Logger
	LoggerProvider     LoggerProvider
	MetricsRecorder    MetricsRecorder
	ErrorMapper        ErrorMapper
	PersistenceClient  any
	RepositoryFactory  any
	ConfigProvider     ConfigProvider
	OptionsResolver    OptionsResolver
	ApplicationStore   ApplicationStore
	AuthorizationStore AuthorizationStore
	ScopeStore         ScopeStore
	TokenStore         TokenStore
	ApplicationLookup  ApplicationLookup
	Permissions        *PermissionChecker
	IDGenerator        IDGenerator
	SecretHasher       SecretHasher
}

func NewService(cfg Config, opts ...Option) (*Service, error) {
	builder := defaultServiceBuilder(cfg)
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(&builder)
	}

	provider, logger := glog.Resolve("oauthstore", builder.loggerProvider, builder.logger)
	logger = glog.Ensure(logger)
	if provider != nil {
		if named := provider.GetLogger("oauthstore"); named != nil {
			logger = glog.Ensure(named)
		}
	}

	if builder.metricsRecorder == nil {
		builder.metricsRecorder = NopMetricsRecorder{}
	}
	if builder.errorMapper == nil {
		builder.errorMapper = defaultErrorMapper
	}
	if builder.configProvider == nil {
		builder.configProvider = NewCfgxConfigProvider(nil)
	}
	if builder.optionsResolver == nil {
		builder.optionsResolver = GoOptionsResolver{}
	}
	if builder.idGenerator == nil {
		builder.idGenerator = UUIDGenerator{}
	}
	if builder.secretHasher == nil {
		builder.secretHasher = BcryptSecretHasher{}
	}

	defaults := DefaultConfig()
	loaded, err := builder.configProvider.Load(context.Background(), defaults)
	if err != nil {
		return nil, mapBuildError(builder.errorMapper, err)
	}
	finalConfig, err := builder.optionsResolver.Resolve(defaults, loaded, builder.runtimeConfig)
	if err != nil {
		return nil, mapBuildError(builder.errorMapper, err)
	}

	if err := resolveStores(&builder); err != nil {
		return nil, mapBuildError(builder.errorMapper, err)
	}
	if builder.applicationLookup == nil && builder.applicationStore != nil {
		builder.applicationLookup = builder.applicationStore
	}

	providers := []PermissionValueProvider{NewClientPermissionValueProvider(builder.applicationLookup)}
	providers = append(providers, builder.permissionProviders...)

	return &Service{
		config:             finalConfig,
		logger:             logger,
		loggerProvider:     provider,
		metricsRecorder:    builder.metricsRecorder,
		errorMapper:        builder.errorMapper,
		persistenceClient:  builder.persistenceClient,
		repositoryFactory:  builder.repositoryFactory,
		configProvider:     builder.configProvider,
		optionsResolver:    builder.optionsResolver,
		applicationStore:   builder.applicationStore,
		authorizationStore: builder.authorizationStore,
		scopeStore:         builder.scopeStore,
		tokenStore:         builder.tokenStore,
		applicationLookup:  builder.applicationLookup,
		permissions:        NewPermissionChecker(providers...),
		idGenerator:        builder.idGenerator,
		secretHasher:       builder.secretHasher,
		pruner: NewPruner(
			builder.tokenStore,
			builder.authorizationStore,
			finalConfig.Pruning,
			logger,
			builder.metricsRecorder,
		),
		seeder: NewDataSeeder(
			builder.applicationStore,
			builder.scopeStore,
			builder.idGenerator,
			builder.secretHasher,
			logger,
		).WithServerConfig(finalConfig.Server),
		seedApplications: append([]ApplicationDescriptor(nil), builder.seedApplications...),
		seedScopes:       append([]ScopeDescriptor(nil), builder.seedScopes...),
		observer:         newObserver(logger, builder.metricsRecorder),
	}, nil
}

func Setup(cfg Config, opts ...Option) (*Service, error) {
	return NewService(cfg, opts...)
}

func resolveStores(builder *serviceBuilder) error {
	if builder.repositoryFactory == nil {
		return nil
	}
	var provider StoreProvider
	switch factory := builder.repositoryFactory.(type) {
	case RepositoryStoreFactory:
		built, err := factory.BuildStores(builder.persistenceClient)
		if err != nil {
			return err
		}
		provider = built
	case StoreProvider:
		provider = factory
	default:
		return nil
	}
	if provider == nil {
		return nil
	}
	if builder.applicationStore == nil {
		builder.applicationStore = provider.ApplicationStore()
	}
	if builder.authorizationStore == nil {
		builder.authorizationStore = provider.AuthorizationStore()
	}
	if builder.scopeStore == nil {
		builder.scopeStore = provider.ScopeStore()
	}
	if builder.tokenStore == nil {
		builder.tokenStore = provider.TokenStore()
	}
	return nil
}

func mapBuildError(mapper ErrorMapper, err error) error {
	if err == nil {
		return nil
	}
	if mapper == nil {
		return err
	}
	mapped := mapper(err)
	if mapped == nil {
		return err
	}
	return mapped
}

func (s *Service) Config() Config {
	if s == nil {
		return Config{}
	}
	return s.config
}

func (s *Service) Dependencies() ServiceDependencies {
	if s == nil {
		return ServiceDependencies{}
	}
	return ServiceDependencies{
		Logger:             s.logger,
		LoggerProvider:     s.loggerProvider,
		MetricsRecorder:    s.metricsRecorder,
		ErrorMapper:        s.errorMapper,
		PersistenceClient:  s.persistenceClient,
		RepositoryFactory:  s.repositoryFactory,
		ConfigProvider:     s.configProvider,
		OptionsResolver:    s.optionsResolver,
		ApplicationStore:   s.applicationStore,
		AuthorizationStore: s.authorizationStore,
		ScopeStore:         s.scopeStore,
		TokenStore:         s.tokenStore,
		ApplicationLookup:  s.applicationLookup,
		Permissions:        s.permissions,
		IDGenerator:        s.idGenerator,
		SecretHasher:       s.secretHasher,
	}
}

func (s *Service) Applications() ApplicationStore { return s.applicationStore }

func (s *Service) Authorizations() AuthorizationStore { return s.authorizationStore }

func (s *Service) Scopes() ScopeStore { return s.scopeStore }

func (s *Service) Tokens() TokenStore { return s.tokenStore }

func (s *Service) Permissions() *PermissionChecker { return s.permissions }

func (s *Service) Pruner() *Pruner { return s.pruner }

// Prune removes prunable tokens and authorizations older than the
// configured threshold.
func (s *Service) Prune(ctx context.Context) (PruneReport, error) {
	if s == nil || s.pruner == nil {
		return PruneReport{}, Internal("core: service is not configured")
	}
	return s.pruner.Prune(ctx, s.pruner.Cutoff())
}

// Seed applies the descriptors registered with WithSeedApplications and
// WithSeedScopes.
func (s *Service) Seed(ctx context.Context) (SeedResult, error) {
	if s == nil || s.seeder == nil {
		return SeedResult{}, Internal("core: service is not configured")
	}
	return s.seeder.Seed(ctx, s.seedApplications, s.seedScopes)
}

func (s *Service) IsClientGranted(ctx context.Context, clientID string, permission string) (bool, error) {
	if s == nil || s.permissions == nil {
		return false, Internal("core: service is not configured")
	}
	return s.permissions.IsClientGranted(ctx, clientID, permission)
}

// RequiresPKCE reports whether app must present a PKCE challenge on the
// authorization code flow.
func (s *Service) RequiresPKCE(app *Application) bool {
	if s == nil {
		return false
	}
	return s.config.Server.RequiresPKCE(app)
}

// RevokeAuthorization marks the authorization revoked and revokes every
// token issued under it. The returned count is the number of tokens changed.
//
// The status update and the token revocation are separate units of work.
// When the second fails the authorization stays revoked while its tokens
// keep their status until pruned; calling RevokeAuthorization again
// completes the revocation.
func (s *Service) RevokeAuthorization(ctx context.Context, authorizationID string) (revoked int64, err error) {
	if s == nil {
		return 0, Internal("core: service is not configured")
	}
	startedAt := time.Now().UTC()
	defer func() {
		s.observer.observeOperation(ctx, startedAt, "revoke_authorization", err, map[string]any{
			"entity":           "authorization",
			"authorization_id": authorizationID,
			"revoked_tokens":   revoked,
		})
	}()
	if s.authorizationStore == nil || s.tokenStore == nil {
		return 0, Internal("core: authorization and token stores are required")
	}
	authorizationID = strings.TrimSpace(authorizationID)
	if authorizationID == "" {
		return 0, InvalidArgument("authorization_id", ConstraintNotBlank, "authorization_id must not be blank")
	}
	authorization, err := s.authorizationStore.FindByID(ctx, authorizationID)
	if err != nil {
		return 0, err
	}
	if authorization == nil {
		return 0, NotFound("core: authorization not found", map[string]any{"authorization_id": authorizationID})
	}
	if authorization.Status() != AuthorizationStatusRevoked {
		if err := authorization.SetStatus(AuthorizationStatusRevoked); err != nil {
			return 0, err
		}
		if err := s.authorizationStore.Update(ctx, authorization); err != nil {
			return 0, err
		}
	}
	return s.tokenStore.RevokeByAuthorizationID(ctx, authorizationID)
}
