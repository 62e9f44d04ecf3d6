package core

import (
	"context"
	"fmt"
	"strings"

	"github.com/goliatone/go-config/cfgx"
	goerrors "github.com/goliatone/go-errors"
	glog "github.com/goliatone/go-logger/glog"
	opts "github.com/goliatone/go-options"
)

type ErrorMapper func(err error) *goerrors.Error

type ConfigProvider interface {
	Load(ctx context.Context, defaults Config) (Config, error)
}

type RawConfigLoader interface {
	LoadRaw(ctx context.Context) (map[string]any, error)
}

type OptionsResolver interface {
	Resolve(defaults Config, loaded Config, runtime Config) (Config, error)
}

type serviceBuilder struct {
	runtimeConfig       Config
	logger              Logger
	loggerProvider      LoggerProvider
	metricsRecorder     MetricsRecorder
	errorMapper         ErrorMapper
	persistenceClient   any
	repositoryFactory   any
	configProvider      ConfigProvider
	optionsResolver     OptionsResolver
	applicationStore    ApplicationStore
	authorizationStore  AuthorizationStore
	scopeStore          ScopeStore
	tokenStore          TokenStore
	applicationLookup   ApplicationLookup
	permissionProviders []PermissionValueProvider
	idGenerator         IDGenerator
	secretHasher        SecretHasher
	seedApplications    []ApplicationDescriptor
	seedScopes          []ScopeDescriptor
}

type Option func(*serviceBuilder)

func WithLogger(logger Logger) Option {
	return func(b *serviceBuilder) {
		b.logger = logger
	}
}

func WithLoggerProvider(provider LoggerProvider) Option {
	return func(b *serviceBuilder) {
		b.loggerProvider = provider
	}
}

func WithMetricsRecorder(recorder MetricsRecorder) Option {
	return func(b *serviceBuilder) {
		b.metricsRecorder = recorder
	}
}

func WithErrorMapper(mapper ErrorMapper) Option {
	return func(b *serviceBuilder) {
		b.errorMapper = mapper
	}
}

func WithPersistenceClient(client any) Option {
	return func(b *serviceBuilder) {
		b.persistenceClient = client
	}
}

// WithRepositoryFactory accepts a RepositoryStoreFactory or a StoreProvider.
func WithRepositoryFactory(factory any) Option {
	return func(b *serviceBuilder) {
		b.repositoryFactory = factory
	}
}

func WithConfigProvider(provider ConfigProvider) Option {
	return func(b *serviceBuilder) {
		b.configProvider = provider
	}
}

func WithOptionsResolver(resolver OptionsResolver) Option {
	return func(b *serviceBuilder) {
		b.optionsResolver = resolver
	}
}

func WithApplicationStore(store ApplicationStore) Option {
	return func(b *serviceBuilder) {
		b.applicationStore = store
	}
}

func WithAuthorizationStore(store AuthorizationStore) Option {
	return func(b *serviceBuilder) {
		b.authorizationStore = store
	}
}

func WithScopeStore(store ScopeStore) Option {
	return func(b *serviceBuilder) {
		b.scopeStore = store
	}
}

func WithTokenStore(store TokenStore) Option {
	return func(b *serviceBuilder) {
		b.tokenStore = store
	}
}

// WithApplicationLookup overrides the client lookup used for permission
// checks, e.g. with a cached lookup.
func WithApplicationLookup(lookup ApplicationLookup) Option {
	return func(b *serviceBuilder) {
		b.applicationLookup = lookup
	}
}

// WithPermissionProviders appends providers evaluated after the client
// provider.
func WithPermissionProviders(providers ...PermissionValueProvider) Option {
	return func(b *serviceBuilder) {
		b.permissionProviders = append(b.permissionProviders, providers...)
	}
}

func WithIDGenerator(generator IDGenerator) Option {
	return func(b *serviceBuilder) {
		b.idGenerator = generator
	}
}

func WithSecretHasher(hasher SecretHasher) Option {
	return func(b *serviceBuilder) {
		b.secretHasher = hasher
	}
}

func WithSeedApplications(descriptors ...ApplicationDescriptor) Option {
	return func(b *serviceBuilder) {
		b.seedApplications = append(b.seedApplications, descriptors...)
	}
}

func WithSeedScopes(descriptors ...ScopeDescriptor) Option {
	return func(b *serviceBuilder) {
		b.seedScopes = append(b.seedScopes, descriptors...)
	}
}

func defaultServiceBuilder(runtime Config) serviceBuilder {
	loggerProvider, logger := glog.Resolve("oauthstore", nil, nil)
	return serviceBuilder{
		runtimeConfig:   runtime,
		loggerProvider:  loggerProvider,
		logger:          logger,
		metricsRecorder: NopMetricsRecorder{},
		errorMapper:     defaultErrorMapper,
		configProvider:  NewCfgxConfigProvider(nil),
		optionsResolver: GoOptionsResolver{},
		idGenerator:     UUIDGenerator{},
		secretHasher:    BcryptSecretHasher{},
	}
}

func defaultErrorMapper(err error) *goerrors.Error {
	if err == nil {
		return nil
	}
	var rich *goerrors.Error
	if goerrors.As(err, &rich) {
		return rich
	}
	return goerrors.Wrap(err, goerrors.CategoryInternal, "core: service setup failed").
		WithTextCode(ErrorInternal)
}

type staticRawConfigLoader struct {
	Values map[string]any
}

func (l staticRawConfigLoader) LoadRaw(context.Context) (map[string]any, error) {
	if len(l.Values) == 0 {
		return map[string]any{}, nil
	}
	out := make(map[string]any, len(l.Values))
	for key, value := range l.Values {
		out[key] = value
	}
	return out, nil
}

// StaticConfigLoader serves a fixed raw configuration map.
func StaticConfigLoader(values map[string]any) RawConfigLoader {
	return staticRawConfigLoader{Values: values}
}

type CfgxConfigProvider struct {
	Loader RawConfigLoader
}

func NewCfgxConfigProvider(loader RawConfigLoader) *CfgxConfigProvider {
	return &CfgxConfigProvider{Loader: loader}
}

func (p *CfgxConfigProvider) Load(ctx context.Context, defaults Config) (Config, error) {
	if p == nil {
		return defaults, nil
	}
	loader := p.Loader
	if loader == nil {
		loader = staticRawConfigLoader{}
	}
	raw, err := loader.LoadRaw(ctx)
	if err != nil {
		return Config{}, err
	}
	cfg, err := cfgx.Build[Config](raw,
		cfgx.WithDefaults(defaults),
		cfgx.WithValidator[Config]((*Config).Validate),
	)
	if err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// GoOptionsResolver merges defaults < loaded config < runtime config.
type GoOptionsResolver struct{}

func (GoOptionsResolver) Resolve(defaults Config, loaded Config, runtime Config) (Config, error) {
	stack, err := opts.NewStack(
		opts.NewLayer(
			opts.NewScope("defaults", 0),
			configToLayerMap(defaults, true),
			opts.WithSnapshotID[map[string]any]("defaults"),
		),
		opts.NewLayer(
			opts.NewScope("config", 10),
			configToLayerMap(loaded, false),
			opts.WithSnapshotID[map[string]any]("config"),
		),
		opts.NewLayer(
			opts.NewScope("runtime", 20),
			configToLayerMap(runtime, false),
			opts.WithSnapshotID[map[string]any]("runtime"),
		),
	)
	if err != nil {
		return Config{}, fmt.Errorf("core: options stack build failed: %w", err)
	}
	merged, err := stack.Merge()
	if err != nil {
		return Config{}, fmt.Errorf("core: options merge failed: %w", err)
	}
	resolved, err := cfgx.Build[Config](merged.Value,
		cfgx.WithDefaults(defaults),
		cfgx.WithValidator[Config]((*Config).Validate),
	)
	if err != nil {
		return Config{}, err
	}
	if err := resolved.Validate(); err != nil {
		return Config{}, err
	}
	return resolved, nil
}

// configToLayerMap drops zero values from non-default layers so they never
// mask a lower layer.
func configToLayerMap(cfg Config, includeZero bool) map[string]any {
	layer := map[string]any{}
	if includeZero || strings.TrimSpace(cfg.ServiceName) != "" {
		layer["service_name"] = cfg.ServiceName
	}

	pruning := map[string]any{}
	if includeZero || cfg.Pruning.Threshold > 0 {
		pruning["threshold"] = cfg.Pruning.Threshold
	}
	if includeZero || cfg.Pruning.BatchSize > 0 {
		pruning["batch_size"] = cfg.Pruning.BatchSize
	}
	if includeZero || cfg.Pruning.MaxBatches > 0 {
		pruning["max_batches"] = cfg.Pruning.MaxBatches
	}
	if len(pruning) > 0 {
		layer["pruning"] = pruning
	}

	server := map[string]any{}
	if includeZero || cfg.Server.RequireProofKeyForCodeExchange {
		server["require_proof_key_for_code_exchange"] = cfg.Server.RequireProofKeyForCodeExchange
	}
	if includeZero || cfg.Server.SupportPlainCodeChallengeMethod {
		server["support_plain_code_challenge_method"] = cfg.Server.SupportPlainCodeChallengeMethod
	}
	if includeZero || cfg.Server.AddDeveloperSigningCredential {
		server["add_developer_signing_credential"] = cfg.Server.AddDeveloperSigningCredential
	}
	if includeZero || cfg.Server.AddEphemeralEncryptionKey {
		server["add_ephemeral_encryption_key"] = cfg.Server.AddEphemeralEncryptionKey
	}
	if len(server) > 0 {
		layer["server"] = server
	}
	return layer
}
