package oauthstore

import (
	"fmt"

	oauthcommand "github.com/goliatone/go-oauth-store/command"
	"github.com/goliatone/go-oauth-store/grants"
	oauthquery "github.com/goliatone/go-oauth-store/query"
	"github.com/ory/fosite"
)

type Commands struct {
	Prune               *oauthcommand.PruneCommand
	RevokeAuthorization *oauthcommand.RevokeAuthorizationCommand
	Seed                *oauthcommand.SeedCommand
}

type Queries struct {
	FindApplication        *oauthquery.FindApplicationQuery
	FindToken              *oauthquery.FindTokenQuery
	TokenPruneList         *oauthquery.TokenPruneListQuery
	AuthorizationPruneList *oauthquery.AuthorizationPruneListQuery
	ClientPermission       *oauthquery.ClientPermissionQuery
}

// Facade bundles the command and query handlers and the grant dispatcher
// built over one Service.
type Facade struct {
	service    *Service
	commands   Commands
	queries    Queries
	grants     *grants.Registry
	dispatcher *grants.Dispatcher
}

type FacadeOption func(*facadeOptions)

type facadeOptions struct {
	handlers                 []grants.Handler
	disableClientCredentials bool
}

// WithGrantHandlers registers extra grant handlers next to the built-in
// client_credentials handler.
func WithGrantHandlers(handlers ...grants.Handler) FacadeOption {
	return func(options *facadeOptions) {
		options.handlers = append(options.handlers, handlers...)
	}
}

// WithoutClientCredentials leaves client_credentials unregistered so the
// host can supply its own handler.
func WithoutClientCredentials() FacadeOption {
	return func(options *facadeOptions) {
		options.disableClientCredentials = true
	}
}

func NewFacade(service *Service, opts ...FacadeOption) (*Facade, error) {
	if service == nil {
		return nil, fmt.Errorf("oauthstore: service is required")
	}
	cfg := facadeOptions{}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}

	deps := service.Dependencies()
	handlers := make([]grants.Handler, 0, len(cfg.handlers)+1)
	if !cfg.disableClientCredentials {
		handlers = append(handlers, grants.NewClientCredentialsHandler(
			deps.ApplicationLookup,
			deps.SecretHasher,
			service.Permissions(),
			service.Scopes(),
		))
	}
	handlers = append(handlers, cfg.handlers...)
	registry, err := grants.NewRegistry(handlers...)
	if err != nil {
		return nil, err
	}

	facade := &Facade{
		service: service,
		grants:  registry,
		dispatcher: grants.NewDispatcher(registry,
			grants.WithLogger(deps.Logger),
			grants.WithMetricsRecorder(deps.MetricsRecorder),
		),
	}
	facade.commands = Commands{
		Prune:               oauthcommand.NewPruneCommand(service.Pruner()),
		RevokeAuthorization: oauthcommand.NewRevokeAuthorizationCommand(service),
		Seed:                oauthcommand.NewSeedCommand(service),
	}
	facade.queries = Queries{
		FindApplication:        oauthquery.NewFindApplicationQuery(service.Applications()),
		FindToken:              oauthquery.NewFindTokenQuery(service.Tokens()),
		TokenPruneList:         oauthquery.NewTokenPruneListQuery(service.Tokens()),
		AuthorizationPruneList: oauthquery.NewAuthorizationPruneListQuery(service.Authorizations()),
		ClientPermission:       oauthquery.NewClientPermissionQuery(service.Permissions()),
	}
	return facade, nil
}

func (f *Facade) Commands() Commands {
	if f == nil {
		return Commands{}
	}
	return f.commands
}

func (f *Facade) Queries() Queries {
	if f == nil {
		return Queries{}
	}
	return f.queries
}

func (f *Facade) Grants() *grants.Registry {
	if f == nil {
		return nil
	}
	return f.grants
}

func (f *Facade) Dispatcher() *grants.Dispatcher {
	if f == nil {
		return nil
	}
	return f.dispatcher
}

func (f *Facade) Service() *Service {
	if f == nil {
		return nil
	}
	return f.service
}

// FositeConfig applies the service's server toggles to base, or to a fresh
// config when base is nil, for hosts that run a fosite token endpoint.
func (f *Facade) FositeConfig(base *fosite.Config) *fosite.Config {
	var server ServerConfig
	if f != nil && f.service != nil {
		server = f.service.Config().Server
	}
	return grants.ApplyServerConfig(base, server)
}
