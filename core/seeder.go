package core

import (
	"context"
	"time"
)

type ApplicationDescriptor struct {
	ClientID               string
	ClientSecret           string
	ClientType             string
	ConsentType            string
	DisplayName            string
	DisplayNames           map[string]string
	Permissions            []string
	PostLogoutRedirectURIs []string
	RedirectURIs           []string
	Requirements           []string
	Properties             Properties
}

type ScopeDescriptor struct {
	Name         string
	Description  string
	Descriptions map[string]string
	DisplayName  string
	DisplayNames map[string]string
	Resources    []string
	Properties   Properties
}

type SeedResult struct {
	ApplicationsCreated int
	ApplicationsSkipped int
	ScopesCreated       int
	ScopesSkipped       int
}

// DataSeeder creates missing applications and scopes by natural key.
// Existing records are left untouched, so seeding is idempotent.
type DataSeeder struct {
	applications ApplicationStore
	scopes       ScopeStore
	ids          IDGenerator
	hasher       SecretHasher
	server       ServerConfig
	observer     observer
}

func NewDataSeeder(
	applications ApplicationStore,
	scopes ScopeStore,
	ids IDGenerator,
	hasher SecretHasher,
	logger Logger,
) *DataSeeder {
	if ids == nil {
		ids = UUIDGenerator{}
	}
	if hasher == nil {
		hasher = BcryptSecretHasher{}
	}
	return &DataSeeder{
		applications: applications,
		scopes:       scopes,
		ids:          ids,
		hasher:       hasher,
		observer:     newObserver(logger, nil),
	}
}

// WithServerConfig makes seeded public clients carry ft:pkce when the
// server requires PKCE.
func (s *DataSeeder) WithServerConfig(cfg ServerConfig) *DataSeeder {
	if s != nil {
		s.server = cfg
	}
	return s
}

func (s *DataSeeder) Seed(
	ctx context.Context,
	applications []ApplicationDescriptor,
	scopes []ScopeDescriptor,
) (result SeedResult, err error) {
	startedAt := time.Now().UTC()
	defer func() {
		s.observer.observeOperation(ctx, startedAt, "seed", err, map[string]any{
			"applications_created": result.ApplicationsCreated,
			"applications_skipped": result.ApplicationsSkipped,
			"scopes_created":       result.ScopesCreated,
			"scopes_skipped":       result.ScopesSkipped,
		})
	}()

	for _, descriptor := range applications {
		created, seedErr := s.seedApplication(ctx, descriptor)
		if seedErr != nil {
			return result, seedErr
		}
		if created {
			result.ApplicationsCreated++
		} else {
			result.ApplicationsSkipped++
		}
	}
	for _, descriptor := range scopes {
		created, seedErr := s.seedScope(ctx, descriptor)
		if seedErr != nil {
			return result, seedErr
		}
		if created {
			result.ScopesCreated++
		} else {
			result.ScopesSkipped++
		}
	}
	return result, nil
}

func (s *DataSeeder) seedApplication(ctx context.Context, descriptor ApplicationDescriptor) (bool, error) {
	if s.applications == nil {
		return false, Internal("core: application store is not configured")
	}
	existing, err := s.applications.FindByClientID(ctx, descriptor.ClientID)
	if err != nil {
		return false, err
	}
	if existing != nil {
		return false, nil
	}
	app, err := s.buildApplication(descriptor)
	if err != nil {
		return false, err
	}
	if err := s.applications.Create(ctx, app); err != nil {
		if IsUniquenessConflict(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (s *DataSeeder) buildApplication(descriptor ApplicationDescriptor) (*Application, error) {
	app, err := NewApplication(s.ids.NewID(), descriptor.ClientID)
	if err != nil {
		return nil, err
	}
	if descriptor.ClientSecret != "" {
		hashed, err := s.hasher.Hash(descriptor.ClientSecret)
		if err != nil {
			return nil, err
		}
		if err := app.SetClientSecret(&hashed); err != nil {
			return nil, err
		}
	}
	steps := []func() error{
		func() error { return app.SetClientType(descriptor.ClientType) },
		func() error { return app.SetConsentType(descriptor.ConsentType) },
		func() error { return app.SetDisplayName(descriptor.DisplayName) },
		func() error { return app.SetDisplayNames(descriptor.DisplayNames) },
		func() error { return app.SetPermissions(descriptor.Permissions) },
		func() error { return app.SetPostLogoutRedirectURIs(descriptor.PostLogoutRedirectURIs) },
		func() error { return app.SetRedirectURIs(descriptor.RedirectURIs) },
		func() error { return app.SetRequirements(descriptor.Requirements) },
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return nil, err
		}
	}
	if s.server.RequireProofKeyForCodeExchange &&
		app.ClientType() == ClientTypePublic &&
		!app.HasRequirement(RequirementProofKeyForCodeExchange) {
		requirements := append(app.Requirements(), RequirementProofKeyForCodeExchange)
		if err := app.SetRequirements(requirements); err != nil {
			return nil, err
		}
	}
	app.SetProperties(descriptor.Properties)
	return app, nil
}

func (s *DataSeeder) seedScope(ctx context.Context, descriptor ScopeDescriptor) (bool, error) {
	if s.scopes == nil {
		return false, Internal("core: scope store is not configured")
	}
	existing, err := s.scopes.FindByName(ctx, descriptor.Name)
	if err != nil {
		return false, err
	}
	if existing != nil {
		return false, nil
	}
	scope, err := NewScope(s.ids.NewID(), descriptor.Name)
	if err != nil {
		return false, err
	}
	scope.SetDescription(descriptor.Description)
	if err := scope.SetDescriptions(descriptor.Descriptions); err != nil {
		return false, err
	}
	if err := scope.SetDisplayName(descriptor.DisplayName); err != nil {
		return false, err
	}
	if err := scope.SetDisplayNames(descriptor.DisplayNames); err != nil {
		return false, err
	}
	if err := scope.SetResources(descriptor.Resources); err != nil {
		return false, err
	}
	scope.SetProperties(descriptor.Properties)
	if err := s.scopes.Create(ctx, scope); err != nil {
		if IsUniquenessConflict(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
