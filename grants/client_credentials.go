package grants

import (
	"context"
	"strings"

	"github.com/goliatone/go-oauth-store/core"
)

// ScopeLookup resolves registered scopes by name.
type ScopeLookup interface {
	FindByName(ctx context.Context, name string) (*core.Scope, error)
}

// ClientCredentialsHandler authenticates a confidential client by its
// secret and issues a principal whose subject is the client itself.
type ClientCredentialsHandler struct {
	Applications core.ApplicationLookup
	Hasher       core.SecretHasher
	Permissions  *core.PermissionChecker
	Scopes       ScopeLookup
}

func NewClientCredentialsHandler(
	applications core.ApplicationLookup,
	hasher core.SecretHasher,
	permissions *core.PermissionChecker,
	scopes ScopeLookup,
) *ClientCredentialsHandler {
	if hasher == nil {
		hasher = core.BcryptSecretHasher{}
	}
	if permissions == nil && applications != nil {
		permissions = core.NewPermissionChecker(core.NewClientPermissionValueProvider(applications))
	}
	return &ClientCredentialsHandler{
		Applications: applications,
		Hasher:       hasher,
		Permissions:  permissions,
		Scopes:       scopes,
	}
}

func (h *ClientCredentialsHandler) GrantType() string {
	return GrantTypeClientCredentials
}

func (h *ClientCredentialsHandler) Handle(ctx context.Context, req *Request) (Result, error) {
	if h == nil || h.Applications == nil || h.Permissions == nil {
		return Result{}, grantInternal("grants: client credentials handler is not configured")
	}
	if req == nil {
		return Result{}, core.InvalidArgument("request", core.ConstraintRequired, "")
	}
	clientID := strings.TrimSpace(req.ClientID)
	if clientID == "" {
		return ErrorResult(ErrorCodeInvalidClient, "client_id is required"), nil
	}

	app, err := h.Applications.FindByClientID(ctx, clientID)
	if err != nil {
		return Result{}, err
	}
	if app == nil {
		return ErrorResult(ErrorCodeInvalidClient, "client authentication failed"), nil
	}
	if !app.IsConfidential() {
		return ErrorResult(ErrorCodeUnauthorizedClient, "public clients cannot use client_credentials"), nil
	}

	ok, err := h.verifySecret(app, req.Parameters.Get("client_secret"))
	if err != nil {
		return Result{}, err
	}
	if !ok {
		return ErrorResult(ErrorCodeInvalidClient, "client authentication failed"), nil
	}

	granted, err := h.Permissions.IsClientGranted(ctx, clientID, core.PermissionGrantTypeClientCredentials)
	if err != nil {
		return Result{}, err
	}
	if !granted {
		return ErrorResult(ErrorCodeUnauthorizedClient, "client is not allowed to use client_credentials"), nil
	}

	for _, scope := range req.Scopes {
		allowed, err := h.scopeAllowed(ctx, clientID, scope)
		if err != nil {
			return Result{}, err
		}
		if !allowed {
			return ErrorResult(ErrorCodeInvalidScope, "scope "+scope+" is not allowed"), nil
		}
	}

	return PrincipalResult(Principal{
		Subject:  clientID,
		ClientID: clientID,
		Scopes:   req.Scopes,
		Claims:   map[string]any{"client_id": clientID},
	}), nil
}

func (h *ClientCredentialsHandler) verifySecret(app *core.Application, secret string) (bool, error) {
	stored := app.ClientSecret()
	if stored == nil || *stored == "" || secret == "" {
		return false, nil
	}
	return h.Hasher.Verify(*stored, secret)
}

func (h *ClientCredentialsHandler) scopeAllowed(ctx context.Context, clientID string, scope string) (bool, error) {
	granted, err := h.Permissions.IsClientGranted(ctx, clientID, core.PermissionPrefixScope+scope)
	if err != nil || !granted {
		return false, err
	}
	if h.Scopes == nil {
		return true, nil
	}
	registered, err := h.Scopes.FindByName(ctx, scope)
	if err != nil {
		return false, err
	}
	return registered != nil, nil
}
