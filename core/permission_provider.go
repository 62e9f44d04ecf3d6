package core

import (
	"context"
	"strings"
)

// ClientPermissionProviderName namespaces client grants apart from user and
// role grants.
const ClientPermissionProviderName = "C"

type PermissionGrantResult int

const (
	PermissionUndefined PermissionGrantResult = iota
	PermissionGranted
	PermissionProhibited
)

func (r PermissionGrantResult) String() string {
	switch r {
	case PermissionGranted:
		return "granted"
	case PermissionProhibited:
		return "prohibited"
	default:
		return "undefined"
	}
}

// PermissionContext is one permission check. Keys maps a provider name to
// the identity that provider evaluates, e.g. {"C": clientID}.
type PermissionContext struct {
	Permission string
	Keys       map[string]string
}

func (c PermissionContext) Key(providerName string) string {
	return strings.TrimSpace(c.Keys[providerName])
}

type PermissionValueProvider interface {
	Name() string
	Check(ctx context.Context, permission PermissionContext) (PermissionGrantResult, error)
}

type ClientPermissionValueProvider struct {
	Applications ApplicationLookup
}

func NewClientPermissionValueProvider(applications ApplicationLookup) *ClientPermissionValueProvider {
	return &ClientPermissionValueProvider{Applications: applications}
}

func (p *ClientPermissionValueProvider) Name() string {
	return ClientPermissionProviderName
}

func (p *ClientPermissionValueProvider) Check(ctx context.Context, permission PermissionContext) (PermissionGrantResult, error) {
	clientID := permission.Key(ClientPermissionProviderName)
	if p == nil || p.Applications == nil || clientID == "" {
		return PermissionUndefined, nil
	}
	app, err := p.Applications.FindByClientID(ctx, clientID)
	if err != nil {
		return PermissionUndefined, err
	}
	if app == nil || !app.HasPermission(permission.Permission) {
		return PermissionUndefined, nil
	}
	return PermissionGranted, nil
}

// PermissionChecker evaluates providers in order. Any Prohibited result wins
// over Granted; all Undefined means not granted.
type PermissionChecker struct {
	providers []PermissionValueProvider
}

func NewPermissionChecker(providers ...PermissionValueProvider) *PermissionChecker {
	filtered := make([]PermissionValueProvider, 0, len(providers))
	for _, provider := range providers {
		if provider != nil {
			filtered = append(filtered, provider)
		}
	}
	return &PermissionChecker{providers: filtered}
}

func (c *PermissionChecker) Check(ctx context.Context, permission PermissionContext) (PermissionGrantResult, error) {
	if strings.TrimSpace(permission.Permission) == "" {
		return PermissionUndefined, InvalidArgument("permission", ConstraintNotBlank, "permission must not be blank")
	}
	if c == nil {
		return PermissionUndefined, nil
	}
	result := PermissionUndefined
	for _, provider := range c.providers {
		if err := ctx.Err(); err != nil {
			return PermissionUndefined, err
		}
		decision, err := provider.Check(ctx, permission)
		if err != nil {
			return PermissionUndefined, err
		}
		switch decision {
		case PermissionProhibited:
			return PermissionProhibited, nil
		case PermissionGranted:
			result = PermissionGranted
		}
	}
	return result, nil
}

func (c *PermissionChecker) IsGranted(ctx context.Context, permission PermissionContext) (bool, error) {
	result, err := c.Check(ctx, permission)
	if err != nil {
		return false, err
	}
	return result == PermissionGranted, nil
}

func (c *PermissionChecker) IsClientGranted(ctx context.Context, clientID string, permission string) (bool, error) {
	if strings.TrimSpace(clientID) == "" {
		return false, InvalidArgument("client_id", ConstraintNotBlank, "client_id must not be blank")
	}
	return c.IsGranted(ctx, PermissionContext{
		Permission: permission,
		Keys:       map[string]string{ClientPermissionProviderName: clientID},
	})
}
