package core

import (
	"slices"
	"strings"
)

const (
	MaxClientIDLength     = 100
	MaxClientSecretLength = 512
	MaxConsentTypeLength  = 50
	MaxDisplayNameLength  = 256
	MaxClientTypeLength   = 50
)

const (
	ClientTypeConfidential = "confidential"
	ClientTypePublic       = "public"
)

const (
	ConsentTypeExplicit   = "explicit"
	ConsentTypeExternal   = "external"
	ConsentTypeImplicit   = "implicit"
	ConsentTypeSystematic = "systematic"
)

// Well-known permission prefixes stored in an application's permission set.
const (
	PermissionPrefixEndpoint     = "ept:"
	PermissionPrefixGrantType    = "gt:"
	PermissionPrefixResponseType = "rst:"
	PermissionPrefixScope        = "scp:"
)

const (
	PermissionEndpointAuthorization = PermissionPrefixEndpoint + "authorization"
	PermissionEndpointToken         = PermissionPrefixEndpoint + "token"
	PermissionEndpointRevocation    = PermissionPrefixEndpoint + "revocation"
	PermissionEndpointIntrospection = PermissionPrefixEndpoint + "introspection"
	PermissionEndpointLogout        = PermissionPrefixEndpoint + "logout"

	PermissionGrantTypeAuthorizationCode = PermissionPrefixGrantType + "authorization_code"
	PermissionGrantTypeClientCredentials = PermissionPrefixGrantType + "client_credentials"
	PermissionGrantTypeRefreshToken      = PermissionPrefixGrantType + "refresh_token"
	PermissionGrantTypePassword          = PermissionPrefixGrantType + "password"
)

const RequirementProofKeyForCodeExchange = "ft:pkce"

// Application is a registered OAuth client.
type Application struct {
	id                     string
	clientID               string
	clientSecret           *string
	consentType            string
	displayName            string
	displayNames           map[string]string
	permissions            []string
	postLogoutRedirectURIs []string
	redirectURIs           []string
	requirements           []string
	properties             Properties
	clientType             string
}

// ApplicationSnapshot is the flat state of an Application used at the
// storage boundary.
type ApplicationSnapshot struct {
	ID                     string
	ClientID               string
	ClientSecret           *string
	ConsentType            string
	DisplayName            string
	DisplayNames           map[string]string
	Permissions            []string
	PostLogoutRedirectURIs []string
	RedirectURIs           []string
	Requirements           []string
	Properties             Properties
	ClientType             string
}

func NewApplication(id string, clientID string) (*Application, error) {
	id, err := checkKey(id, "id", 0)
	if err != nil {
		return nil, err
	}
	app := &Application{
		id:                     id,
		displayNames:           map[string]string{},
		permissions:            []string{},
		postLogoutRedirectURIs: []string{},
		redirectURIs:           []string{},
		requirements:           []string{},
		properties:             Properties{},
	}
	if err := app.SetClientID(clientID); err != nil {
		return nil, err
	}
	return app, nil
}

// RestoreApplication rebuilds an Application from stored state, applying
// the same checks as the setters.
func RestoreApplication(snapshot ApplicationSnapshot) (*Application, error) {
	app, err := NewApplication(snapshot.ID, snapshot.ClientID)
	if err != nil {
		return nil, err
	}
	steps := []func() error{
		func() error { return app.SetClientSecret(snapshot.ClientSecret) },
		func() error { return app.SetConsentType(snapshot.ConsentType) },
		func() error { return app.SetDisplayName(snapshot.DisplayName) },
		func() error { return app.SetDisplayNames(snapshot.DisplayNames) },
		func() error { return app.SetPermissions(snapshot.Permissions) },
		func() error { return app.SetPostLogoutRedirectURIs(snapshot.PostLogoutRedirectURIs) },
		func() error { return app.SetRedirectURIs(snapshot.RedirectURIs) },
		func() error { return app.SetRequirements(snapshot.Requirements) },
		func() error { return app.SetClientType(snapshot.ClientType) },
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return nil, err
		}
	}
	app.SetProperties(snapshot.Properties)
	return app, nil
}

func (a *Application) Snapshot() ApplicationSnapshot {
	return ApplicationSnapshot{
		ID:                     a.id,
		ClientID:               a.clientID,
		ClientSecret:           cloneStringPointer(a.clientSecret),
		ConsentType:            a.consentType,
		DisplayName:            a.displayName,
		DisplayNames:           a.DisplayNames(),
		Permissions:            a.Permissions(),
		PostLogoutRedirectURIs: a.PostLogoutRedirectURIs(),
		RedirectURIs:           a.RedirectURIs(),
		Requirements:           a.Requirements(),
		Properties:             a.Properties(),
		ClientType:             a.clientType,
	}
}

func (a *Application) ID() string { return a.id }

func (a *Application) ClientID() string { return a.clientID }

func (a *Application) ClientSecret() *string { return cloneStringPointer(a.clientSecret) }

func (a *Application) ConsentType() string { return a.consentType }

func (a *Application) DisplayName() string { return a.displayName }

func (a *Application) DisplayNames() map[string]string { return cloneStringMap(a.displayNames) }

func (a *Application) Permissions() []string { return cloneStrings(a.permissions) }

func (a *Application) PostLogoutRedirectURIs() []string {
	return cloneStrings(a.postLogoutRedirectURIs)
}

func (a *Application) RedirectURIs() []string { return cloneStrings(a.redirectURIs) }

func (a *Application) Requirements() []string { return cloneStrings(a.requirements) }

func (a *Application) Properties() Properties { return a.properties.Clone() }

func (a *Application) ClientType() string { return a.clientType }

func (a *Application) IsConfidential() bool { return a.clientType == ClientTypeConfidential }

func (a *Application) HasPermission(permission string) bool {
	_, found := slices.BinarySearch(a.permissions, permission)
	return found
}

func (a *Application) HasRequirement(requirement string) bool {
	_, found := slices.BinarySearch(a.requirements, requirement)
	return found
}

// HasRedirectURI reports exact membership, unlike the lexical storage lookup.
func (a *Application) HasRedirectURI(uri string) bool {
	_, found := slices.BinarySearch(a.redirectURIs, uri)
	return found
}

func (a *Application) HasPostLogoutRedirectURI(uri string) bool {
	_, found := slices.BinarySearch(a.postLogoutRedirectURIs, uri)
	return found
}

func (a *Application) SetClientID(clientID string) error {
	value, err := checkKey(clientID, "client_id", MaxClientIDLength)
	if err != nil {
		return err
	}
	a.clientID = value
	return nil
}

// SetClientSecret stores an already hashed or opaque secret; nil clears it.
func (a *Application) SetClientSecret(secret *string) error {
	if secret == nil {
		a.clientSecret = nil
		return nil
	}
	value, err := checkNotBlank(*secret, "client_secret", MaxClientSecretLength)
	if err != nil {
		return err
	}
	a.clientSecret = &value
	return nil
}

func (a *Application) SetConsentType(consentType string) error {
	value, err := checkLength(strings.TrimSpace(consentType), "consent_type", MaxConsentTypeLength)
	if err != nil {
		return err
	}
	a.consentType = value
	return nil
}

func (a *Application) SetDisplayName(displayName string) error {
	value, err := checkLength(displayName, "display_name", MaxDisplayNameLength)
	if err != nil {
		return err
	}
	a.displayName = value
	return nil
}

func (a *Application) SetDisplayNames(names map[string]string) error {
	values, err := normalizeLocalized(names, "display_names")
	if err != nil {
		return err
	}
	for _, name := range values {
		if _, err := checkLength(name, "display_names", MaxDisplayNameLength); err != nil {
			return err
		}
	}
	a.displayNames = values
	return nil
}

func (a *Application) SetPermissions(permissions []string) error {
	values, err := normalizeSet(permissions, "permissions")
	if err != nil {
		return err
	}
	a.permissions = values
	return nil
}

func (a *Application) SetPostLogoutRedirectURIs(uris []string) error {
	values, err := normalizeURISet(uris, "post_logout_redirect_uris")
	if err != nil {
		return err
	}
	a.postLogoutRedirectURIs = values
	return nil
}

func (a *Application) SetRedirectURIs(uris []string) error {
	values, err := normalizeURISet(uris, "redirect_uris")
	if err != nil {
		return err
	}
	a.redirectURIs = values
	return nil
}

func (a *Application) SetRequirements(requirements []string) error {
	values, err := normalizeSet(requirements, "requirements")
	if err != nil {
		return err
	}
	a.requirements = values
	return nil
}

func (a *Application) SetProperties(properties Properties) {
	a.properties = properties.Clone()
}

func (a *Application) SetClientType(clientType string) error {
	value := strings.TrimSpace(clientType)
	if _, err := checkLength(value, "client_type", MaxClientTypeLength); err != nil {
		return err
	}
	value, err := checkEnum(value, "client_type", ClientTypeConfidential, ClientTypePublic)
	if err != nil {
		return err
	}
	a.clientType = value
	return nil
}
