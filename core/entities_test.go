package core

import (
	"strings"
	"testing"
	"time"
)

func TestNewEntities_InitializeEmptySets(t *testing.T) {
	app, err := NewApplication("app-1", "client-1")
	if err != nil {
		t.Fatalf("new application: %v", err)
	}
	if app.Permissions() == nil || app.RedirectURIs() == nil || app.PostLogoutRedirectURIs() == nil || app.Requirements() == nil {
		t.Fatalf("expected non-nil application sets")
	}
	if app.DisplayNames() == nil || app.Properties() == nil {
		t.Fatalf("expected non-nil application maps")
	}

	authorization, err := NewAuthorization("auth-1")
	if err != nil {
		t.Fatalf("new authorization: %v", err)
	}
	if authorization.Scopes() == nil || authorization.Properties() == nil {
		t.Fatalf("expected non-nil authorization collections")
	}

	scope, err := NewScope("scope-1", "api")
	if err != nil {
		t.Fatalf("new scope: %v", err)
	}
	if scope.Resources() == nil || scope.Descriptions() == nil || scope.DisplayNames() == nil {
		t.Fatalf("expected non-nil scope collections")
	}

	token, err := NewToken("token-1")
	if err != nil {
		t.Fatalf("new token: %v", err)
	}
	if token.Properties() == nil {
		t.Fatalf("expected non-nil token properties")
	}
	if token.ID() != "token-1" {
		t.Fatalf("expected token id token-1, got %q", token.ID())
	}
}

func TestNewApplication_RejectsBlankIdentity(t *testing.T) {
	if _, err := NewApplication(" ", "client"); !IsInvalidArgument(err) {
		t.Fatalf("expected invalid argument for blank id, got %v", err)
	}
	_, err := NewApplication("app-1", "   ")
	if !IsInvalidArgument(err) {
		t.Fatalf("expected invalid argument for blank client id, got %v", err)
	}
	if field := ErrorField(err); field != "client_id" {
		t.Fatalf("expected client_id field, got %q", field)
	}
}

func TestNaturalKeys_AreTrimmed(t *testing.T) {
	app, err := NewApplication(" app-1 ", " portal ")
	if err != nil {
		t.Fatalf("new application: %v", err)
	}
	if app.ID() != "app-1" || app.ClientID() != "portal" {
		t.Fatalf("expected trimmed identity, got %q %q", app.ID(), app.ClientID())
	}

	scope, err := NewScope("scope-1", " read\t")
	if err != nil {
		t.Fatalf("new scope: %v", err)
	}
	if scope.Name() != "read" {
		t.Fatalf("expected trimmed scope name, got %q", scope.Name())
	}
	if _, err := NewScope("scope-2", ""); !IsInvalidArgument(err) {
		t.Fatalf("expected blank scope name to be rejected, got %v", err)
	}

	token, _ := NewToken("token-1")
	if err := token.SetReferenceID(stringPtr(" ref-1 ")); err != nil {
		t.Fatalf("set reference id: %v", err)
	}
	if *token.ReferenceID() != "ref-1" {
		t.Fatalf("expected trimmed reference id, got %q", *token.ReferenceID())
	}
}

func TestSetters_RejectOverLengthAndKeepPriorValue(t *testing.T) {
	app := mustApplication(t, "app-1", "client-1")
	if err := app.SetDisplayName("Portal"); err != nil {
		t.Fatalf("set display name: %v", err)
	}
	err := app.SetDisplayName(strings.Repeat("x", MaxDisplayNameLength+1))
	if !IsInvalidArgument(err) {
		t.Fatalf("expected invalid argument, got %v", err)
	}
	if app.DisplayName() != "Portal" {
		t.Fatalf("expected prior display name to survive, got %q", app.DisplayName())
	}
	if err := app.SetClientID(strings.Repeat("c", MaxClientIDLength+1)); !IsInvalidArgument(err) {
		t.Fatalf("expected client id length violation, got %v", err)
	}
	if app.ClientID() != "client-1" {
		t.Fatalf("expected prior client id, got %q", app.ClientID())
	}

	scope, _ := NewScope("scope-1", "api")
	if err := scope.SetName(strings.Repeat("s", MaxScopeNameLength+1)); !IsInvalidArgument(err) {
		t.Fatalf("expected scope name length violation, got %v", err)
	}

	token, _ := NewToken("token-1")
	if err := token.SetSubject(strings.Repeat("u", MaxSubjectLength+1)); !IsInvalidArgument(err) {
		t.Fatalf("expected subject length violation, got %v", err)
	}
	if err := token.SetReferenceID(stringPtr(strings.Repeat("r", MaxReferenceIDLength+1))); !IsInvalidArgument(err) {
		t.Fatalf("expected reference id length violation, got %v", err)
	}
	if token.ReferenceID() != nil {
		t.Fatalf("expected reference id to stay unset")
	}

	authorization, _ := NewAuthorization("auth-1")
	if err := authorization.SetType(strings.Repeat("t", MaxTypeLength+1)); !IsInvalidArgument(err) {
		t.Fatalf("expected type length violation, got %v", err)
	}
}

func TestSetters_EnforceEnumerations(t *testing.T) {
	authorization, _ := NewAuthorization("auth-1")
	if err := authorization.SetStatus("expired"); !IsInvalidArgument(err) {
		t.Fatalf("expected invalid authorization status, got %v", err)
	}
	if err := authorization.SetStatus(AuthorizationStatusRevoked); err != nil {
		t.Fatalf("set revoked: %v", err)
	}

	token, _ := NewToken("token-1")
	for _, status := range []string{TokenStatusInactive, TokenStatusRedeemed, TokenStatusRejected, TokenStatusRevoked, TokenStatusValid} {
		if err := token.SetStatus(status); err != nil {
			t.Fatalf("set token status %q: %v", status, err)
		}
	}
	if err := token.SetStatus("pending"); !IsInvalidArgument(err) {
		t.Fatalf("expected invalid token status, got %v", err)
	}
	if token.Status() != TokenStatusValid {
		t.Fatalf("expected prior status valid, got %q", token.Status())
	}

	app := mustApplication(t, "app-1", "client-1")
	if err := app.SetClientType("hybrid"); !IsInvalidArgument(err) {
		t.Fatalf("expected invalid client type, got %v", err)
	}
}

func TestApplicationSets_NormalizeAndCopy(t *testing.T) {
	app := mustApplication(t, "app-1", "client-1", "scp:b", "scp:a", "scp:b")
	permissions := app.Permissions()
	if len(permissions) != 2 || permissions[0] != "scp:a" || permissions[1] != "scp:b" {
		t.Fatalf("expected sorted unique permissions, got %#v", permissions)
	}
	permissions[0] = "mutated"
	if !app.HasPermission("scp:a") {
		t.Fatalf("expected getter to return a copy")
	}
	if err := app.SetPermissions([]string{"ok", " "}); !IsInvalidArgument(err) {
		t.Fatalf("expected blank permission rejection, got %v", err)
	}
	if err := app.SetPermissions(nil); err != nil {
		t.Fatalf("set nil permissions: %v", err)
	}
	if got := app.Permissions(); got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil permissions, got %#v", got)
	}
}

func TestApplicationRedirectURIs_RequireAbsoluteURIs(t *testing.T) {
	app := mustApplication(t, "app-1", "client-1")
	if err := app.SetRedirectURIs([]string{"/callback"}); !IsInvalidArgument(err) {
		t.Fatalf("expected relative redirect uri rejection, got %v", err)
	}
	if err := app.SetRedirectURIs([]string{"https://app.example.com/callback"}); err != nil {
		t.Fatalf("set redirect uris: %v", err)
	}
	if !app.HasRedirectURI("https://app.example.com/callback") {
		t.Fatalf("expected redirect uri membership")
	}
	if app.HasRedirectURI("https://app.example.com/call") {
		t.Fatalf("expected exact redirect uri membership")
	}
}

func TestLocalizedMaps_ValidateLanguageTags(t *testing.T) {
	app := mustApplication(t, "app-1", "client-1")
	if err := app.SetDisplayNames(map[string]string{"en-US": "Portal", "fr": "Portail"}); err != nil {
		t.Fatalf("set display names: %v", err)
	}
	if err := app.SetDisplayNames(map[string]string{"not a tag!": "x"}); !IsInvalidArgument(err) {
		t.Fatalf("expected language tag rejection, got %v", err)
	}
	if got := app.DisplayNames()["fr"]; got != "Portail" {
		t.Fatalf("expected prior display names to survive, got %q", got)
	}
}

func TestRestoreApplication_RoundTripsSnapshot(t *testing.T) {
	secret := "hashed"
	app := mustApplication(t, "app-1", "client-1", PermissionEndpointToken)
	if err := app.SetClientSecret(&secret); err != nil {
		t.Fatalf("set secret: %v", err)
	}
	if err := app.SetClientType(ClientTypeConfidential); err != nil {
		t.Fatalf("set client type: %v", err)
	}
	if err := app.SetRequirements([]string{RequirementProofKeyForCodeExchange}); err != nil {
		t.Fatalf("set requirements: %v", err)
	}
	app.SetProperties(Properties{"tier": StringValue("gold")})

	restored, err := RestoreApplication(app.Snapshot())
	if err != nil {
		t.Fatalf("restore: %v", err)
	}
	if restored.ID() != app.ID() || restored.ClientID() != app.ClientID() {
		t.Fatalf("expected identity round trip")
	}
	if restored.ClientSecret() == nil || *restored.ClientSecret() != "hashed" {
		t.Fatalf("expected client secret round trip")
	}
	if !restored.IsConfidential() || !restored.HasRequirement(RequirementProofKeyForCodeExchange) {
		t.Fatalf("expected client type and requirement round trip")
	}
	if !(PropertyCodec{}).Equal(restored.Properties(), app.Properties()) {
		t.Fatalf("expected properties round trip")
	}
}

func TestTokenTimes_NormalizeToUTC(t *testing.T) {
	token, _ := NewToken("token-1")
	local := time.Date(2026, 3, 1, 10, 0, 0, 0, time.FixedZone("CET", 3600))
	token.SetCreationDate(&local)
	if got := token.CreationDate(); got == nil || got.Location() != time.UTC || !got.Equal(local) {
		t.Fatalf("expected utc creation date, got %v", got)
	}
}

func TestTokenIsPrunable(t *testing.T) {
	now := time.Date(2026, 5, 10, 12, 0, 0, 0, time.UTC)
	cutoff := now.Add(-24 * time.Hour)
	old := now.Add(-48 * time.Hour)
	recent := now.Add(-time.Hour)

	build := func(created time.Time, status string, expires *time.Time) *Token {
		token, _ := NewToken("token")
		token.SetCreationDate(&created)
		token.SetExpirationDate(expires)
		if err := token.SetStatus(status); err != nil {
			t.Fatalf("set status: %v", err)
		}
		return token
	}

	future := now.Add(time.Hour)
	past := now.Add(-time.Minute)
	revoked := AuthorizationStatusRevoked
	valid := AuthorizationStatusValid

	cases := []struct {
		name   string
		token  *Token
		status *string
		want   bool
	}{
		{"old redeemed", build(old, TokenStatusRedeemed, &future), nil, true},
		{"old valid live", build(old, TokenStatusValid, &future), &valid, false},
		{"old valid expired", build(old, TokenStatusValid, &past), nil, true},
		{"old inactive revoked authorization", build(old, TokenStatusInactive, nil), &revoked, true},
		{"recent redeemed", build(recent, TokenStatusRedeemed, &past), &revoked, false},
	}
	for _, tc := range cases {
		if got := tc.token.IsPrunable(cutoff, now, tc.status); got != tc.want {
			t.Fatalf("%s: expected prunable=%v, got %v", tc.name, tc.want, got)
		}
	}
}
