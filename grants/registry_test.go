package grants

import (
	"context"
	"testing"

	"github.com/goliatone/go-oauth-store/core"
)

func staticHandler(grantType string, calls *int) Handler {
	return HandlerFunc{
		Type: grantType,
		Fn: func(_ context.Context, req *Request) (Result, error) {
			*calls++
			return PrincipalResult(Principal{Subject: req.ClientID, ClientID: req.ClientID}), nil
		},
	}
}

func TestRegistry_RejectsDuplicateGrantType(t *testing.T) {
	var calls int
	registry, err := NewRegistry(staticHandler(GrantTypeRefreshToken, &calls))
	if err != nil {
		t.Fatalf("new registry: %v", err)
	}
	err = registry.Register(staticHandler(" refresh_token ", &calls))
	if !IsConflict(err) {
		t.Fatalf("expected conflict for duplicate grant type, got %v", err)
	}
	if len(registry.List()) != 1 {
		t.Fatalf("expected one registered handler, got %d", len(registry.List()))
	}
}

func TestRegistry_RejectsNilAndBlankHandlers(t *testing.T) {
	registry, err := NewRegistry()
	if err != nil {
		t.Fatalf("new registry: %v", err)
	}
	if err := registry.Register(nil); !core.IsInvalidArgument(err) {
		t.Fatalf("expected invalid argument for nil handler, got %v", err)
	}
	var calls int
	if err := registry.Register(staticHandler("  ", &calls)); !core.IsInvalidArgument(err) {
		t.Fatalf("expected invalid argument for blank grant type, got %v", err)
	}
}

func TestRegistry_ListSortedAndUnregister(t *testing.T) {
	var calls int
	registry, err := NewRegistry(
		staticHandler(GrantTypeRefreshToken, &calls),
		staticHandler(GrantTypeAuthorizationCode, &calls),
		staticHandler(GrantTypeClientCredentials, &calls),
	)
	if err != nil {
		t.Fatalf("new registry: %v", err)
	}
	handlers := registry.List()
	got := make([]string, 0, len(handlers))
	for _, handler := range handlers {
		got = append(got, handler.GrantType())
	}
	want := []string{GrantTypeAuthorizationCode, GrantTypeClientCredentials, GrantTypeRefreshToken}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}

	if !registry.Unregister(GrantTypeRefreshToken) {
		t.Fatalf("expected refresh_token to be unregistered")
	}
	if registry.Unregister(GrantTypeRefreshToken) {
		t.Fatalf("expected second unregister to report false")
	}
	if _, ok := registry.Get(GrantTypeRefreshToken); ok {
		t.Fatalf("expected refresh_token handler to be gone")
	}
}

func TestRegistry_MatchesCaseSensitively(t *testing.T) {
	var calls int
	registry, err := NewRegistry(staticHandler(GrantTypePassword, &calls))
	if err != nil {
		t.Fatalf("new registry: %v", err)
	}
	if _, ok := registry.Get("PASSWORD"); ok {
		t.Fatalf("expected grant type lookup to be case sensitive")
	}
	if _, ok := registry.Get(" password"); !ok {
		t.Fatalf("expected trimmed lookup to match")
	}
}
