package grants

import (
	"context"
	"net/http"
	"net/url"
	"testing"

	"github.com/goliatone/go-oauth-store/core"
	"github.com/ory/fosite"
)

func TestDispatcher_UnsupportedThenRegistered(t *testing.T) {
	registry, err := NewRegistry()
	if err != nil {
		t.Fatalf("new registry: %v", err)
	}
	dispatcher := NewDispatcher(registry)
	ctx := context.Background()

	_, err = dispatcher.Dispatch(ctx, &Request{GrantType: GrantTypeRefreshToken, ClientID: "svc"})
	if !core.IsUnsupportedGrantType(err) {
		t.Fatalf("expected unsupported grant type, got %v", err)
	}

	var refreshCalls, passwordCalls int
	if err := registry.Register(staticHandler(GrantTypeRefreshToken, &refreshCalls)); err != nil {
		t.Fatalf("register refresh: %v", err)
	}
	if err := registry.Register(staticHandler(GrantTypePassword, &passwordCalls)); err != nil {
		t.Fatalf("register password: %v", err)
	}

	result, err := dispatcher.Dispatch(ctx, &Request{GrantType: GrantTypeRefreshToken, ClientID: "svc"})
	if err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	if !result.IsPrincipal() || result.Principal.Subject != "svc" {
		t.Fatalf("expected principal for svc, got %+v", result)
	}
	if refreshCalls != 1 || passwordCalls != 0 {
		t.Fatalf("expected exactly one refresh handler call, got refresh=%d password=%d", refreshCalls, passwordCalls)
	}
}

func TestDispatcher_RejectsBlankGrantType(t *testing.T) {
	registry, err := NewRegistry()
	if err != nil {
		t.Fatalf("new registry: %v", err)
	}
	_, err = NewDispatcher(registry).Dispatch(context.Background(), &Request{GrantType: " "})
	if !core.IsInvalidArgument(err) || core.ErrorField(err) != "grant_type" {
		t.Fatalf("expected grant_type invalid argument, got %v", err)
	}
}

func TestDispatcher_PropagatesHandlerError(t *testing.T) {
	registry, err := NewRegistry(HandlerFunc{
		Type: GrantTypePassword,
		Fn: func(context.Context, *Request) (Result, error) {
			return Result{}, core.Internal("boom")
		},
	})
	if err != nil {
		t.Fatalf("new registry: %v", err)
	}
	if _, err := NewDispatcher(registry).Dispatch(context.Background(), &Request{GrantType: GrantTypePassword}); err == nil {
		t.Fatalf("expected handler error to propagate")
	}
}

func TestDispatchAccessRequest_AdaptsFositeRequest(t *testing.T) {
	var seen *Request
	registry, err := NewRegistry(HandlerFunc{
		Type: GrantTypeClientCredentials,
		Fn: func(_ context.Context, req *Request) (Result, error) {
			seen = req
			return ChallengeResult(Challenge{Scheme: "Basic"}), nil
		},
	})
	if err != nil {
		t.Fatalf("new registry: %v", err)
	}

	requester := fosite.NewAccessRequest(nil)
	requester.GrantTypes = fosite.Arguments{GrantTypeClientCredentials}
	requester.Client = &fosite.DefaultClient{ID: "svc"}
	requester.RequestedScope = fosite.Arguments{"api", " "}
	requester.Form = url.Values{"client_secret": {"s3cret"}}

	result, err := NewDispatcher(registry).DispatchAccessRequest(context.Background(), requester)
	if err != nil {
		t.Fatalf("dispatch access request: %v", err)
	}
	if !result.IsChallenge() {
		t.Fatalf("expected challenge result, got %+v", result)
	}
	if seen == nil || seen.ClientID != "svc" || seen.Parameters.Get("client_secret") != "s3cret" {
		t.Fatalf("unexpected adapted request %+v", seen)
	}
	if len(seen.Scopes) != 1 || seen.Scopes[0] != "api" {
		t.Fatalf("expected blank scopes dropped, got %v", seen.Scopes)
	}
}

func TestRequestFromAccessRequester_RequiresSingleGrantType(t *testing.T) {
	requester := fosite.NewAccessRequest(nil)
	requester.GrantTypes = fosite.Arguments{GrantTypePassword, GrantTypeRefreshToken}
	if _, err := RequestFromAccessRequester(requester); !core.IsInvalidArgument(err) {
		t.Fatalf("expected invalid argument for multiple grant types, got %v", err)
	}
}

func TestProtocolError_RFC6749(t *testing.T) {
	converted := ProtocolError{Code: ErrorCodeInvalidScope, Description: "scope api is not allowed"}.RFC6749()
	if converted.ErrorField != ErrorCodeInvalidScope {
		t.Fatalf("expected invalid_scope, got %q", converted.ErrorField)
	}
	if converted.DescriptionField != "scope api is not allowed" {
		t.Fatalf("unexpected description %q", converted.DescriptionField)
	}

	custom := ProtocolError{Code: "slow_down"}.RFC6749()
	if custom.ErrorField != "slow_down" || custom.CodeField != http.StatusBadRequest {
		t.Fatalf("unexpected custom error %+v", custom)
	}
}
