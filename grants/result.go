package grants

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/ory/fosite"
)

const (
	GrantTypeAuthorizationCode = "authorization_code"
	GrantTypeClientCredentials = "client_credentials"
	GrantTypeDeviceCode        = "urn:ietf:params:oauth:grant-type:device_code"
	GrantTypePassword          = "password"
	GrantTypeRefreshToken      = "refresh_token"
)

// RFC 6749 error codes.
const (
	ErrorCodeInvalidRequest       = "invalid_request"
	ErrorCodeInvalidClient        = "invalid_client"
	ErrorCodeInvalidGrant         = "invalid_grant"
	ErrorCodeUnauthorizedClient   = "unauthorized_client"
	ErrorCodeUnsupportedGrantType = "unsupported_grant_type"
	ErrorCodeInvalidScope         = "invalid_scope"
	ErrorCodeAccessDenied         = "access_denied"
	ErrorCodeServerError          = "server_error"
)

// Request is the protocol-neutral view of a token request.
type Request struct {
	GrantType  string
	ClientID   string
	Scopes     []string
	Parameters url.Values
}

type ResultKind int

const (
	ResultPrincipal ResultKind = iota + 1
	ResultChallenge
	ResultError
)

func (k ResultKind) String() string {
	switch k {
	case ResultPrincipal:
		return "principal"
	case ResultChallenge:
		return "challenge"
	case ResultError:
		return "error"
	default:
		return "unknown"
	}
}

// Principal is the authenticated identity a grant produces.
type Principal struct {
	Subject  string
	ClientID string
	Scopes   []string
	Claims   map[string]any
}

// Challenge asks the caller to authenticate again, e.g. with a
// WWW-Authenticate header.
type Challenge struct {
	Scheme     string
	Parameters map[string]string
}

type ProtocolError struct {
	Code        string
	Description string
	URI         string
}

func (e ProtocolError) Error() string {
	if e.Description == "" {
		return e.Code
	}
	return e.Code + ": " + e.Description
}

// RFC6749 converts the error into fosite's wire representation.
func (e ProtocolError) RFC6749() *fosite.RFC6749Error {
	base := knownProtocolError(e.Code)
	if base == nil {
		base = &fosite.RFC6749Error{
			ErrorField: e.Code,
			CodeField:  http.StatusBadRequest,
		}
	}
	if e.Description != "" {
		base = base.WithDescription(e.Description)
	}
	if e.URI != "" {
		base = base.WithHintf("See %s", e.URI)
	}
	return base
}

func knownProtocolError(code string) *fosite.RFC6749Error {
	switch strings.TrimSpace(code) {
	case ErrorCodeInvalidRequest:
		return fosite.ErrInvalidRequest
	case ErrorCodeInvalidClient:
		return fosite.ErrInvalidClient
	case ErrorCodeInvalidGrant:
		return fosite.ErrInvalidGrant
	case ErrorCodeUnauthorizedClient:
		return fosite.ErrUnauthorizedClient
	case ErrorCodeUnsupportedGrantType:
		return fosite.ErrUnsupportedGrantType
	case ErrorCodeInvalidScope:
		return fosite.ErrInvalidScope
	case ErrorCodeAccessDenied:
		return fosite.ErrAccessDenied
	case ErrorCodeServerError:
		return fosite.ErrServerError
	default:
		return nil
	}
}

// Result holds exactly one of Principal, Challenge or Error, selected by
// Kind.
type Result struct {
	Kind      ResultKind
	Principal *Principal
	Challenge *Challenge
	Error     *ProtocolError
}

func PrincipalResult(principal Principal) Result {
	principal.Scopes = append([]string{}, principal.Scopes...)
	return Result{Kind: ResultPrincipal, Principal: &principal}
}

func ChallengeResult(challenge Challenge) Result {
	return Result{Kind: ResultChallenge, Challenge: &challenge}
}

func ErrorResult(code string, description string) Result {
	return Result{Kind: ResultError, Error: &ProtocolError{Code: code, Description: description}}
}

func (r Result) IsPrincipal() bool { return r.Kind == ResultPrincipal && r.Principal != nil }

func (r Result) IsChallenge() bool { return r.Kind == ResultChallenge && r.Challenge != nil }

func (r Result) IsError() bool { return r.Kind == ResultError && r.Error != nil }
