package grants

import (
	"context"
	"net/url"
	"strings"
	"time"

	"github.com/goliatone/go-oauth-store/core"
	"github.com/ory/fosite"
)

type DispatcherOption func(*Dispatcher)

func WithLogger(logger core.Logger) DispatcherOption {
	return func(d *Dispatcher) {
		d.logger = logger
	}
}

func WithMetricsRecorder(metrics core.MetricsRecorder) DispatcherOption {
	return func(d *Dispatcher) {
		d.metrics = metrics
	}
}

// Dispatcher routes each request to the single handler registered for its
// grant type.
type Dispatcher struct {
	registry *Registry
	logger   core.Logger
	metrics  core.MetricsRecorder
}

func NewDispatcher(registry *Registry, opts ...DispatcherOption) *Dispatcher {
	d := &Dispatcher{registry: registry}
	for _, opt := range opts {
		if opt != nil {
			opt(d)
		}
	}
	return d
}

func (d *Dispatcher) Registry() *Registry {
	if d == nil {
		return nil
	}
	return d.registry
}

func (d *Dispatcher) Dispatch(ctx context.Context, req *Request) (result Result, err error) {
	if d == nil || d.registry == nil {
		return Result{}, grantInternal("grants: dispatcher is not configured")
	}
	if req == nil {
		return Result{}, core.InvalidArgument("request", core.ConstraintRequired, "")
	}
	grantType := normalizeGrantType(req.GrantType)
	if grantType == "" {
		return Result{}, core.InvalidArgument("grant_type", core.ConstraintNotBlank, "")
	}

	startedAt := time.Now()
	fields := map[string]any{"grant_type": grantType, "client_id": req.ClientID}
	defer func() {
		if err == nil {
			fields["result"] = result.Kind.String()
		}
		core.ObserveOperation(ctx, d.logger, d.metrics, startedAt, "grant_dispatch", err, fields)
	}()

	handler, ok := d.registry.Get(grantType)
	if !ok {
		return Result{}, core.UnsupportedGrantType(grantType)
	}
	req.GrantType = grantType
	return handler.Handle(ctx, req)
}

// DispatchAccessRequest adapts a fosite token request and dispatches it.
func (d *Dispatcher) DispatchAccessRequest(ctx context.Context, requester fosite.AccessRequester) (Result, error) {
	req, err := RequestFromAccessRequester(requester)
	if err != nil {
		return Result{}, err
	}
	return d.Dispatch(ctx, req)
}

// RequestFromAccessRequester builds a Request from fosite's parsed token
// request. A request naming several grant types is rejected.
func RequestFromAccessRequester(requester fosite.AccessRequester) (*Request, error) {
	if requester == nil {
		return nil, core.InvalidArgument("request", core.ConstraintRequired, "")
	}
	grantTypes := requester.GetGrantTypes()
	if len(grantTypes) != 1 {
		return nil, core.InvalidArgument("grant_type", core.ConstraintFormat, "exactly one grant_type is required")
	}
	form := url.Values{}
	for key, values := range requester.GetRequestForm() {
		form[key] = append([]string(nil), values...)
	}
	clientID := ""
	if client := requester.GetClient(); client != nil {
		clientID = client.GetID()
	}
	if clientID == "" {
		clientID = form.Get("client_id")
	}
	scopes := []string{}
	for _, scope := range requester.GetRequestedScopes() {
		if trimmed := strings.TrimSpace(scope); trimmed != "" {
			scopes = append(scopes, trimmed)
		}
	}
	return &Request{
		GrantType:  strings.TrimSpace(grantTypes[0]),
		ClientID:   strings.TrimSpace(clientID),
		Scopes:     scopes,
		Parameters: form,
	}, nil
}
