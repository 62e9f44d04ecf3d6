package grants

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/goliatone/go-oauth-store/core"
)

// Handler validates and processes one grant type.
type Handler interface {
	GrantType() string
	Handle(ctx context.Context, req *Request) (Result, error)
}

// HandlerFunc adapts a function to Handler.
type HandlerFunc struct {
	Type string
	Fn   func(ctx context.Context, req *Request) (Result, error)
}

func (h HandlerFunc) GrantType() string { return h.Type }

func (h HandlerFunc) Handle(ctx context.Context, req *Request) (Result, error) {
	return h.Fn(ctx, req)
}

type Registry struct {
	mu       sync.RWMutex
	handlers map[string]Handler
}

func NewRegistry(handlers ...Handler) (*Registry, error) {
	registry := &Registry{handlers: map[string]Handler{}}
	for _, handler := range handlers {
		if err := registry.Register(handler); err != nil {
			return nil, err
		}
	}
	return registry, nil
}

func (r *Registry) Register(handler Handler) error {
	if r == nil {
		return grantInternal("grants: registry is nil")
	}
	if handler == nil {
		return core.InvalidArgument("handler", core.ConstraintRequired, "")
	}
	grantType := normalizeGrantType(handler.GrantType())
	if grantType == "" {
		return core.InvalidArgument("grant_type", core.ConstraintNotBlank, "")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.handlers == nil {
		r.handlers = map[string]Handler{}
	}
	if _, exists := r.handlers[grantType]; exists {
		return grantConflict(grantType)
	}
	r.handlers[grantType] = handler
	return nil
}

func (r *Registry) Unregister(grantType string) bool {
	if r == nil {
		return false
	}
	grantType = normalizeGrantType(grantType)
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.handlers[grantType]; !exists {
		return false
	}
	delete(r.handlers, grantType)
	return true
}

func (r *Registry) Get(grantType string) (Handler, bool) {
	if r == nil {
		return nil, false
	}
	grantType = normalizeGrantType(grantType)
	r.mu.RLock()
	defer r.mu.RUnlock()
	handler, ok := r.handlers[grantType]
	return handler, ok
}

// List returns the handlers ordered by grant type.
func (r *Registry) List() []Handler {
	if r == nil {
		return []Handler{}
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	types := make([]string, 0, len(r.handlers))
	for grantType := range r.handlers {
		types = append(types, grantType)
	}
	sort.Strings(types)
	result := make([]Handler, 0, len(types))
	for _, grantType := range types {
		result = append(result, r.handlers[grantType])
	}
	return result
}

// Grant types are matched exactly after trimming; case is significant.
func normalizeGrantType(grantType string) string {
	return strings.TrimSpace(grantType)
}
