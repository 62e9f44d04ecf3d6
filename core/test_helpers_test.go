package core

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"
)

type stubLogger struct{}

func (stubLogger) Trace(string, ...any) {}
func (stubLogger) Debug(string, ...any) {}
func (stubLogger) Info(string, ...any)  {}
func (stubLogger) Warn(string, ...any)  {}
func (stubLogger) Error(string, ...any) {}
func (stubLogger) Fatal(string, ...any) {}
func (s stubLogger) WithContext(context.Context) Logger {
	return s
}

type stubLoggerProvider struct {
	logger Logger
}

func (s stubLoggerProvider) GetLogger(string) Logger {
	return s.logger
}

type mapRawLoader struct {
	values map[string]any
}

func (l mapRawLoader) LoadRaw(context.Context) (map[string]any, error) {
	out := make(map[string]any, len(l.values))
	for key, value := range l.values {
		out[key] = value
	}
	return out, nil
}

type sequentialIDs struct {
	mu   sync.Mutex
	next int
}

func (g *sequentialIDs) NewID() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.next++
	return fmt.Sprintf("id-%03d", g.next)
}

// memoryApplicationStore implements the subset of ApplicationStore the core
// uses; the embedded interface panics for anything else.
type memoryApplicationStore struct {
	ApplicationStore

	mu          sync.Mutex
	byClientID  map[string]*Application
	createErr   error
	lookupCalls int
}

func newMemoryApplicationStore(apps ...*Application) *memoryApplicationStore {
	store := &memoryApplicationStore{byClientID: map[string]*Application{}}
	for _, app := range apps {
		store.byClientID[app.ClientID()] = app
	}
	return store
}

func (s *memoryApplicationStore) FindByClientID(_ context.Context, clientID string) (*Application, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lookupCalls++
	return s.byClientID[clientID], nil
}

func (s *memoryApplicationStore) Create(_ context.Context, app *Application) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.createErr != nil {
		return s.createErr
	}
	if _, exists := s.byClientID[app.ClientID()]; exists {
		return UniquenessConflict(nil, "application", "client_id", app.ClientID())
	}
	s.byClientID[app.ClientID()] = app
	return nil
}

type memoryScopeStore struct {
	ScopeStore

	mu     sync.Mutex
	byName map[string]*Scope
}

func newMemoryScopeStore() *memoryScopeStore {
	return &memoryScopeStore{byName: map[string]*Scope{}}
}

func (s *memoryScopeStore) FindByName(_ context.Context, name string) (*Scope, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.byName[name], nil
}

func (s *memoryScopeStore) Create(_ context.Context, scope *Scope) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.byName[scope.Name()]; exists {
		return UniquenessConflict(nil, "scope", "name", scope.Name())
	}
	s.byName[scope.Name()] = scope
	return nil
}

// memoryTokenStore evaluates the prune predicate with Token.IsPrunable.
type memoryTokenStore struct {
	TokenStore

	mu             sync.Mutex
	tokens         map[string]*Token
	authorizations *memoryAuthorizationStore
	now            time.Time
	revoked        map[string]int
	revokeErr      error
}

func newMemoryTokenStore(now time.Time, authorizations *memoryAuthorizationStore, tokens ...*Token) *memoryTokenStore {
	store := &memoryTokenStore{
		tokens:         map[string]*Token{},
		authorizations: authorizations,
		now:            now,
		revoked:        map[string]int{},
	}
	for _, token := range tokens {
		store.tokens[token.ID()] = token
	}
	return store
}

func (s *memoryTokenStore) GetPruneList(_ context.Context, olderThan time.Time, maxResults int) ([]*Token, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]string, 0, len(s.tokens))
	for id := range s.tokens {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	out := []*Token{}
	for _, id := range ids {
		token := s.tokens[id]
		var status *string
		if authorizationID := token.AuthorizationID(); authorizationID != nil && s.authorizations != nil {
			status = s.authorizations.status(*authorizationID)
		}
		if token.IsPrunable(olderThan, s.now, status) {
			out = append(out, token)
		}
		if len(out) == maxResults {
			break
		}
	}
	return out, nil
}

func (s *memoryTokenStore) DeleteBatch(_ context.Context, ids []string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var deleted int64
	for _, id := range ids {
		if _, ok := s.tokens[id]; ok {
			delete(s.tokens, id)
			deleted++
		}
	}
	return deleted, nil
}

func (s *memoryTokenStore) RevokeByAuthorizationID(_ context.Context, authorizationID string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.revokeErr != nil {
		return 0, s.revokeErr
	}
	var changed int64
	for _, token := range s.tokens {
		id := token.AuthorizationID()
		if id == nil || *id != authorizationID || token.Status() == TokenStatusRevoked {
			continue
		}
		if err := token.SetStatus(TokenStatusRevoked); err != nil {
			return changed, err
		}
		changed++
	}
	s.revoked[authorizationID]++
	return changed, nil
}

func (s *memoryTokenStore) len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tokens)
}

type memoryAuthorizationStore struct {
	AuthorizationStore

	mu             sync.Mutex
	authorizations map[string]*Authorization
	updates        int
}

func newMemoryAuthorizationStore(authorizations ...*Authorization) *memoryAuthorizationStore {
	store := &memoryAuthorizationStore{authorizations: map[string]*Authorization{}}
	for _, authorization := range authorizations {
		store.authorizations[authorization.ID()] = authorization
	}
	return store
}

func (s *memoryAuthorizationStore) status(id string) *string {
	s.mu.Lock()
	defer s.mu.Unlock()
	authorization, ok := s.authorizations[id]
	if !ok {
		return nil
	}
	status := authorization.Status()
	return &status
}

func (s *memoryAuthorizationStore) FindByID(_ context.Context, id string) (*Authorization, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.authorizations[id], nil
}

func (s *memoryAuthorizationStore) Update(_ context.Context, authorization *Authorization) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.authorizations[authorization.ID()] = authorization
	s.updates++
	return nil
}

func (s *memoryAuthorizationStore) GetPruneList(_ context.Context, olderThan time.Time, maxResults int) ([]*Authorization, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]string, 0, len(s.authorizations))
	for id := range s.authorizations {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	out := []*Authorization{}
	for _, id := range ids {
		authorization := s.authorizations[id]
		created := authorization.CreationDate()
		if created == nil || !created.Before(olderThan) {
			continue
		}
		if authorization.Status() != AuthorizationStatusValid {
			out = append(out, authorization)
		}
		if len(out) == maxResults {
			break
		}
	}
	return out, nil
}

func (s *memoryAuthorizationStore) DeleteBatch(_ context.Context, ids []string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var deleted int64
	for _, id := range ids {
		if _, ok := s.authorizations[id]; ok {
			delete(s.authorizations, id)
			deleted++
		}
	}
	return deleted, nil
}

func mustApplication(t interface{ Fatalf(string, ...any) }, id string, clientID string, permissions ...string) *Application {
	app, err := NewApplication(id, clientID)
	if err != nil {
		t.Fatalf("new application: %v", err)
	}
	if err := app.SetPermissions(permissions); err != nil {
		t.Fatalf("set permissions: %v", err)
	}
	return app
}

func timePtr(value time.Time) *time.Time {
	return &value
}

func stringPtr(value string) *string {
	return &value
}
