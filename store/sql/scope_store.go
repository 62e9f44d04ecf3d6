package sqlstore

import (
	"context"
	"slices"
	"strings"

	"github.com/goliatone/go-oauth-store/core"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/uptrace/bun"
)

type ScopeStore struct {
	entityStore[scopeRecord, *core.Scope]
}

func NewScopeStore(db *bun.DB) (*ScopeStore, error) {
	base, err := newEntityStore(db, scopeHandlers(), "scope", (*scopeRecord).toDomain)
	if err != nil {
		return nil, err
	}
	base.columns = (*scopeRecord).columns
	return &ScopeStore{entityStore: base}, nil
}

func (s *ScopeStore) Create(ctx context.Context, scope *core.Scope) error {
	if scope == nil {
		return core.InvalidArgument("scope", core.ConstraintRequired, "")
	}
	record, err := newScopeRecord(scope, s.now())
	if err != nil {
		return err
	}
	return s.insert(ctx, record, "name", record.Name)
}

func (s *ScopeStore) Update(ctx context.Context, scope *core.Scope) error {
	if scope == nil {
		return core.InvalidArgument("scope", core.ConstraintRequired, "")
	}
	record, err := newScopeRecord(scope, s.now())
	if err != nil {
		return err
	}
	return s.update(ctx, record, record.ID, "name", record.Name)
}

func (s *ScopeStore) Delete(ctx context.Context, scope *core.Scope) error {
	if scope == nil {
		return core.InvalidArgument("scope", core.ConstraintRequired, "")
	}
	return s.write(ctx, func(ctx context.Context, tx bun.Tx) error {
		return s.deleteByID(ctx, tx, scope.ID())
	})
}

func (s *ScopeStore) FindByName(ctx context.Context, name string) (*core.Scope, error) {
	trimmed, err := requireKey("name", name)
	if err != nil {
		return nil, err
	}
	return s.findOne(ctx, repository.SelectBy("name", "=", trimmed))
}

// FindByNames resolves every name with one IN query. Blank names are
// rejected before any I/O.
func (s *ScopeStore) FindByNames(ctx context.Context, names []string) (core.Sequence[*core.Scope], error) {
	cleaned := make([]string, 0, len(names))
	for _, name := range names {
		trimmed := strings.TrimSpace(name)
		if trimmed == "" {
			return nil, core.InvalidArgument("names", core.ConstraintNotBlank, "names must not contain blank entries")
		}
		cleaned = append(cleaned, trimmed)
	}
	if len(cleaned) == 0 {
		return core.SliceSequence[*core.Scope](nil), nil
	}
	slices.Sort(cleaned)
	cleaned = slices.Compact(cleaned)
	q := s.SelectQuery().
		Where("name IN (?)", bun.In(cleaned)).
		OrderExpr("name ASC")
	return s.sequence(ctx, q), nil
}

// FindByResource narrows with LIKE on the stored resource array, then keeps
// only scopes whose resource set holds resource exactly.
func (s *ScopeStore) FindByResource(ctx context.Context, resource string) (core.Sequence[*core.Scope], error) {
	trimmed, err := requireKey("resource", resource)
	if err != nil {
		return nil, err
	}
	q := s.SelectQuery().
		Where("resources LIKE ?", containsPattern(trimmed)).
		OrderExpr("id ASC")
	return filterSequence(s.sequence(ctx, q), func(scope *core.Scope) bool {
		return scope.HasResource(trimmed)
	}), nil
}
