package query

import (
	"context"
	"strings"
	"time"

	"github.com/goliatone/go-oauth-store/core"
)

type TokenReader interface {
	FindByReferenceID(ctx context.Context, referenceID string) (*core.Token, error)
	GetPruneList(ctx context.Context, olderThan time.Time, maxResults int) ([]*core.Token, error)
}

type AuthorizationPruneReader interface {
	GetPruneList(ctx context.Context, olderThan time.Time, maxResults int) ([]*core.Authorization, error)
}

type ClientPermissionReader interface {
	IsClientGranted(ctx context.Context, clientID string, permission string) (bool, error)
}

type FindApplicationQuery struct {
	reader core.ApplicationLookup
}

func NewFindApplicationQuery(reader core.ApplicationLookup) *FindApplicationQuery {
	return &FindApplicationQuery{reader: reader}
}

// Query returns nil without error for an unknown client id.
func (q *FindApplicationQuery) Query(ctx context.Context, msg FindApplicationMessage) (*core.Application, error) {
	if q == nil || q.reader == nil {
		return nil, queryDependencyError("query: application reader is required")
	}
	return q.reader.FindByClientID(ctx, strings.TrimSpace(msg.ClientID))
}

type FindTokenQuery struct {
	reader TokenReader
}

func NewFindTokenQuery(reader TokenReader) *FindTokenQuery {
	return &FindTokenQuery{reader: reader}
}

func (q *FindTokenQuery) Query(ctx context.Context, msg FindTokenMessage) (*core.Token, error) {
	if q == nil || q.reader == nil {
		return nil, queryDependencyError("query: token reader is required")
	}
	return q.reader.FindByReferenceID(ctx, strings.TrimSpace(msg.ReferenceID))
}

type TokenPruneListQuery struct {
	reader TokenReader
}

func NewTokenPruneListQuery(reader TokenReader) *TokenPruneListQuery {
	return &TokenPruneListQuery{reader: reader}
}

func (q *TokenPruneListQuery) Query(ctx context.Context, msg PruneListMessage) ([]*core.Token, error) {
	if q == nil || q.reader == nil {
		return nil, queryDependencyError("query: token reader is required")
	}
	return q.reader.GetPruneList(ctx, msg.OlderThan, msg.MaxResults)
}

type AuthorizationPruneListQuery struct {
	reader AuthorizationPruneReader
}

func NewAuthorizationPruneListQuery(reader AuthorizationPruneReader) *AuthorizationPruneListQuery {
	return &AuthorizationPruneListQuery{reader: reader}
}

func (q *AuthorizationPruneListQuery) Query(
	ctx context.Context,
	msg AuthorizationPruneListMessage,
) ([]*core.Authorization, error) {
	if q == nil || q.reader == nil {
		return nil, queryDependencyError("query: authorization reader is required")
	}
	return q.reader.GetPruneList(ctx, msg.OlderThan, msg.MaxResults)
}

type ClientPermissionQuery struct {
	reader ClientPermissionReader
}

func NewClientPermissionQuery(reader ClientPermissionReader) *ClientPermissionQuery {
	return &ClientPermissionQuery{reader: reader}
}

func (q *ClientPermissionQuery) Query(ctx context.Context, msg ClientPermissionMessage) (bool, error) {
	if q == nil || q.reader == nil {
		return false, queryDependencyError("query: permission reader is required")
	}
	return q.reader.IsClientGranted(ctx, strings.TrimSpace(msg.ClientID), strings.TrimSpace(msg.Permission))
}
