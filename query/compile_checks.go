package query

import (
	gocmd "github.com/goliatone/go-command"
	"github.com/goliatone/go-oauth-store/core"
)

var (
	_ gocmd.Querier[FindApplicationMessage, *core.Application]            = (*FindApplicationQuery)(nil)
	_ gocmd.Querier[FindTokenMessage, *core.Token]                        = (*FindTokenQuery)(nil)
	_ gocmd.Querier[PruneListMessage, []*core.Token]                      = (*TokenPruneListQuery)(nil)
	_ gocmd.Querier[AuthorizationPruneListMessage, []*core.Authorization] = (*AuthorizationPruneListQuery)(nil)
	_ gocmd.Querier[ClientPermissionMessage, bool]                        = (*ClientPermissionQuery)(nil)

	_ TokenReader              = (core.TokenStore)(nil)
	_ AuthorizationPruneReader = (core.AuthorizationStore)(nil)
	_ ClientPermissionReader   = (*core.PermissionChecker)(nil)
)
