package command

import (
	gocmd "github.com/goliatone/go-command"
	"github.com/goliatone/go-oauth-store/core"
)

var (
	_ gocmd.Commander[PruneMessage]               = (*PruneCommand)(nil)
	_ gocmd.Commander[RevokeAuthorizationMessage] = (*RevokeAuthorizationCommand)(nil)
	_ gocmd.Commander[SeedMessage]                = (*SeedCommand)(nil)

	_ Pruner               = (*core.Pruner)(nil)
	_ AuthorizationRevoker = (*core.Service)(nil)
	_ Seeder               = (*core.Service)(nil)
)
