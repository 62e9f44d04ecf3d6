package command

import (
	"context"
	"strings"
	"time"

	gocmd "github.com/goliatone/go-command"
	"github.com/goliatone/go-oauth-store/core"
)

type Pruner interface {
	Cutoff() time.Time
	Prune(ctx context.Context, olderThan time.Time) (core.PruneReport, error)
	PruneTokens(ctx context.Context, olderThan time.Time) (core.PruneResult, error)
	PruneAuthorizations(ctx context.Context, olderThan time.Time) (core.PruneResult, error)
}

type AuthorizationRevoker interface {
	RevokeAuthorization(ctx context.Context, authorizationID string) (int64, error)
}

type Seeder interface {
	Seed(ctx context.Context) (core.SeedResult, error)
}

type PruneCommand struct {
	pruner Pruner
}

func NewPruneCommand(pruner Pruner) *PruneCommand {
	return &PruneCommand{pruner: pruner}
}

// Execute stores a core.PruneReport in the result collector. Single-target
// runs leave the other half of the report zero.
func (c *PruneCommand) Execute(ctx context.Context, msg PruneMessage) error {
	if c == nil || c.pruner == nil {
		return commandDependencyError("command: pruner is required")
	}
	olderThan := msg.OlderThan
	if olderThan.IsZero() {
		olderThan = c.pruner.Cutoff()
	}

	var report core.PruneReport
	var err error
	switch strings.TrimSpace(msg.Target) {
	case PruneTargetTokens:
		report.Tokens, err = c.pruner.PruneTokens(ctx, olderThan)
	case PruneTargetAuthorizations:
		report.Authorizations, err = c.pruner.PruneAuthorizations(ctx, olderThan)
	default:
		report, err = c.pruner.Prune(ctx, olderThan)
	}
	if err != nil {
		return err
	}
	storeResult(ctx, report)
	return nil
}

type RevokeAuthorizationCommand struct {
	revoker AuthorizationRevoker
}

func NewRevokeAuthorizationCommand(revoker AuthorizationRevoker) *RevokeAuthorizationCommand {
	return &RevokeAuthorizationCommand{revoker: revoker}
}

// Execute stores the number of tokens revoked as an int64 result.
func (c *RevokeAuthorizationCommand) Execute(ctx context.Context, msg RevokeAuthorizationMessage) error {
	if c == nil || c.revoker == nil {
		return commandDependencyError("command: authorization revoker is required")
	}
	revoked, err := c.revoker.RevokeAuthorization(ctx, strings.TrimSpace(msg.AuthorizationID))
	if err != nil {
		return err
	}
	storeResult(ctx, revoked)
	return nil
}

type SeedCommand struct {
	seeder Seeder
}

func NewSeedCommand(seeder Seeder) *SeedCommand {
	return &SeedCommand{seeder: seeder}
}

func (c *SeedCommand) Execute(ctx context.Context, _ SeedMessage) error {
	if c == nil || c.seeder == nil {
		return commandDependencyError("command: seeder is required")
	}
	out, err := c.seeder.Seed(ctx)
	if err != nil {
		return err
	}
	storeResult(ctx, out)
	return nil
}

func storeResult[T any](ctx context.Context, value T) {
	collector := gocmd.ResultFromContext[T](ctx)
	if collector == nil {
		return
	}
	collector.Store(value)
}
