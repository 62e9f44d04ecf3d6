package command

import (
	"strings"
	"time"
)

const (
	TypePrune               = "oauthstore.command.prune"
	TypeRevokeAuthorization = "oauthstore.command.authorization.revoke"
	TypeSeed                = "oauthstore.command.seed"
)

const (
	PruneTargetAll            = ""
	PruneTargetTokens         = "tokens"
	PruneTargetAuthorizations = "authorizations"
)

// PruneMessage prunes entities created before OlderThan. A zero OlderThan
// uses the pruner's configured threshold.
type PruneMessage struct {
	OlderThan time.Time
	Target    string
}

func (PruneMessage) Type() string { return TypePrune }

func (m PruneMessage) Validate() error {
	switch strings.TrimSpace(m.Target) {
	case PruneTargetAll, PruneTargetTokens, PruneTargetAuthorizations:
		return nil
	default:
		return commandValidationError("target", "target must be tokens, authorizations or empty")
	}
}

type RevokeAuthorizationMessage struct {
	AuthorizationID string
}

func (RevokeAuthorizationMessage) Type() string { return TypeRevokeAuthorization }

func (m RevokeAuthorizationMessage) Validate() error {
	if strings.TrimSpace(m.AuthorizationID) == "" {
		return commandValidationError("authorization_id", "authorization id is required")
	}
	return nil
}

type SeedMessage struct{}

func (SeedMessage) Type() string { return TypeSeed }

func (SeedMessage) Validate() error { return nil }
