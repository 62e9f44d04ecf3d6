package query

import (
	"strings"
	"time"
)

const (
	TypeFindApplication        = "oauthstore.query.application.find"
	TypeFindToken              = "oauthstore.query.token.find"
	TypeTokenPruneList         = "oauthstore.query.token.prune_list"
	TypeAuthorizationPruneList = "oauthstore.query.authorization.prune_list"
	TypeClientPermission       = "oauthstore.query.client_permission"
)

type FindApplicationMessage struct {
	ClientID string
}

func (FindApplicationMessage) Type() string { return TypeFindApplication }

func (m FindApplicationMessage) Validate() error {
	if strings.TrimSpace(m.ClientID) == "" {
		return queryValidationError("client_id", "client id is required")
	}
	return nil
}

type FindTokenMessage struct {
	ReferenceID string
}

func (FindTokenMessage) Type() string { return TypeFindToken }

func (m FindTokenMessage) Validate() error {
	if strings.TrimSpace(m.ReferenceID) == "" {
		return queryValidationError("reference_id", "reference id is required")
	}
	return nil
}

// PruneListMessage previews the entities a prune run would delete.
// MaxResults <= 0 uses the store default.
type PruneListMessage struct {
	OlderThan  time.Time
	MaxResults int
}

func (PruneListMessage) Type() string { return TypeTokenPruneList }

func (m PruneListMessage) Validate() error {
	if m.OlderThan.IsZero() {
		return queryValidationError("older_than", "older than is required")
	}
	return nil
}

type AuthorizationPruneListMessage struct {
	PruneListMessage
}

func (AuthorizationPruneListMessage) Type() string { return TypeAuthorizationPruneList }

type ClientPermissionMessage struct {
	ClientID   string
	Permission string
}

func (ClientPermissionMessage) Type() string { return TypeClientPermission }

func (m ClientPermissionMessage) Validate() error {
	if strings.TrimSpace(m.ClientID) == "" {
		return queryValidationError("client_id", "client id is required")
	}
	if strings.TrimSpace(m.Permission) == "" {
		return queryValidationError("permission", "permission is required")
	}
	return nil
}
