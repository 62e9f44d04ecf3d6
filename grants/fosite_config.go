package grants

import (
	"github.com/goliatone/go-oauth-store/core"
	"github.com/ory/fosite"
)

// ApplyServerConfig copies the PKCE toggles onto a fosite config. Public
// clients always need PKCE; RequireProofKeyForCodeExchange extends that to
// every client.
func ApplyServerConfig(cfg *fosite.Config, server core.ServerConfig) *fosite.Config {
	if cfg == nil {
		cfg = &fosite.Config{}
	}
	cfg.EnforcePKCE = server.RequireProofKeyForCodeExchange
	cfg.EnforcePKCEForPublicClients = true
	cfg.EnablePKCEPlainChallengeMethod = server.SupportPlainCodeChallengeMethod
	return cfg
}
