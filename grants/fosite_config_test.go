package grants

import (
	"testing"
	"time"

	"github.com/goliatone/go-oauth-store/core"
	"github.com/ory/fosite"
)

func TestApplyServerConfig_CopiesPKCEToggles(t *testing.T) {
	cfg := ApplyServerConfig(nil, core.ServerConfig{})
	if cfg.EnforcePKCE || cfg.EnablePKCEPlainChallengeMethod {
		t.Fatalf("expected PKCE toggles off by default, got %+v", cfg)
	}
	if !cfg.EnforcePKCEForPublicClients {
		t.Fatalf("expected public clients to always need PKCE")
	}

	existing := &fosite.Config{AccessTokenLifespan: time.Hour}
	cfg = ApplyServerConfig(existing, core.ServerConfig{
		RequireProofKeyForCodeExchange:  true,
		SupportPlainCodeChallengeMethod: true,
	})
	if cfg != existing {
		t.Fatalf("expected the given config to be updated in place")
	}
	if !cfg.EnforcePKCE || !cfg.EnablePKCEPlainChallengeMethod {
		t.Fatalf("expected PKCE toggles copied, got %+v", cfg)
	}
	if cfg.AccessTokenLifespan != time.Hour {
		t.Fatalf("expected unrelated fields untouched")
	}
}
