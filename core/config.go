package core

import (
	"fmt"
	"strings"
	"time"
)

const (
	DefaultPruneThreshold  = 14 * 24 * time.Hour
	DefaultPruneBatchSize  = 1000
	DefaultPruneMaxBatches = 0
)

type PruningConfig struct {
	// Threshold is how old an entity must be before it becomes a candidate.
	Threshold  time.Duration `koanf:"threshold" mapstructure:"threshold"`
	BatchSize  int           `koanf:"batch_size" mapstructure:"batch_size"`
	MaxBatches int           `koanf:"max_batches" mapstructure:"max_batches"`
}

// ServerConfig carries the authorization-server toggles. The PKCE fields
// drive seeding and RequiresPKCE; the signing and encryption toggles are
// read by the external token provider, which owns key material.
type ServerConfig struct {
	RequireProofKeyForCodeExchange  bool `koanf:"require_proof_key_for_code_exchange" mapstructure:"require_proof_key_for_code_exchange"`
	SupportPlainCodeChallengeMethod bool `koanf:"support_plain_code_challenge_method" mapstructure:"support_plain_code_challenge_method"`
	AddDeveloperSigningCredential   bool `koanf:"add_developer_signing_credential" mapstructure:"add_developer_signing_credential"`
	AddEphemeralEncryptionKey       bool `koanf:"add_ephemeral_encryption_key" mapstructure:"add_ephemeral_encryption_key"`
}

// RequiresPKCE reports whether a code exchange by app must carry a PKCE
// challenge, either server-wide or through the app's ft:pkce requirement.
func (c ServerConfig) RequiresPKCE(app *Application) bool {
	if c.RequireProofKeyForCodeExchange {
		return true
	}
	return app != nil && app.HasRequirement(RequirementProofKeyForCodeExchange)
}

type Config struct {
	ServiceName string        `koanf:"service_name" mapstructure:"service_name"`
	Pruning     PruningConfig `koanf:"pruning" mapstructure:"pruning"`
	Server      ServerConfig  `koanf:"server" mapstructure:"server"`
}

func DefaultConfig() Config {
	return Config{
		ServiceName: "oauthstore",
		Pruning: PruningConfig{
			Threshold:  DefaultPruneThreshold,
			BatchSize:  DefaultPruneBatchSize,
			MaxBatches: DefaultPruneMaxBatches,
		},
		Server: ServerConfig{},
	}
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.ServiceName) == "" {
		return fmt.Errorf("core: service_name is required")
	}
	if c.Pruning.Threshold < 0 {
		return fmt.Errorf("core: pruning.threshold must be >= 0")
	}
	if c.Pruning.BatchSize < 0 {
		return fmt.Errorf("core: pruning.batch_size must be >= 0")
	}
	if c.Pruning.MaxBatches < 0 {
		return fmt.Errorf("core: pruning.max_batches must be >= 0")
	}
	return nil
}
