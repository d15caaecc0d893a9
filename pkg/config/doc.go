// Package config loads typed configuration from environment variables.
//
// It wraps github.com/caarlos0/env/v11 for struct-tag parsing and
// github.com/joho/godotenv for .env files. Load parses a struct once per type
// and caches the copy, so every package asking for the same configuration sees
// the same values. MustLoad panics instead of returning an error, for
// configuration a binary cannot run without.
//
//	type Config struct {
//		Storage   string `env:"AUTHENTICATOR_STORAGE" envDefault:"file"`
//		VaultPath string `env:"AUTHENTICATOR_VAULT_PATH"`
//	}
//
//	var cfg Config
//	config.MustLoad(&cfg)
//
// Failed parses are not cached: fixing the environment and calling Load again
// succeeds. Reset clears the cache between tests.
//
// Errors wrap ErrParsingConfig, ErrLoadingEnvFile or ErrNilPointer and are
// inspected with errors.Is.
package config
