package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/dmitrymomot/authenticator/pkg/config"
	"github.com/dmitrymomot/authenticator/pkg/logger"
	"github.com/dmitrymomot/authenticator/pkg/redis"
	"github.com/dmitrymomot/authenticator/pkg/vault"
)

const (
	serviceName = "authenticator"

	storageFile  = "file"
	storageRedis = "redis"
)

var errUnknownStorage = errors.New("unknown storage backend")

// Config is read from the environment (and ./.env when present).
type Config struct {
	Env       string `env:"AUTHENTICATOR_ENV" envDefault:"development"`
	LogLevel  string `env:"AUTHENTICATOR_LOG_LEVEL" envDefault:"info"`
	Storage   string `env:"AUTHENTICATOR_STORAGE" envDefault:"file"` // file or redis
	VaultPath string `env:"AUTHENTICATOR_VAULT_PATH"`                // defaults to ~/.authenticator/accounts.json
	MasterKey string `env:"AUTHENTICATOR_MASTER_KEY"`                // base64, 32 bytes; enables at-rest encryption
}

func defaultVaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".authenticator", "accounts.json")
	}
	return filepath.Join(home, ".authenticator", "accounts.json")
}

// backend is the connection behind an opened vault.
type backend struct {
	close  func()
	health func(context.Context) error // nil for local storage
}

// Close releases the connection. It is safe on the zero value.
func (b backend) Close() {
	if b.close != nil {
		b.close()
	}
}

// openVault builds the storage selected by cfg and opens the vault on it.
func openVault(ctx context.Context, cfg Config, log *slog.Logger) (*vault.Vault, backend, error) {
	var b backend

	var storage vault.Storage
	switch strings.ToLower(strings.TrimSpace(cfg.Storage)) {
	case storageFile:
		path := cfg.VaultPath
		if path == "" {
			path = defaultVaultPath()
		}
		storage = vault.NewFileStorage(path)
		log.DebugContext(ctx, "using file storage", logger.Storage(storageFile), slog.String("path", path))

	case storageRedis:
		var rcfg redis.Config
		if err := config.Load(&rcfg); err != nil {
			return nil, b, err
		}
		client, err := redis.Connect(ctx, rcfg)
		if err != nil {
			return nil, b, err
		}
		b.close = func() { _ = client.Close() }
		b.health = redis.Healthcheck(client)
		storage = vault.NewRedisStorage(client, rcfg.KeyPrefix)
		log.DebugContext(ctx, "using redis storage", logger.Storage(storageRedis))

	default:
		return nil, b, fmt.Errorf("%w: %q", errUnknownStorage, cfg.Storage)
	}

	opts := []vault.Option{vault.WithLogger(log)}
	if cfg.MasterKey != "" {
		key, err := vault.DecodeKey(cfg.MasterKey)
		if err != nil {
			return nil, b, err
		}
		c, err := vault.NewAESCipher(key)
		clear(key)
		if err != nil {
			return nil, b, err
		}
		opts = append(opts, vault.WithCipher(c))
	}

	v, err := vault.Open(ctx, storage, opts...)
	if err != nil {
		return nil, b, err
	}
	return v, b, nil
}
