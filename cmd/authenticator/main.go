// Command authenticator shows TOTP codes for the accounts in a local or
// Redis-backed vault.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/dmitrymomot/authenticator/pkg/config"
	"github.com/dmitrymomot/authenticator/pkg/logger"
	"github.com/dmitrymomot/authenticator/pkg/vault"
)

func main() {
	os.Exit(run())
}

func run() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if file := os.Getenv("AUTHENTICATOR_ENV_FILE"); file != "" {
		if err := config.LoadEnv(file); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
	}

	var cfg Config
	if err := config.Load(&cfg); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	log := logger.New(
		logger.WithEnvironment(cfg.Env, serviceName),
		logger.WithLevelName(cfg.LogLevel),
		logger.WithContextExtractors(commandExtractor),
	)
	logger.SetAsDefault(log)

	var backends []backend
	defer func() {
		for _, b := range backends {
			b.Close()
		}
	}()

	a := &app{
		out:    os.Stdout,
		errOut: os.Stderr,
		log:    log,
		now:    time.Now,
		shared: strings.EqualFold(strings.TrimSpace(cfg.Storage), storageRedis),
	}
	a.open = func(ctx context.Context) (*vault.Vault, error) {
		v, b, err := openVault(ctx, cfg, log)
		backends = append(backends, b)
		a.health = b.health
		return v, err
	}

	if len(os.Args) > 1 {
		ctx = withCommand(ctx, os.Args[1])
	}
	if err := a.run(ctx, os.Args[1:]); err != nil {
		if errors.Is(err, errUsage) {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		log.ErrorContext(ctx, "command failed", logger.Error(err))
		return 1
	}
	return 0
}
