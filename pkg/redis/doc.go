// Package redis connects the vault's Redis storage backend.
//
// Connect parses a redis:// URL, pings the server and retries according to
// Config, which is populated from REDIS_* environment variables through
// pkg/config. Healthcheck wraps a ping for use before long-running commands
// such as watch.
//
//	var cfg redis.Config
//	config.MustLoad(&cfg)
//	client, err := redis.Connect(ctx, cfg)
//	if err != nil {
//		return err
//	}
//	defer client.Close()
//
// Errors (ErrEmptyConnectionURL, ErrFailedToParseRedisConnString,
// ErrRedisNotReady, ErrHealthcheckFailed) are joined with the underlying
// go-redis error and inspected with errors.Is.
package redis
