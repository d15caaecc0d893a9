package redis

import "time"

// Config describes how the vault reaches Redis. It is only loaded when
// AUTHENTICATOR_STORAGE=redis.
type Config struct {
	ConnectionURL  string        `env:"REDIS_URL" envDefault:"redis://localhost:6379/0"` // Format: redis://:password@localhost:6379/0
	KeyPrefix      string        `env:"REDIS_KEY_PREFIX" envDefault:"authenticator:"`   // Prepended to every key the vault writes
	RetryAttempts  int           `env:"REDIS_RETRY_ATTEMPTS" envDefault:"3"`            // Connection attempts before giving up
	RetryInterval  time.Duration `env:"REDIS_RETRY_INTERVAL" envDefault:"2s"`           // Pause between attempts
	ConnectTimeout time.Duration `env:"REDIS_CONNECT_TIMEOUT" envDefault:"10s"`         // Upper bound for the whole connect loop
}
