// Package logger builds the *slog.Logger used by the authenticator CLI and
// the vault.
//
// New takes functional options for format (text or JSON), level, static
// attributes and context extractors. WithEnvironment picks development (text,
// debug) or production (JSON, info) defaults from AUTHENTICATOR_ENV. Records go
// to stderr unless WithOutput says otherwise, keeping stdout free for codes.
//
// Attribute helpers in attr.go (Error, AccountID, Issuer, Storage, Count,
// Command...) keep key names consistent. Error and Errors return an empty
// attribute for nil errors, so they can be passed unconditionally:
//
//	log.Info("vault saved", logger.Count(n), logger.Error(err))
//
// Secrets and generated codes must never be passed to a logger.
package logger
