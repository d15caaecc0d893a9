package vault

import "errors"

var (
	ErrAccountNotFound    = errors.New("account not found")
	ErrAmbiguousReference = errors.New("account reference matches more than one account")
	ErrMissingLabel       = errors.New("missing account label")
	ErrInvalidSecret      = errors.New("invalid account secret")
	ErrInvalidOrder       = errors.New("order must list every account exactly once")
	ErrUnsupportedFormat  = errors.New("unsupported backup format")
	ErrInvalidBackup      = errors.New("invalid backup file")
	ErrNothingToExport    = errors.New("no accounts to export")
	ErrStorage            = errors.New("vault storage failure")
	ErrCipherRequired     = errors.New("vault contains encrypted secrets but no master key is configured")
	ErrEncryptionFailed   = errors.New("failed to encrypt account secret")
	ErrDecryptionFailed   = errors.New("failed to decrypt account secret")
	ErrInvalidKey         = errors.New("invalid master key: must be 32 bytes")
	ErrKeyGeneration      = errors.New("failed to generate master key")
)
