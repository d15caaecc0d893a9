package totp

import "errors"

var (
	ErrEmptyKey                  = errors.New("empty TOTP key")
	ErrCryptoFailure             = errors.New("TOTP HMAC computation failed")
	ErrInvalidPeriod             = errors.New("invalid TOTP period, must be greater than 0")
	ErrInvalidDigits             = errors.New("invalid TOTP digits, must be between 1 and 10")
	ErrFailedToGenerateSecretKey = errors.New("failed to generate TOTP secret key")
	ErrMissingSecret             = errors.New("missing secret")
	ErrMissingAccountName        = errors.New("missing account name")
	ErrMissingIssuer             = errors.New("missing issuer")
)
