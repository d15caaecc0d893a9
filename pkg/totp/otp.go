package totp

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha1"
	"encoding/binary"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrymomot/authenticator/pkg/base32"
)

const (
	DefaultDigits    = 6      // Standard 6-digit TOTP codes
	DefaultPeriod    = 30     // 30-second validity window (RFC 6238 standard)
	DefaultAlgorithm = "SHA1" // HMAC-SHA1 algorithm (RFC 6238 standard)

	MinDigits = 1
	MaxDigits = 10

	secretKeySize = 20 // 160-bit secret (RFC 4226 recommendation)
)

var pow10 = [MaxDigits + 1]uint64{
	1, 10, 100, 1000, 10000, 100000, 1000000,
	10000000, 100000000, 1000000000, 10000000000,
}

type options struct {
	period int
	digits int
}

// Option overrides one of the RFC 6238 defaults used by Generate.
type Option func(*options)

// WithPeriod sets the time step in seconds.
func WithPeriod(period int) Option {
	return func(o *options) { o.period = period }
}

// WithDigits sets the number of digits in the produced code.
func WithDigits(digits int) Option {
	return func(o *options) { o.digits = digits }
}

func newOptions(opts []Option) (options, error) {
	o := options{period: DefaultPeriod, digits: DefaultDigits}
	for _, opt := range opts {
		opt(&o)
	}
	if o.period <= 0 {
		return o, ErrInvalidPeriod
	}
	if o.digits < MinDigits || o.digits > MaxDigits {
		return o, ErrInvalidDigits
	}
	return o, nil
}

// Counter returns the RFC 6238 time step floor(unixTime/period).
// Times before the epoch floor towards negative infinity. A non-positive
// period falls back to DefaultPeriod.
func Counter(unixTime int64, period int) uint64 {
	if period <= 0 {
		period = DefaultPeriod
	}
	p := int64(period)
	c := unixTime / p
	if unixTime%p != 0 && unixTime < 0 {
		c--
	}
	return uint64(c)
}

// Remaining returns the seconds left in the window containing unixTime.
// The result is always in [1, period]; period equals the value right after a
// window boundary. A non-positive period falls back to DefaultPeriod.
func Remaining(unixTime int64, period int) int {
	if period <= 0 {
		period = DefaultPeriod
	}
	p := int64(period)
	m := unixTime % p
	if m < 0 {
		m += p
	}
	return int(p - m)
}

// Generate computes the TOTP code for key at unixTime.
// It never returns a code together with an error.
func Generate(key []byte, unixTime int64, opts ...Option) (string, error) {
	o, err := newOptions(opts)
	if err != nil {
		return "", err
	}
	return GenerateHOTP(key, Counter(unixTime, o.period), o.digits)
}

// GenerateHOTP implements the RFC 4226 HMAC-based One-Time Password algorithm
// and returns the code left-padded with zeros to digits characters.
func GenerateHOTP(key []byte, counter uint64, digits int) (string, error) {
	if len(key) == 0 {
		return "", ErrEmptyKey
	}
	if digits < MinDigits || digits > MaxDigits {
		return "", ErrInvalidDigits
	}

	var msg [8]byte
	binary.BigEndian.PutUint64(msg[:], counter)

	mac := hmac.New(sha1.New, key)
	if _, err := mac.Write(msg[:]); err != nil {
		return "", errors.Join(ErrCryptoFailure, err)
	}
	sum := mac.Sum(nil)
	if len(sum) != sha1.Size {
		return "", fmt.Errorf("%w: unexpected digest size %d", ErrCryptoFailure, len(sum))
	}

	// Dynamic truncation: low nibble of the last byte selects a 31-bit window.
	offset := sum[len(sum)-1] & 0x0f
	value := uint64(binary.BigEndian.Uint32(sum[offset:offset+4]) & 0x7fffffff)

	return fmt.Sprintf("%0*d", digits, value%pow10[digits]), nil
}

// Code is a generated one-time password together with its time window.
type Code struct {
	Value     string // Zero-padded decimal code
	Remaining int    // Seconds left in the current window, 1..Period
	Period    int    // Window length in seconds
	Counter   uint64 // RFC 6238 time step the code was derived from
}

// GenerateCode decodes a Base32 secret and computes the code and remaining
// seconds for now. Decode failures are returned unchanged, so callers can tell
// base32.ErrInvalidCharacter and base32.ErrEmptyInput from ErrEmptyKey and
// ErrCryptoFailure.
func GenerateCode(secret string, now int64, opts ...Option) (Code, error) {
	o, err := newOptions(opts)
	if err != nil {
		return Code{}, err
	}

	key, err := base32.Decode(secret)
	if err != nil {
		return Code{}, err
	}

	counter := Counter(now, o.period)
	value, err := GenerateHOTP(key, counter, o.digits)
	if err != nil {
		return Code{}, err
	}

	return Code{
		Value:     value,
		Remaining: Remaining(now, o.period),
		Period:    o.period,
		Counter:   counter,
	}, nil
}

// GenerateCodeAt is GenerateCode for a time.Time.
func GenerateCodeAt(secret string, t time.Time, opts ...Option) (Code, error) {
	return GenerateCode(secret, t.Unix(), opts...)
}

// Now reads the wall clock and generates the current code for secret.
func Now(secret string, opts ...Option) (Code, error) {
	return GenerateCode(secret, time.Now().Unix(), opts...)
}

// GenerateSecretKey generates a new unpadded Base32-encoded secret key.
func GenerateSecretKey() (string, error) {
	secret := make([]byte, secretKeySize)
	if _, err := rand.Read(secret); err != nil {
		return "", errors.Join(ErrFailedToGenerateSecretKey, err)
	}
	return base32.Encode(secret), nil
}
