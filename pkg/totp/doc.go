// Package totp generates RFC 6238 time-based one-time passwords from the
// Base32 secrets stored by the authenticator.
//
// The package is a pure function of (secret, time): it keeps no state, never
// blocks, and is safe to call concurrently from any number of goroutines. Codes
// are never cached; callers read the clock fresh on every tick and call
// GenerateCode again.
//
// # Algorithm
//
// The fixed parameters are HMAC-SHA1, 6 digits and a 30 second step:
//
//	counter   = floor(unixTime / period)          // 8 bytes, big-endian
//	hmac      = HMAC-SHA1(key, counter)           // 20 bytes
//	offset    = hmac[19] & 0x0F
//	value     = uint32(hmac[offset:offset+4]) & 0x7FFFFFFF
//	code      = value mod 10^digits, zero-padded
//	remaining = period - (unixTime mod period)    // 1..period
//
// WithPeriod and WithDigits exist for the RFC test vectors and for accounts
// imported from other apps; the authenticator itself uses the defaults.
//
// # Usage
//
//	code, err := totp.GenerateCode("JBSWY3DPEHPK3PXP", time.Now().Unix())
//	if err != nil {
//		// render a placeholder, never a made-up code
//	}
//	fmt.Println(code.Value, code.Remaining)
//
// URI builds an otpauth:// Key URI so an account can be moved to another
// device. Parsing such URIs is out of scope.
//
// # Error Handling
//
// GenerateCode surfaces base32.ErrInvalidCharacter and base32.ErrEmptyInput
// for bad secrets, ErrEmptyKey when the secret decodes to zero bytes, and
// ErrCryptoFailure if the HMAC primitive misbehaves. ErrInvalidPeriod and
// ErrInvalidDigits reject bad options. A code is never returned together with
// an error, so "000000" is always a real code.
//
// # See Also
//
//   - RFC 4226 – HMAC-Based One-Time Password (HOTP) Algorithm
//   - RFC 6238 – Time-Based One-Time Password (TOTP) Algorithm
package totp
