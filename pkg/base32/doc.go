// Package base32 decodes the human-entered Base32 secrets used by authenticator
// apps into raw HMAC key bytes.
//
// Secrets are typed by people, copied from web pages or grouped for readability
// ("jbsw y3dp ehpk 3pxp", "JBSW-Y3DP-EHPK-3PXP"), and frequently arrive with or
// without the "=" padding required by RFC 4648. Decode normalises all of these
// forms before decoding, so callers may pass raw user input straight through.
//
// # Decoding rules
//
//   - letters are uppercased, whitespace and hyphens are removed;
//   - trailing "=" padding is optional and ignored;
//   - only the RFC 4648 alphabet A-Z and 2-7 is accepted;
//   - a cleaned input of length L always yields floor(L*5/8) bytes, the trailing
//     bits of an incomplete final group are dropped.
//
// Unlike encoding/base32, inputs whose length is not a multiple of eight
// characters are never rejected, which matches what authenticator apps accept.
//
// # Usage
//
//	key, err := base32.Decode("jbsw y3dp ehpk 3pxp")
//	if errors.Is(err, base32.ErrInvalidCharacter) {
//		// secret contains characters outside the alphabet
//	}
//
// # Error Handling
//
// Decode returns ErrEmptyInput when nothing remains after normalisation and
// ErrInvalidCharacter (wrapped with the offending rune and position) for any
// character outside the alphabet. No partial result is returned on error.
package base32
