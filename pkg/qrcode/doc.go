// Package qrcode renders otpauth:// URIs as QR codes so an account can be
// moved from the vault to a phone authenticator.
//
// It wraps github.com/skip2/go-qrcode at Medium error correction:
//
//	uri, _ := totp.URI(totp.URIParams{Secret: acc.Secret, AccountName: acc.Label, Issuer: acc.Issuer})
//	png, err := qrcode.Generate(uri, 256)        // PNG bytes
//	text, err := qrcode.Terminal(uri, false)     // half-block text for the CLI
//
// Empty content yields ErrEmptyContent; encoder failures are joined with
// ErrFailedToGenerateQRCode.
package qrcode
