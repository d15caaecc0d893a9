package base32

import (
	"fmt"
	"strings"
	"unicode"
)

// Alphabet is the RFC 4648 Base32 alphabet.
const Alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ234567"

const invalid = 0xFF

var decodeMap = func() [256]byte {
	var m [256]byte
	for i := range m {
		m[i] = invalid
	}
	for i := 0; i < len(Alphabet); i++ {
		m[Alphabet[i]] = byte(i)
	}
	return m
}()

// Normalize uppercases s and removes whitespace, hyphens and trailing padding.
// The result is the canonical form stored by the vault.
func Normalize(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if unicode.IsSpace(r) || r == '-' {
			continue
		}
		b.WriteRune(unicode.ToUpper(r))
	}
	return strings.TrimRight(b.String(), "=")
}

// Decode normalises secretText and decodes it into raw key bytes.
func Decode(secretText string) ([]byte, error) {
	clean := Normalize(secretText)
	if clean == "" {
		return nil, ErrEmptyInput
	}

	out := make([]byte, 0, len(clean)*5/8)
	var buf uint64
	var bits uint

	for i := 0; i < len(clean); i++ {
		c := clean[i]
		v := decodeMap[c]
		if v == invalid {
			r := []rune(clean[i:])[0]
			return nil, fmt.Errorf("%w: %q at position %d", ErrInvalidCharacter, r, i)
		}
		buf = buf<<5 | uint64(v)
		bits += 5
		if bits >= 8 {
			bits -= 8
			out = append(out, byte(buf>>bits))
			buf &= (1 << bits) - 1
		}
	}

	return out, nil
}

// Encode returns the unpadded, uppercase RFC 4648 encoding of data.
func Encode(data []byte) string {
	if len(data) == 0 {
		return ""
	}

	var b strings.Builder
	b.Grow((len(data)*8 + 4) / 5)

	var buf uint64
	var bits uint
	for _, d := range data {
		buf = buf<<8 | uint64(d)
		bits += 8
		for bits >= 5 {
			bits -= 5
			b.WriteByte(Alphabet[(buf>>bits)&0x1F])
		}
		buf &= (1 << bits) - 1
	}
	if bits > 0 {
		b.WriteByte(Alphabet[(buf<<(5-bits))&0x1F])
	}

	return b.String()
}

// Valid reports whether s decodes without error.
func Valid(s string) bool {
	_, err := Decode(s)
	return err == nil
}
