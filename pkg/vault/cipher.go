package vault

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"io"
	"strings"

	"golang.org/x/crypto/hkdf"
)

const (
	// KeySize is the master key length in bytes (AES-256).
	KeySize = 32

	// encryptedPrefix marks a stored secret as ciphertext so plaintext vaults
	// can be opened and migrated transparently.
	encryptedPrefix = "enc:v1:"

	hkdfInfo = "authenticator-vault-v1"
)

// Cipher protects account secrets at rest.
type Cipher interface {
	Encrypt(plaintext string) (string, error)
	Decrypt(ciphertext string) (string, error)
}

// AESCipher encrypts secrets with AES-256-GCM under a key derived from the
// master key with HKDF-SHA256.
type AESCipher struct {
	aead cipher.AEAD
}

// NewAESCipher derives the data key from masterKey and prepares the AEAD.
func NewAESCipher(masterKey []byte) (*AESCipher, error) {
	if len(masterKey) != KeySize {
		return nil, ErrInvalidKey
	}

	key := make([]byte, KeySize)
	if _, err := io.ReadFull(hkdf.New(sha256.New, masterKey, nil, []byte(hkdfInfo)), key); err != nil {
		return nil, errors.Join(ErrInvalidKey, err)
	}
	defer clear(key)

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, errors.Join(ErrInvalidKey, err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, errors.Join(ErrInvalidKey, err)
	}

	return &AESCipher{aead: aead}, nil
}

// Encrypt returns "enc:v1:" followed by base64(nonce || ciphertext || tag).
func (c *AESCipher) Encrypt(plaintext string) (string, error) {
	nonce := make([]byte, c.aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", errors.Join(ErrEncryptionFailed, err)
	}

	sealed := c.aead.Seal(nonce, nonce, []byte(plaintext), nil)
	return encryptedPrefix + base64.StdEncoding.EncodeToString(sealed), nil
}

// Decrypt reverses Encrypt.
func (c *AESCipher) Decrypt(ciphertext string) (string, error) {
	raw, ok := strings.CutPrefix(ciphertext, encryptedPrefix)
	if !ok {
		return "", ErrDecryptionFailed
	}

	data, err := base64.StdEncoding.DecodeString(raw)
	if err != nil {
		return "", errors.Join(ErrDecryptionFailed, err)
	}

	nonceSize := c.aead.NonceSize()
	if len(data) < nonceSize {
		return "", errors.Join(ErrDecryptionFailed, errors.New("cipher text too short"))
	}
	nonce, sealed := data[:nonceSize], data[nonceSize:]

	plain, err := c.aead.Open(nil, nonce, sealed, nil)
	if err != nil {
		return "", errors.Join(ErrDecryptionFailed, err)
	}
	return string(plain), nil
}

// IsEncrypted reports whether a stored secret was produced by a Cipher.
func IsEncrypted(stored string) bool {
	return strings.HasPrefix(stored, encryptedPrefix)
}

// GenerateKey creates a random master key.
func GenerateKey() ([]byte, error) {
	key := make([]byte, KeySize)
	if _, err := rand.Read(key); err != nil {
		return nil, errors.Join(ErrKeyGeneration, err)
	}
	return key, nil
}

// GenerateEncodedKey creates a random master key in the base64 form expected
// by AUTHENTICATOR_MASTER_KEY.
func GenerateEncodedKey() (string, error) {
	key, err := GenerateKey()
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(key), nil
}

// DecodeKey parses a base64 master key.
func DecodeKey(encoded string) ([]byte, error) {
	key, err := base64.StdEncoding.DecodeString(strings.TrimSpace(encoded))
	if err != nil {
		return nil, errors.Join(ErrInvalidKey, err)
	}
	if len(key) != KeySize {
		return nil, ErrInvalidKey
	}
	return key, nil
}
