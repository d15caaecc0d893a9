package vault_test

import (
	"context"
	"encoding/base64"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/authenticator/pkg/vault"
)

func newCipher(t *testing.T) *vault.AESCipher {
	t.Helper()
	key, err := vault.GenerateKey()
	require.NoError(t, err)
	c, err := vault.NewAESCipher(key)
	require.NoError(t, err)
	return c
}

func TestAESCipher_RoundTrip(t *testing.T) {
	t.Parallel()
	c := newCipher(t)

	for _, plain := range []string{secretA, secretB, ""} {
		enc, err := c.Encrypt(plain)
		require.NoError(t, err)
		assert.True(t, vault.IsEncrypted(enc))
		if plain != "" {
			assert.NotContains(t, enc, plain)
		}

		dec, err := c.Decrypt(enc)
		require.NoError(t, err)
		assert.Equal(t, plain, dec)
	}
}

func TestAESCipher_NonceIsRandom(t *testing.T) {
	t.Parallel()
	c := newCipher(t)

	a, err := c.Encrypt(secretA)
	require.NoError(t, err)
	b, err := c.Encrypt(secretA)
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestAESCipher_DecryptInvalid(t *testing.T) {
	t.Parallel()
	c := newCipher(t)
	other := newCipher(t)

	foreign, err := other.Encrypt(secretA)
	require.NoError(t, err)

	tests := []struct {
		name       string
		ciphertext string
	}{
		{name: "missing prefix", ciphertext: secretA},
		{name: "invalid base64", ciphertext: "enc:v1:invalid-base64!@#$"},
		{name: "too short", ciphertext: "enc:v1:" + base64.StdEncoding.EncodeToString([]byte("short"))},
		{name: "wrong key", ciphertext: foreign},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := c.Decrypt(tt.ciphertext)
			assert.ErrorIs(t, err, vault.ErrDecryptionFailed)
		})
	}
}

func TestNewAESCipher_InvalidKey(t *testing.T) {
	t.Parallel()
	_, err := vault.NewAESCipher(make([]byte, 16))
	assert.ErrorIs(t, err, vault.ErrInvalidKey)
}

func TestGenerateAndDecodeKey(t *testing.T) {
	t.Parallel()

	encoded, err := vault.GenerateEncodedKey()
	require.NoError(t, err)

	key, err := vault.DecodeKey(" " + encoded + "\n")
	require.NoError(t, err)
	assert.Len(t, key, vault.KeySize)

	_, err = vault.DecodeKey(base64.StdEncoding.EncodeToString(make([]byte, 16)))
	assert.ErrorIs(t, err, vault.ErrInvalidKey)

	_, err = vault.DecodeKey("%%%")
	assert.ErrorIs(t, err, vault.ErrInvalidKey)
}

func TestVault_EncryptsAtRest(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	c := newCipher(t)
	storage := vault.NewMemoryStorage()

	v, err := vault.Open(ctx, storage, vault.WithCipher(c))
	require.NoError(t, err)
	acc, err := v.Add(ctx, vault.Account{Secret: secretA, Label: "alice"})
	require.NoError(t, err)
	assert.Equal(t, secretA, acc.Secret)

	stored, err := storage.Load(ctx)
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.True(t, strings.HasPrefix(stored[0].Secret, "enc:v1:"))

	reopened, err := vault.Open(ctx, storage, vault.WithCipher(c))
	require.NoError(t, err)
	got, err := reopened.Get(acc.ID)
	require.NoError(t, err)
	assert.Equal(t, secretA, got.Secret)

	_, err = vault.Open(ctx, storage)
	assert.ErrorIs(t, err, vault.ErrCipherRequired)

	_, err = vault.Open(ctx, storage, vault.WithCipher(newCipher(t)))
	assert.ErrorIs(t, err, vault.ErrDecryptionFailed)
}

func TestVault_MigratesPlaintext(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	storage := vault.NewMemoryStorage()

	plain, err := vault.Open(ctx, storage)
	require.NoError(t, err)
	_, err = plain.Add(ctx, vault.Account{Secret: secretA, Label: "alice"})
	require.NoError(t, err)

	c := newCipher(t)
	v, err := vault.Open(ctx, storage, vault.WithCipher(c))
	require.NoError(t, err)
	_, err = v.Add(ctx, vault.Account{Secret: secretB, Label: "bob"})
	require.NoError(t, err)

	stored, err := storage.Load(ctx)
	require.NoError(t, err)
	for _, a := range stored {
		assert.True(t, vault.IsEncrypted(a.Secret), "every secret is encrypted after the next write")
	}
}
