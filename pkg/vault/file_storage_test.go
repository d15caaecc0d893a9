package vault_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/authenticator/pkg/vault"
)

func TestFileStorage_MissingFile(t *testing.T) {
	t.Parallel()
	s := vault.NewFileStorage(filepath.Join(t.TempDir(), "nested", "accounts.json"))

	accounts, err := s.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, accounts)
}

func TestFileStorage_SaveLoad(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "accounts.json")
	s := vault.NewFileStorage(path)
	assert.Equal(t, path, s.Path())

	want := []vault.Account{
		{ID: uuid.New(), Secret: secretA, Issuer: "GitHub", Label: "alice", Tags: []string{"work"}},
		{ID: uuid.New(), Secret: secretB, Issuer: "AWS", Label: "root", Tags: []string{}},
	}
	require.NoError(t, s.Save(ctx, want))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	got, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temp files left behind")
}

func TestFileStorage_Corrupt(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "accounts.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	_, err := vault.NewFileStorage(path).Load(context.Background())
	assert.Error(t, err)

	_, err = vault.Open(context.Background(), vault.NewFileStorage(path))
	assert.ErrorIs(t, err, vault.ErrStorage)
}

func TestFileStorage_BrowserFormat(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "accounts.json")
	raw := `[{"id":"2b6f0cc9-4d4b-4b7e-9b2e-4b0c1d2e3f40","secret":"JBSWY3DPEHPK3PXP","issuer":"GitHub","label":"alice","tags":["work"]}]`
	require.NoError(t, os.WriteFile(path, []byte(raw), 0o600))

	v, err := vault.Open(context.Background(), vault.NewFileStorage(path))
	require.NoError(t, err)

	acc, err := v.Find("2b6f0cc9")
	require.NoError(t, err)
	assert.Equal(t, "alice", acc.Label)
}
