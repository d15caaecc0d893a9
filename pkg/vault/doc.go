// Package vault stores the user's 2FA accounts: an ordered list of
// {id, secret, issuer, label, tags} records.
//
// A Vault is opened on top of a Storage backend (FileStorage, RedisStorage or
// MemoryStorage) and keeps the list in memory. Every mutation (Add, Update,
// Remove, Reorder, Move, Import) writes the whole list back. Memory is only
// updated after the write succeeds.
//
// Secrets are validated with pkg/base32 on the way in and stored in canonical
// form (uppercase, no spaces, hyphens or padding). Codes are never stored; the
// board derives them from the secret on every tick.
//
// # Encryption at rest
//
// WithCipher(AESCipher) encrypts each secret with AES-256-GCM before it reaches
// storage, using a key derived from the master key with HKDF-SHA256. Encrypted
// values carry an "enc:v1:" prefix, so an existing plaintext vault opens fine
// and is encrypted on its next write. Opening an encrypted vault without a
// cipher fails with ErrCipherRequired.
//
// # Backups
//
// Export writes {version, exportedAt, data: [...]} as JSON or YAML with
// plaintext secrets. ImportFrom accepts that document or a bare list of
// entries; entries lacking a secret or label, with undecodable secrets, or
// duplicating a secret already present are skipped.
//
//	v, err := vault.Open(ctx, vault.NewFileStorage(path), vault.WithCipher(c))
//	acc, err := v.Add(ctx, vault.Account{Label: "alice", Issuer: "GitHub", Secret: "jbsw y3dp ehpk 3pxp"})
//	n, err := v.ImportFrom(ctx, file, vault.FormatJSON)
package vault
