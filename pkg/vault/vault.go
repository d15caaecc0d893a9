package vault

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/dmitrymomot/authenticator/pkg/logger"
)

// Vault is the ordered account list. It is safe for concurrent use. Every
// mutation writes the complete list to Storage and only updates memory once
// the write succeeded.
type Vault struct {
	mu       sync.RWMutex
	accounts []Account
	storage  Storage
	cipher   Cipher
	log      *slog.Logger
}

// Option configures a Vault.
type Option func(*Vault)

// WithCipher encrypts secrets before they reach Storage.
func WithCipher(c Cipher) Option {
	return func(v *Vault) { v.cipher = c }
}

// WithLogger sets the logger. Nil loggers are ignored.
func WithLogger(l *slog.Logger) Option {
	return func(v *Vault) {
		if l != nil {
			v.log = l
		}
	}
}

// Open loads the account list from storage.
func Open(ctx context.Context, storage Storage, opts ...Option) (*Vault, error) {
	v := &Vault{storage: storage, log: logger.Nop()}
	for _, opt := range opts {
		opt(v)
	}
	v.log = v.log.With(logger.Component("vault"))

	stored, err := storage.Load(ctx)
	if err != nil {
		v.log.ErrorContext(ctx, "load vault", logger.Error(err))
		return nil, errors.Join(ErrStorage, err)
	}

	accounts, err := v.reveal(stored)
	if err != nil {
		return nil, err
	}
	v.accounts = accounts

	v.log.DebugContext(ctx, "vault opened", logger.Count(len(accounts)))
	return v, nil
}

// List returns a copy of all accounts in display order.
func (v *Vault) List() []Account {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return cloneAccounts(v.accounts)
}

// Len returns the number of accounts.
func (v *Vault) Len() int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return len(v.accounts)
}

// Get returns the account with id.
func (v *Vault) Get(id uuid.UUID) (Account, error) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	if i := v.index(id); i >= 0 {
		return v.accounts[i].clone(), nil
	}
	return Account{}, ErrAccountNotFound
}

// Find resolves a user-supplied reference: a full ID, a unique ID prefix, or
// a case-insensitive label.
func (v *Vault) Find(ref string) (Account, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return Account{}, ErrAccountNotFound
	}
	if id, err := uuid.Parse(ref); err == nil {
		return v.Get(id)
	}

	v.mu.RLock()
	defer v.mu.RUnlock()

	var matches []Account
	for _, a := range v.accounts {
		if strings.HasPrefix(a.ID.String(), strings.ToLower(ref)) || strings.EqualFold(a.Label, ref) {
			matches = append(matches, a)
		}
	}
	switch len(matches) {
	case 0:
		return Account{}, ErrAccountNotFound
	case 1:
		return matches[0].clone(), nil
	default:
		return Account{}, fmt.Errorf("%w: %q", ErrAmbiguousReference, ref)
	}
}

// Add validates the account, assigns a new ID and puts it at the top of the
// list. An empty label defaults to "2FA" and an empty issuer to the label.
func (v *Vault) Add(ctx context.Context, in Account) (Account, error) {
	secret, err := normalizeSecret(in.Secret)
	if err != nil {
		return Account{}, err
	}

	label := strings.TrimSpace(in.Label)
	issuer := strings.TrimSpace(in.Issuer)
	if issuer == "" {
		issuer = label
	}
	if label == "" {
		label = defaultLabel
	}
	if issuer == "" {
		issuer = defaultIssuer
	}

	acc := Account{
		ID:     uuid.New(),
		Secret: secret,
		Issuer: issuer,
		Label:  label,
		Tags:   normalizeTags(in.Tags),
	}

	v.mu.Lock()
	defer v.mu.Unlock()

	next := make([]Account, 0, len(v.accounts)+1)
	next = append(next, acc)
	next = append(next, v.accounts...)
	if err := v.persist(ctx, next); err != nil {
		return Account{}, err
	}

	v.log.InfoContext(ctx, "account added", logger.AccountID(acc.ID), logger.Issuer(acc.Issuer))
	return acc.clone(), nil
}

// Update replaces the account with the same ID, keeping its position.
func (v *Vault) Update(ctx context.Context, in Account) (Account, error) {
	secret, err := normalizeSecret(in.Secret)
	if err != nil {
		return Account{}, err
	}
	label := strings.TrimSpace(in.Label)
	if label == "" {
		return Account{}, ErrMissingLabel
	}

	acc := Account{
		ID:     in.ID,
		Secret: secret,
		Issuer: strings.TrimSpace(in.Issuer),
		Label:  label,
		Tags:   normalizeTags(in.Tags),
	}

	v.mu.Lock()
	defer v.mu.Unlock()

	i := v.index(in.ID)
	if i < 0 {
		return Account{}, ErrAccountNotFound
	}

	next := cloneAccounts(v.accounts)
	next[i] = acc
	if err := v.persist(ctx, next); err != nil {
		return Account{}, err
	}

	v.log.InfoContext(ctx, "account updated", logger.AccountID(acc.ID))
	return acc.clone(), nil
}

// Remove deletes the account with id.
func (v *Vault) Remove(ctx context.Context, id uuid.UUID) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	i := v.index(id)
	if i < 0 {
		return ErrAccountNotFound
	}

	next := slices.Delete(cloneAccounts(v.accounts), i, i+1)
	if err := v.persist(ctx, next); err != nil {
		return err
	}

	v.log.InfoContext(ctx, "account removed", logger.AccountID(id))
	return nil
}

// Reorder rearranges the list. ids must be a permutation of the current IDs.
func (v *Vault) Reorder(ctx context.Context, ids []uuid.UUID) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	if len(ids) != len(v.accounts) {
		return ErrInvalidOrder
	}

	seen := make(map[uuid.UUID]struct{}, len(ids))
	next := make([]Account, 0, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			return ErrInvalidOrder
		}
		seen[id] = struct{}{}

		i := v.index(id)
		if i < 0 {
			return ErrInvalidOrder
		}
		next = append(next, v.accounts[i].clone())
	}

	return v.persist(ctx, next)
}

// Move shifts the account with id to position to (clamped to the list
// bounds), the single-step form of Reorder used by the CLI.
func (v *Vault) Move(ctx context.Context, id uuid.UUID, to int) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	from := v.index(id)
	if from < 0 {
		return ErrAccountNotFound
	}
	to = max(0, min(to, len(v.accounts)-1))
	if to == from {
		return nil
	}

	next := cloneAccounts(v.accounts)
	moved := next[from]
	next = slices.Delete(next, from, from+1)
	next = slices.Insert(next, to, moved)
	return v.persist(ctx, next)
}

// Tags returns every tag in use, in first-seen order.
func (v *Vault) Tags() []string {
	v.mu.RLock()
	defer v.mu.RUnlock()

	tags := []string{}
	for _, a := range v.accounts {
		for _, t := range a.Tags {
			if !slices.Contains(tags, t) {
				tags = append(tags, t)
			}
		}
	}
	return tags
}

// Filter returns the accounts carrying tag, or all accounts when tag is empty.
func (v *Vault) Filter(tag string) []Account {
	if tag == "" {
		return v.List()
	}

	v.mu.RLock()
	defer v.mu.RUnlock()

	out := []Account{}
	for _, a := range v.accounts {
		if a.HasTag(tag) {
			out = append(out, a.clone())
		}
	}
	return out
}

// Import appends entries to the end of the list and returns how many were
// added. Entries without a secret or label are skipped, as are secrets that
// fail to decode and secrets already present in the vault or earlier in the
// batch.
func (v *Vault) Import(ctx context.Context, entries []Entry) (int, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	known := make(map[string]struct{}, len(v.accounts)+len(entries))
	for _, a := range v.accounts {
		known[a.Secret] = struct{}{}
	}

	added := make([]Account, 0, len(entries))
	for i, e := range entries {
		if strings.TrimSpace(e.Secret) == "" || strings.TrimSpace(e.Label) == "" {
			continue
		}
		secret, err := normalizeSecret(e.Secret)
		if err != nil {
			v.log.WarnContext(ctx, "skipping import entry", slog.Int("index", i), logger.Error(err))
			continue
		}
		if _, dup := known[secret]; dup {
			continue
		}
		known[secret] = struct{}{}

		issuer := strings.TrimSpace(e.Issuer)
		if issuer == "" {
			issuer = defaultImportedIssuer
		}

		added = append(added, Account{
			ID:     uuid.New(),
			Secret: secret,
			Issuer: issuer,
			Label:  strings.TrimSpace(e.Label),
			Tags:   normalizeTags(e.Tags),
		})
	}

	if len(added) == 0 {
		return 0, nil
	}

	next := append(cloneAccounts(v.accounts), added...)
	if err := v.persist(ctx, next); err != nil {
		return 0, err
	}

	v.log.InfoContext(ctx, "accounts imported", logger.Count(len(added)))
	return len(added), nil
}

// Reload re-reads the list from storage, picking up changes made by other
// processes sharing the same backend. The write lock is held across the read
// so a concurrent mutation cannot be overwritten by an older list.
func (v *Vault) Reload(ctx context.Context) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	stored, err := v.storage.Load(ctx)
	if err != nil {
		v.log.ErrorContext(ctx, "reload vault", logger.Error(err))
		return errors.Join(ErrStorage, err)
	}
	accounts, err := v.reveal(stored)
	if err != nil {
		return err
	}

	v.accounts = accounts
	return nil
}

// index returns the position of id or -1. Callers hold the lock.
func (v *Vault) index(id uuid.UUID) int {
	return slices.IndexFunc(v.accounts, func(a Account) bool { return a.ID == id })
}

// persist writes next to storage and adopts it on success. Callers hold the
// write lock.
func (v *Vault) persist(ctx context.Context, next []Account) error {
	stored, err := v.seal(next)
	if err != nil {
		return err
	}
	if err := v.storage.Save(ctx, stored); err != nil {
		v.log.ErrorContext(ctx, "save vault", logger.Error(err))
		return errors.Join(ErrStorage, err)
	}
	v.accounts = next
	return nil
}

// seal returns the storage form of accounts, with secrets encrypted when a
// cipher is configured.
func (v *Vault) seal(accounts []Account) ([]Account, error) {
	out := cloneAccounts(accounts)
	if v.cipher == nil {
		return out, nil
	}
	for i := range out {
		enc, err := v.cipher.Encrypt(out[i].Secret)
		if err != nil {
			return nil, errors.Join(ErrEncryptionFailed, err)
		}
		out[i].Secret = enc
	}
	return out, nil
}

// reveal turns stored accounts back into plaintext ones.
func (v *Vault) reveal(stored []Account) ([]Account, error) {
	out := cloneAccounts(stored)
	for i := range out {
		if !IsEncrypted(out[i].Secret) {
			continue
		}
		if v.cipher == nil {
			return nil, ErrCipherRequired
		}
		plain, err := v.cipher.Decrypt(out[i].Secret)
		if err != nil {
			return nil, fmt.Errorf("account %s: %w", out[i].ID, errors.Join(ErrDecryptionFailed, err))
		}
		out[i].Secret = plain
	}
	return out, nil
}
