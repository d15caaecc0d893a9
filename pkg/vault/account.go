package vault

import (
	"errors"
	"slices"
	"strings"

	"github.com/google/uuid"

	"github.com/dmitrymomot/authenticator/pkg/base32"
)

const (
	defaultLabel          = "2FA"
	defaultIssuer         = "Account"
	defaultImportedIssuer = "Imported"
)

// Account is one entry in the vault. Codes are never stored; they are derived
// from Secret on every tick.
type Account struct {
	ID     uuid.UUID `json:"id" yaml:"id"`
	Secret string    `json:"secret" yaml:"secret"` // canonical Base32, see base32.Normalize
	Issuer string    `json:"issuer" yaml:"issuer"`
	Label  string    `json:"label" yaml:"label"`
	Tags   []string  `json:"tags" yaml:"tags"`
}

// HasTag reports whether the account carries tag.
func (a Account) HasTag(tag string) bool {
	return slices.Contains(a.Tags, tag)
}

func (a Account) clone() Account {
	a.Tags = slices.Clone(a.Tags)
	if a.Tags == nil {
		a.Tags = []string{}
	}
	return a
}

// normalizeSecret validates a user-entered secret and returns its canonical form.
func normalizeSecret(secret string) (string, error) {
	key, err := base32.Decode(secret)
	if err != nil {
		return "", errors.Join(ErrInvalidSecret, err)
	}
	if len(key) == 0 {
		return "", errors.Join(ErrInvalidSecret, base32.ErrEmptyInput)
	}
	return base32.Normalize(secret), nil
}

// normalizeTags trims tags, drops empty ones and removes duplicates while
// keeping first-seen order.
func normalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t == "" || slices.Contains(out, t) {
			continue
		}
		out = append(out, t)
	}
	return out
}
