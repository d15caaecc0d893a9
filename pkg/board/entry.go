package board

import (
	"context"
	"runtime"
	"time"

	"github.com/dmitrymomot/authenticator/pkg/async"
	"github.com/dmitrymomot/authenticator/pkg/totp"
	"github.com/dmitrymomot/authenticator/pkg/vault"
)

const (
	// Placeholder is shown instead of a code when none could be generated.
	Placeholder = "--- ---"

	// ExpiringThreshold is the number of seconds left below which an entry
	// is flagged as expiring.
	ExpiringThreshold = 5
)

// Entry is one row of the board at a given instant.
type Entry struct {
	Account   vault.Account
	Code      string
	Remaining int
	Period    int
	Progress  float64 // Remaining/Period, 1 right after rotation
	Expiring  bool
	Err       error
}

// Display returns the code split into two groups ("123 456"), or
// Placeholder when the entry has no code.
func (e Entry) Display() string {
	if e.Err != nil || e.Code == "" {
		return Placeholder
	}
	return Group(e.Code)
}

// Group splits a code into two halves separated by a space.
func Group(code string) string {
	if len(code) < 2 {
		return code
	}
	half := len(code) / 2
	return code[:half] + " " + code[half:]
}

// NewEntry computes the entry for a single account. A secret that cannot be
// decoded yields an entry with Err set; the countdown is still filled in so
// the row keeps ticking with the others.
func NewEntry(account vault.Account, now time.Time) Entry {
	code, err := totp.GenerateCode(account.Secret, now.Unix())
	if err != nil {
		return failedEntry(account, now, err)
	}
	return withCountdown(Entry{Account: account, Code: code.Value}, code.Remaining, code.Period)
}

// failedEntry is the row for an account without a code. It counts down on
// the default period.
func failedEntry(account vault.Account, now time.Time, err error) Entry {
	e := Entry{Account: account, Err: err}
	return withCountdown(e, totp.Remaining(now.Unix(), totp.DefaultPeriod), totp.DefaultPeriod)
}

func withCountdown(e Entry, remaining, period int) Entry {
	e.Remaining = remaining
	e.Period = period
	e.Progress = float64(remaining) / float64(period)
	e.Expiring = remaining < ExpiringThreshold
	return e
}

// Snapshot computes the entries of all accounts at now, concurrently and in
// input order. A failure for one account never affects the others.
func Snapshot(ctx context.Context, accounts []vault.Account, now time.Time) []Entry {
	results := async.Map(ctx, accounts, runtime.GOMAXPROCS(0), func(_ context.Context, a vault.Account) (Entry, error) {
		return NewEntry(a, now), nil
	})

	entries := make([]Entry, len(results))
	for i, r := range results {
		if r.Err != nil {
			entries[i] = failedEntry(accounts[i], now, r.Err)
			continue
		}
		entries[i] = r.Value
	}
	return entries
}
