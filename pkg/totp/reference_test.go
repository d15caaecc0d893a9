package totp_test

import (
	"testing"
	"time"

	"github.com/pquerna/otp"
	reftotp "github.com/pquerna/otp/totp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/authenticator/pkg/totp"
)

// Cross-checks against github.com/pquerna/otp as an independent implementation.
func TestGenerateCode_MatchesReference(t *testing.T) {
	t.Parallel()

	secrets := []string{
		"JBSWY3DPEHPK3PXP",
		"GEZDGNBVGY3TQOJQGEZDGNBVGY3TQOJQ",
		"MZXW6YTBOI",
	}
	generated, err := totp.GenerateSecretKey()
	require.NoError(t, err)
	secrets = append(secrets, generated)

	opts := reftotp.ValidateOpts{
		Period:    30,
		Digits:    otp.DigitsSix,
		Algorithm: otp.AlgorithmSHA1,
	}

	for _, secret := range secrets {
		for ts := int64(1700000000); ts < 1700000000+50*30; ts += 13 {
			want, err := reftotp.GenerateCodeCustom(secret, time.Unix(ts, 0).UTC(), opts)
			require.NoError(t, err)

			got, err := totp.GenerateCode(secret, ts)
			require.NoError(t, err)
			assert.Equal(t, want, got.Value, "secret=%s t=%d", secret, ts)
		}
	}
}

func TestGenerateCode_ReferenceFixture(t *testing.T) {
	t.Parallel()

	want, err := reftotp.GenerateCodeCustom("JBSWY3DPEHPK3PXP", time.Unix(1700000000, 0).UTC(), reftotp.ValidateOpts{
		Period:    30,
		Digits:    otp.DigitsSix,
		Algorithm: otp.AlgorithmSHA1,
	})
	require.NoError(t, err)
	assert.Equal(t, "324550", want)
}
