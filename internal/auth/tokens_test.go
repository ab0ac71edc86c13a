package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	now time.Time
}

func (f *fakeClock) Now() time.Time { return f.now }

func (f *fakeClock) Advance(d time.Duration) { f.now = f.now.Add(d) }

func newClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
}

func testIssuer(t *testing.T, clock *fakeClock) *Issuer {
	t.Helper()
	issuer, err := NewIssuer(IssuerConfig{
		AccessSecret:  []byte("access-secret"),
		RefreshSecret: []byte("refresh-secret"),
		AccessTTL:     15 * time.Minute,
		RefreshTTL:    7 * 24 * time.Hour,
		Now:           clock.Now,
	})
	require.NoError(t, err)
	return issuer
}

func TestIssueAndParse(t *testing.T) {
	issuer := testIssuer(t, newClock())

	pair, err := issuer.Issue("user-1")
	require.NoError(t, err)
	require.NotEqual(t, pair.AccessToken, pair.RefreshToken)

	uid, err := issuer.ParseAccess(pair.AccessToken)
	require.NoError(t, err)
	require.Equal(t, "user-1", uid)

	uid, err = issuer.ParseRefresh(pair.RefreshToken)
	require.NoError(t, err)
	require.Equal(t, "user-1", uid)
}

func TestCredentialClassesUseDistinctSecrets(t *testing.T) {
	issuer := testIssuer(t, newClock())
	pair, err := issuer.Issue("user-1")
	require.NoError(t, err)

	_, err = issuer.ParseAccess(pair.RefreshToken)
	require.ErrorIs(t, err, ErrInvalidCredential)

	_, err = issuer.ParseRefresh(pair.AccessToken)
	require.ErrorIs(t, err, ErrInvalidCredential)
}

func TestAccessExpiresAfterFifteenMinutes(t *testing.T) {
	clock := newClock()
	issuer := testIssuer(t, clock)
	pair, err := issuer.Issue("user-1")
	require.NoError(t, err)

	clock.Advance(14 * time.Minute)
	_, err = issuer.ParseAccess(pair.AccessToken)
	require.NoError(t, err)

	clock.Advance(2 * time.Minute)
	_, err = issuer.ParseAccess(pair.AccessToken)
	require.ErrorIs(t, err, ErrInvalidCredential)
	require.True(t, IsExpired(err))

	_, err = issuer.ParseRefresh(pair.RefreshToken)
	require.NoError(t, err)

	clock.Advance(7 * 24 * time.Hour)
	_, err = issuer.ParseRefresh(pair.RefreshToken)
	require.True(t, IsExpired(err))
}

func TestTokensAreUniquePerIssue(t *testing.T) {
	issuer := testIssuer(t, newClock())
	first, err := issuer.Issue("user-1")
	require.NoError(t, err)
	second, err := issuer.Issue("user-1")
	require.NoError(t, err)
	require.NotEqual(t, first.RefreshToken, second.RefreshToken)
}

func TestParseRejectsGarbage(t *testing.T) {
	issuer := testIssuer(t, newClock())
	_, err := issuer.ParseAccess("not.a.token")
	require.True(t, errors.Is(err, ErrInvalidCredential))
	require.False(t, IsExpired(err))
}

func TestNewIssuerValidation(t *testing.T) {
	_, err := NewIssuer(IssuerConfig{AccessSecret: []byte("x"), RefreshSecret: []byte("x"), AccessTTL: time.Minute, RefreshTTL: time.Hour})
	require.Error(t, err)

	_, err = NewIssuer(IssuerConfig{AccessSecret: []byte("x"), RefreshSecret: []byte("y")})
	require.Error(t, err)
}
