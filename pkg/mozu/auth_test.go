package mozu_test

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/LatinWarrior/mozu-toolkit/internal/mozutest"
	httpclient "github.com/LatinWarrior/mozu-toolkit/pkg/http"
	"github.com/LatinWarrior/mozu-toolkit/pkg/mozu"
)

func fastTransport(t *testing.T) *httpclient.Client {
	return httpclient.NewClientWithOptions(zaptest.NewLogger(t), httpclient.Options{
		MaxRetries:      httpclient.Retries(1),
		MaxElapsed:      time.Second,
		InitialInterval: time.Millisecond,
		MaxInterval:     time.Millisecond,
	})
}

func newAuthenticator(t *testing.T, srv *mozutest.Server, info mozu.AppAuthInfo, interval mozu.RefreshInterval) *mozu.AppAuthenticator {
	return mozu.NewAppAuthenticatorWithLogger(srv.URL, info, interval, fastTransport(t), zaptest.NewLogger(t))
}

var validInfo = mozu.AppAuthInfo{ApplicationID: mozutest.ApplicationID, SharedSecret: mozutest.SharedSecret}

func TestAppAuthenticator_Authenticate(t *testing.T) {
	srv := mozutest.NewServer()
	defer srv.Close()

	auth := newAuthenticator(t, srv, validInfo, mozu.RefreshInterval{})
	ticket, err := auth.Authenticate(context.Background())
	require.NoError(t, err)
	assert.NotEmpty(t, ticket.AccessToken)
	assert.NotEmpty(t, ticket.RefreshToken)
	assert.False(t, ticket.AccessTokenExpiration.IsZero())

	claim, err := auth.Claim(context.Background())
	require.NoError(t, err)
	assert.Equal(t, ticket.AccessToken, claim)
	assert.Equal(t, 1, srv.AuthCalls())
}

func TestAppAuthenticator_InvalidCredentials(t *testing.T) {
	srv := mozutest.NewServer()
	defer srv.Close()

	auth := newAuthenticator(t, srv, mozu.AppAuthInfo{ApplicationID: "nope", SharedSecret: "bad"}, mozu.RefreshInterval{})
	_, err := auth.Claim(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, mozu.ErrUnauthorized))
}

func TestAppAuthenticator_ClaimIsCached(t *testing.T) {
	srv := mozutest.NewServer()
	defer srv.Close()

	auth := newAuthenticator(t, srv, validInfo, mozu.RefreshInterval{AccessTokenTTL: time.Hour, RefreshTokenTTL: 10 * time.Hour})

	var wg sync.WaitGroup
	claims := make([]string, 10)
	for i := range claims {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			claim, err := auth.Claim(context.Background())
			assert.NoError(t, err)
			claims[i] = claim
		}(i)
	}
	wg.Wait()

	for _, claim := range claims {
		assert.Equal(t, claims[0], claim)
	}
	assert.Equal(t, 1, srv.AuthCalls())
}

func TestAppAuthenticator_RefreshThenReauthenticate(t *testing.T) {
	srv := mozutest.NewServer()
	defer srv.Close()

	clock := time.Now()
	auth := newAuthenticator(t, srv, validInfo, mozu.RefreshInterval{
		AccessTokenTTL:  10 * time.Minute,
		RefreshTokenTTL: 20 * time.Minute,
	})
	auth.SetClock(func() time.Time { return clock })

	first, err := auth.Claim(context.Background())
	require.NoError(t, err)

	// Access token expired, refresh token still good.
	clock = clock.Add(11 * time.Minute)
	second, err := auth.Claim(context.Background())
	require.NoError(t, err)
	assert.NotEqual(t, first, second)
	assert.Equal(t, 1, srv.AuthCalls())
	assert.Equal(t, 1, srv.RefreshCalls())

	// Both expired.
	clock = clock.Add(40 * time.Minute)
	third, err := auth.Claim(context.Background())
	require.NoError(t, err)
	assert.NotEqual(t, second, third)
	assert.Equal(t, 2, srv.AuthCalls())
	assert.Equal(t, 1, srv.RefreshCalls())
}

func TestAppAuthenticator_RefreshFailureFallsBackToAuthenticate(t *testing.T) {
	srv := mozutest.NewServer()
	defer srv.Close()

	clock := time.Now()
	auth := newAuthenticator(t, srv, validInfo, mozu.RefreshInterval{
		AccessTokenTTL:  10 * time.Minute,
		RefreshTokenTTL: time.Hour,
	})
	auth.SetClock(func() time.Time { return clock })

	_, err := auth.Claim(context.Background())
	require.NoError(t, err)

	clock = clock.Add(11 * time.Minute)
	srv.FailNext(http.StatusUnauthorized)

	_, err = auth.Claim(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, srv.AuthCalls())
	assert.Equal(t, 0, srv.RefreshCalls())
}

func TestAppAuthenticator_RetriesTicketOnServerError(t *testing.T) {
	srv := mozutest.NewServer()
	defer srv.Close()

	srv.FailNext(http.StatusServiceUnavailable)
	auth := newAuthenticator(t, srv, validInfo, mozu.RefreshInterval{})
	ticket, err := auth.Authenticate(context.Background())
	require.NoError(t, err)
	assert.NotEmpty(t, ticket.AccessToken)
	assert.Equal(t, 1, srv.AuthCalls())
	assert.Len(t, srv.Requests(), 2)
}

func TestStaticClaim(t *testing.T) {
	claim, err := mozu.StaticClaim("abc").Claim(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "abc", claim)

	_, err = mozu.StaticClaim("").Claim(context.Background())
	require.Error(t, err)
}
