package mozu

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	httpclient "github.com/LatinWarrior/mozu-toolkit/pkg/http"
	"go.uber.org/zap"
)

const (
	authTicketsPath   = "/api/platform/applications/authtickets/"
	refreshTicketPath = "/api/platform/applications/authtickets/refresh-ticket"

	// renewalSkew is how long before expiry a token stops being handed out.
	renewalSkew = 30 * time.Second
)

// RefreshInterval caps how long issued tokens are trusted, regardless of the
// expiration the platform reports.
type RefreshInterval struct {
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
}

// AppAuthenticator exchanges application credentials for a bearer claim and
// renews it when it expires. It is safe for concurrent use.
type AppAuthenticator struct {
	authBaseURI string
	info        AppAuthInfo
	interval    RefreshInterval
	httpClient  *httpclient.Client
	logger      *zap.Logger
	now         func() time.Time

	mu               sync.RWMutex
	ticket           *AuthTicket
	accessExpiresAt  time.Time
	refreshExpiresAt time.Time
}

// NewAppAuthenticator creates an authenticator with default production logger
func NewAppAuthenticator(authBaseURI string, info AppAuthInfo, interval RefreshInterval) *AppAuthenticator {
	logger, _ := zap.NewProduction()
	return NewAppAuthenticatorWithLogger(authBaseURI, info, interval, httpclient.NewClientWithLogger(logger), logger)
}

// NewAppAuthenticatorWithLogger creates an authenticator with a custom transport and logger
func NewAppAuthenticatorWithLogger(authBaseURI string, info AppAuthInfo, interval RefreshInterval, httpClient *httpclient.Client, logger *zap.Logger) *AppAuthenticator {
	return &AppAuthenticator{
		authBaseURI: authBaseURI,
		info:        info,
		interval:    interval,
		httpClient:  httpClient,
		logger:      logger,
		now:         time.Now,
	}
}

// Claim returns a valid access token, refreshing or re-authenticating when the
// cached one has expired.
func (a *AppAuthenticator) Claim(ctx context.Context) (string, error) {
	a.mu.RLock()
	if a.ticket != nil && a.now().Before(a.accessExpiresAt) {
		token := a.ticket.AccessToken
		remaining := a.accessExpiresAt.Sub(a.now())
		a.mu.RUnlock()
		a.logger.Debug("Using cached app claim", zap.Duration("remaining", remaining))
		return token, nil
	}
	a.mu.RUnlock()

	a.mu.Lock()
	defer a.mu.Unlock()

	// Another caller may have renewed while we waited for the lock.
	if a.ticket != nil && a.now().Before(a.accessExpiresAt) {
		return a.ticket.AccessToken, nil
	}

	if a.ticket != nil && a.now().Before(a.refreshExpiresAt) {
		a.logger.Info("App claim expired, refreshing auth ticket")
		ticket, err := a.requestRefresh(ctx, a.ticket.RefreshToken)
		if err == nil {
			a.storeLocked(ticket)
			return ticket.AccessToken, nil
		}
		a.logger.Warn("Failed to refresh auth ticket, re-authenticating", zap.Error(err))
	} else {
		a.logger.Info("App claim expired or not available, authenticating")
	}

	ticket, err := a.requestTicket(ctx)
	if err != nil {
		a.logger.Error("Failed to authenticate", zap.Error(err))
		return "", fmt.Errorf("failed to authenticate: %w", err)
	}
	a.storeLocked(ticket)
	return ticket.AccessToken, nil
}

// Authenticate requests a fresh auth ticket and caches it
func (a *AppAuthenticator) Authenticate(ctx context.Context) (*AuthTicket, error) {
	ticket, err := a.requestTicket(ctx)
	if err != nil {
		return nil, err
	}

	a.mu.Lock()
	a.storeLocked(ticket)
	a.mu.Unlock()

	return ticket, nil
}

func (a *AppAuthenticator) requestTicket(ctx context.Context) (*AuthTicket, error) {
	url, err := httpclient.BuildURL(a.authBaseURI, authTicketsPath, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build URL: %w", err)
	}
	a.logger.Info("Authenticating application",
		zap.String("url", url),
		zap.String("application_id", a.info.ApplicationID))

	// Issuing a ticket has no side effects, so it may be resent after a 5xx.
	resp, err := a.httpClient.Do(httpclient.RequestOptions{
		Method:     http.MethodPost,
		URL:        url,
		Body:       a.info,
		Context:    ctx,
		Idempotent: true,
	})
	if err != nil {
		a.logger.Error("Authentication request failed", zap.Error(err), zap.String("url", url))
		return nil, fmt.Errorf("authentication request failed: %w", err)
	}

	return a.parseTicket(resp)
}

func (a *AppAuthenticator) requestRefresh(ctx context.Context, refreshToken string) (*AuthTicket, error) {
	url, err := httpclient.BuildURL(a.authBaseURI, refreshTicketPath, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build URL: %w", err)
	}

	resp, err := a.httpClient.Put(ctx, url, nil, RefreshTicketRequest{RefreshToken: refreshToken})
	if err != nil {
		return nil, fmt.Errorf("refresh ticket request failed: %w", err)
	}

	return a.parseTicket(resp)
}

func (a *AppAuthenticator) parseTicket(resp *httpclient.Response) (*AuthTicket, error) {
	var ticket AuthTicket
	if err := json.Unmarshal(resp.Body, &ticket); err != nil {
		a.logger.Error("Failed to parse auth ticket", zap.Error(err))
		return nil, fmt.Errorf("failed to parse auth ticket: %w", err)
	}
	if ticket.AccessToken == "" {
		return nil, fmt.Errorf("auth ticket has no access token")
	}
	return &ticket, nil
}

func (a *AppAuthenticator) storeLocked(ticket *AuthTicket) {
	issuedAt := a.now()
	a.ticket = ticket
	a.accessExpiresAt = expiry(issuedAt, ticket.AccessTokenExpiration.Time, a.interval.AccessTokenTTL)
	a.refreshExpiresAt = expiry(issuedAt, ticket.RefreshTokenExpiration.Time, a.interval.RefreshTokenTTL)

	a.logger.Info("Cached auth ticket",
		zap.Time("access_expires_at", a.accessExpiresAt),
		zap.Time("refresh_expires_at", a.refreshExpiresAt))
}

// expiry picks the earlier of the server expiration and issuedAt+ttl, then
// pulls it forward by renewalSkew (or half the lifetime for short-lived tokens).
func expiry(issuedAt, serverExp time.Time, ttl time.Duration) time.Time {
	exp := serverExp
	if ttl > 0 {
		local := issuedAt.Add(ttl)
		if exp.IsZero() || local.Before(exp) {
			exp = local
		}
	}
	if exp.IsZero() {
		return issuedAt
	}

	skew := renewalSkew
	if lifetime := exp.Sub(issuedAt); lifetime < 2*skew {
		skew = lifetime / 2
	}
	return exp.Add(-skew)
}
