package toolkit_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/LatinWarrior/mozu-toolkit/internal/mozutest"
	"github.com/LatinWarrior/mozu-toolkit/pkg/fixtures"
	httpclient "github.com/LatinWarrior/mozu-toolkit/pkg/http"
	"github.com/LatinWarrior/mozu-toolkit/pkg/mozu"
	"github.com/LatinWarrior/mozu-toolkit/pkg/toolkit"
)

// newClients wires the toolkit against the fake platform the same way the CLI
// wires it against a real tenant.
func newClients(t *testing.T, srv *mozutest.Server) (*toolkit.SegmentClient, *toolkit.AccountClient) {
	logger := zaptest.NewLogger(t)
	transport := httpclient.NewClientWithOptions(logger, httpclient.Options{
		MaxElapsed:      time.Second,
		InitialInterval: time.Millisecond,
		MaxInterval:     time.Millisecond,
	})
	auth := mozu.NewAppAuthenticatorWithLogger(srv.URL,
		mozu.AppAuthInfo{ApplicationID: mozutest.ApplicationID, SharedSecret: mozutest.SharedSecret},
		mozu.RefreshInterval{}, transport, logger)
	client := mozu.NewClientWithLogger(srv.URL, &mozu.APIContext{TenantID: mozutest.TenantID, Claims: auth}, transport, logger)
	return toolkit.NewSegmentClient(mozu.NewCustomerSegmentResource(client)),
		toolkit.NewAccountClient(mozu.NewCustomerAccountResource(client))
}

func TestSegmentClient_AddSegment(t *testing.T) {
	srv := mozutest.NewServer()
	defer srv.Close()
	segments, _ := newClients(t, srv)

	created, err := segments.AddSegment(context.Background(), &mozu.CustomerSegment{
		Code:        "Code_a123456",
		Name:        "Name_a123456",
		Description: "Some description for suffix a123456",
	})
	require.NoError(t, err)
	assert.Greater(t, created.ID, 0)
	assert.Equal(t, "Code_a123456", created.Code)
	assert.Equal(t, "Name_a123456", created.Name)
	assert.Equal(t, "Some description for suffix a123456", created.Description)
}

func TestSegmentClient_UpdateRoundTrip(t *testing.T) {
	srv := mozutest.NewServer()
	defer srv.Close()
	segments, _ := newClients(t, srv)
	ctx := context.Background()

	created, err := segments.AddSegment(ctx, fixtures.NewGenerator(3).Segment())
	require.NoError(t, err)

	fetched, err := segments.GetSegment(ctx, created.ID)
	require.NoError(t, err)
	fetched.Description = "Updated: " + fetched.Description

	updated, err := segments.UpdateSegment(ctx, fetched, fetched.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, fetched.Description, updated.Description)
	assert.Equal(t, created.Code, updated.Code)

	again, err := segments.GetSegment(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, fetched.Description, again.Description)
}

func TestSegmentClient_UpdateReplacesWholeEntity(t *testing.T) {
	srv := mozutest.NewServer()
	defer srv.Close()
	segments, _ := newClients(t, srv)
	ctx := context.Background()

	created, err := segments.AddSegment(ctx, &mozu.CustomerSegment{Code: "C", Name: "N", Description: "D"})
	require.NoError(t, err)

	updated, err := segments.UpdateSegment(ctx, &mozu.CustomerSegment{Code: "C", Name: "N2"}, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "N2", updated.Name)
	assert.Empty(t, updated.Description)
}

func TestSegmentClient_GetSegments(t *testing.T) {
	srv := mozutest.NewServer()
	defer srv.Close()
	segments, _ := newClients(t, srv)
	ctx := context.Background()

	created, err := segments.AddSegment(ctx, fixtures.NewGenerator(4).Segment())
	require.NoError(t, err)

	all, err := segments.GetSegments(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, all.Items)

	var found bool
	for _, s := range all.Items {
		if s.ID == created.ID {
			found = true
		}
	}
	assert.True(t, found)
}

func TestSegmentClient_AddSegmentAccounts(t *testing.T) {
	srv := mozutest.NewServer()
	defer srv.Close()
	segments, accounts := newClients(t, srv)
	ctx := context.Background()
	gen := fixtures.NewGenerator(5)

	segment, err := segments.AddSegment(ctx, gen.Segment())
	require.NoError(t, err)
	created, err := accounts.AddAccounts(ctx, gen.Accounts(1, fixtures.DefaultPassword))
	require.NoError(t, err)
	require.Len(t, created.Items, 1)
	accountID := created.Items[0].ID
	assert.Greater(t, accountID, 0)

	require.NoError(t, segments.AddSegmentAccounts(ctx, []int{accountID}, segment.ID))
	_, members, ok := srv.Segment(segment.ID)
	require.True(t, ok)
	assert.Equal(t, []int{accountID}, members)

	require.NoError(t, segments.RemoveSegmentAccount(ctx, segment.ID, accountID))
	_, members, _ = srv.Segment(segment.ID)
	assert.Empty(t, members)
}

func TestSegmentClient_Delete(t *testing.T) {
	srv := mozutest.NewServer()
	defer srv.Close()
	segments, _ := newClients(t, srv)
	ctx := context.Background()

	created, err := segments.AddSegment(ctx, &mozu.CustomerSegment{Code: "C", Name: "N"})
	require.NoError(t, err)
	require.NoError(t, segments.DeleteSegment(ctx, created.ID))

	_, err = segments.GetSegment(ctx, created.ID)
	assert.True(t, errors.Is(err, mozu.ErrNotFound))
	assert.True(t, errors.Is(segments.DeleteSegment(ctx, created.ID), mozu.ErrNotFound))
}

func TestSegmentClient_GetUnknownSegment(t *testing.T) {
	srv := mozutest.NewServer()
	defer srv.Close()
	segments, _ := newClients(t, srv)

	_, err := segments.GetSegment(context.Background(), 987654)
	require.Error(t, err)
	assert.True(t, errors.Is(err, mozu.ErrNotFound))
	assert.False(t, errors.Is(err, toolkit.ErrInvalidArgument))
}

func TestAccountClient_AddGetDelete(t *testing.T) {
	srv := mozutest.NewServer()
	defer srv.Close()
	_, accounts := newClients(t, srv)
	ctx := context.Background()

	created, err := accounts.AddAccounts(ctx, fixtures.NewGenerator(6).Accounts(3, fixtures.DefaultPassword))
	require.NoError(t, err)
	require.Len(t, created.Items, 3)

	for _, a := range created.Items {
		got, err := accounts.GetAccount(ctx, a.ID)
		require.NoError(t, err)
		assert.Equal(t, a.UserName, got.UserName)
		assert.Equal(t, a.EmailAddress, got.EmailAddress)
		require.NoError(t, accounts.DeleteAccount(ctx, a.ID))
		assert.False(t, srv.HasAccount(a.ID))
	}
}

func TestClients_FailWhenCredentialsRejected(t *testing.T) {
	srv := mozutest.NewServer()
	defer srv.Close()
	logger := zaptest.NewLogger(t)
	transport := httpclient.NewClientWithOptions(logger, httpclient.Options{MaxElapsed: time.Second})
	auth := mozu.NewAppAuthenticatorWithLogger(srv.URL,
		mozu.AppAuthInfo{ApplicationID: mozutest.ApplicationID, SharedSecret: "wrong"},
		mozu.RefreshInterval{}, transport, logger)
	client := mozu.NewClientWithLogger(srv.URL, &mozu.APIContext{TenantID: mozutest.TenantID, Claims: auth}, transport, logger)
	segments := toolkit.NewSegmentClient(mozu.NewCustomerSegmentResource(client))

	_, err := segments.GetSegments(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, mozu.ErrUnauthorized))
}
