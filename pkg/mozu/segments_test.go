package mozu_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/LatinWarrior/mozu-toolkit/internal/mozutest"
	"github.com/LatinWarrior/mozu-toolkit/pkg/mozu"
)

func newPlatformClient(t *testing.T, srv *mozutest.Server) *mozu.Client {
	apiContext := &mozu.APIContext{
		TenantID:        mozutest.TenantID,
		SiteID:          5678,
		CatalogID:       1,
		MasterCatalogID: 2,
		Claims:          mozu.StaticClaim(srv.IssueToken()),
	}
	return mozu.NewClientWithLogger(srv.URL, apiContext, fastTransport(t), zaptest.NewLogger(t))
}

func TestSegmentResource_CRUD(t *testing.T) {
	srv := mozutest.NewServer()
	defer srv.Close()
	segments := mozu.NewCustomerSegmentResource(newPlatformClient(t, srv))
	ctx := context.Background()

	created, err := segments.AddSegment(ctx, &mozu.CustomerSegment{Code: "Code_a123456", Name: "Name_a123456", Description: "first"})
	require.NoError(t, err)
	assert.Greater(t, created.ID, 0)
	assert.Equal(t, "Code_a123456", created.Code)
	assert.Equal(t, "Name_a123456", created.Name)
	require.NotNil(t, created.AuditInfo)
	assert.False(t, created.AuditInfo.CreateDate.IsZero())

	fetched, err := segments.GetSegment(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, fetched.ID)
	assert.Equal(t, "first", fetched.Description)

	fetched.Description = "second"
	updated, err := segments.UpdateSegment(ctx, fetched, fetched.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, "second", updated.Description)

	list, err := segments.GetSegments(ctx, mozu.ListOptions{})
	require.NoError(t, err)
	assert.Equal(t, 1, list.TotalCount)
	require.Len(t, list.Items, 1)
	assert.Equal(t, created.ID, list.Items[0].ID)

	require.NoError(t, segments.DeleteSegment(ctx, created.ID))

	_, err = segments.GetSegment(ctx, created.ID)
	require.Error(t, err)
	assert.True(t, errors.Is(err, mozu.ErrNotFound))
}

func TestSegmentResource_GetSegmentsPaging(t *testing.T) {
	srv := mozutest.NewServer()
	defer srv.Close()
	segments := mozu.NewCustomerSegmentResource(newPlatformClient(t, srv))
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, err := segments.AddSegment(ctx, &mozu.CustomerSegment{Code: "C" + strconv.Itoa(i), Name: "N"})
		require.NoError(t, err)
	}

	page, err := segments.GetSegments(ctx, mozu.ListOptions{StartIndex: 2, PageSize: 2, SortBy: "id asc"})
	require.NoError(t, err)
	assert.Equal(t, 5, page.TotalCount)
	assert.Equal(t, 3, page.PageCount)
	require.Len(t, page.Items, 2)
	assert.Equal(t, "C2", page.Items[0].Code)

	requests := srv.Requests()
	last := requests[len(requests)-1]
	assert.Equal(t, http.MethodGet, last.Method)
	assert.Equal(t, "/api/commerce/customer/segments/", last.Path)
}

func TestSegmentResource_Accounts(t *testing.T) {
	srv := mozutest.NewServer()
	defer srv.Close()
	client := newPlatformClient(t, srv)
	segments := mozu.NewCustomerSegmentResource(client)
	accounts := mozu.NewCustomerAccountResource(client)
	ctx := context.Background()

	seg, err := segments.AddSegment(ctx, &mozu.CustomerSegment{Code: "VIP", Name: "VIP"})
	require.NoError(t, err)

	created, err := accounts.AddAccounts(ctx, []mozu.CustomerAccountAndAuthInfo{
		{Account: &mozu.CustomerAccount{UserName: "ann_1", EmailAddress: "ann@example.com"}, Password: "p@$$w0rd1"},
		{Account: &mozu.CustomerAccount{UserName: "bob_2", EmailAddress: "bob@example.com"}, Password: "p@$$w0rd1"},
	})
	require.NoError(t, err)
	require.Len(t, created.Items, 2)

	ids := []int{created.Items[0].ID, created.Items[1].ID}
	require.NoError(t, segments.AddSegmentAccounts(ctx, ids, seg.ID))

	requests := srv.Requests()
	last := requests[len(requests)-1]
	var sent []int
	require.NoError(t, json.Unmarshal(last.Body, &sent))
	assert.Equal(t, ids, sent)

	_, members, ok := srv.Segment(seg.ID)
	require.True(t, ok)
	assert.Equal(t, ids, members)

	require.NoError(t, segments.RemoveSegmentAccount(ctx, seg.ID, ids[0]))
	_, members, _ = srv.Segment(seg.ID)
	assert.Equal(t, []int{ids[1]}, members)

	err = segments.RemoveSegmentAccount(ctx, seg.ID, ids[0])
	require.Error(t, err)
	assert.True(t, errors.Is(err, mozu.ErrNotFound))
}

func TestSegmentResource_AddSegmentConflict(t *testing.T) {
	srv := mozutest.NewServer()
	defer srv.Close()
	segments := mozu.NewCustomerSegmentResource(newPlatformClient(t, srv))
	ctx := context.Background()

	_, err := segments.AddSegment(ctx, &mozu.CustomerSegment{Code: "DUP", Name: "one"})
	require.NoError(t, err)

	_, err = segments.AddSegment(ctx, &mozu.CustomerSegment{Code: "DUP", Name: "two"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 409")
}

func TestClient_SendsScopingHeaders(t *testing.T) {
	srv := mozutest.NewServer()
	defer srv.Close()
	segments := mozu.NewCustomerSegmentResource(newPlatformClient(t, srv))

	_, err := segments.GetSegments(context.Background(), mozu.ListOptions{})
	require.NoError(t, err)
	_, err = segments.GetSegments(context.Background(), mozu.ListOptions{})
	require.NoError(t, err)

	requests := srv.Requests()
	require.Len(t, requests, 2)
	h := requests[0].Header
	assert.Equal(t, "1234", h.Get("x-vol-tenant"))
	assert.Equal(t, "5678", h.Get("x-vol-site"))
	assert.Equal(t, "1", h.Get("x-vol-catalog"))
	assert.Equal(t, "2", h.Get("x-vol-master-catalog"))
	assert.NotEmpty(t, h.Get("x-vol-app-claims"))
	assert.NotEmpty(t, h.Get("x-vol-correlation"))
	assert.NotEqual(t, h.Get("x-vol-correlation"), requests[1].Header.Get("x-vol-correlation"))
}

func TestClient_WithAuthenticator(t *testing.T) {
	srv := mozutest.NewServer()
	defer srv.Close()

	auth := newAuthenticator(t, srv, validInfo, mozu.RefreshInterval{})
	apiContext := &mozu.APIContext{TenantID: mozutest.TenantID, Claims: auth}
	client := mozu.NewClientWithLogger(srv.URL, apiContext, fastTransport(t), zaptest.NewLogger(t))

	_, err := mozu.NewCustomerSegmentResource(client).GetSegments(context.Background(), mozu.ListOptions{})
	require.NoError(t, err)
	assert.Equal(t, 1, srv.AuthCalls())
	assert.Same(t, apiContext, client.Context())
}

func TestClient_RejectedClaim(t *testing.T) {
	srv := mozutest.NewServer()
	defer srv.Close()
	segments := mozu.NewCustomerSegmentResource(newPlatformClient(t, srv))
	srv.RevokeTokens()

	_, err := segments.GetSegment(context.Background(), 1)
	require.Error(t, err)
	assert.True(t, errors.Is(err, mozu.ErrUnauthorized))
}

func TestClient_MissingClaimProvider(t *testing.T) {
	srv := mozutest.NewServer()
	defer srv.Close()

	client := mozu.NewClientWithLogger(srv.URL, &mozu.APIContext{TenantID: mozutest.TenantID}, fastTransport(t), zaptest.NewLogger(t))
	_, err := mozu.NewCustomerSegmentResource(client).GetSegment(context.Background(), 1)
	require.Error(t, err)
	assert.Empty(t, srv.Requests())
}
