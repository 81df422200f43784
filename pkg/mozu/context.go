package mozu

import (
	"context"
	"fmt"
	"strconv"
)

const (
	headerTenant        = "x-vol-tenant"
	headerSite          = "x-vol-site"
	headerCatalog       = "x-vol-catalog"
	headerMasterCatalog = "x-vol-master-catalog"
	headerAppClaims     = "x-vol-app-claims"
	headerCorrelation   = "x-vol-correlation"
)

// ClaimProvider supplies the current application bearer claim
type ClaimProvider interface {
	Claim(ctx context.Context) (string, error)
}

// StaticClaim is a ClaimProvider for a claim managed outside this process.
type StaticClaim string

func (s StaticClaim) Claim(context.Context) (string, error) {
	if s == "" {
		return "", fmt.Errorf("static claim is empty")
	}
	return string(s), nil
}

// APIContext scopes every platform call to a tenant, site and catalog.
// Zero-valued site and catalog ids are omitted from the request headers.
type APIContext struct {
	TenantID        int
	SiteID          int
	CatalogID       int
	MasterCatalogID int
	Claims          ClaimProvider
}

// Headers returns the scoping and authentication headers for a single request
func (a *APIContext) Headers(ctx context.Context) (map[string]string, error) {
	if a.Claims == nil {
		return nil, fmt.Errorf("api context has no claim provider")
	}
	claim, err := a.Claims.Claim(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get app claim: %w", err)
	}

	headers := map[string]string{
		headerTenant:    strconv.Itoa(a.TenantID),
		headerAppClaims: claim,
	}
	if a.SiteID > 0 {
		headers[headerSite] = strconv.Itoa(a.SiteID)
	}
	if a.CatalogID > 0 {
		headers[headerCatalog] = strconv.Itoa(a.CatalogID)
	}
	if a.MasterCatalogID > 0 {
		headers[headerMasterCatalog] = strconv.Itoa(a.MasterCatalogID)
	}
	return headers, nil
}
