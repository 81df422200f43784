// Package mozu provides a client for the Mozu commerce platform REST API.
//
// The platform is multi-tenant: every call is scoped to a tenant (and usually a
// site and catalog) and carries an application claim obtained by exchanging an
// application id and shared secret for an auth ticket. APIContext bundles that
// scoping, AppAuthenticator keeps the claim fresh, and the resource types
// (CustomerSegmentResource, CustomerAccountResource) map the customer REST
// endpoints onto typed Go methods.
package mozu

import (
	"context"
	"encoding/json"
	"fmt"

	httpclient "github.com/LatinWarrior/mozu-toolkit/pkg/http"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	// ErrNotFound matches errors for entities the platform does not know.
	ErrNotFound = httpclient.ErrNotFound
	// ErrUnauthorized matches errors caused by a rejected or missing claim.
	ErrUnauthorized = httpclient.ErrUnauthorized
)

// Client binds an APIContext to a tenant host
type Client struct {
	baseURI    string
	apiContext *APIContext
	httpClient *httpclient.Client
	logger     *zap.Logger
}

// NewClient creates a new platform client with default production logger
func NewClient(baseURI string, apiContext *APIContext) *Client {
	logger, _ := zap.NewProduction()
	return NewClientWithLogger(baseURI, apiContext, httpclient.NewClientWithLogger(logger), logger)
}

// NewClientWithLogger creates a new platform client with a custom transport and logger
func NewClientWithLogger(baseURI string, apiContext *APIContext, httpClient *httpclient.Client, logger *zap.Logger) *Client {
	return &Client{
		baseURI:    baseURI,
		apiContext: apiContext,
		httpClient: httpClient,
		logger:     logger,
	}
}

// Context returns the APIContext every request is scoped to
func (c *Client) Context() *APIContext {
	return c.apiContext
}

// call sends one request and decodes the JSON response into out when out is non-nil.
func (c *Client) call(ctx context.Context, method, path string, query map[string]string, body, out interface{}) error {
	headers, err := c.apiContext.Headers(ctx)
	if err != nil {
		c.logger.Error("Failed to build request headers", zap.Error(err))
		return err
	}
	correlationID := uuid.NewString()
	headers[headerCorrelation] = correlationID

	endpoint, err := httpclient.BuildURL(c.baseURI, path, query)
	if err != nil {
		c.logger.Error("Failed to build URL", zap.Error(err))
		return fmt.Errorf("failed to build URL: %w", err)
	}

	c.logger.Debug("Making platform request",
		zap.String("method", method),
		zap.String("endpoint", endpoint),
		zap.String("correlation_id", correlationID))

	resp, err := c.httpClient.Do(httpclient.RequestOptions{
		Method:  method,
		URL:     endpoint,
		Headers: headers,
		Body:    body,
		Context: ctx,
	})
	if err != nil {
		return err
	}

	if out == nil || len(resp.Body) == 0 {
		return nil
	}
	if err := json.Unmarshal(resp.Body, out); err != nil {
		c.logger.Error("Failed to parse response",
			zap.String("endpoint", endpoint),
			zap.Error(err))
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}
