package mozu

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"go.uber.org/zap"
)

const segmentsPath = "/api/commerce/customer/segments/"

// CustomerSegmentResource maps the customer segment endpoints
type CustomerSegmentResource struct {
	client *Client
}

func NewCustomerSegmentResource(client *Client) *CustomerSegmentResource {
	return &CustomerSegmentResource{client: client}
}

func segmentPath(segmentID int) string {
	return fmt.Sprintf("%s%d", segmentsPath, segmentID)
}

// GetSegments retrieves a page of segments visible to the API context
func (r *CustomerSegmentResource) GetSegments(ctx context.Context, opts ListOptions) (*CustomerSegmentCollection, error) {
	logger := r.client.logger
	logger.Info("Getting customer segments",
		zap.Int("start_index", opts.StartIndex),
		zap.Int("page_size", opts.PageSize))

	query := map[string]string{
		"sortBy": opts.SortBy,
		"filter": opts.Filter,
	}
	if opts.StartIndex > 0 {
		query["startIndex"] = strconv.Itoa(opts.StartIndex)
	}
	if opts.PageSize > 0 {
		query["pageSize"] = strconv.Itoa(opts.PageSize)
	}

	var collection CustomerSegmentCollection
	if err := r.client.call(ctx, http.MethodGet, segmentsPath, query, nil, &collection); err != nil {
		logger.Error("Get customer segments failed", zap.Error(err))
		return nil, fmt.Errorf("get customer segments: %w", err)
	}

	logger.Info("Successfully retrieved customer segments",
		zap.Int("total_count", collection.TotalCount),
		zap.Int("items_count", len(collection.Items)))
	return &collection, nil
}

// GetSegment retrieves a single segment by id
func (r *CustomerSegmentResource) GetSegment(ctx context.Context, segmentID int) (*CustomerSegment, error) {
	logger := r.client.logger
	logger.Info("Getting customer segment", zap.Int("segment_id", segmentID))

	var segment CustomerSegment
	if err := r.client.call(ctx, http.MethodGet, segmentPath(segmentID), nil, nil, &segment); err != nil {
		logger.Error("Get customer segment failed", zap.Int("segment_id", segmentID), zap.Error(err))
		return nil, fmt.Errorf("get customer segment %d: %w", segmentID, err)
	}

	logger.Info("Successfully retrieved customer segment", zap.Int("segment_id", segment.ID))
	return &segment, nil
}

// AddSegment creates a segment; the returned entity carries the platform-assigned id
func (r *CustomerSegmentResource) AddSegment(ctx context.Context, segment *CustomerSegment) (*CustomerSegment, error) {
	logger := r.client.logger
	logger.Info("Adding customer segment", zap.String("code", segment.Code))

	var created CustomerSegment
	if err := r.client.call(ctx, http.MethodPost, segmentsPath, nil, segment, &created); err != nil {
		logger.Error("Add customer segment failed", zap.String("code", segment.Code), zap.Error(err))
		return nil, fmt.Errorf("add customer segment %s: %w", segment.Code, err)
	}

	logger.Info("Successfully added customer segment",
		zap.Int("segment_id", created.ID),
		zap.String("code", created.Code))
	return &created, nil
}

// UpdateSegment replaces the segment stored under segmentID
func (r *CustomerSegmentResource) UpdateSegment(ctx context.Context, segment *CustomerSegment, segmentID int) (*CustomerSegment, error) {
	logger := r.client.logger
	logger.Info("Updating customer segment", zap.Int("segment_id", segmentID))

	var updated CustomerSegment
	if err := r.client.call(ctx, http.MethodPut, segmentPath(segmentID), nil, segment, &updated); err != nil {
		logger.Error("Update customer segment failed", zap.Int("segment_id", segmentID), zap.Error(err))
		return nil, fmt.Errorf("update customer segment %d: %w", segmentID, err)
	}

	logger.Info("Successfully updated customer segment", zap.Int("segment_id", updated.ID))
	return &updated, nil
}

// DeleteSegment deletes a segment
func (r *CustomerSegmentResource) DeleteSegment(ctx context.Context, segmentID int) error {
	logger := r.client.logger
	logger.Info("Deleting customer segment", zap.Int("segment_id", segmentID))

	if err := r.client.call(ctx, http.MethodDelete, segmentPath(segmentID), nil, nil, nil); err != nil {
		logger.Error("Delete customer segment failed", zap.Int("segment_id", segmentID), zap.Error(err))
		return fmt.Errorf("delete customer segment %d: %w", segmentID, err)
	}

	logger.Info("Successfully deleted customer segment", zap.Int("segment_id", segmentID))
	return nil
}

// AddSegmentAccounts associates existing accounts with a segment
func (r *CustomerSegmentResource) AddSegmentAccounts(ctx context.Context, accountIDs []int, segmentID int) error {
	logger := r.client.logger
	logger.Info("Adding accounts to customer segment",
		zap.Int("segment_id", segmentID),
		zap.Ints("account_ids", accountIDs))

	path := segmentPath(segmentID) + "/accounts"
	if err := r.client.call(ctx, http.MethodPost, path, nil, accountIDs, nil); err != nil {
		logger.Error("Add segment accounts failed", zap.Int("segment_id", segmentID), zap.Error(err))
		return fmt.Errorf("add accounts to customer segment %d: %w", segmentID, err)
	}

	logger.Info("Successfully added accounts to customer segment",
		zap.Int("segment_id", segmentID),
		zap.Int("account_count", len(accountIDs)))
	return nil
}

// RemoveSegmentAccount disassociates one account from a segment
func (r *CustomerSegmentResource) RemoveSegmentAccount(ctx context.Context, segmentID, accountID int) error {
	logger := r.client.logger
	logger.Info("Removing account from customer segment",
		zap.Int("segment_id", segmentID),
		zap.Int("account_id", accountID))

	path := fmt.Sprintf("%s/accounts/%d", segmentPath(segmentID), accountID)
	if err := r.client.call(ctx, http.MethodDelete, path, nil, nil, nil); err != nil {
		logger.Error("Remove segment account failed",
			zap.Int("segment_id", segmentID),
			zap.Int("account_id", accountID),
			zap.Error(err))
		return fmt.Errorf("remove account %d from customer segment %d: %w", accountID, segmentID, err)
	}

	logger.Info("Successfully removed account from customer segment",
		zap.Int("segment_id", segmentID),
		zap.Int("account_id", accountID))
	return nil
}
