package toolkit

import (
	"context"

	"github.com/LatinWarrior/mozu-toolkit/pkg/mozu"
)

type SegmentClient struct {
	resource mozu.SegmentResource
}

func NewSegmentClient(resource mozu.SegmentResource) *SegmentClient {
	return &SegmentClient{resource: resource}
}

// AddSegment creates a segment. The id on the result is the platform's.
func (c *SegmentClient) AddSegment(ctx context.Context, segment *mozu.CustomerSegment) (*mozu.CustomerSegment, error) {
	if segment == nil {
		return nil, invalid("segment is required")
	}
	if err := validateStruct("segment", segment); err != nil {
		return nil, err
	}
	return c.resource.AddSegment(ctx, segment)
}

// GetSegment fails with an error matching mozu.ErrNotFound when the id is unknown.
func (c *SegmentClient) GetSegment(ctx context.Context, segmentID int) (*mozu.CustomerSegment, error) {
	if err := requireID("segmentID", segmentID); err != nil {
		return nil, err
	}
	return c.resource.GetSegment(ctx, segmentID)
}

// GetSegments lists segments using the platform's default paging.
func (c *SegmentClient) GetSegments(ctx context.Context) (*mozu.CustomerSegmentCollection, error) {
	return c.resource.GetSegments(ctx, mozu.ListOptions{})
}

func (c *SegmentClient) ListSegments(ctx context.Context, opts mozu.ListOptions) (*mozu.CustomerSegmentCollection, error) {
	if opts.StartIndex < 0 || opts.PageSize < 0 {
		return nil, invalid("startIndex and pageSize must not be negative")
	}
	return c.resource.GetSegments(ctx, opts)
}

// UpdateSegment replaces the stored segment with the one given. Fields left
// empty are cleared on the platform, so callers send the full entity.
func (c *SegmentClient) UpdateSegment(ctx context.Context, segment *mozu.CustomerSegment, segmentID int) (*mozu.CustomerSegment, error) {
	if segment == nil {
		return nil, invalid("segment is required")
	}
	if err := requireID("segmentID", segmentID); err != nil {
		return nil, err
	}
	return c.resource.UpdateSegment(ctx, segment, segmentID)
}

func (c *SegmentClient) DeleteSegment(ctx context.Context, segmentID int) error {
	if err := requireID("segmentID", segmentID); err != nil {
		return err
	}
	return c.resource.DeleteSegment(ctx, segmentID)
}

// AddSegmentAccounts associates existing accounts with a segment. The segment
// may have no members yet.
func (c *SegmentClient) AddSegmentAccounts(ctx context.Context, accountIDs []int, segmentID int) error {
	if len(accountIDs) == 0 {
		return invalid("accountIDs must not be empty")
	}
	for _, id := range accountIDs {
		if err := requireID("accountID", id); err != nil {
			return err
		}
	}
	if err := requireID("segmentID", segmentID); err != nil {
		return err
	}
	return c.resource.AddSegmentAccounts(ctx, accountIDs, segmentID)
}

func (c *SegmentClient) RemoveSegmentAccount(ctx context.Context, segmentID, accountID int) error {
	if err := requireID("segmentID", segmentID); err != nil {
		return err
	}
	if err := requireID("accountID", accountID); err != nil {
		return err
	}
	return c.resource.RemoveSegmentAccount(ctx, segmentID, accountID)
}
