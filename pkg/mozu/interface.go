package mozu

import "context"

// SegmentResource defines the customer segment operations of the platform API
type SegmentResource interface {
	// GetSegments retrieves a page of segments
	GetSegments(ctx context.Context, opts ListOptions) (*CustomerSegmentCollection, error)

	// GetSegment retrieves a segment by id
	GetSegment(ctx context.Context, segmentID int) (*CustomerSegment, error)

	// AddSegment creates a segment
	AddSegment(ctx context.Context, segment *CustomerSegment) (*CustomerSegment, error)

	// UpdateSegment replaces a segment
	UpdateSegment(ctx context.Context, segment *CustomerSegment, segmentID int) (*CustomerSegment, error)

	// DeleteSegment deletes a segment
	DeleteSegment(ctx context.Context, segmentID int) error

	// AddSegmentAccounts associates accounts with a segment
	AddSegmentAccounts(ctx context.Context, accountIDs []int, segmentID int) error

	// RemoveSegmentAccount disassociates an account from a segment
	RemoveSegmentAccount(ctx context.Context, segmentID, accountID int) error
}

// AccountResource defines the customer account operations of the platform API
type AccountResource interface {
	// AddAccounts creates accounts in bulk
	AddAccounts(ctx context.Context, accounts []CustomerAccountAndAuthInfo) (*CustomerAccountCollection, error)

	// GetAccount retrieves an account by id
	GetAccount(ctx context.Context, accountID int) (*CustomerAccount, error)

	// DeleteAccount deletes an account
	DeleteAccount(ctx context.Context, accountID int) error
}

var (
	_ SegmentResource = (*CustomerSegmentResource)(nil)
	_ AccountResource = (*CustomerAccountResource)(nil)
	_ ClaimProvider   = (*AppAuthenticator)(nil)
	_ ClaimProvider   = StaticClaim("")
)
