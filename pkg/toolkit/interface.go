// Package toolkit wraps the platform customer resources with call shapes that
// only check their inputs for presence and otherwise forward unchanged.
// Failures from the platform are returned exactly as the resource produced them.
package toolkit

import (
	"context"

	"github.com/LatinWarrior/mozu-toolkit/pkg/mozu"
)

// AccountHandler creates and looks up customer accounts
type AccountHandler interface {
	AddAccounts(ctx context.Context, accounts []mozu.CustomerAccountAndAuthInfo) (*mozu.CustomerAccountCollection, error)
	GetAccount(ctx context.Context, accountID int) (*mozu.CustomerAccount, error)
	DeleteAccount(ctx context.Context, accountID int) error
}

// SegmentHandler manages customer segments and their members
type SegmentHandler interface {
	AddSegment(ctx context.Context, segment *mozu.CustomerSegment) (*mozu.CustomerSegment, error)
	GetSegment(ctx context.Context, segmentID int) (*mozu.CustomerSegment, error)
	GetSegments(ctx context.Context) (*mozu.CustomerSegmentCollection, error)
	ListSegments(ctx context.Context, opts mozu.ListOptions) (*mozu.CustomerSegmentCollection, error)
	UpdateSegment(ctx context.Context, segment *mozu.CustomerSegment, segmentID int) (*mozu.CustomerSegment, error)
	DeleteSegment(ctx context.Context, segmentID int) error
	AddSegmentAccounts(ctx context.Context, accountIDs []int, segmentID int) error
	RemoveSegmentAccount(ctx context.Context, segmentID, accountID int) error
}

var (
	_ AccountHandler = (*AccountClient)(nil)
	_ SegmentHandler = (*SegmentClient)(nil)
)
