package fixtures

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/sourcegraph/conc/pool"
	"go.uber.org/zap"

	"github.com/LatinWarrior/mozu-toolkit/pkg/mozu"
	"github.com/LatinWarrior/mozu-toolkit/pkg/toolkit"
)

type CleanupResult struct {
	Removed     int
	AlreadyGone int
	Failed      int
	mu          sync.Mutex
}

func (r *CleanupResult) add(removed, gone, failed int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Removed += removed
	r.AlreadyGone += gone
	r.Failed += failed
}

// Cleaner deletes everything a Ledger still lists as pending
type Cleaner struct {
	segments      toolkit.SegmentHandler
	accounts      toolkit.AccountHandler
	ledger        Ledger
	logger        *zap.Logger
	maxGoroutines int
}

func NewCleaner(segments toolkit.SegmentHandler, accounts toolkit.AccountHandler, ledger Ledger, logger *zap.Logger) *Cleaner {
	return &Cleaner{
		segments:      segments,
		accounts:      accounts,
		ledger:        ledger,
		logger:        logger,
		maxGoroutines: defaultMaxGoroutines,
	}
}

// Cleanup removes segments before accounts. Entities the platform no longer
// knows are marked removed without counting as failures.
func (c *Cleaner) Cleanup(ctx context.Context) (*CleanupResult, error) {
	pending, err := c.ledger.Pending(ctx)
	if err != nil {
		return nil, fmt.Errorf("list pending fixtures: %w", err)
	}
	c.logger.Info("Starting cleanup", zap.Int("pending", len(pending)))

	var segments, accounts []Fixture
	for _, f := range pending {
		switch f.Kind {
		case KindSegment:
			segments = append(segments, f)
		case KindAccount:
			accounts = append(accounts, f)
		default:
			c.logger.Warn("Skipping fixture of unknown kind", zap.String("kind", string(f.Kind)), zap.Int("remote_id", f.RemoteID))
		}
	}

	result := &CleanupResult{}
	var errs []error
	if err := c.remove(ctx, segments, c.segments.DeleteSegment, result); err != nil {
		errs = append(errs, err)
	}
	if err := c.remove(ctx, accounts, c.accounts.DeleteAccount, result); err != nil {
		errs = append(errs, err)
	}

	c.logger.Info("Completed cleanup",
		zap.Int("removed", result.Removed),
		zap.Int("already_gone", result.AlreadyGone),
		zap.Int("failed", result.Failed))

	return result, errors.Join(errs...)
}

func (c *Cleaner) remove(ctx context.Context, fixtures []Fixture, del func(context.Context, int) error, result *CleanupResult) error {
	p := pool.New().WithMaxGoroutines(c.maxGoroutines).WithErrors()
	for _, f := range fixtures {
		p.Go(func() error {
			err := del(ctx, f.RemoteID)
			gone := errors.Is(err, mozu.ErrNotFound)
			if err != nil && !gone {
				result.add(0, 0, 1)
				c.logger.Error("Failed to delete fixture",
					zap.String("kind", string(f.Kind)),
					zap.Int("remote_id", f.RemoteID),
					zap.Error(err))
				return fmt.Errorf("delete %s %d: %w", f.Kind, f.RemoteID, err)
			}
			if err := c.ledger.MarkRemoved(ctx, f.Kind, f.RemoteID); err != nil {
				result.add(0, 0, 1)
				return fmt.Errorf("mark %s %d removed: %w", f.Kind, f.RemoteID, err)
			}
			if gone {
				result.add(0, 1, 0)
			} else {
				result.add(1, 0, 0)
			}
			return nil
		})
	}
	return p.Wait()
}
