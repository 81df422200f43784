package fixtures

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/sourcegraph/conc/pool"
	"go.uber.org/zap"

	"github.com/LatinWarrior/mozu-toolkit/pkg/toolkit"
)

const (
	defaultMaxGoroutines = 10
	accountBatchSize     = 10
)

type SeedOptions struct {
	Segments int
	Accounts int
	Password string
}

// SeedResult reports what a seed run created
type SeedResult struct {
	SegmentIDs   []int
	AccountIDs   []int
	Associations int
	Failed       int
	mu           sync.Mutex
}

func (r *SeedResult) addSegment(id int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.SegmentIDs = append(r.SegmentIDs, id)
}

func (r *SeedResult) addAccounts(ids ...int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.AccountIDs = append(r.AccountIDs, ids...)
}

func (r *SeedResult) addAssociations(n int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Associations += n
}

func (r *SeedResult) addFailure() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Failed++
}

// Seeder creates random segments and accounts and links every account to every segment
type Seeder struct {
	segments      toolkit.SegmentHandler
	accounts      toolkit.AccountHandler
	generator     *Generator
	ledger        Ledger
	logger        *zap.Logger
	maxGoroutines int
}

func NewSeeder(segments toolkit.SegmentHandler, accounts toolkit.AccountHandler, generator *Generator, ledger Ledger, logger *zap.Logger) *Seeder {
	return &Seeder{
		segments:      segments,
		accounts:      accounts,
		generator:     generator,
		ledger:        ledger,
		logger:        logger,
		maxGoroutines: defaultMaxGoroutines,
	}
}

// Seed runs the three phases in order. A phase's failures don't stop later
// phases; they are counted and returned joined.
func (s *Seeder) Seed(ctx context.Context, opts SeedOptions) (*SeedResult, error) {
	if opts.Password == "" {
		opts.Password = DefaultPassword
	}
	startTime := time.Now()
	result := &SeedResult{}
	s.logger.Info("Starting seed",
		zap.Int("segments", opts.Segments),
		zap.Int("accounts", opts.Accounts))

	var errs []error

	if err := s.seedSegments(ctx, opts.Segments, result); err != nil {
		errs = append(errs, fmt.Errorf("seed segments: %w", err))
	}
	if err := s.seedAccounts(ctx, opts.Accounts, opts.Password, result); err != nil {
		errs = append(errs, fmt.Errorf("seed accounts: %w", err))
	}
	sort.Ints(result.SegmentIDs)
	sort.Ints(result.AccountIDs)

	if err := s.associate(ctx, result); err != nil {
		errs = append(errs, fmt.Errorf("associate accounts: %w", err))
	}

	s.logger.Info("Completed seed",
		zap.Duration("duration", time.Since(startTime)),
		zap.Int("segments_created", len(result.SegmentIDs)),
		zap.Int("accounts_created", len(result.AccountIDs)),
		zap.Int("associations", result.Associations),
		zap.Int("failed", result.Failed))

	return result, errors.Join(errs...)
}

func (s *Seeder) seedSegments(ctx context.Context, n int, result *SeedResult) error {
	p := pool.New().WithMaxGoroutines(s.maxGoroutines).WithErrors()
	for i := 0; i < n; i++ {
		p.Go(func() error {
			segment, err := s.segments.AddSegment(ctx, s.generator.Segment())
			if err != nil {
				result.addFailure()
				s.logger.Error("Failed to create segment", zap.Error(err))
				return err
			}
			result.addSegment(segment.ID)
			if err := s.ledger.Record(ctx, Fixture{Kind: KindSegment, RemoteID: segment.ID, Label: segment.Code}); err != nil {
				result.addFailure()
				return fmt.Errorf("record segment %d: %w", segment.ID, err)
			}
			s.logger.Debug("Created segment", zap.Int("segment_id", segment.ID), zap.String("code", segment.Code))
			return nil
		})
	}
	return p.Wait()
}

func (s *Seeder) seedAccounts(ctx context.Context, n int, password string, result *SeedResult) error {
	p := pool.New().WithMaxGoroutines(s.maxGoroutines).WithErrors()
	for remaining := n; remaining > 0; remaining -= accountBatchSize {
		batch := min(remaining, accountBatchSize)
		p.Go(func() error {
			collection, err := s.accounts.AddAccounts(ctx, s.generator.Accounts(batch, password))
			if err != nil {
				result.addFailure()
				s.logger.Error("Failed to create accounts", zap.Int("batch_size", batch), zap.Error(err))
				return err
			}
			var errs []error
			for _, account := range collection.Items {
				result.addAccounts(account.ID)
				label := account.UserName
				if label == "" {
					label = account.EmailAddress
				}
				if err := s.ledger.Record(ctx, Fixture{Kind: KindAccount, RemoteID: account.ID, Label: label}); err != nil {
					result.addFailure()
					errs = append(errs, fmt.Errorf("record account %d: %w", account.ID, err))
				}
			}
			return errors.Join(errs...)
		})
	}
	return p.Wait()
}

func (s *Seeder) associate(ctx context.Context, result *SeedResult) error {
	if len(result.AccountIDs) == 0 {
		return nil
	}
	p := pool.New().WithMaxGoroutines(s.maxGoroutines).WithErrors()
	for _, segmentID := range result.SegmentIDs {
		p.Go(func() error {
			if err := s.segments.AddSegmentAccounts(ctx, result.AccountIDs, segmentID); err != nil {
				result.addFailure()
				s.logger.Error("Failed to add accounts to segment", zap.Int("segment_id", segmentID), zap.Error(err))
				return err
			}
			result.addAssociations(len(result.AccountIDs))
			return nil
		})
	}
	return p.Wait()
}
