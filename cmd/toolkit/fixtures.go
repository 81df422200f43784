package main

import (
	"context"
	"flag"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/LatinWarrior/mozu-toolkit/pkg/fixtures"
	"github.com/LatinWarrior/mozu-toolkit/pkg/fixtures/postgres"
)

func cmdSeed(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("seed", flag.ExitOnError)
	segments := fs.Int("segments", 1, "Number of segments to create")
	accounts := fs.Int("accounts", 10, "Number of accounts to create")
	password := fs.String("password", fixtures.DefaultPassword, "Password for created accounts")
	ledgerKind := fs.String("ledger", "postgres", "Where to record fixtures: memory or postgres")
	seed := fs.Uint64("seed", 0, "Random seed (time-based when 0)")
	fs.Parse(args)

	if *segments < 0 || *accounts < 0 {
		return fmt.Errorf("-segments and -accounts must not be negative")
	}

	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	ledger, closeLedger, err := openLedger(ctx, *ledgerKind, a.logger)
	if err != nil {
		return err
	}
	defer closeLedger()

	if *seed == 0 {
		*seed = uint64(time.Now().UnixNano())
	}
	seeder := fixtures.NewSeeder(a.segments, a.accounts, fixtures.NewGenerator(*seed), ledger, a.logger)
	result, err := seeder.Seed(ctx, fixtures.SeedOptions{
		Segments: *segments,
		Accounts: *accounts,
		Password: *password,
	})
	if result != nil {
		if perr := printJSON(result); perr != nil && err == nil {
			err = perr
		}
	}
	return err
}

func cmdCleanup(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("cleanup", flag.ExitOnError)
	fs.Parse(args)

	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	ledger, closeLedger, err := openLedger(ctx, "postgres", a.logger)
	if err != nil {
		return err
	}
	defer closeLedger()

	result, err := fixtures.NewCleaner(a.segments, a.accounts, ledger, a.logger).Cleanup(ctx)
	if result != nil {
		if perr := printJSON(result); perr != nil && err == nil {
			err = perr
		}
	}
	return err
}

func openLedger(ctx context.Context, kind string, logger *zap.Logger) (fixtures.Ledger, func(), error) {
	switch kind {
	case "memory":
		logger.Warn("Using in-memory ledger; fixtures will not be cleaned up by a later run")
		return fixtures.NewMemoryLedger(), func() {}, nil
	case "postgres":
		dbCfg, err := postgres.NewConfig()
		if err != nil {
			return nil, nil, err
		}
		db, err := postgres.New(ctx, dbCfg, logger)
		if err != nil {
			logger.Error("Failed to connect to database", zap.Error(err))
			return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		if err := db.InitSchema(ctx); err != nil {
			db.Close()
			return nil, nil, err
		}
		return postgres.NewLedger(db), db.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown ledger %q: want memory or postgres", kind)
	}
}
