package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/LatinWarrior/mozu-toolkit/pkg/config"
	httpclient "github.com/LatinWarrior/mozu-toolkit/pkg/http"
	"github.com/LatinWarrior/mozu-toolkit/pkg/mozu"
	"github.com/LatinWarrior/mozu-toolkit/pkg/toolkit"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var err error
	switch os.Args[1] {
	case "segments":
		err = cmdSegments(ctx, os.Args[2:])
	case "accounts":
		err = cmdAccounts(ctx, os.Args[2:])
	case "seed":
		err = cmdSeed(ctx, os.Args[2:])
	case "cleanup":
		err = cmdCleanup(ctx, os.Args[2:])
	case "help", "-h", "--help":
		printUsage()
		return
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Fprintln(os.Stderr, `Usage: toolkit <command> [flags]

Commands:
  segments list [-start N] [-page-size N] [-sort FIELD] [-filter EXPR]
  segments get <segment-id>
  segments add -code CODE -name NAME [-description TEXT]
  segments update [-code CODE] [-name NAME] [-description TEXT] <segment-id>
  segments delete <segment-id>
  segments add-accounts -segment ID <account-id>...
  segments remove-account -segment ID <account-id>
  accounts add [-username U] [-email E] [-first F] [-last L] [-password P] | -generate N
  accounts get <account-id>
  accounts delete <account-id>
  seed [-segments N] [-accounts N] [-ledger memory|postgres] [-seed N]
  cleanup

Configuration is read from MOZU_* environment variables or a .env file.
The postgres ledger is configured with DB_* variables.`)
}

// app holds the wired clients every subcommand works through
type app struct {
	cfg      *config.Config
	logger   *zap.Logger
	segments *toolkit.SegmentClient
	accounts *toolkit.AccountClient
}

func newApp() (*app, error) {
	logger, err := zap.NewProduction()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	cfg, err := config.Load()
	if err != nil {
		logger.Error("Failed to load config", zap.Error(err))
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	transport := httpclient.NewClientWithOptions(logger, httpclient.Options{MaxRetries: httpclient.Retries(cfg.HTTPMaxRetries)})
	auth := mozu.NewAppAuthenticatorWithLogger(
		cfg.AuthBaseURI,
		mozu.AppAuthInfo{ApplicationID: cfg.ApplicationID, SharedSecret: cfg.SharedSecret},
		mozu.RefreshInterval{AccessTokenTTL: cfg.AccessTokenTTL, RefreshTokenTTL: cfg.RefreshTokenTTL},
		transport,
		logger,
	)
	apiContext := &mozu.APIContext{
		TenantID:        cfg.TenantID,
		SiteID:          cfg.SiteID,
		CatalogID:       cfg.CatalogID,
		MasterCatalogID: cfg.MasterCatalogID,
		Claims:          auth,
	}
	client := mozu.NewClientWithLogger(cfg.TenantBaseURI, apiContext, transport, logger)

	return &app{
		cfg:      cfg,
		logger:   logger,
		segments: toolkit.NewSegmentClient(mozu.NewCustomerSegmentResource(client)),
		accounts: toolkit.NewAccountClient(mozu.NewCustomerAccountResource(client)),
	}, nil
}

func (a *app) close() {
	_ = a.logger.Sync()
}

func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
