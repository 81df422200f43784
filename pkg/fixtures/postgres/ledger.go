package postgres

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/LatinWarrior/mozu-toolkit/pkg/fixtures"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS fixtures (
	kind       TEXT        NOT NULL,
	remote_id  INTEGER     NOT NULL,
	label      TEXT        NOT NULL DEFAULT '',
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	removed_at TIMESTAMPTZ,
	PRIMARY KEY (kind, remote_id)
);
CREATE INDEX IF NOT EXISTS fixtures_pending_idx ON fixtures (created_at) WHERE removed_at IS NULL;
`

// Ledger persists fixtures so cleanup can run in a later process
type Ledger struct {
	db *DB
}

func NewLedger(db *DB) *Ledger {
	return &Ledger{db: db}
}

var _ fixtures.Ledger = (*Ledger)(nil)

// Record inserts a fixture; recording the same id again revives it
func (l *Ledger) Record(ctx context.Context, f fixtures.Fixture) error {
	_, err := l.db.pool.Exec(ctx, `
		INSERT INTO fixtures (kind, remote_id, label)
		VALUES ($1, $2, $3)
		ON CONFLICT (kind, remote_id)
		DO UPDATE SET label = EXCLUDED.label, created_at = now(), removed_at = NULL`,
		string(f.Kind), f.RemoteID, f.Label)
	if err != nil {
		l.db.logger.Error("Failed to record fixture",
			zap.String("kind", string(f.Kind)),
			zap.Int("remote_id", f.RemoteID),
			zap.Error(err))
		return fmt.Errorf("failed to record fixture %s %d: %w", f.Kind, f.RemoteID, err)
	}
	return nil
}

// Pending returns fixtures not yet removed, oldest first
func (l *Ledger) Pending(ctx context.Context) ([]fixtures.Fixture, error) {
	rows, err := l.db.pool.Query(ctx, `
		SELECT kind, remote_id, label, created_at
		FROM fixtures
		WHERE removed_at IS NULL
		ORDER BY created_at, remote_id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query pending fixtures: %w", err)
	}

	defer rows.Close()

	var pending []fixtures.Fixture
	for rows.Next() {
		var f fixtures.Fixture
		var kind string
		if err := rows.Scan(&kind, &f.RemoteID, &f.Label, &f.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan fixture: %w", err)
		}
		f.Kind = fixtures.Kind(kind)
		pending = append(pending, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate pending fixtures: %w", err)
	}
	return pending, nil
}

// MarkRemoved stamps removed_at on a fixture
func (l *Ledger) MarkRemoved(ctx context.Context, kind fixtures.Kind, remoteID int) error {
	tag, err := l.db.pool.Exec(ctx, `
		UPDATE fixtures SET removed_at = now()
		WHERE kind = $1 AND remote_id = $2 AND removed_at IS NULL`,
		string(kind), remoteID)
	if err != nil {
		return fmt.Errorf("failed to mark fixture %s %d removed: %w", kind, remoteID, err)
	}
	if tag.RowsAffected() == 0 {
		l.db.logger.Warn("Fixture was not pending",
			zap.String("kind", string(kind)),
			zap.Int("remote_id", remoteID))
	}
	return nil
}
