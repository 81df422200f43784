package fixtures

import (
	"context"
	"sort"
	"sync"
	"time"
)

type Kind string

const (
	KindSegment Kind = "segment"
	KindAccount Kind = "account"
)

// Fixture is one remote entity created by a seed run
type Fixture struct {
	Kind      Kind
	RemoteID  int
	Label     string
	CreatedAt time.Time
}

// Ledger tracks created fixtures until they are removed from the platform
type Ledger interface {
	Record(ctx context.Context, f Fixture) error
	Pending(ctx context.Context) ([]Fixture, error)
	MarkRemoved(ctx context.Context, kind Kind, remoteID int) error
}

type fixtureKey struct {
	kind Kind
	id   int
}

// MemoryLedger keeps fixtures for the lifetime of the process
type MemoryLedger struct {
	mu       sync.Mutex
	fixtures map[fixtureKey]Fixture
}

func NewMemoryLedger() *MemoryLedger {
	return &MemoryLedger{fixtures: make(map[fixtureKey]Fixture)}
}

func (l *MemoryLedger) Record(_ context.Context, f Fixture) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if f.CreatedAt.IsZero() {
		f.CreatedAt = time.Now()
	}
	l.fixtures[fixtureKey{f.Kind, f.RemoteID}] = f
	return nil
}

// Pending returns fixtures ordered by creation time
func (l *MemoryLedger) Pending(_ context.Context) ([]Fixture, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Fixture, 0, len(l.fixtures))
	for _, f := range l.fixtures {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].RemoteID < out[j].RemoteID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (l *MemoryLedger) MarkRemoved(_ context.Context, kind Kind, remoteID int) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.fixtures, fixtureKey{kind, remoteID})
	return nil
}
