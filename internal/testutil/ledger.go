// Package testutil provides ledger fixtures for tests: an initialized store
// over an isolated backend, a controllable clock and seed data.
package testutil

import (
	"bytes"
	"context"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/Veraticus/finansowy-tracker/internal/ledger"
	"github.com/Veraticus/finansowy-tracker/internal/model"
	"github.com/Veraticus/finansowy-tracker/internal/storage"
)

// DefaultNow is the starting time of every test clock.
var DefaultNow = time.Date(2024, time.June, 20, 9, 30, 0, 0, time.UTC)

// Clock is a manually advanced clock.
type Clock struct {
	now time.Time
	mu  sync.Mutex
}

// NewClock creates a clock stopped at now.
func NewClock(now time.Time) *Clock {
	return &Clock{now: now}
}

// Now returns the current test time.
func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Advance moves the clock forward by d.
func (c *Clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// TestLedger bundles a store with the backend and clock behind it.
type TestLedger struct {
	Store   *ledger.Store
	Backend storage.Backend
	Clock   *Clock
	Logs    *bytes.Buffer
	t       *testing.T
}

type setupConfig struct {
	backend storage.Backend
	drafts  []model.Draft
	extra   []category
}

type category struct {
	typ  model.TransactionType
	name string
}

// Option customizes SetupTestLedger.
type Option func(*testing.T, *setupConfig)

// WithSQLite backs the ledger with an in-memory SQLite database.
func WithSQLite() Option {
	return func(t *testing.T, cfg *setupConfig) {
		t.Helper()
		backend, err := storage.NewSQLiteBackend(context.Background(), ":memory:")
		if err != nil {
			t.Fatalf("failed to create sqlite backend: %v", err)
		}
		cfg.backend = backend
	}
}

// WithCapacity limits the in-memory backend to capacity bytes.
func WithCapacity(capacity int) Option {
	return func(_ *testing.T, cfg *setupConfig) {
		cfg.backend = storage.NewMemoryBackendWithCapacity(capacity)
	}
}

// WithCategory registers an extra category before transactions are seeded.
func WithCategory(t model.TransactionType, name string) Option {
	return func(_ *testing.T, cfg *setupConfig) {
		cfg.extra = append(cfg.extra, category{typ: t, name: name})
	}
}

// WithTransactions seeds the ledger with the given drafts in order.
func WithTransactions(drafts ...model.Draft) Option {
	return func(_ *testing.T, cfg *setupConfig) {
		cfg.drafts = append(cfg.drafts, drafts...)
	}
}

// SetupTestLedger creates an initialized ledger over a fresh in-memory
// backend. Logs are captured in TestLedger.Logs.
func SetupTestLedger(t *testing.T, opts ...Option) *TestLedger {
	t.Helper()

	cfg := &setupConfig{}
	for _, opt := range opts {
		opt(t, cfg)
	}
	if cfg.backend == nil {
		cfg.backend = storage.NewMemoryBackend()
	}

	logs := &bytes.Buffer{}
	clock := NewClock(DefaultNow)
	ctx := context.Background()

	store, err := ledger.Open(ctx, cfg.backend,
		ledger.WithClock(clock.Now),
		ledger.WithLogger(slog.New(slog.NewTextHandler(logs, &slog.HandlerOptions{Level: slog.LevelDebug}))))
	if err != nil {
		t.Fatalf("failed to open ledger: %v", err)
	}
	t.Cleanup(func() {
		_ = cfg.backend.Close()
	})

	for _, c := range cfg.extra {
		if _, err := store.AddCategory(ctx, c.typ, c.name); err != nil {
			t.Fatalf("failed to seed category %q: %v", c.name, err)
		}
	}
	for _, d := range cfg.drafts {
		if _, err := store.AddTransaction(ctx, d); err != nil {
			t.Fatalf("failed to seed transaction %+v: %v", d, err)
		}
		clock.Advance(time.Millisecond)
	}

	return &TestLedger{
		Store:   store,
		Backend: cfg.backend,
		Clock:   clock,
		Logs:    logs,
		t:       t,
	}
}

// MustAdd adds a transaction or fails the test.
func (l *TestLedger) MustAdd(d model.Draft) model.Transaction {
	l.t.Helper()
	txn, err := l.Store.AddTransaction(context.Background(), d)
	if err != nil {
		l.t.Fatalf("failed to add transaction: %v", err)
	}
	return txn
}
