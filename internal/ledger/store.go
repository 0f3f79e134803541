// Package ledger implements the persisted transaction log, category lists and
// settings on top of a key-value backend.
//
// Every mutation re-reads the current record, changes it in memory and writes
// the whole record back with a single Set, so a failed write leaves the
// previously persisted state untouched. Reads never fail: a missing or
// unreadable record degrades to the defaults.
package ledger

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/Veraticus/finansowy-tracker/internal/common"
	"github.com/Veraticus/finansowy-tracker/internal/model"
	"github.com/Veraticus/finansowy-tracker/internal/storage"
)

// Backend keys of the two persisted records.
const (
	DatabaseKey = "finansowy-tracker-db"
	SettingsKey = "finansowy-tracker-settings"
)

// Store owns the ledger records kept in a backend.
type Store struct {
	backend storage.Backend
	now     func() time.Time
	logger  *slog.Logger
	mu      sync.Mutex
}

// Option configures a Store.
type Option func(*Store)

// WithClock replaces the wall clock used for ids and timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// WithLogger sets the logger used for store diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		s.logger = logger
	}
}

// New creates a store over backend. Call Init before first use.
func New(backend storage.Backend, opts ...Option) *Store {
	s := &Store{
		backend: backend,
		now:     time.Now,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Open creates a store over backend and initializes it.
func Open(ctx context.Context, backend storage.Backend, opts ...Option) (*Store, error) {
	s := New(backend, opts...)
	if err := s.Init(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

// Backend returns the underlying key-value backend.
func (s *Store) Backend() storage.Backend {
	return s.backend
}

// Init writes the default records when none exist and migrates an existing
// ledger record written by another schema version. It is idempotent.
func (s *Store) Init(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.initLocked(ctx)
}

func (s *Store) initLocked(ctx context.Context) error {
	_, ok, err := s.backend.Get(ctx, DatabaseKey)
	if err != nil {
		return fmt.Errorf("failed to read ledger: %w", err)
	}
	if !ok {
		s.logger.Info("creating new ledger", "version", model.SchemaVersion)
		if err := s.writeJSON(ctx, DatabaseKey, model.DefaultDatabase()); err != nil {
			return err
		}
	}

	_, ok, err = s.backend.Get(ctx, SettingsKey)
	if err != nil {
		return fmt.Errorf("failed to read settings: %w", err)
	}
	if !ok {
		s.logger.Info("creating default settings")
		if err := s.writeJSON(ctx, SettingsKey, model.DefaultSettings()); err != nil {
			return err
		}
	}

	db, err := s.readDatabase(ctx)
	if err != nil {
		// Unreadable records are left as they are until the next successful write.
		s.logger.Error("ledger record is unreadable, skipping migration", "error", err)
		return nil
	}
	if db.Version != model.SchemaVersion {
		from := db.Version
		migrate(&db)
		s.logger.Info("migrated ledger", "from", from, "to", db.Version)
		if err := s.writeJSON(ctx, DatabaseKey, db); err != nil {
			return err
		}
	}
	return nil
}

// GetAll returns the persisted ledger record. When the record cannot be
// decoded the defaults are returned and the stored value is left as is.
func (s *Store) GetAll(ctx context.Context) model.Database {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadLocked(ctx)
}

func (s *Store) loadLocked(ctx context.Context) model.Database {
	db, err := s.readDatabase(ctx)
	if err == nil {
		return db
	}
	if errors.Is(err, errMissing) {
		if initErr := s.initLocked(ctx); initErr != nil {
			s.logger.Error("failed to initialize ledger", "error", initErr)
		}
		return model.DefaultDatabase()
	}
	s.logger.Error("failed to load ledger, using defaults", "error", err)
	return model.DefaultDatabase()
}

// Save replaces the persisted ledger record. It reports false when the write
// fails; the previous record then stays in place.
func (s *Store) Save(ctx context.Context, db model.Database) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saveLocked(ctx, db)
}

func (s *Store) saveLocked(ctx context.Context, db model.Database) bool {
	if err := s.writeJSON(ctx, DatabaseKey, db); err != nil {
		s.logger.Error("failed to save ledger", "error", err)
		return false
	}
	s.logger.Debug("ledger saved", "transactions", len(db.Transactions))
	return true
}

// Reset removes every persisted record and initializes a fresh store.
func (s *Store) Reset(ctx context.Context) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, key := range []string{DatabaseKey, SettingsKey} {
		if err := s.backend.Remove(ctx, key); err != nil {
			s.logger.Error("failed to reset store", "key", key, "error", err)
			return false
		}
	}
	if err := s.initLocked(ctx); err != nil {
		s.logger.Error("failed to reinitialize store", "error", err)
		return false
	}
	s.logger.Info("store reset")
	return true
}

// Info describes the current ledger record.
type Info struct {
	Version          string
	TransactionCount int
	SizeBytes        int
}

// Info returns the version, record count and encoded size of the ledger.
func (s *Store) Info(ctx context.Context) Info {
	s.mu.Lock()
	defer s.mu.Unlock()

	db := s.loadLocked(ctx)
	size := 0
	if raw, ok, err := s.backend.Get(ctx, DatabaseKey); err == nil && ok {
		size = len(raw)
	}
	return Info{
		Version:          db.Version,
		TransactionCount: len(db.Transactions),
		SizeBytes:        size,
	}
}

var errMissing = fmt.Errorf("%w: record missing", common.ErrNotFound)

func (s *Store) readDatabase(ctx context.Context) (model.Database, error) {
	raw, ok, err := s.backend.Get(ctx, DatabaseKey)
	if err != nil {
		return model.Database{}, fmt.Errorf("failed to read ledger: %w", err)
	}
	if !ok {
		return model.Database{}, errMissing
	}

	var db model.Database
	if err := json.Unmarshal([]byte(raw), &db); err != nil {
		return model.Database{}, fmt.Errorf("failed to parse ledger: %w", err)
	}
	normalize(&db)
	return db, nil
}

func (s *Store) writeJSON(ctx context.Context, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}
	if err := s.backend.Set(ctx, key, string(data)); err != nil {
		return fmt.Errorf("%w: %s: %w", common.ErrStorage, key, err)
	}
	return nil
}

// normalize fills in the parts of a decoded record that older or hand-edited
// blobs may lack.
func normalize(db *model.Database) {
	if db.Transactions == nil {
		db.Transactions = []model.Transaction{}
	}
	if db.Categories.Expense == nil && db.Categories.Income == nil {
		db.Categories = model.DefaultCategories()
	}
	if db.Categories.Expense == nil {
		db.Categories.Expense = []string{}
	}
	if db.Categories.Income == nil {
		db.Categories.Income = []string{}
	}
}
