// Package localstore keeps game content in a key-value medium, one JSON array per
// collection, and enforces the category -> group -> word cascade itself.
package localstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"readinggame/internal/logger"
	"readinggame/internal/models"
)

// Collection keys
const (
	KeyCategories = "game_categories"
	KeyGroups     = "game_groups"
	KeyWords      = "game_words"
)

// ErrUnavailable is returned when the backend reports no usable storage medium.
// Reads still return an empty slice alongside it.
var ErrUnavailable = errors.New("local storage is not available")

// Store implements the game content operations on top of a Backend
type Store struct {
	backend Backend
	log     *logger.Logger
	now     func() time.Time
}

// Option customizes a Store
type Option func(*Store)

// WithLogger sets the logger
func WithLogger(log *logger.Logger) Option {
	return func(s *Store) {
		if log != nil {
			s.log = log
		}
	}
}

// WithClock overrides the time source used for CreatedAt
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// New creates a store over backend. A nil backend behaves as unavailable.
func New(backend Backend, opts ...Option) *Store {
	if backend == nil {
		backend = UnavailableBackend{}
	}
	s := &Store{
		backend: backend,
		log:     logger.NewNop(),
		now:     func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.With("component", "localstore")
	return s
}

// Available reports whether the backend can be used
func (s *Store) Available(ctx context.Context) bool {
	return s.backend.Available(ctx)
}

func load[T any](ctx context.Context, s *Store, key string) ([]T, error) {
	if !s.backend.Available(ctx) {
		return []T{}, ErrUnavailable
	}
	raw, ok, err := s.backend.Get(ctx, key)
	if err != nil {
		return []T{}, fmt.Errorf("failed to load %s: %w", key, err)
	}
	if !ok || strings.TrimSpace(raw) == "" {
		return []T{}, nil
	}
	var items []T
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return []T{}, fmt.Errorf("failed to decode %s: %w", key, err)
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

func persist[T any](ctx context.Context, s *Store, key string, items []T) error {
	if !s.backend.Available(ctx) {
		return ErrUnavailable
	}
	if items == nil {
		items = []T{}
	}
	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}
	if err := s.backend.Set(ctx, key, string(data)); err != nil {
		return fmt.Errorf("failed to save %s: %w", key, err)
	}
	return nil
}

// InitializeDefaultData seeds the fixture when no categories exist yet. It reports
// whether anything was written.
func (s *Store) InitializeDefaultData(ctx context.Context, fixture models.Fixture) (bool, error) {
	categories, err := s.GetCategories(ctx)
	if err != nil {
		return false, err
	}
	if len(categories) > 0 {
		return false, nil
	}

	f := fixture.Stamp(s.now())
	if err := s.SaveCategories(ctx, []models.Category{f.Category}); err != nil {
		return false, err
	}
	if err := s.SaveGroups(ctx, []models.Group{f.Group}); err != nil {
		return false, err
	}
	if err := s.SaveWords(ctx, f.Words); err != nil {
		return false, err
	}

	s.log.Info("Seeded default content", "category", f.Category.ID, "words", len(f.Words))
	return true, nil
}

// ClearAll removes all three collections
func (s *Store) ClearAll(ctx context.Context) error {
	if !s.backend.Available(ctx) {
		return ErrUnavailable
	}
	for _, key := range []string{KeyCategories, KeyGroups, KeyWords} {
		if err := s.backend.Remove(ctx, key); err != nil {
			return fmt.Errorf("failed to clear %s: %w", key, err)
		}
	}
	return nil
}

func newID() string {
	return uuid.NewString()
}
