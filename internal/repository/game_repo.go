// Package repository is the relational store for game content and accounts.
package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"readinggame/internal/database"
	"readinggame/internal/identity"
	"readinggame/internal/logger"
)

// SortDirection orders created_at listings
type SortDirection string

const (
	SortAscending  SortDirection = "ASC"
	SortDescending SortDirection = "DESC"
)

// ParseSortDirection accepts asc/desc in any case; anything else is ascending
func ParseSortDirection(s string) SortDirection {
	if strings.EqualFold(strings.TrimSpace(s), "desc") {
		return SortDescending
	}
	return SortAscending
}

// GameRepository handles categories, groups and words, and reads the public
// snapshot. Every call except GetPublicContent is scoped to the user in the context.
type GameRepository struct {
	db    *database.DB
	log   *logger.Logger
	order SortDirection
	now   func() time.Time
}

// Option customizes a GameRepository
type Option func(*GameRepository)

func WithLogger(log *logger.Logger) Option {
	return func(r *GameRepository) {
		if log != nil {
			r.log = log
		}
	}
}

// WithCreatedAtOrder sets the created_at direction for category and group listings
func WithCreatedAtOrder(dir SortDirection) Option {
	return func(r *GameRepository) {
		if dir == SortDescending {
			r.order = SortDescending
		} else {
			r.order = SortAscending
		}
	}
}

// WithClock overrides the time source for CreatedAt
func WithClock(now func() time.Time) Option {
	return func(r *GameRepository) {
		if now != nil {
			r.now = now
		}
	}
}

// NewGameRepository creates a new game repository
func NewGameRepository(db *database.DB, opts ...Option) *GameRepository {
	r := &GameRepository{
		db:    db,
		log:   logger.NewNop(),
		order: SortAscending,
		now:   func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(r)
	}
	r.log = r.log.With("component", "repository", "dialect", db.Dialect.Name())
	return r
}

func (r *GameRepository) owner(ctx context.Context) (string, error) {
	return identity.RequireUserID(ctx)
}

// groupsTable is the quoted name; GROUPS is reserved in MySQL 8
func (r *GameRepository) groupsTable() string {
	return r.db.Dialect.QuoteIdent("groups")
}

func (r *GameRepository) createdOrder() string {
	return fmt.Sprintf("created_at %s, id %s", r.order, r.order)
}

func newID() string {
	return uuid.NewString()
}

// setClause accumulates the columns of a partial UPDATE
type setClause struct {
	cols []string
	args []interface{}
}

func (s *setClause) add(col string, v interface{}) {
	s.cols = append(s.cols, col+" = ?")
	s.args = append(s.args, v)
}

func (s *setClause) empty() bool {
	return len(s.cols) == 0
}

func (s *setClause) sql() string {
	return strings.Join(s.cols, ", ")
}
