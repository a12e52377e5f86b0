package repository

import (
	"context"
	"errors"

	"happythoughts/internal/model"
)

var (
	// ErrNotFound is returned when no record matches the lookup.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicateKey is returned when an insert violates a unique index.
	ErrDuplicateKey = errors.New("duplicate key")
)

// UserRepository defines user persistence operations.
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	FindByUsername(ctx context.Context, username string) (*model.User, error)
	FindByAccessToken(ctx context.Context, accessToken string) (*model.User, error)
}

// ThoughtRepository defines thought persistence operations.
type ThoughtRepository interface {
	Create(ctx context.Context, thought *model.Thought) error
	// ListRecent returns at most limit thoughts, newest first.
	ListRecent(ctx context.Context, limit int) ([]model.Thought, error)
	// IncrementHearts adds one heart in a single store command and returns
	// the thought as it is after the increment.
	IncrementHearts(ctx context.Context, id string) (*model.Thought, error)
}

// Store bundles the repositories of one backend with its lifecycle hooks.
type Store struct {
	Users    UserRepository
	Thoughts ThoughtRepository

	ping  func(ctx context.Context) error
	close func(ctx context.Context) error
}

// Ping reports whether the backend is reachable.
func (s *Store) Ping(ctx context.Context) error {
	if s.ping == nil {
		return nil
	}
	return s.ping(ctx)
}

// Close releases the backend connection.
func (s *Store) Close(ctx context.Context) error {
	if s.close == nil {
		return nil
	}
	return s.close(ctx)
}
