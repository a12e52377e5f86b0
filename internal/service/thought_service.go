package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	apperrors "happythoughts/internal/errors"
	"happythoughts/internal/metrics"
	"happythoughts/internal/model"
	"happythoughts/internal/repository"
)

// RecentThoughtsLimit is the size of the fixed listing window.
const RecentThoughtsLimit = 20

// ThoughtService handles posting, listing and liking thoughts.
type ThoughtService interface {
	ListRecent(ctx context.Context, viewer *model.Identity) ([]model.Thought, error)
	Create(ctx context.Context, username, message, accessToken string) (*model.Thought, error)
	Like(ctx context.Context, thoughtID string) (*model.Thought, error)
}

type thoughtService struct {
	repo repository.ThoughtRepository
	now  func() time.Time
}

// NewThoughtService creates a new thought service.
func NewThoughtService(repo repository.ThoughtRepository) ThoughtService {
	return &thoughtService{
		repo: repo,
		now:  time.Now,
	}
}

// ListRecent returns the newest thoughts. It refuses to run for a caller
// whose token was not validated.
func (s *thoughtService) ListRecent(ctx context.Context, viewer *model.Identity) ([]model.Thought, error) {
	if viewer == nil {
		return nil, apperrors.Unauthenticated()
	}

	thoughts, err := s.repo.ListRecent(ctx, RecentThoughtsLimit)
	if err != nil {
		return nil, apperrors.Store(fmt.Errorf("list thoughts: %w", err))
	}
	if thoughts == nil {
		thoughts = []model.Thought{}
	}
	return thoughts, nil
}

// Create stores a thought as given. Neither the token nor the username is
// checked against registered users.
func (s *thoughtService) Create(ctx context.Context, username, message, accessToken string) (*model.Thought, error) {
	thought := &model.Thought{
		Username:    username,
		Message:     message,
		AccessToken: accessToken,
		CreatedAt:   s.now().UTC(),
		Hearts:      0,
	}

	if err := s.repo.Create(ctx, thought); err != nil {
		return nil, apperrors.Store(fmt.Errorf("create thought: %w", err))
	}

	metrics.ThoughtsCreatedTotal.Inc()
	return thought, nil
}

// Like adds one heart to the thought.
func (s *thoughtService) Like(ctx context.Context, thoughtID string) (*model.Thought, error) {
	if thoughtID == "" {
		return nil, apperrors.NotFound("Thought not found")
	}

	thought, err := s.repo.IncrementHearts(ctx, thoughtID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("Thought not found")
		}
		return nil, apperrors.Store(fmt.Errorf("like thought %s: %w", thoughtID, err))
	}

	metrics.HeartsTotal.Inc()
	return thought, nil
}
