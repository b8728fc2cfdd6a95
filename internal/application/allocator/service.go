// Package allocator implements the batch that backfills BeAware usernames
// for users who never picked one.
package allocator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/beaware-fyi/beaware-api/internal/domain"
	"github.com/beaware-fyi/beaware-api/internal/pkg/username"
)

const (
	scanPageSize = 100

	// storeRetries bounds retries of an individual persistence call that
	// failed transiently. Only the affected call is retried, never the
	// whole batch.
	storeRetries = 3

	// conflictRetries bounds how many times a lost check-then-write race
	// restarts probing for one user before the user is counted as failed.
	conflictRetries = 3
)

type userStore interface {
	ScanPage(ctx context.Context, limit int32, cursor string) ([]domain.User, string, error)
	GetByBeawareUsername(ctx context.Context, name string) (*domain.User, error)
	SetBeawareUsername(ctx context.Context, userID, name string) error
}

// Progress is invoked once per processed user. assigned is empty for
// skipped users; err is non-nil for failed ones.
type Progress func(u domain.User, assigned string, err error)

// Summary totals one batch run.
type Summary struct {
	Assigned int
	Skipped  int
	Failed   int
}

type Service struct {
	repo     userStore
	progress Progress
}

func New(repo userStore, progress Progress) *Service {
	if progress == nil {
		progress = func(domain.User, string, error) {}
	}
	return &Service{repo: repo, progress: progress}
}

// Run walks the full user set and allocates a username for every user
// lacking one. Per-user failures (exhaustion, underivable candidate) are
// recorded and the batch continues; only a failed scan aborts the run.
func (s *Service) Run(ctx context.Context) (Summary, error) {
	var sum Summary
	cursor := ""
	for {
		users, next, err := s.scanPage(ctx, cursor)
		if err != nil {
			return sum, fmt.Errorf("scan users: %w", err)
		}
		for _, u := range users {
			if u.BeawareUsername != nil && *u.BeawareUsername != "" {
				sum.Skipped++
				s.progress(u, "", nil)
				continue
			}
			assigned, err := s.allocateOne(ctx, u)
			if err != nil {
				sum.Failed++
				slog.Warn("username allocation failed", "user_id", u.UserID, "email", u.Email, "err", err)
				s.progress(u, "", err)
				continue
			}
			sum.Assigned++
			s.progress(u, assigned, nil)
		}
		if next == "" {
			return sum, nil
		}
		cursor = next
	}
}

// allocateOne derives the candidate and probes for a free handle, then
// writes it. The existence check and the write are not atomic: a write
// rejected as a conflict means a concurrent claimer won the handle, so
// probing restarts and will now see it as taken.
func (s *Service) allocateOne(ctx context.Context, u domain.User) (string, error) {
	base, err := username.BaseCandidate(u.DisplayName, u.Email)
	if err != nil {
		return "", err
	}
	for attempt := 0; attempt <= conflictRetries; attempt++ {
		res, err := username.Allocate(ctx, base, s.taken)
		if err != nil {
			return "", err
		}
		err = s.withRetry(ctx, func(ctx context.Context) error {
			return s.repo.SetBeawareUsername(ctx, u.UserID, res.Username)
		})
		if err == nil {
			return res.Username, nil
		}
		if !errors.Is(err, domain.ErrConflict) {
			return "", err
		}
		slog.Info("lost username race, re-probing", "user_id", u.UserID, "candidate", res.Username)
	}
	return "", fmt.Errorf("user %s: repeated write conflicts: %w", u.UserID, domain.ErrConflict)
}

func (s *Service) taken(ctx context.Context, candidate string) (bool, error) {
	var inUse bool
	err := s.withRetry(ctx, func(ctx context.Context) error {
		_, err := s.repo.GetByBeawareUsername(ctx, candidate)
		if err == nil {
			inUse = true
			return nil
		}
		if errors.Is(err, domain.ErrNotFound) {
			inUse = false
			return nil
		}
		return err
	})
	return inUse, err
}

func (s *Service) scanPage(ctx context.Context, cursor string) (users []domain.User, next string, err error) {
	err = s.withRetry(ctx, func(ctx context.Context) error {
		users, next, err = s.repo.ScanPage(ctx, scanPageSize, cursor)
		return err
	})
	return users, next, err
}

// withRetry re-runs fn on transient store errors, up to storeRetries tries.
func (s *Service) withRetry(ctx context.Context, fn func(context.Context) error) error {
	var err error
	for i := 0; i < storeRetries; i++ {
		if err = fn(ctx); err == nil || !errors.Is(err, domain.ErrUnavailable) {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
	}
	return err
}
