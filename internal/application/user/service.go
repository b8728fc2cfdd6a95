package user

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/beaware-fyi/beaware-api/internal/domain"
	"github.com/beaware-fyi/beaware-api/internal/pkg/id"
	"github.com/beaware-fyi/beaware-api/internal/pkg/username"
	"golang.org/x/crypto/bcrypt"
)

type Service interface {
	Register(ctx context.Context, req domain.CreateUserRequest) (*domain.User, error)
	Get(ctx context.Context, userID string) (*domain.User, error)
	List(ctx context.Context, limit int, cursor string) ([]domain.User, string, error)
	// CheckUsername reports whether the handle is free to claim.
	// Malformed handles are ErrBadRequest, not merely unavailable.
	CheckUsername(ctx context.Context, name string) (bool, error)
	// UpdateUsername assigns a BeAware username to the user registered
	// under email. The handle must be well-formed and unclaimed.
	UpdateUsername(ctx context.Context, email, name string) error
}

type userStore interface {
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByBeawareUsername(ctx context.Context, name string) (*domain.User, error)
	Put(ctx context.Context, u *domain.User) error
	ScanPage(ctx context.Context, limit int32, cursor string) ([]domain.User, string, error)
	Get(ctx context.Context, userID string) (*domain.User, error)
	SetBeawareUsername(ctx context.Context, userID, name string) error
}

type service struct {
	repo userStore
}

func NewService(repo userStore) Service {
	return &service{repo: repo}
}

func (s *service) Register(ctx context.Context, req domain.CreateUserRequest) (*domain.User, error) {
	if _, err := s.repo.GetByEmail(ctx, req.Email); err == nil {
		return nil, fmt.Errorf("email already registered: %w", domain.ErrConflict)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	u := &domain.User{
		UserID:       id.New(),
		Email:        req.Email,
		DisplayName:  req.DisplayName,
		PasswordHash: string(hash),
		Role:         domain.RoleUser,
		Enable:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repo.Put(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *service) Get(ctx context.Context, userID string) (*domain.User, error) {
	return s.repo.Get(ctx, userID)
}

func (s *service) List(ctx context.Context, limit int, cursor string) ([]domain.User, string, error) {
	if limit < 1 {
		limit = 50
	}
	return s.repo.ScanPage(ctx, int32(limit), cursor)
}

func (s *service) CheckUsername(ctx context.Context, name string) (bool, error) {
	if !username.Valid(name) {
		return false, fmt.Errorf("username must be 3-20 characters (letters, numbers, underscores): %w", domain.ErrBadRequest)
	}
	_, err := s.repo.GetByBeawareUsername(ctx, name)
	if err == nil {
		return false, nil
	}
	if errors.Is(err, domain.ErrNotFound) {
		return true, nil
	}
	return false, err
}

func (s *service) UpdateUsername(ctx context.Context, email, name string) error {
	if !username.Valid(name) {
		return fmt.Errorf("username must be 3-20 characters (letters, numbers, underscores): %w", domain.ErrBadRequest)
	}
	u, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("no account for email: %w", domain.ErrNotFound)
	}
	owner, err := s.repo.GetByBeawareUsername(ctx, name)
	if err == nil {
		if owner.UserID == u.UserID {
			return nil // already theirs
		}
		return fmt.Errorf("username already taken: %w", domain.ErrConflict)
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return err
	}
	return s.repo.SetBeawareUsername(ctx, u.UserID, name)
}
