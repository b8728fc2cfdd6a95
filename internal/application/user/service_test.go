package user

import (
	"context"
	"errors"
	"testing"

	"github.com/beaware-fyi/beaware-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// --- mocks ---

type mockUserStore struct{ mock.Mock }

func (m *mockUserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if u, _ := args.Get(0).(*domain.User); u != nil {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockUserStore) GetByBeawareUsername(ctx context.Context, name string) (*domain.User, error) {
	args := m.Called(ctx, name)
	if u, _ := args.Get(0).(*domain.User); u != nil {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockUserStore) Put(ctx context.Context, u *domain.User) error {
	return m.Called(ctx, u).Error(0)
}
func (m *mockUserStore) ScanPage(ctx context.Context, limit int32, cursor string) ([]domain.User, string, error) {
	args := m.Called(ctx, limit, cursor)
	return args.Get(0).([]domain.User), args.String(1), args.Error(2)
}
func (m *mockUserStore) Get(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	if u, _ := args.Get(0).(*domain.User); u != nil {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockUserStore) SetBeawareUsername(ctx context.Context, userID, name string) error {
	return m.Called(ctx, userID, name).Error(0)
}

func baseReq() domain.CreateUserRequest {
	return domain.CreateUserRequest{
		Email:       "alice@example.com",
		Password:    "password123",
		DisplayName: "Alice Smith",
	}
}

// --- Register ---

func TestRegister_EmailConflict(t *testing.T) {
	us := &mockUserStore{}
	us.On("GetByEmail", mock.Anything, "alice@example.com").Return(&domain.User{}, nil)

	svc := NewService(us)
	_, err := svc.Register(context.Background(), baseReq())

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrConflict))
	us.AssertExpectations(t)
}

func TestRegister_HappyPath(t *testing.T) {
	us := &mockUserStore{}
	us.On("GetByEmail", mock.Anything, "alice@example.com").Return(nil, domain.ErrNotFound)
	us.On("Put", mock.Anything, mock.AnythingOfType("*domain.User")).Return(nil)

	svc := NewService(us)
	u, err := svc.Register(context.Background(), baseReq())

	require.NoError(t, err)
	assert.Equal(t, "Alice Smith", u.DisplayName)
	assert.Equal(t, domain.RoleUser, u.Role)
	assert.Nil(t, u.BeawareUsername, "username is assigned later, not at registration")
	assert.True(t, u.Enable)
	us.AssertExpectations(t)
}

// --- CheckUsername ---

func TestCheckUsername_InvalidFormat(t *testing.T) {
	svc := NewService(&mockUserStore{})
	for _, bad := range []string{"ab", "has space", "way_too_long_for_a_username", "dash-ed"} {
		_, err := svc.CheckUsername(context.Background(), bad)
		require.Error(t, err, bad)
		assert.True(t, errors.Is(err, domain.ErrBadRequest), bad)
	}
}

func TestCheckUsername_Taken(t *testing.T) {
	us := &mockUserStore{}
	us.On("GetByBeawareUsername", mock.Anything, "john_smith").Return(&domain.User{UserID: "u1"}, nil)

	svc := NewService(us)
	available, err := svc.CheckUsername(context.Background(), "john_smith")

	require.NoError(t, err)
	assert.False(t, available)
}

func TestCheckUsername_Available(t *testing.T) {
	us := &mockUserStore{}
	us.On("GetByBeawareUsername", mock.Anything, "john_smith").Return(nil, domain.ErrNotFound)

	svc := NewService(us)
	available, err := svc.CheckUsername(context.Background(), "john_smith")

	require.NoError(t, err)
	assert.True(t, available)
}

func TestCheckUsername_StoreErrorPropagates(t *testing.T) {
	us := &mockUserStore{}
	storeErr := errors.New("dynamo error")
	us.On("GetByBeawareUsername", mock.Anything, "john_smith").Return(nil, storeErr)

	svc := NewService(us)
	_, err := svc.CheckUsername(context.Background(), "john_smith")
	require.Error(t, err)
	assert.Equal(t, storeErr, err)
}

// --- UpdateUsername ---

func TestUpdateUsername_InvalidFormat(t *testing.T) {
	svc := NewService(&mockUserStore{})
	err := svc.UpdateUsername(context.Background(), "alice@example.com", "no spaces allowed")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrBadRequest))
}

func TestUpdateUsername_UnknownEmail(t *testing.T) {
	us := &mockUserStore{}
	us.On("GetByEmail", mock.Anything, "ghost@example.com").Return(nil, domain.ErrNotFound)

	svc := NewService(us)
	err := svc.UpdateUsername(context.Background(), "ghost@example.com", "ghost_hunter")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestUpdateUsername_Taken(t *testing.T) {
	us := &mockUserStore{}
	us.On("GetByEmail", mock.Anything, "alice@example.com").Return(&domain.User{UserID: "u1"}, nil)
	us.On("GetByBeawareUsername", mock.Anything, "john_smith").Return(&domain.User{UserID: "u2"}, nil)

	svc := NewService(us)
	err := svc.UpdateUsername(context.Background(), "alice@example.com", "john_smith")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrConflict))
	us.AssertNotCalled(t, "SetBeawareUsername", mock.Anything, mock.Anything, mock.Anything)
}

func TestUpdateUsername_AlreadyOwnedIsNoOp(t *testing.T) {
	us := &mockUserStore{}
	us.On("GetByEmail", mock.Anything, "alice@example.com").Return(&domain.User{UserID: "u1"}, nil)
	us.On("GetByBeawareUsername", mock.Anything, "alice_s").Return(&domain.User{UserID: "u1"}, nil)

	svc := NewService(us)
	err := svc.UpdateUsername(context.Background(), "alice@example.com", "alice_s")
	require.NoError(t, err)
	us.AssertNotCalled(t, "SetBeawareUsername", mock.Anything, mock.Anything, mock.Anything)
}

func TestUpdateUsername_HappyPath(t *testing.T) {
	us := &mockUserStore{}
	us.On("GetByEmail", mock.Anything, "alice@example.com").Return(&domain.User{UserID: "u1"}, nil)
	us.On("GetByBeawareUsername", mock.Anything, "alice_s").Return(nil, domain.ErrNotFound)
	us.On("SetBeawareUsername", mock.Anything, "u1", "alice_s").Return(nil)

	svc := NewService(us)
	err := svc.UpdateUsername(context.Background(), "alice@example.com", "alice_s")
	require.NoError(t, err)
	us.AssertExpectations(t)
}
