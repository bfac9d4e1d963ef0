package user

import (
	"context"
	"errors"
	"testing"

	"onlinemart-be/internal/apperr"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// --- Mocks ---

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Create(ctx context.Context, u User) (User, error) {
	args := m.Called(ctx, u)
	return args.Get(0).(User), args.Error(1)
}

func (m *MockRepository) FindByID(ctx context.Context, id int64) (*User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*User), args.Error(1)
}

func (m *MockRepository) FindByUsername(ctx context.Context, username string) (*User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*User), args.Error(1)
}

func (m *MockRepository) FindByEmail(ctx context.Context, email string) (*User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*User), args.Error(1)
}

func (m *MockRepository) FindByUsernameOrEmail(ctx context.Context, value string) (*User, error) {
	args := m.Called(ctx, value)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*User), args.Error(1)
}

// --- Tests ---

func TestService_RegisterBuyer(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		mockRepo := new(MockRepository)
		svc := NewService(mockRepo)

		mockRepo.On("FindByUsername", ctx, "alice").Return(nil, nil)
		mockRepo.On("FindByEmail", ctx, "alice@example.com").Return(nil, nil)
		mockRepo.On("Create", ctx, mock.MatchedBy(func(u User) bool {
			return u.Username == "alice" && u.Role == RoleBuyer && u.PasswordHash != "s3cret-pass"
		})).Return(User{ID: 1, Username: "alice", Role: RoleBuyer}, nil)

		u, err := svc.RegisterBuyer(ctx, "alice", "alice@example.com", "s3cret-pass")
		require.NoError(t, err)
		assert.Equal(t, int64(1), u.ID)
		assert.Equal(t, RoleBuyer, u.Role)
		mockRepo.AssertExpectations(t)
	})

	t.Run("Username taken", func(t *testing.T) {
		mockRepo := new(MockRepository)
		svc := NewService(mockRepo)

		mockRepo.On("FindByUsername", ctx, "alice").Return(&User{ID: 1}, nil)

		_, err := svc.RegisterBuyer(ctx, "alice", "alice@example.com", "s3cret-pass")
		require.Error(t, err)
		assert.True(t, apperr.IsCode(err, apperr.CodeConflict))
		assert.Contains(t, err.Error(), "Username is already in use.")
		mockRepo.AssertNotCalled(t, "Create")
	})

	t.Run("Email taken", func(t *testing.T) {
		mockRepo := new(MockRepository)
		svc := NewService(mockRepo)

		mockRepo.On("FindByUsername", ctx, "alice").Return(nil, nil)
		mockRepo.On("FindByEmail", ctx, "alice@example.com").Return(&User{ID: 2}, nil)

		_, err := svc.RegisterBuyer(ctx, "alice", "alice@example.com", "s3cret-pass")
		require.Error(t, err)
		assert.True(t, apperr.IsCode(err, apperr.CodeConflict))
		assert.Contains(t, err.Error(), "Email is already in use.")
	})

	t.Run("Repo error surfaces", func(t *testing.T) {
		mockRepo := new(MockRepository)
		svc := NewService(mockRepo)

		mockRepo.On("FindByUsername", ctx, "alice").Return(nil, errors.New("db error"))

		_, err := svc.RegisterBuyer(ctx, "alice", "alice@example.com", "s3cret-pass")
		assert.Error(t, err)
	})
}

func TestService_Authenticate(t *testing.T) {
	ctx := context.Background()
	hash, err := HashPassword("s3cret-pass")
	require.NoError(t, err)

	t.Run("Success", func(t *testing.T) {
		mockRepo := new(MockRepository)
		svc := NewService(mockRepo)

		mockRepo.On("FindByUsernameOrEmail", ctx, "alice").
			Return(&User{ID: 1, Username: "alice", PasswordHash: hash, Role: RoleBuyer}, nil)

		u, err := svc.Authenticate(ctx, "alice", "s3cret-pass")
		require.NoError(t, err)
		assert.Equal(t, "alice", u.Username)
	})

	t.Run("Unknown account", func(t *testing.T) {
		mockRepo := new(MockRepository)
		svc := NewService(mockRepo)

		mockRepo.On("FindByUsernameOrEmail", ctx, "ghost").Return(nil, nil)

		_, err := svc.Authenticate(ctx, "ghost", "whatever-pass")
		require.Error(t, err)
		assert.True(t, apperr.IsCode(err, apperr.CodeInvalidCredentials))
	})

	t.Run("Wrong password uses same error", func(t *testing.T) {
		mockRepo := new(MockRepository)
		svc := NewService(mockRepo)

		mockRepo.On("FindByUsernameOrEmail", ctx, "alice").
			Return(&User{ID: 1, Username: "alice", PasswordHash: hash}, nil)

		_, err := svc.Authenticate(ctx, "alice", "wrong-pass")
		require.Error(t, err)
		assert.True(t, apperr.IsCode(err, apperr.CodeInvalidCredentials))
		assert.Contains(t, err.Error(), "Incorrect credentials, please try again.")
	})
}

func TestService_CreateAdminIfMissing(t *testing.T) {
	ctx := context.Background()

	t.Run("Creates admin when absent", func(t *testing.T) {
		mockRepo := new(MockRepository)
		svc := NewService(mockRepo)

		mockRepo.On("FindByUsername", ctx, "admin").Return(nil, nil)
		mockRepo.On("Create", ctx, mock.MatchedBy(func(u User) bool {
			return u.Username == "admin" && u.Role == RoleAdmin
		})).Return(User{ID: 1, Username: "admin", Role: RoleAdmin}, nil)

		u, err := svc.CreateAdminIfMissing(ctx, "admin", "admin@onlinemart.local", "admin12345")
		require.NoError(t, err)
		assert.Equal(t, RoleAdmin, u.Role)
	})

	t.Run("Idempotent when admin exists", func(t *testing.T) {
		mockRepo := new(MockRepository)
		svc := NewService(mockRepo)

		existing := &User{ID: 7, Username: "admin", Role: RoleAdmin}
		mockRepo.On("FindByUsername", ctx, "admin").Return(existing, nil)

		u, err := svc.CreateAdminIfMissing(ctx, "admin", "admin@onlinemart.local", "admin12345")
		require.NoError(t, err)
		assert.Equal(t, int64(7), u.ID)
		mockRepo.AssertNotCalled(t, "Create")
	})
}

func TestService_GetByID(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		mockRepo := new(MockRepository)
		svc := NewService(mockRepo)

		mockRepo.On("FindByID", ctx, int64(3)).Return(&User{ID: 3, Username: "bob"}, nil)

		u, err := svc.GetByID(ctx, 3)
		require.NoError(t, err)
		assert.Equal(t, "bob", u.Username)
	})

	t.Run("Not found", func(t *testing.T) {
		mockRepo := new(MockRepository)
		svc := NewService(mockRepo)

		mockRepo.On("FindByID", ctx, int64(99)).Return(nil, nil)

		_, err := svc.GetByID(ctx, 99)
		require.Error(t, err)
		assert.True(t, apperr.IsCode(err, apperr.CodeNotFound))
	})
}
