package user

import (
	"context"
	"time"

	"onlinemart-be/internal/apperr"
	"onlinemart-be/internal/logger"

	"go.uber.org/zap"
)

type Service interface {
	RegisterBuyer(ctx context.Context, username, email, password string) (User, error)
	Authenticate(ctx context.Context, usernameOrEmail, password string) (User, error)
	CreateAdminIfMissing(ctx context.Context, username, email, password string) (User, error)
	GetByID(ctx context.Context, id int64) (User, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

// RegisterBuyer checks username and email uniqueness before inserting. The two
// reads are not atomic with the write; the unique constraints in the schema
// close the race window.
func (s *service) RegisterBuyer(ctx context.Context, username, email, password string) (User, error) {
	log := logger.FromCtx(ctx)

	existing, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		return User{}, err
	}
	if existing != nil {
		return User{}, apperr.Conflict("Username is already in use.")
	}

	existing, err = s.repo.FindByEmail(ctx, email)
	if err != nil {
		return User{}, err
	}
	if existing != nil {
		return User{}, apperr.Conflict("Email is already in use.")
	}

	hashed, err := HashPassword(password)
	if err != nil {
		log.Error("failed to hash password", zap.Error(err))
		return User{}, err
	}

	u, err := s.repo.Create(ctx, User{
		Username:     username,
		Email:        email,
		PasswordHash: hashed,
		Role:         RoleBuyer,
		CreatedAt:    time.Now().UTC(),
	})
	if err != nil {
		log.Error("failed to create user", zap.String("username", username), zap.Error(err))
		return User{}, err
	}

	log.Info("buyer registered",
		zap.Int64("user_id", u.ID),
		zap.String("username", username),
	)

	return u, nil
}

// Authenticate returns the same error for an unknown account and a wrong
// password so usernames cannot be enumerated.
func (s *service) Authenticate(ctx context.Context, usernameOrEmail, password string) (User, error) {
	u, err := s.repo.FindByUsernameOrEmail(ctx, usernameOrEmail)
	if err != nil {
		return User{}, err
	}
	if u == nil || !CheckPasswordHash(password, u.PasswordHash) {
		return User{}, apperr.InvalidCredentials("Incorrect credentials, please try again.")
	}
	return *u, nil
}

// CreateAdminIfMissing is the idempotent bootstrap: it returns the existing
// user untouched when the username is already taken.
func (s *service) CreateAdminIfMissing(ctx context.Context, username, email, password string) (User, error) {
	existing, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		return User{}, err
	}
	if existing != nil {
		return *existing, nil
	}

	hashed, err := HashPassword(password)
	if err != nil {
		return User{}, err
	}

	admin, err := s.repo.Create(ctx, User{
		Username:     username,
		Email:        email,
		PasswordHash: hashed,
		Role:         RoleAdmin,
		CreatedAt:    time.Now().UTC(),
	})
	if err != nil {
		return User{}, err
	}

	logger.FromCtx(ctx).Info("admin account created", zap.String("username", username))
	return admin, nil
}

func (s *service) GetByID(ctx context.Context, id int64) (User, error) {
	u, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return User{}, err
	}
	if u == nil {
		return User{}, apperr.NotFound("User not found.")
	}
	return *u, nil
}
