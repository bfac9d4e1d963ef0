package user

import (
	"context"
	"database/sql"

	"onlinemart-be/internal/apperr"
	"onlinemart-be/internal/logger"

	"github.com/lib/pq"
	"go.uber.org/zap"
)

type Repository interface {
	Create(ctx context.Context, u User) (User, error)
	FindByID(ctx context.Context, id int64) (*User, error)
	FindByUsername(ctx context.Context, username string) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByUsernameOrEmail(ctx context.Context, value string) (*User, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

const userColumns = "id, username, email, password_hash, role, created_at"

func (r *repository) Create(ctx context.Context, u User) (User, error) {
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO users (username, email, password_hash, role, created_at)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id`,
		u.Username, u.Email, u.PasswordHash, u.Role, u.CreatedAt,
	).Scan(&u.ID)

	if err != nil {
		// Unique constraints back up the service-level checks against
		// concurrent registrations.
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code.Name() == "unique_violation" {
			switch pqErr.Constraint {
			case "users_username_key":
				return User{}, apperr.Conflict("Username is already in use.")
			case "users_email_key":
				return User{}, apperr.Conflict("Email is already in use.")
			}
			return User{}, apperr.Conflict("User already exists.")
		}
		logger.FromCtx(ctx).Error("db: failed to insert user",
			zap.String("username", u.Username),
			zap.Error(err),
		)
		return User{}, err
	}

	return u, nil
}

func (r *repository) FindByID(ctx context.Context, id int64) (*User, error) {
	return r.findOne(ctx,
		"SELECT "+userColumns+" FROM users WHERE id = $1", id)
}

func (r *repository) FindByUsername(ctx context.Context, username string) (*User, error) {
	return r.findOne(ctx,
		"SELECT "+userColumns+" FROM users WHERE username = $1", username)
}

func (r *repository) FindByEmail(ctx context.Context, email string) (*User, error) {
	return r.findOne(ctx,
		"SELECT "+userColumns+" FROM users WHERE email = $1", email)
}

func (r *repository) FindByUsernameOrEmail(ctx context.Context, value string) (*User, error) {
	return r.findOne(ctx,
		"SELECT "+userColumns+" FROM users WHERE username = $1 OR email = $1", value)
}

func (r *repository) findOne(ctx context.Context, query string, arg interface{}) (*User, error) {
	var u User
	err := r.db.QueryRowContext(ctx, query, arg).
		Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.Role, &u.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}
