package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"gomarket/internal/models"
)

type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

var _ Users = (*UserRepository)(nil)

const (
	insertUserSQL           = `INSERT INTO users (username, email, password_hash) VALUES (?, ?, ?)`
	selectUserByIDSQL       = `SELECT id, username, email, password_hash FROM users WHERE id = ?`
	selectUserByUsernameSQL = `SELECT id, username, email, password_hash FROM users WHERE username = ?`
	selectUserByEmailSQL    = `SELECT id, username, email, password_hash FROM users WHERE email = ?`
)

// Create inserts a new user and returns its ID.
func (r *UserRepository) Create(ctx context.Context, username, email, passwordHash string) (int64, error) {
	res, err := r.db.ExecContext(ctx, insertUserSQL, username, email, passwordHash)
	if err != nil {
		return 0, fmt.Errorf("insert user %q: %w", username, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("get last insert id for user %q: %w", username, err)
	}
	return id, nil
}

// ByID fetches a user by id. Returns (nil, nil) if not found.
func (r *UserRepository) ByID(ctx context.Context, id int64) (*models.User, error) {
	return r.one(ctx, selectUserByIDSQL, id)
}

// ByUsername fetches a user by username. Returns (nil, nil) if not found.
func (r *UserRepository) ByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.one(ctx, selectUserByUsernameSQL, username)
}

// ByEmail fetches a user by email. Returns (nil, nil) if not found.
func (r *UserRepository) ByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.one(ctx, selectUserByEmailSQL, email)
}

func (r *UserRepository) one(ctx context.Context, query string, arg any) (*models.User, error) {
	var u models.User
	err := r.db.QueryRowContext(ctx, query, arg).Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("select user (%v): %w", arg, err)
	}
	return &u, nil
}
