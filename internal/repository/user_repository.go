package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/audlex/audlex-api/internal/models"
)

// UserRepository provides database access for application users.
type UserRepository struct {
	db *sqlx.DB
}

// NewUserRepository creates a new instance of UserRepository.
func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

// FindByName returns a user by exact name.
func (r *UserRepository) FindByName(ctx context.Context, name string) (*models.User, error) {
	const query = `SELECT id, name, password_hash, level FROM users WHERE name = $1 LIMIT 1`
	var user models.User
	if err := r.db.GetContext(ctx, &user, query, name); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find user by name: %w", err)
	}
	return &user, nil
}

// FindByID returns a user by identifier.
func (r *UserRepository) FindByID(ctx context.Context, id int64) (*models.User, error) {
	const query = `SELECT id, name, password_hash, level FROM users WHERE id = $1 LIMIT 1`
	var user models.User
	if err := r.db.GetContext(ctx, &user, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find user by id: %w", err)
	}
	return &user, nil
}

// List returns every user without credentials, ordered by name.
func (r *UserRepository) List(ctx context.Context) ([]models.UserInfo, error) {
	const query = `SELECT id, name, level FROM users ORDER BY name ASC`
	users := make([]models.UserInfo, 0)
	if err := r.db.SelectContext(ctx, &users, query); err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

// ExistsByName reports whether a user with the given name exists.
func (r *UserRepository) ExistsByName(ctx context.Context, name string) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM users WHERE name = $1)`
	var exists bool
	if err := r.db.GetContext(ctx, &exists, query, name); err != nil {
		return false, fmt.Errorf("check user name: %w", err)
	}
	return exists, nil
}

// Create inserts a user and assigns its generated id.
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	const query = `INSERT INTO users (name, password_hash, level) VALUES ($1, $2, $3) RETURNING id`
	if err := r.db.GetContext(ctx, &user.ID, query, user.Name, user.PasswordHash, user.Level); err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}
