package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"eventease/internal/models"
)

// UserRepository handles user data operations
type UserRepository struct {
	db *sql.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

const userColumns = "id, email, password_hash, name, role, plan, created_at, updated_at"

func scanUser(row interface{ Scan(...any) error }) (*models.User, error) {
	user := &models.User{}
	err := row.Scan(
		&user.ID,
		&user.Email,
		&user.PasswordHash,
		&user.Name,
		&user.Role,
		&user.Plan,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return user, nil
}

// Create inserts a new user row
func (r *UserRepository) Create(email, passwordHash, name string, role models.UserRole) (*models.User, error) {
	query := `
		INSERT INTO users (email, password_hash, name, role, plan, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $6)
		RETURNING ` + userColumns

	user, err := scanUser(r.db.QueryRow(query, strings.ToLower(email), passwordHash, name, role, models.PlanFree, time.Now()))
	if err != nil {
		if strings.Contains(err.Error(), "duplicate key") {
			return nil, models.ErrDuplicateEntry
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return user, nil
}

// GetByID retrieves a user by ID
func (r *UserRepository) GetByID(id int) (*models.User, error) {
	user, err := scanUser(r.db.QueryRow("SELECT "+userColumns+" FROM users WHERE id = $1", id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

// GetByEmail retrieves a user by email address
func (r *UserRepository) GetByEmail(email string) (*models.User, error) {
	user, err := scanUser(r.db.QueryRow("SELECT "+userColumns+" FROM users WHERE email = $1", strings.ToLower(email)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}
	return user, nil
}

// List returns users ordered by creation time, newest first
func (r *UserRepository) List(limit, offset int) ([]*models.User, int, error) {
	var total int
	if err := r.db.QueryRow("SELECT COUNT(*) FROM users").Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count users: %w", err)
	}

	rows, err := r.db.Query("SELECT "+userColumns+" FROM users ORDER BY created_at DESC LIMIT $1 OFFSET $2", limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	var users []*models.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, user)
	}
	return users, total, rows.Err()
}

// UpdateRole changes a user's role
func (r *UserRepository) UpdateRole(id int, role models.UserRole) error {
	result, err := r.db.Exec("UPDATE users SET role = $1, updated_at = $2 WHERE id = $3", role, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to update role: %w", err)
	}
	return checkAffected(result, models.ErrUserNotFound)
}

// UpdatePlan changes a user's plan tier
func (r *UserRepository) UpdatePlan(id int, plan models.PlanTier) error {
	result, err := r.db.Exec("UPDATE users SET plan = $1, updated_at = $2 WHERE id = $3", plan, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to update plan: %w", err)
	}
	return checkAffected(result, models.ErrUserNotFound)
}

// UpdatePassword replaces a user's password hash
func (r *UserRepository) UpdatePassword(id int, passwordHash string) error {
	result, err := r.db.Exec("UPDATE users SET password_hash = $1, updated_at = $2 WHERE id = $3", passwordHash, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	return checkAffected(result, models.ErrUserNotFound)
}

func checkAffected(result sql.Result, notFound error) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check affected rows: %w", err)
	}
	if affected == 0 {
		return notFound
	}
	return nil
}
