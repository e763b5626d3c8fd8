package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"pomo/internal/models"
)

// SQLite TIMESTAMP format shared by all repositories.
const timeLayout = "2006-01-02 15:04:05"

type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Ensure implementation of the Users interface at compile time.
var _ Users = (*UserRepository)(nil)

const (
	insertUserSQL = `INSERT INTO users (username, email, role, password_hash, created_at) VALUES (?, ?, ?, ?, ?)`

	selectUserByEmailSQL = `SELECT id, username, email, role, password_hash, password_changed_at, password_reset_token, password_reset_expires, active, created_at FROM users WHERE email = ? AND active = 1`
	selectUserByIDSQL    = `SELECT id, username, email, role, password_hash, password_changed_at, password_reset_token, password_reset_expires, active, created_at FROM users WHERE id = ? AND active = 1`
	selectUserByResetSQL = `SELECT id, username, email, role, password_hash, password_changed_at, password_reset_token, password_reset_expires, active, created_at FROM users WHERE password_reset_token = ? AND password_reset_expires > ? AND active = 1`
	selectAllUsersSQL    = `SELECT id, username, email, role, password_hash, password_changed_at, password_reset_token, password_reset_expires, active, created_at FROM users WHERE active = 1 ORDER BY id ASC`

	updateUserProfileSQL  = `UPDATE users SET username = ?, email = ? WHERE id = ?`
	updateUserPasswordSQL = `UPDATE users SET password_hash = ?, password_changed_at = ?, password_reset_token = NULL, password_reset_expires = NULL WHERE id = ?`
	setResetTokenSQL      = `UPDATE users SET password_reset_token = ?, password_reset_expires = ? WHERE id = ?`
	clearResetTokenSQL    = `UPDATE users SET password_reset_token = NULL, password_reset_expires = NULL WHERE id = ?`
	deactivateUserSQL     = `UPDATE users SET active = 0 WHERE id = ?`
)

// isUniqueViolation detects SQLite unique-constraint failures so the
// service layer can surface them as validation errors.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// Create inserts a new user and returns the stored record.
func (r *UserRepository) Create(ctx context.Context, username, email, passwordHash string, role models.Role) (*models.User, error) {
	createdAt := time.Now().UTC()
	res, err := r.db.ExecContext(ctx, insertUserSQL,
		username, email, string(role), passwordHash, createdAt.Format(timeLayout))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicate
		}
		return nil, fmt.Errorf("insert user %q: %w", username, err)
	}
	lastID, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("get last insert id for user %q: %w", username, err)
	}
	return &models.User{
		ID:           lastID,
		Username:     username,
		Email:        email,
		Role:         role,
		PasswordHash: passwordHash,
		Active:       true,
		CreatedAt:    createdAt,
	}, nil
}

// GetByEmail fetches an active user by email. Returns (nil, nil) if not found.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.getOne(ctx, selectUserByEmailSQL, email)
}

// GetByID fetches an active user by id. Returns (nil, nil) if not found.
func (r *UserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	return r.getOne(ctx, selectUserByIDSQL, id)
}

// GetByResetToken fetches the user holding an unexpired reset token hash.
// Expired and missing tokens are both (nil, nil).
func (r *UserRepository) GetByResetToken(ctx context.Context, tokenHash string, now time.Time) (*models.User, error) {
	return r.getOne(ctx, selectUserByResetSQL, tokenHash, now.UTC().Format(timeLayout))
}

func (r *UserRepository) getOne(ctx context.Context, query string, args ...any) (*models.User, error) {
	u, err := scanUser(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("select user: %w", err)
	}
	return u, nil
}

// List returns all active users, oldest first.
func (r *UserRepository) List(ctx context.Context) ([]models.User, error) {
	rows, err := r.db.QueryContext(ctx, selectAllUsersSQL)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	out := make([]models.User, 0, 16)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user row: %w", err)
		}
		out = append(out, *u)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateProfile changes username/email and returns the updated record.
func (r *UserRepository) UpdateProfile(ctx context.Context, id int64, username, email string) (*models.User, error) {
	if _, err := r.db.ExecContext(ctx, updateUserProfileSQL, username, email, id); err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicate
		}
		return nil, fmt.Errorf("update user %d profile: %w", id, err)
	}
	return r.GetByID(ctx, id)
}

// UpdatePassword stores the new hash, stamps password_changed_at and
// clears any pending reset token in one statement.
func (r *UserRepository) UpdatePassword(ctx context.Context, id int64, passwordHash string, changedAt time.Time) error {
	if _, err := r.db.ExecContext(ctx, updateUserPasswordSQL,
		passwordHash, changedAt.UTC().Format(timeLayout), id); err != nil {
		return fmt.Errorf("update user %d password: %w", id, err)
	}
	return nil
}

// SetResetToken stores a pending reset token hash and its expiry.
func (r *UserRepository) SetResetToken(ctx context.Context, id int64, tokenHash string, expires time.Time) error {
	if _, err := r.db.ExecContext(ctx, setResetTokenSQL,
		tokenHash, expires.UTC().Format(timeLayout), id); err != nil {
		return fmt.Errorf("set reset token for user %d: %w", id, err)
	}
	return nil
}

// ClearResetToken removes a pending reset (rollback after a failed
// dispatch, or cleanup after consumption).
func (r *UserRepository) ClearResetToken(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, clearResetTokenSQL, id); err != nil {
		return fmt.Errorf("clear reset token for user %d: %w", id, err)
	}
	return nil
}

// Deactivate soft-deletes the account.
func (r *UserRepository) Deactivate(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, deactivateUserSQL, id); err != nil {
		return fmt.Errorf("deactivate user %d: %w", id, err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*models.User, error) {
	var (
		u            models.User
		role         string
		changedAt    sql.NullTime
		resetToken   sql.NullString
		resetExpires sql.NullTime
	)
	if err := row.Scan(&u.ID, &u.Username, &u.Email, &role, &u.PasswordHash,
		&changedAt, &resetToken, &resetExpires, &u.Active, &u.CreatedAt); err != nil {
		return nil, err
	}
	u.Role = models.Role(role)
	if changedAt.Valid {
		t := changedAt.Time.UTC()
		u.PasswordChangedAt = &t
	}
	if resetToken.Valid {
		s := resetToken.String
		u.PasswordResetToken = &s
	}
	if resetExpires.Valid {
		t := resetExpires.Time.UTC()
		u.PasswordResetExpires = &t
	}
	u.CreatedAt = u.CreatedAt.UTC()
	return &u, nil
}
