package repository

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"strings"
	"testing"
	"time"

	"pomo/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
)

func contains(s, substr string) bool { return strings.Contains(s, substr) }

func newMockUserRepo(t *testing.T) (*UserRepository, sqlmock.Sqlmock, func()) {
	t.Helper()

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}

	repo := NewUserRepository(db)
	cleanup := func() {
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Fatalf("unmet sqlmock expectations: %v", err)
		}
		_ = db.Close()
	}
	return repo, mock, cleanup
}

func TestUserRepository_Create(t *testing.T) {
	tests := []struct {
		name           string
		username       string
		email          string
		mockExpect     func(sqlmock.Sqlmock)
		wantID         int64
		wantErr        bool
		wantDuplicate  bool
		errContainsStr string
	}{
		{
			name:     "success",
			username: "ana",
			email:    "ana@x.com",
			mockExpect: func(m sqlmock.Sqlmock) {
				m.ExpectExec(regexp.QuoteMeta(insertUserSQL)).
					WithArgs("ana", "ana@x.com", "user", "h123", sqlmock.AnyArg()).
					WillReturnResult(sqlmock.NewResult(42, 1))
			},
			wantID: 42,
		},
		{
			name:     "duplicate email",
			username: "bob",
			email:    "taken@x.com",
			mockExpect: func(m sqlmock.Sqlmock) {
				m.ExpectExec(regexp.QuoteMeta(insertUserSQL)).
					WithArgs("bob", "taken@x.com", "user", "h456", sqlmock.AnyArg()).
					WillReturnError(errors.New("constraint failed: UNIQUE constraint failed: users.email"))
			},
			wantErr:       true,
			wantDuplicate: true,
		},
		{
			name:     "exec error",
			username: "carol",
			email:    "carol@x.com",
			mockExpect: func(m sqlmock.Sqlmock) {
				m.ExpectExec(regexp.QuoteMeta(insertUserSQL)).
					WithArgs("carol", "carol@x.com", "user", "h789", sqlmock.AnyArg()).
					WillReturnError(errors.New("db exec failed"))
			},
			wantErr:        true,
			errContainsStr: "insert user",
		},
	}

	hashes := map[string]string{"ana": "h123", "bob": "h456", "carol": "h789"}

	for _, tt := range tests {
		tt := tt // capture
		t.Run(tt.name, func(t *testing.T) {
			repo, mock, cleanup := newMockUserRepo(t)
			defer cleanup()

			tt.mockExpect(mock)

			u, err := repo.Create(context.Background(), tt.username, tt.email, hashes[tt.username], models.RoleUser)

			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got nil")
				}
				if tt.wantDuplicate && !errors.Is(err, ErrDuplicate) {
					t.Fatalf("expected ErrDuplicate, got %v", err)
				}
				if tt.errContainsStr != "" && !contains(err.Error(), tt.errContainsStr) {
					t.Fatalf("expected error to contain %q, got %q", tt.errContainsStr, err.Error())
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if u.ID != tt.wantID {
				t.Fatalf("unexpected id: want %d, got %d", tt.wantID, u.ID)
			}
			if u.Role != models.RoleUser || !u.Active {
				t.Fatalf("unexpected stored user: %+v", u)
			}
		})
	}
}

func userRows(id int64, username, email, role, hash string, changedAt, resetExpires *time.Time, resetToken *string) *sqlmock.Rows {
	rows := sqlmock.NewRows([]string{
		"id", "username", "email", "role", "password_hash",
		"password_changed_at", "password_reset_token", "password_reset_expires",
		"active", "created_at",
	})
	var (
		changed any
		token   any
		expires any
	)
	if changedAt != nil {
		changed = *changedAt
	}
	if resetToken != nil {
		token = *resetToken
	}
	if resetExpires != nil {
		expires = *resetExpires
	}
	rows.AddRow(id, username, email, role, hash, changed, token, expires, true, time.Now().UTC())
	return rows
}

func TestUserRepository_GetByEmail(t *testing.T) {
	tests := []struct {
		name       string
		email      string
		mockExpect func(sqlmock.Sqlmock)
		wantNil    bool
		wantErr    bool
	}{
		{
			name:  "found",
			email: "ana@x.com",
			mockExpect: func(m sqlmock.Sqlmock) {
				m.ExpectQuery(regexp.QuoteMeta(selectUserByEmailSQL)).
					WithArgs("ana@x.com").
					WillReturnRows(userRows(7, "ana", "ana@x.com", "user", "h123", nil, nil, nil))
			},
		},
		{
			name:  "not found (ErrNoRows)",
			email: "missing@x.com",
			mockExpect: func(m sqlmock.Sqlmock) {
				m.ExpectQuery(regexp.QuoteMeta(selectUserByEmailSQL)).
					WithArgs("missing@x.com").
					WillReturnError(sql.ErrNoRows)
			},
			wantNil: true,
		},
		{
			name:  "query error",
			email: "bob@x.com",
			mockExpect: func(m sqlmock.Sqlmock) {
				m.ExpectQuery(regexp.QuoteMeta(selectUserByEmailSQL)).
					WithArgs("bob@x.com").
					WillReturnError(errors.New("db query failed"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		tt := tt // capture
		t.Run(tt.name, func(t *testing.T) {
			repo, mock, cleanup := newMockUserRepo(t)
			defer cleanup()

			tt.mockExpect(mock)

			u, err := repo.GetByEmail(context.Background(), tt.email)

			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tt.wantNil {
				if u != nil {
					t.Fatalf("expected nil user, got %+v", u)
				}
				return
			}
			if u == nil || u.ID != 7 || u.Email != "ana@x.com" {
				t.Fatalf("unexpected user: %+v", u)
			}
		})
	}
}

func TestUserRepository_GetByResetToken_PassesHashAndExpiry(t *testing.T) {
	repo, mock, cleanup := newMockUserRepo(t)
	defer cleanup()

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	mock.ExpectQuery(regexp.QuoteMeta(selectUserByResetSQL)).
		WithArgs("abcd1234", now.Format(timeLayout)).
		WillReturnError(sql.ErrNoRows)

	u, err := repo.GetByResetToken(context.Background(), "abcd1234", now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if u != nil {
		t.Fatalf("expected nil user for expired/missing token, got %+v", u)
	}
}

func TestUserRepository_UpdatePassword_ClearsResetFields(t *testing.T) {
	repo, mock, cleanup := newMockUserRepo(t)
	defer cleanup()

	changedAt := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	mock.ExpectExec(regexp.QuoteMeta(updateUserPasswordSQL)).
		WithArgs("newhash", changedAt.Format(timeLayout), int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.UpdatePassword(context.Background(), 5, "newhash", changedAt); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestUserRepository_SetAndClearResetToken(t *testing.T) {
	repo, mock, cleanup := newMockUserRepo(t)
	defer cleanup()

	expires := time.Date(2026, 3, 1, 12, 10, 0, 0, time.UTC)
	mock.ExpectExec(regexp.QuoteMeta(setResetTokenSQL)).
		WithArgs("deadbeef", expires.Format(timeLayout), int64(9)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(clearResetTokenSQL)).
		WithArgs(int64(9)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	ctx := context.Background()
	if err := repo.SetResetToken(ctx, 9, "deadbeef", expires); err != nil {
		t.Fatalf("SetResetToken: %v", err)
	}
	if err := repo.ClearResetToken(ctx, 9); err != nil {
		t.Fatalf("ClearResetToken: %v", err)
	}
}

func TestUserRepository_Deactivate(t *testing.T) {
	repo, mock, cleanup := newMockUserRepo(t)
	defer cleanup()

	mock.ExpectExec(regexp.QuoteMeta(deactivateUserSQL)).
		WithArgs(int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.Deactivate(context.Background(), 3); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
