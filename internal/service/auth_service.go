package service

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"runtime"
	"strings"
	"time"

	"pomo/internal/apperr"
	"pomo/internal/mailer"
	"pomo/internal/models"
	"pomo/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const (
	defaultTokenTTL   = 90 * 24 * time.Hour
	defaultResetTTL   = 10 * time.Minute
	defaultBcryptCost = 12
	resetSecretBytes  = 32
	minPasswordLength = 8
)

// Client-visible auth failure messages.
const (
	msgNotLoggedIn      = "You are not logged in! Please log in to get access"
	msgInvalidToken     = "Invalid or expired token. Please log in again"
	msgUserGone         = "The user belonging to this token does no longer exist"
	msgPasswordChanged  = "User recently changed their password. Please log in again"
	msgBadCredentials   = "Incorrect email or password"
	msgMissingCreds     = "Please provide email and password"
	msgNoSuchEmail      = "There is no user with this email address"
	msgMailFailed       = "There was an error while sending your email"
	msgResetInvalid     = "Token is invalid or expired"
	msgWrongCurrentPass = "Your current password is wrong"
	msgNotPermitted     = "You do not have the permission to complete this action"
	msgPasswordMismatch = "Passwords are not the same"
	msgPasswordTooShort = "Password must be at least 8 characters"
)

// AuthConfig is injected at construction; there is no ambient signing
// secret, so tests can supply deterministic values.
type AuthConfig struct {
	SigningKey          string
	TokenTTL            time.Duration // session token validity, default 90 days
	ResetTokenTTL       time.Duration // reset secret validity, default 10 minutes
	BcryptCost          int           // default 12
	MaxConcurrentHashes int           // bcrypt worker gate, default NumCPU
}

func (c AuthConfig) withDefaults() AuthConfig {
	if c.TokenTTL <= 0 {
		c.TokenTTL = defaultTokenTTL
	}
	if c.ResetTokenTTL <= 0 {
		c.ResetTokenTTL = defaultResetTTL
	}
	if c.BcryptCost <= 0 {
		c.BcryptCost = defaultBcryptCost
	}
	if c.MaxConcurrentHashes <= 0 {
		c.MaxConcurrentHashes = runtime.NumCPU()
	}
	return c
}

// AuthService is the credential and session guard: it owns signup,
// login, request authentication, role checks, and the password-reset
// round trip.
type AuthService struct {
	users    repository.Users
	mail     mailer.Mailer
	activity Activity
	cfg      AuthConfig

	// hashSem bounds concurrent bcrypt work so hashing load cannot
	// starve request handling.
	hashSem chan struct{}
}

func NewAuthService(users repository.Users, mail mailer.Mailer, activity Activity, cfg AuthConfig) *AuthService {
	cfg = cfg.withDefaults()
	return &AuthService{
		users:    users,
		mail:     mail,
		activity: activity,
		cfg:      cfg,
		hashSem:  make(chan struct{}, cfg.MaxConcurrentHashes),
	}
}

var _ Authorization = (*AuthService)(nil)

// Claims defines JWT claims.
type Claims struct {
	jwt.RegisteredClaims
	UserID int64 `json:"user_id"`
}

// SignUp validates the payload, hashes the password and creates the
// account. The confirmation value is compared and discarded.
func (s *AuthService) SignUp(ctx context.Context, in SignupInput) (*models.User, string, error) {
	username := strings.TrimSpace(in.Username)
	email := normalizeEmail(in.Email)
	if username == "" || email == "" {
		return nil, "", apperr.Validation("Please provide a username and an email")
	}
	if !strings.Contains(email, "@") {
		return nil, "", apperr.Validation("Please provide a valid email")
	}
	if err := validateNewPassword(in.Password, in.PasswordConfirm); err != nil {
		return nil, "", err
	}

	hash, err := s.hashPassword(ctx, in.Password)
	if err != nil {
		return nil, "", err
	}

	user, err := s.users.Create(ctx, username, email, hash, models.RoleUser)
	if err != nil {
		if err == repository.ErrDuplicate {
			return nil, "", apperr.Validation("Username or email already in use")
		}
		return nil, "", apperr.Internal(err)
	}

	token, err := s.issueToken(user.ID)
	if err != nil {
		return nil, "", apperr.Internal(err)
	}

	s.activity.Record(ctx, models.EventSignup, fmt.Sprintf("user %q signed up", user.Username), map[string]any{"user_id": user.ID})
	return user, token, nil
}

// Login verifies credentials. A missing field is a 400; an unknown
// email and a wrong password both fail with the same 401 so callers
// cannot enumerate accounts.
func (s *AuthService) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, "", apperr.Validation(msgMissingCreds)
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, "", apperr.Internal(err)
	}
	if user == nil || s.comparePassword(ctx, user.PasswordHash, password) != nil {
		return nil, "", apperr.Auth(msgBadCredentials)
	}

	token, err := s.issueToken(user.ID)
	if err != nil {
		return nil, "", apperr.Internal(err)
	}

	s.activity.Record(ctx, models.EventLogin, fmt.Sprintf("user %q logged in", user.Username), map[string]any{"user_id": user.ID})
	return user, token, nil
}

// Authenticate runs the request guard: extract the bearer token, verify
// it, resolve the account, and reject tokens issued before the last
// password change. Store faults surface as internal errors, not auth
// failures, so clients can tell "re-login" from "retry later".
func (s *AuthService) Authenticate(ctx context.Context, authHeader string) (*models.User, error) {
	tokenStr, err := extractBearer(authHeader)
	if err != nil {
		return nil, err
	}

	claims, err := s.parseToken(tokenStr)
	if err != nil {
		// Verification failures of any shape mean the credential is bad.
		return nil, apperr.Auth(msgInvalidToken)
	}

	user, err := s.users.GetByID(ctx, claims.UserID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if user == nil {
		return nil, apperr.Auth(msgUserGone)
	}

	if claims.IssuedAt != nil && user.PasswordChangedAfter(claims.IssuedAt.Time) {
		return nil, apperr.Auth(msgPasswordChanged)
	}

	return user, nil
}

// Authorize checks the authenticated user's role against the permitted
// set. It never authenticates by itself.
func (s *AuthService) Authorize(user *models.User, allowed ...models.Role) error {
	if user == nil {
		return apperr.Internal(fmt.Errorf("authorize called without an authenticated user"))
	}
	for _, role := range allowed {
		if user.Role == role {
			return nil
		}
	}
	return apperr.Forbidden(msgNotPermitted)
}

// ForgotPassword stores a hashed reset secret with a short expiry and
// mails the raw secret. If the mail cannot be delivered the pending
// reset is rolled back before the failure is surfaced, so no ghost
// token outlives a never-notified user.
func (s *AuthService) ForgotPassword(ctx context.Context, email, resetURLBase string) error {
	user, err := s.users.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return apperr.Internal(err)
	}
	if user == nil {
		return apperr.NotFound(msgNoSuchEmail)
	}

	raw := make([]byte, resetSecretBytes)
	if _, err := rand.Read(raw); err != nil {
		return apperr.Internal(fmt.Errorf("generate reset secret: %w", err))
	}
	rawToken := hex.EncodeToString(raw)

	expires := time.Now().UTC().Add(s.cfg.ResetTokenTTL)
	if err := s.users.SetResetToken(ctx, user.ID, hashResetToken(rawToken), expires); err != nil {
		return apperr.Internal(err)
	}

	resetURL := strings.TrimRight(resetURLBase, "/") + "/" + rawToken
	body := fmt.Sprintf(
		"Forgot your password? Submit a request with your new password and confirm password to: %s\nIf you didn't forget your password please ignore this email.",
		resetURL)

	if err := s.mail.Send(user.Email, "Your password reset token (valid for 10 minutes)", body); err != nil {
		if clearErr := s.users.ClearResetToken(ctx, user.ID); clearErr != nil {
			return apperr.Internal(fmt.Errorf("rollback reset token after failed dispatch: %w", clearErr))
		}
		return apperr.Dispatch(msgMailFailed, err)
	}

	return nil
}

// ResetPassword consumes a raw reset secret. Expired and unknown
// tokens are indistinguishable to the caller. On success the reset
// fields are cleared and the user is logged straight in.
func (s *AuthService) ResetPassword(ctx context.Context, rawToken, password, passwordConfirm string) (*models.User, string, error) {
	if err := validateNewPassword(password, passwordConfirm); err != nil {
		return nil, "", err
	}

	user, err := s.users.GetByResetToken(ctx, hashResetToken(rawToken), time.Now().UTC())
	if err != nil {
		return nil, "", apperr.Internal(err)
	}
	if user == nil {
		return nil, "", apperr.Validation(msgResetInvalid)
	}

	user, token, err := s.setPassword(ctx, user, password)
	if err != nil {
		return nil, "", err
	}

	s.activity.Record(ctx, models.EventPasswordReset, fmt.Sprintf("user %q reset their password", user.Username), map[string]any{"user_id": user.ID})
	return user, token, nil
}

// UpdatePassword changes the password of an already-authenticated user
// after re-checking the current one, and re-issues a session token.
func (s *AuthService) UpdatePassword(ctx context.Context, userID int64, currentPassword, newPassword, newPasswordConfirm string) (*models.User, string, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, "", apperr.Internal(err)
	}
	if user == nil {
		return nil, "", apperr.NotFound(msgUserGone)
	}

	if s.comparePassword(ctx, user.PasswordHash, currentPassword) != nil {
		return nil, "", apperr.Auth(msgWrongCurrentPass)
	}
	if err := validateNewPassword(newPassword, newPasswordConfirm); err != nil {
		return nil, "", err
	}

	return s.setPassword(ctx, user, newPassword)
}

// setPassword is the shared hash-on-save path: it hashes the new
// password, stamps the change time slightly in the past so tokens
// issued in the same second stay valid, clears any pending reset, and
// issues a fresh token.
func (s *AuthService) setPassword(ctx context.Context, user *models.User, password string) (*models.User, string, error) {
	hash, err := s.hashPassword(ctx, password)
	if err != nil {
		return nil, "", err
	}

	changedAt := time.Now().UTC().Add(-time.Second)
	if err := s.users.UpdatePassword(ctx, user.ID, hash, changedAt); err != nil {
		return nil, "", apperr.Internal(err)
	}
	user.PasswordHash = hash
	user.PasswordChangedAt = &changedAt
	user.PasswordResetToken = nil
	user.PasswordResetExpires = nil

	token, err := s.issueToken(user.ID)
	if err != nil {
		return nil, "", apperr.Internal(err)
	}
	return user, token, nil
}

// --- token helpers ---

// issueToken signs a session token for a user: pure function of the
// signing key, the user id and the issuance time.
func (s *AuthService) issueToken(userID int64) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.TokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		UserID: userID,
	})
	return token.SignedString([]byte(s.cfg.SigningKey))
}

// parseToken verifies signature and expiry and returns the claims.
func (s *AuthService) parseToken(accessToken string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(accessToken, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		// Ensure HMAC signing is used
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.cfg.SigningKey), nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token claims")
	}
	return claims, nil
}

func extractBearer(header string) (string, error) {
	header = strings.TrimSpace(header)
	if header == "" {
		return "", apperr.Auth(msgNotLoggedIn)
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
		return "", apperr.Auth(msgNotLoggedIn)
	}
	return strings.TrimSpace(parts[1]), nil
}

// --- password helpers ---

// hashPassword runs bcrypt through the worker gate so hashing cannot
// monopolize the process.
func (s *AuthService) hashPassword(ctx context.Context, password string) (string, error) {
	if err := s.acquireHashSlot(ctx); err != nil {
		return "", apperr.Internal(err)
	}
	defer s.releaseHashSlot()

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cfg.BcryptCost)
	if err != nil {
		return "", apperr.Internal(fmt.Errorf("hash password: %w", err))
	}
	return string(hash), nil
}

// comparePassword verifies a candidate against a stored hash, also
// through the worker gate (compare costs as much as hash).
func (s *AuthService) comparePassword(ctx context.Context, hash, password string) error {
	if err := s.acquireHashSlot(ctx); err != nil {
		return err
	}
	defer s.releaseHashSlot()
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}

func (s *AuthService) acquireHashSlot(ctx context.Context) error {
	select {
	case s.hashSem <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *AuthService) releaseHashSlot() { <-s.hashSem }

// hashResetToken derives the stored form of a raw reset secret. Plain
// sha256 over the secret: the secret's own randomness is the only salt,
// acceptable for a 10-minute artifact.
func hashResetToken(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validateNewPassword(password, confirm string) error {
	if len(password) < minPasswordLength {
		return apperr.Validation(msgPasswordTooShort)
	}
	if password != confirm {
		return apperr.Validation(msgPasswordMismatch)
	}
	return nil
}
