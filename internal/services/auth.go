package services

import (
	"errors"
	"fmt"
	"log"
	"time"

	"eventease/internal/models"
	"eventease/internal/utils"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidCredentials is returned when login fails, without revealing
// whether the email or the password was wrong.
var ErrInvalidCredentials = errors.New("invalid email or password")

// purposeReset marks tokens minted for the password reset flow. They are
// rejected as bearer tokens.
const purposeReset = "password_reset"

const resetTokenTTL = time.Hour

// UserRepository is the data access surface the auth service needs
type UserRepository interface {
	Create(email, passwordHash, name string, role models.UserRole) (*models.User, error)
	GetByID(id int) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	UpdatePassword(id int, passwordHash string) error
}

// AuthService handles signup, login, token verification, and the
// password reset flow
type AuthService struct {
	userRepo UserRepository
	audit    AuditRecorder
	mailer   Mailer
	hasher   *utils.Hasher
	secret   []byte
	tokenTTL time.Duration
}

// NewAuthService creates a new auth service
func NewAuthService(userRepo UserRepository, audit AuditRecorder, mailer Mailer, hasher *utils.Hasher, jwtSecret string, tokenTTL time.Duration) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		audit:    audit,
		mailer:   mailer,
		hasher:   hasher,
		secret:   []byte(jwtSecret),
		tokenTTL: tokenTTL,
	}
}

// Claims is the JWT payload carried by bearer and reset tokens
type Claims struct {
	UserID  int             `json:"uid"`
	Role    models.UserRole `json:"role"`
	Purpose string          `json:"purpose,omitempty"`
	jwt.RegisteredClaims
}

// Session is returned by signup and login
type Session struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      *models.User `json:"user"`
}

// Signup creates a new account and returns a session for it
func (s *AuthService) Signup(req *models.UserCreateRequest) (*Session, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user, err := s.userRepo.Create(req.Email, hash, req.Name, req.Role)
	if err != nil {
		if errors.Is(err, models.ErrDuplicateEntry) {
			return nil, models.NewValidationError("email", "an account with this email already exists")
		}
		return nil, err
	}

	return s.newSession(user)
}

// Login verifies credentials and returns a session. Failed attempts are
// recorded in the audit log.
func (s *AuthService) Login(email, password string) (*Session, error) {
	user, err := s.userRepo.GetByEmail(email)
	if err != nil {
		if errors.Is(err, models.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	ok, err := utils.VerifyPassword(password, user.PasswordHash)
	if err != nil {
		return nil, fmt.Errorf("failed to verify password: %w", err)
	}
	if !ok {
		s.recordAudit(user.ID, models.AuditLoginFailed, user.ID, email)
		return nil, ErrInvalidCredentials
	}

	s.recordAudit(user.ID, models.AuditLoginSucceeded, user.ID, email)
	return s.newSession(user)
}

// Logout records the sign-out. Bearer tokens are stateless, so nothing
// is revoked server-side; the client discards its copy.
func (s *AuthService) Logout(userID int) {
	s.recordAudit(userID, models.AuditLogout, userID, "")
}

// ChangePassword verifies the current password before replacing it
func (s *AuthService) ChangePassword(userID int, current, next string) error {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return models.ErrNotAuthenticated
	}

	ok, err := utils.VerifyPassword(current, user.PasswordHash)
	if err != nil {
		return fmt.Errorf("failed to verify password: %w", err)
	}
	if !ok {
		return models.NewValidationError("current_password", "current password is incorrect")
	}

	return s.setPassword(userID, next)
}

// RequestPasswordReset mails a short-lived reset token to the account.
// The response is identical whether or not the account exists, so the
// endpoint does not leak which emails are registered.
func (s *AuthService) RequestPasswordReset(email string) error {
	user, err := s.userRepo.GetByEmail(email)
	if err != nil {
		if errors.Is(err, models.ErrUserNotFound) {
			return nil
		}
		return err
	}

	token, err := s.newResetToken(user)
	if err != nil {
		return err
	}

	s.recordAudit(user.ID, models.AuditPasswordResetRequested, user.ID, user.Email)
	if err := s.mailer.SendPasswordReset(user.Email, token); err != nil {
		log.Printf("failed to send password reset email to user %d: %v", user.ID, err)
	}
	return nil
}

// ResetPassword replaces the password of the account named by a valid
// reset token
func (s *AuthService) ResetPassword(token, next string) error {
	claims, err := s.parseClaims(token)
	if err != nil || claims.Purpose != purposeReset {
		return models.NewValidationError("token", "reset token is invalid or expired")
	}

	if err := s.setPassword(claims.UserID, next); err != nil {
		return err
	}
	s.recordAudit(claims.UserID, models.AuditPasswordReset, claims.UserID, "")
	return nil
}

// CurrentUser re-resolves the authenticated user from storage
func (s *AuthService) CurrentUser(userID int) (*models.User, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, models.ErrNotAuthenticated
	}
	return user, nil
}

// VerifyToken parses and validates a bearer token, returning its claims.
// Purpose-bound tokens, such as reset tokens, never authenticate a
// request.
func (s *AuthService) VerifyToken(token string) (*Claims, error) {
	claims, err := s.parseClaims(token)
	if err != nil {
		return nil, err
	}
	if claims.Purpose != "" {
		return nil, models.ErrNotAuthenticated
	}
	return claims, nil
}

func (s *AuthService) parseClaims(token string) (*Claims, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !parsed.Valid {
		return nil, models.ErrNotAuthenticated
	}
	return claims, nil
}

func (s *AuthService) setPassword(userID int, next string) error {
	if len(next) < 8 {
		return models.NewValidationError("password", "password must be at least 8 characters")
	}
	hash, err := s.hasher.Hash(next)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	return s.userRepo.UpdatePassword(userID, hash)
}

func (s *AuthService) newSession(user *models.User) (*Session, error) {
	expiresAt := time.Now().Add(s.tokenTTL)
	claims := &Claims{
		UserID: user.ID,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   fmt.Sprintf("%d", user.ID),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token, err := s.signClaims(claims)
	if err != nil {
		return nil, err
	}
	return &Session{Token: token, ExpiresAt: expiresAt, User: user}, nil
}

func (s *AuthService) newResetToken(user *models.User) (string, error) {
	return s.signClaims(&Claims{
		UserID:  user.ID,
		Role:    user.Role,
		Purpose: purposeReset,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   fmt.Sprintf("%d", user.ID),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(resetTokenTTL)),
		},
	})
}

func (s *AuthService) signClaims(claims *Claims) (string, error) {
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return token, nil
}

func (s *AuthService) recordAudit(actorID int, action string, entityID int, details string) {
	if err := s.audit.Record(actorID, action, "user", entityID, details); err != nil {
		log.Printf("failed to record audit entry %s: %v", action, err)
	}
}
