package services

import (
	"testing"
	"time"

	"eventease/internal/models"
	"eventease/internal/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Low argon2 costs keep the auth tests fast.
func newTestAuthService(users *fakeUserRepo) (*AuthService, *fakeAudit, *fakeMailer) {
	audit := &fakeAudit{}
	mailer := &fakeMailer{}
	hasher := utils.NewHasher(8*1024, 1, 1)
	return NewAuthService(users, audit, mailer, hasher, "test-secret", time.Hour), audit, mailer
}

func TestSignupAndLogin(t *testing.T) {
	users := newFakeUserRepo()
	svc, audit, _ := newTestAuthService(users)

	session, err := svc.Signup(&models.UserCreateRequest{
		Email:    "Ada@Example.com",
		Password: "correct-horse",
		Name:     "Ada",
		Role:     models.RoleOrganizer,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, session.Token)
	assert.Equal(t, "ada@example.com", session.User.Email)
	assert.Equal(t, models.RoleOrganizer, session.User.Role)

	login, err := svc.Login("ada@example.com", "correct-horse")
	require.NoError(t, err)
	assert.Equal(t, session.User.ID, login.User.ID)
	assert.True(t, audit.has(models.AuditLoginSucceeded))
}

func TestSignupDuplicateEmail(t *testing.T) {
	users := newFakeUserRepo()
	svc, _, _ := newTestAuthService(users)

	req := &models.UserCreateRequest{Email: "ada@example.com", Password: "correct-horse", Name: "Ada", Role: models.RoleAttendee}
	_, err := svc.Signup(req)
	require.NoError(t, err)

	_, err = svc.Signup(req)
	assert.True(t, models.IsValidationError(err), "want validation error, got %v", err)
}

func TestLoginWrongPassword(t *testing.T) {
	users := newFakeUserRepo()
	svc, audit, _ := newTestAuthService(users)

	_, err := svc.Signup(&models.UserCreateRequest{Email: "ada@example.com", Password: "correct-horse", Name: "Ada", Role: models.RoleAttendee})
	require.NoError(t, err)

	_, err = svc.Login("ada@example.com", "wrong-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	assert.True(t, audit.has(models.AuditLoginFailed))

	// Unknown accounts fail the same way, so the response does not leak
	// which emails exist.
	_, err = svc.Login("nobody@example.com", "whatever")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestVerifyToken(t *testing.T) {
	users := newFakeUserRepo()
	svc, _, _ := newTestAuthService(users)

	session, err := svc.Signup(&models.UserCreateRequest{Email: "ada@example.com", Password: "correct-horse", Name: "Ada", Role: models.RoleOrganizer})
	require.NoError(t, err)

	claims, err := svc.VerifyToken(session.Token)
	require.NoError(t, err)
	assert.Equal(t, session.User.ID, claims.UserID)
	assert.Equal(t, models.RoleOrganizer, claims.Role)

	_, err = svc.VerifyToken(session.Token + "tampered")
	assert.ErrorIs(t, err, models.ErrNotAuthenticated)

	// A token signed with a different secret is rejected.
	other, _, _ := newTestAuthService(users)
	other.secret = []byte("other-secret")
	foreign, err := other.newSession(session.User)
	require.NoError(t, err)
	_, err = svc.VerifyToken(foreign.Token)
	assert.ErrorIs(t, err, models.ErrNotAuthenticated)
}

func TestChangePassword(t *testing.T) {
	users := newFakeUserRepo()
	svc, _, _ := newTestAuthService(users)

	session, err := svc.Signup(&models.UserCreateRequest{Email: "ada@example.com", Password: "correct-horse", Name: "Ada", Role: models.RoleAttendee})
	require.NoError(t, err)
	userID := session.User.ID

	err = svc.ChangePassword(userID, "wrong", "new-password-1")
	assert.True(t, models.IsValidationError(err), "want validation error, got %v", err)

	err = svc.ChangePassword(userID, "correct-horse", "short")
	assert.True(t, models.IsValidationError(err), "want validation error, got %v", err)

	require.NoError(t, svc.ChangePassword(userID, "correct-horse", "new-password-1"))

	_, err = svc.Login("ada@example.com", "new-password-1")
	require.NoError(t, err)
	_, err = svc.Login("ada@example.com", "correct-horse")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestPasswordResetFlow(t *testing.T) {
	users := newFakeUserRepo()
	svc, audit, mailer := newTestAuthService(users)

	_, err := svc.Signup(&models.UserCreateRequest{Email: "ada@example.com", Password: "correct-horse", Name: "Ada", Role: models.RoleAttendee})
	require.NoError(t, err)

	require.NoError(t, svc.RequestPasswordReset("ada@example.com"))
	require.Len(t, mailer.resetTokens, 1)
	assert.True(t, audit.has(models.AuditPasswordResetRequested))

	token := mailer.resetTokens[0]

	// A reset token never doubles as a bearer token.
	_, err = svc.VerifyToken(token)
	assert.ErrorIs(t, err, models.ErrNotAuthenticated)

	err = svc.ResetPassword(token, "short")
	assert.True(t, models.IsValidationError(err), "want validation error, got %v", err)

	require.NoError(t, svc.ResetPassword(token, "new-password-1"))
	assert.True(t, audit.has(models.AuditPasswordReset))

	_, err = svc.Login("ada@example.com", "new-password-1")
	require.NoError(t, err)
	_, err = svc.Login("ada@example.com", "correct-horse")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRequestPasswordResetUnknownEmail(t *testing.T) {
	users := newFakeUserRepo()
	svc, _, mailer := newTestAuthService(users)

	// Unknown accounts succeed silently so the endpoint does not reveal
	// which emails are registered.
	require.NoError(t, svc.RequestPasswordReset("nobody@example.com"))
	assert.Empty(t, mailer.resetTokens)
}

func TestResetPasswordRejectsBadTokens(t *testing.T) {
	users := newFakeUserRepo()
	svc, _, _ := newTestAuthService(users)

	session, err := svc.Signup(&models.UserCreateRequest{Email: "ada@example.com", Password: "correct-horse", Name: "Ada", Role: models.RoleAttendee})
	require.NoError(t, err)

	err = svc.ResetPassword("garbage", "new-password-1")
	assert.True(t, models.IsValidationError(err), "want validation error, got %v", err)

	// A plain session token is not a reset token.
	err = svc.ResetPassword(session.Token, "new-password-1")
	assert.True(t, models.IsValidationError(err), "want validation error, got %v", err)
}

func TestLogoutIsAudited(t *testing.T) {
	users := newFakeUserRepo()
	svc, audit, _ := newTestAuthService(users)

	svc.Logout(7)
	assert.True(t, audit.has(models.AuditLogout))
}
