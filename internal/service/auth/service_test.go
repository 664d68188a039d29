package auth

import (
	"context"
	"testing"

	"github.com/cmlabs-hris/checkin-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/checkin-backend-go/internal/pkg/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const testSecret = "test-secret-key-for-jwt"

func newJWT(t *testing.T) *jwt.JWTService {
	t.Helper()
	svc, err := jwt.NewJWTService(testSecret, "1h")
	require.NoError(t, err)
	return svc
}

func TestLogin_PlainPassword(t *testing.T) {
	jwtSvc := newJWT(t)
	svc, err := NewAuthService(jwtSvc, "s3cret", "")
	require.NoError(t, err)

	resp, err := svc.Login(context.Background(), auth.LoginRequest{Password: "s3cret"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.Equal(t, "Bearer", resp.TokenType)

	_, err = svc.Login(context.Background(), auth.LoginRequest{Password: "wrong"})
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
}

func TestLogin_HashedPassword(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	require.NoError(t, err)

	svc, err := NewAuthService(newJWT(t), "ignored", string(hash))
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), auth.LoginRequest{Password: "s3cret"})
	assert.NoError(t, err)

	_, err = svc.Login(context.Background(), auth.LoginRequest{Password: "ignored"})
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
}

func TestLogin_EmptyPasswordIsValidationError(t *testing.T) {
	svc, err := NewAuthService(newJWT(t), "s3cret", "")
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), auth.LoginRequest{Password: "  "})

	require.Error(t, err)
	assert.NotErrorIs(t, err, auth.ErrInvalidCredentials)
}

func TestNewAuthService_RejectsBadConfig(t *testing.T) {
	_, err := NewAuthService(newJWT(t), "", "")
	assert.Error(t, err)

	_, err = NewAuthService(newJWT(t), "", "not-a-bcrypt-hash")
	assert.Error(t, err)
}

func TestLogout_RevokesToken(t *testing.T) {
	jwtSvc := newJWT(t)
	svc, err := NewAuthService(jwtSvc, "s3cret", "")
	require.NoError(t, err)

	resp, err := svc.Login(context.Background(), auth.LoginRequest{Password: "s3cret"})
	require.NoError(t, err)

	require.NoError(t, svc.Logout(context.Background(), resp.AccessToken))
	assert.True(t, jwtSvc.IsTokenRevoked(resp.AccessToken))

	assert.ErrorIs(t, svc.Logout(context.Background(), "garbage"), auth.ErrInvalidToken)
}

func TestIssueSSEToken(t *testing.T) {
	jwtSvc := newJWT(t)
	svc, err := NewAuthService(jwtSvc, "s3cret", "")
	require.NoError(t, err)

	resp, err := svc.IssueSSEToken(context.Background())
	require.NoError(t, err)

	subject, err := jwtSvc.ValidateSSEToken(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, "admin", subject)
}
