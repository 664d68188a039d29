package auth

import (
	"context"
)

type AuthService interface {
	// Login checks the shared admin password and issues an access token
	Login(ctx context.Context, req LoginRequest) (TokenResponse, error)
	Logout(ctx context.Context, token string) error
	// IssueSSEToken hands out a short-lived token for the live event stream
	IssueSSEToken(ctx context.Context) (SSETokenResponse, error)
}
