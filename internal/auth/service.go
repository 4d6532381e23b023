package auth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Desarrollo-Prime/server-bigc/internal/model"
	"github.com/Desarrollo-Prime/server-bigc/internal/repository"
)

// Principal is the authenticated identity attached to a request. It is
// derived fresh on every request from the token plus current store
// state and never outlives the request.
type Principal struct {
	UserID    int64
	UserName  string
	CompanyID int64
	Roles     []string
}

// LoginResult is what a successful login returns to the client.
type LoginResult struct {
	AccessToken string     `json:"access_token"`
	User        model.User `json:"user"`
}

// Service is the authentication core: credential verification, token
// issuance and token validation.
type Service interface {
	// Login verifies a username/password pair and issues an access
	// token. Every failure maps to ErrInvalidCredentials.
	Login(ctx context.Context, userName, password string) (*LoginResult, error)

	// Authenticate validates a bearer token and re-resolves the subject
	// from the store. A user disabled or blocked after issuance fails
	// here; this re-read is the system's only revocation mechanism.
	Authenticate(ctx context.Context, token string) (*Principal, error)
}

type service struct {
	users repository.UserRepository
	codec *TokenCodec
}

// NewService constructs the authentication service.
func NewService(users repository.UserRepository, codec *TokenCodec) Service {
	return &service{users: users, codec: codec}
}

func (s *service) Login(ctx context.Context, userName, password string) (*LoginResult, error) {
	user, err := s.users.FindActiveByUsername(ctx, userName)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	if !VerifierFor(user.Password).Verify(user.Password, password) {
		return nil, ErrInvalidCredentials
	}

	sanitized := user.Sanitized()
	token, err := s.codec.Issue(sanitized)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	return &LoginResult{AccessToken: token, User: sanitized}, nil
}

func (s *service) Authenticate(ctx context.Context, token string) (*Principal, error) {
	claims, err := s.codec.Verify(token)
	if err != nil {
		return nil, ErrInvalidToken
	}

	// The token's role claims are stale the moment an assignment
	// changes. Re-resolve the user so disable/block/role changes take
	// effect on the very next request.
	user, err := s.users.FindActiveByUsername(ctx, claims.UserName)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrInvalidToken
		}
		return nil, fmt.Errorf("resolve user: %w", err)
	}

	return &Principal{
		UserID:    user.ID,
		UserName:  user.UserName,
		CompanyID: user.CompanyID,
		Roles:     user.Roles,
	}, nil
}
