package auth

import (
	"context"
	"crypto/subtle"
	"errors"
	"log/slog"
	"strings"

	"github.com/shopfront/shopfront/internal/users"
)

// Service orchestrates the credential lifecycle over the user store, the
// token issuer and the refresh store.
type Service struct {
	users  *users.Service
	issuer *Issuer
	store  RefreshStore
	logger *slog.Logger
}

// NewService wires the session service.
func NewService(userSvc *users.Service, issuer *Issuer, store RefreshStore, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{users: userSvc, issuer: issuer, store: store, logger: logger}
}

// Issuer exposes the token issuer for the authorization middleware.
func (s *Service) Issuer() *Issuer {
	return s.issuer
}

// SignupInput is the signup request body.
type SignupInput struct {
	Name            string
	Email           string
	Password        string
	ConfirmPassword string
}

// Session is the outcome of a successful signup or login.
type Session struct {
	User   users.User
	Tokens TokenPair
}

// Signup registers a new customer and starts a session.
func (s *Service) Signup(ctx context.Context, in SignupInput) (Session, error) {
	if err := validateSignup(in); err != nil {
		return Session{}, err
	}

	user, err := s.users.Register(ctx, users.RegisterInput{Name: in.Name, Email: in.Email, Password: in.Password})
	if err != nil {
		if errors.Is(err, users.ErrEmailTaken) {
			return Session{}, ErrConflict
		}
		return Session{}, err
	}
	return s.start(ctx, user)
}

// Login verifies the password and starts a session, replacing any prior one.
func (s *Service) Login(ctx context.Context, email, password string) (Session, error) {
	if strings.TrimSpace(email) == "" || password == "" {
		return Session{}, invalid("Email and password are required")
	}
	user, err := s.users.Authenticate(ctx, email, password)
	if err != nil {
		if errors.Is(err, users.ErrNotFound) || errors.Is(err, users.ErrPasswordMismatch) {
			return Session{}, ErrInvalidCredentials
		}
		return Session{}, err
	}
	return s.start(ctx, user)
}

func (s *Service) start(ctx context.Context, user users.User) (Session, error) {
	pair, err := s.issuer.Issue(user.ID)
	if err != nil {
		return Session{}, err
	}
	if err := s.store.Store(ctx, user.ID, pair.RefreshToken); err != nil {
		return Session{}, err
	}
	return Session{User: user, Tokens: pair}, nil
}

// Logout revokes the stored refresh credential named by refreshToken. An empty
// or unverifiable token is treated as an already ended session.
func (s *Service) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}
	userID, err := s.issuer.ParseRefresh(refreshToken)
	if err != nil {
		s.logger.Debug("logout with unverifiable refresh token", slog.Any("error", err))
		return nil
	}
	return s.store.Revoke(ctx, userID)
}

// Refresh mints a new access credential when refreshToken is valid and still
// the stored one. The refresh credential itself is not rotated.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (string, error) {
	if refreshToken == "" {
		return "", ErrMissingCredential
	}
	userID, err := s.issuer.ParseRefresh(refreshToken)
	if err != nil {
		return "", err
	}
	stored, err := s.store.Lookup(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrRefreshNotFound) {
			return "", ErrRevokedCredential
		}
		return "", err
	}
	if subtle.ConstantTimeCompare([]byte(stored), []byte(refreshToken)) != 1 {
		return "", ErrRevokedCredential
	}
	return s.issuer.IssueAccess(userID)
}

// Authorize resolves the user behind an access credential.
func (s *Service) Authorize(ctx context.Context, accessToken string) (users.User, error) {
	userID, err := s.issuer.ParseAccess(accessToken)
	if err != nil {
		return users.User{}, err
	}
	return s.users.Get(ctx, userID)
}

func validateSignup(in SignupInput) error {
	switch {
	case strings.TrimSpace(in.Name) == "":
		return invalid("Name is required")
	case strings.TrimSpace(in.Email) == "":
		return invalid("Email is required")
	case !strings.Contains(in.Email, "@"):
		return invalid("Email is invalid")
	case len(in.Password) < users.MinPasswordLength:
		return invalid("Password must be at least 6 characters long")
	case len(in.Password) > users.MaxPasswordBytes:
		return invalid("Password must be at most 72 bytes long")
	case in.ConfirmPassword != "" && in.ConfirmPassword != in.Password:
		return invalid("Passwords do not match")
	}
	return nil
}
