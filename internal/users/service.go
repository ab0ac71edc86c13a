package users

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const (
	// MinPasswordLength mirrors the storefront's signup rule.
	MinPasswordLength = 6
	// MaxPasswordBytes is the longest input bcrypt hashes.
	MaxPasswordBytes = 72
)

// ErrPasswordMismatch is returned by Authenticate when the hash comparison fails.
var ErrPasswordMismatch = errors.New("password mismatch")

// Service manages user lifecycle.
type Service struct {
	repo Repository
	cost int
}

// NewService creates a new user service hashing passwords at bcrypt.DefaultCost.
func NewService(repo Repository) *Service {
	return &Service{repo: repo, cost: bcrypt.DefaultCost}
}

// Repository exposes the underlying store for collaborators that only read.
func (s *Service) Repository() Repository {
	return s.repo
}

// RegisterInput captures the fields required to create a user.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Role     Role
}

// Register creates a user and stores a bcrypt hash of the password.
func (s *Service) Register(ctx context.Context, in RegisterInput) (User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.cost)
	if err != nil {
		return User{}, err
	}

	role := in.Role
	if role == "" {
		role = RoleCustomer
	}

	now := time.Now().UTC()
	user := User{
		ID:           uuid.NewString(),
		Name:         strings.TrimSpace(in.Name),
		Email:        NormalizeEmail(in.Email),
		PasswordHash: hash,
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return User{}, err
	}
	return user, nil
}

// Authenticate looks the user up by email and verifies the password.
func (s *Service) Authenticate(ctx context.Context, email, password string) (User, error) {
	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return User{}, err
	}
	if err := bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(password)); err != nil {
		return User{}, ErrPasswordMismatch
	}
	return user, nil
}

// Get fetches a user by identifier.
func (s *Service) Get(ctx context.Context, id string) (User, error) {
	return s.repo.FindByID(ctx, id)
}

// Promote grants the admin role to the user owning email.
func (s *Service) Promote(ctx context.Context, email string) (User, error) {
	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return User{}, err
	}
	if err := s.repo.UpdateRole(ctx, user.ID, RoleAdmin); err != nil {
		return User{}, err
	}
	user.Role = RoleAdmin
	return user, nil
}

// NormalizeEmail trims and lower-cases an address so uniqueness is case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
