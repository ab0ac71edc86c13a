package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Claims is the signed payload of both credential classes.
type Claims struct {
	UserID string `json:"userId"`
	jwt.RegisteredClaims
}

// TokenPair carries a freshly minted access and refresh credential.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// IssuerConfig holds the secret material and lifetimes of both credential classes.
type IssuerConfig struct {
	AccessSecret  []byte
	RefreshSecret []byte
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
	// Now overrides the clock; nil means time.Now.
	Now func() time.Time
}

// Issuer mints and verifies HS256 credentials. Access and refresh tokens use
// different secrets so one class can never be presented as the other.
type Issuer struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
	now           func() time.Time
}

// NewIssuer validates cfg and builds an Issuer.
func NewIssuer(cfg IssuerConfig) (*Issuer, error) {
	if len(cfg.AccessSecret) == 0 || len(cfg.RefreshSecret) == 0 {
		return nil, errors.New("token secrets are required")
	}
	if string(cfg.AccessSecret) == string(cfg.RefreshSecret) {
		return nil, errors.New("access and refresh secrets must differ")
	}
	if cfg.AccessTTL <= 0 || cfg.RefreshTTL <= 0 {
		return nil, errors.New("token TTLs must be positive")
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &Issuer{
		accessSecret:  cfg.AccessSecret,
		refreshSecret: cfg.RefreshSecret,
		accessTTL:     cfg.AccessTTL,
		refreshTTL:    cfg.RefreshTTL,
		now:           now,
	}, nil
}

// AccessTTL is the access credential lifetime, also used as the cookie max-age.
func (i *Issuer) AccessTTL() time.Duration { return i.accessTTL }

// RefreshTTL is the refresh credential lifetime, also used as the store TTL.
func (i *Issuer) RefreshTTL() time.Duration { return i.refreshTTL }

// Issue mints both credentials for userID.
func (i *Issuer) Issue(userID string) (TokenPair, error) {
	access, err := i.sign(userID, i.accessSecret, i.accessTTL)
	if err != nil {
		return TokenPair{}, err
	}
	refresh, err := i.sign(userID, i.refreshSecret, i.refreshTTL)
	if err != nil {
		return TokenPair{}, err
	}
	return TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

// IssueAccess mints only an access credential.
func (i *Issuer) IssueAccess(userID string) (string, error) {
	return i.sign(userID, i.accessSecret, i.accessTTL)
}

// ParseAccess verifies an access credential and returns its user identity.
func (i *Issuer) ParseAccess(token string) (string, error) {
	return i.parse(token, i.accessSecret)
}

// ParseRefresh verifies a refresh credential and returns its user identity.
func (i *Issuer) ParseRefresh(token string) (string, error) {
	return i.parse(token, i.refreshSecret)
}

func (i *Issuer) sign(userID string, secret []byte, ttl time.Duration) (string, error) {
	if userID == "" {
		return "", errors.New("user id is required")
	}
	now := i.now()
	claims := Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			// jti keeps two tokens minted in the same second distinct.
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

func (i *Issuer) parse(token string, secret []byte) (string, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(i.now),
	)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidCredential, err)
	}
	if claims.UserID == "" {
		return "", fmt.Errorf("%w: missing user id", ErrInvalidCredential)
	}
	return claims.UserID, nil
}

// IsExpired reports whether err came from an expired credential.
func IsExpired(err error) bool {
	return errors.Is(err, jwt.ErrTokenExpired)
}
