package coupons

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	GiftPrefix          = "GIFT"
	GiftDiscountPercent = 10
	GiftValidity        = 30 * 24 * time.Hour
	giftSuffixLength    = 6
	codeAlphabet        = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

// Service implements coupon lookup, validation and gift issuance.
type Service struct {
	repo   Repository
	logger *slog.Logger
	now    func() time.Time
}

// NewService constructs the coupon service. A nil clock uses time.Now.
func NewService(repo Repository, logger *slog.Logger, now func() time.Time) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	if now == nil {
		now = time.Now
	}
	return &Service{repo: repo, logger: logger, now: now}
}

// Active returns the user's active coupon or ErrNotFound.
func (s *Service) Active(ctx context.Context, userID string) (Coupon, error) {
	return s.repo.FindActiveByUser(ctx, userID)
}

// Validate checks that code names an active, unexpired coupon of the user.
// An expired coupon is deactivated on the way out.
func (s *Service) Validate(ctx context.Context, userID, code string) (Coupon, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return Coupon{}, ErrNotFound
	}
	c, err := s.repo.FindActiveByCode(ctx, userID, code)
	if err != nil {
		return Coupon{}, err
	}
	if c.Expired(s.now()) {
		if err := s.repo.Deactivate(ctx, userID, code); err != nil && !errors.Is(err, ErrNotFound) {
			s.logger.Warn("coupons.validate deactivate failed", slog.String("user_id", userID), slog.Any("error", err))
		}
		return Coupon{}, ErrExpired
	}
	return c, nil
}

// Deactivate marks the user's coupon as used.
func (s *Service) Deactivate(ctx context.Context, userID, code string) error {
	return s.repo.Deactivate(ctx, userID, code)
}

// IssueGift replaces the user's coupon with a fresh gift coupon.
func (s *Service) IssueGift(ctx context.Context, userID string) (Coupon, error) {
	code, err := GenerateCode()
	if err != nil {
		return Coupon{}, err
	}
	now := s.now().UTC()
	c := Coupon{
		ID:                 uuid.NewString(),
		Code:               code,
		DiscountPercentage: GiftDiscountPercent,
		ExpirationDate:     now.Add(GiftValidity),
		IsActive:           true,
		UserID:             userID,
		CreatedAt:          now,
	}
	if err := s.repo.Replace(ctx, c); err != nil {
		return Coupon{}, fmt.Errorf("store gift coupon: %w", err)
	}
	return c, nil
}

// GenerateCode returns GIFT followed by six random uppercase alphanumerics.
func GenerateCode() (string, error) {
	var b strings.Builder
	b.WriteString(GiftPrefix)
	limit := big.NewInt(int64(len(codeAlphabet)))
	for i := 0; i < giftSuffixLength; i++ {
		n, err := rand.Int(rand.Reader, limit)
		if err != nil {
			return "", fmt.Errorf("generate coupon code: %w", err)
		}
		b.WriteByte(codeAlphabet[n.Int64()])
	}
	return b.String(), nil
}
