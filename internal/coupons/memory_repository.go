package coupons

import (
	"context"
	"sync"
)

type memoryRepository struct {
	mu     sync.RWMutex
	byUser map[string]Coupon
}

// NewMemoryRepository builds an in-memory coupon store for development and tests.
func NewMemoryRepository() Repository {
	return &memoryRepository{byUser: make(map[string]Coupon)}
}

func (r *memoryRepository) FindActiveByUser(_ context.Context, userID string) (Coupon, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.byUser[userID]
	if !ok || !c.IsActive {
		return Coupon{}, ErrNotFound
	}
	return c, nil
}

func (r *memoryRepository) FindActiveByCode(_ context.Context, userID, code string) (Coupon, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.byUser[userID]
	if !ok || !c.IsActive || c.Code != code {
		return Coupon{}, ErrNotFound
	}
	return c, nil
}

func (r *memoryRepository) Replace(_ context.Context, c Coupon) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byUser[c.UserID] = c
	return nil
}

func (r *memoryRepository) Deactivate(_ context.Context, userID, code string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.byUser[userID]
	if !ok || c.Code != code {
		return ErrNotFound
	}
	c.IsActive = false
	r.byUser[userID] = c
	return nil
}
