package orders

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

type inMemoryStore struct {
	mu        sync.RWMutex
	orders    []Order
	bySession map[string]int
}

// NewInMemory creates a concurrency-safe in-memory order store useful for unit tests.
func NewInMemory() Store {
	return &inMemoryStore{bySession: make(map[string]int)}
}

func (s *inMemoryStore) Create(_ context.Context, order Order) (Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if idx, exists := s.bySession[order.StripeSessionID]; exists {
		return s.orders[idx], ErrDuplicateOrder
	}
	if order.ID == "" {
		order.ID = uuid.NewString()
	}
	if order.CreatedAt.IsZero() {
		order.CreatedAt = time.Now().UTC()
	}
	order.Items = append([]Item(nil), order.Items...)
	s.orders = append(s.orders, order)
	s.bySession[order.StripeSessionID] = len(s.orders) - 1
	return order, nil
}

func (s *inMemoryStore) FindBySession(_ context.Context, sessionID string) (Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	idx, ok := s.bySession[sessionID]
	if !ok {
		return Order{}, ErrNotFound
	}
	return s.orders[idx], nil
}

func (s *inMemoryStore) Totals(_ context.Context) (Totals, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var t Totals
	for _, o := range s.orders {
		t.Sales++
		t.RevenueCents += o.TotalCents
	}
	return t, nil
}

func (s *inMemoryStore) DailySales(_ context.Context, from, to time.Time) ([]DailySales, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	byDay := map[string]*DailySales{}
	for _, o := range s.orders {
		if o.CreatedAt.Before(from) || o.CreatedAt.After(to) {
			continue
		}
		day := o.CreatedAt.UTC().Format(DayFormat)
		d, ok := byDay[day]
		if !ok {
			d = &DailySales{Date: day}
			byDay[day] = d
		}
		d.Sales++
		d.RevenueCents += o.TotalCents
	}
	out := make([]DailySales, 0, len(byDay))
	for _, d := range byDay {
		out = append(out, *d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out, nil
}
