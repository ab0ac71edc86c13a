package orders

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrDuplicateOrder indicates an order already exists for the checkout
	// session; the existing order is returned alongside it.
	ErrDuplicateOrder = errors.New("duplicate order")
	// ErrNotFound is returned when no order matches the lookup.
	ErrNotFound = errors.New("order not found")
)

// Item is a purchased product line. Prices are in cents.
type Item struct {
	ProductID  string `json:"product"`
	Quantity   int    `json:"quantity"`
	PriceCents int64  `json:"price"`
}

// Order is a paid checkout.
type Order struct {
	ID              string    `json:"_id"`
	UserID          string    `json:"user"`
	Items           []Item    `json:"products"`
	TotalCents      int64     `json:"totalAmount"`
	StripeSessionID string    `json:"stripeSessionId"`
	CreatedAt       time.Time `json:"createdAt"`
}

// Totals aggregates every order.
type Totals struct {
	Sales        int64
	RevenueCents int64
}

// DailySales aggregates orders of one UTC day (YYYY-MM-DD).
type DailySales struct {
	Date         string
	Sales        int64
	RevenueCents int64
}

// Store defines the contract implemented by order backends (e.g. Postgres).
type Store interface {
	Create(ctx context.Context, order Order) (Order, error)
	FindBySession(ctx context.Context, sessionID string) (Order, error)
	Totals(ctx context.Context) (Totals, error)
	DailySales(ctx context.Context, from, to time.Time) ([]DailySales, error)
}

// DayFormat is the date layout used to bucket daily sales.
const DayFormat = "2006-01-02"
