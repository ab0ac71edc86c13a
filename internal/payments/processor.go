package payments

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
)

// ErrSessionNotFound is returned when the processor has no such checkout session.
var ErrSessionNotFound = errors.New("checkout session not found")

// Processor represents a connector to an external payment processor.
type Processor interface {
	CreateCheckoutSession(ctx context.Context, req CheckoutRequest) (CheckoutSession, error)
	RetrieveCheckoutSession(ctx context.Context, id string) (CheckoutSession, error)
}

// LineItem is one product line sent to the processor. Amounts are in cents.
type LineItem struct {
	Name            string
	Image           string
	UnitAmountCents int64
	Quantity        int64
}

// CheckoutRequest carries everything the processor needs to open a hosted checkout.
type CheckoutRequest struct {
	Lines           []LineItem
	DiscountPercent int
	SuccessURL      string
	CancelURL       string
	Metadata        map[string]string
	IdempotencyKey  string
}

// CheckoutSession is the processor's view of a checkout.
type CheckoutSession struct {
	ID               string
	Paid             bool
	AmountTotalCents int64
	Metadata         map[string]string
}

// StaticProcessor simulates a processor whose checkouts are paid immediately.
type StaticProcessor struct {
	mu       sync.Mutex
	sessions map[string]CheckoutSession
	byKey    map[string]string
}

// NewStaticProcessor constructs the development processor.
func NewStaticProcessor() *StaticProcessor {
	return &StaticProcessor{sessions: make(map[string]CheckoutSession), byKey: make(map[string]string)}
}

// CreateCheckoutSession approves the checkout with a synthetic session id.
func (p *StaticProcessor) CreateCheckoutSession(_ context.Context, req CheckoutRequest) (CheckoutSession, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if req.IdempotencyKey != "" {
		if id, ok := p.byKey[req.IdempotencyKey]; ok {
			return p.sessions[id], nil
		}
	}

	var total int64
	for _, line := range req.Lines {
		total += line.UnitAmountCents * line.Quantity
	}
	total -= discountCents(total, req.DiscountPercent)

	metadata := make(map[string]string, len(req.Metadata))
	for k, v := range req.Metadata {
		metadata[k] = v
	}
	session := CheckoutSession{ID: "cs_static_" + uuid.NewString(), Paid: true, AmountTotalCents: total, Metadata: metadata}
	p.sessions[session.ID] = session
	if req.IdempotencyKey != "" {
		p.byKey[req.IdempotencyKey] = session.ID
	}
	return session, nil
}

// RetrieveCheckoutSession returns a session created by this processor.
func (p *StaticProcessor) RetrieveCheckoutSession(_ context.Context, id string) (CheckoutSession, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	session, ok := p.sessions[id]
	if !ok {
		return CheckoutSession{}, ErrSessionNotFound
	}
	return session, nil
}

// MarkUnpaid flips a session to unpaid. Test helper.
func (p *StaticProcessor) MarkUnpaid(id string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if session, ok := p.sessions[id]; ok {
		session.Paid = false
		p.sessions[id] = session
	}
}

func discountCents(total int64, percent int) int64 {
	if percent <= 0 {
		return 0
	}
	// Round half up, matching the processor's percent_off rounding.
	return (total*int64(percent) + 50) / 100
}
