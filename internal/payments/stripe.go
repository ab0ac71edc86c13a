package payments

import (
	"context"
	"errors"
	"fmt"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
)

// StripeProcessor opens hosted checkouts through the Stripe API.
type StripeProcessor struct {
	api *client.API
}

// NewStripeProcessor builds a processor authenticated with secretKey.
func NewStripeProcessor(secretKey string) *StripeProcessor {
	return &StripeProcessor{api: client.New(secretKey, nil)}
}

// CreateCheckoutSession creates a one-off Stripe coupon when a discount
// applies and then the checkout session itself.
func (p *StripeProcessor) CreateCheckoutSession(ctx context.Context, req CheckoutRequest) (CheckoutSession, error) {
	params := &stripe.CheckoutSessionParams{
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		Mode:               stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL:         stripe.String(req.SuccessURL),
		CancelURL:          stripe.String(req.CancelURL),
	}
	params.Context = ctx
	if req.IdempotencyKey != "" {
		params.SetIdempotencyKey(req.IdempotencyKey)
	}

	for _, line := range req.Lines {
		product := &stripe.CheckoutSessionLineItemPriceDataProductDataParams{Name: stripe.String(line.Name)}
		if line.Image != "" {
			product.Images = stripe.StringSlice([]string{line.Image})
		}
		params.LineItems = append(params.LineItems, &stripe.CheckoutSessionLineItemParams{
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency:    stripe.String(string(stripe.CurrencyUSD)),
				ProductData: product,
				UnitAmount:  stripe.Int64(line.UnitAmountCents),
			},
			Quantity: stripe.Int64(line.Quantity),
		})
	}

	if req.DiscountPercent > 0 {
		couponParams := &stripe.CouponParams{
			PercentOff: stripe.Float64(float64(req.DiscountPercent)),
			Duration:   stripe.String(string(stripe.CouponDurationOnce)),
		}
		couponParams.Context = ctx
		coupon, err := p.api.Coupons.New(couponParams)
		if err != nil {
			return CheckoutSession{}, fmt.Errorf("create stripe coupon: %w", err)
		}
		params.Discounts = []*stripe.CheckoutSessionDiscountParams{{Coupon: stripe.String(coupon.ID)}}
	}

	for k, v := range req.Metadata {
		params.AddMetadata(k, v)
	}

	session, err := p.api.CheckoutSessions.New(params)
	if err != nil {
		return CheckoutSession{}, fmt.Errorf("create checkout session: %w", err)
	}
	return fromStripe(session), nil
}

// RetrieveCheckoutSession loads a session by id.
func (p *StripeProcessor) RetrieveCheckoutSession(ctx context.Context, id string) (CheckoutSession, error) {
	params := &stripe.CheckoutSessionParams{}
	params.Context = ctx
	session, err := p.api.CheckoutSessions.Get(id, params)
	if err != nil {
		var stripeErr *stripe.Error
		if errors.As(err, &stripeErr) && stripeErr.HTTPStatusCode == 404 {
			return CheckoutSession{}, ErrSessionNotFound
		}
		return CheckoutSession{}, fmt.Errorf("retrieve checkout session: %w", err)
	}
	return fromStripe(session), nil
}

func fromStripe(s *stripe.CheckoutSession) CheckoutSession {
	return CheckoutSession{
		ID:               s.ID,
		Paid:             s.PaymentStatus == stripe.CheckoutSessionPaymentStatusPaid,
		AmountTotalCents: s.AmountTotal,
		Metadata:         s.Metadata,
	}
}
