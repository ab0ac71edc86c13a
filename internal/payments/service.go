package payments

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"

	"github.com/shopfront/shopfront/internal/catalog"
	"github.com/shopfront/shopfront/internal/coupons"
	"github.com/shopfront/shopfront/internal/notification"
	"github.com/shopfront/shopfront/internal/orders"
)

const (
	// GiftThresholdCents is the checkout total that earns a gift coupon.
	GiftThresholdCents = 20_000

	metaUserID     = "userId"
	metaCouponCode = "couponCode"
	metaProducts   = "products"
)

var (
	// ErrEmptyCart is returned when checkout is requested without products.
	ErrEmptyCart = errors.New("invalid or empty products array")
	// ErrInvalidLine is returned for unknown products or non-positive quantities.
	ErrInvalidLine = errors.New("invalid product line")
	// ErrNotPaid is returned by CheckoutSuccess while the session is unpaid.
	ErrNotPaid = errors.New("payment not completed")
	// ErrForeignSession is returned when a user confirms another user's checkout.
	ErrForeignSession = errors.New("checkout session belongs to another user")
)

// Service coordinates checkout sessions, coupons and order recording.
type Service struct {
	processor Processor
	products  catalog.Repository
	coupons   *coupons.Service
	orders    orders.Store
	notifier  notification.Notifier
	clientURL string
	logger    *slog.Logger
}

// NewService constructs the payment service. A nil processor falls back to the
// static development processor.
func NewService(processor Processor, products catalog.Repository, couponSvc *coupons.Service, store orders.Store, notifier notification.Notifier, clientURL string, logger *slog.Logger) *Service {
	if processor == nil {
		processor = NewStaticProcessor()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		processor: processor,
		products:  products,
		coupons:   couponSvc,
		orders:    store,
		notifier:  notifier,
		clientURL: clientURL,
		logger:    logger,
	}
}

// CheckoutLine is a product id and quantity chosen by the shopper.
type CheckoutLine struct {
	ProductID string
	Quantity  int
}

// CheckoutInput captures a checkout request.
type CheckoutInput struct {
	UserID         string
	Lines          []CheckoutLine
	CouponCode     string
	IdempotencyKey string
}

// CheckoutResult is returned to the client to redirect into the hosted checkout.
type CheckoutResult struct {
	SessionID  string
	TotalCents int64
	GiftCoupon *coupons.Coupon
}

type orderLine struct {
	ID       string `json:"id"`
	Quantity int    `json:"quantity"`
	Price    int64  `json:"price"`
}

// CreateCheckoutSession prices the lines from the catalog, applies the user's
// coupon and opens a processor checkout. Totals at or above GiftThresholdCents
// earn the user a gift coupon.
func (s *Service) CreateCheckoutSession(ctx context.Context, in CheckoutInput) (CheckoutResult, error) {
	if len(in.Lines) == 0 {
		return CheckoutResult{}, ErrEmptyCart
	}

	ids := make([]string, 0, len(in.Lines))
	for _, line := range in.Lines {
		if line.ProductID == "" || line.Quantity <= 0 {
			return CheckoutResult{}, fmt.Errorf("%w: quantity must be positive", ErrInvalidLine)
		}
		ids = append(ids, line.ProductID)
	}
	found, err := s.products.FindByIDs(ctx, ids)
	if err != nil {
		return CheckoutResult{}, err
	}
	byID := make(map[string]catalog.Product, len(found))
	for _, p := range found {
		byID[p.ID] = p
	}

	var (
		total     int64
		lineItems = make([]LineItem, 0, len(in.Lines))
		meta      = make([]orderLine, 0, len(in.Lines))
	)
	for _, line := range in.Lines {
		product, ok := byID[line.ProductID]
		if !ok {
			return CheckoutResult{}, fmt.Errorf("%w: unknown product %s", ErrInvalidLine, line.ProductID)
		}
		unit := toCents(product.Price)
		total += unit * int64(line.Quantity)
		lineItems = append(lineItems, LineItem{Name: product.Name, Image: product.Image, UnitAmountCents: unit, Quantity: int64(line.Quantity)})
		meta = append(meta, orderLine{ID: product.ID, Quantity: line.Quantity, Price: unit})
	}

	discount := 0
	couponCode := ""
	if in.CouponCode != "" {
		coupon, err := s.coupons.Validate(ctx, in.UserID, in.CouponCode)
		switch {
		case err == nil:
			discount = coupon.DiscountPercentage
			couponCode = coupon.Code
			total -= discountCents(total, discount)
		case errors.Is(err, coupons.ErrNotFound), errors.Is(err, coupons.ErrExpired):
			s.logger.Info("payments.checkout coupon ignored", slog.String("user_id", in.UserID), slog.Any("reason", err))
		default:
			return CheckoutResult{}, err
		}
	}

	products, err := json.Marshal(meta)
	if err != nil {
		return CheckoutResult{}, err
	}
	session, err := s.processor.CreateCheckoutSession(ctx, CheckoutRequest{
		Lines:           lineItems,
		DiscountPercent: discount,
		SuccessURL:      s.clientURL + "/purchase-success?session_id={CHECKOUT_SESSION_ID}",
		CancelURL:       s.clientURL + "/purchase-cancel",
		Metadata: map[string]string{
			metaUserID:     in.UserID,
			metaCouponCode: couponCode,
			metaProducts:   string(products),
		},
		IdempotencyKey: scopedKey(in.UserID, in.IdempotencyKey),
	})
	if err != nil {
		return CheckoutResult{}, err
	}

	result := CheckoutResult{SessionID: session.ID, TotalCents: total}
	if total >= GiftThresholdCents {
		gift, err := s.coupons.IssueGift(ctx, in.UserID)
		if err != nil {
			return CheckoutResult{}, err
		}
		result.GiftCoupon = &gift
		s.notifyGift(ctx, gift)
	}
	return result, nil
}

// SuccessResult describes the outcome of confirming a checkout.
type SuccessResult struct {
	OrderID   string
	Duplicate bool
}

// CheckoutSuccess confirms a paid checkout: it deactivates the coupon used and
// records the order. Repeated confirmations return the same order.
func (s *Service) CheckoutSuccess(ctx context.Context, userID, sessionID string) (SuccessResult, error) {
	session, err := s.processor.RetrieveCheckoutSession(ctx, sessionID)
	if err != nil {
		return SuccessResult{}, err
	}
	if !session.Paid {
		return SuccessResult{}, ErrNotPaid
	}
	if owner := session.Metadata[metaUserID]; owner != "" && owner != userID {
		return SuccessResult{}, ErrForeignSession
	}

	if code := session.Metadata[metaCouponCode]; code != "" {
		if err := s.coupons.Deactivate(ctx, userID, code); err != nil && !errors.Is(err, coupons.ErrNotFound) {
			return SuccessResult{}, err
		}
	}

	var lines []orderLine
	if raw := session.Metadata[metaProducts]; raw != "" {
		if err := json.Unmarshal([]byte(raw), &lines); err != nil {
			return SuccessResult{}, fmt.Errorf("decode session products: %w", err)
		}
	}
	items := make([]orders.Item, 0, len(lines))
	for _, line := range lines {
		items = append(items, orders.Item{ProductID: line.ID, Quantity: line.Quantity, PriceCents: line.Price})
	}

	order, err := s.orders.Create(ctx, orders.Order{
		UserID:          userID,
		Items:           items,
		TotalCents:      session.AmountTotalCents,
		StripeSessionID: session.ID,
	})
	if errors.Is(err, orders.ErrDuplicateOrder) {
		return SuccessResult{OrderID: order.ID, Duplicate: true}, nil
	}
	if err != nil {
		return SuccessResult{}, err
	}
	s.logger.Info("payments.order recorded", slog.String("order_id", order.ID), slog.String("user_id", userID), slog.Int64("total_cents", order.TotalCents))
	return SuccessResult{OrderID: order.ID}, nil
}

func (s *Service) notifyGift(ctx context.Context, gift coupons.Coupon) {
	if s.notifier == nil {
		return
	}
	msg := notification.Message{
		Kind:        notification.KindGiftCoupon,
		Destination: gift.UserID,
		Body:        fmt.Sprintf("You earned coupon %s for %d%% off your next order", gift.Code, gift.DiscountPercentage),
	}
	if err := s.notifier.Send(ctx, msg); err != nil {
		s.logger.Warn("payments.gift notification failed", slog.String("user_id", gift.UserID), slog.Any("error", err))
	}
}

// scopedKey binds a client idempotency key to its user so two shoppers reusing
// a key never share a processor session.
func scopedKey(userID, key string) string {
	if key == "" {
		return ""
	}
	return userID + ":" + key
}

func toCents(price float64) int64 {
	return int64(math.Round(price * 100))
}
