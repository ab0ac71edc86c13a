package payments

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/shopfront/shopfront/internal/auth"
)

const idempotencyKeyHeader = "Idempotency-Key"

// Handler exposes /api/payments behind auth.ProtectRoute.
type Handler struct {
	svc    *Service
	logger *slog.Logger
}

// NewHandler builds a payments HTTP handler.
func NewHandler(svc *Service, logger *slog.Logger) *Handler {
	return &Handler{svc: svc, logger: logger}
}

type checkoutProduct struct {
	ID       string `json:"_id"`
	AltID    string `json:"id"`
	Quantity int    `json:"quantity"`
}

type checkoutRequest struct {
	Products   []checkoutProduct `json:"products"`
	CouponCode string            `json:"couponCode"`
}

type checkoutResponse struct {
	ID          string  `json:"id"`
	TotalAmount float64 `json:"totalAmount"`
}

// CreateCheckoutSession handles POST /create-checkout-session.
func (h *Handler) CreateCheckoutSession(c *fiber.Ctx) error {
	user, ok := auth.CurrentUser(c)
	if !ok {
		return fiber.NewError(http.StatusUnauthorized, "Unauthorized")
	}
	var req checkoutRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "Invalid request body")
	}

	lines := make([]CheckoutLine, 0, len(req.Products))
	for _, p := range req.Products {
		id := p.ID
		if id == "" {
			id = p.AltID
		}
		lines = append(lines, CheckoutLine{ProductID: id, Quantity: p.Quantity})
	}

	result, err := h.svc.CreateCheckoutSession(c.UserContext(), CheckoutInput{
		UserID:         user.ID,
		Lines:          lines,
		CouponCode:     req.CouponCode,
		IdempotencyKey: c.Get(idempotencyKeyHeader),
	})
	switch {
	case errors.Is(err, ErrEmptyCart):
		return fiber.NewError(http.StatusBadRequest, "Invalid or empty products array")
	case errors.Is(err, ErrInvalidLine):
		return fiber.NewError(http.StatusBadRequest, err.Error())
	case err != nil:
		h.logger.Error("payments.checkout failed", slog.String("user_id", user.ID), slog.Any("error", err))
		return err
	}
	return c.Status(http.StatusOK).JSON(checkoutResponse{ID: result.SessionID, TotalAmount: float64(result.TotalCents) / 100})
}

// CheckoutSuccess handles POST /checkout-success.
func (h *Handler) CheckoutSuccess(c *fiber.Ctx) error {
	user, ok := auth.CurrentUser(c)
	if !ok {
		return fiber.NewError(http.StatusUnauthorized, "Unauthorized")
	}
	var req struct {
		SessionID string `json:"sessionId"`
	}
	if err := c.BodyParser(&req); err != nil || req.SessionID == "" {
		return fiber.NewError(http.StatusBadRequest, "sessionId is required")
	}

	result, err := h.svc.CheckoutSuccess(c.UserContext(), user.ID, req.SessionID)
	switch {
	case errors.Is(err, ErrSessionNotFound):
		return fiber.NewError(http.StatusNotFound, "Checkout session not found")
	case errors.Is(err, ErrNotPaid):
		return fiber.NewError(http.StatusBadRequest, "Payment not completed")
	case errors.Is(err, ErrForeignSession):
		return fiber.NewError(http.StatusForbidden, "Access denied")
	case err != nil:
		h.logger.Error("payments.checkout_success failed", slog.String("user_id", user.ID), slog.Any("error", err))
		return err
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "Payment successful, order created, and coupon deactivated if used.",
		"orderId": result.OrderID,
	})
}
