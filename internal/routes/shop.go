package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/shopfront/shopfront/internal/analytics"
	"github.com/shopfront/shopfront/internal/cart"
	"github.com/shopfront/shopfront/internal/coupons"
	"github.com/shopfront/shopfront/internal/payments"
)

func RegisterCartRoutes(api fiber.Router, h *cart.Handler, protect fiber.Handler) {
	g := api.Group("/cart", protect)
	g.Get("/", h.Get)
	g.Post("/", h.Add)
	g.Delete("/", h.Remove)
	g.Put("/:id", h.UpdateQuantity)
}

func RegisterCouponRoutes(api fiber.Router, h *coupons.Handler, protect fiber.Handler) {
	g := api.Group("/coupons", protect)
	g.Get("/", h.Get)
	g.Post("/validate", h.Validate)
}

// RegisterPaymentRoutes runs idempotency after the auth guard so replay keys
// are scoped to the caller.
func RegisterPaymentRoutes(api fiber.Router, h *payments.Handler, protect, idempotency fiber.Handler) {
	g := api.Group("/payments", protect, idempotency)
	g.Post("/create-checkout-session", h.CreateCheckoutSession)
	g.Post("/checkout-success", h.CheckoutSuccess)
}

func RegisterAnalyticsRoutes(api fiber.Router, h *analytics.Handler, protect, admin fiber.Handler) {
	api.Get("/analytics", protect, admin, h.Get)
}
