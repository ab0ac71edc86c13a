package coupons

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/shopfront/shopfront/internal/auth"
)

// Handler exposes /api/coupons behind auth.ProtectRoute.
type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// Get returns the caller's active coupon, or null.
func (h *Handler) Get(c *fiber.Ctx) error {
	user, ok := auth.CurrentUser(c)
	if !ok {
		return fiber.NewError(http.StatusUnauthorized, "Unauthorized")
	}
	coupon, err := h.svc.Active(c.UserContext(), user.ID)
	if errors.Is(err, ErrNotFound) {
		return c.Status(http.StatusOK).JSON(nil)
	}
	if err != nil {
		return err
	}
	return c.Status(http.StatusOK).JSON(coupon)
}

func (h *Handler) Validate(c *fiber.Ctx) error {
	user, ok := auth.CurrentUser(c)
	if !ok {
		return fiber.NewError(http.StatusUnauthorized, "Unauthorized")
	}
	var req struct {
		Code string `json:"code"`
	}
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "Invalid request body")
	}
	coupon, err := h.svc.Validate(c.UserContext(), user.ID, req.Code)
	switch {
	case errors.Is(err, ErrNotFound):
		return fiber.NewError(http.StatusNotFound, "Coupon not found")
	case errors.Is(err, ErrExpired):
		return fiber.NewError(http.StatusNotFound, "Coupon expired")
	case err != nil:
		return err
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{
		"message":            "Coupon is valid",
		"code":               coupon.Code,
		"discountPercentage": coupon.DiscountPercentage,
	})
}
