package cart

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/shopfront/shopfront/internal/auth"
	"github.com/shopfront/shopfront/internal/catalog"
)

// Handler exposes /api/cart. Every route runs behind auth.ProtectRoute.
type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

type productRequest struct {
	ProductID string `json:"productId"`
}

type quantityRequest struct {
	Quantity *int `json:"quantity"`
}

func (h *Handler) Get(c *fiber.Ctx) error {
	user, ok := auth.CurrentUser(c)
	if !ok {
		return fiber.NewError(http.StatusUnauthorized, "Unauthorized")
	}
	lines, err := h.svc.Lines(c.UserContext(), user.ID)
	if err != nil {
		return err
	}
	return c.Status(http.StatusOK).JSON(lines)
}

func (h *Handler) Add(c *fiber.Ctx) error {
	user, ok := auth.CurrentUser(c)
	if !ok {
		return fiber.NewError(http.StatusUnauthorized, "Unauthorized")
	}
	var req productRequest
	if err := c.BodyParser(&req); err != nil || req.ProductID == "" {
		return fiber.NewError(http.StatusBadRequest, "productId is required")
	}
	lines, err := h.svc.Add(c.UserContext(), user.ID, req.ProductID)
	if err != nil {
		return mapError(err)
	}
	return c.Status(http.StatusOK).JSON(lines)
}

func (h *Handler) Remove(c *fiber.Ctx) error {
	user, ok := auth.CurrentUser(c)
	if !ok {
		return fiber.NewError(http.StatusUnauthorized, "Unauthorized")
	}
	var req productRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(http.StatusBadRequest, "Invalid request body")
		}
	}
	lines, err := h.svc.Remove(c.UserContext(), user.ID, req.ProductID)
	if err != nil {
		return mapError(err)
	}
	return c.Status(http.StatusOK).JSON(lines)
}

func (h *Handler) UpdateQuantity(c *fiber.Ctx) error {
	user, ok := auth.CurrentUser(c)
	if !ok {
		return fiber.NewError(http.StatusUnauthorized, "Unauthorized")
	}
	var req quantityRequest
	if err := c.BodyParser(&req); err != nil || req.Quantity == nil {
		return fiber.NewError(http.StatusBadRequest, "quantity is required")
	}
	lines, err := h.svc.UpdateQuantity(c.UserContext(), user.ID, c.Params("id"), *req.Quantity)
	if err != nil {
		return mapError(err)
	}
	return c.Status(http.StatusOK).JSON(lines)
}

func mapError(err error) error {
	switch {
	case errors.Is(err, catalog.ErrNotFound):
		return fiber.NewError(http.StatusNotFound, "Product not found")
	case errors.Is(err, ErrNotInCart):
		return fiber.NewError(http.StatusNotFound, "Product not found in cart")
	case errors.Is(err, ErrInvalidQuantity):
		return fiber.NewError(http.StatusBadRequest, err.Error())
	default:
		return err
	}
}
