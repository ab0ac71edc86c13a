package catalog

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gofiber/fiber/v2"
)

// Handler exposes the /api/products endpoints.
type Handler struct {
	svc    *Service
	logger *slog.Logger
}

func NewHandler(svc *Service, logger *slog.Logger) *Handler {
	return &Handler{svc: svc, logger: logger}
}

type createRequest struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Image       string  `json:"image"`
	Category    string  `json:"category"`
}

func (h *Handler) List(c *fiber.Ctx) error {
	products, err := h.svc.List(c.UserContext())
	if err != nil {
		return err
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{"products": products})
}

func (h *Handler) Featured(c *fiber.Ctx) error {
	products, err := h.svc.Featured(c.UserContext())
	if errors.Is(err, ErrNoFeatured) {
		return fiber.NewError(http.StatusNotFound, "No featured products found")
	}
	if err != nil {
		return err
	}
	return c.Status(http.StatusOK).JSON(products)
}

func (h *Handler) Recommendations(c *fiber.Ctx) error {
	products, err := h.svc.Recommendations(c.UserContext())
	if err != nil {
		return err
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{"products": products})
}

func (h *Handler) ByCategory(c *fiber.Ctx) error {
	products, err := h.svc.ByCategory(c.UserContext(), c.Params("category"))
	if err != nil {
		return err
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{"products": products})
}

func (h *Handler) Create(c *fiber.Ctx) error {
	var req createRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "Invalid request body")
	}
	product, err := h.svc.Create(c.UserContext(), CreateInput(req))
	if errors.Is(err, ErrInvalidProduct) {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	if err != nil {
		return err
	}
	h.logger.Info("catalog.create completed", slog.String("product_id", product.ID))
	return c.Status(http.StatusCreated).JSON(product)
}

func (h *Handler) ToggleFeatured(c *fiber.Ctx) error {
	product, err := h.svc.ToggleFeatured(c.UserContext(), c.Params("id"))
	if errors.Is(err, ErrNotFound) {
		return fiber.NewError(http.StatusNotFound, "Product not found")
	}
	if err != nil {
		return err
	}
	return c.Status(http.StatusOK).JSON(product)
}

func (h *Handler) Delete(c *fiber.Ctx) error {
	err := h.svc.Delete(c.UserContext(), c.Params("id"))
	if errors.Is(err, ErrNotFound) {
		return fiber.NewError(http.StatusNotFound, "Product not found")
	}
	if err != nil {
		return err
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{"message": "Product deleted successfully"})
}
