package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/shopfront/shopfront/internal/catalog"
)

// RegisterProductRoutes mounts the public catalog reads and the admin writes.
func RegisterProductRoutes(api fiber.Router, h *catalog.Handler, protect, admin fiber.Handler) {
	g := api.Group("/products")
	g.Get("/", protect, admin, h.List)
	g.Get("/featured", h.Featured)
	g.Get("/recommendations", h.Recommendations)
	g.Get("/category/:category", h.ByCategory)
	g.Post("/", protect, admin, h.Create)
	g.Patch("/:id", protect, admin, h.ToggleFeatured)
	g.Delete("/:id", protect, admin, h.Delete)
}
