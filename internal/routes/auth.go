package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/shopfront/shopfront/internal/auth"
)

// RegisterAuthRoutes mounts signup, login, logout, refresh and profile.
func RegisterAuthRoutes(api fiber.Router, h *auth.Handler, protect, loginLimiter fiber.Handler) {
	g := api.Group("/auth")
	g.Post("/signup", h.Signup)
	g.Post("/login", loginLimiter, h.Login)
	g.Post("/logout", h.Logout)
	g.Post("/refresh", h.Refresh)
	g.Get("/profile", protect, h.Profile)
}
