package auth

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/shopfront/shopfront/internal/users"
)

const userLocalsKey = "user"

// ProtectRoute verifies the access cookie (or a bearer token) and attaches
// the resolved user to the request.
func ProtectRoute(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := c.Cookies(AccessCookie)
		if token == "" {
			authz := c.Get(fiber.HeaderAuthorization)
			if strings.HasPrefix(strings.ToLower(authz), "bearer ") {
				token = strings.TrimSpace(authz[len("Bearer "):])
			}
		}
		if token == "" {
			return fiber.NewError(http.StatusUnauthorized, "Unauthorized - No access token provided")
		}

		user, err := svc.Authorize(c.UserContext(), token)
		switch {
		case err == nil:
		case IsExpired(err):
			return fiber.NewError(http.StatusUnauthorized, "Unauthorized - Access token expired")
		case errors.Is(err, ErrInvalidCredential):
			return fiber.NewError(http.StatusUnauthorized, "Unauthorized - Invalid access token")
		case errors.Is(err, users.ErrNotFound):
			return fiber.NewError(http.StatusUnauthorized, "User not found")
		default:
			return err
		}

		c.Locals(userLocalsKey, user)
		c.Locals("user_id", user.ID)
		return c.Next()
	}
}

// AdminRoute must run after ProtectRoute.
func AdminRoute() fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, ok := CurrentUser(c)
		if !ok || !user.IsAdmin() {
			return fiber.NewError(http.StatusForbidden, "Access denied - Admin only")
		}
		return c.Next()
	}
}

// CurrentUser returns the user attached by ProtectRoute.
func CurrentUser(c *fiber.Ctx) (users.User, bool) {
	user, ok := c.Locals(userLocalsKey).(users.User)
	return user, ok
}
