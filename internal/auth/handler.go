package auth

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/shopfront/shopfront/internal/users"
)

// Handler exposes the session endpoints under /api/auth.
type Handler struct {
	svc     *Service
	cookies CookieWriter
	logger  *slog.Logger
}

// NewHandler constructs the auth HTTP handler.
func NewHandler(svc *Service, cookies CookieWriter, logger *slog.Logger) *Handler {
	return &Handler{svc: svc, cookies: cookies, logger: logger}
}

type signupRequest struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type sessionResponse struct {
	User    users.Profile `json:"user"`
	Message string        `json:"message"`
}

// Signup handles POST /signup.
func (h *Handler) Signup(c *fiber.Ctx) error {
	var req signupRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "Invalid request body")
	}
	session, err := h.svc.Signup(c.UserContext(), SignupInput(req))
	if err != nil {
		return h.mapError(c, "signup", err)
	}
	h.cookies.SetSession(c, session.Tokens)
	h.logger.Info("auth.signup completed", slog.String("user_id", session.User.ID))
	return c.Status(http.StatusCreated).JSON(sessionResponse{User: session.User.Profile(), Message: "User created successfully"})
}

// Login handles POST /login.
func (h *Handler) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "Invalid request body")
	}
	session, err := h.svc.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return h.mapError(c, "login", err)
	}
	h.cookies.SetSession(c, session.Tokens)
	return c.Status(http.StatusOK).JSON(sessionResponse{User: session.User.Profile(), Message: "User logged in successfully"})
}

// Logout handles POST /logout. It always clears the cookies.
func (h *Handler) Logout(c *fiber.Ctx) error {
	if err := h.svc.Logout(c.UserContext(), c.Cookies(RefreshCookie)); err != nil {
		return h.mapError(c, "logout", err)
	}
	h.cookies.Clear(c)
	return c.SendStatus(http.StatusNoContent)
}

// Refresh handles POST /refresh.
func (h *Handler) Refresh(c *fiber.Ctx) error {
	access, err := h.svc.Refresh(c.UserContext(), c.Cookies(RefreshCookie))
	if err != nil {
		return h.mapError(c, "refresh", err)
	}
	h.cookies.SetAccess(c, access)
	return c.Status(http.StatusOK).JSON(fiber.Map{"message": "Token refreshed successfully"})
}

// Profile handles GET /profile behind ProtectRoute.
func (h *Handler) Profile(c *fiber.Ctx) error {
	user, ok := CurrentUser(c)
	if !ok {
		return fiber.NewError(http.StatusUnauthorized, "Unauthorized")
	}
	return c.Status(http.StatusOK).JSON(user.Profile())
}

func (h *Handler) mapError(c *fiber.Ctx, op string, err error) error {
	var verr *ValidationError
	switch {
	case errors.As(err, &verr):
		return fiber.NewError(http.StatusBadRequest, verr.Message)
	case errors.Is(err, ErrConflict):
		return fiber.NewError(http.StatusBadRequest, "User already exists")
	case errors.Is(err, ErrInvalidCredentials):
		return fiber.NewError(http.StatusBadRequest, "Invalid email or password")
	case errors.Is(err, ErrMissingCredential):
		return fiber.NewError(http.StatusUnauthorized, "No refresh token provided")
	case errors.Is(err, ErrInvalidCredential), errors.Is(err, ErrRevokedCredential):
		return fiber.NewError(http.StatusUnauthorized, "Invalid refresh token")
	default:
		h.logger.Error("auth."+op+" failed", slog.String("path", c.Path()), slog.Any("error", err))
		return fiber.NewError(http.StatusInternalServerError, "Server error")
	}
}
