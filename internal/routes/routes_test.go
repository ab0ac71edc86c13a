package routes

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/shopfront/shopfront/internal/auth"
	"github.com/shopfront/shopfront/internal/config"
	"github.com/shopfront/shopfront/internal/logging"
)

type testClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

type harness struct {
	app   *fiber.App
	mr    *miniredis.Miniredis
	clock *testClock
}

func newHarness(t *testing.T) harness {
	t.Helper()
	mr := miniredis.RunT(t)
	cache := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = cache.Close() })

	clock := &testClock{t: time.Now().UTC()}
	cfg := config.Config{
		AppName:            "shopfront-test",
		AppEnv:             "test",
		ClientURL:          "http://shop.test",
		AccessTokenSecret:  "access-secret",
		RefreshTokenSecret: "refresh-secret",
		AccessTokenTTL:     15 * time.Minute,
		RefreshTokenTTL:    7 * 24 * time.Hour,
		IdempotencyTTL:     time.Hour,
		LoginRateLimit:     50,
	}
	logger := logging.Discard()
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler(logger)})
	require.NoError(t, Setup(app, Deps{Cfg: cfg, Cache: cache, Logger: logger, Now: clock.Now}))
	return harness{app: app, mr: mr, clock: clock}
}

func (h harness) do(t *testing.T, method, path, body string, cookies ...*http.Cookie) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	for _, c := range cookies {
		if c != nil {
			req.AddCookie(c)
		}
	}
	resp, err := h.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decode(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	defer resp.Body.Close()
	var out map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func cookie(resp *http.Response, name string) *http.Cookie {
	for _, c := range resp.Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

const signupBody = `{"name":"Ada","email":"Ada@Example.com","password":"secret1","confirmPassword":"secret1"}`

func TestSessionLifecycle(t *testing.T) {
	h := newHarness(t)

	resp := h.do(t, fiber.MethodPost, "/api/auth/signup", signupBody)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	access := cookie(resp, auth.AccessCookie)
	refresh := cookie(resp, auth.RefreshCookie)
	require.NotNil(t, access)
	require.NotNil(t, refresh)
	require.True(t, access.HttpOnly)
	require.False(t, access.Secure)
	require.Equal(t, http.SameSiteStrictMode, refresh.SameSite)

	body := decode(t, resp)
	user := body["user"].(map[string]any)
	require.Equal(t, "ada@example.com", user["email"])
	require.Equal(t, "customer", user["role"])
	require.NotContains(t, user, "password")

	userID := user["_id"].(string)
	stored, err := h.mr.Get("refresh_token:" + userID)
	require.NoError(t, err)
	require.Equal(t, refresh.Value, stored)

	resp = h.do(t, fiber.MethodPost, "/api/auth/signup", signupBody)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	require.Equal(t, "User already exists", decode(t, resp)["message"])

	resp = h.do(t, fiber.MethodGet, "/api/auth/profile", "", access)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, userID, decode(t, resp)["_id"])

	resp = h.do(t, fiber.MethodPost, "/api/auth/logout", "", refresh)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)
	require.False(t, h.mr.Exists("refresh_token:"+userID))

	resp = h.do(t, fiber.MethodPost, "/api/auth/refresh", "", refresh)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	require.Equal(t, "Invalid refresh token", decode(t, resp)["message"])

	resp = h.do(t, fiber.MethodPost, "/api/auth/logout", "")
	require.Equal(t, http.StatusNoContent, resp.StatusCode)
}

func TestLoginAndRefreshAfterAccessExpiry(t *testing.T) {
	h := newHarness(t)
	require.Equal(t, http.StatusCreated, h.do(t, fiber.MethodPost, "/api/auth/signup", signupBody).StatusCode)

	resp := h.do(t, fiber.MethodPost, "/api/auth/login", `{"email":"ada@example.com","password":"wrong"}`)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	require.Equal(t, "Invalid email or password", decode(t, resp)["message"])

	resp = h.do(t, fiber.MethodPost, "/api/auth/login", `{"email":"ada@example.com","password":"secret1"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	access := cookie(resp, auth.AccessCookie)
	refresh := cookie(resp, auth.RefreshCookie)

	h.clock.Advance(16 * time.Minute)
	resp = h.do(t, fiber.MethodGet, "/api/auth/profile", "", access)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	require.Equal(t, "Unauthorized - Access token expired", decode(t, resp)["message"])

	resp = h.do(t, fiber.MethodPost, "/api/auth/refresh", "", refresh)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	fresh := cookie(resp, auth.AccessCookie)
	require.NotNil(t, fresh)
	require.Equal(t, "Token refreshed successfully", decode(t, resp)["message"])

	resp = h.do(t, fiber.MethodGet, "/api/auth/profile", "", fresh)
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestProtectedAndAdminRoutes(t *testing.T) {
	h := newHarness(t)

	resp := h.do(t, fiber.MethodGet, "/api/cart", "")
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	require.Equal(t, "Unauthorized - No access token provided", decode(t, resp)["message"])

	resp = h.do(t, fiber.MethodPost, "/api/auth/signup", signupBody)
	access := cookie(resp, auth.AccessCookie)

	resp = h.do(t, fiber.MethodGet, "/api/analytics", "", access)
	require.Equal(t, http.StatusForbidden, resp.StatusCode)
	require.Equal(t, "Access denied - Admin only", decode(t, resp)["message"])

	resp = h.do(t, fiber.MethodPost, "/api/products", `{"name":"x","category":"y"}`, access)
	require.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = h.do(t, fiber.MethodGet, "/api/cart", "", access)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = h.do(t, fiber.MethodPost, "/api/cart", `{"productId":"missing"}`, access)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = h.do(t, fiber.MethodPost, "/api/payments/create-checkout-session", `{"products":[]}`, access)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	require.Equal(t, "Invalid or empty products array", decode(t, resp)["message"])

	resp = h.do(t, fiber.MethodPost, "/api/coupons/validate", `{"code":"GIFT000000"}`, access)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestPublicCatalogAndHealth(t *testing.T) {
	h := newHarness(t)

	resp := h.do(t, fiber.MethodGet, "/api/products/featured", "")
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	require.Equal(t, "No featured products found", decode(t, resp)["message"])

	resp = h.do(t, fiber.MethodGet, "/api/products/category/shoes", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = h.do(t, fiber.MethodGet, "/healthz", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	status := decode(t, resp)["status"].(map[string]any)
	require.Equal(t, "ok", status["redis"])
	require.Equal(t, "memory", status["mongodb"])
}

func TestSetupRequiresStoresOutsideDevelopment(t *testing.T) {
	app := fiber.New()
	err := Setup(app, Deps{Cfg: config.Config{AppEnv: "production"}, Logger: logging.Discard()})
	require.ErrorContains(t, err, "mongodb is required")
}
