package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"

	"github.com/shopfront/shopfront/internal/config"
	"github.com/shopfront/shopfront/internal/logging"
	"github.com/shopfront/shopfront/internal/routes"
)

func TestNewServesJSONErrors(t *testing.T) {
	cfg := config.Config{
		AppName:            "shopfront-test",
		AppEnv:             "development",
		AccessTokenSecret:  "a",
		RefreshTokenSecret: "b",
		AccessTokenTTL:     15 * time.Minute,
		RefreshTokenTTL:    7 * 24 * time.Hour,
	}
	srv, err := New(routes.Deps{Cfg: cfg, Logger: logging.Discard()})
	require.NoError(t, err)

	resp, err := srv.App().Test(httptest.NewRequest(fiber.MethodGet, "/api/auth/profile", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Equal(t, "Unauthorized - No access token provided", body["message"])

	resp, err = srv.App().Test(httptest.NewRequest(fiber.MethodGet, "/api/ping", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NotEmpty(t, resp.Header.Get("X-Request-ID"))
}

func TestNewWithoutLoggerRendersServerErrors(t *testing.T) {
	cfg := config.Config{
		AppEnv:             "development",
		AccessTokenSecret:  "a",
		RefreshTokenSecret: "b",
		AccessTokenTTL:     15 * time.Minute,
		RefreshTokenTTL:    7 * 24 * time.Hour,
	}
	srv, err := New(routes.Deps{Cfg: cfg})
	require.NoError(t, err)
	srv.App().Get("/boom", func(*fiber.Ctx) error { return errors.New("disk on fire") })

	resp, err := srv.App().Test(httptest.NewRequest(fiber.MethodGet, "/boom", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusInternalServerError, resp.StatusCode)

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Equal(t, "Server error", body["message"])
}
