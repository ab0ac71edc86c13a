package auth

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

const (
	AccessCookie  = "accessToken"
	RefreshCookie = "refreshToken"
)

// CookieWriter sets and clears the credential cookies with fixed security attributes.
type CookieWriter struct {
	Secure     bool
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

// SetSession writes both credential cookies.
func (w CookieWriter) SetSession(c *fiber.Ctx, pair TokenPair) {
	w.SetAccess(c, pair.AccessToken)
	c.Cookie(w.cookie(RefreshCookie, pair.RefreshToken, w.RefreshTTL))
}

// SetAccess writes only the access cookie.
func (w CookieWriter) SetAccess(c *fiber.Ctx, token string) {
	c.Cookie(w.cookie(AccessCookie, token, w.AccessTTL))
}

// Clear expires both credential cookies.
func (w CookieWriter) Clear(c *fiber.Ctx) {
	for _, name := range []string{AccessCookie, RefreshCookie} {
		expired := w.cookie(name, "", 0)
		expired.Expires = time.Unix(0, 0)
		expired.MaxAge = -1
		c.Cookie(expired)
	}
}

func (w CookieWriter) cookie(name, value string, ttl time.Duration) *fiber.Cookie {
	return &fiber.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
		HTTPOnly: true,
		Secure:   w.Secure,
		SameSite: fiber.CookieSameSiteStrictMode,
	}
}
