package auth

import (
	"net/url"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/session-service/internal/config"
)

// Guard redirects unauthenticated navigations away from protected paths.
// It checks token presence only; expiry is left to downstream handlers.
type Guard struct {
	prefixes   []string
	loginPath  string
	cookieName string
}

// NewGuard constructs the guard from configuration.
func NewGuard(cfg config.GuardConfig, cookieName string) *Guard {
	loginPath := cfg.LoginPath
	if loginPath == "" {
		loginPath = "/login"
	}
	if cookieName == "" {
		cookieName = "token"
	}
	return &Guard{prefixes: cfg.ProtectedPrefixes, loginPath: loginPath, cookieName: cookieName}
}

// Handle gates inbound navigation requests.
func (g *Guard) Handle(c *fiber.Ctx) error {
	path := c.Path()
	normalized := normalizePath(path)

	if !g.isProtected(normalized) {
		return c.Next()
	}

	if c.Cookies(g.cookieName) == "" {
		redirect := g.loginPath + "?callbackUrl=" + url.QueryEscape(path)
		return c.Redirect(redirect, fiber.StatusFound)
	}

	return c.Next()
}

func (g *Guard) isProtected(path string) bool {
	for _, prefix := range g.prefixes {
		if path == prefix || strings.HasPrefix(path, prefix+"/") {
			return true
		}
	}
	return false
}

// normalizePath strips one trailing slash; the root path is exempt.
func normalizePath(path string) string {
	if strings.HasSuffix(path, "/") && path != "/" {
		return strings.TrimSuffix(path, "/")
	}
	return path
}
