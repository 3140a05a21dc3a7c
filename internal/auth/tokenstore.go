package auth

import (
	"context"
	"net"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/session-service/internal/persistence"
)

const tokenKVKey = "session:current-token"

// StoreConfig controls cookie and durable-sink behavior.
type StoreConfig struct {
	CookieName   string
	CookieMaxAge time.Duration
}

// Store persists the current token in two redundant sinks: a durable KV
// store and an HTTP cookie. Writes go to both, reads prefer the KV store,
// clears remove both. The sinks are only eventually consistent: there is no
// atomicity across them.
type Store struct {
	kv     persistence.KV
	cfg    StoreConfig
	logger *zap.Logger
}

// NewStore builds a token store over the given KV backend.
func NewStore(kv persistence.KV, cfg StoreConfig, logger *zap.Logger) *Store {
	if cfg.CookieName == "" {
		cfg.CookieName = "token"
	}
	if cfg.CookieMaxAge <= 0 {
		cfg.CookieMaxAge = 7 * 24 * time.Hour
	}
	return &Store{kv: kv, cfg: cfg, logger: logger}
}

// Save writes the token to the durable store and to the response cookie.
// Both writes are attempted even when the first fails.
func (s *Store) Save(ctx context.Context, token string) error {
	err := s.kv.Set(ctx, tokenKVKey, token, s.cfg.CookieMaxAge)

	if c, ok := requestFrom(ctx); ok {
		c.Cookie(s.buildCookie(c, token, int(s.cfg.CookieMaxAge.Seconds())))
	}
	return err
}

// Load returns the current token, reading the durable store first and
// falling back to the request cookie.
func (s *Store) Load(ctx context.Context) (string, bool) {
	if val, err := s.kv.Get(ctx, tokenKVKey); err == nil && val != "" {
		return val, true
	}
	if c, ok := requestFrom(ctx); ok {
		if val := c.Cookies(s.cfg.CookieName); val != "" {
			return val, true
		}
	}
	return "", false
}

// Clear deletes the token from both sinks.
func (s *Store) Clear(ctx context.Context) error {
	err := s.kv.Del(ctx, tokenKVKey)

	if c, ok := requestFrom(ctx); ok {
		expired := s.buildCookie(c, "", -1)
		expired.Expires = time.Now().Add(-time.Hour)
		c.Cookie(expired)
	}

	s.logger.Debug("token cleared from durable store and cookie")
	return err
}

// CookieName exposes the configured cookie name for the route guard.
func (s *Store) CookieName() string {
	return s.cfg.CookieName
}

func (s *Store) buildCookie(c *fiber.Ctx, value string, maxAge int) *fiber.Cookie {
	cookie := &fiber.Cookie{
		Name:     s.cfg.CookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		SameSite: fiber.CookieSameSiteLaxMode,
	}
	// Development hosts get a host-only cookie.
	if host := stripPort(c.Hostname()); !isLoopbackHost(host) {
		cookie.Domain = host
	}
	return cookie
}

func stripPort(host string) string {
	if h, _, err := net.SplitHostPort(host); err == nil {
		return h
	}
	return host
}

func isLoopbackHost(host string) bool {
	host = strings.ToLower(host)
	return host == "localhost" || host == "127.0.0.1" || host == "::1" ||
		strings.HasSuffix(host, ".localhost")
}
