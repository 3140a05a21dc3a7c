package auth

import (
	"context"

	"github.com/gofiber/fiber/v2"
)

type requestKey struct{}

// WithRequest attaches the inbound request to the context so that the token
// store can reach its cookie sink. Without a request in scope, cookie
// operations are skipped and only the durable sink is used.
func WithRequest(ctx context.Context, c *fiber.Ctx) context.Context {
	return context.WithValue(ctx, requestKey{}, c)
}

func requestFrom(ctx context.Context) (*fiber.Ctx, bool) {
	c, ok := ctx.Value(requestKey{}).(*fiber.Ctx)
	return c, ok
}
