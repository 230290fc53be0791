package middleware

import (
	"github.com/gofiber/fiber/v2"

	"github.com/noah-isme/interview-trainer-api/internal/utils"
)

// AuthOptions configures the WithAuth helper.
type AuthOptions struct {
	// RedirectTo sends anonymous browser requests to a page instead of answering 401.
	RedirectTo string
}

// WithAuth wraps a handler so it only runs for an authenticated user.
func WithAuth(handler fiber.Handler, opts AuthOptions) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if userIDFromLocals(c) != 0 {
			return handler(c)
		}
		if opts.RedirectTo != "" {
			return c.Redirect(opts.RedirectTo, fiber.StatusFound)
		}
		return utils.Fail(c, fiber.StatusUnauthorized, "authentication required", nil)
	}
}

func userIDFromLocals(c *fiber.Ctx) uint {
	switch id := c.Locals("user_id").(type) {
	case uint:
		return id
	case int:
		if id > 0 {
			return uint(id)
		}
	}
	return 0
}
