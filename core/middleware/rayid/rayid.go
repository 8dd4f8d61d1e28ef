package rayid

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// Header carries the ray ID on responses and, when supplied by an upstream
// proxy, on requests.
const Header = "X-Ray-Id"

// New returns middleware that attaches a unique ray ID to every request.
// An inbound ray ID from a trusted proxy is kept; otherwise one is generated.
// The ID is stored in locals under "ray_id" for log correlation.
func New() fiber.Handler {
	return func(c *fiber.Ctx) error {
		rid := c.Get(Header)
		if rid == "" {
			rid = uuid.NewString()
		}
		c.Locals("ray_id", rid)
		c.Set(Header, rid)
		return c.Next()
	}
}
