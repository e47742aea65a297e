package authx

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

// ClaimsKey is the fiber locals key the validated claims are stored under.
const ClaimsKey = "authx_claims"

// Middleware validates bearer tokens on incoming requests.
type Middleware struct {
	tokens *TokenService
}

// NewMiddleware creates an authentication middleware.
func NewMiddleware(tokens *TokenService) *Middleware {
	return &Middleware{tokens: tokens}
}

// Authenticate rejects requests without a valid bearer token and stores the
// claims in the request locals.
func (m *Middleware) Authenticate() fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": authxErrors.New(ErrMissingToken).Error(),
			})
		}

		claims, err := m.tokens.Validate(parts[1])
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": err.Error(),
			})
		}

		c.Locals(ClaimsKey, claims)
		return c.Next()
	}
}
