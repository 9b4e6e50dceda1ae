package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/pelicoin/ledger-server/internal/server/auth"
)

const claimsKey = "claims"

// sessionCookie is where the browser keeps the token; an Authorization
// bearer header works too for non-browser callers.
const sessionCookie = "session_token"

func tokenFromRequest(c *fiber.Ctx) string {
	if h := c.Get(fiber.HeaderAuthorization); h != "" {
		if token, found := strings.CutPrefix(h, "Bearer "); found {
			return token
		}
	}
	return c.Cookies(sessionCookie)
}

func (s *HTTPServer) accessTokenMiddleware(c *fiber.Ctx) error {
	token := tokenFromRequest(c)
	if token == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Missing token"})
	}

	claims, err := auth.ParseToken(token, s.jwtSecret)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	c.Locals(claimsKey, claims)
	return c.Next()
}

func (s *HTTPServer) adminOnly(c *fiber.Ctx) error {
	claims := c.Locals(claimsKey).(*auth.Claims)
	if !s.isAdmin(claims.Email) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Admin access required"})
	}
	return c.Next()
}

func requestClaims(c *fiber.Ctx) *auth.Claims {
	return c.Locals(claimsKey).(*auth.Claims)
}
