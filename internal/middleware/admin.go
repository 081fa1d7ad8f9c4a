package middleware

import (
	"net/http"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
)

const adminKeyHeader = "X-Admin-Key"

// AdminKey guards admin routes with a shared key compared against a bcrypt hash.
// An empty hash disables the guard.
func AdminKey(hash string) fiber.Handler {
	hashed := []byte(hash)
	return func(c *fiber.Ctx) error {
		if len(hashed) == 0 {
			return c.Next()
		}
		key := c.Get(adminKeyHeader)
		if key == "" {
			return fiber.NewError(http.StatusUnauthorized, "missing admin key")
		}
		if err := bcrypt.CompareHashAndPassword(hashed, []byte(key)); err != nil {
			return fiber.NewError(http.StatusForbidden, "invalid admin key")
		}
		c.Locals("admin", true)
		return c.Next()
	}
}
