package middleware

import (
	"iot-ledger-backend/internal/repository"

	"github.com/gofiber/fiber/v2"
)

// Role gates a route group on AccessManager membership: the caller (set by
// Auth) must hold at least one of the listed roles. Fine-grained checks
// still live in the usecases; this is the coarse HTTP-level gate.
func Role(roles repository.RoleRepository, allowedRoles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		address, ok := c.Locals("address").(string)
		if !ok || address == "" {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Access denied: unknown caller"})
		}

		for _, role := range allowedRoles {
			has, err := roles.Has(role, address)
			if err != nil {
				return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to check role membership"})
			}
			if has {
				return c.Next()
			}
		}

		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Access denied: missing required role"})
	}
}
