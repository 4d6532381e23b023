package middleware

import "github.com/gofiber/fiber/v2"

// NoCache marks responses as non-cacheable. Used on routes that return
// credentials or document content, which must never land in shared
// caches.
func NoCache() fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Set(fiber.HeaderCacheControl, "no-store")
		c.Set(fiber.HeaderPragma, "no-cache")
		return c.Next()
	}
}
