package middleware

import (
	"encoding/json"
	"os"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/Desarrollo-Prime/server-bigc/internal/auth"
)

const (
	// PrincipalLocalKey is the key under which the authenticated
	// principal is stored in Fiber's context locals.
	PrincipalLocalKey = "auth_principal"

	authorizationHeader = "Authorization"
	bearerPrefix        = "Bearer "
)

// RequireAuth extracts the bearer token, validates it (including the
// re-read of current user state) and attaches the resulting Principal
// to the request. Missing, malformed, expired or revoked tokens all
// yield the same 401; the distinction only shows up in logs.
func RequireAuth(authSvc auth.Service) fiber.Handler {
	enc := json.NewEncoder(os.Stdout)

	return func(c *fiber.Ctx) error {
		header := c.Get(authorizationHeader)
		if !strings.HasPrefix(header, bearerPrefix) {
			return fiber.ErrUnauthorized
		}
		token := strings.TrimSpace(header[len(bearerPrefix):])
		if token == "" {
			return fiber.ErrUnauthorized
		}

		principal, err := authSvc.Authenticate(c.UserContext(), token)
		if err != nil {
			rid, _ := c.Locals(RequestIDLocalKey).(string)
			_ = enc.Encode(map[string]any{
				"ts":         time.Now().UTC().Format(time.RFC3339Nano),
				"level":      "warn",
				"msg":        "token_rejected",
				"request_id": rid,
				"path":       c.Path(),
				"reason":     err.Error(),
			})
			return fiber.ErrUnauthorized
		}

		c.Locals(PrincipalLocalKey, principal)
		return c.Next()
	}
}

// RequireRoles gates the operation on its statically declared role set.
// An empty set means authentication alone suffices. Access is granted
// when the principal holds any one of the required roles. The denied
// requirement is logged for operators and never returned to the caller.
func RequireRoles(required ...string) fiber.Handler {
	enc := json.NewEncoder(os.Stdout)

	return func(c *fiber.Ctx) error {
		principal := PrincipalFromCtx(c)
		if principal == nil {
			return fiber.ErrUnauthorized
		}
		if !auth.Authorize(required, principal.Roles) {
			rid, _ := c.Locals(RequestIDLocalKey).(string)
			_ = enc.Encode(map[string]any{
				"ts":             time.Now().UTC().Format(time.RFC3339Nano),
				"level":          "warn",
				"msg":            "role_denied",
				"request_id":     rid,
				"path":           c.Path(),
				"user_name":      principal.UserName,
				"required_roles": required,
				"held_roles":     principal.Roles,
			})
			return fiber.ErrForbidden
		}
		return c.Next()
	}
}

// PrincipalFromCtx returns the principal stored by RequireAuth, or nil.
func PrincipalFromCtx(c *fiber.Ctx) *auth.Principal {
	if v := c.Locals(PrincipalLocalKey); v != nil {
		if p, ok := v.(*auth.Principal); ok {
			return p
		}
	}
	return nil
}
