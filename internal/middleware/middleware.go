package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/google/uuid"
	"github.com/m2-berezin/safedine-app/domain"
	"github.com/m2-berezin/safedine-app/internal/api/presenters"
	"github.com/m2-berezin/safedine-app/pkg/jwt"
)

const (
	HeaderSessionID  = "X-Session-ID"
	HeaderOrderToken = "X-Order-Token"
)

type (
	Middleware interface {
		CORSMiddleware() fiber.Handler
		SessionMiddleware() fiber.Handler
		AuthMiddleware(jwtService jwt.JWTService) fiber.Handler
		OptionalAuthMiddleware(jwtService jwt.JWTService) fiber.Handler
		StaffOnly() fiber.Handler
	}

	middleware struct{}
)

func NewMiddleware() Middleware {
	return &middleware{}
}

func (m *middleware) CORSMiddleware() fiber.Handler {
	return cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,PATCH,DELETE,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, X-Session-ID, X-Order-Token",
	})
}

// SessionMiddleware pins every request to a device-local session. The
// client sends X-Session-ID; if it does not, a fresh UUID is minted and
// echoed back so the client can persist it.
func (m *middleware) SessionMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		sessionID := c.Get(HeaderSessionID)
		if sessionID == "" {
			sessionID = uuid.NewString()
		}
		c.Locals("session_id", sessionID)
		c.Set(HeaderSessionID, sessionID)
		return c.Next()
	}
}

func bearerToken(c *fiber.Ctx) string {
	auth := c.Get("Authorization")
	if !strings.HasPrefix(auth, "Bearer ") {
		return ""
	}
	return strings.TrimPrefix(auth, "Bearer ")
}

func (m *middleware) AuthMiddleware(jwtService jwt.JWTService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := bearerToken(c)
		if token == "" {
			return presenters.ErrorResponse(c, fiber.StatusUnauthorized, domain.MessageFailedUnauthorized, domain.ErrTokenInvalid)
		}

		userID, role, err := jwtService.GetUserIDByToken(token)
		if err != nil {
			return presenters.ErrorResponse(c, fiber.StatusUnauthorized, domain.MessageFailedUnauthorized, err)
		}

		c.Locals("user_id", userID)
		c.Locals("role", role)
		return c.Next()
	}
}

// OptionalAuthMiddleware sets user_id when a valid bearer token is present
// and lets the request through as a guest otherwise. The ordering core only
// ever asks "current user id or none".
func (m *middleware) OptionalAuthMiddleware(jwtService jwt.JWTService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if token := bearerToken(c); token != "" {
			if userID, role, err := jwtService.GetUserIDByToken(token); err == nil {
				c.Locals("user_id", userID)
				c.Locals("role", role)
			}
		}
		return c.Next()
	}
}

func (m *middleware) StaffOnly() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if role, _ := c.Locals("role").(string); role != domain.RoleStaff {
			return presenters.ErrorResponse(c, fiber.StatusForbidden, domain.MessageFailedForbidden, nil)
		}
		return c.Next()
	}
}
