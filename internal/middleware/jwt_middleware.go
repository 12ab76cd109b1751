package middleware

import (
	"log"
	"strings"

	"thulasibloom/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// Locals keys set by the session middleware.
const (
	LocalOwnerID       = "owner_id"
	LocalAuthenticated = "authenticated"
	LocalUserName      = "user_name"
)

// SessionHeader carries the guest session id. When absent a new session id
// is issued and echoed back in the response.
const SessionHeader = "X-Session-Id"

// AuthRequired is a Fiber middleware that rejects requests without a valid
// JWT token.
func AuthRequired(authService *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, ok := bearerClaims(c, authService)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Invalid or missing token",
			})
		}

		c.Locals(LocalOwnerID, claims["user_id"])
		c.Locals(LocalAuthenticated, true)
		c.Locals(LocalUserName, claims["name"])
		return c.Next()
	}
}

// Session resolves the cart owner for every request: a valid bearer token
// yields the authenticated user identity and the durable cart store, any
// other request gets (or keeps) an ephemeral guest session id. Guest and
// user carts are separate owners and are never merged.
func Session(authService *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if claims, ok := bearerClaims(c, authService); ok {
			c.Locals(LocalOwnerID, claims["user_id"])
			c.Locals(LocalAuthenticated, true)
			c.Locals(LocalUserName, claims["name"])
			return c.Next()
		}

		sessionID := c.Get(SessionHeader)
		if sessionID == "" {
			sessionID = uuid.New().String()
		}
		c.Set(SessionHeader, sessionID)
		c.Locals(LocalOwnerID, "guest:"+sessionID)
		c.Locals(LocalAuthenticated, false)
		return c.Next()
	}
}

// CartSession builds the service-level session from the request locals.
func CartSession(c *fiber.Ctx) services.CartSession {
	ownerID, _ := c.Locals(LocalOwnerID).(string)
	authenticated, _ := c.Locals(LocalAuthenticated).(bool)
	return services.CartSession{OwnerID: ownerID, Authenticated: authenticated}
}

func bearerClaims(c *fiber.Ctx, authService *services.AuthService) (map[string]interface{}, bool) {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return nil, false
	}

	// Expected format: "Bearer <token>"
	parts := strings.SplitN(authHeader, " ", 2)
	if !(len(parts) == 2 && parts[0] == "Bearer") {
		return nil, false
	}

	claims, err := authService.ValidateToken(parts[1])
	if err != nil {
		log.Printf("JWT validation failed: %v", err)
		return nil, false
	}
	return claims, true
}
