// Package middleware provides authentication and authorization middleware for the application.
package middleware

import (
	"context"
	"strconv"
	"strings"

	"mushroomservice/internal/config"
	"mushroomservice/internal/identity"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

var (
	cfg    *config.Config
	policy identity.Policy
)

// InitMiddleware initializes authentication middleware with the given config
// and admin policy.
func InitMiddleware(c *config.Config, p identity.Policy) {
	cfg = c
	policy = p
}

// actorLocalKey is the fiber.Ctx locals key holding the resolved Actor.
const actorLocalKey = "actor"

// ResolveActor determines the acting user from the request's bearer token.
// Any failure (missing header, malformed token, bad signature, absent
// claims) resolves to the anonymous actor rather than an error: admin-gated
// features become unavailable, the request itself never fails here.
func ResolveActor(c *fiber.Ctx) identity.Actor {
	tokenString := ""

	authHeader := c.Get("Authorization")
	if authHeader != "" {
		parts := strings.Split(authHeader, " ")
		if len(parts) == 2 && parts[0] == "Bearer" {
			tokenString = parts[1]
		}
	}
	// WebSocket upgrades cannot set headers; fall back to a query token.
	if tokenString == "" {
		tokenString = c.Query("token")
	}
	if tokenString == "" {
		return identity.Anonymous
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fiber.NewError(fiber.StatusUnauthorized, "Invalid signing method")
		}
		return []byte(cfg.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return identity.Anonymous
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return identity.Anonymous
	}

	// User ID travels in the "sub" claim (RFC 7519), email alongside so the
	// admin policy can be evaluated without a store read.
	subStr, ok := claims["sub"].(string)
	if !ok {
		return identity.Anonymous
	}
	userID, err := strconv.ParseUint(subStr, 10, 32)
	if err != nil || userID == 0 {
		return identity.Anonymous
	}
	email, _ := claims["email"].(string)

	return identity.Actor{UserID: uint(userID), Email: email}
}

// ActorMiddleware resolves the actor once per request and stores it in
// locals for handlers and downstream middleware.
func ActorMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor := ResolveActor(c)
		c.Locals(actorLocalKey, actor)
		if actor.Authenticated() {
			c.Locals("userID", actor.UserID)
			c.SetUserContext(context.WithValue(c.UserContext(), ActorIDKey, actor.UserID))
		}
		return c.Next()
	}
}

// ActorFromCtx returns the Actor stored by ActorMiddleware, or Anonymous.
func ActorFromCtx(c *fiber.Ctx) identity.Actor {
	if a, ok := c.Locals(actorLocalKey).(identity.Actor); ok {
		return a
	}
	return identity.Anonymous
}

// AuthRequired enforces authentication for protected routes.
func AuthRequired(c *fiber.Ctx) error {
	if !ActorFromCtx(c).Authenticated() {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Please sign in",
		})
	}
	return c.Next()
}

// AdminRequired enforces the administrator role for admin routes. It must
// run after ActorMiddleware.
func AdminRequired(c *fiber.Ctx) error {
	actor := ActorFromCtx(c)
	if !actor.Authenticated() {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Please sign in",
		})
	}
	if policy == nil || !policy.IsAdmin(actor) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "Administrator access required",
		})
	}
	return c.Next()
}
