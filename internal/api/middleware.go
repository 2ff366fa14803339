package api

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/nouakchotech/agrimarket/internal/models"
	"github.com/nouakchotech/agrimarket/internal/security"
)

const contextClaimsKey = "claims"

// AuthRequired authenticates the request from its bearer token and stores
// the parsed claims in the request context.
func (handler *Handler) AuthRequired(c *fiber.Ctx) error {
	token := bearerToken(c)
	if token == "" {
		return respondUnauthorized(c, "missing or malformed authorization header")
	}

	claims, err := handler.tokens.Parse(token)
	if err != nil {
		return respondError(c, err)
	}
	if claims.TokenType == security.RefreshTokenType {
		return respondUnauthorized(c, "refresh token cannot access resources")
	}

	c.Locals(contextClaimsKey, claims)
	return c.Next()
}

// FarmerOnly restricts a route to authenticated farmers.
func (handler *Handler) FarmerOnly(c *fiber.Ctx) error {
	claims := currentClaims(c)
	if claims == nil || claims.Role != models.RoleFarmer {
		return respond(c, fiber.StatusForbidden, "farmer role required", nil)
	}
	return c.Next()
}

func currentClaims(c *fiber.Ctx) *security.Claims {
	claims, _ := c.Locals(contextClaimsKey).(*security.Claims)
	return claims
}

func bearerToken(c *fiber.Ctx) string {
	header := strings.TrimSpace(c.Get(fiber.HeaderAuthorization))
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
