package api

import (
	"github.com/gofiber/fiber/v2"

	"github.com/nouakchotech/agrimarket/internal/security"
)

func (handler *Handler) Login(c *fiber.Ctx) error {
	var request loginRequest
	if err := c.BodyParser(&request); err != nil {
		return respondBadRequest(c, "invalid request body")
	}
	if fields := validateCredentials(request.Phone, request.Password); len(fields) > 0 {
		return respond(c, fiber.StatusBadRequest, "invalid login request", fields)
	}

	result, err := handler.authService.Login(request.Phone, request.Password)
	if err != nil {
		return respondError(c, err)
	}
	return respondOK(c, "login successful", result)
}

func (handler *Handler) RegisterFarmer(c *fiber.Ctx) error {
	var request registerFarmerRequest
	if err := c.BodyParser(&request); err != nil {
		return respondBadRequest(c, "invalid request body")
	}
	if fields := validateRegistration(request.registrationFields); len(fields) > 0 {
		return respond(c, fiber.StatusBadRequest, "invalid registration request", fields)
	}

	result, err := handler.authService.RegisterFarmer(request.toInput(), request.FarmerProfile)
	if err != nil {
		return respondError(c, err)
	}
	return respondCreated(c, "farmer registered", result)
}

func (handler *Handler) RegisterBuyer(c *fiber.Ctx) error {
	var request registerBuyerRequest
	if err := c.BodyParser(&request); err != nil {
		return respondBadRequest(c, "invalid request body")
	}
	if fields := validateRegistration(request.registrationFields); len(fields) > 0 {
		return respond(c, fiber.StatusBadRequest, "invalid registration request", fields)
	}

	result, err := handler.authService.RegisterBuyer(request.toInput(), request.BuyerProfile)
	if err != nil {
		return respondError(c, err)
	}
	return respondCreated(c, "buyer registered", result)
}

func (handler *Handler) RegisterSupplier(c *fiber.Ctx) error {
	var request registerSupplierRequest
	if err := c.BodyParser(&request); err != nil {
		return respondBadRequest(c, "invalid request body")
	}
	if fields := validateRegistration(request.registrationFields); len(fields) > 0 {
		return respond(c, fiber.StatusBadRequest, "invalid registration request", fields)
	}

	result, err := handler.authService.RegisterSupplier(request.toInput(), request.toProfile())
	if err != nil {
		return respondError(c, err)
	}
	return respondCreated(c, "supplier registered", result)
}

func (handler *Handler) Refresh(c *fiber.Ctx) error {
	var request refreshRequest
	if err := c.BodyParser(&request); err != nil {
		return respondBadRequest(c, "invalid request body")
	}
	if request.RefreshToken == "" {
		return respond(c, fiber.StatusBadRequest, "invalid refresh request",
			map[string]string{"refreshToken": "refresh token is required"})
	}

	result, err := handler.authService.Refresh(request.RefreshToken)
	if err != nil {
		return respondError(c, err)
	}
	return respondOK(c, "token refreshed", result)
}

// Logout acknowledges the request. Tokens are stateless, so the client
// simply discards its pair; nothing is revoked server-side.
func (handler *Handler) Logout(c *fiber.Ctx) error {
	return respondOK(c, "logout successful", nil)
}

func (handler *Handler) GetProfile(c *fiber.Ctx) error {
	claims := currentClaims(c)
	profile, err := handler.authService.GetProfile(claims.UserID)
	if err != nil {
		return respondError(c, err)
	}
	return respondOK(c, "profile", profile)
}

// ValidateToken reports whether the presented bearer token verifies,
// without failing the request when it does not.
func (handler *Handler) ValidateToken(c *fiber.Ctx) error {
	token := bearerToken(c)
	valid := handler.tokens.Validate(token)

	data := fiber.Map{"valid": valid}
	if valid {
		if claims, err := handler.tokens.Parse(token); err == nil && claims.TokenType != security.RefreshTokenType {
			data["userId"] = claims.UserID
			data["role"] = claims.Role
		}
	}
	return respondOK(c, "token checked", data)
}
