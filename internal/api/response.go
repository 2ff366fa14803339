package api

import (
	"errors"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/nouakchotech/agrimarket/internal/security"
	"github.com/nouakchotech/agrimarket/internal/services"
)

// envelope is the uniform response shape of every JSON endpoint.
type envelope struct {
	Success   bool        `json:"success"`
	Message   string      `json:"message"`
	Data      interface{} `json:"data,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

func respond(c *fiber.Ctx, status int, message string, data interface{}) error {
	return c.Status(status).JSON(envelope{
		Success:   status < fiber.StatusBadRequest,
		Message:   message,
		Data:      data,
		Timestamp: time.Now(),
	})
}

func respondOK(c *fiber.Ctx, message string, data interface{}) error {
	return respond(c, fiber.StatusOK, message, data)
}

func respondCreated(c *fiber.Ctx, message string, data interface{}) error {
	return respond(c, fiber.StatusCreated, message, data)
}

// respondError maps service errors onto HTTP statuses. Validation errors
// carry their per-field messages in the data payload.
func respondError(c *fiber.Ctx, err error) error {
	var notFound *services.NotFoundError
	var duplicate *services.DuplicateError
	var validation *services.ValidationError

	switch {
	case errors.Is(err, services.ErrAuthenticationFailed),
		errors.Is(err, security.ErrTokenExpired),
		errors.Is(err, security.ErrTokenInvalid):
		return respond(c, fiber.StatusUnauthorized, err.Error(), nil)
	case errors.As(err, &notFound):
		return respond(c, fiber.StatusNotFound, notFound.Message, nil)
	case errors.As(err, &duplicate):
		return respond(c, fiber.StatusConflict, duplicate.Message, nil)
	case errors.As(err, &validation):
		var fields interface{}
		if len(validation.Fields) > 0 {
			fields = validation.Fields
		}
		return respond(c, fiber.StatusBadRequest, validation.Message, fields)
	default:
		slog.Error("unhandled request error", "path", c.Path(), "error", err)
		return respond(c, fiber.StatusInternalServerError, "internal server error", nil)
	}
}

func respondBadRequest(c *fiber.Ctx, message string) error {
	return respond(c, fiber.StatusBadRequest, message, nil)
}

func respondUnauthorized(c *fiber.Ctx, message string) error {
	return respond(c, fiber.StatusUnauthorized, message, nil)
}
