package server

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	contractx "github.com/tanpawarit/appointment-assistant/agent/contract"
	"github.com/tanpawarit/appointment-assistant/scheduling"
)

const (
	msgInvalidInput     = "invalid input"
	msgInternal         = "internal server error"
	msgModelUnavailable = "OpenAI API key not configured on server"
)

func statusFor(err error) int {
	switch {
	case errors.Is(err, scheduling.ErrInvalidFormat),
		errors.Is(err, scheduling.ErrInvalidIdentifier),
		errors.Is(err, contractx.ErrValidation):
		return fiber.StatusBadRequest
	case errors.Is(err, scheduling.ErrUserNotFound):
		return fiber.StatusNotFound
	case contractx.IsUpstream(err):
		return fiber.StatusBadGateway
	default:
		return fiber.StatusInternalServerError
	}
}

func writeError(c *fiber.Ctx, err error) error {
	status := statusFor(err)
	message := err.Error()
	switch status {
	case fiber.StatusBadGateway:
		message = "AI service error"
	case fiber.StatusInternalServerError:
		if errors.Is(err, contractx.ErrModelUnavailable) {
			message = msgModelUnavailable
		} else {
			log.Ctx(c.UserContext()).Error().Err(err).Str("path", c.Path()).Msg("request failed")
			message = msgInternal
		}
	}
	return c.Status(status).JSON(fiber.Map{"error": message})
}

// errorHandler renders errors that escape handlers, including fiber's own (404, 405).
func errorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return c.Status(fe.Code).JSON(fiber.Map{"error": fe.Message})
	}
	return writeError(c, err)
}
