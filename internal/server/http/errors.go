package http

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/pelicoin/ledger-server/internal/common"
)

// statusFromError translates a service error into an HTTP status and a
// message fit for the browser. Unrecognized errors become a generic 500 so
// internals never leak to students.
func statusFromError(err error) (int, string) {
	var insufficient *common.InsufficientFundsError

	switch {
	case errors.As(err, &insufficient):
		return fiber.StatusPaymentRequired,
			fmt.Sprintf("Insufficient funds: you are %s Pelicoin short", insufficient.Shortfall.String())
	case errors.Is(err, common.ErrInsufficientFunds):
		return fiber.StatusPaymentRequired, "Insufficient funds"
	case errors.Is(err, common.ErrMeetingFull):
		return fiber.StatusConflict, "This meeting is full"
	case errors.Is(err, common.ErrAlreadyRegistered):
		return fiber.StatusConflict, "You are already signed up for this meeting"
	case errors.Is(err, common.ErrNotRegistered):
		return fiber.StatusNotFound, "You are not signed up for this meeting"
	case errors.Is(err, common.ErrorNotFound):
		return fiber.StatusNotFound, "Not found"
	case errors.Is(err, common.ErrInvalidRequest):
		return fiber.StatusBadRequest, "Invalid request"
	case errors.Is(err, common.ErrStoreUnavailable):
		return fiber.StatusServiceUnavailable, "Service temporarily unavailable"
	case errors.Is(err, common.ErrVersionConflict):
		return fiber.StatusConflict, "Conflicting update, please retry"
	case errors.Is(err, common.ErrorUnauthorized):
		return fiber.StatusUnauthorized, "Unauthorized"
	default:
		return fiber.StatusInternalServerError, "Internal error"
	}
}

func (s *HTTPServer) fail(c *fiber.Ctx, err error) error {
	code, msg := statusFromError(err)
	if code == fiber.StatusInternalServerError {
		s.logger.Error(c.UserContext(), "Request failed", "path", c.Path(), "error", err)
	}
	return c.Status(code).JSON(fiber.Map{"error": msg})
}
