// handlers/common.go
package handlers

import (
	"errors"

	"movie-vote-system/logging"
	"movie-vote-system/models"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New()

// errorResponse maps domain errors onto the HTTP surface. AlreadyVoted is a
// normal business outcome (409 with a user-facing message), never logged as
// a failure; unknown errors become an opaque 500.
func errorResponse(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, models.ErrUserNotFound),
		errors.Is(err, models.ErrMovieNotFound),
		errors.Is(err, models.ErrMatchupNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, models.ErrAlreadyVoted):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, models.ErrMovieNotInMatchup),
		errors.Is(err, models.ErrSameMovie):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	default:
		logging.Log.Errorf("request failed on %s: %v", c.Path(), err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
	}
}
