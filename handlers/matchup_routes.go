// handlers/matchup_routes.go
package handlers

import (
	"time"

	"movie-vote-system/middleware"
	"movie-vote-system/services"

	"github.com/gofiber/fiber/v2"
)

// CreateMatchupRequest is the operator input for a new pairing. Times are
// RFC3339; end_time may be omitted for an open-ended window.
type CreateMatchupRequest struct {
	MovieAID  string `json:"movie_a_id" validate:"required"`
	MovieBID  string `json:"movie_b_id" validate:"required"`
	Round     int    `json:"round" validate:"gte=0"`
	Pair      int    `json:"pair" validate:"gte=0"`
	StartTime string `json:"start_time,omitempty"`
	EndTime   string `json:"end_time,omitempty"`
}

func SetupMatchupRoutes(app *fiber.App, matchupService *services.MatchupService, tallyService *services.TallyService, jwtSecret string) {
	// 🔓 Public read surface
	app.Get("/matchups", func(c *fiber.Ctx) error {
		matchups, err := matchupService.ListAll()
		if err != nil {
			return errorResponse(c, err)
		}
		return c.JSON(fiber.Map{"matchups": matchups})
	})

	app.Get("/matchups/:id", func(c *fiber.Ctx) error {
		matchup, err := matchupService.Get(c.Params("id"))
		if err != nil {
			return errorResponse(c, err)
		}
		return c.JSON(matchup)
	})

	app.Get("/matchups/:id/result", func(c *fiber.Ctx) error {
		result, err := tallyService.ResultFor(c.UserContext(), c.Params("id"))
		if err != nil {
			return errorResponse(c, err)
		}
		return c.JSON(result)
	})

	// 🔐 Operator-only registry mutations. Per-route middleware, not a "/"
	// group — a group at the root prefix would gate every later route.
	auth := middleware.JWTAuthMiddleware(jwtSecret)
	admin := middleware.RequireAdmin()

	app.Post("/matchups", auth, admin, func(c *fiber.Ctx) error {
		var req CreateMatchupRequest
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid JSON body"})
		}
		if err := validate.Struct(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}

		params := services.CreateMatchupParams{
			MovieAID: req.MovieAID,
			MovieBID: req.MovieBID,
			Round:    req.Round,
			Pair:     req.Pair,
		}
		if req.StartTime != "" {
			start, err := time.Parse(time.RFC3339, req.StartTime)
			if err != nil {
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid start_time (use RFC3339)"})
			}
			params.StartTime = start
		}
		if req.EndTime != "" {
			end, err := time.Parse(time.RFC3339, req.EndTime)
			if err != nil {
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid end_time (use RFC3339)"})
			}
			params.EndTime = &end
		}

		matchup, err := matchupService.Create(params)
		if err != nil {
			return errorResponse(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(matchup)
	})

	app.Delete("/matchups/:id", auth, admin, func(c *fiber.Ctx) error {
		if err := matchupService.Delete(c.Params("id")); err != nil {
			return errorResponse(c, err)
		}
		return c.JSON(fiber.Map{"message": "matchup deleted"})
	})
}
