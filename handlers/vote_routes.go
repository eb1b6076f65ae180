// handlers/vote_routes.go
package handlers

import (
	"movie-vote-system/middleware"
	"movie-vote-system/services"

	"github.com/gofiber/fiber/v2"
)

// CastVoteRequest is the vote submission body. The voting user comes from
// the token, never the body.
type CastVoteRequest struct {
	MovieID   string `json:"movie_id" validate:"required"`
	MatchupID string `json:"matchup_id" validate:"required"`
}

func SetupVoteRoutes(app *fiber.App, voteService *services.VoteService, tallyService *services.TallyService, cacheMiddleware fiber.Handler, jwtSecret string) {
	// 🔓 Public derived views — cached when Redis is configured
	weekly := func(c *fiber.Ctx) error {
		totals, err := tallyService.WeeklyTotals(c.UserContext())
		if err != nil {
			return errorResponse(c, err)
		}
		return c.JSON(fiber.Map{"weekly_totals": totals})
	}
	if cacheMiddleware != nil {
		app.Get("/votes/weekly", cacheMiddleware, weekly)
	} else {
		app.Get("/votes/weekly", weekly)
	}

	// 🔐 Authenticated routes. Middleware is attached per route so the
	// public surface registered by the other route files stays open.
	auth := middleware.JWTAuthMiddleware(jwtSecret)

	app.Post("/votes", auth, func(c *fiber.Ctx) error {
		var req CastVoteRequest
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid JSON body"})
		}
		if err := validate.Struct(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}

		userID := c.Locals("user_id").(string)
		vote, err := voteService.CastVote(c.UserContext(), userID, req.MovieID, req.MatchupID)
		if err != nil {
			return errorResponse(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(vote)
	})

	app.Get("/users/me/history", auth, func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)
		history, err := tallyService.HistoryFor(c.UserContext(), userID)
		if err != nil {
			return errorResponse(c, err)
		}
		return c.JSON(fiber.Map{"history": history})
	})
}
