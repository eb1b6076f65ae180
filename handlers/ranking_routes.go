// handlers/ranking_routes.go
package handlers

import (
	"strconv"

	"movie-vote-system/middleware"
	"movie-vote-system/services"

	"github.com/gofiber/fiber/v2"
)

func SetupRankingRoutes(app *fiber.App, rankingService *services.RankingService, cacheMiddleware fiber.Handler, jwtSecret string) {
	// 🔓 Public lists — cached when Redis is configured
	trending := func(c *fiber.Ctx) error {
		limit, _ := strconv.Atoi(c.Query("limit", strconv.Itoa(services.DefaultTrendingLimit)))
		records, err := rankingService.TrendingToday(c.UserContext(), limit)
		if err != nil {
			return errorResponse(c, err)
		}
		return c.JSON(fiber.Map{"trending": records})
	}
	recommended := func(c *fiber.Ctx) error {
		n, _ := strconv.Atoi(c.Query("count", strconv.Itoa(services.DefaultRecommendedCount)))
		records, err := rankingService.RecommendedSample(c.UserContext(), n)
		if err != nil {
			return errorResponse(c, err)
		}
		return c.JSON(fiber.Map{"recommended": records})
	}

	if cacheMiddleware != nil {
		app.Get("/rankings/trending", cacheMiddleware, trending)
	} else {
		app.Get("/rankings/trending", trending)
	}
	app.Get("/rankings/recommended", recommended)

	// 🔐 Bumping requires a signed-in user
	app.Post("/movies/:id/rank", middleware.JWTAuthMiddleware(jwtSecret), func(c *fiber.Ctx) error {
		record, err := rankingService.Bump(c.UserContext(), c.Params("id"))
		if err != nil {
			return errorResponse(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(record)
	})
}
