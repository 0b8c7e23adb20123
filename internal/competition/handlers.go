package competition

import (
	"errors"

	"github.com/gofiber/fiber/v2"
)

const stravaTokenHeader = "X-Strava-Token"

func RegisterRoutes(r fiber.Router, svc *Service, authMiddleware fiber.Handler) {
	r.Get("/window", func(c *fiber.Ctx) error {
		w := svc.Window()
		return c.JSON(fiber.Map{"start": w.Start, "end": w.End})
	})

	r.Post("/score", func(c *fiber.Ctx) error {
		var body struct {
			Activities []Activity `json:"activities"`
		}
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		if body.Activities == nil {
			return fiber.NewError(fiber.StatusBadRequest, "activities required")
		}
		return c.JSON(svc.Score(body.Activities))
	})

	r.Post("/sync", authMiddleware, func(c *fiber.Ctx) error {
		riderID, _ := c.Locals("rider_id").(string)
		if riderID == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "rider required")
		}
		riderName, _ := c.Locals("rider_name").(string)

		token := c.Get(stravaTokenHeader)
		if token == "" {
			return fiber.NewError(fiber.StatusBadRequest, stravaTokenHeader+" header required")
		}

		score, err := svc.Sync(c.Context(), Rider{ID: riderID, Name: riderName}, token)
		if err != nil {
			switch {
			case errors.Is(err, ErrUnavailable):
				return fiber.NewError(fiber.StatusServiceUnavailable, err.Error())
			case errors.Is(err, ErrFetchFailed):
				return fiber.NewError(fiber.StatusBadGateway, err.Error())
			}
			return err
		}
		return c.JSON(score)
	})

	r.Get("/leaderboard", func(c *fiber.Ctx) error {
		standings, err := svc.Standings(c.Context(), c.Query("by"), c.QueryInt("limit", 0))
		if err != nil {
			switch {
			case errors.Is(err, ErrUnknownOrder):
				return fiber.NewError(fiber.StatusBadRequest, err.Error())
			case errors.Is(err, ErrUnavailable):
				return fiber.NewError(fiber.StatusServiceUnavailable, err.Error())
			}
			return err
		}
		return c.JSON(standings)
	})
}
