package planner

import (
	"bytes"
	"errors"
	"io"
	"strconv"

	"backend-ggtm26/internal/catalog"
	"backend-ggtm26/internal/gpxfile"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
)

func RegisterRoutes(r fiber.Router, svc *Service) {
	r.Post("/", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusCreated).JSON(svc.Create())
	})

	r.Get("/:id", func(c *fiber.Ctx) error {
		plan, err := svc.Get(c.Params("id"))
		if err != nil {
			return toFiberError(err)
		}
		return c.JSON(plan)
	})

	r.Delete("/:id", func(c *fiber.Ctx) error {
		if err := svc.Delete(c.Params("id")); err != nil {
			return toFiberError(err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	})

	r.Post("/:id/routes", func(c *fiber.Ctx) error {
		name, body, err := uploadedGPX(c)
		if err != nil {
			return err
		}
		result, err := svc.ImportRoute(c.Context(), c.Params("id"), name, bytes.NewReader(body), c.QueryBool("enrich", false))
		if err != nil {
			return toFiberError(err)
		}
		return c.Status(fiber.StatusCreated).JSON(result)
	})

	r.Post("/:id/elevation", func(c *fiber.Ctx) error {
		results, err := svc.EnrichPlan(c.Context(), c.Params("id"))
		if err != nil {
			return toFiberError(err)
		}
		return c.JSON(results)
	})

	r.Get("/:id/routes/:routeID", func(c *fiber.Ctx) error {
		route, err := svc.Route(c.Params("id"), c.Params("routeID"))
		if err != nil {
			return toFiberError(err)
		}
		return c.JSON(route)
	})

	r.Get("/:id/routes/:routeID/climb", func(c *fiber.Ctx) error {
		view, err := svc.Climb(c.Params("id"), c.Params("routeID"))
		if err != nil {
			return toFiberError(err)
		}
		return c.JSON(view)
	})

	r.Post("/:id/routes/:routeID/elevation", func(c *fiber.Ctx) error {
		route, err := svc.EnrichRoute(c.Context(), c.Params("id"), c.Params("routeID"))
		if err != nil {
			return toFiberError(err)
		}
		return c.JSON(route)
	})

	r.Put("/:id/days/:day", func(c *fiber.Ctx) error {
		dayID, err := dayParam(c)
		if err != nil {
			return err
		}
		var body struct {
			RouteIDs []string `json:"route_ids"`
		}
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		day, err := svc.SetDayRoutes(c.Params("id"), dayID, body.RouteIDs)
		if err != nil {
			return toFiberError(err)
		}
		return c.JSON(day)
	})

	r.Put("/:id/days/:day/visible", func(c *fiber.Ctx) error {
		dayID, err := dayParam(c)
		if err != nil {
			return err
		}
		var body struct {
			Visible *bool `json:"visible"`
		}
		if err := c.BodyParser(&body); err != nil || body.Visible == nil {
			return fiber.NewError(fiber.StatusBadRequest, "visible required")
		}
		day, err := svc.SetDayVisible(c.Params("id"), dayID, *body.Visible)
		if err != nil {
			return toFiberError(err)
		}
		return c.JSON(day)
	})

	r.Post("/:id/auto/:profile", func(c *fiber.Ctx) error {
		report, err := svc.AutoPlan(c.Params("id"), c.Params("profile"))
		if err != nil {
			return toFiberError(err)
		}
		return c.JSON(report)
	})

	r.Get("/:id/days/:day/export", func(c *fiber.Ctx) error {
		dayID, err := dayParam(c)
		if err != nil {
			return err
		}
		export, err := svc.ExportDay(c.Params("id"), dayID)
		if err != nil {
			return toFiberError(err)
		}
		c.Attachment(export.FileName)
		c.Set(fiber.HeaderContentType, export.ContentType)
		return c.Send(export.Content)
	})
}

// uploadedGPX accepts either a multipart "file" field or the raw request body.
// The name outlives the request, so it is copied out of the request buffer.
func uploadedGPX(c *fiber.Ctx) (string, []byte, error) {
	if fh, err := c.FormFile("file"); err == nil {
		f, err := fh.Open()
		if err != nil {
			return "", nil, fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		defer f.Close()
		data, err := io.ReadAll(f)
		if err != nil {
			return "", nil, fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		name := utils.CopyString(c.Query("name", fh.Filename))
		return name, data, nil
	}

	name := utils.CopyString(c.Query("name"))
	if name == "" {
		return "", nil, fiber.NewError(fiber.StatusBadRequest, "name required")
	}
	body := c.Body()
	if len(body) == 0 {
		return "", nil, fiber.NewError(fiber.StatusBadRequest, "GPX body required")
	}
	return name, append([]byte(nil), body...), nil
}

func dayParam(c *fiber.Ctx) (int, error) {
	day, err := strconv.Atoi(c.Params("day"))
	if err != nil {
		return 0, fiber.NewError(fiber.StatusBadRequest, "day must be a number")
	}
	return day, nil
}

// toFiberError leaves unmapped errors as they are for the app error handler.
func toFiberError(err error) error {
	switch {
	case errors.Is(err, ErrPlanNotFound), errors.Is(err, ErrRouteNotFound):
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	case errors.Is(err, catalog.ErrUnknownDay), errors.Is(err, ErrUnknownProfile):
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	case errors.Is(err, catalog.ErrUnknownRoute), errors.Is(err, gpxfile.ErrMalformedDocument):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	case errors.Is(err, catalog.ErrNoRoutes), errors.Is(err, catalog.ErrMissingPoints):
		return fiber.NewError(fiber.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, ErrEnrichmentDisabled):
		return fiber.NewError(fiber.StatusNotImplemented, err.Error())
	case errors.Is(err, ErrEnrichmentFailed):
		return fiber.NewError(fiber.StatusBadGateway, err.Error())
	}
	return err
}
