// Package httpapi exposes the orchestrator over HTTP for `atmos serve`.
package httpapi

import (
	"errors"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/atmoscli/atmos/internal/weather"
)

var validate = validator.New()

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, orch *weather.Orchestrator) {
	v1 := app.Group("/api/v1/weather")

	v1.Get("/current", func(c *fiber.Ctx) error {
		req, err := parseViewQuery(c)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		return respond(c, orch, weather.ViewCurrent, req)
	})

	v1.Get("/forecast", func(c *fiber.Ctx) error {
		req, err := parseViewQuery(c)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		return respond(c, orch, weather.ViewForecast, req)
	})

	v1.Get("/history", func(c *fiber.Ctx) error {
		req, err := parseViewQuery(c)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		return respond(c, orch, weather.ViewHistory, req)
	})

	v1.Get("/alerts", func(c *fiber.Ctx) error {
		req, err := parseViewQuery(c)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		return respond(c, orch, weather.ViewAlert, req)
	})

	v1.Get("/astronomy", func(c *fiber.Ctx) error {
		req, err := parseViewQuery(c)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		return respond(c, orch, weather.ViewStars, req)
	})
}

func respond(c *fiber.Ctx, orch *weather.Orchestrator, view weather.View, req viewQuery) error {
	result, err := orch.Execute(c.Context(), view, req.Location, req.toParams())
	if err != nil {
		if weather.IsKind(err, weather.KindNoData) {
			return c.JSON(fiber.Map{"noData": true, "location": req.Location})
		}
		return fiber.NewError(statusForKind(weather.KindOf(err)), err.Error())
	}
	return c.JSON(result)
}

func statusForKind(kind weather.Kind) int {
	switch kind {
	case weather.KindConfiguration:
		return fiber.StatusServiceUnavailable
	case weather.KindLocationNotFound:
		return fiber.StatusNotFound
	case weather.KindRateLimited:
		return fiber.StatusTooManyRequests
	case weather.KindProviderUnavailable:
		return fiber.StatusBadGateway
	default:
		return fiber.StatusInternalServerError
	}
}

// viewQuery holds the query parameters shared by the weather endpoints.
type viewQuery struct {
	Location string `validate:"required"`
	Days     int    `validate:"min=0,max=10"`
	Hours    int    `validate:"min=0,max=240"`
	Hourly   bool
}

func (q viewQuery) toParams() weather.Params {
	params := weather.Params{
		Days:   q.Days,
		Hours:  q.Hours,
		Hourly: q.Hourly,
	}
	if params.Days == 0 {
		params.Days = 5
	}
	if params.Hours == 0 {
		params.Hours = 24
	}
	return params
}

func parseViewQuery(c *fiber.Ctx) (viewQuery, error) {
	var q viewQuery

	q.Location = c.Query("location")
	q.Hourly = c.QueryBool("hourly")

	var err error
	if q.Days, err = queryInt(c, "days"); err != nil {
		return q, err
	}
	if q.Hours, err = queryInt(c, "hours"); err != nil {
		return q, err
	}

	if err := validate.Struct(q); err != nil {
		return q, err
	}
	return q, nil
}

func queryInt(c *fiber.Ctx, name string) (int, error) {
	raw := c.Query(name)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errors.New(name + " must be an integer")
	}
	return n, nil
}
