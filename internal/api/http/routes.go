package httpapi

import (
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/jonboulle/clockwork"

	"github.com/i474232898/weather-dashboard/internal/weather"
)

var validate = validator.New()

// RegisterRoutes wires the HTTP handlers into the Fiber app.
// clock supplies "today" for the default historical range.
func RegisterRoutes(app *fiber.App, service *weather.Service, clock clockwork.Clock) {
	v1 := app.Group("/api/v1")

	v1.Get("/geocode", func(c *fiber.Ctx) error {
		q := geocodeQuery{City: c.Query("city"), Count: c.QueryInt("count", 1)}
		if err := validate.Struct(q); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		locs, err := service.Candidates(c.UserContext(), q.City, q.Count)
		if err != nil {
			return errorResponse(err)
		}
		return c.JSON(fiber.Map{"results": locs})
	})

	v1.Get("/historical", func(c *fiber.Ctx) error {
		var q rangeQuery
		if err := q.bind(c, clock); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		loc, err := service.Resolve(c.UserContext(), q.City)
		if err != nil {
			return errorResponse(err)
		}
		series, err := service.FetchHistorical(c.UserContext(), loc, q.dateRange())
		if err != nil {
			return errorResponse(err)
		}
		return seriesResponse(c, series)
	})

	v1.Get("/forecast", func(c *fiber.Ctx) error {
		q := cityQuery{City: c.Query("city")}
		if err := validate.Struct(q); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		loc, err := service.Resolve(c.UserContext(), q.City)
		if err != nil {
			return errorResponse(err)
		}
		series, err := service.FetchForecast(c.UserContext(), loc)
		if err != nil {
			return errorResponse(err)
		}
		return seriesResponse(c, series)
	})

	v1.Get("/dashboard", func(c *fiber.Ctx) error {
		var q rangeQuery
		if err := q.bind(c, clock); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		report, err := service.Dashboard(c.UserContext(), weather.Request{
			Place: q.City,
			Range: q.dateRange(),
		})
		if err != nil {
			return errorResponse(err)
		}
		return c.JSON(report)
	})
}

func seriesResponse(c *fiber.Ctx, series weather.EnrichedSeries) error {
	summary, err := weather.Summarize(series.Records)
	if err != nil {
		return errorResponse(err)
	}
	return c.JSON(fiber.Map{
		"series":  series,
		"summary": summary,
	})
}

// errorResponse maps pipeline errors onto HTTP status codes.
func errorResponse(err error) error {
	switch {
	case errors.Is(err, weather.ErrLookupFailed):
		return fiber.NewError(fiber.StatusBadGateway, "location lookup failed")
	case errors.Is(err, weather.ErrLocationNotFound):
		return fiber.NewError(fiber.StatusNotFound, "location not found")
	case errors.Is(err, weather.ErrEmptySeries):
		return fiber.NewError(fiber.StatusNotFound, "no weather data for requested range")
	case errors.Is(err, weather.ErrDataUnavailable):
		return fiber.NewError(fiber.StatusBadGateway, "weather data unavailable")
	default:
		return fiber.NewError(fiber.StatusBadGateway, "failed to fetch weather data")
	}
}

type cityQuery struct {
	City string `validate:"required"`
}

type geocodeQuery struct {
	City  string `validate:"required"`
	Count int    `validate:"min=1,max=100"`
}

// rangeQuery holds query parameters for endpoints taking a date range.
type rangeQuery struct {
	City  string    `validate:"required"`
	Start time.Time `validate:"required"`
	End   time.Time `validate:"required,gtefield=Start"`
}

// bind reads city, start and end. A missing range defaults to the last week;
// a range must be given in full or not at all.
func (q *rangeQuery) bind(c *fiber.Ctx, clock clockwork.Clock) error {
	q.City = c.Query("city")

	startStr, endStr := c.Query("start"), c.Query("end")
	switch {
	case startStr == "" && endStr == "":
		r := weather.DefaultRange(clock.Now())
		q.Start, q.End = r.Start, r.End
	case startStr == "" || endStr == "":
		return errors.New("start and end must be given together")
	default:
		start, err := parseDate(startStr)
		if err != nil {
			return err
		}
		end, err := parseDate(endStr)
		if err != nil {
			return err
		}
		q.Start, q.End = start, end
	}

	return validate.Struct(q)
}

func (q rangeQuery) dateRange() weather.DateRange {
	return weather.DateRange{Start: q.Start, End: q.End}
}

func parseDate(s string) (time.Time, error) {
	t, err := time.Parse(weather.DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q; use YYYY-MM-DD", s)
	}
	return t, nil
}
