package httpapi

import (
	"context"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/i474232898/weather-lookup/internal/weather"
)

var validate = validator.New()

// Lookup runs a weather command against the configured provider.
type Lookup func(ctx context.Context, cmd weather.Command) (weather.Report, error)

// NewApp builds the fiber app serving weather reports.
func NewApp(lookup Lookup, logger *zap.Logger) *fiber.App {
	if logger == nil {
		logger = zap.NewNop()
	}

	app := fiber.New(fiber.Config{
		AppName:               "weather",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          30 * time.Second,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			// Centralized error response
			code := fiber.StatusInternalServerError
			var e *fiber.Error
			if errors.As(err, &e) {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error":   true,
				"message": err.Error(),
			})
		},
	})

	app.Use(recover.New())
	app.Use(requestLogger(logger))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": "weather",
		})
	})

	RegisterRoutes(app, lookup)
	return app
}

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, lookup Lookup) {
	v1 := app.Group("/api/v1")

	v1.Get("/weather", func(c *fiber.Ctx) error {
		q, err := parseWeatherQuery(c)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		report, err := lookup(c.UserContext(), q.toCommand())
		if err != nil {
			return fiber.NewError(statusFor(err), err.Error())
		}

		c.Set(fiber.HeaderContentType, fiber.MIMETextPlainCharsetUTF8)
		return c.SendString(report.String())
	})
}

// weatherQuery holds query parameters of the weather endpoint.
type weatherQuery struct {
	Location string `validate:"required"`
	Date     string `validate:"omitempty,max=16"`
}

func (q weatherQuery) toCommand() weather.Command {
	return weather.Command{
		Location: q.Location,
		Date:     weather.ParseDateOffset(q.Date),
	}
}

func parseWeatherQuery(c *fiber.Ctx) (weatherQuery, error) {
	var q weatherQuery

	q.Location = c.Query("location")
	q.Date = c.Query("date")

	if err := validate.Struct(q); err != nil {
		return q, err
	}

	return q, nil
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, weather.ErrUnsupported):
		return fiber.StatusBadRequest
	case errors.Is(err, weather.ErrLocationNotFound):
		return fiber.StatusNotFound
	case weather.IsConfigError(err):
		return fiber.StatusPreconditionFailed
	case errors.Is(err, weather.ErrTransport),
		errors.Is(err, weather.ErrDecode),
		errors.Is(err, weather.ErrProviderResponse):
		return fiber.StatusBadGateway
	default:
		return fiber.StatusInternalServerError
	}
}

func requestLogger(logger *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := uuid.NewString()
		c.Set(fiber.HeaderXRequestID, id)

		start := time.Now()
		err := c.Next()

		logger.Info("request",
			zap.String("request_id", id),
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Duration("elapsed", time.Since(start)),
			zap.Error(err),
		)
		return err
	}
}
