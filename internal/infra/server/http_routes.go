package server

import (
	"log/slog"
	"time"

	"github.com/PocketPalCo/receipt-service/config"
	"github.com/PocketPalCo/receipt-service/internal/core/receipts"
	"github.com/gofiber/contrib/otelfiber/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/favicon"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	slogfiber "github.com/samber/slog-fiber"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	api "go.opentelemetry.io/otel/metric"
)

var (
	httpRequestsCounter  api.Int64Counter
	httpRequestHistogram api.Float64Histogram
)

const dateLayout = "2006-01-02"

func initGlobalMiddlewares(app *fiber.App, cfg *config.Config) {
	meter := otel.Meter("http_server")
	httpRequestsCounter, _ = meter.Int64Counter("http.requests.total",
		api.WithDescription("Total HTTP requests by method, path and status code"))
	httpRequestHistogram, _ = meter.Float64Histogram("http.request_duration",
		api.WithDescription("HTTP request duration in milliseconds"))

	app.Use(
		compress.New(compress.Config{
			Level: compress.LevelDefault,
		}),

		slogfiber.NewWithFilters(slog.Default(), slogfiber.IgnorePath("/health")),

		cors.New(cors.Config{
			AllowOrigins: "*",
			AllowHeaders: "Origin, Content-Type, Accept, Authorization, X-Request-ID",
			AllowMethods: "GET, POST, PUT, DELETE, OPTIONS",
		}),

		favicon.New(),
		limiter.New(limiter.Config{
			Max:               cfg.RateLimitMax,
			Expiration:        time.Duration(cfg.RateLimitWindow) * time.Second,
			LimiterMiddleware: limiter.SlidingWindow{},
		}),
	)

	app.Use(otelfiber.Middleware())
}

func registerHttpRoutes(app *fiber.App, receiptsService *receipts.Service) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "timestamp": time.Now().Unix()})
	})

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	apiRoutes := app.Group("/v1/reports")

	apiRoutes.Get("/summary", withMetrics(func(c *fiber.Ctx) error {
		from, to, err := parseDateRange(c)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}

		total, err := receiptsService.TotalExpenses(c.UserContext(), from, to)
		if err != nil {
			slog.Error("Failed to compute expense summary",
				"component", "http_handler",
				"endpoint", "/v1/reports/summary",
				"error", err.Error())
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to compute summary"})
		}

		return c.JSON(fiber.Map{"total": total.StringFixed(2)})
	}))

	apiRoutes.Get("/merchants", withMetrics(func(c *fiber.Ctx) error {
		from, to, err := parseDateRange(c)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}

		byMerchant, err := receiptsService.ExpensesByMerchant(c.UserContext(), from, to)
		if err != nil {
			slog.Error("Failed to compute merchant breakdown",
				"component", "http_handler",
				"endpoint", "/v1/reports/merchants",
				"error", err.Error())
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to compute breakdown"})
		}

		return c.JSON(fiber.Map{"merchants": breakdownRows(byMerchant)})
	}))

	apiRoutes.Get("/categories", withMetrics(func(c *fiber.Ctx) error {
		from, to, err := parseDateRange(c)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}

		byCategory, err := receiptsService.ExpensesByCategory(c.UserContext(), from, to)
		if err != nil {
			slog.Error("Failed to compute category breakdown",
				"component", "http_handler",
				"endpoint", "/v1/reports/categories",
				"error", err.Error())
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to compute breakdown"})
		}

		return c.JSON(fiber.Map{"categories": breakdownRows(byCategory)})
	}))

	apiRoutes.Get("/daily", withMetrics(func(c *fiber.Ctx) error {
		from, to, err := parseDateRange(c)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}
		if from == nil || to == nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "from and to query parameters are required"})
		}

		totals, err := receiptsService.DailyExpenses(c.UserContext(), *from, *to)
		if err != nil {
			slog.Error("Failed to compute daily breakdown",
				"component", "http_handler",
				"endpoint", "/v1/reports/daily",
				"error", err.Error())
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to compute breakdown"})
		}

		rows := make([]fiber.Map, 0, len(totals))
		for _, day := range totals {
			rows = append(rows, fiber.Map{
				"date":  day.Date.Format(dateLayout),
				"total": day.Total.StringFixed(2),
			})
		}
		return c.JSON(fiber.Map{"days": rows})
	}))
}

// parseDateRange reads the optional from/to query parameters as calendar
// days.
func parseDateRange(c *fiber.Ctx) (*time.Time, *time.Time, error) {
	var from, to *time.Time

	if raw := c.Query("from"); raw != "" {
		t, err := time.Parse(dateLayout, raw)
		if err != nil {
			return nil, nil, fiber.NewError(fiber.StatusBadRequest, "invalid from date, expected YYYY-MM-DD")
		}
		from = &t
	}
	if raw := c.Query("to"); raw != "" {
		t, err := time.Parse(dateLayout, raw)
		if err != nil {
			return nil, nil, fiber.NewError(fiber.StatusBadRequest, "invalid to date, expected YYYY-MM-DD")
		}
		to = &t
	}
	return from, to, nil
}

func breakdownRows(totals map[string]decimal.Decimal) []fiber.Map {
	rows := make([]fiber.Map, 0, len(totals))
	for _, row := range receipts.RankedTotals(totals) {
		rows = append(rows, fiber.Map{
			"name":  row.Name,
			"total": row.Total.StringFixed(2),
		})
	}
	return rows
}

func withMetrics(handler fiber.Handler) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		err := handler(c)

		durationMs := float64(time.Since(start).Milliseconds())

		if httpRequestsCounter != nil {
			httpRequestsCounter.Add(c.UserContext(), 1,
				api.WithAttributes(
					attribute.String("method", c.Method()),
					attribute.String("path", c.Route().Path),
					attribute.Int("status_code", c.Response().StatusCode()),
				),
			)
		}

		if httpRequestHistogram != nil {
			httpRequestHistogram.Record(c.UserContext(), durationMs,
				api.WithAttributes(
					attribute.String("method", c.Method()),
					attribute.String("path", c.Route().Path),
					attribute.Int("status_code", c.Response().StatusCode()),
				),
			)
		}

		return err
	}
}
