// Package api serves the import pipeline and ledger over HTTP.
package api

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"kakeibo/internal/ledger"
	"kakeibo/internal/logging"
	"kakeibo/internal/metrics"
	"kakeibo/internal/models"
)

// Importer is the upload and bulk classification surface.
type Importer interface {
	Upload(ctx context.Context, ownerID string, r io.Reader) (*models.UploadResult, error)
	AutoAssign(ctx context.Context, ownerID string) (*models.AssignResult, error)
}

// Ledger is the category and transaction management surface.
type Ledger interface {
	ListCategories(ctx context.Context, ownerID, typeName string) ([]models.Category, error)
	CreateCategory(ctx context.Context, ownerID string, in ledger.CategoryInput) (models.Category, error)
	UpdateCategory(ctx context.Context, ownerID, id string, patch ledger.CategoryPatch) (models.Category, error)
	DeleteCategory(ctx context.Context, ownerID, id string) error
	ListTransactions(ctx context.Context, ownerID, month, categoryID string) ([]models.Transaction, error)
	DeleteTransaction(ctx context.Context, ownerID, id string) error
}

// Options configures the router.
type Options struct {
	JWTSecret   string
	BodyLimitMB int
	// Metrics is optional; /metrics is only mounted when set.
	Metrics *metrics.Metrics
}

// NewRouter builds the fiber application.
func NewRouter(imp Importer, led Ledger, opts Options, logger logging.Logger) *fiber.App {
	bodyLimit := opts.BodyLimitMB
	if bodyLimit <= 0 {
		bodyLimit = 10
	}

	app := fiber.New(fiber.Config{
		AppName:               "kakeibo",
		BodyLimit:             bodyLimit * 1024 * 1024,
		DisableStartupMessage: true,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			var e *fiber.Error
			if errors.As(err, &e) {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error": err.Error(),
			})
		},
	})

	app.Use(recover.New())
	app.Use(requestLogger(logger))

	if opts.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(opts.Metrics.Handler()))
	}
	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	h := &handler{importer: imp, ledger: led, logger: logger}
	protected := app.Group("/api", AuthMiddleware(opts.JWTSecret, logger))

	transactions := protected.Group("/transactions")
	transactions.Post("/upload", h.upload)
	transactions.Get("", h.listTransactions)
	transactions.Delete("/:id", h.deleteTransaction)

	categories := protected.Group("/categories")
	categories.Post("/auto-assign", h.autoAssign)
	categories.Get("", h.listCategories)
	categories.Post("", h.createCategory)
	categories.Put("/:id", h.updateCategory)
	categories.Delete("/:id", h.deleteCategory)

	return app
}

func requestLogger(logger logging.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		logger.Debug("HTTP request",
			logging.F("method", c.Method()),
			logging.F("path", c.Path()),
			logging.F(logging.FieldStatus, c.Response().StatusCode()),
			logging.F(logging.FieldDuration, time.Since(start).String()))
		return err
	}
}
