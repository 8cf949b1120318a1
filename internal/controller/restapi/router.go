package restapi

import (
	"github.com/andreyxaxa/Photo-Storage/config"
	_ "github.com/andreyxaxa/Photo-Storage/docs" // swagger docs
	v1 "github.com/andreyxaxa/Photo-Storage/internal/controller/restapi/v1"
	"github.com/andreyxaxa/Photo-Storage/internal/usecase"
	"github.com/andreyxaxa/Photo-Storage/pkg/logger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/swagger"
)

// @title Photo storage
// @version 1.0.0
// @host localhost:8080
// @BasePath /
func NewRouter(app *fiber.App, cfg *config.Config, photo usecase.PhotoUseCase, l logger.Interface) {
	// Middleware
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(accessLog(l))

	// K8s probe
	app.Get("/healthz", func(ctx *fiber.Ctx) error { return ctx.SendStatus(fiber.StatusOK) })

	// Swagger
	if cfg.Swagger.Enabled {
		app.Get("/swagger/*", swagger.HandlerDefault)
	}

	// Routers
	v1.NewPhotoRoutes(app, photo, l, cfg.Upload.TempDir, cfg.Upload.MaxFileSize)
}
