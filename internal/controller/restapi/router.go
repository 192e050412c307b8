package restapi

import (
	"net/http"

	"github.com/andreyxaxa/Seed-Manager/config"
	v1 "github.com/andreyxaxa/Seed-Manager/internal/controller/restapi/v1"
	"github.com/andreyxaxa/Seed-Manager/internal/usecase"
	"github.com/andreyxaxa/Seed-Manager/pkg/logger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/swagger"
)

// @title Seed Manager
// @version 1.0.0
// @host localhost:8080
// @BasePath /v1
func NewRouter(app *fiber.App, cfg *config.Config, seeds usecase.ObservationUseCase, l logger.Interface) {
	// Middleware
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.HTTP.CORSAllowOrigins,
	}))

	// Swagger
	if cfg.Swagger.Enabled {
		app.Get("/swagger/*", swagger.HandlerDefault)
	}

	// K8s probe
	app.Get("/healthz", func(ctx *fiber.Ctx) error { return ctx.SendStatus(http.StatusOK) })

	// Routers
	apiV1Group := app.Group("/v1")
	{
		v1.NewSeedRoutes(apiV1Group, seeds, l)
	}
}
