package v1

import (
	"github.com/andreyxaxa/Seed-Manager/internal/usecase"
	"github.com/andreyxaxa/Seed-Manager/pkg/logger"
	"github.com/gofiber/fiber/v2"
)

func NewSeedRoutes(apiV1Group fiber.Router, seeds usecase.ObservationUseCase, l logger.Interface) {
	r := &V1{seeds: seeds, logger: l}

	seedGroup := apiV1Group.Group("/seeds")
	{
		// static segments before /:id
		seedGroup.Get("/export", r.exportSeeds)
		seedGroup.Get("/page/:page", r.pageSeeds)
		seedGroup.Get("/picture/:id", r.getPicture)

		seedGroup.Post("/", r.createSeed)
		seedGroup.Get("/", r.listSeeds)
		seedGroup.Get("/:id", r.getSeed)
		seedGroup.Put("/:id", r.updateSeed)
		seedGroup.Delete("/:id", r.deleteSeed)
	}

	apiV1Group.Get("/pictures/:seed_data_id", r.listPictures)
}
