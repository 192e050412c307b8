package v1

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/andreyxaxa/Seed-Manager/internal/controller/restapi/v1/response"
	"github.com/andreyxaxa/Seed-Manager/internal/controller/restapi/v1/validate"
	"github.com/andreyxaxa/Seed-Manager/internal/dto"
	"github.com/andreyxaxa/Seed-Manager/internal/entity"
	"github.com/andreyxaxa/Seed-Manager/pkg/picturecodec"
	"github.com/andreyxaxa/Seed-Manager/pkg/types/errs"
	"github.com/gofiber/fiber/v2"
)

// @Summary 	Create seed data
// @Description Saves an observation and its pictures in one transaction
// @Tags 		seeds
// @Accept 		json
// @Produce 	json
// @Param 		request body dto.SeedRequest true "Observation with base64 images"
// @Success 	201 {object} entity.Observation
// @Failure 	400 {object} response.Error "Missing fields or bad picture encoding"
// @Failure 	413 {object} response.Error "Body too large"
// @Failure 	500 {object} response.Error "Internal"
// @Router 		/v1/seeds [post]
func (r *V1) createSeed(ctx *fiber.Ctx) error {
	o, pictures, err := parseSeedRequest(ctx)
	if err != nil {
		return errorResponse(ctx, http.StatusBadRequest, err.Error())
	}

	created, err := r.seeds.Create(ctx.UserContext(), o, pictures)
	if err != nil {
		r.logger.Error(err, "restapi - v1 - createSeed")

		return errorResponse(ctx, http.StatusInternalServerError, "database problems")
	}

	return ctx.Status(http.StatusCreated).JSON(created)
}

// @Summary 	List seed data
// @Description Returns every record matching the filters, oldest first (by id)
// @Tags 		seeds
// @Produce 	json
// @Param 		q 			query string false "Substring of qr_code, seed_id or description"
// @Param 		germinated 	query bool   false "Only germinated"
// @Param 		vigorous 	query bool   false "Only vigorous"
// @Param 		small 		query bool   false "Only small"
// @Param 		abnormal 	query bool   false "Only abnormal"
// @Param 		usable 		query bool   false "Only usable"
// @Success 	200 {array}  entity.Observation
// @Failure 	500 {object} response.Error "Internal"
// @Router 		/v1/seeds [get]
func (r *V1) listSeeds(ctx *fiber.Ctx) error {
	observations, err := r.seeds.List(ctx.UserContext(), parseFilter(ctx))
	if err != nil {
		r.logger.Error(err, "restapi - v1 - listSeeds")

		return errorResponse(ctx, http.StatusInternalServerError, "database problems")
	}

	return ctx.Status(http.StatusOK).JSON(observations)
}

// @Summary 	Page of seed data
// @Tags 		seeds
// @Produce 	json
// @Param 		page  path  int true  "Page, from 1"
// @Param 		limit query int false "Records per page" default(25)
// @Success 	200 {object} response.Page
// @Failure 	400 {object} response.Error "Invalid page or limit"
// @Failure 	500 {object} response.Error "Internal"
// @Router 		/v1/seeds/page/{page} [get]
func (r *V1) pageSeeds(ctx *fiber.Ctx) error {
	page, err := strconv.Atoi(ctx.Params("page"))
	if err != nil || page < 1 {
		return errorResponse(ctx, http.StatusBadRequest, "invalid page")
	}

	limit := ctx.QueryInt("limit", validate.DefaultPageLimit)
	if limit < 1 || limit > validate.MaxPageLimit {
		return errorResponse(ctx, http.StatusBadRequest, "invalid limit")
	}

	p, err := r.seeds.Page(ctx.UserContext(), parseFilter(ctx), page, limit)
	if err != nil {
		if errors.Is(err, errs.ErrValidation) {
			return errorResponse(ctx, http.StatusBadRequest, "invalid page or limit")
		}
		r.logger.Error(err, "restapi - v1 - pageSeeds")

		return errorResponse(ctx, http.StatusInternalServerError, "database problems")
	}

	return ctx.Status(http.StatusOK).JSON(response.Page{
		Page:  p.Page,
		Limit: p.Limit,
		Data:  p.Data,
	})
}

// @Summary 	Get seed data
// @Tags 		seeds
// @Produce 	json
// @Param 		id path int true "Record ID"
// @Success 	200 {object} entity.Observation
// @Failure 	400 {object} response.Error "Invalid ID"
// @Failure 	404 {object} response.Error "Not found"
// @Failure 	500 {object} response.Error "Internal"
// @Router 		/v1/seeds/{id} [get]
func (r *V1) getSeed(ctx *fiber.Ctx) error {
	id, err := parseID(ctx, "id")
	if err != nil {
		return errorResponse(ctx, http.StatusBadRequest, "invalid id")
	}

	o, err := r.seeds.Get(ctx.UserContext(), id)
	if err != nil {
		if errors.Is(err, errs.ErrRecordNotFound) {
			return errorResponse(ctx, http.StatusNotFound, "seed data not found")
		}
		r.logger.Error(err, "restapi - v1 - getSeed")

		return errorResponse(ctx, http.StatusInternalServerError, "database problems")
	}

	return ctx.Status(http.StatusOK).JSON(o)
}

// @Summary 	Update seed data
// @Description Replaces every field of the record; images are appended to the existing ones
// @Tags 		seeds
// @Accept 		json
// @Produce 	json
// @Param 		id 		path int 			true "Record ID"
// @Param 		request body dto.SeedRequest true "Observation with new base64 images"
// @Success 	200 {object} entity.Observation
// @Failure 	400 {object} response.Error "Invalid ID, missing fields or bad picture encoding"
// @Failure 	404 {object} response.Error "Not found"
// @Failure 	500 {object} response.Error "Internal"
// @Router 		/v1/seeds/{id} [put]
func (r *V1) updateSeed(ctx *fiber.Ctx) error {
	id, err := parseID(ctx, "id")
	if err != nil {
		return errorResponse(ctx, http.StatusBadRequest, "invalid id")
	}

	o, pictures, err := parseSeedRequest(ctx)
	if err != nil {
		return errorResponse(ctx, http.StatusBadRequest, err.Error())
	}

	updated, err := r.seeds.Update(ctx.UserContext(), id, o, pictures)
	if err != nil {
		if errors.Is(err, errs.ErrRecordNotFound) {
			return errorResponse(ctx, http.StatusNotFound, "seed data not found")
		}
		r.logger.Error(err, "restapi - v1 - updateSeed")

		return errorResponse(ctx, http.StatusInternalServerError, "database problems")
	}

	return ctx.Status(http.StatusOK).JSON(updated)
}

// @Summary 	Delete seed data
// @Description Deletes the record, its pictures go with it
// @Tags 		seeds
// @Produce 	json
// @Param		id 	path	 int true "Record ID"
// @Success		200 {object} entity.Observation
// @Failure 	400 {object} response.Error "Invalid ID"
// @Failure 	404 {object} response.Error "Not found"
// @Failure 	500 {object} response.Error "Internal"
// @Router 		/v1/seeds/{id} [delete]
func (r *V1) deleteSeed(ctx *fiber.Ctx) error {
	id, err := parseID(ctx, "id")
	if err != nil {
		return errorResponse(ctx, http.StatusBadRequest, "invalid id")
	}

	deleted, err := r.seeds.Delete(ctx.UserContext(), id)
	if err != nil {
		if errors.Is(err, errs.ErrRecordNotFound) {
			return errorResponse(ctx, http.StatusNotFound, "seed data not found")
		}
		r.logger.Error(err, "restapi - v1 - deleteSeed")

		return errorResponse(ctx, http.StatusInternalServerError, "database problems")
	}

	return ctx.Status(http.StatusOK).JSON(deleted)
}

func parseID(ctx *fiber.Ctx, param string) (int64, error) {
	id, err := strconv.ParseInt(ctx.Params(param), 10, 64)
	if err != nil || id < 1 {
		return 0, errors.New("invalid id")
	}

	return id, nil
}

func parseSeedRequest(ctx *fiber.Ctx) (entity.Observation, [][]byte, error) {
	var req dto.SeedRequest

	if err := ctx.BodyParser(&req); err != nil {
		return entity.Observation{}, nil, errors.New("invalid request body")
	}

	// 1. fields
	if err := req.Validate(); err != nil {
		return entity.Observation{}, nil, err
	}

	// 2. pictures
	pictures := make([][]byte, 0, len(req.Images))
	for _, image := range req.Images {
		b, err := picturecodec.Decode(image)
		if err != nil || len(b) == 0 {
			return entity.Observation{}, nil, errs.ErrInvalidPicture
		}
		pictures = append(pictures, b)
	}

	return req.Observation, pictures, nil
}

func parseFilter(ctx *fiber.Ctx) dto.Filter {
	flag := func(name string) *bool {
		if !ctx.QueryBool(name, false) {
			return nil
		}
		v := true

		return &v
	}

	return dto.Filter{
		Query: ctx.Query("q"),
		Flags: dto.Flags{
			Germinated: flag("germinated"),
			Vigorous:   flag("vigorous"),
			Small:      flag("small"),
			Abnormal:   flag("abnormal"),
			Usable:     flag("usable"),
		},
	}
}
