package v1

import (
	"errors"
	"net/http"

	"github.com/andreyxaxa/Seed-Manager/internal/controller/restapi/v1/response"
	"github.com/andreyxaxa/Seed-Manager/pkg/picturecodec"
	"github.com/andreyxaxa/Seed-Manager/pkg/types/errs"
	"github.com/gofiber/fiber/v2"
)

// @Summary 	List pictures of a record
// @Description Returns every picture of the record as base64
// @Tags 		pictures
// @Produce 	json
// @Param 		seed_data_id path int true "Record ID"
// @Success 	200 {object} response.Pictures
// @Failure 	400 {object} response.Error "Invalid ID"
// @Failure 	404 {object} response.Error "No pictures"
// @Failure 	500 {object} response.Error "Internal"
// @Router 		/v1/pictures/{seed_data_id} [get]
func (r *V1) listPictures(ctx *fiber.Ctx) error {
	id, err := parseID(ctx, "seed_data_id")
	if err != nil {
		return errorResponse(ctx, http.StatusBadRequest, "invalid seed_data_id")
	}

	pictures, err := r.seeds.ListPictures(ctx.UserContext(), id)
	if err != nil {
		if errors.Is(err, errs.ErrRecordNotFound) {
			return errorResponse(ctx, http.StatusNotFound, "no pictures found for this seed_data_id")
		}
		r.logger.Error(err, "restapi - v1 - listPictures")

		return errorResponse(ctx, http.StatusInternalServerError, "storage problems")
	}

	encoded := make([]string, 0, len(pictures))
	for _, p := range pictures {
		encoded = append(encoded, picturecodec.Encode(p))
	}

	return ctx.Status(http.StatusOK).JSON(response.Pictures{Pictures: encoded})
}

// @Summary 	Get raw picture
// @Tags 		pictures
// @Produce 	image/jpeg,image/png,image/gif
// @Param 		id path int true "Picture ID"
// @Success 	200 {file} 	 binary
// @Failure 	400 {object} response.Error "Invalid ID"
// @Failure 	404 {object} response.Error "Picture not found"
// @Failure 	500 {object} response.Error "Internal"
// @Router 		/v1/seeds/picture/{id} [get]
func (r *V1) getPicture(ctx *fiber.Ctx) error {
	id, err := parseID(ctx, "id")
	if err != nil {
		return errorResponse(ctx, http.StatusBadRequest, "invalid id")
	}

	body, err := r.seeds.GetPicture(ctx.UserContext(), id)
	if err != nil {
		if errors.Is(err, errs.ErrRecordNotFound) {
			return errorResponse(ctx, http.StatusNotFound, "picture not found")
		}
		r.logger.Error(err, "restapi - v1 - getPicture")

		return errorResponse(ctx, http.StatusInternalServerError, "storage problems")
	}

	ctx.Set(fiber.HeaderContentType, picturecodec.ContentType(body))

	return ctx.Send(body)
}
