package v1

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/andreyxaxa/Seed-Manager/internal/entity"
	"github.com/gofiber/fiber/v2"
	"github.com/xuri/excelize/v2"
)

const (
	exportSheet       = "Seeds"
	exportFileName    = "seed_data.xlsx"
	exportContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

var exportHeader = []interface{}{
	"id", "qr_code", "seed_id", "description",
	"germinated", "vigorous", "small", "abnormal", "usable",
	"group_size", "day_number", "date_scanned", "time_scanned", "has_pictures",
}

// @Summary 	Export seed data
// @Description Returns the records matching the listing filters as an xlsx workbook
// @Tags 		seeds
// @Produce 	application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param 		q 			query string false "Substring of qr_code, seed_id or description"
// @Param 		germinated 	query bool   false "Only germinated"
// @Param 		vigorous 	query bool   false "Only vigorous"
// @Param 		small 		query bool   false "Only small"
// @Param 		abnormal 	query bool   false "Only abnormal"
// @Param 		usable 		query bool   false "Only usable"
// @Success 	200 {file} 	 binary
// @Failure 	500 {object} response.Error "Internal"
// @Router 		/v1/seeds/export [get]
func (r *V1) exportSeeds(ctx *fiber.Ctx) error {
	observations, err := r.seeds.List(ctx.UserContext(), parseFilter(ctx))
	if err != nil {
		r.logger.Error(err, "restapi - v1 - exportSeeds")

		return errorResponse(ctx, http.StatusInternalServerError, "database problems")
	}

	buf, err := seedsWorkbook(observations)
	if err != nil {
		r.logger.Error(err, "restapi - v1 - exportSeeds")

		return errorResponse(ctx, http.StatusInternalServerError, "export problems")
	}

	ctx.Set(fiber.HeaderContentType, exportContentType)
	ctx.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", exportFileName))

	return ctx.Send(buf.Bytes())
}

func seedsWorkbook(observations []*entity.Observation) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", exportSheet); err != nil {
		return nil, fmt.Errorf("seedsWorkbook - f.SetSheetName: %w", err)
	}

	if err := f.SetSheetRow(exportSheet, "A1", &exportHeader); err != nil {
		return nil, fmt.Errorf("seedsWorkbook - f.SetSheetRow: %w", err)
	}

	for i, o := range observations {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, fmt.Errorf("seedsWorkbook - excelize.CoordinatesToCellName: %w", err)
		}

		row := []interface{}{
			o.ID, o.QRCode, o.SeedID, deref(o.Description),
			o.Germinated, o.Vigorous, o.Small, o.Abnormal, o.Usable,
			deref(o.GroupSize), deref(o.DayNumber), o.DateScanned, o.TimeScanned, o.HasPictures,
		}
		if err := f.SetSheetRow(exportSheet, cell, &row); err != nil {
			return nil, fmt.Errorf("seedsWorkbook - f.SetSheetRow: %w", err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("seedsWorkbook - f.WriteToBuffer: %w", err)
	}

	return buf, nil
}

// deref leaves absent optionals as empty cells.
func deref[T any](v *T) interface{} {
	if v == nil {
		return ""
	}

	return *v
}
