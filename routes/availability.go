package routes

import (
	"github.com/Shash-135/Synca/models"
	"github.com/Shash-135/Synca/services"
	"github.com/Shash-135/Synca/storage"
	"github.com/Shash-135/Synca/utils"

	"github.com/kataras/iris/v12"
)

// GetBedAvailability answers whether a bed is free for a half-open date
// range. Query params: startDate, endDate (YYYY-MM-DD, endDate exclusive).
func GetBedAvailability(ctx iris.Context) {
	bedID, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.CreateError(iris.StatusBadRequest, "Validation Error", "Invalid bed ID", ctx)
		return
	}

	startDate := ctx.URLParam("startDate")
	endDate := ctx.URLParam("endDate")
	if startDate == "" || endDate == "" {
		utils.CreateError(iris.StatusBadRequest, "Validation Error", "startDate and endDate query params are required", ctx)
		return
	}

	start, end, ok := parseDateRange(startDate, endDate, ctx)
	if !ok {
		return
	}

	start = services.DateOnly(start)
	end = services.DateOnly(end)
	if !start.Before(end) {
		handleEngineError(services.ErrInvalidRange, ctx)
		return
	}

	var bed models.Bed
	if err := storage.DB.First(&bed, bedID).Error; err != nil {
		utils.CreateError(iris.StatusNotFound, "Not Found", "Bed not found", ctx)
		return
	}

	free, err := services.IsRangeFree(storage.DB, bedID, start, end, 0)
	if err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(iris.Map{"success": true, "data": iris.Map{
		"bedID":     bedID,
		"startDate": startDate,
		"endDate":   endDate,
		"available": free,
	}})
}

// GetBedQuote prices a prospective stay on a bed. Same query params as the
// availability check.
func GetBedQuote(ctx iris.Context) {
	bedID, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.CreateError(iris.StatusBadRequest, "Validation Error", "Invalid bed ID", ctx)
		return
	}

	startDate := ctx.URLParam("startDate")
	endDate := ctx.URLParam("endDate")
	if startDate == "" || endDate == "" {
		utils.CreateError(iris.StatusBadRequest, "Validation Error", "startDate and endDate query params are required", ctx)
		return
	}

	start, end, ok := parseDateRange(startDate, endDate, ctx)
	if !ok {
		return
	}

	quote, err := services.QuoteStay(bedID, start, end)
	if err != nil {
		handleEngineError(err, ctx)
		return
	}

	ctx.JSON(iris.Map{"success": true, "data": quote})
}
