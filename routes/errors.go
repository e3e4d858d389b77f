package routes

import (
	"errors"

	"github.com/Shash-135/Synca/services"
	"github.com/Shash-135/Synca/utils"

	"github.com/kataras/iris/v12"
)

// handleEngineError maps the booking engine's error taxonomy onto HTTP
// statuses. Anything outside the taxonomy is a server error.
func handleEngineError(err error, ctx iris.Context) {
	switch {
	case errors.Is(err, services.ErrInvalidRange):
		utils.CreateError(iris.StatusBadRequest, "Validation Error", err.Error(), ctx)
	case errors.Is(err, services.ErrOverlap):
		utils.CreateError(iris.StatusConflict, "Booking Conflict", err.Error(), ctx)
	case errors.Is(err, services.ErrLockInViolation):
		utils.CreateError(iris.StatusUnprocessableEntity, "Lock-in Violation", err.Error(), ctx)
	case errors.Is(err, services.ErrResourceInUse):
		utils.CreateError(iris.StatusConflict, "Resource In Use", err.Error(), ctx)
	case errors.Is(err, services.ErrBookingCancelled):
		utils.CreateError(iris.StatusConflict, "Booking Cancelled", err.Error(), ctx)
	case errors.Is(err, services.ErrNotFound):
		utils.CreateError(iris.StatusNotFound, "Not Found", err.Error(), ctx)
	default:
		utils.CreateInternalServerError(ctx)
	}
}
