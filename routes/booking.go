package routes

import (
	"time"

	"github.com/Shash-135/Synca/models"
	"github.com/Shash-135/Synca/services"
	"github.com/Shash-135/Synca/storage"
	"github.com/Shash-135/Synca/utils"

	"github.com/kataras/iris/v12"
)

const dateLayout = "2006-01-02"

type CreateBookingInput struct {
	CheckIn  string `json:"checkIn" validate:"required"`
	CheckOut string `json:"checkOut" validate:"required"`
}

type UpdateBookingDatesInput struct {
	CheckIn  string `json:"checkIn" validate:"required"`
	CheckOut string `json:"checkOut" validate:"required"`
}

func parseDateRange(checkIn, checkOut string, ctx iris.Context) (time.Time, time.Time, bool) {
	start, err := time.Parse(dateLayout, checkIn)
	if err != nil {
		utils.CreateError(iris.StatusBadRequest, "Validation Error", "checkIn must be formatted as YYYY-MM-DD", ctx)
		return time.Time{}, time.Time{}, false
	}
	end, err := time.Parse(dateLayout, checkOut)
	if err != nil {
		utils.CreateError(iris.StatusBadRequest, "Validation Error", "checkOut must be formatted as YYYY-MM-DD", ctx)
		return time.Time{}, time.Time{}, false
	}
	return start, end, true
}

func CreateBooking(ctx iris.Context) {
	userID := ctx.Values().Get("userID").(uint)
	bedID, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.CreateError(iris.StatusBadRequest, "Validation Error", "Invalid bed ID", ctx)
		return
	}

	var input CreateBookingInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	start, end, ok := parseDateRange(input.CheckIn, input.CheckOut, ctx)
	if !ok {
		return
	}

	booking, quote, err := services.CreateBooking(bedID, start, end, models.BookingSourceOnline, &userID, nil)
	if err != nil {
		handleEngineError(err, ctx)
		return
	}

	utils.Audit(ctx, "booking.create", "booking", booking.ID, nil, booking)
	ctx.StatusCode(iris.StatusCreated)
	ctx.JSON(iris.Map{"success": true, "data": booking, "quote": quote})
}

func UpdateBookingDates(ctx iris.Context) {
	userID := ctx.Values().Get("userID").(uint)
	bookingID, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.CreateError(iris.StatusBadRequest, "Validation Error", "Invalid booking ID", ctx)
		return
	}

	var input UpdateBookingDatesInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	start, end, ok := parseDateRange(input.CheckIn, input.CheckOut, ctx)
	if !ok {
		return
	}

	before, ok := bookingOwnedBy(ctx, userID, bookingID)
	if !ok {
		return
	}

	booking, err := services.UpdateDates(bookingID, start, end)
	if err != nil {
		handleEngineError(err, ctx)
		return
	}

	utils.Audit(ctx, "booking.update_dates", "booking", booking.ID, before, booking)
	ctx.JSON(iris.Map{"success": true, "data": booking})
}

func CancelBooking(ctx iris.Context) {
	userID := ctx.Values().Get("userID").(uint)
	bookingID, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.CreateError(iris.StatusBadRequest, "Validation Error", "Invalid booking ID", ctx)
		return
	}

	before, ok := bookingOwnedBy(ctx, userID, bookingID)
	if !ok {
		return
	}

	booking, err := services.Cancel(bookingID)
	if err != nil {
		handleEngineError(err, ctx)
		return
	}

	utils.Audit(ctx, "booking.cancel", "booking", booking.ID, before, booking)
	ctx.JSON(iris.Map{"success": true, "data": booking})
}

type bookingWithStatus struct {
	models.Booking
	Status services.BookingStatus `json:"status"`
}

func GetUserBookings(ctx iris.Context) {
	userID := ctx.Values().Get("userID").(uint)

	var bookings []models.Booking
	if err := storage.DB.Preload("Bed").
		Where("tenant_id = ?", userID).Order("check_in DESC").
		Find(&bookings).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	now := time.Now()
	classified := make([]bookingWithStatus, 0, len(bookings))
	for _, b := range bookings {
		classified = append(classified, bookingWithStatus{Booking: b, Status: services.Classify(&b, now)})
	}

	ctx.JSON(iris.Map{
		"success": true,
		"data":    classified,
		"counts":  services.StatusCounts(bookings, now),
	})
}

func GetBooking(ctx iris.Context) {
	userID := ctx.Values().Get("userID").(uint)
	bookingID, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.CreateError(iris.StatusBadRequest, "Validation Error", "Invalid booking ID", ctx)
		return
	}

	booking, ok := bookingOwnedBy(ctx, userID, bookingID)
	if !ok {
		return
	}

	ctx.JSON(iris.Map{
		"success": true,
		"data":    bookingWithStatus{Booking: *booking, Status: services.Classify(booking, time.Now())},
	})
}

// bookingOwnedBy loads the booking and rejects the request when it belongs
// to another tenant. Offline bookings have no tenant and are owner-managed.
func bookingOwnedBy(ctx iris.Context, userID, bookingID uint) (*models.Booking, bool) {
	var booking models.Booking
	if err := storage.DB.First(&booking, bookingID).Error; err != nil {
		utils.CreateError(iris.StatusNotFound, "Not Found", "Booking not found", ctx)
		return nil, false
	}
	if booking.TenantID == nil || *booking.TenantID != userID {
		utils.CreateError(iris.StatusForbidden, "Forbidden", "Booking belongs to another user", ctx)
		return nil, false
	}
	return &booking, true
}
