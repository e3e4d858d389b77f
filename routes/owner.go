package routes

import (
	"time"

	"github.com/Shash-135/Synca/models"
	"github.com/Shash-135/Synca/services"
	"github.com/Shash-135/Synca/storage"
	"github.com/Shash-135/Synca/utils"

	"github.com/kataras/iris/v12"
)

type CreateOfflineBookingInput struct {
	CheckIn    string `json:"checkIn" validate:"required"`
	CheckOut   string `json:"checkOut" validate:"required"`
	GuestName  string `json:"guestName" validate:"required,max=256"`
	GuestEmail string `json:"guestEmail" validate:"omitempty,email"`
	GuestPhone string `json:"guestPhone" validate:"omitempty,max=20"`
}

type ToggleBedInput struct {
	IsAvailable *bool `json:"isAvailable" validate:"required"`
}

func CreateOfflineBooking(ctx iris.Context) {
	userID := ctx.Values().Get("userID").(uint)
	bedID, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.CreateError(iris.StatusBadRequest, "Validation Error", "Invalid bed ID", ctx)
		return
	}

	var input CreateOfflineBookingInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	start, end, ok := parseDateRange(input.CheckIn, input.CheckOut, ctx)
	if !ok {
		return
	}

	if !ownsBed(ctx, userID, bedID) {
		return
	}

	contact := &services.GuestContact{
		Name:  input.GuestName,
		Email: input.GuestEmail,
		Phone: input.GuestPhone,
	}

	booking, quote, err := services.CreateBooking(bedID, start, end, models.BookingSourceOffline, nil, contact)
	if err != nil {
		handleEngineError(err, ctx)
		return
	}

	utils.Audit(ctx, "booking.create_offline", "booking", booking.ID, nil, booking)
	ctx.StatusCode(iris.StatusCreated)
	ctx.JSON(iris.Map{"success": true, "data": booking, "quote": quote})
}

func OwnerUpdateBookingDates(ctx iris.Context) {
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

	before, ok := bookingOnOwnedBed(ctx, userID, bookingID)
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

func OwnerCancelBooking(ctx iris.Context) {
	userID := ctx.Values().Get("userID").(uint)
	bookingID, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.CreateError(iris.StatusBadRequest, "Validation Error", "Invalid booking ID", ctx)
		return
	}

	before, ok := bookingOnOwnedBed(ctx, userID, bookingID)
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

func ToggleBedAvailability(ctx iris.Context) {
	userID := ctx.Values().Get("userID").(uint)
	bedID, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.CreateError(iris.StatusBadRequest, "Validation Error", "Invalid bed ID", ctx)
		return
	}

	var input ToggleBedInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	if !ownsBed(ctx, userID, bedID) {
		return
	}

	bed, err := services.SetBedAvailability(bedID, *input.IsAvailable)
	if err != nil {
		handleEngineError(err, ctx)
		return
	}

	utils.Audit(ctx, "bed.toggle_availability", "bed", bed.ID, nil, bed)
	ctx.JSON(iris.Map{"success": true, "data": bed})
}

func OwnerDashboard(ctx iris.Context) {
	userID := ctx.Values().Get("userID").(uint)

	stats, err := services.DashboardStats(userID)
	if err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(iris.Map{"success": true, "data": stats})
}

func GetPropertyBookings(ctx iris.Context) {
	userID := ctx.Values().Get("userID").(uint)
	propertyID, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.CreateError(iris.StatusBadRequest, "Validation Error", "Invalid property ID", ctx)
		return
	}

	if !ownsProperty(ctx, userID, propertyID) {
		return
	}

	var bookings []models.Booking
	if err := storage.DB.Preload("Bed").Preload("Tenant").
		Joins("JOIN beds ON beds.id = bookings.bed_id").
		Joins("JOIN rooms ON rooms.id = beds.room_id").
		Where("rooms.property_id = ?", propertyID).
		Order("bookings.check_in DESC").
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

func bookingOnOwnedBed(ctx iris.Context, userID, bookingID uint) (*models.Booking, bool) {
	var booking models.Booking
	if err := storage.DB.First(&booking, bookingID).Error; err != nil {
		utils.CreateError(iris.StatusNotFound, "Not Found", "Booking not found", ctx)
		return nil, false
	}
	if !ownsBed(ctx, userID, booking.BedID) {
		return nil, false
	}
	return &booking, true
}
