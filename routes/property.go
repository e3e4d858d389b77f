package routes

import (
	"encoding/json"

	"github.com/Shash-135/Synca/models"
	"github.com/Shash-135/Synca/services"
	"github.com/Shash-135/Synca/storage"
	"github.com/Shash-135/Synca/utils"

	"github.com/kataras/iris/v12"
	"gorm.io/datatypes"
)

type CreatePropertyInput struct {
	Name         string   `json:"name" validate:"required,max=256"`
	Address      string   `json:"address" validate:"required"`
	Area         string   `json:"area" validate:"max=100"`
	Description  string   `json:"description"`
	Amenities    []string `json:"amenities"`
	Images       []string `json:"images"`
	LockInMonths int      `json:"lockInMonths" validate:"min=0,max=36"`
	Deposit      *float64 `json:"deposit" validate:"omitempty,min=0"`
}

type AddRoomInput struct {
	Label     string  `json:"label" validate:"required,max=64"`
	RentBasis string  `json:"rentBasis" validate:"omitempty,oneof=per_bed per_room"`
	DailyRent float64 `json:"dailyRent" validate:"required,min=0"`
}

type AddBedInput struct {
	Label             string   `json:"label" validate:"required,max=64"`
	DailyRentOverride *float64 `json:"dailyRentOverride" validate:"omitempty,min=0"`
}

type RenameInput struct {
	Label string `json:"label" validate:"required,max=64"`
}

func CreateProperty(ctx iris.Context) {
	userID := ctx.Values().Get("userID").(uint)

	var input CreatePropertyInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	amenities, _ := json.Marshal(input.Amenities)
	images, _ := json.Marshal(input.Images)

	property := models.Property{
		OwnerID:      userID,
		Name:         input.Name,
		Address:      input.Address,
		Area:         input.Area,
		Description:  input.Description,
		Amenities:    datatypes.JSON(amenities),
		Images:       datatypes.JSON(images),
		LockInMonths: input.LockInMonths,
		Deposit:      input.Deposit,
	}

	if err := storage.DB.Create(&property).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	utils.Audit(ctx, "property.create", "property", property.ID, nil, property)
	ctx.JSON(iris.Map{"success": true, "data": property})
}

func GetProperty(ctx iris.Context) {
	id := ctx.Params().Get("id")

	var property models.Property
	if err := storage.DB.Preload("Rooms").Preload("Rooms.Beds").First(&property, id).Error; err != nil {
		utils.CreateError(iris.StatusNotFound, "Not Found", "Property not found", ctx)
		return
	}

	ctx.JSON(iris.Map{"success": true, "data": property})
}

func GetOwnerProperties(ctx iris.Context) {
	userID := ctx.Values().Get("userID").(uint)

	page := ctx.URLParamIntDefault("page", 1)
	if page < 1 {
		page = 1
	}
	perPage := ctx.URLParamIntDefault("per_page", 20)
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}

	var total int64
	if err := storage.DB.Model(&models.Property{}).
		Where("owner_id = ?", userID).Count(&total).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	var properties []models.Property
	if err := storage.DB.Preload("Rooms").Preload("Rooms.Beds").
		Where("owner_id = ?", userID).Order("created_at DESC").
		Offset((page - 1) * perPage).Limit(perPage).
		Find(&properties).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	utils.JSONPage(ctx, properties, page, perPage, total)
}

func DeleteProperty(ctx iris.Context) {
	userID := ctx.Values().Get("userID").(uint)
	propertyID, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.CreateError(iris.StatusBadRequest, "Validation Error", "Invalid property ID", ctx)
		return
	}

	if !ownsProperty(ctx, userID, propertyID) {
		return
	}

	if err := services.DeleteProperty(propertyID); err != nil {
		handleEngineError(err, ctx)
		return
	}

	utils.Audit(ctx, "property.delete", "property", propertyID, nil, nil)
	ctx.JSON(iris.Map{"success": true, "message": "Property deleted"})
}

func AddRoom(ctx iris.Context) {
	userID := ctx.Values().Get("userID").(uint)
	propertyID, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.CreateError(iris.StatusBadRequest, "Validation Error", "Invalid property ID", ctx)
		return
	}

	var input AddRoomInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	if !ownsProperty(ctx, userID, propertyID) {
		return
	}

	room, err := services.AddRoom(propertyID, input.Label, input.RentBasis, input.DailyRent)
	if err != nil {
		handleEngineError(err, ctx)
		return
	}

	ctx.JSON(iris.Map{"success": true, "data": room})
}

func AddBed(ctx iris.Context) {
	userID := ctx.Values().Get("userID").(uint)
	roomID, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.CreateError(iris.StatusBadRequest, "Validation Error", "Invalid room ID", ctx)
		return
	}

	var input AddBedInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	if !ownsRoom(ctx, userID, roomID) {
		return
	}

	bed, err := services.AddBed(roomID, input.Label, input.DailyRentOverride)
	if err != nil {
		handleEngineError(err, ctx)
		return
	}

	ctx.JSON(iris.Map{"success": true, "data": bed})
}

func RenameRoom(ctx iris.Context) {
	userID := ctx.Values().Get("userID").(uint)
	roomID, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.CreateError(iris.StatusBadRequest, "Validation Error", "Invalid room ID", ctx)
		return
	}

	var input RenameInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	if !ownsRoom(ctx, userID, roomID) {
		return
	}

	if err := services.RenameRoom(roomID, input.Label); err != nil {
		handleEngineError(err, ctx)
		return
	}
	ctx.JSON(iris.Map{"success": true})
}

func RenameBed(ctx iris.Context) {
	userID := ctx.Values().Get("userID").(uint)
	bedID, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.CreateError(iris.StatusBadRequest, "Validation Error", "Invalid bed ID", ctx)
		return
	}

	var input RenameInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	if !ownsBed(ctx, userID, bedID) {
		return
	}

	if err := services.RenameBed(bedID, input.Label); err != nil {
		handleEngineError(err, ctx)
		return
	}
	ctx.JSON(iris.Map{"success": true})
}

func RemoveBed(ctx iris.Context) {
	userID := ctx.Values().Get("userID").(uint)
	bedID, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.CreateError(iris.StatusBadRequest, "Validation Error", "Invalid bed ID", ctx)
		return
	}

	if !ownsBed(ctx, userID, bedID) {
		return
	}

	if err := services.RemoveBed(bedID); err != nil {
		handleEngineError(err, ctx)
		return
	}

	utils.Audit(ctx, "bed.remove", "bed", bedID, nil, nil)
	ctx.JSON(iris.Map{"success": true, "message": "Bed removed"})
}

// Ownership guards. Each writes the error response itself and returns false
// when the requester does not own the resource.

func ownsProperty(ctx iris.Context, userID, propertyID uint) bool {
	var property models.Property
	if err := storage.DB.Where("id = ? AND owner_id = ?", propertyID, userID).First(&property).Error; err != nil {
		utils.CreateError(iris.StatusForbidden, "Forbidden", "Property not found or access denied", ctx)
		return false
	}
	return true
}

func ownsRoom(ctx iris.Context, userID, roomID uint) bool {
	var room models.Room
	if err := storage.DB.First(&room, roomID).Error; err != nil {
		utils.CreateError(iris.StatusNotFound, "Not Found", "Room not found", ctx)
		return false
	}
	return ownsProperty(ctx, userID, room.PropertyID)
}

func ownsBed(ctx iris.Context, userID, bedID uint) bool {
	var bed models.Bed
	if err := storage.DB.First(&bed, bedID).Error; err != nil {
		utils.CreateError(iris.StatusNotFound, "Not Found", "Bed not found", ctx)
		return false
	}
	return ownsRoom(ctx, userID, bed.RoomID)
}
