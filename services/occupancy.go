package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Shash-135/Synca/models"
	"github.com/Shash-135/Synca/storage"

	"gorm.io/gorm"
)

// reconcileBed recomputes the bed's cached availability flag and the parent
// room/property occupancy counters. It must run inside the same transaction
// as the booking mutation that triggered it: a second booking request
// checked right after the commit has to see the updated state.
//
// A bed is occupied iff some non-cancelled booking's range covers today.
// This recomputation also overrides any manual owner toggle; toggles only
// hold between booking mutations.
func reconcileBed(tx *gorm.DB, bed *models.Bed, now time.Time) error {
	today := DateOnly(now)

	var active int64
	err := tx.Model(&models.Booking{}).
		Where("bed_id = ? AND cancelled = ?", bed.ID, false).
		Where("check_in <= ? AND check_out > ?", today, today).
		Count(&active).Error
	if err != nil {
		return err
	}

	available := active == 0
	if err := tx.Model(&models.Bed{}).Where("id = ?", bed.ID).
		Update("is_available", available).Error; err != nil {
		return err
	}
	bed.IsAvailable = available

	return reconcileCounters(tx, bed.RoomID)
}

// reconcileCounters refreshes the occupied-bed counters on the room and its
// property from the beds' cached flags.
func reconcileCounters(tx *gorm.DB, roomID uint) error {
	var room models.Room
	if err := tx.First(&room, roomID).Error; err != nil {
		return err
	}

	var roomOccupied int64
	if err := tx.Model(&models.Bed{}).
		Where("room_id = ? AND is_available = ?", roomID, false).
		Count(&roomOccupied).Error; err != nil {
		return err
	}
	if err := tx.Model(&models.Room{}).Where("id = ?", roomID).
		Update("occupied_beds", roomOccupied).Error; err != nil {
		return err
	}

	var total, occupied int64
	if err := tx.Model(&models.Bed{}).
		Joins("JOIN rooms ON rooms.id = beds.room_id").
		Where("rooms.property_id = ? AND rooms.deleted_at IS NULL", room.PropertyID).
		Count(&total).Error; err != nil {
		return err
	}
	if err := tx.Model(&models.Bed{}).
		Joins("JOIN rooms ON rooms.id = beds.room_id").
		Where("rooms.property_id = ? AND rooms.deleted_at IS NULL", room.PropertyID).
		Where("beds.is_available = ?", false).
		Count(&occupied).Error; err != nil {
		return err
	}

	return tx.Model(&models.Property{}).Where("id = ?", room.PropertyID).
		Updates(map[string]interface{}{
			"total_beds":    total,
			"occupied_beds": occupied,
		}).Error
}

// SetBedAvailability is the owner's manual out-of-service override. It
// writes the flag directly, bypassing the booking-derived computation. The
// next booking mutation on the bed recomputes the flag, so booking-derived
// state wins on any subsequent booking event; toggles only affect the gap
// between events.
func SetBedAvailability(bedID uint, available bool) (*models.Bed, error) {
	var bed models.Bed
	if err := storage.DB.First(&bed, bedID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	err := storage.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Bed{}).Where("id = ?", bed.ID).
			Update("is_available", available).Error; err != nil {
			return err
		}
		bed.IsAvailable = available
		return reconcileCounters(tx, bed.RoomID)
	})
	if err != nil {
		return nil, err
	}

	invalidateOwnerStats(ownerIDForRoom(bed.RoomID))
	return &bed, nil
}

func ownerIDForRoom(roomID uint) uint {
	var room models.Room
	if err := storage.DB.First(&room, roomID).Error; err != nil {
		return 0
	}
	var property models.Property
	if err := storage.DB.First(&property, room.PropertyID).Error; err != nil {
		return 0
	}
	return property.OwnerID
}

// invalidateOwnerStats drops the cached dashboard aggregates after a
// booking or availability mutation. Best effort; the cache has a short TTL
// anyway.
func invalidateOwnerStats(ownerID uint) {
	if storage.Redis == nil || ownerID == 0 {
		return
	}
	storage.Redis.Del(context.Background(), fmt.Sprintf("owner:%d:stats", ownerID))
}
