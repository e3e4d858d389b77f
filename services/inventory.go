package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/Shash-135/Synca/models"
	"github.com/Shash-135/Synca/storage"

	"golang.org/x/exp/slices"
	"gorm.io/gorm"
)

var rentBases = []string{models.RentBasisPerBed, models.RentBasisPerRoom}

// AddRoom creates a room under the property. Capacity starts at zero and
// tracks bed additions, keeping the capacity == len(beds) invariant.
func AddRoom(propertyID uint, label, rentBasis string, dailyRent float64) (*models.Room, error) {
	if rentBasis == "" {
		rentBasis = models.RentBasisPerBed
	}
	if !slices.Contains(rentBases, rentBasis) {
		return nil, fmt.Errorf("unknown rent basis %q", rentBasis)
	}

	var property models.Property
	if err := storage.DB.First(&property, propertyID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	room := models.Room{
		PropertyID: propertyID,
		Label:      label,
		RentBasis:  rentBasis,
		DailyRent:  dailyRent,
	}
	if err := storage.DB.Create(&room).Error; err != nil {
		return nil, err
	}
	return &room, nil
}

// AddBed creates a bed in the room, defaulting to available, and bumps the
// room capacity and property totals in the same transaction.
func AddBed(roomID uint, label string, dailyRentOverride *float64) (*models.Bed, error) {
	var bed models.Bed
	err := storage.DB.Transaction(func(tx *gorm.DB) error {
		var room models.Room
		if err := tx.First(&room, roomID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		bed = models.Bed{
			RoomID:            roomID,
			Label:             label,
			IsAvailable:       true,
			DailyRentOverride: dailyRentOverride,
		}
		if err := tx.Create(&bed).Error; err != nil {
			return err
		}

		if err := tx.Model(&models.Room{}).Where("id = ?", roomID).
			Update("capacity", gorm.Expr("capacity + 1")).Error; err != nil {
			return err
		}
		return reconcileCounters(tx, roomID)
	})
	if err != nil {
		return nil, err
	}
	return &bed, nil
}

// RemoveBed deletes a bed that has no live bookings. A bed with any
// non-cancelled booking whose checkout is still in the future is in use and
// cannot be removed.
func RemoveBed(bedID uint) error {
	return storage.DB.Transaction(func(tx *gorm.DB) error {
		bed, err := lockBed(tx, bedID)
		if err != nil {
			return err
		}

		var live int64
		err = tx.Model(&models.Booking{}).
			Where("bed_id = ? AND cancelled = ?", bed.ID, false).
			Where("check_out > ?", DateOnly(time.Now())).
			Count(&live).Error
		if err != nil {
			return err
		}
		if live > 0 {
			return ErrResourceInUse
		}

		if err := tx.Delete(&models.Bed{}, bed.ID).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.Room{}).Where("id = ?", bed.RoomID).
			Update("capacity", gorm.Expr("capacity - 1")).Error; err != nil {
			return err
		}
		return reconcileCounters(tx, bed.RoomID)
	})
}

// RenameRoom updates the room's label.
func RenameRoom(roomID uint, label string) error {
	result := storage.DB.Model(&models.Room{}).Where("id = ?", roomID).Update("label", label)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// RenameBed updates the bed's label.
func RenameBed(bedID uint, label string) error {
	result := storage.DB.Model(&models.Bed{}).Where("id = ?", bedID).Update("label", label)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteProperty removes a property and its rooms and beds, but only when
// no bed underneath it has a live booking.
func DeleteProperty(propertyID uint) error {
	return storage.DB.Transaction(func(tx *gorm.DB) error {
		var property models.Property
		if err := tx.First(&property, propertyID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		var live int64
		err := tx.Model(&models.Booking{}).
			Joins("JOIN beds ON beds.id = bookings.bed_id").
			Joins("JOIN rooms ON rooms.id = beds.room_id").
			Where("rooms.property_id = ? AND bookings.cancelled = ?", propertyID, false).
			Where("bookings.check_out > ?", DateOnly(time.Now())).
			Count(&live).Error
		if err != nil {
			return err
		}
		if live > 0 {
			return ErrResourceInUse
		}

		if err := tx.Where("room_id IN (?)",
			tx.Model(&models.Room{}).Select("id").Where("property_id = ?", propertyID),
		).Delete(&models.Bed{}).Error; err != nil {
			return err
		}
		if err := tx.Where("property_id = ?", propertyID).Delete(&models.Room{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Property{}, propertyID).Error
	})
}
