package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Shash-135/Synca/models"
	"github.com/Shash-135/Synca/storage"
)

// OwnerDashboardStats aggregates occupancy across an owner's properties.
type OwnerDashboardStats struct {
	TotalProperties int64   `json:"totalProperties"`
	TotalBeds       int64   `json:"totalBeds"`
	OccupiedBeds    int64   `json:"occupiedBeds"`
	OccupancyRate   float64 `json:"occupancyRate"`
}

const ownerStatsTTL = time.Minute

// DashboardStats computes the owner's occupancy aggregates from the
// reconciled bed flags. Results are cached briefly in Redis; every booking
// mutation drops the cache, so reads right after a mutation are fresh.
func DashboardStats(ownerID uint) (*OwnerDashboardStats, error) {
	key := fmt.Sprintf("owner:%d:stats", ownerID)
	if storage.Redis != nil {
		if cached, err := storage.Redis.Get(context.Background(), key).Result(); err == nil {
			var stats OwnerDashboardStats
			if json.Unmarshal([]byte(cached), &stats) == nil {
				return &stats, nil
			}
		}
	}

	var stats OwnerDashboardStats
	if err := storage.DB.Model(&models.Property{}).
		Where("owner_id = ?", ownerID).
		Count(&stats.TotalProperties).Error; err != nil {
		return nil, err
	}
	if err := storage.DB.Model(&models.Bed{}).
		Joins("JOIN rooms ON rooms.id = beds.room_id").
		Joins("JOIN properties ON properties.id = rooms.property_id").
		Where("properties.owner_id = ?", ownerID).
		Where("rooms.deleted_at IS NULL AND properties.deleted_at IS NULL").
		Count(&stats.TotalBeds).Error; err != nil {
		return nil, err
	}
	if err := storage.DB.Model(&models.Bed{}).
		Joins("JOIN rooms ON rooms.id = beds.room_id").
		Joins("JOIN properties ON properties.id = rooms.property_id").
		Where("properties.owner_id = ?", ownerID).
		Where("rooms.deleted_at IS NULL AND properties.deleted_at IS NULL").
		Where("beds.is_available = ?", false).
		Count(&stats.OccupiedBeds).Error; err != nil {
		return nil, err
	}
	if stats.TotalBeds > 0 {
		stats.OccupancyRate = float64(stats.OccupiedBeds) / float64(stats.TotalBeds) * 100
	}

	if storage.Redis != nil {
		if payload, err := json.Marshal(&stats); err == nil {
			storage.Redis.Set(context.Background(), key, payload, ownerStatsTTL)
		}
	}
	return &stats, nil
}

// GroupByStatus buckets bookings by their classified status as of now.
func GroupByStatus(bookings []models.Booking, now time.Time) map[BookingStatus][]models.Booking {
	grouped := map[BookingStatus][]models.Booking{
		StatusUpcoming:  {},
		StatusActive:    {},
		StatusCompleted: {},
		StatusCancelled: {},
	}
	for _, b := range bookings {
		status := Classify(&b, now)
		grouped[status] = append(grouped[status], b)
	}
	return grouped
}

// StatusCounts returns per-status booking counts plus an "all" total.
func StatusCounts(bookings []models.Booking, now time.Time) map[string]int {
	counts := map[string]int{
		string(StatusUpcoming):  0,
		string(StatusActive):    0,
		string(StatusCompleted): 0,
		string(StatusCancelled): 0,
	}
	for _, b := range bookings {
		counts[string(Classify(&b, now))]++
	}
	counts["all"] = len(bookings)
	return counts
}
