package models

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Property struct {
	gorm.Model
	OwnerID      uint           `json:"ownerID" gorm:"index;not null"`
	Name         string         `json:"name"`
	Address      string         `json:"address"`
	Area         string         `json:"area"`
	Description  string         `json:"description"`
	Amenities    datatypes.JSON `json:"amenities"` // array of tags, e.g. ["WiFi","AC","Food"]
	Images       datatypes.JSON `json:"images"`    // array of URLs
	LockInMonths int            `json:"lockInMonths" gorm:"default:0"` // 0 = no lock-in
	Deposit      *float64       `json:"deposit"`                      // nil = no deposit required
	TotalBeds    int            `json:"totalBeds" gorm:"default:0"`
	OccupiedBeds int            `json:"occupiedBeds" gorm:"default:0"`
	Rooms        []Room         `json:"rooms,omitempty"`
	Owner        *User          `json:"owner,omitempty" gorm:"foreignKey:OwnerID;references:ID"`
}

const (
	RentBasisPerBed  = "per_bed"
	RentBasisPerRoom = "per_room"
)

type Room struct {
	gorm.Model
	PropertyID   uint    `json:"propertyID" gorm:"index;not null"`
	Label        string  `json:"label"`
	RentBasis    string  `json:"rentBasis" gorm:"type:varchar(10);default:per_bed"`
	DailyRent    float64 `json:"dailyRent"`
	Capacity     int     `json:"capacity" gorm:"default:0"` // kept equal to the number of beds
	OccupiedBeds int     `json:"occupiedBeds" gorm:"default:0"`
	Beds         []Bed   `json:"beds,omitempty"`
}

// Bed is the unit of inventory a booking reserves. IsAvailable is a cached
// projection of the bed's bookings, recomputed after every booking mutation;
// owners may also toggle it by hand between mutations.
type Bed struct {
	gorm.Model
	RoomID            uint      `json:"roomID" gorm:"index;not null"`
	Label             string    `json:"label"` // e.g. "A", "B", "Lower"
	IsAvailable       bool      `json:"isAvailable" gorm:"default:true"`
	DailyRentOverride *float64  `json:"dailyRentOverride"` // nil = inherit the room rent
	Bookings          []Booking `json:"bookings,omitempty"`
}
