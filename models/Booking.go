package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	BookingSourceOnline  = "online"
	BookingSourceOffline = "offline"
)

// Booking reserves one bed for the half-open date range [CheckIn, CheckOut).
// Rows are never deleted: cancellation flips the flag and keeps the record
// for dashboards. Offline bookings carry the guest's contact inline instead
// of a tenant reference.
type Booking struct {
	gorm.Model
	Reference   string     `json:"reference" gorm:"type:varchar(36);uniqueIndex"`
	BedID       uint       `json:"bedID" gorm:"index;not null"`
	TenantID    *uint      `json:"tenantID" gorm:"index"`
	GuestName   string     `json:"guestName"`
	GuestEmail  string     `json:"guestEmail"`
	GuestPhone  string     `json:"guestPhone"`
	Source      string     `json:"source" gorm:"type:varchar(10);index"`
	CheckIn     time.Time  `json:"checkIn" gorm:"index;not null"`
	CheckOut    time.Time  `json:"checkOut" gorm:"index;not null"` // exclusive
	Cancelled   bool       `json:"cancelled" gorm:"default:false;index"`
	CancelledAt *time.Time `json:"cancelledAt"`
	TotalAmount float64    `json:"totalAmount"`

	Bed    *Bed  `json:"bed,omitempty" gorm:"foreignKey:BedID"`
	Tenant *User `json:"tenant,omitempty" gorm:"foreignKey:TenantID"`
}

// Nights returns the whole-day duration of the stay.
func (b *Booking) Nights() int {
	return int(b.CheckOut.Sub(b.CheckIn) / (24 * time.Hour))
}
