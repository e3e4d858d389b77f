package models

import (
	"gorm.io/gorm"
)

type User struct {
	gorm.Model
	FirstName   string     `json:"firstName"`
	LastName    string     `json:"lastName"`
	Email       string     `json:"email" gorm:"uniqueIndex"`
	PhoneNumber string     `json:"phoneNumber"`
	Password    string     `json:"-"`
	Role        string     `json:"role" gorm:"type:varchar(20);default:tenant;index"` // tenant, owner, admin
	Properties  []Property `json:"properties,omitempty" gorm:"foreignKey:OwnerID;references:ID"`
	Bookings    []Booking  `json:"bookings,omitempty" gorm:"foreignKey:TenantID;references:ID"`
}
