package models

import (
	"gorm.io/gorm"
)

// Room statuses. Stored as plain strings, same set the admin UI speaks.
const (
	RoomAvailable   = "available"
	RoomOccupied    = "occupied"
	RoomReserved    = "reserved"
	RoomMaintenance = "maintenance"
	RoomCleaning    = "cleaning"
)

// Room types a booking can request.
const (
	RoomTypeSingle = "single"
	RoomTypeDouble = "double"
	RoomTypeTriple = "triple"
)

func ValidRoomStatus(s string) bool {
	switch s {
	case RoomAvailable, RoomOccupied, RoomReserved, RoomMaintenance, RoomCleaning:
		return true
	}
	return false
}

func ValidRoomType(t string) bool {
	switch t {
	case RoomTypeSingle, RoomTypeDouble, RoomTypeTriple:
		return true
	}
	return false
}

type Room struct {
	gorm.Model

	HostelID uint `json:"hostelId" gorm:"column:hostel_id;index:idx_hostel_room,priority:1"`

	// Unique among active rooms of the same hostel; enforced in RoomService
	// because deactivated rooms may keep their old number.
	RoomNumber string `json:"roomNumber" gorm:"column:room_number;index:idx_hostel_room,priority:2;type:varchar(50)"`

	Floor    int     `json:"floor"`
	RoomType string  `json:"roomType" gorm:"column:room_type;type:varchar(20);index"`
	Price    float64 `json:"price"`
	Capacity int     `json:"capacity"`

	CurrentOccupancy int    `json:"currentOccupancy" gorm:"column:current_occupancy;default:0"`
	Status           string `json:"status" gorm:"type:varchar(20);default:available"`
	IsActive         bool   `json:"isActive" gorm:"column:is_active;default:true"`

	Hostel Hostel `gorm:"foreignKey:HostelID" json:"-"`
}
