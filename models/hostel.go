package models

import (
	"time"

	"gorm.io/gorm"
)

type Hostel struct {
	ID uint `gorm:"primaryKey" json:"id"`

	Name    string `gorm:"size:191;not null" json:"name"`
	Address string `gorm:"type:text" json:"address,omitempty"`
	Gender  string `gorm:"size:32" json:"gender,omitempty"`

	// Rollup counters. Derived from the rooms table, rewritten only by
	// RollupService.Recompute; never incremented in place.
	TotalRooms     int `gorm:"column:total_rooms;default:0" json:"totalRooms"`
	AvailableRooms int `gorm:"column:available_rooms;default:0" json:"availableRooms"`
	OccupiedRooms  int `gorm:"column:occupied_rooms;default:0" json:"occupiedRooms"`

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
