package services

import (
	"errors"
	"fmt"

	"hostel-backend/models"
	"hostel-backend/utils"

	"gorm.io/gorm"
)

// RollupService owns the derived counters on the hostel record. Recompute is
// always a full recount so a missed or out-of-order trigger heals on the next
// call; nothing here is consulted for allocation decisions.
type RollupService struct {
	DB *gorm.DB
}

func NewRollupService(db *gorm.DB) *RollupService {
	return &RollupService{DB: db}
}

func (s *RollupService) Recompute(hostelID uint) error {
	var hostel models.Hostel
	if err := s.DB.First(&hostel, hostelID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFoundf("hostel %d not found", hostelID)
		}
		return utils.Storage("failed to load hostel", err)
	}

	var total, available, occupied int64

	base := s.DB.Model(&models.Room{}).Where("hostel_id = ? AND is_active = ?", hostelID, true)
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return utils.Storage("failed to count rooms", err)
	}
	if err := base.Session(&gorm.Session{}).
		Where("status = ? AND current_occupancy < capacity", models.RoomAvailable).
		Count(&available).Error; err != nil {
		return utils.Storage("failed to count available rooms", err)
	}
	if err := base.Session(&gorm.Session{}).
		Where("status = ?", models.RoomOccupied).
		Count(&occupied).Error; err != nil {
		return utils.Storage("failed to count occupied rooms", err)
	}

	if err := s.DB.Model(&models.Hostel{}).Where("id = ?", hostelID).
		Updates(map[string]interface{}{
			"total_rooms":     total,
			"available_rooms": available,
			"occupied_rooms":  occupied,
		}).Error; err != nil {
		return utils.Storage("failed to write hostel rollup", err)
	}
	return nil
}

// RecomputeAll refreshes every hostel. Used by the reconciliation sweep.
func (s *RollupService) RecomputeAll() error {
	var ids []uint
	if err := s.DB.Model(&models.Hostel{}).Pluck("id", &ids).Error; err != nil {
		return utils.Storage("failed to list hostels", err)
	}
	for _, id := range ids {
		if err := s.Recompute(id); err != nil {
			return fmt.Errorf("recompute hostel %d: %w", id, err)
		}
	}
	return nil
}

// OccupancyReport is the on-demand aggregate view; derived live, not read
// from the stored rollup.
type OccupancyReport struct {
	HostelID       uint    `json:"hostelId"`
	TotalRooms     int64   `json:"totalRooms"`
	AvailableRooms int64   `json:"availableRooms"`
	OccupiedRooms  int64   `json:"occupiedRooms"`
	ReservedRooms  int64   `json:"reservedRooms"`
	TotalCapacity  int64   `json:"totalCapacity"`
	TotalOccupants int64   `json:"totalOccupants"`
	OccupancyRate  float64 `json:"occupancyRate"`
}

func (s *RollupService) GetOccupancyReport(hostelID uint) (*OccupancyReport, error) {
	var hostel models.Hostel
	if err := s.DB.First(&hostel, hostelID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.NotFoundf("hostel %d not found", hostelID)
		}
		return nil, utils.Storage("failed to load hostel", err)
	}

	rep := &OccupancyReport{HostelID: hostelID}
	base := s.DB.Model(&models.Room{}).Where("hostel_id = ? AND is_active = ?", hostelID, true)

	if err := base.Session(&gorm.Session{}).Count(&rep.TotalRooms).Error; err != nil {
		return nil, utils.Storage("failed to count rooms", err)
	}
	if err := base.Session(&gorm.Session{}).
		Where("status = ? AND current_occupancy < capacity", models.RoomAvailable).
		Count(&rep.AvailableRooms).Error; err != nil {
		return nil, utils.Storage("failed to count available rooms", err)
	}
	if err := base.Session(&gorm.Session{}).Where("status = ?", models.RoomOccupied).Count(&rep.OccupiedRooms).Error; err != nil {
		return nil, utils.Storage("failed to count occupied rooms", err)
	}
	if err := base.Session(&gorm.Session{}).Where("status = ?", models.RoomReserved).Count(&rep.ReservedRooms).Error; err != nil {
		return nil, utils.Storage("failed to count reserved rooms", err)
	}

	type sums struct {
		Capacity  int64
		Occupants int64
	}
	var agg sums
	if err := base.Session(&gorm.Session{}).
		Select("COALESCE(SUM(capacity),0) AS capacity, COALESCE(SUM(current_occupancy),0) AS occupants").
		Scan(&agg).Error; err != nil {
		return nil, utils.Storage("failed to sum capacities", err)
	}
	rep.TotalCapacity = agg.Capacity
	rep.TotalOccupants = agg.Occupants
	if agg.Capacity > 0 {
		rep.OccupancyRate = float64(agg.Occupants) / float64(agg.Capacity)
	}
	return rep, nil
}

// RoomUtilization is the per-room line of the utilization endpoint.
type RoomUtilization struct {
	RoomID           uint    `json:"roomId"`
	RoomNumber       string  `json:"roomNumber"`
	Floor            int     `json:"floor"`
	RoomType         string  `json:"roomType"`
	Status           string  `json:"status"`
	Capacity         int     `json:"capacity"`
	CurrentOccupancy int     `json:"currentOccupancy"`
	Utilization      float64 `json:"utilization"`
}

func (s *RollupService) GetRoomUtilization(hostelID uint) ([]RoomUtilization, error) {
	var rooms []models.Room
	if err := s.DB.
		Where("hostel_id = ? AND is_active = ?", hostelID, true).
		Order("floor ASC, room_number ASC").
		Find(&rooms).Error; err != nil {
		return nil, utils.Storage("failed to list rooms", err)
	}

	out := make([]RoomUtilization, 0, len(rooms))
	for _, r := range rooms {
		u := RoomUtilization{
			RoomID:           r.ID,
			RoomNumber:       r.RoomNumber,
			Floor:            r.Floor,
			RoomType:         r.RoomType,
			Status:           r.Status,
			Capacity:         r.Capacity,
			CurrentOccupancy: r.CurrentOccupancy,
		}
		if r.Capacity > 0 {
			u.Utilization = float64(r.CurrentOccupancy) / float64(r.Capacity)
		}
		out = append(out, u)
	}
	return out, nil
}
