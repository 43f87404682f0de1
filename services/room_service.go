package services

import (
	"errors"
	"log"
	"strings"
	"time"

	"hostel-backend/models"
	"hostel-backend/utils"

	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"
)

type RoomService struct {
	DB       *gorm.DB
	Rollup   *RollupService
	validate *validator.Validate
}

func NewRoomService(db *gorm.DB, rollup *RollupService) *RoomService {
	return &RoomService{DB: db, Rollup: rollup, validate: validator.New()}
}

// RoomSpec is one entry of a batch registration request.
type RoomSpec struct {
	RoomNumber string  `json:"roomNumber" validate:"required"`
	Floor      int     `json:"floor" validate:"gte=0"`
	RoomType   string  `json:"roomType" validate:"required,oneof=single double triple"`
	Price      float64 `json:"price" validate:"gt=0"`
	Capacity   int     `json:"capacity" validate:"gte=1"`
}

// RoomSpecError reports one skipped spec of a partial-success batch.
type RoomSpecError struct {
	Index      int    `json:"index"`
	RoomNumber string `json:"roomNumber"`
	Reason     string `json:"reason"`
}

// RegisterRooms creates rooms in bulk. Specs that fail validation are skipped
// and reported; the call errors only when nothing was created. One rollup
// recompute runs at the end of a successful batch.
func (s *RoomService) RegisterRooms(hostelID uint, specs []RoomSpec) ([]models.Room, []RoomSpecError, error) {
	if len(specs) == 0 {
		return nil, nil, utils.Validationf("no room specs provided")
	}

	var hostel models.Hostel
	if err := s.DB.First(&hostel, hostelID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, utils.NotFoundf("hostel %d not found", hostelID)
		}
		return nil, nil, utils.Storage("failed to load hostel", err)
	}

	created := make([]models.Room, 0, len(specs))
	specErrs := make([]RoomSpecError, 0)
	seen := make(map[string]bool, len(specs))

	for i, spec := range specs {
		spec.RoomNumber = strings.TrimSpace(spec.RoomNumber)

		if err := s.validate.Struct(spec); err != nil {
			specErrs = append(specErrs, RoomSpecError{Index: i, RoomNumber: spec.RoomNumber, Reason: err.Error()})
			continue
		}
		if seen[spec.RoomNumber] {
			specErrs = append(specErrs, RoomSpecError{Index: i, RoomNumber: spec.RoomNumber, Reason: "duplicate room number in batch"})
			continue
		}

		var dup int64
		if err := s.DB.Model(&models.Room{}).
			Where("hostel_id = ? AND room_number = ? AND is_active = ?", hostelID, spec.RoomNumber, true).
			Count(&dup).Error; err != nil {
			return nil, nil, utils.Storage("failed to check room number", err)
		}
		if dup > 0 {
			specErrs = append(specErrs, RoomSpecError{Index: i, RoomNumber: spec.RoomNumber, Reason: "room number already exists"})
			continue
		}

		room := models.Room{
			HostelID:   hostelID,
			RoomNumber: spec.RoomNumber,
			Floor:      spec.Floor,
			RoomType:   spec.RoomType,
			Price:      spec.Price,
			Capacity:   spec.Capacity,
			Status:     models.RoomAvailable,
			IsActive:   true,
		}
		if err := s.DB.Create(&room).Error; err != nil {
			return nil, nil, utils.Storage("failed to create room", err)
		}
		seen[spec.RoomNumber] = true
		created = append(created, room)
	}

	if len(created) == 0 {
		return nil, specErrs, utils.Validationf("no rooms could be created")
	}
	// A failed recompute must not mask rooms that were already created; the
	// reconciliation sweep restores the counters.
	if err := s.Rollup.Recompute(hostelID); err != nil {
		log.Printf("rollup recompute for hostel %d failed after room batch: %v", hostelID, err)
	}
	return created, specErrs, nil
}

func (s *RoomService) GetRoom(roomID uint) (*models.Room, error) {
	var room models.Room
	if err := s.DB.First(&room, roomID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.NotFoundf("room %d not found", roomID)
		}
		return nil, utils.Storage("failed to load room", err)
	}
	return &room, nil
}

func (s *RoomService) ListRooms(hostelID uint) ([]models.Room, error) {
	var rooms []models.Room
	if err := s.DB.
		Where("hostel_id = ?", hostelID).
		Order("floor ASC, room_number ASC").
		Find(&rooms).Error; err != nil {
		return nil, utils.Storage("failed to list rooms", err)
	}
	return rooms, nil
}

// UpdateRoomStatus sets one of the five statuses. Transitions that would
// break occupancy invariants are refused.
func (s *RoomService) UpdateRoomStatus(roomID uint, status string) (*models.Room, error) {
	if !models.ValidRoomStatus(status) {
		return nil, utils.Validationf("invalid room status %q", status)
	}

	room, err := s.GetRoom(roomID)
	if err != nil {
		return nil, err
	}
	if status == models.RoomOccupied && room.CurrentOccupancy == 0 {
		return nil, utils.Conflictf("cannot mark an empty room occupied")
	}
	if status == models.RoomAvailable && !room.IsActive {
		return nil, utils.Conflictf("cannot mark an inactive room available")
	}
	if status == models.RoomAvailable && room.CurrentOccupancy >= room.Capacity {
		return nil, utils.Conflictf("cannot mark a full room available")
	}

	if err := s.DB.Model(&models.Room{}).Where("id = ?", roomID).
		Update("status", status).Error; err != nil {
		return nil, utils.Storage("failed to update room status", err)
	}
	room.Status = status
	if err := s.Rollup.Recompute(room.HostelID); err != nil {
		return nil, err
	}
	return room, nil
}

// DeactivateRoom takes a room out of inventory. Refused while anyone lives in
// it; the condition is part of the UPDATE so a concurrent check-in cannot
// slip through.
func (s *RoomService) DeactivateRoom(roomID uint) (*models.Room, error) {
	room, err := s.GetRoom(roomID)
	if err != nil {
		return nil, err
	}
	if room.Status == models.RoomOccupied || room.CurrentOccupancy > 0 {
		return nil, utils.Conflictf("room %s is occupied and cannot be deactivated", room.RoomNumber)
	}

	res := s.DB.Model(&models.Room{}).
		Where("id = ? AND status <> ? AND current_occupancy = 0", roomID, models.RoomOccupied).
		Updates(map[string]interface{}{
			"is_active": false,
			"status":    models.RoomMaintenance,
		})
	if res.Error != nil {
		return nil, utils.Storage("failed to deactivate room", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, utils.Conflictf("room %s is occupied and cannot be deactivated", room.RoomNumber)
	}

	room.IsActive = false
	room.Status = models.RoomMaintenance
	if err := s.Rollup.Recompute(room.HostelID); err != nil {
		return nil, err
	}
	return room, nil
}

// ReactivateRoom is an admin override: back to active and available.
func (s *RoomService) ReactivateRoom(roomID uint) (*models.Room, error) {
	room, err := s.GetRoom(roomID)
	if err != nil {
		return nil, err
	}

	if err := s.DB.Model(&models.Room{}).Where("id = ?", roomID).
		Updates(map[string]interface{}{
			"is_active": true,
			"status":    models.RoomAvailable,
		}).Error; err != nil {
		return nil, utils.Storage("failed to reactivate room", err)
	}

	room.IsActive = true
	room.Status = models.RoomAvailable
	if err := s.Rollup.Recompute(room.HostelID); err != nil {
		return nil, err
	}
	return room, nil
}

// IncrementOccupancy bumps occupancy with a capacity guard in the WHERE
// clause. Internal to the allocation and booking flows.
func (s *RoomService) IncrementOccupancy(roomID uint) error {
	res := s.DB.Model(&models.Room{}).
		Where("id = ? AND current_occupancy < capacity", roomID).
		Update("current_occupancy", gorm.Expr("current_occupancy + 1"))
	if res.Error != nil {
		return utils.Storage("failed to increment occupancy", res.Error)
	}
	if res.RowsAffected == 0 {
		if _, err := s.GetRoom(roomID); err != nil {
			return err
		}
		return utils.Conflictf("room %d is at capacity", roomID)
	}
	return nil
}

// DecrementOccupancy lowers occupancy, floored at zero. Draining an already
// empty room is a no-op, not an error.
func (s *RoomService) DecrementOccupancy(roomID uint) error {
	res := s.DB.Model(&models.Room{}).
		Where("id = ? AND current_occupancy > 0", roomID).
		Update("current_occupancy", gorm.Expr("current_occupancy - 1"))
	if res.Error != nil {
		return utils.Storage("failed to decrement occupancy", res.Error)
	}
	return nil
}

// SearchAvailableRooms lists active available rooms of a hostel and type in
// deterministic floor/room-number order. With dates given, rooms whose
// active bookings overlap the range are filtered out.
func (s *RoomService) SearchAvailableRooms(hostelID uint, roomType string, checkIn, checkOut *time.Time) ([]models.Room, error) {
	if roomType != "" && !models.ValidRoomType(roomType) {
		return nil, utils.Validationf("invalid room type %q", roomType)
	}
	if (checkIn == nil) != (checkOut == nil) {
		return nil, utils.Validationf("both check-in and check-out dates are required")
	}
	if checkIn != nil && !checkOut.After(*checkIn) {
		return nil, utils.Validationf("check-out date must be after check-in date")
	}

	q := s.DB.
		Where("hostel_id = ? AND is_active = ?", hostelID, true).
		Where("status = ? AND current_occupancy < capacity", models.RoomAvailable)
	if roomType != "" {
		q = q.Where("room_type = ?", roomType)
	}

	if checkIn != nil {
		busy, err := ConflictingRoomIDs(s.DB, hostelID, roomType, *checkIn, *checkOut)
		if err != nil {
			return nil, err
		}
		if len(busy) > 0 {
			q = q.Where("id NOT IN ?", busy)
		}
	}

	var rooms []models.Room
	if err := q.Order("floor ASC, room_number ASC").Find(&rooms).Error; err != nil {
		return nil, utils.Storage("failed to search rooms", err)
	}
	return rooms, nil
}

// CountActiveRoomsOfType backs the approval gate: a booking's type must have
// at least one active room before the admin can approve it.
func (s *RoomService) CountActiveRoomsOfType(hostelID uint, roomType string) (int64, error) {
	var count int64
	if err := s.DB.Model(&models.Room{}).
		Where("hostel_id = ? AND room_type = ? AND is_active = ?", hostelID, roomType, true).
		Count(&count).Error; err != nil {
		return 0, utils.Storage("failed to count rooms", err)
	}
	return count, nil
}
