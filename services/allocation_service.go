package services

import (
	"log"
	"time"

	"hostel-backend/models"
	"hostel-backend/utils"

	"gorm.io/gorm"
)

// AllocationService binds an approved booking to a room. A room is claimed
// with a compare-and-set on its status, so two concurrent assignments can
// never both take it: the loser sees zero rows affected and either moves on
// to the next candidate (auto) or fails (manual).
type AllocationService struct {
	DB       *gorm.DB
	Rooms    *RoomService
	Bookings *BookingService
	Rollup   *RollupService
	Notifier Notifier
}

func NewAllocationService(db *gorm.DB, rooms *RoomService, bookings *BookingService, rollup *RollupService, notifier Notifier) *AllocationService {
	if notifier == nil {
		notifier = LogNotifier{}
	}
	return &AllocationService{DB: db, Rooms: rooms, Bookings: bookings, Rollup: rollup, Notifier: notifier}
}

// claimRoom reserves the room iff it is still available with spare capacity.
func (s *AllocationService) claimRoom(roomID uint) (bool, error) {
	res := s.DB.Model(&models.Room{}).
		Where("id = ? AND status = ? AND is_active = ? AND current_occupancy < capacity",
			roomID, models.RoomAvailable, true).
		Updates(map[string]interface{}{
			"status":            models.RoomReserved,
			"current_occupancy": gorm.Expr("current_occupancy + 1"),
		})
	if res.Error != nil {
		return false, utils.Storage("failed to claim room", res.Error)
	}
	return res.RowsAffected > 0, nil
}

// unclaimRoom undoes a claim when the booking write loses its own race.
func (s *AllocationService) unclaimRoom(roomID uint) {
	res := s.DB.Model(&models.Room{}).
		Where("id = ? AND status = ?", roomID, models.RoomReserved).
		Updates(map[string]interface{}{
			"status":            models.RoomAvailable,
			"current_occupancy": gorm.Expr("current_occupancy - 1"),
		})
	if res.Error != nil {
		log.Printf("unclaim room %d failed: %v", roomID, res.Error)
	}
}

// confirmBooking flips approved -> confirmed and records the assignment.
// The room is already held at this point; on a lost race it is handed back.
func (s *AllocationService) confirmBooking(booking *models.Booking, room *models.Room) (*models.Booking, error) {
	now := time.Now().UTC()
	res := s.DB.Model(&models.Booking{}).
		Where("id = ? AND status = ? AND room_id IS NULL", booking.ID, models.BookingApproved).
		Updates(map[string]interface{}{
			"status":      models.BookingConfirmed,
			"room_id":     room.ID,
			"room_number": room.RoomNumber,
			"assigned_at": now,
		})
	if res.Error != nil {
		s.unclaimRoom(room.ID)
		return nil, utils.Storage("failed to confirm booking", res.Error)
	}
	if res.RowsAffected == 0 {
		s.unclaimRoom(room.ID)
		return nil, utils.Statef("booking %d is not approved and unassigned", booking.ID)
	}

	if err := s.Rollup.Recompute(booking.HostelID); err != nil {
		return nil, err
	}

	booking.Status = models.BookingConfirmed
	booking.RoomID = &room.ID
	booking.RoomNumber = room.RoomNumber
	booking.AssignedAt = &now
	s.Notifier.Notify(EventRoomAssigned, booking.ID, map[string]interface{}{
		"room":      room.RoomNumber,
		"reference": booking.ReferenceCode,
	})
	return booking, nil
}

// AutoAssign picks the first free matching room in (floor, room number) order
// and walks down the candidate list when a claim is lost to a concurrent
// assignment.
func (s *AllocationService) AutoAssign(bookingID uint) (*models.Booking, error) {
	booking, err := s.Bookings.GetBooking(bookingID)
	if err != nil {
		return nil, err
	}
	if booking.RoomID != nil {
		return nil, utils.Conflictf("Room already assigned")
	}
	if booking.Status != models.BookingApproved {
		return nil, utils.Statef("booking %d is not approved", bookingID)
	}

	candidates, err := s.Rooms.SearchAvailableRooms(booking.HostelID, booking.RoomType,
		&booking.CheckInDate, &booking.CheckOutDate)
	if err != nil {
		return nil, err
	}

	for i := range candidates {
		room := &candidates[i]

		// Re-validate the window right before the claim; the search result
		// may be stale by now.
		conflict, err := HasRoomConflict(s.DB, room.ID, booking.CheckInDate, booking.CheckOutDate, booking.ID)
		if err != nil {
			return nil, err
		}
		if conflict {
			continue
		}

		claimed, err := s.claimRoom(room.ID)
		if err != nil {
			return nil, err
		}
		if !claimed {
			continue
		}
		return s.confirmBooking(booking, room)
	}

	return nil, utils.NotFoundf("no available rooms matching criteria")
}

// ManualAssign is the admin-selected variant: same claim discipline, but a
// lost race or any mismatch is an error rather than a reason to look further.
func (s *AllocationService) ManualAssign(bookingID, roomID uint) (*models.Booking, error) {
	booking, err := s.Bookings.GetBooking(bookingID)
	if err != nil {
		return nil, err
	}
	if booking.RoomID != nil {
		return nil, utils.Conflictf("Room already assigned")
	}
	if booking.Status != models.BookingApproved {
		return nil, utils.Statef("booking %d is not approved", bookingID)
	}

	room, err := s.Rooms.GetRoom(roomID)
	if err != nil {
		return nil, err
	}
	if room.HostelID != booking.HostelID {
		return nil, utils.Conflictf("room %s belongs to a different hostel", room.RoomNumber)
	}
	if room.RoomType != booking.RoomType {
		return nil, utils.Conflictf("room %s is %s, booking requested %s", room.RoomNumber, room.RoomType, booking.RoomType)
	}
	if !room.IsActive || room.Status != models.RoomAvailable {
		return nil, utils.Conflictf("room %s is not available", room.RoomNumber)
	}

	conflict, err := HasRoomConflict(s.DB, room.ID, booking.CheckInDate, booking.CheckOutDate, booking.ID)
	if err != nil {
		return nil, err
	}
	if conflict {
		return nil, utils.Conflictf("room %s has a conflicting booking for those dates", room.RoomNumber)
	}

	claimed, err := s.claimRoom(room.ID)
	if err != nil {
		return nil, err
	}
	if !claimed {
		return nil, utils.Conflictf("room %s is not available", room.RoomNumber)
	}
	return s.confirmBooking(booking, room)
}
