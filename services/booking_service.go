// services/booking_service.go
package services

import (
	"errors"
	"log"
	"strings"
	"time"

	"hostel-backend/models"
	"hostel-backend/utils"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// BookingService owns the booking state machine. Room side effects of
// cancellation and check-in/out go through RoomService; every transition is a
// status-gated conditional update so two concurrent requests cannot both
// succeed from the same stale read.
type BookingService struct {
	DB       *gorm.DB
	Rooms    *RoomService
	Rollup   *RollupService
	Notifier Notifier
	validate *validator.Validate
}

func NewBookingService(db *gorm.DB, rooms *RoomService, rollup *RollupService, notifier Notifier) *BookingService {
	if notifier == nil {
		notifier = LogNotifier{}
	}
	return &BookingService{
		DB:       db,
		Rooms:    rooms,
		Rollup:   rollup,
		Notifier: notifier,
		validate: validator.New(),
	}
}

// CreateBookingInput carries a student's booking request.
type CreateBookingInput struct {
	StudentID     uint           `json:"studentId" validate:"required"`
	HostelID      uint           `json:"hostelId" validate:"required"`
	RoomType      string         `json:"roomType" validate:"required,oneof=single double triple"`
	CheckInDate   time.Time      `json:"checkInDate" validate:"required"`
	CheckOutDate  time.Time      `json:"checkOutDate" validate:"required"`
	Duration      int            `json:"duration"`
	Amount        float64        `json:"amount" validate:"gte=0"`
	PaymentMethod string         `json:"paymentMethod"`
	PaymentProof  datatypes.JSON `json:"paymentProof"`
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// CreateBooking records a pending request. No room is touched here.
func (s *BookingService) CreateBooking(input CreateBookingInput) (*models.Booking, error) {
	if err := s.validate.Struct(input); err != nil {
		return nil, utils.Validationf("invalid booking request: %v", err)
	}

	checkIn := startOfDay(input.CheckInDate)
	checkOut := startOfDay(input.CheckOutDate)
	if !checkOut.After(checkIn) {
		return nil, utils.Validationf("check-out date must be after check-in date")
	}

	var hostel models.Hostel
	if err := s.DB.First(&hostel, input.HostelID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.Validationf("hostel %d does not exist", input.HostelID)
		}
		return nil, utils.Storage("failed to load hostel", err)
	}

	duration := input.Duration
	if duration <= 0 {
		duration = int(checkOut.Sub(checkIn).Hours() / 24)
		if duration <= 0 {
			duration = 1
		}
	}

	paymentMethod := strings.TrimSpace(input.PaymentMethod)

	booking := models.Booking{
		StudentID:     input.StudentID,
		HostelID:      input.HostelID,
		RoomType:      input.RoomType,
		CheckInDate:   checkIn,
		CheckOutDate:  checkOut,
		Duration:      duration,
		Amount:        input.Amount,
		PaymentStatus: models.PaymentPending,
		PaymentMethod: paymentMethod,
		PaymentProof:  input.PaymentProof,
		Status:        models.BookingPending,
		ReferenceCode: "BK-" + strings.ToUpper(uuid.NewString()[:8]),
	}
	if err := s.DB.Create(&booking).Error; err != nil {
		return nil, utils.Storage("failed to create booking", err)
	}

	// Creation-time sanity only: an empty window is worth a log line for the
	// admin, but the request still enters the queue.
	if free, err := s.Rooms.SearchAvailableRooms(input.HostelID, input.RoomType, &checkIn, &checkOut); err == nil && len(free) == 0 {
		log.Printf("booking %s: no %s rooms currently free for %s..%s in hostel %d",
			booking.ReferenceCode, input.RoomType,
			checkIn.Format("2006-01-02"), checkOut.Format("2006-01-02"), input.HostelID)
	}

	return &booking, nil
}

func (s *BookingService) GetBooking(id uint) (*models.Booking, error) {
	var booking models.Booking
	if err := s.DB.Preload("Room").First(&booking, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.NotFoundf("booking %d not found", id)
		}
		return nil, utils.Storage("failed to load booking", err)
	}
	return &booking, nil
}

// ListBookings returns bookings newest first, optionally filtered by hostel
// and status.
func (s *BookingService) ListBookings(hostelID uint, status string) ([]models.Booking, error) {
	q := s.DB.Preload("Room").Order("created_at DESC")
	if hostelID != 0 {
		q = q.Where("hostel_id = ?", hostelID)
	}
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var list []models.Booking
	if err := q.Find(&list).Error; err != nil {
		return nil, utils.Storage("failed to list bookings", err)
	}
	return list, nil
}

// transition flips a booking's status with the old status as part of the
// WHERE clause. Zero rows affected means someone else got there first.
func (s *BookingService) transition(id uint, from, to string, extra map[string]interface{}) error {
	updates := map[string]interface{}{"status": to}
	for k, v := range extra {
		updates[k] = v
	}
	res := s.DB.Model(&models.Booking{}).
		Where("id = ? AND status = ?", id, from).
		Updates(updates)
	if res.Error != nil {
		return utils.Storage("failed to update booking", res.Error)
	}
	if res.RowsAffected == 0 {
		return utils.Statef("booking %d is not %s", id, from)
	}
	return nil
}

// ApproveBooking moves pending -> approved. No room is assigned yet; the gate
// only requires the hostel to still carry at least one active room of the
// requested type.
func (s *BookingService) ApproveBooking(id uint) (*models.Booking, error) {
	booking, err := s.GetBooking(id)
	if err != nil {
		return nil, err
	}
	if booking.Status != models.BookingPending {
		return nil, utils.Statef("booking %d is not pending", id)
	}

	count, err := s.Rooms.CountActiveRoomsOfType(booking.HostelID, booking.RoomType)
	if err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, utils.Conflictf("no active %s rooms in hostel %d", booking.RoomType, booking.HostelID)
	}

	now := time.Now().UTC()
	if err := s.transition(id, models.BookingPending, models.BookingApproved,
		map[string]interface{}{"approved_at": now}); err != nil {
		return nil, err
	}

	booking.Status = models.BookingApproved
	booking.ApprovedAt = &now
	s.Notifier.Notify(EventBookingApproved, id, map[string]interface{}{"reference": booking.ReferenceCode})
	return booking, nil
}

// RejectBooking is terminal and only valid from pending.
func (s *BookingService) RejectBooking(id uint, reason string) (*models.Booking, error) {
	booking, err := s.GetBooking(id)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	if err := s.transition(id, models.BookingPending, models.BookingRejected,
		map[string]interface{}{"rejected_at": now, "reject_reason": reason}); err != nil {
		return nil, err
	}

	booking.Status = models.BookingRejected
	booking.RejectedAt = &now
	booking.RejectReason = reason
	s.Notifier.Notify(EventBookingRejected, id, map[string]interface{}{"reason": reason})
	return booking, nil
}

// CancelBooking is terminal and valid from pending, approved or confirmed.
// A confirmed booking holds a reserved room, which must be released.
func (s *BookingService) CancelBooking(id uint, reason string) (*models.Booking, error) {
	booking, err := s.GetBooking(id)
	if err != nil {
		return nil, err
	}

	switch booking.Status {
	case models.BookingPending, models.BookingApproved, models.BookingConfirmed:
	default:
		return nil, utils.Statef("booking %d cannot be cancelled from %s", id, booking.Status)
	}

	now := time.Now().UTC()
	if err := s.transition(id, booking.Status, models.BookingCancelled,
		map[string]interface{}{"cancelled_at": now, "cancel_reason": reason}); err != nil {
		return nil, err
	}

	if booking.Status == models.BookingConfirmed && booking.RoomID != nil {
		if err := s.releaseRoom(*booking.RoomID); err != nil {
			return nil, err
		}
		if err := s.Rollup.Recompute(booking.HostelID); err != nil {
			return nil, err
		}
	}

	booking.Status = models.BookingCancelled
	booking.CancelledAt = &now
	booking.CancelReason = reason
	return booking, nil
}

// releaseRoom undoes a reservation: occupancy back down, reserved -> available.
func (s *BookingService) releaseRoom(roomID uint) error {
	if err := s.Rooms.DecrementOccupancy(roomID); err != nil {
		return err
	}
	res := s.DB.Model(&models.Room{}).
		Where("id = ? AND status = ?", roomID, models.RoomReserved).
		Update("status", models.RoomAvailable)
	if res.Error != nil {
		return utils.Storage("failed to release room", res.Error)
	}
	return nil
}

// CheckIn moves confirmed -> checked_in and the reserved room to occupied.
func (s *BookingService) CheckIn(id uint) (*models.Booking, error) {
	booking, err := s.GetBooking(id)
	if err != nil {
		return nil, err
	}
	if booking.RoomID == nil {
		return nil, utils.Statef("booking %d has no room assigned", id)
	}

	now := time.Now().UTC()
	if err := s.transition(id, models.BookingConfirmed, models.BookingCheckedIn,
		map[string]interface{}{"checked_in_at": now}); err != nil {
		return nil, err
	}

	res := s.DB.Model(&models.Room{}).
		Where("id = ? AND status = ?", *booking.RoomID, models.RoomReserved).
		Update("status", models.RoomOccupied)
	if res.Error != nil {
		return nil, utils.Storage("failed to mark room occupied", res.Error)
	}
	if res.RowsAffected == 0 {
		log.Printf("check-in for booking %d found room %d not reserved; leaving room status for the sweep", id, *booking.RoomID)
	}
	if err := s.Rollup.Recompute(booking.HostelID); err != nil {
		return nil, err
	}

	booking.Status = models.BookingCheckedIn
	booking.CheckedInAt = &now
	s.Notifier.Notify(EventCheckedIn, id, map[string]interface{}{"room": booking.RoomNumber})
	return booking, nil
}

// CheckOut moves checked_in -> checked_out, drains one occupant and returns
// the room to available once empty.
func (s *BookingService) CheckOut(id uint) (*models.Booking, error) {
	booking, err := s.GetBooking(id)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	if err := s.transition(id, models.BookingCheckedIn, models.BookingCheckedOut,
		map[string]interface{}{"checked_out_at": now}); err != nil {
		return nil, err
	}

	if booking.RoomID != nil {
		if err := s.Rooms.DecrementOccupancy(*booking.RoomID); err != nil {
			return nil, err
		}
		if err := s.DB.Model(&models.Room{}).
			Where("id = ? AND current_occupancy = 0 AND is_active = ?", *booking.RoomID, true).
			Update("status", models.RoomAvailable).Error; err != nil {
			return nil, utils.Storage("failed to free room", err)
		}
		if err := s.Rollup.Recompute(booking.HostelID); err != nil {
			return nil, err
		}
	}

	booking.Status = models.BookingCheckedOut
	booking.CheckedOutAt = &now
	s.Notifier.Notify(EventCheckedOut, id, map[string]interface{}{"room": booking.RoomNumber})
	return booking, nil
}
