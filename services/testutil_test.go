package services

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"hostel-backend/models"
	"hostel-backend/utils"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type captureNotifier struct {
	events []string
}

func (n *captureNotifier) Notify(event string, bookingID uint, detail map[string]interface{}) {
	n.events = append(n.events, event)
}

type testEnv struct {
	db       *gorm.DB
	rollup   *RollupService
	rooms    *RoomService
	bookings *BookingService
	alloc    *AllocationService
	notifier *captureNotifier
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	// Named shared-cache DB so every pooled connection sees the same data.
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&models.Hostel{}, &models.Room{}, &models.Booking{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	notifier := &captureNotifier{}
	rollup := NewRollupService(db)
	rooms := NewRoomService(db, rollup)
	bookings := NewBookingService(db, rooms, rollup, notifier)
	alloc := NewAllocationService(db, rooms, bookings, rollup, notifier)

	return &testEnv{
		db:       db,
		rollup:   rollup,
		rooms:    rooms,
		bookings: bookings,
		alloc:    alloc,
		notifier: notifier,
	}
}

func (e *testEnv) createHostel(t *testing.T) *models.Hostel {
	t.Helper()
	hostel := models.Hostel{Name: "Test Hostel"}
	if err := e.db.Create(&hostel).Error; err != nil {
		t.Fatalf("create hostel: %v", err)
	}
	return &hostel
}

func (e *testEnv) createRoom(t *testing.T, hostelID uint, number string, floor int, roomType string, capacity int) *models.Room {
	t.Helper()
	room := models.Room{
		HostelID:   hostelID,
		RoomNumber: number,
		Floor:      floor,
		RoomType:   roomType,
		Price:      250,
		Capacity:   capacity,
		Status:     models.RoomAvailable,
		IsActive:   true,
	}
	if err := e.db.Create(&room).Error; err != nil {
		t.Fatalf("create room %s: %v", number, err)
	}
	return &room
}

func (e *testEnv) createBooking(t *testing.T, hostelID uint, roomType string, checkIn, checkOut time.Time) *models.Booking {
	t.Helper()
	booking, err := e.bookings.CreateBooking(CreateBookingInput{
		StudentID:    1,
		HostelID:     hostelID,
		RoomType:     roomType,
		CheckInDate:  checkIn,
		CheckOutDate: checkOut,
		Amount:       250,
	})
	if err != nil {
		t.Fatalf("create booking: %v", err)
	}
	return booking
}

func (e *testEnv) reloadRoom(t *testing.T, id uint) *models.Room {
	t.Helper()
	var room models.Room
	if err := e.db.First(&room, id).Error; err != nil {
		t.Fatalf("reload room %d: %v", id, err)
	}
	return &room
}

func (e *testEnv) reloadBooking(t *testing.T, id uint) *models.Booking {
	t.Helper()
	var booking models.Booking
	if err := e.db.First(&booking, id).Error; err != nil {
		t.Fatalf("reload booking %d: %v", id, err)
	}
	return &booking
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func wantKind(t *testing.T, err error, kind utils.ErrorKind) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %s error, got nil", kind)
	}
	if got := utils.KindOf(err); got != kind {
		t.Fatalf("expected %s error, got %s (%v)", kind, got, err)
	}
}
