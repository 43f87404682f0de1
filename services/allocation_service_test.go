package services

import (
	"sync"
	"testing"

	"hostel-backend/models"
	"hostel-backend/utils"
)

func TestAutoAssignPicksLowestFloorAndNumber(t *testing.T) {
	env := newTestEnv(t)
	hostel := env.createHostel(t)
	env.createRoom(t, hostel.ID, "302", 3, models.RoomTypeSingle, 1)
	env.createRoom(t, hostel.ID, "105", 1, models.RoomTypeSingle, 1)
	env.createRoom(t, hostel.ID, "103", 1, models.RoomTypeSingle, 1)

	booking := env.createBooking(t, hostel.ID, models.RoomTypeSingle, date(2024, 6, 1), date(2024, 6, 10))
	if _, err := env.bookings.ApproveBooking(booking.ID); err != nil {
		t.Fatalf("approve: %v", err)
	}

	confirmed, err := env.alloc.AutoAssign(booking.ID)
	if err != nil {
		t.Fatalf("AutoAssign: %v", err)
	}
	if confirmed.Status != models.BookingConfirmed {
		t.Fatalf("status = %s, want confirmed", confirmed.Status)
	}
	if confirmed.RoomNumber != "103" {
		t.Fatalf("assigned %s, want 103 (lowest floor, room number)", confirmed.RoomNumber)
	}
	if confirmed.AssignedAt == nil || confirmed.RoomID == nil {
		t.Fatal("assignment timestamps and room reference must be set")
	}

	room := env.reloadRoom(t, *confirmed.RoomID)
	if room.Status != models.RoomReserved || room.CurrentOccupancy != 1 {
		t.Fatalf("room status=%s occupancy=%d, want reserved/1", room.Status, room.CurrentOccupancy)
	}
}

func TestAutoAssignExhaustion(t *testing.T) {
	env := newTestEnv(t)
	hostel := env.createHostel(t)
	env.createRoom(t, hostel.ID, "101", 1, models.RoomTypeSingle, 1)

	first := env.createBooking(t, hostel.ID, models.RoomTypeSingle, date(2024, 6, 1), date(2024, 6, 10))
	second := env.createBooking(t, hostel.ID, models.RoomTypeSingle, date(2024, 6, 1), date(2024, 6, 10))
	for _, b := range []uint{first.ID, second.ID} {
		if _, err := env.bookings.ApproveBooking(b); err != nil {
			t.Fatalf("approve %d: %v", b, err)
		}
	}

	if _, err := env.alloc.AutoAssign(first.ID); err != nil {
		t.Fatalf("first assign: %v", err)
	}
	// The only matching room is reserved now.
	_, err := env.alloc.AutoAssign(second.ID)
	wantKind(t, err, utils.KindNotFound)
}

func TestAutoAssignRequiresApprovedBooking(t *testing.T) {
	env := newTestEnv(t)
	hostel := env.createHostel(t)
	env.createRoom(t, hostel.ID, "101", 1, models.RoomTypeSingle, 1)

	booking := env.createBooking(t, hostel.ID, models.RoomTypeSingle, date(2024, 6, 1), date(2024, 6, 10))
	_, err := env.alloc.AutoAssign(booking.ID)
	wantKind(t, err, utils.KindState)
}

func TestAutoAssignAlreadyAssigned(t *testing.T) {
	env := newTestEnv(t)
	hostel := env.createHostel(t)
	env.createRoom(t, hostel.ID, "101", 1, models.RoomTypeSingle, 1)
	env.createRoom(t, hostel.ID, "102", 1, models.RoomTypeSingle, 1)

	booking := env.createBooking(t, hostel.ID, models.RoomTypeSingle, date(2024, 6, 1), date(2024, 6, 10))
	if _, err := env.bookings.ApproveBooking(booking.ID); err != nil {
		t.Fatalf("approve: %v", err)
	}
	if _, err := env.alloc.AutoAssign(booking.ID); err != nil {
		t.Fatalf("assign: %v", err)
	}

	_, err := env.alloc.AutoAssign(booking.ID)
	wantKind(t, err, utils.KindConflict)
}

func TestManualAssignValidations(t *testing.T) {
	env := newTestEnv(t)
	hostel := env.createHostel(t)
	other := env.createHostel(t)

	single := env.createRoom(t, hostel.ID, "101", 1, models.RoomTypeSingle, 1)
	double := env.createRoom(t, hostel.ID, "102", 1, models.RoomTypeDouble, 2)
	foreign := env.createRoom(t, other.ID, "101", 1, models.RoomTypeSingle, 1)

	booking := env.createBooking(t, hostel.ID, models.RoomTypeSingle, date(2024, 6, 1), date(2024, 6, 10))
	if _, err := env.bookings.ApproveBooking(booking.ID); err != nil {
		t.Fatalf("approve: %v", err)
	}

	// Wrong hostel.
	_, err := env.alloc.ManualAssign(booking.ID, foreign.ID)
	wantKind(t, err, utils.KindConflict)

	// Wrong room type.
	_, err = env.alloc.ManualAssign(booking.ID, double.ID)
	wantKind(t, err, utils.KindConflict)

	// Room not available.
	if _, err := env.rooms.UpdateRoomStatus(single.ID, models.RoomCleaning); err != nil {
		t.Fatalf("set cleaning: %v", err)
	}
	_, err = env.alloc.ManualAssign(booking.ID, single.ID)
	wantKind(t, err, utils.KindConflict)

	// Back to available: assignment goes through.
	if _, err := env.rooms.UpdateRoomStatus(single.ID, models.RoomAvailable); err != nil {
		t.Fatalf("set available: %v", err)
	}
	confirmed, err := env.alloc.ManualAssign(booking.ID, single.ID)
	if err != nil {
		t.Fatalf("ManualAssign: %v", err)
	}
	if confirmed.RoomNumber != "101" {
		t.Fatalf("assigned %s, want 101", confirmed.RoomNumber)
	}

	// A booking holds at most one room.
	_, err = env.alloc.ManualAssign(booking.ID, single.ID)
	wantKind(t, err, utils.KindConflict)
}

func TestManualAssignDateConflict(t *testing.T) {
	env := newTestEnv(t)
	hostel := env.createHostel(t)
	room := env.createRoom(t, hostel.ID, "101", 1, models.RoomTypeSingle, 1)

	// A checked-in stay holds the room June 1-10, but the room record was
	// already flipped back to available by a stray status edit.
	holder := models.Booking{
		StudentID: 2, HostelID: hostel.ID, RoomID: &room.ID,
		RoomType:    models.RoomTypeSingle,
		CheckInDate: date(2024, 6, 1), CheckOutDate: date(2024, 6, 10),
		Status: models.BookingCheckedIn, ReferenceCode: "BK-HOLD",
	}
	if err := env.db.Create(&holder).Error; err != nil {
		t.Fatalf("seed holder: %v", err)
	}

	overlapping := env.createBooking(t, hostel.ID, models.RoomTypeSingle, date(2024, 6, 5), date(2024, 6, 15))
	if _, err := env.bookings.ApproveBooking(overlapping.ID); err != nil {
		t.Fatalf("approve: %v", err)
	}
	_, err := env.alloc.ManualAssign(overlapping.ID, room.ID)
	wantKind(t, err, utils.KindConflict)

	// Back-to-back dates clear the conflict check.
	backToBack := env.createBooking(t, hostel.ID, models.RoomTypeSingle, date(2024, 6, 10), date(2024, 6, 20))
	if _, err := env.bookings.ApproveBooking(backToBack.ID); err != nil {
		t.Fatalf("approve: %v", err)
	}
	confirmed, err := env.alloc.ManualAssign(backToBack.ID, room.ID)
	if err != nil {
		t.Fatalf("ManualAssign back-to-back: %v", err)
	}
	if confirmed.Status != models.BookingConfirmed {
		t.Fatalf("status = %s, want confirmed", confirmed.Status)
	}
}

func TestAssignmentsNeverDoubleBookARoom(t *testing.T) {
	env := newTestEnv(t)
	hostel := env.createHostel(t)
	env.createRoom(t, hostel.ID, "101", 1, models.RoomTypeSingle, 1)
	env.createRoom(t, hostel.ID, "102", 1, models.RoomTypeSingle, 1)

	// Three approved bookings compete for two rooms.
	var ids []uint
	for i := 0; i < 3; i++ {
		b := env.createBooking(t, hostel.ID, models.RoomTypeSingle, date(2024, 6, 1), date(2024, 6, 10))
		if _, err := env.bookings.ApproveBooking(b.ID); err != nil {
			t.Fatalf("approve: %v", err)
		}
		ids = append(ids, b.ID)
	}

	assigned := map[uint]bool{}
	var failures int
	for _, id := range ids {
		booking, err := env.alloc.AutoAssign(id)
		if err != nil {
			wantKind(t, err, utils.KindNotFound)
			failures++
			continue
		}
		if assigned[*booking.RoomID] {
			t.Fatalf("room %d assigned twice", *booking.RoomID)
		}
		assigned[*booking.RoomID] = true
	}
	if len(assigned) != 2 || failures != 1 {
		t.Fatalf("assigned=%d failures=%d, want 2/1", len(assigned), failures)
	}
}

func TestConcurrentAutoAssign(t *testing.T) {
	env := newTestEnv(t)
	hostel := env.createHostel(t)
	roomA := env.createRoom(t, hostel.ID, "101", 1, models.RoomTypeSingle, 1)
	roomB := env.createRoom(t, hostel.ID, "102", 1, models.RoomTypeSingle, 1)

	// sqlite takes one writer at a time; cap the pool at a single connection
	// so statements serialize while the goroutines still interleave between
	// the reads and the claim updates.
	sqlDB, err := env.db.DB()
	if err != nil {
		t.Fatalf("sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	var ids []uint
	for i := 0; i < 4; i++ {
		b := env.createBooking(t, hostel.ID, models.RoomTypeSingle, date(2024, 6, 1), date(2024, 6, 10))
		if _, err := env.bookings.ApproveBooking(b.ID); err != nil {
			t.Fatalf("approve: %v", err)
		}
		ids = append(ids, b.ID)
	}

	var (
		mu       sync.Mutex
		wg       sync.WaitGroup
		assigned []uint
		errs     []error
	)
	for _, id := range ids {
		wg.Add(1)
		go func(id uint) {
			defer wg.Done()
			booking, err := env.alloc.AutoAssign(id)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				errs = append(errs, err)
				return
			}
			assigned = append(assigned, *booking.RoomID)
		}(id)
	}
	wg.Wait()

	if len(assigned) != 2 || len(errs) != 2 {
		t.Fatalf("assigned=%d errs=%v, want 2 assignments and 2 exhaustions", len(assigned), errs)
	}
	for _, err := range errs {
		wantKind(t, err, utils.KindNotFound)
	}
	if assigned[0] == assigned[1] {
		t.Fatalf("room %d assigned twice", assigned[0])
	}

	for _, id := range []uint{roomA.ID, roomB.ID} {
		room := env.reloadRoom(t, id)
		if room.Status != models.RoomReserved || room.CurrentOccupancy != 1 {
			t.Fatalf("room %s status=%s occupancy=%d, want reserved/1",
				room.RoomNumber, room.Status, room.CurrentOccupancy)
		}
	}
}
