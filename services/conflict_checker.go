package services

import (
	"time"

	"hostel-backend/models"
	"hostel-backend/utils"

	"gorm.io/gorm"
)

// RangesOverlap reports whether two [checkIn, checkOut) ranges share any
// instant. Ranges are half-open, so a check-out on the same day as the next
// check-in is back-to-back turnover, not a conflict.
func RangesOverlap(aIn, aOut, bIn, bOut time.Time) bool {
	return aIn.Before(bOut) && aOut.After(bIn)
}

// HasRoomConflict reports whether any confirmed or checked-in booking holds
// the room for a range overlapping [checkIn, checkOut). excludeBookingID
// skips the booking being (re)validated itself; pass 0 to check all.
func HasRoomConflict(db *gorm.DB, roomID uint, checkIn, checkOut time.Time, excludeBookingID uint) (bool, error) {
	var count int64
	q := db.Model(&models.Booking{}).
		Where("room_id = ?", roomID).
		Where("status IN ?", models.ActiveBookingStatuses()).
		Where("check_in_date < ? AND check_out_date > ?", checkOut, checkIn)
	if excludeBookingID != 0 {
		q = q.Where("id <> ?", excludeBookingID)
	}
	if err := q.Count(&count).Error; err != nil {
		return false, utils.Storage("failed to check room conflicts", err)
	}
	return count > 0, nil
}

// ConflictingRoomIDs returns the room ids of a hostel+type that are held by
// an active booking overlapping the range. Used by room search to filter
// candidates in one query instead of per-room checks.
func ConflictingRoomIDs(db *gorm.DB, hostelID uint, roomType string, checkIn, checkOut time.Time) ([]uint, error) {
	var ids []uint
	q := db.Model(&models.Booking{}).Where("hostel_id = ?", hostelID)
	if roomType != "" {
		q = q.Where("room_type = ?", roomType)
	}
	err := q.
		Where("room_id IS NOT NULL").
		Where("status IN ?", models.ActiveBookingStatuses()).
		Where("check_in_date < ? AND check_out_date > ?", checkOut, checkIn).
		Distinct().
		Pluck("room_id", &ids).Error
	if err != nil {
		return nil, utils.Storage("failed to collect conflicting rooms", err)
	}
	return ids, nil
}
