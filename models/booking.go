package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Booking lifecycle:
//
//	pending -> approved -> confirmed -> checked_in -> checked_out
//	pending -> rejected
//	pending/approved/confirmed -> cancelled
const (
	BookingPending    = "pending"
	BookingApproved   = "approved"
	BookingRejected   = "rejected"
	BookingCancelled  = "cancelled"
	BookingConfirmed  = "confirmed"
	BookingCheckedIn  = "checked_in"
	BookingCheckedOut = "checked_out"
)

// Payment flags recorded on the booking. Payment processing itself lives
// outside this service.
const (
	PaymentPending  = "pending"
	PaymentPaid     = "paid"
	PaymentFailed   = "failed"
	PaymentRefunded = "refunded"
)

type Booking struct {
	ID uint `gorm:"primaryKey" json:"id"`

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	StudentID uint  `gorm:"index;column:student_id" json:"studentId"`
	HostelID  uint  `gorm:"index;column:hostel_id" json:"hostelId"`
	RoomID    *uint `gorm:"column:room_id;index" json:"roomId,omitempty"`

	ReferenceCode string `gorm:"column:reference_code;size:64;uniqueIndex" json:"referenceCode,omitempty"`

	// Snapshot of the room number at assignment time, kept even if the room
	// record changes later.
	RoomNumber string `gorm:"column:room_number;size:50" json:"roomNumber,omitempty"`

	RoomType     string    `gorm:"column:room_type;size:20" json:"roomType"`
	CheckInDate  time.Time `gorm:"column:check_in_date" json:"checkInDate"`
	CheckOutDate time.Time `gorm:"column:check_out_date" json:"checkOutDate"`
	Duration     int       `gorm:"column:duration" json:"duration"` // nights

	Amount        float64        `gorm:"column:amount" json:"amount"`
	PaymentStatus string         `gorm:"column:payment_status;size:20;default:pending" json:"paymentStatus"`
	PaymentMethod string         `gorm:"column:payment_method;size:50" json:"paymentMethod,omitempty"`
	PaymentProof  datatypes.JSON `gorm:"column:payment_proof" json:"paymentProof,omitempty"`

	Status string `gorm:"column:status;size:20;index;default:pending" json:"status"`

	ApprovedAt   *time.Time `gorm:"column:approved_at" json:"approvedAt,omitempty"`
	AssignedAt   *time.Time `gorm:"column:assigned_at" json:"assignedAt,omitempty"`
	CheckedInAt  *time.Time `gorm:"column:checked_in_at" json:"checkedInAt,omitempty"`
	CheckedOutAt *time.Time `gorm:"column:checked_out_at" json:"checkedOutAt,omitempty"`
	RejectedAt   *time.Time `gorm:"column:rejected_at" json:"rejectedAt,omitempty"`
	CancelledAt  *time.Time `gorm:"column:cancelled_at" json:"cancelledAt,omitempty"`

	RejectReason string `gorm:"column:reject_reason;type:text" json:"rejectReason,omitempty"`
	CancelReason string `gorm:"column:cancel_reason;type:text" json:"cancelReason,omitempty"`

	Room   *Room  `gorm:"foreignKey:RoomID;references:ID" json:"room,omitempty"`
	Hostel Hostel `gorm:"foreignKey:HostelID;references:ID" json:"-"`
}

// Active bookings are the ones that hold a room for their date range.
func ActiveBookingStatuses() []string {
	return []string{BookingConfirmed, BookingCheckedIn}
}
