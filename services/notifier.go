package services

import "log"

// Events handed to the notification collaborator.
const (
	EventRoomAssigned    = "RoomAssigned"
	EventBookingApproved = "BookingApproved"
	EventBookingRejected = "BookingRejected"
	EventCheckedIn       = "CheckedIn"
	EventCheckedOut      = "CheckedOut"
)

// Notifier is the outbound notification hook. Delivery is fire-and-forget:
// a failed notification never rolls back the state transition that caused it.
type Notifier interface {
	Notify(event string, bookingID uint, detail map[string]interface{})
}

// LogNotifier is the default sink when no dispatcher is wired in.
type LogNotifier struct{}

func (LogNotifier) Notify(event string, bookingID uint, detail map[string]interface{}) {
	log.Printf("notify %s booking=%d detail=%v", event, bookingID, detail)
}
