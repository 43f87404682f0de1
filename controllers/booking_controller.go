// controllers/booking_controller.go
package controllers

import (
	"net/http"
	"strconv"
	"time"

	"hostel-backend/services"
	"hostel-backend/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"
)

// ---------------------------
// Payload / DTOs
// ---------------------------

type CreateBookingRequest struct {
	StudentID     uint           `json:"studentId" binding:"required"`
	HostelID      uint           `json:"hostelId" binding:"required"`
	RoomType      string         `json:"roomType" binding:"required"`
	CheckInDate   string         `json:"checkInDate" binding:"required"`
	CheckOutDate  string         `json:"checkOutDate" binding:"required"`
	Duration      int            `json:"duration"`
	Amount        float64        `json:"amount"`
	PaymentMethod string         `json:"paymentMethod"`
	PaymentProof  datatypes.JSON `json:"paymentProof"`
}

type ReasonPayload struct {
	Reason string `json:"reason"`
}

// ---------------------------
// Controller
// ---------------------------

type BookingController struct {
	BookingSvc    *services.BookingService
	AllocationSvc *services.AllocationService
}

func NewBookingController(bookingSvc *services.BookingService, allocationSvc *services.AllocationService) *BookingController {
	return &BookingController{BookingSvc: bookingSvc, AllocationSvc: allocationSvc}
}

func paramID(c *gin.Context, key string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(key), 10, 32)
	if err != nil || id == 0 {
		utils.JSONError(c, http.StatusBadRequest, "invalid "+key)
		return 0, false
	}
	return uint(id), true
}

func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}

// POST /api/bookings
func (bc *BookingController) CreateBooking(c *gin.Context) {
	var req CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid request payload: "+err.Error())
		return
	}

	checkIn, err := parseDate(req.CheckInDate)
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid checkInDate format")
		return
	}
	checkOut, err := parseDate(req.CheckOutDate)
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid checkOutDate format")
		return
	}

	booking, err := bc.BookingSvc.CreateBooking(services.CreateBookingInput{
		StudentID:     req.StudentID,
		HostelID:      req.HostelID,
		RoomType:      req.RoomType,
		CheckInDate:   checkIn,
		CheckOutDate:  checkOut,
		Duration:      req.Duration,
		Amount:        req.Amount,
		PaymentMethod: req.PaymentMethod,
		PaymentProof:  req.PaymentProof,
	})
	if err != nil {
		utils.JSONAppError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, booking)
}

// GET /api/bookings?hostelId=&status=
func (bc *BookingController) GetBookings(c *gin.Context) {
	var hostelID uint
	if raw := c.Query("hostelId"); raw != "" {
		v, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			utils.JSONError(c, http.StatusBadRequest, "invalid hostelId")
			return
		}
		hostelID = uint(v)
	}

	list, err := bc.BookingSvc.ListBookings(hostelID, c.Query("status"))
	if err != nil {
		utils.JSONAppError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, list)
}

// GET /api/bookings/:id
func (bc *BookingController) GetBookingDetails(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	booking, err := bc.BookingSvc.GetBooking(id)
	if err != nil {
		utils.JSONAppError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, booking)
}

// POST /api/bookings/:id/approve
func (bc *BookingController) ApproveBooking(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	booking, err := bc.BookingSvc.ApproveBooking(id)
	if err != nil {
		utils.JSONAppError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, booking)
}

// POST /api/bookings/:id/reject
func (bc *BookingController) RejectBooking(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var payload ReasonPayload
	_ = c.ShouldBindJSON(&payload)

	booking, err := bc.BookingSvc.RejectBooking(id, payload.Reason)
	if err != nil {
		utils.JSONAppError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, booking)
}

// POST /api/bookings/:id/cancel
func (bc *BookingController) CancelBooking(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var payload ReasonPayload
	_ = c.ShouldBindJSON(&payload)

	booking, err := bc.BookingSvc.CancelBooking(id, payload.Reason)
	if err != nil {
		utils.JSONAppError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, booking)
}

// POST /api/bookings/:id/assign
func (bc *BookingController) AutoAssignRoom(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	booking, err := bc.AllocationSvc.AutoAssign(id)
	if err != nil {
		utils.JSONAppError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, booking)
}

// POST /api/bookings/:id/assign/:roomId
func (bc *BookingController) ManualAssignRoom(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	roomID, ok := paramID(c, "roomId")
	if !ok {
		return
	}
	booking, err := bc.AllocationSvc.ManualAssign(id, roomID)
	if err != nil {
		utils.JSONAppError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, booking)
}

// POST /api/bookings/:id/checkin
func (bc *BookingController) CheckIn(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	booking, err := bc.BookingSvc.CheckIn(id)
	if err != nil {
		utils.JSONAppError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, booking)
}

// POST /api/bookings/:id/checkout
func (bc *BookingController) CheckOut(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	booking, err := bc.BookingSvc.CheckOut(id)
	if err != nil {
		utils.JSONAppError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, booking)
}
