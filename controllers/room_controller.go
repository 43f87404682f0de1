package controllers

import (
	"net/http"
	"time"

	"hostel-backend/services"
	"hostel-backend/utils"

	"github.com/gin-gonic/gin"
)

type RoomController struct {
	RoomSvc *services.RoomService
}

func NewRoomController(roomSvc *services.RoomService) *RoomController {
	return &RoomController{RoomSvc: roomSvc}
}

type RegisterRoomsRequest struct {
	Rooms []services.RoomSpec `json:"rooms" binding:"required"`
}

type UpdateRoomStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// POST /api/hostels/:id/rooms
func (rc *RoomController) RegisterRooms(c *gin.Context) {
	hostelID, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req RegisterRoomsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid request payload: "+err.Error())
		return
	}

	created, specErrs, err := rc.RoomSvc.RegisterRooms(hostelID, req.Rooms)
	if err != nil {
		// Batch failed outright; still surface the per-spec reasons.
		c.JSON(utils.HTTPStatus(err), gin.H{
			"success": false,
			"kind":    string(utils.KindOf(err)),
			"error":   err.Error(),
			"errors":  specErrs,
		})
		return
	}

	utils.JSONSuccess(c, http.StatusCreated, gin.H{
		"created": created,
		"errors":  specErrs,
	})
}

// GET /api/hostels/:id/rooms
func (rc *RoomController) GetRooms(c *gin.Context) {
	hostelID, ok := paramID(c, "id")
	if !ok {
		return
	}
	rooms, err := rc.RoomSvc.ListRooms(hostelID)
	if err != nil {
		utils.JSONAppError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, rooms)
}

// GET /api/hostels/:id/rooms/available?roomType=&checkIn=&checkOut=
func (rc *RoomController) SearchAvailableRooms(c *gin.Context) {
	hostelID, ok := paramID(c, "id")
	if !ok {
		return
	}

	roomType := c.Query("roomType")

	var checkInPtr, checkOutPtr *time.Time
	checkInRaw, checkOutRaw := c.Query("checkIn"), c.Query("checkOut")
	if checkInRaw != "" || checkOutRaw != "" {
		checkIn, err := parseDate(checkInRaw)
		if err != nil {
			utils.JSONError(c, http.StatusBadRequest, "invalid checkIn format")
			return
		}
		checkOut, err := parseDate(checkOutRaw)
		if err != nil {
			utils.JSONError(c, http.StatusBadRequest, "invalid checkOut format")
			return
		}
		checkInPtr, checkOutPtr = &checkIn, &checkOut
	}

	rooms, err := rc.RoomSvc.SearchAvailableRooms(hostelID, roomType, checkInPtr, checkOutPtr)
	if err != nil {
		utils.JSONAppError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, rooms)
}

// PATCH /api/rooms/:id/status
func (rc *RoomController) UpdateRoomStatus(c *gin.Context) {
	roomID, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req UpdateRoomStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid request payload: "+err.Error())
		return
	}

	room, err := rc.RoomSvc.UpdateRoomStatus(roomID, req.Status)
	if err != nil {
		utils.JSONAppError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, room)
}

// POST /api/rooms/:id/deactivate
func (rc *RoomController) DeactivateRoom(c *gin.Context) {
	roomID, ok := paramID(c, "id")
	if !ok {
		return
	}
	room, err := rc.RoomSvc.DeactivateRoom(roomID)
	if err != nil {
		utils.JSONAppError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, room)
}

// POST /api/rooms/:id/reactivate
func (rc *RoomController) ReactivateRoom(c *gin.Context) {
	roomID, ok := paramID(c, "id")
	if !ok {
		return
	}
	room, err := rc.RoomSvc.ReactivateRoom(roomID)
	if err != nil {
		utils.JSONAppError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, room)
}
