package controllers

import (
	"net/http"

	"hostel-backend/services"
	"hostel-backend/utils"

	"github.com/gin-gonic/gin"
)

type HostelController struct {
	HostelSvc *services.HostelService
	RollupSvc *services.RollupService
}

func NewHostelController(hostelSvc *services.HostelService, rollupSvc *services.RollupService) *HostelController {
	return &HostelController{HostelSvc: hostelSvc, RollupSvc: rollupSvc}
}

type CreateHostelRequest struct {
	Name    string `json:"name" binding:"required"`
	Address string `json:"address"`
	Gender  string `json:"gender"`
}

// POST /api/hostels
func (hc *HostelController) CreateHostel(c *gin.Context) {
	var req CreateHostelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid request payload: "+err.Error())
		return
	}
	hostel, err := hc.HostelSvc.Create(req.Name, req.Address, req.Gender)
	if err != nil {
		utils.JSONAppError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, hostel)
}

// GET /api/hostels
func (hc *HostelController) GetHostels(c *gin.Context) {
	hostels, err := hc.HostelSvc.List()
	if err != nil {
		utils.JSONAppError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, hostels)
}

// GET /api/hostels/:id
func (hc *HostelController) GetHostel(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	hostel, err := hc.HostelSvc.Get(id)
	if err != nil {
		utils.JSONAppError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, hostel)
}

// GET /api/hostels/:id/report
func (hc *HostelController) GetOccupancyReport(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	report, err := hc.RollupSvc.GetOccupancyReport(id)
	if err != nil {
		utils.JSONAppError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, report)
}

// GET /api/hostels/:id/utilization
func (hc *HostelController) GetRoomUtilization(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	rows, err := hc.RollupSvc.GetRoomUtilization(id)
	if err != nil {
		utils.JSONAppError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, rows)
}
