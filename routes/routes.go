package routes

import (
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"hostel-backend/controllers"
	"hostel-backend/middleware"
)

func parseCorsOrigins() []string {
	raw := strings.TrimSpace(os.Getenv("CORS_ORIGINS"))
	if raw == "" {
		return []string{"*"}
	}

	parts := strings.Split(raw, ",")
	origins := make([]string, 0, len(parts))
	for _, part := range parts {
		origin := strings.TrimSpace(part)
		if origin != "" {
			origins = append(origins, origin)
		}
	}
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}

// SetupRouter wires the controllers into the API surface.
func SetupRouter(
	hc *controllers.HostelController,
	rc *controllers.RoomController,
	bc *controllers.BookingController,
) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.Logger())

	origins := parseCorsOrigins()
	allowCredentials := true
	for _, origin := range origins {
		if origin == "*" {
			allowCredentials = false
			break
		}
	}

	r.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: allowCredentials,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	{
		hostels := api.Group("/hostels")
		{
			hostels.POST("", hc.CreateHostel)
			hostels.GET("", hc.GetHostels)
			hostels.GET("/:id", hc.GetHostel)
			hostels.GET("/:id/report", hc.GetOccupancyReport)
			hostels.GET("/:id/utilization", hc.GetRoomUtilization)

			hostels.POST("/:id/rooms", rc.RegisterRooms)
			hostels.GET("/:id/rooms", rc.GetRooms)
			hostels.GET("/:id/rooms/available", rc.SearchAvailableRooms)
		}

		rooms := api.Group("/rooms")
		{
			rooms.PATCH("/:id/status", rc.UpdateRoomStatus)
			rooms.POST("/:id/deactivate", rc.DeactivateRoom)
			rooms.POST("/:id/reactivate", rc.ReactivateRoom)
		}

		bookings := api.Group("/bookings")
		{
			bookings.POST("", bc.CreateBooking)
			bookings.GET("", bc.GetBookings)
			bookings.GET("/:id", bc.GetBookingDetails)
			bookings.POST("/:id/approve", bc.ApproveBooking)
			bookings.POST("/:id/reject", bc.RejectBooking)
			bookings.POST("/:id/cancel", bc.CancelBooking)
			bookings.POST("/:id/assign", bc.AutoAssignRoom)
			bookings.POST("/:id/assign/:roomId", bc.ManualAssignRoom)
			bookings.POST("/:id/checkin", bc.CheckIn)
			bookings.POST("/:id/checkout", bc.CheckOut)
		}
	}

	return r
}
