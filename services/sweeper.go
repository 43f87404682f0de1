package services

import (
	"log"
	"strconv"
	"time"

	"hostel-backend/models"
	"hostel-backend/utils"

	"github.com/go-co-op/gocron/v2"
	"gorm.io/gorm"
)

// Sweeper is the reconciliation loop. Booking, room and rollup writes commit
// independently, so a crash mid-assignment can leave a room reserved with no
// confirmed booking behind it. The sweep releases such orphans and refreshes
// every hostel rollup; both actions are idempotent.
type Sweeper struct {
	DB        *gorm.DB
	Rollup    *RollupService
	scheduler gocron.Scheduler
}

func NewSweeper(db *gorm.DB, rollup *RollupService) *Sweeper {
	return &Sweeper{DB: db, Rollup: rollup}
}

// ReleaseOrphanedReservations frees rooms stuck in reserved with no
// confirmed or checked-in booking attached. Returns how many were released.
func (s *Sweeper) ReleaseOrphanedReservations() (int64, error) {
	sub := s.DB.Model(&models.Booking{}).
		Select("room_id").
		Where("room_id IS NOT NULL").
		Where("status IN ?", models.ActiveBookingStatuses())

	res := s.DB.Model(&models.Room{}).
		Where("status = ?", models.RoomReserved).
		Where("id NOT IN (?)", sub).
		Updates(map[string]interface{}{
			"status":            models.RoomAvailable,
			"current_occupancy": gorm.Expr("CASE WHEN current_occupancy > 0 THEN current_occupancy - 1 ELSE 0 END"),
		})
	if res.Error != nil {
		return 0, utils.Storage("failed to release orphaned reservations", res.Error)
	}
	return res.RowsAffected, nil
}

// Sweep runs one reconciliation pass.
func (s *Sweeper) Sweep() {
	released, err := s.ReleaseOrphanedReservations()
	if err != nil {
		log.Printf("sweep: orphan release failed: %v", err)
	} else if released > 0 {
		log.Printf("sweep: released %d orphaned reservation(s)", released)
	}
	if err := s.Rollup.RecomputeAll(); err != nil {
		log.Printf("sweep: rollup recompute failed: %v", err)
	}
}

// Start schedules the sweep every SWEEP_INTERVAL_MINUTES (default 10).
func (s *Sweeper) Start() error {
	minutes, err := strconv.Atoi(utils.EnvOrDefault("SWEEP_INTERVAL_MINUTES", "10"))
	if err != nil || minutes <= 0 {
		minutes = 10
	}

	sched, err := gocron.NewScheduler()
	if err != nil {
		return err
	}
	s.scheduler = sched

	_, err = sched.NewJob(
		gocron.DurationJob(time.Duration(minutes)*time.Minute),
		gocron.NewTask(s.Sweep),
	)
	if err != nil {
		return err
	}

	sched.Start()
	log.Printf("reconciliation sweep scheduled every %dm", minutes)
	return nil
}

func (s *Sweeper) Stop() {
	if s.scheduler != nil {
		if err := s.scheduler.Shutdown(); err != nil {
			log.Printf("sweeper shutdown: %v", err)
		}
	}
}
