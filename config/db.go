package config

import (
	"fmt"
	"log"
	"net/url"
	"os"
	"strings"
	"time"

	"hostel-backend/models"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

func envOrDefault(key, def string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	return value
}

func mysqlDSNFromURL(raw string) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}

	user := u.User.Username()
	pass, _ := u.User.Password()
	host := u.Hostname()
	port := u.Port()
	if port == "" {
		port = "3306"
	}

	dbName := strings.TrimPrefix(u.Path, "/")
	if dbName == "" {
		return "", fmt.Errorf("mysql url missing database name")
	}

	q := u.Query()
	if q.Get("charset") == "" {
		q.Set("charset", "utf8mb4")
	}
	if q.Get("parseTime") == "" {
		q.Set("parseTime", "True")
	}
	if q.Get("loc") == "" {
		q.Set("loc", "Local")
	}

	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?%s", user, pass, host, port, dbName, q.Encode()), nil
}

func resolveMySQLDSN() (string, error) {
	raw := strings.TrimSpace(os.Getenv("MYSQL_URL"))
	if raw == "" {
		raw = strings.TrimSpace(os.Getenv("DATABASE_URL"))
	}

	if raw != "" {
		if strings.HasPrefix(raw, "mysql://") {
			return mysqlDSNFromURL(raw)
		}
		return raw, nil
	}

	user := envOrDefault("DB_USER", "root")
	pass := envOrDefault("DB_PASS", "")
	host := envOrDefault("DB_HOST", "127.0.0.1")
	port := envOrDefault("DB_PORT", "3306")
	dbName := envOrDefault("DB_NAME", "hostel_db")

	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		user, pass, host, port, dbName,
	), nil
}

// SeedDatabase creates a demo hostel with a starter room block on first boot.
func SeedDatabase() {
	var hostelCount int64
	DB.Model(&models.Hostel{}).Count(&hostelCount)
	if hostelCount > 0 {
		return
	}

	hostel := models.Hostel{Name: "Main Hostel", Address: "Campus Road 1"}
	if err := DB.Create(&hostel).Error; err != nil {
		log.Printf("warning: failed to seed hostel: %v", err)
		return
	}

	rooms := []models.Room{
		{HostelID: hostel.ID, RoomNumber: "101", Floor: 1, RoomType: models.RoomTypeSingle, Price: 250, Capacity: 1, Status: models.RoomAvailable, IsActive: true},
		{HostelID: hostel.ID, RoomNumber: "102", Floor: 1, RoomType: models.RoomTypeDouble, Price: 400, Capacity: 2, Status: models.RoomAvailable, IsActive: true},
		{HostelID: hostel.ID, RoomNumber: "201", Floor: 2, RoomType: models.RoomTypeSingle, Price: 250, Capacity: 1, Status: models.RoomAvailable, IsActive: true},
		{HostelID: hostel.ID, RoomNumber: "202", Floor: 2, RoomType: models.RoomTypeTriple, Price: 540, Capacity: 3, Status: models.RoomAvailable, IsActive: true},
	}
	if err := DB.Create(&rooms).Error; err != nil {
		log.Printf("warning: failed to seed rooms: %v", err)
		return
	}

	// Rollup counters stay zero here; the boot-time sweep recomputes them.
	log.Println("Demo hostel and rooms seeded")
}

func ConnectDatabase() error {
	dsn, err := resolveMySQLDSN()
	if err != nil {
		return err
	}

	newLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold: time.Second,
			LogLevel:      logger.Warn,
			Colorful:      true,
		},
	)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{Logger: newLogger})
	if err != nil {
		return err
	}

	DB = db

	if err := DB.AutoMigrate(
		&models.Hostel{},
		&models.Room{},
		&models.Booking{},
	); err != nil {
		return err
	}

	SeedDatabase()
	return nil
}
