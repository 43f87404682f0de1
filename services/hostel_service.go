package services

import (
	"errors"
	"strings"

	"hostel-backend/models"
	"hostel-backend/utils"

	"gorm.io/gorm"
)

type HostelService struct {
	DB *gorm.DB
}

func NewHostelService(db *gorm.DB) *HostelService {
	return &HostelService{DB: db}
}

func (s *HostelService) Create(name, address, gender string) (*models.Hostel, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, utils.Validationf("hostel name is required")
	}
	hostel := models.Hostel{Name: name, Address: address, Gender: gender}
	if err := s.DB.Create(&hostel).Error; err != nil {
		return nil, utils.Storage("failed to create hostel", err)
	}
	return &hostel, nil
}

func (s *HostelService) Get(id uint) (*models.Hostel, error) {
	var hostel models.Hostel
	if err := s.DB.First(&hostel, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.NotFoundf("hostel %d not found", id)
		}
		return nil, utils.Storage("failed to load hostel", err)
	}
	return &hostel, nil
}

func (s *HostelService) List() ([]models.Hostel, error) {
	var hostels []models.Hostel
	if err := s.DB.Order("id ASC").Find(&hostels).Error; err != nil {
		return nil, utils.Storage("failed to list hostels", err)
	}
	return hostels, nil
}
