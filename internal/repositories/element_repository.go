package repositories

import (
	"errors"
	"time"

	"reviewdeck_backend/internal/models"

	"gorm.io/gorm"
)

var (
	ErrElementNotFound = errors.New("element not found")
)

type ElementRepository interface {
	CreateElement(db *gorm.DB, element *models.Element) error
	UpdateElementStatus(db *gorm.DB, id string, status models.ReviewStatus, updatedBy string) (*models.Element, error)
}

type ElementRepositoryImpl struct{}

func NewElementRepository() ElementRepository {
	return &ElementRepositoryImpl{}
}

func (r *ElementRepositoryImpl) CreateElement(db *gorm.DB, element *models.Element) error {
	return db.Create(element).Error
}

func (r *ElementRepositoryImpl) UpdateElementStatus(db *gorm.DB, id string, status models.ReviewStatus, updatedBy string) (*models.Element, error) {
	result := db.Model(&models.Element{}).Where("id = ?", id).Updates(map[string]interface{}{
		"status":     status,
		"updated_by": updatedBy,
		"updated_at": time.Now(),
	})
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, ErrElementNotFound
	}

	var element models.Element
	if err := db.First(&element, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &element, nil
}
