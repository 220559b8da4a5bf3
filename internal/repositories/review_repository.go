package repositories

import (
	"errors"
	"time"

	"reviewdeck_backend/internal/models"

	"gorm.io/gorm"
)

var (
	ErrReviewNotFound = errors.New("review not found")
)

type ReviewRepository interface {
	CreateReview(db *gorm.DB, review *models.Review) error
	FindReviewByID(db *gorm.DB, id string) (*models.Review, error)
	FindReviewsByProject(db *gorm.DB, projectID string, page, pageSize int) ([]models.Review, int64, error)

	// UpdateReviewStatus mutates exactly the status and updated_at
	// columns and returns the updated record. A zero-row update is
	// reported as ErrReviewNotFound instead of being dereferenced.
	UpdateReviewStatus(db *gorm.DB, id string, status models.ReviewStatus) (*models.Review, error)
}

type ReviewRepositoryImpl struct {
	// Stateless: the *gorm.DB handle comes in per call so tests can
	// substitute a transaction.
}

func NewReviewRepository() ReviewRepository {
	return &ReviewRepositoryImpl{}
}

func (r *ReviewRepositoryImpl) CreateReview(db *gorm.DB, review *models.Review) error {
	return db.Create(review).Error
}

func (r *ReviewRepositoryImpl) FindReviewByID(db *gorm.DB, id string) (*models.Review, error) {
	var review models.Review
	err := db.Preload("Project").First(&review, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReviewNotFound
		}
		return nil, err
	}
	return &review, nil
}

func (r *ReviewRepositoryImpl) FindReviewsByProject(db *gorm.DB, projectID string, page, pageSize int) ([]models.Review, int64, error) {
	var reviews []models.Review

	var total int64
	if err := db.Model(&models.Review{}).Where("project_id = ?", projectID).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := db.Where("project_id = ?", projectID).
		Order("created_at DESC").
		Limit(pageSize).Offset(offset).
		Find(&reviews).Error

	return reviews, total, err
}

func (r *ReviewRepositoryImpl) UpdateReviewStatus(db *gorm.DB, id string, status models.ReviewStatus) (*models.Review, error) {
	result := db.Model(&models.Review{}).Where("id = ?", id).Updates(map[string]interface{}{
		"status":     status,
		"updated_at": time.Now(),
	})
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, ErrReviewNotFound
	}

	return r.FindReviewByID(db, id)
}
