package repository

import (
	"github.com/fitrekhq/fitrek/app/models"
	"gorm.io/gorm"
)

// goalRepository implements the GoalRepository interface
type goalRepository struct {
	db *gorm.DB
}

// NewGoalRepository creates a new goal repository instance
func NewGoalRepository(db *gorm.DB) GoalRepository {
	return &goalRepository{db: db}
}

func (r *goalRepository) Create(goal *models.Goal) error {
	return r.db.Create(goal).Error
}

func (r *goalRepository) GetByID(id uint) (*models.Goal, error) {
	var goal models.Goal
	if err := r.db.First(&goal, id).Error; err != nil {
		return nil, err
	}
	return &goal, nil
}

func (r *goalRepository) GetByUserID(userID uint) ([]models.Goal, error) {
	var goals []models.Goal
	err := r.db.Where("user_id = ?", userID).Order("created_at DESC").Find(&goals).Error
	return goals, err
}

func (r *goalRepository) GetActiveByUserID(userID uint) ([]models.Goal, error) {
	var goals []models.Goal
	err := r.db.Where("user_id = ? AND status = ?", userID, models.GoalStatusActive).
		Order("created_at DESC").
		Find(&goals).Error
	return goals, err
}

func (r *goalRepository) Update(goal *models.Goal) error {
	return r.db.Save(goal).Error
}

func (r *goalRepository) Delete(id uint) error {
	return r.db.Delete(&models.Goal{}, id).Error
}
