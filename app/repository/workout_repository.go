package repository

import (
	"time"

	"github.com/fitrekhq/fitrek/app/models"
	"gorm.io/gorm"
)

// workoutRepository implements the WorkoutRepository interface
type workoutRepository struct {
	db *gorm.DB
}

// NewWorkoutRepository creates a new workout repository instance
func NewWorkoutRepository(db *gorm.DB) WorkoutRepository {
	return &workoutRepository{db: db}
}

func (r *workoutRepository) CreateProgram(program *models.WorkoutProgram) error {
	return r.db.Create(program).Error
}

func (r *workoutRepository) GetProgramByID(id uint) (*models.WorkoutProgram, error) {
	var program models.WorkoutProgram
	if err := r.db.First(&program, id).Error; err != nil {
		return nil, err
	}
	return &program, nil
}

func (r *workoutRepository) GetProgramsByUserID(userID uint) ([]models.WorkoutProgram, error) {
	var programs []models.WorkoutProgram
	err := r.db.Where("user_id = ?", userID).Order("created_at DESC").Find(&programs).Error
	return programs, err
}

func (r *workoutRepository) UpdateProgram(program *models.WorkoutProgram) error {
	return r.db.Save(program).Error
}

func (r *workoutRepository) DeleteProgram(id uint) error {
	return r.db.Delete(&models.WorkoutProgram{}, id).Error
}

func (r *workoutRepository) CreateLog(log *models.WorkoutLog) error {
	return r.db.Create(log).Error
}

func (r *workoutRepository) GetLogByID(id uint) (*models.WorkoutLog, error) {
	var log models.WorkoutLog
	if err := r.db.First(&log, id).Error; err != nil {
		return nil, err
	}
	return &log, nil
}

func (r *workoutRepository) GetLogsByUserID(userID uint, offset, limit int) ([]models.WorkoutLog, error) {
	var logs []models.WorkoutLog
	err := r.db.Where("user_id = ?", userID).
		Order("date DESC").
		Offset(offset).Limit(limit).
		Find(&logs).Error
	return logs, err
}

func (r *workoutRepository) GetLogsInRange(userID uint, from, to time.Time) ([]models.WorkoutLog, error) {
	var logs []models.WorkoutLog
	err := r.db.Where("user_id = ? AND date >= ? AND date < ?", userID, from, to).
		Order("date ASC").
		Find(&logs).Error
	return logs, err
}

func (r *workoutRepository) DeleteLog(id uint) error {
	return r.db.Delete(&models.WorkoutLog{}, id).Error
}

func (r *workoutRepository) CountLogsByUserID(userID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.WorkoutLog{}).Where("user_id = ?", userID).Count(&count).Error
	return count, err
}

func (r *workoutRepository) CreateCustomExercise(ex *models.CustomExercise) error {
	return r.db.Create(ex).Error
}

func (r *workoutRepository) GetCustomExerciseByID(id string) (*models.CustomExercise, error) {
	var ex models.CustomExercise
	if err := r.db.Where("id = ?", id).First(&ex).Error; err != nil {
		return nil, err
	}
	return &ex, nil
}

func (r *workoutRepository) GetCustomExercisesByUserID(userID uint) ([]models.CustomExercise, error) {
	var exercises []models.CustomExercise
	err := r.db.Where("user_id = ?", userID).Order("name ASC").Find(&exercises).Error
	return exercises, err
}

func (r *workoutRepository) UpdateCustomExercise(ex *models.CustomExercise) error {
	return r.db.Save(ex).Error
}

func (r *workoutRepository) DeleteCustomExercise(id string) error {
	return r.db.Where("id = ?", id).Delete(&models.CustomExercise{}).Error
}
