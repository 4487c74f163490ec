package repository

import (
	"time"

	"github.com/fitrekhq/fitrek/app/models"
	"gorm.io/gorm"
)

// UserRepository defines the interface for user-related database operations
type UserRepository interface {
	Create(user *models.User) error
	GetByID(id uint) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	GetByActivationToken(token string) (*models.User, error)
	GetByPasswordResetToken(token string) (*models.User, error)
	Update(user *models.User) error
	Delete(id uint) error
	List(offset, limit int) ([]models.User, error)
	Count() (int64, error)
	TouchLastWorkout(userID uint, at time.Time) error
	GetInactiveSince(cutoff time.Time) ([]models.User, error)
}

// WorkoutRepository defines the interface for workout programs and logs
type WorkoutRepository interface {
	CreateProgram(program *models.WorkoutProgram) error
	GetProgramByID(id uint) (*models.WorkoutProgram, error)
	GetProgramsByUserID(userID uint) ([]models.WorkoutProgram, error)
	UpdateProgram(program *models.WorkoutProgram) error
	DeleteProgram(id uint) error

	CreateLog(log *models.WorkoutLog) error
	GetLogByID(id uint) (*models.WorkoutLog, error)
	GetLogsByUserID(userID uint, offset, limit int) ([]models.WorkoutLog, error)
	GetLogsInRange(userID uint, from, to time.Time) ([]models.WorkoutLog, error)
	DeleteLog(id uint) error
	CountLogsByUserID(userID uint) (int64, error)

	CreateCustomExercise(ex *models.CustomExercise) error
	GetCustomExerciseByID(id string) (*models.CustomExercise, error)
	GetCustomExercisesByUserID(userID uint) ([]models.CustomExercise, error)
	UpdateCustomExercise(ex *models.CustomExercise) error
	DeleteCustomExercise(id string) error
}

// GoalRepository defines the interface for fitness goal operations
type GoalRepository interface {
	Create(goal *models.Goal) error
	GetByID(id uint) (*models.Goal, error)
	GetByUserID(userID uint) ([]models.Goal, error)
	GetActiveByUserID(userID uint) ([]models.Goal, error)
	Update(goal *models.Goal) error
	Delete(id uint) error
}

// NotificationRepository defines the interface for user notifications
type NotificationRepository interface {
	Create(notification *models.Notification) error
	GetByID(id uint) (*models.Notification, error)
	GetByUserID(userID uint, offset, limit int) ([]models.Notification, error)
	CountUnreadByUserID(userID uint) (int64, error)
	MarkAsRead(id uint) error
	MarkAllAsRead(userID uint) error
	Delete(id uint) error
}

// Repositories struct holds all repository instances
type Repositories struct {
	User         UserRepository
	Workout      WorkoutRepository
	Goal         GoalRepository
	Notification NotificationRepository
}

// NewRepositories creates a new instance of all repositories
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		User:         NewUserRepository(db),
		Workout:      NewWorkoutRepository(db),
		Goal:         NewGoalRepository(db),
		Notification: NewNotificationRepository(db),
	}
}
