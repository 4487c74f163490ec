package jobqueue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2/log"

	"github.com/fitrekhq/fitrek/app/models"
	"github.com/fitrekhq/fitrek/app/repository"
	"github.com/fitrekhq/fitrek/internal/pkg/database"
	"github.com/fitrekhq/fitrek/internal/pkg/entitlements"
)

const (
	// Users without a workout for this long get a low motivation alert.
	lowMotivationAfter = 7 * 24 * time.Hour
	// A workout within this window after an alert counts as a comeback.
	welcomeBackWindow = 48 * time.Hour
)

// inactivityAction tells the daily sweep what to send a user, if anything.
type inactivityAction int

const (
	actionNone inactivityAction = iota
	actionInitialMotivation
	actionLowMotivation
	actionWelcomeBack
)

// classifyInactivity decides which notification a user is due based on their
// last workout and the flags of previously sent notifications.
func classifyInactivity(lastWorkoutAt *time.Time, settings *models.UserSettings, now time.Time) inactivityAction {
	if settings == nil || !settings.NotifyWorkoutReminder {
		return actionNone
	}

	if lastWorkoutAt == nil {
		if !settings.InitialMotivationSent {
			return actionInitialMotivation
		}
		return actionNone
	}

	sinceWorkout := now.Sub(*lastWorkoutAt)

	if settings.LowMotivationSent && !settings.WelcomeBackSent && sinceWorkout <= welcomeBackWindow {
		return actionWelcomeBack
	}
	if !settings.LowMotivationSent && sinceWorkout > lowMotivationAfter {
		return actionLowMotivation
	}
	return actionNone
}

// processDailyInactivityCheckJob sweeps all active users and creates
// motivation notifications where due.
func (q *Queue) processDailyInactivityCheckJob(ctx context.Context, job *Job) error {
	payload, err := DailyInactivityCheckPayloadFromMap(job.Payload)
	if err != nil {
		return fmt.Errorf("invalid payload: %w", err)
	}
	log.Infof("[JobQueue] Daily inactivity check for %s", payload.RunDate)

	db := database.GetDB()
	now := time.Now()

	var users []models.User
	if err := db.Where("status = ?", models.STATUS_ACTIVE).Find(&users).Error; err != nil {
		return fmt.Errorf("load users: %w", err)
	}

	for i := range users {
		user := &users[i]
		settings, err := models.GetOrCreateUserSettings(db, user.ID)
		if err != nil {
			log.Errorf("[JobQueue] Settings for user %d: %v", user.ID, err)
			continue
		}

		switch classifyInactivity(user.LastWorkoutAt, settings, now) {
		case actionInitialMotivation:
			if err := models.CreateNotification(db, user.ID, models.NotificationTypeMotivation,
				"Time to log your first workout! Pick a program and get moving.", ""); err != nil {
				log.Errorf("[JobQueue] Notify user %d: %v", user.ID, err)
				continue
			}
			settings.InitialMotivationSent = true
		case actionLowMotivation:
			if err := models.CreateNotification(db, user.ID, models.NotificationTypeLowMotivation,
				"It has been over a week since your last workout. A short session today keeps the streak alive.", ""); err != nil {
				log.Errorf("[JobQueue] Notify user %d: %v", user.ID, err)
				continue
			}
			settings.LowMotivationSent = true
			settings.WelcomeBackSent = false
		case actionWelcomeBack:
			if err := models.CreateNotification(db, user.ID, models.NotificationTypeWelcomeBack,
				"Welcome back! Great to see you training again.", ""); err != nil {
				log.Errorf("[JobQueue] Notify user %d: %v", user.ID, err)
				continue
			}
			settings.ResetInactivityFlags()
			settings.WelcomeBackSent = true
		default:
			continue
		}

		if err := db.Save(settings).Error; err != nil {
			log.Errorf("[JobQueue] Save settings for user %d: %v", user.ID, err)
		}
	}

	return nil
}

// WeeklySummaryStats aggregates a user's training week.
type WeeklySummaryStats struct {
	Workouts        int     `json:"workouts"`
	TotalVolume     float64 `json:"total_volume"`
	UniqueExercises int     `json:"unique_exercises"`
	WeekStart       string  `json:"week_start"`
}

// buildWeeklySummary aggregates workout logs into summary stats.
func buildWeeklySummary(logs []models.WorkoutLog, weekStart string) (WeeklySummaryStats, error) {
	stats := WeeklySummaryStats{WeekStart: weekStart}
	seen := map[string]struct{}{}
	for i := range logs {
		stats.Workouts++
		exercises, err := logs[i].Exercises()
		if err != nil {
			return stats, err
		}
		for _, ex := range exercises {
			seen[ex.ExerciseID] = struct{}{}
			for _, set := range ex.Sets {
				stats.TotalVolume += set.Weight * float64(set.Reps)
			}
		}
	}
	stats.UniqueExercises = len(seen)
	return stats, nil
}

// processWeeklySummaryJob creates a training summary notification for every
// user entitled to one who logged at least one workout last week.
func (q *Queue) processWeeklySummaryJob(ctx context.Context, job *Job) error {
	payload, err := WeeklySummaryPayloadFromMap(job.Payload)
	if err != nil {
		return fmt.Errorf("invalid payload: %w", err)
	}

	weekStart, err := time.Parse("2006-01-02", payload.WeekStart)
	if err != nil {
		return fmt.Errorf("invalid week_start %q: %w", payload.WeekStart, err)
	}
	weekEnd := weekStart.AddDate(0, 0, 7)
	log.Infof("[JobQueue] Weekly summary for week of %s", payload.WeekStart)

	db := database.GetDB()
	repos := repository.GetGlobalRepositories()

	var users []models.User
	if err := db.Where("status = ?", models.STATUS_ACTIVE).Find(&users).Error; err != nil {
		return fmt.Errorf("load users: %w", err)
	}

	for i := range users {
		user := &users[i]
		settings, err := models.GetOrCreateUserSettings(db, user.ID)
		if err != nil {
			log.Errorf("[JobQueue] Settings for user %d: %v", user.ID, err)
			continue
		}
		if !settings.NotifyProgressUpdates {
			continue
		}
		if !entitlements.ForUserSettings(settings).WeeklySummary {
			continue
		}

		logs, err := repos.Workout.GetLogsInRange(user.ID, weekStart, weekEnd)
		if err != nil {
			log.Errorf("[JobQueue] Logs for user %d: %v", user.ID, err)
			continue
		}
		if len(logs) == 0 {
			continue
		}

		stats, err := buildWeeklySummary(logs, payload.WeekStart)
		if err != nil {
			log.Errorf("[JobQueue] Summary for user %d: %v", user.ID, err)
			continue
		}

		details, err := json.Marshal(stats)
		if err != nil {
			return err
		}
		message := fmt.Sprintf("Your week in review: %d workouts, %.0f kg total volume across %d exercises.",
			stats.Workouts, stats.TotalVolume, stats.UniqueExercises)
		if err := models.CreateNotification(db, user.ID, models.NotificationTypeWeeklySummary, message, string(details)); err != nil {
			log.Errorf("[JobQueue] Notify user %d: %v", user.ID, err)
		}
	}

	return nil
}

// processSendNotificationJob delivers a single ad-hoc notification.
func (q *Queue) processSendNotificationJob(ctx context.Context, job *Job) error {
	payload, err := SendNotificationPayloadFromMap(job.Payload)
	if err != nil {
		return fmt.Errorf("invalid payload: %w", err)
	}
	if payload.UserID == 0 || payload.Message == "" {
		return fmt.Errorf("user_id and message are required")
	}

	notificationType := payload.Type
	if notificationType == "" {
		notificationType = models.NotificationTypeSystem
	}

	db := database.GetDB()
	return models.CreateNotification(db, payload.UserID, notificationType, payload.Message, payload.Details)
}
