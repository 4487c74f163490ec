package jobqueue

import (
	"testing"
	"time"

	"github.com/fitrekhq/fitrek/app/models"
)

func settingsWithDefaults() *models.UserSettings {
	return &models.UserSettings{
		NotifyWorkoutReminder: true,
		NotifyProgressUpdates: true,
	}
}

func TestClassifyInactivity(t *testing.T) {
	now := time.Now()
	recent := now.Add(-12 * time.Hour)
	stale := now.Add(-9 * 24 * time.Hour)

	tests := []struct {
		name        string
		lastWorkout *time.Time
		mutate      func(*models.UserSettings)
		want        inactivityAction
	}{
		{
			name: "never worked out gets initial motivation",
			want: actionInitialMotivation,
		},
		{
			name:   "initial motivation only sent once",
			mutate: func(s *models.UserSettings) { s.InitialMotivationSent = true },
			want:   actionNone,
		},
		{
			name:        "recent workout needs nothing",
			lastWorkout: &recent,
			want:        actionNone,
		},
		{
			name:        "long inactivity triggers alert",
			lastWorkout: &stale,
			want:        actionLowMotivation,
		},
		{
			name:        "alert only sent once",
			lastWorkout: &stale,
			mutate:      func(s *models.UserSettings) { s.LowMotivationSent = true },
			want:        actionNone,
		},
		{
			name:        "comeback after alert gets welcome back",
			lastWorkout: &recent,
			mutate:      func(s *models.UserSettings) { s.LowMotivationSent = true },
			want:        actionWelcomeBack,
		},
		{
			name:        "welcome back only sent once per comeback",
			lastWorkout: &recent,
			mutate: func(s *models.UserSettings) {
				s.LowMotivationSent = true
				s.WelcomeBackSent = true
			},
			want: actionNone,
		},
		{
			name:        "reminders disabled suppresses everything",
			lastWorkout: &stale,
			mutate:      func(s *models.UserSettings) { s.NotifyWorkoutReminder = false },
			want:        actionNone,
		},
	}

	for _, tt := range tests {
		settings := settingsWithDefaults()
		if tt.mutate != nil {
			tt.mutate(settings)
		}
		if got := classifyInactivity(tt.lastWorkout, settings, now); got != tt.want {
			t.Fatalf("%s: classifyInactivity() = %d, want %d", tt.name, got, tt.want)
		}
	}
}

func TestBuildWeeklySummary(t *testing.T) {
	mkLog := func(entries []models.LoggedExercise) models.WorkoutLog {
		var l models.WorkoutLog
		if err := l.SetExercises(entries); err != nil {
			t.Fatalf("SetExercises: %v", err)
		}
		return l
	}

	logs := []models.WorkoutLog{
		mkLog([]models.LoggedExercise{
			{ExerciseID: "1", Sets: []models.WorkoutSet{{Weight: 100, Reps: 5}, {Weight: 100, Reps: 5}}},
			{ExerciseID: "12", Sets: []models.WorkoutSet{{Weight: 80, Reps: 8}}},
		}),
		mkLog([]models.LoggedExercise{
			{ExerciseID: "1", Sets: []models.WorkoutSet{{Weight: 102.5, Reps: 5}}},
		}),
	}

	stats, err := buildWeeklySummary(logs, "2026-08-24")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stats.Workouts != 2 {
		t.Fatalf("workouts = %d, want 2", stats.Workouts)
	}
	if stats.UniqueExercises != 2 {
		t.Fatalf("unique exercises = %d, want 2", stats.UniqueExercises)
	}
	wantVolume := 100*5.0 + 100*5.0 + 80*8.0 + 102.5*5.0
	if stats.TotalVolume != wantVolume {
		t.Fatalf("total volume = %v, want %v", stats.TotalVolume, wantVolume)
	}
}

func TestBuildWeeklySummary_Empty(t *testing.T) {
	stats, err := buildWeeklySummary(nil, "2026-08-24")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stats.Workouts != 0 || stats.TotalVolume != 0 || stats.UniqueExercises != 0 {
		t.Fatalf("expected zero stats, got %+v", stats)
	}
}
