package entitlements

import (
	"strings"

	"github.com/fitrekhq/fitrek/app/models"
)

type Plan string

const (
	PlanFree Plan = "free"
	PlanPro  Plan = "pro"
)

// Limits describes what a plan allows.
type Limits struct {
	MaxWorkoutPrograms int
	MaxActiveGoals     int
	MaxCustomExercises int
	WeeklySummary      bool
}

// ForPlan returns the limits of a plan. Unknown plans fall back to free.
func ForPlan(plan Plan) Limits {
	switch plan {
	case PlanPro:
		return Limits{
			MaxWorkoutPrograms: -1,
			MaxActiveGoals:     -1,
			MaxCustomExercises: -1,
			WeeklySummary:      true,
		}
	default:
		return Limits{
			MaxWorkoutPrograms: 5,
			MaxActiveGoals:     3,
			MaxCustomExercises: 10,
			WeeklySummary:      false,
		}
	}
}

// ForUserSettings resolves limits from persisted user settings.
func ForUserSettings(us *models.UserSettings) Limits {
	if us == nil {
		return ForPlan(PlanFree)
	}
	return ForPlan(Plan(strings.ToLower(us.Plan)))
}

// Allows reports whether a count is within a limit. Negative limits mean
// unlimited.
func (l Limits) Allows(limit, current int) bool {
	return limit < 0 || current < limit
}
