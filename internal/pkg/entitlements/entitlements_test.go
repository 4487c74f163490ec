package entitlements

import (
	"testing"

	"github.com/fitrekhq/fitrek/app/models"
)

func TestForPlan(t *testing.T) {
	free := ForPlan(PlanFree)
	if free.MaxWorkoutPrograms != 5 || free.MaxActiveGoals != 3 || free.MaxCustomExercises != 10 {
		t.Fatalf("unexpected free limits: %+v", free)
	}
	if free.WeeklySummary {
		t.Fatalf("free plan must not include the weekly summary")
	}

	pro := ForPlan(PlanPro)
	if pro.MaxWorkoutPrograms != -1 || pro.MaxActiveGoals != -1 || pro.MaxCustomExercises != -1 {
		t.Fatalf("unexpected pro limits: %+v", pro)
	}
	if !pro.WeeklySummary {
		t.Fatalf("pro plan must include the weekly summary")
	}
}

func TestForUserSettings(t *testing.T) {
	if got := ForUserSettings(nil); got.WeeklySummary {
		t.Fatalf("nil settings must fall back to free")
	}
	if got := ForUserSettings(&models.UserSettings{Plan: "pro"}); !got.WeeklySummary {
		t.Fatalf("pro settings must map to pro limits")
	}
	if got := ForUserSettings(&models.UserSettings{Plan: "unknown"}); got.WeeklySummary {
		t.Fatalf("unknown plans must fall back to free")
	}
}

func TestLimitsAllows(t *testing.T) {
	l := ForPlan(PlanFree)
	if !l.Allows(l.MaxWorkoutPrograms, 4) {
		t.Fatalf("expected 4 of 5 programs to be allowed")
	}
	if l.Allows(l.MaxWorkoutPrograms, 5) {
		t.Fatalf("expected 5 of 5 programs to be rejected")
	}

	pro := ForPlan(PlanPro)
	if !pro.Allows(pro.MaxWorkoutPrograms, 100000) {
		t.Fatalf("unlimited plan must always allow")
	}
}
