package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGoalApplyProgress(t *testing.T) {
	g := &Goal{Status: GoalStatusActive, TargetValue: 100}

	g.ApplyProgress(50)
	assert.Equal(t, 50.0, g.CurrentValue)
	assert.Equal(t, GoalStatusActive, g.Status)

	g.ApplyProgress(100)
	assert.Equal(t, GoalStatusCompleted, g.Status)
}

func TestGoalApplyProgressKeepsNonActiveStatus(t *testing.T) {
	g := &Goal{Status: GoalStatusArchived, TargetValue: 100}

	g.ApplyProgress(150)
	assert.Equal(t, 150.0, g.CurrentValue)
	assert.Equal(t, GoalStatusArchived, g.Status)
}
