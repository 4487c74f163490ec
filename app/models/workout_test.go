package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWorkoutProgramExerciseRefs(t *testing.T) {
	p := &WorkoutProgram{}

	refs, err := p.ExerciseRefs()
	require.NoError(t, err)
	assert.Nil(t, refs)

	require.NoError(t, p.SetExerciseRefs([]string{"1", "7", "abc-uuid"}))
	refs, err = p.ExerciseRefs()
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "7", "abc-uuid"}, refs)
}

func TestWorkoutLogTotalVolume(t *testing.T) {
	l := &WorkoutLog{}
	assert.Equal(t, 0.0, l.TotalVolume())

	require.NoError(t, l.SetExercises([]LoggedExercise{
		{ExerciseID: "1", Sets: []WorkoutSet{{Weight: 100, Reps: 5}, {Weight: 100, Reps: 5}}},
		{ExerciseID: "4", Sets: []WorkoutSet{{Weight: 80, Reps: 8}}},
	}))
	assert.Equal(t, 100.0*5+100.0*5+80.0*8, l.TotalVolume())
}

func TestWorkoutLogInvalidJSON(t *testing.T) {
	l := &WorkoutLog{ExercisesJSON: "{not json"}

	_, err := l.Exercises()
	assert.Error(t, err)
	assert.Equal(t, 0.0, l.TotalVolume())
}
