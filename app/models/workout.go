package models

import (
	"encoding/json"
	"time"

	"gorm.io/gorm"
)

// WorkoutProgram is a user-defined routine: a named, ordered list of exercise
// references. Exercise refs can point at the static catalog (numeric id) or a
// custom exercise (uuid string), so they are stored as a JSON array.
type WorkoutProgram struct {
	ID            uint           `gorm:"primaryKey" json:"id"`
	UserID        uint           `gorm:"not null;index" json:"user_id"`
	Name          string         `gorm:"type:varchar(150);not null" json:"name" validate:"required,min=1,max=150"`
	ExercisesJSON string         `gorm:"type:text;not null" json:"-"`
	CreatedAt     time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}

// ExerciseRefs decodes the stored exercise reference list.
func (p *WorkoutProgram) ExerciseRefs() ([]string, error) {
	if p.ExercisesJSON == "" {
		return nil, nil
	}
	var refs []string
	if err := json.Unmarshal([]byte(p.ExercisesJSON), &refs); err != nil {
		return nil, err
	}
	return refs, nil
}

// SetExerciseRefs encodes and stores the exercise reference list.
func (p *WorkoutProgram) SetExerciseRefs(refs []string) error {
	data, err := json.Marshal(refs)
	if err != nil {
		return err
	}
	p.ExercisesJSON = string(data)
	return nil
}

// WorkoutSet is one performed set of an exercise.
type WorkoutSet struct {
	Weight float64 `json:"weight"`
	Reps   int     `json:"reps"`
}

// LoggedExercise is one exercise entry inside a workout log.
type LoggedExercise struct {
	ExerciseID string       `json:"exercise_id"`
	Sets       []WorkoutSet `json:"sets"`
}

// WorkoutLog records one completed workout session.
type WorkoutLog struct {
	ID            uint           `gorm:"primaryKey" json:"id"`
	UserID        uint           `gorm:"not null;index" json:"user_id"`
	ProgramID     *uint          `gorm:"index" json:"program_id,omitempty"`
	Date          time.Time      `gorm:"not null;index" json:"date"`
	ExercisesJSON string         `gorm:"type:text;not null" json:"-"`
	CreatedAt     time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}

// Exercises decodes the logged exercise entries.
func (l *WorkoutLog) Exercises() ([]LoggedExercise, error) {
	if l.ExercisesJSON == "" {
		return nil, nil
	}
	var entries []LoggedExercise
	if err := json.Unmarshal([]byte(l.ExercisesJSON), &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// SetExercises encodes and stores the logged exercise entries.
func (l *WorkoutLog) SetExercises(entries []LoggedExercise) error {
	data, err := json.Marshal(entries)
	if err != nil {
		return err
	}
	l.ExercisesJSON = string(data)
	return nil
}

// TotalVolume sums weight*reps over all sets of the log.
func (l *WorkoutLog) TotalVolume() float64 {
	entries, err := l.Exercises()
	if err != nil {
		return 0
	}
	var total float64
	for _, e := range entries {
		for _, s := range e.Sets {
			total += s.Weight * float64(s.Reps)
		}
	}
	return total
}

// CustomExercise is a user-created exercise outside the static catalog.
type CustomExercise struct {
	ID          string         `gorm:"type:char(36);primaryKey" json:"id"`
	UserID      uint           `gorm:"not null;index" json:"user_id"`
	Name        string         `gorm:"type:varchar(150);not null" json:"name" validate:"required,min=1,max=150"`
	MuscleGroup string         `gorm:"type:varchar(100);not null" json:"muscle_group" validate:"required,max=100"`
	Equipment   string         `gorm:"type:varchar(100);default:''" json:"equipment" validate:"max=100"`
	Difficulty  string         `gorm:"type:varchar(50);default:''" json:"difficulty" validate:"omitempty,oneof=beginner intermediate advanced"`
	CreatedAt   time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}
