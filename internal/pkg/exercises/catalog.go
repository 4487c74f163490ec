// Package exercises provides the built-in exercise catalog and workout
// templates shipped with the application.
package exercises

import (
	"embed"
	"encoding/json"
	"strings"
	"sync"
)

//go:embed exercises.json templates.json
var dataFS embed.FS

// Exercise is one entry of the built-in catalog.
type Exercise struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	MuscleGroup string `json:"muscle_group"`
	Equipment   string `json:"equipment"`
	Difficulty  string `json:"difficulty"`
}

// TemplateWorkout is one program inside a workout template.
type TemplateWorkout struct {
	Name      string `json:"name"`
	Exercises []int  `json:"exercises"`
}

// Template is a predefined multi-program workout plan.
type Template struct {
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Difficulty  string            `json:"difficulty"`
	Duration    string            `json:"duration"`
	Frequency   string            `json:"frequency"`
	Workouts    []TemplateWorkout `json:"workouts"`
}

var (
	loadOnce  sync.Once
	catalog   []Exercise
	byID      map[int]Exercise
	templates []Template
)

func load() {
	loadOnce.Do(func() {
		raw, err := dataFS.ReadFile("exercises.json")
		if err != nil {
			panic("exercises: embedded catalog missing: " + err.Error())
		}
		if err := json.Unmarshal(raw, &catalog); err != nil {
			panic("exercises: invalid embedded catalog: " + err.Error())
		}

		byID = make(map[int]Exercise, len(catalog))
		for _, ex := range catalog {
			byID[ex.ID] = ex
		}

		raw, err = dataFS.ReadFile("templates.json")
		if err != nil {
			panic("exercises: embedded templates missing: " + err.Error())
		}
		if err := json.Unmarshal(raw, &templates); err != nil {
			panic("exercises: invalid embedded templates: " + err.Error())
		}
	})
}

// All returns the full built-in catalog.
func All() []Exercise {
	load()
	return catalog
}

// ByID looks up a catalog exercise by id.
func ByID(id int) (Exercise, bool) {
	load()
	ex, ok := byID[id]
	return ex, ok
}

// Search filters the catalog by a case-insensitive query over name, muscle
// group, equipment and difficulty. An empty query returns everything.
func Search(query string) []Exercise {
	load()
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return catalog
	}
	var out []Exercise
	for _, ex := range catalog {
		if strings.Contains(strings.ToLower(ex.Name), q) ||
			strings.Contains(strings.ToLower(ex.MuscleGroup), q) ||
			strings.Contains(strings.ToLower(ex.Equipment), q) ||
			strings.Contains(strings.ToLower(ex.Difficulty), q) {
			out = append(out, ex)
		}
	}
	return out
}

// Templates returns the predefined workout templates.
func Templates() []Template {
	load()
	return templates
}

// TemplateByID looks up a template by id.
func TemplateByID(id string) (Template, bool) {
	load()
	for _, t := range templates {
		if t.ID == id {
			return t, true
		}
	}
	return Template{}, false
}
