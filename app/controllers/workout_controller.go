package controllers

import (
	"errors"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/fitrekhq/fitrek/app/models"
	"github.com/fitrekhq/fitrek/app/repository"
	"github.com/fitrekhq/fitrek/internal/pkg/database"
	"github.com/fitrekhq/fitrek/internal/pkg/entitlements"
	"github.com/fitrekhq/fitrek/internal/pkg/exercises"
	"github.com/fitrekhq/fitrek/internal/pkg/usercontext"
)

type programRequest struct {
	Name      string   `json:"name" validate:"required,min=1,max=150"`
	Exercises []string `json:"exercises" validate:"required,min=1,dive,required"`
}

// HandleCreateProgram creates a workout program.
func HandleCreateProgram(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)

	var req programRequest
	if err := parseAndValidate(c, &req); err != nil {
		fe := err.(*fiber.Error)
		return jsonError(c, fe.Code, "validation_failed", fe.Message)
	}

	repo := repository.GetGlobalFactory().GetWorkoutRepository()

	existing, err := repo.GetProgramsByUserID(userCtx.UserID)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load programs")
	}
	limits := currentLimits(c, userCtx.UserID)
	if !limits.Allows(limits.MaxWorkoutPrograms, len(existing)) {
		return jsonError(c, fiber.StatusForbidden, "plan_limit_reached", "Your plan allows no more workout programs")
	}

	program := &models.WorkoutProgram{
		UserID: userCtx.UserID,
		Name:   req.Name,
	}
	if err := program.SetExerciseRefs(req.Exercises); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid_exercises", "Exercise list could not be stored")
	}
	if err := repo.CreateProgram(program); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to create program")
	}

	return c.Status(fiber.StatusCreated).JSON(programResponse(program))
}

// HandleListPrograms lists the user's workout programs.
func HandleListPrograms(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)

	repo := repository.GetGlobalFactory().GetWorkoutRepository()
	programs, err := repo.GetProgramsByUserID(userCtx.UserID)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load programs")
	}

	out := make([]fiber.Map, 0, len(programs))
	for i := range programs {
		out = append(out, programResponse(&programs[i]))
	}
	return c.JSON(fiber.Map{"programs": out})
}

// HandleUpdateProgram renames a program or replaces its exercise list.
func HandleUpdateProgram(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)

	program, err := loadOwnProgram(c, userCtx.UserID)
	if err != nil {
		return err
	}

	var req programRequest
	if err := parseAndValidate(c, &req); err != nil {
		fe := err.(*fiber.Error)
		return jsonError(c, fe.Code, "validation_failed", fe.Message)
	}

	program.Name = req.Name
	if err := program.SetExerciseRefs(req.Exercises); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid_exercises", "Exercise list could not be stored")
	}

	repo := repository.GetGlobalFactory().GetWorkoutRepository()
	if err := repo.UpdateProgram(program); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to update program")
	}
	return c.JSON(programResponse(program))
}

// HandleDeleteProgram removes a program. Logs referencing it are kept.
func HandleDeleteProgram(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)

	program, err := loadOwnProgram(c, userCtx.UserID)
	if err != nil {
		return err
	}

	repo := repository.GetGlobalFactory().GetWorkoutRepository()
	if err := repo.DeleteProgram(program.ID); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to delete program")
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// HandleApplyTemplate creates programs from a built-in workout template.
func HandleApplyTemplate(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)

	tpl, ok := exercises.TemplateByID(c.Params("id"))
	if !ok {
		return jsonError(c, fiber.StatusNotFound, "not_found", "Template not found")
	}

	repo := repository.GetGlobalFactory().GetWorkoutRepository()
	created := make([]fiber.Map, 0, len(tpl.Workouts))
	for _, w := range tpl.Workouts {
		refs := make([]string, 0, len(w.Exercises))
		for _, id := range w.Exercises {
			refs = append(refs, strconv.Itoa(id))
		}
		program := &models.WorkoutProgram{
			UserID: userCtx.UserID,
			Name:   w.Name,
		}
		if err := program.SetExerciseRefs(refs); err != nil {
			return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to build program")
		}
		if err := repo.CreateProgram(program); err != nil {
			return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to create program")
		}
		created = append(created, programResponse(program))
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"programs": created})
}

type logRequest struct {
	ProgramID *uint                   `json:"program_id"`
	Date      *time.Time              `json:"date"`
	Exercises []models.LoggedExercise `json:"exercises" validate:"required,min=1"`
}

// HandleCreateLog records a completed workout and stamps the user's last
// workout time, which drives the inactivity notifications.
func HandleCreateLog(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)

	var req logRequest
	if err := parseAndValidate(c, &req); err != nil {
		fe := err.(*fiber.Error)
		return jsonError(c, fe.Code, "validation_failed", fe.Message)
	}

	date := time.Now()
	if req.Date != nil {
		date = *req.Date
	}

	workoutLog := &models.WorkoutLog{
		UserID:    userCtx.UserID,
		ProgramID: req.ProgramID,
		Date:      date,
	}
	if err := workoutLog.SetExercises(req.Exercises); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid_exercises", "Exercise entries could not be stored")
	}

	repos := repository.GetGlobalFactory()
	if err := repos.GetWorkoutRepository().CreateLog(workoutLog); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to save workout")
	}
	if err := repos.GetUserRepository().TouchLastWorkout(userCtx.UserID, date); err != nil {
		log.Errorf("touch last workout for user %d: %v", userCtx.UserID, err)
	}

	go updateConsistencyGoals(userCtx.UserID)

	return c.Status(fiber.StatusCreated).JSON(logResponse(workoutLog))
}

// HandleListLogs lists workout logs, newest first.
func HandleListLogs(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)
	offset, limit := parsePagination(c, 20, 100)

	repo := repository.GetGlobalFactory().GetWorkoutRepository()
	logs, err := repo.GetLogsByUserID(userCtx.UserID, offset, limit)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load workouts")
	}
	total, err := repo.CountLogsByUserID(userCtx.UserID)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to count workouts")
	}

	out := make([]fiber.Map, 0, len(logs))
	for i := range logs {
		out = append(out, logResponse(&logs[i]))
	}
	return c.JSON(fiber.Map{"logs": out, "total": total, "offset": offset, "limit": limit})
}

// HandleDeleteLog removes a workout log.
func HandleDeleteLog(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)

	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return jsonError(c, fiber.StatusBadRequest, "invalid_id", "Invalid log id")
	}

	repo := repository.GetGlobalFactory().GetWorkoutRepository()
	workoutLog, err := repo.GetLogByID(uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return jsonError(c, fiber.StatusNotFound, "not_found", "Log not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load log")
	}
	if workoutLog.UserID != userCtx.UserID {
		return jsonError(c, fiber.StatusNotFound, "not_found", "Log not found")
	}

	if err := repo.DeleteLog(workoutLog.ID); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to delete log")
	}
	return c.SendStatus(fiber.StatusNoContent)
}

type customExerciseRequest struct {
	Name        string `json:"name" validate:"required,min=1,max=150"`
	MuscleGroup string `json:"muscle_group" validate:"required,min=1,max=100"`
	Equipment   string `json:"equipment" validate:"omitempty,max=100"`
	Difficulty  string `json:"difficulty" validate:"required,oneof=beginner intermediate advanced"`
}

// HandleCreateCustomExercise adds a user-defined exercise.
func HandleCreateCustomExercise(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)

	var req customExerciseRequest
	if err := parseAndValidate(c, &req); err != nil {
		fe := err.(*fiber.Error)
		return jsonError(c, fe.Code, "validation_failed", fe.Message)
	}

	repo := repository.GetGlobalFactory().GetWorkoutRepository()

	existing, err := repo.GetCustomExercisesByUserID(userCtx.UserID)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load exercises")
	}
	limits := currentLimits(c, userCtx.UserID)
	if !limits.Allows(limits.MaxCustomExercises, len(existing)) {
		return jsonError(c, fiber.StatusForbidden, "plan_limit_reached", "Your plan allows no more custom exercises")
	}

	ex := &models.CustomExercise{
		ID:          uuid.New().String(),
		UserID:      userCtx.UserID,
		Name:        req.Name,
		MuscleGroup: req.MuscleGroup,
		Equipment:   req.Equipment,
		Difficulty:  req.Difficulty,
	}
	if err := repo.CreateCustomExercise(ex); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to create exercise")
	}
	return c.Status(fiber.StatusCreated).JSON(ex)
}

// HandleDeleteCustomExercise removes a user-defined exercise.
func HandleDeleteCustomExercise(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)

	repo := repository.GetGlobalFactory().GetWorkoutRepository()
	ex, err := repo.GetCustomExerciseByID(c.Params("id"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return jsonError(c, fiber.StatusNotFound, "not_found", "Exercise not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load exercise")
	}
	if ex.UserID != userCtx.UserID {
		return jsonError(c, fiber.StatusNotFound, "not_found", "Exercise not found")
	}

	if err := repo.DeleteCustomExercise(ex.ID); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to delete exercise")
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// updateConsistencyGoals bumps active consistency goals by one workout.
func updateConsistencyGoals(userID uint) {
	repo := repository.GetGlobalFactory().GetGoalRepository()
	goals, err := repo.GetActiveByUserID(userID)
	if err != nil {
		log.Errorf("load goals for user %d: %v", userID, err)
		return
	}
	for i := range goals {
		goal := &goals[i]
		if goal.Type != models.GoalTypeConsistency {
			continue
		}
		goal.ApplyProgress(goal.CurrentValue + 1)
		if err := repo.Update(goal); err != nil {
			log.Errorf("update goal %d: %v", goal.ID, err)
		}
	}
}

func loadOwnProgram(c *fiber.Ctx, userID uint) (*models.WorkoutProgram, error) {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return nil, jsonError(c, fiber.StatusBadRequest, "invalid_id", "Invalid program id")
	}

	repo := repository.GetGlobalFactory().GetWorkoutRepository()
	program, err := repo.GetProgramByID(uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, jsonError(c, fiber.StatusNotFound, "not_found", "Program not found")
		}
		return nil, jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load program")
	}
	if program.UserID != userID {
		return nil, jsonError(c, fiber.StatusNotFound, "not_found", "Program not found")
	}
	return program, nil
}

func currentLimits(c *fiber.Ctx, userID uint) entitlements.Limits {
	settings, err := models.GetOrCreateUserSettings(database.GetDB(), userID)
	if err != nil {
		log.Errorf("load settings for user %d: %v", userID, err)
		return entitlements.ForPlan(entitlements.PlanFree)
	}
	return entitlements.ForUserSettings(settings)
}

func programResponse(p *models.WorkoutProgram) fiber.Map {
	refs, err := p.ExerciseRefs()
	if err != nil {
		refs = nil
	}
	return fiber.Map{
		"id":         p.ID,
		"name":       p.Name,
		"exercises":  refs,
		"created_at": p.CreatedAt,
		"updated_at": p.UpdatedAt,
	}
}

func logResponse(l *models.WorkoutLog) fiber.Map {
	entries, err := l.Exercises()
	if err != nil {
		entries = nil
	}
	return fiber.Map{
		"id":           l.ID,
		"program_id":   l.ProgramID,
		"date":         l.Date,
		"exercises":    entries,
		"total_volume": l.TotalVolume(),
		"created_at":   l.CreatedAt,
	}
}
