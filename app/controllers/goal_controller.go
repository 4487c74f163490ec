package controllers

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/fitrekhq/fitrek/app/models"
	"github.com/fitrekhq/fitrek/app/repository"
	"github.com/fitrekhq/fitrek/internal/pkg/usercontext"
)

type goalRequest struct {
	Type        string     `json:"type" validate:"required,oneof=strength weight_loss consistency endurance custom"`
	Name        string     `json:"name" validate:"required,min=1,max=150"`
	TargetValue float64    `json:"target_value" validate:"required,gt=0"`
	Unit        string     `json:"unit" validate:"required,max=30"`
	EndDate     *time.Time `json:"end_date"`
	ExerciseID  string     `json:"exercise_id" validate:"omitempty,max=64"`
	Description string     `json:"description" validate:"omitempty,max=1000"`
}

// HandleCreateGoal creates a goal for the current user.
func HandleCreateGoal(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)

	var req goalRequest
	if err := parseAndValidate(c, &req); err != nil {
		fe := err.(*fiber.Error)
		return jsonError(c, fe.Code, "validation_failed", fe.Message)
	}

	repo := repository.GetGlobalFactory().GetGoalRepository()

	active, err := repo.GetActiveByUserID(userCtx.UserID)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load goals")
	}
	limits := currentLimits(c, userCtx.UserID)
	if !limits.Allows(limits.MaxActiveGoals, len(active)) {
		return jsonError(c, fiber.StatusForbidden, "plan_limit_reached", "Your plan allows no more active goals")
	}

	goal := &models.Goal{
		UserID:       userCtx.UserID,
		Type:         req.Type,
		Name:         req.Name,
		TargetValue:  req.TargetValue,
		CurrentValue: 0,
		Unit:         req.Unit,
		StartDate:    time.Now(),
		EndDate:      req.EndDate,
		Status:       models.GoalStatusActive,
		ExerciseID:   req.ExerciseID,
		Description:  req.Description,
	}
	if err := repo.Create(goal); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to create goal")
	}
	return c.Status(fiber.StatusCreated).JSON(goal)
}

// HandleListGoals lists the user's goals. "status=active" restricts to
// active ones.
func HandleListGoals(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)
	repo := repository.GetGlobalFactory().GetGoalRepository()

	var (
		goals []models.Goal
		err   error
	)
	if c.Query("status") == models.GoalStatusActive {
		goals, err = repo.GetActiveByUserID(userCtx.UserID)
	} else {
		goals, err = repo.GetByUserID(userCtx.UserID)
	}
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load goals")
	}
	return c.JSON(fiber.Map{"goals": goals})
}

type goalProgressRequest struct {
	CurrentValue float64 `json:"current_value" validate:"gte=0"`
}

// HandleUpdateGoalProgress records new progress toward a goal.
func HandleUpdateGoalProgress(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)

	goal, err := loadOwnGoal(c, userCtx.UserID)
	if err != nil {
		return err
	}

	var req goalProgressRequest
	if err := parseAndValidate(c, &req); err != nil {
		fe := err.(*fiber.Error)
		return jsonError(c, fe.Code, "validation_failed", fe.Message)
	}

	goal.ApplyProgress(req.CurrentValue)

	repo := repository.GetGlobalFactory().GetGoalRepository()
	if err := repo.Update(goal); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to update goal")
	}
	return c.JSON(goal)
}

type goalStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=active completed failed archived"`
}

// HandleUpdateGoalStatus changes a goal's lifecycle status.
func HandleUpdateGoalStatus(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)

	goal, err := loadOwnGoal(c, userCtx.UserID)
	if err != nil {
		return err
	}

	var req goalStatusRequest
	if err := parseAndValidate(c, &req); err != nil {
		fe := err.(*fiber.Error)
		return jsonError(c, fe.Code, "validation_failed", fe.Message)
	}

	goal.Status = req.Status

	repo := repository.GetGlobalFactory().GetGoalRepository()
	if err := repo.Update(goal); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to update goal")
	}
	return c.JSON(goal)
}

// HandleDeleteGoal removes a goal.
func HandleDeleteGoal(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)

	goal, err := loadOwnGoal(c, userCtx.UserID)
	if err != nil {
		return err
	}

	repo := repository.GetGlobalFactory().GetGoalRepository()
	if err := repo.Delete(goal.ID); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to delete goal")
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func loadOwnGoal(c *fiber.Ctx, userID uint) (*models.Goal, error) {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return nil, jsonError(c, fiber.StatusBadRequest, "invalid_id", "Invalid goal id")
	}

	repo := repository.GetGlobalFactory().GetGoalRepository()
	goal, err := repo.GetByID(uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, jsonError(c, fiber.StatusNotFound, "not_found", "Goal not found")
		}
		return nil, jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load goal")
	}
	if goal.UserID != userID {
		return nil, jsonError(c, fiber.StatusNotFound, "not_found", "Goal not found")
	}
	return goal, nil
}
