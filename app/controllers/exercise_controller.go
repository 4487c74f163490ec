package controllers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/fitrekhq/fitrek/app/repository"
	"github.com/fitrekhq/fitrek/internal/pkg/exercises"
	"github.com/fitrekhq/fitrek/internal/pkg/usercontext"
)

// HandleListExercises returns the built-in catalog merged with the user's
// custom exercises. A "q" query param filters the catalog part.
func HandleListExercises(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)

	catalog := exercises.Search(c.Query("q"))

	repo := repository.GetGlobalFactory().GetWorkoutRepository()
	custom, err := repo.GetCustomExercisesByUserID(userCtx.UserID)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load exercises")
	}

	return c.JSON(fiber.Map{
		"exercises": catalog,
		"custom":    custom,
	})
}

// HandleListTemplates returns the predefined workout templates.
func HandleListTemplates(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"templates": exercises.Templates()})
}
