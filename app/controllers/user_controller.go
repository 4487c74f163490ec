package controllers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/fitrekhq/fitrek/app/models"
	"github.com/fitrekhq/fitrek/app/repository"
	"github.com/fitrekhq/fitrek/internal/pkg/database"
	"github.com/fitrekhq/fitrek/internal/pkg/referral"
	"github.com/fitrekhq/fitrek/internal/pkg/usercontext"
)

// HandleGetProfile returns the current user's account and settings.
func HandleGetProfile(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)

	userRepo := repository.GetGlobalFactory().GetUserRepository()
	user, err := userRepo.GetByID(userCtx.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return jsonError(c, fiber.StatusNotFound, "not_found", "User not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load user")
	}

	settings, err := models.GetOrCreateUserSettings(database.GetDB(), user.ID)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load settings")
	}

	return c.JSON(fiber.Map{
		"id":                        user.ID,
		"name":                      user.Name,
		"email":                     user.Email,
		"referral_code":             user.ReferralCode,
		"completed_referrals_count": user.CompletedReferralsCount,
		"last_workout_at":           user.LastWorkoutAt,
		"settings":                  settings,
	})
}

type updateSettingsRequest struct {
	WeightUnit            *string  `json:"weight_unit" validate:"omitempty,oneof=kg lb"`
	HeightCm              *float64 `json:"height_cm" validate:"omitempty,gt=0,lt=300"`
	Sex                   *string  `json:"sex" validate:"omitempty,oneof=male female other"`
	WeeklyWorkoutGoal     *int     `json:"weekly_workout_goal" validate:"omitempty,gte=0,lte=14"`
	NotifyWorkoutReminder *bool    `json:"notify_workout_reminder"`
	NotifyProgressUpdates *bool    `json:"notify_progress_updates"`
	NotifyNewFeatures     *bool    `json:"notify_new_features"`
}

// HandleUpdateSettings applies a partial settings update.
func HandleUpdateSettings(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)

	var req updateSettingsRequest
	if err := parseAndValidate(c, &req); err != nil {
		fe := err.(*fiber.Error)
		return jsonError(c, fe.Code, "validation_failed", fe.Message)
	}

	db := database.GetDB()
	settings, err := models.GetOrCreateUserSettings(db, userCtx.UserID)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load settings")
	}

	if req.WeightUnit != nil {
		settings.WeightUnit = *req.WeightUnit
	}
	if req.HeightCm != nil {
		settings.HeightCm = *req.HeightCm
	}
	if req.Sex != nil {
		settings.Sex = *req.Sex
	}
	if req.WeeklyWorkoutGoal != nil {
		settings.WeeklyWorkoutGoal = *req.WeeklyWorkoutGoal
	}
	if req.NotifyWorkoutReminder != nil {
		settings.NotifyWorkoutReminder = *req.NotifyWorkoutReminder
	}
	if req.NotifyProgressUpdates != nil {
		settings.NotifyProgressUpdates = *req.NotifyProgressUpdates
	}
	if req.NotifyNewFeatures != nil {
		settings.NotifyNewFeatures = *req.NotifyNewFeatures
	}

	if err := db.Save(settings).Error; err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to save settings")
	}

	return c.JSON(settings)
}

// HandleIssueReferralCode returns the user's referral code, minting one on
// first call.
func HandleIssueReferralCode(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)

	svc := referral.NewServiceFromDB(database.GetDB())
	code, err := svc.IssueCode(userCtx.UserID)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to issue referral code")
	}

	return c.JSON(fiber.Map{"referral_code": code})
}

// HandleListReferrals returns the referrals the user has generated and the
// next milestone they are working toward.
func HandleListReferrals(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)

	userRepo := repository.GetGlobalFactory().GetUserRepository()
	user, err := userRepo.GetByID(userCtx.UserID)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load user")
	}

	svc := referral.NewServiceFromDB(database.GetDB())
	refs, err := svc.ListReferrals(userCtx.UserID)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load referrals")
	}

	resp := fiber.Map{
		"referrals":       refs,
		"completed_count": user.CompletedReferralsCount,
	}
	if next := referral.NextMilestone(user.CompletedReferralsCount); next != nil {
		resp["next_milestone"] = fiber.Map{
			"count":  next.Count,
			"months": next.Months,
		}
	}
	return c.JSON(resp)
}
