package controllers

import (
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"gorm.io/gorm"

	"github.com/fitrekhq/fitrek/app/models"
	"github.com/fitrekhq/fitrek/app/repository"
	"github.com/fitrekhq/fitrek/internal/pkg/database"
	"github.com/fitrekhq/fitrek/internal/pkg/mail"
	"github.com/fitrekhq/fitrek/internal/pkg/referral"
	"github.com/fitrekhq/fitrek/internal/pkg/session"
	"github.com/fitrekhq/fitrek/internal/pkg/usercontext"
)

type registerRequest struct {
	Name         string `json:"name" validate:"required,min=3,max=150"`
	Email        string `json:"email" validate:"required,email"`
	Password     string `json:"password" validate:"required,min=6"`
	ReferralCode string `json:"referral_code" validate:"omitempty,max=20"`
}

// HandleRegister creates a new account and records a pending referral when a
// valid referral code was supplied.
func HandleRegister(c *fiber.Ctx) error {
	var req registerRequest
	if err := parseAndValidate(c, &req); err != nil {
		fe := err.(*fiber.Error)
		return jsonError(c, fe.Code, "validation_failed", fe.Message)
	}

	db := database.GetDB()
	userRepo := repository.GetGlobalFactory().GetUserRepository()

	if _, err := userRepo.GetByEmail(req.Email); err == nil {
		return jsonError(c, fiber.StatusConflict, "email_taken", "An account with this email already exists")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to check email")
	}

	refCode := strings.TrimSpace(req.ReferralCode)
	refSvc := referral.NewServiceFromDB(db)

	user, err := models.CreateUser(req.Name, req.Email, req.Password)
	if err != nil {
		return jsonError(c, fiber.StatusUnprocessableEntity, "validation_failed", err.Error())
	}
	if err := user.GenerateActivationToken(); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to prepare activation")
	}

	if err := userRepo.Create(user); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to create account")
	}
	if _, err := models.GetOrCreateUserSettings(db, user.ID); err != nil {
		log.Errorf("create settings for user %d: %v", user.ID, err)
	}
	if _, err := refSvc.IssueCode(user.ID); err != nil {
		log.Errorf("issue referral code for user %d: %v", user.ID, err)
	}

	if refCode != "" {
		if err := refSvc.ProcessSignup(user.ID, refCode); err != nil {
			switch {
			case errors.Is(err, referral.ErrUnknownCode):
				log.Warnf("signup %d with unknown referral code %q", user.ID, refCode)
			case errors.Is(err, referral.ErrSelfReferral), errors.Is(err, referral.ErrAlreadyReferred):
				log.Warnf("signup %d referral rejected: %v", user.ID, err)
			default:
				log.Errorf("signup %d referral error: %v", user.ID, err)
			}
		}
	}

	go func(email, name, token string) {
		if err := mail.SendActivationMail(email, name, token); err != nil {
			log.Errorf("activation mail to %s: %v", email, err)
		}
	}(user.Email, user.Name, user.ActivationToken)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"id":      user.ID,
		"email":   user.Email,
		"message": "Account created. Please check your inbox to activate it.",
	})
}

// HandleActivate activates an account via its emailed token.
func HandleActivate(c *fiber.Ctx) error {
	token := strings.TrimSpace(c.Query("token"))
	if token == "" {
		return jsonError(c, fiber.StatusBadRequest, "missing_token", "Activation token is required")
	}

	userRepo := repository.GetGlobalFactory().GetUserRepository()
	user, err := userRepo.GetByActivationToken(token)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return jsonError(c, fiber.StatusNotFound, "invalid_token", "Activation token is invalid")
		}
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to look up token")
	}

	user.Status = models.STATUS_ACTIVE
	user.ActivationToken = ""
	if err := userRepo.Update(user); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to activate account")
	}

	return c.JSON(fiber.Map{"message": "Account activated. You can log in now."})
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// HandleLogin verifies credentials and establishes a session.
func HandleLogin(c *fiber.Ctx) error {
	var req loginRequest
	if err := parseAndValidate(c, &req); err != nil {
		fe := err.(*fiber.Error)
		return jsonError(c, fe.Code, "validation_failed", fe.Message)
	}

	userRepo := repository.GetGlobalFactory().GetUserRepository()
	user, err := userRepo.GetByEmail(req.Email)
	if err != nil || !user.CheckPassword(req.Password) {
		// Same response for unknown email and wrong password.
		return jsonError(c, fiber.StatusUnauthorized, "invalid_credentials", "Email or password is incorrect")
	}
	if !user.IsActive() {
		return jsonError(c, fiber.StatusForbidden, "account_not_active", "Please activate your account first")
	}

	sess, err := session.GetSessionStore().Get(c)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to open session")
	}
	sess.Set(usercontext.AuthKey, true)
	sess.Set(usercontext.KeyUserID, user.ID)
	sess.Set(usercontext.KeyUsername, user.Name)
	sess.Set(usercontext.KeyIsAdmin, user.Role == models.ROLE_ADMIN)
	if err := sess.Save(); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to save session")
	}

	database.GetDB().Model(user).Update("last_login_at", time.Now())

	return c.JSON(fiber.Map{
		"id":    user.ID,
		"name":  user.Name,
		"email": user.Email,
		"role":  user.Role,
	})
}

// HandleLogout destroys the session.
func HandleLogout(c *fiber.Ctx) error {
	sess, err := session.GetSessionStore().Get(c)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to open session")
	}
	if err := sess.Destroy(); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to destroy session")
	}
	return c.JSON(fiber.Map{"message": "Logged out"})
}

type emailRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// HandleResendActivation re-sends the activation mail for inactive accounts.
func HandleResendActivation(c *fiber.Ctx) error {
	var req emailRequest
	if err := parseAndValidate(c, &req); err != nil {
		fe := err.(*fiber.Error)
		return jsonError(c, fe.Code, "validation_failed", fe.Message)
	}

	// Always answer 200 so the endpoint cannot be used to probe for accounts.
	userRepo := repository.GetGlobalFactory().GetUserRepository()
	user, err := userRepo.GetByEmail(req.Email)
	if err == nil && !user.IsActive() {
		if err := user.GenerateActivationToken(); err == nil {
			if err := userRepo.Update(user); err == nil {
				go func(email, name, token string) {
					if err := mail.SendActivationMail(email, name, token); err != nil {
						log.Errorf("activation mail to %s: %v", email, err)
					}
				}(user.Email, user.Name, user.ActivationToken)
			}
		}
	}

	return c.JSON(fiber.Map{"message": "If the account exists, a mail has been sent."})
}

// HandlePasswordResetRequest mails a reset token.
func HandlePasswordResetRequest(c *fiber.Ctx) error {
	var req emailRequest
	if err := parseAndValidate(c, &req); err != nil {
		fe := err.(*fiber.Error)
		return jsonError(c, fe.Code, "validation_failed", fe.Message)
	}

	userRepo := repository.GetGlobalFactory().GetUserRepository()
	user, err := userRepo.GetByEmail(req.Email)
	if err == nil {
		if err := user.GeneratePasswordResetToken(); err == nil {
			if err := userRepo.Update(user); err == nil {
				go func(email, name, token string) {
					if err := mail.SendPasswordResetMail(email, name, token); err != nil {
						log.Errorf("password reset mail to %s: %v", email, err)
					}
				}(user.Email, user.Name, user.PasswordResetToken)
			}
		}
	}

	return c.JSON(fiber.Map{"message": "If the account exists, a mail has been sent."})
}

type passwordResetRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Token    string `json:"token" validate:"required"`
	Password string `json:"password" validate:"required,min=6"`
}

// HandlePasswordReset sets a new password using a valid reset token.
func HandlePasswordReset(c *fiber.Ctx) error {
	var req passwordResetRequest
	if err := parseAndValidate(c, &req); err != nil {
		fe := err.(*fiber.Error)
		return jsonError(c, fe.Code, "validation_failed", fe.Message)
	}

	userRepo := repository.GetGlobalFactory().GetUserRepository()
	user, err := userRepo.GetByEmail(req.Email)
	if err != nil || !user.IsPasswordResetTokenValid(req.Token) {
		return jsonError(c, fiber.StatusUnauthorized, "invalid_token", "Reset token is invalid or expired")
	}

	if err := user.SetPassword(req.Password); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to set password")
	}
	user.PasswordResetToken = ""
	user.PasswordResetSentAt = nil
	if err := userRepo.Update(user); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to save password")
	}

	return c.JSON(fiber.Map{"message": "Password updated. You can log in now."})
}
