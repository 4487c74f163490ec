package controllers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/fitrekhq/fitrek/app/repository"
	"github.com/fitrekhq/fitrek/internal/pkg/usercontext"
)

// HandleListNotifications lists the user's notifications, newest first.
func HandleListNotifications(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)
	offset, limit := parsePagination(c, 20, 100)

	repo := repository.GetGlobalFactory().GetNotificationRepository()
	notifications, err := repo.GetByUserID(userCtx.UserID, offset, limit)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load notifications")
	}
	unread, err := repo.CountUnreadByUserID(userCtx.UserID)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to count notifications")
	}

	return c.JSON(fiber.Map{
		"notifications": notifications,
		"unread_count":  unread,
		"offset":        offset,
		"limit":         limit,
	})
}

// HandleMarkNotificationRead marks one notification as read.
func HandleMarkNotificationRead(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)

	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return jsonError(c, fiber.StatusBadRequest, "invalid_id", "Invalid notification id")
	}

	repo := repository.GetGlobalFactory().GetNotificationRepository()
	notification, err := repo.GetByID(uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return jsonError(c, fiber.StatusNotFound, "not_found", "Notification not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load notification")
	}
	if notification.UserID != userCtx.UserID {
		return jsonError(c, fiber.StatusNotFound, "not_found", "Notification not found")
	}

	if err := repo.MarkAsRead(notification.ID); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to update notification")
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// HandleMarkAllNotificationsRead marks every notification of the user as read.
func HandleMarkAllNotificationsRead(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)

	repo := repository.GetGlobalFactory().GetNotificationRepository()
	if err := repo.MarkAllAsRead(userCtx.UserID); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to update notifications")
	}
	return c.SendStatus(fiber.StatusNoContent)
}
