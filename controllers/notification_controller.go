// File: /controllers/notification_controller.go
package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"socialpulse-api/models"
	"socialpulse-api/repositories"
	"socialpulse-api/services"
	"socialpulse-api/utils"
)

type NotificationController struct {
	notifications *services.NotificationService
}

func NewNotificationController(notifications *services.NotificationService) *NotificationController {
	return &NotificationController{notifications: notifications}
}

// GetNotifications gets paginated notifications for the current user
func (nc *NotificationController) GetNotifications(c *gin.Context) {
	page, limit := utils.ParsePagination(c.Query("page"), c.Query("limit"),
		services.DefaultNotificationPageSize, services.MaxNotificationPageSize)

	result, err := nc.notifications.List(c.Request.Context(), models.NotificationFilter{
		UserID:     c.GetString("user_id"),
		Type:       models.NotificationType(c.Query("type")),
		UnreadOnly: c.Query("unread") == "true",
		Page:       page,
		Limit:      limit,
	})
	if err != nil {
		respondError(c, err, "Failed to fetch notifications")
		return
	}
	c.JSON(http.StatusOK, result)
}

// GetNotificationStats gets notification statistics (unread count, etc.)
func (nc *NotificationController) GetNotificationStats(c *gin.Context) {
	stats, err := nc.notifications.Stats(c.Request.Context(), c.GetString("user_id"))
	if err != nil {
		respondError(c, err, "Failed to fetch notification stats")
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (nc *NotificationController) MarkAsRead(c *gin.Context) {
	if err := nc.notifications.MarkRead(c.Request.Context(), c.GetString("user_id"), c.Param("id")); err != nil {
		nc.respond(c, err, "Failed to mark notification as read")
		return
	}
	utils.SendSuccess(c, "Notification marked as read", nil)
}

func (nc *NotificationController) MarkAllAsRead(c *gin.Context) {
	updated, err := nc.notifications.MarkAllRead(c.Request.Context(), c.GetString("user_id"))
	if err != nil {
		respondError(c, err, "Failed to mark notifications as read")
		return
	}
	utils.SendSuccess(c, "All notifications marked as read", gin.H{"updated": updated})
}

func (nc *NotificationController) DeleteNotification(c *gin.Context) {
	if err := nc.notifications.Delete(c.Request.Context(), c.GetString("user_id"), c.Param("id")); err != nil {
		nc.respond(c, err, "Failed to delete notification")
		return
	}
	utils.SendSuccess(c, "Notification deleted successfully", nil)
}

func (nc *NotificationController) respond(c *gin.Context, err error, fallback string) {
	if errors.Is(err, repositories.ErrNotificationNotFound) {
		utils.SendError(c, http.StatusNotFound, "Notification not found")
		return
	}
	respondError(c, err, fallback)
}
