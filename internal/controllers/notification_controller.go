package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/equiptrack/backend/internal/models"
	"github.com/equiptrack/backend/internal/services"
	"github.com/gin-gonic/gin"
)

type NotificationController struct {
	notifications *services.NotificationService
}

func NewNotificationController(notifications *services.NotificationService) *NotificationController {
	return &NotificationController{notifications: notifications}
}

func (nc *NotificationController) List(c *gin.Context) {
	userID := c.GetUint("userID")
	role, _ := c.Get("userRole")

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	unreadOnly := c.Query("unread") == "true"

	notifications, err := nc.notifications.ListForUser(userID, role.(models.UserRole), unreadOnly, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to fetch notifications"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": notifications})
}

func (nc *NotificationController) UnreadCount(c *gin.Context) {
	userID := c.GetUint("userID")
	role, _ := c.Get("userRole")

	count, err := nc.notifications.UnreadCount(userID, role.(models.UserRole))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to count notifications"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": gin.H{"unread": count}})
}

func (nc *NotificationController) MarkRead(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	userID := c.GetUint("userID")
	role, _ := c.Get("userRole")

	if err := nc.notifications.MarkRead(id, userID, role.(models.UserRole)); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Notification not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to mark notification read"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Notification marked read"})
}

func (nc *NotificationController) MarkAllRead(c *gin.Context) {
	userID := c.GetUint("userID")
	role, _ := c.Get("userRole")

	if err := nc.notifications.MarkAllRead(userID, role.(models.UserRole)); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to mark notifications read"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "All notifications marked read"})
}
