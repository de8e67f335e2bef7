package controllers

import (
	"net/http"
	"strconv"

	"github.com/equiptrack/backend/internal/services"
	"github.com/gin-gonic/gin"
)

type ActivityController struct {
	activity *services.ActivityService
}

func NewActivityController(activity *services.ActivityService) *ActivityController {
	return &ActivityController{activity: activity}
}

// List returns recent portal activity. Admin only.
func (ac *ActivityController) List(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	entries, err := ac.activity.List(limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to fetch activity log"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": entries})
}
