package controllers

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/equiptrack/backend/internal/models"
	"github.com/equiptrack/backend/internal/services"
	"github.com/gin-gonic/gin"
)

type ReportController struct {
	reports *services.ReportService
}

func NewReportController(reports *services.ReportService) *ReportController {
	return &ReportController{reports: reports}
}

// Submit accepts a multipart form: equipmentId, description, location,
// optional priority/category/force fields and up to five photos.
func (rc *ReportController) Submit(c *gin.Context) {
	userID := c.GetUint("userID")

	equipmentID, err := strconv.ParseUint(c.PostForm("equipmentId"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid equipment id"})
		return
	}

	input := services.CreateReportInput{
		ReporterID:  userID,
		EquipmentID: uint(equipmentID),
		Description: c.PostForm("description"),
		Location:    c.PostForm("location"),
		Priority:    models.ReportPriority(strings.ToUpper(c.PostForm("priority"))),
		Category:    models.ReportCategory(strings.ToUpper(c.PostForm("category"))),
		Force:       c.PostForm("force") == "true",
	}

	form, err := c.MultipartForm()
	if err == nil && form != nil {
		for _, header := range form.File["photos"] {
			file, err := header.Open()
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Failed to read uploaded photo"})
				return
			}
			data, err := io.ReadAll(file)
			file.Close()
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Failed to read uploaded photo"})
				return
			}
			mimeType := header.Header.Get("Content-Type")
			if mimeType == "" {
				mimeType = http.DetectContentType(data)
			}
			input.Photos = append(input.Photos, services.PhotoUpload{Data: data, MimeType: mimeType})
		}
	}

	result, err := rc.reports.Create(input)
	if err != nil {
		respondReportError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "data": result})
}

// List supports the full filter surface: reporter, status/priority
// sets, category, equipment, date range, search, assigned and overdue
// predicates, sorting and pagination. Students only see their own
// reports.
func (rc *ReportController) List(c *gin.Context) {
	userID := c.GetUint("userID")
	role, _ := c.Get("userRole")

	filter := services.ReportFilter{
		Search:   c.Query("search"),
		Category: models.ReportCategory(strings.ToUpper(c.Query("category"))),
		SortBy:   c.DefaultQuery("sortBy", "created_at"),
		SortDesc: c.DefaultQuery("sortDir", "desc") == "desc",
		Overdue:  c.Query("overdue") == "true",
	}

	if !role.(models.UserRole).IsStaff() {
		filter.ReporterID = &userID
	} else if reporter := c.Query("reporterId"); reporter != "" {
		if id, err := strconv.ParseUint(reporter, 10, 32); err == nil {
			rid := uint(id)
			filter.ReporterID = &rid
		}
	}

	if equipment := c.Query("equipmentId"); equipment != "" {
		if id, err := strconv.ParseUint(equipment, 10, 32); err == nil {
			eid := uint(id)
			filter.EquipmentID = &eid
		}
	}
	for _, s := range splitParam(c.Query("status")) {
		filter.Statuses = append(filter.Statuses, models.ReportStatus(strings.ToUpper(s)))
	}
	for _, p := range splitParam(c.Query("priority")) {
		filter.Priorities = append(filter.Priorities, models.ReportPriority(strings.ToUpper(p)))
	}
	if from := c.Query("from"); from != "" {
		if t, err := time.Parse(time.RFC3339, from); err == nil {
			filter.From = &t
		}
	}
	if to := c.Query("to"); to != "" {
		if t, err := time.Parse(time.RFC3339, to); err == nil {
			filter.To = &t
		}
	}
	if assigned := c.Query("assigned"); assigned != "" {
		value := assigned == "true"
		filter.Assigned = &value
	}
	filter.Offset, _ = strconv.Atoi(c.DefaultQuery("offset", "0"))
	filter.Limit, _ = strconv.Atoi(c.DefaultQuery("limit", "50"))

	list, err := rc.reports.List(filter)
	if err != nil {
		respondReportError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": list.Items, "total": list.Total})
}

func (rc *ReportController) Get(c *gin.Context) {
	reportID, ok := parseID(c)
	if !ok {
		return
	}

	detail, err := rc.reports.GetByID(reportID)
	if err != nil {
		respondReportError(c, err)
		return
	}

	userID := c.GetUint("userID")
	role, _ := c.Get("userRole")
	if !role.(models.UserRole).IsStaff() && detail.Report.ReporterID != userID {
		c.JSON(http.StatusForbidden, gin.H{"success": false, "message": "Insufficient permissions"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": detail})
}

type UpdateStatusRequest struct {
	Status models.ReportStatus `json:"status" binding:"required"`
	Notes  string              `json:"notes"`
}

func (rc *ReportController) UpdateStatus(c *gin.Context) {
	reportID, ok := parseID(c)
	if !ok {
		return
	}

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}

	actorID := c.GetUint("userID")
	oldStatus, newStatus, err := rc.reports.UpdateStatus(reportID, models.ReportStatus(strings.ToUpper(string(req.Status))), &actorID, req.Notes)
	if err != nil {
		respondReportError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    gin.H{"oldStatus": oldStatus, "newStatus": newStatus},
	})
}

type UpdatePriorityRequest struct {
	Priority models.ReportPriority `json:"priority" binding:"required"`
	Reason   string                `json:"reason"`
}

func (rc *ReportController) UpdatePriority(c *gin.Context) {
	reportID, ok := parseID(c)
	if !ok {
		return
	}

	var req UpdatePriorityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}

	actorID := c.GetUint("userID")
	if err := rc.reports.UpdatePriority(reportID, models.ReportPriority(strings.ToUpper(string(req.Priority))), req.Reason, &actorID); err != nil {
		respondReportError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Priority updated"})
}

type AssignRequest struct {
	HandlerID uint   `json:"handlerId" binding:"required"`
	Notes     string `json:"notes"`
}

func (rc *ReportController) Assign(c *gin.Context) {
	reportID, ok := parseID(c)
	if !ok {
		return
	}

	var req AssignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}

	actorID := c.GetUint("userID")
	if err := rc.reports.AssignToHandler(reportID, req.HandlerID, req.Notes, &actorID); err != nil {
		respondReportError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Report assigned"})
}

type AddCommentRequest struct {
	Text string `json:"text" binding:"required"`
}

func (rc *ReportController) AddComment(c *gin.Context) {
	reportID, ok := parseID(c)
	if !ok {
		return
	}

	var req AddCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}

	comment, err := rc.reports.AddComment(reportID, c.GetUint("userID"), req.Text)
	if err != nil {
		respondReportError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "data": comment})
}

func (rc *ReportController) DeleteComment(c *gin.Context) {
	reportID, ok := parseID(c)
	if !ok {
		return
	}
	commentID, err := strconv.ParseUint(c.Param("commentId"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid comment id"})
		return
	}

	role, _ := c.Get("userRole")
	err = rc.reports.DeleteComment(reportID, uint(commentID), c.GetUint("userID"), role.(models.UserRole))
	if err != nil {
		respondReportError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Comment deleted"})
}

func (rc *ReportController) Delete(c *gin.Context) {
	reportID, ok := parseID(c)
	if !ok {
		return
	}

	actorID := c.GetUint("userID")
	if err := rc.reports.Delete(reportID, &actorID); err != nil {
		respondReportError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Report deleted"})
}

func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid report id"})
		return 0, false
	}
	return uint(id), true
}

func splitParam(value string) []string {
	if value == "" {
		return nil
	}
	var parts []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			parts = append(parts, part)
		}
	}
	return parts
}

// respondReportError maps the service error taxonomy onto HTTP status
// codes; every response carries the success flag envelope.
func respondReportError(c *gin.Context, err error) {
	var validationErr *services.ValidationError
	var duplicateErr *services.DuplicateReportError
	var transitionErr *services.InvalidTransitionError
	var storageErr *services.StorageError

	switch {
	case errors.As(err, &validationErr):
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": validationErr.Error()})
	case errors.As(err, &duplicateErr):
		c.JSON(http.StatusConflict, gin.H{
			"success":          false,
			"duplicate":        true,
			"message":          duplicateErr.Error(),
			"existingReportId": duplicateErr.ExistingReportID,
		})
	case errors.As(err, &transitionErr):
		c.JSON(http.StatusConflict, gin.H{
			"success":       false,
			"message":       transitionErr.Error(),
			"currentStatus": transitionErr.From,
			"requested":     transitionErr.To,
		})
	case errors.As(err, &storageErr):
		c.JSON(http.StatusBadGateway, gin.H{"success": false, "message": storageErr.Error()})
	case errors.Is(err, services.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Report not found"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Internal server error"})
	}
}
