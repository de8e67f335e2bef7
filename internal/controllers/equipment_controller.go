package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/equiptrack/backend/internal/models"
	"github.com/equiptrack/backend/internal/services"
	"github.com/gin-gonic/gin"
)

type EquipmentController struct {
	equipment *services.EquipmentService
}

func NewEquipmentController(equipment *services.EquipmentService) *EquipmentController {
	return &EquipmentController{equipment: equipment}
}

type CreateEquipmentRequest struct {
	Name         string `json:"name" binding:"required"`
	SerialNumber string `json:"serialNumber" binding:"required"`
	Category     string `json:"category" binding:"required"`
	Location     string `json:"location"`
	Description  string `json:"description"`
}

type UpdateEquipmentRequest struct {
	Name        *string `json:"name"`
	Category    *string `json:"category"`
	Location    *string `json:"location"`
	Description *string `json:"description"`
}

type SetEquipmentStatusRequest struct {
	Status models.EquipmentStatus `json:"status" binding:"required"`
}

func (ec *EquipmentController) Create(c *gin.Context) {
	var req CreateEquipmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}

	equipment, err := ec.equipment.Create(services.CreateEquipmentInput{
		Name:         req.Name,
		SerialNumber: req.SerialNumber,
		Category:     req.Category,
		Location:     req.Location,
		Description:  req.Description,
	}, c.GetUint("userID"))
	if err != nil {
		respondEquipmentError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "data": equipment})
}

func (ec *EquipmentController) List(c *gin.Context) {
	filter := services.EquipmentFilter{
		Category: c.Query("category"),
		Status:   models.EquipmentStatus(strings.ToUpper(c.Query("status"))),
		Search:   c.Query("search"),
	}
	filter.Offset, _ = strconv.Atoi(c.DefaultQuery("offset", "0"))
	filter.Limit, _ = strconv.Atoi(c.DefaultQuery("limit", "50"))

	items, total, err := ec.equipment.List(filter)
	if err != nil {
		respondEquipmentError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": items, "total": total})
}

func (ec *EquipmentController) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	equipment, err := ec.equipment.GetByID(id)
	if err != nil {
		respondEquipmentError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": equipment})
}

func (ec *EquipmentController) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req UpdateEquipmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}

	equipment, err := ec.equipment.Update(id, services.UpdateEquipmentInput{
		Name:        req.Name,
		Category:    req.Category,
		Location:    req.Location,
		Description: req.Description,
	}, c.GetUint("userID"))
	if err != nil {
		respondEquipmentError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": equipment})
}

func (ec *EquipmentController) SetStatus(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req SetEquipmentStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}

	status := models.EquipmentStatus(strings.ToUpper(string(req.Status)))
	switch status {
	case models.EquipmentAvailable, models.EquipmentReserved, models.EquipmentInUse,
		models.EquipmentDefective, models.EquipmentMaintenance, models.EquipmentRetired:
	default:
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid status value"})
		return
	}

	if err := ec.equipment.SetStatus(id, status); err != nil {
		respondEquipmentError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Equipment status updated"})
}

func (ec *EquipmentController) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := ec.equipment.Delete(id, c.GetUint("userID")); err != nil {
		respondEquipmentError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Equipment deleted"})
}

func respondEquipmentError(c *gin.Context, err error) {
	var validationErr *services.ValidationError
	switch {
	case errors.As(err, &validationErr):
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": validationErr.Error()})
	case errors.Is(err, services.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Equipment not found"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Internal server error"})
	}
}
