package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/equiptrack/backend/internal/models"
	"github.com/equiptrack/backend/internal/services"
	"github.com/gin-gonic/gin"
)

type ReservationController struct {
	reservations *services.ReservationService
}

func NewReservationController(reservations *services.ReservationService) *ReservationController {
	return &ReservationController{reservations: reservations}
}

type CreateReservationRequest struct {
	EquipmentID uint      `json:"equipmentId" binding:"required"`
	StartTime   time.Time `json:"startTime" binding:"required"`
	EndTime     time.Time `json:"endTime" binding:"required"`
	Purpose     string    `json:"purpose"`
}

type DecideReservationRequest struct {
	Notes string `json:"notes"`
}

func (vc *ReservationController) Create(c *gin.Context) {
	var req CreateReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}

	reservation, err := vc.reservations.Create(services.CreateReservationInput{
		UserID:      c.GetUint("userID"),
		EquipmentID: req.EquipmentID,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		Purpose:     req.Purpose,
	})
	if err != nil {
		respondReservationError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "data": reservation})
}

func (vc *ReservationController) List(c *gin.Context) {
	userID := c.GetUint("userID")
	role, _ := c.Get("userRole")

	filter := services.ReservationFilter{
		Status: models.ReservationStatus(strings.ToUpper(c.Query("status"))),
	}
	if !role.(models.UserRole).IsStaff() {
		filter.UserID = &userID
	} else if user := c.Query("userId"); user != "" {
		if id, err := strconv.ParseUint(user, 10, 32); err == nil {
			uid := uint(id)
			filter.UserID = &uid
		}
	}
	if equipment := c.Query("equipmentId"); equipment != "" {
		if id, err := strconv.ParseUint(equipment, 10, 32); err == nil {
			eid := uint(id)
			filter.EquipmentID = &eid
		}
	}
	filter.Offset, _ = strconv.Atoi(c.DefaultQuery("offset", "0"))
	filter.Limit, _ = strconv.Atoi(c.DefaultQuery("limit", "50"))

	reservations, total, err := vc.reservations.List(filter)
	if err != nil {
		respondReservationError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": reservations, "total": total})
}

func (vc *ReservationController) Approve(c *gin.Context) {
	vc.decide(c, true)
}

func (vc *ReservationController) Reject(c *gin.Context) {
	vc.decide(c, false)
}

func (vc *ReservationController) decide(c *gin.Context, approve bool) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req DecideReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}

	reservation, err := vc.reservations.Decide(id, approve, req.Notes, c.GetUint("userID"))
	if err != nil {
		respondReservationError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": reservation})
}

func (vc *ReservationController) Cancel(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := vc.reservations.Cancel(id, c.GetUint("userID")); err != nil {
		respondReservationError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Reservation cancelled"})
}

func (vc *ReservationController) Return(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := vc.reservations.Return(id, c.GetUint("userID")); err != nil {
		respondReservationError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Equipment returned"})
}

func respondReservationError(c *gin.Context, err error) {
	var validationErr *services.ValidationError
	switch {
	case errors.As(err, &validationErr):
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": validationErr.Error()})
	case errors.Is(err, services.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Reservation not found"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Internal server error"})
	}
}
