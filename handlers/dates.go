package handlers

import (
	"errors"
	"net/http"

	"duet/models"
	calendarService "duet/services/calendar"
	datesService "duet/services/dates"
	"duet/services/freetime"
	"duet/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// DateHandler exposes date-plan generation endpoints.
type DateHandler struct {
	DateService datesService.DateGeneratorService
}

// GeneratePlanHandler handles POST /dates/generate-date-plan, the
// calendar-free flow driven only by prompt, time frame, and location.
func (h *DateHandler) GeneratePlanHandler(c *gin.Context) {
	logger := utils.GetLogger()

	var req models.DateGenerationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	plan, err := h.DateService.GeneratePlan(c.Request.Context(), req)
	if err != nil {
		logger.Error("Date plan generation failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate date plan"})
		return
	}
	c.JSON(http.StatusOK, plan)
}

// GenerateCouplePlanHandler handles POST /dates/generate-couple-date-plan.
// It plans around both partners' calendars.
func (h *DateHandler) GenerateCouplePlanHandler(c *gin.Context) {
	logger := utils.GetLogger()
	userID := c.GetString("userID")

	var req models.CoupleDateGenerationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	plan, err := h.DateService.GenerateCouplePlan(c.Request.Context(), userID, req)
	switch {
	case errors.Is(err, datesService.ErrNotInCouple),
		errors.Is(err, datesService.ErrNoMutualFreeTime),
		errors.Is(err, freetime.ErrInvalidWindow),
		errors.Is(err, freetime.ErrInvalidThreshold):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	case errors.Is(err, calendarService.ErrNoCalendarAccess):
		c.JSON(http.StatusPreconditionRequired, gin.H{"error": "Both partners must connect Google Calendar first"})
		return
	case err != nil:
		logger.Error("Couple date plan generation failed", zap.String("userID", userID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate date plan"})
		return
	}
	c.JSON(http.StatusOK, plan)
}
