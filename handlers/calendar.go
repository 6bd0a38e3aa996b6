package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"duet/models"
	calendarService "duet/services/calendar"
	couplesService "duet/services/couples"
	"duet/services/freetime"
	userService "duet/services/user"
	"duet/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// defaultMinSlotHours is used when free-slot queries omit min_hours.
const defaultMinSlotHours = 2.0

// CalendarHandler exposes calendar connection, free-slot, and event
// creation endpoints.
type CalendarHandler struct {
	CalendarService calendarService.CalendarService
	CouplesService  couplesService.CouplesService
	UserService     userService.UserService
}

// ConnectCalendarHandler handles GET /calendar/connect. It returns the
// Google consent URL used to attach a calendar to the signed-in account.
func (h *CalendarHandler) ConnectCalendarHandler(c *gin.Context) {
	c.JSON(http.StatusOK, models.GoogleAuthURL{AuthURL: h.UserService.GoogleAuthURL("connect")})
}

// ConnectCalendarCallbackHandler handles POST /calendar/connect. The
// client posts the authorization code it received from Google.
func (h *CalendarHandler) ConnectCalendarCallbackHandler(c *gin.Context) {
	logger := utils.GetLogger()
	userID := c.GetString("userID")

	var req struct {
		Code string `json:"code" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	if err := h.UserService.ConnectGoogleCalendar(c.Request.Context(), req.Code, userID); err != nil {
		logger.Error("Calendar connect failed", zap.String("userID", userID), zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to connect Google Calendar: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Google Calendar connected"})
}

// FreeSlotsHandler handles GET /calendar/free-slots. It computes the
// couple's mutual free time within the start/end window.
func (h *CalendarHandler) FreeSlotsHandler(c *gin.Context) {
	logger := utils.GetLogger()
	userID := c.GetString("userID")

	start, err := time.Parse(time.RFC3339, c.Query("start"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid or missing 'start' (RFC 3339 expected)"})
		return
	}
	end, err := time.Parse(time.RFC3339, c.Query("end"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid or missing 'end' (RFC 3339 expected)"})
		return
	}

	minHours := defaultMinSlotHours
	if raw := c.Query("min_hours"); raw != "" {
		minHours, err = strconv.ParseFloat(raw, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid 'min_hours'"})
			return
		}
	}

	partner, err := h.CouplesService.GetPartner(userID)
	if err != nil {
		logger.Error("Partner lookup failed", zap.String("userID", userID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if partner == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "You must be in a couple to use this feature"})
		return
	}

	window := freetime.QueryWindow{Start: start.UTC(), End: end.UTC()}
	slots, err := h.CalendarService.FindFreeSlots(c.Request.Context(), userID, partner.Partner.ID, window, minHours)
	switch {
	case errors.Is(err, calendarService.ErrNoCalendarAccess):
		c.JSON(http.StatusPreconditionRequired, gin.H{"error": "Both partners must connect Google Calendar first"})
		return
	case errors.Is(err, freetime.ErrInvalidWindow), errors.Is(err, freetime.ErrInvalidThreshold):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	case err != nil:
		logger.Error("Free-slot computation failed", zap.String("userID", userID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute free slots"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"free_slots": slots})
}

// AddEventHandler handles POST /calendar/add-event. It writes a confirmed
// date to the user's Google Calendar and returns 428 when the calendar was
// never connected.
func (h *CalendarHandler) AddEventHandler(c *gin.Context) {
	logger := utils.GetLogger()
	userID := c.GetString("userID")

	var req models.AddEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	start, err := time.Parse(time.RFC3339, req.StartTime)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid 'start_time' (RFC 3339 expected)"})
		return
	}
	end, err := time.Parse(time.RFC3339, req.EndTime)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid 'end_time' (RFC 3339 expected)"})
		return
	}
	if !start.Before(end) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "'start_time' must be before 'end_time'"})
		return
	}

	created, err := h.CalendarService.AddEvent(c.Request.Context(), userID, calendarService.Event{
		Summary:     req.Summary,
		Description: req.Description,
		Location:    req.Location,
		Start:       start,
		End:         end,
	})
	if errors.Is(err, calendarService.ErrNoCalendarAccess) {
		c.JSON(http.StatusPreconditionRequired, gin.H{"error": "Connect Google Calendar before adding events"})
		return
	}
	if err != nil {
		logger.Error("Event creation failed", zap.String("userID", userID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create calendar event"})
		return
	}

	c.JSON(http.StatusOK, models.AddEventResponse{
		Success:   true,
		EventID:   created.ID,
		EventLink: created.Link,
		Message:   "Event added to your calendar",
	})
}
