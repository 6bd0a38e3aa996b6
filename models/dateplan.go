// models/dateplan.go
package models

import (
	"time"

	"duet/services/freetime"
)

// DateGenerationRequest is the legacy, calendar-free generation payload.
type DateGenerationRequest struct {
	Prompt    string `json:"prompt" binding:"required"`
	TimeFrame string `json:"time_frame" binding:"required"`
	Location  string `json:"location" binding:"required"`
}

// CoupleDateGenerationRequest drives calendar-aware generation. The window
// is the planning horizon searched for mutual free time.
type CoupleDateGenerationRequest struct {
	Prompt    string    `json:"prompt" binding:"required"`
	Location  string    `json:"location" binding:"required"`
	StartDate time.Time `json:"start_date" binding:"required"`
	EndDate   time.Time `json:"end_date" binding:"required"`
}

// DateEvent is one suggested outing: a real venue, why it fits, and when.
type DateEvent struct {
	Name          string `json:"name"`
	Reason        string `json:"reason"`
	SuggestedTime string `json:"suggested_time,omitempty"`
}

// DatePlanResponse is the generation result. FreeTimeSlots carries the
// engine output shape (start/end ISO-8601 plus duration_hours) that the
// schedule UI consumes as-is.
type DatePlanResponse struct {
	Events        []DateEvent         `json:"events"`
	FreeTimeSlots []freetime.FreeSlot `json:"free_time_slots,omitempty"`
}

// AddEventRequest asks the backend to write a confirmed date back to the
// user's Google Calendar.
type AddEventRequest struct {
	Summary     string `json:"summary" binding:"required"`
	StartTime   string `json:"start_time" binding:"required"`
	EndTime     string `json:"end_time" binding:"required"`
	Location    string `json:"location,omitempty"`
	Description string `json:"description,omitempty"`
}

// AddEventResponse reports the created calendar event.
type AddEventResponse struct {
	Success   bool   `json:"success"`
	EventID   string `json:"event_id"`
	EventLink string `json:"event_link"`
	Message   string `json:"message"`
}
