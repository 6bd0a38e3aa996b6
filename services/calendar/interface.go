package calendar

import (
	"context"
	"errors"
	"time"

	"duet/services/freetime"

	"github.com/go-redis/redis/v8"
)

// ErrNoCalendarAccess is returned when a user has never connected their
// Google Calendar. Handlers map it to 428 Precondition Required.
var ErrNoCalendarAccess = errors.New("calendar: user has not connected Google Calendar")

// Event is a calendar entry as the rest of the backend sees it.
type Event struct {
	Summary     string    `json:"summary"`
	Description string    `json:"description,omitempty"`
	Location    string    `json:"location,omitempty"`
	Start       time.Time `json:"start"`
	End         time.Time `json:"end"`
}

// CreatedEvent reports an event written to the provider.
type CreatedEvent struct {
	ID   string `json:"id"`
	Link string `json:"link"`
}

// EventSource supplies a user's calendar events for a window and writes
// confirmed dates back. Implementations own auth and provider quirks.
type EventSource interface {
	Events(ctx context.Context, userID string, window freetime.QueryWindow) ([]Event, error)
	CreateEvent(ctx context.Context, userID string, ev Event) (*CreatedEvent, error)
}

// CalendarService is the calendar-facing API used by handlers and the
// date generator.
type CalendarService interface {
	// BusyIntervals returns a user's busy time within the window.
	BusyIntervals(ctx context.Context, userID string, window freetime.QueryWindow) ([]freetime.BusyInterval, error)
	// FindFreeSlots fetches both partners' calendars concurrently and runs
	// the free-time engine. Either fetch failing fails the whole call; a
	// one-sided result would read as "partner has no events".
	FindFreeSlots(ctx context.Context, user1ID, user2ID string, window freetime.QueryWindow, minDurationHours float64) ([]freetime.FreeSlot, error)
	// EventsContext renders a user's schedule as prompt text for the LLM.
	EventsContext(ctx context.Context, userID string, window freetime.QueryWindow) (string, error)
	// AddEvent writes an event to the user's calendar.
	AddEvent(ctx context.Context, userID string, ev Event) (*CreatedEvent, error)
}

// DefaultCalendarService is the production implementation: a provider
// event source fronted by a short-lived Redis cache.
type DefaultCalendarService struct {
	Source   EventSource
	Cache    *redis.Client
	CacheTTL time.Duration
}
