package calendar

import (
	"context"
	"fmt"
	"time"

	"duet/config"
	userRepo "duet/database/repository/user"
	"duet/services/freetime"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	gcal "google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
)

// GoogleEventSource reads and writes the user's primary Google Calendar
// using the refresh token stored at OAuth time.
type GoogleEventSource struct {
	Users userRepo.UserRepository
}

// NewGoogleEventSource returns an EventSource backed by Google Calendar.
func NewGoogleEventSource(users userRepo.UserRepository) *GoogleEventSource {
	return &GoogleEventSource{Users: users}
}

// service builds an authenticated Calendar API client for the user.
func (g *GoogleEventSource) service(ctx context.Context, userID string) (*gcal.Service, error) {
	usr, err := g.Users.GetByID(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load user %s: %w", userID, err)
	}
	if usr == nil || usr.GoogleRefreshToken == "" {
		return nil, ErrNoCalendarAccess
	}

	cfg := &oauth2.Config{
		ClientID:     config.AppConfig.GoogleClientID,
		ClientSecret: config.AppConfig.GoogleClientSecret,
		Scopes:       []string{gcal.CalendarReadonlyScope, gcal.CalendarScope},
		Endpoint:     google.Endpoint,
	}
	source := cfg.TokenSource(ctx, &oauth2.Token{RefreshToken: usr.GoogleRefreshToken})

	svc, err := gcal.NewService(ctx, option.WithTokenSource(source))
	if err != nil {
		return nil, fmt.Errorf("failed to build calendar service: %w", err)
	}
	return svc, nil
}

// parseEventTime handles both timed events (DateTime) and all-day events
// (Date, midnight-to-midnight in the calendar's zone).
func parseEventTime(t *gcal.EventDateTime) (time.Time, error) {
	if t == nil {
		return time.Time{}, fmt.Errorf("event has no time")
	}
	if t.DateTime != "" {
		return time.Parse(time.RFC3339, t.DateTime)
	}
	return time.Parse("2006-01-02", t.Date)
}

// Events lists the user's primary-calendar events inside the window,
// recurring events expanded and ordered by start.
func (g *GoogleEventSource) Events(ctx context.Context, userID string, window freetime.QueryWindow) ([]Event, error) {
	svc, err := g.service(ctx, userID)
	if err != nil {
		return nil, err
	}

	result, err := svc.Events.List("primary").
		TimeMin(window.Start.Format(time.RFC3339)).
		TimeMax(window.End.Format(time.RFC3339)).
		SingleEvents(true).
		OrderBy("startTime").
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("failed to list calendar events for user %s: %w", userID, err)
	}

	events := make([]Event, 0, len(result.Items))
	for _, item := range result.Items {
		start, err := parseEventTime(item.Start)
		if err != nil {
			continue // declined or malformed entries carry no usable time
		}
		end, err := parseEventTime(item.End)
		if err != nil {
			continue
		}
		events = append(events, Event{
			Summary:     item.Summary,
			Description: item.Description,
			Location:    item.Location,
			Start:       start,
			End:         end,
		})
	}
	return events, nil
}

// CreateEvent writes an event to the user's primary calendar.
func (g *GoogleEventSource) CreateEvent(ctx context.Context, userID string, ev Event) (*CreatedEvent, error) {
	svc, err := g.service(ctx, userID)
	if err != nil {
		return nil, err
	}

	created, err := svc.Events.Insert("primary", &gcal.Event{
		Summary:     ev.Summary,
		Description: ev.Description,
		Location:    ev.Location,
		Start:       &gcal.EventDateTime{DateTime: ev.Start.Format(time.RFC3339)},
		End:         &gcal.EventDateTime{DateTime: ev.End.Format(time.RFC3339)},
	}).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to create calendar event for user %s: %w", userID, err)
	}

	return &CreatedEvent{ID: created.Id, Link: created.HtmlLink}, nil
}
