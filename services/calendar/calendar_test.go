package calendar

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"duet/services/freetime"
)

type fakeEventSource struct {
	events map[string][]Event
	err    map[string]error
	calls  int32
}

func (f *fakeEventSource) Events(_ context.Context, userID string, _ freetime.QueryWindow) ([]Event, error) {
	atomic.AddInt32(&f.calls, 1)
	if err := f.err[userID]; err != nil {
		return nil, err
	}
	return f.events[userID], nil
}

func (f *fakeEventSource) CreateEvent(_ context.Context, _ string, _ Event) (*CreatedEvent, error) {
	return &CreatedEvent{ID: "ev-1", Link: "https://calendar.example/ev-1"}, nil
}

func day(hour, min int) time.Time {
	return time.Date(2025, time.March, 14, hour, min, 0, 0, time.UTC)
}

func TestFindFreeSlots(t *testing.T) {
	window := freetime.QueryWindow{Start: day(9, 0), End: day(17, 0)}

	t.Run("merges both partners' calendars", func(t *testing.T) {
		src := &fakeEventSource{events: map[string][]Event{
			"alice": {{Summary: "standup", Start: day(9, 0), End: day(10, 0)}},
			"bob":   {{Summary: "lecture", Start: day(10, 0), End: day(12, 0)}},
		}}
		svc := &DefaultCalendarService{Source: src}

		slots, err := svc.FindFreeSlots(context.Background(), "alice", "bob", window, 2.0)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(slots) != 1 || !slots[0].Start.Equal(day(12, 0)) || !slots[0].End.Equal(day(17, 0)) {
			t.Fatalf("unexpected slots: %+v", slots)
		}
		if slots[0].DurationHours != 5.0 {
			t.Fatalf("unexpected duration: %v", slots[0].DurationHours)
		}
	})

	t.Run("fails when either partner's fetch fails", func(t *testing.T) {
		src := &fakeEventSource{
			events: map[string][]Event{"alice": nil},
			err:    map[string]error{"bob": ErrNoCalendarAccess},
		}
		svc := &DefaultCalendarService{Source: src}

		_, err := svc.FindFreeSlots(context.Background(), "alice", "bob", window, 2.0)
		if !errors.Is(err, ErrNoCalendarAccess) {
			t.Fatalf("expected ErrNoCalendarAccess, got %v", err)
		}
	})

	t.Run("no mutual free time is an empty result, not an error", func(t *testing.T) {
		src := &fakeEventSource{events: map[string][]Event{
			"alice": {{Start: day(9, 0), End: day(13, 0)}},
			"bob":   {{Start: day(13, 0), End: day(17, 0)}},
		}}
		svc := &DefaultCalendarService{Source: src}

		slots, err := svc.FindFreeSlots(context.Background(), "alice", "bob", window, 2.0)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(slots) != 0 {
			t.Fatalf("expected no slots, got %+v", slots)
		}
	})
}

func TestEventsContext(t *testing.T) {
	window := freetime.QueryWindow{Start: day(0, 0), End: day(23, 59)}

	t.Run("empty calendar", func(t *testing.T) {
		svc := &DefaultCalendarService{Source: &fakeEventSource{}}
		got, err := svc.EventsContext(context.Background(), "alice", window)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != "No scheduled events in this time period." {
			t.Fatalf("unexpected context: %q", got)
		}
	})

	t.Run("includes summaries and descriptions", func(t *testing.T) {
		src := &fakeEventSource{events: map[string][]Event{
			"alice": {
				{Summary: "Final exam", Description: "organic chemistry", Start: day(9, 0), End: day(12, 0)},
				{Start: day(14, 0), End: day(15, 0)}, // untitled events render as Busy
			},
		}}
		svc := &DefaultCalendarService{Source: src}
		got, err := svc.EventsContext(context.Background(), "alice", window)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		for _, want := range []string{"Final exam", "organic chemistry", "Busy"} {
			if !strings.Contains(got, want) {
				t.Fatalf("context missing %q: %q", want, got)
			}
		}
	})
}

func TestBusyCacheKey(t *testing.T) {
	window := freetime.QueryWindow{Start: day(9, 0), End: day(17, 0)}
	other := freetime.QueryWindow{Start: day(9, 0), End: day(18, 0)}

	if busyCacheKey("alice", window) == busyCacheKey("bob", window) {
		t.Fatal("keys must differ per user")
	}
	if busyCacheKey("alice", window) == busyCacheKey("alice", other) {
		t.Fatal("keys must differ per window")
	}
}
