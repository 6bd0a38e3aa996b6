package dates

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"duet/clients/claude"
	"duet/clients/places"
	"duet/clients/weather"
	"duet/models"
	"duet/services/calendar"
	"duet/services/freetime"
)

type fakeCoupleRepo struct {
	couple *models.Couple
}

func (f *fakeCoupleRepo) GetByUserID(userID string) (*models.Couple, error) {
	if f.couple != nil && (f.couple.Partner1ID == userID || f.couple.Partner2ID == userID) {
		return f.couple, nil
	}
	return nil, nil
}

func (f *fakeCoupleRepo) Create(*models.Couple) error { return nil }
func (f *fakeCoupleRepo) Delete(string) error         { return nil }

type fakeCalendarService struct {
	slots   []freetime.FreeSlot
	slotErr error
	context string
}

func (f *fakeCalendarService) BusyIntervals(context.Context, string, freetime.QueryWindow) ([]freetime.BusyInterval, error) {
	return nil, nil
}

func (f *fakeCalendarService) FindFreeSlots(context.Context, string, string, freetime.QueryWindow, float64) ([]freetime.FreeSlot, error) {
	return f.slots, f.slotErr
}

func (f *fakeCalendarService) EventsContext(context.Context, string, freetime.QueryWindow) (string, error) {
	return f.context, nil
}

func (f *fakeCalendarService) AddEvent(context.Context, string, calendar.Event) (*calendar.CreatedEvent, error) {
	return nil, nil
}

func newGenerator(cal *fakeCalendarService, couple *models.Couple) *DefaultDateGeneratorService {
	return &DefaultDateGeneratorService{
		Claude:   claude.NewMockClient(),
		Places:   places.NewMockClient(),
		Weather:  weather.NewMockClient(),
		Calendar: cal,
		Couples:  &fakeCoupleRepo{couple: couple},
	}
}

func window() (time.Time, time.Time) {
	start := time.Date(2025, time.March, 14, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 0, 7)
}

func TestGenerateCouplePlan(t *testing.T) {
	start, end := window()
	req := models.CoupleDateGenerationRequest{
		Prompt:    "something relaxing",
		Location:  "Copenhagen",
		StartDate: start,
		EndDate:   end,
	}
	couple := &models.Couple{ID: "c1", Partner1ID: "alice", Partner2ID: "bob"}
	slot := freetime.FreeSlot{Start: start.Add(10 * time.Hour), End: start.Add(14 * time.Hour), DurationHours: 4}

	t.Run("produces events and echoes free slots", func(t *testing.T) {
		cal := &fakeCalendarService{slots: []freetime.FreeSlot{slot}, context: "Scheduled events:\n- exam"}
		svc := newGenerator(cal, couple)

		plan, err := svc.GenerateCouplePlan(context.Background(), "alice", req)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(plan.Events) == 0 {
			t.Fatal("expected suggested events")
		}
		for _, ev := range plan.Events {
			if ev.Name == "" || ev.Reason == "" {
				t.Fatalf("incomplete event: %+v", ev)
			}
		}
		if len(plan.FreeTimeSlots) != 1 || plan.FreeTimeSlots[0] != slot {
			t.Fatalf("free slots not echoed: %+v", plan.FreeTimeSlots)
		}
	})

	t.Run("uncoupled user", func(t *testing.T) {
		svc := newGenerator(&fakeCalendarService{slots: []freetime.FreeSlot{slot}}, nil)
		_, err := svc.GenerateCouplePlan(context.Background(), "alice", req)
		if !errors.Is(err, ErrNotInCouple) {
			t.Fatalf("expected ErrNotInCouple, got %v", err)
		}
	})

	t.Run("no mutual free time", func(t *testing.T) {
		svc := newGenerator(&fakeCalendarService{slots: nil}, couple)
		_, err := svc.GenerateCouplePlan(context.Background(), "alice", req)
		if !errors.Is(err, ErrNoMutualFreeTime) {
			t.Fatalf("expected ErrNoMutualFreeTime, got %v", err)
		}
	})

	t.Run("calendar fetch failures surface unchanged", func(t *testing.T) {
		cal := &fakeCalendarService{slotErr: calendar.ErrNoCalendarAccess}
		svc := newGenerator(cal, couple)
		_, err := svc.GenerateCouplePlan(context.Background(), "alice", req)
		if !errors.Is(err, calendar.ErrNoCalendarAccess) {
			t.Fatalf("expected ErrNoCalendarAccess, got %v", err)
		}
	})

	t.Run("caps echoed slots at ten", func(t *testing.T) {
		many := make([]freetime.FreeSlot, 14)
		for i := range many {
			s := start.Add(time.Duration(i*5) * time.Hour)
			many[i] = freetime.FreeSlot{Start: s, End: s.Add(3 * time.Hour), DurationHours: 3}
		}
		svc := newGenerator(&fakeCalendarService{slots: many}, couple)
		plan, err := svc.GenerateCouplePlan(context.Background(), "alice", req)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(plan.FreeTimeSlots) != 10 {
			t.Fatalf("expected 10 slots, got %d", len(plan.FreeTimeSlots))
		}
	})
}

func TestGeneratePlanLegacy(t *testing.T) {
	svc := newGenerator(&fakeCalendarService{}, nil)
	plan, err := svc.GeneratePlan(context.Background(), models.DateGenerationRequest{
		Prompt:    "anime night",
		TimeFrame: "this weekend",
		Location:  "Tokyo",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(plan.Events) == 0 {
		t.Fatal("expected events")
	}
	if plan.FreeTimeSlots != nil {
		t.Fatalf("legacy plan must not include free slots: %+v", plan.FreeTimeSlots)
	}
}

func TestFormatFreeSlots(t *testing.T) {
	start := time.Date(2025, time.March, 14, 18, 30, 0, 0, time.UTC)

	if got := formatFreeSlots(nil); got != "No free time available" {
		t.Fatalf("unexpected empty rendering: %q", got)
	}

	slots := []freetime.FreeSlot{{Start: start, End: start.Add(2 * time.Hour), DurationHours: 2}}
	got := formatFreeSlots(slots)
	if !strings.Contains(got, "Friday, March 14 at 6:30 PM") || !strings.Contains(got, "2.0 hours") {
		t.Fatalf("unexpected rendering: %q", got)
	}

	many := make([]freetime.FreeSlot, 8)
	for i := range many {
		s := start.Add(time.Duration(i) * 24 * time.Hour)
		many[i] = freetime.FreeSlot{Start: s, End: s.Add(2 * time.Hour), DurationHours: 2}
	}
	if lines := strings.Split(formatFreeSlots(many), "\n"); len(lines) != 5 {
		t.Fatalf("expected 5 lines, got %d", len(lines))
	}
}
