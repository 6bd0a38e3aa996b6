package dates

import (
	"context"
	"errors"

	"duet/clients/claude"
	"duet/clients/places"
	"duet/clients/weather"
	coupleRepo "duet/database/repository/couple"
	"duet/models"
	"duet/services/calendar"
)

// Outcomes the handler maps to specific responses. None of these are
// transient; retrying without changing the request cannot help.
var (
	ErrNotInCouple      = errors.New("dates: you must be in a couple to use this feature")
	ErrNoMutualFreeTime = errors.New("dates: no mutual free time found in the specified time frame")
	ErrNoIdeas          = errors.New("dates: no date ideas were generated")
	ErrNoVenues         = errors.New("dates: no suitable venues found for any date ideas")
)

// DateGeneratorService turns a couple's calendars, the weather, and a user
// prompt into concrete date suggestions.
type DateGeneratorService interface {
	// GeneratePlan is the legacy, calendar-free generation path.
	GeneratePlan(ctx context.Context, req models.DateGenerationRequest) (*models.DatePlanResponse, error)
	// GenerateCouplePlan is the calendar-aware path: mutual free slots gate
	// the whole pipeline.
	GenerateCouplePlan(ctx context.Context, userID string, req models.CoupleDateGenerationRequest) (*models.DatePlanResponse, error)
}

// DefaultDateGeneratorService is the production implementation.
type DefaultDateGeneratorService struct {
	Claude   claude.Client
	Places   places.Client
	Weather  weather.Client
	Calendar calendar.CalendarService
	Couples  coupleRepo.CoupleRepository
}
