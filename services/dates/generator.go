package dates

import (
	"context"
	"fmt"

	"duet/clients/claude"
	"duet/models"
	"duet/services/freetime"
	"duet/utils"

	"go.uber.org/zap"
)

// minSlotHours is the default minimum length of a usable date slot.
const minSlotHours = 2.0

// maxIdeas caps the concepts requested from the model per plan.
const maxIdeas = 3

// GeneratePlan is the legacy path: no calendars, just prompt + weather +
// one venue per idea.
func (s *DefaultDateGeneratorService) GeneratePlan(ctx context.Context, req models.DateGenerationRequest) (*models.DatePlanResponse, error) {
	forecast, err := s.Weather.GetForecast(ctx, req.Location, 7)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch weather: %w", err)
	}

	prompt := fmt.Sprintf("Based on this prompt: %q and the weather %q, give me date ideas.",
		req.Prompt, forecast.Summary)
	ideas, err := s.Claude.GenerateIdeas(ctx, prompt, maxIdeas)
	if err != nil {
		return nil, fmt.Errorf("failed to generate ideas: %w", err)
	}
	if len(ideas) == 0 {
		return nil, ErrNoIdeas
	}

	var events []models.DateEvent
	for _, idea := range ideas {
		query := idea.SearchQuery
		if query == "" {
			query = idea.Concept
		}
		place, err := s.Places.FindPlace(ctx, fmt.Sprintf("%s in %s", query, req.Location))
		if err != nil {
			utils.GetLogger().Warn("GeneratePlan: place lookup failed", zap.String("query", query), zap.Error(err))
			continue
		}
		if place == nil {
			continue
		}
		events = append(events, models.DateEvent{
			Name:   place.Name,
			Reason: fmt.Sprintf("A great place for %q.", idea.Concept),
		})
	}
	if len(events) == 0 {
		return nil, ErrNoVenues
	}

	return &models.DatePlanResponse{Events: events}, nil
}

// GenerateCouplePlan is the calendar-aware path. Mutual free time gates
// everything: without a slot there is nothing to plan into.
func (s *DefaultDateGeneratorService) GenerateCouplePlan(ctx context.Context, userID string, req models.CoupleDateGenerationRequest) (*models.DatePlanResponse, error) {
	couple, err := s.Couples.GetByUserID(userID)
	if err != nil {
		utils.GetLogger().Error("GenerateCouplePlan: couple lookup failed", zap.Error(err))
		return nil, fmt.Errorf("failed to generate date plan, please try again")
	}
	if couple == nil {
		return nil, ErrNotInCouple
	}

	window := freetime.QueryWindow{Start: req.StartDate, End: req.EndDate}

	freeSlots, err := s.Calendar.FindFreeSlots(ctx, couple.Partner1ID, couple.Partner2ID, window, minSlotHours)
	if err != nil {
		return nil, err
	}
	if len(freeSlots) == 0 {
		return nil, ErrNoMutualFreeTime
	}

	days := int(req.EndDate.Sub(req.StartDate).Hours()/24) + 1
	forecast, err := s.Weather.GetForecast(ctx, req.Location, days)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch weather: %w", err)
	}

	ctx1, err := s.Calendar.EventsContext(ctx, couple.Partner1ID, window)
	if err != nil {
		return nil, err
	}
	ctx2, err := s.Calendar.EventsContext(ctx, couple.Partner2ID, window)
	if err != nil {
		return nil, err
	}

	prompt := buildCouplePrompt(req.Prompt, req.Location, forecast.Summary, freeSlots, ctx1, ctx2)

	// Phase 1: concepts.
	ideas, err := s.Claude.GenerateIdeas(ctx, prompt, maxIdeas)
	if err != nil {
		return nil, fmt.Errorf("failed to generate ideas: %w", err)
	}
	if len(ideas) == 0 {
		return nil, ErrNoIdeas
	}

	// Phase 2: a real venue per concept, picked by the model.
	scheduleContext := fmt.Sprintf("Partner 1: %s\nPartner 2: %s", ctx1, ctx2)
	var events []models.DateEvent
	for _, idea := range ideas {
		query := idea.SearchQuery
		if query == "" {
			query = idea.Concept
		}
		place, err := s.Places.FindPlace(ctx, fmt.Sprintf("%s in %s", query, req.Location))
		if err != nil {
			utils.GetLogger().Warn("GenerateCouplePlan: place lookup failed", zap.String("query", query), zap.Error(err))
			continue
		}
		if place == nil {
			continue
		}

		venues := []claude.VenueOption{{Name: place.Name, Address: place.Address, Rating: place.Rating}}
		selection, err := s.Claude.PickBestVenue(ctx, idea.Concept, venues, forecast.Summary, scheduleContext)
		if err != nil {
			utils.GetLogger().Warn("GenerateCouplePlan: venue selection failed", zap.String("concept", idea.Concept), zap.Error(err))
			continue
		}
		if selection == nil {
			continue
		}

		name := selection.SelectedVenueName
		if name != place.Name {
			// The model occasionally invents a name; trust the lookup.
			name = place.Name
		}
		events = append(events, models.DateEvent{
			Name:          name,
			Reason:        selection.Explanation,
			SuggestedTime: selection.SuggestedTime,
		})
	}
	if len(events) == 0 {
		return nil, ErrNoVenues
	}

	// The schedule UI shows at most the ten earliest slots.
	if len(freeSlots) > 10 {
		freeSlots = freeSlots[:10]
	}
	return &models.DatePlanResponse{Events: events, FreeTimeSlots: freeSlots}, nil
}
