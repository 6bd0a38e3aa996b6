package claude

import "context"

// MockClient returns canned suggestions so development and tests never hit
// the paid API.
type MockClient struct{}

func NewMockClient() *MockClient {
	return &MockClient{}
}

func (m *MockClient) GenerateIdeas(_ context.Context, _ string, maxIdeas int) ([]DateIdea, error) {
	ideas := []DateIdea{
		{Concept: "Cozy Italian dinner", SearchQuery: "italian restaurant"},
		{Concept: "Indie movie night", SearchQuery: "independent cinema"},
		{Concept: "Sunset park walk", SearchQuery: "scenic park"},
	}
	if maxIdeas < len(ideas) {
		ideas = ideas[:maxIdeas]
	}
	return ideas, nil
}

func (m *MockClient) PickBestVenue(_ context.Context, concept string, venues []VenueOption, _, _ string) (*VenueSelection, error) {
	if len(venues) == 0 {
		return nil, nil
	}
	return &VenueSelection{
		SelectedVenueName: venues[0].Name,
		Explanation:       "A great fit for \"" + concept + "\".",
		SuggestedTime:     "Saturday evening",
	}, nil
}
