package dates

import (
	"fmt"
	"strings"

	"duet/services/freetime"
)

// formatFreeSlots renders at most the five earliest slots the way the model
// sees them.
func formatFreeSlots(slots []freetime.FreeSlot) string {
	if len(slots) == 0 {
		return "No free time available"
	}
	if len(slots) > 5 {
		slots = slots[:5]
	}

	var lines []string
	for i, slot := range slots {
		lines = append(lines, fmt.Sprintf("%d. %s (%.1f hours available)",
			i+1, slot.Start.Format("Monday, January 2 at 3:04 PM"), slot.DurationHours))
	}
	return strings.Join(lines, "\n")
}

// buildCouplePrompt assembles the phase-1 ideas prompt from everything the
// pipeline knows about the couple and their window.
func buildCouplePrompt(userPrompt, location, forecast string, slots []freetime.FreeSlot, context1, context2 string) string {
	return fmt.Sprintf(`Generate date ideas based on the following information:

User's Request: %s
Location: %s
Weather Forecast: %s

Available Free Time Slots:
%s

Partner 1's Schedule Context:
%s

Partner 2's Schedule Context:
%s

Please suggest %d diverse date idea concepts that:
1. Match the user's request
2. Fit within the available free time slots
3. Are appropriate for the weather
4. Consider their schedules (e.g., suggest relaxing activities if they have exams)`,
		userPrompt, location, forecast, formatFreeSlots(slots), context1, context2, maxIdeas)
}
