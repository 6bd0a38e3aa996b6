// Package freetime computes mutual free time for a couple from both
// partners' busy calendar intervals. It is a pure computation: same
// inputs always produce the same slots, and nothing here touches the
// network, the database, or the cache.
package freetime

import (
	"fmt"
	"sort"
	"time"
)

// TimeInterval is a half-open time range [Start, End) in UTC.
type TimeInterval struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Duration returns End - Start.
func (iv TimeInterval) Duration() time.Duration {
	return iv.End.Sub(iv.Start)
}

// BusyInterval is a committed time range on one partner's calendar.
// OwnerID records whose calendar it came from; the engine itself only
// cares about total coverage.
type BusyInterval struct {
	TimeInterval
	OwnerID string `json:"owner_id,omitempty"`
}

// FreeSlot is a gap in the merged busy timeline. DurationHours is
// computed once at construction so every consumer sees the same value.
type FreeSlot struct {
	Start         time.Time `json:"start"`
	End           time.Time `json:"end"`
	DurationHours float64   `json:"duration_hours"`
}

// QueryWindow is the caller-chosen planning horizon.
type QueryWindow struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

func newFreeSlot(start, end time.Time) FreeSlot {
	return FreeSlot{
		Start:         start,
		End:           end,
		DurationHours: end.Sub(start).Hours(),
	}
}

// ComputeFreeSlots returns the ordered, disjoint gaps within window during
// which neither partner has a busy interval, keeping only gaps of at least
// minDurationHours. Busy inputs may be unsorted, overlapping, or partially
// outside the window. An empty result means no mutual free time and is not
// an error.
func ComputeFreeSlots(busyA, busyB []BusyInterval, window QueryWindow, minDurationHours float64) ([]FreeSlot, error) {
	if !window.Start.Before(window.End) {
		return nil, fmt.Errorf("%w: window [%s, %s)", ErrInvalidWindow,
			window.Start.Format(time.RFC3339), window.End.Format(time.RFC3339))
	}
	if minDurationHours < 0 {
		return nil, fmt.Errorf("%w: %v hours", ErrInvalidThreshold, minDurationHours)
	}

	// Validate every interval before merging. Silently dropping a malformed
	// interval could mask a bug in the calendar-fetch layer upstream.
	for _, set := range [2][]BusyInterval{busyA, busyB} {
		for _, b := range set {
			if !b.Start.Before(b.End) {
				return nil, fmt.Errorf("%w: [%s, %s) owner=%q", ErrInvalidInterval,
					b.Start.Format(time.RFC3339), b.End.Format(time.RFC3339), b.OwnerID)
			}
		}
	}

	// Clip to the window and pool both calendars. Mutual free time needs
	// neither partner occupied, so ownership is irrelevant past this point.
	busy := make([]TimeInterval, 0, len(busyA)+len(busyB))
	for _, set := range [2][]BusyInterval{busyA, busyB} {
		for _, b := range set {
			iv, ok := clip(b.TimeInterval, window)
			if ok {
				busy = append(busy, iv)
			}
		}
	}

	sort.Slice(busy, func(i, j int) bool {
		if busy[i].Start.Equal(busy[j].Start) {
			return busy[i].End.Before(busy[j].End)
		}
		return busy[i].Start.Before(busy[j].Start)
	})

	merged := mergeIntervals(busy)

	// Walk the merged blocks, emitting the gap before each block and the
	// tail gap after the last one.
	var slots []FreeSlot
	cursor := window.Start
	for _, block := range merged {
		if block.Start.After(cursor) {
			if slot := newFreeSlot(cursor, block.Start); slot.DurationHours >= minDurationHours {
				slots = append(slots, slot)
			}
		}
		if block.End.After(cursor) {
			cursor = block.End
		}
	}
	if cursor.Before(window.End) {
		if slot := newFreeSlot(cursor, window.End); slot.DurationHours >= minDurationHours {
			slots = append(slots, slot)
		}
	}

	return slots, nil
}

// clip restricts iv to the window. The second return is false when the
// interval does not intersect the window at all.
func clip(iv TimeInterval, window QueryWindow) (TimeInterval, bool) {
	if !iv.End.After(window.Start) || !iv.Start.Before(window.End) {
		return TimeInterval{}, false
	}
	if iv.Start.Before(window.Start) {
		iv.Start = window.Start
	}
	if iv.End.After(window.End) {
		iv.End = window.End
	}
	return iv, true
}

// mergeIntervals collapses a start-sorted slice into a minimal set of
// disjoint blocks, joining intervals that overlap or touch.
func mergeIntervals(sorted []TimeInterval) []TimeInterval {
	if len(sorted) == 0 {
		return nil
	}
	merged := make([]TimeInterval, 0, len(sorted))
	current := sorted[0]
	for _, iv := range sorted[1:] {
		if !iv.Start.After(current.End) {
			if iv.End.After(current.End) {
				current.End = iv.End
			}
			continue
		}
		merged = append(merged, current)
		current = iv
	}
	return append(merged, current)
}
