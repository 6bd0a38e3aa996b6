package freetime

import (
	"errors"
	"testing"
	"time"
)

// hhmm builds a timestamp on a fixed day so cases read like calendars.
func hhmm(hour, min int) time.Time {
	return time.Date(2025, time.March, 14, hour, min, 0, 0, time.UTC)
}

func busy(owner string, start, end time.Time) BusyInterval {
	return BusyInterval{TimeInterval: TimeInterval{Start: start, End: end}, OwnerID: owner}
}

func slot(start, end time.Time) FreeSlot {
	return newFreeSlot(start, end)
}

func sameSlots(a, b []FreeSlot) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Start.Equal(b[i].Start) || !a[i].End.Equal(b[i].End) || a[i].DurationHours != b[i].DurationHours {
			return false
		}
	}
	return true
}

func TestComputeFreeSlots(t *testing.T) {
	window := QueryWindow{Start: hhmm(9, 0), End: hhmm(17, 0)}

	cases := []struct {
		name     string
		busyA    []BusyInterval
		busyB    []BusyInterval
		window   QueryWindow
		minHours float64
		want     []FreeSlot
	}{
		{
			name:     "adjacent busy across partners leaves one afternoon slot",
			busyA:    []BusyInterval{busy("a", hhmm(9, 0), hhmm(10, 0))},
			busyB:    []BusyInterval{busy("b", hhmm(10, 0), hhmm(12, 0))},
			window:   window,
			minHours: 2.0,
			want:     []FreeSlot{slot(hhmm(12, 0), hhmm(17, 0))},
		},
		{
			name: "short gaps are dropped by the threshold",
			busyA: []BusyInterval{
				busy("a", hhmm(9, 0), hhmm(10, 0)),
				busy("a", hhmm(14, 0), hhmm(15, 0)),
			},
			busyB: []BusyInterval{
				busy("b", hhmm(10, 0), hhmm(12, 0)),
				busy("b", hhmm(16, 0), hhmm(17, 0)),
			},
			window:   QueryWindow{Start: hhmm(9, 0), End: hhmm(18, 0)},
			minHours: 2.0,
			want:     []FreeSlot{slot(hhmm(12, 0), hhmm(14, 0))},
		},
		{
			name:     "fully open calendars return the whole window",
			window:   QueryWindow{Start: hhmm(9, 0), End: hhmm(12, 0)},
			minHours: 2.0,
			want:     []FreeSlot{slot(hhmm(9, 0), hhmm(12, 0))},
		},
		{
			name:     "whole window too short for the threshold",
			window:   QueryWindow{Start: hhmm(9, 0), End: hhmm(10, 30)},
			minHours: 2.0,
			want:     nil,
		},
		{
			name: "overlapping intervals on one calendar merge into one block",
			busyA: []BusyInterval{
				busy("a", hhmm(9, 0), hhmm(11, 0)),
				busy("a", hhmm(10, 0), hhmm(12, 0)),
			},
			window:   window,
			minHours: 2.0,
			want:     []FreeSlot{slot(hhmm(12, 0), hhmm(17, 0))},
		},
		{
			name:     "busy covering the entire window yields no slots",
			busyA:    []BusyInterval{busy("a", hhmm(8, 0), hhmm(18, 0))},
			window:   window,
			minHours: 0,
			want:     nil,
		},
		{
			name:     "intervals outside the window are ignored",
			busyA:    []BusyInterval{busy("a", hhmm(6, 0), hhmm(8, 0))},
			busyB:    []BusyInterval{busy("b", hhmm(18, 0), hhmm(20, 0))},
			window:   window,
			minHours: 2.0,
			want:     []FreeSlot{slot(hhmm(9, 0), hhmm(17, 0))},
		},
		{
			name:     "interval straddling the window start is clipped",
			busyA:    []BusyInterval{busy("a", hhmm(7, 0), hhmm(10, 0))},
			window:   window,
			minHours: 2.0,
			want:     []FreeSlot{slot(hhmm(10, 0), hhmm(17, 0))},
		},
		{
			name: "zero threshold keeps every positive gap",
			busyA: []BusyInterval{
				busy("a", hhmm(10, 0), hhmm(11, 0)),
				busy("a", hhmm(12, 0), hhmm(13, 0)),
			},
			window:   window,
			minHours: 0,
			want: []FreeSlot{
				slot(hhmm(9, 0), hhmm(10, 0)),
				slot(hhmm(11, 0), hhmm(12, 0)),
				slot(hhmm(13, 0), hhmm(17, 0)),
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ComputeFreeSlots(tc.busyA, tc.busyB, tc.window, tc.minHours)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !sameSlots(got, tc.want) {
				t.Fatalf("slots mismatch\n got: %+v\nwant: %+v", got, tc.want)
			}
		})
	}
}

func TestComputeFreeSlotsValidation(t *testing.T) {
	window := QueryWindow{Start: hhmm(9, 0), End: hhmm(17, 0)}

	t.Run("zero length busy interval", func(t *testing.T) {
		bad := []BusyInterval{busy("a", hhmm(10, 0), hhmm(10, 0))}
		_, err := ComputeFreeSlots(bad, nil, window, 2.0)
		if !errors.Is(err, ErrInvalidInterval) {
			t.Fatalf("expected ErrInvalidInterval, got %v", err)
		}
	})

	t.Run("inverted busy interval on second calendar", func(t *testing.T) {
		bad := []BusyInterval{busy("b", hhmm(12, 0), hhmm(10, 0))}
		_, err := ComputeFreeSlots(nil, bad, window, 2.0)
		if !errors.Is(err, ErrInvalidInterval) {
			t.Fatalf("expected ErrInvalidInterval, got %v", err)
		}
	})

	t.Run("inverted window", func(t *testing.T) {
		_, err := ComputeFreeSlots(nil, nil, QueryWindow{Start: hhmm(17, 0), End: hhmm(9, 0)}, 2.0)
		if !errors.Is(err, ErrInvalidWindow) {
			t.Fatalf("expected ErrInvalidWindow, got %v", err)
		}
	})

	t.Run("empty window", func(t *testing.T) {
		_, err := ComputeFreeSlots(nil, nil, QueryWindow{Start: hhmm(9, 0), End: hhmm(9, 0)}, 2.0)
		if !errors.Is(err, ErrInvalidWindow) {
			t.Fatalf("expected ErrInvalidWindow, got %v", err)
		}
	})

	t.Run("negative threshold", func(t *testing.T) {
		_, err := ComputeFreeSlots(nil, nil, window, -0.5)
		if !errors.Is(err, ErrInvalidThreshold) {
			t.Fatalf("expected ErrInvalidThreshold, got %v", err)
		}
	})

	t.Run("out of window intervals are still validated", func(t *testing.T) {
		bad := []BusyInterval{busy("a", hhmm(20, 0), hhmm(19, 0))}
		_, err := ComputeFreeSlots(bad, nil, window, 2.0)
		if !errors.Is(err, ErrInvalidInterval) {
			t.Fatalf("expected ErrInvalidInterval, got %v", err)
		}
	})
}

func TestComputeFreeSlotsProperties(t *testing.T) {
	window := QueryWindow{Start: hhmm(8, 0), End: hhmm(20, 0)}
	busyA := []BusyInterval{
		busy("a", hhmm(13, 0), hhmm(14, 30)),
		busy("a", hhmm(9, 0), hhmm(10, 0)),
		busy("a", hhmm(18, 0), hhmm(19, 0)),
	}
	busyB := []BusyInterval{
		busy("b", hhmm(9, 30), hhmm(11, 0)),
		busy("b", hhmm(16, 0), hhmm(16, 30)),
	}

	t.Run("deterministic regardless of input order", func(t *testing.T) {
		first, err := ComputeFreeSlots(busyA, busyB, window, 1.0)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		shuffledA := []BusyInterval{busyA[2], busyA[0], busyA[1]}
		shuffledB := []BusyInterval{busyB[1], busyB[0]}
		second, err := ComputeFreeSlots(shuffledA, shuffledB, window, 1.0)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		// Swapping which partner supplies which calendar must not matter either.
		third, err := ComputeFreeSlots(shuffledB, shuffledA, window, 1.0)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !sameSlots(first, second) || !sameSlots(first, third) {
			t.Fatalf("results differ across input orderings:\n%+v\n%+v\n%+v", first, second, third)
		}
	})

	t.Run("slots are disjoint, ordered, and inside the window", func(t *testing.T) {
		slots, err := ComputeFreeSlots(busyA, busyB, window, 0)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		for i, s := range slots {
			if !s.Start.Before(s.End) {
				t.Fatalf("slot %d has non-positive length: %+v", i, s)
			}
			if s.Start.Before(window.Start) || s.End.After(window.End) {
				t.Fatalf("slot %d escapes the window: %+v", i, s)
			}
			if i > 0 && slots[i-1].End.After(s.Start) {
				t.Fatalf("slot %d overlaps previous: %+v then %+v", i, slots[i-1], s)
			}
		}
	})

	t.Run("raising the threshold never adds slots", func(t *testing.T) {
		prev := -1
		for _, th := range []float64{0, 0.5, 1, 2, 4, 8, 24} {
			slots, err := ComputeFreeSlots(busyA, busyB, window, th)
			if err != nil {
				t.Fatalf("unexpected error at threshold %v: %v", th, err)
			}
			if prev >= 0 && len(slots) > prev {
				t.Fatalf("threshold %v returned %d slots, more than %d at a lower threshold", th, len(slots), prev)
			}
			prev = len(slots)
		}
	})

	t.Run("inputs are not mutated", func(t *testing.T) {
		orig := make([]BusyInterval, len(busyA))
		copy(orig, busyA)
		if _, err := ComputeFreeSlots(busyA, busyB, window, 1.0); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		for i := range orig {
			if !busyA[i].Start.Equal(orig[i].Start) || !busyA[i].End.Equal(orig[i].End) {
				t.Fatalf("busyA mutated at %d: %+v != %+v", i, busyA[i], orig[i])
			}
		}
	})

	t.Run("duration is computed at construction", func(t *testing.T) {
		slots, err := ComputeFreeSlots(nil, nil, QueryWindow{Start: hhmm(9, 0), End: hhmm(12, 0)}, 2.0)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(slots) != 1 || slots[0].DurationHours != 3.0 {
			t.Fatalf("expected a single 3h slot, got %+v", slots)
		}
	})
}
