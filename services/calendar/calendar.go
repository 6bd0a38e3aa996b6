package calendar

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"duet/services/freetime"
	"duet/utils"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// busyCacheKey identifies a (user, window) fetch. The window bounds are part
// of the key so different horizons never alias.
func busyCacheKey(userID string, window freetime.QueryWindow) string {
	return fmt.Sprintf("cal:busy:%s:%d:%d", userID, window.Start.Unix(), window.End.Unix())
}

// BusyIntervals returns the user's busy time within the window, serving
// repeat queries from Redis. Cache trouble degrades to a provider fetch.
func (s *DefaultCalendarService) BusyIntervals(ctx context.Context, userID string, window freetime.QueryWindow) ([]freetime.BusyInterval, error) {
	key := busyCacheKey(userID, window)

	if s.Cache != nil {
		data, err := s.Cache.Get(ctx, key).Result()
		if err == nil {
			var cached []freetime.BusyInterval
			if jsonErr := json.Unmarshal([]byte(data), &cached); jsonErr == nil {
				return cached, nil
			}
			utils.GetLogger().Warn("BusyIntervals: dropping undecodable cache entry", zap.String("key", key))
		} else if err != redis.Nil {
			utils.GetLogger().Warn("BusyIntervals: cache read failed", zap.Error(err))
		}
	}

	events, err := s.Source.Events(ctx, userID, window)
	if err != nil {
		return nil, err
	}

	busy := make([]freetime.BusyInterval, 0, len(events))
	for _, ev := range events {
		busy = append(busy, freetime.BusyInterval{
			TimeInterval: freetime.TimeInterval{Start: ev.Start, End: ev.End},
			OwnerID:      userID,
		})
	}

	if s.Cache != nil {
		if data, err := json.Marshal(busy); err == nil {
			if err := s.Cache.Set(ctx, key, data, s.CacheTTL).Err(); err != nil {
				utils.GetLogger().Warn("BusyIntervals: cache write failed", zap.Error(err))
			}
		}
	}

	return busy, nil
}

// FindFreeSlots fetches both partners' busy intervals in parallel, then
// hands them to the pure engine. The engine is never invoked on partial
// data: if either fetch fails, the error is surfaced instead.
func (s *DefaultCalendarService) FindFreeSlots(ctx context.Context, user1ID, user2ID string, window freetime.QueryWindow, minDurationHours float64) ([]freetime.FreeSlot, error) {
	var busy1, busy2 []freetime.BusyInterval

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		busy1, err = s.BusyIntervals(gctx, user1ID, window)
		return err
	})
	g.Go(func() error {
		var err error
		busy2, err = s.BusyIntervals(gctx, user2ID, window)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return freetime.ComputeFreeSlots(busy1, busy2, window, minDurationHours)
}

// EventsContext renders a user's schedule as plain text the prompt builder
// can embed, including descriptions so the model can spot exams or travel.
func (s *DefaultCalendarService) EventsContext(ctx context.Context, userID string, window freetime.QueryWindow) (string, error) {
	events, err := s.Source.Events(ctx, userID, window)
	if err != nil {
		return "", err
	}
	if len(events) == 0 {
		return "No scheduled events in this time period.", nil
	}

	var sb strings.Builder
	sb.WriteString("Scheduled events:")
	for _, ev := range events {
		summary := ev.Summary
		if summary == "" {
			summary = "Busy"
		}
		sb.WriteString(fmt.Sprintf("\n- %s: %s", ev.Start.Format("Mon Jan 2 15:04"), summary))
		if ev.Description != "" {
			sb.WriteString(" (" + ev.Description + ")")
		}
	}
	return sb.String(), nil
}

// AddEvent writes an event to the user's calendar.
func (s *DefaultCalendarService) AddEvent(ctx context.Context, userID string, ev Event) (*CreatedEvent, error) {
	return s.Source.CreateEvent(ctx, userID, ev)
}
