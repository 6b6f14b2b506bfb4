package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"bms_proxy/internal/models"
	"bms_proxy/internal/repository"
)

type EventLogService struct {
	eventRepo repository.EventRepo
}

func NewEventLogService(eventRepo repository.EventRepo) *EventLogService {
	return &EventLogService{eventRepo: eventRepo}
}

// ErrInvalidTimeRange is returned when a filter's From is after its To.
var ErrInvalidTimeRange = errors.New("invalid time range: from must not be after to")

func normalizeEventType(s string) string {
	return strings.TrimSpace(strings.ToUpper(s))
}

// normalizeFilter converts bounds to UTC and rejects inverted ranges.
func normalizeFilter(f LogFilter) (time.Time, time.Time, string, error) {
	from := toUTC(f.From)
	to := toUTC(f.To)

	if !from.IsZero() && !to.IsZero() && from.After(to) {
		return time.Time{}, time.Time{}, "", ErrInvalidTimeRange
	}

	eventType := normalizeEventType(f.Type)
	return from, to, eventType, nil
}

// List returns audit events oldest first.
func (s *EventLogService) List(ctx context.Context, f LogFilter) ([]models.CommandEvent, error) {
	from, to, typ, err := normalizeFilter(f)
	if err != nil {
		return nil, err
	}
	return s.eventRepo.List(ctx, from, to, typ)
}
