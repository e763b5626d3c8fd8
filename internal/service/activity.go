package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"pomo/internal/apperr"
	"pomo/internal/models"
	"pomo/internal/repository"
)

type ActivityService struct {
	activityRepo repository.Activity
}

func NewActivityService(activityRepo repository.Activity) *ActivityService {
	return &ActivityService{activityRepo: activityRepo}
}

var _ Activity = (*ActivityService)(nil)

var errInvalidTimeRange = errors.New("invalid time range: From must be <= To")

// Record appends an event best-effort; the activity log is advisory
// and never fails the operation that produced the event.
func (s *ActivityService) Record(ctx context.Context, typ, message string, meta any) {
	_ = s.activityRepo.Append(ctx, models.ActivityEvent{
		Type:     typ,
		Message:  message,
		Metadata: meta,
	})
}

// normalizeToUTC returns t in UTC, preserving zero time values.
func normalizeToUTC(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	return t.UTC()
}

// normalizeEventType trims spaces and uppercases the event type filter.
func normalizeEventType(s string) string {
	return strings.TrimSpace(strings.ToUpper(s))
}

// normalizeAndValidateFilter prepares query parameters and validates the time range.
func normalizeAndValidateFilter(f ActivityFilter) (time.Time, time.Time, string, error) {
	from := normalizeToUTC(f.From)
	to := normalizeToUTC(f.To)

	if !from.IsZero() && !to.IsZero() && from.After(to) {
		return time.Time{}, time.Time{}, "", errInvalidTimeRange
	}

	eventType := normalizeEventType(f.Type)
	return from, to, eventType, nil
}

func (s *ActivityService) List(ctx context.Context, f ActivityFilter) ([]models.ActivityEvent, error) {
	from, to, typ, err := normalizeAndValidateFilter(f)
	if err != nil {
		return nil, apperr.Validation(err.Error())
	}
	events, err := s.activityRepo.List(ctx, from, to, typ)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return events, nil
}
