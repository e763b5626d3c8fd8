package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"pomo/internal/apperr"
	"pomo/internal/models"
)

// fakeActivityRepo captures appended events and echoes the List filter.
type fakeActivityRepo struct {
	appended  []models.ActivityEvent
	appendErr error

	lastFrom time.Time
	lastTo   time.Time
	lastType string
}

func (f *fakeActivityRepo) Append(_ context.Context, e models.ActivityEvent) error {
	if f.appendErr != nil {
		return f.appendErr
	}
	f.appended = append(f.appended, e)
	return nil
}

func (f *fakeActivityRepo) List(_ context.Context, from, to time.Time, typ string) ([]models.ActivityEvent, error) {
	f.lastFrom, f.lastTo, f.lastType = from, to, typ
	return nil, nil
}

func TestActivityService_Record_BestEffort(t *testing.T) {
	repo := &fakeActivityRepo{appendErr: errors.New("disk full")}
	svc := NewActivityService(repo)

	// Record must swallow the fault; the caller's operation already
	// succeeded by the time the event is written.
	svc.Record(context.Background(), models.EventLogin, "user logged in", nil)

	repo.appendErr = nil
	svc.Record(context.Background(), models.EventLogin, "user logged in", map[string]any{"user_id": int64(1)})
	if len(repo.appended) != 1 {
		t.Fatalf("expected 1 appended event, got %d", len(repo.appended))
	}
	if repo.appended[0].Type != models.EventLogin {
		t.Fatalf("unexpected event type %q", repo.appended[0].Type)
	}
}

func TestActivityService_List_FilterNormalization(t *testing.T) {
	loc := time.FixedZone("UTC+5", 5*3600)
	from := time.Date(2026, 1, 2, 10, 0, 0, 0, loc)
	to := time.Date(2026, 1, 2, 12, 0, 0, 0, loc)

	repo := &fakeActivityRepo{}
	svc := NewActivityService(repo)

	_, err := svc.List(context.Background(), ActivityFilter{From: from, To: to, Type: "  login "})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if repo.lastFrom.Location() != time.UTC || repo.lastTo.Location() != time.UTC {
		t.Fatalf("bounds not normalized to UTC: %v / %v", repo.lastFrom, repo.lastTo)
	}
	if !repo.lastFrom.Equal(from) || !repo.lastTo.Equal(to) {
		t.Fatalf("bounds changed instant: %v / %v", repo.lastFrom, repo.lastTo)
	}
	if repo.lastType != "LOGIN" {
		t.Fatalf("expected uppercased trimmed type, got %q", repo.lastType)
	}
}

func TestActivityService_List_InvalidRange(t *testing.T) {
	svc := NewActivityService(&fakeActivityRepo{})

	later := time.Now()
	earlier := later.Add(-time.Hour)
	_, err := svc.List(context.Background(), ActivityFilter{From: later, To: earlier})
	if !apperr.IsKind(err, apperr.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestActivityService_List_ZeroBoundsPass(t *testing.T) {
	repo := &fakeActivityRepo{}
	svc := NewActivityService(repo)

	if _, err := svc.List(context.Background(), ActivityFilter{}); err != nil {
		t.Fatalf("unbounded list failed: %v", err)
	}
	if !repo.lastFrom.IsZero() || !repo.lastTo.IsZero() {
		t.Fatalf("zero bounds must stay zero: %v / %v", repo.lastFrom, repo.lastTo)
	}
}
