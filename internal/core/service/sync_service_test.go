package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/habitcoach/coaching-system/internal/core/domain"
	"github.com/habitcoach/coaching-system/internal/core/ports"
)

func TestSyncDataSince(t *testing.T) {
	records := newSeededStore(t)
	habits := NewHabitService(records, records, zerolog.Nop())
	svc := NewSyncService(records, records, zerolog.Nop())
	ctx := context.Background()

	if _, err := habits.Save(ctx, ports.SaveHabitsInput{
		ActorID:      "client-1",
		TargetUserID: "client-1",
		Habits:       domain.DailyHabits{Date: "2026-03-15"},
	}); err != nil {
		t.Fatalf("Save: %v", err)
	}

	// empty since returns the full data set
	full, err := svc.DataSince(ctx, "client-1", "client-1", "")
	if err != nil {
		t.Fatalf("DataSince: %v", err)
	}
	if len(full.Habits) != 1 || full.Profile == nil {
		t.Fatalf("unexpected full delta: habits=%d profile=%v", len(full.Habits), full.Profile)
	}

	// a sync from the returned checkpoint is empty
	later, err := svc.DataSince(ctx, "client-1", "client-1", full.SyncedAt.Format(time.RFC3339Nano))
	if err != nil {
		t.Fatalf("DataSince: %v", err)
	}
	if len(later.Habits) != 0 || len(later.Changes) != 0 {
		t.Fatalf("expected empty delta, got habits=%d changes=%d", len(later.Habits), len(later.Changes))
	}
}

func TestSyncDataSince_BadTimestamp(t *testing.T) {
	records := newSeededStore(t)
	svc := NewSyncService(records, records, zerolog.Nop())

	_, err := svc.DataSince(context.Background(), "client-1", "client-1", "yesterday")
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestSyncDataSince_AccessControl(t *testing.T) {
	records := newSeededStore(t)
	svc := NewSyncService(records, records, zerolog.Nop())
	ctx := context.Background()

	stranger, err := records.CreateUser(ctx, ports.NewUserInput{
		Name: "Stranger", PhoneNumber: "+44", Role: domain.RoleClient, PasswordHash: "h",
	})
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}

	if _, err := svc.DataSince(ctx, stranger.ID, "client-1", ""); !errors.Is(err, domain.ErrAccessDenied) {
		t.Fatalf("expected ErrAccessDenied, got %v", err)
	}
}
