package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/habitcoach/coaching-system/internal/core/domain"
	"github.com/habitcoach/coaching-system/internal/core/ports"
	"github.com/habitcoach/coaching-system/internal/infrastructure/db/memory"
	"github.com/habitcoach/coaching-system/internal/infrastructure/store"
)

// newSeededStore builds a record store over an in-memory backing,
// preloaded with the default admin-1/client-1 fixtures.
func newSeededStore(t *testing.T) *store.Store {
	t.Helper()
	return store.New(memory.New(), zerolog.Nop())
}

func TestHabitSave_AccessControl(t *testing.T) {
	records := newSeededStore(t)
	svc := NewHabitService(records, records, zerolog.Nop())
	ctx := context.Background()

	stranger, err := records.CreateUser(ctx, ports.NewUserInput{
		Name: "Stranger", PhoneNumber: "+42", Role: domain.RoleClient, PasswordHash: "h",
	})
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}

	// a client cannot write another client's entry
	_, err = svc.Save(ctx, ports.SaveHabitsInput{
		ActorID:      stranger.ID,
		TargetUserID: "client-1",
		Habits:       domain.DailyHabits{Date: "2026-03-15"},
	})
	if !errors.Is(err, domain.ErrAccessDenied) {
		t.Fatalf("expected ErrAccessDenied, got %v", err)
	}

	// an admin cannot write for a client outside its roster
	_, err = svc.Save(ctx, ports.SaveHabitsInput{
		ActorID:      "admin-1",
		TargetUserID: stranger.ID,
		Habits:       domain.DailyHabits{Date: "2026-03-15"},
	})
	if !errors.Is(err, domain.ErrAccessDenied) {
		t.Fatalf("expected ErrAccessDenied for off-roster client, got %v", err)
	}

	// an admin can write for a roster client, and the entry is marked
	saved, err := svc.Save(ctx, ports.SaveHabitsInput{
		ActorID:      "admin-1",
		TargetUserID: "client-1",
		Habits:       domain.DailyHabits{Date: "2026-03-15", Workout: domain.AnswerYes},
	})
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if saved.UserID != "client-1" || saved.LastEditedBy != "admin-1" {
		t.Fatalf("unexpected entry: %+v", saved)
	}
}

func TestHabitSave_TargetOverridesBodyUserID(t *testing.T) {
	records := newSeededStore(t)
	svc := NewHabitService(records, records, zerolog.Nop())

	// the entry's owner is always the access-checked target, even when
	// the payload claims someone else
	saved, err := svc.Save(context.Background(), ports.SaveHabitsInput{
		ActorID:      "client-1",
		TargetUserID: "client-1",
		Habits:       domain.DailyHabits{UserID: "someone-else", Date: "2026-03-15"},
	})
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if saved.UserID != "client-1" {
		t.Fatalf("owner not forced to target: %q", saved.UserID)
	}
}

func TestHabitList_AccessControl(t *testing.T) {
	records := newSeededStore(t)
	svc := NewHabitService(records, records, zerolog.Nop())
	ctx := context.Background()

	if _, err := svc.Save(ctx, ports.SaveHabitsInput{
		ActorID:      "client-1",
		TargetUserID: "client-1",
		Habits:       domain.DailyHabits{Date: "2026-03-15"},
	}); err != nil {
		t.Fatalf("Save: %v", err)
	}

	page, err := svc.List(ctx, "admin-1", "client-1", 1, 10)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if page.Total != 1 {
		t.Fatalf("expected 1 entry, got %d", page.Total)
	}

	if _, err := svc.List(ctx, "client-1", "admin-1", 1, 10); !errors.Is(err, domain.ErrAccessDenied) {
		t.Fatalf("expected ErrAccessDenied, got %v", err)
	}
}

func TestHabitByDate_NilWhenAbsent(t *testing.T) {
	records := newSeededStore(t)
	svc := NewHabitService(records, records, zerolog.Nop())

	entry, err := svc.ByDate(context.Background(), "client-1", "client-1", "2026-01-01")
	if err != nil {
		t.Fatalf("ByDate: %v", err)
	}
	if entry != nil {
		t.Fatalf("expected nil, got %+v", entry)
	}
}
