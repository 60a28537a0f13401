package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/habitcoach/coaching-system/internal/api/middleware"
	"github.com/habitcoach/coaching-system/internal/core/domain"
	"github.com/habitcoach/coaching-system/internal/core/ports"
)

type stubHabitService struct {
	saveFn   func(ctx context.Context, in ports.SaveHabitsInput) (*domain.DailyHabits, error)
	listFn   func(ctx context.Context, actorID, userID string, page, limit int) (*ports.HabitPage, error)
	byDateFn func(ctx context.Context, actorID, userID, date string) (*domain.DailyHabits, error)
}

func (s *stubHabitService) Save(ctx context.Context, in ports.SaveHabitsInput) (*domain.DailyHabits, error) {
	return s.saveFn(ctx, in)
}

func (s *stubHabitService) List(ctx context.Context, actorID, userID string, page, limit int) (*ports.HabitPage, error) {
	return s.listFn(ctx, actorID, userID, page, limit)
}

func (s *stubHabitService) ByDate(ctx context.Context, actorID, userID, date string) (*domain.DailyHabits, error) {
	return s.byDateFn(ctx, actorID, userID, date)
}

func authenticate(c echo.Context, userID, role string) {
	c.Set(middleware.ContextUserID, userID)
	c.Set(middleware.ContextRole, role)
}

func TestHabitHandler_Save_DefaultsToActor(t *testing.T) {
	stub := &stubHabitService{
		saveFn: func(_ context.Context, in ports.SaveHabitsInput) (*domain.DailyHabits, error) {
			if in.ActorID != "client-1" || in.TargetUserID != "client-1" {
				t.Fatalf("unexpected actor/target: %s/%s", in.ActorID, in.TargetUserID)
			}
			if in.Habits.Date != "2026-03-15" || in.Habits.Workout != domain.AnswerYes {
				t.Fatalf("unexpected habits: %+v", in.Habits)
			}
			out := in.Habits
			out.ID = domain.HabitID(in.TargetUserID, in.Habits.Date)
			return &out, nil
		},
	}
	h := NewHabitHandler(stub)

	c, rec := newTestContext(http.MethodPost, "/v1/habits",
		`{"date":"2026-03-15","workout":"yes","energy_level_2pm":7}`)
	authenticate(c, "client-1", domain.RoleClient)

	if err := h.Save(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestHabitHandler_Save_AdminTargetsClient(t *testing.T) {
	stub := &stubHabitService{
		saveFn: func(_ context.Context, in ports.SaveHabitsInput) (*domain.DailyHabits, error) {
			if in.ActorID != "admin-1" || in.TargetUserID != "client-1" {
				t.Fatalf("unexpected actor/target: %s/%s", in.ActorID, in.TargetUserID)
			}
			out := in.Habits
			return &out, nil
		},
	}
	h := NewHabitHandler(stub)

	c, _ := newTestContext(http.MethodPost, "/v1/habits?user_id=client-1",
		`{"date":"2026-03-15"}`)
	authenticate(c, "admin-1", domain.RoleAdmin)

	if err := h.Save(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
}

func TestHabitHandler_Save_RejectsBadPayload(t *testing.T) {
	stub := &stubHabitService{
		saveFn: func(context.Context, ports.SaveHabitsInput) (*domain.DailyHabits, error) {
			t.Fatal("service must not be called")
			return nil, nil
		},
	}
	h := NewHabitHandler(stub)

	cases := []string{
		`{"workout":"yes"}`,                            // missing date
		`{"date":"15/03/2026"}`,                        // bad date format
		`{"date":"2026-03-15","workout":"maybe"}`,      // bad answer
		`{"date":"2026-03-15","energy_level_2pm":11}`,  // energy out of range
		`{"date":"2026-03-15","energy_level_8pm":-2}`,  // negative energy
	}
	for _, body := range cases {
		c, _ := newTestContext(http.MethodPost, "/v1/habits", body)
		authenticate(c, "client-1", domain.RoleClient)

		err := h.Save(c)
		he, ok := err.(*echo.HTTPError)
		if !ok || he.Code != http.StatusBadRequest {
			t.Fatalf("body %s: expected 400, got %v", body, err)
		}
	}
}

func TestHabitHandler_Save_Unauthenticated(t *testing.T) {
	h := NewHabitHandler(&stubHabitService{})

	c, _ := newTestContext(http.MethodPost, "/v1/habits", `{"date":"2026-03-15"}`)

	err := h.Save(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %v", err)
	}
}

func TestHabitHandler_List(t *testing.T) {
	stub := &stubHabitService{
		listFn: func(_ context.Context, actorID, userID string, page, limit int) (*ports.HabitPage, error) {
			if page != 2 || limit != 10 {
				t.Fatalf("pagination not forwarded: page=%d limit=%d", page, limit)
			}
			return &ports.HabitPage{
				Data:    []*domain.DailyHabits{{ID: "habit-client-1-2026-03-15", UserID: userID, Date: "2026-03-15"}},
				Total:   11,
				Page:    page,
				Limit:   limit,
				HasMore: false,
			}, nil
		},
	}
	h := NewHabitHandler(stub)

	c, rec := newTestContext(http.MethodGet, "/v1/habits?page=2&limit=10", "")
	authenticate(c, "client-1", domain.RoleClient)

	if err := h.List(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	var resp habitPageResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.Total != 11 || len(resp.Data) != 1 {
		t.Fatalf("unexpected page: %+v", resp)
	}
}

func TestHabitHandler_ByDate_NullWhenAbsent(t *testing.T) {
	stub := &stubHabitService{
		byDateFn: func(_ context.Context, _, _, date string) (*domain.DailyHabits, error) {
			if date != "2026-03-15" {
				t.Fatalf("unexpected date %q", date)
			}
			return nil, nil
		},
	}
	h := NewHabitHandler(stub)

	c, rec := newTestContext(http.MethodGet, "/v1/habits/2026-03-15", "")
	c.SetParamNames("date")
	c.SetParamValues("2026-03-15")
	authenticate(c, "client-1", domain.RoleClient)

	if err := h.ByDate(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if body := strings.TrimSpace(rec.Body.String()); body != "null" {
		t.Fatalf("expected null body for absent entry, got %q", body)
	}
}
