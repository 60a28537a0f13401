package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/habitcoach/coaching-system/internal/api/metrics"
	"github.com/habitcoach/coaching-system/internal/core/domain"
	"github.com/habitcoach/coaching-system/internal/core/ports"
)

// HabitService implements the daily habit use cases. Every operation
// runs the actor through the store's access predicate before touching
// the target user's data.
type HabitService struct {
	habits ports.HabitStore
	access ports.ClientStore
	log    zerolog.Logger
}

// NewHabitService builds a HabitService.
func NewHabitService(habits ports.HabitStore, access ports.ClientStore, log zerolog.Logger) *HabitService {
	return &HabitService{habits: habits, access: access, log: log}
}

// Save upserts a habit entry for the target user.
func (s *HabitService) Save(ctx context.Context, in ports.SaveHabitsInput) (*domain.DailyHabits, error) {
	ok, err := s.access.CanAccess(ctx, in.ActorID, in.TargetUserID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domain.ErrAccessDenied
	}

	in.Habits.UserID = in.TargetUserID
	saved, err := s.habits.SaveDailyHabits(ctx, in.Habits, in.ActorID)
	if err != nil {
		s.log.Error().Err(err).Str("user_id", in.TargetUserID).Msg("habit save failed")
		return nil, err
	}

	writer := "self"
	if saved.LastEditedBy != "" {
		writer = "admin"
	}
	metrics.HabitSavesTotal.WithLabelValues(writer).Inc()
	s.log.Info().Str("user_id", saved.UserID).Str("date", saved.Date).Str("saved_by", in.ActorID).Msg("habits saved")
	return saved, nil
}

// List returns one page of the target user's habit history.
func (s *HabitService) List(ctx context.Context, actorID, userID string, page, limit int) (*ports.HabitPage, error) {
	ok, err := s.access.CanAccess(ctx, actorID, userID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domain.ErrAccessDenied
	}
	return s.habits.DailyHabits(ctx, userID, page, limit)
}

// ByDate returns the target user's entry for one date, nil when absent.
func (s *HabitService) ByDate(ctx context.Context, actorID, userID, date string) (*domain.DailyHabits, error) {
	ok, err := s.access.CanAccess(ctx, actorID, userID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domain.ErrAccessDenied
	}
	return s.habits.DailyHabitByDate(ctx, userID, date)
}
