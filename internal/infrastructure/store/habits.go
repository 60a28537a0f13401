package store

import (
	"context"
	"sort"

	"github.com/habitcoach/coaching-system/internal/core/domain"
	"github.com/habitcoach/coaching-system/internal/core/ports"
)

// SaveDailyHabits upserts the entry for (UserID, Date). The id is
// derived from the pair, so create and update collapse into one
// operation; createdAt survives re-saves. LastEditedBy is set only
// when the writer is not the entry's owner.
func (s *Store) SaveDailyHabits(ctx context.Context, habits domain.DailyHabits, savedBy string) (*domain.DailyHabits, error) {
	if err := habits.Validate(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureInit(ctx); err != nil {
		return nil, err
	}

	now := s.now()
	habits.ID = domain.HabitID(habits.UserID, habits.Date)
	habits.UpdatedAt = now

	action := domain.ActionCreate
	if existing, ok := s.data.DailyHabits[habits.ID]; ok {
		habits.CreatedAt = existing.CreatedAt
		action = domain.ActionUpdate
	} else {
		habits.CreatedAt = now
	}

	habits.LastEditedBy = ""
	if savedBy != habits.UserID {
		habits.LastEditedBy = savedBy
	}

	entry := habits
	s.data.DailyHabits[entry.ID] = &entry

	if c, ok := s.data.Clients[habits.UserID]; ok {
		c.LastActive = now
	}

	s.logChange(domain.EntityHabits, entry.ID, action, map[string]any{
		"date":    entry.Date,
		"user_id": entry.UserID,
	}, savedBy)

	if err := s.persist(ctx); err != nil {
		return nil, err
	}
	out := entry
	return &out, nil
}

// DailyHabits returns one page of a user's entries, newest date first.
func (s *Store) DailyHabits(ctx context.Context, userID string, page, limit int) (*ports.HabitPage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureInit(ctx); err != nil {
		return nil, err
	}

	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = 50
	}

	var all []*domain.DailyHabits
	for _, h := range s.data.DailyHabits {
		if h.UserID == userID {
			out := *h
			all = append(all, &out)
		}
	}
	// ISO dates sort lexicographically.
	sort.Slice(all, func(i, j int) bool { return all[i].Date > all[j].Date })

	total := len(all)
	start := (page - 1) * limit
	if start > total {
		start = total
	}
	end := start + limit
	if end > total {
		end = total
	}

	return &ports.HabitPage{
		Data:    all[start:end],
		Total:   total,
		Page:    page,
		Limit:   limit,
		HasMore: end < total,
	}, nil
}

// DailyHabitByDate looks up the entry by its deterministic id. Absence
// is not an error for reads: the result is nil.
func (s *Store) DailyHabitByDate(ctx context.Context, userID, date string) (*domain.DailyHabits, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureInit(ctx); err != nil {
		return nil, err
	}
	h, ok := s.data.DailyHabits[domain.HabitID(userID, date)]
	if !ok {
		return nil, nil
	}
	out := *h
	return &out, nil
}

// SaveBloodworkDocument stores document metadata and bumps the owning
// client's lastActive.
func (s *Store) SaveBloodworkDocument(ctx context.Context, doc domain.BloodworkDocument, uploadedBy string) (*domain.BloodworkDocument, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureInit(ctx); err != nil {
		return nil, err
	}

	now := s.now()
	doc.ID = "bloodwork-" + doc.UserID + "-" + s.newID()
	doc.CreatedAt = now
	doc.UpdatedAt = now

	entry := doc
	s.data.Bloodwork[entry.ID] = &entry

	if c, ok := s.data.Clients[doc.UserID]; ok {
		c.LastActive = now
	}

	s.logChange(domain.EntityBloodwork, entry.ID, domain.ActionCreate, map[string]any{
		"file_name": entry.FileName,
		"user_id":   entry.UserID,
	}, uploadedBy)

	if err := s.persist(ctx); err != nil {
		return nil, err
	}
	out := entry
	return &out, nil
}

// BloodworkDocuments lists a user's documents, newest upload first.
func (s *Store) BloodworkDocuments(ctx context.Context, userID string) ([]*domain.BloodworkDocument, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureInit(ctx); err != nil {
		return nil, err
	}

	var docs []*domain.BloodworkDocument
	for _, d := range s.data.Bloodwork {
		if d.UserID == userID {
			out := *d
			docs = append(docs, &out)
		}
	}
	sort.Slice(docs, func(i, j int) bool { return docs[i].UploadDate.After(docs[j].UploadDate) })
	return docs, nil
}
