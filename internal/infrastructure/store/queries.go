package store

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"sort"
	"time"

	"github.com/habitcoach/coaching-system/internal/core/domain"
	"github.com/habitcoach/coaching-system/internal/core/ports"
)

// ChangeLogs filters the in-memory audit trail, most recent first.
func (s *Store) ChangeLogs(ctx context.Context, filter ports.ChangeLogFilter) ([]domain.ChangeEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureInit(ctx); err != nil {
		return nil, err
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}

	var logs []domain.ChangeEntry
	for _, entry := range s.changeLogs {
		if filter.EntityType != "" && entry.EntityType != filter.EntityType {
			continue
		}
		if filter.EntityID != "" && entry.EntityID != filter.EntityID {
			continue
		}
		logs = append(logs, entry)
	}
	sort.Slice(logs, func(i, j int) bool { return logs[i].Timestamp.After(logs[j].Timestamp) })
	if len(logs) > limit {
		logs = logs[:limit]
	}
	return logs, nil
}

// DataForSync computes the incremental delta for one user: habits and
// bloodwork whose UpdatedAt strictly postdates since, the client
// profile, and matching change-log entries. A zero since means
// "everything". Change-log entries whose referenced habit or document
// no longer resolves are skipped rather than failing the sync.
func (s *Store) DataForSync(ctx context.Context, userID string, since time.Time) (*ports.SyncData, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureInit(ctx); err != nil {
		return nil, err
	}

	out := &ports.SyncData{SyncedAt: s.now()}

	for _, h := range s.data.DailyHabits {
		if h.UserID == userID && h.UpdatedAt.After(since) {
			c := *h
			out.Habits = append(out.Habits, &c)
		}
	}
	sort.Slice(out.Habits, func(i, j int) bool { return out.Habits[i].Date > out.Habits[j].Date })

	for _, d := range s.data.Bloodwork {
		if d.UserID == userID && d.UpdatedAt.After(since) {
			c := *d
			out.Bloodwork = append(out.Bloodwork, &c)
		}
	}
	sort.Slice(out.Bloodwork, func(i, j int) bool {
		return out.Bloodwork[i].UploadDate.After(out.Bloodwork[j].UploadDate)
	})

	if c, ok := s.data.Clients[userID]; ok {
		out.Profile = cloneClient(c)
	}

	for _, entry := range s.changeLogs {
		if !entry.Timestamp.After(since) {
			continue
		}
		if s.changeBelongsTo(entry, userID) {
			out.Changes = append(out.Changes, entry)
		}
	}
	return out, nil
}

// changeBelongsTo resolves a change-log entry back to its owning user.
// Dangling references resolve to false. Callers must hold s.mu.
func (s *Store) changeBelongsTo(entry domain.ChangeEntry, userID string) bool {
	switch entry.EntityType {
	case domain.EntityClient:
		return entry.EntityID == userID
	case domain.EntityHabits:
		h, ok := s.data.DailyHabits[entry.EntityID]
		return ok && h.UserID == userID
	case domain.EntityBloodwork:
		d, ok := s.data.Bloodwork[entry.EntityID]
		return ok && d.UserID == userID
	default:
		return false
	}
}

// AdminDashboard aggregates everything the admin landing screen shows
// for one admin's roster.
func (s *Store) AdminDashboard(ctx context.Context, adminID string) (*ports.DashboardData, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureInit(ctx); err != nil {
		return nil, err
	}

	admin, ok := s.data.Admins[adminID]
	if !ok {
		return nil, domain.ErrAdminNotFound
	}

	today := s.now().Format("2006-01-02")

	var clients []*domain.Client
	for _, id := range admin.ClientIDs {
		if c, ok := s.data.Clients[id]; ok {
			clients = append(clients, cloneClient(c))
		}
	}

	stats := ports.DashboardStats{TotalClients: len(clients)}
	for _, c := range clients {
		if c.LastActive.Format("2006-01-02") == today {
			stats.ActiveToday++
		}
		if _, ok := s.data.DailyHabits[domain.HabitID(c.ID, today)]; !ok {
			stats.PendingHabits++
		}
	}
	for _, d := range s.data.Bloodwork {
		if slices.Contains(admin.ClientIDs, d.UserID) && d.UploadDate.Format("2006-01-02") == today {
			stats.NewBloodwork++
		}
	}

	var activity []domain.ChangeEntry
	for _, entry := range s.changeLogs {
		if s.changeOwnedByRoster(entry, admin.ClientIDs) {
			activity = append(activity, entry)
		}
	}
	sort.Slice(activity, func(i, j int) bool { return activity[i].Timestamp.After(activity[j].Timestamp) })
	if len(activity) > 20 {
		activity = activity[:20]
	}

	return &ports.DashboardData{
		Clients:        clients,
		RecentActivity: activity,
		Stats:          stats,
	}, nil
}

// changeOwnedByRoster reports whether a change-log entry's affected
// entity belongs to one of the given clients. Callers must hold s.mu.
func (s *Store) changeOwnedByRoster(entry domain.ChangeEntry, clientIDs []string) bool {
	switch entry.EntityType {
	case domain.EntityClient:
		return slices.Contains(clientIDs, entry.EntityID)
	case domain.EntityHabits:
		h, ok := s.data.DailyHabits[entry.EntityID]
		return ok && slices.Contains(clientIDs, h.UserID)
	case domain.EntityBloodwork:
		d, ok := s.data.Bloodwork[entry.EntityID]
		return ok && slices.Contains(clientIDs, d.UserID)
	default:
		return false
	}
}

// exportDocument is the backup/debugging snapshot shape. Not a stable
// wire format.
type exportDocument struct {
	Data       schema               `json:"data"`
	ChangeLogs []domain.ChangeEntry `json:"change_logs"`
	ExportedAt time.Time            `json:"exported_at"`
}

// ExportSnapshot serializes the entity maps and change log. The
// credentials slot is deliberately excluded.
func (s *Store) ExportSnapshot(ctx context.Context) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureInit(ctx); err != nil {
		return nil, err
	}
	blob, err := json.MarshalIndent(exportDocument{
		Data:       s.data,
		ChangeLogs: s.changeLogs,
		ExportedAt: s.now(),
	}, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}
	return blob, nil
}

// ClearAll wipes the store and backing storage, then reseeds the
// default fixtures. Intended for demos and tests.
func (s *Store) ClearAll(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.data = emptySchema()
	s.credentials = make(map[string]string)
	s.changeLogs = nil
	if err := s.backing.RemoveMany(ctx, []string{keyDatabase, keyChangeLogs, keyCredentials}); err != nil {
		return fmt.Errorf("%w: clear: %v", domain.ErrPersistence, err)
	}
	s.seedDefaults()
	s.initialized = true
	return s.persist(ctx)
}
