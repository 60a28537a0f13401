package ports

import (
	"context"
	"time"

	"github.com/habitcoach/coaching-system/internal/core/domain"
)

// NewUserInput carries everything the store needs to create a user.
// PasswordHash is produced by the service layer; the store never sees
// a plaintext password.
type NewUserInput struct {
	Name         string
	PhoneNumber  string
	Role         string
	PasswordHash string
	// CreatedBy is recorded as the change-log actor; empty means the
	// user created their own account.
	CreatedBy string
}

// HabitPage is one page of a client's habit history, newest date first.
type HabitPage struct {
	Data    []*domain.DailyHabits
	Total   int
	Page    int
	Limit   int
	HasMore bool
}

// ChangeLogFilter narrows a change-log query. Zero values mean "no
// filter" for EntityType/EntityID; Limit <= 0 falls back to 100.
type ChangeLogFilter struct {
	EntityType string
	EntityID   string
	Limit      int
}

// SyncData is the incremental delta for one user: everything whose
// UpdatedAt strictly postdates the requested instant.
type SyncData struct {
	Habits    []*domain.DailyHabits
	Bloodwork []*domain.BloodworkDocument
	Profile   *domain.Client
	Changes   []domain.ChangeEntry
	SyncedAt  time.Time
}

// DashboardStats are the aggregate counters on the admin dashboard.
type DashboardStats struct {
	TotalClients  int
	ActiveToday   int
	PendingHabits int
	NewBloodwork  int
}

// DashboardData is everything the admin dashboard renders.
type DashboardData struct {
	Clients        []*domain.Client
	RecentActivity []domain.ChangeEntry
	Stats          DashboardStats
}

// UserStore covers user, credential and session persistence.
// Read-only lookups return (nil, nil) when nothing matches; only
// mutating operations treat a missing entity as an error.
type UserStore interface {
	CreateUser(ctx context.Context, in NewUserInput) (*domain.User, error)
	UserByID(ctx context.Context, userID string) (*domain.User, error)
	ActiveUserByPhone(ctx context.Context, phoneNumber string) (*domain.User, error)
	PasswordHash(ctx context.Context, userID string) (string, error)
	UpdateUser(ctx context.Context, userID string, upd domain.UserUpdate, updatedBy string) (*domain.User, error)
	// CreateSession also bumps the owning client's lastActive, so a
	// login is a single write-through.
	CreateSession(ctx context.Context, session domain.Session) error
	SessionByToken(ctx context.Context, token string) (*domain.Session, error)
}

// ClientStore covers the admin/client relationship.
type ClientStore interface {
	ClientByID(ctx context.Context, clientID string) (*domain.Client, error)
	AdminByID(ctx context.Context, adminID string) (*domain.Admin, error)
	// ListClients returns active clients; a non-empty adminID scopes
	// the list to that admin's roster.
	ListClients(ctx context.Context, adminID string) ([]*domain.Client, error)
	AssignClientToAdmin(ctx context.Context, clientID, adminID, assignedBy string) (*domain.Client, error)
	// CanAccess is the single authorization predicate: a user may act
	// on itself; an admin may act on clients in its roster.
	CanAccess(ctx context.Context, actorID, targetUserID string) (bool, error)
}

// HabitStore persists daily habit entries.
type HabitStore interface {
	SaveDailyHabits(ctx context.Context, habits domain.DailyHabits, savedBy string) (*domain.DailyHabits, error)
	DailyHabits(ctx context.Context, userID string, page, limit int) (*HabitPage, error)
	DailyHabitByDate(ctx context.Context, userID, date string) (*domain.DailyHabits, error)
}

// BloodworkStore persists bloodwork document metadata.
type BloodworkStore interface {
	SaveBloodworkDocument(ctx context.Context, doc domain.BloodworkDocument, uploadedBy string) (*domain.BloodworkDocument, error)
	BloodworkDocuments(ctx context.Context, userID string) ([]*domain.BloodworkDocument, error)
}

// ChangeLogStore exposes the audit trail.
type ChangeLogStore interface {
	ChangeLogs(ctx context.Context, filter ChangeLogFilter) ([]domain.ChangeEntry, error)
}

// SyncStore computes incremental deltas.
type SyncStore interface {
	DataForSync(ctx context.Context, userID string, since time.Time) (*SyncData, error)
}

// DashboardStore computes the admin dashboard aggregates.
type DashboardStore interface {
	AdminDashboard(ctx context.Context, adminID string) (*DashboardData, error)
}

// SnapshotStore exports the full store state for backup/debugging.
type SnapshotStore interface {
	ExportSnapshot(ctx context.Context) ([]byte, error)
}
