package ports

import (
	"context"

	"github.com/habitcoach/coaching-system/internal/core/domain"
)

// SaveHabitsInput is a habit entry write. ActorID is the authenticated
// writer; TargetUserID is the entry's owner (they differ when an admin
// edits on behalf of a client).
type SaveHabitsInput struct {
	ActorID      string
	TargetUserID string
	Habits       domain.DailyHabits
}

// HabitService defines the habit entry use cases. Every operation
// enforces the actor/target access predicate.
type HabitService interface {
	Save(ctx context.Context, in SaveHabitsInput) (*domain.DailyHabits, error)
	List(ctx context.Context, actorID, userID string, page, limit int) (*HabitPage, error)
	ByDate(ctx context.Context, actorID, userID, date string) (*domain.DailyHabits, error)
}

// UploadBloodworkInput is a bloodwork upload request. Raw file bytes
// are accepted only to derive size and a storage reference; they are
// discarded after the reference URL is generated.
type UploadBloodworkInput struct {
	ActorID      string
	TargetUserID string
	FileName     string
	FileType     string
	FileSize     int64
	Notes        string
}

// BloodworkService defines the bloodwork document use cases.
type BloodworkService interface {
	Upload(ctx context.Context, in UploadBloodworkInput) (*domain.BloodworkDocument, error)
	List(ctx context.Context, actorID, userID string) ([]*domain.BloodworkDocument, error)
}

// SyncService computes incremental sync deltas for a user.
type SyncService interface {
	DataSince(ctx context.Context, actorID, userID string, since string) (*SyncData, error)
}

// AdminService groups the admin-only operations.
type AdminService interface {
	Dashboard(ctx context.Context, adminID string) (*DashboardData, error)
	Clients(ctx context.Context, adminID string) ([]*domain.Client, error)
	AssignClient(ctx context.Context, clientID, adminID, assignedBy string) (*domain.Client, error)
	ChangeLogs(ctx context.Context, filter ChangeLogFilter) ([]domain.ChangeEntry, error)
	Export(ctx context.Context) ([]byte, error)
}
