package domain

import "time"

// Entity types referenced by change-log entries.
const (
	EntityUser      = "user"
	EntityClient    = "client"
	EntityAdmin     = "admin"
	EntityHabits    = "dailyHabits"
	EntityBloodwork = "bloodwork"
)

// Change-log actions. ActionDelete is modeled for completeness but no
// operation currently emits it.
const (
	ActionCreate = "create"
	ActionUpdate = "update"
	ActionDelete = "delete"
)

// ChangeLogCap is the maximum number of retained entries; the oldest
// are dropped first once exceeded.
const ChangeLogCap = 1000

// ChangeEntry records a single mutation: what changed, who changed it,
// and a shallow snapshot of the changed fields.
type ChangeEntry struct {
	ID         string         `json:"id"`
	EntityType string         `json:"entity_type"`
	EntityID   string         `json:"entity_id"`
	Action     string         `json:"action"`
	Changes    map[string]any `json:"changes"`
	UserID     string         `json:"user_id"`
	Timestamp  time.Time      `json:"timestamp"`
}
