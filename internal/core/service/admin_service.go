package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/habitcoach/coaching-system/internal/core/domain"
	"github.com/habitcoach/coaching-system/internal/core/ports"
)

// adminStore is the slice of the record store the admin operations
// need.
type adminStore interface {
	ports.ClientStore
	ports.ChangeLogStore
	ports.DashboardStore
	ports.SnapshotStore
}

// AdminService groups the coach-facing operations: dashboard, roster
// management, the audit trail and snapshot export.
type AdminService struct {
	store adminStore
	log   zerolog.Logger
}

// NewAdminService builds an AdminService.
func NewAdminService(store adminStore, log zerolog.Logger) *AdminService {
	return &AdminService{store: store, log: log}
}

// Dashboard returns the aggregates for one admin's roster.
func (s *AdminService) Dashboard(ctx context.Context, adminID string) (*ports.DashboardData, error) {
	return s.store.AdminDashboard(ctx, adminID)
}

// Clients lists the admin's active clients.
func (s *AdminService) Clients(ctx context.Context, adminID string) ([]*domain.Client, error) {
	return s.store.ListClients(ctx, adminID)
}

// AssignClient moves a client onto an admin's roster.
func (s *AdminService) AssignClient(ctx context.Context, clientID, adminID, assignedBy string) (*domain.Client, error) {
	client, err := s.store.AssignClientToAdmin(ctx, clientID, adminID, assignedBy)
	if err != nil {
		return nil, err
	}
	s.log.Info().Str("client_id", clientID).Str("admin_id", adminID).Str("assigned_by", assignedBy).Msg("client assigned")
	return client, nil
}

// ChangeLogs filters the audit trail.
func (s *AdminService) ChangeLogs(ctx context.Context, filter ports.ChangeLogFilter) ([]domain.ChangeEntry, error) {
	return s.store.ChangeLogs(ctx, filter)
}

// Export returns the full snapshot document for backup/debugging.
func (s *AdminService) Export(ctx context.Context) ([]byte, error) {
	return s.store.ExportSnapshot(ctx)
}
