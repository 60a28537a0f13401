package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/habitcoach/coaching-system/internal/api/metrics"
	"github.com/habitcoach/coaching-system/internal/core/domain"
	"github.com/habitcoach/coaching-system/internal/core/ports"
)

// SyncService computes incremental deltas for offline clients.
type SyncService struct {
	store  ports.SyncStore
	access ports.ClientStore
	log    zerolog.Logger
}

// NewSyncService builds a SyncService.
func NewSyncService(store ports.SyncStore, access ports.ClientStore, log zerolog.Logger) *SyncService {
	return &SyncService{store: store, access: access, log: log}
}

// DataSince returns everything belonging to userID updated strictly
// after since (RFC 3339; empty means "everything").
func (s *SyncService) DataSince(ctx context.Context, actorID, userID string, since string) (*ports.SyncData, error) {
	ok, err := s.access.CanAccess(ctx, actorID, userID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domain.ErrAccessDenied
	}

	var cutoff time.Time
	if since != "" {
		cutoff, err = time.Parse(time.RFC3339, since)
		if err != nil {
			return nil, fmt.Errorf("%w: since must be RFC 3339", domain.ErrValidation)
		}
	}

	data, err := s.store.DataForSync(ctx, userID, cutoff)
	if err != nil {
		return nil, err
	}

	metrics.SyncRequestsTotal.Inc()
	s.log.Debug().Str("user_id", userID).
		Int("habits", len(data.Habits)).
		Int("bloodwork", len(data.Bloodwork)).
		Int("changes", len(data.Changes)).
		Msg("sync delta computed")
	return data, nil
}
