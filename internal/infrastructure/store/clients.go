package store

import (
	"context"
	"slices"
	"sort"

	"github.com/habitcoach/coaching-system/internal/core/domain"
)

func cloneClient(c *domain.Client) *domain.Client {
	out := *c
	out.ProfileData.MedicalConditions = slices.Clone(c.ProfileData.MedicalConditions)
	out.ProfileData.Goals = slices.Clone(c.ProfileData.Goals)
	return &out
}

func cloneAdmin(a *domain.Admin) *domain.Admin {
	out := *a
	out.ClientIDs = slices.Clone(a.ClientIDs)
	out.Permissions = slices.Clone(a.Permissions)
	return &out
}

// ClientByID returns the client projection, nil when absent.
func (s *Store) ClientByID(ctx context.Context, clientID string) (*domain.Client, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureInit(ctx); err != nil {
		return nil, err
	}
	c, ok := s.data.Clients[clientID]
	if !ok {
		return nil, nil
	}
	return cloneClient(c), nil
}

// AdminByID returns the admin projection, nil when absent.
func (s *Store) AdminByID(ctx context.Context, adminID string) (*domain.Admin, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureInit(ctx); err != nil {
		return nil, err
	}
	a, ok := s.data.Admins[adminID]
	if !ok {
		return nil, nil
	}
	return cloneAdmin(a), nil
}

// ListClients returns active clients, optionally scoped to one admin's
// roster, sorted by name for stable output.
func (s *Store) ListClients(ctx context.Context, adminID string) ([]*domain.Client, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureInit(ctx); err != nil {
		return nil, err
	}

	var clients []*domain.Client
	for _, c := range s.data.Clients {
		if !c.IsActive {
			continue
		}
		if adminID != "" && c.AdminID != adminID {
			continue
		}
		clients = append(clients, cloneClient(c))
	}
	sort.Slice(clients, func(i, j int) bool { return clients[i].Name < clients[j].Name })
	return clients, nil
}

// AssignClientToAdmin reassigns a client: it is removed from its
// previous admin's roster and added to the new one as halves of a
// single operation, so the two lists never disagree.
func (s *Store) AssignClientToAdmin(ctx context.Context, clientID, adminID, assignedBy string) (*domain.Client, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureInit(ctx); err != nil {
		return nil, err
	}

	client, ok := s.data.Clients[clientID]
	if !ok {
		return nil, domain.ErrClientNotFound
	}
	admin, ok := s.data.Admins[adminID]
	if !ok {
		return nil, domain.ErrAdminNotFound
	}

	if prev, ok := s.data.Admins[client.AdminID]; ok {
		prev.ClientIDs = slices.DeleteFunc(prev.ClientIDs, func(id string) bool { return id == clientID })
	}

	client.AdminID = adminID
	client.UpdatedAt = s.now()
	if u, ok := s.data.Users[clientID]; ok {
		u.UpdatedAt = client.UpdatedAt
	}
	if !slices.Contains(admin.ClientIDs, clientID) {
		admin.ClientIDs = append(admin.ClientIDs, clientID)
	}

	s.logChange(domain.EntityClient, clientID, domain.ActionUpdate, map[string]any{
		"admin_id": adminID,
	}, assignedBy)

	if err := s.persist(ctx); err != nil {
		return nil, err
	}
	return cloneClient(client), nil
}

// CanAccess is the authorization predicate every on-behalf-of
// operation consults: a user may always act on itself, and an admin
// may act on any client in its roster.
func (s *Store) CanAccess(ctx context.Context, actorID, targetUserID string) (bool, error) {
	if actorID == targetUserID {
		return true, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureInit(ctx); err != nil {
		return false, err
	}
	admin, ok := s.data.Admins[actorID]
	if !ok {
		return false, nil
	}
	return slices.Contains(admin.ClientIDs, targetUserID), nil
}
