// Package store implements the embedded record store: all entities
// live in in-memory maps guarded by one mutex, and the full state is
// mirrored to a durable backing store after every mutation.
//
// Concurrency model: writes are serialized behind the mutex and the
// last write to a record wins. There is no optimistic-concurrency
// check; two actors editing the same habit entry concurrently will
// silently overwrite each other. This is a deliberate, documented
// simplification for the coaching-app scale.
package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/habitcoach/coaching-system/internal/core/domain"
	"github.com/habitcoach/coaching-system/internal/core/ports"
)

// Backing-store keys. Credentials live in their own slot so the entity
// snapshot never carries password material.
const (
	keyDatabase    = "database"
	keyChangeLogs  = "changeLogs"
	keyCredentials = "credentials"
)

// schema is the serialized shape of the entity maps.
type schema struct {
	Users       map[string]*domain.User              `json:"users"`
	Clients     map[string]*domain.Client            `json:"clients"`
	Admins      map[string]*domain.Admin             `json:"admins"`
	DailyHabits map[string]*domain.DailyHabits       `json:"daily_habits"`
	Bloodwork   map[string]*domain.BloodworkDocument `json:"bloodwork_documents"`
	Sessions    map[string]*domain.Session           `json:"sessions"`
}

func emptySchema() schema {
	return schema{
		Users:       make(map[string]*domain.User),
		Clients:     make(map[string]*domain.Client),
		Admins:      make(map[string]*domain.Admin),
		DailyHabits: make(map[string]*domain.DailyHabits),
		Bloodwork:   make(map[string]*domain.BloodworkDocument),
		Sessions:    make(map[string]*domain.Session),
	}
}

// Store is the single source of truth for all entities. Construct one
// with New and inject it where a ports.*Store interface is expected.
type Store struct {
	mu      sync.Mutex
	backing ports.BackingStore
	log     zerolog.Logger

	data        schema
	credentials map[string]string // user id -> bcrypt hash
	changeLogs  []domain.ChangeEntry
	initialized bool

	// injectable for tests
	now   func() time.Time
	newID func() string
}

// Option tweaks a Store at construction time.
type Option func(*Store)

// WithClock overrides the store's time source.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithIDGenerator overrides the store's id source.
func WithIDGenerator(newID func() string) Option {
	return func(s *Store) { s.newID = newID }
}

// New builds a Store over the given backing store. The store loads
// lazily: the first operation triggers initialization.
func New(backing ports.BackingStore, log zerolog.Logger, opts ...Option) *Store {
	s := &Store{
		backing:     backing,
		log:         log,
		data:        emptySchema(),
		credentials: make(map[string]string),
		now:         func() time.Time { return time.Now().UTC() },
		newID:       func() string { return uuid.NewString() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ensureInit loads the persisted snapshot on first use. If nothing was
// persisted yet, or loading fails, the store seeds default fixtures
// and persists them as the new baseline: availability wins over
// durability, and the recovery is logged. Callers must hold s.mu.
func (s *Store) ensureInit(ctx context.Context) error {
	if s.initialized {
		return nil
	}

	if err := s.load(ctx); err != nil {
		s.log.Error().Err(err).Msg("snapshot load failed, reseeding default data")
		s.data = emptySchema()
		s.credentials = make(map[string]string)
		s.changeLogs = nil
		s.seedDefaults()
		if perr := s.persist(ctx); perr != nil {
			return perr
		}
	}

	s.initialized = true
	s.log.Debug().Int("users", len(s.data.Users)).Msg("record store initialized")
	return nil
}

func (s *Store) load(ctx context.Context) error {
	blob, ok, err := s.backing.Get(ctx, keyDatabase)
	if err != nil {
		return fmt.Errorf("read %s: %w", keyDatabase, err)
	}
	if !ok {
		s.seedDefaults()
		return s.persist(ctx)
	}
	data := emptySchema()
	if err := json.Unmarshal(blob, &data); err != nil {
		return fmt.Errorf("decode %s: %w", keyDatabase, err)
	}
	s.data = data

	if blob, ok, err = s.backing.Get(ctx, keyChangeLogs); err != nil {
		return fmt.Errorf("read %s: %w", keyChangeLogs, err)
	} else if ok {
		if err := json.Unmarshal(blob, &s.changeLogs); err != nil {
			return fmt.Errorf("decode %s: %w", keyChangeLogs, err)
		}
	}

	if blob, ok, err = s.backing.Get(ctx, keyCredentials); err != nil {
		return fmt.Errorf("read %s: %w", keyCredentials, err)
	} else if ok {
		if err := json.Unmarshal(blob, &s.credentials); err != nil {
			return fmt.Errorf("decode %s: %w", keyCredentials, err)
		}
	}
	return nil
}

// seedDefaults installs the demo admin/client pair used as the empty
// baseline.
func (s *Store) seedDefaults() {
	now := s.now()
	admin := &domain.Admin{
		User: domain.User{
			ID:          "admin-1",
			Name:        "Admin User",
			PhoneNumber: "+1234567890",
			Role:        domain.RoleAdmin,
			CreatedAt:   now,
			UpdatedAt:   now,
			IsActive:    true,
		},
		ClientIDs:   []string{"client-1"},
		Permissions: []string{domain.PermissionAll},
	}
	client := &domain.Client{
		User: domain.User{
			ID:          "client-1",
			Name:        "Test Client",
			PhoneNumber: "+0987654321",
			Role:        domain.RoleClient,
			CreatedAt:   now,
			UpdatedAt:   now,
			IsActive:    true,
		},
		AdminID:    admin.ID,
		LastActive: now,
		ProfileData: domain.ProfileData{
			Age:               30,
			WeightKg:          70,
			HeightCm:          175,
			MedicalConditions: []string{"diabetes"},
			Goals:             []string{"weight loss", "better energy"},
		},
	}

	s.data.Users[admin.ID] = &admin.User
	s.data.Users[client.ID] = &client.User
	s.data.Admins[admin.ID] = admin
	s.data.Clients[client.ID] = client
}

// persist writes the whole state through to the backing store. Every
// mutation pays this cost; at coaching-app scale that is fine, but it
// is the store's scalability ceiling.
func (s *Store) persist(ctx context.Context) error {
	// Fixed write order so a mid-write failure leaves a predictable
	// subset behind.
	blobs := []struct {
		key string
		v   any
	}{
		{keyDatabase, s.data},
		{keyChangeLogs, s.changeLogs},
		{keyCredentials, s.credentials},
	}
	for _, b := range blobs {
		key, v := b.key, b.v
		blob, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("%w: encode %s: %v", domain.ErrPersistence, key, err)
		}
		if err := s.backing.Set(ctx, key, blob); err != nil {
			return fmt.Errorf("%w: write %s: %v", domain.ErrPersistence, key, err)
		}
	}
	return nil
}

// logChange appends one change-log entry and enforces the retention
// cap, oldest entries evicted first. Callers must hold s.mu.
func (s *Store) logChange(entityType, entityID, action string, changes map[string]any, userID string) {
	s.changeLogs = append(s.changeLogs, domain.ChangeEntry{
		ID:         "change-" + s.newID(),
		EntityType: entityType,
		EntityID:   entityID,
		Action:     action,
		Changes:    changes,
		UserID:     userID,
		Timestamp:  s.now(),
	})
	if n := len(s.changeLogs); n > domain.ChangeLogCap {
		s.changeLogs = s.changeLogs[n-domain.ChangeLogCap:]
	}
}

// CreateUser registers a user and its role projection; the phone
// number must not already belong to any user, active or not.
func (s *Store) CreateUser(ctx context.Context, in ports.NewUserInput) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureInit(ctx); err != nil {
		return nil, err
	}

	if in.Role != domain.RoleAdmin && in.Role != domain.RoleClient {
		return nil, fmt.Errorf("%w: unknown role %q", domain.ErrValidation, in.Role)
	}
	for _, u := range s.data.Users {
		if u.PhoneNumber == in.PhoneNumber {
			return nil, domain.ErrDuplicatePhone
		}
	}

	now := s.now()
	user := domain.User{
		ID:          in.Role + "-" + s.newID(),
		Name:        in.Name,
		PhoneNumber: in.PhoneNumber,
		Role:        in.Role,
		CreatedAt:   now,
		UpdatedAt:   now,
		IsActive:    true,
	}
	s.data.Users[user.ID] = &user

	switch in.Role {
	case domain.RoleClient:
		s.data.Clients[user.ID] = &domain.Client{User: user, LastActive: now}
	case domain.RoleAdmin:
		s.data.Admins[user.ID] = &domain.Admin{
			User:        user,
			ClientIDs:   []string{},
			Permissions: []string{domain.PermissionAll},
		}
	}
	s.credentials[user.ID] = in.PasswordHash

	actor := in.CreatedBy
	if actor == "" {
		actor = user.ID
	}
	s.logChange(domain.EntityUser, user.ID, domain.ActionCreate, map[string]any{
		"name":         user.Name,
		"phone_number": user.PhoneNumber,
		"role":         user.Role,
	}, actor)

	if err := s.persist(ctx); err != nil {
		return nil, err
	}
	out := user
	return &out, nil
}

// UserByID returns the base user record, or nil when absent.
func (s *Store) UserByID(ctx context.Context, userID string) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureInit(ctx); err != nil {
		return nil, err
	}
	u, ok := s.data.Users[userID]
	if !ok {
		return nil, nil
	}
	out := *u
	return &out, nil
}

// ActiveUserByPhone returns the active user holding phoneNumber, or
// nil when no active user matches.
func (s *Store) ActiveUserByPhone(ctx context.Context, phoneNumber string) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureInit(ctx); err != nil {
		return nil, err
	}
	for _, u := range s.data.Users {
		if u.PhoneNumber == phoneNumber && u.IsActive {
			out := *u
			return &out, nil
		}
	}
	return nil, nil
}

// PasswordHash returns the stored hash for userID, empty when absent.
func (s *Store) PasswordHash(ctx context.Context, userID string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureInit(ctx); err != nil {
		return "", err
	}
	return s.credentials[userID], nil
}

// UpdateUser merges upd into the base record and its role projection.
func (s *Store) UpdateUser(ctx context.Context, userID string, upd domain.UserUpdate, updatedBy string) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureInit(ctx); err != nil {
		return nil, err
	}

	user, ok := s.data.Users[userID]
	if !ok {
		return nil, domain.ErrUserNotFound
	}

	// Validate before mutating: a rejected update must leave the
	// stored record untouched.
	if upd.PhoneNumber != nil {
		for id, u := range s.data.Users {
			if id != userID && u.PhoneNumber == *upd.PhoneNumber {
				return nil, domain.ErrDuplicatePhone
			}
		}
	}

	changes := make(map[string]any)
	if upd.Name != nil {
		user.Name = *upd.Name
		changes["name"] = *upd.Name
	}
	if upd.PhoneNumber != nil {
		user.PhoneNumber = *upd.PhoneNumber
		changes["phone_number"] = *upd.PhoneNumber
	}
	if upd.IsActive != nil {
		user.IsActive = *upd.IsActive
		changes["is_active"] = *upd.IsActive
	}
	user.UpdatedAt = s.now()

	switch user.Role {
	case domain.RoleClient:
		if c, ok := s.data.Clients[userID]; ok {
			c.User = *user
			if upd.Profile != nil {
				c.ProfileData = *upd.Profile
				changes["profile_data"] = *upd.Profile
			}
		}
	case domain.RoleAdmin:
		if a, ok := s.data.Admins[userID]; ok {
			a.User = *user
		}
	}

	s.logChange(domain.EntityUser, userID, domain.ActionUpdate, changes, updatedBy)
	if err := s.persist(ctx); err != nil {
		return nil, err
	}
	out := *user
	return &out, nil
}

// CreateSession stores a login session and bumps the owning client's
// lastActive in the same write-through. Sessions are not change-logged.
func (s *Store) CreateSession(ctx context.Context, session domain.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureInit(ctx); err != nil {
		return err
	}
	sess := session
	s.data.Sessions[sess.ID] = &sess
	if c, ok := s.data.Clients[sess.UserID]; ok {
		c.LastActive = s.now()
	}
	return s.persist(ctx)
}

// SessionByToken finds a session by its token value, nil when absent.
// Expiry is the caller's concern; sessions are never swept.
func (s *Store) SessionByToken(ctx context.Context, token string) (*domain.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureInit(ctx); err != nil {
		return nil, err
	}
	for _, sess := range s.data.Sessions {
		if sess.Token == token {
			out := *sess
			return &out, nil
		}
	}
	return nil, nil
}
