package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/habitcoach/coaching-system/internal/core/domain"
	"github.com/habitcoach/coaching-system/internal/core/ports"
	"github.com/habitcoach/coaching-system/internal/infrastructure/db/memory"
)

// testClock is a controllable time source shared by a test and its store.
type testClock struct {
	now time.Time
}

func (c *testClock) Now() time.Time { return c.now }

func (c *testClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func newTestStore(t *testing.T) (*Store, *testClock) {
	t.Helper()
	clock := &testClock{now: time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)}
	seq := 0
	s := New(memory.New(), zerolog.Nop(),
		WithClock(clock.Now),
		WithIDGenerator(func() string {
			seq++
			return fmt.Sprintf("id-%04d", seq)
		}),
	)
	return s, clock
}

func TestSeedFixtures(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	admin, err := s.AdminByID(ctx, "admin-1")
	if err != nil {
		t.Fatalf("AdminByID: %v", err)
	}
	if admin == nil {
		t.Fatal("expected seeded admin-1")
	}
	if len(admin.ClientIDs) != 1 || admin.ClientIDs[0] != "client-1" {
		t.Fatalf("unexpected roster: %v", admin.ClientIDs)
	}

	client, err := s.ClientByID(ctx, "client-1")
	if err != nil {
		t.Fatalf("ClientByID: %v", err)
	}
	if client == nil {
		t.Fatal("expected seeded client-1")
	}
	if client.AdminID != "admin-1" {
		t.Fatalf("expected client assigned to admin-1, got %q", client.AdminID)
	}
}

func TestCreateUser_DuplicatePhone(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	first, err := s.CreateUser(ctx, ports.NewUserInput{
		Name:         "Dana",
		PhoneNumber:  "+111",
		Role:         domain.RoleClient,
		PasswordHash: "hash",
	})
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	if first.ID == "" || !first.IsActive {
		t.Fatalf("unexpected user: %+v", first)
	}

	_, err = s.CreateUser(ctx, ports.NewUserInput{
		Name:         "Eve",
		PhoneNumber:  "+111",
		Role:         domain.RoleClient,
		PasswordHash: "hash2",
	})
	if !errors.Is(err, domain.ErrDuplicatePhone) {
		t.Fatalf("expected ErrDuplicatePhone, got %v", err)
	}
}

func TestCreateUser_UnknownRole(t *testing.T) {
	s, _ := newTestStore(t)

	_, err := s.CreateUser(context.Background(), ports.NewUserInput{
		Name:        "X",
		PhoneNumber: "+222",
		Role:        "superuser",
	})
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestPasswordHash_SeparateFromSnapshot(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	user, err := s.CreateUser(ctx, ports.NewUserInput{
		Name:         "Dana",
		PhoneNumber:  "+333",
		Role:         domain.RoleClient,
		PasswordHash: "bcrypt-hash",
	})
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}

	hash, err := s.PasswordHash(ctx, user.ID)
	if err != nil {
		t.Fatalf("PasswordHash: %v", err)
	}
	if hash != "bcrypt-hash" {
		t.Fatalf("expected stored hash, got %q", hash)
	}

	snapshot, err := s.ExportSnapshot(ctx)
	if err != nil {
		t.Fatalf("ExportSnapshot: %v", err)
	}
	if strings.Contains(string(snapshot), "bcrypt-hash") {
		t.Fatal("export must not carry credentials")
	}
}

func TestActiveUserByPhone_SkipsInactive(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	user, err := s.CreateUser(ctx, ports.NewUserInput{
		Name:         "Dana",
		PhoneNumber:  "+444",
		Role:         domain.RoleClient,
		PasswordHash: "h",
	})
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}

	inactive := false
	if _, err := s.UpdateUser(ctx, user.ID, domain.UserUpdate{IsActive: &inactive}, "admin-1"); err != nil {
		t.Fatalf("UpdateUser: %v", err)
	}

	found, err := s.ActiveUserByPhone(ctx, "+444")
	if err != nil {
		t.Fatalf("ActiveUserByPhone: %v", err)
	}
	if found != nil {
		t.Fatal("deactivated user must not be found by phone")
	}
}

func TestUpdateUser_MergesAndLogs(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	name := "Renamed Client"
	updated, err := s.UpdateUser(ctx, "client-1", domain.UserUpdate{
		Name:    &name,
		Profile: &domain.ProfileData{Age: 41, Goals: []string{"sleep"}},
	}, "admin-1")
	if err != nil {
		t.Fatalf("UpdateUser: %v", err)
	}
	if updated.Name != name {
		t.Fatalf("expected name %q, got %q", name, updated.Name)
	}

	// projection stays in sync
	client, err := s.ClientByID(ctx, "client-1")
	if err != nil {
		t.Fatalf("ClientByID: %v", err)
	}
	if client.Name != name || client.ProfileData.Age != 41 {
		t.Fatalf("projection out of sync: %+v", client)
	}

	logs, err := s.ChangeLogs(ctx, ports.ChangeLogFilter{EntityType: domain.EntityUser, EntityID: "client-1"})
	if err != nil {
		t.Fatalf("ChangeLogs: %v", err)
	}
	if len(logs) != 1 || logs[0].Action != domain.ActionUpdate || logs[0].UserID != "admin-1" {
		t.Fatalf("unexpected change log: %+v", logs)
	}
}

func TestUpdateUser_RejectsTakenPhone(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	taken := "+1234567890" // seeded admin's number
	name := "Mutated Name"
	_, err := s.UpdateUser(ctx, "client-1", domain.UserUpdate{Name: &name, PhoneNumber: &taken}, "admin-1")
	if !errors.Is(err, domain.ErrDuplicatePhone) {
		t.Fatalf("expected ErrDuplicatePhone, got %v", err)
	}

	// a rejected update must not leave partial changes behind
	u, err := s.UserByID(ctx, "client-1")
	if err != nil {
		t.Fatalf("UserByID: %v", err)
	}
	if u.Name == name {
		t.Fatal("failed update mutated the stored name")
	}
	if u.PhoneNumber == taken {
		t.Fatal("failed update mutated the stored phone number")
	}
}

// recordingBackingStore captures the order of Set calls.
type recordingBackingStore struct {
	ports.BackingStore
	keys []string
}

func (r *recordingBackingStore) Set(ctx context.Context, key string, blob []byte) error {
	r.keys = append(r.keys, key)
	return r.BackingStore.Set(ctx, key, blob)
}

func TestPersist_FixedWriteOrder(t *testing.T) {
	backing := &recordingBackingStore{BackingStore: memory.New()}
	s := New(backing, zerolog.Nop())
	ctx := context.Background()

	if _, err := s.CreateUser(ctx, ports.NewUserInput{
		Name:         "Order Check",
		PhoneNumber:  "+1999000111",
		Role:         domain.RoleClient,
		PasswordHash: "hash",
	}); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}

	// the seed persist plus the create persist, both in the same order
	want := []string{keyDatabase, keyChangeLogs, keyCredentials}
	if len(backing.keys)%len(want) != 0 {
		t.Fatalf("unexpected write count %d: %v", len(backing.keys), backing.keys)
	}
	for i, key := range backing.keys {
		if key != want[i%len(want)] {
			t.Fatalf("write %d: expected %s, got %s (%v)", i, want[i%len(want)], key, backing.keys)
		}
	}
}

func TestUpdateUser_NotFound(t *testing.T) {
	s, _ := newTestStore(t)

	_, err := s.UpdateUser(context.Background(), "ghost", domain.UserUpdate{}, "admin-1")
	if !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestCreateSession_BumpsLastActive(t *testing.T) {
	s, clock := newTestStore(t)
	ctx := context.Background()

	before, _ := s.ClientByID(ctx, "client-1")
	clock.Advance(2 * time.Hour)

	sess := domain.Session{
		ID:        "session-1",
		UserID:    "client-1",
		Token:     "tok-abc",
		CreatedAt: clock.Now(),
		ExpiresAt: clock.Now().Add(domain.SessionTTL),
	}
	if err := s.CreateSession(ctx, sess); err != nil {
		t.Fatalf("CreateSession: %v", err)
	}

	after, _ := s.ClientByID(ctx, "client-1")
	if !after.LastActive.After(before.LastActive) {
		t.Fatalf("lastActive not bumped: before=%v after=%v", before.LastActive, after.LastActive)
	}

	got, err := s.SessionByToken(ctx, "tok-abc")
	if err != nil {
		t.Fatalf("SessionByToken: %v", err)
	}
	if got == nil || got.ID != "session-1" {
		t.Fatalf("unexpected session: %+v", got)
	}
	if got.ExpiredAt(clock.Now()) {
		t.Fatal("fresh session must not be expired")
	}
	if !got.ExpiredAt(clock.Now().Add(domain.SessionTTL + time.Second)) {
		t.Fatal("session must expire after its TTL")
	}
}

func TestSessionByToken_Absent(t *testing.T) {
	s, _ := newTestStore(t)

	got, err := s.SessionByToken(context.Background(), "no-such-token")
	if err != nil {
		t.Fatalf("SessionByToken: %v", err)
	}
	if got != nil {
		t.Fatalf("expected nil, got %+v", got)
	}
}

func TestReloadFromBacking(t *testing.T) {
	ctx := context.Background()
	backing := memory.New()
	clock := &testClock{now: time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)}

	first := New(backing, zerolog.Nop(), WithClock(clock.Now))
	user, err := first.CreateUser(ctx, ports.NewUserInput{
		Name:         "Persisted",
		PhoneNumber:  "+555",
		Role:         domain.RoleClient,
		PasswordHash: "h",
	})
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}

	// a second store over the same backing sees the same state
	second := New(backing, zerolog.Nop(), WithClock(clock.Now))
	got, err := second.UserByID(ctx, user.ID)
	if err != nil {
		t.Fatalf("UserByID: %v", err)
	}
	if got == nil || got.Name != "Persisted" {
		t.Fatalf("expected persisted user, got %+v", got)
	}

	hash, err := second.PasswordHash(ctx, user.ID)
	if err != nil {
		t.Fatalf("PasswordHash: %v", err)
	}
	if hash != "h" {
		t.Fatalf("credentials not reloaded: %q", hash)
	}
}

func TestClearAll_Reseeds(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	if _, err := s.CreateUser(ctx, ports.NewUserInput{
		Name: "Temp", PhoneNumber: "+666", Role: domain.RoleClient, PasswordHash: "h",
	}); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}

	if err := s.ClearAll(ctx); err != nil {
		t.Fatalf("ClearAll: %v", err)
	}

	found, err := s.ActiveUserByPhone(ctx, "+666")
	if err != nil {
		t.Fatalf("ActiveUserByPhone: %v", err)
	}
	if found != nil {
		t.Fatal("cleared user still present")
	}

	admin, err := s.AdminByID(ctx, "admin-1")
	if err != nil {
		t.Fatalf("AdminByID: %v", err)
	}
	if admin == nil {
		t.Fatal("fixtures not reseeded after clear")
	}
}
