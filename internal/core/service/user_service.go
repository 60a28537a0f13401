package service

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/habitcoach/coaching-system/internal/api/metrics"
	"github.com/habitcoach/coaching-system/internal/core/domain"
	"github.com/habitcoach/coaching-system/internal/core/ports"
)

// dummyHash is compared against when the phone number resolves to no
// user, so the unknown-phone and wrong-password paths cost the same.
const dummyHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

// UserService implements registration, login and session resolution.
type UserService struct {
	store     ports.UserStore
	jwtSecret string
	log       zerolog.Logger
}

// NewUserService builds a UserService over the record store.
func NewUserService(store ports.UserStore, jwtSecret string, log zerolog.Logger) *UserService {
	return &UserService{store: store, jwtSecret: jwtSecret, log: log}
}

// Register creates an account. The password is hashed before it
// reaches the store; plaintext is never persisted.
func (s *UserService) Register(ctx context.Context, in ports.RegisterInput) (*domain.User, error) {
	if in.Name == "" || in.PhoneNumber == "" || in.Password == "" {
		return nil, domain.ErrValidation
	}
	if in.Role != domain.RoleAdmin && in.Role != domain.RoleClient {
		return nil, domain.ErrValidation
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user, err := s.store.CreateUser(ctx, ports.NewUserInput{
		Name:         in.Name,
		PhoneNumber:  in.PhoneNumber,
		Role:         in.Role,
		PasswordHash: string(hash),
		CreatedBy:    in.CreatedBy,
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("user_id", user.ID).Str("role", user.Role).Msg("user registered")
	return user, nil
}

// Login authenticates by phone number and password, mints a session
// with a 24-hour expiry, and returns the signed token. Unknown phone
// and wrong password are indistinguishable to the caller.
func (s *UserService) Login(ctx context.Context, phoneNumber, password string) (*ports.AuthResult, error) {
	if phoneNumber == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	user, err := s.store.ActiveUserByPhone(ctx, phoneNumber)
	if err != nil {
		return nil, err
	}
	if user == nil {
		_ = bcrypt.CompareHashAndPassword([]byte(dummyHash), []byte(password))
		metrics.LoginsTotal.WithLabelValues("failure").Inc()
		return nil, domain.ErrInvalidCredentials
	}

	hash, err := s.store.PasswordHash(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) != nil {
		metrics.LoginsTotal.WithLabelValues("failure").Inc()
		return nil, domain.ErrInvalidCredentials
	}

	now := time.Now().UTC()
	token, err := s.signToken(user, now)
	if err != nil {
		return nil, err
	}

	if err := s.store.CreateSession(ctx, domain.Session{
		ID:        "session-" + uuid.NewString(),
		UserID:    user.ID,
		Token:     token,
		ExpiresAt: now.Add(domain.SessionTTL),
		CreatedAt: now,
	}); err != nil {
		return nil, err
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	s.log.Info().Str("user_id", user.ID).Msg("login")
	return &ports.AuthResult{User: user, Token: token}, nil
}

// ResolveSession validates a bearer token: signature first, then the
// persisted session record. Expiry is checked here, at lookup time;
// expired sessions are never swept, only rejected.
func (s *UserService) ResolveSession(ctx context.Context, token string) (*domain.User, error) {
	claims := jwt.MapClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return []byte(s.jwtSecret), nil
	})
	if err != nil || !parsed.Valid {
		return nil, domain.ErrInvalidCredentials
	}

	session, err := s.store.SessionByToken(ctx, token)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, domain.ErrInvalidCredentials
	}
	if session.ExpiredAt(time.Now().UTC()) {
		return nil, domain.ErrSessionExpired
	}

	user, err := s.store.UserByID(ctx, session.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil || !user.IsActive {
		return nil, domain.ErrInvalidCredentials
	}
	return user, nil
}

// UpdateUser merges partial fields into an account.
func (s *UserService) UpdateUser(ctx context.Context, userID string, upd domain.UserUpdate, updatedBy string) (*domain.User, error) {
	user, err := s.store.UpdateUser(ctx, userID, upd, updatedBy)
	if err != nil {
		return nil, err
	}
	s.log.Info().Str("user_id", userID).Str("updated_by", updatedBy).Msg("user updated")
	return user, nil
}

func (s *UserService) signToken(user *domain.User, now time.Time) (string, error) {
	claims := jwt.MapClaims{
		"sub":  user.ID,
		"role": user.Role,
		"exp":  now.Add(domain.SessionTTL).Unix(),
		"iat":  now.Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.jwtSecret))
}
