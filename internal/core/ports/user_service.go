package ports

import (
	"context"

	"github.com/habitcoach/coaching-system/internal/core/domain"
)

// RegisterInput carries a registration request.
type RegisterInput struct {
	Name        string
	PhoneNumber string
	Password    string
	Role        string
	// CreatedBy is set when an admin creates the account on someone's
	// behalf; empty for self-registration.
	CreatedBy string
}

// AuthResult is returned by a successful login.
type AuthResult struct {
	User  *domain.User
	Token string
}

// UserService defines registration, login and account maintenance.
type UserService interface {
	Register(ctx context.Context, in RegisterInput) (*domain.User, error)
	Login(ctx context.Context, phoneNumber, password string) (*AuthResult, error)
	// ResolveSession validates a bearer token against the session
	// records; expiry is checked here, at lookup time.
	ResolveSession(ctx context.Context, token string) (*domain.User, error)
	UpdateUser(ctx context.Context, userID string, upd domain.UserUpdate, updatedBy string) (*domain.User, error)
}
