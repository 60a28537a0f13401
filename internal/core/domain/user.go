package domain

import "time"

const (
	RoleAdmin  = "admin"
	RoleClient = "client"
)

// PermissionAll is the single permission tag granted to admins.
const PermissionAll = "all"

// User models an authenticated actor. The phone number doubles as the
// login handle and must be unique across all users.
type User struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	PhoneNumber string    `json:"phone_number"`
	Role        string    `json:"role"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	IsActive    bool      `json:"is_active"`
}

// ProfileData holds the free-form coaching profile of a client. All
// fields are optional.
type ProfileData struct {
	Age               int      `json:"age,omitempty"`
	WeightKg          float64  `json:"weight_kg,omitempty"`
	HeightCm          float64  `json:"height_cm,omitempty"`
	MedicalConditions []string `json:"medical_conditions,omitempty"`
	Goals             []string `json:"goals,omitempty"`
}

// Client is the client-role projection of a User.
type Client struct {
	User
	AdminID     string      `json:"admin_id,omitempty"`
	LastActive  time.Time   `json:"last_active"`
	ProfileData ProfileData `json:"profile_data"`
}

// Admin is the admin-role projection of a User.
type Admin struct {
	User
	ClientIDs   []string `json:"client_ids"`
	Permissions []string `json:"permissions"`
}

// UserUpdate carries the optional fields of an update call. Nil
// pointers mean "leave unchanged".
type UserUpdate struct {
	Name        *string
	PhoneNumber *string
	IsActive    *bool
	Profile     *ProfileData
}
