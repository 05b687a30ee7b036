// Package domain holds the persistent entities and the repository contracts
// the storage drivers implement.
package domain

import "time"

// User is an account keyed by its upstream identity (provider, provider_id).
// Email and AvatarURL are nil when the provider did not supply them.
type User struct {
	ID          string     `json:"id"`
	Provider    string     `json:"provider"`
	ProviderID  string     `json:"provider_id"`
	Email       *string    `json:"email,omitempty"`
	DisplayName string     `json:"display_name"`
	AvatarURL   *string    `json:"avatar_url,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// NewUser is the upstream identity a login resolves to. FindOrCreate keys on
// (Provider, ProviderID) and refreshes the mutable profile fields on repeat
// logins.
type NewUser struct {
	Provider    string
	ProviderID  string
	Email       *string
	DisplayName string
	AvatarURL   *string
}

// RefreshToken is a stored refresh credential. Only the SHA-256 hash of the
// secret is persisted; the secret itself exists once, in the login response.
type RefreshToken struct {
	ID        string
	UserID    string
	TokenHash string
	ExpiresAt time.Time
	CreatedAt time.Time
}

// Todo is a user-scoped task.
type Todo struct {
	ID          string    `json:"id"`
	UserID      string    `json:"-"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Completed   bool      `json:"completed"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// UpdateTodo carries a partial update; nil fields are left untouched.
type UpdateTodo struct {
	Title       *string
	Description *string
	Completed   *bool
}
