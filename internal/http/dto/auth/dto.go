// Package auth holds the wire shapes of the auth endpoints.
package auth

import (
	"time"

	"github.com/todolabs/todolist/internal/domain"
)

// LoginRequest is the POST login/callback body. Either Code (+ State) or
// AccessToken is set; Code wins when both are present.
type LoginRequest struct {
	Code        string `json:"code,omitempty"`
	State       string `json:"state,omitempty"`
	AccessToken string `json:"accessToken,omitempty"`
}

// RefreshRequest carries the refresh secret to rotate.
type RefreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// LogoutRequest carries the refresh secret to revoke.
type LogoutRequest struct {
	RefreshToken string `json:"refreshToken,omitempty"`
}

// UserResponse is the public account shape.
type UserResponse struct {
	ID           string  `json:"id"`
	Provider     string  `json:"provider"`
	Email        *string `json:"email,omitempty"`
	Nickname     string  `json:"nickname"`
	ProfileImage *string `json:"profileImage,omitempty"`
}

// SessionResponse is the login/refresh success payload.
type SessionResponse struct {
	Token        string       `json:"token"`
	RefreshToken string       `json:"refreshToken"`
	ExpiresAt    time.Time    `json:"expiresAt"`
	User         UserResponse `json:"user"`
}

// AuthURLResponse carries the provider authorization URL to redirect to.
type AuthURLResponse struct {
	URL string `json:"url"`
}

// ProvidersResponse lists the configured providers.
type ProvidersResponse struct {
	Providers []string `json:"providers"`
}

// UserFromDomain maps a domain user to its wire shape.
func UserFromDomain(u *domain.User) UserResponse {
	return UserResponse{
		ID:           u.ID,
		Provider:     u.Provider,
		Email:        u.Email,
		Nickname:     u.DisplayName,
		ProfileImage: u.AvatarURL,
	}
}
