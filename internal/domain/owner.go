package domain

import "time"

// ============================================================
// Business owners and sessions
// ============================================================

// BusinessOwner is an admin-created login linked to at most one provider.
type BusinessOwner struct {
	ID           string    `json:"id"`
	ProviderID   int64     `json:"provider_id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	FullName     string    `json:"full_name"`
	CreatedAt    time.Time `json:"created_at"`
}

// OwnerInput is the admin "create owner" body.
type OwnerInput struct {
	FullName   string `json:"full_name" validate:"required"`
	Email      string `json:"email" validate:"required,email"`
	Password   string `json:"password" validate:"required,min=6"`
	ProviderID int64  `json:"provider_id" validate:"required,gt=0"`
}

// OwnerView is an owner row joined with the provider name.
type OwnerView struct {
	BusinessOwner
	ProviderName string `json:"provider_name"`
}

// Role distinguishes the two back-office audiences.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleOwner Role = "owner"
)

// LoginRequest is the body for both login endpoints.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse carries the issued session token.
type LoginResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
	Role        Role   `json:"role"`
	Subject     string `json:"subject"`
	ProviderID  int64  `json:"provider_id,omitempty"`
}

// Session is the identity extracted from a valid token.
type Session struct {
	Role       Role
	Subject    string
	ProviderID int64
}

// PasswordResetRequest is the admin "reset owner password" body.
type PasswordResetRequest struct {
	Password string `json:"password" validate:"required,min=6"`
}
