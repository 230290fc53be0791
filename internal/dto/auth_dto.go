package dto

import "time"

// SignupRequest captures the signup form.
type SignupRequest struct {
	Username string `json:"username" form:"username" validate:"required,min=3,max=50"`
	Email    string `json:"email" form:"email" validate:"required,email,max=100"`
	Password string `json:"password" form:"password" validate:"required,min=6,max=72"`
}

// LoginRequest captures the login form and the token exchange payload.
type LoginRequest struct {
	Email    string `json:"email" form:"email" validate:"required,email"`
	Password string `json:"password" form:"password" validate:"required"`
}

// UserResponse is the public view of an account.
type UserResponse struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email,omitempty"`
}

// TokenResponse carries an issued access token.
type TokenResponse struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// LoginView is rendered on the landing page.
type LoginView struct {
	Page string `json:"page"`
}

// DashboardView lists the roles a user may interview for.
type DashboardView struct {
	Username string     `json:"username"`
	Roles    []RoleView `json:"roles"`
}

// RoleView is one selectable role.
type RoleView struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Focus string `json:"focus,omitempty"`
}
