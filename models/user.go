// models/user.go
package models

import "time"

// User represents a platform user. GoogleRefreshToken is only set once the
// user has connected their Google Calendar and must never leave the backend.
type User struct {
	ID                 string    `bson:"id" json:"id"`
	Email              string    `bson:"email" json:"email"`
	FullName           string    `bson:"full_name" json:"full_name,omitempty"`
	PasswordHash       string    `bson:"password_hash,omitempty" json:"-"`
	GoogleRefreshToken string    `bson:"google_refresh_token,omitempty" json:"-"`
	TokenHash          string    `bson:"token_hash,omitempty" json:"-"`
	CreatedAt          time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt          time.Time `bson:"updated_at" json:"updated_at"`
}

// UserResponse is the public view of a user (no tokens, no hashes).
type UserResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	FullName  string    `json:"full_name,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// PublicView strips credentials from a user record.
func (u *User) PublicView() UserResponse {
	return UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		FullName:  u.FullName,
		CreatedAt: u.CreatedAt,
	}
}

// RegisterRequest is the email/password signup payload.
type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	FullName string `json:"full_name" binding:"required"`
}

// LoginRequest is the email/password signin payload.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse carries the session token plus the public user.
type LoginResponse struct {
	AccessToken string       `json:"access_token"`
	TokenType   string       `json:"token_type"`
	User        UserResponse `json:"user"`
}

// GoogleAuthURL wraps the OAuth consent URL handed to the client.
type GoogleAuthURL struct {
	AuthURL string `json:"auth_url"`
}
