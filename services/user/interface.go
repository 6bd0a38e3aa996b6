package user

import (
	"context"

	userRepo "duet/database/repository/user"
	"duet/models"
)

// UserService defines business logic for account and session operations.
type UserService interface {
	// RegisterUser creates an email/password account and signs the user in.
	RegisterUser(req models.RegisterRequest) (*models.LoginResponse, error)
	// AuthenticateUser verifies credentials and returns a session token.
	AuthenticateUser(req models.LoginRequest) (*models.LoginResponse, error)
	// GetUserByID fetches a user record.
	GetUserByID(userID string) (*models.User, error)

	// GoogleAuthURL builds the OAuth consent URL for login or for
	// connecting a calendar to an existing account.
	GoogleAuthURL(state string) string
	// HandleGoogleCallback exchanges the authorization code, creates or
	// updates the account, stores the refresh token, and signs the user in.
	HandleGoogleCallback(ctx context.Context, code string) (*models.LoginResponse, error)
	// ConnectGoogleCalendar exchanges the authorization code and attaches
	// the refresh token to an existing account.
	ConnectGoogleCalendar(ctx context.Context, code, userID string) error
}

// DefaultUserService is the production implementation.
type DefaultUserService struct {
	Repo userRepo.UserRepository
}
