package user

import (
	"context"
	"fmt"
	"time"

	"duet/config"
	"duet/models"
	"duet/utils"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// bcrypt silently ignores input past 72 bytes; truncate explicitly so
// hashing and verification always see the same bytes.
const maxPasswordBytes = 72

func truncatePassword(password string) []byte {
	b := []byte(password)
	if len(b) > maxPasswordBytes {
		b = b[:maxPasswordBytes]
	}
	return b
}

// issueSession generates a JWT for the user, records its hash, and builds
// the login response.
func (s *DefaultUserService) issueSession(usr *models.User) (*models.LoginResponse, error) {
	duration := time.Duration(config.AppConfig.JWTExpirationMinutes) * time.Minute
	token, err := utils.GenerateToken(usr.ID, usr.Email, duration)
	if err != nil {
		utils.GetLogger().Error("issueSession: token generation failed", zap.Error(err))
		return nil, fmt.Errorf("authentication failed, please try again")
	}

	tokenHash := utils.HashToken(token)
	if err := s.Repo.UpdateSetDocument(usr.ID, bson.M{"token_hash": tokenHash}); err != nil {
		utils.GetLogger().Error("issueSession: failed to store token hash", zap.Error(err))
		return nil, fmt.Errorf("authentication failed, please try again")
	}

	// Prime the auth cache so the first authenticated request skips Mongo.
	cacheKey := utils.AuthCachePrefix + usr.ID
	if err := utils.GetAuthCacheClient().Set(context.Background(), cacheKey, tokenHash, time.Hour).Err(); err != nil {
		utils.GetLogger().Warn("issueSession: failed to prime auth cache", zap.Error(err))
	}

	return &models.LoginResponse{
		AccessToken: token,
		TokenType:   "bearer",
		User:        usr.PublicView(),
	}, nil
}

// RegisterUser creates an email/password account.
func (s *DefaultUserService) RegisterUser(req models.RegisterRequest) (*models.LoginResponse, error) {
	existing, err := s.Repo.GetByEmail(req.Email)
	if err != nil {
		utils.GetLogger().Error("RegisterUser: failed to check for existing user", zap.Error(err))
		return nil, fmt.Errorf("registration failed, please try again")
	}
	if existing != nil {
		return nil, fmt.Errorf("email %s is already registered", req.Email)
	}

	hash, err := bcrypt.GenerateFromPassword(truncatePassword(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("registration failed, please try again")
	}

	usr := &models.User{
		ID:           uuid.New().String(),
		Email:        req.Email,
		FullName:     req.FullName,
		PasswordHash: string(hash),
	}
	if err := s.Repo.Create(usr); err != nil {
		utils.GetLogger().Error("RegisterUser: failed to create user", zap.Error(err))
		return nil, fmt.Errorf("registration failed, please try again")
	}

	return s.issueSession(usr)
}

// AuthenticateUser verifies email/password credentials.
func (s *DefaultUserService) AuthenticateUser(req models.LoginRequest) (*models.LoginResponse, error) {
	usr, err := s.Repo.GetByEmail(req.Email)
	if err != nil {
		utils.GetLogger().Error("AuthenticateUser: failed to fetch user", zap.Error(err))
		return nil, fmt.Errorf("authentication failed, please try again")
	}
	if usr == nil {
		return nil, fmt.Errorf("invalid email or password")
	}
	if usr.PasswordHash == "" {
		return nil, fmt.Errorf("this account uses Google sign-in, please sign in with Google")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(usr.PasswordHash), truncatePassword(req.Password)); err != nil {
		return nil, fmt.Errorf("invalid email or password")
	}

	return s.issueSession(usr)
}

// GetUserByID fetches a user record.
func (s *DefaultUserService) GetUserByID(userID string) (*models.User, error) {
	usr, err := s.Repo.GetByID(userID)
	if err != nil {
		return nil, err
	}
	if usr == nil {
		return nil, fmt.Errorf("user with id %s not found", userID)
	}
	return usr, nil
}
