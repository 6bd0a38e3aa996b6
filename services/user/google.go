package user

import (
	"context"
	"fmt"

	"duet/config"
	"duet/models"
	"duet/utils"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/calendar/v3"
	googleoauth "google.golang.org/api/oauth2/v2"
	"google.golang.org/api/option"
)

// oauthConfig builds the Google OAuth2 config from app configuration.
// Calendar scopes are requested up front so a login doubles as calendar
// consent.
func oauthConfig() *oauth2.Config {
	return &oauth2.Config{
		ClientID:     config.AppConfig.GoogleClientID,
		ClientSecret: config.AppConfig.GoogleClientSecret,
		RedirectURL:  config.AppConfig.GoogleRedirectURI,
		Scopes: []string{
			calendar.CalendarReadonlyScope,
			calendar.CalendarScope,
			googleoauth.UserinfoEmailScope,
			googleoauth.UserinfoProfileScope,
			"openid",
		},
		Endpoint: google.Endpoint,
	}
}

// GoogleAuthURL builds the consent URL. Offline access plus forced consent
// is what makes Google hand back a refresh token.
func (s *DefaultUserService) GoogleAuthURL(state string) string {
	return oauthConfig().AuthCodeURL(state, oauth2.AccessTypeOffline, oauth2.ApprovalForce)
}

// exchangeAndFetchProfile trades the code for tokens and reads the Google
// profile of the consenting user.
func exchangeAndFetchProfile(ctx context.Context, code string) (*oauth2.Token, *googleoauth.Userinfo, error) {
	cfg := oauthConfig()
	token, err := cfg.Exchange(ctx, code)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to exchange authorization code: %w", err)
	}

	svc, err := googleoauth.NewService(ctx, option.WithTokenSource(cfg.TokenSource(ctx, token)))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to build userinfo service: %w", err)
	}
	info, err := svc.Userinfo.Get().Do()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to fetch Google user info: %w", err)
	}
	return token, info, nil
}

// HandleGoogleCallback signs a user in via Google, creating the account on
// first sight and refreshing the stored refresh token afterwards.
func (s *DefaultUserService) HandleGoogleCallback(ctx context.Context, code string) (*models.LoginResponse, error) {
	token, info, err := exchangeAndFetchProfile(ctx, code)
	if err != nil {
		return nil, err
	}

	usr, err := s.Repo.GetByEmail(info.Email)
	if err != nil {
		utils.GetLogger().Error("HandleGoogleCallback: failed to look up user", zap.Error(err))
		return nil, fmt.Errorf("authentication failed, please try again")
	}

	if usr == nil {
		usr = &models.User{
			ID:                 uuid.New().String(),
			Email:              info.Email,
			FullName:           info.Name,
			GoogleRefreshToken: token.RefreshToken,
		}
		if err := s.Repo.Create(usr); err != nil {
			utils.GetLogger().Error("HandleGoogleCallback: failed to create user", zap.Error(err))
			return nil, fmt.Errorf("authentication failed, please try again")
		}
	} else {
		update := bson.M{"full_name": info.Name}
		// Google only returns a refresh token on consent; keep the old one
		// when the new exchange omits it.
		if token.RefreshToken != "" {
			update["google_refresh_token"] = token.RefreshToken
			usr.GoogleRefreshToken = token.RefreshToken
		}
		usr.FullName = info.Name
		if err := s.Repo.UpdateSetDocument(usr.ID, update); err != nil {
			utils.GetLogger().Error("HandleGoogleCallback: failed to update user", zap.Error(err))
			return nil, fmt.Errorf("authentication failed, please try again")
		}
	}

	return s.issueSession(usr)
}

// ConnectGoogleCalendar attaches a refresh token to an existing account.
func (s *DefaultUserService) ConnectGoogleCalendar(ctx context.Context, code, userID string) error {
	token, _, err := exchangeAndFetchProfile(ctx, code)
	if err != nil {
		return err
	}
	if token.RefreshToken == "" {
		return fmt.Errorf("google did not return a refresh token, please re-authorize")
	}
	if err := s.Repo.UpdateSetDocument(userID, bson.M{"google_refresh_token": token.RefreshToken}); err != nil {
		utils.GetLogger().Error("ConnectGoogleCalendar: failed to store refresh token", zap.Error(err))
		return fmt.Errorf("failed to connect calendar, please try again")
	}
	return nil
}
