package couples

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"time"

	"duet/models"
	"duet/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// invitationTTL is how long an invitation token stays redeemable.
const invitationTTL = 7 * 24 * time.Hour

// newInvitationToken returns a 32-byte URL-safe random token.
func newInvitationToken() (string, error) {
	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return "", fmt.Errorf("failed to generate invitation token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(raw), nil
}

// CreateInvitation issues a pending invitation. Re-inviting the same email
// while a pending invitation exists returns the existing one instead of
// minting a second token.
func (s *DefaultCouplesService) CreateInvitation(inviterID, inviteeEmail string) (*models.InvitationResponse, error) {
	existingCouple, err := s.Couples.GetByUserID(inviterID)
	if err != nil {
		utils.GetLogger().Error("CreateInvitation: couple lookup failed", zap.Error(err))
		return nil, fmt.Errorf("failed to create invitation, please try again")
	}
	if existingCouple != nil {
		return nil, fmt.Errorf("you are already in a couple")
	}

	inviter, err := s.Users.GetByID(inviterID)
	if err != nil || inviter == nil {
		utils.GetLogger().Error("CreateInvitation: inviter lookup failed", zap.Error(err))
		return nil, fmt.Errorf("failed to create invitation, please try again")
	}
	if inviter.Email == inviteeEmail {
		return nil, fmt.Errorf("you cannot invite yourself")
	}

	if existing, err := s.Invitations.GetPending(inviterID, inviteeEmail); err != nil {
		utils.GetLogger().Error("CreateInvitation: pending lookup failed", zap.Error(err))
		return nil, fmt.Errorf("failed to create invitation, please try again")
	} else if existing != nil {
		return &models.InvitationResponse{
			InvitationID: existing.ID,
			InviteeEmail: existing.InviteeEmail,
			Token:        existing.Token,
			ExpiresAt:    existing.ExpiresAt,
		}, nil
	}

	token, err := newInvitationToken()
	if err != nil {
		return nil, err
	}

	inv := &models.Invitation{
		ID:           uuid.New().String(),
		InviterID:    inviterID,
		InviteeEmail: inviteeEmail,
		Token:        token,
		Status:       models.InvitationPending,
		ExpiresAt:    time.Now().Add(invitationTTL),
	}
	if err := s.Invitations.Create(inv); err != nil {
		utils.GetLogger().Error("CreateInvitation: insert failed", zap.Error(err))
		return nil, fmt.Errorf("failed to create invitation, please try again")
	}

	return &models.InvitationResponse{
		InvitationID: inv.ID,
		InviteeEmail: inv.InviteeEmail,
		Token:        inv.Token,
		ExpiresAt:    inv.ExpiresAt,
	}, nil
}

// AcceptInvitation redeems a token and forms the couple. Every rule the
// original flow enforces is checked here: token validity, single use,
// expiry, invitee identity, and both parties still being single.
func (s *DefaultCouplesService) AcceptInvitation(token, accepterID string) (*models.CoupleResponse, error) {
	inv, err := s.Invitations.GetByToken(token)
	if err != nil {
		utils.GetLogger().Error("AcceptInvitation: token lookup failed", zap.Error(err))
		return nil, fmt.Errorf("failed to accept invitation, please try again")
	}
	if inv == nil {
		return nil, fmt.Errorf("invalid invitation token")
	}
	if inv.Status != models.InvitationPending {
		return nil, fmt.Errorf("invitation has already been used")
	}
	if time.Now().After(inv.ExpiresAt) {
		if err := s.Invitations.UpdateStatus(inv.ID, models.InvitationExpired); err != nil {
			utils.GetLogger().Warn("AcceptInvitation: failed to mark invitation expired", zap.Error(err))
		}
		return nil, fmt.Errorf("invitation has expired")
	}

	accepter, err := s.Users.GetByID(accepterID)
	if err != nil {
		utils.GetLogger().Error("AcceptInvitation: accepter lookup failed", zap.Error(err))
		return nil, fmt.Errorf("failed to accept invitation, please try again")
	}
	if accepter == nil {
		return nil, fmt.Errorf("user not found")
	}
	if accepter.Email != inv.InviteeEmail {
		return nil, fmt.Errorf("this invitation is not for you")
	}

	if existing, err := s.Couples.GetByUserID(accepterID); err != nil {
		return nil, fmt.Errorf("failed to accept invitation, please try again")
	} else if existing != nil {
		return nil, fmt.Errorf("you are already in a couple")
	}
	// The inviter may have accepted someone else's invitation in the meantime.
	if existing, err := s.Couples.GetByUserID(inv.InviterID); err != nil {
		return nil, fmt.Errorf("failed to accept invitation, please try again")
	} else if existing != nil {
		return nil, fmt.Errorf("the person who invited you is already in a couple")
	}

	couple := &models.Couple{
		ID:         uuid.New().String(),
		Partner1ID: inv.InviterID,
		Partner2ID: accepterID,
	}
	if err := s.Couples.Create(couple); err != nil {
		utils.GetLogger().Error("AcceptInvitation: couple insert failed", zap.Error(err))
		return nil, fmt.Errorf("failed to accept invitation, please try again")
	}

	if err := s.Invitations.UpdateStatus(inv.ID, models.InvitationAccepted); err != nil {
		utils.GetLogger().Warn("AcceptInvitation: failed to mark invitation accepted", zap.Error(err))
	}

	inviter, err := s.Users.GetByID(inv.InviterID)
	if err != nil || inviter == nil {
		utils.GetLogger().Error("AcceptInvitation: inviter lookup failed", zap.Error(err))
		return nil, fmt.Errorf("failed to accept invitation, please try again")
	}

	return &models.CoupleResponse{
		CoupleID:  couple.ID,
		Partner:   inviter.PublicView(),
		CreatedAt: couple.CreatedAt,
	}, nil
}

// GetPartner returns the partner of a coupled user, or nil when single.
func (s *DefaultCouplesService) GetPartner(userID string) (*models.CoupleResponse, error) {
	couple, err := s.Couples.GetByUserID(userID)
	if err != nil {
		utils.GetLogger().Error("GetPartner: couple lookup failed", zap.Error(err))
		return nil, fmt.Errorf("failed to look up partner, please try again")
	}
	if couple == nil {
		return nil, nil
	}

	partner, err := s.Users.GetByID(couple.OtherPartner(userID))
	if err != nil || partner == nil {
		utils.GetLogger().Error("GetPartner: partner lookup failed", zap.Error(err))
		return nil, fmt.Errorf("failed to look up partner, please try again")
	}

	return &models.CoupleResponse{
		CoupleID:  couple.ID,
		Partner:   partner.PublicView(),
		CreatedAt: couple.CreatedAt,
	}, nil
}
