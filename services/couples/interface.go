package couples

import (
	coupleRepo "duet/database/repository/couple"
	invitationRepo "duet/database/repository/invitation"
	userRepo "duet/database/repository/user"
	"duet/models"
)

// CouplesService defines business logic for linking two accounts.
type CouplesService interface {
	// CreateInvitation issues (or re-returns) a pending invitation from a
	// user to an email address.
	CreateInvitation(inviterID, inviteeEmail string) (*models.InvitationResponse, error)
	// AcceptInvitation redeems a token and forms the couple.
	AcceptInvitation(token, accepterID string) (*models.CoupleResponse, error)
	// GetPartner returns the partner of a coupled user, or nil when the
	// user is not in a couple.
	GetPartner(userID string) (*models.CoupleResponse, error)
}

// DefaultCouplesService is the production implementation.
type DefaultCouplesService struct {
	Couples     coupleRepo.CoupleRepository
	Invitations invitationRepo.InvitationRepository
	Users       userRepo.UserRepository
}
