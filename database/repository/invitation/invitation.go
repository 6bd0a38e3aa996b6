package invitationRepo

import "duet/models"

// InvitationRepository defines methods for invitation data access.
type InvitationRepository interface {
	// GetByToken retrieves an invitation by its token, or nil when absent.
	GetByToken(token string) (*models.Invitation, error)
	// GetPending finds a pending invitation from a user to an email,
	// or nil when none exists.
	GetPending(inviterID, inviteeEmail string) (*models.Invitation, error)
	// Create inserts a new invitation record.
	Create(inv *models.Invitation) error
	// UpdateStatus transitions an invitation's lifecycle state.
	UpdateStatus(id, status string) error
	// ExpirePending marks every pending invitation past its deadline as
	// expired and reports how many were updated.
	ExpirePending() (int64, error)
}
