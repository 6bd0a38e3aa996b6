// models/couple.go
package models

import "time"

// Invitation lifecycle states.
const (
	InvitationPending  = "pending"
	InvitationAccepted = "accepted"
	InvitationExpired  = "expired"
)

// Couple links two user accounts. A user may belong to at most one couple,
// on either side.
type Couple struct {
	ID         string    `bson:"id" json:"id"`
	Partner1ID string    `bson:"partner1_id" json:"partner1_id"`
	Partner2ID string    `bson:"partner2_id" json:"partner2_id"`
	CreatedAt  time.Time `bson:"created_at" json:"created_at"`
}

// OtherPartner returns the partner ID that is not userID.
func (c *Couple) OtherPartner(userID string) string {
	if c.Partner1ID == userID {
		return c.Partner2ID
	}
	return c.Partner1ID
}

// Invitation is a pending link request from one user to an email address.
// The token is single-use and expires after seven days.
type Invitation struct {
	ID           string    `bson:"id" json:"id"`
	InviterID    string    `bson:"inviter_id" json:"inviter_id"`
	InviteeEmail string    `bson:"invitee_email" json:"invitee_email"`
	Token        string    `bson:"token" json:"token"`
	Status       string    `bson:"status" json:"status"`
	CreatedAt    time.Time `bson:"created_at" json:"created_at"`
	ExpiresAt    time.Time `bson:"expires_at" json:"expires_at"`
}

// InvitationCreate is the request payload for POST /couples/invite.
type InvitationCreate struct {
	InviteeEmail string `json:"invitee_email" binding:"required,email"`
}

// InvitationResponse is returned after creating (or re-fetching) an invitation.
type InvitationResponse struct {
	InvitationID string    `json:"invitation_id"`
	InviteeEmail string    `json:"invitee_email"`
	Token        string    `json:"token"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// AcceptInvitationRequest is the request payload for POST /couples/accept.
type AcceptInvitationRequest struct {
	Token string `json:"token" binding:"required"`
}

// CoupleResponse describes the couple from the requesting user's side.
type CoupleResponse struct {
	CoupleID  string       `json:"couple_id"`
	Partner   UserResponse `json:"partner"`
	CreatedAt time.Time    `json:"created_at"`
}
