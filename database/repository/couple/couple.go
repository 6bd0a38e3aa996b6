package coupleRepo

import "duet/models"

// CoupleRepository defines methods for couple data access.
type CoupleRepository interface {
	// GetByUserID finds the couple a user belongs to, on either side.
	// Returns nil when the user is not coupled.
	GetByUserID(userID string) (*models.Couple, error)
	// Create inserts a new couple record.
	Create(couple *models.Couple) error
	// Delete removes a couple record by its ID.
	Delete(id string) error
}
