package userRepo

import (
	"duet/models"

	"go.mongodb.org/mongo-driver/bson"
)

// UserRepository defines methods for user data access.
type UserRepository interface {
	// GetByID retrieves a user by their unique ID, or nil when absent.
	GetByID(id string) (*models.User, error)
	// GetByEmail retrieves a user by their email, or nil when absent.
	GetByEmail(email string) (*models.User, error)
	// GetByIDWithProjection retrieves selected fields of a user.
	GetByIDWithProjection(id string, projection bson.M) (*models.User, error)
	// Create inserts a new user record.
	Create(user *models.User) error
	// Update modifies an existing user record.
	Update(user *models.User) error
	// UpdateSetDocument applies a partial $set update to a user.
	UpdateSetDocument(id string, updateDoc bson.M) error
	// Delete removes a user record by its ID.
	Delete(id string) error
}
