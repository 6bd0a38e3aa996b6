package invitationRepo

import (
	"context"
	"fmt"
	"time"

	"duet/database"
	"duet/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoInvitationRepo implements InvitationRepository using MongoDB.
type MongoInvitationRepo struct {
	coll *mongo.Collection
}

// NewMongoInvitationRepo creates a new instance of InvitationRepository using MongoDB.
func NewMongoInvitationRepo() InvitationRepository {
	coll := database.Collection("invitations")
	repo := &MongoInvitationRepo{coll: coll}

	if err := repo.ensureIndexes(); err != nil {
		fmt.Printf("failed to create indexes: %v\n", err)
	}
	return repo
}

func newContext(timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), timeout)
}

func (r *MongoInvitationRepo) ensureIndexes() error {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "token", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "inviter_id", Value: 1}, {Key: "invitee_email", Value: 1}}},
		{Keys: bson.D{{Key: "status", Value: 1}, {Key: "expires_at", Value: 1}}},
	}

	_, err := r.coll.Indexes().CreateMany(ctx, indexModels)
	if err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}

// GetByToken retrieves an invitation by its token.
func (r *MongoInvitationRepo) GetByToken(token string) (*models.Invitation, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	var inv models.Invitation
	if err := r.coll.FindOne(ctx, bson.M{"token": token}).Decode(&inv); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch invitation by token: %w", err)
	}
	return &inv, nil
}

// GetPending finds a pending invitation from inviterID to inviteeEmail.
func (r *MongoInvitationRepo) GetPending(inviterID, inviteeEmail string) (*models.Invitation, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	filter := bson.M{
		"inviter_id":    inviterID,
		"invitee_email": inviteeEmail,
		"status":        models.InvitationPending,
	}

	var inv models.Invitation
	if err := r.coll.FindOne(ctx, filter).Decode(&inv); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch pending invitation: %w", err)
	}
	return &inv, nil
}

// Create inserts a new invitation document.
func (r *MongoInvitationRepo) Create(inv *models.Invitation) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	inv.CreatedAt = time.Now()
	if _, err := r.coll.InsertOne(ctx, inv); err != nil {
		return fmt.Errorf("failed to create invitation: %w", err)
	}
	return nil
}

// UpdateStatus transitions an invitation's lifecycle state.
func (r *MongoInvitationRepo) UpdateStatus(id, status string) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	update := bson.M{"$set": bson.M{"status": status}}
	result, err := r.coll.UpdateOne(ctx, bson.M{"id": id}, update)
	if err != nil {
		return fmt.Errorf("failed to update invitation %s: %w", id, err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("invitation with id %s not found", id)
	}
	return nil
}

// ExpirePending marks stale pending invitations as expired.
func (r *MongoInvitationRepo) ExpirePending() (int64, error) {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	filter := bson.M{
		"status":     models.InvitationPending,
		"expires_at": bson.M{"$lt": time.Now()},
	}
	update := bson.M{"$set": bson.M{"status": models.InvitationExpired}}

	result, err := r.coll.UpdateMany(ctx, filter, update)
	if err != nil {
		return 0, fmt.Errorf("failed to expire pending invitations: %w", err)
	}
	return result.ModifiedCount, nil
}
