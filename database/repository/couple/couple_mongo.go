package coupleRepo

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

// MongoCoupleRepo implements CoupleRepository using MongoDB.
type MongoCoupleRepo struct {
	coll *mongo.Collection
}

// NewMongoCoupleRepo creates a new instance of CoupleRepository using MongoDB.
func NewMongoCoupleRepo() CoupleRepository {
	coll := database.Collection("couples")
	repo := &MongoCoupleRepo{coll: coll}

	if err := repo.ensureIndexes(); err != nil {
		fmt.Printf("failed to create indexes: %v\n", err)
	}
	return repo
}

func newContext(timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), timeout)
}

// ensureIndexes enforces one couple per user on either side.
func (r *MongoCoupleRepo) ensureIndexes() error {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "partner1_id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "partner2_id", Value: 1}}, Options: options.Index().SetUnique(true)},
	}

	_, err := r.coll.Indexes().CreateMany(ctx, indexModels)
	if err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}

// GetByUserID finds a couple where the user is either partner.
func (r *MongoCoupleRepo) GetByUserID(userID string) (*models.Couple, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	filter := bson.M{"$or": []bson.M{
		{"partner1_id": userID},
		{"partner2_id": userID},
	}}

	var couple models.Couple
	if err := r.coll.FindOne(ctx, filter).Decode(&couple); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch couple for user %s: %w", userID, err)
	}
	return &couple, nil
}

// Create inserts a new couple document.
func (r *MongoCoupleRepo) Create(couple *models.Couple) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	couple.CreatedAt = time.Now()
	if _, err := r.coll.InsertOne(ctx, couple); err != nil {
		return fmt.Errorf("failed to create couple: %w", err)
	}
	return nil
}

// Delete removes a couple document by its ID.
func (r *MongoCoupleRepo) Delete(id string) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	result, err := r.coll.DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return fmt.Errorf("failed to delete couple with id %s: %w", id, err)
	}
	if result.DeletedCount == 0 {
		return fmt.Errorf("couple with id %s not found", id)
	}
	return nil
}
