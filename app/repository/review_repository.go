package repository

import (
	"context"

	"jejak-monev-backend/app/model"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ReviewRepository menyimpan jejak keputusan review di MongoDB
// (collection: review_events). Append-only; tidak pernah diubah atau dihapus.
type ReviewRepository interface {
	Insert(ctx context.Context, event *model.ReviewEvent) error
	FindByRecordID(ctx context.Context, recordID uuid.UUID) ([]model.ReviewEvent, error)
}

type reviewRepository struct {
	mongo *mongo.Database
}

// NewReviewRepository membuat instance baru reviewRepository.
func NewReviewRepository(mongoDB *mongo.Database) ReviewRepository {
	return &reviewRepository{mongo: mongoDB}
}

func (r *reviewRepository) Insert(ctx context.Context, event *model.ReviewEvent) error {
	_, err := r.mongo.Collection("review_events").InsertOne(ctx, event)
	return err
}

func (r *reviewRepository) FindByRecordID(ctx context.Context, recordID uuid.UUID) ([]model.ReviewEvent, error) {
	opts := options.Find().SetSort(bson.M{"createdAt": -1})
	cur, err := r.mongo.Collection("review_events").
		Find(ctx, bson.M{"recordId": recordID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	events := []model.ReviewEvent{}
	if err := cur.All(ctx, &events); err != nil {
		return nil, err
	}
	return events, nil
}
