package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"happythoughts/internal/model"
)

const thoughtsCollection = "thoughts"

type mongoThoughtRepository struct {
	collection *mongo.Collection
}

// NewMongoThoughtRepository builds a MongoDB-backed thought repository.
func NewMongoThoughtRepository(db *mongo.Database) ThoughtRepository {
	return &mongoThoughtRepository{collection: db.Collection(thoughtsCollection)}
}

func (r *mongoThoughtRepository) Create(ctx context.Context, thought *model.Thought) error {
	if thought.ID == "" {
		thought.ID = uuid.NewString()
	}
	_, err := r.collection.InsertOne(ctx, thought)
	return err
}

func (r *mongoThoughtRepository) ListRecent(ctx context.Context, limit int) ([]model.Thought, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetLimit(int64(limit))

	cursor, err := r.collection.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, err
	}

	thoughts := make([]model.Thought, 0, limit)
	if err := cursor.All(ctx, &thoughts); err != nil {
		return nil, err
	}
	return thoughts, nil
}

func (r *mongoThoughtRepository) IncrementHearts(ctx context.Context, id string) (*model.Thought, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var thought model.Thought
	err := r.collection.FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$inc": bson.M{"hearts": 1}},
		opts,
	).Decode(&thought)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &thought, nil
}
