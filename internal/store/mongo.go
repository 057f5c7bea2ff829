package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/hkale/quotes-api/internal/models"
)

// MongoStore handles quote CRUD in MongoDB.
type MongoStore struct {
	col *mongo.Collection
}

func NewMongoStore(db *mongo.Database) *MongoStore {
	return &MongoStore{col: db.Collection("quotes")}
}

func (s *MongoStore) Insert(ctx context.Context, q *models.Quote) (string, error) {
	now := time.Now()
	q.CreatedAt = now
	q.UpdatedAt = now
	res, err := s.col.InsertOne(ctx, q)
	if err != nil {
		return "", fmt.Errorf("mongo insert: %w", err)
	}
	oid := res.InsertedID.(primitive.ObjectID)
	q.ID = oid
	return oid.Hex(), nil
}

func (s *MongoStore) InsertMany(ctx context.Context, quotes []models.Quote) error {
	now := time.Now()
	docs := make([]interface{}, len(quotes))
	for i := range quotes {
		quotes[i].CreatedAt = now
		quotes[i].UpdatedAt = now
		docs[i] = quotes[i]
	}
	if _, err := s.col.InsertMany(ctx, docs); err != nil {
		return fmt.Errorf("mongo insert many: %w", err)
	}
	return nil
}

// List returns all quotes, filtered by category when one is given.
func (s *MongoStore) List(ctx context.Context, category string) ([]models.Quote, error) {
	filter := bson.M{}
	if category != "" {
		filter["category"] = category
	}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := s.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("mongo find: %w", err)
	}
	defer cur.Close(ctx)

	quotes := []models.Quote{}
	if err := cur.All(ctx, &quotes); err != nil {
		return nil, fmt.Errorf("mongo decode: %w", err)
	}
	return quotes, nil
}

// Random returns one uniformly-sampled quote via a $sample aggregation,
// optionally restricted to a category.
func (s *MongoStore) Random(ctx context.Context, category string) (*models.Quote, error) {
	pipeline := mongo.Pipeline{}
	if category != "" {
		pipeline = append(pipeline, bson.D{{Key: "$match", Value: bson.M{"category": category}}})
	}
	pipeline = append(pipeline, bson.D{{Key: "$sample", Value: bson.M{"size": 1}}})

	cur, err := s.col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("mongo aggregate: %w", err)
	}
	defer cur.Close(ctx)

	var quotes []models.Quote
	if err := cur.All(ctx, &quotes); err != nil {
		return nil, fmt.Errorf("mongo decode: %w", err)
	}
	if len(quotes) == 0 {
		return nil, ErrNotFound
	}
	return &quotes[0], nil
}

func (s *MongoStore) GetByID(ctx context.Context, id string) (*models.Quote, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("invalid id: %w", err)
	}
	var q models.Quote
	err = s.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&q)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("mongo find one: %w", err)
	}
	return &q, nil
}

// FindByText looks up a quote with the same text and author, used for
// duplicate detection on create.
func (s *MongoStore) FindByText(ctx context.Context, text, author string) (*models.Quote, error) {
	var q models.Quote
	err := s.col.FindOne(ctx, bson.M{"quote": text, "author": author}).Decode(&q)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("mongo find one: %w", err)
	}
	return &q, nil
}

// Update applies a partial update and returns the updated quote.
func (s *MongoStore) Update(ctx context.Context, id string, fields bson.M) (*models.Quote, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("invalid id: %w", err)
	}
	fields["updated_at"] = time.Now()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var q models.Quote
	err = s.col.FindOneAndUpdate(ctx, bson.M{"_id": oid}, bson.M{"$set": fields}, opts).Decode(&q)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("mongo update: %w", err)
	}
	return &q, nil
}

// Delete removes a quote and returns the deleted document.
func (s *MongoStore) Delete(ctx context.Context, id string) (*models.Quote, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("invalid id: %w", err)
	}
	var q models.Quote
	err = s.col.FindOneAndDelete(ctx, bson.M{"_id": oid}).Decode(&q)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("mongo delete: %w", err)
	}
	return &q, nil
}

// DeleteByOwner removes every quote created by the given user and returns
// how many were deleted. Used by the account-deletion cascade.
func (s *MongoStore) DeleteByOwner(ctx context.Context, userID string) (int64, error) {
	res, err := s.col.DeleteMany(ctx, bson.M{"created_by": userID})
	if err != nil {
		return 0, fmt.Errorf("mongo delete many: %w", err)
	}
	return res.DeletedCount, nil
}

// Count returns the total number of quotes, used by first-run seeding.
func (s *MongoStore) Count(ctx context.Context) (int64, error) {
	n, err := s.col.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("mongo count: %w", err)
	}
	return n, nil
}
