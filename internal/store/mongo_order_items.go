package store

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"storefront/internal/models"
)

type MongoOrderItemStore struct {
	db *mongo.Database
}

func NewMongoOrderItemStore(db *mongo.Database) *MongoOrderItemStore {
	return &MongoOrderItemStore{db: db}
}

// InsertMany writes all items in one unordered batch and returns how many
// made it in. Order and item writes are not covered by one transaction; the
// caller turns a short count into a partial-persistence failure.
func (s *MongoOrderItemStore) InsertMany(ctx context.Context, items []models.OrderItem) (int, error) {
	if len(items) == 0 {
		return 0, nil
	}

	docs := make([]interface{}, 0, len(items))
	now := time.Now()
	for i := range items {
		items[i].CreatedAt = now
		docs = append(docs, items[i])
	}

	res, err := s.db.Collection("order_items").InsertMany(ctx, docs, options.InsertMany().SetOrdered(false))
	inserted := 0
	if res != nil {
		inserted = len(res.InsertedIDs)
	}
	return inserted, err
}

func (s *MongoOrderItemStore) ListByOrder(ctx context.Context, orderID primitive.ObjectID) ([]models.OrderItem, error) {
	cursor, err := s.db.Collection("order_items").Find(ctx, bson.M{"orderId": orderID})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var items []models.OrderItem
	if err := cursor.All(ctx, &items); err != nil {
		return nil, err
	}
	return items, nil
}
